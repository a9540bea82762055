// Package utils holds small helpers shared across layers, primarily the
// integer parsing and offset math behind paginated list endpoints.
package utils

import "strconv"

// AtoiDefault parses s as an int, falling back to def when s is empty or
// not a plain base-10 integer. Query parameters arrive as strings and a
// malformed value should degrade to the endpoint default, not error.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// Offset converts a 1-based page number and page size into the row
// offset for a LIMIT/OFFSET query. Pages below 1 clamp to the first page.
func Offset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}
