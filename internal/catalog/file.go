package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tbourn/go-entitlement-backend/internal/domain"
)

// LoadFile reads a JSON product list from path and builds a catalog from
// it. The file is an array of product objects:
//
//	[
//	  {"key": "mem-pro", "title": "Pro Member", "price": 1500, "category": "membership"},
//	  {"key": "verify-guest", "price": 350, "category": "document_guest"}
//	]
//
// Validation is the same as New: any duplicate or malformed entry makes
// startup fail.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	var products []domain.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	return New(products)
}

// Load builds the catalog for the given configuration: the JSON file at
// path when non-empty, the built-in set otherwise.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}
