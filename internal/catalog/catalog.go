// Package catalog implements the static product registry. The catalog is
// built once at startup from configuration, validated eagerly (duplicate
// or malformed keys are a fatal misconfiguration, surfaced before any
// request is served), and is immutable afterwards, so lookups need no
// synchronization.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/go-entitlement-backend/internal/domain"
)

// ErrNotFound is returned by Find when no product carries the requested
// key. Callers must treat it as a user input error, not a fault.
var ErrNotFound = errors.New("product not found")

// Catalog is an immutable, key-indexed set of products. Keys are matched
// case-insensitively; the declared ordering of products is preserved for
// listing.
type Catalog struct {
	byKey   map[string]domain.Product
	ordered []domain.Product
}

// New validates and indexes the given products.
//
// Validation is strict because catalog problems are programmer errors
// that must fail fast at startup:
//   - empty keys and keys containing ':' (the reference delimiter) are
//     rejected,
//   - duplicate keys (case-insensitive) are rejected,
//   - negative prices and unknown categories are rejected.
//
// A product declared without a title gets one derived from its key
// ("mem-pro" becomes "Mem Pro").
func New(products []domain.Product) (*Catalog, error) {
	if len(products) == 0 {
		return nil, errors.New("catalog: no products configured")
	}

	titler := cases.Title(language.English)
	c := &Catalog{
		byKey:   make(map[string]domain.Product, len(products)),
		ordered: make([]domain.Product, 0, len(products)),
	}
	for _, p := range products {
		key := normalizeKey(p.Key)
		switch {
		case key == "":
			return nil, errors.New("catalog: product with empty key")
		case strings.Contains(key, ":"):
			return nil, fmt.Errorf("catalog: product key %q contains ':'", p.Key)
		case p.Price < 0:
			return nil, fmt.Errorf("catalog: product %q has negative price %d", key, p.Price)
		case !p.Category.Valid():
			return nil, fmt.Errorf("catalog: product %q has unknown category %q", key, p.Category)
		}
		if _, dup := c.byKey[key]; dup {
			return nil, fmt.Errorf("catalog: duplicate product key %q", key)
		}

		p.Key = key
		if strings.TrimSpace(p.Title) == "" {
			p.Title = titler.String(strings.ReplaceAll(key, "-", " "))
		}
		c.byKey[key] = p
		c.ordered = append(c.ordered, p)
	}
	return c, nil
}

// MustNew is New that panics on validation failure. Intended for startup
// paths where a broken catalog must stop the process.
func MustNew(products []domain.Product) *Catalog {
	c, err := New(products)
	if err != nil {
		panic(err)
	}
	return c
}

// Find returns the product with the given key, matched after case
// normalization. It returns ErrNotFound for absent keys.
func (c *Catalog) Find(key string) (domain.Product, error) {
	p, ok := c.byKey[normalizeKey(key)]
	if !ok {
		return domain.Product{}, ErrNotFound
	}
	return p, nil
}

// Products returns the catalog entries in declaration order. The slice is
// a copy; mutating it does not affect the catalog.
func (c *Catalog) Products() []domain.Product {
	out := make([]domain.Product, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Len returns the number of products in the catalog.
func (c *Catalog) Len() int { return len(c.ordered) }

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
