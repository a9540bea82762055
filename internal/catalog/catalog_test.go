package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/tbourn/go-entitlement-backend/internal/domain"
)

func TestNew_RejectsDuplicateKeys(t *testing.T) {
	_, err := New([]domain.Product{
		{Key: "mem-pro", Price: 1500, Category: domain.CategoryMembership},
		{Key: "MEM-PRO", Price: 2000, Category: domain.CategoryMembership},
	})
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate-key error, got %v", err)
	}
}

func TestNew_RejectsColonInKey(t *testing.T) {
	_, err := New([]domain.Product{
		{Key: "mem:pro", Price: 1500, Category: domain.CategoryMembership},
	})
	if err == nil {
		t.Fatal("expected error for key containing ':'")
	}
}

func TestNew_RejectsNegativePrice(t *testing.T) {
	_, err := New([]domain.Product{
		{Key: "mem-pro", Price: -1, Category: domain.CategoryMembership},
	})
	if err == nil {
		t.Fatal("expected error for negative price")
	}
}

func TestNew_RejectsUnknownCategory(t *testing.T) {
	_, err := New([]domain.Product{
		{Key: "mem-pro", Price: 1500, Category: "bundle"},
	})
	if err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestNew_RejectsEmptyCatalog(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error for empty catalog")
	}
}

func TestNew_DerivesMissingTitle(t *testing.T) {
	c, err := New([]domain.Product{
		{Key: "mem-pro", Price: 1500, Category: domain.CategoryMembership},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := c.Find("mem-pro")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if p.Title != "Mem Pro" {
		t.Fatalf("derived title = %q, want %q", p.Title, "Mem Pro")
	}
}

func TestFind_CaseNormalized(t *testing.T) {
	c := Default()

	p, err := c.Find("  MEM-Pro ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Key != "mem-pro" || p.Price != 1500 {
		t.Fatalf("got %+v", p)
	}
}

func TestFind_NotFound(t *testing.T) {
	c := Default()
	if _, err := c.Find("no-such-product"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProducts_PreservesOrderAndCopies(t *testing.T) {
	c := Default()

	got := c.Products()
	if len(got) != c.Len() {
		t.Fatalf("len mismatch: %d vs %d", len(got), c.Len())
	}
	if got[0].Key != "mem-free" || got[len(got)-1].Key != "verify-guest" {
		t.Fatalf("unexpected ordering: first=%q last=%q", got[0].Key, got[len(got)-1].Key)
	}

	got[0].Key = "mutated"
	again, err := c.Find("mem-free")
	if err != nil || again.Key != "mem-free" {
		t.Fatalf("catalog mutated through Products() copy: %v %+v", err, again)
	}
}
