package catalog

import "github.com/tbourn/go-entitlement-backend/internal/domain"

// DefaultProducts returns the built-in catalog: the membership ladder plus
// the two per-document services. Deployments override it with a JSON
// catalog file (see config.CatalogPath); the defaults keep a fresh
// checkout fully functional.
func DefaultProducts() []domain.Product {
	return []domain.Product{
		{Key: "mem-free", Title: "Free Member", Description: "Entry tier, no paid entitlements.", Price: 0, Category: domain.CategoryMembership},
		{Key: "mem-verified", Title: "Verified Member", Description: "Monthly access tier (manual renewal).", Price: 550, Category: domain.CategoryMembership},
		{Key: "mem-pro", Title: "Pro Member", Description: "Monthly access tier (manual renewal).", Price: 1500, Category: domain.CategoryMembership},
		{Key: "mem-vip", Title: "Vip Member", Description: "Monthly access tier (manual renewal).", Price: 5000, Category: domain.CategoryMembership},
		{Key: "mem-king", Title: "The Oil King", Description: "Unlimited reviews and a dedicated manager.", Price: 300000, Category: domain.CategoryMembership},
		{Key: "verify-member", Title: "Document Review (Member)", Description: "Per-document review at the member rate.", Price: 150, Category: domain.CategoryDocumentMember},
		{Key: "verify-guest", Title: "Document Review (Guest)", Description: "Per-document review, no membership required.", Price: 350, Category: domain.CategoryDocumentGuest},
	}
}

// Default builds a catalog from DefaultProducts. The built-in set is
// known-valid, so construction cannot fail.
func Default() *Catalog {
	return MustNew(DefaultProducts())
}
