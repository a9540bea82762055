// Package domain defines the core value types and persistence models of
// the entitlement backend: the product catalog entries, the per-user
// membership record, the payment audit trail, and the normalized outcome
// emitted after a confirmed payment. Persistence models are mapped with
// GORM and shared across the repository and service layers.
package domain

// ProductCategory classifies a catalog entry. The category drives the
// authorization rules: membership tiers are always purchasable, guest
// document services are open to everyone, and member-priced document
// services require an active paid membership.
type ProductCategory string

const (
	// CategoryMembership is a recurring membership tier. Purchasing it
	// (re)grants a time-bounded membership record.
	CategoryMembership ProductCategory = "membership"

	// CategoryDocumentMember is a per-document service at the member
	// price. Only users with an active paid membership may buy it.
	CategoryDocumentMember ProductCategory = "document_member"

	// CategoryDocumentGuest is a per-document service at the guest
	// price, purchasable without any membership.
	CategoryDocumentGuest ProductCategory = "document_guest"
)

// Valid reports whether c is one of the known categories.
func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryMembership, CategoryDocumentMember, CategoryDocumentGuest:
		return true
	}
	return false
}

// Product is an immutable catalog entry. Products are defined once at
// process start and never mutated; the catalog package validates and
// indexes them.
//
// Fields:
//   - Key: unique, stable identifier used in payment references and deep
//     links. Keys are matched case-insensitively and must not contain ':'
//     (the reference delimiter).
//   - Title / Description: display metadata carried on outbound payment
//     requests.
//   - Price: non-negative amount in the smallest currency unit. A price
//     of zero marks a free tier: issuing it activates directly with no
//     payment round-trip.
//   - Category: see ProductCategory.
type Product struct {
	Key         string          `json:"key"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       int64           `json:"price"`
	Category    ProductCategory `json:"category"`
}

// Free reports whether the product costs nothing and therefore follows
// the direct-activation path instead of the payment round-trip.
func (p Product) Free() bool { return p.Price == 0 }

// IsMembership reports whether the product is a membership tier.
func (p Product) IsMembership() bool { return p.Category == CategoryMembership }
