// Package services – EntitlementGate
//
// The gate is the single authorization decision point for purchases.
// Every purchase path — interactive clicks and deep-link start
// parameters alike — must pass through Authorize; there is no bypass.
// The gate is side-effect-free: it reads the entitlement store and never
// writes, so any future tier or rule change is a change to this one
// decision table rather than new branching scattered across handlers.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/tbourn/go-entitlement-backend/internal/catalog"
	"github.com/tbourn/go-entitlement-backend/internal/domain"
	"github.com/tbourn/go-entitlement-backend/internal/store"
)

// EntitlementGate decides whether a user may purchase a product. It is
// safe for concurrent use; both collaborators are read-only here.
type EntitlementGate struct {
	// Catalog resolves product keys; immutable after startup.
	Catalog *catalog.Catalog
	// Store supplies the user's current membership state.
	Store store.EntitlementStore
	// Now supplies the clock; defaults to time.Now (UTC) when nil.
	Now func() time.Time
}

// Authorize evaluates the purchase rules in order and returns the
// resolved product on success.
//
// Rules:
//  1. Unknown product key: ErrUnknownProduct.
//  2. Membership tiers are always purchasable; a new purchase re-grants
//     and restarts the validity window.
//  3. Member-priced document products require an active membership whose
//     tier is not the zero-price free tier; otherwise
//     ErrRequiresPaidMembership.
//  4. Guest-priced document products are always purchasable.
//
// Authorize never mutates state.
func (g *EntitlementGate) Authorize(ctx context.Context, userID, productKey string) (domain.Product, error) {
	p, err := g.Catalog.Find(productKey)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			purchaseDenials.WithLabelValues("unknown_product").Inc()
			return domain.Product{}, ErrUnknownProduct
		}
		return domain.Product{}, err
	}

	switch p.Category {
	case domain.CategoryMembership, domain.CategoryDocumentGuest:
		return p, nil

	case domain.CategoryDocumentMember:
		rec, err := g.Store.GetActiveMembership(ctx, userID, g.now())
		if err != nil {
			return domain.Product{}, err
		}
		if rec == nil {
			purchaseDenials.WithLabelValues("membership_required").Inc()
			return domain.Product{}, ErrRequiresPaidMembership
		}
		tier, err := g.Catalog.Find(rec.Tier)
		if err != nil || tier.Free() {
			// An unknown tier on record is treated like the free tier:
			// it confers no paid entitlement.
			purchaseDenials.WithLabelValues("membership_required").Inc()
			return domain.Product{}, ErrRequiresPaidMembership
		}
		return p, nil
	}

	// Catalog validation rejects unknown categories at startup, so this
	// is unreachable for any product the catalog handed out.
	return domain.Product{}, ErrUnknownProduct
}

func (g *EntitlementGate) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now().UTC()
}
