// Package store defines the EntitlementStore contract: the durable
// mapping from a user to their current membership record. The store is
// the only shared mutable state in the core, so the contract is explicit
// about concurrency: reads observe consistent snapshots, and writes for
// the same user are serialized so no partial record is ever observable.
// Cross-user operations must not contend on a shared global lock.
//
// Two backends exist: the in-memory Memory store in this package (the
// single-process default; state does not survive a restart) and the
// SQLite-backed repo.GormStore for deployments that need durability.
package store

import (
	"context"
	"time"

	"github.com/tbourn/go-entitlement-backend/internal/domain"
)

// DefaultMembershipDuration is the validity window applied to a grant
// when no duration is configured.
const DefaultMembershipDuration = 30 * 24 * time.Hour

// EntitlementStore maps users to their current membership record.
//
// Semantics:
//   - GetActiveMembership returns (nil, nil) when the user has no record
//     or the record has expired; expiry is computed here, at read time,
//     so "active" has exactly one definition.
//   - Grant replaces any existing record unconditionally and returns the
//     new record. Concurrent grants for the same user resolve
//     last-write-wins by order of application.
type EntitlementStore interface {
	GetActiveMembership(ctx context.Context, userID string, now time.Time) (*domain.Membership, error)
	Grant(ctx context.Context, userID, tierKey string, now time.Time) (*domain.Membership, error)
}
