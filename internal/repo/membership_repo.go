// Package repo – persistent EntitlementStore backend.
//
// GormStore implements store.EntitlementStore on top of SQLite. Per-user
// write serialization comes from the storage engine itself: memberships
// are keyed by user_id (primary key) and grants are upserts inside a
// transaction, so concurrent grants for the same user collapse to
// last-write-wins without ever exposing a partially written row.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-entitlement-backend/internal/domain"
	"github.com/tbourn/go-entitlement-backend/internal/store"
)

// GormStore is the SQLite-backed EntitlementStore. Use it instead of the
// in-memory default when membership state must survive restarts.
type GormStore struct {
	// DB is the database handle used for all membership operations.
	DB *gorm.DB
	// Duration is the validity window applied to each grant. Zero falls
	// back to store.DefaultMembershipDuration.
	Duration time.Duration
}

// compile-time interface check
var _ store.EntitlementStore = (*GormStore)(nil)

// NewGormStore builds a GormStore over db with the given membership
// duration.
func NewGormStore(db *gorm.DB, duration time.Duration) *GormStore {
	if duration <= 0 {
		duration = store.DefaultMembershipDuration
	}
	return &GormStore{DB: db, Duration: duration}
}

// GetActiveMembership loads the user's record and applies the expiry
// check at read time. Absent and expired records both yield (nil, nil);
// expired rows are left in place for audit and simply shadowed.
func (s *GormStore) GetActiveMembership(ctx context.Context, userID string, now time.Time) (*domain.Membership, error) {
	var rec domain.Membership
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !rec.ActiveAt(now) {
		return nil, nil
	}
	return &rec, nil
}

// Grant upserts the user's record: an existing row is replaced wholesale,
// a missing row is inserted. Runs in a transaction so the replacement is
// atomic.
func (s *GormStore) Grant(ctx context.Context, userID, tierKey string, now time.Time) (*domain.Membership, error) {
	dur := s.Duration
	if dur <= 0 {
		dur = store.DefaultMembershipDuration
	}
	rec := domain.Membership{
		UserID:    userID,
		Tier:      tierKey,
		GrantedAt: now,
		ExpiresAt: now.Add(dur),
		UpdatedAt: now,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).Create(&rec).Error
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
