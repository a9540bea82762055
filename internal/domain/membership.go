package domain

import "time"

// Membership is the durable per-user entitlement record. At most one row
// exists per user (user_id is the primary key); a new grant replaces the
// previous record rather than merging with it. Expiry is never swept in
// the background: a record is "active" exactly when the read-side check
// in the store finds now <= expires_at.
//
// Fields:
//   - UserID: owner of the record; primary key, so concurrent grants for
//     the same user collapse to last-write-wins at the storage layer.
//   - Tier: product key of the membership tier that was granted.
//   - GrantedAt / ExpiresAt: window of validity; ExpiresAt is always
//     GrantedAt plus the configured membership duration.
//   - UpdatedAt: bookkeeping timestamp managed by GORM.
type Membership struct {
	UserID    string    `json:"user_id"    gorm:"type:varchar(64);primaryKey"`
	Tier      string    `json:"tier"       gorm:"type:varchar(64);not null"`
	GrantedAt time.Time `json:"granted_at" gorm:"not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
	UpdatedAt time.Time `json:"-"`
}

// TableName returns the database table name for Membership.
func (Membership) TableName() string { return "memberships" }

// ActiveAt reports whether the record is valid at the given instant.
func (m Membership) ActiveAt(now time.Time) bool {
	return !now.After(m.ExpiresAt)
}
