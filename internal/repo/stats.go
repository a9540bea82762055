// Package repo – aggregate/statistics queries.
//
// Small aggregate queries over the payment audit trail, used primarily
// for conditional responses (ETag generation) on the operator listing
// endpoint. Context-aware and safe to call from services or handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-entitlement-backend/internal/domain"
)

// PaymentEventsStats returns aggregate metadata for the payment audit
// trail: the total number of rows and the maximum CreatedAt timestamp
// among them. When the table is empty, count is 0 and maxCreatedAt is
// nil.
//
// Return values:
//   - count:        total payment events
//   - maxCreatedAt: pointer to the greatest CreatedAt, or nil if no rows
//   - err:          database error, if any
func PaymentEventsStats(ctx context.Context, db *gorm.DB) (count int64, maxCreatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.PaymentEvent{})

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest created_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		CreatedAt time.Time
	}
	if err = q.Select("created_at").Order("created_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.CreatedAt, nil
}
