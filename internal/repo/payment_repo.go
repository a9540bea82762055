// Package repo – payment-event audit trail.
//
// Every accepted confirmation and free activation appends a row to the
// payment_events table. When the payment transport supplies a stable
// event id, the unique index on event_id turns redelivered confirmations
// into ErrDuplicateEvent, which the processor uses to short-circuit
// without re-crediting.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-entitlement-backend/internal/domain"
)

// ErrDuplicateEvent indicates that a payment event with the same external
// event id has already been recorded.
var ErrDuplicateEvent = errors.New("duplicate payment event")

// RecordPaymentEvent appends an audit row for a processed confirmation or
// free activation. eventID may be empty (transport without event ids);
// a non-empty eventID that collides with an existing row returns
// ErrDuplicateEvent.
func RecordPaymentEvent(ctx context.Context, db *gorm.DB, userID, reference string, amount int64, eventID string, outcome domain.OutcomeKind) (*domain.PaymentEvent, error) {
	rec := &domain.PaymentEvent{
		ID:        uuid.NewString(),
		UserID:    userID,
		Reference: reference,
		Amount:    amount,
		Outcome:   string(outcome),
		CreatedAt: time.Now().UTC(),
	}
	if eventID != "" {
		rec.EventID = &eventID
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
		low := strings.ToLower(err.Error())
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(low, "unique constraint failed") ||
			strings.Contains(low, "constraint failed: unique") {
			return nil, ErrDuplicateEvent
		}
		return nil, err
	}
	return rec, nil
}

// GetPaymentEventByEventID returns the audit row recorded for an external
// event id, or ErrNotFound.
func GetPaymentEventByEventID(ctx context.Context, db *gorm.DB, eventID string) (*domain.PaymentEvent, error) {
	if strings.TrimSpace(eventID) == "" {
		return nil, ErrNotFound
	}
	var rec domain.PaymentEvent
	err := db.WithContext(ctx).Where("event_id = ?", eventID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CountPaymentEvents returns the total number of audit rows.
func CountPaymentEvents(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.PaymentEvent{}).Count(&count).Error
	return count, err
}

// ListPaymentEventsPage returns a page of audit rows, newest first.
func ListPaymentEventsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.PaymentEvent, error) {
	var rows []domain.PaymentEvent
	err := db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
