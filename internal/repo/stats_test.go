package repo

import (
	"context"
	"testing"

	"github.com/tbourn/go-entitlement-backend/internal/domain"
)

func TestPaymentEventsStats_Empty(t *testing.T) {
	db := newTestDB(t)

	count, maxAt, err := PaymentEventsStats(context.Background(), db)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if count != 0 || maxAt != nil {
		t.Fatalf("expected (0, nil), got (%d, %v)", count, maxAt)
	}
}

func TestPaymentEventsStats_CountsAndMaxTimestamp(t *testing.T) {
	db := newTestDB(t)

	first, err := RecordPaymentEvent(context.Background(), db, "u1", "mem-pro:1500", 1500, "evt-a", domain.OutcomeMembershipGranted)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	second, err := RecordPaymentEvent(context.Background(), db, "u2", "verify-guest:350", 350, "evt-b", domain.OutcomeDocumentCredited)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	count, maxAt, err := PaymentEventsStats(context.Background(), db)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d", count)
	}
	if maxAt == nil {
		t.Fatal("expected non-nil max timestamp")
	}
	if maxAt.Before(first.CreatedAt) || maxAt.Before(second.CreatedAt.Add(-1)) {
		t.Fatalf("max timestamp %v predates inserts", maxAt)
	}
}
