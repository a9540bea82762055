package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-entitlement-backend/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := db.AutoMigrate(&domain.Membership{}, &domain.PaymentEvent{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// fakeTransport records outbound payment requests and can be told to fail
// or to block until the context is cancelled.
type fakeTransport struct {
	mu    sync.Mutex
	sent  []domain.PaymentRequest
	err   error
	block bool
}

func (f *fakeTransport) SendPaymentRequest(ctx context.Context, userID string, req domain.PaymentRequest) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.sent = append(f.sent, req)
	f.mu.Unlock()
	return nil
}

func (f *fakeTransport) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// fakeNotifier records deliveries per recipient and fails for recipients
// listed in failFor.
type fakeNotifier struct {
	mu      sync.Mutex
	sent    []string
	kinds   []domain.OutcomeKind
	failFor map[string]bool
}

func (f *fakeNotifier) Send(_ context.Context, recipient string, outcome domain.Outcome) error {
	if f.failFor[recipient] {
		return errors.New("recipient unreachable")
	}
	f.mu.Lock()
	f.sent = append(f.sent, recipient)
	f.kinds = append(f.kinds, outcome.Kind)
	f.mu.Unlock()
	return nil
}

func (f *fakeNotifier) deliveries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sent))
	copy(out, f.sent)
	return out
}
