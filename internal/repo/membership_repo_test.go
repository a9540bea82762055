package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-entitlement-backend/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", uuid.NewString())

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

func TestGormStore_GetActiveMembership_Empty(t *testing.T) {
	s := NewGormStore(newTestDB(t), 0)

	rec, err := s.GetActiveMembership(context.Background(), "u1", time.Now().UTC())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil record, got %+v", rec)
	}
}

func TestGormStore_GrantThenRead(t *testing.T) {
	s := NewGormStore(newTestDB(t), 30*24*time.Hour)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	granted, err := s.Grant(context.Background(), "u1", "mem-pro", now)
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if !granted.ExpiresAt.Equal(now.Add(30 * 24 * time.Hour)) {
		t.Fatalf("expires_at = %v", granted.ExpiresAt)
	}

	rec, err := s.GetActiveMembership(context.Background(), "u1", now.Add(time.Hour))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec == nil || rec.Tier != "mem-pro" {
		t.Fatalf("got %+v", rec)
	}
}

func TestGormStore_GrantReplaces(t *testing.T) {
	db := newTestDB(t)
	s := NewGormStore(db, 30*24*time.Hour)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	later := now.Add(2 * time.Hour)

	if _, err := s.Grant(context.Background(), "u1", "mem-verified", now); err != nil {
		t.Fatalf("grant A: %v", err)
	}
	if _, err := s.Grant(context.Background(), "u1", "mem-pro", later); err != nil {
		t.Fatalf("grant B: %v", err)
	}

	// Exactly one row exists; replacement, not accumulation.
	var count int64
	if err := db.Model(&domain.Membership{}).Where("user_id = ?", "u1").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 membership row, got %d", count)
	}

	rec, _ := s.GetActiveMembership(context.Background(), "u1", later)
	if rec == nil || rec.Tier != "mem-pro" {
		t.Fatalf("expected mem-pro after replacement, got %+v", rec)
	}
	if !rec.GrantedAt.Equal(later) {
		t.Fatalf("window not restarted: granted=%v", rec.GrantedAt)
	}
}

func TestGormStore_ExpiredRecordShadowed(t *testing.T) {
	s := NewGormStore(newTestDB(t), time.Hour)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	if _, err := s.Grant(context.Background(), "u1", "mem-pro", now); err != nil {
		t.Fatalf("grant: %v", err)
	}

	rec, err := s.GetActiveMembership(context.Background(), "u1", now.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec != nil {
		t.Fatalf("expired record returned: %+v", rec)
	}

	// Re-granting after expiry revives the user.
	if _, err := s.Grant(context.Background(), "u1", "mem-vip", now.Add(3*time.Hour)); err != nil {
		t.Fatalf("re-grant: %v", err)
	}
	rec, _ = s.GetActiveMembership(context.Background(), "u1", now.Add(3*time.Hour))
	if rec == nil || rec.Tier != "mem-vip" {
		t.Fatalf("got %+v", rec)
	}
}
