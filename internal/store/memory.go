package store

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/tbourn/go-entitlement-backend/internal/domain"
)

// userStripes is the number of lock stripes in the Memory store. Writes
// for the same user always hash to the same stripe, which serializes
// them; users on different stripes never contend.
const userStripes = 64

// Memory is the in-memory EntitlementStore. It is safe for concurrent
// use by multiple goroutines. State is volatile: callers needing
// durability across restarts must use a persistent backend instead.
type Memory struct {
	duration time.Duration

	stripes [userStripes]sync.Mutex
	mu      sync.RWMutex
	records map[string]domain.Membership
}

// NewMemory builds an empty in-memory store. A non-positive duration
// falls back to DefaultMembershipDuration.
func NewMemory(duration time.Duration) *Memory {
	if duration <= 0 {
		duration = DefaultMembershipDuration
	}
	return &Memory{
		duration: duration,
		records:  make(map[string]domain.Membership),
	}
}

// GetActiveMembership returns a copy of the user's record, or (nil, nil)
// when absent or expired.
func (s *Memory) GetActiveMembership(_ context.Context, userID string, now time.Time) (*domain.Membership, error) {
	s.mu.RLock()
	rec, ok := s.records[userID]
	s.mu.RUnlock()

	if !ok || !rec.ActiveAt(now) {
		return nil, nil
	}
	return &rec, nil
}

// Grant replaces the user's record with a fresh one valid for the
// configured duration starting at now.
func (s *Memory) Grant(_ context.Context, userID, tierKey string, now time.Time) (*domain.Membership, error) {
	stripe := &s.stripes[stripeFor(userID)]
	stripe.Lock()
	defer stripe.Unlock()

	rec := domain.Membership{
		UserID:    userID,
		Tier:      tierKey,
		GrantedAt: now,
		ExpiresAt: now.Add(s.duration),
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.records[userID] = rec
	s.mu.Unlock()

	return &rec, nil
}

func stripeFor(userID string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return h.Sum32() % userStripes
}
