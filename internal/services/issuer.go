// Package services – PaymentRequestIssuer
//
// The issuer turns an authorized purchase intent into an outbound payment
// request, or activates a zero-price tier directly. The free-activation
// path is the one place where issuance mutates state: a free "purchase"
// has no external confirmation step, so the grant happens here.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tbourn/go-entitlement-backend/internal/catalog"
	"github.com/tbourn/go-entitlement-backend/internal/domain"
	"github.com/tbourn/go-entitlement-backend/internal/store"
)

// PaymentTransport delivers an outbound payment request to the external
// payment channel. Implementations are expected to honor ctx for
// cancellation; the issuer bounds each call with its configured timeout.
type PaymentTransport interface {
	SendPaymentRequest(ctx context.Context, userID string, req domain.PaymentRequest) error
}

// IssueResult is the successful result of Issue: either an outbound
// payment request was sent, or a zero-price tier was activated directly.
type IssueResult struct {
	// Request is the descriptor delivered to the payment transport;
	// nil on the free-activation path.
	Request *domain.PaymentRequest
	// FreeActivation marks the direct-activation path.
	FreeActivation bool
	// Membership is the record granted by a free activation; nil
	// otherwise.
	Membership *domain.Membership
}

// PaymentRequestIssuer builds and dispatches payment requests for
// authorized purchases.
type PaymentRequestIssuer struct {
	Catalog   *catalog.Catalog
	Store     store.EntitlementStore
	Transport PaymentTransport
	Fanout    *NotificationFanout

	// Timeout bounds each transport call. Zero disables the bound (the
	// caller's ctx still applies).
	Timeout time.Duration

	// ManualFallbackThreshold is the price at or above which a retryable
	// issuance failure is escalated to the operators for manual
	// fulfillment. Zero disables escalation.
	ManualFallbackThreshold int64

	// Now supplies the clock; defaults to time.Now (UTC) when nil.
	Now func() time.Time

	Log zerolog.Logger
}

// Issue builds a payment request for userID and productKey, or performs
// the free-activation path for zero-price products.
//
// Semantics:
//   - Unknown keys return a fatal IssueError: the gate validated the key
//     already, so absence here is an internal inconsistency.
//   - price == 0: the store is granted immediately and the result has
//     FreeActivation set; no monetary request is built and no
//     confirmation will follow.
//   - Otherwise a PaymentRequest is built whose reference binds product
//     key and price, and is pushed through the transport bounded by
//     Timeout. Transport failure or timeout returns a retryable
//     IssueError; for products at or above ManualFallbackThreshold the
//     failure is additionally fanned out to operators so fulfillment can
//     be arranged manually.
func (s *PaymentRequestIssuer) Issue(ctx context.Context, userID, productKey string) (*IssueResult, error) {
	p, err := s.Catalog.Find(productKey)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, fatalIssue(fmt.Errorf("product %q vanished between gate and issue", productKey))
		}
		return nil, fatalIssue(err)
	}

	now := s.clock()

	if p.Free() {
		rec, err := s.Store.Grant(ctx, userID, p.Key, now)
		if err != nil {
			return nil, fatalIssue(fmt.Errorf("free activation grant: %w", err))
		}
		s.Log.Info().
			Str("user_id", userID).
			Str("product", p.Key).
			Msg("free tier activated")
		s.notifyFree(ctx, userID, p)
		return &IssueResult{FreeActivation: true, Membership: rec}, nil
	}

	intent := domain.PurchaseIntent{UserID: userID, ProductKey: p.Key, Price: p.Price}
	req := domain.PaymentRequest{
		Amount:      p.Price,
		Reference:   intent.Reference(),
		Title:       p.Title,
		Description: p.Description,
	}

	sendCtx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	if err := s.Transport.SendPaymentRequest(sendCtx, userID, req); err != nil {
		// A timeout is a retryable failure, never silent success.
		s.Log.Warn().
			Err(err).
			Str("user_id", userID).
			Str("product", p.Key).
			Int64("amount", p.Price).
			Msg("payment request delivery failed")
		if s.ManualFallbackThreshold > 0 && p.Price >= s.ManualFallbackThreshold {
			s.escalateManual(ctx, userID, p)
		}
		return nil, retryableIssue(err)
	}

	return &IssueResult{Request: &req}, nil
}

// notifyFree reports a free activation to the operators. Best effort.
func (s *PaymentRequestIssuer) notifyFree(ctx context.Context, userID string, p domain.Product) {
	if s.Fanout == nil {
		return
	}
	s.Fanout.Notify(ctx, domain.Outcome{
		Kind:      domain.OutcomeFreeActivated,
		User:      domain.AnonymousUser(userID),
		Product:   p,
		Amount:    0,
		Reference: domain.EncodeReference(p.Key, 0),
	})
}

// escalateManual tells the operators that a high-value request could not
// be issued, so fulfillment can be arranged out of band. Best effort.
func (s *PaymentRequestIssuer) escalateManual(ctx context.Context, userID string, p domain.Product) {
	if s.Fanout == nil {
		return
	}
	s.Log.Warn().
		Str("user_id", userID).
		Str("product", p.Key).
		Msg("escalating failed high-value issuance to operators")
	s.Fanout.Notify(ctx, domain.Outcome{
		Kind:      domain.OutcomeManualFollowup,
		User:      domain.AnonymousUser(userID),
		Product:   p,
		Amount:    p.Price,
		Reference: domain.EncodeReference(p.Key, p.Price),
	})
}

func (s *PaymentRequestIssuer) clock() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
