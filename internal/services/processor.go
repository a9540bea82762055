// Package services – PaymentConfirmationProcessor
//
// The processor consumes inbound payment confirmations: it validates the
// reference against the catalog, applies the entitlement transition for
// membership purchases, records the audit row, and emits the normalized
// outcome to the notification fanout. Integrity failures (malformed
// reference, unknown product, amount mismatch) reject the confirmation
// and leave entitlement state untouched — a payment is never credited on
// ambiguous data.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tbourn/go-entitlement-backend/internal/catalog"
	"github.com/tbourn/go-entitlement-backend/internal/domain"
	"github.com/tbourn/go-entitlement-backend/internal/repo"
	"github.com/tbourn/go-entitlement-backend/internal/store"
)

// PaymentConfirmationProcessor applies confirmed payments to the
// entitlement store. Safe for concurrent use: all mutation goes through
// the store, which serializes writes per user.
type PaymentConfirmationProcessor struct {
	Catalog *catalog.Catalog
	Store   store.EntitlementStore
	Fanout  *NotificationFanout

	// DB carries the payment audit trail. Nil disables auditing and
	// event-id de-duplication (acceptable for the volatile in-memory
	// deployment).
	DB *gorm.DB

	// Now supplies the clock; defaults to time.Now (UTC) when nil.
	Now func() time.Time

	Log zerolog.Logger
}

// Process validates and applies a payment confirmation.
//
// Steps:
//  1. Parse the reference; malformed references return
//     domain.ErrBadReference.
//  2. Resolve the product; unknown keys return ErrUnknownProductRef.
//  3. Compare the confirmed amount with the declared price; a mismatch
//     returns ErrAmountMismatch.
//  4. Membership products (re)grant the payer's membership; other
//     products produce a DocumentCredited outcome with no entitlement
//     mutation (document credits are consumed immediately, never
//     accumulated).
//  5. The outcome is recorded in the audit trail and fanned out to the
//     operators; fanout failure never fails Process.
//
// Duplicate delivery: when the confirmation carries an event id already
// present in the audit trail, Process returns the originally produced
// outcome without re-granting or re-notifying. Without an event id,
// re-processing is idempotent-safe — a repeated grant merely restarts
// the validity window, and the duplicate operator notification is
// tolerated.
func (s *PaymentConfirmationProcessor) Process(ctx context.Context, conf domain.PaymentConfirmation) (*domain.Outcome, error) {
	key, declaredPrice, err := domain.ParseReference(conf.Reference)
	if err != nil {
		s.Log.Warn().
			Str("reference", conf.Reference).
			Str("payer", conf.Payer.Display()).
			Msg("rejected confirmation: malformed reference")
		return nil, err
	}

	p, err := s.Catalog.Find(key)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			s.Log.Warn().
				Str("reference", conf.Reference).
				Str("payer", conf.Payer.Display()).
				Msg("rejected confirmation: unknown product")
			return nil, ErrUnknownProductRef
		}
		return nil, err
	}

	if conf.Amount != declaredPrice {
		s.Log.Warn().
			Str("reference", conf.Reference).
			Str("payer", conf.Payer.Display()).
			Int64("declared", declaredPrice).
			Int64("confirmed", conf.Amount).
			Msg("rejected confirmation: amount mismatch")
		return nil, ErrAmountMismatch
	}

	// Redelivery with a known event id short-circuits to the original
	// outcome before any state change.
	if prior := s.priorOutcome(ctx, conf, p); prior != nil {
		return prior, nil
	}

	outcome := domain.Outcome{
		User:      conf.Payer,
		Product:   p,
		Amount:    conf.Amount,
		Reference: conf.Reference,
	}

	if p.IsMembership() {
		if _, err := s.Store.Grant(ctx, conf.Payer.ID, p.Key, s.clock()); err != nil {
			return nil, err
		}
		outcome.Kind = domain.OutcomeMembershipGranted
	} else {
		outcome.Kind = domain.OutcomeDocumentCredited
	}

	s.audit(ctx, conf, outcome)
	paymentsConfirmed.WithLabelValues(p.Key, string(outcome.Kind)).Inc()
	s.Log.Info().
		Str("kind", string(outcome.Kind)).
		Str("payer", conf.Payer.Display()).
		Str("product", p.Key).
		Int64("amount", conf.Amount).
		Msg("payment confirmed")

	if s.Fanout != nil {
		s.Fanout.Notify(ctx, outcome)
	}
	return &outcome, nil
}

// priorOutcome returns the outcome recorded for this confirmation's event
// id, or nil when the event is new (or no id / no audit DB is present).
func (s *PaymentConfirmationProcessor) priorOutcome(ctx context.Context, conf domain.PaymentConfirmation, p domain.Product) *domain.Outcome {
	if s.DB == nil || conf.EventID == "" {
		return nil
	}
	rec, err := repo.GetPaymentEventByEventID(ctx, s.DB, conf.EventID)
	if err != nil {
		return nil
	}
	s.Log.Info().
		Str("event_id", conf.EventID).
		Str("payer", conf.Payer.Display()).
		Msg("duplicate confirmation delivery, replaying recorded outcome")
	return &domain.Outcome{
		Kind:      domain.OutcomeKind(rec.Outcome),
		User:      conf.Payer,
		Product:   p,
		Amount:    rec.Amount,
		Reference: rec.Reference,
	}
}

// audit appends the payment-event row. A duplicate event id at this point
// means a racing delivery beat us between the priorOutcome check and now;
// that is fine — the state transition is idempotent-safe.
func (s *PaymentConfirmationProcessor) audit(ctx context.Context, conf domain.PaymentConfirmation, outcome domain.Outcome) {
	if s.DB == nil {
		return
	}
	_, err := repo.RecordPaymentEvent(ctx, s.DB, conf.Payer.ID, conf.Reference, conf.Amount, conf.EventID, outcome.Kind)
	if err != nil && !errors.Is(err, repo.ErrDuplicateEvent) {
		s.Log.Warn().Err(err).Str("reference", conf.Reference).Msg("payment audit write failed")
	}
}

func (s *PaymentConfirmationProcessor) clock() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
