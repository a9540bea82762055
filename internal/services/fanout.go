// Package services – NotificationFanout
//
// Fanout dispatches a purchase outcome to the configured operator
// recipients. Delivery to each recipient is independent: one failing
// recipient never blocks the others, and no failure ever rolls back the
// entitlement change that already happened. The result is a
// per-recipient report, not a guarantee.
package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tbourn/go-entitlement-backend/internal/domain"
)

// Notifier delivers a single outcome notification to one recipient.
// Implementations are expected to be bounded by their own transport
// contract; the fanout does not impose a timeout.
type Notifier interface {
	Send(ctx context.Context, recipient string, outcome domain.Outcome) error
}

// Delivery records the result for one recipient.
type Delivery struct {
	Recipient string `json:"recipient"`
	Err       error  `json:"-"`
}

// DeliveryReport summarizes a fanout: which recipients were reached and
// which were not. Partial failure is an expected condition, never an
// error return.
type DeliveryReport struct {
	Delivered []Delivery `json:"delivered"`
	Failed    []Delivery `json:"failed"`
}

// AllDelivered reports whether every recipient was reached.
func (r DeliveryReport) AllDelivered() bool { return len(r.Failed) == 0 }

// NotificationFanout dispatches outcomes to a fixed recipient set.
type NotificationFanout struct {
	// Notifier performs the individual deliveries.
	Notifier Notifier
	// Recipients is the operator recipient set configured at startup.
	Recipients []string

	Log zerolog.Logger
}

// Notify delivers the outcome to every configured recipient and returns
// the per-recipient report. Failures are logged at warn and reported;
// Notify itself never fails.
func (f *NotificationFanout) Notify(ctx context.Context, outcome domain.Outcome) DeliveryReport {
	var report DeliveryReport
	for _, rcpt := range f.Recipients {
		if err := f.Notifier.Send(ctx, rcpt, outcome); err != nil {
			f.Log.Warn().
				Err(err).
				Str("recipient", rcpt).
				Str("kind", string(outcome.Kind)).
				Str("reference", outcome.Reference).
				Msg("operator notification failed")
			notificationFailures.Inc()
			report.Failed = append(report.Failed, Delivery{Recipient: rcpt, Err: err})
			continue
		}
		report.Delivered = append(report.Delivered, Delivery{Recipient: rcpt})
	}
	return report
}
