package domain

import "time"

// PurchaseIntent captures an authorized purchase attempt for the duration
// of the request/response exchange. It is never persisted; its only role
// is to carry the price observed at request time into the reference that
// travels through the payment transport, so a later confirmation can be
// checked against it.
type PurchaseIntent struct {
	UserID     string
	ProductKey string
	Price      int64
}

// Reference encodes the intent into the opaque reference string.
func (i PurchaseIntent) Reference() string {
	return EncodeReference(i.ProductKey, i.Price)
}

// PaymentRequest is the outbound descriptor handed to the payment
// transport. The reference binds both the product identity and the price
// at request time, so a confirmation cannot be replayed against a
// different, cheaper product.
type PaymentRequest struct {
	Amount      int64  `json:"amount"`
	Reference   string `json:"reference"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// PaymentConfirmation is the inbound event asserting that payment for a
// previously issued reference succeeded. It is the sole external trigger
// into the confirmation processor.
//
// Fields:
//   - Reference: the opaque "<productKey>:<price>" string issued with the
//     original request.
//   - Amount: the amount the transport reports as actually paid; must
//     equal the price declared inside the reference.
//   - Payer: identity of the paying user; may be anonymous.
//   - EventID: transport-assigned event identifier, when the transport
//     provides one. Used to de-duplicate redelivered confirmations; may
//     be empty, in which case re-processing is merely idempotent-safe.
type PaymentConfirmation struct {
	Reference string  `json:"reference"`
	Amount    int64   `json:"amount"`
	Payer     UserRef `json:"payer"`
	EventID   string  `json:"event_id,omitempty"`
}

// OutcomeKind names what a processed confirmation (or a free activation)
// did to the user's entitlement state.
type OutcomeKind string

const (
	// OutcomeMembershipGranted: a membership tier was (re)granted.
	OutcomeMembershipGranted OutcomeKind = "membership_granted"
	// OutcomeDocumentCredited: a per-document purchase was confirmed.
	// Document credits are consumed immediately and never accumulated,
	// so no entitlement state changes beyond the audit row.
	OutcomeDocumentCredited OutcomeKind = "document_credited"
	// OutcomeFreeActivated: a zero-price tier was activated directly at
	// issue time, with no payment round-trip.
	OutcomeFreeActivated OutcomeKind = "free_activated"
	// OutcomeManualFollowup: a high-value payment request could not be
	// issued; operators should arrange fulfillment out of band. No
	// entitlement state was changed.
	OutcomeManualFollowup OutcomeKind = "manual_followup"
)

// Outcome is the normalized record of a completed purchase, passed to the
// notification fanout and returned to the caller.
type Outcome struct {
	Kind      OutcomeKind `json:"kind"`
	User      UserRef     `json:"user"`
	Product   Product     `json:"product"`
	Amount    int64       `json:"amount"`
	Reference string      `json:"reference"`
}

// PaymentEvent is the audit row appended for every accepted confirmation
// and free activation. When the transport supplies an event id, the
// unique index on event_id makes redelivered confirmations collapse onto
// the original row, which is how at-most-once crediting is enforced for
// transports with stable event ids.
type PaymentEvent struct {
	ID        string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	UserID    string    `gorm:"type:TEXT NOT NULL;index"`
	Reference string    `gorm:"type:TEXT NOT NULL"`
	Amount    int64     `gorm:"type:INTEGER NOT NULL"`
	EventID   *string   `gorm:"type:TEXT;uniqueIndex:ux_payment_event_id"`
	Outcome   string    `gorm:"type:TEXT NOT NULL"`
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime;index"`
}

// TableName implements the GORM tabler interface.
func (PaymentEvent) TableName() string { return "payment_events" }
