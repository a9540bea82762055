// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP
// responses (via the `fail()` helper in this package). These codes give
// clients a stable, machine-readable error taxonomy alongside human-readable
// messages.
//
// Conventions:
//   - Codes are lowercase, snake_case, and domain-agnostic unless explicitly noted.
//   - Generic codes (e.g., bad_request, forbidden, conflict) mirror common HTTP
//     status semantics to aid interoperability.
//   - Domain-specific codes (e.g., membership_required, amount_mismatch) carry
//     denial and rejection reasons that a status code alone cannot convey.
//   - All error responses include both an HTTP status and one of these codes.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "membership_required",
//	  "message": "requires an active paid membership"
//	}
package handlers

const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeForbidden   = "forbidden"
	ErrCodeNotFound    = "not_found"
	ErrCodeConflict    = "conflict"
	ErrCodeRateLimited = "too_many_requests"
	ErrCodeInternal    = "internal_error"
	ErrCodeUnavailable = "service_unavailable"

	// Domain-specific:

	// ErrCodeUnknownProduct: the requested product key is not in the catalog.
	ErrCodeUnknownProduct = "unknown_product"
	// ErrCodeMembershipRequired: a member-priced product was requested
	// without an active paid membership.
	ErrCodeMembershipRequired = "membership_required"
	// ErrCodeBadReference: the confirmation reference did not parse.
	ErrCodeBadReference = "bad_reference"
	// ErrCodeAmountMismatch: the confirmed amount contradicts the reference.
	ErrCodeAmountMismatch = "amount_mismatch"
	// ErrCodeIssueFailed: the payment request could not be delivered.
	ErrCodeIssueFailed      = "issue_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
