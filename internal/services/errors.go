// Package services implements the business logic of the entitlement
// backend: the purchase authorization gate, payment request issuance,
// confirmation processing, and operator notification fanout. This file
// centralizes the service-level error values so they can be consistently
// returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer;
// translation into user-facing messages or HTTP status codes is performed
// at the handler layer.
package services

import (
	"errors"
	"fmt"
)

// User input errors: surfaced to the requesting user as a denial with a
// reason, never logged as faults.
var (
	// ErrUnknownProduct is returned when a purchase names a product key
	// absent from the catalog.
	ErrUnknownProduct = errors.New("unknown product")

	// ErrRequiresPaidMembership is returned when a member-priced document
	// product is requested by a user without an active paid membership.
	ErrRequiresPaidMembership = errors.New("requires an active paid membership")
)

// Integrity errors: the confirmation is rejected, logged for operator
// review, and entitlement state is left unchanged.
var (
	// ErrUnknownProductRef is returned when a confirmation reference
	// parses but names a product absent from the catalog.
	ErrUnknownProductRef = errors.New("confirmation references unknown product")

	// ErrAmountMismatch is returned when the confirmed amount differs
	// from the price declared inside the reference, guarding against
	// stale or tampered references.
	ErrAmountMismatch = errors.New("confirmed amount does not match reference")
)

// IssueError classifies a failure to issue a payment request. Retryable
// failures (transport errors, timeouts) may be retried by the caller or
// escalated to manual fulfillment; non-retryable failures indicate an
// internal inconsistency.
type IssueError struct {
	// Retryable marks transport-reported failures and timeouts; false
	// means an internal inconsistency that retrying will not fix.
	Retryable bool
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *IssueError) Error() string {
	kind := "fatal"
	if e.Retryable {
		kind = "retryable"
	}
	return fmt.Sprintf("issue payment request (%s): %v", kind, e.Err)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *IssueError) Unwrap() error { return e.Err }

// retryableIssue wraps err as a retryable IssueError.
func retryableIssue(err error) *IssueError { return &IssueError{Retryable: true, Err: err} }

// fatalIssue wraps err as a non-retryable IssueError.
func fatalIssue(err error) *IssueError { return &IssueError{Retryable: false, Err: err} }
