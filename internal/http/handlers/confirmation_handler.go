// Payment confirmation HTTP handlers.
//
// This file exposes the settlement entry point of the API:
//   - POST /confirmations   (credit a confirmed payment)
//
// Confirmations arrive from the payment transport after the user pays. The
// handler validates the envelope, delegates to ConfirmationService, and maps
// integrity rejections (malformed reference, unknown product, amount
// mismatch) to 422 so the transport does not redeliver them.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-entitlement-backend/internal/domain"
	"github.com/tbourn/go-entitlement-backend/internal/services"
)

//
// DTOs
//

// PayerRef identifies the paying user as reported by the transport.
type PayerRef struct {
	// ID is the payer's stable identifier.
	ID string `json:"id" binding:"required" example:"user123"`
	// Handle is the payer's public handle, when known.
	Handle string `json:"handle" example:"alice"`
}

// ConfirmationRequest is the JSON payload for a confirmed payment.
type ConfirmationRequest struct {
	// Reference is the opaque reference echoed back by the transport.
	Reference string `json:"reference" binding:"required" example:"mem-pro:1500"`
	// Amount is the settled amount, in the transport's smallest unit.
	Amount int64 `json:"amount" binding:"required" example:"1500"`
	// Payer is the user the transport charged.
	Payer PayerRef `json:"payer" binding:"required"`
	// EventID is the transport's stable delivery id, when it has one.
	// Redeliveries with the same id are credited at most once.
	EventID string `json:"event_id" example:"evt_8f1c2"`
}

// ConfirmationResponse wraps the outcome of a processed confirmation.
type ConfirmationResponse struct {
	Outcome *domain.Outcome `json:"outcome"`
}

// CreateConfirmation godoc
// @ID          createConfirmation
// @Summary     Settle a confirmed payment
// @Description Verifies the confirmation against the catalog and credits the
// @Description purchase. Duplicate deliveries (same event id) return the
// @Description originally recorded outcome without crediting again.
// @Tags        Confirmations
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.ConfirmationRequest  true  "Confirmation payload"
//
// @Success     200  {object}  handlers.ConfirmationResponse
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     422  {object}  handlers.ErrorResponse "Integrity rejection"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /confirmations [post]
func (h *Handlers) CreateConfirmation(c *gin.Context) {
	var req ConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid confirmation payload")
		return
	}

	conf := domain.PaymentConfirmation{
		Reference: strings.TrimSpace(req.Reference),
		Amount:    req.Amount,
		Payer:     domain.UserRef{ID: req.Payer.ID, Handle: req.Payer.Handle},
		EventID:   strings.TrimSpace(req.EventID),
	}

	outcome, err := h.confirms.Process(c.Request.Context(), conf)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBadReference):
			fail(c, http.StatusUnprocessableEntity, ErrCodeBadReference, "reference is malformed")
		case errors.Is(err, services.ErrUnknownProductRef):
			fail(c, http.StatusUnprocessableEntity, ErrCodeUnknownProduct, "reference names an unknown product")
		case errors.Is(err, services.ErrAmountMismatch):
			fail(c, http.StatusUnprocessableEntity, ErrCodeAmountMismatch, "amount does not match reference")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, ConfirmationResponse{Outcome: outcome})
}
