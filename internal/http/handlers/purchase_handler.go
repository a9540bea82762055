// Purchase HTTP handlers.
//
// This file exposes the purchase entry point of the API:
//   - POST /purchases   (authorize a product and issue a payment request,
//     or activate a zero-price tier directly)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results (including gate denials and issuance failures) into
// HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-entitlement-backend/internal/catalog"
	"github.com/tbourn/go-entitlement-backend/internal/domain"
	"github.com/tbourn/go-entitlement-backend/internal/services"
	"github.com/tbourn/go-entitlement-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// GateService decides whether a user may purchase a product.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type GateService interface {
	// Authorize resolves productKey and checks the user's entitlement,
	// returning the resolved product on success.
	Authorize(ctx context.Context, userID, productKey string) (domain.Product, error)
}

// PurchaseService issues payment requests for authorized purchases.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type PurchaseService interface {
	// Issue sends a payment request for productKey, or activates a
	// zero-price tier directly.
	Issue(ctx context.Context, userID, productKey string) (*services.IssueResult, error)
}

// ConfirmationService settles confirmed payments.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ConfirmationService interface {
	// Process verifies a payment confirmation and credits the purchase.
	Process(ctx context.Context, conf domain.PaymentConfirmation) (*domain.Outcome, error)
}

// MembershipService reads membership state for a user.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type MembershipService interface {
	// GetActiveMembership returns the user's membership when one is
	// active at now, or (nil, nil) when there is none.
	GetActiveMembership(ctx context.Context, userID string, now time.Time) (*domain.Membership, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for products, purchases, confirmations,
// memberships, and the payment audit trail. It depends on abstract service
// interfaces to keep transport concerns separate from business logic.
type Handlers struct {
	gate      GateService
	purchases PurchaseService
	confirms  ConfirmationService
	members   MembershipService
	catalog   *catalog.Catalog

	// db backs the payment audit listing and its ETag precheck; nil
	// disables both (the endpoint then returns 503).
	db *gorm.DB
}

// New constructs and returns a Handlers instance bound to the given services.
func New(gate GateService, purchases PurchaseService, confirms ConfirmationService, members MembershipService, cat *catalog.Catalog, db *gorm.DB) *Handlers {
	return &Handlers{gate: gate, purchases: purchases, confirms: confirms, members: members, catalog: cat, db: db}
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to "X-User-ID" header (tests use it),
// and finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

//
// DTOs
//

// PurchaseRequest is the JSON payload for starting a purchase.
type PurchaseRequest struct {
	// ProductKey names the catalog entry to purchase. It may instead be
	// supplied via the "start" query parameter (deep-link form).
	ProductKey string `json:"product_key" example:"mem-pro"`
}

// PurchaseResponse is the JSON envelope for a started purchase.
type PurchaseResponse struct {
	// Status is "payment_requested" or "free_activated".
	Status string `json:"status" example:"payment_requested"`
	// Request is the issued payment request; absent on free activation.
	Request *domain.PaymentRequest `json:"payment_request,omitempty"`
	// Membership is the granted record; present only on free activation.
	Membership *domain.Membership `json:"membership,omitempty"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

//
// Handlers
//

// CreatePurchase godoc
// @ID          createPurchase
// @Summary     Start a purchase
// @Description Authorizes the product for the current user and issues a payment
// @Description request. Zero-price tiers are activated immediately instead.
// @Tags        Purchases
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       start      query   string  false "Product key (deep-link form)" example(mem-pro)
// @Param       body       body    handlers.PurchaseRequest  false "Purchase payload"
//
// @Success     200  {object}  handlers.PurchaseResponse "Free tier activated"
// @Success     202  {object}  handlers.PurchaseResponse "Payment request issued"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse "Membership required"
// @Failure     404  {object}  handlers.ErrorResponse "Unknown product"
// @Failure     503  {object}  handlers.ErrorResponse "Issuance failed, retryable"
// @Router      /purchases [post]
func (h *Handlers) CreatePurchase(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	key := strings.TrimSpace(c.Query("start"))
	if c.Request.ContentLength != 0 {
		var req PurchaseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
			return
		}
		if k := strings.TrimSpace(req.ProductKey); k != "" {
			key = k
		}
	}
	if key == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "product_key required")
		return
	}

	if _, err := h.gate.Authorize(ctx, uid, key); err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownProduct):
			fail(c, http.StatusNotFound, ErrCodeUnknownProduct, "unknown product: "+key)
		case errors.Is(err, services.ErrRequiresPaidMembership):
			fail(c, http.StatusForbidden, ErrCodeMembershipRequired, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	res, err := h.purchases.Issue(ctx, uid, key)
	if err != nil {
		var ie *services.IssueError
		if errors.As(err, &ie) && ie.Retryable {
			fail(c, http.StatusServiceUnavailable, ErrCodeIssueFailed, "payment request could not be delivered")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeIssueFailed, err.Error())
		return
	}

	if res.FreeActivation {
		ok(c, http.StatusOK, PurchaseResponse{Status: "free_activated", Membership: res.Membership})
		return
	}
	ok(c, http.StatusAccepted, PurchaseResponse{Status: "payment_requested", Request: res.Request})
}
