// Membership and product HTTP handlers.
//
// This file exposes the read-only endpoints of the API:
//   - GET /products             (catalog listing)
//   - GET /memberships/{userID} (current membership state)
//
// Expiry is evaluated at read time: a membership whose window has passed is
// reported as absent, never as an "expired" record.
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-entitlement-backend/internal/domain"
)

//
// DTOs
//

// ProductsResponse wraps the catalog listing.
type ProductsResponse struct {
	Products []domain.Product `json:"products"`
}

// MembershipResponse wraps a user's active membership and its resolved tier.
type MembershipResponse struct {
	Membership *domain.Membership `json:"membership"`
	// Product is the catalog entry for the membership's tier; absent when
	// the tier has been removed from the catalog since the grant.
	Product *domain.Product `json:"product,omitempty"`
}

// ListProducts godoc
// @ID          listProducts
// @Summary     List purchasable products
// @Description Returns every catalog entry in its configured order.
// @Tags        Products
// @Produce     json
//
// @Success     200  {object}  handlers.ProductsResponse
// @Router      /products [get]
func (h *Handlers) ListProducts(c *gin.Context) {
	ok(c, http.StatusOK, ProductsResponse{Products: h.catalog.Products()})
}

// GetMembership godoc
// @ID          getMembership
// @Summary     Get a user's active membership
// @Description Returns the membership record for userID when one is active
// @Description now; 404 when the user has none or it has expired.
// @Tags        Memberships
// @Produce     json
//
// @Param       userID  path  string  true  "User ID"  example(user123)
//
// @Success     200  {object}  handlers.MembershipResponse
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "No active membership"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /memberships/{userID} [get]
func (h *Handlers) GetMembership(c *gin.Context) {
	uid := strings.TrimSpace(c.Param("userID"))
	if uid == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user id required")
		return
	}

	m, err := h.members.GetActiveMembership(c.Request.Context(), uid, time.Now().UTC())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	if m == nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "no active membership")
		return
	}

	resp := MembershipResponse{Membership: m}
	if p, err := h.catalog.Find(m.Tier); err == nil {
		resp.Product = &p
	}
	ok(c, http.StatusOK, resp)
}
