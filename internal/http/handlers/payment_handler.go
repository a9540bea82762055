// Payment audit HTTP handlers.
//
// This file exposes the operator-facing audit trail:
//   - GET /payments   (list recorded payment events, paginated, ETag support)
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-entitlement-backend/internal/domain"
	"github.com/tbourn/go-entitlement-backend/internal/repo"
	"github.com/tbourn/go-entitlement-backend/internal/utils"
)

// ListPaymentsResponse contains a page of payment events and pagination
// metadata.
type ListPaymentsResponse struct {
	Payments   []domain.PaymentEvent `json:"payments"`
	Pagination Pagination            `json:"pagination"`
}

// ListPayments godoc
// @ID          listPayments
// @Summary     List payment events (paginated)
// @Description Returns a page of the recorded payment audit trail, newest
// @Description first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Payments
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListPaymentsResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Failure     503  {object} handlers.ErrorResponse "Audit store unavailable"
// @Router      /payments [get]
func (h *Handlers) ListPayments(c *gin.Context) {
	ctx := c.Request.Context()
	if h.db == nil {
		fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "audit store unavailable")
		return
	}
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	count, maxTS, err := repo.PaymentEventsStats(ctx, h.db)
	if err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.Unix()
		}
		etag := fmt.Sprintf(`W/"payments:%d:%d"`, count, ts)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	total, err := repo.CountPaymentEvents(ctx, h.db)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	items, err := repo.ListPaymentEventsPage(ctx, h.db, utils.Offset(page, pageSize), pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	resp := ListPaymentsResponse{
		Payments: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	}
	ok(c, http.StatusOK, resp)
}
