// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, CORS,
// security headers, compression, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-entitlement-backend/internal/catalog"
	"github.com/tbourn/go-entitlement-backend/internal/config"
	"github.com/tbourn/go-entitlement-backend/internal/domain"
	"github.com/tbourn/go-entitlement-backend/internal/http/handlers"
	"github.com/tbourn/go-entitlement-backend/internal/http/middleware"
	"github.com/tbourn/go-entitlement-backend/internal/repo"
	"github.com/tbourn/go-entitlement-backend/internal/services"
	"github.com/tbourn/go-entitlement-backend/internal/store"
)

// Deps carries the injectable backends the router wires into services.
type Deps struct {
	// DB backs the durable store and the payment audit trail. Nil
	// switches the entitlement store to the in-memory backend and
	// disables auditing.
	DB *gorm.DB

	// Catalog is the product set served and sold. Nil falls back to the
	// built-in catalog.
	Catalog *catalog.Catalog

	// Store overrides the entitlement store derived from DB; mostly for
	// tests.
	Store store.EntitlementStore

	// Transport delivers outbound payment requests. Nil leaves paid
	// purchases failing as retryable until a transport is configured.
	Transport services.PaymentTransport

	// Notifier performs operator notification deliveries. Nil disables
	// the fanout.
	Notifier services.Notifier
}

// errTransportUnconfigured is returned by the placeholder transport used
// when no real one is injected.
var errTransportUnconfigured = errors.New("payment transport not configured")

// unconfiguredTransport fails every send, which surfaces to clients as a
// retryable 503 rather than a crash at wiring time.
type unconfiguredTransport struct{}

func (unconfiguredTransport) SendPaymentRequest(context.Context, string, domain.PaymentRequest) error {
	return errTransportUnconfigured
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), rate limiting,
// CORS and security headers, health and metrics endpoints, and then mounts
// the versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Rate limiter (per user/IP)
//  8. CORS and Security headers
//  9. Gzip compression
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured access logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 8) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// 9) Response compression
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services ← catalog/store/transport
	cat := deps.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	st := deps.Store
	if st == nil {
		if deps.DB != nil {
			st = repo.NewGormStore(deps.DB, cfg.MembershipDuration)
		} else {
			st = store.NewMemory(cfg.MembershipDuration)
		}
	}
	transport := deps.Transport
	if transport == nil {
		transport = unconfiguredTransport{}
	}

	recipients := cfg.Operators
	if deps.Notifier == nil {
		recipients = nil // fanout disabled without a notifier
	}
	fanout := &services.NotificationFanout{
		Notifier:   deps.Notifier,
		Recipients: recipients,
		Log:        log.With().Str("component", "fanout").Logger(),
	}

	gate := &services.EntitlementGate{Catalog: cat, Store: st}
	issuer := &services.PaymentRequestIssuer{
		Catalog:                 cat,
		Store:                   st,
		Transport:               transport,
		Fanout:                  fanout,
		Timeout:                 cfg.IssueTimeout,
		ManualFallbackThreshold: cfg.ManualFallbackThreshold,
		Log:                     log.With().Str("component", "issuer").Logger(),
	}
	processor := &services.PaymentConfirmationProcessor{
		Catalog: cat,
		Store:   st,
		Fanout:  fanout,
		DB:      deps.DB,
		Log:     log.With().Str("component", "processor").Logger(),
	}
	h := handlers.New(gate, issuer, processor, st, cat, deps.DB)

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Catalog
		api.GET("/products", h.ListProducts)

		// Purchases
		api.POST("/purchases", h.CreatePurchase)

		// Confirmations (payment transport webhook)
		api.POST("/confirmations", h.CreateConfirmation)

		// Memberships
		api.GET("/memberships/:userID", h.GetMembership)

		// Payment audit trail
		api.GET("/payments", h.ListPayments)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
