package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Test_fail_500_LogsAndEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	log.Logger = zerolog.New(&buf)

	r := gin.New()
	r.GET("/boom", func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-9")
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "grant failed")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != ErrCodeInternal || resp.Message != "grant failed" || resp.RequestID != "rid-9" {
		t.Fatalf("envelope: %+v", resp)
	}
	// 5xx responses are logged server-side.
	if out := buf.String(); !strings.Contains(out, "api error") || !strings.Contains(out, ErrCodeInternal) {
		t.Fatalf("expected error log, got:\n%s", out)
	}
}

func Test_fail_4xx_NotLogged(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	log.Logger = zerolog.New(&buf)

	r := gin.New()
	r.GET("/denied", func(c *gin.Context) {
		Fail(c, http.StatusForbidden, ErrCodeMembershipRequired, "requires an active paid membership")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/denied", nil))

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != ErrCodeMembershipRequired {
		t.Fatalf("code = %q", resp.Code)
	}
	// Denials are not server faults; nothing is logged.
	if buf.Len() != 0 {
		t.Fatalf("unexpected log output: %s", buf.String())
	}
}

func Test_ok_and_noContent(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/tier", func(c *gin.Context) {
		ok(c, http.StatusOK, gin.H{"user_id": "u1", "tier": "mem-pro"})
	})
	r.DELETE("/tier", func(c *gin.Context) { noContent(c) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tier", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"tier":"mem-pro"`) {
		t.Fatalf("ok() got %d %q", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/tier", nil))
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Fatalf("noContent() got %d %q", w.Code, w.Body.String())
	}
}
