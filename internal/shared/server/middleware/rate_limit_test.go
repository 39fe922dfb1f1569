package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"exitlayer/internal/shared/ratelimit"
)

func newLimitedRouter(store ratelimit.Store, now func() time.Time) *gin.Engine {
	r := gin.New()
	r.Use(RateLimit(RateLimitConfig{
		DefaultGroup: "sessions",
		GroupFor: func(c *gin.Context) string {
			if c.FullPath() == "/submit" {
				return "submit"
			}
			return ""
		},
		Store: store,
		Now:   now,
		Rules: map[string]ratelimit.Rule{
			"submit":   {Limit: 2, Window: 10 * time.Minute},
			"sessions": {Limit: 5, Window: time.Minute},
		},
	}))
	r.POST("/submit", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.PUT("/api/v1/sessions/:token", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	return r
}

func TestRateLimitGroupsHaveSeparateQuotas(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	r := newLimitedRouter(ratelimit.NewMemoryStore(clock), clock)

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/submit", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("submit %d expected 200, got %d", i+1, resp.Code)
		}
		if got := resp.Header().Get("X-RateLimit-Remaining"); got != strconv.Itoa(1-i) {
			t.Fatalf("submit %d remaining %q", i+1, got)
		}
	}

	for i := 0; i < 5; i++ {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodPut, "/api/v1/sessions/abc", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("autosave %d expected 200, got %d", i+1, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/submit", nil))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("submit 3 expected 429, got %d", resp.Code)
	}
}

func TestRateLimit429IncludesRetryAfter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 2, 30, 0, time.UTC)
	clock := func() time.Time { return now }
	r := newLimitedRouter(ratelimit.NewMemoryStore(clock), clock)

	for i := 0; i < 2; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/submit", nil))
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/submit", nil))

	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if got := resp.Header().Get("Retry-After"); got != "450" {
		t.Fatalf("expected Retry-After 450, got %q", got)
	}
	if got := resp.Header().Get("X-RateLimit-Reset"); got != strconv.FormatInt(now.Add(450*time.Second).Unix(), 10) {
		t.Fatalf("unexpected reset %q", got)
	}
	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["success"] != false {
		t.Fatalf("expected success=false")
	}
	if _, ok := payload["retryAfterMs"]; !ok {
		t.Fatalf("expected retryAfterMs in response")
	}
}

type failingStore struct{}

func (failingStore) Hit(context.Context, string, ratelimit.Rule) (ratelimit.Result, error) {
	return ratelimit.Result{}, errors.New("redis down")
}

func TestRateLimitFailsOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := newLimitedRouter(failingStore{}, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/submit", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp.Header().Get("X-RateLimit-Limit") != "" {
		t.Fatalf("expected no rate limit headers on store failure")
	}
}
