package ratelimit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/snnyvrz/shelfshare/apps/library-api/internal/validation"
)

func newTestLimiter(t *testing.T, limit int) (*FixedWindowLimiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})

	l, err := NewFixedWindowLimiter(client, "test", limit, time.Minute)
	if err != nil {
		t.Fatalf("NewFixedWindowLimiter returned error: %v", err)
	}
	fixed := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	return l, mr
}

func TestFixedWindowLimiter_AllowsUpToLimit(t *testing.T) {
	l, _ := newTestLimiter(t, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1")
		if err != nil || !ok {
			t.Fatalf("request %d: expected allowed, ok=%v err=%v", i+1, ok, err)
		}
	}

	ok, err := l.Allow(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("Allow returned error: %v", err)
	}
	if ok {
		t.Fatal("expected third request in window to be rejected")
	}

	ok, err = l.Allow(ctx, "10.0.0.2")
	if err != nil || !ok {
		t.Fatalf("expected other key to be allowed, ok=%v err=%v", ok, err)
	}
}

func TestFixedWindowLimiter_NewWindowResets(t *testing.T) {
	l, _ := newTestLimiter(t, 1)
	ctx := context.Background()

	if ok, _ := l.Allow(ctx, "k"); !ok {
		t.Fatal("expected first request to be allowed")
	}
	if ok, _ := l.Allow(ctx, "k"); ok {
		t.Fatal("expected second request to be rejected")
	}

	next := l.now().Add(time.Minute)
	l.now = func() time.Time { return next }

	if ok, _ := l.Allow(ctx, "k"); !ok {
		t.Fatal("expected request in next window to be allowed")
	}
}

func TestFixedWindowLimiter_BackendError(t *testing.T) {
	l, mr := newTestLimiter(t, 1)
	mr.Close()

	if _, err := l.Allow(context.Background(), "k"); err == nil {
		t.Fatal("expected error when redis is down")
	}
}

func TestNewFixedWindowLimiter_InvalidArgs(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	if _, err := NewFixedWindowLimiter(nil, "", 1, time.Second); err == nil {
		t.Error("expected error for nil client")
	}
	if _, err := NewFixedWindowLimiter(client, "", 0, time.Second); err == nil {
		t.Error("expected error for zero limit")
	}
	if _, err := NewFixedWindowLimiter(client, "", 1, 0); err == nil {
		t.Error("expected error for zero window")
	}
}

func TestMiddleware_RejectsWritesOverLimit(t *testing.T) {
	l, _ := newTestLimiter(t, 1)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(l))
	r.POST("/books", func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.GET("/books", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/books", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/books", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") != "60" {
		t.Errorf("expected Retry-After 60, got %q", w.Header().Get("Retry-After"))
	}

	var resp validation.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if resp.Code != CodeRateLimited {
		t.Errorf("expected code %s, got %s", CodeRateLimited, resp.Code)
	}

	for i := 0; i < 3; i++ {
		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected reads to bypass limiter, got %d", w.Code)
		}
	}
}

func TestMiddleware_FailsOpen(t *testing.T) {
	l, mr := newTestLimiter(t, 1)
	mr.Close()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(l))
	r.DELETE("/books/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/books/1", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected request to pass when redis is down, got %d", w.Code)
	}
}
