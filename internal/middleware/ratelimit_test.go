package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

// fakeClock is a settable time source for limiter tests.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(t *testing.T, limit int, window time.Duration, key KeyFunc) (*RateLimiter, *fakeClock) {
	t.Helper()
	rl := NewRateLimiter(limit, window, key)
	t.Cleanup(rl.Stop)
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	rl.now = clock.now
	return rl, clock
}

func TestRateLimiterTake(t *testing.T) {
	rl, clock := newTestLimiter(t, 3, time.Minute, nil)

	for i := 0; i < 3; i++ {
		if ok, _ := rl.take("a"); !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	clock.advance(20 * time.Second)
	ok, retry := rl.take("a")
	if ok {
		t.Fatal("4th request should be limited")
	}
	if retry != 40*time.Second {
		t.Errorf("retry: got %v, want 40s", retry)
	}

	if ok, _ := rl.take("b"); !ok {
		t.Error("another key should be allowed")
	}

	clock.advance(40 * time.Second)
	if ok, _ := rl.take("a"); !ok {
		t.Error("a new window should allow requests again")
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl, clock := newTestLimiter(t, 5, time.Minute, nil)

	rl.take("old")
	clock.advance(45 * time.Second)
	rl.take("fresh")
	clock.advance(30 * time.Second)

	rl.cleanup()

	if _, ok := rl.buckets["old"]; ok {
		t.Error("expired bucket should be removed")
	}
	if _, ok := rl.buckets["fresh"]; !ok {
		t.Error("bucket inside its window should be kept")
	}
}

func limitedRequest(ref, remote string, htmx bool) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/project/"+ref+"/login", nil)
	req.RemoteAddr = remote
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("ref", ref)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestRateLimiterMiddlewarePerProject(t *testing.T) {
	rl, _ := newTestLimiter(t, 2, time.Minute, ByIPAndRef)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, limitedRequest("projone", "192.168.1.1:12345", false))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: got %d, want 200", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, limitedRequest("projone", "192.168.1.1:23456", true))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("got %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "60" {
		t.Errorf("Retry-After: got %q, want 60", got)
	}
	if got := rec.Header().Get("HX-Reswap"); got != "none" {
		t.Errorf("HX-Reswap: got %q, want none", got)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, limitedRequest("projtwo", "192.168.1.1:12345", false))
	if rec.Code != http.StatusOK {
		t.Errorf("other project: got %d, want 200", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		want       string
	}{
		{"x-forwarded-for single", "10.0.0.1", "", "192.168.1.1:1234", "10.0.0.1"},
		{"x-forwarded-for chain", "10.0.0.1, 172.16.0.1", "", "192.168.1.1:1234", "10.0.0.1"},
		{"x-real-ip", "", "10.0.0.2", "192.168.1.1:1234", "10.0.0.2"},
		{"remote addr", "", "", "192.168.1.1:1234", "192.168.1.1"},
		{"remote ipv6", "", "", "[2001:db8::1]:443", "2001:db8::1"},
		{"remote addr no port", "", "", "192.168.1.1", "192.168.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := ClientIP(req); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
