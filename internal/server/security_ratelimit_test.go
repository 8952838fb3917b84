package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimitMiddleware(t *testing.T) {
	tracker := NewClientTracker(DefaultRateLimit, DefaultRateWindow)
	middleware := RateLimitMiddleware(nil, tracker)

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	ip := "192.168.1.100"
	req := httptest.NewRequest("GET", "/api/v1/collectibles/mounts", nil)
	req.RemoteAddr = ip + ":1234"

	for i := 0; i < DefaultRateLimit; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d failed with status %d", i, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected status 429 Too Many Requests, got %d", rec.Code)
	}

	counts, ok := tracker.clients.Get(ip)
	if !ok {
		t.Fatal("expected the client to be tracked")
	}
	if got := counts.requests.Load(); got != DefaultRateLimit+1 {
		t.Errorf("expected count %d, got %d", DefaultRateLimit+1, got)
	}

	// Other clients are unaffected
	other := httptest.NewRequest("GET", "/api/v1/collectibles/mounts", nil)
	other.RemoteAddr = "192.168.1.101:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	if rec.Code != http.StatusOK {
		t.Errorf("expected a different IP to pass, got %d", rec.Code)
	}
}

func TestClientTracker_WindowExpires(t *testing.T) {
	tracker := NewClientTracker(1, 50*time.Millisecond)

	if !tracker.Allow("198.51.100.9") {
		t.Fatal("first request should pass")
	}
	if tracker.Allow("198.51.100.9") {
		t.Fatal("second request in the window should be blocked")
	}

	time.Sleep(100 * time.Millisecond)

	if !tracker.Allow("198.51.100.9") {
		t.Error("a new window should reset the count")
	}
}
