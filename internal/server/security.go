package server

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/ChocoboBot_Go/internal/logger"
)

// Rate limiting defaults
const (
	DefaultRateWindow      = 5 * time.Minute
	DefaultRateLimit       = 1000
	DefaultTrackedClients  = 10000
	FailedAuthAlertTrigger = 5
)

// AuthMiddleware validates the X-API-Key header. An empty apiKey disables the check.
func AuthMiddleware(apiKey string, trustedProxies []string, tracker *ClientTracker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if apiKey == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			providedKey := r.Header.Get(HeaderAPIKey)
			if subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				ip := extractIP(r, trustedProxies)
				tracker.RecordFailedAuth(ip)

				logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
					"path", r.URL.Path,
					"has_key", providedKey != "",
					"ip", ip)

				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isPublicPath(path string) bool {
	for _, prefix := range PublicPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// RequestSizeLimitMiddleware limits request body size
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

type clientCounts struct {
	requests   atomic.Int64
	failedAuth atomic.Int64
}

// ClientTracker counts requests and failed logins per client IP in fixed windows.
// Windows start at a client's first request and expire with the LRU entry.
type ClientTracker struct {
	clients *expirable.LRU[string, *clientCounts]
	limit   int64
}

// NewClientTracker creates a tracker allowing limit requests per window per IP
func NewClientTracker(limit int, window time.Duration) *ClientTracker {
	return &ClientTracker{
		clients: expirable.NewLRU[string, *clientCounts](DefaultTrackedClients, nil, window),
		limit:   int64(limit),
	}
}

func (t *ClientTracker) counts(ip string) *clientCounts {
	if c, ok := t.clients.Get(ip); ok {
		return c
	}
	c := &clientCounts{}
	// Concurrent first requests may each store a fresh counter
	t.clients.Add(ip, c)
	return c
}

// RecordFailedAuth records a failed authentication attempt
func (t *ClientTracker) RecordFailedAuth(ip string) {
	n := t.counts(ip).failedAuth.Add(1)
	if n >= FailedAuthAlertTrigger {
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "count", n)
	}
}

// Allow records a request and reports whether the IP is still within its limit
func (t *ClientTracker) Allow(ip string) bool {
	n := t.counts(ip).requests.Add(1)
	if n > t.limit {
		if n%100 == 0 {
			slog.Warn(SecurityAlertHighRate, "ip", ip, "count_in_window", n)
		}
		return false
	}
	return true
}

// RateLimitMiddleware rejects clients that exceed the tracker's limit
func RateLimitMiddleware(trustedProxies []string, tracker *ClientTracker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !tracker.Allow(extractIP(r, trustedProxies)) {
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractIP gets the client IP address from request.
// X-Forwarded-For is only honoured when the direct peer is a trusted proxy.
func extractIP(r *http.Request, trustedProxies []string) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	peer := net.ParseIP(remoteIP)
	trusted := false
	for _, proxy := range trustedProxies {
		if p := net.ParseIP(proxy); p != nil && p.Equal(peer) {
			trusted = true
			break
		}
	}

	if trusted {
		if forwarded := r.Header.Get(HeaderForwardedFor); forwarded != "" {
			// Rightmost entry is the hop our proxy saw
			ips := strings.Split(forwarded, ",")
			return strings.TrimSpace(ips[len(ips)-1])
		}
	}

	return remoteIP
}

// SecurityHeadersMiddleware adds security headers to responses
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set(HeaderContentType, HeaderValueNoSniff)
			h.Set(HeaderFrameOptions, HeaderValueDeny)
			h.Set(HeaderReferrerPolicy, HeaderValueNoReferrer)
			if strings.HasPrefix(r.URL.Path, APIPrefix) {
				h.Set(HeaderCacheControl, HeaderValueNoStore)
			}
			next.ServeHTTP(w, r)
		})
	}
}
