package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osse101/ChocoboBot_Go/internal/database"
	"github.com/osse101/ChocoboBot_Go/internal/handler"
	"github.com/osse101/ChocoboBot_Go/internal/logger"
	"github.com/osse101/ChocoboBot_Go/internal/metrics"
	"github.com/osse101/ChocoboBot_Go/internal/recommendation"
)

// MaxRequestBytes caps request bodies
const MaxRequestBytes = 1 << 20

// Options configures the HTTP listener and its security middleware
type Options struct {
	Port           int
	APIKey         string
	TrustedProxies []string
}

// Dependencies are the services the routes are served from
type Dependencies struct {
	DB              database.Pool
	Recommendations recommendation.Service
	Catalog         handler.CatalogReader
	Bot             handler.BotHealthReporter
	Caches          []handler.CacheStatsProvider
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(opts Options, deps Dependencies) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           NewRouter(opts, deps),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// NewRouter builds the middleware stack and routes
func NewRouter(opts Options, deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	tracker := NewClientTracker(DefaultRateLimit, DefaultRateWindow)

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(opts.APIKey, opts.TrustedProxies, tracker))
	r.Use(RateLimitMiddleware(opts.TrustedProxies, tracker))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(deps.DB))
	r.Get("/version", handler.HandleVersion())
	r.Handle("/metrics", promhttp.Handler())

	recommendations := handler.NewRecommendationHandler(deps.Recommendations, deps.Catalog)

	r.Route(APIPrefix, func(r chi.Router) {
		r.Route("/characters/{lodestoneID}", func(r chi.Router) {
			r.Get("/recommendations", recommendations.HandleCharacterRecommendations)
			r.Get("/missing", recommendations.HandleCharacterMissing)
		})

		r.Post("/groups/recommendations", recommendations.HandleGroupRecommendations)

		r.Route("/collectibles/{kind}", func(r chi.Router) {
			r.Get("/", recommendations.HandleSearchCollectibles)
			r.Get("/{id}", recommendations.HandleGetCollectible)
		})

		if deps.Bot != nil {
			r.Get("/bot/health", handler.HandleBotHealth(deps.Bot))
		}

		r.Route("/admin", func(r chi.Router) {
			r.Get("/cache/stats", handler.HandleCacheStats(deps.Caches...))
		})
	})

	return r
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Probes and scrapes are too frequent to log
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		ctx := logger.NewRequestContext(r.Context())
		r = r.WithContext(ctx)
		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitizedHeaders := make(http.Header, len(r.Header))
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
