package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"subtrack/internal/auth"
	"subtrack/internal/cache"
	"subtrack/internal/log"
	"subtrack/internal/services"
)

// Server is the JSON API server. It owns the per-user response caches and
// the security middleware shared by every route.
type Server struct {
	http.Server

	auth *auth.Service
	subs *services.SubscriptionService

	rateLimiter *rateLimiter
	metrics     *securityMetrics
	logger      *log.Logger
	structured  *log.StructuredLogger

	summaryCache  *cache.LRUCache[summaryView]
	overviewCache *cache.LRUCache[[]categoryTotalView]
	cacheManager  *cache.Manager

	shutdownOnce sync.Once

	// now is injectable for deterministic billing math in tests.
	now func() time.Time
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, authSvc *auth.Service, subs *services.SubscriptionService, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		auth:          authSvc,
		subs:          subs,
		rateLimiter:   newRateLimiter(),
		metrics:       &securityMetrics{},
		logger:        logger.WithComponent(log.ComponentHTTP),
		structured:    log.NewStructuredLogger(logger.WithComponent(log.ComponentHTTP)),
		summaryCache:  cache.NewLRUCache[summaryView](200, 5*time.Minute),
		overviewCache: cache.NewLRUCache[[]categoryTotalView](200, 5*time.Minute),
		cacheManager:  cache.NewManager(),
		now:           time.Now,
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.overviewCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/auth/signup", s.wrap(s.handleSignUp))
	mux.HandleFunc("POST /api/auth/signin", s.wrap(s.handleSignIn))
	mux.HandleFunc("POST /api/auth/signout", s.wrap(s.authed(s.handleSignOut)))
	mux.HandleFunc("GET /api/me", s.wrap(s.authed(s.handleMe)))

	mux.HandleFunc("GET /api/subscriptions", s.wrap(s.authed(s.handleListSubscriptions)))
	mux.HandleFunc("POST /api/subscriptions", s.wrap(s.authed(s.handleCreateSubscription)))
	mux.HandleFunc("GET /api/subscriptions/{id}", s.wrap(s.authed(s.handleGetSubscription)))
	mux.HandleFunc("PUT /api/subscriptions/{id}", s.wrap(s.authed(s.handleUpdateSubscription)))
	mux.HandleFunc("DELETE /api/subscriptions/{id}", s.wrap(s.authed(s.handleDeleteSubscription)))
	mux.HandleFunc("GET /api/subscriptions/{id}/history", s.wrap(s.authed(s.handleBillingHistory)))

	mux.HandleFunc("GET /api/summary", s.wrap(s.authed(s.handleSummary)))
	mux.HandleFunc("GET /api/overview/{cycle}", s.wrap(s.authed(s.handleOverview)))

	mux.HandleFunc("GET /api/platforms", s.wrap(s.authed(s.handleListPlatforms)))
	mux.HandleFunc("POST /api/platforms/custom", s.wrap(s.authed(s.handleCreateCustomPlatform)))

	mux.HandleFunc("GET /api/currencies", s.wrap(s.handleListCurrencies))

	return s
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// wrap applies request ID tagging, security headers, rate limiting on
// mutating methods, and request logging.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), log.RequestIDContextKey, requestID)
		ctx = context.WithValue(ctx, log.LoggerContextKey, s.logger.With(log.FieldRequestID, requestID))
		r = r.WithContext(ctx)

		if detectSuspiciousRequest(r, s.metrics) {
			s.logger.WarnContext(ctx, "Suspicious request pattern",
				log.FieldRequestID, requestID,
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldUserAgent, r.Header.Get("User-Agent"))
		}

		s.structured.LogHTTPStart(ctx, r, clientIP)

		if isMutating(r.Method) && !s.rateLimiter.allow(clientIP, s.metrics) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cache-Control", "no-store")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.structured.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

// authedHandler receives the authenticated user's ID resolved from the
// bearer token.
type authedHandler func(w http.ResponseWriter, r *http.Request, userID string)

// authed enforces a valid bearer token before invoking next.
func (s *Server) authed(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="subtrack"`)
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		userID, err := s.auth.VerifyToken(token)
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="subtrack"`)
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next(w, r, userID)
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
