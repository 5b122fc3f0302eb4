// Package server exposes the registry dashboard HTTP API.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Karthik-beta/data-app/internal/analytics"
	"github.com/Karthik-beta/data-app/internal/auth"
	"github.com/Karthik-beta/data-app/internal/config"
	"github.com/Karthik-beta/data-app/internal/store"
)

const (
	defaultPageSize = 100
	maxPageSize     = 1000
)

// Server wires the store, authenticator, and analytics service behind the
// JSON API. Each request is handled independently and statelessly.
type Server struct {
	store        store.Store
	auth         *auth.Authenticator
	cookies      auth.Cookies
	analytics    *analytics.Service
	loginLimiter *rate.Limiter
	origins      []string
}

// New creates a Server.
func New(st store.Store, a *auth.Authenticator, cfg config.ServerConfig, secure bool) *Server {
	return &Server{
		store: st,
		auth:  a,
		cookies: auth.Cookies{
			Name:   "auth_token",
			Secure: secure,
			MaxAge: a.TokenTTL(),
		},
		analytics:    analytics.New(st),
		loginLimiter: rate.NewLimiter(rate.Limit(cfg.LoginRate), cfg.LoginBurst),
		origins:      cfg.AllowedOrigins,
	}
}

// WithCookieName overrides the session cookie name.
func (s *Server) WithCookieName(name string) *Server {
	if name != "" {
		s.cookies.Name = name
	}
	return s
}

// Routes builds the chi router with all API endpoints mounted under /api.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.Get("/session", s.handleSession)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(s.auth, s.cookies))
			r.Get("/records", s.handleRecords)
			r.Post("/records", s.handleFilterOptions)
			r.Get("/analytics", s.handleAnalytics)
		})
	})

	return r
}

// requestLogger logs each request with a generated id, method, path,
// duration, and status.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		zap.L().Info("request",
			zap.String("request_id", uuid.New().String()),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
