package main

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wrale/linkedin-oauth/cmd/linkedin-oauth/handlers/authorize"
	"github.com/wrale/linkedin-oauth/cmd/linkedin-oauth/handlers/common"
	"github.com/wrale/linkedin-oauth/cmd/linkedin-oauth/handlers/health"
	"github.com/wrale/linkedin-oauth/cmd/linkedin-oauth/handlers/token"
	"github.com/wrale/linkedin-oauth/internal/linkedin"
	"github.com/wrale/linkedin-oauth/internal/oauth"
	"github.com/wrale/linkedin-oauth/internal/state"
)

type server struct {
	cfg       Config
	router    *chi.Mux
	assembler *linkedin.Assembler
	provider  oauth.Provider
	states    *state.Manager
	logger    *slog.Logger
}

func newServer(cfg Config, assembler *linkedin.Assembler, provider oauth.Provider, states *state.Manager, logger *slog.Logger) *server {
	srv := &server{
		cfg:       cfg,
		router:    chi.NewRouter(),
		assembler: assembler,
		provider:  provider,
		states:    states,
		logger:    logger,
	}

	timeout := cfg.HandlerTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	// Set up middleware
	srv.router.Use(middleware.RequestID)
	srv.router.Use(middleware.RealIP)
	srv.router.Use(requestLogger(logger))
	srv.router.Use(middleware.Recoverer)
	srv.router.Use(middleware.Timeout(timeout))

	// Register routes
	srv.routes()

	return srv
}

func (s *server) routes() {
	healthHandler := health.New(map[string]health.Checker{
		"linkedin": s.provider,
		"state":    s.states,
	}).WithVersion(Version)

	authHandler := authorize.New(authorize.Config{
		Assembler: s.assembler,
		States:    s.states,
		Provider:  s.provider,
		Logger:    s.logger,
	})

	tokenHandler := token.New(token.Config{
		Provider: s.provider,
		Logger:   s.logger,
	})

	s.router.Method(http.MethodGet, "/health", healthHandler)

	s.router.Route("/oauth", func(r chi.Router) {
		r.Get("/login", authHandler.Login)
		r.Get("/callback", authHandler.Callback)

		// Both routes spend the LinkedIn client secret
		r.Group(func(r chi.Router) {
			r.Use(requireAPIKey(s.cfg.ServiceAPIKey))
			r.Method(http.MethodPost, "/token", tokenHandler)
			r.Post("/introspect", tokenHandler.Introspect)
		})
	})
}

// requireAPIKey rejects requests that lack "Authorization: Bearer <key>".
// An empty key rejects every request.
func requireAPIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, presented, _ := strings.Cut(r.Header.Get("Authorization"), " ")
			if key == "" || !strings.EqualFold(scheme, "Bearer") ||
				subtle.ConstantTimeCompare([]byte(presented), []byte(key)) != 1 {
				w.Header().Set("WWW-Authenticate", `Bearer realm="linkedin-oauth"`)
				common.WriteErrorStatus(w, http.StatusUnauthorized, common.ErrorCodeInvalidClient,
					"A valid service API key is required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger logs one structured line per request
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				logger.Info("Request completed",
					"request_id", middleware.GetReqID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"remote_addr", r.RemoteAddr,
					"duration", time.Since(start))
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
