// Package httpapi exposes the auth engine over HTTP. Every endpoint sits
// behind a shared-secret API key header; the engine does the actual work
// and this layer only translates JSON and error codes.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	ftauth "github.com/mrra1yan/FootballTalento"
	"github.com/mrra1yan/FootballTalento/metrics/export/prometheus"
)

// APIKeyHeader carries the shared secret the frontend must present.
const APIKeyHeader = "X-FT-API-Key"

// Server holds the handler dependencies.
type Server struct {
	engine *ftauth.Engine
	logger *zap.SugaredLogger
	apiKey string
}

func NewServer(engine *ftauth.Engine, logger *zap.SugaredLogger, apiKey string) *Server {
	return &Server{
		engine: engine,
		logger: logger,
		apiKey: apiKey,
	}
}

// Router builds the chi router with the full middleware stack. Health and
// metrics bypass the API key gate; everything under /v1/auth requires it.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", prometheus.NewExporter(s.engine).Handler())

	r.Route("/v1/auth", func(r chi.Router) {
		r.Use(s.requireAPIKey)
		r.Use(clientIP)

		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.Post("/validate-token", s.handleValidateToken)
		r.Post("/forgot-password", s.handleForgotPassword)
		r.Post("/reset-password", s.handleResetPassword)
		r.Post("/verify-email", s.handleVerifyEmail)
	})

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
