package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/me/spq/internal/auth"
	"github.com/me/spq/internal/config"
	"github.com/me/spq/internal/quotes"
)

// Server is the SPQ dashboard HTTP server.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	config    config.ServerConfig
	store     quotes.Store
	fetch     quotes.FetchFunc
	creds     *auth.CredentialStore
	resolver  *auth.Resolver
	rules     []auth.Rule
	startTime time.Time
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithGuardRules replaces the default route-guard table. Rule order is
// preserved exactly; the first matching rule wins.
func WithGuardRules(rules []auth.Rule) Option {
	return func(s *Server) {
		s.rules = rules
	}
}

// New creates a Server with all routes registered. fetch supplies the
// external quote list for dashboard loads and first-time seeding.
func New(cfg config.ServerConfig, st quotes.Store, fetch quotes.FetchFunc, creds *auth.CredentialStore, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "server"),
		config:    cfg,
		store:     st,
		fetch:     fetch,
		creds:     creds,
		resolver:  auth.NewResolver(creds, logger),
		rules:     auth.DefaultRules(),
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.Get("/health", s.handleHealth)

	// Everything else goes through the guard, so every page and form
	// action sees resolved identity state.
	r.Group(func(r chi.Router) {
		r.Use(s.guardMiddleware)

		r.Get("/", s.handleDashboard)

		r.Get("/login", s.handleLogin)
		r.Post("/login", s.handleLoginPost)
		r.Post("/logout", s.handleLogout)

		r.Route("/quotes", func(r chi.Router) {
			r.Get("/", s.handleQuotes)
			r.Post("/update", s.handleQuoteUpdate)
		})

		r.Get("/filters", s.handleFilters)
	})
}
