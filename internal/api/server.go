package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/warrantyhub/console-server/internal/auth"
	"github.com/warrantyhub/console-server/internal/authz"
	"github.com/warrantyhub/console-server/internal/brand"
	"github.com/warrantyhub/console-server/internal/config"
	"github.com/warrantyhub/console-server/internal/server"
	"github.com/warrantyhub/console-server/internal/session"
	"github.com/warrantyhub/console-server/internal/storage"
	"github.com/warrantyhub/console-server/internal/tenant"
	"github.com/warrantyhub/console-server/internal/validation"
)

// RESTServer represents the REST API server
type RESTServer struct {
	config    *config.Config
	store     storage.Store
	sessions  session.Store
	identity  *auth.Identity
	resolver  *tenant.Resolver
	scope     *brand.Scope
	gate      *authz.Gate
	validator *validation.Validator
	bus       *server.Publisher
	router    chi.Router
	server    *http.Server
}

// NewRESTServer creates a new REST API server
func NewRESTServer(cfg *config.Config, store storage.Store, sessions session.Store, bus *server.Publisher) *RESTServer {
	s := &RESTServer{
		config:    cfg,
		store:     store,
		sessions:  sessions,
		identity:  auth.NewIdentity(cfg, store, sessions, bus),
		resolver:  tenant.NewResolver(cfg, store),
		scope:     brand.NewScope(cfg, store, sessions, bus),
		gate:      authz.NewGate(authz.DefaultRules()),
		validator: validation.NewValidator(),
		bus:       bus,
		router:    chi.NewRouter(),
	}

	s.setupRoutes()

	s.server = &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all routes
func (s *RESTServer) setupRoutes() {
	// Middleware
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Session and tenant context on every request
	s.router.Use(s.sessionMiddleware)
	s.router.Use(s.tenantMiddleware)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		s.setupAPIRoutes(r)
	})

	// Console page routes behind the authorization gate
	s.setupConsoleRoutes()
}

// ListenAndServe starts the server. It returns nil after a graceful
// Shutdown.
func (s *RESTServer) ListenAndServe(addr string) error {
	s.server.Addr = addr
	log.Info().Str("addr", addr).Msg("Starting REST API server")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *RESTServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
