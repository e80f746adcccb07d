package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/warrantyhub/console-server/internal/authz"
	"github.com/warrantyhub/console-server/internal/models"
)

// setupAPIRoutes sets up API v1 routes
func (s *RESTServer) setupAPIRoutes(r chi.Router) {
	// Health check
	r.Get("/health", s.HandleHealth)
	r.Get("/", s.HandleRoot)

	// Auth routes (public)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.HandleLogin)
		r.Post("/signup", s.HandleSignup)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/logout", s.HandleLogout)
			r.Get("/me", s.HandleGetCurrentPrincipal)
		})
	})

	// Tenant context for the current request (public: pre-login pages
	// need branding too)
	r.Get("/tenancy/current", s.HandleCurrentTenant)

	// Authorization decisions (session optional: the check itself
	// reports the login redirect for anonymous navigation)
	r.Get("/authz/check", s.HandleAuthzCheck)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		// Brands
		r.Route("/brands", func(r chi.Router) {
			r.Get("/", s.HandleListBrands)
			r.Get("/visible", s.HandleVisibleBrands)
			r.Get("/active", s.HandleActiveBrand)

			r.Group(func(r chi.Router) {
				r.Use(s.requireRoles(models.RoleSystemAdmin, models.RoleBrandAdmin))
				r.Post("/", s.HandleCreateBrand)
				r.Route("/{id}", func(r chi.Router) {
					r.Put("/", s.HandleUpdateBrand)
					r.Delete("/", s.HandleDeleteBrand)
				})
			})

			r.Post("/{id}/activate", s.HandleActivateBrand)
			r.Post("/deactivate", s.HandleDeactivateBrand)
		})

		// Users (platform administration)
		r.Route("/users", func(r chi.Router) {
			r.Use(s.requireRoles(models.RoleSystemAdmin))
			r.Get("/", s.HandleListUsers)
			r.Post("/", s.HandleCreateUser)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.HandleGetUser)
				r.Put("/", s.HandleUpdateUser)
				r.Delete("/", s.HandleDeleteUser)
			})
		})

		// Tenants (platform administration)
		r.Route("/tenants", func(r chi.Router) {
			r.Use(s.requireRoles(models.RoleSystemAdmin))
			r.Get("/", s.HandleListTenants)
			r.Post("/", s.HandleCreateTenant)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.HandleGetTenant)
				r.Put("/", s.HandleUpdateTenant)
				r.Delete("/", s.HandleDeleteTenant)
			})
		})

		// Audit trail
		r.Route("/events", func(r chi.Router) {
			r.Use(s.requireRoles(models.RoleSystemAdmin))
			r.Get("/", s.HandleListAuditEvents)
		})
	})
}

// setupConsoleRoutes mounts the gated console page routes. Every
// role-restricted console area passes through the authorization gate;
// allowed navigation serves the console shell.
func (s *RESTServer) setupConsoleRoutes() {
	shell := s.consoleShellHandler()

	s.router.Group(func(r chi.Router) {
		r.Use(s.gateMiddleware)

		for _, rule := range authz.DefaultRules() {
			r.Handle(rule.Prefix, shell)
			r.Handle(rule.Prefix+"/*", shell)
		}
	})

	// Login page and root are public
	s.router.Handle(authz.LoginPath, shell)
	s.router.Handle("/", shell)
}

// consoleShellHandler serves the single-page console shell. Without a
// configured static directory it responds with the page context as
// JSON, which keeps the gate testable in API-only deployments.
func (s *RESTServer) consoleShellHandler() http.Handler {
	staticDir := s.config.Web.StaticDir
	if envDir := os.Getenv("WEB_DIR"); envDir != "" {
		staticDir = envDir
	}

	if staticDir != "" {
		if _, err := os.Stat(staticDir); os.IsNotExist(err) {
			log.Warn().Str("dir", staticDir).Msg("Web directory not found, serving page context only")
			staticDir = ""
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if staticDir != "" {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}

		rc := requestContextFrom(r.Context())
		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"path":      r.URL.Path,
			"theme":     rc.Theme,
			"principal": rc.Principal,
		})
	})
}
