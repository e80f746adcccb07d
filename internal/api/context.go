package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/warrantyhub/console-server/internal/models"
	"github.com/warrantyhub/console-server/internal/server"
	"github.com/warrantyhub/console-server/internal/tenant"
)

// requestContext is the per-request view of identity, tenancy and
// brand scope. It replaces the ambient singletons the browser console
// leaned on, so concurrent requests never share mutable state.
type requestContext struct {
	Session   *models.Session
	Principal *models.User
	Tenant    *models.Tenant
	Theme     tenant.Theme
}

type requestContextKey struct{}

// withRequestContext attaches the request context
func withRequestContext(ctx context.Context, rc *requestContext) context.Context {
	return context.WithValue(ctx, requestContextKey{}, rc)
}

// requestContextFrom reads the request context; never nil once the
// session middleware has run
func requestContextFrom(ctx context.Context) *requestContext {
	rc, _ := ctx.Value(requestContextKey{}).(*requestContext)
	if rc == nil {
		rc = &requestContext{}
	}
	return rc
}

// sessionToken extracts the session token from the Authorization
// header or, for console page navigation, the session cookie
func (s *RESTServer) sessionToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	if cookie, err := r.Cookie(s.config.Session.CookieName); err == nil {
		return cookie.Value
	}

	return ""
}

// sessionMiddleware restores the session for the request. Missing,
// expired or malformed credentials mean an unauthenticated request,
// never an error response.
func (s *RESTServer) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc := &requestContext{}

		if token := s.sessionToken(r); token != "" {
			sess, err := s.identity.Restore(r.Context(), token)
			if err != nil {
				log.Error().Err(err).Msg("Session restore failed")
			} else if sess != nil {
				rc.Session = sess
				rc.Principal = sess.Principal
			}
		}

		next.ServeHTTP(w, r.WithContext(withRequestContext(r.Context(), rc)))
	})
}

// tenantMiddleware resolves the active tenant and theme for the
// request. Resolution failures fall back to static branding; tenancy
// never blocks navigation.
func (s *RESTServer) tenantMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc := requestContextFrom(r.Context())

		selector := r.URL.Query().Get(s.config.Tenancy.QueryParam)

		t, err := s.resolver.Resolve(r.Context(), r)
		if err != nil {
			log.Error().Err(err).Msg("Tenant resolution failed")
		}

		if t != nil && selector != "" {
			s.bus.Publish(server.SubjectTenantResolved, &models.AuditEvent{
				TenantID:    &t.ID,
				Type:        models.EventTypeTenantResolved,
				Level:       models.EventLevelDebug,
				Description: "tenant resolved from request selector",
				Details:     models.Variables{"selector": selector, "subdomain": t.Subdomain},
			})
		}

		// Session tenant hint applies when the request itself names none
		if t == nil && rc.Session != nil && rc.Session.TenantID != nil {
			t, err = s.store.GetTenant(r.Context(), *rc.Session.TenantID)
			if err != nil {
				t = nil
			}
		}

		rc.Tenant = t
		rc.Theme = s.resolver.ApplyTheme(t)

		next.ServeHTTP(w, r)
	})
}

// publishAccessDenied records a gate denial on the audit trail
func (s *RESTServer) publishAccessDenied(rc *requestContext, path string) {
	event := &models.AuditEvent{
		Type:        models.EventTypeAccessDenied,
		Level:       models.EventLevelWarning,
		Description: "console navigation denied",
		Details:     models.Variables{"path": path},
	}
	if rc.Principal != nil {
		event.UserID = &rc.Principal.ID
	}
	if rc.Tenant != nil {
		event.TenantID = &rc.Tenant.ID
	}
	s.bus.Publish(server.SubjectAuthDenied, event)
}

// requireAuth rejects unauthenticated API requests
func (s *RESTServer) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc := requestContextFrom(r.Context())
		if rc.Principal == nil {
			s.respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireRoles rejects API requests whose principal lacks one of the
// given roles
func (s *RESTServer) requireRoles(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rc := requestContextFrom(r.Context())
			if rc.Principal == nil {
				s.respondError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			for _, role := range roles {
				if rc.Principal.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			s.respondError(w, http.StatusForbidden, "insufficient role")
		})
	}
}

// gateMiddleware applies the route authorization gate to console page
// navigation. Denials are redirects, never error pages.
func (s *RESTServer) gateMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc := requestContextFrom(r.Context())

		decision := s.gate.Evaluate(rc.Principal, rc.Tenant, r.URL.Path)
		if !decision.Allowed {
			s.publishAccessDenied(rc, r.URL.Path)
			http.Redirect(w, r, decision.RedirectTo, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}
