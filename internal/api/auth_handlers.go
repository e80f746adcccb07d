package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/warrantyhub/console-server/internal/auth"
	"github.com/warrantyhub/console-server/internal/authz"
	"github.com/warrantyhub/console-server/internal/storage"
)

// HandleLogin handles user login
func (s *RESTServer) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
		Tenant   string `json:"tenant,omitempty"`
		Redirect string `json:"redirect,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validator.Validate(req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	tenantHint, err := s.tenantHint(r, req.Tenant)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "tenant lookup failed")
		return
	}

	result, err := s.identity.Login(r.Context(), req.Email, req.Password, tenantHint)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			s.respondError(w, http.StatusUnauthorized, "invalid credentials")
		case errors.Is(err, auth.ErrAuthInProgress):
			s.respondError(w, http.StatusConflict, "login already in progress")
		default:
			s.respondError(w, http.StatusInternalServerError, "login failed")
		}
		return
	}

	s.respondSession(w, r, result, req.Redirect)
}

// HandleSignup handles account registration
func (s *RESTServer) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email" validate:"required,email"`
		Password    string `json:"password" validate:"required,min=8"`
		DisplayName string `json:"displayName" validate:"required,min=2,max=100"`
		Tenant      string `json:"tenant,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validator.Validate(req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	tenantHint, err := s.tenantHint(r, req.Tenant)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "tenant lookup failed")
		return
	}

	result, err := s.identity.Signup(r.Context(), auth.SignupInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		TenantID:    tenantHint,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrDuplicateAccount):
			s.respondError(w, http.StatusConflict, "account already exists")
		case errors.Is(err, auth.ErrAuthInProgress):
			s.respondError(w, http.StatusConflict, "signup already in progress")
		default:
			s.respondError(w, http.StatusInternalServerError, "signup failed")
		}
		return
	}

	s.respondSession(w, r, result, "")
}

// HandleLogout handles logout
func (s *RESTServer) HandleLogout(w http.ResponseWriter, r *http.Request) {
	rc := requestContextFrom(r.Context())

	if err := s.identity.Logout(r.Context(), rc.Session.ID); err != nil {
		s.respondError(w, http.StatusInternalServerError, "logout failed")
		return
	}

	// Expire the console cookie as well
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.Session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	w.WriteHeader(http.StatusNoContent)
}

// HandleGetCurrentPrincipal returns the authenticated principal
func (s *RESTServer) HandleGetCurrentPrincipal(w http.ResponseWriter, r *http.Request) {
	rc := requestContextFrom(r.Context())

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"principal": rc.Principal,
		"expiresAt": rc.Session.ExpiresAt,
		"dashboard": authz.DashboardPath(rc.Principal.Role),
	})
}

// HandleAuthzCheck reports the gate decision for a path without
// performing the navigation
func (s *RESTServer) HandleAuthzCheck(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return
	}

	rc := requestContextFrom(r.Context())
	s.respondJSON(w, http.StatusOK, s.gate.Evaluate(rc.Principal, rc.Tenant, path))
}

// respondSession writes a login/signup result, sets the console
// cookie and picks the post-auth redirect: the caller's requested
// destination when present, else the role's canonical dashboard
func (s *RESTServer) respondSession(w http.ResponseWriter, r *http.Request, result *auth.LoginResult, requested string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.Session.CookieName,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.Session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.config.IsProduction(),
	})

	redirect := requested
	if redirect == "" {
		redirect = authz.DashboardPath(result.Session.Principal.Role)
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"token":     result.Token,
		"session":   result.Session,
		"expiresAt": result.Session.ExpiresAt,
		"redirect":  redirect,
	})
}

// tenantHint resolves an explicit tenant selector from the login or
// signup request body, falling back to the request's resolved tenant
func (s *RESTServer) tenantHint(r *http.Request, selector string) (*uuid.UUID, error) {
	if selector != "" {
		t, err := s.store.GetTenantBySubdomain(r.Context(), selector)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				if id, parseErr := uuid.Parse(selector); parseErr == nil {
					if t, err := s.store.GetTenant(r.Context(), id); err == nil {
						return &t.ID, nil
					} else if !errors.Is(err, storage.ErrNotFound) {
						return nil, err
					}
				}
				return nil, nil
			}
			return nil, err
		}
		return &t.ID, nil
	}

	rc := requestContextFrom(r.Context())
	if rc.Tenant != nil {
		id := rc.Tenant.ID
		return &id, nil
	}

	return nil, nil
}
