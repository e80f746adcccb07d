package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/warrantyhub/console-server/internal/models"
	"github.com/warrantyhub/console-server/internal/storage"
)

// HandleCurrentTenant returns the tenant and theme resolved for this
// request, or static branding when no tenant is active
func (s *RESTServer) HandleCurrentTenant(w http.ResponseWriter, r *http.Request) {
	rc := requestContextFrom(r.Context())

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"tenant": rc.Tenant,
		"theme":  rc.Theme,
	})
}

// HandleListTenants lists tenants
func (s *RESTServer) HandleListTenants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit == 0 {
		limit = 20
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	tenants, total, err := s.store.ListTenants(ctx, limit, offset)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"tenants": tenants,
		"total":   total,
	})
}

// HandleCreateTenant creates a tenant
func (s *RESTServer) HandleCreateTenant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Subdomain    string   `json:"subdomain" validate:"required,slug,min=2,max=63"`
		CompanyName  string   `json:"companyName" validate:"required,min=2,max=200"`
		DisplayName  string   `json:"displayName" validate:"required,min=2,max=100"`
		PrimaryColor string   `json:"primaryColor" validate:"hexcolor"`
		Industry     string   `json:"industry"`
		Features     []string `json:"features"`
		ThemeMode    string   `json:"themeMode"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validator.Validate(req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	tenant := &models.Tenant{
		Subdomain:    req.Subdomain,
		CompanyName:  req.CompanyName,
		DisplayName:  req.DisplayName,
		PrimaryColor: req.PrimaryColor,
		Industry:     req.Industry,
		Features:     models.StringSet(req.Features),
		ThemeMode:    req.ThemeMode,
		IsActive:     true,
	}

	if tenant.PrimaryColor == "" {
		tenant.PrimaryColor = "#00C853"
	}
	if tenant.ThemeMode == "" {
		tenant.ThemeMode = "light"
	}

	if err := s.store.CreateTenant(r.Context(), tenant); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			s.respondError(w, http.StatusConflict, "tenant already exists")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusCreated, tenant)
}

// HandleGetTenant gets a tenant
func (s *RESTServer) HandleGetTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid tenant id")
		return
	}

	tenant, err := s.store.GetTenant(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "tenant not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, tenant)
}

// HandleUpdateTenant updates a tenant
func (s *RESTServer) HandleUpdateTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid tenant id")
		return
	}

	var req struct {
		Subdomain    string   `json:"subdomain" validate:"required,slug,min=2,max=63"`
		CompanyName  string   `json:"companyName" validate:"required,min=2,max=200"`
		DisplayName  string   `json:"displayName" validate:"required,min=2,max=100"`
		PrimaryColor string   `json:"primaryColor" validate:"hexcolor"`
		Industry     string   `json:"industry"`
		Features     []string `json:"features"`
		ThemeMode    string   `json:"themeMode"`
		IsActive     *bool    `json:"isActive"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validator.Validate(req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	tenant, err := s.store.GetTenant(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "tenant not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	tenant.Subdomain = req.Subdomain
	tenant.CompanyName = req.CompanyName
	tenant.DisplayName = req.DisplayName
	if req.PrimaryColor != "" {
		tenant.PrimaryColor = req.PrimaryColor
	}
	tenant.Industry = req.Industry
	if req.Features != nil {
		tenant.Features = models.StringSet(req.Features)
	}
	if req.ThemeMode != "" {
		tenant.ThemeMode = req.ThemeMode
	}
	if req.IsActive != nil {
		tenant.IsActive = *req.IsActive
	}

	if err := s.store.UpdateTenant(ctx, tenant); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, tenant)
}

// HandleDeleteTenant deletes a tenant
func (s *RESTServer) HandleDeleteTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid tenant id")
		return
	}

	if err := s.store.DeleteTenant(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "tenant not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
