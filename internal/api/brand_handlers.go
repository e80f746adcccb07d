package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/warrantyhub/console-server/internal/brand"
	"github.com/warrantyhub/console-server/internal/storage"
)

// requestTenantID pins brand operations to the tenant resolved for the
// request
func (s *RESTServer) requestTenantID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	rc := requestContextFrom(r.Context())
	if rc.Tenant == nil {
		s.respondError(w, http.StatusBadRequest, "no tenant context")
		return uuid.Nil, false
	}
	return rc.Tenant.ID, true
}

// HandleListBrands lists the tenant's brands in collection order
func (s *RESTServer) HandleListBrands(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := s.requestTenantID(w, r)
	if !ok {
		return
	}

	brands, err := s.scope.Brands(r.Context(), tenantID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"brands": brands,
		"total":  len(brands),
	})
}

// HandleVisibleBrands lists the brands visible to the current
// principal
func (s *RESTServer) HandleVisibleBrands(w http.ResponseWriter, r *http.Request) {
	rc := requestContextFrom(r.Context())

	tenantID, ok := s.requestTenantID(w, r)
	if !ok {
		return
	}

	brands, err := s.scope.VisibleBrands(r.Context(), rc.Principal, tenantID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"brands": brands,
		"total":  len(brands),
	})
}

// HandleActiveBrand returns the session's active brand, or null when
// the collection is empty
func (s *RESTServer) HandleActiveBrand(w http.ResponseWriter, r *http.Request) {
	rc := requestContextFrom(r.Context())

	tenantID, ok := s.requestTenantID(w, r)
	if !ok {
		return
	}

	active, err := s.scope.ActiveBrand(r.Context(), rc.Session, tenantID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"brand": active,
	})
}

// HandleCreateBrand appends a brand to the tenant's collection
func (s *RESTServer) HandleCreateBrand(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := s.requestTenantID(w, r)
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name" validate:"slug"`
		DisplayName string `json:"displayName" validate:"required,min=2,max=100"`
		Color       string `json:"color" validate:"hexcolor"`
		LogoURL     string `json:"logoUrl" validate:"max=500"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validator.Validate(req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.scope.AddBrand(r.Context(), tenantID, brand.AddBrandInput{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Color:       req.Color,
		LogoURL:     req.LogoURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, brand.ErrInvalidName):
			s.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, storage.ErrDuplicateKey):
			s.respondError(w, http.StatusConflict, "brand name already in use")
		default:
			s.respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	s.respondJSON(w, http.StatusCreated, created)
}

// HandleUpdateBrand patches a brand
func (s *RESTServer) HandleUpdateBrand(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid brand id")
		return
	}

	var req struct {
		Name        *string `json:"name"`
		DisplayName *string `json:"displayName"`
		Color       *string `json:"color"`
		LogoURL     *string `json:"logoUrl"`
		IsActive    *bool   `json:"isActive"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := s.scope.UpdateBrand(r.Context(), id, brand.UpdateBrandInput{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Color:       req.Color,
		LogoURL:     req.LogoURL,
		IsActive:    req.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, brand.ErrInvalidName):
			s.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, storage.ErrNotFound):
			s.respondError(w, http.StatusNotFound, "brand not found")
		default:
			s.respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	s.respondJSON(w, http.StatusOK, updated)
}

// HandleDeleteBrand removes a brand; the session's active pointer is
// promoted to the first remaining brand when needed
func (s *RESTServer) HandleDeleteBrand(w http.ResponseWriter, r *http.Request) {
	rc := requestContextFrom(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid brand id")
		return
	}

	if err := s.scope.DeleteBrand(r.Context(), rc.Session, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "brand not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleActivateBrand switches the session's active brand
func (s *RESTServer) HandleActivateBrand(w http.ResponseWriter, r *http.Request) {
	rc := requestContextFrom(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid brand id")
		return
	}

	if _, err := s.store.GetBrand(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "brand not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := s.scope.SetActiveBrand(r.Context(), rc.Session, &id); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDeactivateBrand clears the session's active brand pointer,
// reverting to the implicit first-brand default
func (s *RESTServer) HandleDeactivateBrand(w http.ResponseWriter, r *http.Request) {
	rc := requestContextFrom(r.Context())

	if err := s.scope.SetActiveBrand(r.Context(), rc.Session, nil); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
