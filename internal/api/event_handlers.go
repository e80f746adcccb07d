package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/warrantyhub/console-server/internal/models"
	"github.com/warrantyhub/console-server/internal/storage"
)

// HandleListAuditEvents lists audit events with optional filters
func (s *RESTServer) HandleListAuditEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit == 0 {
		limit = 20
	}
	offset, _ := strconv.Atoi(query.Get("offset"))

	var filters storage.AuditEventFilters

	if raw := query.Get("tenant_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid tenant_id")
			return
		}
		filters.TenantID = &id
	}
	if raw := query.Get("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid user_id")
			return
		}
		filters.UserID = &id
	}
	if raw := query.Get("brand_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid brand_id")
			return
		}
		filters.BrandID = &id
	}
	if raw := query.Get("type"); raw != "" {
		t := models.EventType(raw)
		filters.Type = &t
	}
	if raw := query.Get("level"); raw != "" {
		l := models.EventLevel(raw)
		filters.Level = &l
	}
	if raw := query.Get("start_time"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid start_time")
			return
		}
		filters.StartTime = &t
	}
	if raw := query.Get("end_time"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid end_time")
			return
		}
		filters.EndTime = &t
	}

	events, total, err := s.store.ListAuditEvents(ctx, filters, limit, offset)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"total":  total,
	})
}
