package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/warrantyhub/console-server/internal/models"
)

// CreateAuditEvent creates an audit event
func (s *PostgresStore) CreateAuditEvent(ctx context.Context, event *models.AuditEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	query := `
        INSERT INTO audit_events (
            id, created_at, tenant_id, user_id, brand_id, type, level,
            description, details
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9
        )`

	_, err := s.getDB().ExecContext(ctx, query,
		event.ID, event.CreatedAt, event.TenantID, event.UserID,
		event.BrandID, event.Type, event.Level, event.Description,
		event.Details,
	)

	return err
}

// ListAuditEvents lists audit events matching the filters
func (s *PostgresStore) ListAuditEvents(ctx context.Context, filters AuditEventFilters, limit, offset int) ([]*models.AuditEvent, int64, error) {
	where := ""
	args := []interface{}{}
	n := 0

	addFilter := func(clause string, value interface{}) {
		n++
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(clause, n)
		args = append(args, value)
	}

	if filters.TenantID != nil {
		addFilter("tenant_id = $%d", *filters.TenantID)
	}
	if filters.UserID != nil {
		addFilter("user_id = $%d", *filters.UserID)
	}
	if filters.BrandID != nil {
		addFilter("brand_id = $%d", *filters.BrandID)
	}
	if filters.Type != nil {
		addFilter("type = $%d", *filters.Type)
	}
	if filters.Level != nil {
		addFilter("level = $%d", *filters.Level)
	}
	if filters.StartTime != nil {
		addFilter("created_at >= $%d", *filters.StartTime)
	}
	if filters.EndTime != nil {
		addFilter("created_at <= $%d", *filters.EndTime)
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM audit_events` + where
	if err := s.getDB().QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
        SELECT id, created_at, tenant_id, user_id, brand_id, type, level,
               description, details
        FROM audit_events` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, n+1, n+2)
	args = append(args, limit, offset)

	rows, err := s.getDB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	events := []*models.AuditEvent{}
	for rows.Next() {
		event := &models.AuditEvent{}
		err := rows.Scan(
			&event.ID, &event.CreatedAt, &event.TenantID, &event.UserID,
			&event.BrandID, &event.Type, &event.Level, &event.Description,
			&event.Details,
		)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, event)
	}

	return events, total, rows.Err()
}
