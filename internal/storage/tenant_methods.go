package storage

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/warrantyhub/console-server/internal/models"
)

// CreateTenant creates a new tenant
func (s *PostgresStore) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	if tenant.ID == uuid.Nil {
		tenant.ID = uuid.New()
	}

	now := time.Now()
	tenant.CreatedAt = now
	tenant.UpdatedAt = now

	query := `
        INSERT INTO tenants (
            id, created_at, updated_at, subdomain, company_name, display_name,
            primary_color, industry, features, theme_mode, is_active
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
        )`

	_, err := s.getDB().ExecContext(ctx, query,
		tenant.ID, tenant.CreatedAt, tenant.UpdatedAt, tenant.Subdomain,
		tenant.CompanyName, tenant.DisplayName, tenant.PrimaryColor,
		tenant.Industry, tenant.Features, tenant.ThemeMode, tenant.IsActive,
	)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrDuplicateKey
		}
		return err
	}

	return nil
}

// GetTenant gets a tenant by ID
func (s *PostgresStore) GetTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	query := `
        SELECT id, created_at, updated_at, subdomain, company_name, display_name,
               primary_color, industry, features, theme_mode, is_active
        FROM tenants
        WHERE id = $1`

	tenant := &models.Tenant{}
	err := s.getDB().QueryRowContext(ctx, query, id).Scan(
		&tenant.ID, &tenant.CreatedAt, &tenant.UpdatedAt, &tenant.Subdomain,
		&tenant.CompanyName, &tenant.DisplayName, &tenant.PrimaryColor,
		&tenant.Industry, &tenant.Features, &tenant.ThemeMode, &tenant.IsActive,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}

	return tenant, err
}

// GetTenantBySubdomain gets a tenant by subdomain
func (s *PostgresStore) GetTenantBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	query := `
        SELECT id, created_at, updated_at, subdomain, company_name, display_name,
               primary_color, industry, features, theme_mode, is_active
        FROM tenants
        WHERE subdomain = $1`

	tenant := &models.Tenant{}
	err := s.getDB().QueryRowContext(ctx, query, subdomain).Scan(
		&tenant.ID, &tenant.CreatedAt, &tenant.UpdatedAt, &tenant.Subdomain,
		&tenant.CompanyName, &tenant.DisplayName, &tenant.PrimaryColor,
		&tenant.Industry, &tenant.Features, &tenant.ThemeMode, &tenant.IsActive,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}

	return tenant, err
}

// UpdateTenant updates a tenant
func (s *PostgresStore) UpdateTenant(ctx context.Context, tenant *models.Tenant) error {
	tenant.UpdatedAt = time.Now()

	query := `
        UPDATE tenants SET
            updated_at = $2, subdomain = $3, company_name = $4,
            display_name = $5, primary_color = $6, industry = $7,
            features = $8, theme_mode = $9, is_active = $10
        WHERE id = $1`

	result, err := s.getDB().ExecContext(ctx, query,
		tenant.ID, tenant.UpdatedAt, tenant.Subdomain, tenant.CompanyName,
		tenant.DisplayName, tenant.PrimaryColor, tenant.Industry,
		tenant.Features, tenant.ThemeMode, tenant.IsActive,
	)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteTenant deletes a tenant
func (s *PostgresStore) DeleteTenant(ctx context.Context, id uuid.UUID) error {
	result, err := s.getDB().ExecContext(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// ListTenants lists tenants
func (s *PostgresStore) ListTenants(ctx context.Context, limit, offset int) ([]*models.Tenant, int64, error) {
	var total int64
	if err := s.getDB().QueryRowContext(ctx, `SELECT COUNT(*) FROM tenants`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
        SELECT id, created_at, updated_at, subdomain, company_name, display_name,
               primary_color, industry, features, theme_mode, is_active
        FROM tenants
        ORDER BY created_at ASC
        LIMIT $1 OFFSET $2`

	rows, err := s.getDB().QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tenants := []*models.Tenant{}
	for rows.Next() {
		tenant := &models.Tenant{}
		err := rows.Scan(
			&tenant.ID, &tenant.CreatedAt, &tenant.UpdatedAt, &tenant.Subdomain,
			&tenant.CompanyName, &tenant.DisplayName, &tenant.PrimaryColor,
			&tenant.Industry, &tenant.Features, &tenant.ThemeMode, &tenant.IsActive,
		)
		if err != nil {
			return nil, 0, err
		}
		tenants = append(tenants, tenant)
	}

	return tenants, total, rows.Err()
}

// FirstTenant returns the oldest tenant in the known set. Used by the
// development-mode fallback when no tenant selector is present.
func (s *PostgresStore) FirstTenant(ctx context.Context) (*models.Tenant, error) {
	query := `
        SELECT id, created_at, updated_at, subdomain, company_name, display_name,
               primary_color, industry, features, theme_mode, is_active
        FROM tenants
        ORDER BY created_at ASC, id ASC
        LIMIT 1`

	tenant := &models.Tenant{}
	err := s.getDB().QueryRowContext(ctx, query).Scan(
		&tenant.ID, &tenant.CreatedAt, &tenant.UpdatedAt, &tenant.Subdomain,
		&tenant.CompanyName, &tenant.DisplayName, &tenant.PrimaryColor,
		&tenant.Industry, &tenant.Features, &tenant.ThemeMode, &tenant.IsActive,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}

	return tenant, err
}
