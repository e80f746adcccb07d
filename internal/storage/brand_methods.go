package storage

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/warrantyhub/console-server/internal/models"
)

// CreateBrand creates a new brand
func (s *PostgresStore) CreateBrand(ctx context.Context, brand *models.Brand) error {
	if brand.ID == uuid.Nil {
		brand.ID = uuid.New()
	}

	now := time.Now()
	brand.CreatedAt = now
	brand.UpdatedAt = now

	query := `
        INSERT INTO brands (
            id, created_at, updated_at, tenant_id, name, display_name,
            color, logo_url, is_active
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9
        )`

	_, err := s.getDB().ExecContext(ctx, query,
		brand.ID, brand.CreatedAt, brand.UpdatedAt, brand.TenantID,
		brand.Name, brand.DisplayName, brand.Color, brand.LogoURL,
		brand.IsActive,
	)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrDuplicateKey
		}
		return err
	}

	return nil
}

// GetBrand gets a brand by ID
func (s *PostgresStore) GetBrand(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	query := `
        SELECT id, created_at, updated_at, tenant_id, name, display_name,
               color, logo_url, is_active
        FROM brands
        WHERE id = $1`

	brand := &models.Brand{}
	err := s.getDB().QueryRowContext(ctx, query, id).Scan(
		&brand.ID, &brand.CreatedAt, &brand.UpdatedAt, &brand.TenantID,
		&brand.Name, &brand.DisplayName, &brand.Color, &brand.LogoURL,
		&brand.IsActive,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}

	return brand, err
}

// GetBrandByName gets a brand by its internal name within a tenant
func (s *PostgresStore) GetBrandByName(ctx context.Context, tenantID uuid.UUID, name string) (*models.Brand, error) {
	query := `
        SELECT id, created_at, updated_at, tenant_id, name, display_name,
               color, logo_url, is_active
        FROM brands
        WHERE tenant_id = $1 AND name = $2`

	brand := &models.Brand{}
	err := s.getDB().QueryRowContext(ctx, query, tenantID, name).Scan(
		&brand.ID, &brand.CreatedAt, &brand.UpdatedAt, &brand.TenantID,
		&brand.Name, &brand.DisplayName, &brand.Color, &brand.LogoURL,
		&brand.IsActive,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}

	return brand, err
}

// UpdateBrand updates a brand
func (s *PostgresStore) UpdateBrand(ctx context.Context, brand *models.Brand) error {
	brand.UpdatedAt = time.Now()

	query := `
        UPDATE brands SET
            updated_at = $2, name = $3, display_name = $4, color = $5,
            logo_url = $6, is_active = $7
        WHERE id = $1`

	result, err := s.getDB().ExecContext(ctx, query,
		brand.ID, brand.UpdatedAt, brand.Name, brand.DisplayName,
		brand.Color, brand.LogoURL, brand.IsActive,
	)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return ErrDuplicateKey
		}
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

// DeleteBrand deletes a brand
func (s *PostgresStore) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	result, err := s.getDB().ExecContext(ctx, `DELETE FROM brands WHERE id = $1`, id)
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

// ListBrands lists a tenant's brands in collection order. Collection
// order is creation order; brand promotion on delete depends on it.
func (s *PostgresStore) ListBrands(ctx context.Context, tenantID uuid.UUID) ([]*models.Brand, error) {
	query := `
        SELECT id, created_at, updated_at, tenant_id, name, display_name,
               color, logo_url, is_active
        FROM brands
        WHERE tenant_id = $1
        ORDER BY created_at ASC, id ASC`

	rows, err := s.getDB().QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	brands := []*models.Brand{}
	for rows.Next() {
		brand := &models.Brand{}
		err := rows.Scan(
			&brand.ID, &brand.CreatedAt, &brand.UpdatedAt, &brand.TenantID,
			&brand.Name, &brand.DisplayName, &brand.Color, &brand.LogoURL,
			&brand.IsActive,
		)
		if err != nil {
			return nil, err
		}
		brands = append(brands, brand)
	}

	return brands, rows.Err()
}
