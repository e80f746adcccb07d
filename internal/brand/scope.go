// Package brand manages the brand collection and the per-session
// active brand pointer, and filters brand visibility by principal.
package brand

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/warrantyhub/console-server/internal/config"
	"github.com/warrantyhub/console-server/internal/models"
	"github.com/warrantyhub/console-server/internal/server"
	"github.com/warrantyhub/console-server/internal/session"
	"github.com/warrantyhub/console-server/internal/storage"
	"github.com/warrantyhub/console-server/pkg/slug"
)

// ErrInvalidName rejects internal names that are not url-safe
var ErrInvalidName = errors.New("invalid brand name")

// Scope manages brand state for sessions
type Scope struct {
	store    storage.Store
	sessions session.Store
	bus      *server.Publisher

	// open restores the legacy default-open visibility for scoped
	// principals without a brand assignment
	open bool
}

// NewScope creates a brand scope manager
func NewScope(cfg *config.Config, store storage.Store, sessions session.Store, bus *server.Publisher) *Scope {
	return &Scope{
		store:    store,
		sessions: sessions,
		bus:      bus,
		open:     cfg.Branding.OpenVisibility,
	}
}

// Brands returns the tenant's full brand collection in collection
// order
func (s *Scope) Brands(ctx context.Context, tenantID uuid.UUID) ([]*models.Brand, error) {
	return s.store.ListBrands(ctx, tenantID)
}

// ActiveBrand resolves the session's active brand. With no explicit
// selection the first brand in collection order is implicitly active;
// a dangling pointer (brand deleted elsewhere) degrades the same way.
func (s *Scope) ActiveBrand(ctx context.Context, sess *models.Session, tenantID uuid.UUID) (*models.Brand, error) {
	if sess != nil && sess.ActiveBrandID != nil {
		brand, err := s.store.GetBrand(ctx, *sess.ActiveBrandID)
		if err == nil {
			return brand, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
	}

	brands, err := s.store.ListBrands(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if len(brands) == 0 {
		return nil, nil
	}
	return brands[0], nil
}

// SetActiveBrand switches the session's active brand pointer. The
// switch is unconditional; callers pass brands they obtained from this
// scope. A nil id clears the pointer.
func (s *Scope) SetActiveBrand(ctx context.Context, sess *models.Session, brandID *uuid.UUID) error {
	sess.ActiveBrandID = brandID
	if err := s.sessions.Save(ctx, sess); err != nil {
		return fmt.Errorf("persist active brand: %w", err)
	}

	event := &models.AuditEvent{
		TenantID:    sess.TenantID,
		BrandID:     brandID,
		Type:        models.EventTypeBrandActivated,
		Level:       models.EventLevelInfo,
		Description: "active brand switched",
	}
	if sess.Principal != nil {
		event.UserID = &sess.Principal.ID
	}
	s.bus.Publish(server.SubjectBrandChanged, event)

	return nil
}

// AddBrandInput holds the data for a new brand
type AddBrandInput struct {
	Name        string
	DisplayName string
	Color       string
	LogoURL     string
}

// AddBrand appends a brand to the tenant's collection. The internal
// name is derived from the display name when absent and must be
// url-safe.
func (s *Scope) AddBrand(ctx context.Context, tenantID uuid.UUID, input AddBrandInput) (*models.Brand, error) {
	name := input.Name
	if name == "" {
		name = slug.From(input.DisplayName)
	}
	if !slug.Valid(name) {
		return nil, ErrInvalidName
	}

	brand := &models.Brand{
		TenantModel: models.TenantModel{TenantID: tenantID},
		Name:        name,
		DisplayName: input.DisplayName,
		Color:       input.Color,
		LogoURL:     input.LogoURL,
		IsActive:    true,
	}

	if err := s.store.CreateBrand(ctx, brand); err != nil {
		return nil, err
	}

	s.bus.Publish(server.SubjectBrandChanged, &models.AuditEvent{
		TenantID:    &tenantID,
		BrandID:     &brand.ID,
		Type:        models.EventTypeBrandCreated,
		Level:       models.EventLevelInfo,
		Description: "brand created",
		Details:     models.Variables{"name": brand.Name},
	})

	return brand, nil
}

// UpdateBrandInput carries the mutable brand fields; nil means keep
type UpdateBrandInput struct {
	Name        *string
	DisplayName *string
	Color       *string
	LogoURL     *string
	IsActive    *bool
}

// UpdateBrand patches a brand. The active pointer is the brand ID, so
// a session holding the updated brand sees the new snapshot on its
// next read with no stale copy to reconcile.
func (s *Scope) UpdateBrand(ctx context.Context, id uuid.UUID, input UpdateBrandInput) (*models.Brand, error) {
	brand, err := s.store.GetBrand(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if !slug.Valid(*input.Name) {
			return nil, ErrInvalidName
		}
		brand.Name = *input.Name
	}
	if input.DisplayName != nil {
		brand.DisplayName = *input.DisplayName
	}
	if input.Color != nil {
		brand.Color = *input.Color
	}
	if input.LogoURL != nil {
		brand.LogoURL = *input.LogoURL
	}
	if input.IsActive != nil {
		brand.IsActive = *input.IsActive
	}

	if err := s.store.UpdateBrand(ctx, brand); err != nil {
		return nil, err
	}

	s.bus.Publish(server.SubjectBrandChanged, &models.AuditEvent{
		TenantID:    &brand.TenantID,
		BrandID:     &brand.ID,
		Type:        models.EventTypeBrandUpdated,
		Level:       models.EventLevelInfo,
		Description: "brand updated",
	})

	return brand, nil
}

// DeleteBrand removes a brand. When the deleted brand was the
// session's active brand, the first remaining brand in collection
// order is promoted; deleting the last brand clears the pointer. The
// delete and the promotion read run in one transaction so promotion
// never sees a collection with the deleted brand still in it.
func (s *Scope) DeleteBrand(ctx context.Context, sess *models.Session, id uuid.UUID) error {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	brand, err := tx.GetBrand(ctx, id)
	if err != nil {
		return err
	}

	if err := tx.DeleteBrand(ctx, id); err != nil {
		return err
	}

	promote := sess != nil && sess.ActiveBrandID != nil && *sess.ActiveBrandID == id

	var remaining []*models.Brand
	if promote {
		remaining, err = tx.ListBrands(ctx, brand.TenantID)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	if promote {
		if len(remaining) > 0 {
			promoted := remaining[0].ID
			sess.ActiveBrandID = &promoted
		} else {
			sess.ActiveBrandID = nil
		}

		if err := s.sessions.Save(ctx, sess); err != nil {
			return fmt.Errorf("persist active brand: %w", err)
		}
	}

	s.bus.Publish(server.SubjectBrandChanged, &models.AuditEvent{
		TenantID:    &brand.TenantID,
		BrandID:     &id,
		Type:        models.EventTypeBrandDeleted,
		Level:       models.EventLevelInfo,
		Description: "brand deleted",
		Details:     models.Variables{"name": brand.Name},
	})

	return nil
}

// VisibleBrands filters the collection by the principal's scope.
// Platform and brand admins see everything; a brand-scoped principal
// sees its single assigned brand. An assignment-less scoped principal
// sees nothing until provisioned, unless legacy open visibility is
// configured.
func (s *Scope) VisibleBrands(ctx context.Context, principal *models.User, tenantID uuid.UUID) ([]*models.Brand, error) {
	if principal == nil {
		return []*models.Brand{}, nil
	}

	if !principal.Role.BrandScoped() {
		return s.store.ListBrands(ctx, tenantID)
	}

	if principal.BrandID != nil {
		brand, err := s.store.GetBrand(ctx, *principal.BrandID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return []*models.Brand{}, nil
			}
			return nil, err
		}
		return []*models.Brand{brand}, nil
	}

	if s.open {
		return s.store.ListBrands(ctx, tenantID)
	}

	return []*models.Brand{}, nil
}
