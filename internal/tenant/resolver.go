// Package tenant resolves which organization's configuration applies
// to a request and derives the console theme from it.
package tenant

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/warrantyhub/console-server/internal/config"
	"github.com/warrantyhub/console-server/internal/models"
	"github.com/warrantyhub/console-server/internal/storage"
)

// Resolver determines the active tenant for a request
type Resolver struct {
	store storage.Store
	cfg   *config.Config
}

// NewResolver creates a tenant resolver
func NewResolver(cfg *config.Config, store storage.Store) *Resolver {
	return &Resolver{store: store, cfg: cfg}
}

// Resolve determines the active tenant from the request context. The
// selector query parameter is matched against the known set by ID or
// subdomain. With no selector, the first known tenant is used as a
// development affordance, gated on configuration and never available
// in production. No match means no active tenant: the console falls
// back to static branding.
func (r *Resolver) Resolve(ctx context.Context, req *http.Request) (*models.Tenant, error) {
	selector := req.URL.Query().Get(r.cfg.Tenancy.QueryParam)

	if selector != "" {
		tenant, err := r.lookup(ctx, selector)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				log.Debug().Str("selector", selector).Msg("Unknown tenant selector")
				return nil, nil
			}
			return nil, err
		}
		if !tenant.IsActive {
			return nil, nil
		}
		return tenant, nil
	}

	if r.cfg.Tenancy.DevFallback && !r.cfg.IsProduction() {
		tenant, err := r.store.FirstTenant(ctx)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return tenant, nil
	}

	return nil, nil
}

// lookup matches a selector against the known tenant set by ID first,
// then by subdomain
func (r *Resolver) lookup(ctx context.Context, selector string) (*models.Tenant, error) {
	if id, err := uuid.Parse(selector); err == nil {
		tenant, err := r.store.GetTenant(ctx, id)
		if err == nil || !errors.Is(err, storage.ErrNotFound) {
			return tenant, err
		}
	}
	return r.store.GetTenantBySubdomain(ctx, selector)
}
