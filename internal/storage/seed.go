package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/warrantyhub/console-server/internal/models"
	"github.com/warrantyhub/console-server/pkg/crypto"
)

// Seed installs the demo tenant set, demo principals and demo brands
// when the respective tables are empty. Existing data is left alone, so
// the call is safe on every startup.
func Seed(ctx context.Context, store Store) error {
	tenants, total, err := store.ListTenants(ctx, 1, 0)
	if err != nil {
		return fmt.Errorf("seed: list tenants: %w", err)
	}

	var primary *models.Tenant
	if total == 0 {
		primary, err = seedTenants(ctx, store)
		if err != nil {
			return err
		}
	} else {
		primary = tenants[0]
	}

	userCount, err := store.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("seed: count users: %w", err)
	}

	brands, err := store.ListBrands(ctx, primary.ID)
	if err != nil {
		return fmt.Errorf("seed: list brands: %w", err)
	}
	if len(brands) == 0 {
		brands, err = seedBrands(ctx, store, primary)
		if err != nil {
			return err
		}
	}

	if userCount == 0 {
		if err := seedUsers(ctx, store, primary, brands); err != nil {
			return err
		}
	}

	return nil
}

func seedTenants(ctx context.Context, store Store) (*models.Tenant, error) {
	demo := []*models.Tenant{
		{
			Subdomain:    "acme",
			CompanyName:  "Acme Appliances Ltd",
			DisplayName:  "Acme Appliances",
			PrimaryColor: "#00C853",
			Industry:     "home-appliances",
			Features:     models.StringSet{"claims", "inventory", "qr-codes"},
			ThemeMode:    "light",
			IsActive:     true,
		},
		{
			Subdomain:    "velotech",
			CompanyName:  "VeloTech Mobility GmbH",
			DisplayName:  "VeloTech",
			PrimaryColor: "#2962FF",
			Industry:     "e-mobility",
			Features:     models.StringSet{"claims", "inventory"},
			ThemeMode:    "dark",
			IsActive:     true,
		},
	}

	for _, t := range demo {
		if err := store.CreateTenant(ctx, t); err != nil {
			return nil, fmt.Errorf("seed: create tenant %s: %w", t.Subdomain, err)
		}
	}

	log.Info().Int("count", len(demo)).Msg("Seeded demo tenants")
	return demo[0], nil
}

func seedBrands(ctx context.Context, store Store, tenant *models.Tenant) ([]*models.Brand, error) {
	demo := []*models.Brand{
		{
			TenantModel: models.TenantModel{TenantID: tenant.ID},
			Name:        "acme-home",
			DisplayName: "Acme Home",
			Color:       "#00C853",
			IsActive:    true,
		},
		{
			TenantModel: models.TenantModel{TenantID: tenant.ID},
			Name:        "acme-pro",
			DisplayName: "Acme Pro",
			Color:       "#FF6D00",
			IsActive:    true,
		},
		{
			TenantModel: models.TenantModel{TenantID: tenant.ID},
			Name:        "northwind",
			DisplayName: "Northwind",
			Color:       "#6200EA",
			IsActive:    true,
		},
	}

	for _, b := range demo {
		if err := store.CreateBrand(ctx, b); err != nil {
			return nil, fmt.Errorf("seed: create brand %s: %w", b.Name, err)
		}
	}

	log.Info().Int("count", len(demo)).Msg("Seeded demo brands")
	return demo, nil
}

func seedUsers(ctx context.Context, store Store, tenant *models.Tenant, brands []*models.Brand) error {
	type demoUser struct {
		email string
		name  string
		role  models.Role
		brand bool
	}

	demo := []demoUser{
		{"admin@warrantyhub.io", "Platform Admin", models.RoleSystemAdmin, false},
		{"brand@acme.test", "Brand Admin", models.RoleBrandAdmin, false},
		{"plant@acme.test", "Plant Manager", models.RoleManufacturingPlant, true},
		{"warehouse@acme.test", "Warehouse Lead", models.RolePlantWarehouse, true},
		{"distributor@acme.test", "Distributor", models.RoleBrandDistributor, true},
		{"retailer@acme.test", "Retailer", models.RoleBrandRetailer, true},
		{"customer@acme.test", "Demo Customer", models.RoleCustomer, false},
	}

	// Demo credentials are password = local part of the email
	for _, d := range demo {
		hash, err := crypto.HashPassword(passwordFor(d.email))
		if err != nil {
			return fmt.Errorf("seed: hash password: %w", err)
		}

		user := &models.User{
			Email:        d.email,
			DisplayName:  d.name,
			PasswordHash: hash,
			Role:         d.role,
			IsActive:     true,
			Settings:     make(models.Variables),
		}

		if d.role != models.RoleSystemAdmin {
			tid := tenant.ID
			user.TenantID = &tid
		}
		if d.brand && len(brands) > 0 {
			bid := brands[0].ID
			user.BrandID = &bid
		}

		if err := store.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("seed: create user %s: %w", d.email, err)
		}
	}

	log.Info().Int("count", len(demo)).Msg("Seeded demo users")
	return nil
}

func passwordFor(email string) string {
	for i := 0; i < len(email); i++ {
		if email[i] == '@' {
			return email[:i]
		}
	}
	return email
}
