package models

// Brand represents one product brand inside a tenant. Brands are the
// sub-tenant scoping unit for warehouse, distributor and retailer roles.
type Brand struct {
	TenantModel

	// Name is the url-safe internal identifier (lowercase alphanumerics
	// and hyphens), unique within the tenant
	Name        string `json:"name" db:"name"`
	DisplayName string `json:"displayName" db:"display_name"`

	Color   string `json:"color" db:"color"`
	LogoURL string `json:"logoUrl,omitempty" db:"logo_url"`

	IsActive bool `json:"isActive" db:"is_active"`
}
