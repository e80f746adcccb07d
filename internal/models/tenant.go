package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant represents an organization-level configuration that scopes
// branding, subdomain routing and feature availability
type Tenant struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Subdomain   string `json:"subdomain" db:"subdomain"`
	CompanyName string `json:"companyName" db:"company_name"`
	DisplayName string `json:"displayName" db:"display_name"`

	// PrimaryColor is a #RRGGBB hex value applied to the console theme
	PrimaryColor string `json:"primaryColor" db:"primary_color"`
	Industry     string `json:"industry" db:"industry"`

	Features  StringSet `json:"features" db:"features"`
	ThemeMode string    `json:"themeMode" db:"theme_mode"`

	IsActive bool `json:"isActive" db:"is_active"`
}
