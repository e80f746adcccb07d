package models

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies what a user is allowed to do across the platform
type Role string

// Platform roles. The first block is the warranty console's fixed set;
// the generic roles at the end are reserved for plain signups.
const (
	RoleSystemAdmin        Role = "system-admin"
	RoleBrandAdmin         Role = "brand-admin"
	RoleManufacturingPlant Role = "manufacturing-plant"
	RolePlantWarehouse     Role = "plant-warehouse"
	RoleBrandDistributor   Role = "brand-distributor"
	RoleBrandRetailer      Role = "brand-retailer"
	RoleCustomer           Role = "customer"

	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleSystemAdmin, RoleBrandAdmin, RoleManufacturingPlant,
		RolePlantWarehouse, RoleBrandDistributor, RoleBrandRetailer,
		RoleCustomer, RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// BrandScoped reports whether r operates within a single assigned brand.
// System and brand admins see every brand; everyone else is scoped.
func (r Role) BrandScoped() bool {
	switch r {
	case RoleSystemAdmin, RoleBrandAdmin:
		return false
	}
	return true
}

// User represents a platform principal
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Email       string `json:"email" db:"email"`
	DisplayName string `json:"displayName" db:"display_name"`

	PasswordHash string `json:"-" db:"password_hash"`

	Role Role `json:"role" db:"role"`

	// A brand-scoped role has zero or one brand assignment
	BrandID  *uuid.UUID `json:"brandId,omitempty" db:"brand_id"`
	TenantID *uuid.UUID `json:"tenantId,omitempty" db:"tenant_id"`

	IsActive bool `json:"isActive" db:"is_active"`

	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`

	Settings Variables `json:"settings" db:"settings"`
}

// Sanitized returns a copy safe for serialization to clients and
// session records: the password hash never leaves the registry.
func (u *User) Sanitized() *User {
	c := *u
	c.PasswordHash = ""
	return &c
}
