package models

import (
	"time"

	"github.com/google/uuid"
)

// Session represents an authenticated browser session. The expiry is
// fixed at creation and never extended by activity.
type Session struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`

	// Principal is a snapshot taken at login, password hash stripped.
	// It is not re-validated against the registry on restore.
	Principal *User `json:"principal"`

	// TenantID is the tenant hint attached at login, absent for
	// system admins who operate across tenants
	TenantID *uuid.UUID `json:"tenantId,omitempty"`

	// ActiveBrandID is the brand currently selected for brand-scoped
	// operations in this session
	ActiveBrandID *uuid.UUID `json:"activeBrandId,omitempty"`
}

// Expired reports whether the session has passed its absolute expiry
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
