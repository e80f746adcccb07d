package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditEvent represents an audit trail entry
type AuditEvent struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	TenantID *uuid.UUID `json:"tenantId,omitempty" db:"tenant_id"`
	UserID   *uuid.UUID `json:"userId,omitempty" db:"user_id"`
	BrandID  *uuid.UUID `json:"brandId,omitempty" db:"brand_id"`

	Type        EventType  `json:"type" db:"type"`
	Level       EventLevel `json:"level" db:"level"`
	Description string     `json:"description" db:"description"`

	Details Variables `json:"details,omitempty" db:"details"`
}

// EventType represents audit event types
type EventType string

const (
	// Identity events
	EventTypeLogin        EventType = "LOGIN"
	EventTypeLoginFailed  EventType = "LOGIN_FAILED"
	EventTypeSignup       EventType = "SIGNUP"
	EventTypeLogout       EventType = "LOGOUT"
	EventTypeAccessDenied EventType = "ACCESS_DENIED"

	// Brand events
	EventTypeBrandCreated   EventType = "BRAND_CREATED"
	EventTypeBrandUpdated   EventType = "BRAND_UPDATED"
	EventTypeBrandDeleted   EventType = "BRAND_DELETED"
	EventTypeBrandActivated EventType = "BRAND_ACTIVATED"

	// Tenant events
	EventTypeTenantResolved EventType = "TENANT_RESOLVED"
)

// EventLevel represents event severity levels
type EventLevel string

const (
	EventLevelDebug   EventLevel = "DEBUG"
	EventLevelInfo    EventLevel = "INFO"
	EventLevelWarning EventLevel = "WARNING"
	EventLevelError   EventLevel = "ERROR"
)
