// Package session persists authenticated sessions. The store is the
// source of truth for "who is logged in": a session missing here is a
// logged-out session no matter what token the client still holds.
package session

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/warrantyhub/console-server/internal/models"
)

// Common errors
var (
	ErrNotFound = errors.New("session not found")
)

// Store defines the session store interface
type Store interface {
	// Save persists the session until its absolute expiry
	Save(ctx context.Context, session *models.Session) error

	// Get loads a session. Expired or unreadable records are purged
	// and reported as ErrNotFound rather than surfaced as errors.
	Get(ctx context.Context, id uuid.UUID) (*models.Session, error)

	// Delete removes a session. Deleting an absent session is not an
	// error; logout is idempotent.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteAllForUser removes every session belonging to a user
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
}
