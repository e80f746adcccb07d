package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/warrantyhub/console-server/internal/models"
)

// MemoryStore implements Store in process memory. Used in standalone
// mode (no Redis configured) and in tests. Expiry is checked lazily on
// read, matching the single-tab model the console was designed around.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*models.Session
}

// NewMemoryStore creates an in-memory session store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[uuid.UUID]*models.Session),
	}
}

// Save persists the session
func (s *MemoryStore) Save(ctx context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *session
	s.sessions[session.ID] = &copy
	return nil
}

// Get loads a session, purging it when expired
func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}

	if session.Expired(time.Now()) {
		delete(s.sessions, id)
		return nil, ErrNotFound
	}

	copy := *session
	return &copy, nil
}

// Delete removes a session
func (s *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// DeleteAllForUser removes every session belonging to a user
func (s *MemoryStore) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, session := range s.sessions {
		if session.Principal != nil && session.Principal.ID == userID {
			delete(s.sessions, id)
		}
	}
	return nil
}
