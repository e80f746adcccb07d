// Package auth implements the identity resolver: credential
// validation, session issuance and restore, signup and logout.
package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/warrantyhub/console-server/internal/config"
	"github.com/warrantyhub/console-server/internal/models"
	"github.com/warrantyhub/console-server/internal/server"
	"github.com/warrantyhub/console-server/internal/session"
	"github.com/warrantyhub/console-server/internal/storage"
	"github.com/warrantyhub/console-server/pkg/crypto"
)

// Recoverable identity errors. Everything else coming out of this
// package is an infrastructure failure.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrAuthInProgress     = errors.New("auth operation already in progress")
)

// Identity resolves principals: it validates credentials, issues and
// restores sessions, and registers new accounts.
type Identity struct {
	store    storage.Store
	sessions session.Store
	jwt      *JWTManager
	bus      *server.Publisher
	ttl      time.Duration

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewIdentity creates an identity resolver
func NewIdentity(cfg *config.Config, store storage.Store, sessions session.Store, bus *server.Publisher) *Identity {
	return &Identity{
		store:    store,
		sessions: sessions,
		jwt:      NewJWTManager(&cfg.JWT),
		bus:      bus,
		ttl:      cfg.Session.TTL,
		inflight: make(map[string]struct{}),
	}
}

// LoginResult carries an established session and its signed token
type LoginResult struct {
	Session *models.Session `json:"session"`
	Token   string          `json:"token"`
}

// Login validates an email+password pair and establishes a session.
// The optional tenant hint is attached to the session unless the
// principal is a system admin, who operates across tenants.
func (i *Identity) Login(ctx context.Context, email, password string, tenantHint *uuid.UUID) (*LoginResult, error) {
	release, err := i.acquire(email)
	if err != nil {
		return nil, err
	}
	defer release()

	user, err := i.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			i.publishDenied(email, "unknown account")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.VerifyPassword(password, user.PasswordHash) {
		i.publishDenied(email, "password mismatch")
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		i.publishDenied(email, "account disabled")
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := i.store.UpdateUser(ctx, user); err != nil {
		// Login still succeeds; the timestamp is informational
		log.Warn().Err(err).Str("email", email).Msg("Failed to record last login")
	}

	return i.establish(ctx, user, tenantHint, server.SubjectAuthLogin, models.EventTypeLogin)
}

// SignupInput holds the data required to register a new account
type SignupInput struct {
	Email       string
	Password    string
	DisplayName string
	TenantID    *uuid.UUID
}

// Signup registers a new principal with the default unprivileged role
// and immediately logs it in
func (i *Identity) Signup(ctx context.Context, input SignupInput) (*LoginResult, error) {
	release, err := i.acquire(input.Email)
	if err != nil {
		return nil, err
	}
	defer release()

	if _, err := i.store.GetUserByEmail(ctx, input.Email); err == nil {
		return nil, ErrDuplicateAccount
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        input.Email,
		DisplayName:  input.DisplayName,
		PasswordHash: hash,
		Role:         models.RoleCustomer,
		TenantID:     input.TenantID,
		IsActive:     true,
		Settings:     make(models.Variables),
	}

	if err := i.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil, ErrDuplicateAccount
		}
		return nil, err
	}

	return i.establish(ctx, user, input.TenantID, server.SubjectAuthSignup, models.EventTypeSignup)
}

// Logout destroys a session. Logging out an already-absent session
// succeeds; the end state is the same.
func (i *Identity) Logout(ctx context.Context, sessionID uuid.UUID) error {
	sess, err := i.sessions.Get(ctx, sessionID)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		return err
	}

	if err := i.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}

	if sess != nil && sess.Principal != nil {
		i.bus.Publish(server.SubjectAuthLogout, &models.AuditEvent{
			TenantID:    sess.TenantID,
			UserID:      &sess.Principal.ID,
			Type:        models.EventTypeLogout,
			Level:       models.EventLevelInfo,
			Description: "session terminated",
		})
	}

	return nil
}

// Restore resolves a session token back to its session, the bootstrap
// path run on every request. Expired, revoked or malformed state comes
// back as (nil, nil): silently unauthenticated, never an error page.
func (i *Identity) Restore(ctx context.Context, token string) (*models.Session, error) {
	claims, err := i.jwt.ValidateToken(token)
	if err != nil {
		return nil, nil
	}

	sess, err := i.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if sess.Principal == nil {
		// Unusable snapshot; purge and start unauthenticated
		_ = i.sessions.Delete(ctx, claims.SessionID)
		return nil, nil
	}

	return sess, nil
}

// establish creates and persists the session for a validated principal
func (i *Identity) establish(ctx context.Context, user *models.User, tenantHint *uuid.UUID, subject string, eventType models.EventType) (*LoginResult, error) {
	now := time.Now()

	sess := &models.Session{
		ID:        uuid.New(),
		CreatedAt: now,
		ExpiresAt: now.Add(i.ttl),
		Principal: user.Sanitized(),
	}

	// System admins roam across tenants; pinning one would scope their
	// console to a single organization
	if user.Role != models.RoleSystemAdmin {
		if tenantHint != nil {
			sess.TenantID = tenantHint
		} else {
			sess.TenantID = user.TenantID
		}
	}

	if err := i.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	token, err := i.jwt.GenerateSessionToken(sess)
	if err != nil {
		return nil, err
	}

	i.bus.Publish(subject, &models.AuditEvent{
		TenantID:    sess.TenantID,
		UserID:      &user.ID,
		Type:        eventType,
		Level:       models.EventLevelInfo,
		Description: "session established",
		Details:     models.Variables{"expiresAt": sess.ExpiresAt},
	})

	return &LoginResult{Session: sess, Token: token}, nil
}

// acquire takes the per-account in-flight guard. A second login or
// signup for the same email while one is running fails fast instead of
// racing it.
func (i *Identity) acquire(email string) (func(), error) {
	key := strings.ToLower(strings.TrimSpace(email))

	i.mu.Lock()
	defer i.mu.Unlock()

	if _, busy := i.inflight[key]; busy {
		return nil, ErrAuthInProgress
	}
	i.inflight[key] = struct{}{}

	return func() {
		i.mu.Lock()
		defer i.mu.Unlock()
		delete(i.inflight, key)
	}, nil
}

func (i *Identity) publishDenied(email, reason string) {
	i.bus.Publish(server.SubjectAuthDenied, &models.AuditEvent{
		Type:        models.EventTypeLoginFailed,
		Level:       models.EventLevelWarning,
		Description: "login rejected",
		Details:     models.Variables{"email": email, "reason": reason},
	})
}
