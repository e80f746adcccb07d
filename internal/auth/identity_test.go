package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warrantyhub/console-server/internal/config"
	"github.com/warrantyhub/console-server/internal/models"
	"github.com/warrantyhub/console-server/internal/session"
	"github.com/warrantyhub/console-server/internal/storage"
	"github.com/warrantyhub/console-server/pkg/crypto"
)

// fakeStore is an in-memory user registry for identity tests;
// unimplemented Store methods panic via the embedded nil interface
type fakeStore struct {
	storage.Store

	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[string]*models.User)}
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[strings.ToLower(email)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	c := *user
	return &c, nil
}

func (f *fakeStore) CreateUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := f.users[key]; exists {
		return storage.ErrDuplicateKey
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	c := *user
	f.users[key] = &c
	return nil
}

func (f *fakeStore) UpdateUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := f.users[key]; !exists {
		return storage.ErrNotFound
	}
	c := *user
	f.users[key] = &c
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWT:     config.JWTConfig{Secret: "test-secret", Issuer: "console-test"},
		Session: config.SessionConfig{TTL: 24 * time.Hour, CookieName: "console_session"},
	}
}

func seedUser(t *testing.T, store *fakeStore, email, password string, role models.Role) *models.User {
	t.Helper()

	hash, err := crypto.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		Email:        email,
		DisplayName:  "Test User",
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func TestLoginSuccess(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	sessions := session.NewMemoryStore()
	identity := NewIdentity(testConfig(), store, sessions, nil)

	seedUser(t, store, "retailer@acme.test", "retailer", models.RoleBrandRetailer)

	before := time.Now()
	result, err := identity.Login(ctx, "retailer@acme.test", "retailer", nil)
	require.NoError(t, err)
	require.NotNil(t, result.Session)
	require.NotEmpty(t, result.Token)

	// Expiry is fixed at creation time plus the configured lifetime
	assert.WithinDuration(t, before.Add(24*time.Hour), result.Session.ExpiresAt, 5*time.Second)

	// The session snapshot never carries the password hash
	require.NotNil(t, result.Session.Principal)
	assert.Empty(t, result.Session.Principal.PasswordHash)
	assert.Equal(t, models.RoleBrandRetailer, result.Session.Principal.Role)

	// Login records the timestamp
	stored, err := store.GetUserByEmail(ctx, "retailer@acme.test")
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestLoginInvalidCredentials(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	identity := NewIdentity(testConfig(), store, session.NewMemoryStore(), nil)

	seedUser(t, store, "retailer@acme.test", "retailer", models.RoleBrandRetailer)

	// Unknown account and wrong password are indistinguishable
	_, err := identity.Login(ctx, "nobody@acme.test", "whatever", nil)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = identity.Login(ctx, "retailer@acme.test", "wrong", nil)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginDisabledAccount(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	identity := NewIdentity(testConfig(), store, session.NewMemoryStore(), nil)

	user := seedUser(t, store, "gone@acme.test", "password1", models.RoleCustomer)
	user.IsActive = false
	require.NoError(t, store.UpdateUser(ctx, user))

	_, err := identity.Login(ctx, "gone@acme.test", "password1", nil)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginTenantHint(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	identity := NewIdentity(testConfig(), store, session.NewMemoryStore(), nil)

	seedUser(t, store, "retailer@acme.test", "retailer", models.RoleBrandRetailer)
	seedUser(t, store, "admin@platform.test", "password1", models.RoleSystemAdmin)

	hint := uuid.New()

	result, err := identity.Login(ctx, "retailer@acme.test", "retailer", &hint)
	require.NoError(t, err)
	require.NotNil(t, result.Session.TenantID)
	assert.Equal(t, hint, *result.Session.TenantID)

	// System admins operate across tenants; the hint is discarded
	result, err = identity.Login(ctx, "admin@platform.test", "password1", &hint)
	require.NoError(t, err)
	assert.Nil(t, result.Session.TenantID)
}

func TestSignup(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	sessions := session.NewMemoryStore()
	identity := NewIdentity(testConfig(), store, sessions, nil)

	result, err := identity.Signup(ctx, SignupInput{
		Email:       "new@acme.test",
		Password:    "password1",
		DisplayName: "New User",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, result.Session.Principal.Role)

	// Stored credentials are hashed, never plaintext
	stored, err := store.GetUserByEmail(ctx, "new@acme.test")
	require.NoError(t, err)
	assert.NotEqual(t, "password1", stored.PasswordHash)
	assert.True(t, crypto.VerifyPassword("password1", stored.PasswordHash))
}

func TestSignupDuplicate(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	identity := NewIdentity(testConfig(), store, session.NewMemoryStore(), nil)

	seedUser(t, store, "taken@acme.test", "password1", models.RoleCustomer)

	_, err := identity.Signup(ctx, SignupInput{
		Email:       "taken@acme.test",
		Password:    "password2",
		DisplayName: "Impostor",
	})
	assert.ErrorIs(t, err, ErrDuplicateAccount)
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	sessions := session.NewMemoryStore()
	identity := NewIdentity(testConfig(), store, sessions, nil)

	seedUser(t, store, "retailer@acme.test", "retailer", models.RoleBrandRetailer)

	result, err := identity.Login(ctx, "retailer@acme.test", "retailer", nil)
	require.NoError(t, err)

	restored, err := identity.Restore(ctx, result.Token)
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, result.Session.ID, restored.ID)
	assert.Equal(t, "retailer@acme.test", restored.Principal.Email)
}

func TestRestoreGarbageToken(t *testing.T) {
	ctx := context.Background()
	identity := NewIdentity(testConfig(), newFakeStore(), session.NewMemoryStore(), nil)

	// Malformed tokens restore to unauthenticated, never an error
	restored, err := identity.Restore(ctx, "not-a-token")
	assert.NoError(t, err)
	assert.Nil(t, restored)
}

func TestRestoreAfterLogout(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	sessions := session.NewMemoryStore()
	identity := NewIdentity(testConfig(), store, sessions, nil)

	seedUser(t, store, "retailer@acme.test", "retailer", models.RoleBrandRetailer)

	result, err := identity.Login(ctx, "retailer@acme.test", "retailer", nil)
	require.NoError(t, err)

	require.NoError(t, identity.Logout(ctx, result.Session.ID))

	restored, err := identity.Restore(ctx, result.Token)
	assert.NoError(t, err)
	assert.Nil(t, restored)

	// Logging out again is a no-op, not an error
	assert.NoError(t, identity.Logout(ctx, result.Session.ID))
}

func TestRestoreExpiredSession(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	sessions := session.NewMemoryStore()

	cfg := testConfig()
	cfg.Session.TTL = -time.Minute
	identity := NewIdentity(cfg, store, sessions, nil)

	seedUser(t, store, "retailer@acme.test", "retailer", models.RoleBrandRetailer)

	result, err := identity.Login(ctx, "retailer@acme.test", "retailer", nil)
	require.NoError(t, err)

	// The record is already past its absolute expiry: restore is
	// silently unauthenticated and the record is purged
	restored, err := identity.Restore(ctx, result.Token)
	assert.NoError(t, err)
	assert.Nil(t, restored)

	_, err = sessions.Get(ctx, result.Session.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestConcurrentAuthGuard(t *testing.T) {
	identity := NewIdentity(testConfig(), newFakeStore(), session.NewMemoryStore(), nil)

	release, err := identity.acquire("retailer@acme.test")
	require.NoError(t, err)

	// Same account, case-folded, while the first operation is running
	_, err = identity.acquire("Retailer@ACME.test")
	assert.ErrorIs(t, err, ErrAuthInProgress)

	// A different account is unaffected
	other, err := identity.acquire("customer@acme.test")
	require.NoError(t, err)
	other()

	release()

	release, err = identity.acquire("retailer@acme.test")
	require.NoError(t, err)
	release()
}
