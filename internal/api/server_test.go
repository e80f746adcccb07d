package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warrantyhub/console-server/internal/config"
	"github.com/warrantyhub/console-server/internal/models"
	events "github.com/warrantyhub/console-server/internal/server"
	"github.com/warrantyhub/console-server/internal/session"
	"github.com/warrantyhub/console-server/internal/storage"
	"github.com/warrantyhub/console-server/pkg/crypto"
)

// fakeConn collects published events per subject in place of a NATS
// connection
type fakeConn struct {
	mu   sync.Mutex
	msgs map[string][]models.AuditEvent
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	var event models.AuditEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.msgs == nil {
		f.msgs = make(map[string][]models.AuditEvent)
	}
	f.msgs[subject] = append(f.msgs[subject], event)
	return nil
}

func (f *fakeConn) published(subject string) []models.AuditEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.AuditEvent(nil), f.msgs[subject]...)
}

// fakeStore backs the server with in-memory users, tenants and brands;
// unimplemented Store methods panic via the embedded nil interface
type fakeStore struct {
	storage.Store

	mu      sync.Mutex
	users   map[uuid.UUID]*models.User
	tenants map[uuid.UUID]*models.Tenant
	brands  []*models.Brand
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   make(map[uuid.UUID]*models.User),
		tenants: make(map[uuid.UUID]*models.Tenant),
	}
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeStore) CreateUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	c := *user
	f.users[user.ID] = &c
	return nil
}

func (f *fakeStore) UpdateUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[user.ID]; !ok {
		return storage.ErrNotFound
	}
	c := *user
	f.users[user.ID] = &c
	return nil
}

func (f *fakeStore) GetTenant(_ context.Context, id uuid.UUID) (*models.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.tenants[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	c := *t
	return &c, nil
}

func (f *fakeStore) GetTenantBySubdomain(_ context.Context, subdomain string) (*models.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, t := range f.tenants {
		if t.Subdomain == subdomain {
			c := *t
			return &c, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) ListBrands(_ context.Context, tenantID uuid.UUID) ([]*models.Brand, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*models.Brand, 0)
	for _, b := range f.brands {
		if b.TenantID == tenantID {
			c := *b
			out = append(out, &c)
		}
	}
	return out, nil
}

func testServerConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Environment: "development"},
		JWT:     config.JWTConfig{Secret: "test-secret", Issuer: "console-test"},
		Session: config.SessionConfig{TTL: 24 * time.Hour, CookieName: "console_session"},
		Tenancy: config.TenancyConfig{QueryParam: "tenant", PlatformName: "WarrantyHub"},
	}
}

func newTestServer(t *testing.T) (*RESTServer, *fakeStore) {
	t.Helper()

	store := newFakeStore()
	server := NewRESTServer(testServerConfig(), store, session.NewMemoryStore(), nil)
	return server, store
}

func addUser(t *testing.T, store *fakeStore, email, password string, role models.Role, tenantID *uuid.UUID) *models.User {
	t.Helper()

	hash, err := crypto.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		Email:        email,
		DisplayName:  "Test User",
		PasswordHash: hash,
		Role:         role,
		TenantID:     tenantID,
		IsActive:     true,
	}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func addTenant(t *testing.T, store *fakeStore, subdomain string) *models.Tenant {
	t.Helper()

	tenant := &models.Tenant{
		ID:           uuid.New(),
		Subdomain:    subdomain,
		CompanyName:  subdomain + " inc",
		DisplayName:  subdomain,
		PrimaryColor: "#00C853",
		IsActive:     true,
	}
	store.mu.Lock()
	store.tenants[tenant.ID] = tenant
	store.mu.Unlock()
	return tenant
}

func login(t *testing.T, server *RESTServer, email, password string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	server.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestLoginFlow(t *testing.T) {
	server, store := newTestServer(t)
	addUser(t, store, "admin@platform.test", "password1", models.RoleSystemAdmin, nil)

	body, _ := json.Marshal(map[string]string{"email": "admin@platform.test", "password": "password1"})
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	server.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token    string `json:"token"`
		Redirect string `json:"redirect"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "/platform/dashboard", resp.Redirect)

	// The session cookie is set for console navigation
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "console_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}

func TestLoginBadCredentials(t *testing.T) {
	server, store := newTestServer(t)
	addUser(t, store, "admin@platform.test", "password1", models.RoleSystemAdmin, nil)

	body, _ := json.Marshal(map[string]string{"email": "admin@platform.test", "password": "wrong"})
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	server.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRequestedRedirect(t *testing.T) {
	server, store := newTestServer(t)
	addUser(t, store, "admin@platform.test", "password1", models.RoleSystemAdmin, nil)

	body, _ := json.Marshal(map[string]string{
		"email":    "admin@platform.test",
		"password": "password1",
		"redirect": "/platform/users",
	})
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	server.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Redirect string `json:"redirect"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "/platform/users", resp.Redirect)
}

func TestConsoleGateUnauthenticated(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/platform/dashboard", nil)
	rec := httptest.NewRecorder()
	server.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?redirect=%2Fplatform%2Fdashboard", rec.Header().Get("Location"))
}

func TestConsoleGateTenantCarried(t *testing.T) {
	server, store := newTestServer(t)
	addTenant(t, store, "acme")

	req := httptest.NewRequest("GET", "/warehouse/inbound?tenant=acme", nil)
	rec := httptest.NewRecorder()
	server.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?tenant=acme&redirect=%2Fwarehouse%2Finbound", rec.Header().Get("Location"))
}

func TestConsoleGateRoleDenied(t *testing.T) {
	server, store := newTestServer(t)
	addUser(t, store, "customer@acme.test", "password1", models.RoleCustomer, nil)
	token := login(t, server, "customer@acme.test", "password1")

	req := httptest.NewRequest("GET", "/platform/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "console_session", Value: token})
	rec := httptest.NewRecorder()
	server.router.ServeHTTP(rec, req)

	// Denied principals bounce to their own dashboard, never an error
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestConsoleGateRoleAllowed(t *testing.T) {
	server, store := newTestServer(t)
	addUser(t, store, "admin@platform.test", "password1", models.RoleSystemAdmin, nil)
	token := login(t, server, "admin@platform.test", "password1")

	req := httptest.NewRequest("GET", "/platform/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "console_session", Value: token})
	rec := httptest.NewRecorder()
	server.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCurrentPrincipal(t *testing.T) {
	server, store := newTestServer(t)
	addUser(t, store, "admin@platform.test", "password1", models.RoleSystemAdmin, nil)
	token := login(t, server, "admin@platform.test", "password1")

	req := httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	server.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Principal struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"principal"`
		Dashboard string `json:"dashboard"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "admin@platform.test", resp.Principal.Email)
	assert.Equal(t, "/platform/dashboard", resp.Dashboard)
}

func TestCurrentPrincipalUnauthenticated(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	server.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoleRestrictedAPI(t *testing.T) {
	server, store := newTestServer(t)
	addUser(t, store, "customer@acme.test", "password1", models.RoleCustomer, nil)
	token := login(t, server, "customer@acme.test", "password1")

	req := httptest.NewRequest("GET", "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	server.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTenancyCurrent(t *testing.T) {
	server, store := newTestServer(t)
	addTenant(t, store, "acme")

	req := httptest.NewRequest("GET", "/api/v1/tenancy/current?tenant=acme", nil)
	rec := httptest.NewRecorder()
	server.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Tenant *models.Tenant `json:"tenant"`
		Theme  struct {
			Variables map[string]string `json:"variables"`
			PageTitle string            `json:"pageTitle"`
		} `json:"theme"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Tenant)
	assert.Equal(t, "acme", resp.Tenant.Subdomain)
	assert.Equal(t, "145 100% 39%", resp.Theme.Variables["--primary"])
	assert.Equal(t, "acme - WarrantyHub", resp.Theme.PageTitle)
}

func TestTenancyCurrentNoTenant(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/v1/tenancy/current", nil)
	rec := httptest.NewRecorder()
	server.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	// No tenant: static branding
	var resp struct {
		Tenant *models.Tenant `json:"tenant"`
		Theme  struct {
			PageTitle string `json:"pageTitle"`
		} `json:"theme"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp.Tenant)
	assert.Equal(t, "WarrantyHub", resp.Theme.PageTitle)
}

func TestAuthzCheckEndpoint(t *testing.T) {
	server, store := newTestServer(t)
	addUser(t, store, "retailer@acme.test", "password1", models.RoleBrandRetailer, nil)
	token := login(t, server, "retailer@acme.test", "password1")

	req := httptest.NewRequest("GET", "/api/v1/authz/check?path=/platform/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	server.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var decision struct {
		Allowed    bool   `json:"allowed"`
		RedirectTo string `json:"redirectTo"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decision))
	assert.False(t, decision.Allowed)
	assert.Equal(t, "/retailer/dashboard", decision.RedirectTo)
}

func TestGateDenialPublishesAuditEvent(t *testing.T) {
	store := newFakeStore()
	conn := &fakeConn{}
	srv := NewRESTServer(testServerConfig(), store, session.NewMemoryStore(), events.NewPublisher(conn))
	user := addUser(t, store, "customer@acme.test", "password1", models.RoleCustomer, nil)
	token := login(t, srv, "customer@acme.test", "password1")

	req := httptest.NewRequest("GET", "/platform/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "console_session", Value: token})
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusFound, rec.Code)

	denied := conn.published(events.SubjectAuthDenied)
	require.Len(t, denied, 1)
	assert.Equal(t, models.EventTypeAccessDenied, denied[0].Type)
	require.NotNil(t, denied[0].UserID)
	assert.Equal(t, user.ID, *denied[0].UserID)
	assert.Equal(t, "/platform/dashboard", denied[0].Details["path"])
}

func TestTenantResolutionPublishesAuditEvent(t *testing.T) {
	store := newFakeStore()
	conn := &fakeConn{}
	srv := NewRESTServer(testServerConfig(), store, session.NewMemoryStore(), events.NewPublisher(conn))
	tenant := addTenant(t, store, "acme")

	req := httptest.NewRequest("GET", "/api/v1/tenancy/current?tenant=acme", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	resolved := conn.published(events.SubjectTenantResolved)
	require.Len(t, resolved, 1)
	assert.Equal(t, models.EventTypeTenantResolved, resolved[0].Type)
	require.NotNil(t, resolved[0].TenantID)
	assert.Equal(t, tenant.ID, *resolved[0].TenantID)
	assert.Equal(t, "acme", resolved[0].Details["selector"])

	// No selector on the request, no resolution event
	req = httptest.NewRequest("GET", "/api/v1/tenancy/current", nil)
	rec = httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, conn.published(events.SubjectTenantResolved), 1)
}

func TestShutdownStopsServerCleanly(t *testing.T) {
	srv, _ := newTestServer(t)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe("127.0.0.1:0")
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, srv.Shutdown(context.Background()))

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("server did not stop")
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	server, store := newTestServer(t)
	addUser(t, store, "admin@platform.test", "password1", models.RoleSystemAdmin, nil)
	token := login(t, server, "admin@platform.test", "password1")

	req := httptest.NewRequest("POST", "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	server.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// The token no longer restores a session
	req = httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	server.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
