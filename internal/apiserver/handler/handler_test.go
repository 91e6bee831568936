package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/amoylab/casedesk/internal/apiserver/database"
	"github.com/amoylab/casedesk/internal/apiserver/service"
	"github.com/amoylab/casedesk/internal/auth/jwt"
	"github.com/amoylab/casedesk/internal/auth/password"
	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/amoylab/casedesk/internal/common/config"
	"github.com/amoylab/casedesk/internal/ratelimit"
	"github.com/amoylab/casedesk/internal/validator"
	"github.com/amoylab/casedesk/internal/workflow"
)

const testPassword = "Secret123!"

type testServer struct {
	t      *testing.T
	db     database.Database
	router *gin.Engine
	tenant *database.Tenant
	users  map[string]*database.User
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validator.Setup())

	logger := zap.NewNop()
	db, err := database.NewSQLite(&config.DatabaseConfig{Type: "sqlite", DBName: ":memory:"}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.APIServerConfig{
		Server:   config.ServerConfig{Environment: cnst.EnvTest},
		CORS:     config.CORSConfig{AllowOrigins: []string{"*"}},
		Security: config.SecurityConfig{MaxLoginAttempts: 5, LockDuration: 30 * time.Minute},
		RateLimit: config.RateLimitConfig{
			Store:   "memory",
			Auth:    config.RatePolicy{Window: time.Minute, Max: 1000},
			General: config.RatePolicy{Window: time.Minute, Max: 1000},
			API:     config.RatePolicy{Window: time.Minute, Max: 1000},
		},
	}

	jwtSvc, err := jwt.NewService(jwt.Config{
		SecretKey:       "test-secret-key-with-at-least-32-characters",
		AccessDuration:  time.Hour,
		RefreshDuration: 24 * time.Hour,
		Issuer:          "casedesk-test",
		AccessAudience:  "casedesk-users",
		RefreshAudience: "casedesk-refresh",
	})
	require.NoError(t, err)

	hasher := password.NewHasher(4)
	engine := workflow.New(false)
	router, err := NewRouter(&Deps{
		Config: cfg,
		DB:     db,
		Services: Services{
			Tenant:        service.NewTenant(db, hasher, logger),
			Auth:          service.NewAuth(db, jwtSvc, hasher, cfg.Security, nil, logger),
			User:          service.NewUser(db, hasher, logger),
			Complaint:     service.NewComplaint(db, engine, nil, logger),
			Investigation: service.NewInvestigation(db, engine, nil, logger),
			Resource:      service.NewResource(db, logger),
		},
		Limiters: ratelimit.NewLimiters(ratelimit.NewMemoryStore(), &cfg.RateLimit),
		Logger:   logger,
	})
	require.NoError(t, err)

	s := &testServer{t: t, db: db, router: router, users: map[string]*database.User{}}
	s.tenant = s.seedTenant("acme", 20)
	s.seedUser("admin", cnst.RoleTenantAdmin)
	s.seedUser("hr", cnst.RoleHR)
	s.seedUser("alice", cnst.RoleEmployee)
	s.seedUser("carol", cnst.RoleEmployee)
	s.seedUser("bob", cnst.RoleInvestigator)
	return s
}

func (s *testServer) seedTenant(slug string, licenses int) *database.Tenant {
	now := time.Now().UTC()
	tenant := &database.Tenant{
		Name:   slug + " spa",
		RUT:    "rut-" + slug,
		Slug:   slug,
		Email:  "contact@" + slug + ".cl",
		Status: cnst.TenantActive,
		Subscription: database.Subscription{
			Plan:      cnst.PlanStandard,
			Status:    cnst.SubscriptionActive,
			StartDate: now.Add(-24 * time.Hour),
			EndDate:   now.Add(365 * 24 * time.Hour),
		},
		Licenses: database.Licenses{Total: licenses},
	}
	require.NoError(s.t, s.db.CreateTenant(context.Background(), tenant))
	return tenant
}

func (s *testServer) seedUser(name string, role cnst.Role) *database.User {
	hash, err := password.NewHasher(4).Hash(testPassword)
	require.NoError(s.t, err)
	u := &database.User{
		TenantID:     s.tenant.ID,
		FirstName:    name,
		LastName:     "Tester",
		Email:        name + "@acme.cl",
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(s.t, s.db.CreateUser(context.Background(), u))
	s.users[name] = u
	return u
}

// do sends a JSON request as the tenant "acme"; token may be empty
func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(cnst.HeaderTenantSlug, s.tenant.Slug)
	if token != "" {
		req.Header.Set(cnst.HeaderAuthorization, "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// login returns the access token of the named seeded user
func (s *testServer) login(name string) string {
	w := s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": name + "@acme.cl", "password": testPassword})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	return gjson.Get(w.Body.String(), "data.access_token").String()
}

func complaintBody(accusedID string) gin.H {
	return gin.H{
		"accused_id":    accusedID,
		"type":          "psychological",
		"title":         "Repeated insults",
		"description":   "My coworker insults me in every team meeting.",
		"incident_date": time.Now().Add(-48 * time.Hour).Format(time.RFC3339),
	}
}
