package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/amoylab/casedesk/internal/apiserver/database"
	"github.com/amoylab/casedesk/internal/auth/password"
	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/amoylab/casedesk/internal/common/config"
	"github.com/amoylab/casedesk/internal/workflow"
)

const testPassword = "Secret123!"

// fixture is one tenant with a user of every role
type fixture struct {
	db       database.Database
	hasher   *password.Hasher
	engine   *workflow.Engine
	tenant   *database.Tenant
	admin    *database.User
	hr       *database.User
	alice    *database.User
	carol    *database.User
	bob      *database.User
	logger   *zap.Logger
	ctx      context.Context
	password string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.NewSQLite(&config.DatabaseConfig{Type: "sqlite", DBName: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	f := &fixture{
		db:       db,
		hasher:   password.NewHasher(4),
		engine:   workflow.New(false),
		logger:   zap.NewNop(),
		ctx:      context.Background(),
		password: testPassword,
	}
	f.tenant = f.seedTenant(t, "acme", 20)
	f.admin = f.seedUser(t, f.tenant, "admin@acme.cl", cnst.RoleTenantAdmin)
	f.hr = f.seedUser(t, f.tenant, "hr@acme.cl", cnst.RoleHR)
	f.alice = f.seedUser(t, f.tenant, "alice@acme.cl", cnst.RoleEmployee)
	f.carol = f.seedUser(t, f.tenant, "carol@acme.cl", cnst.RoleEmployee)
	f.bob = f.seedUser(t, f.tenant, "bob@acme.cl", cnst.RoleInvestigator)
	return f
}

func (f *fixture) seedTenant(t *testing.T, slug string, licenses int) *database.Tenant {
	t.Helper()
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
	require.NoError(t, f.db.CreateTenant(f.ctx, tenant))
	return tenant
}

func (f *fixture) seedUser(t *testing.T, tenant *database.Tenant, email string, role cnst.Role) *database.User {
	t.Helper()
	hash, err := f.hasher.Hash(f.password)
	require.NoError(t, err)
	u := &database.User{
		TenantID:     tenant.ID,
		FirstName:    "Test",
		LastName:     string(role),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, f.db.CreateUser(f.ctx, u))
	return u
}

func (f *fixture) reloadComplaint(t *testing.T, id string) *database.Complaint {
	t.Helper()
	c, err := f.db.GetComplaint(f.ctx, f.tenant.ID, id)
	require.NoError(t, err)
	return c
}
