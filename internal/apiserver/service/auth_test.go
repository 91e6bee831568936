package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amoylab/casedesk/internal/apiserver/database"
	"github.com/amoylab/casedesk/internal/auth/jwt"
	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/amoylab/casedesk/internal/common/config"
	"github.com/amoylab/casedesk/internal/common/dto"
	"github.com/amoylab/casedesk/internal/i18n"
)

func newAuth(t *testing.T, f *fixture) *Auth {
	t.Helper()
	svc, err := jwt.NewService(jwt.Config{
		SecretKey:       "test-secret-key-with-at-least-32-characters",
		AccessDuration:  time.Hour,
		RefreshDuration: 24 * time.Hour,
		Issuer:          "casedesk-test",
		AccessAudience:  "casedesk-users",
		RefreshAudience: "casedesk-refresh",
	})
	require.NoError(t, err)
	security := config.SecurityConfig{MaxLoginAttempts: 5, LockDuration: 30 * time.Minute}
	return NewAuth(f.db, svc, f.hasher, security, nil, f.logger)
}

func TestAuth_Login(t *testing.T) {
	f := newFixture(t)
	auth := newAuth(t, f)

	resp, err := auth.Login(f.ctx, f.tenant, &dto.LoginRequest{Email: "ALICE@acme.cl", Password: f.password})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, f.alice.ID, resp.User.ID)
	assert.Equal(t, "acme", resp.Tenant.Slug)

	u, err := f.db.GetUserByID(f.ctx, f.tenant.ID, f.alice.ID)
	require.NoError(t, err)
	assert.NotNil(t, u.LastLoginAt)
}

func TestAuth_LoginFailures(t *testing.T) {
	f := newFixture(t)
	auth := newAuth(t, f)

	_, err := auth.Login(f.ctx, f.tenant, &dto.LoginRequest{Email: "nobody@acme.cl", Password: f.password})
	assert.ErrorIs(t, err, i18n.ErrorInvalidCredentials)

	f.carol.IsActive = false
	require.NoError(t, f.db.UpdateUser(f.ctx, f.carol))
	_, err = auth.Login(f.ctx, f.tenant, &dto.LoginRequest{Email: "carol@acme.cl", Password: f.password})
	assert.ErrorIs(t, err, i18n.ErrorUserInactive)

	other := f.seedTenant(t, "globex", 5)
	_, err = auth.Login(f.ctx, other, &dto.LoginRequest{Email: "alice@acme.cl", Password: f.password})
	assert.ErrorIs(t, err, i18n.ErrorInvalidCredentials)
}

func TestAuth_LockoutAfterMaxFailures(t *testing.T) {
	f := newFixture(t)
	auth := newAuth(t, f)
	bad := &dto.LoginRequest{Email: "alice@acme.cl", Password: "wrong-password"}

	for i := 0; i < 5; i++ {
		_, err := auth.Login(f.ctx, f.tenant, bad)
		require.ErrorIs(t, err, i18n.ErrorInvalidCredentials)
	}

	_, err := auth.Login(f.ctx, f.tenant, &dto.LoginRequest{Email: "alice@acme.cl", Password: f.password})
	assert.ErrorIs(t, err, i18n.ErrorAccountLocked)

	u, err := f.db.GetUserByID(f.ctx, f.tenant.ID, f.alice.ID)
	require.NoError(t, err)
	require.NotNil(t, u.LockedUntil)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), *u.LockedUntil, time.Minute)

	// once the lock expires a good password resets the counter
	auth.now = func() time.Time { return time.Now().UTC().Add(31 * time.Minute) }
	_, err = auth.Login(f.ctx, f.tenant, &dto.LoginRequest{Email: "alice@acme.cl", Password: f.password})
	require.NoError(t, err)
	u, err = f.db.GetUserByID(f.ctx, f.tenant.ID, f.alice.ID)
	require.NoError(t, err)
	assert.Zero(t, u.FailedLoginAttempts)
	assert.Nil(t, u.LockedUntil)
}

func TestAuth_SuccessResetsCounter(t *testing.T) {
	f := newFixture(t)
	auth := newAuth(t, f)

	for i := 0; i < 3; i++ {
		_, _ = auth.Login(f.ctx, f.tenant, &dto.LoginRequest{Email: "alice@acme.cl", Password: "wrong-password"})
	}
	_, err := auth.Login(f.ctx, f.tenant, &dto.LoginRequest{Email: "alice@acme.cl", Password: f.password})
	require.NoError(t, err)

	u, err := f.db.GetUserByID(f.ctx, f.tenant.ID, f.alice.ID)
	require.NoError(t, err)
	assert.Zero(t, u.FailedLoginAttempts)
}

func TestAuth_RefreshAndAuthenticate(t *testing.T) {
	f := newFixture(t)
	auth := newAuth(t, f)

	resp, err := auth.Login(f.ctx, f.tenant, &dto.LoginRequest{Email: "bob@acme.cl", Password: f.password})
	require.NoError(t, err)

	refreshed, err := auth.Refresh(f.ctx, f.tenant, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Empty(t, refreshed.RefreshToken)

	_, err = auth.Refresh(f.ctx, f.tenant, resp.AccessToken)
	assert.ErrorIs(t, err, i18n.ErrorRefreshTokenInvalid)

	user, claims, err := auth.Authenticate(f.ctx, f.tenant, refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, f.bob.ID, user.ID)
	assert.Equal(t, string(cnst.RoleInvestigator), claims.Role)

	verify := auth.Verify(claims)
	assert.True(t, verify.Valid)
	assert.Equal(t, "bob@acme.cl", verify.User.Email)

	me := auth.Me(user, f.tenant)
	assert.Equal(t, "acme", me.Tenant.Slug)

	_, _, err = auth.Authenticate(f.ctx, f.tenant, resp.RefreshToken)
	assert.ErrorIs(t, err, i18n.ErrorTokenInvalid)
}

func TestAuth_AuthenticateRejects(t *testing.T) {
	f := newFixture(t)
	auth := newAuth(t, f)
	resp, err := auth.Login(f.ctx, f.tenant, &dto.LoginRequest{Email: "alice@acme.cl", Password: f.password})
	require.NoError(t, err)

	other := f.seedTenant(t, "globex", 5)
	_, _, err = auth.Authenticate(f.ctx, other, resp.AccessToken)
	assert.ErrorIs(t, err, i18n.ErrorTenantMismatch)

	expired := *f.tenant
	expired.Subscription = database.Subscription{
		Plan:    cnst.PlanBasic,
		Status:  cnst.SubscriptionActive,
		EndDate: time.Now().Add(-time.Hour),
	}
	_, _, err = auth.Authenticate(f.ctx, &expired, resp.AccessToken)
	assert.ErrorIs(t, err, i18n.ErrorSubscriptionInactive)

	f.alice.IsActive = false
	require.NoError(t, f.db.UpdateUser(f.ctx, f.alice))
	_, _, err = auth.Authenticate(f.ctx, f.tenant, resp.AccessToken)
	assert.ErrorIs(t, err, i18n.ErrorUserInactive)

	_, err = auth.Refresh(f.ctx, f.tenant, resp.RefreshToken)
	assert.ErrorIs(t, err, i18n.ErrorUserInactive)

	_, _, err = auth.Authenticate(f.ctx, f.tenant, "garbage")
	assert.ErrorIs(t, err, i18n.ErrorTokenInvalid)
}
