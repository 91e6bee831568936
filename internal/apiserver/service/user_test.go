package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amoylab/casedesk/internal/apiserver/database"
	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/amoylab/casedesk/internal/common/dto"
	"github.com/amoylab/casedesk/internal/i18n"
)

func newUserRequest(email string) *dto.CreateUserRequest {
	return &dto.CreateUserRequest{
		FirstName: "Nora",
		LastName:  "Diaz",
		Email:     email,
		Password:  "Password123",
		Role:      string(cnst.RoleEmployee),
	}
}

func TestUser_CreateTakesLicense(t *testing.T) {
	f := newFixture(t)
	small := f.seedTenant(t, "tiny", 2)
	admin := &database.User{ID: "admin-tiny", TenantID: small.ID, Role: cnst.RoleTenantAdmin}
	svc := NewUser(f.db, f.hasher, f.logger)

	u, err := svc.Create(f.ctx, admin, newUserRequest("Nora@Tiny.cl"))
	require.NoError(t, err)
	assert.Equal(t, "nora@tiny.cl", u.Email)
	assert.True(t, u.IsActive)
	assert.NoError(t, f.hasher.Verify(u.PasswordHash, "Password123"))

	_, err = svc.Create(f.ctx, admin, newUserRequest("nora@tiny.cl"))
	assert.ErrorIs(t, err, i18n.ErrorEmailExists)

	second, err := svc.Create(f.ctx, admin, newUserRequest("ana@tiny.cl"))
	require.NoError(t, err)

	_, err = svc.Create(f.ctx, admin, newUserRequest("luis@tiny.cl"))
	assert.ErrorIs(t, err, i18n.ErrorLicenseLimit)

	tenant, err := f.db.GetTenantByID(f.ctx, small.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, tenant.Licenses.InUse)

	require.NoError(t, svc.Delete(f.ctx, admin, second.ID))
	tenant, err = f.db.GetTenantByID(f.ctx, small.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, tenant.Licenses.InUse)

	_, err = svc.Create(f.ctx, admin, newUserRequest("luis@tiny.cl"))
	assert.NoError(t, err)
}

func TestUser_SameEmailOtherTenant(t *testing.T) {
	f := newFixture(t)
	other := f.seedTenant(t, "globex", 5)
	svc := NewUser(f.db, f.hasher, f.logger)

	_, err := svc.Create(f.ctx, &database.User{ID: "x", TenantID: other.ID, Role: cnst.RoleTenantAdmin}, newUserRequest("alice@acme.cl"))
	assert.NoError(t, err)
}

func TestUser_SelfGuards(t *testing.T) {
	f := newFixture(t)
	svc := NewUser(f.db, f.hasher, f.logger)

	assert.ErrorIs(t, svc.Delete(f.ctx, f.admin, f.admin.ID), i18n.ErrorCannotDeleteSelf)

	off := false
	_, err := svc.SetStatus(f.ctx, f.admin, f.admin.ID, &off)
	assert.ErrorIs(t, err, i18n.ErrorCannotDeactivateSelf)
	_, err = svc.Update(f.ctx, f.admin, f.admin.ID, &dto.UpdateUserRequest{IsActive: &off})
	assert.ErrorIs(t, err, i18n.ErrorCannotDeactivateSelf)

	u, err := svc.SetStatus(f.ctx, f.admin, f.alice.ID, nil)
	require.NoError(t, err)
	assert.False(t, u.IsActive)
	u, err = svc.SetStatus(f.ctx, f.admin, f.alice.ID, nil)
	require.NoError(t, err)
	assert.True(t, u.IsActive)

	assert.ErrorIs(t, svc.Delete(f.ctx, f.admin, "00000000-0000-0000-0000-000000000000"), i18n.ErrorUserNotFound)
}

func TestUser_Update(t *testing.T) {
	f := newFixture(t)
	svc := NewUser(f.db, f.hasher, f.logger)

	email := "hr@acme.cl"
	_, err := svc.Update(f.ctx, f.admin, f.alice.ID, &dto.UpdateUserRequest{Email: &email})
	assert.ErrorIs(t, err, i18n.ErrorEmailExists)

	role := string(cnst.RoleInvestigator)
	dept := "Legal"
	pwd := "NewPassword9"
	u, err := svc.Update(f.ctx, f.admin, f.alice.ID, &dto.UpdateUserRequest{Role: &role, Department: &dept, Password: &pwd})
	require.NoError(t, err)
	assert.Equal(t, cnst.RoleInvestigator, u.Role)
	assert.Equal(t, "Legal", u.Department)
	assert.NoError(t, f.hasher.Verify(u.PasswordHash, pwd))
}

func TestUser_GetListStats(t *testing.T) {
	f := newFixture(t)
	svc := NewUser(f.db, f.hasher, f.logger)

	_, err := svc.Get(f.ctx, f.alice, f.alice.ID)
	assert.NoError(t, err)
	_, err = svc.Get(f.ctx, f.alice, f.carol.ID)
	assert.ErrorIs(t, err, i18n.ErrForbidden)
	_, err = svc.Get(f.ctx, f.hr, f.carol.ID)
	assert.NoError(t, err)

	list, page, err := svc.List(f.ctx, f.admin, &dto.ListUsersQuery{Role: string(cnst.RoleEmployee)})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, 1, page.TotalPages)

	list, _, err = svc.List(f.ctx, f.admin, &dto.ListUsersQuery{Search: "bob"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, f.bob.ID, list[0].ID)

	stats, err := svc.Stats(f.ctx, f.admin)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.Total)
	assert.Equal(t, 20, stats.Licenses.Total)
}
