package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amoylab/casedesk/internal/apiserver/cache"
	"github.com/amoylab/casedesk/internal/apiserver/database"
	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/amoylab/casedesk/internal/common/config"
	"github.com/amoylab/casedesk/internal/common/dto"
	"github.com/amoylab/casedesk/internal/i18n"
)

func TestTenant_Resolve(t *testing.T) {
	f := newFixture(t)
	svc := NewTenant(f.db, f.hasher, f.logger)

	tenant, err := svc.Resolve(f.ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, f.tenant.ID, tenant.ID)

	_, err = svc.Resolve(f.ctx, "")
	assert.ErrorIs(t, err, i18n.ErrorTenantSlugRequired)
	_, err = svc.Resolve(f.ctx, "Bad_Slug")
	assert.ErrorIs(t, err, i18n.ErrorTenantSlugInvalid)
	_, err = svc.Resolve(f.ctx, "unknown")
	assert.ErrorIs(t, err, i18n.ErrorTenantNotFound)

	require.NoError(t, f.db.CreateTenant(f.ctx, &database.Tenant{
		Name: "Dormant", RUT: "rut-dormant", Slug: "dormant", Email: "x@dormant.cl",
		Status:       cnst.TenantInactive,
		Subscription: database.Subscription{Plan: cnst.PlanBasic, Status: cnst.SubscriptionActive},
		Licenses:     database.Licenses{Total: 1},
	}))
	_, err = svc.Resolve(f.ctx, "dormant")
	assert.ErrorIs(t, err, i18n.ErrorTenantInactive)
}

func onboardRequest(slug, rut string) *dto.CreateTenantRequest {
	return &dto.CreateTenantRequest{
		Name:          "Initech SpA",
		RUT:           rut,
		Slug:          slug,
		Email:         "contact@" + slug + ".cl",
		Plan:          cnst.PlanPremium,
		Licenses:      3,
		AdminEmail:    "Root@" + slug + ".cl",
		AdminPassword: "Password123",
		AdminFirst:    "Root",
		AdminLast:     "Admin",
	}
}

func TestTenant_Onboard(t *testing.T) {
	f := newFixture(t)
	svc := NewTenant(f.db, f.hasher, f.logger)

	tenant, admin, err := svc.Onboard(f.ctx, onboardRequest("initech", "76.123.456-0"))
	require.NoError(t, err)
	assert.Equal(t, cnst.SubscriptionTrial, tenant.Subscription.Status)
	assert.Equal(t, 1, tenant.Licenses.InUse)
	assert.Equal(t, cnst.RoleTenantAdmin, admin.Role)
	assert.Equal(t, "root@initech.cl", admin.Email)

	stored, err := f.db.GetTenantByID(f.ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Licenses.InUse)
	assert.True(t, stored.Subscription.EndDate.After(stored.Subscription.StartDate))

	_, _, err = svc.Onboard(f.ctx, onboardRequest("initech", "77.000.000-0"))
	assert.ErrorIs(t, err, i18n.ErrorTenantSlugExists)

	_, _, err = svc.Onboard(f.ctx, onboardRequest("initech-two", "76.123.456-0"))
	assert.ErrorIs(t, err, i18n.ErrorTenantRUTExists)

	bad := onboardRequest("zero", "70.000.000-0")
	bad.Licenses = 0
	_, _, err = svc.Onboard(f.ctx, bad)
	assert.ErrorIs(t, err, i18n.ErrorTenantLicensesInvalid)
}

// countingCache counts the lookups answered by the cache
type countingCache struct {
	*cache.Tenants
	hits int
}

func (c *countingCache) Get(ctx context.Context, slug string) (*database.Tenant, bool) {
	tenant, ok := c.Tenants.Get(ctx, slug)
	if ok {
		c.hits++
	}
	return tenant, ok
}

func TestTenant_ResolveCached(t *testing.T) {
	f := newFixture(t)
	tenants, err := cache.NewTenants(f.ctx, &config.CacheConfig{Store: "memory", TTL: time.Minute}, f.logger)
	require.NoError(t, err)
	c := &countingCache{Tenants: tenants}
	svc := NewTenant(f.db, f.hasher, f.logger, WithTenantCache(c))

	first, err := svc.Resolve(f.ctx, "acme")
	require.NoError(t, err)
	second, err := svc.Resolve(f.ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	assert.Equal(t, 1, c.hits)

	// inactive tenants are rejected even when served from the cache
	dormant := *f.tenant
	dormant.Slug = "dormant"
	dormant.Status = cnst.TenantInactive
	c.Put(f.ctx, &dormant)
	_, err = svc.Resolve(f.ctx, "dormant")
	assert.ErrorIs(t, err, i18n.ErrorTenantInactive)

	// unknown slugs are not cached
	_, err = svc.Resolve(f.ctx, "unknown")
	assert.ErrorIs(t, err, i18n.ErrorTenantNotFound)
	_, ok := c.Get(f.ctx, "unknown")
	assert.False(t, ok)
}
