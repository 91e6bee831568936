package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/amoylab/casedesk/internal/apiserver/database"
	"github.com/amoylab/casedesk/internal/auth/password"
	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/amoylab/casedesk/internal/common/dto"
	"github.com/amoylab/casedesk/internal/i18n"
	"github.com/amoylab/casedesk/internal/validator"
)

// trialDays is the length of the subscription of a freshly onboarded tenant
const trialDays = 30

// TenantCache holds resolved tenants by slug
type TenantCache interface {
	Get(ctx context.Context, slug string) (*database.Tenant, bool)
	Put(ctx context.Context, tenant *database.Tenant)
	Invalidate(ctx context.Context, slug string)
}

type Tenant struct {
	db     database.Database
	hasher *password.Hasher
	cache  TenantCache
	logger *zap.Logger
	now    Clock
}

// TenantOption customises the tenant service
type TenantOption func(*Tenant)

// WithTenantCache serves Resolve from c before hitting the database
func WithTenantCache(c TenantCache) TenantOption {
	return func(s *Tenant) { s.cache = c }
}

func NewTenant(db database.Database, hasher *password.Hasher, logger *zap.Logger, opts ...TenantOption) *Tenant {
	s := &Tenant{
		db:     db,
		hasher: hasher,
		logger: logger.Named("service.tenant"),
		now:    utcNow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve maps a slug to an active tenant
func (s *Tenant) Resolve(ctx context.Context, slug string) (*database.Tenant, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, i18n.ErrorTenantSlugRequired
	}
	if !validator.IsTenantSlug(slug) {
		return nil, i18n.ErrorTenantSlugInvalid
	}
	tenant, err := s.lookup(ctx, slug)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			s.logger.Debug("unknown tenant", zap.String("slug", slug))
		}
		return nil, storeError(err, i18n.ErrorTenantNotFound, "resolve tenant")
	}
	if !tenant.IsActive() {
		s.logger.Warn("inactive tenant", zap.String("slug", slug), zap.String("status", tenant.Status))
		return nil, i18n.ErrorTenantInactive
	}
	return tenant, nil
}

func (s *Tenant) lookup(ctx context.Context, slug string) (*database.Tenant, error) {
	if s.cache != nil {
		if tenant, ok := s.cache.Get(ctx, slug); ok {
			return tenant, nil
		}
	}
	tenant, err := s.db.GetTenantBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Put(ctx, tenant)
	}
	return tenant, nil
}

// Onboard creates a tenant and its first administrator, who takes one license
func (s *Tenant) Onboard(ctx context.Context, req *dto.CreateTenantRequest) (*database.Tenant, *database.User, error) {
	if req.Licenses < 1 {
		return nil, nil, i18n.ErrorTenantLicensesInvalid
	}
	hash, err := s.hasher.Hash(req.AdminPassword)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	tenant := &database.Tenant{
		Name:    req.Name,
		RUT:     req.RUT,
		Slug:    req.Slug,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   strings.ToLower(req.Email),
		Status:  cnst.TenantActive,
		Subscription: database.Subscription{
			Plan:      req.Plan,
			Status:    cnst.SubscriptionTrial,
			StartDate: now,
			EndDate:   now.Add(trialDays * 24 * time.Hour),
		},
		Licenses: database.Licenses{Total: req.Licenses},
	}
	admin := &database.User{
		FirstName: req.AdminFirst,
		LastName:  req.AdminLast,
		Email:     strings.ToLower(req.AdminEmail),
		Role:      cnst.RoleTenantAdmin,
		IsActive:  true,
	}
	admin.PasswordHash = hash

	err = s.db.Transaction(ctx, func(ctx context.Context) error {
		if err := s.db.CreateTenant(ctx, tenant); err != nil {
			return err
		}
		admin.TenantID = tenant.ID
		if err := s.db.AcquireLicense(ctx, tenant.ID); err != nil {
			return err
		}
		return s.db.CreateUser(ctx, admin)
	})
	if errors.Is(err, database.ErrDuplicate) {
		return nil, nil, s.duplicateTenant(ctx, req)
	}
	if err != nil {
		return nil, nil, storeError(err, nil, "onboard tenant")
	}
	tenant.Licenses.InUse = 1

	s.logger.Info("tenant onboarded",
		zap.String("tenant_id", tenant.ID),
		zap.String("slug", tenant.Slug),
		zap.String("plan", tenant.Subscription.Plan),
		zap.Int("licenses", tenant.Licenses.Total))
	return tenant, admin, nil
}

// duplicateTenant tells which unique tenant field clashed
func (s *Tenant) duplicateTenant(ctx context.Context, req *dto.CreateTenantRequest) error {
	if _, err := s.db.GetTenantBySlug(ctx, req.Slug); err == nil {
		return i18n.ErrorTenantSlugExists.WithParam("Slug", req.Slug)
	}
	return i18n.ErrorTenantRUTExists
}
