package service

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/amoylab/casedesk/internal/apiserver/database"
	"github.com/amoylab/casedesk/internal/auth/jwt"
	"github.com/amoylab/casedesk/internal/auth/password"
	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/amoylab/casedesk/internal/common/config"
	"github.com/amoylab/casedesk/internal/common/dto"
	"github.com/amoylab/casedesk/internal/i18n"
	"github.com/amoylab/casedesk/pkg/metrics"
)

const tokenType = "Bearer"

// Login results recorded in metrics
const (
	loginSuccess        = "success"
	loginBadCredentials = "bad_credentials"
	loginLocked         = "locked"
	loginInactive       = "inactive"
)

type Auth struct {
	db       database.Database
	jwt      *jwt.Service
	hasher   *password.Hasher
	security config.SecurityConfig
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      Clock
}

func NewAuth(db database.Database, jwtService *jwt.Service, hasher *password.Hasher, security config.SecurityConfig, m *metrics.Metrics, logger *zap.Logger) *Auth {
	return &Auth{
		db:       db,
		jwt:      jwtService,
		hasher:   hasher,
		security: security,
		metrics:  m,
		logger:   logger.Named("service.auth"),
		now:      utcNow,
	}
}

// Login checks the credentials of a tenant user and issues a token pair.
// Failed attempts are counted and lock the account once the limit is hit.
func (s *Auth) Login(ctx context.Context, tenant *database.Tenant, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	span := tracer.Start(ctx, "auth.Login").WithAttrs(attribute.String(cnst.AttrTenantID, tenant.ID))
	defer span.End()
	ctx = span.Ctx

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.db.GetUserByEmail(ctx, tenant.ID, email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			s.metrics.LoginAttempt(loginBadCredentials)
			s.logger.Info("login with unknown email", zap.String("tenant", tenant.Slug))
			return nil, i18n.ErrorInvalidCredentials
		}
		span.Fail(err)
		return nil, storeError(err, nil, "load user")
	}

	now := s.now()
	if user.IsLocked(now) {
		s.metrics.LoginAttempt(loginLocked)
		s.logger.Warn("login on locked account", zap.String("user_id", user.ID), zap.Time("locked_until", *user.LockedUntil))
		return nil, i18n.ErrorAccountLocked
	}
	if !user.IsActive {
		s.metrics.LoginAttempt(loginInactive)
		return nil, i18n.ErrorUserInactive
	}

	if err := s.hasher.Verify(user.PasswordHash, req.Password); err != nil {
		s.metrics.LoginAttempt(loginBadCredentials)
		updated, ferr := s.db.RecordLoginFailure(ctx, user.ID, s.security.MaxLoginAttempts, now.Add(s.security.LockDuration))
		if ferr != nil {
			span.Fail(ferr)
			return nil, storeError(ferr, nil, "record login failure")
		}
		if updated.IsLocked(now) {
			s.logger.Warn("account locked after failed logins",
				zap.String("user_id", user.ID),
				zap.Int("max_attempts", s.security.MaxLoginAttempts))
		}
		return nil, i18n.ErrorInvalidCredentials
	}

	if err := s.db.RecordLoginSuccess(ctx, user.ID, now); err != nil {
		span.Fail(err)
		return nil, storeError(err, nil, "record login")
	}
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now

	pair, err := s.jwt.GeneratePair(subjectOf(user))
	if err != nil {
		span.Fail(err)
		return nil, err
	}
	s.metrics.LoginAttempt(loginSuccess)
	s.logger.Info("user logged in", zap.String("user_id", user.ID), zap.String("tenant", tenant.Slug))

	return &dto.LoginResponse{
		TokenResponse: dto.TokenResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
			ExpiresIn:    pair.ExpiresIn,
			TokenType:    tokenType,
		},
		User:   dto.NewUserSummary(user),
		Tenant: dto.NewTenantSummary(tenant),
	}, nil
}

// Refresh issues a new access token for a valid refresh token
func (s *Auth) Refresh(ctx context.Context, tenant *database.Tenant, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, i18n.ErrorRefreshTokenInvalid
	}
	if claims.TenantID != tenant.ID {
		return nil, i18n.ErrorTenantMismatch
	}
	user, err := s.db.GetUserByID(ctx, tenant.ID, claims.UserID)
	if err != nil {
		return nil, storeError(err, i18n.ErrorRefreshTokenInvalid, "load user")
	}
	if !user.IsActive {
		return nil, i18n.ErrorUserInactive
	}
	access, err := s.jwt.GenerateAccessToken(subjectOf(user))
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken: access,
		ExpiresIn:   int64(s.jwt.AccessDuration().Seconds()),
		TokenType:   tokenType,
	}, nil
}

// Authenticate validates an access token issued for tenant and loads its user
func (s *Auth) Authenticate(ctx context.Context, tenant *database.Tenant, token string) (*database.User, *jwt.Claims, error) {
	claims, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, nil, i18n.ErrorTokenExpired
		}
		return nil, nil, i18n.ErrorTokenInvalid
	}
	if claims.TenantID != tenant.ID {
		s.logger.Warn("token used on another tenant",
			zap.String("token_tenant", claims.TenantID),
			zap.String("tenant", tenant.ID))
		return nil, nil, i18n.ErrorTenantMismatch
	}
	user, err := s.db.GetUserByID(ctx, tenant.ID, claims.UserID)
	if err != nil {
		return nil, nil, storeError(err, i18n.ErrorTokenInvalid, "load user")
	}
	if !user.IsActive {
		return nil, nil, i18n.ErrorUserInactive
	}
	if user.IsLocked(s.now()) {
		return nil, nil, i18n.ErrorAccountLocked
	}
	if !tenant.Subscription.Usable(s.now()) {
		return nil, nil, i18n.ErrorSubscriptionInactive
	}
	return user, claims, nil
}

// Me returns the profile of the caller
func (s *Auth) Me(user *database.User, tenant *database.Tenant) *dto.MeResponse {
	return &dto.MeResponse{
		User:   user,
		Tenant: dto.NewTenantSummary(tenant),
	}
}

// Verify echoes the identity of a valid token
func (s *Auth) Verify(claims *jwt.Claims) *dto.VerifyResponse {
	return &dto.VerifyResponse{
		Valid: true,
		User: dto.VerifyUser{
			ID:    claims.UserID,
			Email: claims.Email,
			Role:  claims.Role,
		},
	}
}

func subjectOf(u *database.User) jwt.Subject {
	return jwt.Subject{
		UserID:   u.ID,
		TenantID: u.TenantID,
		Email:    u.Email,
		Role:     string(u.Role),
	}
}
