package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/amoylab/casedesk/internal/apiserver/database"
	"github.com/amoylab/casedesk/internal/auth/password"
	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/amoylab/casedesk/internal/common/dto"
	"github.com/amoylab/casedesk/internal/i18n"
)

type User struct {
	db     database.Database
	hasher *password.Hasher
	logger *zap.Logger
}

func NewUser(db database.Database, hasher *password.Hasher, logger *zap.Logger) *User {
	return &User{
		db:     db,
		hasher: hasher,
		logger: logger.Named("service.user"),
	}
}

// List returns one page of the tenant users
func (s *User) List(ctx context.Context, caller *database.User, q *dto.ListUsersQuery) ([]*database.User, *i18n.Pagination, error) {
	page, limit := q.Normalize()
	filter := &database.UserFilter{
		Page:       database.Page{Page: page, Limit: limit},
		TenantID:   caller.TenantID,
		Role:       q.Role,
		Department: q.Department,
		IsActive:   q.IsActive,
		Search:     strings.TrimSpace(q.Search),
		SortBy:     q.SortBy,
		SortDesc:   q.SortOrder != "asc",
	}
	users, total, err := s.db.ListUsers(ctx, filter)
	if err != nil {
		return nil, nil, storeError(err, nil, "list users")
	}
	return users, i18n.NewPagination(page, limit, total), nil
}

// Stats aggregates the users of the tenant together with its license usage
func (s *User) Stats(ctx context.Context, caller *database.User) (*dto.UserStatsResponse, error) {
	stats, err := s.db.GetUserStats(ctx, caller.TenantID)
	if err != nil {
		return nil, storeError(err, nil, "user stats")
	}
	tenant, err := s.db.GetTenantByID(ctx, caller.TenantID)
	if err != nil {
		return nil, storeError(err, i18n.ErrorTenantNotFound, "load tenant")
	}
	return &dto.UserStatsResponse{UserStats: stats, Licenses: dto.NewLicenseInfo(tenant)}, nil
}

// Get returns a user of the tenant; employees and investigators only see themselves
func (s *User) Get(ctx context.Context, caller *database.User, id string) (*database.User, error) {
	if !caller.Role.IsManager() && caller.ID != id {
		return nil, i18n.ErrForbidden
	}
	user, err := s.db.GetUserByID(ctx, caller.TenantID, id)
	if err != nil {
		return nil, storeError(err, i18n.ErrorUserNotFound, "load user")
	}
	return user, nil
}

// Create adds a user and takes one license in the same transaction
func (s *User) Create(ctx context.Context, caller *database.User, req *dto.CreateUserRequest) (*database.User, error) {
	role := cnst.Role(req.Role)
	if !role.Valid() {
		return nil, i18n.ErrorInvalidRole
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	user := &database.User{
		TenantID:     caller.TenantID,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         role,
		Department:   strings.TrimSpace(req.Department),
		IsActive:     req.IsActive == nil || *req.IsActive,
	}

	err = s.db.Transaction(ctx, func(ctx context.Context) error {
		if err := s.db.AcquireLicense(ctx, caller.TenantID); err != nil {
			return err
		}
		return s.db.CreateUser(ctx, user)
	})
	switch {
	case errors.Is(err, database.ErrLicenseLimit):
		s.logger.Info("license limit reached", zap.String("tenant_id", caller.TenantID))
		return nil, i18n.ErrorLicenseLimit
	case errors.Is(err, database.ErrDuplicate):
		return nil, i18n.ErrorEmailExists.WithParam("Email", user.Email)
	case err != nil:
		return nil, storeError(err, i18n.ErrorTenantNotFound, "create user")
	}

	s.logger.Info("user created",
		zap.String("tenant_id", user.TenantID),
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)),
		zap.String("created_by", caller.ID))
	return user, nil
}

// Update edits a user; nil fields of req are left unchanged
func (s *User) Update(ctx context.Context, caller *database.User, id string, req *dto.UpdateUserRequest) (*database.User, error) {
	user, err := s.db.GetUserByID(ctx, caller.TenantID, id)
	if err != nil {
		return nil, storeError(err, i18n.ErrorUserNotFound, "load user")
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Role != nil {
		role := cnst.Role(*req.Role)
		if !role.Valid() {
			return nil, i18n.ErrorInvalidRole
		}
		user.Role = role
	}
	if req.Department != nil {
		user.Department = strings.TrimSpace(*req.Department)
	}
	if req.IsActive != nil {
		if !*req.IsActive && user.ID == caller.ID {
			return nil, i18n.ErrorCannotDeactivateSelf
		}
		user.IsActive = *req.IsActive
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.db.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, i18n.ErrorEmailExists.WithParam("Email", user.Email)
		}
		return nil, storeError(err, i18n.ErrorUserNotFound, "update user")
	}
	s.logger.Info("user updated", zap.String("user_id", user.ID), zap.String("updated_by", caller.ID))
	return user, nil
}

// Delete removes a user and gives its license back
func (s *User) Delete(ctx context.Context, caller *database.User, id string) error {
	if caller.ID == id {
		return i18n.ErrorCannotDeleteSelf
	}
	err := s.db.Transaction(ctx, func(ctx context.Context) error {
		if err := s.db.DeleteUser(ctx, caller.TenantID, id); err != nil {
			return err
		}
		return s.db.ReleaseLicense(ctx, caller.TenantID)
	})
	if err != nil {
		return storeError(err, i18n.ErrorUserNotFound, "delete user")
	}
	s.logger.Info("user deleted", zap.String("user_id", id), zap.String("deleted_by", caller.ID))
	return nil
}

// SetStatus sets the active flag, or toggles it when active is nil
func (s *User) SetStatus(ctx context.Context, caller *database.User, id string, active *bool) (*database.User, error) {
	user, err := s.db.GetUserByID(ctx, caller.TenantID, id)
	if err != nil {
		return nil, storeError(err, i18n.ErrorUserNotFound, "load user")
	}
	next := !user.IsActive
	if active != nil {
		next = *active
	}
	if !next && user.ID == caller.ID {
		return nil, i18n.ErrorCannotDeactivateSelf
	}
	user.IsActive = next
	if err := s.db.UpdateUser(ctx, user); err != nil {
		return nil, storeError(err, i18n.ErrorUserNotFound, "update user status")
	}
	s.logger.Info("user status changed",
		zap.String("user_id", user.ID),
		zap.Bool("is_active", user.IsActive),
		zap.String("changed_by", caller.ID))
	return user, nil
}
