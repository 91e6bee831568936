package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/amoylab/casedesk/internal/apiserver/database"
	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/amoylab/casedesk/internal/common/dto"
	"github.com/amoylab/casedesk/internal/i18n"
)

type Resource struct {
	db     database.Database
	logger *zap.Logger
}

func NewResource(db database.Database, logger *zap.Logger) *Resource {
	return &Resource{
		db:     db,
		logger: logger.Named("service.resource"),
	}
}

// Grouped lists the catalog of the tenant by category. Inactive entries are
// only shown to tenant admins.
func (s *Resource) Grouped(ctx context.Context, caller *database.User, includeInactive bool) ([]*database.ResourceGroup, error) {
	if includeInactive && caller.Role != cnst.RoleTenantAdmin {
		return nil, i18n.ErrorRoleNotAllowed
	}
	groups, err := s.db.GetResourcesGrouped(ctx, caller.TenantID, !includeInactive)
	if err != nil {
		return nil, storeError(err, nil, "list resources")
	}
	return groups, nil
}

// Category lists the active entries of one category
func (s *Resource) Category(ctx context.Context, caller *database.User, category string) ([]*database.Resource, error) {
	if !cnst.IsResourceCategory(category) {
		return nil, i18n.ErrorResourceCategoryInvalid.WithParam("Category", category)
	}
	list, err := s.db.ListResources(ctx, caller.TenantID, category, true)
	if err != nil {
		return nil, storeError(err, nil, "list resources")
	}
	if len(list) == 0 {
		return nil, i18n.ErrorResourceCategoryEmpty.WithParam("Category", category)
	}
	return list, nil
}

// ValidateKey reports whether an active entry exists for the key
func (s *Resource) ValidateKey(ctx context.Context, caller *database.User, category, key string) (bool, error) {
	if !cnst.IsResourceCategory(category) {
		return false, i18n.ErrorResourceCategoryInvalid.WithParam("Category", category)
	}
	ok, err := s.db.ResourceKeyExists(ctx, caller.TenantID, category, key)
	if err != nil {
		return false, storeError(err, nil, "validate resource key")
	}
	return ok, nil
}

// Create adds a catalog entry; keys stay unique per tenant and category even
// after a soft delete.
func (s *Resource) Create(ctx context.Context, caller *database.User, req *dto.CreateResourceRequest) (*database.Resource, error) {
	if !cnst.IsResourceCategory(req.Category) {
		return nil, i18n.ErrorResourceCategoryInvalid.WithParam("Category", req.Category)
	}
	meta, err := metadataOf(req.Metadata)
	if err != nil {
		return nil, err
	}
	r := &database.Resource{
		TenantID:    caller.TenantID,
		Category:    req.Category,
		Key:         strings.TrimSpace(req.Key),
		Label:       strings.TrimSpace(req.Label),
		Description: strings.TrimSpace(req.Description),
		IsActive:    true,
		SortOrder:   req.SortOrder,
		Metadata:    meta,
	}
	if err := s.db.CreateResource(ctx, r); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, i18n.ErrorResourceExists.WithParam("Key", r.Key)
		}
		return nil, storeError(err, nil, "create resource")
	}
	s.logger.Info("resource created",
		zap.String("tenant_id", r.TenantID),
		zap.String("category", r.Category),
		zap.String("key", r.Key))
	return r, nil
}

// Update edits a catalog entry; nil fields of req are left unchanged
func (s *Resource) Update(ctx context.Context, caller *database.User, category, key string, req *dto.UpdateResourceRequest) (*database.Resource, error) {
	r, err := s.get(ctx, caller, category, key)
	if err != nil {
		return nil, err
	}
	if req.Label != nil {
		r.Label = strings.TrimSpace(*req.Label)
	}
	if req.Description != nil {
		r.Description = strings.TrimSpace(*req.Description)
	}
	if req.SortOrder != nil {
		r.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		r.IsActive = *req.IsActive
	}
	if req.Metadata != nil {
		meta, err := metadataOf(req.Metadata)
		if err != nil {
			return nil, err
		}
		r.Metadata = meta
	}
	if err := s.db.UpdateResource(ctx, r); err != nil {
		return nil, storeError(err, i18n.ErrorResourceNotFound, "update resource")
	}
	return r, nil
}

// Delete deactivates a catalog entry
func (s *Resource) Delete(ctx context.Context, caller *database.User, category, key string) error {
	r, err := s.get(ctx, caller, category, key)
	if err != nil {
		return err
	}
	r.IsActive = false
	if err := s.db.UpdateResource(ctx, r); err != nil {
		return storeError(err, i18n.ErrorResourceNotFound, "delete resource")
	}
	s.logger.Info("resource deactivated",
		zap.String("tenant_id", r.TenantID),
		zap.String("category", r.Category),
		zap.String("key", r.Key))
	return nil
}

func (s *Resource) get(ctx context.Context, caller *database.User, category, key string) (*database.Resource, error) {
	if !cnst.IsResourceCategory(category) {
		return nil, i18n.ErrorResourceCategoryInvalid.WithParam("Category", category)
	}
	r, err := s.db.GetResource(ctx, caller.TenantID, category, key)
	if err != nil {
		return nil, storeError(err, i18n.ErrorResourceNotFound, "load resource")
	}
	return r, nil
}

// metadataOf accepts string keyed maps of scalar values only
func metadataOf(in map[string]any) (datatypes.JSONMap, error) {
	out := make(datatypes.JSONMap, len(in))
	for k, v := range in {
		if strings.TrimSpace(k) == "" {
			return nil, i18n.ErrorMetadataInvalid.WithParam("Key", k)
		}
		switch v.(type) {
		case string, bool, float64, float32, int, int64, json.Number:
		default:
			return nil, i18n.ErrorMetadataInvalid.WithParam("Key", k)
		}
		out[k] = v
	}
	return out, nil
}
