package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/amoylab/casedesk/internal/common/dto"
	"github.com/amoylab/casedesk/internal/i18n"
)

func TestResource_Lifecycle(t *testing.T) {
	f := newFixture(t)
	svc := NewResource(f.db, f.logger)

	_, err := svc.Category(f.ctx, f.alice, cnst.CategoryComplaintTypes)
	assert.ErrorIs(t, err, i18n.ErrorResourceCategoryEmpty)

	r, err := svc.Create(f.ctx, f.admin, &dto.CreateResourceRequest{
		Category: cnst.CategoryComplaintTypes,
		Key:      "cyber",
		Label:    "Cyberbullying",
		Metadata: map[string]any{"color": "#ff0000", "weight": 2.5, "legal": true},
	})
	require.NoError(t, err)
	assert.True(t, r.IsActive)

	_, err = svc.Create(f.ctx, f.admin, &dto.CreateResourceRequest{
		Category: cnst.CategoryComplaintTypes, Key: "cyber", Label: "Again",
	})
	assert.ErrorIs(t, err, i18n.ErrorResourceExists)

	// the same key is free in another category and another tenant
	_, err = svc.Create(f.ctx, f.admin, &dto.CreateResourceRequest{
		Category: cnst.CategoryEvidenceTypes, Key: "cyber", Label: "Screenshots",
	})
	assert.NoError(t, err)
	other := f.seedTenant(t, "globex", 5)
	otherAdmin := f.seedUser(t, other, "admin@globex.cl", cnst.RoleTenantAdmin)
	_, err = svc.Create(f.ctx, otherAdmin, &dto.CreateResourceRequest{
		Category: cnst.CategoryComplaintTypes, Key: "cyber", Label: "Cyberbullying",
	})
	assert.NoError(t, err)

	list, err := svc.Category(f.ctx, f.alice, cnst.CategoryComplaintTypes)
	require.NoError(t, err)
	require.Len(t, list, 1)

	valid, err := svc.ValidateKey(f.ctx, f.alice, cnst.CategoryComplaintTypes, "cyber")
	require.NoError(t, err)
	assert.True(t, valid)

	label := "Online harassment"
	order := 3
	r, err = svc.Update(f.ctx, f.admin, cnst.CategoryComplaintTypes, "cyber", &dto.UpdateResourceRequest{Label: &label, SortOrder: &order})
	require.NoError(t, err)
	assert.Equal(t, label, r.Label)
	assert.Equal(t, 3, r.SortOrder)

	require.NoError(t, svc.Delete(f.ctx, f.admin, cnst.CategoryComplaintTypes, "cyber"))
	valid, err = svc.ValidateKey(f.ctx, f.alice, cnst.CategoryComplaintTypes, "cyber")
	require.NoError(t, err)
	assert.False(t, valid)

	groups, err := svc.Grouped(f.ctx, f.alice, false)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, cnst.CategoryEvidenceTypes, groups[0].Category)

	groups, err = svc.Grouped(f.ctx, f.admin, true)
	require.NoError(t, err)
	assert.Len(t, groups, 2)

	_, err = svc.Grouped(f.ctx, f.hr, true)
	assert.ErrorIs(t, err, i18n.ErrorRoleNotAllowed)

	// soft deleted keys stay reserved
	_, err = svc.Create(f.ctx, f.admin, &dto.CreateResourceRequest{
		Category: cnst.CategoryComplaintTypes, Key: "cyber", Label: "Back",
	})
	assert.ErrorIs(t, err, i18n.ErrorResourceExists)
}

func TestResource_Validation(t *testing.T) {
	f := newFixture(t)
	svc := NewResource(f.db, f.logger)

	_, err := svc.Create(f.ctx, f.admin, &dto.CreateResourceRequest{
		Category: cnst.CategoryComplaintTypes, Key: "bad", Label: "Bad",
		Metadata: map[string]any{"nested": map[string]any{"a": 1}},
	})
	assert.ErrorIs(t, err, i18n.ErrorMetadataInvalid)

	_, err = svc.Category(f.ctx, f.alice, "planets")
	assert.ErrorIs(t, err, i18n.ErrorResourceCategoryInvalid)

	_, err = svc.Update(f.ctx, f.admin, cnst.CategoryComplaintTypes, "missing", &dto.UpdateResourceRequest{})
	assert.ErrorIs(t, err, i18n.ErrorResourceNotFound)
}
