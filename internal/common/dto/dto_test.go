package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/amoylab/casedesk/internal/apiserver/database"
	"github.com/amoylab/casedesk/internal/common/cnst"
)

func TestPageQueryNormalize(t *testing.T) {
	tests := []struct {
		in          PageQuery
		page, limit int
	}{
		{PageQuery{}, 1, 10},
		{PageQuery{Page: 3, Limit: 25}, 3, 25},
		{PageQuery{Page: -1, Limit: 500}, 1, 100},
	}
	for _, tt := range tests {
		page, limit := tt.in.Normalize()
		assert.Equal(t, tt.page, page)
		assert.Equal(t, tt.limit, limit)
	}
}

func TestSummaries(t *testing.T) {
	now := time.Now()
	u := &database.User{
		ID: "u1", FirstName: "Alice", LastName: "Smith", Email: "alice@acme.cl",
		Role: cnst.RoleEmployee, Department: "Sales", LastLoginAt: &now, PasswordHash: "secret",
	}
	s := NewUserSummary(u)
	assert.Equal(t, "employee", s.Role)
	assert.Equal(t, &now, s.LastLoginAt)

	tenant := &database.Tenant{
		ID: "t1", Name: "Acme", Slug: "acme",
		Licenses: database.Licenses{Total: 10, InUse: 4},
	}
	ts := NewTenantSummary(tenant)
	assert.Equal(t, "acme", ts.Slug)

	li := NewLicenseInfo(tenant)
	assert.Equal(t, LicenseInfo{Total: 10, InUse: 4, Available: 6}, li)
}
