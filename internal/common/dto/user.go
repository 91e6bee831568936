package dto

import "github.com/amoylab/casedesk/internal/apiserver/database"

// ListUsersQuery filters the user listing
type ListUsersQuery struct {
	PageQuery
	Role       string `form:"role" binding:"omitempty,oneof=employee hr investigator tenant_admin"`
	Department string `form:"department" binding:"omitempty,max=100"`
	IsActive   *bool  `form:"is_active"`
	Search     string `form:"search" binding:"omitempty,min=2,max=100"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=created_at updated_at first_name last_name email role department last_login_at"`
	SortOrder  string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

// CreateUserRequest represents a request to create a new user
type CreateUserRequest struct {
	FirstName  string `json:"first_name" binding:"required,min=2,max=50"`
	LastName   string `json:"last_name" binding:"required,min=2,max=50"`
	Email      string `json:"email" binding:"required,email,max=100"`
	Password   string `json:"password" binding:"required,min=8,max=100"`
	Role       string `json:"role" binding:"required,oneof=employee hr investigator tenant_admin"`
	Department string `json:"department" binding:"omitempty,max=100"`
	IsActive   *bool  `json:"is_active"`
}

// UpdateUserRequest represents a request to update a user; nil fields are left unchanged
type UpdateUserRequest struct {
	FirstName  *string `json:"first_name" binding:"omitempty,min=2,max=50"`
	LastName   *string `json:"last_name" binding:"omitempty,min=2,max=50"`
	Email      *string `json:"email" binding:"omitempty,email,max=100"`
	Role       *string `json:"role" binding:"omitempty,oneof=employee hr investigator tenant_admin"`
	Department *string `json:"department" binding:"omitempty,max=100"`
	IsActive   *bool   `json:"is_active"`
	Password   *string `json:"password" binding:"omitempty,min=8,max=100"`
}

// UserStatusRequest sets the active flag; an empty body toggles it
type UserStatusRequest struct {
	IsActive *bool `json:"is_active"`
}

// LicenseInfo reports seat usage of a tenant
type LicenseInfo struct {
	Total     int `json:"total"`
	InUse     int `json:"in_use"`
	Available int `json:"available"`
}

// UserStatsResponse aggregates the users of a tenant
type UserStatsResponse struct {
	*database.UserStats
	Licenses LicenseInfo `json:"licenses"`
}

// NewLicenseInfo reads the license counters of t
func NewLicenseInfo(t *database.Tenant) LicenseInfo {
	return LicenseInfo{
		Total:     t.Licenses.Total,
		InUse:     t.Licenses.InUse,
		Available: t.Licenses.Available(),
	}
}
