package dto

import (
	"time"

	"github.com/amoylab/casedesk/internal/apiserver/database"
)

// LoginRequest represents a login request; the tenant comes from X-Tenant-Slug
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,min=6,max=100"`
}

// RefreshRequest exchanges a refresh token for a new access token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required,min=10"`
}

// TokenResponse carries issued tokens
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	TokenResponse
	User   *UserSummary   `json:"user"`
	Tenant *TenantSummary `json:"tenant"`
}

// UserSummary is the public view of the logged in user
type UserSummary struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	Department  string     `json:"department,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// TenantSummary is the public view of a tenant
type TenantSummary struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Slug         string                `json:"slug"`
	Branding     database.Branding     `json:"branding"`
	Subscription database.Subscription `json:"subscription"`
}

// MeResponse is returned by the profile endpoint
type MeResponse struct {
	User   *database.User `json:"user"`
	Tenant *TenantSummary `json:"tenant"`
}

// VerifyResponse echoes a valid token
type VerifyResponse struct {
	Valid bool       `json:"valid"`
	User  VerifyUser `json:"user"`
}

// VerifyUser is the identity carried by a token
type VerifyUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// NewUserSummary builds the summary of u
func NewUserSummary(u *database.User) *UserSummary {
	return &UserSummary{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Role:        string(u.Role),
		Department:  u.Department,
		LastLoginAt: u.LastLoginAt,
	}
}

// NewTenantSummary builds the summary of t
func NewTenantSummary(t *database.Tenant) *TenantSummary {
	return &TenantSummary{
		ID:           t.ID,
		Name:         t.Name,
		Slug:         t.Slug,
		Branding:     t.Branding,
		Subscription: t.Subscription,
	}
}
