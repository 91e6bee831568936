package database

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a record does not exist in the tenant
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique index rejects a write
	ErrDuplicate = errors.New("duplicate record")
	// ErrConcurrentUpdate is returned when a record changed since it was read
	ErrConcurrentUpdate = errors.New("record was modified concurrently")
	// ErrLicenseLimit is returned when every license of a tenant is in use
	ErrLicenseLimit = errors.New("license limit reached")
)

// Database defines the methods for database operations.
// Every read and write of tenant owned data is scoped by tenant ID.
type Database interface {
	// Close closes the database connection.
	Close() error

	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// Transaction runs fn inside a transaction carried by the context passed to fn.
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error

	// CreateTenant creates a new tenant.
	CreateTenant(ctx context.Context, tenant *Tenant) error

	// GetTenantByID gets a tenant by ID.
	GetTenantByID(ctx context.Context, id string) (*Tenant, error)

	// GetTenantBySlug gets a tenant by its slug.
	GetTenantBySlug(ctx context.Context, slug string) (*Tenant, error)

	// AcquireLicense takes one license of the tenant, failing with ErrLicenseLimit at the cap.
	AcquireLicense(ctx context.Context, tenantID string) error

	// ReleaseLicense gives one license back, never going below zero.
	ReleaseLicense(ctx context.Context, tenantID string) error

	// SuspendExpiredSubscriptions suspends active or trial subscriptions ended before now
	// and returns the slugs of the suspended tenants.
	SuspendExpiredSubscriptions(ctx context.Context, now time.Time) ([]string, error)

	// CreateUser creates a new user.
	CreateUser(ctx context.Context, user *User) error

	// GetUserByID gets a user of the tenant by ID.
	GetUserByID(ctx context.Context, tenantID, id string) (*User, error)

	// GetUserByEmail gets a user of the tenant by lowercase email.
	GetUserByEmail(ctx context.Context, tenantID, email string) (*User, error)

	// UpdateUser saves every field of the user.
	UpdateUser(ctx context.Context, user *User) error

	// DeleteUser deletes a user of the tenant.
	DeleteUser(ctx context.Context, tenantID, id string) error

	// ListUsers lists users matching the filter and the total count.
	ListUsers(ctx context.Context, filter *UserFilter) ([]*User, int64, error)

	// GetUserStats aggregates the users of a tenant.
	GetUserStats(ctx context.Context, tenantID string) (*UserStats, error)

	// RecordLoginFailure counts a failed login and locks the account once maxAttempts is reached.
	RecordLoginFailure(ctx context.Context, userID string, maxAttempts int, lockUntil time.Time) (*User, error)

	// RecordLoginSuccess clears failures and lockout and stamps the last login.
	RecordLoginSuccess(ctx context.Context, userID string, at time.Time) error

	// CreateComplaint creates a new complaint.
	CreateComplaint(ctx context.Context, complaint *Complaint) error

	// GetComplaint gets a complaint of the tenant by ID.
	GetComplaint(ctx context.Context, tenantID, id string) (*Complaint, error)

	// UpdateComplaint saves the complaint if nobody changed it since it was read.
	UpdateComplaint(ctx context.Context, complaint *Complaint) error

	// ListComplaints lists complaints matching the filter and the total count.
	ListComplaints(ctx context.Context, filter *ComplaintFilter) ([]*Complaint, int64, error)

	// GetComplaintStats aggregates the complaints of a tenant.
	GetComplaintStats(ctx context.Context, tenantID string) (*ComplaintStats, error)

	// CreateInvestigation creates a new investigation; ErrDuplicate when the complaint already has an active one.
	CreateInvestigation(ctx context.Context, investigation *Investigation) error

	// GetInvestigation gets an investigation of the tenant by ID.
	GetInvestigation(ctx context.Context, tenantID, id string) (*Investigation, error)

	// GetActiveInvestigation gets the active investigation of a complaint.
	GetActiveInvestigation(ctx context.Context, tenantID, complaintID string) (*Investigation, error)

	// UpdateInvestigation saves the investigation if nobody changed it since it was read.
	UpdateInvestigation(ctx context.Context, investigation *Investigation) error

	// ListInvestigations lists investigations matching the filter and the total count.
	ListInvestigations(ctx context.Context, filter *InvestigationFilter) ([]*Investigation, int64, error)

	// GetInvestigationStats aggregates the active investigations of a tenant, optionally of one investigator.
	GetInvestigationStats(ctx context.Context, tenantID, investigatorID string, now time.Time) (*InvestigationStats, error)

	// CountOverdueInvestigations counts overdue active investigations per tenant ID.
	CountOverdueInvestigations(ctx context.Context, now time.Time) (map[string]int64, error)

	// CreateResource creates a new catalog entry.
	CreateResource(ctx context.Context, resource *Resource) error

	// GetResource gets a catalog entry by its natural key.
	GetResource(ctx context.Context, tenantID, category, key string) (*Resource, error)

	// UpdateResource saves every field of the catalog entry.
	UpdateResource(ctx context.Context, resource *Resource) error

	// ListResources lists the entries of a category ordered by sort order and label.
	ListResources(ctx context.Context, tenantID, category string, activeOnly bool) ([]*Resource, error)

	// GetResourcesGrouped lists every entry of the tenant grouped by category.
	GetResourcesGrouped(ctx context.Context, tenantID string, activeOnly bool) ([]*ResourceGroup, error)

	// ResourceKeyExists reports whether an active entry with the key exists.
	ResourceKeyExists(ctx context.Context, tenantID, category, key string) (bool, error)
}

// Page selects a slice of a result set; Page starts at 1
type Page struct {
	Page  int
	Limit int
}

func (p Page) offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// UserFilter narrows a user listing
type UserFilter struct {
	Page
	TenantID   string
	Role       string
	Department string
	IsActive   *bool
	Search     string
	SortBy     string
	SortDesc   bool
}

// ComplaintFilter narrows a complaint listing
type ComplaintFilter struct {
	Page
	TenantID   string
	Status     string
	Type       string
	Severity   string
	Priority   string
	AssignedTo string
	DateFrom   *time.Time
	DateTo     *time.Time
	Search     string
	// ComplainantID restricts to complaints filed by the user
	ComplainantID string
	// OwnOrAssigned restricts to complaints filed by or assigned to the user
	OwnOrAssigned string
}

// InvestigationFilter narrows an investigation listing
type InvestigationFilter struct {
	Page
	TenantID       string
	Status         string
	Priority       string
	InvestigatorID string
	ComplaintID    string
	OverdueOnly    bool
	Now            time.Time
}

// UserStats summarises the users of a tenant
type UserStats struct {
	Total        int64            `json:"total"`
	Active       int64            `json:"active"`
	Inactive     int64            `json:"inactive"`
	ByRole       map[string]int64 `json:"by_role"`
	ByDepartment map[string]int64 `json:"by_department"`
}

// ComplaintStats summarises the complaints of a tenant
type ComplaintStats struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"by_status"`
	ByType     map[string]int64 `json:"by_type"`
	BySeverity map[string]int64 `json:"by_severity"`
	ByPriority map[string]int64 `json:"by_priority"`
}

// InvestigationOverview holds the headline investigation counters
type InvestigationOverview struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
	Overdue    int64 `json:"overdue"`
}

// InvestigationStats summarises the active investigations of a tenant
type InvestigationStats struct {
	Overview   InvestigationOverview `json:"overview"`
	ByStatus   map[string]int64      `json:"by_status"`
	ByPriority map[string]int64      `json:"by_priority"`
}

// ResourceGroup is one category of the catalog
type ResourceGroup struct {
	Category string      `json:"category"`
	Items    []*Resource `json:"items"`
}
