package database

import (
	"time"

	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Tenant is an organization using the platform; tenants are never hard-deleted
type Tenant struct {
	ID           string       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name         string       `json:"name" gorm:"type:varchar(200);not null"`
	RUT          string       `json:"rut" gorm:"column:rut;type:varchar(20);uniqueIndex;not null"`
	Slug         string       `json:"slug" gorm:"type:varchar(63);uniqueIndex;not null"`
	Address      string       `json:"address" gorm:"type:varchar(300)"`
	Phone        string       `json:"phone" gorm:"type:varchar(20)"`
	Email        string       `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Status       string       `json:"status" gorm:"type:varchar(20);not null;index"`
	Subscription Subscription `json:"subscription" gorm:"embedded;embeddedPrefix:subscription_"`
	Branding     Branding     `json:"branding" gorm:"embedded;embeddedPrefix:branding_"`
	Licenses     Licenses     `json:"licenses" gorm:"embedded;embeddedPrefix:licenses_"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Subscription is the billing state of a tenant
type Subscription struct {
	Plan      string    `json:"plan" gorm:"type:varchar(20);not null"`
	Status    string    `json:"status" gorm:"type:varchar(20);not null;index"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date" gorm:"index"`
}

// Usable reports whether the subscription lets the tenant work at now
func (s Subscription) Usable(now time.Time) bool {
	if s.Status != cnst.SubscriptionActive && s.Status != cnst.SubscriptionTrial {
		return false
	}
	return s.EndDate.IsZero() || now.Before(s.EndDate)
}

type Branding struct {
	LogoURL        string `json:"logo_url" gorm:"type:varchar(500)"`
	PrimaryColor   string `json:"primary_color" gorm:"type:varchar(7)"`
	SecondaryColor string `json:"secondary_color" gorm:"type:varchar(7)"`
}

// Licenses counts seats; InUse never exceeds Total
type Licenses struct {
	Total int `json:"total" gorm:"not null"`
	InUse int `json:"in_use" gorm:"not null"`
}

// Available returns the number of free seats
func (l Licenses) Available() int {
	return max(l.Total-l.InUse, 0)
}

// IsActive reports whether the tenant account is active
func (t *Tenant) IsActive() bool {
	return t.Status == cnst.TenantActive
}

// User belongs to exactly one tenant; email is unique within it
type User struct {
	ID                  string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	TenantID            string     `json:"tenant_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_users_tenant_email,priority:1;index:idx_users_tenant_role,priority:1"`
	FirstName           string     `json:"first_name" gorm:"type:varchar(50);not null"`
	LastName            string     `json:"last_name" gorm:"type:varchar(50);not null"`
	Email               string     `json:"email" gorm:"type:varchar(255);not null;uniqueIndex:idx_users_tenant_email,priority:2"`
	PasswordHash        string     `json:"-" gorm:"type:varchar(100);not null"`
	Role                cnst.Role  `json:"role" gorm:"type:varchar(20);not null;index:idx_users_tenant_role,priority:2"`
	Department          string     `json:"department" gorm:"type:varchar(100);index"`
	IsActive            bool       `json:"is_active" gorm:"not null"`
	FailedLoginAttempts int        `json:"-" gorm:"not null"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// IsLocked reports whether the account is locked at now
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// FullName joins first and last name
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// TimelineEntry is one immutable step in the history of a case
type TimelineEntry struct {
	Action         cnst.TimelineAction `json:"action"`
	UserID         string              `json:"user_id"`
	Timestamp      time.Time           `json:"timestamp"`
	Notes          string              `json:"notes,omitempty"`
	PreviousStatus string              `json:"previous_status,omitempty"`
	NewStatus      string              `json:"new_status,omitempty"`
}

// ComplaintEvidence is a file attached to a complaint
type ComplaintEvidence struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	URL          string    `json:"url"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploaded_at"`
	UploadedBy   string    `json:"uploaded_by"`
}

// Resolution closes the outcome of a complaint
type Resolution struct {
	Outcome      string     `json:"outcome,omitempty"`
	ActionsTaken []string   `json:"actions_taken,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy   string     `json:"resolved_by,omitempty"`
}

// Complaint is a harassment report filed by a complainant against an accused user
type Complaint struct {
	ID             string                                 `json:"id" gorm:"primaryKey;type:varchar(36)"`
	TenantID       string                                 `json:"tenant_id" gorm:"type:varchar(36);not null;index:idx_complaints_tenant_status,priority:1;index:idx_complaints_tenant_created,priority:1"`
	ComplainantID  string                                 `json:"complainant_id" gorm:"type:varchar(36);not null;index"`
	AccusedID      string                                 `json:"accused_id" gorm:"type:varchar(36);not null;index"`
	Type           string                                 `json:"type" gorm:"type:varchar(30);not null;index"`
	Severity       string                                 `json:"severity" gorm:"type:varchar(20);not null"`
	Status         cnst.ComplaintStatus                   `json:"status" gorm:"type:varchar(20);not null;index:idx_complaints_tenant_status,priority:2"`
	Priority       string                                 `json:"priority" gorm:"type:varchar(20);not null"`
	Title          string                                 `json:"title" gorm:"type:varchar(200);not null"`
	Description    string                                 `json:"description" gorm:"type:text;not null"`
	Location       string                                 `json:"location,omitempty" gorm:"type:varchar(300)"`
	IncidentDate   time.Time                              `json:"incident_date" gorm:"index"`
	ReportedDate   time.Time                              `json:"reported_date"`
	Evidence       datatypes.JSONSlice[ComplaintEvidence] `json:"evidence"`
	AssignedTo     *string                                `json:"assigned_to,omitempty" gorm:"type:varchar(36);index"`
	AssignedAt     *time.Time                             `json:"assigned_at,omitempty"`
	Timeline       datatypes.JSONSlice[TimelineEntry]     `json:"timeline"`
	Resolution     datatypes.JSONType[*Resolution]        `json:"resolution"`
	IsConfidential bool                                   `json:"is_confidential" gorm:"not null"`
	Version        int                                    `json:"-" gorm:"not null"`
	CreatedAt      time.Time                              `json:"created_at" gorm:"index:idx_complaints_tenant_created,priority:2"`
	UpdatedAt      time.Time                              `json:"updated_at"`
}

// AppendTimeline adds an entry to the complaint history
func (c *Complaint) AppendTimeline(e TimelineEntry) {
	c.Timeline = append(c.Timeline, e)
}

// IsAssignedTo reports whether userID is the assigned investigator
func (c *Complaint) IsAssignedTo(userID string) bool {
	return c.AssignedTo != nil && *c.AssignedTo == userID
}

// GetResolution returns the resolution or nil
func (c *Complaint) GetResolution() *Resolution {
	return c.Resolution.Data()
}

// SetResolution replaces the resolution
func (c *Complaint) SetResolution(r *Resolution) {
	c.Resolution = datatypes.NewJSONType(r)
}

// CustodyEntry is one hand-off in the chain of custody of a piece of evidence
type CustodyEntry struct {
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes,omitempty"`
}

// InvestigationEvidence is a piece of evidence gathered by an investigator
type InvestigationEvidence struct {
	ID             string         `json:"id"`
	Type           string         `json:"type"`
	Title          string         `json:"title"`
	Description    string         `json:"description,omitempty"`
	Filename       string         `json:"filename,omitempty"`
	URL            string         `json:"url,omitempty"`
	Source         string         `json:"source"`
	Relevance      string         `json:"relevance"`
	CollectedDate  time.Time      `json:"collected_date"`
	CollectedBy    string         `json:"collected_by"`
	ChainOfCustody []CustodyEntry `json:"chain_of_custody"`
}

// Interview records a conversation with a tenant user
type Interview struct {
	ID               string    `json:"id"`
	IntervieweeID    string    `json:"interviewee_id"`
	InterviewerID    string    `json:"interviewer_id"`
	InterviewDate    time.Time `json:"interview_date"`
	DurationMinutes  int       `json:"duration_minutes"`
	Location         string    `json:"location,omitempty"`
	Type             string    `json:"type"`
	Summary          string    `json:"summary"`
	KeyPoints        []string  `json:"key_points,omitempty"`
	FollowUpRequired bool      `json:"follow_up_required"`
	FollowUpNotes    string    `json:"follow_up_notes,omitempty"`
	RecordingURL     string    `json:"recording_url,omitempty"`
	TranscriptURL    string    `json:"transcript_url,omitempty"`
	ConductedBy      string    `json:"conducted_by"`
}

// Finding is a documented conclusion backed by collected evidence
type Finding struct {
	ID                 string    `json:"id"`
	Category           string    `json:"category"`
	Description        string    `json:"description"`
	Severity           string    `json:"severity"`
	SupportingEvidence []string  `json:"supporting_evidence,omitempty"`
	Recommendations    []string  `json:"recommendations,omitempty"`
	DocumentedBy       string    `json:"documented_by"`
	DocumentedAt       time.Time `json:"documented_at"`
}

// Recommendation is a trackable follow-up action of a conclusion
type Recommendation struct {
	Type        string     `json:"type"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Status      string     `json:"status"`
}

// Conclusion is the final outcome of an investigation
type Conclusion struct {
	Outcome         string           `json:"outcome"`
	Summary         string           `json:"summary"`
	Recommendations []Recommendation `json:"recommendations"`
	CompletedBy     string           `json:"completed_by"`
	CompletedAt     time.Time        `json:"completed_at"`
}

// Investigation examines exactly one complaint; at most one is active per complaint
type Investigation struct {
	ID                      string                                     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	TenantID                string                                     `json:"tenant_id" gorm:"type:varchar(36);not null;index:idx_investigations_tenant_status,priority:1;index:idx_investigations_tenant_due,priority:1"`
	ComplaintID             string                                     `json:"complaint_id" gorm:"type:varchar(36);not null;index"`
	InvestigatorID          string                                     `json:"investigator_id" gorm:"type:varchar(36);not null;index"`
	AssignedBy              string                                     `json:"assigned_by" gorm:"type:varchar(36);not null"`
	Status                  cnst.InvestigationStatus                   `json:"status" gorm:"type:varchar(30);not null;index:idx_investigations_tenant_status,priority:2"`
	Priority                string                                     `json:"priority" gorm:"type:varchar(20);not null"`
	EstimatedCompletionDate time.Time                                  `json:"estimated_completion_date" gorm:"index:idx_investigations_tenant_due,priority:2"`
	ActualCompletionDate    *time.Time                                 `json:"actual_completion_date,omitempty"`
	InvestigationType       string                                     `json:"investigation_type" gorm:"type:varchar(20);not null"`
	Methodology             string                                     `json:"methodology" gorm:"type:varchar(30);not null"`
	Scope                   string                                     `json:"scope" gorm:"type:text;not null"`
	Objectives              datatypes.JSONSlice[string]                `json:"objectives"`
	Timeline                datatypes.JSONSlice[TimelineEntry]         `json:"timeline"`
	Evidence                datatypes.JSONSlice[InvestigationEvidence] `json:"evidence"`
	Interviews              datatypes.JSONSlice[Interview]             `json:"interviews"`
	Findings                datatypes.JSONSlice[Finding]               `json:"findings"`
	Conclusion              datatypes.JSONType[*Conclusion]            `json:"conclusion"`
	ConfidentialityLevel    string                                     `json:"confidentiality_level" gorm:"type:varchar(30);not null"`
	IsActive                bool                                       `json:"is_active" gorm:"not null;index"`
	// ActiveKey holds tenant:complaint while the investigation is active
	ActiveKey *string   `json:"-" gorm:"type:varchar(80);uniqueIndex"`
	Notes     string    `json:"notes,omitempty" gorm:"type:text"`
	Version   int       `json:"-" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppendTimeline adds an entry to the investigation history
func (i *Investigation) AppendTimeline(e TimelineEntry) {
	i.Timeline = append(i.Timeline, e)
}

// GetConclusion returns the conclusion or nil
func (i *Investigation) GetConclusion() *Conclusion {
	return i.Conclusion.Data()
}

// SetConclusion replaces the conclusion
func (i *Investigation) SetConclusion(c *Conclusion) {
	i.Conclusion = datatypes.NewJSONType(c)
}

// Deactivate marks the investigation inactive so another one may start for the complaint
func (i *Investigation) Deactivate() {
	i.IsActive = false
	i.ActiveKey = nil
}

// HasEvidence reports whether id names an evidence item of the investigation
func (i *Investigation) HasEvidence(id string) bool {
	for _, e := range i.Evidence {
		if e.ID == id {
			return true
		}
	}
	return false
}

// ActiveKeyFor builds the uniqueness key of an active investigation
func ActiveKeyFor(tenantID, complaintID string) *string {
	k := tenantID + ":" + complaintID
	return &k
}

// Resource is a tenant customisable catalog entry
type Resource struct {
	ID          string            `json:"id" gorm:"primaryKey;type:varchar(36)"`
	TenantID    string            `json:"tenant_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_resources_tenant_category_key,priority:1;index:idx_resources_tenant_category_order,priority:1"`
	Category    string            `json:"category" gorm:"type:varchar(40);not null;uniqueIndex:idx_resources_tenant_category_key,priority:2;index:idx_resources_tenant_category_order,priority:2"`
	Key         string            `json:"key" gorm:"type:varchar(60);not null;uniqueIndex:idx_resources_tenant_category_key,priority:3"`
	Label       string            `json:"label" gorm:"type:varchar(200);not null"`
	Description string            `json:"description,omitempty" gorm:"type:text"`
	IsActive    bool              `json:"is_active" gorm:"not null"`
	SortOrder   int               `json:"sort_order" gorm:"not null;index:idx_resources_tenant_category_order,priority:3"`
	Metadata    datatypes.JSONMap `json:"metadata"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (t *Tenant) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (c *Complaint) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Version == 0 {
		c.Version = 1
	}
	return nil
}

func (i *Investigation) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Version == 0 {
		i.Version = 1
	}
	return nil
}

func (r *Resource) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Metadata == nil {
		r.Metadata = datatypes.JSONMap{}
	}
	return nil
}

// models lists every table managed by the store
func models() []any {
	return []any{&Tenant{}, &User{}, &Complaint{}, &Investigation{}, &Resource{}}
}
