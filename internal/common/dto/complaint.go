package dto

import "time"

// CreateComplaintRequest files a complaint against another user of the tenant
type CreateComplaintRequest struct {
	AccusedID      string    `json:"accused_id" binding:"required,uuid"`
	Type           string    `json:"type" binding:"required,oneof=sexual psychological discrimination other"`
	Severity       string    `json:"severity" binding:"omitempty,oneof=low medium high critical"`
	Priority       string    `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	Title          string    `json:"title" binding:"required,min=5,max=200"`
	Description    string    `json:"description" binding:"required,min=20,max=5000"`
	Location       string    `json:"location" binding:"omitempty,max=300"`
	IncidentDate   time.Time `json:"incident_date" binding:"required,pastdate"`
	IsConfidential *bool     `json:"is_confidential"`
	// Submit files the complaint right away instead of keeping a draft
	Submit bool `json:"submit"`
}

// UpdateComplaintRequest edits a draft; nil fields are left unchanged
type UpdateComplaintRequest struct {
	Type         *string    `json:"type" binding:"omitempty,oneof=sexual psychological discrimination other"`
	Severity     *string    `json:"severity" binding:"omitempty,oneof=low medium high critical"`
	Priority     *string    `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	Title        *string    `json:"title" binding:"omitempty,min=5,max=200"`
	Description  *string    `json:"description" binding:"omitempty,min=20,max=5000"`
	Location     *string    `json:"location" binding:"omitempty,max=300"`
	IncidentDate *time.Time `json:"incident_date" binding:"omitempty,pastdate"`
}

// ListComplaintsQuery filters the complaint listing
type ListComplaintsQuery struct {
	PageQuery
	Status     string     `form:"status" binding:"omitempty,oneof=draft submitted under_review investigating resolved closed"`
	Type       string     `form:"type" binding:"omitempty,oneof=sexual psychological discrimination other"`
	Severity   string     `form:"severity" binding:"omitempty,oneof=low medium high critical"`
	Priority   string     `form:"priority" binding:"omitempty,oneof=low normal high urgent"`
	AssignedTo string     `form:"assigned_to" binding:"omitempty,uuid"`
	DateFrom   *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo     *time.Time `form:"date_to" time_format:"2006-01-02"`
	Search     string     `form:"search" binding:"omitempty,max=100"`
}

// ComplaintStatusRequest moves a complaint to another status
type ComplaintStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft submitted under_review investigating resolved closed"`
	Notes  string `json:"notes" binding:"omitempty,max=1000"`
}

// AssignInvestigatorRequest hands a complaint to an investigator
type AssignInvestigatorRequest struct {
	InvestigatorID string `json:"investigator_id" binding:"required,uuid"`
	Notes          string `json:"notes" binding:"omitempty,max=1000"`
}

// ComplaintEvidenceRequest attaches a file reference to a complaint
type ComplaintEvidenceRequest struct {
	Type         string `json:"type" binding:"required,oneof=document image video audio"`
	Filename     string `json:"filename" binding:"required,min=1,max=255"`
	OriginalName string `json:"original_name" binding:"required,min=1,max=255"`
	URL          string `json:"url" binding:"required,url"`
	Size         int64  `json:"size" binding:"required,min=1"`
}

// ResolveComplaintRequest records the outcome of a complaint
type ResolveComplaintRequest struct {
	Outcome      string   `json:"outcome" binding:"required,oneof=founded unfounded partially_founded insufficient_evidence"`
	ActionsTaken []string `json:"actions_taken" binding:"required,min=1,dive,min=5,max=500"`
	Notes        string   `json:"notes" binding:"omitempty,max=2000"`
}
