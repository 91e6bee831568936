package dto

import (
	"time"

	"github.com/amoylab/casedesk/internal/apiserver/database"
)

// CreateInvestigationRequest opens an investigation on a complaint
type CreateInvestigationRequest struct {
	ComplaintID             string    `json:"complaint_id" binding:"required,uuid"`
	InvestigatorID          string    `json:"investigator_id" binding:"required,uuid"`
	Priority                string    `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	EstimatedCompletionDate time.Time `json:"estimated_completion_date" binding:"required,futuredate"`
	InvestigationType       string    `json:"investigation_type" binding:"omitempty,oneof=formal informal preliminary follow_up"`
	Methodology             string    `json:"methodology" binding:"omitempty,oneof=interviews document_review observation mixed"`
	Scope                   string    `json:"scope" binding:"required,min=10,max=1000"`
	Objectives              []string  `json:"objectives" binding:"required,min=1,dive,min=5,max=500"`
	ConfidentialityLevel    string    `json:"confidentiality_level" binding:"omitempty,oneof=public internal confidential highly_confidential"`
	Notes                   string    `json:"notes" binding:"omitempty,max=2000"`
}

// UpdateInvestigationRequest edits an investigation; nil fields are left unchanged
type UpdateInvestigationRequest struct {
	Status                  *string    `json:"status" binding:"omitempty,oneof=pending in_progress evidence_review interviews_pending analysis report_draft completed suspended cancelled"`
	Priority                *string    `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	EstimatedCompletionDate *time.Time `json:"estimated_completion_date" binding:"omitempty,futuredate"`
	Scope                   *string    `json:"scope" binding:"omitempty,min=10,max=1000"`
	Objectives              []string   `json:"objectives" binding:"omitempty,min=1,dive,min=5,max=500"`
	Notes                   *string    `json:"notes" binding:"omitempty,max=2000"`
}

// ListInvestigationsQuery filters the investigation listing
type ListInvestigationsQuery struct {
	PageQuery
	Status         string `form:"status" binding:"omitempty,oneof=pending in_progress evidence_review interviews_pending analysis report_draft completed suspended cancelled"`
	Priority       string `form:"priority" binding:"omitempty,oneof=low normal high urgent"`
	InvestigatorID string `form:"investigator_id" binding:"omitempty,uuid"`
	ComplaintID    string `form:"complaint_id" binding:"omitempty,uuid"`
	OverdueOnly    bool   `form:"overdue_only"`
}

// InvestigationEvidenceRequest records collected evidence
type InvestigationEvidenceRequest struct {
	Type          string     `json:"type" binding:"required,oneof=document interview email photo video other"`
	Title         string     `json:"title" binding:"required,min=3,max=200"`
	Description   string     `json:"description" binding:"omitempty,max=1000"`
	Filename      string     `json:"filename" binding:"omitempty,max=255"`
	URL           string     `json:"url" binding:"omitempty,url"`
	Source        string     `json:"source" binding:"required,max=200"`
	Relevance     string     `json:"relevance" binding:"required,oneof=high medium low"`
	CollectedDate *time.Time `json:"collected_date" binding:"omitempty,pastdate"`
}

// InterviewRequest records an interview
type InterviewRequest struct {
	IntervieweeID    string    `json:"interviewee_id" binding:"required,uuid"`
	InterviewDate    time.Time `json:"interview_date" binding:"required"`
	DurationMinutes  int       `json:"duration_minutes" binding:"required,min=1,max=480"`
	Location         string    `json:"location" binding:"omitempty,max=300"`
	Type             string    `json:"type" binding:"required,oneof=witness complainant accused expert other"`
	Summary          string    `json:"summary" binding:"required,min=10,max=5000"`
	KeyPoints        []string  `json:"key_points" binding:"omitempty,dive,max=500"`
	FollowUpRequired bool      `json:"follow_up_required"`
	FollowUpNotes    string    `json:"follow_up_notes" binding:"omitempty,max=2000"`
	RecordingURL     string    `json:"recording_url" binding:"omitempty,url"`
	TranscriptURL    string    `json:"transcript_url" binding:"omitempty,url"`
}

// FindingRequest documents a finding
type FindingRequest struct {
	Category           string   `json:"category" binding:"required,oneof=factual policy_violation procedural behavioral"`
	Description        string   `json:"description" binding:"required,min=10,max=2000"`
	Severity           string   `json:"severity" binding:"required,oneof=low medium high critical"`
	SupportingEvidence []string `json:"supporting_evidence" binding:"omitempty,dive,required"`
	Recommendations    []string `json:"recommendations" binding:"omitempty,dive,max=500"`
}

// RecommendationRequest is one follow-up action of a conclusion
type RecommendationRequest struct {
	Type        string     `json:"type" binding:"required,oneof=disciplinary training policy procedural other"`
	Description string     `json:"description" binding:"required,min=1,max=1000"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	AssignedTo  string     `json:"assigned_to" binding:"omitempty,uuid"`
	DueDate     *time.Time `json:"due_date"`
}

// CompleteInvestigationRequest closes an investigation with a conclusion
type CompleteInvestigationRequest struct {
	Outcome         string                  `json:"outcome" binding:"required,oneof=substantiated unsubstantiated partially_substantiated inconclusive unfounded"`
	Summary         string                  `json:"summary" binding:"required,min=50,max=3000"`
	Recommendations []RecommendationRequest `json:"recommendations" binding:"omitempty,dive"`
}

// ReasonRequest carries the reason of a suspension or cancellation
type ReasonRequest struct {
	Reason string `json:"reason" binding:"required,min=5,max=1000"`
}

// InvestigationDetail adds computed progress fields to an investigation
type InvestigationDetail struct {
	*database.Investigation
	ProgressPercentage int  `json:"progress_percentage"`
	IsOverdue          bool `json:"is_overdue"`
	DurationDays       int  `json:"duration_days"`
}
