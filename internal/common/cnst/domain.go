package cnst

// Role is the access role of a tenant user
type Role string

const (
	RoleEmployee     Role = "employee"
	RoleHR           Role = "hr"
	RoleInvestigator Role = "investigator"
	RoleTenantAdmin  Role = "tenant_admin"
)

// Roles lists every role in the order they are presented
var Roles = []Role{RoleEmployee, RoleHR, RoleInvestigator, RoleTenantAdmin}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	for _, v := range Roles {
		if v == r {
			return true
		}
	}
	return false
}

// IsManager reports whether r is HR or TenantAdmin
func (r Role) IsManager() bool {
	return r == RoleHR || r == RoleTenantAdmin
}

// ComplaintStatus is the lifecycle state of a complaint
type ComplaintStatus string

const (
	ComplaintDraft         ComplaintStatus = "draft"
	ComplaintSubmitted     ComplaintStatus = "submitted"
	ComplaintUnderReview   ComplaintStatus = "under_review"
	ComplaintInvestigating ComplaintStatus = "investigating"
	ComplaintResolved      ComplaintStatus = "resolved"
	ComplaintClosed        ComplaintStatus = "closed"
)

// ComplaintStatuses lists every complaint status in lifecycle order
var ComplaintStatuses = []ComplaintStatus{
	ComplaintDraft, ComplaintSubmitted, ComplaintUnderReview,
	ComplaintInvestigating, ComplaintResolved, ComplaintClosed,
}

// InvestigationStatus is the lifecycle state of an investigation
type InvestigationStatus string

const (
	InvestigationPending           InvestigationStatus = "pending"
	InvestigationInProgress        InvestigationStatus = "in_progress"
	InvestigationEvidenceReview    InvestigationStatus = "evidence_review"
	InvestigationInterviewsPending InvestigationStatus = "interviews_pending"
	InvestigationAnalysis          InvestigationStatus = "analysis"
	InvestigationReportDraft       InvestigationStatus = "report_draft"
	InvestigationCompleted         InvestigationStatus = "completed"
	InvestigationSuspended         InvestigationStatus = "suspended"
	InvestigationCancelled         InvestigationStatus = "cancelled"
)

// InvestigationStatuses lists every investigation status, main path first
var InvestigationStatuses = []InvestigationStatus{
	InvestigationPending, InvestigationInProgress, InvestigationEvidenceReview,
	InvestigationInterviewsPending, InvestigationAnalysis, InvestigationReportDraft,
	InvestigationCompleted, InvestigationSuspended, InvestigationCancelled,
}

// TimelineAction names an entry of a complaint or investigation timeline
type TimelineAction string

const (
	ActionCreated              TimelineAction = "created"
	ActionSubmitted            TimelineAction = "submitted"
	ActionAssigned             TimelineAction = "assigned"
	ActionInvestigationStarted TimelineAction = "investigation_started"
	ActionEvidenceAdded        TimelineAction = "evidence_added"
	ActionStatusChanged        TimelineAction = "status_changed"
	ActionResolved             TimelineAction = "resolved"
	ActionClosed               TimelineAction = "closed"

	ActionEvidenceCollected  TimelineAction = "evidence_collected"
	ActionInterviewConducted TimelineAction = "interview_conducted"
	ActionAnalysisCompleted  TimelineAction = "analysis_completed"
	ActionCompleted          TimelineAction = "completed"
	ActionSuspended          TimelineAction = "suspended"
	ActionCancelled          TimelineAction = "cancelled"
)

// Complaint classification values
const (
	ComplaintTypeSexual         = "sexual"
	ComplaintTypePsychological  = "psychological"
	ComplaintTypeDiscrimination = "discrimination"
	ComplaintTypeOther          = "other"

	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"

	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Resolution outcomes of a complaint
const (
	OutcomeFounded              = "founded"
	OutcomeUnfounded            = "unfounded"
	OutcomePartiallyFounded     = "partially_founded"
	OutcomeInsufficientEvidence = "insufficient_evidence"
)

// Conclusion outcomes of an investigation
const (
	ConclusionSubstantiated          = "substantiated"
	ConclusionUnsubstantiated        = "unsubstantiated"
	ConclusionPartiallySubstantiated = "partially_substantiated"
	ConclusionInconclusive           = "inconclusive"
	ConclusionUnfounded              = "unfounded"
)

// Chain of custody actions
const (
	CustodyCollected   = "collected"
	CustodyReviewed    = "reviewed"
	CustodyAnalyzed    = "analyzed"
	CustodyTransferred = "transferred"
)

// Tenant account states
const (
	TenantActive   = "active"
	TenantInactive = "inactive"
	TenantPending  = "pending"
)

// Subscription plans and states
const (
	PlanBasic    = "Basic"
	PlanStandard = "Standard"
	PlanPremium  = "Premium"

	SubscriptionActive    = "active"
	SubscriptionTrial     = "trial"
	SubscriptionSuspended = "suspended"
	SubscriptionCancelled = "cancelled"
)

// Resource catalog categories
const (
	CategoryComplaintTypes     = "complaint_types"
	CategoryComplaintSeverity  = "complaint_severity"
	CategoryComplaintPriority  = "complaint_priority"
	CategoryComplaintStatus    = "complaint_status"
	CategoryUserRoles          = "user_roles"
	CategoryEvidenceTypes      = "evidence_types"
	CategoryResolutionOutcomes = "resolution_outcomes"
	CategoryTimelineActions    = "timeline_actions"
)

// ResourceCategories lists the categories a catalog entry may belong to
var ResourceCategories = []string{
	CategoryComplaintTypes, CategoryComplaintSeverity, CategoryComplaintPriority,
	CategoryComplaintStatus, CategoryUserRoles, CategoryEvidenceTypes,
	CategoryResolutionOutcomes, CategoryTimelineActions,
}

// IsResourceCategory reports whether c is a known catalog category
func IsResourceCategory(c string) bool {
	for _, v := range ResourceCategories {
		if v == c {
			return true
		}
	}
	return false
}
