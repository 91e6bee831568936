package cnst

// Tracer names used across the services
const (
	TraceAPIServer = "casedesk/apiserver"
	TraceService   = "casedesk/service"
)

// Common attribute keys
const (
	AttrTenantID      = "tenant.id"
	AttrUserID        = "user.id"
	AttrUserRole      = "user.role"
	AttrComplaintID   = "complaint.id"
	AttrInvestigation = "investigation.id"
	AttrStatusFrom    = "status.from"
	AttrStatusTo      = "status.to"
)
