package i18n

// Common errors
var (
	ErrNotFound         = NewErrorWithCode("ErrorResourceNotFound", ErrorNotFound)
	ErrUnauthorized     = NewErrorWithCode("ErrorUnauthorized", ErrorUnauthorized)
	ErrForbidden        = NewErrorWithCode("ErrorForbidden", ErrorForbidden)
	ErrBadRequest       = NewErrorWithCode("ErrorBadRequest", ErrorBadRequest)
	ErrInternalServer   = NewErrorWithCode("ErrorInternalServer", ErrorInternalServer)
	ErrRouteNotFound    = NewErrorWithCode("ErrorRouteNotFound", ErrorNotFound)
	ErrConcurrentUpdate = NewErrorWithCode("ErrorConcurrentUpdate", ErrorConflict)
	ErrRateLimited      = NewErrorWithCode("ErrorRateLimited", ErrorTooManyRequests)
	ErrInvalidBody      = NewErrorWithCode("ErrorInvalidBody", ErrorBadRequest)
	ErrInvalidID        = NewErrorWithCode("ErrorInvalidID", ErrorBadRequest)
	ErrDatabaseDown     = NewErrorWithCode("ErrorDatabaseDown", ErrorServiceUnavailable)
)

// ErrorValidationFailed heads the field level error list
var ErrorValidationFailed = NewErrorWithCode("ErrorValidationFailed", ErrorBadRequest)

// Tenant related errors
var (
	ErrorTenantSlugRequired    = NewErrorWithCode("ErrorTenantSlugRequired", ErrorBadRequest)
	ErrorTenantSlugInvalid     = NewErrorWithCode("ErrorTenantSlugInvalid", ErrorBadRequest)
	ErrorTenantNotFound        = NewErrorWithCode("ErrorTenantNotFound", ErrorUnauthorized)
	ErrorTenantInactive        = NewErrorWithCode("ErrorTenantInactive", ErrorUnauthorized)
	ErrorTenantMismatch        = NewErrorWithCode("ErrorTenantMismatch", ErrorUnauthorized)
	ErrorSubscriptionInactive  = NewErrorWithCode("ErrorSubscriptionInactive", ErrorForbidden)
	ErrorTenantSlugExists      = NewErrorWithCode("ErrorTenantSlugExists", ErrorConflict)
	ErrorTenantRUTExists       = NewErrorWithCode("ErrorTenantRUTExists", ErrorConflict)
	ErrorTenantLicensesInvalid = NewErrorWithCode("ErrorTenantLicensesInvalid", ErrorBadRequest)
)

// Authentication errors
var (
	ErrorTokenRequired       = NewErrorWithCode("ErrorTokenRequired", ErrorUnauthorized)
	ErrorTokenInvalid        = NewErrorWithCode("ErrorTokenInvalid", ErrorUnauthorized)
	ErrorTokenExpired        = NewErrorWithCode("ErrorTokenExpired", ErrorUnauthorized)
	ErrorRefreshTokenInvalid = NewErrorWithCode("ErrorRefreshTokenInvalid", ErrorUnauthorized)
	ErrorInvalidCredentials  = NewErrorWithCode("ErrorInvalidCredentials", ErrorUnauthorized)
	ErrorUserInactive        = NewErrorWithCode("ErrorUserInactive", ErrorUnauthorized)
	ErrorAccountLocked       = NewErrorWithCode("ErrorAccountLocked", ErrorLocked)
	ErrorRoleNotAllowed      = NewErrorWithCode("ErrorRoleNotAllowed", ErrorForbidden)
)

// User related errors
var (
	ErrorUserNotFound         = NewErrorWithCode("ErrorUserNotFound", ErrorNotFound)
	ErrorEmailExists          = NewErrorWithCode("ErrorEmailExists", ErrorConflict)
	ErrorLicenseLimit         = NewErrorWithCode("ErrorLicenseLimit", ErrorForbidden)
	ErrorCannotDeleteSelf     = NewErrorWithCode("ErrorCannotDeleteSelf", ErrorBadRequest)
	ErrorCannotDeactivateSelf = NewErrorWithCode("ErrorCannotDeactivateSelf", ErrorBadRequest)
	ErrorInvalidRole          = NewErrorWithCode("ErrorInvalidRole", ErrorBadRequest)
)

// Complaint related errors
var (
	ErrorComplaintNotFound     = NewErrorWithCode("ErrorComplaintNotFound", ErrorNotFound)
	ErrorComplaintAccessDenied = NewErrorWithCode("ErrorComplaintAccessDenied", ErrorForbidden)
	ErrorSelfAccusation        = NewErrorWithCode("ErrorSelfAccusation", ErrorBadRequest)
	ErrorAccusedNotFound       = NewErrorWithCode("ErrorAccusedNotFound", ErrorNotFound)
	ErrorStatusNotAllowed      = NewErrorWithCode("ErrorStatusNotAllowed", ErrorForbidden)
	ErrorInvalidTransition     = NewErrorWithCode("ErrorInvalidTransition", ErrorConflict)
	ErrorComplaintNotEditable  = NewErrorWithCode("ErrorComplaintNotEditable", ErrorConflict)
	ErrorComplaintClosed       = NewErrorWithCode("ErrorComplaintClosed", ErrorConflict)
	ErrorInvestigatorNotFound  = NewErrorWithCode("ErrorInvestigatorNotFound", ErrorNotFound)
	ErrorNotAssigned           = NewErrorWithCode("ErrorNotAssigned", ErrorForbidden)
)

// Investigation related errors
var (
	ErrorInvestigationNotFound     = NewErrorWithCode("ErrorInvestigationNotFound", ErrorNotFound)
	ErrorInvestigationAccessDenied = NewErrorWithCode("ErrorInvestigationAccessDenied", ErrorForbidden)
	ErrorActiveInvestigationExists = NewErrorWithCode("ErrorActiveInvestigationExists", ErrorConflict)
	ErrorInvestigationClosed       = NewErrorWithCode("ErrorInvestigationClosed", ErrorConflict)
	ErrorUseCompleteEndpoint       = NewErrorWithCode("ErrorUseCompleteEndpoint", ErrorBadRequest)
	ErrorIntervieweeNotFound       = NewErrorWithCode("ErrorIntervieweeNotFound", ErrorNotFound)
	ErrorEvidenceReferenceInvalid  = NewErrorWithCode("ErrorEvidenceReferenceInvalid", ErrorBadRequest)
	ErrorCompletionDateInPast      = NewErrorWithCode("ErrorCompletionDateInPast", ErrorBadRequest)
)

// Resource catalog errors
var (
	ErrorResourceNotFound        = NewErrorWithCode("ErrorCatalogEntryNotFound", ErrorNotFound)
	ErrorResourceCategoryEmpty   = NewErrorWithCode("ErrorCatalogCategoryEmpty", ErrorNotFound)
	ErrorResourceCategoryInvalid = NewErrorWithCode("ErrorCatalogCategoryInvalid", ErrorBadRequest)
	ErrorResourceExists          = NewErrorWithCode("ErrorCatalogEntryExists", ErrorConflict)
	ErrorMetadataInvalid         = NewErrorWithCode("ErrorMetadataInvalid", ErrorBadRequest)
)

// Validation messages used inside errors[] entries
const (
	MsgFieldRequired = "ValidationRequired"
	MsgFieldEmail    = "ValidationEmail"
	MsgFieldMin      = "ValidationMin"
	MsgFieldMax      = "ValidationMax"
	MsgFieldOneOf    = "ValidationOneOf"
	MsgFieldRUT      = "ValidationRUT"
	MsgFieldSlug     = "ValidationSlug"
	MsgFieldKey      = "ValidationCatalogKey"
	MsgFieldFuture   = "ValidationFutureDate"
	MsgFieldPast     = "ValidationPastDate"
	MsgFieldInvalid  = "ValidationInvalid"
)

// Success message IDs
const (
	SuccessHealthy               = "SuccessHealthy"
	SuccessLogin                 = "SuccessLogin"
	SuccessLogout                = "SuccessLogout"
	SuccessTokenRefreshed        = "SuccessTokenRefreshed"
	SuccessTokenValid            = "SuccessTokenValid"
	SuccessProfile               = "SuccessProfile"
	SuccessUserList              = "SuccessUserList"
	SuccessUserInfo              = "SuccessUserInfo"
	SuccessUserCreated           = "SuccessUserCreated"
	SuccessUserUpdated           = "SuccessUserUpdated"
	SuccessUserDeleted           = "SuccessUserDeleted"
	SuccessUserStatusChanged     = "SuccessUserStatusChanged"
	SuccessUserStats             = "SuccessUserStats"
	SuccessComplaintList         = "SuccessComplaintList"
	SuccessComplaintInfo         = "SuccessComplaintInfo"
	SuccessComplaintCreated      = "SuccessComplaintCreated"
	SuccessComplaintUpdated      = "SuccessComplaintUpdated"
	SuccessComplaintStatus       = "SuccessComplaintStatus"
	SuccessComplaintAssigned     = "SuccessComplaintAssigned"
	SuccessComplaintResolved     = "SuccessComplaintResolved"
	SuccessComplaintEvidence     = "SuccessComplaintEvidence"
	SuccessComplaintTimeline     = "SuccessComplaintTimeline"
	SuccessComplaintStats        = "SuccessComplaintStats"
	SuccessInvestigationList     = "SuccessInvestigationList"
	SuccessInvestigationInfo     = "SuccessInvestigationInfo"
	SuccessInvestigationCreated  = "SuccessInvestigationCreated"
	SuccessInvestigationUpdated  = "SuccessInvestigationUpdated"
	SuccessInvestigationEvidence = "SuccessInvestigationEvidence"
	SuccessInterviewAdded        = "SuccessInterviewAdded"
	SuccessFindingAdded          = "SuccessFindingAdded"
	SuccessInvestigationComplete = "SuccessInvestigationComplete"
	SuccessInvestigationSuspend  = "SuccessInvestigationSuspend"
	SuccessInvestigationCancel   = "SuccessInvestigationCancel"
	SuccessInvestigationStats    = "SuccessInvestigationStats"
	SuccessResourceList          = "SuccessResourceList"
	SuccessResourceCreated       = "SuccessResourceCreated"
	SuccessResourceUpdated       = "SuccessResourceUpdated"
	SuccessResourceDeleted       = "SuccessResourceDeleted"
	SuccessResourceValidated     = "SuccessResourceValidated"
)
