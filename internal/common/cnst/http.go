package cnst

// Request headers
const (
	HeaderTenantSlug    = "X-Tenant-Slug"
	HeaderRequestID     = "X-Request-ID"
	HeaderAuthorization = "Authorization"
	BearerPrefix        = "Bearer"

	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
)

// Gin context keys set by the middleware chain
const (
	CtxKeyTenant    = "tenant"
	CtxKeyUser      = "user"
	CtxKeyClaims    = "claims"
	CtxKeyRequestID = "request_id"
)
