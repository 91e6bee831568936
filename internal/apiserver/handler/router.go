package handler

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/amoylab/casedesk/internal/apiserver/database"
	"github.com/amoylab/casedesk/internal/apiserver/middleware"
	"github.com/amoylab/casedesk/internal/apiserver/service"
	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/amoylab/casedesk/internal/common/config"
	"github.com/amoylab/casedesk/internal/i18n"
	"github.com/amoylab/casedesk/internal/ratelimit"
	"github.com/amoylab/casedesk/pkg/metrics"
)

// Services groups the use cases the router exposes
type Services struct {
	Tenant        *service.Tenant
	Auth          *service.Auth
	User          *service.User
	Complaint     *service.Complaint
	Investigation *service.Investigation
	Resource      *service.Resource
}

// Deps is everything NewRouter wires together
type Deps struct {
	Config   *config.APIServerConfig
	DB       database.Database
	Services Services
	Limiters *ratelimit.Limiters
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

// NewRouter builds the gin engine with the middleware chain and every route
func NewRouter(d *Deps) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(d.Config.Server.TrustedProxies); err != nil {
		return nil, err
	}
	r.HandleMethodNotAllowed = true

	r.Use(
		middleware.RequestID(),
		middleware.Logger(d.Logger),
		middleware.Recovery(d.Logger),
		middleware.Language(),
		middleware.CORS(&d.Config.CORS),
	)
	if d.Config.Tracing.Enabled {
		r.Use(otelgin.Middleware(d.Config.Tracing.ServiceName))
	}
	if d.Config.Metrics.Enabled && d.Metrics != nil {
		path := d.Config.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.Use(d.Metrics.Middleware())
		r.GET(path, gin.WrapH(d.Metrics.Handler()))
	}

	r.NoRoute(func(c *gin.Context) { i18n.RespondWithError(c, i18n.ErrRouteNotFound) })
	r.NoMethod(func(c *gin.Context) { i18n.RespondWithError(c, i18n.ErrRouteNotFound) })

	health := NewHealth(d.DB, d.Logger)
	r.GET("/health", health.Check)

	var (
		authH          = NewAuth(d.Services.Auth, d.Logger)
		userH          = NewUser(d.Services.User)
		complaintH     = NewComplaint(d.Services.Complaint)
		investigationH = NewInvestigation(d.Services.Investigation)
		resourceH      = NewResource(d.Services.Resource)

		tenant      = middleware.TenantMiddleware(d.Services.Tenant)
		authn       = middleware.JWTAuthMiddleware(d.Services.Auth, d.Logger)
		managers    = middleware.Authorize(cnst.RoleHR, cnst.RoleTenantAdmin)
		admin       = middleware.Authorize(cnst.RoleTenantAdmin)
		anyone      = middleware.Authorize()
		staff       = middleware.Authorize(cnst.RoleHR, cnst.RoleTenantAdmin, cnst.RoleInvestigator)
		authLimit   = middleware.RateLimit(d.Limiters.Auth, d.Metrics, d.Logger)
		generalRate = middleware.RateLimit(d.Limiters.General, d.Metrics, d.Logger)
		apiRate     = middleware.RateLimit(d.Limiters.API, d.Metrics, d.Logger)
	)

	api := r.Group("/api", generalRate, tenant)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authLimit, authH.Login)
		auth.POST("/refresh", authLimit, authH.Refresh)
		auth.POST("/logout", authn, anyone, authH.Logout)
		auth.GET("/me", authn, anyone, authH.Me)
		auth.GET("/verify", authn, anyone, authH.Verify)
	}

	protected := api.Group("", apiRate, authn)

	users := protected.Group("/users")
	{
		users.GET("", managers, userH.List)
		users.GET("/stats", admin, userH.Stats)
		users.GET("/:id", anyone, userH.Get)
		users.POST("", admin, userH.Create)
		users.PUT("/:id", admin, userH.Update)
		users.DELETE("/:id", admin, userH.Delete)
		users.PATCH("/:id/status", admin, userH.SetStatus)
	}

	complaints := protected.Group("/complaints", anyone)
	{
		complaints.POST("", complaintH.Create)
		complaints.GET("", complaintH.List)
		complaints.GET("/stats", managers, complaintH.Stats)
		complaints.GET("/:id", complaintH.Get)
		complaints.PUT("/:id", complaintH.Update)
		complaints.PUT("/:id/status", complaintH.ChangeStatus)
		complaints.PUT("/:id/assign", managers, complaintH.Assign)
		complaints.POST("/:id/evidence", complaintH.AddEvidence)
		complaints.PUT("/:id/resolve", staff, complaintH.Resolve)
		complaints.GET("/:id/timeline", complaintH.Timeline)
	}

	investigations := protected.Group("/investigations", staff)
	{
		investigations.POST("", managers, investigationH.Create)
		investigations.GET("", investigationH.List)
		investigations.GET("/stats", investigationH.Stats)
		investigations.GET("/:id", investigationH.Get)
		investigations.PUT("/:id", investigationH.Update)
		investigations.POST("/:id/evidence", investigationH.AddEvidence)
		investigations.POST("/:id/interviews", investigationH.AddInterview)
		investigations.POST("/:id/findings", investigationH.AddFinding)
		investigations.POST("/:id/complete", investigationH.Complete)
		investigations.POST("/:id/suspend", managers, investigationH.Suspend)
		investigations.POST("/:id/cancel", managers, investigationH.Cancel)
	}

	resources := protected.Group("/resources", anyone)
	{
		resources.GET("", resourceH.Grouped)
		resources.GET("/:category", resourceH.Category)
		resources.GET("/:category/:key/validate", resourceH.ValidateKey)
		resources.POST("", admin, resourceH.Create)
		resources.PUT("/:category/:key", admin, resourceH.Update)
		resources.DELETE("/:category/:key", admin, resourceH.Delete)
	}

	return r, nil
}
