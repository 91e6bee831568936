package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/amoylab/casedesk/internal/apiserver/middleware"
	"github.com/amoylab/casedesk/internal/apiserver/service"
	"github.com/amoylab/casedesk/internal/common/dto"
	"github.com/amoylab/casedesk/internal/i18n"
	"github.com/amoylab/casedesk/internal/validator"
)

// Auth serves /api/auth
type Auth struct {
	auth   *service.Auth
	logger *zap.Logger
}

// NewAuth creates a new authentication handler
func NewAuth(auth *service.Auth, logger *zap.Logger) *Auth {
	return &Auth{
		auth:   auth,
		logger: logger.Named("handler.auth"),
	}
}

// Login handles user login
func (h *Auth) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := validator.BindJSON(c, &req); err != nil {
		i18n.RespondWithError(c, err)
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), middleware.CurrentTenant(c), &req)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Success(i18n.SuccessLogin).WithPayload(resp).Send(c)
}

// Refresh exchanges a refresh token for a new access token
func (h *Auth) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := validator.BindJSON(c, &req); err != nil {
		i18n.RespondWithError(c, err)
		return
	}

	resp, err := h.auth.Refresh(c.Request.Context(), middleware.CurrentTenant(c), req.RefreshToken)
	if err != nil {
		i18n.RespondWithError(c, err)
		return
	}
	i18n.Success(i18n.SuccessTokenRefreshed).WithPayload(resp).Send(c)
}

// Logout is stateless: the client discards its tokens
func (h *Auth) Logout(c *gin.Context) {
	h.logger.Debug("user logged out", zap.String("user_id", caller(c).ID))
	i18n.Success(i18n.SuccessLogout).Send(c)
}

// Me returns the profile of the caller
func (h *Auth) Me(c *gin.Context) {
	i18n.Success(i18n.SuccessProfile).
		WithPayload(h.auth.Me(caller(c), middleware.CurrentTenant(c))).
		Send(c)
}

// Verify echoes a valid token
func (h *Auth) Verify(c *gin.Context) {
	i18n.Success(i18n.SuccessTokenValid).
		WithPayload(h.auth.Verify(middleware.CurrentClaims(c))).
		Send(c)
}
