// Package handler exposes the REST API. Handlers bind and validate the
// request, call the service layer and send the i18n envelope.
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/amoylab/casedesk/internal/apiserver/database"
	"github.com/amoylab/casedesk/internal/apiserver/middleware"
	"github.com/amoylab/casedesk/internal/i18n"
)

// caller returns the authenticated user; the middleware chain guarantees it
func caller(c *gin.Context) *database.User {
	return middleware.CurrentUser(c)
}

// idParam reads a uuid path parameter
func idParam(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		i18n.RespondWithError(c, i18n.ErrInvalidID)
		return "", false
	}
	return id, true
}

// boolQuery reads an optional boolean query parameter
func boolQuery(c *gin.Context, name string) (bool, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return false, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		i18n.RespondWithError(c, i18n.NewValidationError(i18n.FieldError{Field: name, Message: i18n.MsgFieldInvalid}))
		return false, false
	}
	return v, true
}
