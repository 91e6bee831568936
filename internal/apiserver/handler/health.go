package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/amoylab/casedesk/internal/apiserver/database"
	"github.com/amoylab/casedesk/internal/i18n"
	"github.com/amoylab/casedesk/pkg/version"
)

const pingTimeout = 2 * time.Second

// HealthStatus is the payload of GET /health
type HealthStatus struct {
	Status   string    `json:"status"`
	Version  string    `json:"version"`
	Time     time.Time `json:"time"`
	Database string    `json:"database"`
}

type Health struct {
	db     database.Database
	logger *zap.Logger
}

func NewHealth(db database.Database, logger *zap.Logger) *Health {
	return &Health{db: db, logger: logger.Named("handler.health")}
}

// Check pings the database and reports the service state
func (h *Health) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	status := HealthStatus{
		Status:   "ok",
		Version:  version.Get(),
		Time:     time.Now().UTC(),
		Database: "up",
	}
	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error("database ping failed", zap.Error(err))
		status.Status = "degraded"
		status.Database = "down"
		c.JSON(http.StatusServiceUnavailable, i18n.Envelope{
			Message: i18n.ErrDatabaseDown.TranslateByContext(c),
			Data:    status,
		})
		return
	}
	i18n.Success(i18n.SuccessHealthy).WithPayload(status).Send(c)
}
