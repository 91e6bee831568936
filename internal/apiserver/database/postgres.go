package database

import (
	"github.com/amoylab/casedesk/internal/common/config"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
)

// Postgres implements the Database interface using PostgreSQL
type Postgres struct {
	*store
	cfg *config.DatabaseConfig
}

// NewPostgres creates a new Postgres instance
func NewPostgres(cfg *config.DatabaseConfig, lg *zap.Logger) (Database, error) {
	gormDB, err := open(postgres.Open(cfg.GetDSN()), cfg, lg)
	if err != nil {
		return nil, err
	}
	return &Postgres{store: newStore(gormDB), cfg: cfg}, nil
}
