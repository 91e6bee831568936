package database

import (
	"github.com/amoylab/casedesk/internal/common/config"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
)

// MySQL implements the Database interface using MySQL
type MySQL struct {
	*store
	cfg *config.DatabaseConfig
}

// NewMySQL creates a new MySQL instance
func NewMySQL(cfg *config.DatabaseConfig, lg *zap.Logger) (Database, error) {
	gormDB, err := open(mysql.Open(cfg.GetDSN()), cfg, lg)
	if err != nil {
		return nil, err
	}
	return &MySQL{store: newStore(gormDB), cfg: cfg}, nil
}
