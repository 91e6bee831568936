package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/amoylab/casedesk/internal/common/config"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
)

// SQLite implements the Database interface using SQLite
type SQLite struct {
	*store
	cfg *config.DatabaseConfig
}

// NewSQLite creates a new SQLite instance
func NewSQLite(cfg *config.DatabaseConfig, lg *zap.Logger) (Database, error) {
	dsn := cfg.DBName
	inMemory := dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
	if !inMemory {
		dir := filepath.Dir(dsn)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		if !strings.Contains(dsn, "?") {
			dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
		}
	}

	// sqlite serialises writers; one connection also keeps an in-memory database alive
	pool := *cfg
	pool.MaxOpenConns = 1
	pool.MaxIdleConns = 1
	if inMemory {
		pool.ConnMaxLifetime = 0
	}

	gormDB, err := open(sqlite.Open(dsn), &pool, lg)
	if err != nil {
		return nil, err
	}
	return &SQLite{store: newStore(gormDB), cfg: cfg}, nil
}
