package config

import (
	"fmt"
	"time"

	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/amoylab/casedesk/pkg/trace"
)

type (
	APIServerConfig struct {
		Server    ServerConfig    `yaml:"server"`
		Database  DatabaseConfig  `yaml:"database"`
		Logger    LoggerConfig    `yaml:"logger"`
		JWT       JWTConfig       `yaml:"jwt"`
		CORS      CORSConfig      `yaml:"cors"`
		RateLimit RateLimitConfig `yaml:"rate_limit"`
		Security  SecurityConfig  `yaml:"security"`
		Workflow  WorkflowConfig  `yaml:"workflow"`
		Metrics   MetricsConfig   `yaml:"metrics"`
		Tracing   trace.Config    `yaml:"tracing"`
		Scheduler SchedulerConfig `yaml:"scheduler"`
		Cache     CacheConfig     `yaml:"cache"`
		I18n      I18nConfig      `yaml:"i18n"`
	}

	ServerConfig struct {
		Host           string        `yaml:"host"`
		Port           int           `yaml:"port"`
		Environment    string        `yaml:"environment"` // development, production, test
		ReadTimeout    time.Duration `yaml:"read_timeout"`
		WriteTimeout   time.Duration `yaml:"write_timeout"`
		TrustedProxies []string      `yaml:"trusted_proxies"`
		PID            string        `yaml:"pid"`
	}

	// I18nConfig represents the internationalization configuration
	I18nConfig struct {
		Path        string `yaml:"path"` // Path to i18n translation files
		DefaultLang string `yaml:"default_lang"`
	}

	DatabaseConfig struct {
		Type            string        `yaml:"type"`     // mysql, postgres, sqlite
		Host            string        `yaml:"host"`     // localhost
		Port            int           `yaml:"port"`     // 3306 (for mysql), 5432 (for postgres)
		User            string        `yaml:"user"`     // root (for mysql), postgres (for postgres)
		Password        string        `yaml:"password"` // password
		DBName          string        `yaml:"dbname"`   // database name, file path for sqlite
		SSLMode         string        `yaml:"sslmode"`  // disable (for postgres)
		MaxOpenConns    int           `yaml:"max_open_conns"`
		MaxIdleConns    int           `yaml:"max_idle_conns"`
		ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	}

	JWTConfig struct {
		SecretKey       string        `yaml:"secret_key"`
		AccessDuration  time.Duration `yaml:"access_duration"`
		RefreshDuration time.Duration `yaml:"refresh_duration"`
		Issuer          string        `yaml:"issuer"`
		AccessAudience  string        `yaml:"access_audience"`
		RefreshAudience string        `yaml:"refresh_audience"`
	}

	CORSConfig struct {
		AllowOrigins     []string      `yaml:"allow_origins"`
		AllowCredentials bool          `yaml:"allow_credentials"`
		MaxAge           time.Duration `yaml:"max_age"`
	}

	// RatePolicy allows Max requests per client within Window
	RatePolicy struct {
		Window time.Duration `yaml:"window"`
		Max    int           `yaml:"max"`
	}

	RateLimitConfig struct {
		Store   string      `yaml:"store"` // memory, redis
		Redis   RedisConfig `yaml:"redis"`
		Auth    RatePolicy  `yaml:"auth"`
		General RatePolicy  `yaml:"general"`
		API     RatePolicy  `yaml:"api"`
	}

	SecurityConfig struct {
		MaxLoginAttempts int           `yaml:"max_login_attempts"`
		LockDuration     time.Duration `yaml:"lock_duration"`
		BcryptCost       int           `yaml:"bcrypt_cost"`
	}

	WorkflowConfig struct {
		// StrictTransitions additionally requires the target status to be reachable
		// from the current one, on top of the per-role allow-list.
		StrictTransitions bool `yaml:"strict_transitions"`
	}

	MetricsConfig struct {
		Enabled   bool      `yaml:"enabled"`
		Path      string    `yaml:"path"`
		Namespace string    `yaml:"namespace"`
		Buckets   []float64 `yaml:"buckets"`
	}

	SchedulerConfig struct {
		Enabled          bool   `yaml:"enabled"`
		OverdueSpec      string `yaml:"overdue_spec"`
		SubscriptionSpec string `yaml:"subscription_spec"`
	}

	// CacheConfig controls the tenant lookup cache. Entries always live in
	// process memory; store redis adds a shared second layer.
	CacheConfig struct {
		Enabled    bool          `yaml:"enabled"`
		Store      string        `yaml:"store"` // memory, redis
		TTL        time.Duration `yaml:"ttl"`
		MaxEntries int           `yaml:"max_entries"`
		Redis      RedisConfig   `yaml:"redis"`
	}
)

// IsProduction reports whether the server runs with production settings
func (c *ServerConfig) IsProduction() bool {
	return c.Environment == cnst.EnvProduction
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	switch c.Type {
	case "postgres":
		return c.getPostgresDSN()
	case "mysql":
		return c.getMySQLDSN()
	case "sqlite":
		return c.DBName // For SQLite, DBName is the file path
	default:
		return ""
	}
}

// getPostgresDSN returns PostgreSQL connection string
func (c *DatabaseConfig) getPostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// getMySQLDSN returns MySQL connection string
func (c *DatabaseConfig) getMySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}
