package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/amoylab/casedesk/pkg/helper"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type (
	// LoggerConfig represents the logger configuration
	LoggerConfig struct {
		Level      string `yaml:"level"`       // debug, info, warn, error
		Format     string `yaml:"format"`      // json, console
		Output     string `yaml:"output"`      // stdout, file
		FilePath   string `yaml:"file_path"`   // path to log file when output is file
		MaxSize    int    `yaml:"max_size"`    // max size of log file in MB
		MaxBackups int    `yaml:"max_backups"` // max number of backup files
		MaxAge     int    `yaml:"max_age"`     // max age of backup files in days
		Compress   bool   `yaml:"compress"`    // whether to compress backup files
		Color      bool   `yaml:"color"`       // whether to use color in console output
		Stacktrace bool   `yaml:"stacktrace"`  // whether to include stacktrace in error logs
		TimeZone   string `yaml:"time_zone"`   // time zone for log timestamps, e.g., "UTC", default is local
		TimeFormat string `yaml:"time_format"` // time format for log timestamps, default is "2006-01-02 15:04:05"
	}

	// RedisConfig is shared by every component that can sit on redis
	RedisConfig struct {
		ClusterType string `yaml:"cluster_type"` // single, sentinel, cluster
		Addr        string `yaml:"addr"`         // comma separated for sentinel and cluster
		Username    string `yaml:"username"`
		Password    string `yaml:"password"`
		MasterName  string `yaml:"master_name"`
		DB          int    `yaml:"db"`
		Prefix      string `yaml:"prefix"`
	}
)

type Type interface {
	APIServerConfig
}

// LoadConfig loads configuration from a YAML file with environment variable support
func LoadConfig[T Type](filename string) (*T, string, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfgPath := helper.GetCfgPath(filename)
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return nil, cfgPath, err
	}

	data = resolveEnv(data)
	var cfg T
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, cfgPath, err
	}

	if apiCfg, ok := any(&cfg).(*APIServerConfig); ok {
		apiCfg.setDefaults()
		if err := apiCfg.Validate(); err != nil {
			return nil, cfgPath, err
		}
	}

	return &cfg, cfgPath, nil
}

var envPattern = regexp.MustCompile(`\$\{(\w+)(?::([^}]*))?\}`)

// resolveEnv replaces environment variable placeholders in YAML content
func resolveEnv(content []byte) []byte {
	return envPattern.ReplaceAllFunc(content, func(match []byte) []byte {
		matches := envPattern.FindSubmatch(match)
		envKey := string(matches[1])
		var defaultValue string

		if len(matches) > 2 {
			defaultValue = string(matches[2])
		}

		if value, exists := os.LookupEnv(envKey); exists {
			return []byte(value)
		}
		return []byte(defaultValue)
	})
}

// Validate checks the settings the server cannot start without
func (c *APIServerConfig) Validate() error {
	switch c.Database.Type {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported database type: %q", c.Database.Type)
	}
	if c.JWT.SecretKey == "" {
		return fmt.Errorf("jwt.secret_key is required")
	}
	if c.JWT.AccessDuration <= 0 || c.JWT.RefreshDuration <= 0 {
		return fmt.Errorf("jwt durations must be positive")
	}
	switch c.RateLimit.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported rate limit store: %q", c.RateLimit.Store)
	}
	for name, p := range map[string]RatePolicy{
		"auth":    c.RateLimit.Auth,
		"general": c.RateLimit.General,
		"api":     c.RateLimit.API,
	} {
		if p.Window <= 0 || p.Max <= 0 {
			return fmt.Errorf("rate_limit.%s needs a positive window and max", name)
		}
	}
	switch c.Cache.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported cache store: %q", c.Cache.Store)
	}
	if c.Security.MaxLoginAttempts <= 0 || c.Security.LockDuration <= 0 {
		return fmt.Errorf("security.max_login_attempts and security.lock_duration must be positive")
	}
	return nil
}

func (c *APIServerConfig) setDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Server.Environment == "" {
		c.Server.Environment = cnst.EnvDevelopment
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.JWT.AccessDuration == 0 {
		c.JWT.AccessDuration = 24 * time.Hour
	}
	if c.JWT.RefreshDuration == 0 {
		c.JWT.RefreshDuration = 7 * 24 * time.Hour
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "harassment-platform"
	}
	if c.JWT.AccessAudience == "" {
		c.JWT.AccessAudience = "harassment-platform-users"
	}
	if c.JWT.RefreshAudience == "" {
		c.JWT.RefreshAudience = "harassment-platform-refresh"
	}
	if c.RateLimit.Store == "" {
		c.RateLimit.Store = "memory"
	}
	if c.Security.MaxLoginAttempts == 0 {
		c.Security.MaxLoginAttempts = 5
	}
	if c.Security.LockDuration == 0 {
		c.Security.LockDuration = 30 * time.Minute
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Cache.Store == "" {
		c.Cache.Store = "memory"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 30 * time.Second
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = 1024
	}
	if c.I18n.DefaultLang == "" {
		c.I18n.DefaultLang = cnst.LangDefault
	}
}
