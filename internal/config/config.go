// Package config provides configuration management for the Sharp Picks service.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database" validate:"required"`
	Projections ProjectionsConfig `mapstructure:"projections" validate:"required"`
	Calibration CalibrationConfig `mapstructure:"calibration" validate:"required"`
	Gates       GatesConfig       `mapstructure:"gates" validate:"required"`
	Slots       SlotsConfig       `mapstructure:"slots" validate:"required"`
	Metrics     MetricsConfig     `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// ProjectionsConfig represents the upstream projection feed configuration
type ProjectionsConfig struct {
	BaseURL         string  `mapstructure:"base_url" validate:"required,url"`
	APIKey          string  `mapstructure:"api_key"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts   int     `mapstructure:"retry_attempts" validate:"gte=0"`
	RateLimit       float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	CacheTTLSeconds int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	CacheMaxSize    int     `mapstructure:"cache_max_size" validate:"required,gt=0"`
}

// CalibrationConfig represents recalibration batch configuration
type CalibrationConfig struct {
	NumBuckets   int             `mapstructure:"num_buckets" validate:"required,gt=0"`
	LookbackDays int             `mapstructure:"lookback_days" validate:"required,gt=0"`
	Schedule     string          `mapstructure:"schedule" validate:"required"`
	Segments     []SegmentConfig `mapstructure:"segments" validate:"required,min=1,dive"`
}

// SegmentConfig identifies one (engine, sport, bet type, window) slice
// that gets its own derived buckets and mapping.
type SegmentConfig struct {
	Engine  string `mapstructure:"engine" validate:"required"`
	Sport   string `mapstructure:"sport" validate:"required"`
	BetType string `mapstructure:"bet_type" validate:"required"`
	Window  string `mapstructure:"window" validate:"required"`
}

// GatesConfig holds every qualification threshold. Values are injected
// into the selection pipeline; nothing in the decision code hardcodes
// them, so tests and deployments can vary them freely.
type GatesConfig struct {
	PrivilegedRoles   []string `mapstructure:"privileged_roles" validate:"required,min=1,roles"`
	MaxInfractions    int      `mapstructure:"max_infractions" validate:"gte=0"`
	MinAvgMinutes     float64  `mapstructure:"min_avg_minutes" validate:"gte=0"`
	AllowedCategories []string `mapstructure:"allowed_categories" validate:"required,len=3,categories"`
	EdgeMultiplier    float64  `mapstructure:"edge_multiplier" validate:"required,gt=0"`
	EdgeFloor         float64  `mapstructure:"edge_floor" validate:"gte=0"`
	MinFatigueScore   float64  `mapstructure:"min_fatigue_score" validate:"gte=0"`
	MaxVarianceRatio  float64  `mapstructure:"max_variance_ratio" validate:"required,gt=0"`
	MinConfidence     float64  `mapstructure:"min_confidence" validate:"gte=0,lte=100"`
}

// SlotsConfig holds slip layout thresholds
type SlotsConfig struct {
	FlexWideEdge float64 `mapstructure:"flex_wide_edge" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
