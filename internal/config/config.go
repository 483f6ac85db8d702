package config

import (
	"fmt"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	MinIO     MinIOConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Worker    WorkerConfig
	Log       LogConfig
	Sentry    SentryConfig
	Analysis  AnalysisConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Env  string `mapstructure:"env"`
	// BodyLimit caps request bodies; canvas payloads are large
	BodyLimit int `mapstructure:"body_limit"`
}

// PostgresConfig holds PostgreSQL configuration
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// DSN returns the PostgreSQL connection string
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MinIOConfig holds MinIO configuration
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
}

// AuthConfig holds admin token configuration
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Max     int           `mapstructure:"max"`
	Window  time.Duration `mapstructure:"window"`
}

// WorkerConfig holds background worker configuration
type WorkerConfig struct {
	Concurrency int    `mapstructure:"concurrency"`
	Queue       string `mapstructure:"queue"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SentryConfig holds error reporting configuration
type SentryConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	DSN              string  `mapstructure:"dsn"`
	Environment      string  `mapstructure:"environment"`
	Release          string  `mapstructure:"release"`
	Debug            bool    `mapstructure:"debug"`
	SampleRate       float64 `mapstructure:"sample_rate"`
	TracesSampleRate float64 `mapstructure:"traces_sample_rate"`
}

// AnalysisConfig controls how groups are ordered and which samples are
// left out of analysis.
type AnalysisConfig struct {
	// MemberKeys sorts samples inside a group
	MemberKeys []string `mapstructure:"member_keys"`
	// ClassKeys sorts groups of a single experiment
	ClassKeys []string `mapstructure:"class_keys"`
	// SampleClassKeys sorts groups of the cross-experiment sample analysis
	SampleClassKeys []string        `mapstructure:"sample_class_keys"`
	Exclusions      []ExclusionRule `mapstructure:"exclusions"`
}

// ExclusionRule drops known-bad samples from matching analyses.
type ExclusionRule struct {
	Name string `mapstructure:"name"`
	// ExperimentPattern is a regular expression matched against experiment
	// names. Empty matches nothing.
	ExperimentPattern string `mapstructure:"experiment_pattern"`
	// ApplyToSamples also applies the rule to the cross-experiment analysis
	ApplyToSamples bool `mapstructure:"apply_to_samples"`
	// Keys are sample user IDs
	Keys []string `mapstructure:"keys"`
}

// IsDevelopment returns true if running in development mode
func (c Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c Config) IsProduction() bool {
	return c.Server.Env == "production"
}
