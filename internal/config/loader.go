package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultJWTSecret = "change-me-in-production"

// knownBadWebfontSamples rendered a blank canvas for the webfont experiment.
var knownBadWebfontSamples = []string{
	"6cfc2b99097478da536bbc679f77408ad0fa39f9",
	"54b3bfcaae757a0138cd8e8162e610aed62718c7",
	"0476b094ed0733e8c1b74f029eafb5452b1edaec",
	"a2ed9206fe11e99815a7f78a860f5ae28f51f921",
	"7c76963cab9fc94e912045a933d3640a91543751",
	"142d3ea80df149a520710af60ecb671331397a19",
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/canvasprint")

	// Ignore error if config file not found
	_ = v.ReadInConfig()

	return load(v)
}

// LoadFile loads configuration from an explicit YAML file plus environment
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config

	// Server
	cfg.Server.Host = v.GetString("server_host")
	cfg.Server.Port = v.GetInt("server_port")
	cfg.Server.Env = v.GetString("server_env")
	cfg.Server.BodyLimit = v.GetInt("server_body_limit")

	// PostgreSQL
	cfg.Postgres.Host = v.GetString("postgres_host")
	cfg.Postgres.Port = v.GetInt("postgres_port")
	cfg.Postgres.User = v.GetString("postgres_user")
	cfg.Postgres.Password = v.GetString("postgres_password")
	cfg.Postgres.Database = v.GetString("postgres_db")
	cfg.Postgres.SSLMode = v.GetString("postgres_ssl_mode")
	cfg.Postgres.MaxConns = int32(v.GetInt("postgres_max_conns"))
	cfg.Postgres.MinConns = int32(v.GetInt("postgres_min_conns"))

	// Redis
	cfg.Redis.Host = v.GetString("redis_host")
	cfg.Redis.Port = v.GetInt("redis_port")
	cfg.Redis.Password = v.GetString("redis_password")
	cfg.Redis.DB = v.GetInt("redis_db")

	// MinIO
	cfg.MinIO.Endpoint = v.GetString("minio_endpoint")
	cfg.MinIO.AccessKey = v.GetString("minio_access_key")
	cfg.MinIO.SecretKey = v.GetString("minio_secret_key")
	cfg.MinIO.UseSSL = v.GetBool("minio_use_ssl")
	cfg.MinIO.Bucket = v.GetString("minio_bucket")

	// Auth
	cfg.Auth.JWTSecret = v.GetString("jwt_secret")
	cfg.Auth.Issuer = v.GetString("jwt_issuer")

	// Rate Limiting
	cfg.RateLimit.Enabled = v.GetBool("rate_limit_enabled")
	cfg.RateLimit.Max = v.GetInt("rate_limit_max")
	cfg.RateLimit.Window = v.GetDuration("rate_limit_window")

	// Worker
	cfg.Worker.Concurrency = v.GetInt("worker_concurrency")
	cfg.Worker.Queue = v.GetString("worker_queue")

	// Logging
	cfg.Log.Level = v.GetString("log_level")
	cfg.Log.Format = v.GetString("log_format")

	// Sentry
	cfg.Sentry.Enabled = v.GetBool("sentry_enabled")
	cfg.Sentry.DSN = v.GetString("sentry_dsn")
	cfg.Sentry.Environment = v.GetString("sentry_environment")
	cfg.Sentry.Release = v.GetString("sentry_release")
	cfg.Sentry.Debug = v.GetBool("sentry_debug")
	cfg.Sentry.SampleRate = v.GetFloat64("sentry_sample_rate")
	cfg.Sentry.TracesSampleRate = v.GetFloat64("sentry_traces_sample_rate")

	// Analysis
	cfg.Analysis.MemberKeys = splitList(v.Get("analysis_member_keys"))
	cfg.Analysis.ClassKeys = splitList(v.Get("analysis_class_keys"))
	cfg.Analysis.SampleClassKeys = splitList(v.Get("analysis_sample_class_keys"))
	if err := v.UnmarshalKey("analysis_exclusions", &cfg.Analysis.Exclusions); err != nil {
		return nil, fmt.Errorf("failed to parse analysis_exclusions: %w", err)
	}

	// Validate required fields
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", 8080)
	v.SetDefault("server_env", "development")
	v.SetDefault("server_body_limit", 16*1024*1024)

	// PostgreSQL defaults
	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_user", "canvasprint")
	v.SetDefault("postgres_password", "canvasprint")
	v.SetDefault("postgres_db", "canvasprint")
	v.SetDefault("postgres_ssl_mode", "disable")
	v.SetDefault("postgres_max_conns", 25)
	v.SetDefault("postgres_min_conns", 2)

	// Redis defaults
	v.SetDefault("redis_host", "localhost")
	v.SetDefault("redis_port", 6379)
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)

	// MinIO defaults
	v.SetDefault("minio_endpoint", "")
	v.SetDefault("minio_access_key", "canvasprint")
	v.SetDefault("minio_secret_key", "canvasprint123")
	v.SetDefault("minio_use_ssl", false)
	v.SetDefault("minio_bucket", "canvasprint-reports")

	// Auth defaults
	v.SetDefault("jwt_secret", defaultJWTSecret)
	v.SetDefault("jwt_issuer", "canvasprint")

	// Rate limiting defaults
	v.SetDefault("rate_limit_enabled", true)
	v.SetDefault("rate_limit_max", 120)
	v.SetDefault("rate_limit_window", time.Minute)

	// Worker defaults
	v.SetDefault("worker_concurrency", 4)
	v.SetDefault("worker_queue", "default")

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	// Sentry defaults
	v.SetDefault("sentry_enabled", false)
	v.SetDefault("sentry_sample_rate", 1.0)
	v.SetDefault("sentry_traces_sample_rate", 0.1)

	// Analysis defaults
	v.SetDefault("analysis_member_keys", "graphics_card")
	v.SetDefault("analysis_class_keys", "graphics_card,browser")
	v.SetDefault("analysis_sample_class_keys", "browser,graphics_card")
	v.SetDefault("analysis_exclusions", []map[string]any{
		{
			"name":               "blank-webfonts",
			"experiment_pattern": "webfont",
			"apply_to_samples":   true,
			"keys":               knownBadWebfontSamples,
		},
	})
}

// splitList accepts either a YAML list or a comma separated string.
func splitList(raw any) []string {
	var parts []string
	switch val := raw.(type) {
	case nil:
		return nil
	case string:
		parts = strings.Split(val, ",")
	case []string:
		parts = val
	case []any:
		for _, p := range val {
			parts = append(parts, fmt.Sprint(p))
		}
	default:
		parts = strings.Split(fmt.Sprint(val), ",")
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func validate(cfg *Config) error {
	if cfg.Auth.JWTSecret == defaultJWTSecret && cfg.IsProduction() {
		return fmt.Errorf("JWT secret must be changed in production")
	}
	if len(cfg.Analysis.MemberKeys) == 0 || len(cfg.Analysis.ClassKeys) == 0 || len(cfg.Analysis.SampleClassKeys) == 0 {
		return fmt.Errorf("analysis sort keys must not be empty")
	}
	for _, rule := range cfg.Analysis.Exclusions {
		if rule.ExperimentPattern == "" {
			continue
		}
		if _, err := regexp.Compile(rule.ExperimentPattern); err != nil {
			return fmt.Errorf("exclusion rule %q: invalid experiment_pattern: %w", rule.Name, err)
		}
	}
	return nil
}
