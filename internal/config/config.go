package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	S3      S3Config
	Log     LogConfig
	CORS    CORSConfig
	Extract ExtractConfig
	Review  ReviewConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds settings for the archive of original uploads. Archiving is
// skipped when Enabled is false.
type S3Config struct {
	Enabled       bool   `mapstructure:"enabled"`
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
	UploadRetries uint   `mapstructure:"upload_retries"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ExtractConfig holds text extraction limits.
type ExtractConfig struct {
	MinTextChars  int   `mapstructure:"min_text_chars"`
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// MaxFileSizeBytes returns the upload ceiling in bytes.
func (e *ExtractConfig) MaxFileSizeBytes() int64 {
	return e.MaxFileSizeMB * 1024 * 1024
}

// ReviewConfig holds review session settings and the confidence policy.
type ReviewConfig struct {
	AutosaveDebounce     time.Duration `mapstructure:"autosave_debounce"`
	MaxSnapshots         int           `mapstructure:"max_snapshots"`
	ReviewThreshold      float64       `mapstructure:"review_threshold"`
	QuickAcceptThreshold float64       `mapstructure:"quick_accept_threshold"`
	IdleTTL              time.Duration `mapstructure:"idle_ttl"`
	ReapInterval         time.Duration `mapstructure:"reap_interval"`
}

// Load reads configuration from environment variables with the RESUMEPARSE_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RESUMEPARSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "resumeparse")
	v.SetDefault("db.password", "resumeparse_secret")
	v.SetDefault("db.name", "resumeparse_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "resumeparse-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)
	v.SetDefault("s3.upload_retries", 3)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Extraction defaults
	v.SetDefault("extract.min_text_chars", 50)
	v.SetDefault("extract.max_file_size_mb", 10)

	// Review defaults
	v.SetDefault("review.autosave_debounce", "2s")
	v.SetDefault("review.max_snapshots", 10)
	v.SetDefault("review.review_threshold", 0.7)
	v.SetDefault("review.quick_accept_threshold", 0.8)
	v.SetDefault("review.idle_ttl", "30m")
	v.SetDefault("review.reap_interval", "1m")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                   "RESUMEPARSE_SERVER_PORT",
		"server.read_timeout":           "RESUMEPARSE_SERVER_READ_TIMEOUT",
		"server.write_timeout":          "RESUMEPARSE_SERVER_WRITE_TIMEOUT",
		"server.environment":            "RESUMEPARSE_SERVER_ENVIRONMENT",
		"db.host":                       "RESUMEPARSE_DB_HOST",
		"db.port":                       "RESUMEPARSE_DB_PORT",
		"db.user":                       "RESUMEPARSE_DB_USER",
		"db.password":                   "RESUMEPARSE_DB_PASSWORD",
		"db.name":                       "RESUMEPARSE_DB_NAME",
		"db.sslmode":                    "RESUMEPARSE_DB_SSLMODE",
		"db.max_open":                   "RESUMEPARSE_DB_MAX_OPEN",
		"db.max_idle":                   "RESUMEPARSE_DB_MAX_IDLE",
		"s3.enabled":                    "RESUMEPARSE_S3_ENABLED",
		"s3.region":                     "RESUMEPARSE_S3_REGION",
		"s3.bucket":                     "RESUMEPARSE_S3_BUCKET",
		"s3.endpoint":                   "RESUMEPARSE_S3_ENDPOINT",
		"s3.access_key":                 "RESUMEPARSE_S3_ACCESS_KEY",
		"s3.secret_key":                 "RESUMEPARSE_S3_SECRET_KEY",
		"s3.presign_expiry":             "RESUMEPARSE_S3_PRESIGN_EXPIRY",
		"s3.upload_retries":             "RESUMEPARSE_S3_UPLOAD_RETRIES",
		"log.level":                     "RESUMEPARSE_LOG_LEVEL",
		"log.format":                    "RESUMEPARSE_LOG_FORMAT",
		"cors.allowed_origins":          "RESUMEPARSE_CORS_ALLOWED_ORIGINS",
		"extract.min_text_chars":        "RESUMEPARSE_EXTRACT_MIN_TEXT_CHARS",
		"extract.max_file_size_mb":      "RESUMEPARSE_EXTRACT_MAX_FILE_SIZE_MB",
		"review.autosave_debounce":      "RESUMEPARSE_REVIEW_AUTOSAVE_DEBOUNCE",
		"review.max_snapshots":          "RESUMEPARSE_REVIEW_MAX_SNAPSHOTS",
		"review.review_threshold":       "RESUMEPARSE_REVIEW_REVIEW_THRESHOLD",
		"review.quick_accept_threshold": "RESUMEPARSE_REVIEW_QUICK_ACCEPT_THRESHOLD",
		"review.idle_ttl":               "RESUMEPARSE_REVIEW_IDLE_TTL",
		"review.reap_interval":          "RESUMEPARSE_REVIEW_REAP_INTERVAL",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if RESUMEPARSE_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("RESUMEPARSE_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Enabled:       v.GetBool("s3.enabled"),
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
		UploadRetries: v.GetUint("s3.upload_retries"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}
	cfg.Extract = ExtractConfig{
		MinTextChars:  v.GetInt("extract.min_text_chars"),
		MaxFileSizeMB: v.GetInt64("extract.max_file_size_mb"),
	}
	cfg.Review = ReviewConfig{
		AutosaveDebounce:     v.GetDuration("review.autosave_debounce"),
		MaxSnapshots:         v.GetInt("review.max_snapshots"),
		ReviewThreshold:      v.GetFloat64("review.review_threshold"),
		QuickAcceptThreshold: v.GetFloat64("review.quick_accept_threshold"),
		IdleTTL:              v.GetDuration("review.idle_ttl"),
		ReapInterval:         v.GetDuration("review.reap_interval"),
	}

	if cfg.Review.ReviewThreshold > cfg.Review.QuickAcceptThreshold {
		return nil, fmt.Errorf("review threshold %.2f exceeds quick accept threshold %.2f",
			cfg.Review.ReviewThreshold, cfg.Review.QuickAcceptThreshold)
	}

	return cfg, nil
}
