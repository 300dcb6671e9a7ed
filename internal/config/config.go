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
	Server     ServerConfig
	DB         DBConfig
	Tx         TxConfig
	Session    SessionConfig
	Extraction ExtractionConfig
	Storage    StorageConfig
	S3         S3Config
	Log        LogConfig
	CORS       CORSConfig
	Email      EmailConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// IsProduction reports whether the server runs in production mode.
func (s *ServerConfig) IsProduction() bool {
	return s.Environment == "production"
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

// TxConfig bounds write transactions.
type TxConfig struct {
	LockWait time.Duration `mapstructure:"lock_wait"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// SessionConfig holds cookie session settings.
type SessionConfig struct {
	TTL        time.Duration `mapstructure:"ttl"`
	CookieName string        `mapstructure:"cookie_name"`
	Secure     bool          `mapstructure:"secure"`
}

// ExtractionConfig holds the vision model settings used to read bill images.
type ExtractionConfig struct {
	Provider    string `mapstructure:"provider"`
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
	MaxImageMB  int64  `mapstructure:"max_image_mb"`
	TempDir     string `mapstructure:"temp_dir"`
}

// StorageConfig toggles archiving of scanned images.
type StorageConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// Load reads configuration from environment variables with the BILLDESK_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BILLDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "90s")
	v.SetDefault("server.environment", "development")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "billdesk")
	v.SetDefault("db.password", "billdesk_secret")
	v.SetDefault("db.name", "billdesk")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	v.SetDefault("tx.lock_wait", "5s")
	v.SetDefault("tx.timeout", "10s")

	v.SetDefault("session.ttl", "168h")
	v.SetDefault("session.cookie_name", "bill_session")
	v.SetDefault("session.secure", false)

	v.SetDefault("extraction.provider", "gemini")
	v.SetDefault("extraction.api_key", "")
	v.SetDefault("extraction.model", "")
	v.SetDefault("extraction.timeout_secs", 60)
	v.SetDefault("extraction.max_image_mb", 10)
	v.SetDefault("extraction.temp_dir", "")

	v.SetDefault("storage.enabled", false)

	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "billdesk-scans")
	v.SetDefault("s3.endpoint", "")

	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "noreply@billdesk.local")
	v.SetDefault("email.from_name", "Billdesk")
	v.SetDefault("email.frontend_url", "http://localhost:3000")

	envBindings := map[string]string{
		"server.port":             "BILLDESK_SERVER_PORT",
		"server.read_timeout":     "BILLDESK_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "BILLDESK_SERVER_WRITE_TIMEOUT",
		"server.environment":      "BILLDESK_SERVER_ENVIRONMENT",
		"db.host":                 "BILLDESK_DB_HOST",
		"db.port":                 "BILLDESK_DB_PORT",
		"db.user":                 "BILLDESK_DB_USER",
		"db.password":             "BILLDESK_DB_PASSWORD",
		"db.name":                 "BILLDESK_DB_NAME",
		"db.sslmode":              "BILLDESK_DB_SSLMODE",
		"db.max_open":             "BILLDESK_DB_MAX_OPEN",
		"db.max_idle":             "BILLDESK_DB_MAX_IDLE",
		"tx.lock_wait":            "BILLDESK_TX_LOCK_WAIT",
		"tx.timeout":              "BILLDESK_TX_TIMEOUT",
		"session.ttl":             "BILLDESK_SESSION_TTL",
		"session.cookie_name":     "BILLDESK_SESSION_COOKIE_NAME",
		"session.secure":          "BILLDESK_SESSION_SECURE",
		"extraction.provider":     "BILLDESK_EXTRACTION_PROVIDER",
		"extraction.api_key":      "BILLDESK_EXTRACTION_API_KEY",
		"extraction.model":        "BILLDESK_EXTRACTION_MODEL",
		"extraction.timeout_secs": "BILLDESK_EXTRACTION_TIMEOUT_SECS",
		"extraction.max_image_mb": "BILLDESK_EXTRACTION_MAX_IMAGE_MB",
		"extraction.temp_dir":     "BILLDESK_EXTRACTION_TEMP_DIR",
		"storage.enabled":         "BILLDESK_STORAGE_ENABLED",
		"s3.region":               "BILLDESK_S3_REGION",
		"s3.bucket":               "BILLDESK_S3_BUCKET",
		"s3.endpoint":             "BILLDESK_S3_ENDPOINT",
		"s3.access_key":           "BILLDESK_S3_ACCESS_KEY",
		"s3.secret_key":           "BILLDESK_S3_SECRET_KEY",
		"log.level":               "BILLDESK_LOG_LEVEL",
		"log.format":              "BILLDESK_LOG_FORMAT",
		"cors.allowed_origins":    "BILLDESK_CORS_ALLOWED_ORIGINS",
		"email.provider":          "BILLDESK_EMAIL_PROVIDER",
		"email.region":            "BILLDESK_EMAIL_REGION",
		"email.from_address":      "BILLDESK_EMAIL_FROM_ADDRESS",
		"email.from_name":         "BILLDESK_EMAIL_FROM_NAME",
		"email.frontend_url":      "BILLDESK_EMAIL_FRONTEND_URL",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set PORT. Use it unless BILLDESK_SERVER_PORT is explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("BILLDESK_SERVER_PORT") == "" {
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
	cfg.Tx = TxConfig{
		LockWait: v.GetDuration("tx.lock_wait"),
		Timeout:  v.GetDuration("tx.timeout"),
	}
	cfg.Session = SessionConfig{
		TTL:        v.GetDuration("session.ttl"),
		CookieName: v.GetString("session.cookie_name"),
		Secure:     v.GetBool("session.secure") || cfg.Server.IsProduction(),
	}
	cfg.Extraction = ExtractionConfig{
		Provider:    v.GetString("extraction.provider"),
		APIKey:      v.GetString("extraction.api_key"),
		Model:       v.GetString("extraction.model"),
		TimeoutSecs: v.GetInt("extraction.timeout_secs"),
		MaxImageMB:  v.GetInt64("extraction.max_image_mb"),
		TempDir:     v.GetString("extraction.temp_dir"),
	}
	cfg.Storage = StorageConfig{
		Enabled: v.GetBool("storage.enabled"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		FrontendURL: v.GetString("email.frontend_url"),
	}

	if cfg.Tx.Timeout <= 0 {
		return nil, fmt.Errorf("tx.timeout must be positive, got %s", cfg.Tx.Timeout)
	}
	if cfg.Session.TTL <= 0 {
		return nil, fmt.Errorf("session.ttl must be positive, got %s", cfg.Session.TTL)
	}

	return cfg, nil
}
