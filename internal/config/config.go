// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Media backends.
const (
	MediaBackendCloudinary = "cloudinary"
	MediaBackendLocal      = "local"
)

// Identity verifiers for Google login.
const (
	VerifierGoogle   = "google"
	VerifierFirebase = "firebase"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"-"`

	// Database Configuration
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"-"`
	DBAutoMigrate     bool          `mapstructure:"DB_AUTO_MIGRATE"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Auth
	JWTSecretKey                string        `mapstructure:"JWT_SECRET_KEY"`
	JWTAccessTokenExpiryMinutes time.Duration `mapstructure:"-"`
	JWTIssuer                   string        `mapstructure:"JWT_ISSUER"`
	AuthCookieName              string        `mapstructure:"AUTH_COOKIE_NAME"`
	AuthCookieSecure            bool          `mapstructure:"AUTH_COOKIE_SECURE"`
	AuthCookieDomain            string        `mapstructure:"AUTH_COOKIE_DOMAIN"`

	// Google identity
	GoogleClientID string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleVerifier string `mapstructure:"GOOGLE_VERIFIER"`

	// Firebase Configuration
	FirebaseServiceAccountKeyPath string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_KEY_PATH"`
	FirebaseProjectID             string `mapstructure:"FIREBASE_PROJECT_ID"`

	// Elasticsearch Configuration
	ElasticsearchURL        string `mapstructure:"ELASTICSEARCH_URL"`
	ElasticsearchPlotsIndex string `mapstructure:"ELASTICSEARCH_PLOTS_INDEX"`

	// Media
	MediaBackend          string `mapstructure:"MEDIA_BACKEND"`
	CloudinaryURL         string `mapstructure:"CLOUDINARY_URL"`
	CloudinaryCloudName   string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey      string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret   string `mapstructure:"CLOUDINARY_API_SECRET"`
	CloudinaryImageFolder string `mapstructure:"CLOUDINARY_IMAGE_FOLDER"`
	CloudinaryVideoFolder string `mapstructure:"CLOUDINARY_VIDEO_FOLDER"`
	UploadDir             string `mapstructure:"UPLOAD_DIR"`
	UploadPublicPath      string `mapstructure:"UPLOAD_PUBLIC_PATH"`
	UploadMaxBytes        int64  `mapstructure:"UPLOAD_MAX_BYTES"`

	// CORS
	CORSAllowedOrigins      []string `mapstructure:"-"`
	CORSAllowVercelPreviews bool     `mapstructure:"CORS_ALLOW_VERCEL_PREVIEWS"`

	// Cron Jobs
	WishlistPruneSchedule string `mapstructure:"WISHLIST_PRUNE_SCHEDULE"`
}

// DSN returns the postgres connection string built from the DB_* settings.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode, c.DBTimezone)
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Convert duration fields
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute
	cfg.JWTAccessTokenExpiryMinutes = time.Duration(v.GetInt("JWT_ACCESS_TOKEN_EXPIRY_MINUTES")) * time.Minute

	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.MediaBackend = strings.ToLower(strings.TrimSpace(cfg.MediaBackend))
	cfg.GoogleVerifier = strings.ToLower(strings.TrimSpace(cfg.GoogleVerifier))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "5000")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "realty_bureau_db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)
	v.SetDefault("DB_AUTO_MIGRATE", false)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("JWT_SECRET_KEY", "")
	v.SetDefault("JWT_ACCESS_TOKEN_EXPIRY_MINUTES", 24*60)
	v.SetDefault("JWT_ISSUER", "realty_bureau_backend")
	v.SetDefault("AUTH_COOKIE_NAME", "token")
	v.SetDefault("AUTH_COOKIE_SECURE", false)
	v.SetDefault("AUTH_COOKIE_DOMAIN", "")

	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_VERIFIER", VerifierGoogle)
	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FIREBASE_SERVICE_ACCOUNT_KEY_PATH", "")

	// Empty disables the search mirror.
	v.SetDefault("ELASTICSEARCH_URL", "")
	v.SetDefault("ELASTICSEARCH_PLOTS_INDEX", "plots")

	v.SetDefault("MEDIA_BACKEND", MediaBackendLocal)
	v.SetDefault("CLOUDINARY_URL", "")
	v.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	v.SetDefault("CLOUDINARY_API_KEY", "")
	v.SetDefault("CLOUDINARY_API_SECRET", "")
	v.SetDefault("CLOUDINARY_IMAGE_FOLDER", "realty-images")
	v.SetDefault("CLOUDINARY_VIDEO_FOLDER", "realty-videos")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("UPLOAD_PUBLIC_PATH", "/uploads")
	v.SetDefault("UPLOAD_MAX_BYTES", 100<<20)

	v.SetDefault("CORS_ALLOWED_ORIGINS", "https://www.realtybureau.in,http://localhost:5173")
	v.SetDefault("CORS_ALLOW_VERCEL_PREVIEWS", true)

	v.SetDefault("WISHLIST_PRUNE_SCHEDULE", "@daily")
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.JWTSecretKey) == "" {
		return fmt.Errorf("FATAL: JWT_SECRET_KEY is not set")
	}
	if c.IsRelease() && len(c.JWTSecretKey) < 32 {
		return fmt.Errorf("FATAL: JWT_SECRET_KEY must be at least 32 bytes in release mode")
	}
	if c.JWTAccessTokenExpiryMinutes <= 0 {
		return fmt.Errorf("FATAL: JWT_ACCESS_TOKEN_EXPIRY_MINUTES must be positive")
	}

	switch c.GoogleVerifier {
	case VerifierGoogle:
	case VerifierFirebase:
		if strings.TrimSpace(c.FirebaseServiceAccountKeyPath) == "" {
			return fmt.Errorf("FATAL: FIREBASE_SERVICE_ACCOUNT_KEY_PATH is required when GOOGLE_VERIFIER=firebase")
		}
		if _, err := os.Stat(c.FirebaseServiceAccountKeyPath); os.IsNotExist(err) {
			return fmt.Errorf("FATAL: Firebase service account key file specified in FIREBASE_SERVICE_ACCOUNT_KEY_PATH (%s) not found", c.FirebaseServiceAccountKeyPath)
		}
	default:
		return fmt.Errorf("FATAL: unknown GOOGLE_VERIFIER %q (want %q or %q)", c.GoogleVerifier, VerifierGoogle, VerifierFirebase)
	}

	switch c.MediaBackend {
	case MediaBackendLocal:
	case MediaBackendCloudinary:
		if c.CloudinaryURL == "" && (c.CloudinaryCloudName == "" || c.CloudinaryAPIKey == "" || c.CloudinaryAPISecret == "") {
			return fmt.Errorf("FATAL: MEDIA_BACKEND=cloudinary requires CLOUDINARY_URL or CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET")
		}
	default:
		return fmt.Errorf("FATAL: unknown MEDIA_BACKEND %q", c.MediaBackend)
	}

	if c.UploadMaxBytes <= 0 {
		return fmt.Errorf("FATAL: UPLOAD_MAX_BYTES must be positive")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
