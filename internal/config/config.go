package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `env:",prefix=SERVER_"`

	// Database configuration
	Database DatabaseConfig `env:",prefix=DB_"`

	// Application configuration
	App AppConfig `env:",prefix=APP_"`

	// Auth configuration for the admin area
	Auth AuthConfig `env:",prefix=AUTH_"`

	// Claim configuration for the public claim flow
	Claim ClaimConfig `env:",prefix=CLAIM_"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port         string `env:"PORT,default=8080"`
	Host         string `env:"HOST,default=0.0.0.0"`
	ReadTimeout  int    `env:"READ_TIMEOUT,default=30"`  // seconds
	WriteTimeout int    `env:"WRITE_TIMEOUT,default=30"` // seconds
	CORSOrigins  string `env:"CORS_ORIGINS,default=*"`
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host          string `env:"HOST,default=localhost"`
	Port          string `env:"PORT,default=5432"`
	User          string `env:"USER,default=postgres"`
	Password      string `env:"PASSWORD,default=postgres"`
	Name          string `env:"NAME,default=coupondrop"`
	SSLMode       string `env:"SSL_MODE,default=disable"`
	MaxConns      int    `env:"MAX_CONNS,default=25"`
	MinConns      int    `env:"MIN_CONNS,default=5"`
	MigrationsDir string `env:"MIGRATIONS_DIR,default=migrations"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	Debug       bool   `env:"DEBUG,default=false"`
}

// AuthConfig holds admin authentication configuration. The seed admin is
// created at startup only when the admin_users table is empty.
type AuthConfig struct {
	JWTSecret     string `env:"JWT_SECRET,default=dev-only-insecure-secret"`
	TokenTTLHours int    `env:"TOKEN_TTL_HOURS,default=2"`
	AdminUsername string `env:"ADMIN_USERNAME,default=admin"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	SecureCookies bool   `env:"SECURE_COOKIES,default=false"`
}

// ClaimConfig holds knobs for the public claim flow.
type ClaimConfig struct {
	// DefaultExpiryDays is used when an admin creates a coupon without an
	// explicit expiry.
	DefaultExpiryDays int `env:"DEFAULT_EXPIRY_DAYS,default=7"`
	// CodeLength is the generated coupon code length.
	CodeLength int `env:"CODE_LENGTH,default=10"`
	// IPRatePerMinute bounds claim attempts per client IP, independent of
	// the per-session one-hour window.
	IPRatePerMinute int `env:"IP_RATE_PER_MINUTE,default=10"`
	IPRateBurst     int `env:"IP_RATE_BURST,default=5"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	return &cfg, nil
}

// GetDatabaseURL returns the PostgreSQL connection URL
func (c *DatabaseConfig) GetDatabaseURL() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDevelopment returns true if running in development environment
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production environment
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}
