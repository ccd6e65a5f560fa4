package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Environment        string
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	RequestTimeout     time.Duration

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	JWTSecret string
	// Token lifetimes per class. Signup issues a single fixed-lifetime
	// token; login picks between the session and remember-me lifetimes.
	SignupTokenTTL  time.Duration
	SessionTTL      time.Duration
	RememberMeTTL   time.Duration
	BcryptCost      int
	MinPasswordLen  int
	MinShopsPerUser int

	CookieName string
	// CookieDomain is set to the parent domain in development so sibling
	// subdomains share the session cookie. Empty means host-default.
	CookieDomain string

	// TenantBaseHost is the host suffix carrying shop subdomains in
	// development (e.g. "localhost:3000"). TenantApexDomain is the
	// production apex; TenantPlatformDomain is the hosting provider's
	// default domain, which never carries shop subdomains.
	TenantBaseHost       string
	TenantApexDomain     string
	TenantPlatformDomain string

	CORSOrigins      []string
	RateLimitRPM     int
	AuthRateLimitRPM int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment:        getEnv("APP_ENV", EnvDevelopment),
		ServerPort:         getEnv("SERVER_PORT", "8000"),
		ServerReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		ServerWriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:     getDuration("REQUEST_TIMEOUT", 30*time.Second),

		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:  int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:  int32(getInt("DB_MIN_CONNS", 2)),

		JWTSecret:       strings.TrimSpace(os.Getenv("JWT_SECRET")),
		SignupTokenTTL:  getDuration("SIGNUP_TOKEN_TTL", 24*time.Hour),
		SessionTTL:      getDuration("SESSION_TTL", 30*time.Minute),
		RememberMeTTL:   getDuration("REMEMBER_ME_TTL", 168*time.Hour),
		BcryptCost:      getInt("BCRYPT_COST", 10),
		MinPasswordLen:  getInt("MIN_PASSWORD_LEN", 8),
		MinShopsPerUser: getInt("MIN_SHOPS_PER_USER", 3),

		CookieName:   getEnv("COOKIE_NAME", "access_token"),
		CookieDomain: getEnv("COOKIE_DOMAIN", ""),

		TenantBaseHost:       getEnv("TENANT_BASE_HOST", "localhost:3000"),
		TenantApexDomain:     getEnv("TENANT_APEX_DOMAIN", ""),
		TenantPlatformDomain: getEnv("TENANT_PLATFORM_DOMAIN", "vercel.app"),

		CORSOrigins:      splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		RateLimitRPM:     getInt("RATE_LIMIT_RPM", 100),
		AuthRateLimitRPM: getInt("AUTH_RATE_LIMIT_RPM", 10),
	}

	if cfg.CookieDomain == "" && !cfg.IsProduction() {
		// Shared across shop subdomains in local development only.
		cfg.CookieDomain = ".localhost"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Environment != EnvDevelopment && c.Environment != EnvProduction {
		return fmt.Errorf("APP_ENV must be %q or %q", EnvDevelopment, EnvProduction)
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.SignupTokenTTL <= 0 || c.SessionTTL <= 0 || c.RememberMeTTL <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}

	if c.RememberMeTTL <= c.SessionTTL {
		return fmt.Errorf("REMEMBER_ME_TTL must exceed SESSION_TTL")
	}

	if c.MinShopsPerUser < 1 {
		return fmt.Errorf("MIN_SHOPS_PER_USER must be at least 1")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
