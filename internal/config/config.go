package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	Activity ActivityConfig
}

type DatabaseConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	Name              string
	SSLMode           string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	LoginRateLimit int // login requests per minute per client IP
	PingRateLimit  int // presence pings per minute per account
	AllowedOrigins []string
}

type AuthConfig struct {
	SessionSecret          string
	SessionExpiry          time.Duration
	CookieDomain           string
	CookieSecure           bool
	SessionCleanupSchedule string
	AdminEmail             string
	AdminPassword          string
}

// ActivityConfig controls login history bucketing, presence and backfill
type ActivityConfig struct {
	Location              *time.Location
	NormalizationDays     int
	PresenceWindow        time.Duration
	PresenceSweepSchedule string
	BackfillDaysBack      int
	BackfillMinPerDay     int
	BackfillMaxPerDay     int
	BackfillSuspicious    bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	sessionSecret := getEnv("SESSION_SECRET", "")
	if sessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}

	env := getEnv("ENV", "development")

	tzName := getEnv("ACTIVITY_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid ACTIVITY_TIMEZONE %q: %w", tzName, err)
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvAsInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", ""),
			Name:              getEnv("DB_NAME", "loginwatch"),
			SSLMode:           getEnv("DB_SSLMODE", "disable"),
			MaxConns:          int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns:          int32(getEnvAsInt("DB_MIN_CONNS", 5)),
			MaxConnLifetime:   getEnvAsDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
			MaxConnIdleTime:   getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 1*time.Minute),
			HealthCheckPeriod: getEnvAsDuration("DB_HEALTH_CHECK_PERIOD", 1*time.Minute),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Env:            env,
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			LoginRateLimit: getEnvAsInt("LOGIN_RATE_LIMIT", 5),
			PingRateLimit:  getEnvAsInt("PING_RATE_LIMIT", 120),
			AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS", nil),
		},
		Auth: AuthConfig{
			SessionSecret:          sessionSecret,
			SessionExpiry:          getEnvAsDuration("SESSION_EXPIRY", 7*24*time.Hour),
			CookieDomain:           getEnv("COOKIE_DOMAIN", ""),
			CookieSecure:           getEnvAsBool("COOKIE_SECURE", env == "production"),
			SessionCleanupSchedule: getEnv("SESSION_CLEANUP_SCHEDULE", "@every 1h"),
			AdminEmail:             getEnv("ADMIN_EMAIL", ""),
			AdminPassword:          getEnv("ADMIN_PASSWORD", ""),
		},
		Activity: ActivityConfig{
			Location:              loc,
			NormalizationDays:     getEnvAsInt("ACTIVITY_NORMALIZATION_DAYS", 30),
			PresenceWindow:        getEnvAsDuration("PRESENCE_WINDOW", 5*time.Second),
			PresenceSweepSchedule: getEnv("PRESENCE_SWEEP_SCHEDULE", "@every 1m"),
			BackfillDaysBack:      getEnvAsInt("BACKFILL_DAYS_BACK", 30),
			BackfillMinPerDay:     getEnvAsInt("BACKFILL_MIN_PER_DAY", 0),
			BackfillMaxPerDay:     getEnvAsInt("BACKFILL_MAX_PER_DAY", 3),
			BackfillSuspicious:    getEnvAsBool("BACKFILL_SUSPICIOUS", false),
		},
	}

	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	if err := validateSessionSecret(sessionSecret, env); err != nil {
		return nil, err
	}

	if err := cfg.Activity.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (a *ActivityConfig) validate() error {
	if a.NormalizationDays < 1 {
		return fmt.Errorf("ACTIVITY_NORMALIZATION_DAYS must be at least 1 (got %d)", a.NormalizationDays)
	}
	if a.PresenceWindow <= 0 {
		return fmt.Errorf("PRESENCE_WINDOW must be positive (got %s)", a.PresenceWindow)
	}
	if a.BackfillDaysBack < 1 {
		return fmt.Errorf("BACKFILL_DAYS_BACK must be at least 1 (got %d)", a.BackfillDaysBack)
	}
	if a.BackfillMinPerDay < 0 || a.BackfillMaxPerDay < a.BackfillMinPerDay {
		return fmt.Errorf("BACKFILL_MIN_PER_DAY/BACKFILL_MAX_PER_DAY must satisfy 0 <= min <= max (got %d, %d)",
			a.BackfillMinPerDay, a.BackfillMaxPerDay)
	}
	return nil
}

// validateSessionSecret enforces minimum strength for the session signing secret
func validateSessionSecret(secret, env string) error {
	minLength := 16
	if env == "production" {
		minLength = 32
	}

	if len(secret) < minLength {
		return fmt.Errorf("SESSION_SECRET must be at least %d characters in %s environment (got %d)",
			minLength, env, len(secret))
	}

	weakSecrets := []string{
		"secret", "test", "password", "12345", "changeme",
		"admin", "root", "default", "example",
	}

	secretLower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if secretLower == weak {
			return fmt.Errorf("SESSION_SECRET cannot be a common weak value")
		}
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

// getEnvAsSlice splits a comma-separated variable, dropping empty entries
func getEnvAsSlice(key string, defaultVal []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
