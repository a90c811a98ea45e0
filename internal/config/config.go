package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	AppEnv      string
	LogLevel    string
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Auth        AuthConfig
	RateLimit   RateLimitConfig
	Cache       CacheConfig
	Utilisation UtilisationConfig
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Port        int
	CORSOrigins []string
}

// DatabaseConfig represents the database configuration
type DatabaseConfig struct {
	Driver      string // "postgres" or "sqlite"
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	SQLitePath  string
	LockTimeout time.Duration
}

// RedisConfig is only used when Host is set; otherwise caching stays in-memory.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// AuthConfig holds the shared secret used to verify bearer tokens issued upstream.
type AuthConfig struct {
	JWTSecret string
}

// RateLimitConfig limits booking requests per caller.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type CacheConfig struct {
	RouteTTL time.Duration
}

type UtilisationConfig struct {
	Interval time.Duration
}

// DSN returns the database connection string
func (d *DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.SQLitePath
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// Enabled reports whether a Redis server was configured.
func (r *RedisConfig) Enabled() bool {
	return r.Host != ""
}

func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// Load reads a .env file when one exists and then builds the configuration
// from the environment.
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	lockTimeout, err := getEnvDuration("DB_LOCK_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	routeTTL, err := getEnvDuration("ROUTE_CACHE_TTL", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	interval, err := getEnvDuration("UTILISATION_INTERVAL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	burst, err := getEnvInt("RATE_LIMIT_BURST", 10)
	if err != nil {
		return nil, err
	}
	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: os.Getenv("LOG_LEVEL"),
		Server: ServerConfig{
			Port:        port,
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "https://*,http://localhost:5173")),
		},
		Database: DatabaseConfig{
			Driver:      getEnv("DB_DRIVER", "postgres"),
			Host:        getEnv("PG_HOST", "localhost"),
			Port:        getEnv("PG_PORT", "5432"),
			User:        getEnv("PG_USER", "postgres"),
			Password:    getEnv("PG_PASSWORD", "postgres"),
			Name:        getEnv("PG_DB", "flightdeck"),
			SSLMode:     getEnv("PG_SSLMODE", "disable"),
			SQLitePath:  getEnv("SQLITE_PATH", "flightdeck.db"),
			LockTimeout: lockTimeout,
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
		RateLimit: RateLimitConfig{
			RPS:   rps,
			Burst: burst,
		},
		Cache:       CacheConfig{RouteTTL: routeTTL},
		Utilisation: UtilisationConfig{Interval: interval},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	if c.Database.Driver != "postgres" && c.Database.Driver != "sqlite" {
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Database.LockTimeout <= 0 {
		return fmt.Errorf("DB_LOCK_TIMEOUT must be positive")
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit must be positive")
	}
	if c.Utilisation.Interval <= 0 {
		return fmt.Errorf("UTILISATION_INTERVAL must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
