// Package config loads and validates environment variables at startup.
// Fail-fast: a missing required variable stops the process.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the jobs service.
type Config struct {
	Port             string
	GRPCPort         string
	DatabaseURL      string
	DBMaxConns       int32
	RedisURL         string // empty disables event publishing
	SecretKey        string
	BcryptWorkFactor int
	TokenTTL         time.Duration // 0 issues non-expiring tokens
	HealthInterval   time.Duration
	AutoMigrate      bool
}

// Load reads an optional .env file, then the environment, and returns a
// validated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var errs []error
	cfg := &Config{
		Port:             getEnv("PORT", "3001"),
		GRPCPort:         getEnv("GRPC_PORT", "9091"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		DBMaxConns:       int32(getInt("DB_MAX_CONNS", 10, &errs)),
		RedisURL:         os.Getenv("REDIS_URL"),
		SecretKey:        os.Getenv("SECRET_KEY"),
		BcryptWorkFactor: getInt("BCRYPT_WORK_FACTOR", 12, &errs),
		TokenTTL:         getDuration("TOKEN_TTL", 0, &errs),
		HealthInterval:   getDuration("HEALTH_INTERVAL", 30*time.Second, &errs),
		AutoMigrate:      getBool("AUTO_MIGRATE", false, &errs),
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required values and ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.SecretKey == "" {
		errs = append(errs, errors.New("SECRET_KEY is required"))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	if c.GRPCPort == c.Port {
		errs = append(errs, fmt.Errorf("GRPC_PORT must differ from PORT (%s)", c.Port))
	}
	// bcrypt accepts costs 4..31.
	if c.BcryptWorkFactor < 4 || c.BcryptWorkFactor > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_WORK_FACTOR must be between 4 and 31, got %d", c.BcryptWorkFactor))
	}
	if c.TokenTTL < 0 {
		errs = append(errs, errors.New("TOKEN_TTL must not be negative"))
	}
	if c.HealthInterval < time.Second {
		errs = append(errs, fmt.Errorf("HEALTH_INTERVAL must be at least 1s, got %s", c.HealthInterval))
	}
	if c.DBMaxConns < 1 {
		errs = append(errs, fmt.Errorf("DB_MAX_CONNS must be a positive integer, got %d", c.DBMaxConns))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int, errs *[]error) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be an integer, got %q", key, s))
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be a duration, got %q", key, s))
		return fallback
	}
	return v
}

func getBool(key string, fallback bool, errs *[]error) bool {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be a boolean, got %q", key, s))
		return fallback
	}
	return v
}
