// Package config loads server settings with viper. Values come from, in
// increasing precedence: built-in defaults, hireflow.yaml, and environment
// variables (HIREFLOW_* or the bare names the deployment already uses).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends
const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

// Config holds all configuration values for the server.
type Config struct {
	Port            string        `mapstructure:"port"`
	Storage         string        `mapstructure:"storage"`
	MongoURI        string        `mapstructure:"mongo_uri"`
	MongoDB         string        `mapstructure:"mongo_db"`
	RedisURI        string        `mapstructure:"redis_uri"`
	JWTSecret       string        `mapstructure:"jwt_secret"`
	TokenTTL        time.Duration `mapstructure:"token_ttl"`
	RememberTTL     time.Duration `mapstructure:"remember_ttl"`
	ApplicantTTL    time.Duration `mapstructure:"applicant_ttl"`
	OTPTTL          time.Duration `mapstructure:"otp_ttl"`
	OTPMaxAttempts  int           `mapstructure:"otp_max_attempts"`
	WizardTTL       time.Duration `mapstructure:"wizard_ttl"`
	CallTTL         time.Duration `mapstructure:"call_ttl"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	PublicURL       string        `mapstructure:"public_url"`
	FormProperties  string        `mapstructure:"form_properties"` // optional YAML catalogue
	LogOTPCodes     bool          `mapstructure:"log_otp_codes"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
}

// envNames lists, per key, the variables consulted in order.
var envNames = map[string][]string{
	"port":             {"HIREFLOW_PORT", "PORT"},
	"storage":          {"HIREFLOW_STORAGE", "STORAGE"},
	"mongo_uri":        {"HIREFLOW_MONGO_URI", "MONGO_URI"},
	"mongo_db":         {"HIREFLOW_MONGO_DB", "MONGO_DB"},
	"redis_uri":        {"HIREFLOW_REDIS_URI", "REDIS_URI"},
	"jwt_secret":       {"HIREFLOW_JWT_SECRET", "JWT_SECRET"},
	"token_ttl":        {"HIREFLOW_TOKEN_TTL"},
	"remember_ttl":     {"HIREFLOW_REMEMBER_TTL"},
	"applicant_ttl":    {"HIREFLOW_APPLICANT_TTL"},
	"otp_ttl":          {"HIREFLOW_OTP_TTL"},
	"otp_max_attempts": {"HIREFLOW_OTP_MAX_ATTEMPTS"},
	"wizard_ttl":       {"HIREFLOW_WIZARD_TTL"},
	"call_ttl":         {"HIREFLOW_CALL_TTL"},
	"allowed_origins":  {"HIREFLOW_ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
	"public_url":       {"HIREFLOW_PUBLIC_URL", "PUBLIC_URL"},
	"form_properties":  {"HIREFLOW_FORM_PROPERTIES"},
	"log_otp_codes":    {"HIREFLOW_LOG_OTP_CODES"},
	"shutdown_timeout": {"HIREFLOW_SHUTDOWN_TIMEOUT"},

	"read_header_timeout": {"HIREFLOW_READ_HEADER_TIMEOUT"},
	"read_timeout":        {"HIREFLOW_READ_TIMEOUT"},
	"write_timeout":       {"HIREFLOW_WRITE_TIMEOUT"},
	"idle_timeout":        {"HIREFLOW_IDLE_TIMEOUT"},
}

const devSecret = "super-secret-key-change-in-production"

// Load reads .env (if present), hireflow.yaml (if present) and the
// environment. configFile overrides the default yaml location.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("port", "8080")
	v.SetDefault("storage", StorageMongo)
	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("mongo_db", "hireflow")
	v.SetDefault("redis_uri", "localhost:6379")
	v.SetDefault("jwt_secret", devSecret)
	v.SetDefault("token_ttl", 24*time.Hour)
	v.SetDefault("remember_ttl", 30*24*time.Hour)
	v.SetDefault("applicant_ttl", 4*time.Hour)
	v.SetDefault("otp_ttl", 5*time.Minute)
	v.SetDefault("otp_max_attempts", 5)
	v.SetDefault("wizard_ttl", 24*time.Hour)
	v.SetDefault("call_ttl", 4*time.Hour)
	v.SetDefault("allowed_origins", []string{"*"})
	v.SetDefault("public_url", "http://localhost:3000")
	v.SetDefault("form_properties", "")
	v.SetDefault("log_otp_codes", false)
	v.SetDefault("read_header_timeout", 5*time.Second)
	v.SetDefault("read_timeout", 15*time.Second)
	v.SetDefault("write_timeout", 30*time.Second)
	v.SetDefault("idle_timeout", 2*time.Minute)
	v.SetDefault("shutdown_timeout", 30*time.Second)

	for key, names := range envNames {
		args := append([]string{key}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	path := configFile
	if path == "" {
		path = "hireflow.yaml"
	}
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else if configFile != "" {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.RedisURI = strings.TrimPrefix(c.RedisURI, "redis://")
	c.Storage = strings.ToLower(strings.TrimSpace(c.Storage))
	c.PublicURL = strings.TrimRight(c.PublicURL, "/")

	// A comma-separated env value arrives as a single element.
	var origins []string
	for _, o := range c.AllowedOrigins {
		for _, part := range strings.Split(o, ",") {
			if part = strings.TrimSpace(part); part != "" {
				origins = append(origins, part)
			}
		}
	}
	c.AllowedOrigins = origins
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Storage != StorageMongo && c.Storage != StorageMemory {
		return fmt.Errorf("storage must be %q or %q, got %q", StorageMongo, StorageMemory, c.Storage)
	}
	if c.JWTSecret == "" {
		return errors.New("jwt_secret must not be empty")
	}
	if c.OTPMaxAttempts <= 0 {
		return errors.New("otp_max_attempts must be positive")
	}
	if c.ReadHeaderTimeout < 0 || c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.IdleTimeout < 0 {
		return errors.New("server timeouts must not be negative")
	}
	return nil
}

// ShowsOTPCodes reports whether login codes may be written to the log.
// In-memory storage is development-only, so it always does.
func (c *Config) ShowsOTPCodes() bool {
	return c.Storage == StorageMemory || c.LogOTPCodes
}

// UsingDevSecret reports whether the built-in JWT secret is in use.
func (c *Config) UsingDevSecret() bool {
	return c.JWTSecret == devSecret
}
