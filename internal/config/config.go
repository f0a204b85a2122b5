package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/clinic/clinic/internal/platform/middleware"
)

// DateLayout is the format of SEED_START_DATE.
const DateLayout = "2006-01-02"

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	LogLevel    string   `mapstructure:"LOG_LEVEL"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	BodyLimit      string        `mapstructure:"BODY_LIMIT"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	RateLimitRPS   float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int           `mapstructure:"RATE_LIMIT_BURST"`
	MetricsEnabled bool          `mapstructure:"METRICS_ENABLED"`

	Seed               int64  `mapstructure:"SEED"`
	SeedDoctors        int    `mapstructure:"SEED_DOCTORS"`
	SeedPatients       int    `mapstructure:"SEED_PATIENTS"`
	SeedVisits         int    `mapstructure:"SEED_VISITS"`
	SeedMedicines      int    `mapstructure:"SEED_MEDICINES"`
	SeedRooms          int    `mapstructure:"SEED_ROOMS"`
	SeedDoctorRefs     int    `mapstructure:"SEED_DOCTOR_REF_RANGE"`
	SeedPatientRefs    int    `mapstructure:"SEED_PATIENT_REF_RANGE"`
	SeedStartDate      string `mapstructure:"SEED_START_DATE"`
	SeedVocabularyFile string `mapstructure:"SEED_VOCABULARY_FILE"`
}

var defaults = map[string]interface{}{
	"PORT":                   "8000",
	"ENV":                    "development",
	"LOG_LEVEL":              "info",
	"CORS_ORIGINS":           "http://localhost:3000",
	"BODY_LIMIT":             "1M",
	"REQUEST_TIMEOUT":        "30s",
	"RATE_LIMIT_RPS":         20,
	"RATE_LIMIT_BURST":       40,
	"METRICS_ENABLED":        true,
	"SEED":                   0,
	"SEED_DOCTORS":           100,
	"SEED_PATIENTS":          1000,
	"SEED_VISITS":            2000,
	"SEED_MEDICINES":         200,
	"SEED_ROOMS":             100,
	"SEED_DOCTOR_REF_RANGE":  0,
	"SEED_PATIENT_REF_RANGE": 0,
	"SEED_START_DATE":        "2022-01-01",
	"SEED_VOCABULARY_FILE":   "",
}

// Load reads configuration from the environment, with an optional .env file
// in the working directory.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
		_ = v.BindEnv(key)
	}

	// A missing .env file is fine.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if len(cfg.CORSOrigins) == 1 && strings.Contains(cfg.CORSOrigins[0], ",") {
		cfg.CORSOrigins = strings.Split(cfg.CORSOrigins[0], ",")
	}
	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Level returns the parsed LOG_LEVEL.
func (c *Config) Level() (zerolog.Level, error) {
	return zerolog.ParseLevel(strings.ToLower(c.LogLevel))
}

// BodyLimitBytes returns BODY_LIMIT in bytes.
func (c *Config) BodyLimitBytes() (int64, error) {
	return middleware.ParseLimit(c.BodyLimit)
}

// SeedStart returns SEED_START_DATE as midnight UTC.
func (c *Config) SeedStart() (time.Time, error) {
	return time.Parse(DateLayout, c.SeedStartDate)
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 1 and 65535, got %q", c.Port)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if _, err := c.BodyLimitBytes(); err != nil {
		return fmt.Errorf("BODY_LIMIT: %w", err)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative, got %v", c.RateLimitRPS)
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1 when rate limiting is enabled, got %d", c.RateLimitBurst)
	}

	counts := map[string]int{
		"SEED_DOCTORS":           c.SeedDoctors,
		"SEED_PATIENTS":          c.SeedPatients,
		"SEED_VISITS":            c.SeedVisits,
		"SEED_MEDICINES":         c.SeedMedicines,
		"SEED_ROOMS":             c.SeedRooms,
		"SEED_DOCTOR_REF_RANGE":  c.SeedDoctorRefs,
		"SEED_PATIENT_REF_RANGE": c.SeedPatientRefs,
	}
	for name, n := range counts {
		if n < 0 {
			return fmt.Errorf("%s must not be negative, got %d", name, n)
		}
	}

	if _, err := c.SeedStart(); err != nil {
		return fmt.Errorf("SEED_START_DATE must be YYYY-MM-DD: %w", err)
	}
	return nil
}
