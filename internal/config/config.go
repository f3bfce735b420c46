package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kitbuilder587/valueserp-go/pkg/valueserp"
)

var (
	ErrMissingAPIKey  = errors.New("VALUESERP_API_KEY is required")
	ErrInvalidTimeout = errors.New("timeout must be positive")
	ErrInvalidRetries = errors.New("retries must be between 0 and 10")
	ErrInvalidBaseURL = errors.New("base url must start with http:// or https://")
)

type Config struct {
	ValueSERP ValueSERPConfig
	Log       LogConfig
}

type ValueSERPConfig struct {
	APIKey              string
	BaseURL             string
	Timeout             time.Duration
	Retries             int
	ValidateCredentials bool
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		ValueSERP: ValueSERPConfig{
			APIKey:              os.Getenv("VALUESERP_API_KEY"),
			BaseURL:             getEnvOrDefault("VALUESERP_BASE_URL", valueserp.DefaultBaseURL),
			Timeout:             time.Duration(getEnvIntOrDefault("VALUESERP_TIMEOUT_SEC", 120)) * time.Second,
			Retries:             getEnvIntOrDefault("VALUESERP_RETRIES", valueserp.DefaultRetries),
			ValidateCredentials: getEnvBoolOrDefault("VALUESERP_VALIDATE_CREDENTIALS", false),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ValueSERP.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.ValueSERP.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.ValueSERP.Retries < 0 || c.ValueSERP.Retries > 10 {
		return ErrInvalidRetries
	}
	if !strings.HasPrefix(c.ValueSERP.BaseURL, "http://") && !strings.HasPrefix(c.ValueSERP.BaseURL, "https://") {
		return ErrInvalidBaseURL
	}
	return nil
}

// ClientConfig converts to the library config. Zero retries here means
// "do not retry", which the library spells as a negative value.
func (c *Config) ClientConfig(rec valueserp.Recorder) valueserp.Config {
	retries := c.ValueSERP.Retries
	if retries == 0 {
		retries = -1
	}
	return valueserp.Config{
		BaseURL:  c.ValueSERP.BaseURL,
		Timeout:  c.ValueSERP.Timeout,
		Retries:  retries,
		Recorder: rec,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
