package config

import (
	"os"
	"testing"
	"time"

	"github.com/kitbuilder587/valueserp-go/pkg/valueserp"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr error
	}{
		{
			name: "valid config",
			envVars: map[string]string{
				"VALUESERP_API_KEY": "test_key",
			},
			wantErr: nil,
		},
		{
			name:    "missing api key",
			envVars: map[string]string{},
			wantErr: ErrMissingAPIKey,
		},
		{
			name: "negative timeout",
			envVars: map[string]string{
				"VALUESERP_API_KEY":     "test_key",
				"VALUESERP_TIMEOUT_SEC": "-5",
			},
			wantErr: ErrInvalidTimeout,
		},
		{
			name: "too many retries",
			envVars: map[string]string{
				"VALUESERP_API_KEY": "test_key",
				"VALUESERP_RETRIES": "42",
			},
			wantErr: ErrInvalidRetries,
		},
		{
			name: "bad base url",
			envVars: map[string]string{
				"VALUESERP_API_KEY":  "test_key",
				"VALUESERP_BASE_URL": "api.valueserp.com",
			},
			wantErr: ErrInvalidBaseURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars()

			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}
			defer clearEnvVars()

			cfg, err := Load()

			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("Load() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Errorf("Load() unexpected error = %v", err)
				return
			}

			if cfg == nil {
				t.Error("Load() returned nil config")
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	clearEnvVars()
	os.Setenv("VALUESERP_API_KEY", "test_key")
	defer clearEnvVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %v, want %v", cfg.Log.Level, "info")
	}
	if cfg.ValueSERP.BaseURL != valueserp.DefaultBaseURL {
		t.Errorf("BaseURL = %v, want %v", cfg.ValueSERP.BaseURL, valueserp.DefaultBaseURL)
	}
	if cfg.ValueSERP.Timeout != 120*time.Second {
		t.Errorf("Timeout = %v, want 120s", cfg.ValueSERP.Timeout)
	}
	if cfg.ValueSERP.Retries != 3 {
		t.Errorf("Retries = %v, want 3", cfg.ValueSERP.Retries)
	}
	if cfg.ValueSERP.ValidateCredentials {
		t.Error("ValidateCredentials should default to false")
	}
}

func TestGetEnvIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		envValue   string
		defaultVal int
		want       int
	}{
		{"valid int", "42", 10, 42},
		{"empty string", "", 10, 10},
		{"invalid int", "abc", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("TEST_INT", tt.envValue)
			defer os.Unsetenv("TEST_INT")

			got := getEnvIntOrDefault("TEST_INT", tt.defaultVal)
			if got != tt.want {
				t.Errorf("getEnvIntOrDefault() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvBoolOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		envValue   string
		defaultVal bool
		want       bool
	}{
		{"true", "true", false, true},
		{"one", "1", false, true},
		{"false", "false", true, false},
		{"empty string", "", true, true},
		{"garbage", "yes please", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("TEST_BOOL", tt.envValue)
			defer os.Unsetenv("TEST_BOOL")

			got := getEnvBoolOrDefault("TEST_BOOL", tt.defaultVal)
			if got != tt.want {
				t.Errorf("getEnvBoolOrDefault() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClientConfig(t *testing.T) {
	tests := []struct {
		name        string
		retries     int
		wantRetries int
	}{
		{"retries kept", 5, 5},
		{"zero disables retries", 0, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				ValueSERP: ValueSERPConfig{
					APIKey:  "key",
					BaseURL: "https://example.com",
					Timeout: 7 * time.Second,
					Retries: tt.retries,
				},
			}

			got := cfg.ClientConfig(nil)
			if got.Retries != tt.wantRetries {
				t.Errorf("Retries = %d, want %d", got.Retries, tt.wantRetries)
			}
			if got.BaseURL != "https://example.com" {
				t.Errorf("BaseURL = %q", got.BaseURL)
			}
			if got.Timeout != 7*time.Second {
				t.Errorf("Timeout = %v, want 7s", got.Timeout)
			}
		})
	}
}

func clearEnvVars() {
	envVars := []string{
		"VALUESERP_API_KEY",
		"VALUESERP_BASE_URL",
		"VALUESERP_TIMEOUT_SEC",
		"VALUESERP_RETRIES",
		"VALUESERP_VALIDATE_CREDENTIALS",
		"LOG_LEVEL",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}
