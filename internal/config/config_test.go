package config

import "testing"

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("N8N_WEBHOOK_URL", "")
	t.Setenv("STT_PROVIDER", "")
	t.Setenv("STT_LANGUAGE", "")

	cfg := FromEnv()

	if cfg.Port != "3000" {
		t.Errorf("Expected default port '3000', got %q", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Expected default env 'development', got %q", cfg.Env)
	}
	if cfg.STTProvider != "fal" {
		t.Errorf("Expected default provider 'fal', got %q", cfg.STTProvider)
	}
	if cfg.Language != "en" {
		t.Errorf("Expected default language 'en', got %q", cfg.Language)
	}
	if cfg.WebhookURL == "" {
		t.Error("Expected a default webhook URL")
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("APP_ENV", "production")
	t.Setenv("N8N_WEBHOOK_URL", "https://workflows.example.com/hook")
	t.Setenv("STT_PROVIDER", "google")
	t.Setenv("STT_LANGUAGE", "id")

	cfg := FromEnv()

	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got %q", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Errorf("Expected env 'production', got %q", cfg.Env)
	}
	if cfg.WebhookURL != "https://workflows.example.com/hook" {
		t.Errorf("Unexpected webhook URL: %q", cfg.WebhookURL)
	}
	if cfg.STTProvider != "google" {
		t.Errorf("Expected provider 'google', got %q", cfg.STTProvider)
	}
	if cfg.Language != "id" {
		t.Errorf("Expected language 'id', got %q", cfg.Language)
	}
}

func TestIsDevelopment(t *testing.T) {
	cases := []struct {
		env  string
		want bool
	}{
		{"development", true},
		{"", true},
		{"staging", true},
		{"production", false},
	}

	for _, tc := range cases {
		cfg := Config{Env: tc.env}
		if got := cfg.IsDevelopment(); got != tc.want {
			t.Errorf("IsDevelopment with env %q: expected %v, got %v", tc.env, tc.want, got)
		}
	}
}

func TestAddress(t *testing.T) {
	dev := Config{Env: "development", Port: "9999"}
	if got := dev.Address(); got != "localhost:3000" {
		t.Errorf("Expected development address 'localhost:3000', got %q", got)
	}

	prod := Config{Env: "production", Port: "8080"}
	if got := prod.Address(); got != ":8080" {
		t.Errorf("Expected production address ':8080', got %q", got)
	}
}
