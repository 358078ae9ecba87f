package config

import (
	"os"
)

const (
	defaultPort        = "3000"
	defaultEnv         = "development"
	defaultWebhookURL  = "https://n8n-symptalk.zeabur.app/webhook/chat-room"
	defaultSTTProvider = "fal"
	defaultLanguage    = "en"

	// Development always binds the fixed host the browser client expects.
	developmentHost = "localhost"
)

// Config holds the externally supplied settings for the relay server.
type Config struct {
	Port        string // listening port, production only
	Env         string // "development" or "production"
	WebhookURL  string // outbound workflow webhook
	STTProvider string // "fal", "google" or "mock"
	Language    string // language hint passed to the transcription provider
}

// FromEnv builds a Config from environment variables, falling back to the
// development defaults.
func FromEnv() Config {
	return Config{
		Port:        getEnv("PORT", defaultPort),
		Env:         getEnv("APP_ENV", defaultEnv),
		WebhookURL:  getEnv("N8N_WEBHOOK_URL", defaultWebhookURL),
		STTProvider: getEnv("STT_PROVIDER", defaultSTTProvider),
		Language:    getEnv("STT_LANGUAGE", defaultLanguage),
	}
}

// IsDevelopment reports whether the server runs in development mode.
// Anything other than an explicit "production" counts as development.
func (c Config) IsDevelopment() bool {
	return c.Env != "production"
}

// Address returns the listen address. Development pins localhost with the
// default port; production binds all interfaces on the configured port.
func (c Config) Address() string {
	if c.IsDevelopment() {
		return developmentHost + ":" + defaultPort
	}
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
