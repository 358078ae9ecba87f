package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/symptalk/voicerelay/domain/entities"
	"github.com/symptalk/voicerelay/domain/repositories"
)

const (
	defaultWebhookURL = "https://n8n-symptalk.zeabur.app/webhook/chat-room"
	defaultTimeout    = 30 * time.Second
)

// N8NConfig holds configuration for the N8NNotifier
type N8NConfig struct {
	WebhookURL string        // Optional: the workflow webhook URL
	Timeout    time.Duration // Optional: HTTP client timeout
}

// N8NNotifier implements WorkflowNotifier against an n8n webhook
type N8NNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *zap.Logger
}

// Ensure N8NNotifier implements the WorkflowNotifier interface
var _ repositories.WorkflowNotifier = (*N8NNotifier)(nil)

// NewN8NNotifier creates a new workflow notifier
func NewN8NNotifier(config N8NConfig, logger *zap.Logger) *N8NNotifier {
	webhookURL := config.WebhookURL
	if webhookURL == "" {
		webhookURL = defaultWebhookURL
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &N8NNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Notify POSTs the event to the workflow webhook. The caller treats a
// returned error as log-only.
func (n *N8NNotifier) Notify(ctx context.Context, event entities.OutboundEvent) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("invalid outbound event: %w", err)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected HTTP status %s: %s", resp.Status, string(body))
	}

	n.logger.Debug("Notified workflow webhook",
		zap.String("sessionID", event.SessionID),
		zap.String("mode", event.Mode))
	return nil
}

// NewN8NConfigFromEnv creates a new N8NConfig from environment variables
func NewN8NConfigFromEnv() N8NConfig {
	config := N8NConfig{
		WebhookURL: os.Getenv("N8N_WEBHOOK_URL"),
	}

	if timeoutStr := os.Getenv("N8N_TIMEOUT"); timeoutStr != "" {
		if timeout, err := time.ParseDuration(timeoutStr); err == nil && timeout > 0 {
			config.Timeout = timeout
		}
	}

	return config
}
