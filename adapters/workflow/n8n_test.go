package workflow

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/symptalk/voicerelay/domain/entities"
)

func TestN8NNotifier_Notify(t *testing.T) {
	var (
		mu       sync.Mutex
		received []map[string]interface{}
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected application/json, got %q", ct)
		}

		body, _ := io.ReadAll(r.Body)
		var payload map[string]interface{}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("Failed to unmarshal payload %q: %v", body, err)
		}
		mu.Lock()
		received = append(received, payload)
		mu.Unlock()

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewN8NNotifier(N8NConfig{WebhookURL: server.URL}, zap.NewNop())

	event := entities.OutboundEvent{
		SessionID: "session-1",
		Text:      "what I said",
		Mode:      "voice",
		TTSModel:  "voice-2",
	}
	if err := notifier.Notify(context.Background(), event); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 {
		t.Fatalf("Expected 1 webhook call, got %d", len(received))
	}
	payload := received[0]
	if payload["sessionId"] != "session-1" {
		t.Errorf("Expected sessionId 'session-1', got %v", payload["sessionId"])
	}
	if payload["text"] != "what I said" {
		t.Errorf("Expected text 'what I said', got %v", payload["text"])
	}
	if payload["mode"] != "voice" {
		t.Errorf("Expected mode 'voice', got %v", payload["mode"])
	}
	if payload["ttsModel"] != "voice-2" {
		t.Errorf("Expected ttsModel 'voice-2', got %v", payload["ttsModel"])
	}
}

func TestN8NNotifier_OmitsEmptyTTSModel(t *testing.T) {
	bodyCh := make(chan string, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodyCh <- string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewN8NNotifier(N8NConfig{WebhookURL: server.URL}, zap.NewNop())

	event := entities.OutboundEvent{SessionID: "session-1", Text: "typed", Mode: "text"}
	if err := notifier.Notify(context.Background(), event); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	body := <-bodyCh
	if strings.Contains(body, "ttsModel") {
		t.Errorf("Expected ttsModel omitted, got %s", body)
	}
}

func TestN8NNotifier_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "workflow exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	notifier := NewN8NNotifier(N8NConfig{WebhookURL: server.URL}, zap.NewNop())

	event := entities.OutboundEvent{SessionID: "session-1", Text: "hi", Mode: "text"}
	err := notifier.Notify(context.Background(), event)
	if err == nil {
		t.Fatal("Expected an error for a 500 response")
	}
	if !strings.Contains(err.Error(), "workflow exploded") {
		t.Errorf("Expected the response body in the error, got %v", err)
	}
}

func TestN8NNotifier_InvalidEvent(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	notifier := NewN8NNotifier(N8NConfig{WebhookURL: server.URL}, zap.NewNop())

	err := notifier.Notify(context.Background(), entities.OutboundEvent{Text: "no session"})
	if err == nil {
		t.Fatal("Expected an error for a sessionless event")
	}
	if called {
		t.Error("Expected no HTTP call for an invalid event")
	}
}

func TestN8NNotifier_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	notifier := NewN8NNotifier(N8NConfig{WebhookURL: server.URL}, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	event := entities.OutboundEvent{SessionID: "session-1", Text: "hi", Mode: "text"}
	if err := notifier.Notify(ctx, event); err == nil {
		t.Fatal("Expected an error once the context expired")
	}
}

func TestNewN8NConfigFromEnv(t *testing.T) {
	t.Setenv("N8N_WEBHOOK_URL", "https://workflows.example.com/hook")
	t.Setenv("N8N_TIMEOUT", "5s")

	config := NewN8NConfigFromEnv()
	if config.WebhookURL != "https://workflows.example.com/hook" {
		t.Errorf("Unexpected webhook URL: %q", config.WebhookURL)
	}
	if config.Timeout != 5*time.Second {
		t.Errorf("Expected 5s timeout, got %v", config.Timeout)
	}
}

func TestNewN8NNotifier_Defaults(t *testing.T) {
	notifier := NewN8NNotifier(N8NConfig{}, zap.NewNop())

	if notifier.webhookURL != defaultWebhookURL {
		t.Errorf("Expected default webhook URL, got %q", notifier.webhookURL)
	}
	if notifier.httpClient.Timeout != defaultTimeout {
		t.Errorf("Expected default timeout, got %v", notifier.httpClient.Timeout)
	}
}
