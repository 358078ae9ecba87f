package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/symptalk/voicerelay/domain/entities"
	"github.com/symptalk/voicerelay/domain/repositories"
	"github.com/symptalk/voicerelay/internal/store"
	"github.com/symptalk/voicerelay/internal/websocket"
)

// InitRoutes initializes all API routes
func InitRoutes(
	e *echo.Echo,
	relay *websocket.Relay,
	notifier repositories.WorkflowNotifier,
	messages *store.MessageStore,
	logger *zap.Logger,
) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "voicerelay-server",
		})
	})

	// Persistent duplex connection for the realtime client
	e.GET("/ws", relay.HandleWebSocket)

	// Plain request/response endpoints
	e.POST("/api/chat", func(c echo.Context) error {
		return postChat(c, notifier, logger)
	})
	e.POST("/api/webhook", func(c echo.Context) error {
		return postWebhook(c, relay, messages, logger)
	})
	e.GET("/api/messages", func(c echo.Context) error {
		return getMessages(c, messages)
	})
}

// postChat forwards typed text to the workflow webhook. Delivery failure
// is logged but still acknowledged: the sender already sees their own
// message locally.
func postChat(c echo.Context, notifier repositories.WorkflowNotifier, logger *zap.Logger) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind chat request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
	}

	if req.Text == "" || req.SessionID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing text or sessionId"})
	}

	mode := req.Mode
	if mode == "" {
		mode = websocket.ModeText
	}

	event := entities.OutboundEvent{
		SessionID: req.SessionID,
		Text:      req.Text,
		Mode:      mode,
	}
	if err := notifier.Notify(context.Background(), event); err != nil {
		logger.Warn("Outbound notify failed",
			zap.String("sessionID", req.SessionID),
			zap.Error(err))
	}

	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// postWebhook accepts the asynchronous callback from the workflow system
// and routes it to the live session. When the session has no open
// connection the message is queued for the polling fallback client; the
// caller gets a success acknowledgment either way.
func postWebhook(c echo.Context, relay *websocket.Relay, messages *store.MessageStore, logger *zap.Logger) error {
	var req WebhookRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind webhook request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
	}

	if req.Text == "" || req.SessionID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing text or sessionId"})
	}

	message := entities.NewBotMessage(req.Text, req.AudioURL)

	if !relay.DeliverBotMessage(req.SessionID, message) {
		messages.Append(req.SessionID, message)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// getMessages returns and clears the queued bot messages for a session
func getMessages(c echo.Context, messages *store.MessageStore) error {
	sessionID := c.QueryParam("sessionId")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing sessionId"})
	}

	drained := messages.DrainBot(sessionID)
	if drained == nil {
		drained = []entities.Message{}
	}

	return c.JSON(http.StatusOK, MessagesResponse{Messages: drained})
}
