package websocket

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/symptalk/voicerelay/domain/entities"
	"github.com/symptalk/voicerelay/domain/repositories"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512 * 1024 // 512KB for audio fragments
)

// Outbound event modes
const (
	ModeVoice = "voice"
	ModeText  = "text"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: Implement proper origin checking
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Relay owns the pieces shared by every connection: the session registry
// and the external transcription and workflow clients.
type Relay struct {
	registry *Registry

	stt      repositories.SpeechToText
	workflow repositories.WorkflowNotifier
	language string

	logger *zap.Logger
}

// NewRelay creates a relay around an injected registry so tests can
// instantiate isolated instances.
func NewRelay(
	registry *Registry,
	stt repositories.SpeechToText,
	workflow repositories.WorkflowNotifier,
	language string,
	logger *zap.Logger,
) *Relay {
	return &Relay{
		registry: registry,
		stt:      stt,
		workflow: workflow,
		language: language,
		logger:   logger,
	}
}

// HandleWebSocket upgrades the request and starts the per-connection
// pumps. A missing sessionId query parameter closes the fresh connection
// with a policy-violation code; the session is never registered.
func (r *Relay) HandleWebSocket(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		r.logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	sessionID := c.QueryParam("sessionId")
	if sessionID == "" {
		r.logger.Warn("WebSocket connection rejected: missing sessionId")
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "Session ID is required"),
			time.Now().Add(writeWait),
		)
		conn.Close()
		return nil
	}

	client := &Client{
		relay:     r,
		conn:      conn,
		send:      make(chan WriteData, 256),
		closed:    make(chan struct{}),
		sessionID: sessionID,
		buffer:    NewAudioBuffer(),
		status:    StatusIdle,
		logger:    r.logger,
	}

	r.registry.Register(sessionID, client)
	r.logger.Info("Client connected", zap.String("sessionID", sessionID))

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	go client.readPump()

	return nil
}

// DeliverBotMessage routes a workflow-originated message to the live
// connection for sessionID. Returns false when no such session is
// connected or the connection is already closing.
func (r *Relay) DeliverBotMessage(sessionID string, message entities.Message) bool {
	client, ok := r.registry.Lookup(sessionID)
	if !ok {
		r.logger.Info("No live connection for session, dropping bot message",
			zap.String("sessionID", sessionID))
		return false
	}

	if !client.trySend(websocket.TextMessage, EncodeBotMessage(message)) {
		r.logger.Warn("Failed to deliver bot message, connection closing",
			zap.String("sessionID", sessionID))
		return false
	}

	r.logger.Info("Delivered bot message",
		zap.String("sessionID", sessionID),
		zap.String("messageID", message.ID))
	return true
}
