package websocket

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/symptalk/voicerelay/domain/entities"
)

// errProcessAudio is the only failure text the browser client renders.
const errProcessAudio = "Failed to process audio"

// Status tracks where a connection is in the flush lifecycle
type Status int

const (
	// StatusIdle means no audio is buffered.
	StatusIdle Status = iota
	// StatusAccumulating means at least one fragment is buffered and no
	// flush is in progress.
	StatusAccumulating
	// StatusTranscribing means a flush has been triggered and the
	// transcription call is in flight.
	StatusTranscribing
)

type WriteData struct {
	// Type is the type of the websocket message.
	// Expect websocket.TextMessage or websocket.BinaryMessage
	Type    int
	Payload []byte
}

// Client owns one websocket connection and drives the relay state machine
// for it: buffering audio fragments, flushing them through the
// transcription client, and pushing frames back to the browser.
type Client struct {
	relay *Relay

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan WriteData

	// Closed when the connection is going away; guards late sends.
	closed    chan struct{}
	closeOnce sync.Once

	// Session identifier for this connection, client-generated.
	sessionID string

	// Ordered audio fragments awaiting the next flush.
	buffer *AudioBuffer

	// status is guarded by mu.
	status Status
	mu     sync.Mutex

	logger *zap.Logger
}

// SessionID returns the opaque session identifier for this connection
func (c *Client) SessionID() string {
	return c.sessionID
}

// readPump pumps messages from the websocket connection into the state
// machine. On exit the session is unregistered first, so a late
// transcript can no longer be delivered, then any buffered audio gets an
// implicit flush.
func (c *Client) readPump() {
	defer func() {
		c.relay.registry.Remove(c.sessionID)
		c.shutdown()
		c.finalFlush()
		c.conn.Close()
		c.logger.Info("Client disconnected", zap.String("sessionID", c.sessionID))
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", zap.Error(err))
			}
			break
		}

		switch messageType {
		case websocket.BinaryMessage:
			// Raw encoded-audio bytes, opaque to the relay
			c.handleAudioFragment(message)
		case websocket.TextMessage:
			c.handleControl(message)
		default:
			c.logger.Warn("Received unknown message type", zap.Int("type", messageType))
		}
	}
}

// writePump pumps queued frames to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(message.Type, message.Payload); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.closed:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// shutdown marks the connection as going away. Safe to call repeatedly.
func (c *Client) shutdown() {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
}

// trySend queues a frame for the client unless the connection is closing
func (c *Client) trySend(messageType int, payload []byte) bool {
	select {
	case <-c.closed:
		return false
	default:
	}

	select {
	case c.send <- WriteData{Type: messageType, Payload: payload}:
		return true
	case <-c.closed:
		return false
	}
}

// handleAudioFragment appends one binary fragment to the buffer
func (c *Client) handleAudioFragment(fragment []byte) {
	c.mu.Lock()
	c.buffer.Append(fragment)
	if c.status == StatusIdle {
		c.status = StatusAccumulating
	}
	c.mu.Unlock()

	c.logger.Debug("Buffered audio fragment",
		zap.String("sessionID", c.sessionID),
		zap.Int("size", len(fragment)))
}

// handleControl decodes a text frame and dispatches it
func (c *Client) handleControl(message []byte) {
	control, err := DecodeControl(message)
	if err != nil {
		if errors.Is(err, ErrUnknownControl) {
			c.logger.Warn("Ignoring unknown control frame",
				zap.String("sessionID", c.sessionID),
				zap.Error(err))
		} else {
			c.logger.Error("Failed to parse control frame",
				zap.String("sessionID", c.sessionID),
				zap.Error(err))
		}
		return
	}

	switch {
	case control.Stop != nil:
		c.handleStopRecording(control.Stop)
	case control.Chat != nil:
		c.handleChatMessage(control.Chat)
	}
}

// handleStopRecording moves the connection into Transcribing and starts
// the flush pipeline. A stop arriving while a previous flush is still in
// flight is ignored; fragments received meanwhile stay buffered for the
// next flush.
func (c *Client) handleStopRecording(msg *StopRecording) {
	c.mu.Lock()
	if c.status == StatusTranscribing {
		c.mu.Unlock()
		c.logger.Warn("Ignoring stop_recording while a flush is in flight",
			zap.String("sessionID", c.sessionID))
		return
	}
	if c.buffer.Len() == 0 {
		c.mu.Unlock()
		c.logger.Debug("stop_recording with empty buffer, nothing to flush",
			zap.String("sessionID", c.sessionID))
		return
	}
	c.status = StatusTranscribing
	c.mu.Unlock()

	go c.flush(msg.TTSModel)
}

// handleChatMessage forwards typed text straight to the workflow
func (c *Client) handleChatMessage(msg *ChatMessage) {
	if msg.Text == "" {
		c.logger.Warn("Ignoring chat_message without text",
			zap.String("sessionID", c.sessionID))
		return
	}

	mode := msg.Mode
	if mode == "" {
		mode = ModeText
	}

	event := entities.OutboundEvent{
		SessionID: c.sessionID,
		Text:      msg.Text,
		Mode:      mode,
	}

	go func() {
		if err := c.relay.workflow.Notify(context.Background(), event); err != nil {
			// The message was already shown locally, so delivery failure is
			// not surfaced to the user.
			c.logger.Warn("Outbound notify failed",
				zap.String("sessionID", c.sessionID),
				zap.Error(err))
		}
	}()
}

// flush drains the buffer, transcribes the blob, and reports the outcome
// to the client. The buffer is empty afterwards whether or not the
// transcription succeeded.
func (c *Client) flush(ttsModel string) {
	defer c.finishFlush()

	audio := c.buffer.Drain()
	if len(audio) == 0 {
		return
	}

	ctx := context.Background()

	text, err := c.relay.stt.Transcribe(ctx, audio, c.relay.language)
	if err != nil {
		c.logger.Error("Transcription failed",
			zap.String("sessionID", c.sessionID),
			zap.Int("audioBytes", len(audio)),
			zap.Error(err))
		if !c.trySend(websocket.TextMessage, EncodeError(errProcessAudio)) {
			c.logger.Warn("Error frame dropped, connection closed",
				zap.String("sessionID", c.sessionID))
		}
		return
	}

	c.logger.Info("Transcription completed",
		zap.String("sessionID", c.sessionID),
		zap.Int("audioBytes", len(audio)),
		zap.String("transcript", text))

	if !c.trySend(websocket.TextMessage, EncodeTranscript(text)) {
		c.logger.Warn("Transcript dropped, connection closed",
			zap.String("sessionID", c.sessionID))
	}

	event := entities.OutboundEvent{
		SessionID: c.sessionID,
		Text:      text,
		Mode:      ModeVoice,
		TTSModel:  ttsModel,
	}
	if err := c.relay.workflow.Notify(ctx, event); err != nil {
		// Transcript was already delivered, so the notify failure is
		// logged only.
		c.logger.Warn("Outbound notify failed",
			zap.String("sessionID", c.sessionID),
			zap.Error(err))
	}
}

// finishFlush settles the status once a flush completes. Fragments that
// arrived during the flush put the connection back into Accumulating.
func (c *Client) finishFlush() {
	c.mu.Lock()
	if c.buffer.Len() > 0 {
		c.status = StatusAccumulating
	} else {
		c.status = StatusIdle
	}
	c.mu.Unlock()
}

// finalFlush processes audio still buffered when the connection closes.
// The transcript has nowhere to go, but the workflow notify still fires,
// matching the behavior the browser client relies on when it simply
// disconnects after recording.
func (c *Client) finalFlush() {
	c.mu.Lock()
	if c.status != StatusAccumulating || c.buffer.Len() == 0 {
		c.mu.Unlock()
		return
	}
	c.status = StatusTranscribing
	c.mu.Unlock()

	c.logger.Info("Flushing buffered audio on disconnect",
		zap.String("sessionID", c.sessionID),
		zap.Int("fragments", c.buffer.Len()))

	c.flush("")
}
