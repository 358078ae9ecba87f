package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MessageRole represents the originator of a chat message
type MessageRole string

const (
	MessageRoleUser MessageRole = "user"
	MessageRoleBot  MessageRole = "bot"
)

// Message represents a single chat message held for a session
type Message struct {
	ID        string      `json:"id"`
	Role      MessageRole `json:"role"`
	Text      string      `json:"text"`
	AudioURL  string      `json:"audioUrl,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// NewBotMessage creates a bot message with a fresh id and current timestamp
func NewBotMessage(text, audioURL string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      MessageRoleBot,
		Text:      text,
		AudioURL:  audioURL,
		Timestamp: time.Now().UnixMilli(),
	}
}

// OutboundEvent is the payload forwarded to the external workflow webhook
type OutboundEvent struct {
	SessionID string `json:"sessionId"`
	Text      string `json:"text"`
	Mode      string `json:"mode"`
	TTSModel  string `json:"ttsModel,omitempty"`
}

// InboundCallback is the payload the external workflow posts back to the
// relay, destined for one live session
type InboundCallback struct {
	SessionID string `json:"sessionId"`
	Text      string `json:"text"`
	AudioURL  string `json:"audioUrl,omitempty"`
}

// Domain validation methods
func (e *OutboundEvent) Validate() error {
	if e.SessionID == "" {
		return errors.New("session id is required")
	}
	if e.Text == "" {
		return errors.New("text is required")
	}
	return nil
}

func (c *InboundCallback) Validate() error {
	if c.SessionID == "" {
		return errors.New("session id is required")
	}
	if c.Text == "" {
		return errors.New("text is required")
	}
	return nil
}
