package websocket

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/symptalk/voicerelay/domain/entities"
)

// ErrUnknownControl marks a well-formed control frame whose type the
// relay does not recognize. The connection stays open.
var ErrUnknownControl = errors.New("unknown control type")

// Control frame discriminants accepted from the client
const (
	ControlTypeStopRecording = "stop_recording"
	ControlTypeChatMessage   = "chat_message"
)

// Frame types pushed to the client
const (
	FrameTypeTranscript = "transcript"
	FrameTypeError      = "error"
	FrameTypeBotMessage = "bot_message"
)

// StopRecording triggers a flush of the buffered audio
type StopRecording struct {
	TTSModel string `json:"ttsModel,omitempty"`
}

// ChatMessage relays typed text straight to the workflow, bypassing the
// audio pipeline
type ChatMessage struct {
	Text string `json:"text"`
	Mode string `json:"mode"`
}

// Control is the decoded form of one text frame. Exactly one variant
// field is non-nil.
type Control struct {
	Stop *StopRecording
	Chat *ChatMessage
}

// DecodeControl parses a text frame into its tagged variant. Malformed
// JSON and unrecognized discriminants are errors the caller logs and
// ignores without dropping the connection.
func DecodeControl(payload []byte) (Control, error) {
	var raw struct {
		Type     string `json:"type"`
		TTSModel string `json:"ttsModel"`
		Text     string `json:"text"`
		Mode     string `json:"mode"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Control{}, fmt.Errorf("malformed control frame: %w", err)
	}

	switch raw.Type {
	case ControlTypeStopRecording:
		return Control{Stop: &StopRecording{TTSModel: raw.TTSModel}}, nil
	case ControlTypeChatMessage:
		return Control{Chat: &ChatMessage{Text: raw.Text, Mode: raw.Mode}}, nil
	default:
		return Control{}, fmt.Errorf("%w: %q", ErrUnknownControl, raw.Type)
	}
}

// TranscriptFrame carries the transcription of one flushed audio blob
type TranscriptFrame struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ErrorFrame reports a failed flush to the client
type ErrorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// BotMessageFrame delivers a workflow-originated message to the client
type BotMessageFrame struct {
	Type string           `json:"type"`
	Data entities.Message `json:"data"`
}

// EncodeTranscript builds a transcript frame payload
func EncodeTranscript(text string) []byte {
	payload, _ := json.Marshal(TranscriptFrame{Type: FrameTypeTranscript, Text: text})
	return payload
}

// EncodeError builds an error frame payload
func EncodeError(message string) []byte {
	payload, _ := json.Marshal(ErrorFrame{Type: FrameTypeError, Message: message})
	return payload
}

// EncodeBotMessage builds a bot_message frame payload
func EncodeBotMessage(message entities.Message) []byte {
	payload, _ := json.Marshal(BotMessageFrame{Type: FrameTypeBotMessage, Data: message})
	return payload
}
