package websocket

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/symptalk/voicerelay/domain/entities"
)

func TestDecodeControl_StopRecording(t *testing.T) {
	control, err := DecodeControl([]byte(`{"type":"stop_recording","ttsModel":"voice-2"}`))
	if err != nil {
		t.Fatalf("DecodeControl failed: %v", err)
	}

	if control.Stop == nil {
		t.Fatal("Expected StopRecording variant")
	}
	if control.Chat != nil {
		t.Error("Expected Chat variant to be nil")
	}
	if control.Stop.TTSModel != "voice-2" {
		t.Errorf("Expected ttsModel 'voice-2', got '%s'", control.Stop.TTSModel)
	}
}

func TestDecodeControl_StopRecordingWithoutModel(t *testing.T) {
	control, err := DecodeControl([]byte(`{"type":"stop_recording"}`))
	if err != nil {
		t.Fatalf("DecodeControl failed: %v", err)
	}

	if control.Stop == nil {
		t.Fatal("Expected StopRecording variant")
	}
	if control.Stop.TTSModel != "" {
		t.Errorf("Expected empty ttsModel, got '%s'", control.Stop.TTSModel)
	}
}

func TestDecodeControl_ChatMessage(t *testing.T) {
	control, err := DecodeControl([]byte(`{"type":"chat_message","text":"hello","mode":"text"}`))
	if err != nil {
		t.Fatalf("DecodeControl failed: %v", err)
	}

	if control.Chat == nil {
		t.Fatal("Expected ChatMessage variant")
	}
	if control.Chat.Text != "hello" {
		t.Errorf("Expected text 'hello', got '%s'", control.Chat.Text)
	}
	if control.Chat.Mode != "text" {
		t.Errorf("Expected mode 'text', got '%s'", control.Chat.Mode)
	}
}

func TestDecodeControl_UnknownType(t *testing.T) {
	_, err := DecodeControl([]byte(`{"type":"mystery"}`))
	if err == nil {
		t.Fatal("Expected error for unknown control type")
	}
	if !errors.Is(err, ErrUnknownControl) {
		t.Errorf("Expected ErrUnknownControl, got %v", err)
	}
}

func TestDecodeControl_MalformedJSON(t *testing.T) {
	_, err := DecodeControl([]byte(`{not json}`))
	if err == nil {
		t.Fatal("Expected error for malformed JSON")
	}
	if errors.Is(err, ErrUnknownControl) {
		t.Error("Malformed JSON should not be reported as an unknown control")
	}
}

func TestEncodeTranscript(t *testing.T) {
	var frame TranscriptFrame
	if err := json.Unmarshal(EncodeTranscript("hello world"), &frame); err != nil {
		t.Fatalf("Failed to unmarshal transcript frame: %v", err)
	}

	if frame.Type != FrameTypeTranscript {
		t.Errorf("Expected type '%s', got '%s'", FrameTypeTranscript, frame.Type)
	}
	if frame.Text != "hello world" {
		t.Errorf("Expected text 'hello world', got '%s'", frame.Text)
	}
}

func TestEncodeError(t *testing.T) {
	var frame ErrorFrame
	if err := json.Unmarshal(EncodeError("Failed to process audio"), &frame); err != nil {
		t.Fatalf("Failed to unmarshal error frame: %v", err)
	}

	if frame.Type != FrameTypeError {
		t.Errorf("Expected type '%s', got '%s'", FrameTypeError, frame.Type)
	}
	if frame.Message != "Failed to process audio" {
		t.Errorf("Expected message 'Failed to process audio', got '%s'", frame.Message)
	}
}

func TestEncodeBotMessage(t *testing.T) {
	message := entities.NewBotMessage("hi there", "https://cdn.example/reply.mp3")

	var frame BotMessageFrame
	if err := json.Unmarshal(EncodeBotMessage(message), &frame); err != nil {
		t.Fatalf("Failed to unmarshal bot message frame: %v", err)
	}

	if frame.Type != FrameTypeBotMessage {
		t.Errorf("Expected type '%s', got '%s'", FrameTypeBotMessage, frame.Type)
	}
	if frame.Data.Text != "hi there" {
		t.Errorf("Expected text 'hi there', got '%s'", frame.Data.Text)
	}
	if frame.Data.AudioURL != "https://cdn.example/reply.mp3" {
		t.Errorf("Expected audioUrl to round-trip, got '%s'", frame.Data.AudioURL)
	}
	if frame.Data.Role != entities.MessageRoleBot {
		t.Errorf("Expected bot role, got '%s'", frame.Data.Role)
	}
	if frame.Data.ID == "" {
		t.Error("Expected a generated message id")
	}
}
