package stt

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/symptalk/voicerelay/domain/repositories"
)

// MockSpeechToText is a placeholder implementation for local development
// without provider credentials
type MockSpeechToText struct {
	logger *zap.Logger
}

// NewMockSpeechToText creates a new mock speech-to-text service
func NewMockSpeechToText(logger *zap.Logger) repositories.SpeechToText {
	return &MockSpeechToText{
		logger: logger,
	}
}

// Transcribe implements repositories.SpeechToText
func (s *MockSpeechToText) Transcribe(ctx context.Context, audio []byte, language string) (string, error) {
	s.logger.Info("Processing mock transcription",
		zap.Int("audioSize", len(audio)),
		zap.String("language", language))

	if len(audio) == 0 {
		return "", fmt.Errorf("%w: empty audio blob", repositories.ErrTranscriptionFailed)
	}

	// Mock transcription based on audio size
	switch {
	case len(audio) > 10000:
		return "Hello there, I would like to tell you about my day.", nil
	case len(audio) > 5000:
		return "Thanks for listening.", nil
	case len(audio) > 1000:
		return "Hello there!", nil
	default:
		return "Hi", nil
	}
}
