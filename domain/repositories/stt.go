package repositories

import (
	"context"
	"errors"
)

// ErrTranscriptionFailed covers any failure while turning an audio blob
// into text: upload failure, job-submission failure, or a malformed
// result. Callers decide whether to retry; implementations never do.
var ErrTranscriptionFailed = errors.New("transcription failed")

// SpeechToText abstracts speech recognition services
type SpeechToText interface {
	// Transcribe converts one encoded audio blob to text. The blob is
	// opaque to the relay; language is a hint for the provider. Each call
	// may incur provider cost, so callers invoke it at most once per flush.
	Transcribe(ctx context.Context, audio []byte, language string) (string, error)
}
