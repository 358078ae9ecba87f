package stt

import (
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"

	"github.com/symptalk/voicerelay/domain/repositories"
)

// Browser MediaRecorder output the relay accepts
const (
	googleDefaultSampleRate = 48000
	googleDefaultLanguage   = "en-US"
)

// GoogleSpeechToText implements SpeechToText for Google Cloud. Selected
// with STT_PROVIDER=google; credentials come from the standard
// GOOGLE_APPLICATION_CREDENTIALS environment.
type GoogleSpeechToText struct{}

// Transcribe converts one webm/opus blob to text via the batch Recognize
// API.
func (g *GoogleSpeechToText) Transcribe(ctx context.Context, audio []byte, language string) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("%w: empty audio blob", repositories.ErrTranscriptionFailed)
	}

	client, err := speech.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create speech client: %v", repositories.ErrTranscriptionFailed, err)
	}
	defer client.Close()

	resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_WEBM_OPUS,
			SampleRateHertz: googleDefaultSampleRate,
			LanguageCode:    googleLanguageCode(language),
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: recognize: %v", repositories.ErrTranscriptionFailed, err)
	}

	var parts []string
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			parts = append(parts, result.Alternatives[0].Transcript)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: no speech detected in audio", repositories.ErrTranscriptionFailed)
	}

	return strings.TrimSpace(strings.Join(parts, " ")), nil
}

// googleLanguageCode widens short language hints to the BCP-47 codes the
// API expects.
func googleLanguageCode(language string) string {
	switch language {
	case "":
		return googleDefaultLanguage
	case "en":
		return "en-US"
	case "id":
		return "id-ID"
	default:
		return language
	}
}
