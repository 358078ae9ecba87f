package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/symptalk/voicerelay/domain/repositories"
)

const (
	defaultAPIBaseURL     = "https://fal.run"
	defaultStorageBaseURL = "https://rest.alpha.fal.ai"
	defaultModelID        = "fal-ai/wizper"
	defaultTask           = "transcribe"
	defaultWireVersion    = "3"
	defaultContentType    = "audio/webm" // MediaRecorder default in most browsers
	defaultTimeout        = 60 * time.Second
)

// FalConfig holds configuration for the FalSpeechToText adapter
// Required fields:
// - APIKey: Your fal.ai API key
// Optional fields with defaults:
// - APIBaseURL: The base URL for model invocations (default: "https://fal.run")
// - StorageBaseURL: The base URL for blob uploads (default: "https://rest.alpha.fal.ai")
// - ModelID: The transcription model to invoke (default: "fal-ai/wizper")
// - WireVersion: The Wizper wire-format/version selector (default: "3")
// - ContentType: Content type of uploaded audio blobs (default: "audio/webm")
// - Timeout: HTTP client timeout (default: 60s)
type FalConfig struct {
	APIKey         string
	APIBaseURL     string
	StorageBaseURL string
	ModelID        string
	WireVersion    string
	ContentType    string
	Timeout        time.Duration
}

// FalSpeechToText implements SpeechToText using the fal.ai Wizper API.
// Transcription is a two-step flow: upload the blob to fal storage to get
// a retrievable URL, then submit that URL to the model endpoint.
type FalSpeechToText struct {
	apiKey         string
	apiBaseURL     string
	storageBaseURL string
	modelID        string
	wireVersion    string
	contentType    string
	httpClient     *http.Client
	logger         *zap.Logger
}

// Ensure FalSpeechToText implements the SpeechToText interface
var _ repositories.SpeechToText = (*FalSpeechToText)(nil)

type falInitiateUploadRequest struct {
	ContentType string `json:"content_type"`
	FileName    string `json:"file_name"`
}

type falInitiateUploadResponse struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
}

type falTranscribeRequest struct {
	AudioURL string `json:"audio_url"`
	Task     string `json:"task"`
	Language string `json:"language"`
	Version  string `json:"version"`
}

type falTranscribeResponse struct {
	Text *string `json:"text"`
}

// ValidateFalConfig validates the FalConfig
func ValidateFalConfig(config FalConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("fal API key is required")
	}
	if config.Timeout < 0 {
		return fmt.Errorf("timeout must be positive, got %s", config.Timeout)
	}
	return nil
}

// NewFalSpeechToText creates a new fal.ai transcription client
func NewFalSpeechToText(config FalConfig, logger *zap.Logger) (*FalSpeechToText, error) {
	if err := ValidateFalConfig(config); err != nil {
		return nil, err
	}

	apiBaseURL := config.APIBaseURL
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
	}

	storageBaseURL := config.StorageBaseURL
	if storageBaseURL == "" {
		storageBaseURL = defaultStorageBaseURL
	}

	modelID := config.ModelID
	if modelID == "" {
		modelID = defaultModelID
	}

	wireVersion := config.WireVersion
	if wireVersion == "" {
		wireVersion = defaultWireVersion
	}

	contentType := config.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &FalSpeechToText{
		apiKey:         config.APIKey,
		apiBaseURL:     apiBaseURL,
		storageBaseURL: storageBaseURL,
		modelID:        modelID,
		wireVersion:    wireVersion,
		contentType:    contentType,
		httpClient:     &http.Client{Timeout: timeout},
		logger:         logger,
	}, nil
}

// Transcribe uploads the audio blob and submits a transcription job.
// Every failure mode collapses into ErrTranscriptionFailed; the caller
// decides whether anything is retried.
func (f *FalSpeechToText) Transcribe(ctx context.Context, audio []byte, language string) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("%w: empty audio blob", repositories.ErrTranscriptionFailed)
	}

	audioURL, err := f.upload(ctx, audio)
	if err != nil {
		return "", fmt.Errorf("%w: upload: %v", repositories.ErrTranscriptionFailed, err)
	}

	f.logger.Debug("Uploaded audio blob",
		zap.Int("size", len(audio)),
		zap.String("audioURL", audioURL))

	text, err := f.submit(ctx, audioURL, language)
	if err != nil {
		return "", fmt.Errorf("%w: %v", repositories.ErrTranscriptionFailed, err)
	}

	return strings.TrimSpace(text), nil
}

// upload pushes the blob to fal storage and returns its retrievable URL
func (f *FalSpeechToText) upload(ctx context.Context, audio []byte) (string, error) {
	initiateBody, err := json.Marshal(falInitiateUploadRequest{
		ContentType: f.contentType,
		FileName:    "audio.webm",
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal initiate request: %w", err)
	}

	initiateURL := fmt.Sprintf("%s/storage/upload/initiate?storage_type=fal-cdn-v3", f.storageBaseURL)
	initiateReq, err := http.NewRequestWithContext(ctx, http.MethodPost, initiateURL, bytes.NewBuffer(initiateBody))
	if err != nil {
		return "", fmt.Errorf("failed to create initiate request: %w", err)
	}
	initiateReq.Header.Set("Content-Type", "application/json")
	initiateReq.Header.Set("Authorization", "Key "+f.apiKey)

	var initiate falInitiateUploadResponse
	if err := f.do(initiateReq, &initiate); err != nil {
		return "", fmt.Errorf("initiate upload: %w", err)
	}
	if initiate.UploadURL == "" || initiate.FileURL == "" {
		return "", fmt.Errorf("initiate upload: missing upload_url or file_url in response")
	}

	putReq, err := http.NewRequestWithContext(ctx, http.MethodPut, initiate.UploadURL, bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	putReq.Header.Set("Content-Type", f.contentType)

	if err := f.do(putReq, nil); err != nil {
		return "", fmt.Errorf("upload blob: %w", err)
	}

	return initiate.FileURL, nil
}

// submit runs the transcription job against the uploaded blob
func (f *FalSpeechToText) submit(ctx context.Context, audioURL, language string) (string, error) {
	requestBody, err := json.Marshal(falTranscribeRequest{
		AudioURL: audioURL,
		Task:     defaultTask,
		Language: language,
		Version:  f.wireVersion,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal transcribe request: %w", err)
	}

	url := fmt.Sprintf("%s/%s", f.apiBaseURL, f.modelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create transcribe request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Key "+f.apiKey)

	var result falTranscribeResponse
	if err := f.do(req, &result); err != nil {
		return "", fmt.Errorf("transcribe job: %w", err)
	}
	if result.Text == nil {
		return "", fmt.Errorf("transcribe job: missing text field in response")
	}

	return *result.Text, nil
}

// do executes the request, checks the status, and decodes the JSON body
// into out when out is non-nil.
func (f *FalSpeechToText) do(req *http.Request, out interface{}) error {
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		errorBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API returned error %d: %s", resp.StatusCode, string(errorBody))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// NewFalConfigFromEnv creates a new FalConfig from environment variables
func NewFalConfigFromEnv() FalConfig {
	config := FalConfig{
		APIKey:         os.Getenv("FAL_API_KEY"),
		APIBaseURL:     os.Getenv("FAL_API_BASE_URL"),
		StorageBaseURL: os.Getenv("FAL_STORAGE_BASE_URL"),
		ModelID:        os.Getenv("FAL_MODEL_ID"),
		WireVersion:    os.Getenv("FAL_WIRE_VERSION"),
		ContentType:    os.Getenv("FAL_CONTENT_TYPE"),
	}

	if timeoutStr := os.Getenv("FAL_TIMEOUT"); timeoutStr != "" {
		if timeout, err := time.ParseDuration(timeoutStr); err == nil && timeout > 0 {
			config.Timeout = timeout
		}
	}

	return config
}
