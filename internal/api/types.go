package api

import "github.com/symptalk/voicerelay/domain/entities"

// ChatRequest is the body of the message-post endpoint
type ChatRequest struct {
	Text      string `json:"text"`
	SessionID string `json:"sessionId"`
	Mode      string `json:"mode"`
}

// WebhookRequest is the inbound callback body from the workflow system
type WebhookRequest struct {
	SessionID string `json:"sessionId"`
	Text      string `json:"text"`
	AudioURL  string `json:"audioUrl"`
}

// MessagesResponse carries queued bot messages to the polling client
type MessagesResponse struct {
	Messages []entities.Message `json:"messages"`
}

// SuccessResponse is the generic acknowledgment body
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is the generic error body
type ErrorResponse struct {
	Error string `json:"error"`
}
