package store

import (
	"sync"

	"github.com/symptalk/voicerelay/domain/entities"
)

// MessageStore queues bot messages per session for the polling fallback
// client. In-memory only: messages do not survive the process, and a
// session's queue disappears once drained.
type MessageStore struct {
	mu       sync.Mutex
	messages map[string][]entities.Message
}

// NewMessageStore creates an empty message store
func NewMessageStore() *MessageStore {
	return &MessageStore{
		messages: make(map[string][]entities.Message),
	}
}

// Append queues one message for the session
func (s *MessageStore) Append(sessionID string, message entities.Message) {
	s.mu.Lock()
	s.messages[sessionID] = append(s.messages[sessionID], message)
	s.mu.Unlock()
}

// DrainBot returns the queued bot messages for the session in arrival
// order and removes them. Other roles stay queued.
func (s *MessageStore) DrainBot(sessionID string) []entities.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	queued, ok := s.messages[sessionID]
	if !ok {
		return nil
	}

	var bot, rest []entities.Message
	for _, message := range queued {
		if message.Role == entities.MessageRoleBot {
			bot = append(bot, message)
		} else {
			rest = append(rest, message)
		}
	}

	if len(rest) == 0 {
		delete(s.messages, sessionID)
	} else {
		s.messages[sessionID] = rest
	}

	return bot
}
