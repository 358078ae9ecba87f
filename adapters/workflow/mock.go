package workflow

import (
	"context"
	"sync"

	"github.com/symptalk/voicerelay/domain/entities"
	"github.com/symptalk/voicerelay/domain/repositories"
)

// MockNotifier records outbound events in memory. Used in tests and for
// local development without a workflow webhook.
type MockNotifier struct {
	mu     sync.Mutex
	events []entities.OutboundEvent

	// Err, when set, is returned from every Notify call.
	Err error
}

var _ repositories.WorkflowNotifier = (*MockNotifier)(nil)

// NewMockNotifier creates a new recording notifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Notify records the event
func (m *MockNotifier) Notify(ctx context.Context, event entities.OutboundEvent) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	return nil
}

// Events returns a copy of the recorded events
func (m *MockNotifier) Events() []entities.OutboundEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := make([]entities.OutboundEvent, len(m.events))
	copy(events, m.events)
	return events
}
