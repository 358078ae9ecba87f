package repositories

import (
	"context"

	"github.com/symptalk/voicerelay/domain/entities"
)

// WorkflowNotifier forwards chat events to the external automation
// workflow. Delivery is fire-and-forget from the relay's point of view:
// callers log a returned error but never surface it to the end user.
type WorkflowNotifier interface {
	Notify(ctx context.Context, event entities.OutboundEvent) error
}
