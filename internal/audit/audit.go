// Package audit records structured events for every mutating operation.
// Recording is fire-and-forget: a broken sink is logged and never fails or
// blocks the operation that triggered it.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	Action       string
	ActorID      uuid.UUID
	CompanyID    uuid.UUID
	ResourceType string
	ResourceID   uuid.UUID
	Changes      map[string]any
}

type Repository interface {
	InsertEvent(ctx context.Context, e Event) error
}

type Recorder struct {
	repo    Repository
	timeout time.Duration
}

func NewRecorder(repo Repository) *Recorder {
	return &Recorder{repo: repo, timeout: 5 * time.Second}
}

// Record writes the event asynchronously, detached from the request
// context so a finished request does not cancel the write.
func (r *Recorder) Record(e Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := r.repo.InsertEvent(ctx, e); err != nil {
			slog.Error("failed to record audit event",
				"action", e.Action,
				"resource_type", e.ResourceType,
				"resource_id", e.ResourceID,
				"error", err,
			)
		}
	}()
}
