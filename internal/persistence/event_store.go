package persistence

import (
	"context"
	"errors"

	"github.com/petrijr/formflow/pkg/api"
)

var (
	// ErrMissingWizardID is returned when an event without a wizard ID is appended.
	ErrMissingWizardID = errors.New("event has no wizard id")

	// ErrUnknownJournal is returned by Open for an unsupported URL scheme.
	ErrUnknownJournal = errors.New("unknown journal scheme")
)

// EventStore is an append-only history store for wizard transition events.
//
// ListEvents returns events in append order. Implementations must be safe
// for concurrent use.
type EventStore interface {
	AppendEvent(ctx context.Context, ev api.TransitionEvent) error
	ListEvents(ctx context.Context, wizardID string) ([]api.TransitionEvent, error)
}

// NoopEventStore discards all events.
type NoopEventStore struct{}

func (NoopEventStore) AppendEvent(ctx context.Context, ev api.TransitionEvent) error { return nil }
func (NoopEventStore) ListEvents(ctx context.Context, wizardID string) ([]api.TransitionEvent, error) {
	return nil, nil
}

func checkEvent(ev api.TransitionEvent) error {
	if ev.WizardID == "" {
		return ErrMissingWizardID
	}
	return nil
}
