package persistence

import (
	"context"
	"sync"

	"github.com/petrijr/formflow/pkg/api"
)

// InMemoryEventStore keeps events in a map keyed by wizard ID.
type InMemoryEventStore struct {
	mu     sync.RWMutex
	events map[string][]api.TransitionEvent
}

var _ EventStore = (*InMemoryEventStore)(nil)

// NewInMemoryEventStore creates an empty InMemoryEventStore.
func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		events: make(map[string][]api.TransitionEvent),
	}
}

func (s *InMemoryEventStore) AppendEvent(ctx context.Context, ev api.TransitionEvent) error {
	if err := checkEvent(ev); err != nil {
		return err
	}
	ev = copyEvent(ev)
	ev.At = eventTime(ev)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[ev.WizardID] = append(s.events[ev.WizardID], ev)
	return nil
}

func (s *InMemoryEventStore) ListEvents(ctx context.Context, wizardID string) ([]api.TransitionEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.events[wizardID]
	out := make([]api.TransitionEvent, len(stored))
	for i, ev := range stored {
		out[i] = copyEvent(ev)
	}
	return out, nil
}

// copyEvent detaches the mutable parts of ev from the caller.
func copyEvent(ev api.TransitionEvent) api.TransitionEvent {
	if ev.Values != nil {
		ev.Values = ev.Values.Clone()
	}
	if ev.Errors != nil {
		errs := make(api.FieldErrors, len(ev.Errors))
		for k, v := range ev.Errors {
			errs[k] = v
		}
		ev.Errors = errs
	}
	return ev
}
