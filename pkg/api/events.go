package api

import (
	"fmt"
	"time"
)

// EventType identifies a wizard transition event.
type EventType string

const (
	EventWizardStarted EventType = "wizard.started"
	EventWizardReset   EventType = "wizard.reset"

	EventStepAdvanced     EventType = "step.advanced"
	EventStepRetreated    EventType = "step.retreated"
	EventValidationFailed EventType = "step.validation_failed"

	EventSubmitStarted   EventType = "submit.started"
	EventSubmitSucceeded EventType = "submit.succeeded"
	EventSubmitFailed    EventType = "submit.failed"
)

// TransitionEvent is an append-only journal record of one accepted
// transition (or rejected advance). Replaying a wizard's events in order
// reproduces its WizardState.
type TransitionEvent struct {
	WizardID   string
	WizardName string
	At         time.Time
	Type       EventType

	// Step is the active index after the event; Label is that step's label.
	Step  int
	Label string

	// Detail carries a short human-oriented note, e.g. a submission error.
	Detail string

	// Errors is set for EventValidationFailed.
	Errors FieldErrors

	// Values is a snapshot of the form values at the time of the event.
	Values *FormValues
}

// Apply folds a single event into s.
func (s WizardState) Apply(ev TransitionEvent) (WizardState, error) {
	var (
		next WizardState
		ok   bool
	)
	switch ev.Type {
	case EventWizardStarted:
		next, ok = InitialState(s.StepCount), true
	case EventWizardReset:
		next, ok = s.Reset()
	case EventStepAdvanced:
		next, ok = s.Advance()
	case EventStepRetreated:
		next, ok = s.Retreat()
	case EventValidationFailed:
		next, ok = s, !s.Submitting
	case EventSubmitStarted:
		next, ok = s.BeginSubmit()
	case EventSubmitSucceeded:
		next, ok = s.EndSubmit(nil)
	case EventSubmitFailed:
		next, ok = s.EndSubmit(fmt.Errorf("%s", ev.Detail))
	default:
		return s, fmt.Errorf("unknown event type %q", ev.Type)
	}
	if !ok {
		return s, fmt.Errorf("event %s not applicable at step %d", ev.Type, s.ActiveIndex)
	}
	if next.ActiveIndex != ev.Step {
		return s, fmt.Errorf("event %s records step %d, replay reached %d", ev.Type, ev.Step, next.ActiveIndex)
	}
	return next, nil
}

// Replay folds events, in order, over the initial state of a wizard with
// stepCount steps.
func Replay(stepCount int, events []TransitionEvent) (WizardState, error) {
	s := InitialState(stepCount)
	for i, ev := range events {
		next, err := s.Apply(ev)
		if err != nil {
			return s, fmt.Errorf("replay event %d: %w", i, err)
		}
		s = next
	}
	return s, nil
}

// Rewind replays only the first n events, giving the state as it was right
// after the n-th transition.
func Rewind(stepCount int, events []TransitionEvent, n int) (WizardState, error) {
	if n < 0 {
		n = 0
	}
	if n > len(events) {
		n = len(events)
	}
	return Replay(stepCount, events[:n])
}
