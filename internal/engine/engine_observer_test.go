package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/petrijr/formflow/pkg/api"
)

// fakeObserver records all calls from the engine so we can assert on them.
type fakeObserver struct {
	mu sync.Mutex

	starts      []api.WizardRef
	transitions []api.EventType
	invalid     []api.FieldErrors
	submits     int
	completions []error
	durations   []time.Duration
	journalErrs []api.EventType
}

func (o *fakeObserver) OnWizardStart(ctx context.Context, ref api.WizardRef, state api.WizardState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.starts = append(o.starts, ref)
}

func (o *fakeObserver) OnTransition(ctx context.Context, ref api.WizardRef, ev api.TransitionEvent, state api.WizardState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transitions = append(o.transitions, ev.Type)
}

func (o *fakeObserver) OnValidationFailed(ctx context.Context, ref api.WizardRef, step api.StepDescriptor, errs api.FieldErrors) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.invalid = append(o.invalid, errs)
}

func (o *fakeObserver) OnSubmitStart(ctx context.Context, ref api.WizardRef, step api.StepDescriptor) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.submits++
}

func (o *fakeObserver) OnSubmitCompleted(ctx context.Context, ref api.WizardRef, step api.StepDescriptor, err error, d time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.completions = append(o.completions, err)
	o.durations = append(o.durations, d)
}

func (o *fakeObserver) OnJournalError(ctx context.Context, ref api.WizardRef, ev api.TransitionEvent, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.journalErrs = append(o.journalErrs, ev.Type)
}

// failingJournal rejects every append.
type failingJournal struct{}

func (failingJournal) AppendEvent(ctx context.Context, ev api.TransitionEvent) error {
	return errors.New("journal offline")
}

func (failingJournal) ListEvents(ctx context.Context, wizardID string) ([]api.TransitionEvent, error) {
	return nil, errors.New("journal offline")
}

// steppingClock advances by one second per call.
func steppingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Unix(1_700_000_000, 0)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func TestObserver_ReceivesLifecycle(t *testing.T) {
	ctx := context.Background()
	obs := &fakeObserver{}
	w := newTestWizard(t, millionaireDefinition(&callCounter{}), Config{
		ID:       "wiz-1",
		Observer: obs,
		Now:      steppingClock(),
		Finalize: func(ctx context.Context, values *api.FormValues) error {
			return errors.New("nope")
		},
	})

	_, _ = w.RequestAdvance(ctx, nil)
	advanceTo(t, w, 2)
	_, _ = w.RequestAdvance(ctx, nil)

	if len(obs.starts) != 1 || obs.starts[0].ID != "wiz-1" || obs.starts[0].Name != "millionaire" {
		t.Fatalf("unexpected starts: %+v", obs.starts)
	}
	if len(obs.invalid) != 1 {
		t.Fatalf("expected one validation failure, got %d", len(obs.invalid))
	}
	wantTransitions := []api.EventType{
		api.EventStepAdvanced,
		api.EventStepAdvanced,
		api.EventSubmitStarted,
		api.EventSubmitFailed,
	}
	if len(obs.transitions) != len(wantTransitions) {
		t.Fatalf("transitions = %v, want %v", obs.transitions, wantTransitions)
	}
	for i := range wantTransitions {
		if obs.transitions[i] != wantTransitions[i] {
			t.Fatalf("transitions = %v, want %v", obs.transitions, wantTransitions)
		}
	}
	if obs.submits != 1 || len(obs.completions) != 1 || !api.IsSubmissionError(obs.completions[0]) {
		t.Fatalf("unexpected submit callbacks: submits=%d completions=%v", obs.submits, obs.completions)
	}
	if obs.durations[0] != time.Second {
		t.Fatalf("expected duration from the injected clock, got %v", obs.durations[0])
	}
}

func TestObserver_BasicMetricsThroughEngine(t *testing.T) {
	ctx := context.Background()
	metrics := &api.BasicMetrics{}
	w := newTestWizard(t, millionaireDefinition(&callCounter{}), Config{Observer: metrics})

	_, _ = w.RequestAdvance(ctx, nil)
	advanceTo(t, w, 2)
	w.RequestRetreat(ctx)
	advanceTo(t, w, 2)
	_, _ = w.RequestAdvance(ctx, nil)
	w.Reset(ctx)

	snap := metrics.Snapshot()
	if snap.WizardsStarted != 1 || snap.ValidationFailures != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.Advances != 3 || snap.Retreats != 1 || snap.Resets != 1 {
		t.Fatalf("unexpected navigation counters: %+v", snap)
	}
	if snap.SubmitsSucceeded != 1 || snap.SubmitsInFlight != 0 {
		t.Fatalf("unexpected submit counters: %+v", snap)
	}
}

func TestJournalFailure_DoesNotAffectNavigation(t *testing.T) {
	ctx := context.Background()
	obs := &fakeObserver{}
	w := newTestWizard(t, millionaireDefinition(&callCounter{}), Config{
		Observer: obs,
		Journal:  failingJournal{},
	})

	advanceTo(t, w, 1)
	if w.State().ActiveIndex != 1 {
		t.Fatalf("navigation should proceed without a journal")
	}
	if len(obs.journalErrs) != 2 || obs.journalErrs[0] != api.EventWizardStarted || obs.journalErrs[1] != api.EventStepAdvanced {
		t.Fatalf("expected journal errors to be reported, got %v", obs.journalErrs)
	}
	if _, err := w.History(ctx); err == nil {
		t.Fatalf("expected History to surface the journal error")
	}
}
