package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/petrijr/formflow/internal/persistence"
	"github.com/petrijr/formflow/pkg/api"
)

// wizardImpl is the in-process wizard state machine.
//
// mu guards state. emitMu keeps observer and journal emissions in
// transition order; it is taken before mu is released so no later transition
// can overtake an earlier one. Subscriber notifications are queued under
// emitMu and delivered after it is released, so subscribers may call back
// into the wizard.
type wizardImpl struct {
	id     string
	name   string
	steps  []api.StepDescriptor
	values *api.FormValues

	// initial is the pristine copy restored by Reset.
	initial *api.FormValues

	mu    sync.Mutex
	state api.WizardState

	emitMu sync.Mutex

	submit   *coordinator
	journal  persistence.EventStore
	observer api.Observer
	now      func() time.Time

	subMu    sync.Mutex
	subs     map[int]func(api.WizardState)
	nextSub  int
	pending  []api.WizardState
	draining bool
}

// Config describes how to construct a wizard.
// Only used inside this module; external callers use the formflow builder.
type Config struct {
	// ID overrides the generated UUID.
	ID string

	Finalize api.FinalizeFunc
	Journal  persistence.EventStore
	Observer api.Observer

	// Now is the clock used for event timestamps and submit durations.
	Now func() time.Time
}

// New validates def and returns a wizard positioned on its first step.
//
// A nil Journal defaults to an in-memory store, so History is always
// available. A nil Observer defaults to api.NoopObserver.
func New(def api.Definition, cfg Config) (api.Wizard, error) {
	if err := api.ValidateSteps(def.Steps); err != nil {
		return nil, err
	}

	id := cfg.ID
	if id == "" {
		id = uuid.NewString()
	}
	obs := cfg.Observer
	if obs == nil {
		obs = api.NoopObserver{}
	}
	journal := cfg.Journal
	if journal == nil {
		journal = persistence.NewInMemoryEventStore()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	values := def.Values.Clone()
	steps := make([]api.StepDescriptor, len(def.Steps))
	copy(steps, def.Steps)

	w := &wizardImpl{
		id:       id,
		name:     def.Name,
		steps:    steps,
		values:   values,
		initial:  values.Clone(),
		state:    api.InitialState(len(steps)),
		submit:   newCoordinator(cfg.Finalize, obs, now),
		journal:  journal,
		observer: obs,
		now:      now,
		subs:     make(map[int]func(api.WizardState)),
	}

	ctx := context.Background()
	w.observer.OnWizardStart(ctx, w.ref(), w.state)
	w.emitMu.Lock()
	w.record(ctx, w.event(api.EventWizardStarted, w.state, w.values, ""))
	w.emitMu.Unlock()

	return w, nil
}

func (w *wizardImpl) ID() string   { return w.id }
func (w *wizardImpl) Name() string { return w.name }

func (w *wizardImpl) Steps() []api.StepDescriptor {
	out := make([]api.StepDescriptor, len(w.steps))
	copy(out, w.steps)
	return out
}

func (w *wizardImpl) Values() *api.FormValues { return w.values }

func (w *wizardImpl) State() api.WizardState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *wizardImpl) CurrentStep() api.StepDescriptor {
	return w.steps[w.State().ActiveIndex]
}

func (w *wizardImpl) IsLastStep() bool {
	return w.State().IsLastStep()
}

func (w *wizardImpl) StepCompleted(i int) bool {
	return w.State().StepCompleted(i)
}

func (w *wizardImpl) View() api.View {
	return api.BuildView(w.steps, w.State())
}

func (w *wizardImpl) RequestAdvance(ctx context.Context, values *api.FormValues) (api.Outcome, error) {
	if values == nil {
		values = w.values
	}

	w.mu.Lock()
	if w.state.Submitting || w.state.Completed {
		w.mu.Unlock()
		return api.OutcomeIgnored, nil
	}

	step := w.steps[w.state.ActiveIndex]
	if errs := w.validateLocked(step, values); !errs.Valid() {
		ev := w.event(api.EventValidationFailed, w.state, values, "")
		ev.Errors = errs
		w.emitMu.Lock()
		w.mu.Unlock()

		w.observer.OnValidationFailed(ctx, w.ref(), step, errs)
		w.record(ctx, ev)
		w.emitMu.Unlock()
		return api.OutcomeInvalid, &api.ValidationError{Step: step.Label, Fields: errs}
	}

	if next, ok := w.state.Advance(); ok {
		w.state = next
		w.emitMu.Lock()
		w.mu.Unlock()

		w.emit(ctx, w.event(api.EventStepAdvanced, next, values, ""), next)
		w.release()
		return api.OutcomeAdvanced, nil
	}

	next, ok := w.state.BeginSubmit()
	if !ok || !w.submit.begin() {
		w.mu.Unlock()
		return api.OutcomeIgnored, nil
	}
	w.state = next
	w.emitMu.Lock()
	w.mu.Unlock()
	w.emit(ctx, w.event(api.EventSubmitStarted, next, values, ""), next)
	w.release()

	// Navigation is ignored while finalize runs; the lock is not held.
	err := w.submit.submit(ctx, w.ref(), step, values)

	w.mu.Lock()
	done, _ := w.state.EndSubmit(err)
	w.state = done
	w.emitMu.Lock()
	w.mu.Unlock()

	if err != nil {
		w.emit(ctx, w.event(api.EventSubmitFailed, done, values, submissionDetail(err)), done)
		w.release()
		return api.OutcomeSubmitFailed, err
	}
	w.emit(ctx, w.event(api.EventSubmitSucceeded, done, values, ""), done)
	w.release()
	return api.OutcomeSubmitted, nil
}

func (w *wizardImpl) RequestRetreat(ctx context.Context) api.Outcome {
	w.mu.Lock()
	next, ok := w.state.Retreat()
	if !ok {
		w.mu.Unlock()
		return api.OutcomeIgnored
	}
	w.state = next
	w.emitMu.Lock()
	w.mu.Unlock()

	w.emit(ctx, w.event(api.EventStepRetreated, next, w.values, ""), next)
	w.release()
	return api.OutcomeRetreated
}

func (w *wizardImpl) Reset(ctx context.Context) api.Outcome {
	w.mu.Lock()
	next, ok := w.state.Reset()
	if !ok {
		w.mu.Unlock()
		return api.OutcomeIgnored
	}
	w.state = next
	w.values.Replace(w.initial)
	w.emitMu.Lock()
	w.mu.Unlock()

	w.emit(ctx, w.event(api.EventWizardReset, next, w.values, ""), next)
	w.release()
	return api.OutcomeReset
}

func (w *wizardImpl) Subscribe(fn func(api.WizardState)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	w.subMu.Lock()
	id := w.nextSub
	w.nextSub++
	w.subs[id] = fn
	w.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			w.subMu.Lock()
			delete(w.subs, id)
			w.subMu.Unlock()
		})
	}
}

func (w *wizardImpl) History(ctx context.Context) ([]api.TransitionEvent, error) {
	evs, err := w.journal.ListEvents(ctx, w.id)
	if err != nil {
		return nil, fmt.Errorf("list events for wizard %s: %w", w.id, err)
	}
	return evs, nil
}

func (w *wizardImpl) ref() api.WizardRef {
	return api.WizardRef{ID: w.id, Name: w.name}
}

func (w *wizardImpl) event(typ api.EventType, s api.WizardState, values *api.FormValues, detail string) api.TransitionEvent {
	return api.TransitionEvent{
		WizardID:   w.id,
		WizardName: w.name,
		At:         w.now(),
		Type:       typ,
		Step:       s.ActiveIndex,
		Label:      w.steps[s.ActiveIndex].Label,
		Detail:     detail,
		Values:     values.Clone(),
	}
}

// emit reports an accepted transition. Callers hold emitMu and call
// release afterwards.
func (w *wizardImpl) emit(ctx context.Context, ev api.TransitionEvent, s api.WizardState) {
	w.observer.OnTransition(ctx, w.ref(), ev, s)
	w.record(ctx, ev)
	w.enqueue(s)
}

// release unlocks emitMu and delivers queued subscriber notifications.
func (w *wizardImpl) release() {
	w.emitMu.Unlock()
	w.drain()
}

// validateLocked runs the step validator while mu is held. A panicking
// validator unlocks mu before the panic propagates.
func (w *wizardImpl) validateLocked(step api.StepDescriptor, values *api.FormValues) api.FieldErrors {
	defer func() {
		if r := recover(); r != nil {
			w.mu.Unlock()
			panic(r)
		}
	}()
	return step.Validate(values)
}

// record appends ev to the journal. Failures are reported, never returned:
// the journal does not gate navigation.
func (w *wizardImpl) record(ctx context.Context, ev api.TransitionEvent) {
	if err := w.journal.AppendEvent(ctx, ev); err != nil {
		w.observer.OnJournalError(ctx, w.ref(), ev, err)
	}
}

func (w *wizardImpl) enqueue(s api.WizardState) {
	w.subMu.Lock()
	if len(w.subs) > 0 {
		w.pending = append(w.pending, s)
	}
	w.subMu.Unlock()
}

// drain delivers queued states in order. Only one goroutine drains at a
// time; a subscriber that triggers another transition has its state
// delivered by the loop already running.
func (w *wizardImpl) drain() {
	w.subMu.Lock()
	if w.draining {
		w.subMu.Unlock()
		return
	}
	w.draining = true
	w.subMu.Unlock()

	finished := false
	defer func() {
		if !finished {
			w.subMu.Lock()
			w.draining = false
			w.subMu.Unlock()
		}
	}()

	for {
		w.subMu.Lock()
		if len(w.pending) == 0 {
			w.draining = false
			w.subMu.Unlock()
			finished = true
			return
		}
		s := w.pending[0]
		w.pending = w.pending[1:]
		fns := make([]func(api.WizardState), 0, len(w.subs))
		for id := 0; id < w.nextSub; id++ {
			if fn, ok := w.subs[id]; ok {
				fns = append(fns, fn)
			}
		}
		w.subMu.Unlock()

		for _, fn := range fns {
			fn(s)
		}
	}
}

func submissionDetail(err error) string {
	var se *api.SubmissionError
	if errors.As(err, &se) && se.Err != nil {
		return se.Err.Error()
	}
	return err.Error()
}
