package api

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// WizardRef identifies the wizard instance an observer callback is about.
type WizardRef struct {
	ID   string
	Name string
}

// Observer receives callbacks from a wizard for logging and metrics.
//
// Callbacks run synchronously on the goroutine driving the wizard while
// transitions are serialized. Implementations should be fast and must not
// call back into the wizard's navigation methods; use Wizard.Subscribe to
// react to a transition with another one.
type Observer interface {
	// OnWizardStart is called once when a wizard is constructed.
	OnWizardStart(ctx context.Context, ref WizardRef, state WizardState)

	// OnTransition is called after every accepted transition, including
	// the submit start/finish transitions. state is the state after ev.
	OnTransition(ctx context.Context, ref WizardRef, ev TransitionEvent, state WizardState)

	// OnValidationFailed is called when the active step rejects an advance.
	OnValidationFailed(ctx context.Context, ref WizardRef, step StepDescriptor, errs FieldErrors)

	// OnSubmitStart is called right before the finalize callback runs.
	OnSubmitStart(ctx context.Context, ref WizardRef, step StepDescriptor)

	// OnSubmitCompleted is called when the finalize callback returns,
	// for both successes and failures (err != nil).
	OnSubmitCompleted(ctx context.Context, ref WizardRef, step StepDescriptor, err error, duration time.Duration)

	// OnJournalError is called when an event could not be appended to the
	// journal. The wizard state is not affected.
	OnJournalError(ctx context.Context, ref WizardRef, ev TransitionEvent, err error)
}

// NoopObserver is an Observer that does nothing.
// It is used as the default when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnWizardStart(ctx context.Context, ref WizardRef, state WizardState) {}
func (NoopObserver) OnTransition(ctx context.Context, ref WizardRef, ev TransitionEvent, state WizardState) {
}
func (NoopObserver) OnValidationFailed(ctx context.Context, ref WizardRef, step StepDescriptor, errs FieldErrors) {
}
func (NoopObserver) OnSubmitStart(ctx context.Context, ref WizardRef, step StepDescriptor) {}
func (NoopObserver) OnSubmitCompleted(ctx context.Context, ref WizardRef, step StepDescriptor, err error, d time.Duration) {
}
func (NoopObserver) OnJournalError(ctx context.Context, ref WizardRef, ev TransitionEvent, err error) {
}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnWizardStart(ctx context.Context, ref WizardRef, state WizardState) {
	for _, o := range c.observers {
		o.OnWizardStart(ctx, ref, state)
	}
}

func (c *CompositeObserver) OnTransition(ctx context.Context, ref WizardRef, ev TransitionEvent, state WizardState) {
	for _, o := range c.observers {
		o.OnTransition(ctx, ref, ev, state)
	}
}

func (c *CompositeObserver) OnValidationFailed(ctx context.Context, ref WizardRef, step StepDescriptor, errs FieldErrors) {
	for _, o := range c.observers {
		o.OnValidationFailed(ctx, ref, step, errs)
	}
}

func (c *CompositeObserver) OnSubmitStart(ctx context.Context, ref WizardRef, step StepDescriptor) {
	for _, o := range c.observers {
		o.OnSubmitStart(ctx, ref, step)
	}
}

func (c *CompositeObserver) OnSubmitCompleted(ctx context.Context, ref WizardRef, step StepDescriptor, err error, d time.Duration) {
	for _, o := range c.observers {
		o.OnSubmitCompleted(ctx, ref, step, err, d)
	}
}

func (c *CompositeObserver) OnJournalError(ctx context.Context, ref WizardRef, ev TransitionEvent, err error) {
	for _, o := range c.observers {
		o.OnJournalError(ctx, ref, ev, err)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs wizard lifecycle events
// using the provided slog.Logger. If logger is nil, slog.Default() is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnWizardStart(ctx context.Context, ref WizardRef, state WizardState) {
	o.Logger.InfoContext(ctx, "wizard_start",
		slog.String("wizard", ref.Name),
		slog.String("wizard_id", ref.ID),
		slog.Int("steps", state.StepCount),
	)
}

func (o *LoggingObserver) OnTransition(ctx context.Context, ref WizardRef, ev TransitionEvent, state WizardState) {
	o.Logger.DebugContext(ctx, "wizard_transition",
		slog.String("wizard", ref.Name),
		slog.String("wizard_id", ref.ID),
		slog.String("event", string(ev.Type)),
		slog.Int("step_index", state.ActiveIndex),
		slog.String("step", ev.Label),
		slog.Bool("completed", state.Completed),
		slog.Bool("submitting", state.Submitting),
	)
}

func (o *LoggingObserver) OnValidationFailed(ctx context.Context, ref WizardRef, step StepDescriptor, errs FieldErrors) {
	o.Logger.InfoContext(ctx, "validation_failed",
		slog.String("wizard", ref.Name),
		slog.String("wizard_id", ref.ID),
		slog.String("step", step.Label),
		slog.Any("fields", errs.Fields()),
	)
}

func (o *LoggingObserver) OnSubmitStart(ctx context.Context, ref WizardRef, step StepDescriptor) {
	o.Logger.InfoContext(ctx, "submit_start",
		slog.String("wizard", ref.Name),
		slog.String("wizard_id", ref.ID),
		slog.String("step", step.Label),
	)
}

func (o *LoggingObserver) OnSubmitCompleted(ctx context.Context, ref WizardRef, step StepDescriptor, err error, d time.Duration) {
	level := slog.LevelInfo
	if err != nil {
		level = slog.LevelError
	}
	o.Logger.Log(ctx, level, "submit_completed",
		slog.String("wizard", ref.Name),
		slog.String("wizard_id", ref.ID),
		slog.String("step", step.Label),
		slog.Duration("duration", d),
		slog.Any("error", err),
	)
}

func (o *LoggingObserver) OnJournalError(ctx context.Context, ref WizardRef, ev TransitionEvent, err error) {
	o.Logger.WarnContext(ctx, "journal_error",
		slog.String("wizard", ref.Name),
		slog.String("wizard_id", ref.ID),
		slog.String("event", string(ev.Type)),
		slog.Any("error", err),
	)
}

// BasicMetrics collects simple counters and the aggregate finalize duration.
// It implements Observer, and can be combined with LoggingObserver via
// NewCompositeObserver.
type BasicMetrics struct {
	NoopObserver

	wizardsStarted     atomic.Int64
	advances           atomic.Int64
	retreats           atomic.Int64
	resets             atomic.Int64
	validationFailures atomic.Int64
	submitsStarted     atomic.Int64
	submitsSucceeded   atomic.Int64
	submitsFailed      atomic.Int64
	totalSubmitTime    atomic.Int64 // nanoseconds
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	WizardsStarted     int64
	Advances           int64
	Retreats           int64
	Resets             int64
	ValidationFailures int64

	SubmitsStarted    int64
	SubmitsSucceeded  int64
	SubmitsFailed     int64
	SubmitsInFlight   int64
	AvgSubmitDuration time.Duration
}

func (m *BasicMetrics) OnWizardStart(ctx context.Context, ref WizardRef, state WizardState) {
	m.wizardsStarted.Add(1)
}

func (m *BasicMetrics) OnTransition(ctx context.Context, ref WizardRef, ev TransitionEvent, state WizardState) {
	switch ev.Type {
	case EventStepAdvanced:
		m.advances.Add(1)
	case EventStepRetreated:
		m.retreats.Add(1)
	case EventWizardReset:
		m.resets.Add(1)
	}
}

func (m *BasicMetrics) OnValidationFailed(ctx context.Context, ref WizardRef, step StepDescriptor, errs FieldErrors) {
	m.validationFailures.Add(1)
}

func (m *BasicMetrics) OnSubmitStart(ctx context.Context, ref WizardRef, step StepDescriptor) {
	m.submitsStarted.Add(1)
}

func (m *BasicMetrics) OnSubmitCompleted(ctx context.Context, ref WizardRef, step StepDescriptor, err error, d time.Duration) {
	if err != nil {
		m.submitsFailed.Add(1)
	} else {
		m.submitsSucceeded.Add(1)
	}
	m.totalSubmitTime.Add(d.Nanoseconds())
}

// Snapshot returns a snapshot of the current metrics.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	started := m.submitsStarted.Load()
	succeeded := m.submitsSucceeded.Load()
	failed := m.submitsFailed.Load()
	totalNs := m.totalSubmitTime.Load()

	var avg time.Duration
	if done := succeeded + failed; done > 0 {
		avg = time.Duration(totalNs / done)
	}

	return BasicMetricsSnapshot{
		WizardsStarted:     m.wizardsStarted.Load(),
		Advances:           m.advances.Load(),
		Retreats:           m.retreats.Load(),
		Resets:             m.resets.Load(),
		ValidationFailures: m.validationFailures.Load(),
		SubmitsStarted:     started,
		SubmitsSucceeded:   succeeded,
		SubmitsFailed:      failed,
		SubmitsInFlight:    started - succeeded - failed,
		AvgSubmitDuration:  avg,
	}
}
