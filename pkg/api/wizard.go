package api

import "context"

// Outcome describes what a navigation request did.
type Outcome string

const (
	// OutcomeIgnored means a guard rejected the request (submitting, first
	// step, or terminal state). Not an error.
	OutcomeIgnored Outcome = "ignored"

	OutcomeAdvanced  Outcome = "advanced"
	OutcomeRetreated Outcome = "retreated"
	OutcomeReset     Outcome = "reset"

	// OutcomeInvalid means the active step's validator rejected the values.
	OutcomeInvalid Outcome = "invalid"

	OutcomeSubmitted    Outcome = "submitted"
	OutcomeSubmitFailed Outcome = "submit_failed"
)

// FinalizeFunc is the external action run once the last step validates.
// It receives a copy of the full form values. A non-nil error is surfaced to
// the caller wrapped in a SubmissionError.
type FinalizeFunc func(ctx context.Context, values *FormValues) error

// Definition is the static description a wizard is constructed from.
type Definition struct {
	Name   string
	Steps  []StepDescriptor
	Values *FormValues
}

// Wizard is the step-sequencing and submission state machine.
//
// Navigation methods are safe to call from multiple goroutines. While the
// finalize callback runs, RequestAdvance, RequestRetreat and Reset return
// OutcomeIgnored.
type Wizard interface {
	// ID is the unique identifier of this wizard instance.
	ID() string

	// Name is the definition name.
	Name() string

	// Steps returns the fixed step sequence.
	Steps() []StepDescriptor

	// Values returns the live form values owned by this wizard. Presentation
	// layers write field edits here.
	Values() *FormValues

	// State returns a snapshot of the navigation state.
	State() WizardState

	// CurrentStep returns the descriptor of the active step.
	CurrentStep() StepDescriptor

	// IsLastStep reports whether the active step is the final one.
	IsLastStep() bool

	// StepCompleted reports whether step i is shown as completed.
	StepCompleted(i int) bool

	// View projects the current state for rendering.
	View() View

	// RequestAdvance validates values against the active step only and
	// either advances, or on the last step runs the finalize callback and
	// waits for it. Errors are *ValidationError or *SubmissionError.
	RequestAdvance(ctx context.Context, values *FormValues) (Outcome, error)

	// RequestRetreat moves back one step without validating.
	RequestRetreat(ctx context.Context) Outcome

	// Reset returns to the first step and restores the initial values.
	// It is never invoked automatically.
	Reset(ctx context.Context) Outcome

	// Subscribe registers fn to receive the state after every accepted
	// transition, in transition order. Notifications are delivered after the
	// wizard's locks are released, so fn may call navigation methods such as
	// Reset. A state may be delivered on the goroutine of a concurrent
	// caller. The returned function removes the subscription.
	Subscribe(fn func(WizardState)) (cancel func())

	// History returns this wizard's journaled transitions in order.
	History(ctx context.Context) ([]TransitionEvent, error)
}
