// Package formflow provides an embeddable multi-step form wizard engine for Go.
//
// A wizard walks a user through an ordered list of steps that share a single
// set of form values. Each step may carry a validator that gates advancing
// past it; the last step hands the complete values to a finalize action. The
// engine owns the navigation state, and presentation layers (terminal, web,
// anything else) render from it.
//
// # Core Concepts
//
// The formflow programming model is intentionally small:
//
//  1. Wizard
//  2. WizardBuilder
//  3. Validator
//  4. FinalizeFunc
//  5. Journal
//
// # Wizard
//
// A Wizard tracks the active step, whether the final submission succeeded,
// and whether a submission is in flight. It exposes:
//   - RequestAdvance, which validates the active step only and either moves
//     forward or, on the last step, runs the finalize action
//   - RequestRetreat, which moves back one step without validating
//   - Reset, an explicit return to the first step with the initial values
//   - View, a projection for rendering the stepper and navigation controls
//   - Subscribe, to re-render after every accepted transition
//
// Navigation requests made while a submission is in flight are ignored, so
// at most one finalize call runs at a time. A failed submission keeps every
// value and leaves the wizard on the last step for a retry. After a
// successful submission the wizard stays on the last step, completed.
//
// # WizardBuilder
//
// WizardBuilder provides the fluent API used to define wizards in code:
//
//	w, err := formflow.New("signup").
//	    Step("Personal Info", rules.Object(
//	        rules.Field("firstName", rules.Required()),
//	        rules.Field("lastName", rules.Required()),
//	    )).
//	    Step("Additional Info", nil).
//	    Value("firstName", "").
//	    Value("lastName", "").
//	    Finalize(save).
//	    Build()
//
// Definitions can also be loaded from YAML with LoadWizard; see the
// definition package for the format.
//
// # Validators
//
// A Validator is a pure function from form values to field errors. The
// rules package offers composable field rules, including conditional ones,
// and a JSON Schema adapter.
//
// # Journal
//
// Every accepted transition is recorded as a TransitionEvent in a journal.
// Journals can be backed by different storage systems:
//
//   - In-memory (the default)
//   - SQLite
//   - Postgres
//   - Redis
//   - MongoDB
//
// Replay folds a recorded history back into a WizardState, which makes it
// possible to inspect or debug any past session step by step.
//
// # Observability
//
// Observers receive lifecycle callbacks. LoggingObserver writes structured
// logs with log/slog, BasicMetrics keeps in-memory counters, and
// NewCompositeObserver combines several.
package formflow
