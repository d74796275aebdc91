// Package api contains the core building blocks used by the formflow wizard
// engine. It provides the value types, validation contracts, navigation state
// and observability hooks that the engine and presentation layers share.
//
// Most users interact with the higher-level formflow package, which
// re-exports selected types and helpers from this package. The api package is
// intended for custom presentation layers, journal backends, or contributors
// extending the engine itself.
//
// # Concepts
//
// The api package centers around a small set of concepts:
//
//   - Form values and step descriptors
//   - Validators and field errors
//   - Navigation state and transitions
//   - Observability and the transition journal
//
// # Form Values
//
// FormValues is a single ordered collection of field values shared by every
// step of a wizard. Values are strings, numbers (float64) or booleans. They
// can be edited directly with Set, or through RFC 6902 JSON Patch documents
// with ApplyPatch.
//
// # Steps and Validators
//
// A StepDescriptor is the static definition of one page: a unique label, an
// optional Validator and an opaque Content reference the engine never reads.
// Validators are pure functions of the values and return FieldErrors, which
// is empty when the step is valid.
//
// # Navigation State
//
// WizardState holds the active step, whether the final submission succeeded,
// and whether a submission is in flight. Its transition methods (Advance,
// Retreat, BeginSubmit, EndSubmit, Reset) are pure: they return the next
// state and whether the transition was allowed. The engine wraps them with
// validation and the submission guard.
//
// BuildView projects a state over its steps into everything a renderer
// needs: per-step progress entries, button labels and enablement.
//
// # Observability
//
// The Observer interface is used by the engine to report lifecycle events.
// Ready-made implementations cover structured logging (LoggingObserver),
// in-memory counters (BasicMetrics) and fan-out (NewCompositeObserver).
//
// Every accepted transition is also recorded as a TransitionEvent. Replay
// folds a recorded history back into a WizardState, and Rewind does the same
// for a prefix of it.
package api
