package api

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSteps is returned when a wizard is defined without steps.
	ErrNoSteps = errors.New("wizard must have at least one step")

	// ErrEmptyLabel is returned when a step has no label.
	ErrEmptyLabel = errors.New("step label is required")

	// ErrDuplicateLabel is returned when two steps share a label.
	ErrDuplicateLabel = errors.New("duplicate step label")
)

// StepDescriptor is the static definition of one page of a wizard.
type StepDescriptor struct {
	// Label is shown in the progress indicator. Unique within a wizard.
	Label string

	// Validator gates advancing from this step. Nil means always valid.
	Validator Validator

	// Content is an opaque reference to the step's field set. The engine
	// never inspects it; presentation layers usually store a FieldSet here.
	Content any
}

// Validate runs the step's validator, treating a missing validator as valid.
func (s StepDescriptor) Validate(values *FormValues) FieldErrors {
	if s.Validator == nil {
		return nil
	}
	return s.Validator.Validate(values)
}

// FieldKind tells a presentation layer which widget to use.
type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldNumber   FieldKind = "number"
	FieldBoolean  FieldKind = "boolean"
	FieldTextArea FieldKind = "textarea"
)

// FieldSpec describes a single input on a step.
type FieldSpec struct {
	Name  string
	Label string
	Kind  FieldKind
	Help  string
}

// FieldSet is the conventional StepDescriptor.Content value.
type FieldSet []FieldSpec

// FieldSetOf returns the FieldSet stored in a step's Content, if any.
func FieldSetOf(step StepDescriptor) (FieldSet, bool) {
	fs, ok := step.Content.(FieldSet)
	return fs, ok
}

// ValidateSteps checks that steps is non-empty and labels are present and
// unique.
func ValidateSteps(steps []StepDescriptor) error {
	if len(steps) == 0 {
		return ErrNoSteps
	}
	seen := make(map[string]int, len(steps))
	for i, s := range steps {
		if s.Label == "" {
			return fmt.Errorf("step %d: %w", i, ErrEmptyLabel)
		}
		if prev, ok := seen[s.Label]; ok {
			return fmt.Errorf("%w: %q (steps %d and %d)", ErrDuplicateLabel, s.Label, prev, i)
		}
		seen[s.Label] = i
	}
	return nil
}
