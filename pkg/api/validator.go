package api

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// FieldErrors maps a field name to a human-readable message.
// An empty or nil FieldErrors means the values are valid.
type FieldErrors map[string]string

// Valid reports whether there are no errors.
func (fe FieldErrors) Valid() bool {
	return len(fe) == 0
}

// Fields returns the failing field names, sorted.
func (fe FieldErrors) Fields() []string {
	out := make([]string, 0, len(fe))
	for name := range fe {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Validator checks the current form values for one step.
//
// Implementations must be pure: no side effects, and no dependency on wizard
// navigation state. They only see the values.
type Validator interface {
	Validate(values *FormValues) FieldErrors
}

// ValidatorFunc adapts a function into a Validator.
type ValidatorFunc func(values *FormValues) FieldErrors

// Validate calls fn(values).
func (fn ValidatorFunc) Validate(values *FormValues) FieldErrors {
	return fn(values)
}

// ValidationError is returned by Wizard.RequestAdvance when the active step's
// validator rejects the values. The wizard state is unchanged.
type ValidationError struct {
	Step   string
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, name := range e.Fields.Fields() {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return fmt.Sprintf("step %q is invalid: %s", e.Step, strings.Join(parts, "; "))
}

// IsValidationError returns the field errors if err is (or wraps) a
// ValidationError.
func IsValidationError(err error) (FieldErrors, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Fields, true
	}
	return nil, false
}

// SubmissionError wraps an error returned by the finalize callback.
// The wizard stays on the last step with all values intact.
type SubmissionError struct {
	Step string
	Err  error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission of step %q failed: %v", e.Step, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// IsSubmissionError reports whether err is (or wraps) a SubmissionError.
func IsSubmissionError(err error) bool {
	var s *SubmissionError
	return errors.As(err, &s)
}
