package api

// WizardState is the navigation state of a wizard.
//
// It is a plain value. Transition methods never mutate the receiver; they
// return the next state and whether the transition was allowed. A rejected
// transition returns the receiver unchanged.
type WizardState struct {
	StepCount   int
	ActiveIndex int
	Completed   bool
	Submitting  bool
}

// InitialState returns the state of a freshly mounted wizard with n steps.
func InitialState(n int) WizardState {
	return WizardState{StepCount: n}
}

// IsLastStep reports whether the active step is the final one.
func (s WizardState) IsLastStep() bool {
	return s.ActiveIndex == s.StepCount-1
}

// Terminal reports whether the wizard finished successfully and is idle.
func (s WizardState) Terminal() bool {
	return s.Completed && !s.Submitting
}

// StepCompleted reports whether step i should be shown as completed:
// every step before the active one, and every step once the final
// submission succeeded.
func (s WizardState) StepCompleted(i int) bool {
	return s.ActiveIndex > i || s.Completed
}

// Advance moves to the next step. It is rejected while submitting, on the
// last step, and in the terminal state.
func (s WizardState) Advance() (WizardState, bool) {
	if s.Submitting || s.Completed || s.IsLastStep() {
		return s, false
	}
	s.ActiveIndex++
	return s, true
}

// Retreat moves to the previous step without validation. It is rejected on
// the first step, while submitting, and in the terminal state.
func (s WizardState) Retreat() (WizardState, bool) {
	if s.Submitting || s.Completed || s.ActiveIndex == 0 {
		return s, false
	}
	s.ActiveIndex--
	return s, true
}

// BeginSubmit marks the final submission as in flight. Only allowed on the
// last step while idle and not yet completed.
func (s WizardState) BeginSubmit() (WizardState, bool) {
	if s.Submitting || s.Completed || !s.IsLastStep() {
		return s, false
	}
	s.Submitting = true
	return s, true
}

// EndSubmit records the outcome of the in-flight submission. A nil err
// completes the wizard; otherwise it returns to idle, not completed, on the
// same step so the user can retry.
func (s WizardState) EndSubmit(err error) (WizardState, bool) {
	if !s.Submitting {
		return s, false
	}
	s.Submitting = false
	s.Completed = err == nil
	return s, true
}

// Reset returns to the first step. Rejected while submitting.
func (s WizardState) Reset() (WizardState, bool) {
	if s.Submitting {
		return s, false
	}
	return InitialState(s.StepCount), true
}
