package api

import "testing"

func TestWizardState_AdvanceToLastStep(t *testing.T) {
	s := InitialState(3)

	s, ok := s.Advance()
	if !ok || s.ActiveIndex != 1 {
		t.Fatalf("expected advance to step 1, got %+v ok=%v", s, ok)
	}
	s, ok = s.Advance()
	if !ok || s.ActiveIndex != 2 {
		t.Fatalf("expected advance to step 2, got %+v ok=%v", s, ok)
	}
	if !s.IsLastStep() {
		t.Fatalf("expected step 2 to be the last step")
	}
	if _, ok := s.Advance(); ok {
		t.Fatalf("expected advance past the last step to be rejected")
	}
}

func TestWizardState_RetreatRejectedOnFirstStep(t *testing.T) {
	s := InitialState(3)
	next, ok := s.Retreat()
	if ok {
		t.Fatalf("expected retreat on first step to be rejected")
	}
	if next != s {
		t.Fatalf("rejected transition must return the receiver unchanged, got %+v", next)
	}
}

func TestWizardState_SubmittingBlocksNavigation(t *testing.T) {
	s := WizardState{StepCount: 2, ActiveIndex: 1}

	s, ok := s.BeginSubmit()
	if !ok || !s.Submitting {
		t.Fatalf("expected submission to start, got %+v", s)
	}
	if _, ok := s.BeginSubmit(); ok {
		t.Fatalf("expected second BeginSubmit to be rejected")
	}
	if _, ok := s.Retreat(); ok {
		t.Fatalf("expected retreat while submitting to be rejected")
	}
	if _, ok := s.Reset(); ok {
		t.Fatalf("expected reset while submitting to be rejected")
	}
}

func TestWizardState_BeginSubmitOnlyOnLastStep(t *testing.T) {
	s := InitialState(2)
	if _, ok := s.BeginSubmit(); ok {
		t.Fatalf("expected BeginSubmit on a non-final step to be rejected")
	}
}

func TestWizardState_EndSubmit(t *testing.T) {
	submitting := WizardState{StepCount: 2, ActiveIndex: 1, Submitting: true}

	failed, ok := submitting.EndSubmit(errTest)
	if !ok {
		t.Fatalf("expected EndSubmit to be accepted")
	}
	if failed.Submitting || failed.Completed || failed.ActiveIndex != 1 {
		t.Fatalf("failed submission should return to idle on the last step, got %+v", failed)
	}

	done, ok := submitting.EndSubmit(nil)
	if !ok || !done.Completed || done.Submitting {
		t.Fatalf("successful submission should complete the wizard, got %+v", done)
	}
	if !done.Terminal() {
		t.Fatalf("expected terminal state")
	}

	if _, ok := InitialState(2).EndSubmit(nil); ok {
		t.Fatalf("expected EndSubmit without a submission in flight to be rejected")
	}
}

func TestWizardState_TerminalIgnoresNavigation(t *testing.T) {
	s := WizardState{StepCount: 3, ActiveIndex: 2, Completed: true}

	if _, ok := s.Advance(); ok {
		t.Fatalf("advance in terminal state should be rejected")
	}
	if _, ok := s.Retreat(); ok {
		t.Fatalf("retreat in terminal state should be rejected")
	}
	if _, ok := s.BeginSubmit(); ok {
		t.Fatalf("begin submit in terminal state should be rejected")
	}

	reset, ok := s.Reset()
	if !ok {
		t.Fatalf("expected reset from terminal state to be accepted")
	}
	if reset != InitialState(3) {
		t.Fatalf("expected initial state after reset, got %+v", reset)
	}
}

func TestWizardState_StepCompleted(t *testing.T) {
	s := WizardState{StepCount: 3, ActiveIndex: 1}

	if !s.StepCompleted(0) {
		t.Fatalf("step before active should be completed")
	}
	if s.StepCompleted(1) || s.StepCompleted(2) {
		t.Fatalf("active and later steps should not be completed")
	}

	s.ActiveIndex, s.Completed = 2, true
	for i := 0; i < 3; i++ {
		if !s.StepCompleted(i) {
			t.Fatalf("step %d should be completed once the wizard is done", i)
		}
	}
}

func TestWizardState_SingleStep(t *testing.T) {
	s := InitialState(1)
	if !s.IsLastStep() {
		t.Fatalf("the only step is also the last")
	}
	if _, ok := s.Advance(); ok {
		t.Fatalf("single-step wizard cannot advance without submitting")
	}
	if _, ok := s.BeginSubmit(); !ok {
		t.Fatalf("single-step wizard should be able to submit")
	}
}
