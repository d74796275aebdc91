package api

// Labels used for the advance control.
const (
	LabelNext       = "Next"
	LabelSubmit     = "Submit"
	LabelSubmitting = "Submitting..."
	LabelBack       = "Back"
)

// StepView is the presentation state of one entry in the progress indicator.
type StepView struct {
	Index     int
	Label     string
	Active    bool
	Completed bool
}

// View is everything a presentation layer needs to render the wizard chrome:
// the stepper, the active step's content, and the navigation controls.
type View struct {
	Steps       []StepView
	ActiveIndex int
	Active      StepDescriptor

	Submitting bool
	Completed  bool

	// ShowRetreat is false on the first step; CanRetreat additionally
	// accounts for the in-flight and terminal guards.
	ShowRetreat bool
	CanRetreat  bool

	CanAdvance   bool
	AdvanceLabel string
}

// BuildView projects a state over its step descriptors.
func BuildView(steps []StepDescriptor, s WizardState) View {
	v := View{
		Steps:       make([]StepView, len(steps)),
		ActiveIndex: s.ActiveIndex,
		Submitting:  s.Submitting,
		Completed:   s.Completed,
		ShowRetreat: s.ActiveIndex > 0,
	}
	for i, step := range steps {
		v.Steps[i] = StepView{
			Index:     i,
			Label:     step.Label,
			Active:    i == s.ActiveIndex,
			Completed: s.StepCompleted(i),
		}
	}
	if s.ActiveIndex >= 0 && s.ActiveIndex < len(steps) {
		v.Active = steps[s.ActiveIndex]
	}

	_, v.CanRetreat = s.Retreat()
	v.CanAdvance = !s.Submitting && !s.Completed

	switch {
	case s.Submitting:
		v.AdvanceLabel = LabelSubmitting
	case s.IsLastStep():
		v.AdvanceLabel = LabelSubmit
	default:
		v.AdvanceLabel = LabelNext
	}
	return v
}
