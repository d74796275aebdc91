package formflow

import (
	"fmt"
)

// WizardBuilder provides a fluent API for defining wizards:
//
//	w, err := formflow.New("signup").
//	    Step("Personal Info", personalInfo).
//	    Step("Bank statement", bankStatement).
//	    Step("Additional Info", nil).
//	    Value("firstName", "").
//	    Value("money", 0).
//	    Finalize(save).
//	    Build(formflow.WithObserver(obs))
type WizardBuilder struct {
	def      Definition
	values   []Field
	finalize FinalizeFunc
}

// New creates a new wizard builder with the given name.
func New(name string) *WizardBuilder {
	if name == "" {
		panic("formflow: wizard name must not be empty")
	}
	return &WizardBuilder{
		def: Definition{
			Name:  name,
			Steps: make([]StepDescriptor, 0),
		},
	}
}

// Name returns the wizard name.
func (b *WizardBuilder) Name() string {
	return b.def.Name
}

// Step appends a step. A nil validator means the step is always valid.
func (b *WizardBuilder) Step(label string, v Validator) *WizardBuilder {
	return b.StepWithContent(label, v, nil)
}

// StepWithContent appends a step carrying an opaque content reference,
// usually a FieldSet for the presentation layer.
func (b *WizardBuilder) StepWithContent(label string, v Validator, content any) *WizardBuilder {
	if label == "" {
		panic("formflow: step label must not be empty")
	}
	for _, s := range b.def.Steps {
		if s.Label == label {
			panic(fmt.Sprintf("formflow: duplicate step label %q", label))
		}
	}
	b.def.Steps = append(b.def.Steps, StepDescriptor{
		Label:     label,
		Validator: v,
		Content:   content,
	})
	return b
}

// Value adds an initial form value.
func (b *WizardBuilder) Value(name string, value any) *WizardBuilder {
	b.values = append(b.values, Field{Name: name, Value: value})
	return b
}

// Values adds several initial form values, in order.
func (b *WizardBuilder) Values(fields ...Field) *WizardBuilder {
	b.values = append(b.values, fields...)
	return b
}

// Finalize sets the action run once the last step validates.
func (b *WizardBuilder) Finalize(fn FinalizeFunc) *WizardBuilder {
	b.finalize = fn
	return b
}

// Definition returns the definition assembled so far.
// Typically used when interacting with lower-level APIs.
func (b *WizardBuilder) Definition() (Definition, error) {
	values, err := NewFormValues(b.values...)
	if err != nil {
		return Definition{}, fmt.Errorf("formflow: %w", err)
	}
	def := b.def
	def.Steps = append([]StepDescriptor(nil), b.def.Steps...)
	def.Values = values
	return def, nil
}

// Build constructs the wizard. Options are applied after the builder's own
// settings, so WithFinalize overrides Finalize.
func (b *WizardBuilder) Build(opts ...Option) (Wizard, error) {
	def, err := b.Definition()
	if err != nil {
		return nil, err
	}
	all := make([]Option, 0, len(opts)+1)
	if b.finalize != nil {
		all = append(all, WithFinalize(b.finalize))
	}
	all = append(all, opts...)
	return NewWizard(def, all...)
}

// MustBuild is like Build but panics on error.
// Useful for initialization in main().
func (b *WizardBuilder) MustBuild(opts ...Option) Wizard {
	w, err := b.Build(opts...)
	if err != nil {
		panic(err)
	}
	return w
}
