package definition

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/petrijr/formflow/pkg/rules"
)

// RuleSpec is one entry of a field's rules list.
type RuleSpec struct {
	Kind    string
	Number  float64
	Options []string
	When    *WhenSpec
	Message string
}

// WhenSpec selects rules by a condition on another field. Exactly one of
// Truthy or Field must be set; Field compares against Is.
type WhenSpec struct {
	Truthy    string     `yaml:"truthy,omitempty"`
	Field     string     `yaml:"field,omitempty"`
	Is        any        `yaml:"is,omitempty"`
	Not       bool       `yaml:"not,omitempty"`
	Then      []RuleSpec `yaml:"then,omitempty"`
	Otherwise []RuleSpec `yaml:"otherwise,omitempty"`
}

type ruleMapping struct {
	Required  *bool     `yaml:"required"`
	Number    *bool     `yaml:"number"`
	Min       *float64  `yaml:"min"`
	Max       *float64  `yaml:"max"`
	MinLength *int      `yaml:"minLength"`
	OneOf     []string  `yaml:"oneOf"`
	When      *WhenSpec `yaml:"when"`
	Message   string    `yaml:"message"`
}

// UnmarshalYAML accepts a bare rule name or a single-rule mapping.
func (r *RuleSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Value {
		case "required", "number":
			*r = RuleSpec{Kind: node.Value}
			return nil
		}
		return fmt.Errorf("line %d: rule %q needs arguments or does not exist", node.Line, node.Value)

	case yaml.MappingNode:
		var m ruleMapping
		if err := node.Decode(&m); err != nil {
			return err
		}
		var kinds []string
		out := RuleSpec{Message: m.Message}
		if m.Required != nil && *m.Required {
			kinds = append(kinds, "required")
		}
		if m.Number != nil && *m.Number {
			kinds = append(kinds, "number")
		}
		if m.Min != nil {
			kinds = append(kinds, "min")
			out.Number = *m.Min
		}
		if m.Max != nil {
			kinds = append(kinds, "max")
			out.Number = *m.Max
		}
		if m.MinLength != nil {
			kinds = append(kinds, "minLength")
			out.Number = float64(*m.MinLength)
		}
		if m.OneOf != nil {
			kinds = append(kinds, "oneOf")
			out.Options = m.OneOf
		}
		if m.When != nil {
			kinds = append(kinds, "when")
			out.When = m.When
		}
		if len(kinds) != 1 {
			return fmt.Errorf("line %d: a rule mapping needs exactly one rule, got %v", node.Line, kinds)
		}
		out.Kind = kinds[0]
		*r = out
		return nil
	}
	return fmt.Errorf("line %d: rule must be a name or a mapping", node.Line)
}

func compileRules(specs []RuleSpec) ([]rules.Rule, error) {
	out := make([]rules.Rule, 0, len(specs))
	for _, s := range specs {
		r, err := compileRule(s)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func compileRule(s RuleSpec) (rules.Rule, error) {
	var r rules.Rule
	switch s.Kind {
	case "required":
		r = rules.Required()
	case "number":
		r = rules.Number()
	case "min":
		r = rules.Min(s.Number)
	case "max":
		r = rules.Max(s.Number)
	case "minLength":
		r = rules.MinLength(int(s.Number))
	case "oneOf":
		r = rules.OneOf(s.Options...)
	case "when":
		w, err := compileWhen(s.When)
		if err != nil {
			return nil, err
		}
		r = w
	default:
		return nil, fmt.Errorf("unknown rule %q", s.Kind)
	}
	if s.Message != "" {
		r = r.WithMessage(s.Message)
	}
	return r, nil
}

func compileWhen(w *WhenSpec) (rules.Rule, error) {
	if w == nil {
		return nil, errors.New("when: missing body")
	}

	var cond rules.Condition
	switch {
	case w.Truthy != "" && w.Field != "":
		return nil, errors.New("when: set either truthy or field, not both")
	case w.Truthy != "":
		cond = rules.Truthy(w.Truthy)
	case w.Field != "":
		cond = rules.Is(w.Field, w.Is)
	default:
		return nil, errors.New("when: a condition (truthy or field) is required")
	}
	if w.Not {
		cond = rules.Not(cond)
	}

	var then, otherwise rules.Rule
	if len(w.Then) > 0 {
		rs, err := compileRules(w.Then)
		if err != nil {
			return nil, fmt.Errorf("when.then: %w", err)
		}
		then = rules.All(rs...)
	}
	if len(w.Otherwise) > 0 {
		rs, err := compileRules(w.Otherwise)
		if err != nil {
			return nil, fmt.Errorf("when.otherwise: %w", err)
		}
		otherwise = rules.All(rs...)
	}
	return rules.When(cond, then, otherwise), nil
}
