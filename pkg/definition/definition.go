package definition

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/petrijr/formflow/pkg/api"
	"github.com/petrijr/formflow/pkg/rules"
)

// ErrInvalid is wrapped by every structural problem found in a definition.
var ErrInvalid = errors.New("definition: invalid")

// Definition is the YAML document describing a wizard.
type Definition struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step is one page of the wizard.
type Step struct {
	Label  string         `yaml:"label"`
	Fields []Field        `yaml:"fields"`
	Schema map[string]any `yaml:"schema,omitempty"`
}

// Field is one input of a step.
type Field struct {
	Name    string        `yaml:"name"`
	Label   string        `yaml:"label"`
	Kind    api.FieldKind `yaml:"kind"`
	Help    string        `yaml:"help,omitempty"`
	Default any           `yaml:"default,omitempty"`
	Rules   []RuleSpec    `yaml:"rules,omitempty"`
}

// Load reads and parses the definition at path.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("definition: read %s: %w", path, err)
	}
	return parse(data, path)
}

// LoadFS is Load for an fs.FS, e.g. an embedded directory.
func LoadFS(fsys fs.FS, path string) (*Definition, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("definition: read %s: %w", path, err)
	}
	return parse(data, path)
}

// Parse decodes a YAML definition.
func Parse(data []byte) (*Definition, error) {
	return parse(data, "<input>")
}

func parse(data []byte, source string) (*Definition, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrInvalid, source)
	}
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("definition: parse %s: %w", source, err)
	}
	return &def, nil
}

// Build turns the document into the engine's definition: step descriptors
// with compiled validators, FieldSet content, and the initial values.
func (d *Definition) Build() (api.Definition, error) {
	if strings.TrimSpace(d.Name) == "" {
		return api.Definition{}, fmt.Errorf("%w: name is required", ErrInvalid)
	}

	values, err := api.NewFormValues()
	if err != nil {
		return api.Definition{}, err
	}
	steps := make([]api.StepDescriptor, 0, len(d.Steps))
	owner := make(map[string]string)

	for _, s := range d.Steps {
		fieldSet := make(api.FieldSet, 0, len(s.Fields))
		fieldRules := make([]rules.FieldRules, 0, len(s.Fields))

		for _, f := range s.Fields {
			if f.Name == "" {
				return api.Definition{}, fmt.Errorf("%w: step %q has a field without a name", ErrInvalid, s.Label)
			}
			if prev, dup := owner[f.Name]; dup {
				return api.Definition{}, fmt.Errorf("%w: field %q declared in steps %q and %q", ErrInvalid, f.Name, prev, s.Label)
			}
			owner[f.Name] = s.Label

			kind, err := normalizeKind(f.Kind)
			if err != nil {
				return api.Definition{}, fmt.Errorf("%w: field %q: %v", ErrInvalid, f.Name, err)
			}
			def := f.Default
			if def == nil {
				def = zeroValue(kind)
			}
			if err := values.Set(f.Name, def); err != nil {
				return api.Definition{}, fmt.Errorf("%w: field %q default: %v", ErrInvalid, f.Name, err)
			}

			label := f.Label
			if label == "" {
				label = f.Name
			}
			fieldSet = append(fieldSet, api.FieldSpec{Name: f.Name, Label: label, Kind: kind, Help: f.Help})

			if len(f.Rules) > 0 {
				rs, err := compileRules(f.Rules)
				if err != nil {
					return api.Definition{}, fmt.Errorf("%w: field %q: %v", ErrInvalid, f.Name, err)
				}
				fieldRules = append(fieldRules, rules.Field(f.Name, rs...))
			}
		}

		var validators []api.Validator
		if len(fieldRules) > 0 {
			validators = append(validators, rules.Object(fieldRules...))
		}
		if len(s.Schema) > 0 {
			sv, err := rules.SchemaFromMap(s.Schema)
			if err != nil {
				return api.Definition{}, fmt.Errorf("%w: step %q schema: %v", ErrInvalid, s.Label, err)
			}
			validators = append(validators, sv)
		}

		step := api.StepDescriptor{Label: s.Label, Content: fieldSet}
		if len(validators) > 0 {
			step.Validator = rules.Merge(validators...)
		}
		steps = append(steps, step)
	}

	if err := api.ValidateSteps(steps); err != nil {
		return api.Definition{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return api.Definition{Name: d.Name, Steps: steps, Values: values}, nil
}

func normalizeKind(k api.FieldKind) (api.FieldKind, error) {
	switch k {
	case "":
		return api.FieldText, nil
	case api.FieldText, api.FieldNumber, api.FieldBoolean, api.FieldTextArea:
		return k, nil
	}
	return "", fmt.Errorf("unknown kind %q", k)
}

func zeroValue(k api.FieldKind) any {
	switch k {
	case api.FieldNumber:
		return 0
	case api.FieldBoolean:
		return false
	}
	return ""
}
