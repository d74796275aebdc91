package definition

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/petrijr/formflow/pkg/api"
)

func loadMillionaire(t *testing.T) api.Definition {
	t.Helper()
	doc, err := Load(filepath.Join("testdata", "millionaire.yaml"))
	require.NoError(t, err)
	def, err := doc.Build()
	require.NoError(t, err)
	return def
}

func TestLoad_Millionaire(t *testing.T) {
	def := loadMillionaire(t)

	require.Equal(t, "millionaire", def.Name)
	labels := make([]string, len(def.Steps))
	for i, s := range def.Steps {
		labels[i] = s.Label
	}
	if diff := cmp.Diff([]string{"Personal Info", "Bank statement", "Additional Info"}, labels); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, []string{"firstName", "lastName", "millionaire", "money", "description"}, def.Values.Names())
	require.Equal(t, "", def.Values.Text("firstName"))
	rich, ok := def.Values.Bool("millionaire")
	require.True(t, ok)
	require.False(t, rich)
	money, ok := def.Values.Number("money")
	require.True(t, ok)
	require.Equal(t, 0.0, money)

	fs, ok := api.FieldSetOf(def.Steps[1])
	require.True(t, ok)
	want := api.FieldSet{{Name: "money", Label: "All the money I have", Kind: api.FieldNumber}}
	if diff := cmp.Diff(want, fs); diff != "" {
		t.Fatalf("field set mismatch (-want +got):\n%s", diff)
	}

	require.Nil(t, def.Steps[2].Validator)
}

func TestLoad_MillionaireValidators(t *testing.T) {
	def := loadMillionaire(t)
	values := def.Values.Clone()

	errs := def.Steps[0].Validate(values)
	require.Equal(t, []string{"firstName", "lastName"}, errs.Fields())

	require.NoError(t, values.Set("firstName", "Ada"))
	require.NoError(t, values.Set("lastName", "Lovelace"))
	require.True(t, def.Steps[0].Validate(values).Valid())

	require.True(t, def.Steps[1].Validate(values).Valid())

	require.NoError(t, values.Set("millionaire", true))
	require.NoError(t, values.Set("money", 500))
	require.Equal(t,
		"Because you said you are a millionaire you need to have 1 million",
		def.Steps[1].Validate(values)["money"])

	require.NoError(t, values.Set("money", 2_000_000))
	require.True(t, def.Steps[1].Validate(values).Valid())
}

func TestLoad_SchemaStep(t *testing.T) {
	doc, err := LoadFS(os.DirFS("testdata"), "schema_step.yaml")
	require.NoError(t, err)
	def, err := doc.Build()
	require.NoError(t, err)

	values := def.Values.Clone()
	require.Equal(t, "free", values.Text("plan"))

	errs := def.Steps[0].Validate(values)
	require.Contains(t, errs, "email")

	require.NoError(t, values.Set("email", "ada@example.com"))
	require.NoError(t, values.Set("plan", "enterprise"))
	errs = def.Steps[0].Validate(values)
	require.Equal(t, []string{"plan"}, errs.Fields())
}

func TestParse_RuleForms(t *testing.T) {
	doc, err := Parse([]byte(`
name: rules
steps:
  - label: One
    fields:
      - name: age
        kind: number
        rules:
          - number
          - min: 18
            message: too young
          - max: 130
      - name: nick
        rules:
          - minLength: 2
      - name: role
        default: user
        rules:
          - when:
              field: age
              is: 99
              then: [required]
          - when:
              truthy: nick
              not: true
              otherwise:
                - oneOf: [user, admin]
`))
	require.NoError(t, err)
	def, err := doc.Build()
	require.NoError(t, err)

	fs, _ := api.FieldSetOf(def.Steps[0])
	require.Equal(t, "nick", fs[1].Label, "label defaults to the name")
	require.Equal(t, api.FieldText, fs[1].Kind, "kind defaults to text")

	v := def.Values.Clone()
	require.NoError(t, v.Set("age", 10))
	require.NoError(t, v.Set("nick", "x"))
	require.NoError(t, v.Set("role", "root"))

	errs := def.Steps[0].Validate(v)
	require.Equal(t, "too young", errs["age"])
	require.Equal(t, "nick must be at least 2 characters", errs["nick"])
	require.Equal(t, "role must be one of the following values: user, admin", errs["role"])
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":            ``,
		"unknown scalar":   "name: x\nsteps:\n  - label: a\n    fields:\n      - name: f\n        rules: [min]\n",
		"two rules in one": "name: x\nsteps:\n  - label: a\n    fields:\n      - name: f\n        rules:\n          - {min: 1, max: 2}\n",
		"bad yaml":         "name: [",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(src))
			require.Error(t, err)
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	cases := map[string]string{
		"no name":         "steps:\n  - label: a\n",
		"no steps":        "name: x\n",
		"duplicate label": "name: x\nsteps:\n  - label: a\n  - label: a\n",
		"duplicate field": "name: x\nsteps:\n  - label: a\n    fields: [{name: f}]\n  - label: b\n    fields: [{name: f}]\n",
		"unnamed field":   "name: x\nsteps:\n  - label: a\n    fields: [{label: F}]\n",
		"bad kind":        "name: x\nsteps:\n  - label: a\n    fields: [{name: f, kind: color}]\n",
		"bad default":     "name: x\nsteps:\n  - label: a\n    fields: [{name: f, default: [1, 2]}]\n",
		"bad schema":      "name: x\nsteps:\n  - label: a\n    schema: {type: 12}\n",
		"when both":       "name: x\nsteps:\n  - label: a\n    fields:\n      - name: f\n        rules:\n          - when: {truthy: a, field: b}\n",
		"when none":       "name: x\nsteps:\n  - label: a\n    fields:\n      - name: f\n        rules:\n          - when: {then: [required]}\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			doc, err := Parse([]byte(src))
			require.NoError(t, err)
			_, err = doc.Build()
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalid), "expected ErrInvalid, got %v", err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
