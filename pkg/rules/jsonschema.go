package rules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/petrijr/formflow/pkg/api"
)

// FormErrorKey holds schema failures that are not tied to a single field.
const FormErrorKey = "_form"

const schemaURL = "mem://formflow/step.schema.json"

// SchemaValidator validates form values against a compiled JSON Schema.
type SchemaValidator struct {
	schema  *jsonschema.Schema
	printer *message.Printer
}

var _ api.Validator = (*SchemaValidator)(nil)

// JSONSchema compiles raw (draft 2020-12 unless the document says
// otherwise) into a validator.
func JSONSchema(raw []byte) (*SchemaValidator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("rules: parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	c.DefaultDraft(jsonschema.Draft2020)
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("rules: add schema: %w", err)
	}
	sch, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("rules: compile schema: %w", err)
	}

	return &SchemaValidator{
		schema:  sch,
		printer: message.NewPrinter(language.English),
	}, nil
}

// MustJSONSchema is like JSONSchema but panics on error.
func MustJSONSchema(raw []byte) *SchemaValidator {
	v, err := JSONSchema(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate maps every leaf schema failure to the field it concerns. The
// first message per field is kept.
func (v *SchemaValidator) Validate(values *api.FormValues) api.FieldErrors {
	data, err := values.MarshalJSON()
	if err != nil {
		return api.FieldErrors{FormErrorKey: err.Error()}
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return api.FieldErrors{FormErrorKey: err.Error()}
	}

	err = v.schema.Validate(inst)
	if err == nil {
		return nil
	}
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return api.FieldErrors{FormErrorKey: err.Error()}
	}

	errs := api.FieldErrors{}
	v.collect(verr, errs)
	if len(errs) == 0 {
		errs[FormErrorKey] = verr.ErrorKind.LocalizedString(v.printer)
	}
	return errs
}

func (v *SchemaValidator) collect(e *jsonschema.ValidationError, errs api.FieldErrors) {
	if len(e.Causes) > 0 {
		for _, c := range e.Causes {
			v.collect(c, errs)
		}
		return
	}

	if req, ok := e.ErrorKind.(*kind.Required); ok && len(e.InstanceLocation) == 0 {
		missing := append([]string(nil), req.Missing...)
		sort.Strings(missing)
		for _, name := range missing {
			setOnce(errs, name, fmt.Sprintf("%s is a required field", name))
		}
		return
	}

	field := FormErrorKey
	if len(e.InstanceLocation) > 0 {
		field = e.InstanceLocation[0]
	}
	setOnce(errs, field, e.ErrorKind.LocalizedString(v.printer))
}

func setOnce(errs api.FieldErrors, field, msg string) {
	if _, ok := errs[field]; !ok {
		errs[field] = msg
	}
}

// SchemaFromMap marshals a decoded schema document (for example one read
// from YAML) and compiles it.
func SchemaFromMap(doc map[string]any) (*SchemaValidator, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("rules: encode schema: %w", err)
	}
	return JSONSchema(raw)
}
