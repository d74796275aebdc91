package rules

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/petrijr/formflow/pkg/api"
)

// Rule checks one field. It returns ok=false and a message when the field
// fails.
type Rule func(field string, values *api.FormValues) (msg string, ok bool)

// WithMessage returns a rule that fails exactly when r fails, reporting msg
// instead of r's message.
func (r Rule) WithMessage(msg string) Rule {
	return func(field string, values *api.FormValues) (string, bool) {
		if _, ok := r(field, values); !ok {
			return msg, false
		}
		return "", true
	}
}

// Condition is a predicate over the whole form.
type Condition func(values *api.FormValues) bool

// FieldRules binds rules to a field name.
type FieldRules struct {
	Name  string
	Rules []Rule
}

// Field returns the rules for name, evaluated in order.
func Field(name string, rules ...Rule) FieldRules {
	return FieldRules{Name: name, Rules: rules}
}

// Object builds a validator from per-field rules.
func Object(fields ...FieldRules) api.Validator {
	fs := make([]FieldRules, len(fields))
	copy(fs, fields)
	return api.ValidatorFunc(func(values *api.FormValues) api.FieldErrors {
		var errs api.FieldErrors
		for _, f := range fs {
			for _, r := range f.Rules {
				if r == nil {
					continue
				}
				if msg, ok := r(f.Name, values); !ok {
					if errs == nil {
						errs = api.FieldErrors{}
					}
					errs[f.Name] = msg
					break
				}
			}
		}
		return errs
	})
}

// Merge runs every validator and combines their errors. For a field reported
// more than once the first message wins.
func Merge(validators ...api.Validator) api.Validator {
	vs := make([]api.Validator, 0, len(validators))
	for _, v := range validators {
		if v != nil {
			vs = append(vs, v)
		}
	}
	if len(vs) == 1 {
		return vs[0]
	}
	return api.ValidatorFunc(func(values *api.FormValues) api.FieldErrors {
		var out api.FieldErrors
		for _, v := range vs {
			for name, msg := range v.Validate(values) {
				if out == nil {
					out = api.FieldErrors{}
				}
				if _, seen := out[name]; !seen {
					out[name] = msg
				}
			}
		}
		return out
	})
}

// All chains rules; the first failure wins.
func All(rules ...Rule) Rule {
	return func(field string, values *api.FormValues) (string, bool) {
		for _, r := range rules {
			if r == nil {
				continue
			}
			if msg, ok := r(field, values); !ok {
				return msg, false
			}
		}
		return "", true
	}
}

// When applies then if cond holds and otherwise if it does not. Either may
// be nil.
func When(cond Condition, then, otherwise Rule) Rule {
	return func(field string, values *api.FormValues) (string, bool) {
		r := otherwise
		if cond(values) {
			r = then
		}
		if r == nil {
			return "", true
		}
		return r(field, values)
	}
}

// Required fails for a missing field or a blank string.
func Required() Rule {
	return func(field string, values *api.FormValues) (string, bool) {
		if blank(field, values) {
			return fmt.Sprintf("%s is a required field", field), false
		}
		return "", true
	}
}

// Number fails when a present, non-blank value is not numeric.
func Number() Rule {
	return func(field string, values *api.FormValues) (string, bool) {
		if blank(field, values) {
			return "", true
		}
		if _, ok := values.Number(field); !ok {
			return fmt.Sprintf("%s must be a `number` type", field), false
		}
		return "", true
	}
}

// Min fails when the numeric value is below min. Blank values pass.
func Min(min float64) Rule {
	return func(field string, values *api.FormValues) (string, bool) {
		n, ok := values.Number(field)
		if !ok || n >= min {
			return "", true
		}
		return fmt.Sprintf("%s must be greater than or equal to %s", field, formatNumber(min)), false
	}
}

// Max fails when the numeric value is above max. Blank values pass.
func Max(max float64) Rule {
	return func(field string, values *api.FormValues) (string, bool) {
		n, ok := values.Number(field)
		if !ok || n <= max {
			return "", true
		}
		return fmt.Sprintf("%s must be less than or equal to %s", field, formatNumber(max)), false
	}
}

// MinLength fails when the text value has fewer than n characters. Blank
// values pass.
func MinLength(n int) Rule {
	return func(field string, values *api.FormValues) (string, bool) {
		if blank(field, values) {
			return "", true
		}
		if utf8.RuneCountInString(values.Text(field)) < n {
			return fmt.Sprintf("%s must be at least %d characters", field, n), false
		}
		return "", true
	}
}

// OneOf fails when the text value is not one of options. Blank values pass.
func OneOf(options ...string) Rule {
	set := make(map[string]struct{}, len(options))
	for _, o := range options {
		set[o] = struct{}{}
	}
	return func(field string, values *api.FormValues) (string, bool) {
		if blank(field, values) {
			return "", true
		}
		if _, ok := set[values.Text(field)]; ok {
			return "", true
		}
		return fmt.Sprintf("%s must be one of the following values: %s", field, strings.Join(options, ", ")), false
	}
}

// Is holds when field equals value. Numbers compare numerically and
// booleans also match their "true"/"false" spelling.
func Is(field string, value any) Condition {
	return func(values *api.FormValues) bool {
		switch want := value.(type) {
		case bool:
			got, ok := values.Bool(field)
			return ok && got == want
		case string:
			return values.Has(field) && values.Text(field) == want
		}
		want, ok := asFloat(value)
		if !ok {
			return false
		}
		got, ok := values.Number(field)
		return ok && got == want
	}
}

// Truthy holds for true, non-zero numbers, and non-empty strings other
// than "false".
func Truthy(field string) Condition {
	return func(values *api.FormValues) bool {
		raw, ok := values.Get(field)
		if !ok {
			return false
		}
		switch t := raw.(type) {
		case bool:
			return t
		case float64:
			return t != 0
		case string:
			return t != "" && t != "false"
		}
		return false
	}
}

// Not negates cond.
func Not(cond Condition) Condition {
	return func(values *api.FormValues) bool {
		return !cond(values)
	}
}

func blank(field string, values *api.FormValues) bool {
	raw, ok := values.Get(field)
	if !ok {
		return true
	}
	s, isString := raw.(string)
	return isString && strings.TrimSpace(s) == ""
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}
