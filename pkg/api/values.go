package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ErrUnsupportedValue is returned when a field value is not a string, a
// number, or a boolean.
var ErrUnsupportedValue = errors.New("unsupported field value")

// Field is a single name/value pair used to seed FormValues.
type Field struct {
	Name  string
	Value any
}

// FormValues is an ordered mapping from field name to value.
//
// Values are always one of string, float64 or bool. Integer inputs are
// normalized to float64 on Set. Insertion order is preserved and is the
// order reported by Names and used for JSON encoding.
//
// FormValues is not safe for concurrent mutation.
type FormValues struct {
	names  []string
	values map[string]any
}

// NewFormValues builds FormValues from the given fields, in order.
// Later duplicates overwrite earlier values but keep the first position.
func NewFormValues(fields ...Field) (*FormValues, error) {
	v := &FormValues{values: make(map[string]any, len(fields))}
	for _, f := range fields {
		if err := v.Set(f.Name, f.Value); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// MustFormValues is like NewFormValues but panics on error.
func MustFormValues(fields ...Field) *FormValues {
	v, err := NewFormValues(fields...)
	if err != nil {
		panic(err)
	}
	return v
}

// Set stores value under name, appending name if it is new.
func (v *FormValues) Set(name string, value any) error {
	if name == "" {
		return errors.New("field name must not be empty")
	}
	norm, err := normalizeValue(value)
	if err != nil {
		return fmt.Errorf("field %q: %w", name, err)
	}
	if v.values == nil {
		v.values = make(map[string]any)
	}
	if _, ok := v.values[name]; !ok {
		v.names = append(v.names, name)
	}
	v.values[name] = norm
	return nil
}

// Get returns the raw value for name.
func (v *FormValues) Get(name string) (any, bool) {
	if v == nil {
		return nil, false
	}
	val, ok := v.values[name]
	return val, ok
}

// Has reports whether name is present.
func (v *FormValues) Has(name string) bool {
	_, ok := v.Get(name)
	return ok
}

// Text returns the value for name formatted as a string.
// Missing fields yield "".
func (v *FormValues) Text(name string) string {
	val, ok := v.Get(name)
	if !ok {
		return ""
	}
	switch t := val.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

// Number returns the numeric value for name. Strings holding a number are
// parsed; ok is false for missing, boolean, or non-numeric values.
func (v *FormValues) Number(name string) (float64, bool) {
	val, ok := v.Get(name)
	if !ok {
		return 0, false
	}
	return toNumber(val)
}

// Bool returns the boolean value for name. Strings "true" and "false" are
// accepted; anything else yields ok=false.
func (v *FormValues) Bool(name string) (bool, bool) {
	val, ok := v.Get(name)
	if !ok {
		return false, false
	}
	switch t := val.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(t)
		if err != nil {
			return false, false
		}
		return b, true
	}
	return false, false
}

// Names returns the field names in insertion order.
func (v *FormValues) Names() []string {
	if v == nil {
		return nil
	}
	out := make([]string, len(v.names))
	copy(out, v.names)
	return out
}

// Len returns the number of fields.
func (v *FormValues) Len() int {
	if v == nil {
		return 0
	}
	return len(v.names)
}

// Clone returns a deep copy. Values are scalars, so a shallow map copy is
// sufficient.
func (v *FormValues) Clone() *FormValues {
	if v == nil {
		return &FormValues{values: map[string]any{}}
	}
	out := &FormValues{
		names:  make([]string, len(v.names)),
		values: make(map[string]any, len(v.values)),
	}
	copy(out.names, v.names)
	for k, val := range v.values {
		out.values[k] = val
	}
	return out
}

// Replace overwrites the receiver's contents with a copy of other.
func (v *FormValues) Replace(other *FormValues) {
	c := other.Clone()
	v.names = c.names
	v.values = c.values
}

// Equal reports whether both sets hold the same names, in the same order,
// with the same values.
func (v *FormValues) Equal(other *FormValues) bool {
	if v.Len() != other.Len() {
		return false
	}
	if v.Len() == 0 {
		return true
	}
	for i, name := range v.names {
		if other.names[i] != name {
			return false
		}
		if v.values[name] != other.values[name] {
			return false
		}
	}
	return true
}

// Map returns an unordered copy of the values.
func (v *FormValues) Map() map[string]any {
	out := make(map[string]any, v.Len())
	if v == nil {
		return out
	}
	for k, val := range v.values {
		out[k] = val
	}
	return out
}

// MarshalJSON encodes the values as a JSON object in insertion order.
func (v *FormValues) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range v.Names() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(v.values[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a flat JSON object, keeping the document's key order.
func (v *FormValues) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("form values must be a JSON object")
	}

	fresh := &FormValues{values: make(map[string]any)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if err := fresh.Set(name, raw); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	v.names = fresh.names
	v.values = fresh.values
	return nil
}

// mergeMap rebuilds the receiver from m, keeping existing order for names that
// survive and appending new names sorted.
func (v *FormValues) mergeMap(m map[string]any) error {
	fresh := &FormValues{values: make(map[string]any, len(m))}
	for _, name := range v.names {
		if val, ok := m[name]; ok {
			if err := fresh.Set(name, val); err != nil {
				return err
			}
		}
	}
	var added []string
	for name := range m {
		if _, ok := v.values[name]; !ok {
			added = append(added, name)
		}
	}
	sort.Strings(added)
	for _, name := range added {
		if err := fresh.Set(name, m[name]); err != nil {
			return err
		}
	}
	v.names = fresh.names
	v.values = fresh.values
	return nil
}

func normalizeValue(value any) (any, error) {
	switch t := value.(type) {
	case string, bool, float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int8:
		return float64(t), nil
	case int16:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case uint:
		return float64(t), nil
	case uint8:
		return float64(t), nil
	case uint16:
		return float64(t), nil
	case uint32:
		return float64(t), nil
	case uint64:
		return float64(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedValue, err)
		}
		return f, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, value)
}

func toNumber(val any) (float64, bool) {
	switch t := val.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
