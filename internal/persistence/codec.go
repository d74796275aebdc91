package persistence

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/petrijr/formflow/pkg/api"
)

const (
	kindString uint8 = iota + 1
	kindNumber
	kindBool
)

// valueRecord is one form field in a gob-friendly shape.
type valueRecord struct {
	Name string
	Kind uint8
	Text string
	Num  float64
	Bool bool
}

// eventPayload holds the parts of an event that are not plain columns:
// the values snapshot and the field errors.
type eventPayload struct {
	HasValues bool
	Values    []valueRecord
	Errors    map[string]string
}

// eventRecord is the full event as stored by key/value backends.
type eventRecord struct {
	WizardID   string
	WizardName string
	At         int64
	Type       string
	Step       int
	Label      string
	Detail     string
	Payload    []byte
}

// EncodePayload serializes the values snapshot and field errors of ev using
// encoding/gob. The result is empty when ev carries neither.
func EncodePayload(ev api.TransitionEvent) ([]byte, error) {
	if ev.Values == nil && len(ev.Errors) == 0 {
		return nil, nil
	}

	p := eventPayload{Errors: map[string]string(ev.Errors)}
	if ev.Values != nil {
		p.HasValues = true
		for _, name := range ev.Values.Names() {
			raw, _ := ev.Values.Get(name)
			rec := valueRecord{Name: name}
			switch t := raw.(type) {
			case string:
				rec.Kind, rec.Text = kindString, t
			case float64:
				rec.Kind, rec.Num = kindNumber, t
			case bool:
				rec.Kind, rec.Bool = kindBool, t
			default:
				return nil, fmt.Errorf("field %q: %w: %T", name, api.ErrUnsupportedValue, raw)
			}
			p.Values = append(p.Values, rec)
		}
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodePayload restores the values snapshot and field errors into ev.
func DecodePayload(data []byte, ev *api.TransitionEvent) error {
	if len(data) == 0 {
		return nil
	}

	var p eventPayload
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&p); err != nil {
		return fmt.Errorf("decode event payload: %w", err)
	}

	if len(p.Errors) > 0 {
		ev.Errors = api.FieldErrors(p.Errors)
	}
	if !p.HasValues {
		return nil
	}

	fields := make([]api.Field, 0, len(p.Values))
	for _, rec := range p.Values {
		f := api.Field{Name: rec.Name}
		switch rec.Kind {
		case kindString:
			f.Value = rec.Text
		case kindNumber:
			f.Value = rec.Num
		case kindBool:
			f.Value = rec.Bool
		default:
			return fmt.Errorf("field %q: unknown value kind %d", rec.Name, rec.Kind)
		}
		fields = append(fields, f)
	}
	values, err := api.NewFormValues(fields...)
	if err != nil {
		return err
	}
	ev.Values = values
	return nil
}

// EncodeEvent serializes a whole event using encoding/gob.
func EncodeEvent(ev api.TransitionEvent) ([]byte, error) {
	payload, err := EncodePayload(ev)
	if err != nil {
		return nil, err
	}
	rec := eventRecord{
		WizardID:   ev.WizardID,
		WizardName: ev.WizardName,
		At:         eventTime(ev).UnixNano(),
		Type:       string(ev.Type),
		Step:       ev.Step,
		Label:      ev.Label,
		Detail:     ev.Detail,
		Payload:    payload,
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeEvent is the inverse of EncodeEvent.
func DecodeEvent(data []byte) (api.TransitionEvent, error) {
	var rec eventRecord
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&rec); err != nil {
		return api.TransitionEvent{}, fmt.Errorf("decode event: %w", err)
	}
	ev := api.TransitionEvent{
		WizardID:   rec.WizardID,
		WizardName: rec.WizardName,
		At:         time.Unix(0, rec.At),
		Type:       api.EventType(rec.Type),
		Step:       rec.Step,
		Label:      rec.Label,
		Detail:     rec.Detail,
	}
	if err := DecodePayload(rec.Payload, &ev); err != nil {
		return api.TransitionEvent{}, err
	}
	return ev, nil
}

func eventTime(ev api.TransitionEvent) time.Time {
	if ev.At.IsZero() {
		return time.Now()
	}
	return ev.At
}
