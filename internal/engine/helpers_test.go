package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/petrijr/formflow/pkg/api"
)

// callCounter counts validator invocations per step label.
type callCounter struct {
	mu    sync.Mutex
	calls map[string]int
}

func (c *callCounter) inc(label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls == nil {
		c.calls = make(map[string]int)
	}
	c.calls[label]++
}

func (c *callCounter) get(label string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[label]
}

// millionaireDefinition is the three-step personal info / bank statement /
// additional info wizard.
func millionaireDefinition(counter *callCounter) api.Definition {
	personal := api.ValidatorFunc(func(v *api.FormValues) api.FieldErrors {
		counter.inc("Personal Info")
		errs := api.FieldErrors{}
		if v.Text("firstName") == "" {
			errs["firstName"] = "Required"
		}
		if v.Text("lastName") == "" {
			errs["lastName"] = "Required"
		}
		return errs
	})
	bank := api.ValidatorFunc(func(v *api.FormValues) api.FieldErrors {
		counter.inc("Bank statement")
		money, ok := v.Number("money")
		if !ok {
			return api.FieldErrors{"money": "Required"}
		}
		if rich, _ := v.Bool("millionaire"); rich && money < 1_000_000 {
			return api.FieldErrors{"money": "Because you said you are a millionaire you need to have 1 million"}
		}
		return nil
	})

	return api.Definition{
		Name: "millionaire",
		Steps: []api.StepDescriptor{
			{Label: "Personal Info", Validator: personal},
			{Label: "Bank statement", Validator: bank},
			{Label: "Additional Info"},
		},
		Values: api.MustFormValues(
			api.Field{Name: "firstName", Value: ""},
			api.Field{Name: "lastName", Value: ""},
			api.Field{Name: "millionaire", Value: false},
			api.Field{Name: "money", Value: 0},
			api.Field{Name: "description", Value: ""},
		),
	}
}

func newTestWizard(t *testing.T, def api.Definition, cfg Config) api.Wizard {
	t.Helper()
	w, err := New(def, cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return w
}

func mustSet(t *testing.T, v *api.FormValues, name string, value any) {
	t.Helper()
	if err := v.Set(name, value); err != nil {
		t.Fatalf("Set(%q) failed: %v", name, err)
	}
}

// advanceTo walks a fresh millionaire wizard to the given step with valid values.
func advanceTo(t *testing.T, w api.Wizard, step int) {
	t.Helper()
	ctx := context.Background()
	v := w.Values()
	mustSet(t, v, "firstName", "Ada")
	mustSet(t, v, "lastName", "Lovelace")
	mustSet(t, v, "money", 10)
	for w.State().ActiveIndex < step {
		if out, err := w.RequestAdvance(ctx, nil); out != api.OutcomeAdvanced {
			t.Fatalf("advance to %d: outcome=%s err=%v", step, out, err)
		}
	}
}
