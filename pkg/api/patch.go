package api

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// PatchOperation is a single RFC 6902 operation. Paths address top-level
// fields, e.g. "/firstName".
type PatchOperation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	From  string `json:"from,omitempty"`
	Value any    `json:"value"`
}

// ApplyPatch applies a raw RFC 6902 JSON Patch document to the values.
//
// The patch is applied atomically: on any error the receiver is left
// untouched. Surviving fields keep their position; added fields are
// appended in name order.
func (v *FormValues) ApplyPatch(patchJSON []byte) error {
	patch, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return fmt.Errorf("decode patch: %w", err)
	}

	doc, err := v.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode values: %w", err)
	}

	patched, err := patch.Apply(doc)
	if err != nil {
		return fmt.Errorf("apply patch: %w", err)
	}

	var m map[string]any
	if err := json.Unmarshal(patched, &m); err != nil {
		return fmt.Errorf("patched document: %w", err)
	}

	next := v.Clone()
	if err := next.mergeMap(m); err != nil {
		return err
	}
	v.names = next.names
	v.values = next.values
	return nil
}

// ApplyOperations is ApplyPatch for already-built operations.
func (v *FormValues) ApplyOperations(ops ...PatchOperation) error {
	if len(ops) == 0 {
		return nil
	}
	raw, err := json.Marshal(ops)
	if err != nil {
		return fmt.Errorf("encode patch: %w", err)
	}
	return v.ApplyPatch(raw)
}
