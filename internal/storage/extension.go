package storage

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ExtensionState holds free-form values keyed by name. Values are kept as
// raw JSON so game code can store its own types without the record
// schema knowing about them.
type ExtensionState map[string]json.RawMessage

// Set stores v under key after marshalling it to JSON.
func (e *ExtensionState) Set(k string, v any) error {
	if *e == nil {
		*e = ExtensionState{}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal extension %q: %w", k, err)
	}

	(*e)[k] = json.RawMessage(b)
	return nil
}

// Get unmarshals the extension value at key into out.
// Returns (found=false, nil) if not present.
func (e ExtensionState) Get(key string, out any) (bool, error) {
	if e == nil {
		return false, nil
	}

	raw, ok := e[key]
	if !ok || len(raw) == 0 {
		return false, nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("unmarshal extension %q: %w", key, err)
	}
	return true, nil
}

// Delete removes the extension key, if present.
func (e ExtensionState) Delete(key string) {
	if e == nil {
		return
	}
	delete(e, key)
}

// MarshalYAML emits each value as a native YAML node instead of a byte
// sequence.
func (e ExtensionState) MarshalYAML() (any, error) {
	if e == nil {
		return nil, nil
	}

	out := make(map[string]any, len(e))
	for k, raw := range e {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("unmarshal extension %q: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}

func (e *ExtensionState) UnmarshalYAML(node *yaml.Node) error {
	var vals map[string]any
	if err := node.Decode(&vals); err != nil {
		return err
	}

	*e = nil
	for k, v := range vals {
		if err := e.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}
