package storage

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Serializer converts records to a textual encoding and back.
type Serializer interface {
	Serialize(v any) ([]byte, error)
	Deserialize(data []byte, v any) error

	// Extension is the file extension, without the dot, used for records
	// written in this encoding.
	Extension() string
}

type JSONSerializer struct{}

func (JSONSerializer) Serialize(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling json: %w", err)
	}
	return b, nil
}

func (JSONSerializer) Deserialize(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshalling json: %w", err)
	}
	return nil
}

func (JSONSerializer) Extension() string {
	return "json"
}

type YAMLSerializer struct{}

func (YAMLSerializer) Serialize(v any) ([]byte, error) {
	b, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshalling yaml: %w", err)
	}
	return b, nil
}

func (YAMLSerializer) Deserialize(data []byte, v any) error {
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshalling yaml: %w", err)
	}
	return nil
}

func (YAMLSerializer) Extension() string {
	return "yaml"
}
