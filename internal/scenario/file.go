package scenario

import (
	"bytes"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a scenario from a YAML or JSON file.
func LoadFile(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("reading scenario file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a scenario from YAML or JSON bytes. Unknown fields are rejected
// so that typos in dimension blocks surface early, and so are NaN or infinite
// assumptions. A missing ID stays empty.
func Parse(data []byte) (Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Scenario{}, fmt.Errorf("parsing scenario: %w", err)
	}
	if err := CheckFinite(s); err != nil {
		return Scenario{}, fmt.Errorf("parsing scenario: %w", err)
	}
	return s, nil
}

// WithDerivedID returns s unchanged when it has an ID. Otherwise the ID is
// derived from the content, so identical input always yields the same ID.
func WithDerivedID(s Scenario) (Scenario, error) {
	if s.ID != "" {
		return s, nil
	}
	h, err := Hash(s)
	if err != nil {
		return Scenario{}, err
	}
	s.ID = "sc-" + h
	return s, nil
}

// NewID returns a new random scenario identifier.
func NewID() string {
	return uuid.NewString()
}
