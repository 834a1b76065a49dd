package render

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/hargabyte/agentsizer/internal/report"
)

// RenderJSON serializes the complete model as indented JSON.
func RenderJSON(m *report.Model) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding report json: %w", err)
	}
	return append(data, '\n'), nil
}

// ParseJSON decodes a model produced by RenderJSON.
func ParseJSON(data []byte) (*report.Model, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var m report.Model
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("decoding report json: %w", err)
	}
	return &m, nil
}

// RenderYAML serializes the complete model as YAML.
func RenderYAML(m *report.Model) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encoding report yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding report yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseYAML decodes a model produced by RenderYAML.
func ParseYAML(data []byte) (*report.Model, error) {
	var m report.Model
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding report yaml: %w", err)
	}
	return &m, nil
}
