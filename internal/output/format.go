// Package output selects and applies the output format for command results.
package output

import (
	"fmt"
	"strings"
)

// Format represents the output format type.
type Format string

const (
	// FormatMarkdown is the default human-readable output
	FormatMarkdown Format = "markdown"

	// FormatJSON is the JSON output format
	FormatJSON Format = "json"

	// FormatYAML is the YAML output format
	FormatYAML Format = "yaml"
)

// DefaultFormat is the output format when none is specified.
const DefaultFormat = FormatMarkdown

// ParseFormat parses a format string into a Format value.
// Accepts: "markdown" (or "md"), "json", "yaml" (or "yml"), case-insensitive.
// An empty string yields DefaultFormat.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultFormat, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid format: %q (expected markdown, json, or yaml)", s)
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// IsStructured reports whether the format is a machine-readable serialization.
func (f Format) IsStructured() bool {
	return f == FormatJSON || f == FormatYAML
}

// Extension returns the file extension used when writing this format to disk.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	default:
		return ".md"
	}
}

// ValidateFormat checks if a format value is valid.
func ValidateFormat(f Format) bool {
	switch f {
	case FormatMarkdown, FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}
