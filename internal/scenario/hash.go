package scenario

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash/fnv"
)

// Hash returns the content hash of a scenario for change detection.
//
// The hash is FNV-1a 64-bit over the canonical JSON encoding of the scenario:
// struct fields in declaration order, map keys sorted, no indentation. It is
// rendered as 16 lowercase hex digits. It is not a security boundary.
func Hash(s Scenario) (string, error) {
	data, err := CanonicalJSON(s)
	if err != nil {
		return "", err
	}
	h := fnv.New64a()
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// CanonicalJSON returns the byte sequence Hash is computed over. Scenarios
// holding NaN or infinite assumptions have no canonical form.
func CanonicalJSON(s Scenario) ([]byte, error) {
	if err := CheckFinite(s); err != nil {
		return nil, err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding scenario %s: %w", s.ID, err)
	}
	return data, nil
}
