package transaction

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TriState is a yes/no answer that may not have been given yet. The zero
// value is Unknown, and Unknown is never the same as No.
type TriState string

const (
	Unknown TriState = ""
	Yes     TriState = "yes"
	No      TriState = "no"
)

// TriFromBool converts a definite answer.
func TriFromBool(b bool) TriState {
	if b {
		return Yes
	}
	return No
}

// Known reports whether an answer has been recorded.
func (t TriState) Known() bool { return t == Yes || t == No }

// IsYes reports a recorded affirmative answer.
func (t TriState) IsYes() bool { return t == Yes }

// IsNo reports a recorded negative answer.
func (t TriState) IsNo() bool { return t == No }

// String implements fmt.Stringer.
func (t TriState) String() string {
	if t.Known() {
		return string(t)
	}
	return "unknown"
}

// MarshalJSON encodes Yes/No as booleans and Unknown as null.
func (t TriState) MarshalJSON() ([]byte, error) {
	switch t {
	case Yes:
		return []byte("true"), nil
	case No:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts booleans, null, and the strings "yes", "no",
// "true", "false" and "unknown".
func (t *TriState) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch raw {
	case "true":
		*t = Yes
		return nil
	case "false":
		*t = No
		return nil
	case "null":
		*t = Unknown
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("tri-state: %w", err)
	}
	switch strings.ToLower(s) {
	case "yes", "true":
		*t = Yes
	case "no", "false":
		*t = No
	case "", "unknown":
		*t = Unknown
	default:
		return fmt.Errorf("tri-state: invalid value %q", s)
	}
	return nil
}
