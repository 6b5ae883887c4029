// Package merge implements the non-destructive merge used for every context
// mutation.
//
// The rule is the same at every level: a null or empty incoming value never
// erases an existing one. Objects merge key by key, arrays of objects merge
// element by element on a stable identity, arrays of scalars are unioned,
// and scalars take the incoming value.
//
// Value works on the decoded-JSON value model (map[string]any, []any and
// scalars). The typed helpers apply the same rule to concrete fields.
package merge

import (
	"strings"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain/facts"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
)

// Value merges src over dst and returns the result. dst is not modified.
func Value(dst, src any) any {
	if IsEmpty(src) {
		return clone(dst)
	}
	if IsEmpty(dst) {
		return clone(src)
	}

	switch s := src.(type) {
	case map[string]any:
		d, ok := dst.(map[string]any)
		if !ok {
			return clone(src)
		}
		return objects(d, s)
	case []any:
		d, ok := dst.([]any)
		if !ok {
			return clone(src)
		}
		return arrays(d, s)
	default:
		return src
	}
}

// IsEmpty reports values that must never overwrite existing data: nil,
// blank strings, and empty arrays or objects.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}

func objects(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = clone(v)
	}
	for k, v := range src {
		out[k] = Value(out[k], v)
	}
	return out
}

func arrays(dst, src []any) []any {
	out := make([]any, len(dst), len(dst)+len(src))
	for i, v := range dst {
		out[i] = clone(v)
	}

	for _, item := range src {
		if IsEmpty(item) {
			continue
		}
		if obj, ok := item.(map[string]any); ok {
			if i := indexOf(out, obj); i >= 0 {
				out[i] = Value(out[i], obj)
				continue
			}
			out = append(out, clone(obj))
			continue
		}
		if nested, ok := item.([]any); ok {
			out = append(out, clone(nested))
			continue
		}
		if !containsScalar(out, item) {
			out = append(out, item)
		}
	}
	return out
}

// Same reports whether two array elements describe the same entity. Ids
// decide when both sides carry one; otherwise folded names, then
// institutions. Elements with nothing to compare never match.
func Same(a, b map[string]any) bool {
	idA, _ := a["id"].(string)
	idB, _ := b["id"].(string)
	if idA != "" && idB != "" {
		return idA == idB
	}
	if nameA, nameB := nameOf(a), nameOf(b); nameA != "" && nameB != "" {
		return facts.Fold(nameA) == facts.Fold(nameB)
	}
	instA, _ := a["institution"].(string)
	instB, _ := b["institution"].(string)
	if instA != "" && instB != "" {
		return facts.Fold(instA) == facts.Fold(instB)
	}
	return false
}

func nameOf(obj map[string]any) string {
	if name, ok := obj["name"].(string); ok && strings.TrimSpace(name) != "" {
		return name
	}
	for _, key := range []string{"person", "entity"} {
		if sub, ok := obj[key].(map[string]any); ok {
			if name, ok := sub["name"].(string); ok && strings.TrimSpace(name) != "" {
				return name
			}
		}
	}
	return ""
}

func indexOf(list []any, obj map[string]any) int {
	for i, v := range list {
		if existing, ok := v.(map[string]any); ok && Same(existing, obj) {
			return i
		}
	}
	return -1
}

func containsScalar(list []any, v any) bool {
	for _, existing := range list {
		if existing == v {
			return true
		}
		if a, ok := existing.(string); ok {
			if b, ok := v.(string); ok && facts.Fold(a) == facts.Fold(b) {
				return true
			}
		}
	}
	return false
}

func clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = clone(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = clone(val)
		}
		return out
	default:
		return v
	}
}

// String returns candidate unless it is blank.
func String(current, candidate string) string {
	if strings.TrimSpace(candidate) == "" {
		return current
	}
	return candidate
}

// Strings unions two string lists, keeping current order and skipping
// blanks and folded duplicates.
func Strings(current, candidate []string) []string {
	out := append([]string(nil), current...)
	for _, s := range candidate {
		if strings.TrimSpace(s) == "" {
			continue
		}
		dup := false
		for _, existing := range out {
			if facts.Fold(existing) == facts.Fold(s) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, s)
		}
	}
	return out
}

// Float returns candidate unless it is nil.
func Float(current, candidate *float64) *float64 {
	if candidate == nil {
		return current
	}
	v := *candidate
	return &v
}

// TriState returns candidate unless it is unknown.
func TriState(current, candidate transaction.TriState) transaction.TriState {
	if !candidate.Known() {
		return current
	}
	return candidate
}
