package merge

import (
	"reflect"
	"testing"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
)

func TestValue_NullNeverErases(t *testing.T) {
	t.Parallel()

	dst := map[string]any{"folio": "123", "address": "CALLE 1", "cadastral_refs": []any{"A"}}
	src := map[string]any{"folio": nil, "address": "", "cadastral_refs": []any{}}

	got := Value(dst, src)
	if !reflect.DeepEqual(got, dst) {
		t.Errorf("Value() = %#v, want %#v", got, dst)
	}
}

func TestValue_DeepMergesObjects(t *testing.T) {
	t.Parallel()

	dst := map[string]any{"property": map[string]any{"folio": "123", "address": "CALLE 1"}}
	src := map[string]any{"property": map[string]any{"surveyed_area": "120 M2"}}

	got := Value(dst, src).(map[string]any)["property"].(map[string]any)
	want := map[string]any{"folio": "123", "address": "CALLE 1", "surveyed_area": "120 M2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("property = %#v, want %#v", got, want)
	}
}

func TestValue_ArraysMergeOnIdentity(t *testing.T) {
	t.Parallel()

	dst := []any{
		map[string]any{"id": "b1", "person": map[string]any{"name": "JUAN PEREZ", "tax_id": "PEPJ800101AB1"}},
	}
	src := []any{
		map[string]any{"id": "b1", "person": map[string]any{"marital_status": "married"}},
		map[string]any{"person": map[string]any{"name": "ANA LOPEZ"}},
	}

	got := Value(dst, src).([]any)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	first := got[0].(map[string]any)["person"].(map[string]any)
	if first["name"] != "JUAN PEREZ" || first["tax_id"] != "PEPJ800101AB1" || first["marital_status"] != "married" {
		t.Errorf("first = %#v", first)
	}
}

func TestValue_ArraysMatchByFoldedName(t *testing.T) {
	t.Parallel()

	dst := []any{map[string]any{"name": "José Pérez", "tax_id": "X"}}
	src := []any{map[string]any{"name": "JOSE PEREZ", "national_id": "Y"}}

	got := Value(dst, src).([]any)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	obj := got[0].(map[string]any)
	if obj["tax_id"] != "X" || obj["national_id"] != "Y" {
		t.Errorf("merged = %#v", obj)
	}
}

func TestValue_EmptyArrayNeverReplacesNonEmpty(t *testing.T) {
	t.Parallel()

	dst := map[string]any{"financing": map[string]any{"credits": []any{map[string]any{"id": "c1"}}}}
	src := map[string]any{"financing": map[string]any{"credits": []any{}}}

	got := Value(dst, src)
	if !reflect.DeepEqual(got, dst) {
		t.Errorf("Value() = %#v, want unchanged", got)
	}
}

func TestValue_DoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	dst := map[string]any{"a": map[string]any{"b": "1"}}
	src := map[string]any{"a": map[string]any{"c": "2"}}

	_ = Value(dst, src)
	if _, ok := dst["a"].(map[string]any)["c"]; ok {
		t.Error("Value() mutated dst")
	}
}

func TestValue_ScalarUnion(t *testing.T) {
	t.Parallel()

	got := Value([]any{"A", "B"}, []any{"b", "C", nil})
	want := []any{"A", "B", "C"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Value() = %#v, want %#v", got, want)
	}
}

func TestRestrict(t *testing.T) {
	t.Parallel()

	delta := map[string]any{
		"property": map[string]any{"address": "CALLE 1"},
		"parties": map[string]any{
			"buyers":  []any{map[string]any{"name": "ANA"}},
			"sellers": []any{map[string]any{"name": "EVIL"}},
		},
		"stage_meta": map[string]any{"current_stage": "ready"},
	}

	kept, dropped := Restrict(delta, []string{"property", "parties.buyers"})

	want := map[string]any{
		"property": map[string]any{"address": "CALLE 1"},
		"parties":  map[string]any{"buyers": []any{map[string]any{"name": "ANA"}}},
	}
	if !reflect.DeepEqual(kept, want) {
		t.Errorf("kept = %#v, want %#v", kept, want)
	}
	wantDropped := []string{"parties.sellers", "stage_meta"}
	if !reflect.DeepEqual(dropped, wantDropped) {
		t.Errorf("dropped = %v, want %v", dropped, wantDropped)
	}
}

func TestTypedHelpers(t *testing.T) {
	t.Parallel()

	if String("A", " ") != "A" || String("A", "B") != "B" {
		t.Error("String() did not keep existing on blank")
	}
	one := 1.0
	if Float(&one, nil) != &one {
		t.Error("Float() replaced a value with nil")
	}
	if TriState(transaction.Yes, transaction.Unknown) != transaction.Yes {
		t.Error("TriState() erased a known answer with unknown")
	}
	if TriState(transaction.Yes, transaction.No) != transaction.No {
		t.Error("TriState() ignored an explicit answer")
	}
	if got := Strings([]string{"A"}, []string{"a", "", "B"}); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("Strings() = %v", got)
	}
}
