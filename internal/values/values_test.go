package values

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type address struct {
	Street string
	Tags   []string
}

func TestCloneDetachesNestedContainers(t *testing.T) {
	original := map[string]any{
		"name": "john",
		"tags": []any{"a", map[string]any{"deep": true}},
	}
	cloned := Clone(original).(map[string]any)
	cloned["name"] = "jane"
	cloned["tags"].([]any)[1].(map[string]any)["deep"] = false

	if original["name"] != "john" {
		t.Fatalf("expected original name untouched, got %v", original["name"])
	}
	if original["tags"].([]any)[1].(map[string]any)["deep"] != true {
		t.Fatalf("expected nested map untouched")
	}
}

func TestCloneStructsThroughReflection(t *testing.T) {
	original := &address{Street: "Main", Tags: []string{"home"}}
	cloned := Clone(original).(*address)
	cloned.Tags[0] = "work"
	if original.Tags[0] != "home" {
		t.Fatalf("expected struct slice to be copied, got %v", original.Tags)
	}
	if cloned == original {
		t.Fatalf("expected a new pointer")
	}
}

func TestMergeStrongWinsWeakFills(t *testing.T) {
	strong := map[string]any{
		"name":    "draft",
		"profile": map[string]any{"age": 30},
		"items":   []any{"x"},
	}
	weak := map[string]any{
		"name":    "initial",
		"email":   "a@b.c",
		"profile": map[string]any{"age": 1, "city": "Oslo"},
		"items":   []any{"a", "b"},
	}

	got := Merge(strong, weak)
	want := map[string]any{
		"name":    "draft",
		"email":   "a@b.c",
		"profile": map[string]any{"age": 30, "city": "Oslo"},
		"items":   []any{"x"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeNilStrongCopiesWeak(t *testing.T) {
	weak := []any{1, 2}
	got := Merge(nil, weak).([]any)
	got[0] = 9
	if weak[0] != 1 {
		t.Fatalf("expected weak to stay untouched")
	}
	if !Equal(got, []any{9, 2}) {
		t.Fatalf("unexpected merge result %v", got)
	}
}
