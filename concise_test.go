package forms

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func loadFixture[T any](t *testing.T, name string) T {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("unable to resolve caller for fixture %q", name)
	}
	path := filepath.Join(filepath.Dir(file), "testdata", name)
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture %q: %v", path, err)
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("failed to unmarshal fixture %q: %v", path, err)
	}
	return out
}

func TestConciseFlagFixture(t *testing.T) {
	type testCase struct {
		Name  string `json:"name"`
		Items []any  `json:"items"`
		Want  any    `json:"want"`
	}
	type fixture struct {
		Description string     `json:"description"`
		Cases       []testCase `json:"cases"`
	}

	fx := loadFixture[fixture](t, "reducer_cases.json")
	for _, tc := range fx.Cases {
		t.Run(tc.Name, func(t *testing.T) {
			got := conciseFlag(tc.Items, "breakdown")
			if got != tc.Want {
				t.Fatalf("expected %v, got %v", tc.Want, got)
			}

			again := conciseFlag(tc.Items, "breakdown")
			if again != got {
				t.Fatalf("expected repeated reduction to agree, got %v then %v", got, again)
			}
			if _, scalar := got.(bool); scalar {
				if folded := conciseFlag([]any{got, got}, "breakdown"); folded != got {
					t.Fatalf("expected reduced scalar to fold to itself, got %v", folded)
				}
			}
		})
	}
}

func TestConciseStrategy(t *testing.T) {
	cases := []struct {
		name  string
		items []any
		want  any
	}{
		{name: "empty falls back to onTouch", items: nil, want: ValidateOnTouch},
		{name: "shared strategy", items: []any{ValidateOnInit, ValidateOnInit}, want: ValidateOnInit},
		{name: "mixed strategies", items: []any{ValidateOnInit, ValidateOnSubmit}, want: "breakdown"},
		{name: "nested breakdown", items: []any{ValidateOnInit, map[string]any{"a": ValidateOnInit}}, want: "breakdown"},
		{name: "plain strings are not strategies", items: []any{"onInit"}, want: "breakdown"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := conciseStrategy(tc.items, "breakdown"); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestSomeTrue(t *testing.T) {
	cases := []struct {
		value any
		want  bool
	}{
		{value: true, want: true},
		{value: false, want: false},
		{value: nil, want: false},
		{value: map[string]any{"a": false, "b": []any{false, true}}, want: true},
		{value: []any{false, map[string]any{"a": false}}, want: false},
	}
	for _, tc := range cases {
		if got := someTrue(tc.value); got != tc.want {
			t.Fatalf("someTrue(%v) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestParseValidateStrategy(t *testing.T) {
	if got, ok := ParseValidateStrategy("onChange"); !ok || got != ValidateOnChange {
		t.Fatalf("expected onChange, got %v %v", got, ok)
	}
	if got, ok := ParseValidateStrategy(ValidateOnSubmit); !ok || got != ValidateOnSubmit {
		t.Fatalf("expected onSubmit, got %v %v", got, ok)
	}
	if _, ok := ParseValidateStrategy("never"); ok {
		t.Fatalf("expected unknown strategy to be rejected")
	}
	if _, ok := ParseValidateStrategy(3); ok {
		t.Fatalf("expected non-string strategy to be rejected")
	}
}
