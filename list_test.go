package forms

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newLetters(letters ...string) *List {
	elements := make([]Node, len(letters))
	for i, letter := range letters {
		elements[i] = NewUnit(letter)
	}
	return NewList(elements)
}

func TestEmptyListDefaults(t *testing.T) {
	l := NewList(nil)

	if diff := cmp.Diff([]any{}, l.Input(nil)); diff != "" {
		t.Fatalf("input mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{}, l.Output(nil)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	for name, got := range map[string]any{
		"touched": l.Touched(nil),
		"dirty":   l.Dirty(nil),
		"valid":   l.Valid(nil),
	} {
		if got != false {
			t.Fatalf("expected concise %s false, got %v", name, got)
		}
	}
	if got := l.ValidateOn(nil); got != ValidateOnTouch {
		t.Fatalf("expected onTouch, got %v", got)
	}
	if err := l.Error(nil); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestListAppendIsDirty(t *testing.T) {
	l := newLetters("a", "b")
	l.SetElements(func(elements []Node) []Node {
		return append(elements, NewUnit("c"))
	})

	want := []any{false, false, true}
	if diff := cmp.Diff(want, l.DirtyVerbose(nil)); diff != "" {
		t.Fatalf("verbose dirty mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, l.Dirty(nil)); diff != "" {
		t.Fatalf("concise dirty mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{"a", "b", "c"}, l.Input(nil)); diff != "" {
		t.Fatalf("input mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{"a", "b"}, l.Initial(nil)); diff != "" {
		t.Fatalf("initial mismatch (-want +got):\n%s", diff)
	}
}

func TestListRemovedInitialStaysDirty(t *testing.T) {
	l := newLetters("a", "b")
	l.SetElements(func(elements []Node) []Node { return elements[:1] })

	if diff := cmp.Diff([]any{false, true}, l.DirtyVerbose(nil)); diff != "" {
		t.Fatalf("verbose dirty mismatch (-want +got):\n%s", diff)
	}
	if !IsDirty(nil, l) {
		t.Fatalf("expected removal to be dirty")
	}

	l.Reset()
	if diff := cmp.Diff([]any{"a", "b"}, l.Input(nil)); diff != "" {
		t.Fatalf("reset input mismatch (-want +got):\n%s", diff)
	}
	if IsDirty(nil, l) {
		t.Fatalf("expected clean list after reset, got %v", l.DirtyVerbose(nil))
	}
}

func TestListSwapInPlace(t *testing.T) {
	l := newLetters("a", "b")
	swap := func(elements []Node) []Node { return []Node{elements[1], elements[0]} }

	l.SetElements(swap)
	if diff := cmp.Diff([]any{true, true}, l.DirtyVerbose(nil)); diff != "" {
		t.Fatalf("swapped dirty mismatch (-want +got):\n%s", diff)
	}

	l.SetElements(swap)
	if got := l.Dirty(nil); got != false {
		t.Fatalf("expected swap back to be clean, got %v", got)
	}
}

func TestListPositionalSetters(t *testing.T) {
	l := NewList([]Node{NewUnit(1), NewUnit(2)})

	l.SetInput([]any{10, Undefined, 30})
	if diff := cmp.Diff([]any{10, 2}, l.Input(nil)); diff != "" {
		t.Fatalf("input mismatch (-want +got):\n%s", diff)
	}

	l.SetInput(5)
	if diff := cmp.Diff([]any{10, 2}, l.Input(nil)); diff != "" {
		t.Fatalf("scalar input setter should be ignored (-want +got):\n%s", diff)
	}

	l.SetTouched(true)
	if got := l.Touched(nil); got != true {
		t.Fatalf("expected fanned out touched, got %v", got)
	}
	l.SetTouched([]any{false})
	if diff := cmp.Diff([]any{false, true}, l.Touched(nil)); diff != "" {
		t.Fatalf("touched mismatch (-want +got):\n%s", diff)
	}

	l.SetError("bad")
	if diff := cmp.Diff([]any{"bad", "bad"}, l.Error(nil)); diff != "" {
		t.Fatalf("error mismatch (-want +got):\n%s", diff)
	}
	if out := l.Output(nil); out != nil {
		t.Fatalf("expected nil output with errors, got %v", out)
	}
}

func TestListSetInitialRebindsElements(t *testing.T) {
	l := newLetters("a", "b")
	l.SetElements(func(elements []Node) []Node {
		return append(elements, NewUnit("c"))
	})

	l.SetInitial([]any{"a", "b", "c"})
	if diff := cmp.Diff([]any{"a", "b", "c"}, l.Initial(nil)); diff != "" {
		t.Fatalf("initial mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{false, false, false}, l.DirtyVerbose(nil)); diff != "" {
		t.Fatalf("dirty mismatch (-want +got):\n%s", diff)
	}

	l.SetInput([]any{Undefined, "x"})
	l.Reset()
	if diff := cmp.Diff([]any{"a", "b", "c"}, l.Input(nil)); diff != "" {
		t.Fatalf("reset mismatch (-want +got):\n%s", diff)
	}

	short := newLetters("a")
	short.SetInitial([]any{"z", "y"})
	if diff := cmp.Diff([]any{"z"}, short.Initial(nil)); diff != "" {
		t.Fatalf("expected setter capped at templates (-want +got):\n%s", diff)
	}
}

func TestListInitialRoundTripAndResetTo(t *testing.T) {
	l := newLetters("a", "b")
	l.SetInput([]any{"x"})

	before := l.Initial(nil)
	l.SetInitial(l.Initial(nil))
	if diff := cmp.Diff(before, l.Initial(nil)); diff != "" {
		t.Fatalf("initial round trip changed the value (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{true, false}, l.DirtyVerbose(nil)); diff != "" {
		t.Fatalf("dirty mismatch (-want +got):\n%s", diff)
	}

	l.ResetTo([]any{"q", "r"})
	if diff := cmp.Diff([]any{"q", "r"}, l.Input(nil)); diff != "" {
		t.Fatalf("reset to mismatch (-want +got):\n%s", diff)
	}
	if IsDirty(nil, l) {
		t.Fatalf("expected clean list after ResetTo")
	}
}

func TestListOfShapes(t *testing.T) {
	l := NewList([]Node{
		NewShape(map[string]any{"title": NewUnit("one")}),
	})
	l.SetElements(func(elements []Node) []Node {
		return append(elements, NewShape(map[string]any{"title": NewUnit("two")}))
	})

	want := []any{map[string]any{"title": false}, map[string]any{"title": true}}
	if diff := cmp.Diff(want, l.DirtyVerbose(nil)); diff != "" {
		t.Fatalf("verbose dirty mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{false, true}, l.Dirty(nil)); diff != "" {
		t.Fatalf("concise dirty mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{map[string]any{"title": "one"}, map[string]any{"title": "two"}}, l.Output(nil)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestListSkipsNilElements(t *testing.T) {
	var missing *Unit
	l := NewList([]Node{nil, NewUnit("a")})
	if diff := cmp.Diff([]any{"a"}, l.Input(nil)); diff != "" {
		t.Fatalf("input mismatch (-want +got):\n%s", diff)
	}

	l.SetElements([]Node{nil, NewUnit("x"), missing})
	if diff := cmp.Diff([]any{"x"}, l.Input(nil)); diff != "" {
		t.Fatalf("input mismatch (-want +got):\n%s", diff)
	}
	if got := len(l.Elements(nil)); got != 1 {
		t.Fatalf("expected one element, got %d", got)
	}
}
