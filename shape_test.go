package forms

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newPerson() *Shape {
	return NewShape(map[string]any{
		"name": NewUnit("", WithValidator(required)),
		"age":  NewUnit(30),
		"kind": "person",
	})
}

func TestShapeViews(t *testing.T) {
	sh := newPerson()

	want := map[string]any{"age": 30, "kind": "person", "name": ""}
	if diff := cmp.Diff(want, sh.Input(nil)); diff != "" {
		t.Fatalf("input mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, sh.Initial(nil)); diff != "" {
		t.Fatalf("initial mismatch (-want +got):\n%s", diff)
	}
	if out := sh.Output(nil); out != nil {
		t.Fatalf("expected nil output while name is invalid, got %v", out)
	}
	if err := sh.Error(nil); err != nil {
		t.Fatalf("expected nil concise error, got %v", err)
	}
	if diff := cmp.Diff(map[string]any{"age": nil, "name": nil}, sh.ErrorVerbose(nil)); diff != "" {
		t.Fatalf("verbose error mismatch (-want +got):\n%s", diff)
	}
	if got := sh.Touched(nil); got != false {
		t.Fatalf("expected concise touched false, got %v", got)
	}

	sh.SetTouched(map[string]any{"name": true})
	if diff := cmp.Diff(map[string]any{"age": false, "name": true}, sh.Touched(nil)); diff != "" {
		t.Fatalf("touched mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"age": nil, "name": "required"}, sh.Error(nil)); diff != "" {
		t.Fatalf("error mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"age": false, "name": true}, sh.Invalid(nil)); diff != "" {
		t.Fatalf("invalid mismatch (-want +got):\n%s", diff)
	}
	if !IsTouched(nil, sh) || !IsInvalid(nil, sh) {
		t.Fatalf("expected helpers to report touched and invalid")
	}

	sh.SetInput(map[string]any{"name": "Ada"})
	if diff := cmp.Diff(map[string]any{"age": 30, "kind": "person", "name": "Ada"}, sh.Output(nil)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if err := sh.Error(nil); err != nil {
		t.Fatalf("expected concise error nil, got %v", err)
	}
	if diff := cmp.Diff(map[string]any{"age": false, "name": true}, sh.Valid(nil)); diff != "" {
		t.Fatalf("valid mismatch (-want +got):\n%s", diff)
	}

	sh.SetTouched(true)
	if got := sh.Valid(nil); got != true {
		t.Fatalf("expected concise valid true, got %v", got)
	}
	if !IsValid(nil, sh) {
		t.Fatalf("expected IsValid")
	}
}

func TestShapeSetterEdgeCases(t *testing.T) {
	sh := newPerson()

	sh.SetInput(map[string]any{"name": Undefined, "age": 31, "kind": "robot", "bogus": 1})
	want := map[string]any{"age": 31, "kind": "person", "name": ""}
	if diff := cmp.Diff(want, sh.Input(nil)); diff != "" {
		t.Fatalf("input mismatch (-want +got):\n%s", diff)
	}

	sh.SetInput(7)
	if diff := cmp.Diff(want, sh.Input(nil)); diff != "" {
		t.Fatalf("scalar input setter should be ignored (-want +got):\n%s", diff)
	}

	sh.SetInput(func(_, initial any) any { return initial })
	if got := sh.Field("age").Input(nil); got != 30 {
		t.Fatalf("expected function setter to restore age, got %v", got)
	}

	sh.SetError("nope")
	if diff := cmp.Diff(map[string]any{"age": "nope", "name": "nope"}, sh.ErrorVerbose(nil)); diff != "" {
		t.Fatalf("fanned out error mismatch (-want +got):\n%s", diff)
	}
	sh.SetError(nil)
	if err := sh.Error(nil); err != nil {
		t.Fatalf("expected errors cleared, got %v", err)
	}

	sh.SetValidateOn(map[string]any{"age": ValidateOnInit})
	wantStrategies := map[string]any{"age": ValidateOnInit, "name": ValidateOnTouch}
	if diff := cmp.Diff(wantStrategies, sh.ValidateOn(nil)); diff != "" {
		t.Fatalf("strategy mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantStrategies, sh.ValidateOnVerbose(nil)); diff != "" {
		t.Fatalf("verbose strategy mismatch (-want +got):\n%s", diff)
	}
	sh.SetValidateOn(ValidateOnChange)
	if got := sh.ValidateOn(nil); got != ValidateOnChange {
		t.Fatalf("expected fanned out strategy, got %v", got)
	}
}

func TestShapeDirtyAndInitialRoundTrip(t *testing.T) {
	sh := newPerson()
	sh.SetInput(map[string]any{"age": 31})

	if diff := cmp.Diff(map[string]any{"age": true, "name": false}, sh.Dirty(nil)); diff != "" {
		t.Fatalf("dirty mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"age": true, "name": false}, sh.DirtyVerbose(nil)); diff != "" {
		t.Fatalf("verbose dirty mismatch (-want +got):\n%s", diff)
	}

	before := sh.Initial(nil)
	sh.SetInitial(sh.Initial(nil))
	if diff := cmp.Diff(before, sh.Initial(nil)); diff != "" {
		t.Fatalf("initial round trip changed the value (-want +got):\n%s", diff)
	}
	if !IsDirty(nil, sh) {
		t.Fatalf("expected age to stay dirty")
	}

	sh.SetInitial(sh.Input(nil))
	if IsDirty(nil, sh) {
		t.Fatalf("expected shape clean once initial matches input, got %v", sh.DirtyVerbose(nil))
	}

	sh.SetInput(map[string]any{"age": 40, "name": "Ada"})
	sh.Reset()
	if diff := cmp.Diff(map[string]any{"age": 31, "kind": "person", "name": ""}, sh.Input(nil)); diff != "" {
		t.Fatalf("reset mismatch (-want +got):\n%s", diff)
	}
}

func TestNestedShape(t *testing.T) {
	sh := NewShape(map[string]any{
		"address": NewShape(map[string]any{
			"city": NewUnit("Oslo"),
			"zip":  NewUnit("0150"),
		}),
	})

	if diff := cmp.Diff(map[string]any{"address": map[string]any{"city": false, "zip": false}}, sh.TouchedVerbose(nil)); diff != "" {
		t.Fatalf("verbose touched mismatch (-want +got):\n%s", diff)
	}

	sh.SetTouched(map[string]any{"address": map[string]any{"city": true}})
	want := map[string]any{"address": map[string]any{"city": true, "zip": false}}
	if diff := cmp.Diff(want, sh.Touched(nil)); diff != "" {
		t.Fatalf("concise touched mismatch (-want +got):\n%s", diff)
	}

	sh.SetTouched(map[string]any{"address": true})
	if got := sh.Touched(nil); got != true {
		t.Fatalf("expected nested fan out to fold to true, got %v", got)
	}
}

func TestShapeSharesInputWithDefinition(t *testing.T) {
	u := NewUnit("a")
	sh := NewShape(map[string]any{"f": u})

	u.SetInput("b")
	if got := sh.Input(nil).(map[string]any)["f"]; got != "b" {
		t.Fatalf("expected shared input, got %v", got)
	}

	u.SetInitial("z")
	if got := sh.Initial(nil).(map[string]any)["f"]; got != "a" {
		t.Fatalf("expected independent initial, got %v", got)
	}
	if sh.FormID() == u.FormID() {
		t.Fatalf("expected shape to own a new root")
	}
}
