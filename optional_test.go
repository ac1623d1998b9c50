package forms

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOptionalTriState(t *testing.T) {
	o := NewOptional(NewUnit(false), NewUnit("", WithValidator(required)))

	if out := o.Output(nil); !IsUndefined(out) {
		t.Fatalf("expected Undefined while disabled, got %v", out)
	}

	o.SetInput(map[string]any{"enabled": true})
	if out := o.Output(nil); out != nil {
		t.Fatalf("expected nil while the element is invalid, got %v", out)
	}

	o.SetInput(map[string]any{"element": "weekly"})
	if out := o.Output(nil); out != "weekly" {
		t.Fatalf("expected element output, got %v", out)
	}

	unset := NewOptional(NewUnit(nil), NewUnit("x"))
	if out := unset.Output(nil); out != nil {
		t.Fatalf("expected nil while enabled has no output, got %v", out)
	}
}

func TestOptionalConciseSkipsDisabledElement(t *testing.T) {
	o := NewOptional(NewUnit(false), NewUnit("", WithValidator(required)))

	o.SetTouched(map[string]any{"enabled": true})
	if got := o.Touched(nil); got != true {
		t.Fatalf("expected disabled element excluded from concise touched, got %v", got)
	}
	if diff := cmp.Diff(map[string]any{"enabled": true, "element": false}, o.TouchedVerbose(nil)); diff != "" {
		t.Fatalf("verbose touched mismatch (-want +got):\n%s", diff)
	}

	o.SetInput(map[string]any{"enabled": true})
	if diff := cmp.Diff(map[string]any{"enabled": true, "element": false}, o.Touched(nil)); diff != "" {
		t.Fatalf("concise touched mismatch (-want +got):\n%s", diff)
	}

	o.SetTouched(true)
	if diff := cmp.Diff(map[string]any{"enabled": nil, "element": "required"}, o.Error(nil)); diff != "" {
		t.Fatalf("error mismatch (-want +got):\n%s", diff)
	}

	o.SetInput(map[string]any{"enabled": false})
	if err := o.Error(nil); err != nil {
		t.Fatalf("expected disabled element error ignored, got %v", err)
	}
	if got := o.Valid(nil); got != true {
		t.Fatalf("expected disabled optional valid, got %v", got)
	}
	if diff := cmp.Diff(map[string]any{"enabled": nil, "element": "required"}, o.ErrorVerbose(nil)); diff != "" {
		t.Fatalf("verbose error mismatch (-want +got):\n%s", diff)
	}
}

func TestOptionalInsideShape(t *testing.T) {
	sh := NewShape(map[string]any{
		"name": NewUnit("Ada"),
		"nick": NewOptional(NewUnit(false), NewUnit("")),
	})

	out, ok := sh.Output(nil).(map[string]any)
	if !ok {
		t.Fatalf("expected record output, got %v", sh.Output(nil))
	}
	if !IsUndefined(out["nick"]) {
		t.Fatalf("expected disabled optional to be Undefined, got %v", out["nick"])
	}

	sh.SetInput(map[string]any{"nick": map[string]any{"enabled": true, "element": "A"}})
	if diff := cmp.Diff(map[string]any{"name": "Ada", "nick": "A"}, sh.Output(nil)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"name": false, "nick": map[string]any{"enabled": true, "element": true}}, sh.DirtyVerbose(nil)); diff != "" {
		t.Fatalf("dirty mismatch (-want +got):\n%s", diff)
	}

	sh.Reset()
	if diff := cmp.Diff(map[string]any{"enabled": false, "element": ""}, sh.Field("nick").Input(nil)); diff != "" {
		t.Fatalf("reset mismatch (-want +got):\n%s", diff)
	}
}
