package rules

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRuleFailureDescribesEvaluation(t *testing.T) {
	base := errors.New("boom")
	ctx := RuleContext{Value: 17, Field: "age", FormID: "signup"}
	err := ruleFailure(StageRun, "expr", "value > 3 && missing", ctx, base)

	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T", err)
	}
	want := EvaluationError{Engine: "expr", Expr: "value > 3 && missing", Stage: StageRun, FormID: "signup", Field: "age", Input: 17, Err: base}
	if diff := cmp.Diff(want, *evalErr, cmp.Comparer(func(a, b error) bool { return a == b })); diff != "" {
		t.Fatalf("failure mismatch (-want +got):\n%s", diff)
	}
	if !errors.Is(err, base) {
		t.Fatalf("failure should unwrap to base error")
	}
}

func TestRuleFailureCopiesExisting(t *testing.T) {
	base := errors.New("compile failure")
	shared := &EvaluationError{Engine: "expr", Stage: StageCompile, Err: base}

	err := ruleFailure(StageRun, "cel", "rule", RuleContext{Field: "email", Value: "a@b"}, shared)
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T", err)
	}
	if evalErr == shared {
		t.Fatalf("expected a copy of the shared error")
	}
	if evalErr.Engine != "expr" || evalErr.Stage != StageCompile {
		t.Fatalf("existing engine and stage should be kept, got %q %q", evalErr.Engine, evalErr.Stage)
	}
	if evalErr.Expr != "rule" || evalErr.Field != "email" || evalErr.Input != "a@b" {
		t.Fatalf("missing fields should be filled, got %#v", evalErr)
	}
	if shared.Field != "" || shared.Input != nil {
		t.Fatalf("shared error should not be bound in place, got %#v", shared)
	}
}

func TestEvaluationErrorMessageOmitsInput(t *testing.T) {
	err := &EvaluationError{
		Engine: "cel",
		Expr:   "size(value) > 8",
		Stage:  StageRun,
		FormID: "signup",
		Field:  "password",
		Input:  "hunter2",
		Err:    errors.New("bad"),
	}
	want := `rules: cel run expr="size(value) > 8" form=signup field=password: bad`
	if got := err.Error(); got != want {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestEmptyExpressionFailsCompile(t *testing.T) {
	_, err := NewExprEvaluator().Compile("  ")
	if !errors.Is(err, ErrEmptyExpression) {
		t.Fatalf("expected ErrEmptyExpression, got %v", err)
	}
}
