package rules

import (
	"errors"
	"fmt"
	"strings"
)

// Stage names the step at which a rule failed to produce a verdict.
type Stage string

const (
	// StageCompile covers parse and type errors, and missing evaluators.
	StageCompile Stage = "compile"
	// StageRun covers errors raised while the expression runs.
	StageRun Stage = "run"
	// StageResult covers a check that ran but did not return a boolean.
	StageResult Stage = "result"
)

// EvaluationError is the leaf error produced by a rule that is broken, as
// opposed to a check that evaluated to false and reports its message. It
// records where the rule was attached (form and field) and the input it was
// running against.
type EvaluationError struct {
	Engine string
	Expr   string
	Stage  Stage
	FormID string
	Field  string
	Input  any
	Err    error
}

// Error omits the input, which may hold user secrets.
func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "rules: %s %s", e.Engine, e.Stage)
	if e.Expr != "" {
		fmt.Fprintf(&b, " expr=%q", e.Expr)
	}
	if e.FormID != "" {
		fmt.Fprintf(&b, " form=%s", e.FormID)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " field=%s", e.Field)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ruleFailure returns err as an *EvaluationError describing the rule and the
// evaluation in ctx. An EvaluationError already in the chain is copied,
// keeping the fields it has, so errors shared by every run of a rule are
// never bound to one input in place.
func ruleFailure(stage Stage, engine, expr string, ctx RuleContext, err error) error {
	if err == nil {
		return nil
	}
	failure := EvaluationError{Err: err}
	var existing *EvaluationError
	if errors.As(err, &existing) {
		failure = *existing
	}
	if failure.Engine == "" {
		failure.Engine = engine
	}
	if failure.Expr == "" {
		failure.Expr = expr
	}
	if failure.Stage == "" {
		failure.Stage = stage
	}
	if failure.FormID == "" {
		failure.FormID = ctx.FormID
	}
	if failure.Field == "" {
		failure.Field = ctx.Field
	}
	if failure.Input == nil {
		failure.Input = ctx.Value
	}
	return &failure
}
