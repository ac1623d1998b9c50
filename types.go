// Package forms derives reactive form state from a tree of typed input
// fields. Every node, whether a leaf Unit or a Shape, List, Switch or
// Optional composite, exposes the same views (input, initial, output, error,
// touched, validated, valid, invalid, dirty and validateOn). Each view reads
// as a concise summary or a verbose per-child breakdown, and each writable
// view accepts a recursive setter.
//
// Values are dynamic: composites report map[string]any records and []any
// lists. nil plays the role of "unset" or "invalid", and Undefined marks an
// absent setter entry or an Optional whose element does not apply.
package forms

import (
	"context"

	"github.com/goliatone/go-forms/cell"
)

// ValidateStrategy selects when a leaf starts reporting validation errors.
type ValidateStrategy string

const (
	// ValidateOnInit reports errors right away.
	ValidateOnInit ValidateStrategy = "onInit"
	// ValidateOnTouch reports errors once the leaf is touched.
	ValidateOnTouch ValidateStrategy = "onTouch"
	// ValidateOnChange reports errors once the input diverges from initial.
	ValidateOnChange ValidateStrategy = "onChange"
	// ValidateOnSubmit reports errors after the first submit attempt.
	ValidateOnSubmit ValidateStrategy = "onSubmit"
)

// DefaultValidateOn is the strategy of new leaves and the concise fallback
// of empty composites.
const DefaultValidateOn = ValidateOnTouch

// String implements fmt.Stringer.
func (v ValidateStrategy) String() string {
	return string(v)
}

// Known reports whether v is one of the four strategies.
func (v ValidateStrategy) Known() bool {
	switch v {
	case ValidateOnInit, ValidateOnTouch, ValidateOnChange, ValidateOnSubmit:
		return true
	default:
		return false
	}
}

// ParseValidateStrategy converts value into a strategy. It accepts the
// strategy type itself and plain strings.
func ParseValidateStrategy(value any) (ValidateStrategy, bool) {
	var strategy ValidateStrategy
	switch typed := value.(type) {
	case ValidateStrategy:
		strategy = typed
	case string:
		strategy = ValidateStrategy(typed)
	default:
		return "", false
	}
	return strategy, strategy.Known()
}

// UndefinedValue is the type of Undefined.
type UndefinedValue struct{}

// String implements fmt.Stringer.
func (UndefinedValue) String() string {
	return "undefined"
}

// Undefined marks a setter entry that must be left untouched, and the output
// of a disabled Optional.
var Undefined = UndefinedValue{}

// IsUndefined reports whether v is Undefined.
func IsUndefined(v any) bool {
	_, ok := v.(UndefinedValue)
	return ok
}

// Record keys used by Switch and Optional values.
const (
	KeyActive   = "active"
	KeyBranches = "branches"
	KeyBranch   = "branch"
	KeyKind     = "kind"
	KeyValue    = "value"
	KeyEnabled  = "enabled"
	KeyElement  = "element"
)

// BranchOf builds the {kind, value} record used by Switch outputs, concise
// breakdowns and single-branch setters.
func BranchOf(kind string, value any) map[string]any {
	return map[string]any{KeyKind: kind, KeyValue: value}
}

// Result is the outcome of validating a leaf input: either Error is non-nil
// and Output is nil, or Error is nil and Output holds the transformed value.
type Result struct {
	Error  any
	Output any
}

// Ok builds a successful Result.
func Ok(output any) Result {
	return Result{Output: output}
}

// Fail builds a failed Result.
func Fail(err any) Result {
	return Result{Error: err}
}

// Failed reports whether r carries an error.
func (r Result) Failed() bool {
	return r.Error != nil
}

// Validator turns raw leaf input into a Result.
type Validator interface {
	Validate(input any) Result
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(input any) Result

// Validate implements Validator.
func (f ValidatorFunc) Validate(input any) Result {
	if f == nil {
		return Ok(input)
	}
	return f(input)
}

// Schema is the parse style of validator adapter: it returns the parsed
// output or an error.
type Schema interface {
	Parse(input any) (any, error)
}

// SchemaFunc adapts a function to Schema.
type SchemaFunc func(input any) (any, error)

// Parse implements Schema.
func (f SchemaFunc) Parse(input any) (any, error) {
	return f(input)
}

// SetterFunc computes the next value of a view from its current value and a
// reference value. Input setters receive (input, initial), initial setters
// (initial, input) and flag, strategy and error setters (verbose, nil).
type SetterFunc func(current, reference any) any

// Task is the deferred part of a submit listener. Submit waits for every
// task returned by the listeners of a subtree.
type Task func(ctx context.Context) error

// SubmitListener receives the output of a node on submit.
type SubmitListener interface {
	OnSubmit(ctx context.Context, output any) Task
}

// SubmitFunc adapts a function to SubmitListener.
type SubmitFunc func(ctx context.Context, output any) Task

// OnSubmit implements SubmitListener.
func (f SubmitFunc) OnSubmit(ctx context.Context, output any) Task {
	if f == nil {
		return nil
	}
	return f(ctx, output)
}

// FocusListener is told about the error of the first invalid node found on
// submit.
type FocusListener interface {
	OnFocus(err any)
}

// FocusFunc adapts a function to FocusListener.
type FocusFunc func(err any)

// OnFocus implements FocusListener.
func (f FocusFunc) OnFocus(err any) {
	if f != nil {
		f(err)
	}
}

// Node is the capability interface shared by Unit, Shape, List, Switch and
// Optional. Concise readers return a scalar when every child agrees and a
// per-child breakdown otherwise; verbose readers always return the
// breakdown. The interface is sealed.
type Node interface {
	Input(s *cell.Scope) any
	Initial(s *cell.Scope) any
	Output(s *cell.Scope) any

	Error(s *cell.Scope) any
	ErrorVerbose(s *cell.Scope) any
	Touched(s *cell.Scope) any
	TouchedVerbose(s *cell.Scope) any
	Validated(s *cell.Scope) any
	ValidatedVerbose(s *cell.Scope) any
	Valid(s *cell.Scope) any
	ValidVerbose(s *cell.Scope) any
	Invalid(s *cell.Scope) any
	InvalidVerbose(s *cell.Scope) any
	Dirty(s *cell.Scope) any
	DirtyVerbose(s *cell.Scope) any
	ValidateOn(s *cell.Scope) any
	ValidateOnVerbose(s *cell.Scope) any

	SetInput(setter any)
	SetInitial(setter any)
	SetTouched(setter any)
	SetValidateOn(setter any)
	SetError(setter any)
	Reset()
	ResetTo(resetter any)

	FormID() string
	Submit(ctx context.Context) error
	IsSubmitting(s *cell.Scope) bool
	SubmitCount(s *cell.Scope) int
	OnSubmit(listener SubmitListener) func()
	OnFocusWhenInvalid(listener FocusListener) func()

	core() *base
	childOf(r *root) Node
	clone() Node
	bindInitial(other Node)
	dirtyAgainst(s *cell.Scope, other Node) (concise, verbose any)
	forcedDirty(s *cell.Scope) any
	markSubmitted()
	children(s *cell.Scope) []Node
	allChildren() []Node
}
