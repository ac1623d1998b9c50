package forms

import (
	"context"

	"github.com/goliatone/go-forms/cell"
	"github.com/goliatone/go-forms/internal/values"
)

// Unit is a leaf node. It owns the raw input, its baseline, a custom error,
// the touched flag and the validation strategy, and derives output, error
// and the validated flag from them.
//
// Validation errors come from the validator and are reported only once the
// leaf is validated. A custom error set through SetError wins over the
// validation error and forces the leaf to be validated until cleared.
type Unit struct {
	base

	validator  Validator
	equal      func(a, b any) bool
	errorEqual func(a, b any) bool

	input      *cell.Cell[any]
	initial    *cell.Cell[*cell.Cell[any]]
	touched    *cell.Cell[bool]
	validateOn *cell.Cell[ValidateStrategy]
	customErr  *cell.Cell[any]
	latched    *cell.Cell[bool]

	result    *cell.Derived[Result]
	dirty     *cell.Derived[bool]
	validated *cell.Derived[bool]
	errorView *cell.Derived[any]
	output    *cell.Derived[any]
}

// NewUnit constructs a top-level leaf holding input. The initial value
// defaults to a copy of input.
func NewUnit(input any, opts ...Option) *Unit {
	cfg := applyOptions(opts)
	initial := input
	if cfg.hasInitial {
		initial = cfg.initial
	}

	u := &Unit{
		base:       newBase(newRoot(cfg)),
		validator:  cfg.validator,
		equal:      cfg.equal,
		errorEqual: cfg.errorEqual,
	}
	u.input = cell.New(input, cell.WithEqual(u.equal))
	u.initial = newInitialRef(cell.New(values.Clone(initial), cell.WithEqual(u.equal)))
	u.touched = cell.New(cfg.touched)
	u.validateOn = cell.New(cfg.validateOn)
	u.customErr = cell.New(cfg.customErr, cell.WithEqual(u.errorEqual))
	u.latched = cell.New(false)
	u.wire()
	u.latch()
	return u
}

func newInitialRef(initial *cell.Cell[any]) *cell.Cell[*cell.Cell[any]] {
	return cell.New(initial, cell.WithEqual(func(a, b *cell.Cell[any]) bool { return a == b }))
}

func (u *Unit) wire() {
	u.result = cell.NewDerived(func(s *cell.Scope) Result {
		input := u.input.Read(s)
		if u.validator == nil {
			return Ok(input)
		}
		return u.validator.Validate(input)
	})
	u.dirty = cell.NewDerived(func(s *cell.Scope) bool {
		return !u.equal(u.input.Read(s), u.Initial(s))
	})
	u.validated = cell.NewDerived(func(s *cell.Scope) bool {
		if u.customErr.Read(s) != nil {
			return true
		}
		return u.latched.Read(s) || u.strategyHolds(s, u.validateOn.Read(s))
	})
	u.errorView = cell.NewDerived(func(s *cell.Scope) any {
		if custom := u.customErr.Read(s); custom != nil {
			return custom
		}
		if !u.validated.Read(s) {
			return nil
		}
		return u.result.Read(s).Error
	}, cell.WithEqual(u.errorEqual))
	u.output = cell.NewDerived(func(s *cell.Scope) any {
		if u.customErr.Read(s) != nil {
			return nil
		}
		result := u.result.Read(s)
		if result.Failed() {
			return nil
		}
		return result.Output
	})
}

// strategyHolds evaluates the validation trigger of strategy against the
// current state. onSubmit holds once the tree has a submit attempt, so
// leaves attached or switched after a submit report errors too.
func (u *Unit) strategyHolds(s *cell.Scope, strategy ValidateStrategy) bool {
	switch strategy {
	case ValidateOnInit:
		return true
	case ValidateOnTouch:
		return u.touched.Read(s)
	case ValidateOnChange:
		return u.dirty.Read(s)
	case ValidateOnSubmit:
		return u.root.attempts.Read(s) > 0
	default:
		return false
	}
}

// latch makes the current trigger sticky so the leaf stays validated when
// the state that triggered it is undone.
func (u *Unit) latch() {
	if u.strategyHolds(nil, u.validateOn.Read(nil)) {
		u.latched.Write(true)
	}
}

// Input returns the raw input.
func (u *Unit) Input(s *cell.Scope) any { return u.input.Read(s) }

// Initial returns the baseline the input is compared with.
func (u *Unit) Initial(s *cell.Scope) any { return u.initial.Read(s).Read(s) }

// Output returns the validated output, or nil while the input is invalid or
// a custom error is set.
func (u *Unit) Output(s *cell.Scope) any { return u.output.Read(s) }

// Error returns the custom error, or the validation error once validated.
func (u *Unit) Error(s *cell.Scope) any { return u.errorView.Read(s) }

// ErrorVerbose is Error; a leaf has no breakdown.
func (u *Unit) ErrorVerbose(s *cell.Scope) any { return u.Error(s) }

// Touched returns the touched flag.
func (u *Unit) Touched(s *cell.Scope) any { return u.touched.Read(s) }

// TouchedVerbose is Touched.
func (u *Unit) TouchedVerbose(s *cell.Scope) any { return u.Touched(s) }

// Validated returns whether errors are reported.
func (u *Unit) Validated(s *cell.Scope) any { return u.validated.Read(s) }

// ValidatedVerbose is Validated.
func (u *Unit) ValidatedVerbose(s *cell.Scope) any { return u.Validated(s) }

// Valid reports a validated leaf without error.
func (u *Unit) Valid(s *cell.Scope) any {
	return u.validated.Read(s) && u.errorView.Read(s) == nil
}

// ValidVerbose is Valid.
func (u *Unit) ValidVerbose(s *cell.Scope) any { return u.Valid(s) }

// Invalid reports a leaf with a visible error.
func (u *Unit) Invalid(s *cell.Scope) any { return u.errorView.Read(s) != nil }

// InvalidVerbose is Invalid.
func (u *Unit) InvalidVerbose(s *cell.Scope) any { return u.Invalid(s) }

// Dirty reports whether the input differs from the initial value.
func (u *Unit) Dirty(s *cell.Scope) any { return u.dirty.Read(s) }

// DirtyVerbose is Dirty.
func (u *Unit) DirtyVerbose(s *cell.Scope) any { return u.Dirty(s) }

// ValidateOn returns the validation strategy.
func (u *Unit) ValidateOn(s *cell.Scope) any { return u.validateOn.Read(s) }

// ValidateOnVerbose is ValidateOn.
func (u *Unit) ValidateOnVerbose(s *cell.Scope) any { return u.ValidateOn(s) }

// SetInput writes the input. Function setters receive (input, initial).
func (u *Unit) SetInput(setter any) {
	next := resolveSetter(setter,
		func() any { return u.Input(nil) },
		func() any { return u.Initial(nil) },
	)
	if IsUndefined(next) {
		return
	}
	cell.Batch(func() {
		u.input.Write(next)
		u.latch()
	})
}

// SetInitial writes the baseline. Function setters receive (initial, input).
func (u *Unit) SetInitial(setter any) {
	next := resolveSetter(setter,
		func() any { return u.Initial(nil) },
		func() any { return u.Input(nil) },
	)
	if IsUndefined(next) {
		return
	}
	cell.Batch(func() {
		u.initial.Read(nil).Write(next)
		u.latch()
	})
}

// SetTouched writes the touched flag. Non-boolean values are ignored.
func (u *Unit) SetTouched(setter any) {
	next, ok := resolveSetter(setter, func() any { return u.Touched(nil) }, noReference).(bool)
	if !ok {
		return
	}
	cell.Batch(func() {
		u.touched.Write(next)
		u.latch()
	})
}

// SetValidateOn switches the strategy and re-evaluates the validated flag
// under it. Unknown strategies are ignored.
func (u *Unit) SetValidateOn(setter any) {
	next, ok := ParseValidateStrategy(resolveSetter(setter, func() any { return u.ValidateOn(nil) }, noReference))
	if !ok {
		return
	}
	cell.Batch(func() {
		u.validateOn.Write(next)
		u.latched.Write(u.strategyHolds(nil, next))
	})
}

// SetError sets the custom error; nil clears it. It does not revalidate.
func (u *Unit) SetError(setter any) {
	next := resolveSetter(setter, func() any { return u.ErrorVerbose(nil) }, noReference)
	if IsUndefined(next) {
		return
	}
	u.customErr.Write(next)
}

// Reset copies the initial value into the input, clears touched and the
// custom error and re-evaluates the validated flag.
func (u *Unit) Reset() {
	cell.Batch(func() {
		u.input.Write(values.Clone(u.Initial(nil)))
		u.touched.Write(false)
		u.customErr.Write(nil)
		u.latched.Write(u.strategyHolds(nil, u.validateOn.Read(nil)))
	})
}

// ResetTo applies resetter as an initial setter and resets.
func (u *Unit) ResetTo(resetter any) {
	cell.Batch(func() {
		u.SetInitial(resetter)
		u.Reset()
	})
}

// Submit submits the subtree of u.
func (u *Unit) Submit(ctx context.Context) error {
	return submitNode(ctx, u)
}

func (u *Unit) copyInto(r *root, shareInput bool) *Unit {
	next := &Unit{
		base:       newBase(r),
		validator:  u.validator,
		equal:      u.equal,
		errorEqual: u.errorEqual,
	}
	if shareInput {
		next.input = u.input
	} else {
		next.input = u.input.Clone(values.Clone)
	}
	next.initial = newInitialRef(u.initial.Read(nil).Clone(values.Clone))
	next.touched = u.touched.Clone(nil)
	next.validateOn = u.validateOn.Clone(nil)
	next.customErr = u.customErr.Clone(nil)
	next.latched = u.latched.Clone(nil)
	next.wire()
	return next
}

// childOf attaches u under r. The input cell is shared (it is user
// progress); the baseline is copied so trees built from the same definition
// keep independent initial values.
func (u *Unit) childOf(r *root) Node {
	return u.copyInto(r, true)
}

func (u *Unit) clone() Node {
	return u.copyInto(u.root, false)
}

func (u *Unit) bindInitial(other Node) {
	if o, ok := other.(*Unit); ok {
		u.initial.Write(o.initial.Read(nil))
	}
}

func (u *Unit) dirtyAgainst(s *cell.Scope, other Node) (any, any) {
	o, ok := other.(*Unit)
	if !ok {
		return true, true
	}
	dirty := !u.equal(u.input.Read(s), o.Initial(s))
	return dirty, dirty
}

func (u *Unit) forcedDirty(*cell.Scope) any {
	return true
}

func (u *Unit) markSubmitted() {
	u.latched.Write(true)
}

func (u *Unit) children(*cell.Scope) []Node {
	return nil
}

func (u *Unit) allChildren() []Node {
	return nil
}
