package forms

import (
	"context"

	"github.com/goliatone/go-forms/cell"
)

// Optional wraps an element behind an enabled flag node. Its output has
// three states: Undefined while enabled outputs false, nil while enabled
// or the element is invalid, and the element output otherwise.
type Optional struct {
	base

	enabled Node
	element Node

	views compositeViews
}

// NewOptional constructs a top-level optional. enabled is usually a Unit
// holding a bool.
func NewOptional(enabled, element Node, opts ...Option) *Optional {
	cfg := applyOptions(opts)
	r := newRoot(cfg)
	return newOptional(r, enabled.childOf(r), element.childOf(r))
}

func newOptional(r *root, enabled, element Node) *Optional {
	o := &Optional{
		base:    newBase(r),
		enabled: enabled,
		element: element,
	}
	o.views = newCompositeViews(o)
	return o
}

// Enabled returns the flag node.
func (o *Optional) Enabled() Node {
	return o.enabled
}

// Element returns the wrapped node.
func (o *Optional) Element() Node {
	return o.element
}

// applies reports whether the element takes part in concise views: the
// flag must output something other than false.
func (o *Optional) applies(s *cell.Scope) bool {
	switch flag := o.enabled.Output(s); flag {
	case nil, false:
		return false
	default:
		return !IsUndefined(flag)
	}
}

func (o *Optional) record(enabled, element any) map[string]any {
	return map[string]any{KeyEnabled: enabled, KeyElement: element}
}

func (o *Optional) conciseRecord(s *cell.Scope, read func(Node) any) ([]any, map[string]any) {
	enabled := read(o.enabled)
	items := []any{enabled}
	breakdown := map[string]any{KeyEnabled: enabled}
	if o.applies(s) {
		element := read(o.element)
		items = append(items, element)
		breakdown[KeyElement] = element
	}
	return items, breakdown
}

func (o *Optional) input(s *cell.Scope) any {
	return o.record(o.enabled.Input(s), o.element.Input(s))
}

func (o *Optional) initialValue(s *cell.Scope) any {
	return o.record(o.enabled.Initial(s), o.element.Initial(s))
}

func (o *Optional) output(s *cell.Scope) any {
	switch flag := o.enabled.Output(s); {
	case flag == false:
		return Undefined
	case flag == nil:
		return nil
	default:
		return o.element.Output(s)
	}
}

func (o *Optional) errorConcise(s *cell.Scope) any {
	items, breakdown := o.conciseRecord(s, func(n Node) any { return n.Error(s) })
	for _, err := range items {
		if err != nil {
			return breakdown
		}
	}
	return nil
}

func (o *Optional) errorVerbose(s *cell.Scope) any {
	return o.record(o.enabled.ErrorVerbose(s), o.element.ErrorVerbose(s))
}

func (o *Optional) flag(s *cell.Scope, read func(Node) any) any {
	items, breakdown := o.conciseRecord(s, read)
	return conciseFlag(items, breakdown)
}

func (o *Optional) verbose(_ *cell.Scope, read func(Node) any) any {
	return o.record(read(o.enabled), read(o.element))
}

func (o *Optional) strategy(s *cell.Scope) any {
	items, breakdown := o.conciseRecord(s, func(n Node) any { return n.ValidateOn(s) })
	return conciseStrategy(items, breakdown)
}

func (o *Optional) dirty(s *cell.Scope) (any, any) {
	return o.dirtyAgainst(s, o)
}

// Input returns {"enabled", "element"} inputs.
func (o *Optional) Input(s *cell.Scope) any { return o.views.input.Read(s) }

// Initial returns {"enabled", "element"} initial values.
func (o *Optional) Initial(s *cell.Scope) any { return o.views.initial.Read(s) }

// Output returns Undefined, nil or the element output.
func (o *Optional) Output(s *cell.Scope) any { return o.views.output.Read(s) }

// Error ignores the element while it does not apply.
func (o *Optional) Error(s *cell.Scope) any { return o.views.errorConcise.Read(s) }

// ErrorVerbose returns {"enabled", "element"} errors.
func (o *Optional) ErrorVerbose(s *cell.Scope) any { return o.views.errorVerbose.Read(s) }

// Touched folds the enabled flag and, when it applies, the element.
func (o *Optional) Touched(s *cell.Scope) any { return o.views.touched.Read(s) }

// TouchedVerbose returns {"enabled", "element"} touched flags.
func (o *Optional) TouchedVerbose(s *cell.Scope) any { return o.views.touchedVerbose.Read(s) }

// Validated folds the enabled flag and, when it applies, the element.
func (o *Optional) Validated(s *cell.Scope) any { return o.views.validated.Read(s) }

// ValidatedVerbose returns {"enabled", "element"} validated flags.
func (o *Optional) ValidatedVerbose(s *cell.Scope) any { return o.views.validatedVerbose.Read(s) }

// Valid folds the enabled flag and, when it applies, the element.
func (o *Optional) Valid(s *cell.Scope) any { return o.views.valid.Read(s) }

// ValidVerbose returns {"enabled", "element"} valid flags.
func (o *Optional) ValidVerbose(s *cell.Scope) any { return o.views.validVerbose.Read(s) }

// Invalid folds the enabled flag and, when it applies, the element.
func (o *Optional) Invalid(s *cell.Scope) any { return o.views.invalid.Read(s) }

// InvalidVerbose returns {"enabled", "element"} invalid flags.
func (o *Optional) InvalidVerbose(s *cell.Scope) any { return o.views.invalidVerbose.Read(s) }

// Dirty folds the enabled flag and, when it applies, the element.
func (o *Optional) Dirty(s *cell.Scope) any { return o.views.dirty.Read(s).concise }

// DirtyVerbose returns {"enabled", "element"} dirty flags.
func (o *Optional) DirtyVerbose(s *cell.Scope) any { return o.views.dirty.Read(s).verbose }

// ValidateOn folds the strategies of the enabled flag and the element.
func (o *Optional) ValidateOn(s *cell.Scope) any { return o.views.validateOn.Read(s) }

// ValidateOnVerbose returns {"enabled", "element"} strategies.
func (o *Optional) ValidateOnVerbose(s *cell.Scope) any { return o.views.validateOnVerbose.Read(s) }

// SetInput accepts {"enabled", "element"}. Function setters receive
// (input, initial).
func (o *Optional) SetInput(setter any) {
	o.forward(resolveSetter(setter,
		func() any { return o.Input(nil) },
		func() any { return o.Initial(nil) },
	), applyInput, false)
}

// SetInitial accepts {"enabled", "element"}.
func (o *Optional) SetInitial(setter any) {
	o.forward(resolveSetter(setter,
		func() any { return o.Initial(nil) },
		func() any { return o.Input(nil) },
	), applyInitial, false)
}

func (o *Optional) SetTouched(setter any) {
	o.forward(resolveSetter(setter, func() any { return o.TouchedVerbose(nil) }, noReference), applyTouched, true)
}

func (o *Optional) SetValidateOn(setter any) {
	o.forward(resolveSetter(setter, func() any { return o.ValidateOnVerbose(nil) }, noReference), applyValidateOn, true)
}

func (o *Optional) SetError(setter any) {
	o.forward(resolveSetter(setter, func() any { return o.ErrorVerbose(nil) }, noReference), applyError, true)
}

func (o *Optional) forward(next any, apply func(Node, any), scalars bool) {
	if IsUndefined(next) {
		return
	}
	cell.Batch(func() {
		if record, ok := next.(map[string]any); ok {
			forwardRecord(record, map[string]Node{KeyEnabled: o.enabled, KeyElement: o.element}, apply)
			return
		}
		if scalars {
			fanOut(o.allChildren(), next, apply)
		}
	})
}

// Reset resets the flag and the element.
func (o *Optional) Reset() {
	cell.Batch(func() {
		o.enabled.Reset()
		o.element.Reset()
	})
}

// ResetTo applies resetter as an initial setter and resets.
func (o *Optional) ResetTo(resetter any) {
	cell.Batch(func() {
		o.SetInitial(resetter)
		o.Reset()
	})
}

// Submit submits the subtree of o.
func (o *Optional) Submit(ctx context.Context) error {
	return submitNode(ctx, o)
}

func (o *Optional) childOf(r *root) Node {
	return newOptional(r, o.enabled.childOf(r), o.element.childOf(r))
}

func (o *Optional) clone() Node {
	return newOptional(o.root, o.enabled.clone(), o.element.clone())
}

func (o *Optional) bindInitial(other Node) {
	peer, ok := other.(*Optional)
	if !ok {
		return
	}
	o.enabled.bindInitial(peer.enabled)
	o.element.bindInitial(peer.element)
}

func (o *Optional) dirtyAgainst(s *cell.Scope, other Node) (any, any) {
	peer, ok := other.(*Optional)
	if !ok {
		return true, o.forcedDirty(s)
	}
	enabledConcise, enabledVerbose := o.enabled.dirtyAgainst(s, peer.enabled)
	elementConcise, elementVerbose := o.element.dirtyAgainst(s, peer.element)

	items := []any{enabledConcise}
	breakdown := map[string]any{KeyEnabled: enabledConcise}
	if o.applies(s) {
		items = append(items, elementConcise)
		breakdown[KeyElement] = elementConcise
	}
	return conciseFlag(items, breakdown), o.record(enabledVerbose, elementVerbose)
}

func (o *Optional) forcedDirty(s *cell.Scope) any {
	return o.record(o.enabled.forcedDirty(s), o.element.forcedDirty(s))
}

func (o *Optional) markSubmitted() {
	o.enabled.markSubmitted()
	o.element.markSubmitted()
}

func (o *Optional) children(s *cell.Scope) []Node {
	if o.applies(s) {
		return []Node{o.enabled, o.element}
	}
	return []Node{o.enabled}
}

func (o *Optional) allChildren() []Node {
	return []Node{o.enabled, o.element}
}
