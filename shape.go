package forms

import (
	"context"
	"sort"

	"github.com/goliatone/go-forms/cell"
	"github.com/goliatone/go-forms/internal/values"
)

// Shape aggregates a fixed set of named children. Non-node field values are
// constants echoed unchanged into input, initial and output.
type Shape struct {
	base

	fields    map[string]Node
	keys      []string
	constants map[string]any

	views compositeViews
}

// NewShape constructs a top-level shape. Values of fields that implement
// Node become children; every other value is kept as a constant.
func NewShape(fields map[string]any, opts ...Option) *Shape {
	cfg := applyOptions(opts)
	r := newRoot(cfg)
	nodes := map[string]Node{}
	constants := map[string]any{}
	for key, value := range fields {
		if child, ok := value.(Node); ok {
			nodes[key] = child.childOf(r)
			continue
		}
		constants[key] = values.Clone(value)
	}
	return newShape(r, nodes, constants)
}

func newShape(r *root, fields map[string]Node, constants map[string]any) *Shape {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	s := &Shape{
		base:      newBase(r),
		fields:    fields,
		keys:      keys,
		constants: constants,
	}
	s.views = newCompositeViews(s)
	return s
}

// Field returns the child registered under name, or nil.
func (sh *Shape) Field(name string) Node {
	return sh.fields[name]
}

// Keys returns the child names in sorted order.
func (sh *Shape) Keys() []string {
	return append([]string(nil), sh.keys...)
}

func (sh *Shape) ordered() []Node {
	out := make([]Node, len(sh.keys))
	for i, key := range sh.keys {
		out[i] = sh.fields[key]
	}
	return out
}

func (sh *Shape) withConstants(record map[string]any) map[string]any {
	for key, value := range sh.constants {
		record[key] = value
	}
	return record
}

func (sh *Shape) collect(read func(Node) any) map[string]any {
	out := make(map[string]any, len(sh.keys))
	for _, key := range sh.keys {
		out[key] = read(sh.fields[key])
	}
	return out
}

func (sh *Shape) input(s *cell.Scope) any {
	return sh.withConstants(sh.collect(func(n Node) any { return n.Input(s) }))
}

func (sh *Shape) initialValue(s *cell.Scope) any {
	return sh.withConstants(sh.collect(func(n Node) any { return n.Initial(s) }))
}

func (sh *Shape) output(s *cell.Scope) any {
	out := make(map[string]any, len(sh.keys))
	for _, key := range sh.keys {
		value := sh.fields[key].Output(s)
		if value == nil {
			return nil
		}
		out[key] = value
	}
	return sh.withConstants(out)
}

func (sh *Shape) errorConcise(s *cell.Scope) any {
	out := sh.collect(func(n Node) any { return n.Error(s) })
	for _, err := range out {
		if err != nil {
			return out
		}
	}
	return nil
}

func (sh *Shape) errorVerbose(s *cell.Scope) any {
	return sh.collect(func(n Node) any { return n.ErrorVerbose(s) })
}

func (sh *Shape) flag(_ *cell.Scope, read func(Node) any) any {
	items := make([]any, len(sh.keys))
	for i, key := range sh.keys {
		items[i] = read(sh.fields[key])
	}
	return conciseFlag(items, sh.collect(read))
}

func (sh *Shape) verbose(_ *cell.Scope, read func(Node) any) any {
	return sh.collect(read)
}

func (sh *Shape) strategy(s *cell.Scope) any {
	read := func(n Node) any { return n.ValidateOn(s) }
	items := make([]any, len(sh.keys))
	for i, key := range sh.keys {
		items[i] = read(sh.fields[key])
	}
	return conciseStrategy(items, sh.collect(read))
}

func (sh *Shape) dirty(s *cell.Scope) (any, any) {
	return sh.dirtyAgainst(s, sh)
}

// Input returns the record of child inputs plus constants.
func (sh *Shape) Input(s *cell.Scope) any { return sh.views.input.Read(s) }

// Initial returns the record of child initial values plus constants.
func (sh *Shape) Initial(s *cell.Scope) any { return sh.views.initial.Read(s) }

// Output returns the record of child outputs plus constants, or nil when any
// child output is nil.
func (sh *Shape) Output(s *cell.Scope) any { return sh.views.output.Read(s) }

// Error returns nil when no child has an error, else the record of child
// concise errors.
func (sh *Shape) Error(s *cell.Scope) any { return sh.views.errorConcise.Read(s) }

// ErrorVerbose returns the record of child verbose errors.
func (sh *Shape) ErrorVerbose(s *cell.Scope) any { return sh.views.errorVerbose.Read(s) }

// Touched folds the children's touched flags.
func (sh *Shape) Touched(s *cell.Scope) any { return sh.views.touched.Read(s) }

// TouchedVerbose returns the record of child touched breakdowns.
func (sh *Shape) TouchedVerbose(s *cell.Scope) any { return sh.views.touchedVerbose.Read(s) }

// Validated folds the children's validated flags.
func (sh *Shape) Validated(s *cell.Scope) any { return sh.views.validated.Read(s) }

// ValidatedVerbose returns the record of child validated breakdowns.
func (sh *Shape) ValidatedVerbose(s *cell.Scope) any { return sh.views.validatedVerbose.Read(s) }

// Valid folds the children's valid flags.
func (sh *Shape) Valid(s *cell.Scope) any { return sh.views.valid.Read(s) }

// ValidVerbose returns the record of child valid breakdowns.
func (sh *Shape) ValidVerbose(s *cell.Scope) any { return sh.views.validVerbose.Read(s) }

// Invalid folds the children's invalid flags.
func (sh *Shape) Invalid(s *cell.Scope) any { return sh.views.invalid.Read(s) }

// InvalidVerbose returns the record of child invalid breakdowns.
func (sh *Shape) InvalidVerbose(s *cell.Scope) any { return sh.views.invalidVerbose.Read(s) }

// Dirty folds the children's dirty flags.
func (sh *Shape) Dirty(s *cell.Scope) any { return sh.views.dirty.Read(s).concise }

// DirtyVerbose returns the record of child dirty breakdowns.
func (sh *Shape) DirtyVerbose(s *cell.Scope) any { return sh.views.dirty.Read(s).verbose }

// ValidateOn folds the children's strategies.
func (sh *Shape) ValidateOn(s *cell.Scope) any { return sh.views.validateOn.Read(s) }

// ValidateOnVerbose returns the record of child strategy breakdowns.
func (sh *Shape) ValidateOnVerbose(s *cell.Scope) any { return sh.views.validateOnVerbose.Read(s) }

// SetInput forwards a record setter to the named children. Function setters
// receive (input, initial). Constants are not writable.
func (sh *Shape) SetInput(setter any) {
	sh.forward(resolveSetter(setter,
		func() any { return sh.Input(nil) },
		func() any { return sh.Initial(nil) },
	), applyInput, false)
}

// SetInitial forwards a record setter to the children's initial values.
func (sh *Shape) SetInitial(setter any) {
	sh.forward(resolveSetter(setter,
		func() any { return sh.Initial(nil) },
		func() any { return sh.Input(nil) },
	), applyInitial, false)
}

// SetTouched fans a boolean out to every child or forwards a record setter.
func (sh *Shape) SetTouched(setter any) {
	sh.forward(resolveSetter(setter, func() any { return sh.TouchedVerbose(nil) }, noReference), applyTouched, true)
}

// SetValidateOn fans a strategy out to every child or forwards a record
// setter.
func (sh *Shape) SetValidateOn(setter any) {
	sh.forward(resolveSetter(setter, func() any { return sh.ValidateOnVerbose(nil) }, noReference), applyValidateOn, true)
}

// SetError fans a scalar error (nil clears) out to every child or forwards
// a record setter.
func (sh *Shape) SetError(setter any) {
	sh.forward(resolveSetter(setter, func() any { return sh.ErrorVerbose(nil) }, noReference), applyError, true)
}

func (sh *Shape) forward(next any, apply func(Node, any), scalars bool) {
	if IsUndefined(next) {
		return
	}
	cell.Batch(func() {
		if record, ok := next.(map[string]any); ok {
			forwardRecord(record, sh.fields, apply)
			return
		}
		if scalars {
			fanOut(sh.ordered(), next, apply)
		}
	})
}

// Reset resets every child.
func (sh *Shape) Reset() {
	cell.Batch(func() {
		for _, child := range sh.ordered() {
			child.Reset()
		}
	})
}

// ResetTo applies resetter as an initial setter and resets.
func (sh *Shape) ResetTo(resetter any) {
	cell.Batch(func() {
		sh.SetInitial(resetter)
		sh.Reset()
	})
}

// Submit submits the subtree of sh.
func (sh *Shape) Submit(ctx context.Context) error {
	return submitNode(ctx, sh)
}

func (sh *Shape) childOf(r *root) Node {
	fields := make(map[string]Node, len(sh.fields))
	for key, child := range sh.fields {
		fields[key] = child.childOf(r)
	}
	return newShape(r, fields, values.Clone(sh.constants).(map[string]any))
}

func (sh *Shape) clone() Node {
	fields := make(map[string]Node, len(sh.fields))
	for key, child := range sh.fields {
		fields[key] = child.clone()
	}
	return newShape(sh.root, fields, values.Clone(sh.constants).(map[string]any))
}

func (sh *Shape) bindInitial(other Node) {
	o, ok := other.(*Shape)
	if !ok {
		return
	}
	for key, child := range sh.fields {
		if peer, ok := o.fields[key]; ok {
			child.bindInitial(peer)
		}
	}
}

func (sh *Shape) dirtyAgainst(s *cell.Scope, other Node) (any, any) {
	o, ok := other.(*Shape)
	if !ok {
		return true, sh.forcedDirty(s)
	}
	items := make([]any, len(sh.keys))
	concise := make(map[string]any, len(sh.keys))
	verbose := make(map[string]any, len(sh.keys))
	for i, key := range sh.keys {
		peer, ok := o.fields[key]
		if !ok {
			items[i], verbose[key] = true, sh.fields[key].forcedDirty(s)
		} else {
			items[i], verbose[key] = sh.fields[key].dirtyAgainst(s, peer)
		}
		concise[key] = items[i]
	}
	return conciseFlag(items, concise), verbose
}

func (sh *Shape) forcedDirty(s *cell.Scope) any {
	return sh.collect(func(n Node) any { return n.forcedDirty(s) })
}

func (sh *Shape) markSubmitted() {
	for _, child := range sh.ordered() {
		child.markSubmitted()
	}
}

func (sh *Shape) children(*cell.Scope) []Node {
	return sh.ordered()
}

func (sh *Shape) allChildren() []Node {
	return sh.ordered()
}
