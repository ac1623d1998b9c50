package forms

import (
	"context"

	"github.com/goliatone/go-forms/cell"
)

// List aggregates an ordered, homogeneous sequence of children. Next to the
// current elements it tracks the initial elements: the baseline each
// position is compared with and the template Reset restores from. The two
// may differ in length once elements are appended or removed.
type List struct {
	base

	elements        *cell.Cell[[]Node]
	initialElements *cell.Cell[[]Node]

	views compositeViews
}

// NewList constructs a top-level list. The initial elements are copies of
// elements taken at construction.
func NewList(elements []Node, opts ...Option) *List {
	cfg := applyOptions(opts)
	r := newRoot(cfg)
	current := make([]Node, 0, len(elements))
	for _, element := range elements {
		if isNilNode(element) {
			continue
		}
		current = append(current, element.childOf(r))
	}
	initial := make([]Node, len(current))
	for i, element := range current {
		initial[i] = element.clone()
		element.bindInitial(initial[i])
	}
	return newList(r, current, initial)
}

func newList(r *root, current, initial []Node) *List {
	l := &List{
		base:            newBase(r),
		elements:        cell.New(current, cell.WithEqual(sameNodes)),
		initialElements: cell.New(initial, cell.WithEqual(sameNodes)),
	}
	l.views = newCompositeViews(l)
	return l
}

func sameNodes(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Elements returns the current elements.
func (l *List) Elements(s *cell.Scope) []Node {
	return append([]Node(nil), l.elements.Read(s)...)
}

// InitialElements returns the elements Reset restores.
func (l *List) InitialElements(s *cell.Scope) []Node {
	return append([]Node(nil), l.initialElements.Read(s)...)
}

// SetElements replaces the current elements. It accepts a []Node or a
// func([]Node) []Node receiving the current elements. Elements of this list
// are kept as they are; any other node is attached to the list first.
// Initial elements are left alone, so positions beyond them read as dirty.
func (l *List) SetElements(setter any) {
	var next []Node
	switch typed := setter.(type) {
	case []Node:
		next = typed
	case func([]Node) []Node:
		if typed == nil {
			return
		}
		next = typed(l.Elements(nil))
	default:
		return
	}
	attached := make([]Node, 0, len(next))
	for _, element := range next {
		switch {
		case isNilNode(element):
			continue
		case element.core().root == l.root:
			attached = append(attached, element)
		default:
			attached = append(attached, element.childOf(l.root))
		}
	}
	l.elements.Write(attached)
}

func (l *List) collect(s *cell.Scope, read func(Node) any) []any {
	elements := l.elements.Read(s)
	out := make([]any, len(elements))
	for i, element := range elements {
		out[i] = read(element)
	}
	return out
}

func (l *List) input(s *cell.Scope) any {
	return l.collect(s, func(n Node) any { return n.Input(s) })
}

func (l *List) initialValue(s *cell.Scope) any {
	initial := l.initialElements.Read(s)
	out := make([]any, len(initial))
	for i, element := range initial {
		out[i] = element.Initial(s)
	}
	return out
}

func (l *List) output(s *cell.Scope) any {
	out := l.collect(s, func(n Node) any { return n.Output(s) })
	for _, value := range out {
		if value == nil {
			return nil
		}
	}
	return out
}

func (l *List) errorConcise(s *cell.Scope) any {
	out := l.collect(s, func(n Node) any { return n.Error(s) })
	for _, err := range out {
		if err != nil {
			return out
		}
	}
	return nil
}

func (l *List) errorVerbose(s *cell.Scope) any {
	return l.collect(s, func(n Node) any { return n.ErrorVerbose(s) })
}

func (l *List) flag(s *cell.Scope, read func(Node) any) any {
	items := l.collect(s, read)
	return conciseFlag(items, items)
}

func (l *List) verbose(s *cell.Scope, read func(Node) any) any {
	return l.collect(s, read)
}

func (l *List) strategy(s *cell.Scope) any {
	items := l.collect(s, func(n Node) any { return n.ValidateOn(s) })
	return conciseStrategy(items, items)
}

func (l *List) dirty(s *cell.Scope) (any, any) {
	return l.dirtyAgainst(s, l)
}

// Input returns the inputs of the current elements.
func (l *List) Input(s *cell.Scope) any { return l.views.input.Read(s) }

// Initial returns the initial values of the initial elements.
func (l *List) Initial(s *cell.Scope) any { return l.views.initial.Read(s) }

// Output returns the element outputs, or nil when any of them is nil. An
// empty list outputs an empty slice.
func (l *List) Output(s *cell.Scope) any { return l.views.output.Read(s) }

// Error returns nil when no element has an error, else the element errors.
func (l *List) Error(s *cell.Scope) any { return l.views.errorConcise.Read(s) }

// ErrorVerbose returns the verbose element errors.
func (l *List) ErrorVerbose(s *cell.Scope) any { return l.views.errorVerbose.Read(s) }

// Touched folds the element touched flags.
func (l *List) Touched(s *cell.Scope) any { return l.views.touched.Read(s) }

// TouchedVerbose returns the verbose touched flag of every element.
func (l *List) TouchedVerbose(s *cell.Scope) any { return l.views.touchedVerbose.Read(s) }

// Validated folds the element validated flags.
func (l *List) Validated(s *cell.Scope) any { return l.views.validated.Read(s) }

// ValidatedVerbose returns the verbose validated flag of every element.
func (l *List) ValidatedVerbose(s *cell.Scope) any { return l.views.validatedVerbose.Read(s) }

// Valid folds the element valid flags.
func (l *List) Valid(s *cell.Scope) any { return l.views.valid.Read(s) }

// ValidVerbose returns the verbose valid flag of every element.
func (l *List) ValidVerbose(s *cell.Scope) any { return l.views.validVerbose.Read(s) }

// Invalid folds the element invalid flags.
func (l *List) Invalid(s *cell.Scope) any { return l.views.invalid.Read(s) }

// InvalidVerbose returns the verbose invalid flag of every element.
func (l *List) InvalidVerbose(s *cell.Scope) any { return l.views.invalidVerbose.Read(s) }

// Dirty folds the positional dirty flags. Appended and removed positions
// are always dirty.
func (l *List) Dirty(s *cell.Scope) any { return l.views.dirty.Read(s).concise }

// DirtyVerbose returns one entry per position of the longer of the current
// and the initial elements.
func (l *List) DirtyVerbose(s *cell.Scope) any { return l.views.dirty.Read(s).verbose }

// ValidateOn folds the element strategies. An empty list reports onTouch.
func (l *List) ValidateOn(s *cell.Scope) any { return l.views.validateOn.Read(s) }

// ValidateOnVerbose returns the verbose strategy of every element.
func (l *List) ValidateOnVerbose(s *cell.Scope) any { return l.views.validateOnVerbose.Read(s) }

// SetInput applies a positional setter to the current elements. Function
// setters receive (input, initial).
func (l *List) SetInput(setter any) {
	next := resolveSetter(setter,
		func() any { return l.Input(nil) },
		func() any { return l.Initial(nil) },
	)
	l.forward(next, applyInput, false)
}

// SetInitial writes the baseline. A positional setter first materializes
// the next initial elements, as many as the setter has entries and the list
// has templates for: existing initial elements first, then copies of the
// current elements past them. Each is written through its own initial
// setter and the current elements are rebound to them positionally.
func (l *List) SetInitial(setter any) {
	next, ok := resolveSetter(setter,
		func() any { return l.Initial(nil) },
		func() any { return l.Input(nil) },
	).([]any)
	if !ok {
		return
	}
	cell.Batch(func() {
		current := l.elements.Read(nil)
		initial := l.initialElements.Read(nil)

		size := len(next)
		if limit := max(len(initial), len(current)); size > limit {
			size = limit
		}
		materialized := make([]Node, size)
		for i := range materialized {
			if i < len(initial) {
				materialized[i] = initial[i]
			} else {
				materialized[i] = current[i].clone()
			}
			if !IsUndefined(next[i]) {
				materialized[i].SetInitial(next[i])
			}
		}
		l.initialElements.Write(materialized)
		for i := 0; i < len(current) && i < len(materialized); i++ {
			current[i].bindInitial(materialized[i])
		}
	})
}

// SetTouched fans a boolean out to every element or applies a positional
// setter.
func (l *List) SetTouched(setter any) {
	l.forward(resolveSetter(setter, func() any { return l.TouchedVerbose(nil) }, noReference), applyTouched, true)
}

// SetValidateOn fans a strategy out to every element or applies a
// positional setter.
func (l *List) SetValidateOn(setter any) {
	l.forward(resolveSetter(setter, func() any { return l.ValidateOnVerbose(nil) }, noReference), applyValidateOn, true)
}

// SetError fans a scalar error out to every element or applies a positional
// setter.
func (l *List) SetError(setter any) {
	l.forward(resolveSetter(setter, func() any { return l.ErrorVerbose(nil) }, noReference), applyError, true)
}

func (l *List) forward(next any, apply func(Node, any), scalars bool) {
	if IsUndefined(next) {
		return
	}
	cell.Batch(func() {
		elements := l.elements.Read(nil)
		if positional, ok := next.([]any); ok {
			forwardList(positional, elements, apply)
			return
		}
		if scalars {
			fanOut(elements, next, apply)
		}
	})
}

// Reset replaces the current elements with fresh copies of the initial
// elements, dropping structural edits, and resets each of them.
func (l *List) Reset() {
	cell.Batch(func() {
		initial := l.initialElements.Read(nil)
		next := make([]Node, len(initial))
		for i, element := range initial {
			next[i] = element.clone()
			next[i].bindInitial(element)
			next[i].Reset()
		}
		l.elements.Write(next)
	})
}

// ResetTo applies resetter as an initial setter and resets.
func (l *List) ResetTo(resetter any) {
	cell.Batch(func() {
		l.SetInitial(resetter)
		l.Reset()
	})
}

// Submit submits the subtree of l.
func (l *List) Submit(ctx context.Context) error {
	return submitNode(ctx, l)
}

func (l *List) childOf(r *root) Node {
	current := l.elements.Read(nil)
	initial := l.initialElements.Read(nil)
	nextCurrent := make([]Node, len(current))
	for i, element := range current {
		nextCurrent[i] = element.childOf(r)
	}
	nextInitial := make([]Node, len(initial))
	for i, element := range initial {
		nextInitial[i] = element.childOf(r)
	}
	bindPositional(nextCurrent, nextInitial)
	return newList(r, nextCurrent, nextInitial)
}

func (l *List) clone() Node {
	current := l.elements.Read(nil)
	initial := l.initialElements.Read(nil)
	nextCurrent := make([]Node, len(current))
	for i, element := range current {
		nextCurrent[i] = element.clone()
	}
	nextInitial := make([]Node, len(initial))
	for i, element := range initial {
		nextInitial[i] = element.clone()
	}
	bindPositional(nextCurrent, nextInitial)
	return newList(l.root, nextCurrent, nextInitial)
}

func bindPositional(current, initial []Node) {
	for i := 0; i < len(current) && i < len(initial); i++ {
		current[i].bindInitial(initial[i])
	}
}

func (l *List) bindInitial(other Node) {
	o, ok := other.(*List)
	if !ok {
		return
	}
	initial := o.initialElements.Read(nil)
	l.initialElements.Write(initial)
	bindPositional(l.elements.Read(nil), initial)
}

func (l *List) dirtyAgainst(s *cell.Scope, other Node) (any, any) {
	o, ok := other.(*List)
	if !ok {
		return true, l.forcedDirty(s)
	}
	current := l.elements.Read(s)
	initial := o.initialElements.Read(s)
	size := max(len(current), len(initial))
	items := make([]any, size)
	verbose := make([]any, size)
	for i := range size {
		switch {
		case i >= len(initial):
			items[i], verbose[i] = true, current[i].forcedDirty(s)
		case i >= len(current):
			items[i], verbose[i] = true, initial[i].forcedDirty(s)
		default:
			items[i], verbose[i] = current[i].dirtyAgainst(s, initial[i])
		}
	}
	return conciseFlag(items, items), verbose
}

func (l *List) forcedDirty(s *cell.Scope) any {
	return l.collect(s, func(n Node) any { return n.forcedDirty(s) })
}

func (l *List) markSubmitted() {
	for _, element := range l.elements.Read(nil) {
		element.markSubmitted()
	}
}

func (l *List) children(s *cell.Scope) []Node {
	return l.elements.Read(s)
}

func (l *List) allChildren() []Node {
	return l.elements.Read(nil)
}
