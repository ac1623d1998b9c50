package forms

import (
	"context"
	"fmt"
	"sort"

	"github.com/goliatone/go-forms/cell"
)

// Switch is a tagged union: the output of the active selector picks one of
// the branches. Concise views fold the selector with the picked branch
// only; verbose views report every branch.
//
// Input and initial values have the form {"active": a, "branches": {kind:
// v}}. The output is {"kind": kind, "value": v} for the picked branch, or
// nil while the selector is invalid or names no branch.
type Switch struct {
	base

	active   Node
	branches map[string]Node
	kinds    []string

	views compositeViews
}

// NewSwitch constructs a top-level switch. The selector output is mapped
// to a branch kind with KindOf.
func NewSwitch(active Node, branches map[string]Node, opts ...Option) *Switch {
	cfg := applyOptions(opts)
	r := newRoot(cfg)
	attached := make(map[string]Node, len(branches))
	for kind, branch := range branches {
		attached[kind] = branch.childOf(r)
	}
	return newSwitch(r, active.childOf(r), attached)
}

func newSwitch(r *root, active Node, branches map[string]Node) *Switch {
	kinds := make([]string, 0, len(branches))
	for kind := range branches {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	sw := &Switch{
		base:     newBase(r),
		active:   active,
		branches: branches,
		kinds:    kinds,
	}
	sw.views = newCompositeViews(sw)
	return sw
}

// KindOf maps a selector output to a branch kind: strings as they are,
// fmt.Stringer values through String and anything else through fmt.Sprint.
func KindOf(output any) string {
	switch typed := output.(type) {
	case string:
		return typed
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprint(typed)
	}
}

// Active returns the selector node.
func (sw *Switch) Active() Node {
	return sw.active
}

// Branch returns the branch registered under kind, or nil.
func (sw *Switch) Branch(kind string) Node {
	return sw.branches[kind]
}

// Kinds returns the branch kinds in sorted order.
func (sw *Switch) Kinds() []string {
	return append([]string(nil), sw.kinds...)
}

// ActiveKind returns the kind picked by the selector output and whether a
// branch is registered for it.
func (sw *Switch) ActiveKind(s *cell.Scope) (string, bool) {
	output := sw.active.Output(s)
	if output == nil || IsUndefined(output) {
		return "", false
	}
	kind := KindOf(output)
	_, ok := sw.branches[kind]
	return kind, ok
}

func (sw *Switch) collectBranches(read func(Node) any) map[string]any {
	out := make(map[string]any, len(sw.kinds))
	for _, kind := range sw.kinds {
		out[kind] = read(sw.branches[kind])
	}
	return out
}

func (sw *Switch) record(active any, branches map[string]any) map[string]any {
	return map[string]any{KeyActive: active, KeyBranches: branches}
}

// conciseRecord folds the selector and the picked branch.
func (sw *Switch) conciseRecord(s *cell.Scope, read func(Node) any) ([]any, map[string]any) {
	active := read(sw.active)
	items := []any{active}
	breakdown := map[string]any{KeyActive: active, KeyBranch: nil}
	if kind, ok := sw.ActiveKind(s); ok {
		value := read(sw.branches[kind])
		items = append(items, value)
		breakdown[KeyBranch] = BranchOf(kind, value)
	}
	return items, breakdown
}

func (sw *Switch) input(s *cell.Scope) any {
	return sw.record(sw.active.Input(s), sw.collectBranches(func(n Node) any { return n.Input(s) }))
}

func (sw *Switch) initialValue(s *cell.Scope) any {
	return sw.record(sw.active.Initial(s), sw.collectBranches(func(n Node) any { return n.Initial(s) }))
}

func (sw *Switch) output(s *cell.Scope) any {
	kind, ok := sw.ActiveKind(s)
	if !ok {
		return nil
	}
	value := sw.branches[kind].Output(s)
	if value == nil {
		return nil
	}
	return BranchOf(kind, value)
}

func (sw *Switch) errorConcise(s *cell.Scope) any {
	items, breakdown := sw.conciseRecord(s, func(n Node) any { return n.Error(s) })
	for _, err := range items {
		if err != nil {
			return breakdown
		}
	}
	return nil
}

func (sw *Switch) errorVerbose(s *cell.Scope) any {
	return sw.record(sw.active.ErrorVerbose(s), sw.collectBranches(func(n Node) any { return n.ErrorVerbose(s) }))
}

func (sw *Switch) flag(s *cell.Scope, read func(Node) any) any {
	items, breakdown := sw.conciseRecord(s, read)
	return conciseFlag(items, breakdown)
}

func (sw *Switch) verbose(_ *cell.Scope, read func(Node) any) any {
	return sw.record(read(sw.active), sw.collectBranches(read))
}

func (sw *Switch) strategy(s *cell.Scope) any {
	items, breakdown := sw.conciseRecord(s, func(n Node) any { return n.ValidateOn(s) })
	return conciseStrategy(items, breakdown)
}

func (sw *Switch) dirty(s *cell.Scope) (any, any) {
	return sw.dirtyAgainst(s, sw)
}

// Input returns {"active", "branches"} inputs.
func (sw *Switch) Input(s *cell.Scope) any { return sw.views.input.Read(s) }

// Initial returns {"active", "branches"} initial values.
func (sw *Switch) Initial(s *cell.Scope) any { return sw.views.initial.Read(s) }

// Output returns {"kind", "value"} for the picked branch, or nil.
func (sw *Switch) Output(s *cell.Scope) any { return sw.views.output.Read(s) }

// Error returns nil when neither the selector nor the picked branch has an
// error, else {"active", "branch"}.
func (sw *Switch) Error(s *cell.Scope) any { return sw.views.errorConcise.Read(s) }

// ErrorVerbose returns {"active", "branches"} errors of every child.
func (sw *Switch) ErrorVerbose(s *cell.Scope) any { return sw.views.errorVerbose.Read(s) }

// Touched folds the selector and the picked branch.
func (sw *Switch) Touched(s *cell.Scope) any { return sw.views.touched.Read(s) }

// TouchedVerbose returns {"active", "branches"} touched flags.
func (sw *Switch) TouchedVerbose(s *cell.Scope) any { return sw.views.touchedVerbose.Read(s) }

// Validated folds the selector and the picked branch.
func (sw *Switch) Validated(s *cell.Scope) any { return sw.views.validated.Read(s) }

// ValidatedVerbose returns {"active", "branches"} validated flags.
func (sw *Switch) ValidatedVerbose(s *cell.Scope) any { return sw.views.validatedVerbose.Read(s) }

// Valid folds the selector and the picked branch.
func (sw *Switch) Valid(s *cell.Scope) any { return sw.views.valid.Read(s) }

// ValidVerbose returns {"active", "branches"} valid flags.
func (sw *Switch) ValidVerbose(s *cell.Scope) any { return sw.views.validVerbose.Read(s) }

// Invalid folds the selector and the picked branch.
func (sw *Switch) Invalid(s *cell.Scope) any { return sw.views.invalid.Read(s) }

// InvalidVerbose returns {"active", "branches"} invalid flags.
func (sw *Switch) InvalidVerbose(s *cell.Scope) any { return sw.views.invalidVerbose.Read(s) }

// Dirty folds the selector and the picked branch.
func (sw *Switch) Dirty(s *cell.Scope) any { return sw.views.dirty.Read(s).concise }

// DirtyVerbose returns {"active", "branches"} dirty flags.
func (sw *Switch) DirtyVerbose(s *cell.Scope) any { return sw.views.dirty.Read(s).verbose }

// ValidateOn folds the strategies of the selector and the picked branch.
func (sw *Switch) ValidateOn(s *cell.Scope) any { return sw.views.validateOn.Read(s) }

// ValidateOnVerbose returns {"active", "branches"} strategies.
func (sw *Switch) ValidateOnVerbose(s *cell.Scope) any { return sw.views.validateOnVerbose.Read(s) }

// SetInput accepts {"active", "branches", "branch"}. Function setters
// receive (input, initial).
func (sw *Switch) SetInput(setter any) {
	sw.forward(resolveSetter(setter,
		func() any { return sw.Input(nil) },
		func() any { return sw.Initial(nil) },
	), applyInput, false)
}

// SetInitial accepts {"active", "branches", "branch"}. Function setters
// receive (initial, input).
func (sw *Switch) SetInitial(setter any) {
	sw.forward(resolveSetter(setter,
		func() any { return sw.Initial(nil) },
		func() any { return sw.Input(nil) },
	), applyInitial, false)
}

func (sw *Switch) SetTouched(setter any) {
	sw.forward(resolveSetter(setter, func() any { return sw.TouchedVerbose(nil) }, noReference), applyTouched, true)
}

func (sw *Switch) SetValidateOn(setter any) {
	sw.forward(resolveSetter(setter, func() any { return sw.ValidateOnVerbose(nil) }, noReference), applyValidateOn, true)
}

func (sw *Switch) SetError(setter any) {
	sw.forward(resolveSetter(setter, func() any { return sw.ErrorVerbose(nil) }, noReference), applyError, true)
}

// forward applies the selector entry, then the per-branch entries and then
// the single-branch entry. A kind targeted by "branch" is skipped in
// "branches" so the single-branch value wins. Unknown kinds are ignored and
// the single-branch kind need not match the selector.
func (sw *Switch) forward(next any, apply func(Node, any), scalars bool) {
	if IsUndefined(next) {
		return
	}
	record, ok := next.(map[string]any)
	if !ok {
		if scalars {
			cell.Batch(func() {
				fanOut(sw.allChildren(), next, apply)
			})
		}
		return
	}
	cell.Batch(func() {
		if active, ok := record[KeyActive]; ok && !IsUndefined(active) {
			apply(sw.active, active)
		}
		branch, _ := record[KeyBranch].(map[string]any)
		target, hasTarget := branch[KeyKind].(string)
		if branches, ok := record[KeyBranches].(map[string]any); ok {
			for kind, entry := range branches {
				if hasTarget && kind == target {
					continue
				}
				if child, ok := sw.branches[kind]; ok && !IsUndefined(entry) {
					apply(child, entry)
				}
			}
		}
		if hasTarget {
			value, present := branch[KeyValue]
			if child, ok := sw.branches[target]; ok && present && !IsUndefined(value) {
				apply(child, value)
			}
		}
	})
}

// Reset resets the selector and every branch.
func (sw *Switch) Reset() {
	cell.Batch(func() {
		for _, child := range sw.allChildren() {
			child.Reset()
		}
	})
}

// ResetTo applies resetter as an initial setter and resets.
func (sw *Switch) ResetTo(resetter any) {
	cell.Batch(func() {
		sw.SetInitial(resetter)
		sw.Reset()
	})
}

// Submit submits the subtree of sw.
func (sw *Switch) Submit(ctx context.Context) error {
	return submitNode(ctx, sw)
}

func (sw *Switch) childOf(r *root) Node {
	branches := make(map[string]Node, len(sw.branches))
	for kind, branch := range sw.branches {
		branches[kind] = branch.childOf(r)
	}
	return newSwitch(r, sw.active.childOf(r), branches)
}

func (sw *Switch) clone() Node {
	branches := make(map[string]Node, len(sw.branches))
	for kind, branch := range sw.branches {
		branches[kind] = branch.clone()
	}
	return newSwitch(sw.root, sw.active.clone(), branches)
}

func (sw *Switch) bindInitial(other Node) {
	o, ok := other.(*Switch)
	if !ok {
		return
	}
	sw.active.bindInitial(o.active)
	for kind, branch := range sw.branches {
		if peer, ok := o.branches[kind]; ok {
			branch.bindInitial(peer)
		}
	}
}

func (sw *Switch) dirtyAgainst(s *cell.Scope, other Node) (any, any) {
	o, ok := other.(*Switch)
	if !ok {
		return true, sw.forcedDirty(s)
	}
	activeConcise, activeVerbose := sw.active.dirtyAgainst(s, o.active)
	concise := make(map[string]any, len(sw.kinds))
	verbose := make(map[string]any, len(sw.kinds))
	for _, kind := range sw.kinds {
		branch := sw.branches[kind]
		if peer, ok := o.branches[kind]; ok {
			concise[kind], verbose[kind] = branch.dirtyAgainst(s, peer)
		} else {
			concise[kind], verbose[kind] = true, branch.forcedDirty(s)
		}
	}

	items := []any{activeConcise}
	breakdown := map[string]any{KeyActive: activeConcise, KeyBranch: nil}
	if kind, ok := sw.ActiveKind(s); ok {
		items = append(items, concise[kind])
		breakdown[KeyBranch] = BranchOf(kind, concise[kind])
	}
	return conciseFlag(items, breakdown), sw.record(activeVerbose, verbose)
}

func (sw *Switch) forcedDirty(s *cell.Scope) any {
	return sw.record(sw.active.forcedDirty(s), sw.collectBranches(func(n Node) any { return n.forcedDirty(s) }))
}

func (sw *Switch) markSubmitted() {
	for _, child := range sw.allChildren() {
		child.markSubmitted()
	}
}

func (sw *Switch) children(s *cell.Scope) []Node {
	out := []Node{sw.active}
	if kind, ok := sw.ActiveKind(s); ok {
		out = append(out, sw.branches[kind])
	}
	return out
}

func (sw *Switch) allChildren() []Node {
	out := make([]Node, 0, len(sw.kinds)+1)
	out = append(out, sw.active)
	for _, kind := range sw.kinds {
		out = append(out, sw.branches[kind])
	}
	return out
}
