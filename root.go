package forms

import (
	"reflect"
	"sync"

	"github.com/goliatone/go-forms/cell"
	"github.com/goliatone/go-forms/pkg/activity"
	"github.com/google/uuid"
)

// root is the state shared by every node of one tree. Nodes hold it by
// pointer; it never points back at a node.
type root struct {
	id       string
	attempts *cell.Cell[int]
	pending  *cell.Cell[int]
	logger   Logger
	emitter  *activity.Emitter
}

func newRoot(cfg config) *root {
	id := cfg.formID
	if id == "" {
		id = uuid.NewString()
	}
	return &root{
		id:       id,
		attempts: cell.New(0),
		pending:  cell.New(0),
		logger:   cfg.logger,
		emitter:  activity.NewEmitter(cfg.hooks, ""),
	}
}

// base carries what every node kind shares: the root and its listeners.
type base struct {
	root   *root
	submit *listeners[SubmitListener]
	focus  *listeners[FocusListener]
}

func newBase(r *root) base {
	return base{
		root:   r,
		submit: &listeners[SubmitListener]{},
		focus:  &listeners[FocusListener]{},
	}
}

func (b *base) core() *base {
	return b
}

// FormID returns the identifier of the tree the node belongs to.
func (b *base) FormID() string {
	return b.root.id
}

// IsSubmitting reports whether a submit of the tree is waiting on listener
// tasks.
func (b *base) IsSubmitting(s *cell.Scope) bool {
	return b.root.pending.Read(s) > 0
}

// SubmitCount returns the number of submit attempts made on the tree.
func (b *base) SubmitCount(s *cell.Scope) int {
	return b.root.attempts.Read(s)
}

// OnSubmit registers a listener called with the node output on submit. The
// returned function unsubscribes one registration.
//
// Registering the same comparable listener (a pointer, a plain struct) more
// than once keeps a single call per submit and counts the registrations;
// the listener is dropped after as many unsubscribes. SubmitFunc and other
// function values cannot be compared, so every registration of one of them
// is a separate call. Pass a pointer listener to get the collapsing.
func (b *base) OnSubmit(listener SubmitListener) func() {
	return b.submit.add(listener)
}

// OnFocusWhenInvalid registers a listener called with the node error when
// the node is the first invalid one found on submit. Duplicate registrations
// collapse as described on OnSubmit; FocusFunc values never collapse.
func (b *base) OnFocusWhenInvalid(listener FocusListener) func() {
	return b.focus.add(listener)
}

// listeners is a reference counted listener set. Subscribing an equal
// listener again bumps its count instead of adding a second call; each
// returned unsubscribe releases one count, once.
type listeners[L any] struct {
	mu      sync.Mutex
	entries []*listenerEntry[L]
}

type listenerEntry[L any] struct {
	listener L
	key      any
	count    int
}

func (r *listeners[L]) add(listener L) func() {
	if any(listener) == nil {
		return func() {}
	}
	key := listenerKey(listener)

	r.mu.Lock()
	var entry *listenerEntry[L]
	for _, existing := range r.entries {
		if existing.key == key {
			entry = existing
			break
		}
	}
	if entry == nil {
		entry = &listenerEntry[L]{listener: listener, key: key}
		r.entries = append(r.entries, entry)
	}
	entry.count++
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { r.release(entry) })
	}
}

func (r *listeners[L]) release(entry *listenerEntry[L]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.count--
	if entry.count > 0 {
		return
	}
	for i, existing := range r.entries {
		if existing == entry {
			r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
			return
		}
	}
}

func (r *listeners[L]) snapshot() []L {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]L, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, entry.listener)
	}
	return out
}

func (r *listeners[L]) len() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// isNilNode reports a nil interface or a typed nil pointer.
func isNilNode(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// listenerKey identifies a listener. Comparable listeners (pointers, plain
// structs) are their own key; function adapters get a fresh key per
// registration because Go functions cannot be compared.
func listenerKey(listener any) any {
	if reflect.TypeOf(listener).Comparable() {
		return listener
	}
	return new(int)
}
