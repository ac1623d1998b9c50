// Package cell provides the reactive storage primitive the form tree is built
// on: a mutable Cell, a lazily recomputed Derived value, and the Scope that
// records which cells a computation read.
//
// Reactivity is pull based. Every cell carries a version stamp that moves
// only when its value changes under the cell's equality function. A Derived
// remembers the stamps it observed during its last computation and
// recomputes on read only when one of them moved.
package cell

import (
	"reflect"
	"sync"
)

type source interface {
	stamp() uint64
}

type dependency struct {
	src source
	ver uint64
}

// Scope is the observation context passed to every read. Reads through a
// Scope are recorded as dependencies; a nil Scope reads without tracking.
type Scope struct {
	mu   sync.Mutex
	deps []dependency
}

// NewScope returns an empty tracking scope. Bindings that render form state
// can read through a scope and later ask whether anything they read changed.
func NewScope() *Scope {
	return &Scope{}
}

func (s *Scope) track(src source, ver uint64) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.deps = append(s.deps, dependency{src: src, ver: ver})
	s.mu.Unlock()
}

// Changed reports whether any cell read through the scope moved since it was
// read.
func (s *Scope) Changed() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	deps := append([]dependency(nil), s.deps...)
	s.mu.Unlock()
	return stale(deps)
}

func stale(deps []dependency) bool {
	for _, dep := range deps {
		if dep.src.stamp() != dep.ver {
			return true
		}
	}
	return false
}

// Option configures a Cell or Derived.
type Option[T any] func(*config[T])

type config[T any] struct {
	equal func(a, b T) bool
}

// WithEqual sets the comparator used to decide whether a new value is a
// change. The default compares with reflect.DeepEqual.
func WithEqual[T any](equal func(a, b T) bool) Option[T] {
	return func(cfg *config[T]) {
		if equal != nil {
			cfg.equal = equal
		}
	}
}

func applyOptions[T any](opts []Option[T]) config[T] {
	cfg := config[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.equal == nil {
		cfg.equal = func(a, b T) bool { return reflect.DeepEqual(a, b) }
	}
	return cfg
}

// Cell is a mutable, independently subscribable value holder.
type Cell[T any] struct {
	mu    sync.Mutex
	value T
	ver   uint64
	equal func(a, b T) bool
	subs  []*subscription
}

type subscription struct {
	fn func()
}

// New constructs a Cell holding value.
func New[T any](value T, opts ...Option[T]) *Cell[T] {
	cfg := applyOptions(opts)
	return &Cell[T]{value: value, equal: cfg.equal}
}

// Read returns the current value and records the read in s.
func (c *Cell[T]) Read(s *Scope) T {
	c.mu.Lock()
	value, ver := c.value, c.ver
	c.mu.Unlock()
	s.track(c, ver)
	return value
}

func (c *Cell[T]) stamp() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ver
}

// Write replaces the value. Writes equal to the current value are dropped.
func (c *Cell[T]) Write(next T) {
	c.mu.Lock()
	if c.equal(c.value, next) {
		c.mu.Unlock()
		return
	}
	c.value = next
	c.ver++
	subs := append([]*subscription(nil), c.subs...)
	c.mu.Unlock()
	schedule(subs)
}

// Update writes the value returned by fn, which receives the current value.
func (c *Cell[T]) Update(fn func(prev T, s *Scope) T) {
	if fn == nil {
		return
	}
	c.Write(fn(c.Read(nil), nil))
}

// Clone returns an independent cell seeded with transform(current). The
// clone shares the comparator but none of the subscribers.
func (c *Cell[T]) Clone(transform func(T) T) *Cell[T] {
	value := c.Read(nil)
	if transform != nil {
		value = transform(value)
	}
	return &Cell[T]{value: value, equal: c.equal}
}

// Subscribe registers fn to run after every change. The returned function
// removes the subscription; calling it more than once is harmless.
func (c *Cell[T]) Subscribe(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	sub := &subscription{fn: fn}
	c.mu.Lock()
	c.subs = append(c.subs, sub)
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, existing := range c.subs {
				if existing == sub {
					c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Derived is a lazily computed, memoized value.
type Derived[T any] struct {
	mu       sync.Mutex
	compute  func(s *Scope) T
	equal    func(a, b T) bool
	value    T
	ver      uint64
	deps     []dependency
	computed bool
}

// NewDerived constructs a Derived from a pure function of other cells read
// through the supplied scope.
func NewDerived[T any](compute func(s *Scope) T, opts ...Option[T]) *Derived[T] {
	cfg := applyOptions(opts)
	return &Derived[T]{compute: compute, equal: cfg.equal}
}

// Read returns the memoized value, recomputing it first when a dependency
// moved.
func (d *Derived[T]) Read(s *Scope) T {
	value, ver := d.refresh()
	s.track(d, ver)
	return value
}

func (d *Derived[T]) stamp() uint64 {
	_, ver := d.refresh()
	return ver
}

func (d *Derived[T]) refresh() (T, uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.computed && !stale(d.deps) {
		return d.value, d.ver
	}
	scope := &Scope{}
	next := d.compute(scope)
	d.deps = scope.deps
	if !d.computed || !d.equal(d.value, next) {
		d.value = next
		d.ver++
	}
	d.computed = true
	return d.value, d.ver
}
