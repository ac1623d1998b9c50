package cell

import (
	"strings"
	"testing"
)

func TestCellWriteDropsEqualValues(t *testing.T) {
	c := New(1)
	calls := 0
	unsubscribe := c.Subscribe(func() { calls++ })
	defer unsubscribe()

	c.Write(1)
	if calls != 0 {
		t.Fatalf("expected equal write to be dropped, got %d notifications", calls)
	}
	c.Write(2)
	if calls != 1 {
		t.Fatalf("expected one notification, got %d", calls)
	}
	if got := c.Read(nil); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}

func TestCellCustomEquality(t *testing.T) {
	c := New("Hello", WithEqual(strings.EqualFold))
	before := c.stamp()
	c.Write("HELLO")
	if c.stamp() != before {
		t.Fatalf("expected case-insensitive write to be ignored")
	}
	if got := c.Read(nil); got != "Hello" {
		t.Fatalf("expected original value retained, got %q", got)
	}
}

func TestCellUpdateAndClone(t *testing.T) {
	c := New([]int{1, 2})
	c.Update(func(prev []int, _ *Scope) []int {
		return append(append([]int(nil), prev...), 3)
	})
	clone := c.Clone(func(v []int) []int { return append([]int(nil), v...) })
	clone.Write([]int{9})

	if got := c.Read(nil); len(got) != 3 {
		t.Fatalf("expected source to keep 3 elements, got %v", got)
	}
	if got := clone.Read(nil); len(got) != 1 || got[0] != 9 {
		t.Fatalf("expected clone to evolve independently, got %v", got)
	}
}

func TestDerivedRecomputesLazily(t *testing.T) {
	a := New(1)
	b := New(10)
	runs := 0
	sum := NewDerived(func(s *Scope) int {
		runs++
		return a.Read(s) + b.Read(s)
	})

	if runs != 0 {
		t.Fatalf("expected no eager computation")
	}
	if got := sum.Read(nil); got != 11 {
		t.Fatalf("expected 11, got %d", got)
	}
	sum.Read(nil)
	if runs != 1 {
		t.Fatalf("expected memoized read, got %d runs", runs)
	}
	a.Write(2)
	if got := sum.Read(nil); got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}
	if runs != 2 {
		t.Fatalf("expected one recomputation, got %d runs", runs)
	}
}

func TestDerivedEqualityGatesDownstream(t *testing.T) {
	n := New(3)
	parity := NewDerived(func(s *Scope) bool { return n.Read(s)%2 == 0 })
	runs := 0
	label := NewDerived(func(s *Scope) string {
		runs++
		if parity.Read(s) {
			return "even"
		}
		return "odd"
	})

	if got := label.Read(nil); got != "odd" {
		t.Fatalf("expected odd, got %q", got)
	}
	n.Write(5)
	if got := label.Read(nil); got != "odd" {
		t.Fatalf("expected odd, got %q", got)
	}
	if runs != 1 {
		t.Fatalf("expected downstream to skip recomputation when parity is unchanged, got %d runs", runs)
	}
	n.Write(6)
	if got := label.Read(nil); got != "even" {
		t.Fatalf("expected even, got %q", got)
	}
}

func TestDerivedFollowsCellReferences(t *testing.T) {
	first := New("first")
	second := New("second")
	ref := New(first, WithEqual(func(a, b *Cell[string]) bool { return a == b }))
	current := NewDerived(func(s *Scope) string { return ref.Read(s).Read(s) })

	if got := current.Read(nil); got != "first" {
		t.Fatalf("expected first, got %q", got)
	}
	ref.Write(second)
	if got := current.Read(nil); got != "second" {
		t.Fatalf("expected second, got %q", got)
	}
	second.Write("updated")
	if got := current.Read(nil); got != "updated" {
		t.Fatalf("expected updated, got %q", got)
	}
}

func TestBatchDefersNotifications(t *testing.T) {
	a := New(0)
	b := New(0)
	var seen []int
	observe := func() { seen = append(seen, a.Read(nil)+b.Read(nil)) }
	defer a.Subscribe(observe)()
	defer b.Subscribe(observe)()

	Batch(func() {
		a.Write(1)
		Batch(func() {
			b.Write(2)
		})
		if len(seen) != 0 {
			t.Fatalf("expected no notifications inside batch, got %v", seen)
		}
	})

	if len(seen) != 2 {
		t.Fatalf("expected one notification per subscriber, got %v", seen)
	}
	for _, v := range seen {
		if v != 3 {
			t.Fatalf("expected observers to see the final state only, got %v", seen)
		}
	}
}

func TestSubscribeUnsubscribeIsIdempotent(t *testing.T) {
	c := New(0)
	calls := 0
	unsubscribe := c.Subscribe(func() { calls++ })
	unsubscribe()
	unsubscribe()
	c.Write(1)
	if calls != 0 {
		t.Fatalf("expected no calls after unsubscribe, got %d", calls)
	}
}

func TestScopeChanged(t *testing.T) {
	c := New(1)
	scope := NewScope()
	c.Read(scope)
	if scope.Changed() {
		t.Fatalf("expected fresh scope to be unchanged")
	}
	c.Write(2)
	if !scope.Changed() {
		t.Fatalf("expected scope to observe the write")
	}
	var untracked *Scope
	if untracked.Changed() {
		t.Fatalf("expected nil scope to report no change")
	}
}
