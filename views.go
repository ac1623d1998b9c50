package forms

import "github.com/goliatone/go-forms/cell"

// composite is implemented by the node kinds that aggregate children. Each
// method computes one view from the children's views; compositeViews wraps
// them in derived cells so repeated reads are cached.
type composite interface {
	input(s *cell.Scope) any
	initialValue(s *cell.Scope) any
	output(s *cell.Scope) any
	errorConcise(s *cell.Scope) any
	errorVerbose(s *cell.Scope) any
	flag(s *cell.Scope, read func(Node) any) any
	verbose(s *cell.Scope, read func(Node) any) any
	strategy(s *cell.Scope) any
	dirty(s *cell.Scope) (any, any)
}

type dirtyPair struct {
	concise any
	verbose any
}

type compositeViews struct {
	input        *cell.Derived[any]
	initial      *cell.Derived[any]
	output       *cell.Derived[any]
	errorConcise *cell.Derived[any]
	errorVerbose *cell.Derived[any]

	touched          *cell.Derived[any]
	touchedVerbose   *cell.Derived[any]
	validated        *cell.Derived[any]
	validatedVerbose *cell.Derived[any]
	valid            *cell.Derived[any]
	validVerbose     *cell.Derived[any]
	invalid          *cell.Derived[any]
	invalidVerbose   *cell.Derived[any]

	dirty *cell.Derived[dirtyPair]

	validateOn        *cell.Derived[any]
	validateOnVerbose *cell.Derived[any]
}

func newCompositeViews(c composite) compositeViews {
	flag := func(read func(*cell.Scope, Node) any) *cell.Derived[any] {
		return cell.NewDerived(func(s *cell.Scope) any {
			return c.flag(s, func(n Node) any { return read(s, n) })
		})
	}
	verbose := func(read func(*cell.Scope, Node) any) *cell.Derived[any] {
		return cell.NewDerived(func(s *cell.Scope) any {
			return c.verbose(s, func(n Node) any { return read(s, n) })
		})
	}
	return compositeViews{
		input:        cell.NewDerived(c.input),
		initial:      cell.NewDerived(c.initialValue),
		output:       cell.NewDerived(c.output),
		errorConcise: cell.NewDerived(c.errorConcise),
		errorVerbose: cell.NewDerived(c.errorVerbose),

		touched:          flag(func(s *cell.Scope, n Node) any { return n.Touched(s) }),
		touchedVerbose:   verbose(func(s *cell.Scope, n Node) any { return n.TouchedVerbose(s) }),
		validated:        flag(func(s *cell.Scope, n Node) any { return n.Validated(s) }),
		validatedVerbose: verbose(func(s *cell.Scope, n Node) any { return n.ValidatedVerbose(s) }),
		valid:            flag(func(s *cell.Scope, n Node) any { return n.Valid(s) }),
		validVerbose:     verbose(func(s *cell.Scope, n Node) any { return n.ValidVerbose(s) }),
		invalid:          flag(func(s *cell.Scope, n Node) any { return n.Invalid(s) }),
		invalidVerbose:   verbose(func(s *cell.Scope, n Node) any { return n.InvalidVerbose(s) }),

		dirty: cell.NewDerived(func(s *cell.Scope) dirtyPair {
			concise, verbose := c.dirty(s)
			return dirtyPair{concise: concise, verbose: verbose}
		}),

		validateOn: cell.NewDerived(c.strategy),
		validateOnVerbose: verbose(func(s *cell.Scope, n Node) any {
			return n.ValidateOnVerbose(s)
		}),
	}
}
