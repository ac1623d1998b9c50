package forms

import "github.com/goliatone/go-forms/cell"

// toConcise folds per-child concise values into a single scalar when they all
// equal the first scalar item (or fallback when no item is scalar), and
// returns breakdown otherwise. An empty items slice reduces to fallback.
func toConcise(items []any, isScalar func(any) bool, fallback any, breakdown any) any {
	candidate := fallback
	for _, item := range items {
		if isScalar(item) {
			candidate = item
			break
		}
	}
	for _, item := range items {
		if !isScalar(item) || item != candidate {
			return breakdown
		}
	}
	return candidate
}

func isBool(v any) bool {
	_, ok := v.(bool)
	return ok
}

func isStrategy(v any) bool {
	_, ok := v.(ValidateStrategy)
	return ok
}

func conciseFlag(items []any, breakdown any) any {
	return toConcise(items, isBool, false, breakdown)
}

func conciseStrategy(items []any, breakdown any) any {
	return toConcise(items, isStrategy, DefaultValidateOn, breakdown)
}

// someTrue reports whether a concise or verbose flag value holds true
// anywhere in its breakdown.
func someTrue(v any) bool {
	switch typed := v.(type) {
	case bool:
		return typed
	case map[string]any:
		for _, item := range typed {
			if someTrue(item) {
				return true
			}
		}
	case []any:
		for _, item := range typed {
			if someTrue(item) {
				return true
			}
		}
	}
	return false
}

// IsTouched reports whether any leaf of n is touched.
func IsTouched(s *cell.Scope, n Node) bool {
	return someTrue(n.Touched(s))
}

// IsDirty reports whether any part of n differs from its initial value.
func IsDirty(s *cell.Scope, n Node) bool {
	return someTrue(n.Dirty(s))
}

// IsInvalid reports whether any validated leaf of n carries an error.
func IsInvalid(s *cell.Scope, n Node) bool {
	return someTrue(n.Invalid(s))
}

// IsValid reports whether every relevant leaf of n is validated and valid.
func IsValid(s *cell.Scope, n Node) bool {
	return n.Valid(s) == true
}

// IsValidated reports whether every relevant leaf of n is validated.
func IsValidated(s *cell.Scope, n Node) bool {
	return n.Validated(s) == true
}
