package forms

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-forms/cell"
	"github.com/goliatone/go-forms/internal/hydrate"
)

// ErrInvalidOutput is returned by Decode while the node output is nil.
var ErrInvalidOutput = errors.New("forms: output is invalid")

// ErrNotApplicable is returned by Decode when the node output is Undefined.
var ErrNotApplicable = errors.New("forms: output is not applicable")

// Decode converts the output of n into T through a JSON round trip.
// Undefined entries (disabled optionals) are dropped, so the matching
// struct fields keep their zero value.
func Decode[T any](s *cell.Scope, n Node) (T, error) {
	var zero T
	output := n.Output(s)
	switch {
	case output == nil:
		return zero, ErrInvalidOutput
	case IsUndefined(output):
		return zero, ErrNotApplicable
	}
	decoder := hydrate.NewDecoder[T](hydrate.WithDrop[T](IsUndefined))
	result, err := decoder.Decode(hydrate.Context{FormID: n.core().root.id}, output)
	if err != nil {
		return zero, fmt.Errorf("forms: decode output: %w", err)
	}
	return result, nil
}
