package forms

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-forms/cell"
)

// Trace is a point in time report of every leaf of a tree, meant for logs
// and debugging tools.
type Trace struct {
	FormID string       `json:"form_id"`
	Fields []FieldTrace `json:"fields"`
}

// FieldTrace reports the state of one leaf. Errors are rendered as strings.
type FieldTrace struct {
	Path       string           `json:"path"`
	Input      any              `json:"input"`
	Initial    any              `json:"initial"`
	Output     any              `json:"output,omitempty"`
	Error      string           `json:"error,omitempty"`
	Touched    bool             `json:"touched"`
	Dirty      bool             `json:"dirty"`
	Validated  bool             `json:"validated"`
	ValidateOn ValidateStrategy `json:"validate_on"`
}

// TraceOf captures the leaves of n in Describe order. Leaves of inactive
// switch branches and disabled optionals are included.
func TraceOf(s *cell.Scope, n Node) Trace {
	trace := Trace{FormID: n.FormID()}
	for _, path := range Leaves(n) {
		leaf, ok := Lookup(s, n, path)
		if !ok {
			continue
		}
		unit, ok := leaf.(*Unit)
		if !ok {
			continue
		}
		field := FieldTrace{
			Path:       path,
			Input:      unit.Input(s),
			Initial:    unit.Initial(s),
			Touched:    unit.touched.Read(s),
			Dirty:      unit.dirty.Read(s),
			Validated:  unit.validated.Read(s),
			ValidateOn: unit.validateOn.Read(s),
		}
		if output := unit.Output(s); output != nil {
			field.Output = output
		}
		if err := unit.Error(s); err != nil {
			field.Error = errorString(err)
		}
		trace.Fields = append(trace.Fields, field)
	}
	return trace
}

func errorString(err any) string {
	switch typed := err.(type) {
	case string:
		return typed
	case error:
		return typed.Error()
	default:
		return fmt.Sprint(typed)
	}
}

// ToJSON serialises the trace.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a payload produced by ToJSON. Values come back
// as JSON types (float64 numbers, map[string]any records).
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, fmt.Errorf("forms: decode trace: %w", err)
	}
	return Trace(trace), nil
}
