package forms

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-forms/cell"
)

// Node kinds reported by Describe.
const (
	KindUnit     = "unit"
	KindShape    = "shape"
	KindList     = "list"
	KindSwitch   = "switch"
	KindOptional = "optional"
)

// FieldDescriptor describes one node of a tree.
type FieldDescriptor struct {
	Path       string
	Kind       string
	Type       string
	ValidateOn ValidateStrategy
}

// Describe walks n depth first and returns a descriptor per node. Paths
// join record keys and list indexes with dots; switch branches appear
// under their kind and the selector under "active". Leaf descriptors carry
// the Go type of the current input and the leaf strategy.
func Describe(n Node) []FieldDescriptor {
	return describe(nil, n, "")
}

func describe(out []FieldDescriptor, n Node, prefix string) []FieldDescriptor {
	switch typed := n.(type) {
	case *Unit:
		strategy, _ := typed.ValidateOn(nil).(ValidateStrategy)
		return append(out, FieldDescriptor{
			Path:       prefix,
			Kind:       KindUnit,
			Type:       typeName(typed.Input(nil)),
			ValidateOn: strategy,
		})
	case *Shape:
		out = append(out, FieldDescriptor{Path: prefix, Kind: KindShape, Type: "map[string]any"})
		for _, key := range typed.keys {
			out = describe(out, typed.fields[key], joinPath(prefix, key))
		}
	case *List:
		elements := typed.Elements(nil)
		elementType := "any"
		if len(elements) > 0 {
			elementType = typeName(elements[0].Input(nil))
		}
		out = append(out, FieldDescriptor{Path: prefix, Kind: KindList, Type: "[]" + elementType})
		for i, element := range elements {
			out = describe(out, element, joinPath(prefix, strconv.Itoa(i)))
		}
	case *Switch:
		out = append(out, FieldDescriptor{Path: prefix, Kind: KindSwitch, Type: "map[string]any"})
		out = describe(out, typed.active, joinPath(prefix, KeyActive))
		for _, kind := range typed.kinds {
			out = describe(out, typed.branches[kind], joinPath(prefix, kind))
		}
	case *Optional:
		out = append(out, FieldDescriptor{Path: prefix, Kind: KindOptional, Type: "map[string]any"})
		out = describe(out, typed.enabled, joinPath(prefix, KeyEnabled))
		out = describe(out, typed.element, joinPath(prefix, KeyElement))
	}
	return out
}

// Leaves returns the paths of the Unit descriptors of n.
func Leaves(n Node) []string {
	var paths []string
	for _, field := range Describe(n) {
		if field.Kind == KindUnit {
			paths = append(paths, field.Path)
		}
	}
	return paths
}

// Lookup resolves a dotted path produced by Describe to a node of n.
func Lookup(s *cell.Scope, n Node, path string) (Node, bool) {
	if path == "" {
		return n, true
	}
	head, rest, _ := strings.Cut(path, ".")
	var next Node
	switch typed := n.(type) {
	case *Shape:
		next = typed.fields[head]
	case *List:
		index, err := strconv.Atoi(head)
		if err != nil {
			return nil, false
		}
		elements := typed.elements.Read(s)
		if index < 0 || index >= len(elements) {
			return nil, false
		}
		next = elements[index]
	case *Switch:
		if head == KeyActive {
			next = typed.active
		} else {
			next = typed.branches[head]
		}
	case *Optional:
		switch head {
		case KeyEnabled:
			next = typed.enabled
		case KeyElement:
			next = typed.element
		}
	}
	if next == nil {
		return nil, false
	}
	return Lookup(s, next, rest)
}

func typeName(value any) string {
	if value == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", value)
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "." + segment
}
