// Package openapi describes the payload a form submits as an OpenAPI
// document. The schema follows the node tree: shapes become objects, lists
// arrays, switches a discriminated oneOf over {"kind", "value"} variants and
// optionals their element schema, left out of the parent's required list.
// Leaf schemas are inferred from the current leaf value.
package openapi

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	forms "github.com/goliatone/go-forms"
)

// Generator builds OpenAPI documents for form trees.
type Generator struct {
	config generatorConfig
}

// NewGenerator constructs a generator with the provided options applied
// over the defaults.
func NewGenerator(opts ...GeneratorOption) Generator {
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return Generator{config: cfg}
}

// Generate returns the OpenAPI document whose request body is the output
// of n. Switch variants are published as components.
func (g Generator) Generate(n forms.Node) (map[string]any, error) {
	if n == nil {
		return nil, fmt.Errorf("openapi: node cannot be nil")
	}
	registry := newComponentRegistry()
	builder := schemaBuilder{registry: registry}
	root, err := builder.node(n, "Root")
	if err != nil {
		return nil, err
	}
	return newOpenAPIDocumentBuilder(g.config, registry, root).build()
}

// Schema returns the inline schema of the output of n.
func Schema(n forms.Node) (map[string]any, error) {
	if n == nil {
		return nil, fmt.Errorf("openapi: node cannot be nil")
	}
	return schemaBuilder{}.node(n, "Root")
}

// schemaBuilder walks a node tree. Without a registry switch variants are
// inlined.
type schemaBuilder struct {
	registry *componentRegistry
}

func (b schemaBuilder) node(n forms.Node, nameHint string) (map[string]any, error) {
	switch typed := n.(type) {
	case *forms.Unit:
		return b.unit(typed)
	case *forms.Shape:
		return b.shape(typed, nameHint)
	case *forms.List:
		return b.list(typed, nameHint)
	case *forms.Switch:
		return b.switchNode(typed, nameHint)
	case *forms.Optional:
		return b.node(typed.Element(), nameHint)
	default:
		return nil, fmt.Errorf("openapi: unsupported node %T", n)
	}
}

func (b schemaBuilder) unit(u *forms.Unit) (map[string]any, error) {
	value := u.Output(nil)
	if value == nil || forms.IsUndefined(value) {
		value = u.Input(nil)
	}
	schema, err := buildSchema(reflect.ValueOf(value))
	if err != nil {
		return nil, err
	}
	if strategy, ok := u.ValidateOn(nil).(forms.ValidateStrategy); ok {
		schema["x-validate-on"] = strategy.String()
	}
	return schema, nil
}

func (b schemaBuilder) shape(sh *forms.Shape, nameHint string) (map[string]any, error) {
	keys := sh.Keys()
	properties := make(map[string]any, len(keys))
	required := make([]string, 0, len(keys))
	for _, key := range keys {
		child := sh.Field(key)
		schema, err := b.node(child, combineComponentName(nameHint, key))
		if err != nil {
			return nil, err
		}
		properties[key] = schema
		if _, optional := child.(*forms.Optional); !optional {
			required = append(required, key)
		}
	}

	// Entries of the input that are not fields are constants.
	input, _ := sh.Input(nil).(map[string]any)
	for key, value := range input {
		if _, isField := properties[key]; isField {
			continue
		}
		schema, err := buildSchema(reflect.ValueOf(value))
		if err != nil {
			return nil, err
		}
		schema["enum"] = []any{value}
		properties[key] = schema
		required = append(required, key)
	}
	sort.Strings(required)

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema, nil
}

func (b schemaBuilder) list(l *forms.List, nameHint string) (map[string]any, error) {
	template := l.Elements(nil)
	if len(template) == 0 {
		template = l.InitialElements(nil)
	}
	items := map[string]any{}
	if len(template) > 0 {
		var err error
		items, err = b.node(template[0], combineComponentName(nameHint, "item"))
		if err != nil {
			return nil, err
		}
	}
	return map[string]any{
		"type":  "array",
		"items": items,
	}, nil
}

func (b schemaBuilder) switchNode(sw *forms.Switch, nameHint string) (map[string]any, error) {
	kinds := sw.Kinds()
	variants := make([]any, 0, len(kinds))
	mapping := make(map[string]any, len(kinds))
	for _, kind := range kinds {
		name := combineComponentName(nameHint, kind)
		value, err := b.node(sw.Branch(kind), name)
		if err != nil {
			return nil, err
		}
		variant := map[string]any{
			"type":     "object",
			"required": []string{forms.KeyKind, forms.KeyValue},
			"properties": map[string]any{
				forms.KeyKind:  map[string]any{"type": "string", "enum": []any{kind}},
				forms.KeyValue: value,
			},
		}
		if b.registry == nil {
			variants = append(variants, variant)
			continue
		}
		ref := b.registry.register(name, variant)
		mapping[kind] = ref
		variants = append(variants, map[string]any{"$ref": ref})
	}

	discriminator := map[string]any{"propertyName": forms.KeyKind}
	if len(mapping) > 0 {
		discriminator["mapping"] = mapping
	}
	return map[string]any{
		"oneOf":         variants,
		"discriminator": discriminator,
	}, nil
}

func buildSchema(rv reflect.Value) (map[string]any, error) {
	if !rv.IsValid() {
		return map[string]any{"nullable": true}, nil
	}

	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return map[string]any{"nullable": true}, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return map[string]any{"nullable": true}, nil
		}
		return buildSchema(rv.Elem())
	case reflect.Bool:
		return map[string]any{"type": "boolean"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return map[string]any{"type": "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}, nil
	case reflect.String:
		return map[string]any{"type": "string"}, nil
	case reflect.Struct:
		if rv.Type() == reflect.TypeOf(time.Time{}) {
			return map[string]any{
				"type":   "string",
				"format": "date-time",
			}, nil
		}
		if rv.Type() == reflect.TypeOf(forms.Undefined) {
			return map[string]any{}, nil
		}
		return schemaForStruct(rv)
	case reflect.Map:
		return schemaForMap(rv)
	case reflect.Slice, reflect.Array:
		return schemaForSlice(rv)
	default:
		return map[string]any{
			"type":   "string",
			"format": fmt.Sprintf("go:%s", rv.Type().String()),
		}, nil
	}
}

func schemaForMap(rv reflect.Value) (map[string]any, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("openapi: map key type %s unsupported", rv.Type().Key())
	}

	properties := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		child, err := buildSchema(iter.Value())
		if err != nil {
			return nil, err
		}
		properties[iter.Key().String()] = child
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
	}, nil
}

func schemaForStruct(rv reflect.Value) (map[string]any, error) {
	rt := rv.Type()
	properties := map[string]any{}

	for i := 0; i < rv.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Name
		if tag := field.Tag.Get("json"); tag != "" {
			tagName := strings.Split(tag, ",")[0]
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}

		child, err := buildSchema(rv.Field(i))
		if err != nil {
			return nil, err
		}
		properties[name] = child
	}

	return map[string]any{
		"type":       "object",
		"properties": properties,
	}, nil
}

func schemaForSlice(rv reflect.Value) (map[string]any, error) {
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		return map[string]any{
			"type":   "string",
			"format": "byte",
		}, nil
	}

	itemSchema := map[string]any{}
	if rv.Len() > 0 {
		var err error
		itemSchema, err = buildSchema(rv.Index(0))
		if err != nil {
			return nil, err
		}
	}
	return map[string]any{
		"type":  "array",
		"items": itemSchema,
	}, nil
}
