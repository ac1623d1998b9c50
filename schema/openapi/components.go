package openapi

import (
	"fmt"
	"regexp"
	"sort"
)

// componentRegistry collects schemas published under components.schemas.
// Names are sanitized and made unique with a numeric suffix.
type componentRegistry struct {
	schemas   map[string]map[string]any
	usedNames map[string]struct{}
}

func newComponentRegistry() *componentRegistry {
	return &componentRegistry{
		schemas:   map[string]map[string]any{},
		usedNames: map[string]struct{}{},
	}
}

// register stores schema under a name derived from nameHint and returns the
// reference to it.
func (r *componentRegistry) register(nameHint string, schema map[string]any) string {
	name := r.uniqueName(nameHint)
	r.schemas[name] = schema
	return componentRef(name)
}

func componentRef(name string) string {
	return fmt.Sprintf("#/components/schemas/%s", name)
}

func (r *componentRegistry) uniqueName(name string) string {
	safe := sanitizeComponentName(name)
	if safe == "" {
		safe = "Schema"
	}
	if _, exists := r.usedNames[safe]; !exists {
		r.usedNames[safe] = struct{}{}
		return safe
	}
	suffix := 1
	for {
		candidate := fmt.Sprintf("%s%d", safe, suffix)
		if _, exists := r.usedNames[candidate]; !exists {
			r.usedNames[candidate] = struct{}{}
			return candidate
		}
		suffix++
	}
}

func (r *componentRegistry) names() []string {
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *componentRegistry) componentsMap() map[string]any {
	if len(r.schemas) == 0 {
		return nil
	}
	out := make(map[string]any, len(r.schemas))
	for _, name := range r.names() {
		out[name] = r.schemas[name]
	}
	return out
}

var componentNameRegexp = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

func sanitizeComponentName(name string) string {
	name = componentNameRegexp.ReplaceAllString(name, "_")
	name = trimUnderscores(name)
	if name == "" {
		return ""
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name
}

func trimUnderscores(input string) string {
	start := 0
	for start < len(input) && input[start] == '_' {
		start++
	}
	end := len(input)
	for end > start && input[end-1] == '_' {
		end--
	}
	return input[start:end]
}
