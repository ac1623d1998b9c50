// Package values clones, compares and merges the dynamic values that flow
// through a form tree: scalars, map[string]any records and []any lists, plus
// arbitrary user structs reached through reflection.
package values

import "reflect"

// Equal reports whether a and b are deeply equal.
func Equal(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// Clone returns a deep copy of value. Maps, slices, arrays, pointers and
// exported struct fields are copied; everything else is returned as is.
func Clone(value any) any {
	switch typed := value.(type) {
	case nil:
		return nil
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = Clone(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = Clone(item)
		}
		return out
	}
	cloned := cloneValue(reflect.ValueOf(value))
	if !cloned.IsValid() {
		return value
	}
	return cloned.Interface()
}

// Merge layers strong over weak. Records merge key by key with strong keys
// winning, lists take strong entries and fall back to weak entries past the
// end of strong, and a nil strong value yields a copy of weak.
func Merge(strong, weak any) any {
	if strong == nil {
		return Clone(weak)
	}
	switch typed := strong.(type) {
	case map[string]any:
		weakMap, _ := weak.(map[string]any)
		out := make(map[string]any, len(typed)+len(weakMap))
		for key, item := range weakMap {
			out[key] = Clone(item)
		}
		for key, item := range typed {
			if existing, ok := out[key]; ok {
				out[key] = Merge(item, existing)
				continue
			}
			out[key] = Clone(item)
		}
		return out
	case []any:
		weakList, _ := weak.([]any)
		out := make([]any, len(typed))
		for i, item := range typed {
			if i < len(weakList) {
				out[i] = Merge(item, weakList[i])
				continue
			}
			out[i] = Clone(item)
		}
		return out
	default:
		return Clone(strong)
	}
}

func cloneValue(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.New(v.Type().Elem())
		clone.Elem().Set(cloneValue(v.Elem()))
		return clone
	case reflect.Interface:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		elem := cloneValue(v.Elem())
		if !elem.IsValid() {
			return reflect.Zero(v.Type())
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(elem)
		return out
	case reflect.Struct:
		clone := reflect.New(v.Type()).Elem()
		clone.Set(v)
		for i := 0; i < v.NumField(); i++ {
			field := clone.Field(i)
			if !field.CanSet() {
				continue
			}
			field.Set(cloneValue(v.Field(i)))
		}
		return clone
	case reflect.Map:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			clone.SetMapIndex(iter.Key(), cloneValue(iter.Value()))
		}
		return clone
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		clone := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			clone.Index(i).Set(cloneValue(v.Index(i)))
		}
		return clone
	case reflect.Array:
		clone := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			clone.Index(i).Set(cloneValue(v.Index(i)))
		}
		return clone
	default:
		return v
	}
}
