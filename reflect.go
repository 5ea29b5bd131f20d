package markup

import (
	"iter"
	"reflect"
)

func derefType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// derefValue follows pointers in v, and returns the pointed-to value
// or an invalid Value if a nil pointer is found along the way.
func derefValue(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// allocSteps partitions a multi-hop traversal of struct fields into
// segments that end at either the final value, or at a struct pointer
// that might be nil.
//
// This partition is used by [Property.get] and [Property.set] to
// reach embedded struct fields that require traversing a nil pointer.
func allocSteps(t reflect.Type, idx []int) [][]int {
	var ret [][]int
	prev := 0
	t = t.Field(idx[0]).Type
	for i := 1; i < len(idx); i++ {
		if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct {
			// Hop through a struct pointer that might be nil, cut.
			ret = append(ret, idx[prev:i])
			prev = i
			t = t.Elem()
		}
		t = t.Field(idx[i]).Type
	}
	ret = append(ret, idx[prev:])
	return ret
}

// structFields yields the fields of t in declaration order, with the
// fields of embedded structs flattened in place of the embedded
// field. The Index of each yielded field is relative to t.
func structFields(t reflect.Type, idx []int) iter.Seq[reflect.StructField] {
	return func(yield func(reflect.StructField) bool) {
		for i := range t.NumField() {
			f := t.Field(i)
			idx = append(idx, i)
			if f.Anonymous {
				at := f.Type
				if at.Kind() == reflect.Pointer {
					at = at.Elem()
				}
				if at.Kind() == reflect.Struct {
					for af := range structFields(at, idx) {
						if !yield(af) {
							return
						}
					}
					idx = idx[:len(idx)-1]
					continue
				}
			}
			f.Index = append([]int(nil), idx...)
			if !yield(f) {
				return
			}
			idx = idx[:len(idx)-1]
		}
	}
}

// implementsOwn reports whether t, or a pointer to t, implements
// iface with methods of its own, rather than with methods promoted
// from an embedded field.
//
// A struct that embeds a Point must not be written as just that
// Point, so promoted text methods don't count as a string converter.
func implementsOwn(t, iface reflect.Type) bool {
	if !t.Implements(iface) && (t.Kind() == reflect.Pointer || !reflect.PointerTo(t).Implements(iface)) {
		return false
	}
	st := derefType(t)
	if st.Kind() != reflect.Struct {
		return true
	}
	for i := range st.NumField() {
		f := st.Field(i)
		if !f.Anonymous {
			continue
		}
		if f.Type.Implements(iface) || (f.Type.Kind() != reflect.Pointer && reflect.PointerTo(f.Type).Implements(iface)) {
			return false
		}
	}
	return true
}
