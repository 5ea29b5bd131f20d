package markup

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Property describes one property of a struct type, as seen by
// compact attribute values: the Name used in Name=Value arguments,
// and its position for positional arguments.
type Property struct {
	// Name is the property name used in markup.
	Name string
	// Type is the property's Go type.
	Type reflect.Type

	// hops is the field index path from the owning struct to the
	// property, cut at every embedded struct pointer. See allocSteps.
	hops  [][]int
	depth int
}

// get loads the property from structVal. If loading requires
// traversing a nil embedded pointer, get returns the zero value of
// the property.
func (p *Property) get(structVal reflect.Value) reflect.Value {
	v := structVal
	for i, hop := range p.hops {
		if i > 0 {
			if v.IsNil() {
				return reflect.Zero(p.Type)
			}
			v = v.Elem()
		}
		v = v.FieldByIndex(hop)
	}
	return v
}

// unreachable reports whether reaching the property of structVal
// goes through a nil embedded struct pointer.
func (p *Property) unreachable(structVal reflect.Value) bool {
	v := structVal
	for i, hop := range p.hops {
		if i > 0 {
			if v.IsNil() {
				return true
			}
			v = v.Elem()
		}
		v = v.FieldByIndex(hop)
	}
	return false
}

// set stores val into the property of structVal, allocating embedded
// struct pointers as needed. structVal must be settable.
func (p *Property) set(structVal, val reflect.Value) {
	v := structVal
	for i, hop := range p.hops {
		if i > 0 {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.FieldByIndex(hop)
	}
	v.Set(val)
}

func (p *Property) String() string {
	return fmt.Sprintf("%s: %s at %v", p.Name, p.Type, p.hops)
}

var properties cache[reflect.Type, []*Property]

// Properties returns the markup properties of struct type t, in
// declaration order.
//
// Every exported field of t is a property, including the exported
// fields of embedded structs. A field's property name is its Go name,
// unless overridden with a `markup:"Name"` struct tag. Fields tagged
// `markup:"-"` are skipped.
//
// Properties returns an error if t is not a struct (or pointer to
// struct), or if two properties at the same embedding depth share a
// name.
func Properties(t reflect.Type) ([]Property, error) {
	ps, err := propertiesFor(t)
	if err != nil {
		return nil, err
	}
	ret := make([]Property, len(ps))
	for i, p := range ps {
		ret[i] = *p
	}
	return ret, nil
}

func propertiesFor(t reflect.Type) (ret []*Property, err error) {
	if t == nil {
		return nil, errors.New("nil type")
	}
	t = derefType(t)
	if ret, err := properties.Get(t); err == nil {
		return ret, nil
	} else if !errors.Is(err, errNotFound) {
		return nil, err
	}
	defer func() {
		if err != nil {
			properties.SetErr(t, err)
		} else {
			properties.Set(t, ret)
		}
	}()

	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%s is not a struct", t)
	}

	byName := map[string]int{}
	for field := range structFields(t, nil) {
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if tag, ok := field.Tag.Lookup("markup"); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		p := &Property{
			Name:  name,
			Type:  field.Type,
			hops:  allocSteps(t, field.Index),
			depth: len(field.Index),
		}
		if i, ok := byName[name]; ok {
			prev := ret[i]
			switch {
			case prev.depth == p.depth:
				return nil, fmt.Errorf("%s has more than one property named %q", t, name)
			case p.depth < prev.depth:
				// Shallower field shadows the embedded one.
				ret[i] = p
			}
			continue
		}
		byName[name] = len(ret)
		ret = append(ret, p)
	}
	return ret, nil
}

// propertyNamed returns the property of ps called name, matching
// case-insensitively if there is no exact match.
func propertyNamed(ps []*Property, name string) *Property {
	for _, p := range ps {
		if p.Name == name {
			return p
		}
	}
	for _, p := range ps {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}
