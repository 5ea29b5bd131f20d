package markup

import (
	"maps"
	"reflect"
	"slices"
	"strings"
)

// nullMarker and typeMarker are the registered types of the built-in
// {x:Null} and {x:Type Name} extensions.
type (
	nullMarker struct{}
	typeMarker struct{}
)

var (
	nullMarkerType = reflect.TypeFor[nullMarker]()
	typeMarkerType = reflect.TypeFor[typeMarker]()
)

// TypeRegistry maps the qualified type names used in compact
// attribute values ("wf:Point", "sys:Int32") to Go types.
//
// A TypeRegistry is immutable once built, and safe for concurrent
// use.
type TypeRegistry struct {
	byName    map[string]reflect.Type
	byType    map[reflect.Type]string
	defaultNS string
}

func newTypeRegistry(names map[string]reflect.Type, defaultNS string) *TypeRegistry {
	ret := &TypeRegistry{
		byName:    maps.Clone(names),
		byType:    map[reflect.Type]string{},
		defaultNS: defaultNS,
	}
	// Sorted so that the preferred name of a type registered under
	// several names is deterministic.
	for _, name := range slices.Sorted(maps.Keys(names)) {
		t := names[name]
		if _, ok := ret.byType[t]; !ok {
			ret.byType[t] = name
		}
	}
	return ret
}

// Lookup returns the Go type registered under the given qualified
// name.
//
// An unprefixed name is also looked up in the registry's default
// namespace. If there is no exact match, Lookup retries with the
// "Extension" suffix added or removed, so that {x:Type} and
// {x:TypeExtension} are equivalent.
func (r *TypeRegistry) Lookup(qualified string) (reflect.Type, bool) {
	for _, name := range r.candidates(qualified) {
		if t, ok := r.byName[name]; ok {
			return t, true
		}
		alt := name + "Extension"
		if trimmed, ok := strings.CutSuffix(name, "Extension"); ok {
			alt = trimmed
		}
		if t, ok := r.byName[alt]; ok {
			return t, true
		}
	}
	return nil, false
}

func (r *TypeRegistry) candidates(qualified string) []string {
	if strings.Contains(qualified, ":") || r.defaultNS == "" {
		return []string{qualified}
	}
	return []string{qualified, r.defaultNS + ":" + qualified}
}

// NameOf returns the qualified name of t.
func (r *TypeRegistry) NameOf(t reflect.Type) (string, bool) {
	ret, ok := r.byType[t]
	return ret, ok
}

// Names returns all registered qualified names, in sorted order.
func (r *TypeRegistry) Names() []string {
	return slices.Sorted(maps.Keys(r.byName))
}
