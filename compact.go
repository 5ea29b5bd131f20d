package markup

import (
	"context"
	"reflect"

	"github.com/creachadair/mds/mapset"
	"github.com/danderson/markup/attr"
)

// nullText is the compact value of a nil reference.
const nullText = "{x:Null}"

// A CompactDeserializer converts compact attribute values into typed
// values.
type CompactDeserializer interface {
	// DeserializeCompact converts the compact value text into a value
	// of type t.
	DeserializeCompact(ctx context.Context, t reflect.Type, text string) (any, error)
}

// A canonicalizer is a constructed value with a canonical form, which
// compact construction normalizes it to.
type canonicalizer interface {
	canonical() any
}

// compactDeserializer is the CompactDeserializer of a Helpers graph.
//
// Nested values are converted through strings, which in turn hands
// nested compact values back to the compactDeserializer. See
// NewHelpers for how the two are wired together.
type compactDeserializer struct {
	h       *Helpers
	strings StringDeserializer
}

func (c *compactDeserializer) DeserializeCompact(ctx context.Context, t reflect.Type, text string) (any, error) {
	if t == nil {
		return nil, serErr(NoConverterAvailable, t, text, "no declared type")
	}
	if attr.IsBlank(text) {
		return c.h.emptyValue(ctx, t)
	}

	ext, ok, err := attr.ParseExtension(text)
	if err != nil {
		return nil, causeErr(MalformedCompactFormat, t, text, err)
	}
	if !ok {
		return nil, serErr(MalformedCompactFormat, t, text, "not a compact value")
	}
	ref := Reference{Extension: ext, Raw: text, h: c.h}

	rt, found := c.h.types.Lookup(ext.QualifiedName())
	if !found {
		c.h.debugf("compact: %s is not a registered type, trying resolvers", ref.Name())
		return c.h.resolveExternal(ctx, ref, t)
	}
	switch rt {
	case nullMarkerType:
		return c.null(ref, t)
	case typeMarkerType:
		return c.typeRef(ref, t)
	}

	c.h.debugf("compact: constructing %s (%s) for %s", ref.Name(), rt, t)
	switch {
	case assignable(rt, t):
		v, err := c.construct(ctx, ref, rt)
		if err != nil {
			return nil, err
		}
		return v.Interface(), nil
	case rt.Kind() != reflect.Pointer && assignable(reflect.PointerTo(rt), t):
		v, err := c.construct(ctx, ref, rt)
		if err != nil {
			return nil, err
		}
		ptr := reflect.New(rt)
		ptr.Elem().Set(v)
		return ptr.Interface(), nil
	}
	return nil, serErr(ConversionFailed, t, text, "%s is a %s, which is not assignable to %s", ref.Name(), rt, t)
}

func (c *compactDeserializer) null(ref Reference, t reflect.Type) (any, error) {
	if ref.NumArgs() != 0 {
		return nil, serErr(MalformedCompactFormat, t, ref.Raw, "%s takes no arguments", ref.Name())
	}
	if !nillableKinds.Has(t.Kind()) {
		return nil, serErr(ConversionFailed, t, ref.Raw, "%s cannot be nil", t)
	}
	return reflect.Zero(t).Interface(), nil
}

func (c *compactDeserializer) typeRef(ref Reference, t reflect.Type) (any, error) {
	if t != reflectTypeType && t != anyType {
		return nil, serErr(ConversionFailed, t, ref.Raw, "%s produces a type, which is not assignable to %s", ref.Name(), t)
	}
	if ref.NumArgs() != 1 {
		return nil, serErr(MalformedCompactFormat, t, ref.Raw, "%s takes exactly one type name", ref.Name())
	}
	name, ok := ref.Named("TypeName")
	if !ok {
		name = ref.ArgText(0)
	}
	ret, ok := c.h.types.Lookup(name)
	if !ok || ret == nullMarkerType || ret == typeMarkerType {
		return nil, serErr(UnresolvedExtension, t, ref.Raw, "unknown type %q", name)
	}
	return ret, nil
}

// construct builds a value of type rt from the arguments of ref.
//
// Struct types take positional arguments in property order, followed
// by Name=Value assignments. Slice types take one argument per
// element. Other types take exactly one argument, the value itself.
func (c *compactDeserializer) construct(ctx context.Context, ref Reference, rt reflect.Type) (reflect.Value, error) {
	switch rt.Kind() {
	case reflect.Struct:
		return c.constructStruct(ctx, ref, rt)
	case reflect.Slice:
		ret := reflect.MakeSlice(rt, 0, ref.NumArgs())
		for i, arg := range ref.Extension.Args {
			v, err := c.arg(ctx, rt.Elem(), arg)
			if err != nil {
				return reflect.Value{}, wrapPath(err, indexSegment(i), rt.Elem(), arg)
			}
			ret = reflect.Append(ret, v)
		}
		if c, ok := ret.Interface().(canonicalizer); ok {
			return valueOf(c.canonical(), rt), nil
		}
		return ret, nil
	default:
		if ref.NumArgs() != 1 {
			return reflect.Value{}, serErr(MalformedCompactFormat, rt, ref.Raw, "%s takes exactly one argument, got %d", ref.Name(), ref.NumArgs())
		}
		return c.arg(ctx, rt, ref.Extension.Args[0])
	}
}

func (c *compactDeserializer) constructStruct(ctx context.Context, ref Reference, rt reflect.Type) (reflect.Value, error) {
	ps, err := propertiesFor(rt)
	if err != nil {
		return reflect.Value{}, causeErr(NoConverterAvailable, rt, ref.Raw, err)
	}

	ret := reflect.New(rt).Elem()
	var (
		assigned = mapset.New[string]()
		pos      = 0
		named    = false
	)
	for _, arg := range ref.Extension.Args {
		var p *Property
		name, raw, isNamed := attr.SplitAssignment(arg)
		switch {
		case isNamed:
			named = true
			if p = propertyNamed(ps, name); p == nil {
				return reflect.Value{}, serErr(UnknownProperty, rt, arg, "%s has no property %q", ref.Name(), name)
			}
		case named:
			return reflect.Value{}, serErr(MalformedCompactFormat, rt, arg, "positional argument after named arguments")
		case pos >= len(ps):
			return reflect.Value{}, serErr(MalformedCompactFormat, rt, ref.Raw, "too many arguments for %s, want at most %d", ref.Name(), len(ps))
		default:
			p, raw = ps[pos], arg
			pos++
		}

		if assigned.Has(p.Name) {
			return reflect.Value{}, serErr(MalformedCompactFormat, rt, arg, "property %s assigned more than once", p.Name)
		}
		assigned.Add(p.Name)

		v, err := c.arg(ctx, p.Type, raw)
		if err != nil {
			return reflect.Value{}, wrapPath(err, p.Name, p.Type, raw)
		}
		p.set(ret, v)
	}
	return ret, nil
}

// arg converts one raw argument token into a value of type t.
func (c *compactDeserializer) arg(ctx context.Context, t reflect.Type, raw string) (reflect.Value, error) {
	v, err := c.strings.DeserializeFromString(ctx, t, argText(raw))
	if err != nil {
		return reflect.Value{}, err
	}
	return valueOf(v, t), nil
}

// valueOf returns v as a reflect.Value of type t. v must be nil or
// assignable to t.
func valueOf(v any, t reflect.Type) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}
	ret := reflect.ValueOf(v)
	if ret.Type() != t {
		cv := reflect.New(t).Elem()
		cv.Set(ret)
		return cv
	}
	return ret
}
