package markup

import (
	"context"
	"reflect"
	"strings"

	"github.com/danderson/markup/attr"
)

// Serializer is the interface implemented by converters that own the
// attribute representation of one value type.
//
// Serializers are registered with [WithSerializer], and are consulted
// by the pipeline for values of exactly that type, in place of the
// generic literal and compact conversions.
type Serializer interface {
	// CanSerializeToString reports whether v is a value of the
	// serializer's type.
	CanSerializeToString(v any) bool
	// Properties returns the properties of v, in a fixed order, or
	// nil if v is not a value of the serializer's type or has no
	// properties.
	Properties(v any) []Property
	// SerializeToString returns the attribute text of v.
	SerializeToString(h *Helpers, v any) (string, error)
	// DeserializeFromString converts attribute text to a value of
	// type t. Blank text converts to the type's empty value, and
	// compact text must be handed to h.Compact().
	DeserializeFromString(ctx context.Context, h *Helpers, t reflect.Type, text string) (any, error)
}

// serializeNative returns the attribute text of v, preferring the
// type's own text encoding and falling back to the compact format if
// it has none.
func serializeNative(h *Helpers, v any) (string, error) {
	t := reflect.TypeOf(v)
	if implementsOwn(t, textMarshalerType) {
		f, err := formatterFor(t)
		if err != nil {
			return "", causeErr(NoConverterAvailable, t, "", err)
		}
		ret, err := f(reflect.ValueOf(v))
		if err != nil {
			return "", causeErr(ConversionFailed, t, "", err)
		}
		return ret, nil
	}
	return SerializeCompact(h, v)
}

// deserializeOwned implements Serializer.DeserializeFromString for a
// serializer that owns type T, with the given empty value.
func deserializeOwned[T any](ctx context.Context, h *Helpers, t reflect.Type, text string, empty T) (any, error) {
	if want := reflect.TypeFor[T](); t != want {
		return nil, serErr(NoConverterAvailable, t, text, "serializer for %s cannot produce %s", want, t)
	}
	if attr.IsBlank(text) {
		return empty, nil
	}
	if IsCompactFormat(text) {
		return h.Compact().DeserializeCompact(ctx, t, text)
	}
	lit, err := literalFor(t)
	if err != nil {
		return nil, causeErr(NoConverterAvailable, t, text, err)
	}
	v, err := lit(text)
	if err != nil {
		return nil, causeErr(ConversionFailed, t, text, err)
	}
	return v.Interface(), nil
}

// SerializeCompact returns v in compact attribute format, as a
// construction of its registered type name with one Name=Value
// argument per property:
//
//	{wf:Point X=1, Y=2}
//
// v must be a struct, or a pointer to a struct, whose type is
// registered in h's type registry. A nil pointer serializes as
// {x:Null}. Properties promoted through a nil embedded struct pointer
// are omitted.
func SerializeCompact(h *Helpers, v any) (string, error) {
	val := reflect.ValueOf(v)
	if !val.IsValid() {
		return nullText, nil
	}
	t := val.Type()
	if val = derefValue(val); !val.IsValid() {
		return nullText, nil
	}
	name, ok := h.types.NameOf(val.Type())
	if !ok {
		return "", serErr(NoConverterAvailable, t, "", "%s has no registered type name", val.Type())
	}
	ps, err := propertiesFor(val.Type())
	if err != nil {
		return "", causeErr(NoConverterAvailable, t, "", err)
	}

	var ret strings.Builder
	ret.WriteByte('{')
	ret.WriteString(name)
	sep := " "
	for _, p := range ps {
		if p.unreachable(val) {
			// Behind a nil embedded pointer, which stays nil.
			continue
		}
		ret.WriteString(sep)
		sep = ", "
		s, err := h.Serialize(p.get(val).Interface())
		if err != nil {
			return "", wrapPath(err, p.Name, p.Type, "")
		}
		ret.WriteString(p.Name)
		ret.WriteByte('=')
		ret.WriteString(quoteArg(s))
	}
	ret.WriteByte('}')
	return ret.String(), nil
}

// quoteArg returns s in a form that survives tokenization as a single
// compact argument and unquotes back to s.
func quoteArg(s string) string {
	if IsCompactFormat(s) && strings.TrimSpace(s) == s {
		return s
	}
	if s != "" && strings.TrimSpace(s) == s && !strings.ContainsAny(s, ",{}=\"'\\") {
		return s
	}
	return attr.Quote(s)
}
