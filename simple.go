package markup

import (
	"context"
	"reflect"
	"strings"

	"github.com/danderson/markup/attr"
)

// SimplePropertyDeserializer converts a single token into a value,
// either by handing a markup extension reference to a [Resolver], or
// by converting a plain literal with the declared type's string
// converter.
//
// Types have a string converter if their pointer implements
// [encoding.TextUnmarshaler], or if they are a bool, integer, float
// or string type, a pointer to a convertible type, or the empty
// interface.
type SimplePropertyDeserializer struct {
	h *Helpers
}

// Deserialize converts token into a value of type t.
func (d *SimplePropertyDeserializer) Deserialize(ctx context.Context, t reflect.Type, token string) (any, error) {
	if t == nil {
		return nil, serErr(NoConverterAvailable, t, token, "no declared type")
	}

	trimmed := strings.TrimSpace(token)
	if !strings.HasPrefix(trimmed, "{}") {
		ext, ok, err := attr.ParseExtension(token)
		if err != nil {
			return nil, causeErr(MalformedCompactFormat, t, token, err)
		}
		if ok {
			d.h.debugf("simple: %s is an extension reference", ext.QualifiedName())
			return d.h.resolveExternal(ctx, Reference{Extension: ext, Raw: token}, t)
		}
	}

	lit, err := literalFor(t)
	if err != nil {
		return nil, causeErr(NoConverterAvailable, t, token, err)
	}
	text := token
	if !keepsWhitespace(t) {
		text = trimmed
	}
	v, err := lit(text)
	if err != nil {
		return nil, causeErr(ConversionFailed, t, token, err)
	}
	return v.Interface(), nil
}

// keepsWhitespace reports whether literals of type t keep their
// surrounding whitespace.
func keepsWhitespace(t reflect.Type) bool {
	t = derefType(t)
	return t.Kind() == reflect.String || t == anyType
}
