package markup

import (
	"context"
	"reflect"

	"github.com/danderson/markup/attr"
)

// A StringDeserializer converts attribute text, compact or plain,
// into typed values.
type StringDeserializer interface {
	// DeserializeFromString converts text into a value of type t.
	//
	// If text is empty or only whitespace, DeserializeFromString
	// returns the empty value of t rather than an error.
	DeserializeFromString(ctx context.Context, t reflect.Type, text string) (any, error)
}

// stringDeserializer is the StringDeserializer of a Helpers graph. It
// dispatches compact values to the graph's CompactDeserializer,
// values with a registered Serializer to that Serializer, and
// everything else to the SimplePropertyDeserializer.
type stringDeserializer struct {
	h       *Helpers
	compact CompactDeserializer
	simple  *SimplePropertyDeserializer
}

func (s *stringDeserializer) DeserializeFromString(ctx context.Context, t reflect.Type, text string) (any, error) {
	if t == nil {
		return nil, serErr(NoConverterAvailable, t, text, "no declared type")
	}
	if IsCompactFormat(text) {
		s.h.debugf("from string: %q is compact, as %s", text, t)
		return s.compact.DeserializeCompact(ctx, t, text)
	}
	if ser, ok := s.h.SerializerFor(t); ok {
		s.h.debugf("from string: %q via %T", text, ser)
		return ser.DeserializeFromString(ctx, s.h, t, text)
	}
	if attr.IsBlank(text) {
		return reflect.Zero(t).Interface(), nil
	}
	return s.simple.Deserialize(ctx, t, text)
}

// emptyValue returns the value that blank attribute text converts to
// for type t.
func (h *Helpers) emptyValue(ctx context.Context, t reflect.Type) (any, error) {
	if ser, ok := h.SerializerFor(t); ok {
		return ser.DeserializeFromString(ctx, h, t, "")
	}
	return reflect.Zero(t).Interface(), nil
}
