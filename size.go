package markup

import (
	"context"
	"fmt"
	"reflect"
)

// Size is the extent of an activity on a workflow designer surface.
type Size struct {
	Width  int32
	Height int32
}

// IsEmpty reports whether s is the empty Size.
func (s Size) IsEmpty() bool {
	return s == Size{}
}

// MarshalText encodes s as "Width, Height".
func (s Size) MarshalText() ([]byte, error) {
	return []byte(formatPair(s.Width, s.Height)), nil
}

// UnmarshalText decodes a Size from "Width, Height".
func (s *Size) UnmarshalText(bs []byte) error {
	w, h, err := parsePair(string(bs))
	if err != nil {
		return fmt.Errorf("invalid Size: %w", err)
	}
	*s = Size{w, h}
	return nil
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// SizeSerializer is the [Serializer] for [Size].
type SizeSerializer struct{}

func (SizeSerializer) CanSerializeToString(v any) bool {
	switch s := v.(type) {
	case Size:
		return true
	case *Size:
		return s != nil
	}
	return false
}

func (s SizeSerializer) Properties(v any) []Property {
	if !s.CanSerializeToString(v) {
		return nil
	}
	return mustProperties(reflect.TypeFor[Size]())
}

func (s SizeSerializer) SerializeToString(h *Helpers, v any) (string, error) {
	if !s.CanSerializeToString(v) {
		return "", serErr(NoConverterAvailable, reflect.TypeOf(v), "", "not a Size")
	}
	return serializeNative(h, v)
}

func (SizeSerializer) DeserializeFromString(ctx context.Context, h *Helpers, t reflect.Type, text string) (any, error) {
	return deserializeOwned(ctx, h, t, text, Size{})
}
