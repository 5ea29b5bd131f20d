package markup

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Point is a position on a workflow designer surface.
type Point struct {
	X int32
	Y int32
}

// MarshalText encodes p as "X, Y".
func (p Point) MarshalText() ([]byte, error) {
	return []byte(formatPair(p.X, p.Y)), nil
}

// UnmarshalText decodes a Point from "X, Y".
func (p *Point) UnmarshalText(bs []byte) error {
	x, y, err := parsePair(string(bs))
	if err != nil {
		return fmt.Errorf("invalid Point: %w", err)
	}
	*p = Point{x, y}
	return nil
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// PointSerializer is the [Serializer] for [Point].
type PointSerializer struct{}

func (PointSerializer) CanSerializeToString(v any) bool {
	switch p := v.(type) {
	case Point:
		return true
	case *Point:
		return p != nil
	}
	return false
}

func (s PointSerializer) Properties(v any) []Property {
	if !s.CanSerializeToString(v) {
		return nil
	}
	return mustProperties(reflect.TypeFor[Point]())
}

func (s PointSerializer) SerializeToString(h *Helpers, v any) (string, error) {
	if !s.CanSerializeToString(v) {
		return "", serErr(NoConverterAvailable, reflect.TypeOf(v), "", "not a Point")
	}
	return serializeNative(h, v)
}

func (PointSerializer) DeserializeFromString(ctx context.Context, h *Helpers, t reflect.Type, text string) (any, error) {
	return deserializeOwned(ctx, h, t, text, Point{})
}

// formatPair and parsePair implement the "A, B" text encoding shared
// by Point and Size.
func formatPair(a, b int32) string {
	return strconv.FormatInt(int64(a), 10) + ", " + strconv.FormatInt(int64(b), 10)
}

func parsePair(s string) (a, b int32, err error) {
	as, bs, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("%q is not a pair of integers separated by a comma", s)
	}
	ai, err := strconv.ParseInt(strings.TrimSpace(as), 10, 32)
	if err != nil {
		return 0, 0, err
	}
	bi, err := strconv.ParseInt(strings.TrimSpace(bs), 10, 32)
	if err != nil {
		return 0, 0, err
	}
	return int32(ai), int32(bi), nil
}

// mustProperties returns the properties of t, which must be a valid
// struct type.
func mustProperties(t reflect.Type) []Property {
	ret, err := Properties(t)
	if err != nil {
		panic(err)
	}
	return ret
}
