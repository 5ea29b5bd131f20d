package markup

import (
	"context"
	"fmt"
	"log"
	"maps"
	"reflect"
	"sync"
)

// Helpers is a fully wired attribute conversion pipeline: the
// tokenizer-backed compact deserializer, the string dispatch façade,
// the simple property deserializer, and the type and serializer
// registries they share.
//
// A Helpers is immutable once constructed, and safe for concurrent
// use. Per-document state, such as a [Resolver] for references to
// other activities in the document, is passed in through the context
// of each call (see [WithResolver]).
type Helpers struct {
	types       *TypeRegistry
	serializers map[reflect.Type]Serializer
	resolver    Resolver
	logger      *log.Logger

	simple     *SimplePropertyDeserializer
	compact    CompactDeserializer
	fromString StringDeserializer
}

// An Option configures a [Helpers] graph.
type Option func(*graphConfig)

type graphConfig struct {
	types       map[string]reflect.Type
	serializers map[reflect.Type]Serializer
	resolver    Resolver
	defaultNS   string
	logger      *log.Logger
}

// WithDefaultResolver sets the resolver used for extension references
// that the context of a call does not resolve.
func WithDefaultResolver(r Resolver) Option {
	return func(c *graphConfig) {
		c.resolver = r
	}
}

// WithSerializer registers s as the serializer for values of type t,
// replacing any existing serializer for t.
func WithSerializer(t reflect.Type, s Serializer) Option {
	return func(c *graphConfig) {
		c.serializers[t] = s
	}
}

// WithType registers t under the qualified name prefix:name, so that
// compact values can construct it with {prefix:name args...}. An
// empty prefix registers an unprefixed name.
func WithType(prefix, name string, t reflect.Type) Option {
	return func(c *graphConfig) {
		c.types[qualify(prefix, name)] = t
	}
}

// WithDefaultNamespace sets the namespace prefix in which unprefixed
// type names are also looked up. The default is "wf".
func WithDefaultNamespace(prefix string) Option {
	return func(c *graphConfig) {
		c.defaultNS = prefix
	}
}

// WithLogger makes the graph trace its dispatch decisions to l.
func WithLogger(l *log.Logger) Option {
	return func(c *graphConfig) {
		c.logger = l
	}
}

func qualify(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + ":" + name
}

func defaultConfig() graphConfig {
	ret := graphConfig{
		types: map[string]reflect.Type{
			"x:Null": nullMarkerType,
			"x:Type": typeMarkerType,

			"wf:Point":                  reflect.TypeFor[Point](),
			"wf:Size":                   reflect.TypeFor[Size](),
			"wf:SynchronizationHandles": reflect.TypeFor[SynchronizationHandles](),
		},
		serializers: map[reflect.Type]Serializer{
			reflect.TypeFor[Point]():                  PointSerializer{},
			reflect.TypeFor[Size]():                   SizeSerializer{},
			reflect.TypeFor[SynchronizationHandles](): SynchronizationHandlesConverter{},
		},
		defaultNS: "wf",
	}
	for name, t := range sysTypes {
		ret.types[qualify("sys", name)] = t
	}
	return ret
}

// NewHelpers returns a new conversion pipeline.
//
// The pipeline always knows the built-in {x:Null} and {x:Type}
// extensions, the "sys" namespace of primitive types, and the
// Point, Size and SynchronizationHandles types and serializers in the
// "wf" namespace. opts can add to or override these.
func NewHelpers(opts ...Option) *Helpers {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	h := &Helpers{
		types:       newTypeRegistry(cfg.types, cfg.defaultNS),
		serializers: maps.Clone(cfg.serializers),
		resolver:    cfg.resolver,
		logger:      cfg.logger,
	}

	// The compact deserializer needs the string façade for nested
	// values, and the façade needs the compact deserializer for its
	// top-level dispatch. Allocate both first, then wire them to each
	// other, and only then hand out h.
	compact := &compactDeserializer{h: h}
	fromString := &stringDeserializer{h: h}
	simple := &SimplePropertyDeserializer{h: h}

	compact.strings = fromString
	fromString.compact = compact
	fromString.simple = simple

	h.simple = simple
	h.compact = compact
	h.fromString = fromString
	return h
}

var defaultHelpers = sync.OnceValue(func() *Helpers { return NewHelpers() })

// Default returns the process-wide default pipeline, as constructed
// by NewHelpers with no options.
func Default() *Helpers {
	return defaultHelpers()
}

// Simple returns the graph's simple property deserializer.
func (h *Helpers) Simple() *SimplePropertyDeserializer { return h.simple }

// Compact returns the graph's compact format deserializer.
func (h *Helpers) Compact() CompactDeserializer { return h.compact }

// FromString returns the graph's string deserialization façade.
func (h *Helpers) FromString() StringDeserializer { return h.fromString }

// Types returns the graph's type registry.
func (h *Helpers) Types() *TypeRegistry { return h.types }

// SerializerFor returns the serializer registered for values of type
// t, if any.
func (h *Helpers) SerializerFor(t reflect.Type) (Serializer, bool) {
	ret, ok := h.serializers[t]
	return ret, ok
}

// Deserialize converts attribute text into a value of type t.
func (h *Helpers) Deserialize(ctx context.Context, t reflect.Type, text string) (any, error) {
	return h.fromString.DeserializeFromString(ctx, t, text)
}

// Deserialize converts attribute text into a T, using the pipeline h.
func Deserialize[T any](ctx context.Context, h *Helpers, text string) (T, error) {
	var zero T
	v, err := h.Deserialize(ctx, reflect.TypeFor[T](), text)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	ret, ok := v.(T)
	if !ok {
		return zero, serErr(ConversionFailed, reflect.TypeFor[T](), text, "got %T", v)
	}
	return ret, nil
}

// Serialize returns the attribute text for v.
//
// Values with a registered [Serializer] are serialized by it. Other
// values are written as plain literals if their type has a string
// converter, and as compact values if they are structs registered in
// h's type registry. A nil v serializes as {x:Null}.
func (h *Helpers) Serialize(v any) (string, error) {
	if v == nil {
		return nullText, nil
	}
	t := reflect.TypeOf(v)
	if ser, ok := h.SerializerFor(t); ok && ser.CanSerializeToString(v) {
		return ser.SerializeToString(h, v)
	}
	if f, err := formatterFor(t); err == nil {
		ret, err := f(reflect.ValueOf(v))
		if err != nil {
			return "", causeErr(ConversionFailed, t, "", err)
		}
		return ret, nil
	}
	if derefType(t).Kind() == reflect.Struct {
		return SerializeCompact(h, v)
	}
	return "", serErr(NoConverterAvailable, t, "", "cannot serialize %s", t)
}

func (h *Helpers) debugf(msg string, args ...any) {
	if h.logger == nil {
		return
	}
	h.logger.Output(2, fmt.Sprintf(msg, args...))
}
