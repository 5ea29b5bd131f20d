package markup

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/danderson/markup/attr"
)

// A Reference is a markup extension reference that the pipeline
// cannot materialize by itself, and hands to a [Resolver].
type Reference struct {
	// Extension is the parsed extension.
	Extension attr.Extension
	// Raw is the complete attribute text of the reference.
	Raw string

	h *Helpers
}

// Name returns the qualified type name of the referenced extension.
func (r Reference) Name() string {
	return r.Extension.QualifiedName()
}

// NumArgs returns the number of arguments of the reference.
func (r Reference) NumArgs() int {
	return len(r.Extension.Args)
}

// ArgText returns the literal text of the i-th argument. Compact
// arguments are returned trimmed, other arguments are unquoted.
func (r Reference) ArgText(i int) string {
	return argText(r.Extension.Args[i])
}

// Named returns the literal text of the Name=Value argument with the
// given name, if present.
func (r Reference) Named(name string) (string, bool) {
	for _, arg := range r.Extension.Args {
		if n, v, ok := attr.SplitAssignment(arg); ok && n == name {
			return argText(v), true
		}
	}
	return "", false
}

// Arg deserializes the i-th argument of the reference into a value
// of type t, using the same pipeline that produced the
// Reference. Nested compact values in the argument are resolved
// recursively.
func (r Reference) Arg(ctx context.Context, i int, t reflect.Type) (any, error) {
	if i < 0 || i >= len(r.Extension.Args) {
		return nil, serErr(MalformedCompactFormat, t, r.Raw, "%s has no argument %d", r.Name(), i)
	}
	if r.h == nil {
		return nil, serErr(NoConverterAvailable, t, r.Raw, "reference is not attached to a pipeline")
	}
	raw := r.Extension.Args[i]
	if _, v, ok := attr.SplitAssignment(raw); ok {
		raw = v
	}
	ret, err := r.h.fromString.DeserializeFromString(ctx, t, argText(raw))
	if err != nil {
		return nil, wrapPath(err, indexSegment(i), t, raw)
	}
	return ret, nil
}

func (r Reference) String() string {
	return r.Raw
}

// argText returns the text of a raw argument token as it should be
// handed to a converter.
func argText(raw string) string {
	if IsCompactFormat(raw) {
		return strings.TrimSpace(raw)
	}
	return attr.Unquote(raw)
}

// A Resolver materializes markup extension references that depend on
// document context, for example references to other named activities
// in the same document.
//
// ResolveExtension returns ok false if it does not know how to
// resolve ref. The returned value must be assignable to t.
//
// Resolution is synchronous. A Resolver that needs document state
// which is not yet available (e.g. a forward reference to an activity
// further down the document) must either look ahead by itself, or
// report the reference as unresolved.
type Resolver interface {
	ResolveExtension(ctx context.Context, ref Reference, t reflect.Type) (v any, ok bool, err error)
}

// ResolverFunc adapts a function to the [Resolver] interface.
type ResolverFunc func(ctx context.Context, ref Reference, t reflect.Type) (any, bool, error)

func (f ResolverFunc) ResolveExtension(ctx context.Context, ref Reference, t reflect.Type) (any, bool, error) {
	return f(ctx, ref, t)
}

type resolverContextKey struct{}

// WithResolver returns a context that resolves markup extensions with
// r. Resolvers attached to a context take precedence over the
// default resolver of a [Helpers] graph.
//
// Attaching the resolver to a context lets one long-lived [Helpers]
// serve many documents, each with its own document-specific
// resolver.
func WithResolver(ctx context.Context, r Resolver) context.Context {
	return context.WithValue(ctx, resolverContextKey{}, r)
}

func contextResolver(ctx context.Context) Resolver {
	v := ctx.Value(resolverContextKey{})
	if v == nil {
		return nil
	}
	if ret, ok := v.(Resolver); ok {
		return ret
	}
	return nil
}

// resolveExternal resolves ref with the context's resolver, then the
// graph's default resolver.
func (h *Helpers) resolveExternal(ctx context.Context, ref Reference, t reflect.Type) (any, error) {
	ref.h = h
	for _, r := range []Resolver{contextResolver(ctx), h.resolver} {
		if r == nil {
			continue
		}
		v, ok, err := r.ResolveExtension(ctx, ref, t)
		if err != nil {
			var se *SerializationError
			if errors.As(err, &se) {
				return nil, err
			}
			return nil, causeErr(UnresolvedExtension, t, ref.Raw, err)
		}
		if !ok {
			continue
		}
		h.debugf("resolved %s to %T", ref.Name(), v)
		if v == nil {
			if !nillableKinds.Has(t.Kind()) {
				return nil, serErr(ConversionFailed, t, ref.Raw, "%s resolved to nil, which is not a valid %s", ref.Name(), t)
			}
			return reflect.Zero(t).Interface(), nil
		}
		if !assignable(reflect.TypeOf(v), t) {
			return nil, serErr(ConversionFailed, t, ref.Raw, "%s resolved to %T, which is not assignable to %s", ref.Name(), v, t)
		}
		return v, nil
	}
	return nil, serErr(UnresolvedExtension, t, ref.Raw, "no resolver for %s", ref.Name())
}
