package markup

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Kind classifies a [SerializationError].
//
// Kind implements error, so that callers can test for a class of
// failure with errors.Is:
//
//	if errors.Is(err, markup.UnresolvedExtension) { ... }
type Kind int

const (
	// NoConverterAvailable means the declared type has no way to
	// convert from a string or a compact value.
	NoConverterAvailable Kind = iota + 1
	// ConversionFailed means a converter rejected a literal, or
	// produced a value of the wrong type.
	ConversionFailed
	// UnresolvedExtension means a markup extension reference could
	// not be resolved to a value.
	UnresolvedExtension
	// MalformedCompactFormat means a compact value is syntactically
	// invalid, or its arguments do not fit its type.
	MalformedCompactFormat
	// UnknownProperty means a compact value assigned to a property
	// that its type does not have.
	UnknownProperty
)

func (k Kind) String() string {
	switch k {
	case NoConverterAvailable:
		return "no converter available"
	case ConversionFailed:
		return "conversion failed"
	case UnresolvedExtension:
		return "unresolved extension"
	case MalformedCompactFormat:
		return "malformed compact format"
	case UnknownProperty:
		return "unknown property"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) Error() string { return k.String() }

// SerializationError is the error returned when an attribute value
// cannot be converted to or from its declared type.
type SerializationError struct {
	// Kind is the class of failure.
	Kind Kind
	// Type is the declared type of the value being converted, if
	// known.
	Type reflect.Type
	// Token is the raw text that failed to convert.
	Token string
	// Path is the property path from the top-level value to the
	// failing value, e.g. "Point.X". Path is empty if the top-level
	// value itself failed.
	Path string
	// Message is a human-readable explanation of the failure.
	Message string
	// Err is the underlying error, if any.
	Err error
}

func (e *SerializationError) Error() string {
	var ret strings.Builder
	ret.WriteString("markup: ")
	if e.Path != "" {
		ret.WriteString(e.Path)
		ret.WriteString(": ")
	}
	ret.WriteString(e.Kind.String())
	if e.Message != "" {
		ret.WriteString(": ")
		ret.WriteString(e.Message)
	}
	if e.Err != nil {
		ret.WriteString(": ")
		ret.WriteString(e.Err.Error())
	}
	if e.Token != "" {
		fmt.Fprintf(&ret, " (token %q)", e.Token)
	}
	return ret.String()
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is e's Kind.
func (e *SerializationError) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

func serErr(kind Kind, t reflect.Type, token string, msg string, args ...any) *SerializationError {
	return &SerializationError{
		Kind:    kind,
		Type:    t,
		Token:   token,
		Message: fmt.Sprintf(msg, args...),
	}
}

// causeErr is like serErr, but records err as the underlying cause.
func causeErr(kind Kind, t reflect.Type, token string, err error) *SerializationError {
	return &SerializationError{
		Kind:  kind,
		Type:  t,
		Token: token,
		Err:   err,
	}
}

// asSerErr returns err as a *SerializationError. Foreign errors are
// wrapped as ConversionFailed.
func asSerErr(err error, t reflect.Type, token string) *SerializationError {
	var se *SerializationError
	if errors.As(err, &se) {
		return se
	}
	return causeErr(ConversionFailed, t, token, err)
}

// wrapPath prefixes the property path of err with segment, see
// [SerializationError.WithPath].
func wrapPath(err error, segment string, t reflect.Type, token string) error {
	if err == nil {
		return nil
	}
	return asSerErr(err, t, token).WithPath(segment)
}

// WithPath returns a copy of e with its property path prefixed by
// segment. Segments are joined with '.', except for index segments
// ("[2]") which attach directly.
func (e *SerializationError) WithPath(segment string) *SerializationError {
	ret := *e
	switch {
	case ret.Path == "":
		ret.Path = segment
	case strings.HasPrefix(ret.Path, "["):
		ret.Path = segment + ret.Path
	default:
		ret.Path = segment + "." + ret.Path
	}
	return &ret
}

func indexSegment(i int) string {
	return fmt.Sprintf("[%d]", i)
}

// ErrorList accumulates the errors found while converting the
// properties of a document.
type ErrorList []*SerializationError

// Add appends err to the list, and reports whether err was
// non-nil. Errors that are not a [*SerializationError] are recorded as
// ConversionFailed.
func (l *ErrorList) Add(err error) bool {
	if err == nil {
		return false
	}
	*l = append(*l, asSerErr(err, nil, ""))
	return true
}

// Err returns l as an error, or nil if l is empty.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func (l ErrorList) Error() string {
	var ret strings.Builder
	for i, e := range l {
		if i > 0 {
			ret.WriteByte('\n')
		}
		ret.WriteString(e.Error())
	}
	return ret.String()
}

// Unwrap returns the accumulated errors, for use with errors.Is and
// errors.As.
func (l ErrorList) Unwrap() []error {
	ret := make([]error, len(l))
	for i, e := range l {
		ret[i] = e
	}
	return ret
}
