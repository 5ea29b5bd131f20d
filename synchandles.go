package markup

import (
	"context"
	"reflect"
	"strings"

	"github.com/creachadair/mds/mapset"
)

// SynchronizationHandles is the set of synchronization handles an
// activity holds, in the order they were first declared.
type SynchronizationHandles []string

// handlePlaceholder stands in for escaped commas while a handle list
// is split. Handles that contain the placeholder itself do not
// survive a round trip: the placeholder comes back as a comma.
const handlePlaceholder = ">"

// Stringify returns the attribute text of a list of synchronization
// handles: the handles joined with ", ", with commas inside handles
// escaped as "\,". Empty handles are skipped. Stringify of a nil or
// empty list is "".
func Stringify(handles []string) string {
	var ret strings.Builder
	for _, h := range handles {
		if h == "" {
			continue
		}
		if ret.Len() > 0 {
			ret.WriteString(", ")
		}
		ret.WriteString(strings.ReplaceAll(h, ",", `\,`))
	}
	return ret.String()
}

// Unstringify parses the attribute text of a list of synchronization
// handles.
//
// Handles are separated by commas, carriage returns or line feeds,
// and trimmed of surrounding whitespace. "\," is a literal comma
// within a handle. Empty and duplicate handles are dropped, keeping
// the first occurrence of each handle.
func Unstringify(text string) SynchronizationHandles {
	text = strings.ReplaceAll(text, `\,`, handlePlaceholder)
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\r' || r == '\n'
	})
	for i, f := range fields {
		fields[i] = strings.ReplaceAll(f, handlePlaceholder, ",")
	}
	return SynchronizationHandles(fields).canonical().(SynchronizationHandles)
}

// canonical returns s trimmed, without empty or duplicate handles.
func (s SynchronizationHandles) canonical() any {
	ret := SynchronizationHandles{}
	seen := mapset.New[string]()
	for _, h := range s {
		h = strings.TrimSpace(h)
		if h == "" || seen.Has(h) {
			continue
		}
		seen.Add(h)
		ret = append(ret, h)
	}
	return ret
}

// MarshalText encodes s with [Stringify].
func (s SynchronizationHandles) MarshalText() ([]byte, error) {
	return []byte(Stringify(s)), nil
}

// UnmarshalText decodes s with [Unstringify].
func (s *SynchronizationHandles) UnmarshalText(bs []byte) error {
	*s = Unstringify(string(bs))
	return nil
}

// SynchronizationHandlesConverter is the [Serializer] for
// [SynchronizationHandles].
type SynchronizationHandlesConverter struct{}

func (SynchronizationHandlesConverter) CanSerializeToString(v any) bool {
	switch s := v.(type) {
	case SynchronizationHandles:
		return true
	case *SynchronizationHandles:
		return s != nil
	}
	return false
}

// Properties returns nil, handle lists have no properties.
func (SynchronizationHandlesConverter) Properties(v any) []Property {
	return nil
}

func (c SynchronizationHandlesConverter) SerializeToString(h *Helpers, v any) (string, error) {
	switch s := v.(type) {
	case SynchronizationHandles:
		return Stringify(s), nil
	case *SynchronizationHandles:
		if s != nil {
			return Stringify(*s), nil
		}
	}
	return "", serErr(NoConverterAvailable, reflect.TypeOf(v), "", "not a SynchronizationHandles")
}

func (SynchronizationHandlesConverter) DeserializeFromString(ctx context.Context, h *Helpers, t reflect.Type, text string) (any, error) {
	return deserializeOwned(ctx, h, t, text, SynchronizationHandles{})
}
