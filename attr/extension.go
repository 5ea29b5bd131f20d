package attr

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/creachadair/mds/value"
)

// An Extension is a parsed markup extension reference, i.e. the
// {Prefix:TypeName args...} form of a compact attribute value.
type Extension struct {
	// Prefix is the namespace prefix of the extension's type name, if
	// any.
	Prefix value.Maybe[string]
	// TypeName is the extension's type name, without the prefix.
	TypeName string
	// Args are the raw argument tokens of the extension, in the order
	// they appear in the markup. Args may themselves be compact
	// values, ParseExtension does not descend into them.
	Args []string
}

// QualifiedName returns the extension's type name, including its
// namespace prefix if present.
func (e Extension) QualifiedName() string {
	if p, ok := e.Prefix.GetOK(); ok {
		return p + ":" + e.TypeName
	}
	return e.TypeName
}

// String returns the extension in compact attribute format.
func (e Extension) String() string {
	var ret strings.Builder
	ret.WriteByte('{')
	ret.WriteString(e.QualifiedName())
	for i, arg := range e.Args {
		if i == 0 {
			ret.WriteByte(' ')
		} else {
			ret.WriteString(", ")
		}
		ret.WriteString(strings.TrimSpace(arg))
	}
	ret.WriteByte('}')
	return ret.String()
}

// SyntaxError is the error returned when an attribute value looks
// like a compact value, but is malformed.
type SyntaxError struct {
	// Text is the complete text that failed to parse.
	Text string
	// Reason is an explanation of what is wrong with Text.
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid compact attribute %q: %s", e.Text, e.Reason)
}

func syntaxErr(text, reason string, args ...any) error {
	return &SyntaxError{text, fmt.Sprintf(reason, args...)}
}

// ParseExtension parses token as a markup extension reference.
//
// If token, after trimming whitespace, does not start with '{', it is
// a plain literal and ParseExtension returns ok false and a nil
// error. If token starts with '{' but is not a well-formed extension
// reference, ParseExtension returns a [*SyntaxError].
//
// Arguments are split with [Tokenize] and returned verbatim. Nested
// extensions in arguments are left for the caller to parse. Every
// token after the type name is an argument, so the operand of
// {x:Type sys:String} is Args[0], and the reference has one argument.
func ParseExtension(token string) (ext Extension, ok bool, err error) {
	text := strings.TrimSpace(token)
	if !strings.HasPrefix(text, "{") {
		return Extension{}, false, nil
	}
	if text == "{}" {
		return Extension{}, false, syntaxErr(token, "empty type name")
	}
	if !IsCompactFormat(text) {
		return Extension{}, false, syntaxErr(token, "unbalanced braces")
	}

	inner := strings.TrimLeftFunc(text[1:len(text)-1], unicode.IsSpace)
	name, rest := inner, ""
	if end := strings.IndexFunc(inner, isNameEnd); end >= 0 {
		name, rest = inner[:end], inner[end:]
	}
	if i := strings.IndexAny(name, "{}=\"'\\"); i >= 0 {
		return Extension{}, false, syntaxErr(token, "invalid character %q in type name", name[i])
	}

	if prefix, typeName, found := strings.Cut(name, ":"); found {
		if prefix == "" {
			return Extension{}, false, syntaxErr(token, "empty namespace prefix")
		}
		if strings.Contains(typeName, ":") {
			return Extension{}, false, syntaxErr(token, "type name %q has more than one prefix", name)
		}
		ext.Prefix = value.Just(prefix)
		name = typeName
	}
	if name == "" {
		return Extension{}, false, syntaxErr(token, "empty type name")
	}
	ext.TypeName = name

	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
	rest = strings.TrimPrefix(rest, ",")
	if strings.TrimSpace(rest) != "" {
		ext.Args = Tokenize(rest)
	}
	return ext, true, nil
}

func isNameEnd(r rune) bool {
	return r == ',' || unicode.IsSpace(r)
}
