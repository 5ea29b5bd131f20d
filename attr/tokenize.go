package attr

import "strings"

// scanner tracks the lexical state shared by all the splitters in
// this package: brace depth, the active quote rune, and whether the
// previous rune was an unconsumed backslash.
type scanner struct {
	depth  int
	quote  rune
	escape bool
}

// structural reports whether r, seen in the current state, has
// structural meaning (i.e. is not quoted or escaped). It updates the
// escape and quote state as a side effect, but not the brace depth.
func (s *scanner) structural(r rune) bool {
	switch {
	case s.escape:
		s.escape = false
		return false
	case r == '\\':
		s.escape = true
		return false
	case s.quote != 0:
		if r == s.quote {
			s.quote = 0
		}
		return false
	case r == '"' || r == '\'':
		s.quote = r
		return false
	}
	return true
}

// Tokenize splits text into its top-level comma-separated tokens.
//
// Commas separate tokens only at brace depth zero, outside quoted
// segments, and when not preceded by a backslash. Braces, quotes and
// escape sequences are copied verbatim into the tokens, as is any
// whitespace around them: trimming and unescaping are the caller's
// job.
//
// A closing brace at depth zero has no matching open brace, and marks
// the end of the attribute value. Tokenize stops there, emits the
// token in progress and then an empty terminal token, and ignores any
// remaining text. For example, "value1, value2}" tokenizes to
// ["value1", " value2", ""].
//
// Tokenize returns nil for empty text.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	var (
		ret []string
		cur strings.Builder
		st  scanner
	)
	for _, r := range text {
		if !st.structural(r) {
			cur.WriteRune(r)
			continue
		}
		switch r {
		case '{':
			st.depth++
		case '}':
			if st.depth == 0 {
				return append(ret, cur.String(), "")
			}
			st.depth--
		case ',':
			if st.depth == 0 {
				ret = append(ret, cur.String())
				cur.Reset()
				continue
			}
		}
		cur.WriteRune(r)
	}
	return append(ret, cur.String())
}

// SplitAssignment splits a Name=Value argument on its first
// structural '=' sign. The returned name is trimmed, the value is
// returned verbatim.
//
// ok is false if arg has no structural '=', or if the text before it
// is not a plain identifier. In that case arg should be treated as a
// positional argument.
func SplitAssignment(arg string) (name, value string, ok bool) {
	var st scanner
	for i, r := range arg {
		if !st.structural(r) {
			continue
		}
		switch r {
		case '{':
			st.depth++
		case '}':
			st.depth--
		case '=':
			if st.depth != 0 {
				continue
			}
			name = strings.TrimSpace(arg[:i])
			if !isIdentifier(name) {
				return "", "", false
			}
			return name, arg[i+1:], true
		}
	}
	return "", "", false
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '.'):
		default:
			return false
		}
	}
	return true
}
