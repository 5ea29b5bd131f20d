package attr

import (
	"strings"
	"unicode"
)

// IsCompactFormat reports whether text is a compact attribute value.
//
// A compact value, after trimming surrounding whitespace, starts with
// '{' and ends with the '}' that closes it. Braces inside quotes or
// escaped with a backslash do not count. "{a}{b}" is not compact,
// because its first brace closes before the end of the text. That
// also covers the "{}" escape prefix, which marks literal text that
// happens to start with a brace, and "{}" itself, which is the escaped
// empty literal.
func IsCompactFormat(text string) bool {
	text = strings.TrimSpace(text)
	if len(text) <= 2 || text[0] != '{' || text[len(text)-1] != '}' {
		return false
	}
	var st scanner
	for i, r := range text {
		if !st.structural(r) {
			continue
		}
		switch r {
		case '{':
			st.depth++
		case '}':
			st.depth--
			if st.depth == 0 {
				return i == len(text)-1
			}
		}
	}
	return false
}

// UnescapeLiteral removes the "{}" escape prefix from a literal
// attribute value, if present. The prefix may follow leading
// whitespace, which is kept.
func UnescapeLiteral(s string) string {
	rest := strings.TrimLeftFunc(s, unicode.IsSpace)
	if !strings.HasPrefix(rest, "{}") {
		return s
	}
	return s[:len(s)-len(rest)] + rest[2:]
}

// Unquote returns the literal value of a raw token: surrounding
// whitespace is trimmed, matching surrounding quotes are removed, and
// backslash escapes are resolved.
func Unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	if !strings.Contains(s, `\`) {
		return s
	}
	var ret strings.Builder
	escape := false
	for _, r := range s {
		if r == '\\' && !escape {
			escape = true
			continue
		}
		escape = false
		ret.WriteRune(r)
	}
	return ret.String()
}

// Quote returns s in single quotes, with quotes and backslashes
// escaped, so that it tokenizes as a single argument and [Unquote]
// returns s.
func Quote(s string) string {
	var ret strings.Builder
	ret.WriteByte('\'')
	for _, r := range s {
		if r == '\'' || r == '\\' {
			ret.WriteByte('\\')
		}
		ret.WriteRune(r)
	}
	ret.WriteByte('\'')
	return ret.String()
}

// EscapeCommas returns s with every comma escaped with a backslash,
// so that it survives [Tokenize] as a single token.
func EscapeCommas(s string) string {
	return strings.ReplaceAll(s, ",", `\,`)
}

// IsBlank reports whether s is empty or only whitespace.
func IsBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}
