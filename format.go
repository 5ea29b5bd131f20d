package markup

import "github.com/danderson/markup/attr"

// IsCompactFormat reports whether text is a compact attribute value,
// i.e. a single balanced {...} value, as opposed to a plain literal.
//
// Every conversion path consults IsCompactFormat before picking how to
// deserialize a value, so that literals which merely contain braces
// are never parsed as markup.
func IsCompactFormat(text string) bool {
	return attr.IsCompactFormat(text)
}
