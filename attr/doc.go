// Package attr provides low-level helpers to split and parse the
// value syntax of a single markup attribute.
//
// The helpers are purely syntactic: they know about commas, braces,
// quotes and backslash escapes, but nothing about the types that an
// attribute value eventually converts into. It is the caller's
// responsibility to trim, unquote and convert the raw tokens produced
// here.
//
// The compact attribute format is a single brace-delimited value of
// the form
//
//	{[Prefix:]TypeName [arg1, arg2, ...]}
//
// where each argument is either a literal, a Name=Value assignment,
// or another compact value. Commas inside nested braces or quotes do
// not separate arguments, and \, is a literal comma.
//
// You should not need to use this package directly, unless you are
// writing your own markup.Serializer or markup.Resolver.
package attr
