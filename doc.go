// Package typefmt formats type-tagged arguments into caller-provided
// buffers of UTF-8, UTF-16 or UTF-32 code units.
//
// Every argument is a [Value]: a [Kind] and a payload. [Tag] builds values
// from ordinary Go values, and the constructors ([Int], [String], [Char],
// [Address] and the rest) build them directly. A template pairs the format
// text with its values; see [Make], [Make16] and [Make32].
//
// # Dialects
//
// A template uses one of two directive dialects and must not mix them.
//
// The printf dialect follows C:
//
//	%[flags][width|*][.precision|*][length]letter
//
// Flags are '-', '+', ' ', '#' and '0'. Length modifiers (hh, h, l, ll, j,
// z, t, L, w, I, I32, I64) are accepted and ignored since the value's kind
// already carries its size. "%%" prints a percent sign.
//
// The brace dialect names arguments by position or takes them in order:
//
//	{[index][,[-]width][:letter[precision]]}
//
// "{}" and "{0}" cannot appear in the same template. Without a letter the
// default print character of the argument's kind is used. "{{" and "}}"
// print single braces. In relaxed mode (see [Formatter.SetLocalRelaxed])
// malformed braces are copied as text, which suits templates that also
// contain JSON or code.
//
// # Printers
//
// Print characters are the ASCII letters. A [Registry] binds each letter to
// a [Printer] and a set of kinds; the standard registry knows
//
//	c C        characters
//	s S        strings
//	d i u      decimal integers
//	o x X      octal and hexadecimal integers
//	p P        addresses
//	e E f F g G  floats
//
// Extensions claim a kind with [UserKind] and register their own letters,
// see package ext.
//
// # Formatting
//
// Formatting runs in two passes. Validation walks the template, resolves
// every directive and computes the exact buffer size needed; rendering then
// writes into a buffer known to be large enough. [Formatter.Measure] runs
// the first pass alone. When the buffer passed to [Formatter.Format] is too
// short, its [GrowFunc] is asked once for a larger one.
//
//	buf := make([]byte, 64)
//	n, err := typefmt.Format(buf, 0, nil, typefmt.Make("{0} is {1:x}", typefmt.String("x"), typefmt.Int(255)))
//
// [Formatter.Append], [Formatter.Sprintf] and [Formatter.Fprintf] cover the
// common cases.
//
// # Errors
//
// A failure is a [*FormatError] whose [Code] is matched with errors.Is. What
// else happens depends on the [ErrorMode]: Silent only returns it,
// WriteString also writes the message into the buffer and Abort panics.
// Options may be loaded from YAML with [LoadOptions].
package typefmt
