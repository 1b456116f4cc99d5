package typefmt

import (
	"github.com/bjaus/typefmt/utf"
)

// MaxArguments bounds the arguments and directives of a single template.
const MaxArguments = 32

// PrintFlags are the modifiers given to a directive.
type PrintFlags uint8

const (
	PrintPrefix    PrintFlags = 1 << iota // '#'
	PrintSign                             // '+'
	PrintBlank                            // ' '
	PrintLeft                             // '-'
	PrintZero                             // '0'
	PrintPrecision                        // a precision was given
)

var flagChars = [...]byte{'#', '+', ' ', '-', '0', '.'}

// String renders the flags in directive syntax.
func (f PrintFlags) String() string {
	var b [len(flagChars)]byte
	n := 0
	for i, c := range flagChars {
		if f&(1<<i) != 0 {
			b[n] = c
			n++
		}
	}
	return string(b[:n])
}

func flagFor(c byte) PrintFlags {
	switch c {
	case '#':
		return PrintPrefix
	case '+':
		return PrintSign
	case ' ':
		return PrintBlank
	case '-':
		return PrintLeft
	}
	return 0
}

// Placeholder describes one directive of a template. Validation fills it
// in; rendering reads it back, including any UserData the validator left.
type Placeholder struct {
	Value *Value
	Arg   int

	// Start and End delimit the directive in the template, in code units.
	Start, End int

	Width     uint16
	Precision uint16
	Flags     PrintFlags
	Verb      byte

	// MaxLength is the length promised by validation.
	MaxLength int
	// UserData carries validate-phase state to the render phase.
	UserData uint64

	opts *Options
	reg  *Registry
}

// Options returns the options in effect for the directive.
func (p *Placeholder) Options() *Options {
	if p.opts == nil {
		return &defaultOptions
	}
	return p.opts
}

// Registry returns the registry the directive was resolved against.
func (p *Placeholder) Registry() *Registry {
	if p.reg == nil {
		return Default()
	}
	return p.reg
}

// Has reports whether all of f are set.
func (p *Placeholder) Has(f PrintFlags) bool { return p.Flags&f == f }

// Pad returns the padding character for right-aligned text: '0' when the
// zero flag and a width are given and the options allow it, else ' '.
func (p *Placeholder) Pad() byte {
	if p.Has(PrintZero) && p.Width > 0 && p.Options().StringLeadingZero {
		return '0'
	}
	return ' '
}

// Fill writes n copies of c into dst and returns n. It writes nothing if
// dst is too short.
func Fill[C Unit](dst []C, c byte, n int) int {
	if n <= 0 || n > len(dst) {
		return 0
	}
	for i := range dst[:n] {
		dst[i] = C(c)
	}
	return n
}

// PutASCII copies ASCII text into dst and returns the units written.
func PutASCII[C Unit](dst []C, s string) int {
	n := min(len(s), len(dst))
	for i := range n {
		dst[i] = C(s[i])
	}
	return n
}

// PadText writes s, UTF-8 encoded, into dst padded to the directive's
// width, transcoding to the destination width as needed. Precision, when
// given, limits the characters written. It is a helper for extension
// printers that render short text.
func PadText[C Unit](dst []C, p *Placeholder, s string) int {
	limit := utf.NoLimit
	if p.Has(PrintPrecision) {
		limit = int(p.Precision)
	}
	m := utf.MeasureString[C](s, len(dst), limit)
	pad := max(int(p.Width)-m.Chars, 0)
	w := 0
	if !p.Has(PrintLeft) {
		w += Fill(dst[w:], p.Pad(), pad)
	}
	w += utf.TranscodeString(dst[w:min(w+m.Units, len(dst))], s, limit).Units
	if p.Has(PrintLeft) {
		w += Fill(dst[w:], ' ', pad)
	}
	return w
}

// TextLength is the validation counterpart of PadText.
func TextLength[C Unit](p *Placeholder, s string) int {
	limit := utf.NoLimit
	if p.Has(PrintPrecision) {
		limit = int(p.Precision)
	}
	m := utf.MeasureString[C](s, utf.NoLimit, limit)
	return m.Units + max(int(p.Width)-m.Chars, 0)
}
