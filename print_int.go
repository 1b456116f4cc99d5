package typefmt

import (
	"unsafe"

	"github.com/bjaus/typefmt/numtext"
)

// ptrDigits is the hex width of a native address.
const ptrDigits = int(unsafe.Sizeof(uintptr(0)) * 2)

func intPrinter() Printer {
	return Printer{
		Validate8: validateInt, Validate16: validateInt, Validate32: validateInt,
		Render8: printInt[byte], Render16: printInt[uint16], Render32: printInt[rune],
	}
}

func kindMax(k Kind) uint64 {
	if b := k.Bits(); b > 0 && b < 64 {
		return 1<<b - 1
	}
	return 1<<64 - 1
}

func validateInt(p *Placeholder, v Value) int {
	width, precision := int(p.Width), int(p.Precision)
	switch p.Verb {
	case 'o':
		n := max(numtext.DigitCount(kindMax(v.kind), 8), precision)
		if p.Has(PrintPrefix) {
			n++
		}
		return max(n, width)
	case 'x', 'X':
		n := max(v.kind.Bits()/4, precision)
		if p.Has(PrintPrefix) {
			n += 2
		}
		return max(n, width)
	case 'p', 'P':
		ptr := p.Options().Pointer
		n := max(ptrDigits, v.kind.Bits()/4, precision)
		if ptr.Prefix {
			n += 2
		}
		if ptr.SignOrBlank && p.Flags&(PrintSign|PrintBlank) != 0 {
			n++
		}
		if ptr.Nil {
			n = max(n, len("(nil)"))
		}
		return max(n, width)
	default:
		return max(numtext.DigitCount(kindMax(v.kind), 10), precision, width) + 1
	}
}

func signFor(flags PrintFlags) byte {
	switch {
	case flags&PrintSign != 0:
		return '+'
	case flags&PrintBlank != 0:
		return ' '
	}
	return 0
}

// printInt lays out an integer as
// [spaces][sign][prefix][zero pad][precision zeros]digits[spaces].
func printInt[C Unit](dst []C, p *Placeholder) int {
	v := *p.Value
	verb, flags := p.Verb, p.Flags
	precision := int(p.Precision)
	upper := verb == 'X' || verb == 'P'
	radix := 10
	prefix := false
	var sign byte

	mag := v.Uint()
	if verb == 'd' || verb == 'i' {
		if n := v.Int(); v.Signed() && n < 0 {
			sign = '-'
			mag = uint64(-n)
		} else {
			sign = signFor(flags)
		}
	}

	switch verb {
	case 'o':
		radix = 8
		prefix = flags&PrintPrefix != 0
	case 'x', 'X':
		radix = 16
		prefix = flags&PrintPrefix != 0
	case 'p', 'P':
		ptr := p.Options().Pointer
		if mag == 0 && ptr.Nil {
			q := *p
			q.Flags &^= PrintPrecision | PrintZero
			return RenderAs(p.Registry(), 's', dst, &q, String("(nil)"))
		}
		radix = 16
		upper = upper || ptr.Caps
		if ptr.ForcePrecision {
			precision = ptrDigits
			flags |= PrintPrecision
		}
		prefix = ptr.Prefix
		if ptr.SignOrBlank {
			sign = signFor(flags)
		}
	}
	if flags&PrintPrecision != 0 {
		flags &^= PrintZero
	}

	var buf numtext.Buffer
	digits := numtext.Uint(&buf, mag, radix, upper)

	prefixLen := 0
	switch {
	case mag != 0 && prefix:
		if radix == 8 {
			prefixLen = 1
			if precision > 0 {
				precision--
			}
		} else if radix == 16 {
			prefixLen = 2
		}
	case mag == 0 && flags&PrintPrecision != 0 && precision == 0:
		// "%#.0o" still prints the 0 that doubles as the octal prefix.
		if verb != 'o' || !prefix {
			digits = digits[:0]
		}
	}

	required := max(len(digits), precision) + prefixLen
	if sign != 0 {
		required++
	}
	pad := max(int(p.Width)-required, 0)

	w := 0
	if flags&(PrintLeft|PrintZero) == 0 {
		w += Fill(dst[w:], ' ', pad)
	}
	if sign != 0 {
		w += Fill(dst[w:], sign, 1)
	}
	if prefixLen > 0 {
		w += Fill(dst[w:], '0', 1)
	}
	if prefixLen == 2 {
		x := byte('x')
		if upper {
			x = 'X'
		}
		w += Fill(dst[w:], x, 1)
	}
	if flags&(PrintLeft|PrintZero) == PrintZero {
		w += Fill(dst[w:], '0', pad)
	}
	w += Fill(dst[w:], '0', precision-len(digits))
	w += putBytes(dst[w:], digits)
	if flags&PrintLeft != 0 {
		w += Fill(dst[w:], ' ', pad)
	}
	return w
}

func putBytes[C Unit](dst []C, b []byte) int {
	n := min(len(b), len(dst))
	for i := range n {
		dst[i] = C(b[i])
	}
	return n
}
