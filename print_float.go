package typefmt

import (
	"github.com/bjaus/typefmt/numtext"
)

func floatPrinter() Printer {
	return Printer{
		Validate8: validateFloat, Validate16: validateFloat, Validate32: validateFloat,
		Render8: printFloat[byte], Render16: printFloat[uint16], Render32: printFloat[rune],
	}
}

const defaultFloatPrecision = 6

func floatFormat(p *Placeholder) numtext.FloatFormat {
	return numtext.FloatFormat{
		Verb:      p.Verb,
		Precision: int(p.Precision),
		Alt:       p.Has(PrintPrefix),
		PadWhole:  p.Options().FloatPadWhole,
	}
}

// validateFloat converts the value once to learn its exact length.
func validateFloat(p *Placeholder, v Value) int {
	if !p.Has(PrintPrecision) {
		p.Precision = defaultFloatPrecision
	}
	var f numtext.Float
	f.Convert(v.Float(), floatFormat(p))
	return max(f.Len(p.Has(PrintPrefix), signFor(p.Flags) != 0), int(p.Width))
}

func printFloat[C Unit](dst []C, p *Placeholder) int {
	var f numtext.Float
	f.Convert(p.Value.Float(), floatFormat(p))

	alt := p.Has(PrintPrefix)
	sign := signFor(p.Flags)
	pad := max(int(p.Width)-f.Len(alt, sign != 0), 0)
	left := p.Has(PrintLeft)
	// Inf and NaN are never zero padded.
	zero := p.Has(PrintZero) && !left && f.Special() == ""

	w := 0
	if !left && !zero {
		w += Fill(dst[w:], ' ', pad)
	}
	switch {
	case f.Negative():
		w += Fill(dst[w:], '-', 1)
	case sign != 0:
		w += Fill(dst[w:], sign, 1)
	}
	if zero {
		w += Fill(dst[w:], '0', pad)
	}
	if s := f.Special(); s != "" {
		w += PutASCII(dst[w:], s)
	} else {
		w += putBytes(dst[w:], f.Int())
		if f.Dot(alt) {
			w += Fill(dst[w:], '.', 1)
			w += putBytes(dst[w:], f.Frac())
		}
		w += putBytes(dst[w:], f.Exp())
	}
	if left {
		w += Fill(dst[w:], ' ', pad)
	}
	return w
}
