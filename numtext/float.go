package numtext

import (
	"math"
)

// MaxPrecision is the largest precision honored; larger requests are
// clamped.
const MaxPrecision = 314

// bufSize holds the widest rendering: the 309 integer digits of the largest
// float64, a dot, MaxPrecision fraction digits and one padding zero.
const bufSize = 309 + 1 + MaxPrecision + 1

// FloatFormat selects how Convert renders a value.
type FloatFormat struct {
	Verb      byte // e, E, f, F, g or G
	Precision int
	Alt       bool // '#': keep the dot and trailing zeros
	PadWhole  bool // count the integer digit when padding a zero under '#'
}

// Float holds the pieces of a converted float64. The sign, padding and
// final layout are left to the caller so that any code unit width can be
// targeted from the same digits.
//
// Conversion is exact: digits are rounded from the full decimal expansion
// of the binary value, and a tie rounds to even.
type Float struct {
	special string
	neg     bool
	dec     decimal
	buf     [bufSize]byte
	text    []byte // integer digits, '.', fraction digits
	ie      int    // end of the integer digits
	fb      int    // start of the fraction digits
	exp     [8]byte
	en      int
}

// Special returns "Inf" or "NaN" for non-finite values, otherwise "".
func (f *Float) Special() string { return f.special }

// Negative reports whether the value was below zero.
func (f *Float) Negative() bool { return f.neg }

// Int returns the integer digits.
func (f *Float) Int() []byte { return f.text[:f.ie] }

// Frac returns the fraction digits.
func (f *Float) Frac() []byte { return f.text[f.fb:] }

// Exp returns the exponent including its marker and sign, or nothing in
// fixed notation.
func (f *Float) Exp() []byte { return f.exp[:f.en] }

// Dot reports whether a decimal point separates Int and Frac.
func (f *Float) Dot(alt bool) bool { return len(f.text) > f.fb || alt }

// Len returns the length of the unpadded rendering, including a sign
// column when the value is negative or sign is set.
func (f *Float) Len(alt, sign bool) int {
	n := len(f.special)
	if n == 0 {
		n = f.ie + len(f.Frac()) + f.en
		if f.Dot(alt) {
			n++
		}
	}
	if f.neg || sign {
		n++
	}
	return n
}

// AppendTo appends the unpadded rendering to dst. A sign character other
// than '-' is added when sign is '+' or ' '.
func (f *Float) AppendTo(dst []byte, alt bool, sign byte) []byte {
	switch {
	case f.neg:
		dst = append(dst, '-')
	case sign != 0:
		dst = append(dst, sign)
	}
	if f.special != "" {
		return append(dst, f.special...)
	}
	dst = append(dst, f.Int()...)
	if f.Dot(alt) {
		dst = append(dst, '.')
		dst = append(dst, f.Frac()...)
	}
	return append(dst, f.Exp()...)
}

// Convert renders v according to s, replacing any previous contents.
func (f *Float) Convert(v float64, s FloatFormat) {
	f.special, f.neg = "", false
	f.text, f.ie, f.fb, f.en = f.buf[:0], 0, 0, 0
	switch {
	case math.IsInf(v, 0):
		f.special = "Inf"
		f.neg = v < 0
		return
	case math.IsNaN(v):
		f.special = "NaN"
		return
	}

	f.neg = v < 0
	prec := min(max(s.Precision, 0), MaxPrecision)
	d := &f.dec
	d.set(math.Abs(v))

	switch s.Verb {
	case 'e', 'E':
		d.round(prec + 1)
		f.scientific(prec, s.Verb)
	case 'g', 'G':
		f.general(prec, s)
	default:
		d.round(d.dp + prec)
		f.fixed(prec)
	}
}

// general lays out g notation: scientific when the exponent after rounding
// to prec significant digits is below -4 or at least prec, fixed otherwise.
func (f *Float) general(prec int, s FloatFormat) {
	d := &f.dec
	prec = max(prec, 1)
	d.round(prec)
	x := 0
	if d.nd > 0 {
		x = d.dp - 1
	}
	if x < -4 || x >= prec {
		marker := byte('e')
		if s.Verb == 'G' {
			marker = 'E'
		}
		f.scientific(prec-1, marker)
	} else {
		f.fixed(prec - 1 - x)
	}

	if !s.Alt {
		for len(f.text) > f.fb && f.text[len(f.text)-1] == '0' {
			f.text = f.text[:len(f.text)-1]
		}
		return
	}
	// Under '#' a zero is padded to prec fraction digits unless the integer
	// digit counts toward the precision.
	if d.nd == 0 && !s.PadWhole {
		f.text = append(f.text, '0')
	}
}

// fixed writes the rounded digits with prec fraction digits.
func (f *Float) fixed(prec int) {
	d := &f.dec
	if d.dp > 0 {
		for i := range d.dp {
			f.text = append(f.text, d.digit(i))
		}
	} else {
		f.text = append(f.text, '0')
	}
	f.ie, f.fb = len(f.text), len(f.text)
	if prec == 0 {
		return
	}
	f.text = append(f.text, '.')
	f.fb++
	for i := range prec {
		f.text = append(f.text, d.digit(d.dp+i))
	}
}

// scientific writes one integer digit, prec fraction digits and the
// exponent introduced by marker.
func (f *Float) scientific(prec int, marker byte) {
	d := &f.dec
	f.text = append(f.text, d.digit(0))
	f.ie, f.fb = 1, 1
	if prec > 0 {
		f.text = append(f.text, '.')
		f.fb++
		for i := 1; i <= prec; i++ {
			f.text = append(f.text, d.digit(i))
		}
	}

	x := 0
	if d.nd > 0 {
		x = d.dp - 1
	}
	sign := byte('+')
	if x < 0 {
		sign, x = '-', -x
	}
	f.exp[0], f.exp[1] = marker, sign
	n := 2
	if x >= 100 {
		f.exp[n] = byte('0' + x/100)
		n++
	}
	f.exp[n] = byte('0' + x/10%10)
	f.exp[n+1] = byte('0' + x%10)
	f.en = n + 2
}
