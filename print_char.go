package typefmt

import (
	"github.com/bjaus/typefmt/utf"
)

func charPrinter() Printer {
	return Printer{
		Validate8: validateChar[byte], Validate16: validateChar[uint16], Validate32: validateChar[rune],
		Render8: printChar[byte], Render16: printChar[uint16], Render32: printChar[rune],
	}
}

// Validation encodes the character once; UserData holds the encoded units
// in its low 32 bits and their count in bits 32 to 39.
const charCountShift = 32

func unitMask[C Unit]() uint64 {
	return 1<<(8*utf.Size[C]()) - 1
}

// codePoint reads the character held by an integer value. An 8-bit value
// is a single unit, a 16-bit value a single UTF-16 unit, anything wider a
// code point.
func codePoint(v Value) rune {
	switch v.kind {
	case Kind8:
		return rune(v.Uint())
	case Kind16:
		r, _ := utf.Decode([]uint16{uint16(v.Uint())})
		return r
	default:
		return scalar(rune(uint32(v.Uint())))
	}
}

// scalar replaces anything that is not a Unicode scalar value with
// utf.RuneError so every output width encodes the same character.
func scalar(r rune) rune {
	if r < 0 || r > utf.MaxRune || utf.IsSurrogate(r) {
		return utf.RuneError
	}
	return r
}

func validateChar[C Unit](p *Placeholder, v Value) int {
	var units [4]C
	n := 1
	switch {
	case v.kind == Kind8, v.kind == Kind16 && utf.Size[C]() > 1:
		// Narrow characters are copied as is.
		units[0] = C(v.Uint())
	default:
		n = utf.Encode(units[:], codePoint(v))
	}

	shift := 8 * utf.Size[C]()
	mask := unitMask[C]()
	data := uint64(n) << charCountShift
	for i := range n {
		data |= (uint64(uint32(units[i])) & mask) << (i * shift)
	}
	p.UserData = data
	return max(int(p.Width), n)
}

func printChar[C Unit](dst []C, p *Placeholder) int {
	n := int(p.UserData >> charCountShift & 0xFF)
	shift := 8 * utf.Size[C]()
	mask := unitMask[C]()
	pad := max(int(p.Width)-n, 0)

	w := 0
	if !p.Has(PrintLeft) {
		w += Fill(dst[w:], p.Pad(), pad)
	}
	for i := range min(n, len(dst)-w) {
		dst[w+i] = C(p.UserData >> (i * shift) & mask)
	}
	w += min(n, len(dst)-w)
	if p.Has(PrintLeft) {
		w += Fill(dst[w:], ' ', pad)
	}
	return w
}
