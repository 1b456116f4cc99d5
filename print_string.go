package typefmt

import (
	"unsafe"

	"github.com/mattn/go-runewidth"

	"github.com/bjaus/typefmt/utf"
)

func stringPrinter() Printer {
	return Printer{
		Validate8: validateString[byte], Validate16: validateString[uint16], Validate32: validateString[rune],
		Render8: printString[byte], Render16: printString[uint16], Render32: printString[rune],

		CopyLength: stringCopyLength,
		CopyInto:   stringCopyInto,
	}
}

const nullText = "(null)"

// String directives keep two counts in UserData: the low 32 bits are what
// rendering passes on (units to copy in units mode, characters to
// transcode otherwise) and the high 32 bits the amount width is measured
// against.
func packText(n, shown int) uint64 { return uint64(shown)<<32 | uint64(uint32(n)) }

func unpackText(d uint64) (n, shown int) { return int(uint32(d)), int(d >> 32) }

// nullFor returns the text printed for a null string under the options.
func nullFor(p *Placeholder) string {
	if p.Options().NullString == NullAllOrNothing && p.Has(PrintPrecision) && int(p.Precision) < len(nullText) {
		return ""
	}
	return nullText
}

func validateString[D Unit](p *Placeholder, v Value) int {
	var units int
	switch {
	case v.IsNull():
		units = measureText[D](p, bytesOf(nullFor(p)))
	case v.flags&FlagUTF16 != 0:
		units = measureText[D](p, v.UTF16Text())
	case v.flags&FlagUTF32 != 0:
		units = measureText[D](p, v.UTF32Text())
	default:
		units = measureText[D](p, bytesOf(v.text))
	}
	_, shown := unpackText(p.UserData)
	return units + max(int(p.Width)-shown, 0)
}

// measureText fills p.UserData for src and returns the units it renders to.
func measureText[D, S Unit](p *Placeholder, src []S) int {
	limit := utf.NoLimit
	if p.Has(PrintPrecision) {
		limit = int(p.Precision)
	}
	switch p.Options().StringPrecision {
	case PrecisionCharacters:
		m := utf.Measure[D](src, utf.NoLimit, limit)
		p.UserData = packText(m.Chars, m.Chars)
		return m.Units
	case PrecisionColumns:
		chars, cols, units := 0, 0, 0
		for i := 0; i < len(src); {
			r, n := utf.Decode(src[i:])
			if n == 0 {
				break
			}
			rw := runewidth.RuneWidth(r)
			if cols+rw > limit {
				break
			}
			cols += rw
			units += utf.EncodedLen[D](r)
			chars++
			i += n
		}
		p.UserData = packText(chars, cols)
		return units
	default:
		if utf.Size[D]() == utf.Size[S]() {
			n := min(len(src), limit)
			p.UserData = packText(n, n)
			return n
		}
		capacity := utf.NoLimit
		if p.Has(PrintPrecision) {
			capacity = limit
		}
		m := utf.Measure[D](src, capacity, utf.NoLimit)
		p.UserData = packText(m.Units, m.Units)
		return m.Units
	}
}

func printString[D Unit](dst []D, p *Placeholder) int {
	v := *p.Value
	switch {
	case v.IsNull():
		return printText(dst, p, bytesOf(nullFor(p)))
	case v.flags&FlagUTF16 != 0:
		return printText(dst, p, v.UTF16Text())
	case v.flags&FlagUTF32 != 0:
		return printText(dst, p, v.UTF32Text())
	default:
		return printText(dst, p, bytesOf(v.text))
	}
}

func printText[D, S Unit](dst []D, p *Placeholder, src []S) int {
	n, shown := unpackText(p.UserData)
	pad := max(int(p.Width)-shown, 0)

	w := 0
	if !p.Has(PrintLeft) {
		w += Fill(dst[w:], p.Pad(), pad)
	}
	switch {
	case p.Options().StringPrecision != PrecisionUnits:
		w += utf.Transcode(dst[w:], src, n).Units
	case utf.Size[D]() == utf.Size[S]():
		for i := range min(n, len(dst)-w) {
			dst[w+i] = D(src[i])
		}
		w += min(n, len(dst)-w)
	default:
		w += utf.Transcode(dst[w:min(w+n, len(dst))], src, utf.NoLimit).Units
	}
	if p.Has(PrintLeft) {
		w += Fill(dst[w:], ' ', pad)
	}
	return w
}

func bytesOf(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func stringCopyLength(v Value) int {
	switch {
	case v.IsNull():
		return 0
	case v.flags&FlagUTF16 != 0:
		return 2 * len(v.UTF16Text())
	case v.flags&FlagUTF32 != 0:
		return 4 * len(v.UTF32Text())
	default:
		return len(v.text)
	}
}

// stringCopyInto moves the payload of v into dst, which is 8-byte aligned
// and stringCopyLength(v) bytes long, and returns a value viewing it.
func stringCopyInto(dst []byte, v Value) Value {
	if len(dst) == 0 || v.IsNull() {
		return v
	}
	base := unsafe.Pointer(unsafe.SliceData(dst))
	switch {
	case v.flags&FlagUTF16 != 0:
		s := unsafe.Slice((*uint16)(base), len(dst)/2)
		copy(s, v.UTF16Text())
		v.ref = s
	case v.flags&FlagUTF32 != 0:
		s := unsafe.Slice((*rune)(base), len(dst)/4)
		copy(s, v.UTF32Text())
		v.ref = s
	default:
		copy(dst, v.text)
		v.text = unsafe.String(unsafe.SliceData(dst), len(dst))
	}
	return v
}
