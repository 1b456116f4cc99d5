// Package utf decodes, encodes and transcodes Unicode text stored in 8, 16
// or 32-bit code units.
//
// The decoders are deliberately forgiving: they never read past the end of
// their input and report a truncated sequence as code point 0 together with
// the number of units that were available, so a caller walking a buffer
// always makes progress. Encoders never emit a partial code point.
package utf

import (
	"math"
	"unsafe"

	"github.com/bjaus/typefmt/internal/invariant"
)

// Unit is a code unit of one of the three supported encodings. Its size
// selects the encoding: 1 byte is UTF-8, 2 bytes UTF-16, 4 bytes UTF-32.
type Unit interface {
	~uint8 | ~uint16 | ~int32 | ~uint32
}

// NoLimit disables the character limit of Transcode and Measure.
const NoLimit = math.MaxInt

const (
	// MaxRune is the largest valid code point.
	MaxRune = 0x10FFFF
	// RuneError replaces code points that cannot be encoded.
	RuneError = 0xFFFD

	surrogateMin = 0xD800
	surrogateMax = 0xDFFF
)

// Count reports how much of a transcoding was performed.
type Count struct {
	Chars int // code points
	Units int // destination code units
}

// Size returns the width in bytes of the code unit C.
func Size[C Unit]() int {
	var c C
	return int(unsafe.Sizeof(c))
}

// IsSurrogate reports whether r lies in the UTF-16 surrogate range.
func IsSurrogate(r rune) bool {
	return r >= surrogateMin && r <= surrogateMax
}

// Decode reads one code point from the front of s and returns it with the
// number of units it occupied. An empty s yields (0, 0).
func Decode[C Unit](s []C) (rune, int) {
	r, n, _ := decode(s)
	return r, n
}

// DecodeString reads one UTF-8 encoded code point from the front of s.
func DecodeString(s string) (rune, int) {
	return Decode(bytesOf(s))
}

// decode reports ok=false for an empty or truncated sequence.
func decode[C Unit](s []C) (rune, int, bool) {
	if len(s) == 0 {
		return 0, 0, false
	}
	switch Size[C]() {
	case 1:
		return decode8(s)
	case 2:
		return decode16(s)
	default:
		return rune(s[0]), 1, true
	}
}

func decode8[C Unit](s []C) (rune, int, bool) {
	lead := uint32(s[0]) & 0xFF
	if lead < 0x80 {
		return rune(lead), 1, true
	}
	need := 4
	switch {
	case lead < 0xE0:
		need = 2
	case lead < 0xF0:
		need = 3
	}
	for i := 1; i < need; i++ {
		if i >= len(s) || s[i] == 0 {
			return 0, i, false
		}
	}
	c1 := uint32(s[1]) & 0x3F
	switch need {
	case 2:
		return rune((lead&0x1F)<<6 | c1), 2, true
	case 3:
		return rune((lead&0x0F)<<12 | c1<<6 | uint32(s[2])&0x3F), 3, true
	default:
		return rune((lead&0x07)<<18 | c1<<12 | (uint32(s[2])&0x3F)<<6 | uint32(s[3])&0x3F), 4, true
	}
}

func decode16[C Unit](s []C) (rune, int, bool) {
	lead := uint32(s[0]) & 0xFFFF
	if lead < surrogateMin || lead > surrogateMax {
		return rune(lead), 1, true
	}
	if len(s) < 2 || s[1] == 0 {
		return 0, 1, false
	}
	trail := uint32(s[1]) & 0x3FF
	return rune(0x10000 + (lead&0x3FF)<<10 + trail), 2, true
}

// EncodedLen returns the number of units of width C needed to encode r.
func EncodedLen[C Unit](r rune) int {
	if r < 0 || r > MaxRune {
		r = RuneError
	}
	switch Size[C]() {
	case 1:
		switch {
		case r < 0x80:
			return 1
		case r < 0x800:
			return 2
		case r < 0x10000:
			return 3
		default:
			return 4
		}
	case 2:
		if r >= 0x10000 {
			return 2
		}
		return 1
	default:
		return 1
	}
}

// Encode writes r into dst and returns the number of units written. It
// writes nothing and returns 0 when dst is too short. Code points outside
// the Unicode range, and lone surrogates bound for UTF-16, become RuneError.
func Encode[C Unit](dst []C, r rune) int {
	if r < 0 || r > MaxRune {
		r = RuneError
	}
	n := EncodedLen[C](r)
	if len(dst) < n {
		return 0
	}
	switch Size[C]() {
	case 1:
		switch n {
		case 1:
			dst[0] = C(r)
		case 2:
			dst[0] = C(0xC0 | r>>6)
			dst[1] = C(0x80 | r&0x3F)
		case 3:
			dst[0] = C(0xE0 | r>>12)
			dst[1] = C(0x80 | (r>>6)&0x3F)
			dst[2] = C(0x80 | r&0x3F)
		default:
			dst[0] = C(0xF0 | r>>18)
			dst[1] = C(0x80 | (r>>12)&0x3F)
			dst[2] = C(0x80 | (r>>6)&0x3F)
			dst[3] = C(0x80 | r&0x3F)
		}
	case 2:
		if n == 2 {
			r -= 0x10000
			dst[0] = C(0xD800 | (r>>10)&0x3FF)
			dst[1] = C(0xDC00 | r&0x3FF)
			break
		}
		if IsSurrogate(r) {
			if invariant.Enabled {
				invariant.Failf("utf: lone surrogate %#x cannot be encoded as UTF-16", r)
			}
			r = RuneError
		}
		dst[0] = C(r)
	default:
		dst[0] = C(r)
	}
	return n
}

// Transcode copies src into dst one code point at a time, stopping at the
// end of src, after limit code points, at a truncated sequence, or before a
// code point that would not fit. When capacity remains the destination is
// terminated with a zero unit that is not included in the count.
func Transcode[D, S Unit](dst []D, src []S, limit int) Count {
	n := transcode(dst, len(dst), src, limit)
	if n.Units < len(dst) {
		dst[n.Units] = 0
	}
	return n
}

// TranscodeString is Transcode for UTF-8 text held in a string.
func TranscodeString[D Unit](dst []D, src string, limit int) Count {
	return Transcode(dst, bytesOf(src), limit)
}

// Measure reports what Transcode would produce for a destination of the
// given capacity without writing anything.
func Measure[D, S Unit](src []S, capacity, limit int) Count {
	return transcode[D](nil, capacity, src, limit)
}

// MeasureString is Measure for UTF-8 text held in a string.
func MeasureString[D Unit](src string, capacity, limit int) Count {
	return Measure[D](bytesOf(src), capacity, limit)
}

func transcode[D, S Unit](dst []D, capacity int, src []S, limit int) Count {
	var (
		n       Count
		scratch [4]D
	)
	for i := 0; i < len(src) && n.Chars < limit; {
		r, used, ok := decode(src[i:])
		if !ok {
			break
		}
		w := Encode(scratch[:], r)
		if n.Units+w > capacity {
			break
		}
		if dst != nil {
			copy(dst[n.Units:], scratch[:w])
		}
		n.Units += w
		n.Chars++
		i += used
	}
	return n
}

// bytesOf views s as a byte slice without copying. The result must not be
// modified.
func bytesOf(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
