// Package numtext converts integers and floating-point numbers to text
// without allocating. Digits are produced into caller-owned fixed buffers
// and returned as views.
package numtext

import (
	"github.com/cockroachdb/errors"
)

// BufferSize holds the binary digits of a 64-bit value plus a sign.
const BufferSize = 65

// Buffer is scratch storage for integer conversion.
type Buffer [BufferSize]byte

const (
	lowerDigits = "0123456789abcdefghijklmnopqrstuvwxyz"
	upperDigits = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	pairs = "00010203040506070809" +
		"10111213141516171819" +
		"20212223242526272829" +
		"30313233343536373839" +
		"40414243444546474849" +
		"50515253545556575859" +
		"60616263646566676869" +
		"70717273747576777879" +
		"80818283848586878889" +
		"90919293949596979899"
)

// Uint writes v in the given radix into the tail of buf and returns the
// written digits. Radix must be in [2, 36]; upper selects the digit case
// for radices above 10.
func Uint(buf *Buffer, v uint64, radix int, upper bool) []byte {
	if radix < 2 || radix > 36 {
		panic(errors.AssertionFailedf("numtext: radix %d out of range", radix))
	}
	i := len(buf)
	if v == 0 {
		i--
		buf[i] = '0'
		return buf[i:]
	}
	digits := lowerDigits
	if upper {
		digits = upperDigits
	}
	switch radix {
	case 10:
		for v >= 100 {
			q := v / 100
			j := (v - q*100) * 2
			i -= 2
			buf[i], buf[i+1] = pairs[j], pairs[j+1]
			v = q
		}
		if v >= 10 {
			i -= 2
			buf[i], buf[i+1] = pairs[v*2], pairs[v*2+1]
		} else {
			i--
			buf[i] = byte('0' + v)
		}
	case 2, 4, 8, 16, 32:
		shift := uint(0)
		for r := radix; r > 1; r >>= 1 {
			shift++
		}
		mask := uint64(radix - 1)
		for ; v != 0; v >>= shift {
			i--
			buf[i] = digits[v&mask]
		}
	default:
		r := uint64(radix)
		for ; v != 0; v /= r {
			i--
			buf[i] = digits[v%r]
		}
	}
	return buf[i:]
}

// Int writes v in the given radix, prefixing a '-' when v is negative.
func Int(buf *Buffer, v int64, radix int, upper bool) []byte {
	if v >= 0 {
		return Uint(buf, uint64(v), radix, upper)
	}
	s := Uint(buf, -uint64(v), radix, upper)
	i := len(buf) - len(s) - 1
	buf[i] = '-'
	return buf[i:]
}

// DigitCount returns the number of digits Uint would produce for v.
func DigitCount(v uint64, radix int) int {
	if v == 0 {
		return 1
	}
	n := 0
	for r := uint64(radix); v != 0; v /= r {
		n++
	}
	return n
}
