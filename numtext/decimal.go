package numtext

import "math"

// decimalDigits holds every significant digit of a float64: the smallest
// subnormal mantissas expand to fewer than 770 digits.
const decimalDigits = 800

// maxShift is the largest binary shift applied in one step; a digit shifted
// by it still fits a uint64 alongside the running carry.
const maxShift = 60

// decimal is an exact multiprecision decimal: the digits d[:nd] with the
// decimal point dp digits from the left. Digits that did not fit are
// recorded in trunc so rounding still sees them.
type decimal struct {
	d     [decimalDigits]byte
	nd    int
	dp    int
	trunc bool
}

// set loads the absolute value of v, which must be finite.
func (a *decimal) set(v float64) {
	bits := math.Float64bits(v)
	exp := int(bits>>52) & 0x7FF
	mant := bits & (1<<52 - 1)
	if exp == 0 {
		exp = 1
	} else {
		mant |= 1 << 52
	}
	a.assign(mant)
	a.shift(exp - 1075)
}

func (a *decimal) assign(v uint64) {
	var buf [20]byte
	n := 0
	for ; v > 0; v /= 10 {
		buf[n] = byte('0' + v%10)
		n++
	}
	a.nd, a.dp, a.trunc = n, n, false
	for i := range n {
		a.d[i] = buf[n-1-i]
	}
	a.trim()
}

// shift multiplies the value by 2^k.
func (a *decimal) shift(k int) {
	if a.nd == 0 {
		return
	}
	for ; k > maxShift; k -= maxShift {
		a.leftShift(maxShift)
	}
	if k > 0 {
		a.leftShift(uint(k))
	}
	for ; k < -maxShift; k += maxShift {
		a.rightShift(maxShift)
	}
	if k < 0 {
		a.rightShift(uint(-k))
	}
}

func (a *decimal) leftShift(k uint) {
	// Over-estimates the digits gained; leading zeros are dropped below.
	delta := int(k)*31/100 + 1
	end := a.nd + delta
	w := end
	var n uint64
	put := func(rem uint64) {
		w--
		if w < len(a.d) {
			a.d[w] = byte('0' + rem)
		} else if rem != 0 {
			a.trunc = true
		}
	}
	for r := a.nd - 1; r >= 0; r-- {
		n += uint64(a.d[r]-'0') << k
		put(n % 10)
		n /= 10
	}
	for ; n > 0; n /= 10 {
		put(n % 10)
	}
	a.dp += end - w - a.nd
	end = min(end, len(a.d))
	a.nd = copy(a.d[:], a.d[w:end])
	a.trim()
}

func (a *decimal) rightShift(k uint) {
	r, w := 0, 0
	var n uint64
	for ; n>>k == 0; r++ {
		if r >= a.nd {
			if n == 0 {
				a.nd, a.dp = 0, 0
				return
			}
			for n>>k == 0 {
				n *= 10
				r++
			}
			break
		}
		n = n*10 + uint64(a.d[r]-'0')
	}
	a.dp -= r - 1

	mask := uint64(1)<<k - 1
	for ; r < a.nd; r++ {
		c := uint64(a.d[r] - '0')
		a.d[w] = byte('0' + n>>k)
		w++
		n = (n&mask)*10 + c
	}
	for n > 0 {
		dig := n >> k
		n &= mask
		if w < len(a.d) {
			a.d[w] = byte('0' + dig)
			w++
		} else if dig > 0 {
			a.trunc = true
		}
		n *= 10
	}
	a.nd = w
	a.trim()
}

func (a *decimal) trim() {
	for a.nd > 0 && a.d[a.nd-1] == '0' {
		a.nd--
	}
	if a.nd == 0 {
		a.dp = 0
	}
}

// digit returns digit i, counting from the leftmost; positions outside the
// stored digits are zero.
func (a *decimal) digit(i int) byte {
	if i < 0 || i >= a.nd {
		return '0'
	}
	return a.d[i]
}

// round keeps nd digits, rounding half to even.
func (a *decimal) round(nd int) {
	if nd < 0 || nd >= a.nd {
		return
	}
	if a.roundsUp(nd) {
		a.roundUp(nd)
		return
	}
	a.nd = nd
	a.trim()
}

func (a *decimal) roundsUp(nd int) bool {
	if a.d[nd] == '5' && nd+1 == a.nd {
		if a.trunc {
			return true
		}
		return nd > 0 && (a.d[nd-1]-'0')%2 == 1
	}
	return a.d[nd] >= '5'
}

// roundUp adds one at digit nd-1, carrying through nines. A carry out of
// the leading digit adds a digit before the point.
func (a *decimal) roundUp(nd int) {
	i := nd - 1
	for i >= 0 && a.d[i] == '9' {
		i--
	}
	if i < 0 {
		a.d[0] = '1'
		a.nd = 1
		a.dp++
		return
	}
	a.d[i]++
	a.nd = i + 1
}
