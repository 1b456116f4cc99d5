package typefmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerbIndex(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, verbIndex('a'))
	assert.Equal(t, 25, verbIndex('z'))
	assert.Equal(t, 26, verbIndex('A'))
	assert.Equal(t, 51, verbIndex('Z'))

	seen := make(map[int]byte)
	for c := byte('A'); c <= 'z'; c++ {
		if !isLetter(c) {
			continue
		}
		i := verbIndex(c)
		require.GreaterOrEqual(t, i, 0)
		require.Less(t, i, 52)
		_, dup := seen[i]
		require.False(t, dup, "%q collides with %q", c, seen[i])
		seen[i] = c
	}
	assert.Len(t, seen, 52)
}

func TestLengthModifier(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		text string
		verb byte
		used int
	}{
		"plain":        {text: "d", verb: 'd', used: 1},
		"long":         {text: "ld", verb: 'd', used: 2},
		"long long":    {text: "llu", verb: 'u', used: 3},
		"short short":  {text: "hhx", verb: 'x', used: 3},
		"wide string":  {text: "ls", verb: 's', used: 2},
		"long double":  {text: "Lf", verb: 'f', used: 2},
		"long float":   {text: "lf", verb: 'f', used: 2},
		"size":         {text: "zu", verb: 'u', used: 2},
		"intmax":       {text: "jd", verb: 'd', used: 2},
		"ptrdiff":      {text: "td", verb: 'd', used: 2},
		"windows 64":   {text: "I64d", verb: 'd', used: 4},
		"windows 32":   {text: "I32x", verb: 'x', used: 4},
		"windows size": {text: "Id", verb: 'd', used: 2},
		"windows wide": {text: "ws", verb: 's', used: 2},
		"no verb":      {text: "l", verb: 'l', used: 1},
		"short float":  {text: "hf", verb: 'h', used: 1},
		"double short": {text: "hhs", verb: 'h', used: 1},
		"bare I":       {text: "I", verb: 'I', used: 1},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			verb, used := lengthModifier([]byte(tt.text), 0)
			assert.Equal(t, tt.verb, verb)
			assert.Equal(t, tt.used, used)

			wide := []rune(tt.text)
			verb, used = lengthModifier(wide, 0)
			assert.Equal(t, tt.verb, verb)
			assert.Equal(t, tt.used, used)
		})
	}
}

func TestCopyLiteral(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		src  string
		want string
	}{
		"plain":    {src: "abc", want: "abc"},
		"percent":  {src: "100%%", want: "100%"},
		"braces":   {src: "{{x}}", want: "{x}"},
		"single":   {src: "a}b{c", want: "a}b{c"},
		"triple":   {src: "%%%", want: "%%"},
		"mixed":    {src: "%{", want: "%{"},
		"empty":    {src: "", want: ""},
		"adjacent": {src: "{{}}%%", want: "{}%"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			dst := make([]byte, len(tt.src))
			n := copyLiteral(dst, []byte(tt.src))
			assert.Equal(t, tt.want, string(dst[:n]))
		})
	}
}

func TestPackText(t *testing.T) {
	t.Parallel()
	n, shown := unpackText(packText(7, 12))
	assert.Equal(t, 7, n)
	assert.Equal(t, 12, shown)

	n, shown = unpackText(packText(1<<31, 0))
	assert.Equal(t, 1<<31, n)
	assert.Zero(t, shown)
}

func TestPrintFlagsString(t *testing.T) {
	t.Parallel()
	assert.Empty(t, PrintFlags(0).String())
	assert.Equal(t, "#-", (PrintPrefix | PrintLeft).String())
	assert.Equal(t, "+ 0.", (PrintSign | PrintBlank | PrintZero | PrintPrecision).String())
}

func TestStatePool(t *testing.T) {
	t.Parallel()
	f := New()
	s := acquire(f, Make("%d %s", Int(1), String("x")))
	need, ferr := s.prepare()
	require.Nil(t, ferr)
	assert.Equal(t, 2, s.n)
	assert.Positive(t, need)
	assert.Equal(t, modeAuto, s.mode)
	release(s)

	again := acquire(f, Make("plain"))
	defer release(again)
	assert.Zero(t, again.n)
	assert.Equal(t, modeNone, again.mode)
}

func TestAlignUp(t *testing.T) {
	t.Parallel()
	assert.Zero(t, alignUp(0))
	assert.Equal(t, 8, alignUp(1))
	assert.Equal(t, 8, alignUp(8))
	assert.Equal(t, 16, alignUp(9))
}

func TestKindMax(t *testing.T) {
	t.Parallel()
	assert.Equal(t, uint64(0xFF), kindMax(Kind8))
	assert.Equal(t, uint64(0xFFFF), kindMax(Kind16))
	assert.Equal(t, uint64(1<<64-1), kindMax(Kind64))
}
