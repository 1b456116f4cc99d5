package typefmt_test

import (
	"strconv"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/bjaus/typefmt"
)

// --- Properties ---

func TestIntegerProperties(t *testing.T) {
	t.Parallel()
	f := silent()
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 300
	properties := gopter.NewProperties(params)

	properties.Property("%d matches strconv", prop.ForAll(
		func(n int64) bool {
			got, err := f.Sprintf("%d", n)
			return err == nil && got == strconv.FormatInt(n, 10)
		},
		gen.Int64(),
	))
	properties.Property("%x matches strconv", prop.ForAll(
		func(n uint64) bool {
			got, err := f.Sprintf("%x", n)
			return err == nil && got == strconv.FormatUint(n, 16)
		},
		gen.UInt64(),
	))
	properties.Property("width pads to at least width", prop.ForAll(
		func(n int32, width int) bool {
			got, err := f.Sprintf("%*d", width, n)
			want := strconv.FormatInt(int64(n), 10)
			return err == nil && len(got) == max(width, len(want)) && strings.TrimLeft(got, " ") == want
		},
		gen.Int32(),
		gen.IntRange(0, 40),
	))

	properties.TestingRun(t)
}

func TestMeasureProperty(t *testing.T) {
	t.Parallel()
	f := silent()
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("measure covers the rendering", prop.ForAll(
		func(width int, n int64, s string, x float64) bool {
			tmpl := typefmt.Make("%*d|%s|%.3e", typefmt.Int(width), typefmt.Int64(n), typefmt.String(s), typefmt.Float64(x))
			need, err := f.Measure(tmpl)
			if err != nil {
				return false
			}
			buf := make([]byte, need)
			written, err := f.Format(buf, 0, nil, tmpl)
			return err == nil && written < need && buf[written] == 0
		},
		gen.IntRange(-30, 30),
		gen.Int64(),
		gen.AnyString(),
		gen.Float64(),
	))

	properties.TestingRun(t)
}

func TestStringPrecisionProperty(t *testing.T) {
	t.Parallel()
	f := silent()
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("%.*s keeps a prefix", prop.ForAll(
		func(s string, p int) bool {
			got, err := f.Sprintf("%.*s", p, s)
			return err == nil && got == s[:min(p, len(s))]
		},
		gen.AlphaString(),
		gen.IntRange(0, 20),
	))
	properties.Property("utf-16 output round trips", prop.ForAll(
		func(s string) bool {
			buf := make([]uint16, 2*len(s)+1)
			n, err := f.FormatUTF16(buf, 0, nil, typefmt.Make16([]uint16{'{', '}'}, typefmt.String(s)))
			return err == nil && string(utf16.Decode(buf[:n])) == s
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
