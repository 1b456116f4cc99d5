package typefmt_test

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bjaus/typefmt"
)

// --- Codes ---

func TestCodes(t *testing.T) {
	t.Parallel()
	codes := typefmt.Codes()
	require.Len(t, codes, 19)
	for i, c := range codes {
		assert.Equal(t, -(i + 1), c.Result(), c.String())
		assert.NotEmpty(t, c.Message())
		assert.Equal(t, "typefmt: "+c.String(), c.Error())
	}
	assert.Equal(t, "NotEnoughSpace", typefmt.ErrNotEnoughSpace.String())
	assert.Equal(t, "UnsupportedType", typefmt.ErrUnsupportedType.String())
	assert.Equal(t, "Unknown", typefmt.Code(200).String())
}

func TestFormatErrors(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		opts []typefmt.Option
		text string
		args []typefmt.Value
		code typefmt.Code
		info uint64
		loc  uint64
	}{
		"too many inputs": {
			text: "x", args: make([]typefmt.Value, 33),
			code: typefmt.ErrTooManyInputs, info: 33,
		},
		"too many prints": {
			opts: []typefmt.Option{typefmt.WithOptions(typefmt.Options{MaxArgs: 2})},
			text: "%d%d%d", args: []typefmt.Value{typefmt.Int(1), typefmt.Int(2)},
			code: typefmt.ErrTooManyPrints, info: 2, loc: 4,
		},
		"inconsistent print type": {
			text: "%d {0}", args: []typefmt.Value{typefmt.Int(1)},
			code: typefmt.ErrInconsistentPrintType, info: 1, loc: 3,
		},
		"explicit then auto": {
			text: "{0} {}", args: []typefmt.Value{typefmt.Int(1), typefmt.Int(2)},
			code: typefmt.ErrInconsistentPrintType, info: 2, loc: 4,
		},
		"trailing percent": {
			text: "abc%", code: typefmt.ErrUnexpectedEnd, loc: 4,
		},
		"unterminated directive": {
			text: "%5", args: []typefmt.Value{typefmt.Int(1)},
			code: typefmt.ErrUnexpectedEnd, loc: 2,
		},
		"unterminated brace": {
			text: "{0", args: []typefmt.Value{typefmt.Int(1)},
			code: typefmt.ErrUnexpectedEnd, loc: 2,
		},
		"duplicate flag": {
			opts: []typefmt.Option{typefmt.WithPedantic(true)},
			text: "%--d", args: []typefmt.Value{typefmt.Int(1)},
			code: typefmt.ErrDuplicateFlag, info: '-', loc: 2,
		},
		"duplicate dot": {
			opts: []typefmt.Option{typefmt.WithPedantic(true)},
			text: "%.2.3d", args: []typefmt.Value{typefmt.Int(1)},
			code: typefmt.ErrDuplicateFlag, info: '.', loc: 3,
		},
		"flag after width": {
			opts: []typefmt.Option{typefmt.WithPedantic(true)},
			text: "%5-d", args: []typefmt.Value{typefmt.Int(1)},
			code: typefmt.ErrFlagPosition, info: '-', loc: 2,
		},
		"invalid print character": {
			text: "%!", args: []typefmt.Value{typefmt.Int(1)},
			code: typefmt.ErrInvalidPrintCharacter, info: '!', loc: 1,
		},
		"percent then brace": {
			text: "%{", code: typefmt.ErrInvalidPrintCharacter, info: '{', loc: 1,
		},
		"brace verb not a letter": {
			text: "{:3}", args: []typefmt.Value{typefmt.Int(1)},
			code: typefmt.ErrInvalidPrintCharacter, info: '3', loc: 2,
		},
		"type mismatch": {
			text: "%d", args: []typefmt.Value{typefmt.String("x")},
			code: typefmt.ErrTypeMismatch, info: 'd', loc: 1,
		},
		"unregistered": {
			text: "ab%k", args: []typefmt.Value{typefmt.Int(1)},
			code: typefmt.ErrUnregisteredChar, info: 'k', loc: 3,
		},
		"wildcard type": {
			text: "%*d", args: []typefmt.Value{typefmt.String("x"), typefmt.Int(1)},
			code: typefmt.ErrWildcardType, loc: 1,
		},
		"wildcard without value": {
			text: "%*d", args: []typefmt.Value{typefmt.Int(1)},
			code: typefmt.ErrIndexOutOfRange, info: 1, loc: 1,
		},
		"duplicate wildcard": {
			text: "%5*d", args: []typefmt.Value{typefmt.Int(1), typefmt.Int(2)},
			code: typefmt.ErrDuplicateWildcard, loc: 2,
		},
		"digits after wildcard": {
			text: "%*5d", args: []typefmt.Value{typefmt.Int(1), typefmt.Int(2)},
			code: typefmt.ErrDuplicateWildcard, loc: 2,
		},
		"stray closing brace": {
			text: "a}b", code: typefmt.ErrUnexpectedBrace, loc: 1,
		},
		"signed index": {
			text: "{-1}", args: []typefmt.Value{typefmt.Int(1)},
			code: typefmt.ErrExpectedIndex, info: '-', loc: 1,
		},
		"printf index out of range": {
			text: "%d %d", args: []typefmt.Value{typefmt.Int(1)},
			code: typefmt.ErrIndexOutOfRange, info: 1, loc: 3,
		},
		"brace index out of range": {
			text: "-{3}", args: []typefmt.Value{typefmt.Int(1)},
			code: typefmt.ErrIndexOutOfRange, info: 3, loc: 1,
		},
		"missing width": {
			text: "{,x}", args: []typefmt.Value{typefmt.Int(1)},
			code: typefmt.ErrExpectedWidth, loc: 2,
		},
		"width too large": {
			text: "%70000d", args: []typefmt.Value{typefmt.Int(1)},
			code: typefmt.ErrExpectedWidth, info: 70000, loc: 5,
		},
		"missing closing brace": {
			text: "{0x}", args: []typefmt.Value{typefmt.Int(1)},
			code: typefmt.ErrExpectedClosingBrace, info: 'x', loc: 2,
		},
		"unsupported type": {
			text: "{}", args: []typefmt.Value{typefmt.Tag(struct{}{})},
			code: typefmt.ErrUnsupportedType,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			f := silent(append(tt.opts, typefmt.WithRelaxed(typefmt.Off))...)
			buf := []byte("untouched")
			n, err := f.Format(buf, 0, nil, typefmt.Make(tt.text, tt.args...))
			require.ErrorIs(t, err, tt.code)
			assert.Equal(t, tt.code.Result(), n)
			assert.Zero(t, buf[0])

			var ferr *typefmt.FormatError
			require.ErrorAs(t, err, &ferr)
			assert.Equal(t, tt.code, ferr.Code)
			assert.Equal(t, tt.info, ferr.Info, "info")
			assert.Equal(t, tt.loc, ferr.Location, "location")
		})
	}
}

func TestFormatErrorMessage(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		err  *typefmt.FormatError
		want string
	}{
		"character": {
			err:  &typefmt.FormatError{Code: typefmt.ErrTypeMismatch, Info: 'd', Location: 1},
			want: "TypeMismatch: type mismatch for print character 'd' at 1",
		},
		"sizes": {
			err:  &typefmt.FormatError{Code: typefmt.ErrNotEnoughSpace, Info: 23, Location: 22},
			want: "NotEnoughSpace: 22 units was not enough space, 23 required",
		},
		"escaped braces": {
			err:  &typefmt.FormatError{Code: typefmt.ErrUnexpectedBrace, Location: 4},
			want: "UnexpectedBrace: unexpected '}' at 4, did you forget to double it?",
		},
		"hex kind": {
			err:  &typefmt.FormatError{Code: typefmt.ErrUnsupportedType, Info: 0x100, Location: 0},
			want: "UnsupportedType: unsupported kind 100 at 0",
		},
		"unknown code": {
			err:  &typefmt.FormatError{Code: 99, Info: 1, Location: 2},
			want: "Unknown: 1 at 2",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

// --- Error modes ---

func TestAbortMode(t *testing.T) {
	t.Parallel()
	f := typefmt.New(typefmt.WithErrorMode(typefmt.Abort), typefmt.WithLogger(zap.NewNop()))

	var recovered any
	func() {
		defer func() { recovered = recover() }()
		_, _ = f.Sprintf("%d", "x")
	}()
	require.NotNil(t, recovered)
	err, ok := recovered.(error)
	require.True(t, ok, "panic value %T", recovered)
	assert.True(t, errors.HasAssertionFailure(err))
	assert.Contains(t, err.Error(), "TypeMismatch: type mismatch for print character 'd' at 1")

	got, err := f.Sprintf("%d", 1)
	require.NoError(t, err)
	assert.Equal(t, "1", got)
}

// Not parallel: the hook holds the process-wide abort guard.
func TestAbortInsideReport(t *testing.T) {
	inner := typefmt.New(typefmt.WithErrorMode(typefmt.Abort), typefmt.WithLogger(zap.NewNop()))
	var nested []error
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core, zap.Hooks(func(e zapcore.Entry) error {
		if e.Level == zapcore.ErrorLevel {
			_, err := inner.Sprintf("%d", "x")
			nested = append(nested, err)
		}
		return nil
	}))
	outer := typefmt.New(typefmt.WithErrorMode(typefmt.Abort), typefmt.WithLogger(log))

	require.Panics(t, func() { _, _ = outer.Sprintf("%d", "x") })
	require.Len(t, nested, 1)
	assert.ErrorIs(t, nested[0], typefmt.ErrTypeMismatch)

	require.Panics(t, func() { _, _ = outer.Sprintf("%s", 1) }, "guard released after the first abort")
	require.Panics(t, func() { _, _ = inner.Sprintf("%d", "x") })
	assert.Equal(t, 2, logs.FilterMessage("format aborted").Len())
}

func TestWriteStringMode(t *testing.T) {
	t.Parallel()
	f := typefmt.New(typefmt.WithErrorMode(typefmt.WriteString))

	t.Run("fits", func(t *testing.T) {
		t.Parallel()
		buf := make([]byte, 128)
		copy(buf, ">> ")
		n, err := f.Format(buf, 3, nil, typefmt.Make("%d", typefmt.String("x")))
		require.ErrorIs(t, err, typefmt.ErrTypeMismatch)
		assert.Equal(t, typefmt.ErrTypeMismatch.Result(), n)
		end := bytesIndexZero(buf)
		assert.Equal(t, ">> TypeMismatch: type mismatch for print character 'd' at 1", string(buf[:end]))
	})

	t.Run("grows for the message", func(t *testing.T) {
		t.Parallel()
		var buf []byte
		_, err := f.Format(nil, 0, typefmt.Grow(&buf), typefmt.Make("}"))
		require.ErrorIs(t, err, typefmt.ErrUnexpectedBrace)
		assert.Equal(t, "UnexpectedBrace: unexpected '}' at 0, did you forget to double it?", string(buf[:bytesIndexZero(buf)]))
	})

	t.Run("truncated", func(t *testing.T) {
		t.Parallel()
		buf := make([]byte, 8)
		_, err := f.Format(buf, 0, nil, typefmt.Make("}"))
		require.ErrorIs(t, err, typefmt.ErrUnexpectedBrace)
		assert.Equal(t, "Unexpec", string(buf[:7]))
		assert.Zero(t, buf[7])
	})
}

func bytesIndexZero(b []byte) int {
	for i, c := range b {
		if c == 0 {
			return i
		}
	}
	return len(b)
}

func TestLocalErrorMode(t *testing.T) {
	t.Parallel()
	f := typefmt.New()
	assert.Equal(t, typefmt.Silent, f.ErrorMode())

	restore := f.SetLocalErrorMode(typefmt.WriteString)
	assert.Equal(t, typefmt.WriteString, f.ErrorMode())
	assert.Panics(t, func() { f.SetLocalErrorMode(typefmt.Abort) })

	buf := make([]byte, 96)
	_, err := f.Format(buf, 0, nil, typefmt.Make("%d", typefmt.String("x")))
	require.Error(t, err)
	assert.NotZero(t, buf[0])

	restore()
	assert.Equal(t, typefmt.Silent, f.ErrorMode())
	again := f.SetLocalErrorMode(typefmt.Abort)
	again()
}

// Global state is changed here, so this test must not run in parallel.
func TestGlobalSettings(t *testing.T) {
	defer typefmt.SetGlobalErrorMode(typefmt.UseGlobal)
	defer typefmt.SetGlobalRelaxed(false)

	f := typefmt.New()
	typefmt.SetGlobalErrorMode(typefmt.WriteString)
	assert.Equal(t, typefmt.WriteString, typefmt.GlobalErrorMode())
	assert.Equal(t, typefmt.WriteString, f.ErrorMode())

	local := typefmt.New(typefmt.WithErrorMode(typefmt.Silent))
	assert.Equal(t, typefmt.Silent, local.ErrorMode())

	typefmt.SetGlobalErrorMode(typefmt.UseGlobal)
	assert.Equal(t, typefmt.Silent, typefmt.GlobalErrorMode())

	assert.False(t, f.Relaxed())
	typefmt.SetGlobalRelaxed(true)
	assert.True(t, typefmt.GlobalRelaxed())
	assert.True(t, f.Relaxed())
	assert.False(t, typefmt.New(typefmt.WithRelaxed(typefmt.Off)).Relaxed())

	got, err := f.Sprintf("{x}{}", 1)
	require.NoError(t, err)
	assert.Equal(t, "{x}1", got)
}

// --- Relaxed braces ---

func TestRelaxed(t *testing.T) {
	t.Parallel()
	runCases(t, silent(typefmt.WithRelaxed(typefmt.On)), map[string]formatCase{
		"stray closing":        {text: "a}b", want: "a}b"},
		"trailing open":        {text: "x{", want: "x{"},
		"bad directive":        {text: "{x} {}", args: []any{1}, want: "{x} 1"},
		"signed index":         {text: "{-1}", args: []any{1}, want: "{-1}"},
		"missing width":        {text: "{,} {}", args: []any{1}, want: "{,} 1"},
		"far index":            {text: "{6} {0}", args: []any{1}, want: "{6} 1"},
		"unclosed":             {text: "{0", args: []any{1}, want: "{0"},
		"open before escape":   {text: "{{{}", args: []any{1}, want: "{1"},
		"brace before percent": {text: "{%d", args: []any{1}, want: "{1"},
		"escapes still work":   {text: "{{}}", want: "{}"},
		"json-like":            {text: `{"k": {}}`, args: []any{1}, want: `{"k": 1}`},
	})

	f := silent(typefmt.WithRelaxed(typefmt.On))
	tests := map[string]struct {
		text string
		code typefmt.Code
	}{
		"near index":     {text: "{5}", code: typefmt.ErrIndexOutOfRange},
		"mixed dialects": {text: "%d {0}", code: typefmt.ErrInconsistentPrintType},
		"type mismatch":  {text: "{:s}", code: typefmt.ErrTypeMismatch},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := f.Sprintf(tt.text, 1)
			require.ErrorIs(t, err, tt.code)
		})
	}
}

func TestLocalRelaxed(t *testing.T) {
	t.Parallel()
	f := silent(typefmt.WithRelaxed(typefmt.Off))
	_, err := f.Sprintf("a}")
	require.ErrorIs(t, err, typefmt.ErrUnexpectedBrace)

	restore := f.SetLocalRelaxed(true)
	got, err := f.Sprintf("a}")
	require.NoError(t, err)
	assert.Equal(t, "a}", got)

	restore()
	assert.False(t, f.Relaxed())
}

func ExampleFormatter_Sprintf() {
	f := typefmt.New()
	s, err := f.Sprintf("{0}/{1:x} and {0,6:s2}|", "abc", 255)
	fmt.Println(s, err)
	// Output: abc/ff and     ab| <nil>
}
