package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/typefmt"
	"github.com/bjaus/typefmt/ext"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// --- Arguments ---

func TestParseArg(t *testing.T) {
	t.Parallel()
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	tests := map[string]struct {
		input   string
		want    typefmt.Value
		wantErr require.ErrorAssertionFunc
	}{
		"bare int":      {input: "42", want: typefmt.Int64(42), wantErr: require.NoError},
		"bare float":    {input: "2.5", want: typefmt.Float64(2.5), wantErr: require.NoError},
		"bare string":   {input: "hello", want: typefmt.String("hello"), wantErr: require.NoError},
		"unknown type":  {input: "http://x", want: typefmt.String("http://x"), wantErr: require.NoError},
		"i8":            {input: "i8:-5", want: typefmt.Int8(-5), wantErr: require.NoError},
		"i8 overflow":   {input: "i8:200", wantErr: require.Error},
		"u16 hex":       {input: "u16:0xff", want: typefmt.Uint16(255), wantErr: require.NoError},
		"u64":           {input: "u64:18446744073709551615", want: typefmt.Uint64(1<<64 - 1), wantErr: require.NoError},
		"negative uint": {input: "uint:-1", wantErr: require.Error},
		"f32":           {input: "f32:1.5", want: typefmt.Float32(1.5), wantErr: require.NoError},
		"char":          {input: "c:é", want: typefmt.Char('é'), wantErr: require.NoError},
		"two chars":     {input: "c:ab", wantErr: require.Error},
		"string colon":  {input: "s:a:b", want: typefmt.String("a:b"), wantErr: require.NoError},
		"null":          {input: "null:", want: typefmt.NullString(), wantErr: require.NoError},
		"pointer":       {input: "p:0x1000", want: typefmt.Address(0x1000), wantErr: require.NoError},
		"uuid":          {input: "uuid:" + id.String(), want: ext.UUID(id), wantErr: require.NoError},
		"bad uuid":      {input: "uuid:nope", wantErr: require.Error},
		"bytes":         {input: "bytes:1.5KiB", want: ext.ByteSize(1536), wantErr: require.NoError},
		"duration":      {input: "dur:1m30s", want: ext.Duration(90 * time.Second), wantErr: require.NoError},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := parseArg(tt.input)
			tt.wantErr(t, err)
			if err != nil {
				assert.ErrorIs(t, err, errBadArgument)
				return
			}
			assert.Equal(t, tt.want.Kind(), got.Kind())
			assert.Equal(t, tt.want.Flags(), got.Flags())
			assert.Equal(t, tt.want.Bits(), got.Bits())
			assert.Equal(t, tt.want.Text(), got.Text())
		})
	}
}

// --- render ---

func TestRender(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		args []string
		want string
	}{
		"printf":       {args: []string{"render", "%d-%s", "42", "s:x"}, want: "42-x\n"},
		"brace reuse":  {args: []string{"render", "{0:x} {0:d}", "i32:-1"}, want: "ffffffff -1\n"},
		"utf-16 width": {args: []string{"render", "--width", "16", "%-4c|%s", "c:é", "s:ok"}, want: "é   |ok\n"},
		"utf-32 width": {args: []string{"render", "--width", "32", "%5.1f", "f64:3.14159"}, want: "  3.1\n"},
		"no newline":   {args: []string{"render", "--newline=false", "{}", "7"}, want: "7"},
		"extensions":   {args: []string{"render", "{} {} {}", "bytes:1.5KiB", "dur:1m30s", "uuid:6ba7b810-9dad-11d1-80b4-00c04fd430c8"}, want: "1.5 KiB 1m30s 6ba7b810-9dad-11d1-80b4-00c04fd430c8\n"},
		"relaxed":      {args: []string{"render", "--relaxed", "{x} {}", "1"}, want: "{x} 1\n"},
		"pointer":      {args: []string{"render", "%p", "p:0x1f"}, want: "0x000000000000001f\n"},
		"columns":      {args: []string{"render", "--string-precision", "columns", "[%.3s]", "s:日本"}, want: "[日]\n"},
		"null policy":  {args: []string{"render", "--null-string", "all_or_nothing", "[%.3s]", "null:"}, want: "[]\n"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderEncoding(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		encoding string
		want     []byte
	}{
		"utf-8":    {encoding: "utf-8", want: []byte("é\n")},
		"utf-16le": {encoding: "utf-16le", want: []byte{0xe9, 0x00, '\n', 0x00}},
		"utf-16be": {encoding: "UTF-16BE", want: []byte{0x00, 0xe9, 0x00, '\n'}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := run(t, "render", "--encoding", tt.encoding, "{}", "s:é")
			require.NoError(t, err)
			assert.Equal(t, tt.want, []byte(got))
		})
	}
}

func TestRenderErrors(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		args   []string
		target error
	}{
		"type mismatch":  {args: []string{"render", "%d", "s:x"}, target: typefmt.ErrTypeMismatch},
		"pedantic":       {args: []string{"render", "--pedantic", "%--d", "1"}, target: typefmt.ErrDuplicateFlag},
		"strict braces":  {args: []string{"render", "--relaxed=false", "a}", "1"}, target: typefmt.ErrUnexpectedBrace},
		"bad argument":   {args: []string{"render", "%d", "i8:999"}, target: errBadArgument},
		"bad width":      {args: []string{"render", "--width", "12", "x"}, target: errBadFlag},
		"bad encoding":   {args: []string{"render", "--encoding", "latin1", "x"}, target: errBadFlag},
		"bad error mode": {args: []string{"render", "--error-mode", "loud", "x"}, target: nil},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			out, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Empty(t, out)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestRenderWriteString(t *testing.T) {
	t.Parallel()
	out, err := run(t, "render", "--error-mode", "write_string", "%d", "s:x")
	require.ErrorIs(t, err, typefmt.ErrTypeMismatch)
	assert.Equal(t, "TypeMismatch: type mismatch for print character 'd' at 1\n", out)
}

func TestRenderConfig(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "typefmt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("null_string: all_or_nothing\npedantic: true\n"), 0o600))

	out, err := run(t, "render", "[%.3s]", "null:")
	require.NoError(t, err)
	assert.Equal(t, "[(nu]\n", out)

	out, err = run(t, "render", "--config", path, "[%.3s]", "null:")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)

	_, err = run(t, "render", "--config", path, "%++d", "1")
	require.ErrorIs(t, err, typefmt.ErrDuplicateFlag)

	out, err = run(t, "render", "--config", path, "--pedantic=false", "%++d", "1")
	require.NoError(t, err)
	assert.Equal(t, "+1\n", out)
}

func TestRenderMissingConfig(t *testing.T) {
	t.Parallel()
	_, err := run(t, "render", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "x")
	require.Error(t, err)
}

// --- inspect ---

func TestInspect(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		args []string
		want []string
	}{
		"csv": {
			args: []string{"inspect", "-o", "csv", "%5d and %-.2s", "7", "s:abc"},
			want: []string{
				"ARG,SPAN,SOURCE,VERB,KIND,FLAGS,WIDTH,PRECISION,MAX\n",
				"0,0..3,%5d,d,int64,,5,-,",
				"1,8..13,%-.2s,s,string,-,0,2,2\n",
			},
		},
		"table title": {
			args: []string{"inspect", "{1} {0}", "1", "s:x"},
			want: []string{`"{1} {0}" needs`, "│ ARG │", "string"},
		},
		"json": {
			args: []string{"inspect", "-o", "json", "{}", "1"},
			want: []string{`"template": "{}"`, `"required":`, `"verb": "d"`},
		},
		"yaml": {
			args: []string{"inspect", "-o", "yaml", "%x", "u8:1"},
			want: []string{"verb: x", "kind: int8"},
		},
		"jsonl": {
			args: []string{"inspect", "-o", "jsonl", "%d %d", "1", "2"},
			want: []string{`"arg":0`, `"arg":1`},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestInspectErrors(t *testing.T) {
	t.Parallel()
	_, err := run(t, "inspect", "%d {0}", "1")
	require.ErrorIs(t, err, typefmt.ErrInconsistentPrintType)

	_, err = run(t, "inspect", "-o", "xml", "{}", "1")
	require.Error(t, err)
}

// --- codes ---

func TestCodes(t *testing.T) {
	t.Parallel()
	out, err := run(t, "codes", "-o", "plain")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, len(typefmt.Codes()))
	assert.Equal(t, "NotEnoughSpace", lines[0])
	assert.Equal(t, "UnsupportedType", lines[len(lines)-1])

	out, err = run(t, "codes", "-o", "csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "RESULT,NAME,MESSAGE\n-1,NotEnoughSpace,"))
}
