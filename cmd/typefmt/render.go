package main

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"

	"github.com/bjaus/typefmt"
	"github.com/bjaus/typefmt/utf"
)

var errBadFlag = errors.New("bad flag")

var encodings = map[string]encoding.Encoding{
	"utf-8":    unicode.UTF8,
	"utf-16le": unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"utf-16be": unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
}

type renderFlags struct {
	width    int
	encoding string
	newline  bool
}

func newRenderCmd(s *settings) *cobra.Command {
	rf := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render TEMPLATE [ARG...]",
		Short: "render a template",
		Long: `
  Renders TEMPLATE with the given arguments. An argument is either
  TYPE:VALUE, where TYPE is one of
    ` + strings.Join(argTypes, " ") + `
  or a bare value, read as an integer, a float or a string.
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, s, rf, args)
		},
	}
	f := cmd.Flags()
	f.IntVar(&rf.width, "width", 8, "code unit width used while formatting: 8, 16 or 32")
	f.StringVar(&rf.encoding, "encoding", "utf-8", "output encoding: utf-8, utf-16le or utf-16be")
	f.BoolVar(&rf.newline, "newline", true, "end the output with a newline")
	return cmd
}

func runRender(cmd *cobra.Command, s *settings, rf *renderFlags, args []string) error {
	enc, ok := encodings[strings.ToLower(rf.encoding)]
	if !ok {
		return errors.Wrapf(errBadFlag, "--encoding %q", rf.encoding)
	}
	f, err := s.formatter(cmd)
	if err != nil {
		return err
	}
	values, err := parseArgs(args[1:])
	if err != nil {
		return err
	}

	var out []byte
	switch rf.width {
	case 8:
		out, err = renderUnits(args[0], values, f.Format)
	case 16:
		out, err = renderUnits(args[0], values, f.FormatUTF16)
	case 32:
		out, err = renderUnits(args[0], values, f.FormatUTF32)
	default:
		return errors.Wrapf(errBadFlag, "--width %d", rf.width)
	}
	// In write_string mode a failed render still produces the message.
	if len(out) == 0 && err != nil {
		return err
	}
	if rf.newline {
		out = append(out, '\n')
	}
	encoded, encErr := enc.NewEncoder().Bytes(out)
	if encErr != nil {
		return errors.Wrap(encErr, "encode output")
	}
	if _, werr := cmd.OutOrStdout().Write(encoded); werr != nil {
		return errors.Wrap(werr, "write output")
	}
	return err
}

// renderUnits formats text at the unit width C and returns the result as
// UTF-8. After a failure it returns whatever message the error mode left
// in the buffer.
func renderUnits[C typefmt.Unit](
	text string,
	values []typefmt.Value,
	format func([]C, int, typefmt.GrowFunc[C], typefmt.Template[C]) (int, error),
) ([]byte, error) {
	src := make([]C, utf.MeasureString[C](text, utf.NoLimit, utf.NoLimit).Units)
	utf.TranscodeString(src, text, utf.NoLimit)

	var buf []C
	n, err := format(nil, 0, typefmt.Grow(&buf), typefmt.Template[C]{Text: src, Args: values})
	if err != nil {
		n = max(slices.Index(buf, 0), 0)
	}
	out := make([]byte, utf.Measure[byte](buf[:n], utf.NoLimit, utf.NoLimit).Units)
	utf.Transcode(out, buf[:n], utf.NoLimit)
	return out, err
}
