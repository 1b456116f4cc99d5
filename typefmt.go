package typefmt

import (
	"io"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/bjaus/typefmt/utf"
)

// Unit is a code unit of the output: byte for UTF-8, uint16 for UTF-16
// and rune for UTF-32.
type Unit interface {
	byte | uint16 | rune
}

// Template is a format string and the arguments it refers to.
type Template[C Unit] struct {
	Text []C
	Args []Value
}

// Make builds a UTF-8 template over text without copying it. The template
// text must not be modified.
func Make(text string, args ...Value) Template[byte] {
	return Template[byte]{Text: bytesOf(text), Args: args}
}

// MakeBytes builds a UTF-8 template over text.
func MakeBytes(text []byte, args ...Value) Template[byte] {
	return Template[byte]{Text: text, Args: args}
}

// Make16 builds a UTF-16 template.
func Make16(text []uint16, args ...Value) Template[uint16] {
	return Template[uint16]{Text: text, Args: args}
}

// Make32 builds a UTF-32 template.
func Make32(text []rune, args ...Value) Template[rune] {
	return Template[rune]{Text: text, Args: args}
}

// GrowFunc replaces a buffer that is too short with one of at least size
// units whose first units hold the old contents. It is called at most once
// per format call. A result shorter than size is an allocation failure.
type GrowFunc[C Unit] func(old []C, size int) []C

// Grow returns a GrowFunc that allocates a new buffer and stores it in
// *dst so the caller can pick it up after formatting.
func Grow[C Unit](dst *[]C) GrowFunc[C] {
	return func(old []C, size int) []C {
		nb := make([]C, size, max(size, 2*cap(old)))
		copy(nb, old)
		*dst = nb
		return nb
	}
}

// Formatter formats templates against a registry with a set of options.
// A Formatter may be shared between goroutines as long as its local
// overrides are not changed concurrently.
type Formatter struct {
	reg  *Registry
	opts Options
	log  *zap.Logger
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithRegistry selects the registry used to resolve print characters.
func WithRegistry(r *Registry) Option {
	return func(f *Formatter) { f.reg = r }
}

// WithOptions replaces the formatter's options.
func WithOptions(o Options) Option {
	return func(f *Formatter) { f.opts = o }
}

// WithLogger gives the formatter its own logger.
func WithLogger(l *zap.Logger) Option {
	return func(f *Formatter) { f.log = l }
}

// WithErrorMode sets the formatter's local error mode.
func WithErrorMode(m ErrorMode) Option {
	return func(f *Formatter) { f.opts.ErrorMode = m }
}

// WithRelaxed sets the formatter's brace relaxation.
func WithRelaxed(t Toggle) Option {
	return func(f *Formatter) { f.opts.Relaxed = t }
}

// WithPedantic enables duplicate flag and flag position checks.
func WithPedantic(on bool) Option {
	return func(f *Formatter) { f.opts.Pedantic = on }
}

// New returns a Formatter on the default registry with default options.
func New(opts ...Option) *Formatter {
	f := &Formatter{opts: DefaultOptions()}
	for _, o := range opts {
		o(f)
	}
	if f.reg == nil {
		f.reg = Default()
	}
	return f
}

// Registry returns the formatter's registry.
func (f *Formatter) Registry() *Registry { return f.reg }

// Options returns a copy of the formatter's options.
func (f *Formatter) Options() Options { return f.opts }

func (f *Formatter) logger() *zap.Logger {
	if f.log != nil {
		return f.log
	}
	return Logger()
}

// Format renders t into buf starting at offset and returns the units
// written, not counting the terminating zero. When buf is too short, grow
// is called once with the exact size needed; without grow the call fails
// with ErrNotEnoughSpace. On failure the result is negative and the error
// is a *FormatError handled according to the error mode.
func (f *Formatter) Format(buf []byte, offset int, grow GrowFunc[byte], t Template[byte]) (int, error) {
	return format(f, buf, offset, grow, t)
}

// FormatUTF16 is Format for UTF-16 output.
func (f *Formatter) FormatUTF16(buf []uint16, offset int, grow GrowFunc[uint16], t Template[uint16]) (int, error) {
	return format(f, buf, offset, grow, t)
}

// FormatUTF32 is Format for UTF-32 output.
func (f *Formatter) FormatUTF32(buf []rune, offset int, grow GrowFunc[rune], t Template[rune]) (int, error) {
	return format(f, buf, offset, grow, t)
}

// Append formats text with args and appends the result to dst. The spare
// capacity of dst is used before anything is allocated. On failure dst is
// returned unchanged along with the error.
func (f *Formatter) Append(dst []byte, text string, args ...Value) ([]byte, error) {
	offset := len(dst)
	out := dst[:cap(dst)]
	grow := func(old []byte, size int) []byte {
		out = slices.Grow(old[:offset], size-offset)[:size]
		return out
	}
	n, err := format(f, out, offset, grow, Make(text, args...))
	if err != nil {
		return dst, err
	}
	return out[:offset+n], nil
}

// Sprintf tags args and formats them into a new string.
func (f *Formatter) Sprintf(text string, args ...any) (string, error) {
	var scratch [256]byte
	out, err := f.Append(scratch[:0], text, f.tagAll(args)...)
	return string(out), err
}

// Fprintf tags args, formats them and writes the result to w.
func (f *Formatter) Fprintf(w io.Writer, text string, args ...any) (int, error) {
	var scratch [256]byte
	out, err := f.Append(scratch[:0], text, f.tagAll(args)...)
	if err != nil {
		return 0, err
	}
	return w.Write(out)
}

func (f *Formatter) tagAll(args []any) []Value {
	values := make([]Value, len(args))
	for i, a := range args {
		values[i] = f.reg.Tag(a)
	}
	return values
}

// Measure runs validation only and returns the units Format needs,
// including the terminating zero. Errors are returned without involving
// the error mode.
func (f *Formatter) Measure(t Template[byte]) (int, error) {
	s := acquire[byte](f, t)
	defer release(s)
	need, ferr := s.prepare()
	if ferr != nil {
		return ferr.Result(), ferr
	}
	return need, nil
}

var std = sync.OnceValue(func() *Formatter { return New() })

// Format renders t with the default formatter.
func Format(buf []byte, offset int, grow GrowFunc[byte], t Template[byte]) (int, error) {
	return std().Format(buf, offset, grow, t)
}

// Append formats with the default formatter and appends to dst.
func Append(dst []byte, text string, args ...Value) ([]byte, error) {
	return std().Append(dst, text, args...)
}

// Sprintf formats with the default formatter.
func Sprintf(text string, args ...any) (string, error) {
	return std().Sprintf(text, args...)
}

// Fprintf formats with the default formatter and writes to w.
func Fprintf(w io.Writer, text string, args ...any) (int, error) {
	return std().Fprintf(w, text, args...)
}

func format[C Unit](f *Formatter, buf []C, offset int, grow GrowFunc[C], t Template[C]) (int, error) {
	if offset < 0 {
		return fail(f, failure[C]{err: newError(ErrNotEnoughSpace, 0, len(buf))})
	}
	s := acquire(f, t)
	defer release(s)

	need, ferr := s.prepare()
	if ferr != nil {
		return fail(f, failure[C]{buf: buf, offset: offset, grow: grow, err: ferr})
	}
	total := offset + need
	if len(buf) < total {
		if grow == nil {
			return fail(f, failure[C]{buf: buf, offset: offset, err: newError(ErrNotEnoughSpace, uint64(total), len(buf))})
		}
		nb := grow(buf, total)
		if len(nb) < total {
			return fail(f, failure[C]{buf: buf, offset: offset, err: newError(ErrAllocationFailed, uint64(total), offset)})
		}
		buf = nb
	}
	return s.render(buf[offset:total], need), nil
}

type failure[C Unit] struct {
	buf    []C
	offset int
	grow   GrowFunc[C]
	err    *FormatError
}

// fail terminates the buffer at offset and applies the error mode.
func fail[C Unit](f *Formatter, fl failure[C]) (int, error) {
	if len(fl.buf) > 0 {
		fl.buf[min(fl.offset, len(fl.buf)-1)] = 0
	}
	log := f.logger()
	switch f.ErrorMode() {
	case Abort:
		if msg, ok := reportAbort(log, fl.err); ok {
			panic(errors.NewAssertionErrorWithWrappedErrf(fl.err, "typefmt: %s", msg))
		}
		log.Warn("nested abort reported silently", zap.Stringer("code", fl.err.Code))
	case WriteString:
		writeMessage(fl)
	default:
		log.Debug("format failed",
			zap.Stringer("code", fl.err.Code),
			zap.Uint64("info", fl.err.Info),
			zap.Uint64("location", fl.err.Location))
	}
	return fl.err.Result(), fl.err
}

// reportAbort renders and logs err ahead of an abort. It reports false when
// another abort is being reported, as when a logger hook formats with an
// aborting formatter. The guard is released before the panic.
func reportAbort(log *zap.Logger, err *FormatError) (string, bool) {
	if !aborting.CompareAndSwap(false, true) {
		return "", false
	}
	defer aborting.Store(false)
	msg := err.Error()
	log.Error("format aborted", zap.String("error", msg), zap.Stringer("code", err.Code))
	return msg, true
}

func writeMessage[C Unit](fl failure[C]) {
	msg := fl.err.Error()
	buf := fl.buf
	need := fl.offset + utf.MeasureString[C](msg, utf.NoLimit, utf.NoLimit).Units + 1
	if len(buf) < need && fl.grow != nil {
		if nb := fl.grow(buf, need); len(nb) >= need {
			buf = nb
		}
	}
	if fl.offset >= len(buf) {
		return
	}
	c := utf.TranscodeString(buf[fl.offset:len(buf)-1], msg, utf.NoLimit)
	buf[fl.offset+c.Units] = 0
}
