package typefmt

import (
	"strings"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// ErrorMode selects what happens when a template cannot be formatted.
type ErrorMode int32

const (
	// UseGlobal defers to the process-wide mode.
	UseGlobal ErrorMode = iota
	// Silent returns the error and terminates the buffer.
	Silent
	// WriteString also writes a readable message into the buffer.
	WriteString
	// Abort panics with the message. An abort raised while another abort
	// is being rendered and logged, in any goroutine, is downgraded to a
	// warning and returns the error as Silent does.
	Abort
)

var errorModeNames = []string{"use_global", "silent", "write_string", "abort"}

func (m ErrorMode) String() string { return enumName(errorModeNames, int(m)) }

// Set parses a mode name, implementing pflag.Value.
func (m *ErrorMode) Set(s string) error {
	i, err := enumParse("error mode", errorModeNames, s)
	if err != nil {
		return err
	}
	*m = ErrorMode(i)
	return nil
}

// Type implements pflag.Value.
func (m *ErrorMode) Type() string { return "mode" }

func (m ErrorMode) MarshalYAML() (any, error) { return m.String(), nil }

func (m *ErrorMode) UnmarshalYAML(n *yaml.Node) error { return m.Set(n.Value) }

// Toggle is a tri-state switch whose Inherit state defers to a
// process-wide setting.
type Toggle uint8

const (
	Inherit Toggle = iota
	On
	Off
)

var toggleNames = []string{"inherit", "on", "off"}

func (t Toggle) String() string { return enumName(toggleNames, int(t)) }

// Set parses a toggle name, implementing pflag.Value. The boolean
// spellings true and false are accepted too.
func (t *Toggle) Set(s string) error {
	switch strings.ToLower(s) {
	case "true":
		*t = On
		return nil
	case "false":
		*t = Off
		return nil
	}
	i, err := enumParse("toggle", toggleNames, s)
	if err != nil {
		return err
	}
	*t = Toggle(i)
	return nil
}

// Type implements pflag.Value.
func (t *Toggle) Type() string { return "toggle" }

func (t Toggle) MarshalYAML() (any, error) { return t.String(), nil }

func (t *Toggle) UnmarshalYAML(n *yaml.Node) error { return t.Set(n.Value) }

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return "unknown"
	}
	return names[i]
}

func enumParse(what string, names []string, s string) (int, error) {
	for i, n := range names {
		if strings.EqualFold(n, s) {
			return i, nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidOptions, "unknown %s %q, want one of %s", what, s, strings.Join(names, ", "))
}

var (
	globalMode    atomic.Int32
	globalRelaxed atomic.Bool

	// aborting guards the Abort path against reporting from inside a report.
	aborting atomic.Bool
)

// SetGlobalErrorMode sets the mode used by formatters without a local
// mode. UseGlobal restores the default, Silent.
func SetGlobalErrorMode(m ErrorMode) { globalMode.Store(int32(m)) }

// GlobalErrorMode returns the process-wide error mode.
func GlobalErrorMode() ErrorMode {
	if m := ErrorMode(globalMode.Load()); m != UseGlobal {
		return m
	}
	return Silent
}

// SetGlobalRelaxed sets the brace relaxation used by formatters whose
// option is Inherit.
func SetGlobalRelaxed(on bool) { globalRelaxed.Store(on) }

// GlobalRelaxed reports the process-wide brace relaxation.
func GlobalRelaxed() bool { return globalRelaxed.Load() }

// ErrorMode returns the formatter's mode, falling back to the global one.
func (f *Formatter) ErrorMode() ErrorMode {
	if f.opts.ErrorMode != UseGlobal {
		return f.opts.ErrorMode
	}
	return GlobalErrorMode()
}

// SetLocalErrorMode overrides the error mode for this formatter until the
// returned function is called. Only one override may be active at a time;
// a formatter is owned by a single goroutine while it is overridden.
func (f *Formatter) SetLocalErrorMode(m ErrorMode) (restore func()) {
	if f.opts.ErrorMode != UseGlobal && m != UseGlobal {
		panic(errors.AssertionFailedf("typefmt: local error mode already set to %s", f.opts.ErrorMode))
	}
	prev := f.opts.ErrorMode
	f.opts.ErrorMode = m
	return func() { f.opts.ErrorMode = prev }
}

// Relaxed reports whether stray braces are treated as text.
func (f *Formatter) Relaxed() bool {
	switch f.opts.Relaxed {
	case On:
		return true
	case Off:
		return false
	default:
		return GlobalRelaxed()
	}
}

// SetLocalRelaxed overrides brace relaxation for this formatter until the
// returned function is called.
func (f *Formatter) SetLocalRelaxed(on bool) (restore func()) {
	prev := f.opts.Relaxed
	f.opts.Relaxed = Off
	if on {
		f.opts.Relaxed = On
	}
	return func() { f.opts.Relaxed = prev }
}
