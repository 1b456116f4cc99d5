package typefmt

import (
	"math/bits"
	"reflect"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/bjaus/typefmt/utf"
)

// ValidateFunc measures a directive before anything is written. It must
// return the largest number of code units the matching render function can
// produce and may stash state for it in p.UserData. It cannot fail.
type ValidateFunc func(p *Placeholder, v Value) int

// RenderFunc writes a directive into dst, which holds at most the length
// promised by validation, and returns the units written.
type RenderFunc[C Unit] func(dst []C, p *Placeholder) int

// Printer renders the values of one print character for each output
// width. CopyLength and CopyInto are optional and used only by
// [CopyTemplate] to move out-of-line payloads.
type Printer struct {
	Validate8  ValidateFunc
	Validate16 ValidateFunc
	Validate32 ValidateFunc
	Render8    RenderFunc[byte]
	Render16   RenderFunc[uint16]
	Render32   RenderFunc[rune]

	CopyLength func(v Value) int
	CopyInto   func(dst []byte, v Value) Value
}

// NewPrinter builds a Printer that shares one validate function across
// all widths.
func NewPrinter(validate ValidateFunc, r8 RenderFunc[byte], r16 RenderFunc[uint16], r32 RenderFunc[rune]) Printer {
	return Printer{
		Validate8: validate, Validate16: validate, Validate32: validate,
		Render8: r8, Render16: r16, Render32: r32,
	}
}

func (p Printer) complete() bool {
	return p.Validate8 != nil && p.Validate16 != nil && p.Validate32 != nil &&
		p.Render8 != nil && p.Render16 != nil && p.Render32 != nil &&
		(p.CopyLength == nil) == (p.CopyInto == nil)
}

func (p Printer) code() [8]uintptr {
	return [8]uintptr{
		funcPC(p.Validate8), funcPC(p.Validate16), funcPC(p.Validate32),
		funcPC(p.Render8), funcPC(p.Render16), funcPC(p.Render32),
		funcPC(p.CopyLength), funcPC(p.CopyInto),
	}
}

func funcPC(fn any) uintptr {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.IsNil() {
		return 0
	}
	return v.Pointer()
}

type entry struct {
	printer Printer
	kinds   Kind
}

// Registry maps print characters to printers and kinds to their default
// print character. Registration is not safe for concurrent use; populate a
// registry before sharing it.
type Registry struct {
	entries     [52]entry
	defaults    [64]byte
	conversions map[reflect.Type]func(any) Value
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide registry holding the standard
// printers. It is built on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewEmptyRegistry returns a registry with no printers.
func NewEmptyRegistry() *Registry {
	return &Registry{}
}

// NewRegistry returns an isolated registry holding the standard printers.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	registerStandard(r)
	return r
}

func isLetter[C Unit](c C) bool {
	return c < 0x80 && (c|0x20 >= 'a' && c|0x20 <= 'z')
}

func isDigit[C Unit](c C) bool {
	return c >= '0' && c <= '9'
}

// verbIndex maps a-z to 0..25 and A-Z to 26..51.
func verbIndex(c byte) int {
	return int(c&0x1F) - 1 + 26*int((^c>>5)&1)
}

// Register installs p for verb, accepting the given kinds. Registering the
// same functions again is a no-op; anything else already bound to verb is
// a conflict.
func (r *Registry) Register(verb byte, kinds Kind, p Printer) error {
	if !isLetter(verb) {
		return errors.Wrapf(ErrInvalidVerb, "register %q", verb)
	}
	if kinds == 0 || !p.complete() {
		return errors.Wrapf(ErrIncompletePrinter, "register %q", verb)
	}
	e := &r.entries[verbIndex(verb)]
	if e.kinds != 0 {
		if e.kinds == kinds && e.printer.code() == p.code() {
			return nil
		}
		return errors.Wrapf(ErrConflictingPrinter, "register %q for %s", verb, kinds)
	}
	e.printer = p
	e.kinds = kinds
	Logger().Debug("printer registered", zap.String("verb", string(verb)), zap.Stringer("kinds", kinds))
	return nil
}

// RegisterDefault registers p and makes verb the default print character
// of every kind in kinds.
func (r *Registry) RegisterDefault(verb byte, kinds Kind, p Printer) error {
	if err := r.Register(verb, kinds, p); err != nil {
		return err
	}
	return r.SetDefault(kinds, verb)
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(verb byte, kinds Kind, p Printer) {
	if err := r.Register(verb, kinds, p); err != nil {
		panic(err)
	}
}

// MustRegisterDefault is RegisterDefault that panics on error.
func (r *Registry) MustRegisterDefault(verb byte, kinds Kind, p Printer) {
	if err := r.RegisterDefault(verb, kinds, p); err != nil {
		panic(err)
	}
}

// SetDefault makes verb the default print character of every kind in
// kinds. A kind that already defaults to another character is a conflict
// and leaves the table unchanged.
func (r *Registry) SetDefault(kinds Kind, verb byte) error {
	if !isLetter(verb) {
		return errors.Wrapf(ErrInvalidVerb, "default %q", verb)
	}
	if kinds == 0 {
		return errors.Wrapf(ErrIncompletePrinter, "default %q for no kinds", verb)
	}
	for k := uint64(kinds); k != 0; k &= k - 1 {
		i := bits.TrailingZeros64(k)
		if d := r.defaults[i]; d != 0 && d != verb {
			return errors.Wrapf(ErrConflictingDefault, "%s already defaults to %q, not %q", Kind(1)<<i, d, verb)
		}
	}
	r.setDefaults(kinds, verb)
	return nil
}

// OverrideDefault makes verb the default print character of every kind in
// kinds, replacing any previous choice.
func (r *Registry) OverrideDefault(kinds Kind, verb byte) error {
	if !isLetter(verb) {
		return errors.Wrapf(ErrInvalidVerb, "override %q", verb)
	}
	r.setDefaults(kinds, verb)
	return nil
}

func (r *Registry) setDefaults(kinds Kind, verb byte) {
	for k := uint64(kinds); k != 0; k &= k - 1 {
		r.defaults[bits.TrailingZeros64(k)] = verb
	}
}

// Lookup returns the printer bound to verb and the kinds it accepts.
func (r *Registry) Lookup(verb byte) (Printer, Kind, bool) {
	if !isLetter(verb) {
		return Printer{}, 0, false
	}
	e := r.entries[verbIndex(verb)]
	return e.printer, e.kinds, e.kinds != 0
}

// DefaultVerb returns the print character used for v when a brace
// directive names none. Built-in characters print with 'c' and addresses
// with 'p' regardless of their integer kind.
func (r *Registry) DefaultVerb(v Value) (byte, bool) {
	if v.kind == 0 {
		return 0, false
	}
	if !v.kind.IsUser() {
		switch {
		case v.IsChar():
			return 'c', true
		case v.IsPointer():
			return 'p', true
		}
	}
	c := r.defaults[bits.TrailingZeros64(uint64(v.kind))]
	return c, c != 0
}

func (r *Registry) entry(verb byte) (*entry, bool) {
	if !isLetter(verb) {
		return nil, false
	}
	e := &r.entries[verbIndex(verb)]
	return e, e.kinds != 0
}

func validateFor[C Unit](p *Printer) ValidateFunc {
	switch utf.Size[C]() {
	case 1:
		return p.Validate8
	case 2:
		return p.Validate16
	default:
		return p.Validate32
	}
}

func renderFor[C Unit](p *Printer) RenderFunc[C] {
	var fn any
	switch utf.Size[C]() {
	case 1:
		fn = p.Render8
	case 2:
		fn = p.Render16
	default:
		fn = p.Render32
	}
	return fn.(RenderFunc[C])
}

// ValidateVerb runs verb's validation for v on p as if p named verb,
// for printers that delegate to another print character.
func ValidateVerb[C Unit](r *Registry, verb byte, p *Placeholder, v Value) int {
	e, ok := r.entry(verb)
	if !ok || e.kinds&v.kind == 0 {
		return 0
	}
	return validateFor[C](&e.printer)(p, v)
}

// RenderVerb renders p with the printer bound to verb. p must have been
// validated by the same print character.
func RenderVerb[C Unit](r *Registry, verb byte, dst []C, p *Placeholder) int {
	e, ok := r.entry(verb)
	if !ok {
		return 0
	}
	return renderFor[C](&e.printer)(dst, p)
}

// RenderAs validates and renders v with verb in one step on a copy of p.
// At most len(dst) units are written.
func RenderAs[C Unit](r *Registry, verb byte, dst []C, p *Placeholder, v Value) int {
	q := *p
	q.Value = &v
	q.Verb = verb
	q.UserData = 0
	n := ValidateVerb[C](r, verb, &q, v)
	return RenderVerb(r, verb, dst[:min(n, len(dst))], &q)
}
