// Package ext registers printers for a few common Go types on top of the
// typefmt extension points.
//
//	r := typefmt.NewRegistry()
//	if err := ext.Register(r); err != nil { ... }
//	f := typefmt.New(typefmt.WithRegistry(r))
//	f.Sprintf("{} {:B}", uuid.New(), ext.ByteSize(1536))
//
// The printers are:
//
//	U  UUIDs in canonical form; '#' prefixes "urn:uuid:"
//	B  byte sizes in IEC units (1.5 KiB); '#' switches to SI units (1.5 kB)
//	D  durations in time.Duration notation
//	N  integers as English ordinals (1st, 22nd)
//
// U, B and D are the defaults of their kinds, so brace directives without a
// print character pick them up. Width, precision and the '-' and '0' flags
// behave as they do for strings.
package ext

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/bjaus/typefmt"
)

// Kinds claimed by this package.
var (
	UUIDKind     = typefmt.UserKind(0)
	ByteSizeKind = typefmt.UserKind(1)
	DurationKind = typefmt.UserKind(2)
)

// UUID tags a copy of u. The value references out-of-line storage, which
// CopyTemplate moves into its arena.
func UUID(u uuid.UUID) typefmt.Value { return UUIDPtr(&u) }

// UUIDPtr tags the UUID behind p without copying it. A nil p prints as the
// nil UUID.
func UUIDPtr(p *uuid.UUID) typefmt.Value { return typefmt.User(UUIDKind, p, 0) }

// ByteSize tags a count of bytes.
func ByteSize(n uint64) typefmt.Value { return typefmt.UserInline(ByteSizeKind, n, 0) }

// Duration tags d.
func Duration(d time.Duration) typefmt.Value {
	return typefmt.UserInline(DurationKind, uint64(d), typefmt.FlagSigned)
}

// Register installs the printers and the conversions for uuid.UUID and
// time.Duration in r. It may be called again on the same registry.
func Register(r *typefmt.Registry) error {
	uuids := typefmt.Printer{
		Validate8: validateUUID[byte], Validate16: validateUUID[uint16], Validate32: validateUUID[rune],
		Render8: renderUUID[byte], Render16: renderUUID[uint16], Render32: renderUUID[rune],
		CopyLength: uuidCopyLength,
		CopyInto:   uuidCopyInto,
	}
	sizes := typefmt.Printer{
		Validate8: validateSize[byte], Validate16: validateSize[uint16], Validate32: validateSize[rune],
		Render8: renderSize[byte], Render16: renderSize[uint16], Render32: renderSize[rune],
	}
	durations := typefmt.Printer{
		Validate8: validateDuration[byte], Validate16: validateDuration[uint16], Validate32: validateDuration[rune],
		Render8: renderDuration[byte], Render16: renderDuration[uint16], Render32: renderDuration[rune],
	}
	ordinals := typefmt.Printer{
		Validate8: validateOrdinal[byte], Validate16: validateOrdinal[uint16], Validate32: validateOrdinal[rune],
		Render8: renderOrdinal[byte], Render16: renderOrdinal[uint16], Render32: renderOrdinal[rune],
	}

	if err := r.RegisterDefault('U', UUIDKind, uuids); err != nil {
		return errors.Wrap(err, "ext: uuid printer")
	}
	if err := r.RegisterDefault('B', ByteSizeKind, sizes); err != nil {
		return errors.Wrap(err, "ext: byte size printer")
	}
	if err := r.RegisterDefault('D', DurationKind, durations); err != nil {
		return errors.Wrap(err, "ext: duration printer")
	}
	if err := r.Register('N', typefmt.IntKinds, ordinals); err != nil {
		return errors.Wrap(err, "ext: ordinal printer")
	}

	typefmt.RegisterConversion(r, UUID)
	typefmt.RegisterConversion(r, UUIDPtr)
	typefmt.RegisterConversion(r, Duration)
	return nil
}

// --- UUID ---

func uuidOf(v typefmt.Value) *uuid.UUID {
	if u, ok := v.Payload().(*uuid.UUID); ok && u != nil {
		return u
	}
	return &uuid.Nil
}

func uuidText(p *typefmt.Placeholder, v typefmt.Value) string {
	u := uuidOf(v)
	if p.Has(typefmt.PrintPrefix) {
		return u.URN()
	}
	return u.String()
}

func validateUUID[C typefmt.Unit](p *typefmt.Placeholder, v typefmt.Value) int {
	return typefmt.TextLength[C](p, uuidText(p, v))
}

func renderUUID[C typefmt.Unit](dst []C, p *typefmt.Placeholder) int {
	return typefmt.PadText(dst, p, uuidText(p, *p.Value))
}

func uuidCopyLength(v typefmt.Value) int {
	if u, ok := v.Payload().(*uuid.UUID); ok && u != nil {
		return len(u)
	}
	return 0
}

func uuidCopyInto(dst []byte, v typefmt.Value) typefmt.Value {
	if len(dst) < len(uuid.Nil) {
		return v
	}
	u := (*uuid.UUID)((*[16]byte)(dst))
	*u = *uuidOf(v)
	return typefmt.User(UUIDKind, u, v.Flags())
}

// --- Byte sizes ---

func sizeText(p *typefmt.Placeholder, v typefmt.Value) string {
	if p.Has(typefmt.PrintPrefix) {
		return humanize.Bytes(v.Bits())
	}
	return humanize.IBytes(v.Bits())
}

func validateSize[C typefmt.Unit](p *typefmt.Placeholder, v typefmt.Value) int {
	return typefmt.TextLength[C](p, sizeText(p, v))
}

func renderSize[C typefmt.Unit](dst []C, p *typefmt.Placeholder) int {
	return typefmt.PadText(dst, p, sizeText(p, *p.Value))
}

// --- Durations ---

func durationText(v typefmt.Value) string {
	return time.Duration(int64(v.Bits())).String()
}

func validateDuration[C typefmt.Unit](p *typefmt.Placeholder, v typefmt.Value) int {
	return typefmt.TextLength[C](p, durationText(v))
}

func renderDuration[C typefmt.Unit](dst []C, p *typefmt.Placeholder) int {
	return typefmt.PadText(dst, p, durationText(*p.Value))
}

// --- Ordinals ---

func ordinalText(v typefmt.Value) string {
	return humanize.Ordinal(int(v.Int()))
}

func validateOrdinal[C typefmt.Unit](p *typefmt.Placeholder, v typefmt.Value) int {
	return typefmt.TextLength[C](p, ordinalText(v))
}

func renderOrdinal[C typefmt.Unit](dst []C, p *typefmt.Placeholder) int {
	return typefmt.PadText(dst, p, ordinalText(*p.Value))
}
