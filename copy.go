package typefmt

import (
	"unsafe"

	"go.uber.org/zap"
)

// Allocator returns size bytes of 8-byte aligned storage for
// CopyTemplate. It may return nil or a shorter slice to report failure.
type Allocator func(size int) []byte

const arenaAlign = 8

func alignUp(n int) int { return (n + arenaAlign - 1) &^ (arenaAlign - 1) }

// CopyTemplate returns a copy of t that owns every out-of-line payload, so
// it stays valid after the caller's arguments go away. Payloads are moved
// by the CopyLength and CopyInto functions of each value's default
// printer, all into one arena from alloc (nil uses make). With includeText
// the template text is copied into the arena too; otherwise the copy keeps
// referencing t.Text.
func CopyTemplate[C Unit](r *Registry, t Template[C], alloc Allocator, includeText bool) (Template[C], error) {
	if r == nil {
		r = Default()
	}
	if alloc == nil {
		alloc = func(size int) []byte { return make([]byte, size) }
	}

	var unit C
	textSize := 0
	if includeText {
		textSize = alignUp(len(t.Text) * int(unsafe.Sizeof(unit)))
	}
	size := textSize
	printers := make([]*Printer, len(t.Args))
	for i, v := range t.Args {
		verb, ok := r.DefaultVerb(v)
		if !ok {
			continue
		}
		e, ok := r.entry(verb)
		if !ok || e.printer.CopyLength == nil {
			continue
		}
		printers[i] = &e.printer
		size += alignUp(e.printer.CopyLength(v))
	}

	out := Template[C]{Text: t.Text, Args: make([]Value, len(t.Args))}
	copy(out.Args, t.Args)

	// An empty arena is still requested so the allocator sees every copy.
	arena := alloc(max(size, arenaAlign))
	if len(arena) < size || arena == nil {
		return Template[C]{}, newError(ErrAllocationFailed, uint64(size), 0)
	}
	Logger().Debug("template copied", zap.Int("args", len(t.Args)), zap.Int("arena", size))

	at := 0
	if includeText && len(t.Text) > 0 {
		text := unsafe.Slice((*C)(unsafe.Pointer(unsafe.SliceData(arena))), len(t.Text))
		copy(text, t.Text)
		out.Text = text
		at = textSize
	}
	for i, p := range printers {
		if p == nil {
			continue
		}
		n := p.CopyLength(t.Args[i])
		out.Args[i] = p.CopyInto(arena[at:at+n:at+n], t.Args[i])
		at += alignUp(n)
	}
	return out, nil
}
