package typefmt

import (
	"math"
	"sync"

	"github.com/bjaus/typefmt/internal/invariant"
	"github.com/bjaus/typefmt/utf"
)

// printMode is the dialect lock taken by the first committed directive.
type printMode uint8

const (
	modeNone printMode = iota
	modeAuto
	modeExplicit
)

const maxField = math.MaxUint16

// state is the per-call parser state. It is pooled per output width so a
// format call allocates nothing on the hot path.
type state[C Unit] struct {
	reg      *Registry
	opts     *Options
	relaxed  bool
	pedantic bool

	text []C
	args []Value

	fixed [MaxArguments]Placeholder
	n     int
	mode  printMode
	next  int
}

var (
	pool8  = sync.Pool{New: func() any { return new(state[byte]) }}
	pool16 = sync.Pool{New: func() any { return new(state[uint16]) }}
	pool32 = sync.Pool{New: func() any { return new(state[rune]) }}
)

func poolFor[C Unit]() *sync.Pool {
	switch utf.Size[C]() {
	case 1:
		return &pool8
	case 2:
		return &pool16
	default:
		return &pool32
	}
}

func acquire[C Unit](f *Formatter, t Template[C]) *state[C] {
	s := poolFor[C]().Get().(*state[C])
	s.reg = f.reg
	s.opts = &f.opts
	s.relaxed = f.Relaxed()
	s.pedantic = f.opts.Pedantic
	s.text = t.Text
	s.args = t.Args
	s.n = 0
	s.mode = modeNone
	s.next = 0
	return s
}

func release[C Unit](s *state[C]) {
	clear(s.fixed[:s.n])
	s.text, s.args, s.reg, s.opts = nil, nil, nil, nil
	poolFor[C]().Put(s)
}

// placeholders returns the directives found by prepare.
func (s *state[C]) placeholders() []Placeholder { return s.fixed[:s.n] }

// prepare is the validation pass. It walks the template once, resolves
// every directive against the registry and returns the number of units
// rendering needs, terminator included. Nothing is written.
func (s *state[C]) prepare() (int, *FormatError) {
	if len(s.args) > s.opts.maxArgs() {
		return 0, newError(ErrTooManyInputs, uint64(len(s.args)), 0)
	}
	text := s.text
	for i := 0; i < len(text); {
		c := text[i]
		switch c {
		case '%', '{':
			if i+1 == len(text) {
				if c == '{' && s.relaxed {
					i++
					continue
				}
				return 0, newError(ErrUnexpectedEnd, 0, i+1)
			}
			switch nc := text[i+1]; nc {
			case c:
				i += 2
				continue
			case '%', '{':
				if c == '{' && s.relaxed {
					i++
					continue
				}
				return 0, newError(ErrInvalidPrintCharacter, uint64(nc), i+1)
			}
			if s.n == s.opts.maxArgs() {
				return 0, newError(ErrTooManyPrints, uint64(s.n), i)
			}
			p := &s.fixed[s.n]
			*p = Placeholder{Start: i, opts: s.opts, reg: s.reg}
			var (
				end  int
				ferr *FormatError
			)
			if c == '%' {
				end, ferr = s.parsePrintf(p, i+1)
			} else {
				end, ferr = s.parseBrace(p, i+1)
			}
			if ferr != nil {
				return 0, ferr
			}
			if end < 0 {
				// Relaxed: the brace is text.
				i++
				continue
			}
			p.End = end
			s.n++
			i = end
		case '}':
			if i+1 < len(text) && text[i+1] == '}' {
				i += 2
				continue
			}
			if !s.relaxed {
				return 0, newError(ErrUnexpectedBrace, 0, i)
			}
			i++
		default:
			i++
		}
	}

	total := len(text) + 1
	for _, p := range s.placeholders() {
		total += p.MaxLength - (p.End - p.Start)
	}
	return total, nil
}

// lock commits the template to a dialect.
func (s *state[C]) lock(m printMode, at int) *FormatError {
	switch s.mode {
	case modeNone:
		s.mode = m
	case m:
	default:
		return newError(ErrInconsistentPrintType, uint64(s.mode), at)
	}
	return nil
}

// parsePrintf reads [flags][width|*][.precision|*][modifier]letter starting
// just after the '%' and returns the offset past the directive.
func (s *state[C]) parsePrintf(p *Placeholder, i int) (int, *FormatError) {
	if ferr := s.lock(modeAuto, p.Start); ferr != nil {
		return 0, ferr
	}
	if s.next >= len(s.args) {
		return 0, newError(ErrIndexOutOfRange, uint64(s.next), p.Start)
	}
	p.Arg = s.next
	s.next++

	var (
		width, precision int
		field            = &width
		fieldSet         bool
		closed           bool
		leadingZero      = true
	)
	text := s.text
	for ; i < len(text); i++ {
		c := text[i]
		switch c {
		case '-', '+', ' ', '#':
			f := flagFor(byte(c))
			if s.pedantic {
				if p.Flags&f != 0 {
					return 0, newError(ErrDuplicateFlag, uint64(c), i)
				}
				if field != &width || fieldSet {
					return 0, newError(ErrFlagPosition, uint64(c), i)
				}
			}
			p.Flags |= f
			if c == '-' {
				p.Flags &^= PrintZero
			}
		case '.':
			if s.pedantic && p.Has(PrintPrecision) {
				return 0, newError(ErrDuplicateFlag, uint64(c), i)
			}
			p.Flags |= PrintPrecision
			leadingZero = false
			field = &precision
			fieldSet, closed = false, false
		case '*':
			v := s.args[p.Arg]
			if v.kind&IntKinds == 0 {
				return 0, newError(ErrWildcardType, uint64(p.Arg), i)
			}
			if s.next >= len(s.args) {
				return 0, newError(ErrIndexOutOfRange, uint64(s.next), i)
			}
			if closed || fieldSet {
				return 0, newError(ErrDuplicateWildcard, 0, i)
			}
			n := v.Int()
			switch {
			case n < 0 && field == &width:
				p.Flags |= PrintLeft
				p.Flags &^= PrintZero
				n = -n
			case n < 0:
				p.Flags &^= PrintPrecision
				n = 0
			}
			if n > maxField {
				return 0, newError(ErrExpectedWidth, uint64(n), i)
			}
			*field = int(n)
			fieldSet, closed = true, true
			leadingZero = false
			p.Arg = s.next
			s.next++
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			if c == '0' && leadingZero {
				leadingZero = false
				if !p.Has(PrintLeft) {
					p.Flags |= PrintZero
				}
				continue
			}
			if closed {
				return 0, newError(ErrDuplicateWildcard, 0, i)
			}
			leadingZero = false
			fieldSet = true
			*field = *field*10 + int(c-'0')
			if *field > maxField {
				return 0, newError(ErrExpectedWidth, uint64(*field), i)
			}
		default:
			if !isLetter(c) {
				return 0, newError(ErrInvalidPrintCharacter, uint64(c), i)
			}
			verb, used := lengthModifier(text, i)
			p.Verb = verb
			p.Width = uint16(width)
			p.Precision = uint16(precision)
			if ferr := s.validate(p, i); ferr != nil {
				return 0, ferr
			}
			return i + used, nil
		}
	}
	return 0, newError(ErrUnexpectedEnd, 0, len(text))
}

const (
	intVerbs   = "diouxX"
	floatVerbs = "fFeEaAgG"
)

func oneOf[C Unit](text []C, i int, set string) bool {
	if i >= len(text) || text[i] >= 0x80 {
		return false
	}
	for j := range len(set) {
		if text[i] == C(set[j]) {
			return true
		}
	}
	return false
}

// lengthModifier skips a C length modifier starting at text[i]. It returns
// the effective print character and the units consumed, letter included.
// Sizes are known from the value's kind, so the modifier itself is dropped.
func lengthModifier[C Unit](text []C, i int) (verb byte, used int) {
	c := byte(text[i])
	switch c {
	case 'I':
		skip := 0
		if i+2 < len(text) && (text[i+1] == '3' && text[i+2] == '2' || text[i+1] == '6' && text[i+2] == '4') {
			skip = 2
		}
		if oneOf(text, i+1+skip, intVerbs) {
			return byte(text[i+1+skip]), 2 + skip
		}
	case 'h', 'l':
		if i+1 < len(text) && byte(text[i+1]) == c {
			if oneOf(text, i+2, intVerbs+"n") {
				return byte(text[i+2]), 3
			}
			break
		}
		extra := "sc"
		if c == 'l' {
			extra += floatVerbs
		}
		if oneOf(text, i+1, intVerbs+"n"+extra) {
			return byte(text[i+1]), 2
		}
	case 'j', 't', 'z':
		if oneOf(text, i+1, intVerbs) {
			return byte(text[i+1]), 2
		}
	case 'L':
		if oneOf(text, i+1, floatVerbs) {
			return byte(text[i+1]), 2
		}
	case 'w':
		if oneOf(text, i+1, "sc") {
			return byte(text[i+1]), 2
		}
	}
	return c, 1
}

// parseBrace reads [index][,[-]width][:letter[precision]]} starting just
// after the '{'. In relaxed mode a malformed directive returns -1 and no
// error so the caller treats the brace as text.
func (s *state[C]) parseBrace(p *Placeholder, i int) (int, *FormatError) {
	text := s.text
	mode := modeAuto
	index := 0

	soft := func(c Code, info uint64, at int) (int, *FormatError) {
		if s.relaxed {
			return -1, nil
		}
		return 0, newError(c, info, at)
	}
	at := func(j int) C {
		if j < len(text) {
			return text[j]
		}
		return 0
	}

	switch c := at(i); {
	case isDigit(c):
		mode = modeExplicit
		for ; i < len(text) && isDigit(text[i]); i++ {
			if index <= math.MaxInt32 {
				index = index*10 + int(text[i]-'0')
			}
		}
	case c == '-' || c == '+':
		return soft(ErrExpectedIndex, uint64(c), i)
	}

	if at(i) == ',' {
		i++
		if at(i) == '-' {
			p.Flags |= PrintLeft
			i++
		}
		if !isDigit(at(i)) {
			return soft(ErrExpectedWidth, 0, i)
		}
		width := 0
		for ; i < len(text) && isDigit(text[i]); i++ {
			width = width*10 + int(text[i]-'0')
			if width > maxField {
				return soft(ErrExpectedWidth, uint64(width), i)
			}
		}
		p.Width = uint16(width)
	}

	if at(i) == ':' {
		i++
		c := at(i)
		if !isLetter(c) {
			return soft(ErrInvalidPrintCharacter, uint64(c), i)
		}
		p.Verb = byte(c)
		i++
		if isDigit(at(i)) {
			precision := 0
			for ; i < len(text) && isDigit(text[i]); i++ {
				precision = precision*10 + int(text[i]-'0')
				if precision > maxField {
					return soft(ErrExpectedWidth, uint64(precision), i)
				}
			}
			p.Precision = uint16(precision)
			p.Flags |= PrintPrecision
		}
	}

	if i >= len(text) {
		return soft(ErrUnexpectedEnd, 0, i)
	}
	if text[i] != '}' {
		return soft(ErrExpectedClosingBrace, uint64(text[i]), i)
	}
	end := i + 1

	if mode == modeExplicit && s.relaxed && index >= len(s.args)+5 {
		return -1, nil
	}
	if ferr := s.lock(mode, p.Start); ferr != nil {
		return 0, ferr
	}
	if mode == modeAuto {
		index = s.next
	}
	if index >= len(s.args) {
		return 0, newError(ErrIndexOutOfRange, uint64(index), p.Start)
	}
	p.Arg = index
	if mode == modeAuto {
		s.next++
	}

	if p.Verb == 0 {
		v := s.args[index]
		verb, ok := s.reg.DefaultVerb(v)
		if !ok {
			return 0, newError(ErrUnsupportedType, uint64(v.kind), p.Start)
		}
		p.Verb = verb
	}
	if ferr := s.validate(p, i); ferr != nil {
		return 0, ferr
	}
	return end, nil
}

// validate resolves p.Verb against the registry and records the length its
// printer promises.
func (s *state[C]) validate(p *Placeholder, at int) *FormatError {
	p.Value = &s.args[p.Arg]
	e, ok := s.reg.entry(p.Verb)
	if !ok {
		return newError(ErrUnregisteredChar, uint64(p.Verb), at)
	}
	if e.kinds&p.Value.kind == 0 {
		return newError(ErrTypeMismatch, uint64(p.Verb), at)
	}
	p.MaxLength = validateFor[C](&e.printer)(p, *p.Value)
	if invariant.Enabled && p.MaxLength < 0 {
		invariant.Failf("typefmt: %q validated to negative length %d", p.Verb, p.MaxLength)
	}
	return nil
}

// render is the second pass. dst holds exactly the units prepare asked
// for; the result excludes the terminator.
func (s *state[C]) render(dst []C, need int) int {
	w, read := 0, 0
	for i := range s.n {
		p := &s.fixed[i]
		w += copyLiteral(dst[w:], s.text[read:p.Start])
		fn := renderFor[C](&s.reg.entries[verbIndex(p.Verb)].printer)
		n := fn(dst[w:w+min(p.MaxLength, len(dst)-w)], p)
		if invariant.Enabled && n > p.MaxLength {
			invariant.Failf("typefmt: %q wrote %d units, promised %d", p.Verb, n, p.MaxLength)
		}
		w += n
		read = p.End
	}
	w += copyLiteral(dst[w:], s.text[read:])
	if invariant.Enabled && w >= need {
		invariant.Failf("typefmt: rendered %d units into %d", w, need)
	}
	if w < len(dst) {
		dst[w] = 0
	}
	return w
}

// copyLiteral copies template text, collapsing doubled %, { and }.
func copyLiteral[C Unit](dst, src []C) int {
	w := 0
	for i := 0; i < len(src); i++ {
		c := src[i]
		if (c == '%' || c == '{' || c == '}') && i+1 < len(src) && src[i+1] == c {
			i++
		}
		dst[w] = c
		w++
	}
	return w
}
