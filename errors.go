package typefmt

import (
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Sentinel errors for registry and configuration problems.
var (
	ErrInvalidVerb        = errors.New("invalid print character")
	ErrIncompletePrinter  = errors.New("incomplete printer")
	ErrConflictingPrinter = errors.New("conflicting printer")
	ErrConflictingDefault = errors.New("conflicting default print character")
	ErrInvalidOptions     = errors.New("invalid options")
)

// Code identifies a formatting failure. Codes are comparable with
// errors.Is against the error returned by the format functions.
type Code uint8

const (
	ErrNotEnoughSpace Code = iota
	ErrAllocationFailed
	ErrTooManyInputs
	ErrTooManyPrints
	ErrInconsistentPrintType
	ErrUnexpectedEnd
	ErrDuplicateFlag
	ErrFlagPosition
	ErrInvalidPrintCharacter
	ErrTypeMismatch
	ErrUnregisteredChar
	ErrWildcardType
	ErrDuplicateWildcard
	ErrUnexpectedBrace
	ErrExpectedIndex
	ErrIndexOutOfRange
	ErrExpectedWidth
	ErrExpectedClosingBrace
	ErrUnsupportedType

	codeCount
)

// Message templates are written in the brace dialect; {0} is the error's
// Info and {1} its Location.
var codeInfo = [codeCount]struct {
	name    string
	message string
}{
	{"NotEnoughSpace", "NotEnoughSpace: {1} units was not enough space, {0} required"},
	{"AllocationFailed", "AllocationFailed: failed to allocate {0} units"},
	{"TooManyInputs", "TooManyInputs: too many inputs {0} for a single template"},
	{"TooManyPrints", "TooManyPrints: too many print directives in template, {0} allowed"},
	{"InconsistentPrintType", "InconsistentPrintType: inconsistent print type '{0}' at {1}. 1=Auto(%% or {{}}), 2=Explicit({{N}}). Templates must not mix modes"},
	{"UnexpectedEnd", "UnexpectedEnd: unexpected end of template at {1}"},
	{"DuplicateFlag", "DuplicateFlag: duplicate flag '{0:c}' at {1}"},
	{"FlagPosition", "FlagPosition: flag '{0:c}' at {1} must not follow width or precision"},
	{"InvalidPrintCharacter", "InvalidPrintCharacter: invalid print character '{0:c}' at {1}, only ASCII letters are supported"},
	{"TypeMismatch", "TypeMismatch: type mismatch for print character '{0:c}' at {1}"},
	{"UnregisteredChar", "UnregisteredChar: unregistered print character '{0:c}' at {1}"},
	{"WildcardType", "WildcardType: wildcard at {1} needs an integer argument"},
	{"DuplicateWildcard", "DuplicateWildcard: only one wildcard or value per field at {1}"},
	{"UnexpectedBrace", "UnexpectedBrace: unexpected '}}' at {1}, did you forget to double it?"},
	{"ExpectedIndex", "ExpectedIndex: expected an index at {1}"},
	{"IndexOutOfRange", "IndexOutOfRange: argument index {0} at {1} is out of range"},
	{"ExpectedWidth", "ExpectedWidth: expected a width or precision up to 65535 at {1}"},
	{"ExpectedClosingBrace", "ExpectedClosingBrace: expected a closing brace '}}' at {1}"},
	{"UnsupportedType", "UnsupportedType: unsupported kind {0:x} at {1}"},
}

// Codes returns every failure code in order.
func Codes() []Code {
	out := make([]Code, codeCount)
	for i := range out {
		out[i] = Code(i)
	}
	return out
}

// String returns the code's name.
func (c Code) String() string {
	if c >= codeCount {
		return "Unknown"
	}
	return codeInfo[c].name
}

func (c Code) Error() string { return "typefmt: " + c.String() }

// Result returns the negative, 1-based scalar encoding of c.
func (c Code) Result() int { return -(int(c) + 1) }

// Message returns the brace-dialect template used to describe c.
func (c Code) Message() string {
	if c >= codeCount {
		return "Unknown: {0} at {1}"
	}
	return codeInfo[c].message
}

// FormatError reports why a template could not be formatted. Info holds
// the offending character, index or size and Location the offset into the
// template, in code units.
type FormatError struct {
	Code     Code
	Info     uint64
	Location uint64
}

func newError(c Code, info uint64, loc int) *FormatError {
	return &FormatError{Code: c, Info: info, Location: uint64(loc)}
}

// messages renders error texts with the standard printers only, silently,
// so that reporting an error can never recurse into error handling.
var (
	messageOnce sync.Once
	messageFmt  *Formatter
)

func messages() *Formatter {
	messageOnce.Do(func() {
		messageFmt = New(WithRegistry(NewRegistry()), WithErrorMode(Silent), WithLogger(zap.NewNop()))
	})
	return messageFmt
}

func (e *FormatError) Error() string {
	var scratch [192]byte
	out, err := messages().Append(scratch[:0], e.Code.Message(), Uint64(e.Info), Uint64(e.Location))
	if err != nil {
		return e.Code.String()
	}
	return string(out)
}

// Unwrap returns the error's Code.
func (e *FormatError) Unwrap() error { return e.Code }

// Result returns the negative scalar encoding of the error.
func (e *FormatError) Result() int { return e.Code.Result() }
