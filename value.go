package typefmt

import (
	"math"
	"math/bits"
	"strconv"
	"unsafe"

	"github.com/cockroachdb/errors"
)

// Kind is the erased type class of a [Value]. Every value carries exactly
// one kind bit; printers declare the set of kinds they accept as a mask.
type Kind uint64

const (
	KindString Kind = 1 << iota
	Kind8
	Kind16
	Kind32
	Kind64
	KindFloat32
	KindFloat64
)

// KindUser is the first kind available to extensions. User kinds occupy
// the remaining high bits, see [UserKind].
const KindUser Kind = 1 << 8

// MaxUserKinds is the number of kind bits available to extensions.
const MaxUserKinds = 56

const (
	// IntKinds accepts every integer width.
	IntKinds = Kind8 | Kind16 | Kind32 | Kind64
	// FloatKinds accepts both float widths.
	FloatKinds = KindFloat32 | KindFloat64
)

// UserKind returns the i-th extension kind. It panics when i is outside
// [0, MaxUserKinds).
func UserKind(i int) Kind {
	if i < 0 || i >= MaxUserKinds {
		panic(errors.AssertionFailedf("typefmt: user kind %d out of range [0, %d)", i, MaxUserKinds))
	}
	return KindUser << i
}

// IsUser reports whether k is an extension kind.
func (k Kind) IsUser() bool { return k >= KindUser }

// Bits returns the storage width of numeric kinds and 0 otherwise.
func (k Kind) Bits() int {
	switch k {
	case Kind8:
		return 8
	case Kind16:
		return 16
	case Kind32, KindFloat32:
		return 32
	case Kind64, KindFloat64:
		return 64
	default:
		return 0
	}
}

var kindNames = [...]string{"string", "int8", "int16", "int32", "int64", "float32", "float64"}

func (k Kind) String() string {
	switch {
	case k == 0:
		return "invalid"
	case bits.OnesCount64(uint64(k)) != 1:
		return "kinds(0x" + strconv.FormatUint(uint64(k), 16) + ")"
	case k.IsUser():
		return "user" + strconv.Itoa(bits.TrailingZeros64(uint64(k>>8)))
	default:
		i := bits.TrailingZeros64(uint64(k))
		if i < len(kindNames) {
			return kindNames[i]
		}
		return "reserved" + strconv.Itoa(i)
	}
}

// Flags refine how a value of a given kind is interpreted.
type Flags uint8

const (
	FlagSigned  Flags = 1 << iota // integer holds a signed value
	FlagChar                      // integer holds a character
	FlagPointer                   // integer holds an address
	FlagUTF16                     // string payload is UTF-16
	FlagUTF32                     // string payload is UTF-32

	flagNull
)

// Value is one formatting argument: a kind, its flags and a payload that is
// either an inline scalar or a reference to caller-owned data. Values
// borrow the data they reference; see [CopyTemplate] for owning copies.
type Value struct {
	kind  Kind
	flags Flags
	bits  uint64
	text  string
	ref   any
}

func signed(k Kind, v int64) Value {
	return Value{kind: k, flags: FlagSigned, bits: uint64(v)}
}

func unsigned(k Kind, v uint64) Value {
	return Value{kind: k, bits: v}
}

func Int8(v int8) Value   { return signed(Kind8, int64(v)) }
func Int16(v int16) Value { return signed(Kind16, int64(v)) }
func Int32(v int32) Value { return signed(Kind32, int64(v)) }
func Int64(v int64) Value { return signed(Kind64, v) }

// Int tags a platform int at its native width.
func Int(v int) Value { return signed(intKind, int64(v)) }

func Uint8(v uint8) Value   { return unsigned(Kind8, uint64(v)) }
func Uint16(v uint16) Value { return unsigned(Kind16, uint64(v)) }
func Uint32(v uint32) Value { return unsigned(Kind32, uint64(v)) }
func Uint64(v uint64) Value { return unsigned(Kind64, v) }
func Uint(v uint) Value     { return unsigned(intKind, uint64(v)) }

// Uintptr tags an integer address value as a plain unsigned integer. Use
// [Address] to have it printed as a pointer by default.
func Uintptr(v uintptr) Value { return unsigned(ptrKind, uint64(v)) }

const (
	intKind = Kind32 << (strconv.IntSize >> 6)
	ptrKind = Kind32 << (unsafe.Sizeof(uintptr(0)) >> 3)
)

func Float32(v float32) Value {
	return Value{kind: KindFloat32, bits: math.Float64bits(float64(v))}
}

func Float64(v float64) Value {
	return Value{kind: KindFloat64, bits: math.Float64bits(v)}
}

// Char tags a Unicode code point.
func Char(r rune) Value {
	return Value{kind: Kind32, flags: FlagChar | FlagSigned, bits: uint64(int64(r))}
}

// Char8 tags a single byte character. It is copied verbatim into 8-bit
// output.
func Char8(c byte) Value { return Value{kind: Kind8, flags: FlagChar, bits: uint64(c)} }

// Char16 tags a single UTF-16 code unit. It is copied verbatim into 16-bit
// output.
func Char16(c uint16) Value { return Value{kind: Kind16, flags: FlagChar, bits: uint64(c)} }

// String tags UTF-8 text.
func String(s string) Value { return Value{kind: KindString, text: s} }

// StringPtr tags the string behind p; a nil p is a null string.
func StringPtr(p *string) Value {
	if p == nil {
		return NullString()
	}
	return String(*p)
}

// Bytes tags UTF-8 text held in b without copying it. A nil b is a null
// string.
func Bytes(b []byte) Value {
	if b == nil {
		return NullString()
	}
	return String(unsafe.String(unsafe.SliceData(b), len(b)))
}

// UTF16 tags UTF-16 text. A nil s is a null string.
func UTF16(s []uint16) Value {
	if s == nil {
		return NullString()
	}
	return Value{kind: KindString, flags: FlagUTF16, ref: s}
}

// UTF32 tags UTF-32 text. A nil s is a null string.
func UTF32(s []rune) Value {
	if s == nil {
		return NullString()
	}
	return Value{kind: KindString, flags: FlagUTF32, ref: s}
}

// NullString tags the absence of a string. It prints as "(null)".
func NullString() Value { return Value{kind: KindString, flags: flagNull} }

// Pointer tags an address to be printed with the pointer conventions.
func Pointer(p unsafe.Pointer) Value { return Address(uintptr(p)) }

// Address tags an integer address to be printed with the pointer
// conventions.
func Address(a uintptr) Value {
	return Value{kind: ptrKind, flags: FlagPointer, bits: uint64(a)}
}

// User tags an extension value whose payload lives out of line. The kind
// should come from [UserKind].
func User(kind Kind, payload any, flags Flags) Value {
	return Value{kind: kind, flags: flags &^ flagNull, ref: payload}
}

// UserInline tags an extension value that fits in 64 bits.
func UserInline(kind Kind, bits uint64, flags Flags) Value {
	return Value{kind: kind, flags: flags &^ flagNull, bits: bits}
}

func (v Value) Kind() Kind      { return v.kind }
func (v Value) Flags() Flags    { return v.flags &^ flagNull }
func (v Value) Signed() bool    { return v.flags&FlagSigned != 0 }
func (v Value) IsChar() bool    { return v.flags&FlagChar != 0 }
func (v Value) IsPointer() bool { return v.flags&FlagPointer != 0 }
func (v Value) IsNull() bool    { return v.flags&flagNull != 0 }

// Bits returns the raw inline payload.
func (v Value) Bits() uint64 { return v.bits }

// Uint returns the integer payload truncated to the kind's width.
func (v Value) Uint() uint64 {
	if w := v.kind.Bits(); w > 0 && w < 64 && v.kind&IntKinds != 0 {
		return v.bits & (1<<w - 1)
	}
	return v.bits
}

// Int returns the integer payload, sign-extended from the kind's width for
// signed values.
func (v Value) Int() int64 {
	if !v.Signed() {
		return int64(v.Uint())
	}
	if w := v.kind.Bits(); w > 0 && w < 64 {
		s := 64 - w
		return int64(v.bits<<s) >> s
	}
	return int64(v.bits)
}

// Float returns the floating-point payload.
func (v Value) Float() float64 { return math.Float64frombits(v.bits) }

// Text returns the UTF-8 payload of a string value.
func (v Value) Text() string { return v.text }

// UTF16Text returns the payload of a UTF-16 string value.
func (v Value) UTF16Text() []uint16 {
	s, _ := v.ref.([]uint16)
	return s
}

// UTF32Text returns the payload of a UTF-32 string value.
func (v Value) UTF32Text() []rune {
	s, _ := v.ref.([]rune)
	return s
}

// Payload returns the out-of-line payload of an extension value.
func (v Value) Payload() any { return v.ref }
