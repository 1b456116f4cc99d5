package typefmt

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Tagger is implemented by types that know how to tag themselves.
type Tagger interface {
	TagValue() Value
}

// Tag converts x to a [Value] using the default registry.
func Tag(x any) Value { return Default().Tag(x) }

// RegisterConversion teaches r to tag values of type T with fn. Conversions
// are consulted before the built-in mappings, so they can override how a
// named type such as time.Duration is captured.
func RegisterConversion[T any](r *Registry, fn func(T) Value) {
	if r.conversions == nil {
		r.conversions = make(map[reflect.Type]func(any) Value)
	}
	r.conversions[reflect.TypeFor[T]()] = func(x any) Value { return fn(x.(T)) }
}

// Tag converts x to a [Value]. Tagging never fails: a type with no mapping
// produces a value of kind 0, which every printer rejects.
func (r *Registry) Tag(x any) Value {
	switch v := x.(type) {
	case Value:
		return v
	case Tagger:
		return v.TagValue()
	}
	if conv, ok := r.conversions[reflect.TypeOf(x)]; ok {
		return conv(x)
	}
	switch v := x.(type) {
	case nil:
		return NullString()
	case int8:
		return Int8(v)
	case int16:
		return Int16(v)
	case int32:
		return Int32(v)
	case int64:
		return Int64(v)
	case int:
		return Int(v)
	case uint8:
		return Uint8(v)
	case uint16:
		return Uint16(v)
	case uint32:
		return Uint32(v)
	case uint64:
		return Uint64(v)
	case uint:
		return Uint(v)
	case uintptr:
		return Uintptr(v)
	case float32:
		return Float32(v)
	case float64:
		return Float64(v)
	case string:
		return String(v)
	case *string:
		return StringPtr(v)
	case []byte:
		return Bytes(v)
	case []uint16:
		return UTF16(v)
	case []rune:
		return UTF32(v)
	case unsafe.Pointer:
		return Pointer(v)
	case error:
		return String(v.Error())
	case fmt.Stringer:
		return String(v.String())
	}
	return tagReflect(reflect.ValueOf(x))
}

func tagReflect(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Int8:
		return Int8(int8(rv.Int()))
	case reflect.Int16:
		return Int16(int16(rv.Int()))
	case reflect.Int32:
		return Int32(int32(rv.Int()))
	case reflect.Int64:
		return Int64(rv.Int())
	case reflect.Int:
		return Int(int(rv.Int()))
	case reflect.Uint8:
		return Uint8(uint8(rv.Uint()))
	case reflect.Uint16:
		return Uint16(uint16(rv.Uint()))
	case reflect.Uint32:
		return Uint32(uint32(rv.Uint()))
	case reflect.Uint64:
		return Uint64(rv.Uint())
	case reflect.Uint:
		return Uint(uint(rv.Uint()))
	case reflect.Uintptr:
		return Uintptr(uintptr(rv.Uint()))
	case reflect.Float32:
		return Float32(float32(rv.Float()))
	case reflect.Float64:
		return Float64(rv.Float())
	case reflect.String:
		return String(rv.String())
	case reflect.Pointer, reflect.Chan, reflect.Func, reflect.Map, reflect.UnsafePointer:
		return Address(rv.Pointer())
	}
	return Value{}
}
