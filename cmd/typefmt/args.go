package main

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/bjaus/typefmt"
	"github.com/bjaus/typefmt/ext"
)

var errBadArgument = errors.New("bad argument")

// argTypes lists the prefixes accepted by parseArg, in help order.
var argTypes = []string{
	"i8", "i16", "i32", "i64", "int",
	"u8", "u16", "u32", "u64", "uint",
	"f32", "f64", "c", "s", "null", "p", "uuid", "bytes", "dur",
}

func parseArgs(args []string) ([]typefmt.Value, error) {
	values := make([]typefmt.Value, len(args))
	for i, a := range args {
		v, err := parseArg(a)
		if err != nil {
			return nil, errors.Wrapf(err, "argument %d", i)
		}
		values[i] = v
	}
	return values, nil
}

// parseArg reads one command line argument. A "type:value" argument is
// tagged as that type; anything else is an integer, a float or a string,
// whichever parses first.
func parseArg(a string) (typefmt.Value, error) {
	kind, text, ok := strings.Cut(a, ":")
	if !ok {
		return bare(a), nil
	}
	switch kind {
	case "i8", "i16", "i32", "i64", "int":
		n, err := strconv.ParseInt(text, 0, bitSize(kind))
		if err != nil {
			return typefmt.Value{}, errors.Wrapf(errBadArgument, "%s: %v", a, err)
		}
		switch kind {
		case "i8":
			return typefmt.Int8(int8(n)), nil
		case "i16":
			return typefmt.Int16(int16(n)), nil
		case "i32":
			return typefmt.Int32(int32(n)), nil
		case "int":
			return typefmt.Int(int(n)), nil
		}
		return typefmt.Int64(n), nil
	case "u8", "u16", "u32", "u64", "uint":
		n, err := strconv.ParseUint(text, 0, bitSize(kind))
		if err != nil {
			return typefmt.Value{}, errors.Wrapf(errBadArgument, "%s: %v", a, err)
		}
		switch kind {
		case "u8":
			return typefmt.Uint8(uint8(n)), nil
		case "u16":
			return typefmt.Uint16(uint16(n)), nil
		case "u32":
			return typefmt.Uint32(uint32(n)), nil
		case "uint":
			return typefmt.Uint(uint(n)), nil
		}
		return typefmt.Uint64(n), nil
	case "f32":
		x, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return typefmt.Value{}, errors.Wrapf(errBadArgument, "%s: %v", a, err)
		}
		return typefmt.Float32(float32(x)), nil
	case "f64":
		x, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return typefmt.Value{}, errors.Wrapf(errBadArgument, "%s: %v", a, err)
		}
		return typefmt.Float64(x), nil
	case "c":
		r, n := utf8.DecodeRuneInString(text)
		if n == 0 || n != len(text) || (r == utf8.RuneError && n == 1) {
			return typefmt.Value{}, errors.Wrapf(errBadArgument, "%s: want exactly one character", a)
		}
		return typefmt.Char(r), nil
	case "s":
		return typefmt.String(text), nil
	case "null":
		return typefmt.NullString(), nil
	case "p":
		n, err := strconv.ParseUint(text, 0, 64)
		if err != nil {
			return typefmt.Value{}, errors.Wrapf(errBadArgument, "%s: %v", a, err)
		}
		return typefmt.Address(uintptr(n)), nil
	case "uuid":
		u, err := uuid.Parse(text)
		if err != nil {
			return typefmt.Value{}, errors.Wrapf(errBadArgument, "%s: %v", a, err)
		}
		return ext.UUID(u), nil
	case "bytes":
		n, err := humanize.ParseBytes(text)
		if err != nil {
			return typefmt.Value{}, errors.Wrapf(errBadArgument, "%s: %v", a, err)
		}
		return ext.ByteSize(n), nil
	case "dur":
		d, err := time.ParseDuration(text)
		if err != nil {
			return typefmt.Value{}, errors.Wrapf(errBadArgument, "%s: %v", a, err)
		}
		return ext.Duration(d), nil
	}
	// Unknown prefixes such as "http" belong to the text.
	return bare(a), nil
}

func bare(a string) typefmt.Value {
	if n, err := strconv.ParseInt(a, 10, 64); err == nil {
		return typefmt.Int64(n)
	}
	if x, err := strconv.ParseFloat(a, 64); err == nil {
		return typefmt.Float64(x)
	}
	return typefmt.String(a)
}

func bitSize(kind string) int {
	switch kind {
	case "i8", "u8":
		return 8
	case "i16", "u16":
		return 16
	case "i32", "u32":
		return 32
	case "int", "uint":
		return strconv.IntSize
	}
	return 64
}
