package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/bjaus/typefmt"
)

func missing(f Format, iface string, item any) error {
	return errors.Wrapf(ErrMissingInterface, "format %q requires %s, not implemented by %T", f, iface, item)
}

// writeDelimited writes CSV through encoding/csv and TSV as plain
// tab-joined lines.
func writeDelimited[T any](w io.Writer, f Format, comma rune, items []T) error {
	if len(items) == 0 {
		return nil
	}
	body, err := rows(f, items)
	if err != nil {
		return err
	}
	if h, ok := firstItem(items).(Headed); ok {
		body = append([][]string{h.Header()}, body...)
	}
	if f == TSV {
		out := &lines{w: w}
		for _, r := range body {
			out.put(strings.Join(r, "\t"))
		}
		return out.err
	}
	cw := csv.NewWriter(w)
	cw.Comma = comma
	if err := cw.WriteAll(body); err != nil {
		return errors.Wrap(err, "write csv")
	}
	return nil
}

// A single item is encoded on its own; several as a list.
func writeJSON[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(items) == 1 {
		return enc.Encode(items[0])
	}
	return enc.Encode(items)
}

func writeJSONL[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return errors.Wrap(err, "write jsonl")
		}
	}
	return nil
}

func writeYAML[T any](w io.Writer, items []T) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	var err error
	if len(items) == 1 {
		err = enc.Encode(items[0])
	} else {
		err = enc.Encode(items)
	}
	if err != nil {
		return errors.Wrap(err, "write yaml")
	}
	return enc.Close()
}

var plainFormatter = sync.OnceValue(func() *typefmt.Formatter {
	return typefmt.New(typefmt.WithErrorMode(typefmt.Silent))
})

// plainText prints item with the default print character of its kind.
// Values typefmt cannot tag fall back to fmt.
func plainText(item any) string {
	if s, err := plainFormatter().Sprintf("{}", item); err == nil {
		return s
	}
	return fmt.Sprint(item)
}

// writePlain prints one line per item: its String method, its cells
// separated by spaces, or its default formatting.
func writePlain[T any](w io.Writer, items []T) error {
	out := &lines{w: w}
	for _, item := range items {
		switch v := any(item).(type) {
		case fmt.Stringer:
			out.put(v.String())
		case Rower:
			out.put(strings.Join(v.Row(), " "))
		default:
			out.put(plainText(item))
		}
	}
	return out.err
}
