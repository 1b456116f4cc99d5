// Package report writes lists of records in the output formats offered by
// the typefmt command. Records opt into tabular formats by implementing
// [Rower], and refine the output with the optional interfaces below.
package report

import (
	"bytes"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
)

// Sentinel errors for programmatic error handling.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrMissingInterface  = errors.New("missing required interface")
)

// Format names an output format.
type Format string

const (
	Table    Format = "table"
	Markdown Format = "markdown"
	CSV      Format = "csv"
	TSV      Format = "tsv"
	JSON     Format = "json"
	JSONL    Format = "jsonl"
	YAML     Format = "yaml"
	Plain    Format = "plain"
)

var formats = []Format{Table, Markdown, CSV, TSV, JSON, JSONL, YAML, Plain}

func (f Format) String() string { return string(f) }

// Set parses a format name, implementing pflag.Value.
func (f *Format) Set(s string) error {
	parsed, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Type implements pflag.Value.
func (f *Format) Type() string { return "format" }

// Formats returns every supported format.
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// ParseFormat parses a format name, ignoring case.
func ParseFormat(s string) (Format, error) {
	for _, f := range formats {
		if strings.EqualFold(string(f), s) {
			return f, nil
		}
	}
	return "", errors.Wrapf(ErrUnsupportedFormat, "%q", s)
}

// Rower provides the cells of one record. Required by the tabular formats.
type Rower interface {
	Row() []string
}

// Headed provides column names. Required by Markdown; optional elsewhere.
type Headed interface {
	Header() []string
}

// Titled renders a title above a table.
type Titled interface {
	Title() string
}

// Aligned sets per-column alignment for Table and Markdown.
type Aligned interface {
	Alignments() []Alignment
}

// Bordered selects the table border.
type Bordered interface {
	Border() BorderStyle
}

// Alignment controls column text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// BorderStyle controls table border characters.
type BorderStyle int

const (
	BorderRounded BorderStyle = iota
	BorderNone
	BorderASCII
)

// Write renders items to w in format f.
func Write[T any](w io.Writer, f Format, items ...T) error {
	switch f {
	case Table:
		return writeTable(w, items)
	case Markdown:
		return writeMarkdown(w, items)
	case CSV:
		return writeDelimited(w, f, ',', items)
	case TSV:
		return writeDelimited(w, f, '\t', items)
	case JSON:
		return writeJSON(w, items)
	case JSONL:
		return writeJSONL(w, items)
	case YAML:
		return writeYAML(w, items)
	case Plain:
		return writePlain(w, items)
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "%q", f)
	}
}

// Marshal renders items and returns the bytes.
func Marshal[T any](f Format, items ...T) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, f, items...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// rows collects the cells of items, which must implement Rower.
func rows[T any](f Format, items []T) ([][]string, error) {
	out := make([][]string, len(items))
	for i, item := range items {
		r, ok := any(item).(Rower)
		if !ok {
			return nil, errors.Wrapf(ErrMissingInterface, "format %q requires Rower, not implemented by %T", f, item)
		}
		out[i] = r.Row()
	}
	return out, nil
}

// firstItem returns the first item as an interface value for optional
// interface checks.
func firstItem[T any](items []T) any {
	if len(items) == 0 {
		var zero T
		return zero
	}
	return items[0]
}
