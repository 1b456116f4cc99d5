package typefmt

import (
	"strconv"
)

// Inspection describes how a template was understood by the validation
// pass.
type Inspection struct {
	Template     string            `json:"template" yaml:"template"`
	Required     int               `json:"required" yaml:"required"`
	Placeholders []PlaceholderInfo `json:"placeholders" yaml:"placeholders"`
}

// PlaceholderInfo is one directive of an inspected template.
type PlaceholderInfo struct {
	Arg          int    `json:"arg" yaml:"arg"`
	Start        int    `json:"start" yaml:"start"`
	End          int    `json:"end" yaml:"end"`
	Source       string `json:"source" yaml:"source"`
	Verb         string `json:"verb" yaml:"verb"`
	Kind         string `json:"kind" yaml:"kind"`
	Flags        string `json:"flags,omitempty" yaml:"flags,omitempty"`
	Width        int    `json:"width" yaml:"width"`
	Precision    int    `json:"precision" yaml:"precision"`
	HasPrecision bool   `json:"has_precision" yaml:"has_precision"`
	MaxLength    int    `json:"max_length" yaml:"max_length"`
}

// Header returns the column names used by tabular reports.
func (PlaceholderInfo) Header() []string {
	return []string{"ARG", "SPAN", "SOURCE", "VERB", "KIND", "FLAGS", "WIDTH", "PRECISION", "MAX"}
}

// Row returns the directive as report cells.
func (i PlaceholderInfo) Row() []string {
	precision := "-"
	if i.HasPrecision {
		precision = strconv.Itoa(i.Precision)
	}
	return []string{
		strconv.Itoa(i.Arg),
		strconv.Itoa(i.Start) + ".." + strconv.Itoa(i.End),
		i.Source,
		i.Verb,
		i.Kind,
		i.Flags,
		strconv.Itoa(i.Width),
		precision,
		strconv.Itoa(i.MaxLength),
	}
}

// Inspect runs the validation pass over text and reports every directive
// it found. Errors are returned as is; the error mode is not consulted.
func (f *Formatter) Inspect(text string, args ...Value) (Inspection, error) {
	s := acquire(f, Make(text, args...))
	defer release(s)

	required, ferr := s.prepare()
	if ferr != nil {
		return Inspection{Template: text}, ferr
	}
	out := Inspection{
		Template:     text,
		Required:     required,
		Placeholders: make([]PlaceholderInfo, 0, s.n),
	}
	for _, p := range s.placeholders() {
		out.Placeholders = append(out.Placeholders, PlaceholderInfo{
			Arg:          p.Arg,
			Start:        p.Start,
			End:          p.End,
			Source:       text[p.Start:p.End],
			Verb:         string(p.Verb),
			Kind:         p.Value.Kind().String(),
			Flags:        (p.Flags &^ PrintPrecision).String(),
			Width:        int(p.Width),
			Precision:    int(p.Precision),
			HasPrecision: p.Has(PrintPrecision),
			MaxLength:    p.MaxLength,
		})
	}
	return out, nil
}
