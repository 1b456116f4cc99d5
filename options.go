package typefmt

import (
	"bytes"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// StringPrecision selects what a string directive's precision counts.
type StringPrecision uint8

const (
	// PrecisionUnits counts source code units.
	PrecisionUnits StringPrecision = iota
	// PrecisionCharacters counts code points.
	PrecisionCharacters
	// PrecisionColumns counts terminal columns; width does too.
	PrecisionColumns
)

var precisionNames = []string{"units", "characters", "columns"}

func (s StringPrecision) String() string { return enumName(precisionNames, int(s)) }

func (s *StringPrecision) Set(v string) error {
	i, err := enumParse("string precision", precisionNames, v)
	if err != nil {
		return err
	}
	*s = StringPrecision(i)
	return nil
}

func (s *StringPrecision) Type() string { return "precision" }

func (s StringPrecision) MarshalYAML() (any, error) { return s.String(), nil }

func (s *StringPrecision) UnmarshalYAML(n *yaml.Node) error { return s.Set(n.Value) }

// NullPolicy selects how a null string prints.
type NullPolicy uint8

const (
	// NullAlways prints "(null)", truncated by precision like any string.
	NullAlways NullPolicy = iota
	// NullAllOrNothing prints "(null)" whole, or nothing when a precision
	// below its length is given.
	NullAllOrNothing
)

var nullNames = []string{"always", "all_or_nothing"}

func (n NullPolicy) String() string { return enumName(nullNames, int(n)) }

func (n *NullPolicy) Set(v string) error {
	i, err := enumParse("null policy", nullNames, v)
	if err != nil {
		return err
	}
	*n = NullPolicy(i)
	return nil
}

func (n *NullPolicy) Type() string { return "policy" }

func (n NullPolicy) MarshalYAML() (any, error) { return n.String(), nil }

func (n *NullPolicy) UnmarshalYAML(node *yaml.Node) error { return n.Set(node.Value) }

// PointerOptions are the conventions for the p and P characters.
type PointerOptions struct {
	ForcePrecision bool `yaml:"force_precision"` // zero-pad to the full address width
	Prefix         bool `yaml:"prefix"`          // add 0x
	SignOrBlank    bool `yaml:"sign_or_blank"`   // honor '+' and ' '
	Caps           bool `yaml:"caps"`            // print p like P
	Nil            bool `yaml:"nil"`             // print a zero address as (nil)
}

// Options tune parsing and the standard printers.
type Options struct {
	MaxArgs           int             `yaml:"max_args"`
	Pedantic          bool            `yaml:"pedantic"`
	Relaxed           Toggle          `yaml:"relaxed"`
	ErrorMode         ErrorMode       `yaml:"error_mode"`
	StringPrecision   StringPrecision `yaml:"string_precision"`
	NullString        NullPolicy      `yaml:"null_string"`
	StringLeadingZero bool            `yaml:"string_leading_zero"`
	Pointer           PointerOptions  `yaml:"pointer"`
	FloatPadWhole     bool            `yaml:"float_prefix_whole_number"`
}

var defaultOptions = DefaultOptions()

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		MaxArgs:           MaxArguments,
		StringLeadingZero: true,
		Pointer: PointerOptions{
			ForcePrecision: true,
			Prefix:         true,
		},
	}
}

// Validate reports options outside their allowed ranges.
func (o Options) Validate() error {
	switch {
	case o.MaxArgs < 1 || o.MaxArgs > MaxArguments:
		return errors.Wrapf(ErrInvalidOptions, "max_args %d outside [1, %d]", o.MaxArgs, MaxArguments)
	case o.Relaxed > Off:
		return errors.Wrapf(ErrInvalidOptions, "relaxed %d", o.Relaxed)
	case o.ErrorMode < UseGlobal || o.ErrorMode > Abort:
		return errors.Wrapf(ErrInvalidOptions, "error_mode %d", o.ErrorMode)
	case o.StringPrecision > PrecisionColumns:
		return errors.Wrapf(ErrInvalidOptions, "string_precision %d", o.StringPrecision)
	case o.NullString > NullAllOrNothing:
		return errors.Wrapf(ErrInvalidOptions, "null_string %d", o.NullString)
	}
	return nil
}

// LoadOptions decodes YAML options from r over the defaults. Unknown keys
// are rejected; an empty document yields the defaults.
func LoadOptions(r io.Reader) (Options, error) {
	o := DefaultOptions()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, errors.Wrap(err, "decode options")
	}
	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

// LoadOptionsFile reads YAML options from path.
func LoadOptionsFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, errors.Wrap(err, "read options file")
	}
	return LoadOptions(bytes.NewReader(data))
}

func (o *Options) maxArgs() int {
	if o.MaxArgs < 1 || o.MaxArgs > MaxArguments {
		return MaxArguments
	}
	return o.MaxArgs
}
