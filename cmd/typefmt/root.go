package main

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/bjaus/typefmt"
	"github.com/bjaus/typefmt/ext"
)

// settings are the flags shared by every command.
type settings struct {
	config    string
	pedantic  bool
	relaxed   bool
	errorMode typefmt.ErrorMode
	precision typefmt.StringPrecision
	null      typefmt.NullPolicy
	verbose   bool

	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	s := &settings{}
	cmd := &cobra.Command{
		Use:   "typefmt",
		Short: "render and inspect type-checked format templates",
		Long: `
  Renders printf (%d) and brace ({0:x}) templates with typed arguments,
  explains how a template is parsed and lists the failure codes.
`,
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return s.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if s.log != nil {
				_ = s.log.Sync()
			}
		},
	}

	s.bind(cmd.PersistentFlags())
	cmd.AddCommand(newRenderCmd(s), newInspectCmd(s), newCodesCmd())
	return cmd
}

func (s *settings) bind(pf *pflag.FlagSet) {
	pf.StringVar(&s.config, "config", "", "YAML file with formatter options")
	pf.BoolVar(&s.pedantic, "pedantic", false, "reject duplicate and misplaced flags")
	pf.BoolVar(&s.relaxed, "relaxed", false, "treat malformed brace directives as text")
	pf.Var(&s.errorMode, "error-mode", "silent, write_string or abort")
	pf.Var(&s.precision, "string-precision", "what string precision counts: units, characters or columns")
	pf.Var(&s.null, "null-string", "null strings under a short precision: always or all_or_nothing")
	pf.BoolVarP(&s.verbose, "verbose", "v", false, "log formatter diagnostics to stderr")
}

func (s *settings) setup() error {
	if !s.verbose {
		s.log = zap.NewNop()
		return nil
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return errors.Wrap(err, "create logger")
	}
	s.log = log
	typefmt.SetLogger(log)
	return nil
}

// formatter builds the formatter for cmd. Options come from --config when
// given; flags set on the command line override them.
func (s *settings) formatter(cmd *cobra.Command) (*typefmt.Formatter, error) {
	opts := typefmt.DefaultOptions()
	if s.config != "" {
		var err error
		if opts, err = typefmt.LoadOptionsFile(s.config); err != nil {
			return nil, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("pedantic") {
		opts.Pedantic = s.pedantic
	}
	if flags.Changed("relaxed") {
		opts.Relaxed = typefmt.Off
		if s.relaxed {
			opts.Relaxed = typefmt.On
		}
	}
	if flags.Changed("error-mode") {
		opts.ErrorMode = s.errorMode
	}
	if flags.Changed("string-precision") {
		opts.StringPrecision = s.precision
	}
	if flags.Changed("null-string") {
		opts.NullString = s.null
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	r := typefmt.NewRegistry()
	if err := ext.Register(r); err != nil {
		return nil, err
	}
	s.log.Debug("formatter ready",
		zap.Bool("pedantic", opts.Pedantic),
		zap.Stringer("relaxed", opts.Relaxed),
		zap.Stringer("error_mode", opts.ErrorMode),
		zap.Stringer("string_precision", opts.StringPrecision))
	return typefmt.New(typefmt.WithRegistry(r), typefmt.WithOptions(opts), typefmt.WithLogger(s.log)), nil
}
