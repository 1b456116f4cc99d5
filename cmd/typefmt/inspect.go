package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bjaus/typefmt"
	"github.com/bjaus/typefmt/internal/report"
)

// directiveRow adds presentation hints to a placeholder report row.
type directiveRow struct {
	typefmt.PlaceholderInfo
	title string
}

func (r directiveRow) Title() string { return r.title }

func (directiveRow) Alignments() []report.Alignment {
	return []report.Alignment{
		report.AlignRight, report.AlignLeft, report.AlignLeft, report.AlignCenter, report.AlignLeft,
		report.AlignLeft, report.AlignRight, report.AlignRight, report.AlignRight,
	}
}

func newInspectCmd(s *settings) *cobra.Command {
	output := report.Table
	cmd := &cobra.Command{
		Use:   "inspect TEMPLATE [ARG...]",
		Short: "show how a template is parsed",
		Long: `
  Runs the validation pass over TEMPLATE and lists every directive with
  its argument, flags, width, precision and the longest text it can
  produce. Arguments are given as for render.
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := s.formatter(cmd)
			if err != nil {
				return err
			}
			values, err := parseArgs(args[1:])
			if err != nil {
				return err
			}
			in, err := f.Inspect(args[0], values...)
			if err != nil {
				return err
			}
			return writeInspection(cmd, output, in)
		},
	}
	cmd.Flags().VarP(&output, "output", "o", "output format: table, markdown, csv, tsv, json, jsonl, yaml or plain")
	return cmd
}

func writeInspection(cmd *cobra.Command, output report.Format, in typefmt.Inspection) error {
	w := cmd.OutOrStdout()
	switch output {
	case report.JSON, report.YAML:
		return report.Write(w, output, in)
	case report.JSONL:
		return report.Write(w, output, in.Placeholders...)
	}
	title := strconv.Quote(in.Template) + " needs " + strconv.Itoa(in.Required) + " units"
	rows := make([]directiveRow, len(in.Placeholders))
	for i, p := range in.Placeholders {
		rows[i] = directiveRow{PlaceholderInfo: p, title: title}
	}
	return report.Write(w, output, rows...)
}
