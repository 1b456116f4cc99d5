package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bjaus/typefmt"
	"github.com/bjaus/typefmt/internal/report"
)

type codeRow struct {
	Result  int    `json:"result" yaml:"result"`
	Name    string `json:"name" yaml:"name"`
	Message string `json:"message" yaml:"message"`
}

func (codeRow) Header() []string { return []string{"RESULT", "NAME", "MESSAGE"} }

func (r codeRow) Row() []string {
	return []string{strconv.Itoa(r.Result), r.Name, r.Message}
}

func (codeRow) Alignments() []report.Alignment {
	return []report.Alignment{report.AlignRight}
}

func (r codeRow) String() string { return r.Name }

func newCodesCmd() *cobra.Command {
	output := report.Table
	cmd := &cobra.Command{
		Use:   "codes",
		Short: "list the failure codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			codes := typefmt.Codes()
			rows := make([]codeRow, len(codes))
			for i, c := range codes {
				rows[i] = codeRow{Result: c.Result(), Name: c.String(), Message: c.Message()}
			}
			return report.Write(cmd.OutOrStdout(), output, rows...)
		},
	}
	cmd.Flags().VarP(&output, "output", "o", "output format: table, markdown, csv, tsv, json, jsonl, yaml or plain")
	return cmd
}
