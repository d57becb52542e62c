package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	m "covrun.dev/pkg/covrun/internal/model"
)

// SimpleUI implements UI by printing to the cobra command's output.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplaySummary renders the summary in the requested format.
func (s *SimpleUI) DisplaySummary(ctx context.Context, summary m.Summary, opts SummaryOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch opts.Format {
	case FormatJSON:
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("encode summary: %w", err)
		}

		s.printf("%s\n", data)
	case FormatYAML:
		data, err := yaml.Marshal(summary)
		if err != nil {
			return fmt.Errorf("encode summary: %w", err)
		}

		s.printf("%s", data)
	case FormatTable, "":
		s.printf("%s", renderSummaryTable(summary, opts.ShowMissing))
	default:
		return fmt.Errorf("unknown output format %q", opts.Format)
	}

	return nil
}

// BrowseSummary has no interactive mode; it prints the table once.
func (s *SimpleUI) BrowseSummary(ctx context.Context, summary m.Summary) error {
	return s.DisplaySummary(ctx, summary, SummaryOptions{ShowMissing: true})
}

// DisplayDiff renders a per-file coverage comparison table.
func (s *SimpleUI) DisplayDiff(ctx context.Context, entries []m.DiffEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s", renderDiffTable(entries))

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func renderSummaryTable(summary m.Summary, showMissing bool) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)

	header := []string{"File", "Stmts", "Miss", "Cover"}
	if showMissing {
		header = append(header, "Missing")
	}

	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")

	alignments := []int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	}
	if showMissing {
		alignments = append(alignments, tablewriter.ALIGN_LEFT)
	}

	table.SetColumnAlignment(alignments)

	for _, f := range summary.Files {
		row := []string{
			f.Path,
			fmt.Sprintf("%d", f.Statements),
			fmt.Sprintf("%d", f.Missed),
			formatPercent(f.Percent()),
		}
		if showMissing {
			row = append(row, m.FormatRanges(f.Missing))
		}

		table.Append(row)
	}

	footer := []string{
		"TOTAL",
		fmt.Sprintf("%d", summary.TotalStatements()),
		fmt.Sprintf("%d", summary.TotalMissed()),
		formatPercent(summary.Percent()),
	}
	if showMissing {
		footer = append(footer, "")
	}

	table.SetFooter(footer)
	table.Render()

	return buf.String()
}

func renderDiffTable(entries []m.DiffEntry) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"File", "Before", "After", "Delta"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})

	for _, e := range entries {
		table.Append([]string{
			e.Path,
			formatPercent(e.Before),
			formatPercent(e.After),
			fmt.Sprintf("%+.1f%%", e.Delta()),
		})
	}

	table.Render()

	return buf.String()
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}
