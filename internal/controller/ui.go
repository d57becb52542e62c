// Package controller provides output adapters for displaying coverage
// results.
package controller

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "covrun.dev/pkg/covrun/internal/model"
)

// Format selects how a summary is rendered.
type Format string

// Available output formats.
const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// SummaryOptions configures summary rendering.
type SummaryOptions struct {
	// ShowMissing adds the per-file uncovered line ranges column.
	ShowMissing bool

	// Format picks the rendering; zero value means table.
	Format Format
}

// UI defines the interface for displaying coverage summaries.
// Implementations can use different output methods (plain text, TUI, etc).
type UI interface {
	// DisplaySummary renders a coverage summary once and returns.
	DisplaySummary(ctx context.Context, summary m.Summary, opts SummaryOptions) error

	// BrowseSummary shows a summary interactively when the output supports
	// it, falling back to a plain rendering otherwise.
	BrowseSummary(ctx context.Context, summary m.Summary) error

	// DisplayDiff renders a per-file coverage comparison.
	DisplayDiff(ctx context.Context, entries []m.DiffEntry) error
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewUI picks the UI implementation for the session: interactive when
// stdout is a terminal, plain otherwise.
func NewUI(cmd *cobra.Command, isTTY bool) UI {
	if isTTY {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}
