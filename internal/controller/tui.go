package controller

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "covrun.dev/pkg/covrun/internal/model"
)

var (
	tuiTitleStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	tuiFooterStyle = lipgloss.NewStyle().Faint(true).Padding(0, 1)
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	cmd    *cobra.Command
	simple *SimpleUI
}

// NewTUI creates a new TUI.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{cmd: cmd, simple: NewSimpleUI(cmd)}
}

// DisplaySummary renders once without interaction, matching SimpleUI.
func (t *TUI) DisplaySummary(ctx context.Context, summary m.Summary, opts SummaryOptions) error {
	return t.simple.DisplaySummary(ctx, summary, opts)
}

// DisplayDiff renders once without interaction, matching SimpleUI.
func (t *TUI) DisplayDiff(ctx context.Context, entries []m.DiffEntry) error {
	return t.simple.DisplayDiff(ctx, entries)
}

// BrowseSummary pages through the summary table. Short tables are printed
// directly; long ones open an alt-screen pager.
func (t *TUI) BrowseSummary(ctx context.Context, summary m.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	content := renderSummaryTable(summary, true)
	width, height := terminalSize(t.cmd.OutOrStdout())

	if !needsPagination(content, height) {
		_, err := fmt.Fprint(t.cmd.OutOrStdout(), content)

		return err
	}

	model := newSummaryBrowseModel(content, summary, width, height)

	program := tea.NewProgram(model, tea.WithOutput(t.cmd.OutOrStdout()), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

func terminalSize(out interface{}) (int, int) {
	if f, ok := out.(*os.File); ok {
		if width, height, err := term.GetSize(int(f.Fd())); err == nil {
			return width, height
		}
	}

	return 80, 24
}

func needsPagination(content string, height int) bool {
	return strings.Count(content, "\n")+3 > height
}

// summaryBrowseModel is the Bubble Tea model paging the rendered table.
type summaryBrowseModel struct {
	viewport viewport.Model
	summary  m.Summary
	quitting bool
}

func newSummaryBrowseModel(content string, summary m.Summary, width, height int) summaryBrowseModel {
	vp := viewport.New(width, height-2)
	vp.SetContent(content)

	return summaryBrowseModel{viewport: vp, summary: summary}
}

// Init implements tea.Model.
func (sm summaryBrowseModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (sm summaryBrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			sm.quitting = true

			return sm, tea.Quit
		case "g", "home":
			sm.viewport.GotoTop()

			return sm, nil
		case "G", "end":
			sm.viewport.GotoBottom()

			return sm, nil
		}
	case tea.WindowSizeMsg:
		sm.viewport.Width = msg.Width
		sm.viewport.Height = msg.Height - 2

		return sm, nil
	}

	var cmd tea.Cmd
	sm.viewport, cmd = sm.viewport.Update(msg)

	return sm, cmd
}

// View implements tea.Model.
func (sm summaryBrowseModel) View() string {
	if sm.quitting {
		return ""
	}

	title := tuiTitleStyle.Render(fmt.Sprintf("coverage %s (%d files)",
		formatPercent(sm.summary.Percent()), len(sm.summary.Files)))
	footer := tuiFooterStyle.Render("j/k scroll · g/G top/bottom · q quit")

	return title + "\n" + sm.viewport.View() + "\n" + footer
}
