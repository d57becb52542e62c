package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	m "covrun.dev/pkg/covrun/internal/model"
)

func sampleSummary() m.Summary {
	return m.Summary{Files: []m.FileSummary{
		{Path: "pkga/auction.go", Statements: 10, Missed: 4, Missing: []m.LineRange{{Start: 12, End: 18}, {Start: 31, End: 31}}},
		{Path: "pkga/bids.go", Statements: 5, Missed: 0},
	}}
}

func newTestUI(t *testing.T) (*SimpleUI, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer

	cmd := &cobra.Command{Use: "covrun"}
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)

	return NewSimpleUI(cmd), &buf
}

func TestDisplaySummary_TableColumns(t *testing.T) {
	ui, buf := newTestUI(t)

	err := ui.DisplaySummary(context.Background(), sampleSummary(), SummaryOptions{ShowMissing: true})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "FILE")
	assert.Contains(t, out, "STMTS")
	assert.Contains(t, out, "MISS")
	assert.Contains(t, out, "COVER")
	assert.Contains(t, out, "MISSING")
	assert.Contains(t, out, "pkga/auction.go")
	assert.Contains(t, out, "60.0%")
	assert.Contains(t, out, "12-18,31")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "73.3%")
}

func TestDisplaySummary_MissingColumnIsOptional(t *testing.T) {
	ui, withBuf := newTestUI(t)
	require.NoError(t, ui.DisplaySummary(context.Background(), sampleSummary(), SummaryOptions{ShowMissing: true}))

	ui2, withoutBuf := newTestUI(t)
	require.NoError(t, ui2.DisplaySummary(context.Background(), sampleSummary(), SummaryOptions{}))

	assert.NotContains(t, withoutBuf.String(), "MISSING")
	assert.NotContains(t, withoutBuf.String(), "12-18")

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(withoutBuf.String()),
		B:        difflib.SplitLines(withBuf.String()),
		FromFile: "plain",
		ToFile:   "missing",
		Context:  1,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, diff, "the -m flag must change the rendering:\n%s", diff)
}

func TestDisplaySummary_JSON(t *testing.T) {
	ui, buf := newTestUI(t)

	err := ui.DisplaySummary(context.Background(), sampleSummary(), SummaryOptions{Format: FormatJSON})
	require.NoError(t, err)

	var decoded m.Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Files, 2)
	assert.Equal(t, 10, decoded.Files[0].Statements)
}

func TestDisplaySummary_YAML(t *testing.T) {
	ui, buf := newTestUI(t)

	err := ui.DisplaySummary(context.Background(), sampleSummary(), SummaryOptions{Format: FormatYAML})
	require.NoError(t, err)

	var decoded m.Summary
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Files, 2)
	assert.Equal(t, "pkga/bids.go", decoded.Files[1].Path)
}

func TestDisplaySummary_UnknownFormatFails(t *testing.T) {
	ui, _ := newTestUI(t)

	err := ui.DisplaySummary(context.Background(), sampleSummary(), SummaryOptions{Format: Format("xml")})
	require.Error(t, err)
}

func TestDisplayDiff(t *testing.T) {
	ui, buf := newTestUI(t)

	entries := []m.DiffEntry{
		{Path: "pkga/auction.go", Before: 60.0, After: 75.0},
		{Path: "pkga/bids.go", Before: 100.0, After: 80.0},
	}

	require.NoError(t, ui.DisplayDiff(context.Background(), entries))

	out := buf.String()
	assert.Contains(t, out, "+15.0%")
	assert.Contains(t, out, "-20.0%")
}

func TestDisplaySummary_CancelledContext(t *testing.T) {
	ui, buf := newTestUI(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ui.DisplaySummary(ctx, sampleSummary(), SummaryOptions{})
	require.Error(t, err)
	assert.Empty(t, buf.String())
}
