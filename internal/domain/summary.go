// Package domain implements the coverage harness workflow: measuring
// test runs under instrumentation and summarizing the resulting datasets.
package domain

import (
	"fmt"
	"path"
	"sort"
	"strings"

	zglob "github.com/mattn/go-zglob"
	"golang.org/x/tools/cover"

	m "covrun.dev/pkg/covrun/internal/model"
)

// SummarizeOptions controls how profiles collapse into a report.
type SummarizeOptions struct {
	// Omit drops files whose path matches any of these glob patterns.
	// Patterns match both the display path and the full import path.
	Omit []string

	// Module, when set, is stripped from profile file names so the report
	// shows repository-relative paths.
	Module string
}

// Summarize collapses parsed cover profiles into per-file statistics:
// statement count, missed statements, and the uncovered line ranges.
func Summarize(profiles []*cover.Profile, opts SummarizeOptions) (m.Summary, error) {
	files := make([]m.FileSummary, 0, len(profiles))

	for _, p := range profiles {
		display := displayPath(p.FileName, opts.Module)

		omitted, err := matchesAny(opts.Omit, display, p.FileName)
		if err != nil {
			return m.Summary{}, err
		}

		if omitted {
			continue
		}

		files = append(files, summarizeFile(p, display))
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return m.Summary{Files: files}, nil
}

// DiffSummaries pairs up two summaries by file path. A file present on
// only one side reports zero on the other side.
func DiffSummaries(before, after m.Summary) []m.DiffEntry {
	percents := make(map[string][2]float64)

	for _, f := range before.Files {
		percents[f.Path] = [2]float64{f.Percent(), 0}
	}

	for _, f := range after.Files {
		entry := percents[f.Path]
		entry[1] = f.Percent()
		percents[f.Path] = entry
	}

	entries := make([]m.DiffEntry, 0, len(percents))
	for path, pair := range percents {
		entries = append(entries, m.DiffEntry{Path: path, Before: pair[0], After: pair[1]})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})

	return entries
}

func summarizeFile(p *cover.Profile, display string) m.FileSummary {
	statements := 0
	missed := 0

	var uncovered []m.LineRange

	for _, b := range p.Blocks {
		statements += b.NumStmt

		if b.Count == 0 && b.NumStmt > 0 {
			missed += b.NumStmt
			uncovered = append(uncovered, m.LineRange{Start: b.StartLine, End: b.EndLine})
		}
	}

	return m.FileSummary{
		Path:       display,
		Statements: statements,
		Missed:     missed,
		Missing:    coalesceRanges(uncovered),
	}
}

// coalesceRanges merges overlapping and adjacent line ranges so the report
// shows "12-18" instead of "12-14,15-18".
func coalesceRanges(ranges []m.LineRange) []m.LineRange {
	if len(ranges) == 0 {
		return nil
	}

	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].Start != ranges[j].Start {
			return ranges[i].Start < ranges[j].Start
		}

		return ranges[i].End < ranges[j].End
	})

	merged := []m.LineRange{ranges[0]}

	for _, r := range ranges[1:] {
		last := &merged[len(merged)-1]

		if r.Start <= last.End+1 {
			if r.End > last.End {
				last.End = r.End
			}

			continue
		}

		merged = append(merged, r)
	}

	return merged
}

func displayPath(fileName, module string) string {
	if module != "" {
		if trimmed := strings.TrimPrefix(fileName, module+"/"); trimmed != fileName {
			return trimmed
		}
	}

	return fileName
}

func matchesAny(patterns []string, candidates ...string) (bool, error) {
	for _, pattern := range patterns {
		matched, err := matchesPattern(pattern, candidates)
		if err != nil {
			return false, err
		}

		if matched {
			return true, nil
		}
	}

	return false, nil
}

// matchesPattern matches a relative pattern anywhere in the path: a glob
// anchors at the start of the candidate and a single * never crosses a
// directory separator, so "*/tests/*" needs the "**/" prefix to drop
// example.com/pkga/tests/helper.go. Bare patterns like "*_test.go" are also
// matched against base names.
func matchesPattern(pattern string, candidates []string) (bool, error) {
	variants := []string{pattern}
	if !strings.HasPrefix(pattern, "/") && !strings.HasPrefix(pattern, "**/") {
		variants = append(variants, "**/"+pattern)
	}

	names := candidates

	if !strings.Contains(pattern, "/") {
		for _, candidate := range candidates {
			names = append(names, path.Base(candidate))
		}
	}

	for _, variant := range variants {
		for _, name := range names {
			matched, err := zglob.Match(variant, name)
			if err != nil {
				return false, fmt.Errorf("invalid omit pattern %q: %w", pattern, err)
			}

			if matched {
				return true, nil
			}
		}
	}

	return false, nil
}
