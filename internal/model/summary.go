// Package model defines the data structures for coverage summaries.
package model

import (
	"fmt"
	"strings"
)

// LineRange is a contiguous run of source lines that no test executed.
type LineRange struct {
	Start int
	End   int
}

// String renders the range the way coverage reports conventionally do:
// "42" for a single line, "42-57" for a run.
func (r LineRange) String() string {
	if r.Start == r.End {
		return fmt.Sprintf("%d", r.Start)
	}

	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// FormatRanges joins line ranges into a single annotation column value.
func FormatRanges(ranges []LineRange) string {
	parts := make([]string, 0, len(ranges))
	for _, r := range ranges {
		parts = append(parts, r.String())
	}

	return strings.Join(parts, ",")
}

// FileSummary holds the coverage statistics for a single instrumented file.
type FileSummary struct {
	Path       string      `json:"path" yaml:"path"`
	Statements int         `json:"statements" yaml:"statements"`
	Missed     int         `json:"missed" yaml:"missed"`
	Missing    []LineRange `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// Percent returns the covered share of statements, 0..100.
// A file with no statements counts as fully covered.
func (f FileSummary) Percent() float64 {
	if f.Statements == 0 {
		return 100.0
	}

	return float64(f.Statements-f.Missed) / float64(f.Statements) * 100.0
}

// Summary is the per-file coverage breakdown for one profile.
type Summary struct {
	Files []FileSummary `json:"files" yaml:"files"`
}

// TotalStatements sums statements across all files.
func (s Summary) TotalStatements() int {
	total := 0
	for _, f := range s.Files {
		total += f.Statements
	}

	return total
}

// TotalMissed sums missed statements across all files.
func (s Summary) TotalMissed() int {
	total := 0
	for _, f := range s.Files {
		total += f.Missed
	}

	return total
}

// Percent returns the overall covered share of statements, 0..100.
func (s Summary) Percent() float64 {
	total := s.TotalStatements()
	if total == 0 {
		return 100.0
	}

	return float64(total-s.TotalMissed()) / float64(total) * 100.0
}

// DiffEntry describes how the coverage of one file moved between two profiles.
type DiffEntry struct {
	Path   string
	Before float64
	After  float64
}

// Delta is the percentage-point change between the two profiles.
func (d DiffEntry) Delta() float64 {
	return d.After - d.Before
}
