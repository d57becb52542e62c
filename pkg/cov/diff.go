package cov

import (
	"fmt"

	"golang.org/x/tools/cover"
)

// DiffProfiles returns the per-block count difference between two profile
// sets taken from the same code. The result has After counts minus Before
// counts, which makes it useful for isolating what a single test run added.
func DiffProfiles(before, after []*cover.Profile) ([]*cover.Profile, error) {
	if len(before) != len(after) {
		return nil, fmt.Errorf("before and after have different numbers of profiles (%d vs %d)", len(before), len(after))
	}

	var diff []*cover.Profile

	for i, b := range before {
		a := after[i]

		if b.FileName != a.FileName {
			return nil, fmt.Errorf("profile #%d: file name mismatch (%s vs %s)", i, b.FileName, a.FileName)
		}

		if len(b.Blocks) != len(a.Blocks) {
			return nil, fmt.Errorf("profile #%d (%s): block count mismatch (%d vs %d)", i, b.FileName, len(b.Blocks), len(a.Blocks))
		}

		d := cover.Profile{FileName: b.FileName, Mode: b.Mode}

		for j, bb := range b.Blocks {
			ab := a.Blocks[j]

			if !blocksEqual(bb, ab) {
				return nil, fmt.Errorf("profile #%d (%s): block #%d does not describe the same code", i, b.FileName, j)
			}

			d.Blocks = append(d.Blocks, cover.ProfileBlock{
				StartLine: bb.StartLine,
				StartCol:  bb.StartCol,
				EndLine:   bb.EndLine,
				EndCol:    bb.EndCol,
				NumStmt:   bb.NumStmt,
				Count:     ab.Count - bb.Count,
			})
		}

		diff = append(diff, &d)
	}

	return diff, nil
}
