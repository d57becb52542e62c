// Package cov manipulates Go coverage profiles: merging profiles from
// separate test invocations, diffing profiles, and writing profiles back
// out in the standard cover format.
package cov

import (
	"fmt"
	"sort"

	"golang.org/x/tools/cover"
)

// MergeProfiles combines any number of profile sets into a single set,
// sorted by file name. Profiles for the same file must describe the same
// code blocks; block counts are summed (or OR-ed in "set" mode).
func MergeProfiles(sets ...[]*cover.Profile) ([]*cover.Profile, error) {
	var merged []*cover.Profile

	for _, set := range sets {
		for _, p := range set {
			var err error

			merged, err = addProfile(merged, p)
			if err != nil {
				return nil, err
			}
		}
	}

	return merged, nil
}

// addProfile folds p into profiles, keeping the slice sorted by file name.
func addProfile(profiles []*cover.Profile, p *cover.Profile) ([]*cover.Profile, error) {
	i := sort.Search(len(profiles), func(i int) bool {
		return profiles[i].FileName >= p.FileName
	})

	if i < len(profiles) && profiles[i].FileName == p.FileName {
		if err := mergeIntoProfile(profiles[i], p); err != nil {
			return nil, err
		}

		return profiles, nil
	}

	clone := deepCopyProfile(*p)
	profiles = append(profiles, nil)
	copy(profiles[i+1:], profiles[i:])
	profiles[i] = &clone

	return profiles, nil
}

func mergeIntoProfile(into *cover.Profile, from *cover.Profile) error {
	if into.Mode != from.Mode {
		return fmt.Errorf("cannot merge profiles for %s: mode mismatch (%s vs %s)", into.FileName, into.Mode, from.Mode)
	}

	if len(into.Blocks) != len(from.Blocks) {
		return fmt.Errorf("cannot merge profiles for %s: block count mismatch (%d vs %d)", into.FileName, len(into.Blocks), len(from.Blocks))
	}

	for i := range into.Blocks {
		if !blocksEqual(into.Blocks[i], from.Blocks[i]) {
			return fmt.Errorf("cannot merge profiles for %s: block #%d does not describe the same code", into.FileName, i)
		}

		if into.Mode == "set" {
			if from.Blocks[i].Count > 0 {
				into.Blocks[i].Count = 1
			}
		} else {
			into.Blocks[i].Count += from.Blocks[i].Count
		}
	}

	return nil
}

// blocksEqual reports whether two blocks refer to the same code,
// ignoring Count.
func blocksEqual(a, b cover.ProfileBlock) bool {
	return a.StartLine == b.StartLine && a.StartCol == b.StartCol &&
		a.EndLine == b.EndLine && a.EndCol == b.EndCol && a.NumStmt == b.NumStmt
}

func deepCopyProfile(profile cover.Profile) cover.Profile {
	p := profile
	p.Blocks = make([]cover.ProfileBlock, len(profile.Blocks))
	copy(p.Blocks, profile.Blocks)

	return p
}
