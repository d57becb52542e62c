package cov

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/cover"
)

func countProfile(file string, counts ...int) *cover.Profile {
	p := &cover.Profile{FileName: file, Mode: "count"}
	for i, c := range counts {
		p.Blocks = append(p.Blocks, cover.ProfileBlock{
			StartLine: i*10 + 1, StartCol: 2,
			EndLine: i*10 + 5, EndCol: 3,
			NumStmt: 2, Count: c,
		})
	}

	return p
}

func TestMergeProfiles_SameFileAddsCounts(t *testing.T) {
	a := []*cover.Profile{countProfile("a.go", 3, 0)}
	b := []*cover.Profile{countProfile("a.go", 7, 2)}

	merged, err := MergeProfiles(a, b)
	require.NoError(t, err)

	require.Len(t, merged, 1)
	assert.Equal(t, 10, merged[0].Blocks[0].Count)
	assert.Equal(t, 2, merged[0].Blocks[1].Count)
}

func TestMergeProfiles_DisjointFilesSorted(t *testing.T) {
	a := []*cover.Profile{countProfile("b.go", 1)}
	b := []*cover.Profile{countProfile("a.go", 2)}

	merged, err := MergeProfiles(a, b)
	require.NoError(t, err)

	require.Len(t, merged, 2)
	assert.Equal(t, "a.go", merged[0].FileName)
	assert.Equal(t, "b.go", merged[1].FileName)
}

func TestMergeProfiles_SetModeStaysBoolean(t *testing.T) {
	a := []*cover.Profile{{
		FileName: "a.go",
		Mode:     "set",
		Blocks: []cover.ProfileBlock{
			{StartLine: 1, StartCol: 1, EndLine: 2, EndCol: 2, NumStmt: 1, Count: 1},
			{StartLine: 3, StartCol: 1, EndLine: 4, EndCol: 2, NumStmt: 1, Count: 0},
		},
	}}
	b := []*cover.Profile{{
		FileName: "a.go",
		Mode:     "set",
		Blocks: []cover.ProfileBlock{
			{StartLine: 1, StartCol: 1, EndLine: 2, EndCol: 2, NumStmt: 1, Count: 1},
			{StartLine: 3, StartCol: 1, EndLine: 4, EndCol: 2, NumStmt: 1, Count: 0},
		},
	}}

	merged, err := MergeProfiles(a, b)
	require.NoError(t, err)

	require.Len(t, merged, 1)
	assert.Equal(t, 1, merged[0].Blocks[0].Count)
	assert.Equal(t, 0, merged[0].Blocks[1].Count)
}

func TestMergeProfiles_ModeMismatchFails(t *testing.T) {
	a := []*cover.Profile{countProfile("a.go", 1)}
	b := []*cover.Profile{countProfile("a.go", 1)}
	b[0].Mode = "set"

	_, err := MergeProfiles(a, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mode mismatch")
}

func TestMergeProfiles_BlockMismatchFails(t *testing.T) {
	a := []*cover.Profile{countProfile("a.go", 1)}
	b := []*cover.Profile{countProfile("a.go", 1)}
	b[0].Blocks[0].EndLine = 99

	_, err := MergeProfiles(a, b)
	require.Error(t, err)
}

func TestMergeProfiles_DoesNotAliasInput(t *testing.T) {
	a := []*cover.Profile{countProfile("a.go", 3)}

	merged, err := MergeProfiles(a)
	require.NoError(t, err)

	merged[0].Blocks[0].Count = 42
	assert.Equal(t, 3, a[0].Blocks[0].Count)
}
