package cov

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/cover"
)

func TestDiffProfiles_SubtractsCounts(t *testing.T) {
	before := []*cover.Profile{countProfile("a.go", 2, 0)}
	after := []*cover.Profile{countProfile("a.go", 5, 1)}

	diff, err := DiffProfiles(before, after)
	require.NoError(t, err)

	require.Len(t, diff, 1)
	assert.Equal(t, 3, diff[0].Blocks[0].Count)
	assert.Equal(t, 1, diff[0].Blocks[1].Count)
}

func TestDiffProfiles_LengthMismatchFails(t *testing.T) {
	before := []*cover.Profile{countProfile("a.go", 1)}

	_, err := DiffProfiles(before, nil)
	require.Error(t, err)
}

func TestDiffProfiles_FileMismatchFails(t *testing.T) {
	before := []*cover.Profile{countProfile("a.go", 1)}
	after := []*cover.Profile{countProfile("b.go", 1)}

	_, err := DiffProfiles(before, after)
	require.Error(t, err)
}
