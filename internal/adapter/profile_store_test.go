package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/cover"

	m "covrun.dev/pkg/covrun/internal/model"
)

const sampleProfile = `mode: set
example.com/pkga/auction.go:10.2,14.3 3 1
example.com/pkga/auction.go:16.2,20.3 2 0
example.com/pkga/bids.go:5.2,7.3 1 1
`

func TestProfileStore_LoadParsesDataset(t *testing.T) {
	store := NewLocalProfileStore()
	path := filepath.Join(t.TempDir(), "coverage.out")
	require.NoError(t, os.WriteFile(path, []byte(sampleProfile), 0o644))

	profiles, err := store.Load(m.Path(path))
	require.NoError(t, err)

	require.Len(t, profiles, 2)
	assert.Equal(t, "example.com/pkga/auction.go", profiles[0].FileName)
	assert.Equal(t, "set", profiles[0].Mode)
	require.Len(t, profiles[0].Blocks, 2)
	assert.Equal(t, 3, profiles[0].Blocks[0].NumStmt)
}

func TestProfileStore_LoadMissingDatasetIsNoData(t *testing.T) {
	store := NewLocalProfileStore()
	path := filepath.Join(t.TempDir(), "coverage.out")

	_, err := store.Load(m.Path(path))
	require.ErrorIs(t, err, ErrNoData)
}

func TestProfileStore_SaveRoundTrips(t *testing.T) {
	store := NewLocalProfileStore()
	path := filepath.Join(t.TempDir(), "merged.out")

	profiles := []*cover.Profile{{
		FileName: "example.com/pkga/auction.go",
		Mode:     "count",
		Blocks: []cover.ProfileBlock{
			{StartLine: 1, StartCol: 2, EndLine: 4, EndCol: 3, NumStmt: 2, Count: 5},
		},
	}}

	require.NoError(t, store.Save(m.Path(path), profiles))

	loaded, err := store.Load(m.Path(path))
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, profiles[0].Blocks, loaded[0].Blocks)
}

func TestProfileStore_SaveOverwritesPreviousDataset(t *testing.T) {
	store := NewLocalProfileStore()
	path := filepath.Join(t.TempDir(), "coverage.out")
	require.NoError(t, os.WriteFile(path, []byte(sampleProfile), 0o644))

	profiles := []*cover.Profile{{
		FileName: "example.com/pkga/other.go",
		Mode:     "set",
		Blocks: []cover.ProfileBlock{
			{StartLine: 1, StartCol: 2, EndLine: 2, EndCol: 3, NumStmt: 1, Count: 1},
		},
	}}

	require.NoError(t, store.Save(m.Path(path), profiles))

	loaded, err := store.Load(m.Path(path))
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "example.com/pkga/other.go", loaded[0].FileName)
}
