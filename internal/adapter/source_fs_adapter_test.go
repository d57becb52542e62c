package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "covrun.dev/pkg/covrun/internal/model"
)

func writeModule(t *testing.T, module string) string {
	t.Helper()

	root := t.TempDir()
	goMod := "module " + module + "\n\ngo 1.25\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte(goMod), 0o644))

	return root
}

func TestFindProjectRoot_FromNestedDir(t *testing.T) {
	fs := NewLocalSourceFSAdapter()
	root := writeModule(t, "example.com/pkga")

	nested := filepath.Join(root, "internal", "deep")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, err := fs.FindProjectRoot(m.Path(nested))
	require.NoError(t, err)
	assert.Equal(t, m.Path(root), got)
}

func TestFindProjectRoot_NoModuleFails(t *testing.T) {
	fs := NewLocalSourceFSAdapter()

	// t.TempDir lives outside any Go module.
	dir := t.TempDir()

	_, err := fs.FindProjectRoot(m.Path(dir))
	require.Error(t, err)
}

func TestModulePath(t *testing.T) {
	fs := NewLocalSourceFSAdapter()
	root := writeModule(t, "example.com/pkga")

	module, err := fs.ModulePath(m.Path(root))
	require.NoError(t, err)
	assert.Equal(t, "example.com/pkga", module)
}

func TestFileExists(t *testing.T) {
	fs := NewLocalSourceFSAdapter()
	dir := t.TempDir()

	assert.False(t, fs.FileExists(m.Path(filepath.Join(dir, "nope.out"))))

	path := filepath.Join(dir, "coverage.out")
	require.NoError(t, os.WriteFile(path, []byte("mode: set\n"), 0o644))
	assert.True(t, fs.FileExists(m.Path(path)))

	assert.False(t, fs.FileExists(m.Path(dir)), "directories are not files")
}
