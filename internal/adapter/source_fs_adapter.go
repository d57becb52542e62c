// Package adapter contains toolchain and infrastructure adapters for the
// covrun CLI.
package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"

	m "covrun.dev/pkg/covrun/internal/model"
)

// SourceFSAdapter abstracts the filesystem operations the harness relies
// on. It hides direct `os` access so the workflow logic can be tested
// without touching the disk.
type SourceFSAdapter interface {
	// FindProjectRoot searches for a go.mod file walking up the directory tree.
	FindProjectRoot(startPath m.Path) (m.Path, error)

	// ModulePath reads the module path declared in the go.mod under root.
	ModulePath(root m.Path) (string, error)

	// FileExists reports whether path names an existing file.
	FileExists(path m.Path) bool

	// CreateTempDir creates a scratch directory for partial datasets.
	CreateTempDir(pattern string) (m.Path, error)

	// RemoveAll removes a directory and all its contents.
	RemoveAll(path m.Path) error

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// LocalSourceFSAdapter is the concrete implementation backed by the os
// package.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// FindProjectRoot searches for a go.mod file walking up the directory tree.
func (a *LocalSourceFSAdapter) FindProjectRoot(startPath m.Path) (m.Path, error) {
	dir, err := filepath.Abs(string(startPath))
	if err != nil {
		return "", err
	}

	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return m.Path(dir), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found in any parent directory of %s", startPath)
		}

		dir = parent
	}
}

// ModulePath reads the module path declared in root/go.mod.
func (a *LocalSourceFSAdapter) ModulePath(root m.Path) (string, error) {
	goModPath := filepath.Join(string(root), "go.mod")

	data, err := os.ReadFile(goModPath)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", goModPath, err)
	}

	module := modfile.ModulePath(data)
	if module == "" {
		return "", fmt.Errorf("no module declaration in %s", goModPath)
	}

	return module, nil
}

// FileExists reports whether path names an existing file.
func (a *LocalSourceFSAdapter) FileExists(path m.Path) bool {
	info, err := os.Stat(string(path))

	return err == nil && !info.IsDir()
}

// CreateTempDir creates a scratch directory for partial datasets.
func (a *LocalSourceFSAdapter) CreateTempDir(pattern string) (m.Path, error) {
	tmpDir, err := os.MkdirTemp("", pattern)
	if err != nil {
		return "", err
	}

	return m.Path(tmpDir), nil
}

// RemoveAll removes a directory and all its contents.
func (a *LocalSourceFSAdapter) RemoveAll(path m.Path) error {
	return os.RemoveAll(string(path))
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
