package adapter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/tools/cover"

	m "covrun.dev/pkg/covrun/internal/model"
	"covrun.dev/pkg/covrun/pkg/cov"
)

// ErrNoData marks a report step that ran without a coverage dataset in
// place, i.e. the measured run never happened in this directory.
var ErrNoData = errors.New("no coverage data")

// ProfileStore reads and writes coverage datasets in the standard cover
// profile format.
type ProfileStore interface {
	Load(path m.Path) ([]*cover.Profile, error)
	Save(path m.Path, profiles []*cover.Profile) error
}

// LocalProfileStore is the disk-backed ProfileStore.
type LocalProfileStore struct{}

// NewLocalProfileStore constructs a LocalProfileStore.
func NewLocalProfileStore() *LocalProfileStore {
	return &LocalProfileStore{}
}

// Load parses the dataset at path. A missing file maps to ErrNoData so
// callers can tell "report before run" apart from a corrupt dataset.
func (s *LocalProfileStore) Load(path m.Path) ([]*cover.Profile, error) {
	profiles, err := cover.ParseProfiles(string(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s (run the instrumented tests first)", ErrNoData, path)
		}

		return nil, fmt.Errorf("parse coverage profile %s: %w", path, err)
	}

	return profiles, nil
}

// Save writes profiles to path, replacing any previous dataset.
func (s *LocalProfileStore) Save(path m.Path, profiles []*cover.Profile) error {
	f, err := os.Create(string(path))
	if err != nil {
		return fmt.Errorf("create coverage profile %s: %w", path, err)
	}

	defer func() { _ = f.Close() }()

	if err := cov.DumpProfile(profiles, f); err != nil {
		return fmt.Errorf("write coverage profile %s: %w", path, err)
	}

	return nil
}
