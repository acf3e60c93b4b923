package recipe

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/pelletier/go-toml/v2"
)

// DefaultStateFile is the marker location relative to the project root.
// Rails ignores tmp/ in version control.
const DefaultStateFile = "tmp/hatch.toml"

// State records which steps of a recipe have been applied to a project.
type State struct {
	Recipe  string   `toml:"recipe"`
	Applied []string `toml:"applied"`

	path string
}

// LoadState reads the marker at path. A missing file, or one written by a
// different recipe, yields an empty state.
func LoadState(path, recipe string) (*State, error) {
	s := &State{Recipe: recipe, path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	var stored State
	if err := toml.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("parsing state file %s: %w", path, err)
	}
	if stored.Recipe == recipe {
		s.Applied = stored.Applied
	}
	return s, nil
}

// Path returns the marker file location.
func (s *State) Path() string {
	return s.path
}

// Done reports whether step has been applied.
func (s *State) Done(step string) bool {
	return slices.Contains(s.Applied, step)
}

// Reset forgets every applied step. Nothing is written until the next Save.
func (s *State) Reset() {
	s.Applied = nil
}

// Mark records step as applied in memory.
func (s *State) Mark(step string) {
	if !s.Done(step) {
		s.Applied = append(s.Applied, step)
	}
}

// Save writes the marker atomically.
func (s *State) Save() error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing state file: %w", err)
	}
	return nil
}
