// Package cas stores the record of rule files written by each generation run.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/buckle/internal/core/domain"
	"go.trai.ch/buckle/internal/core/ports"
	"go.trai.ch/zerr"
)

// StateFileName is the name of the generation record inside the state directory.
const StateFileName = "generation.json"

var _ ports.StateStore = (*Store)(nil)

// Store implements ports.StateStore with one JSON file per project root.
type Store struct{}

// NewStore creates a new StateStore.
func NewStore() (*Store, error) {
	return &Store{}, nil
}

// Get retrieves the state of the last run under root.
func (s *Store) Get(root string) (*domain.GenerationState, error) {
	filename := s.getFilename(root)
	//nolint:gosec // Path is constructed from the project root
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "path", filename)
	}

	var state domain.GenerationState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "path", filename)
	}

	return &state, nil
}

// Put stores the state of the current run under root.
// The record is written to a temporary file and renamed into place.
func (s *Store) Put(root string, state domain.GenerationState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	filename := s.getFilename(root)
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreCreateFailed.Error()), "path", dir)
	}

	tmp := filename + ".tmp"
	//nolint:gosec // Path is constructed from the project root
	if err := os.WriteFile(tmp, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", tmp)
	}
	if err := os.Rename(tmp, filename); err != nil {
		_ = os.Remove(tmp)
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", filename)
	}

	return nil
}

func (s *Store) getFilename(root string) string {
	return filepath.Join(root, domain.DefaultStatePath(), StateFileName)
}
