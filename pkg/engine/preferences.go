package engine

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// PreferenceStore persists user choices across sessions. The only preference
// today is the display currency.
type PreferenceStore interface {
	Currency() (string, error)
	SetCurrency(code string) error
}

type preferences struct {
	Currency string `json:"currency"`
}

// FilePreferenceStore keeps preferences in a small JSON file. A missing file
// reads as empty defaults.
type FilePreferenceStore struct {
	Path string

	mu sync.Mutex
}

var _ PreferenceStore = &FilePreferenceStore{}

func NewFilePreferenceStore(path string) *FilePreferenceStore {
	return &FilePreferenceStore{Path: path}
}

func (s *FilePreferenceStore) Currency() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, err := s.read()
	if err != nil {
		return "", err
	}

	return prefs.Currency, nil
}

func (s *FilePreferenceStore) SetCurrency(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, err := s.read()
	if err != nil {
		return err
	}

	prefs.Currency = code

	return s.write(prefs)
}

func (s *FilePreferenceStore) read() (preferences, error) {
	var prefs preferences

	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return prefs, nil
		}

		return prefs, errors.Wrapf(err, "failed to read preferences from %s", s.Path)
	}

	if err := json.Unmarshal(data, &prefs); err != nil {
		return preferences{}, errors.Wrapf(err, "failed to parse preferences at %s", s.Path)
	}

	return prefs, nil
}

func (s *FilePreferenceStore) write(prefs preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return errors.Wrap(err, "failed to marshal preferences")
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create preferences dir for %s", s.Path)
	}

	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write preferences to %s", s.Path)
	}

	return nil
}
