package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/postgenie/internal/logger"
)

const fileName = "ui-state.json"

// UIState holds wizard display preferences that carry across runs.
type UIState struct {
	Diff DiffState `json:"diff"`
}

// DiffState holds the post text diff preference.
type DiffState struct {
	Visible bool `json:"visible"` // Show the diff instead of the editor
}

// DefaultUIState returns the preferences used on first run.
func DefaultUIState() *UIState {
	return &UIState{}
}

// Load reads the UI state from dataDir. Missing or unreadable files yield
// the defaults.
func Load(dataDir string) *UIState {
	path := filepath.Join(dataDir, fileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Failed to read UI state file: %v", err)
		}
		return DefaultUIState()
	}

	var st UIState
	if err := json.Unmarshal(data, &st); err != nil {
		logger.Warn("Failed to parse UI state JSON: %v", err)
		return DefaultUIState()
	}
	return &st
}

// Save writes the UI state to dataDir, creating it when needed. The file is
// replaced atomically.
func Save(dataDir string, st *UIState) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling UI state: %w", err)
	}

	path := filepath.Join(dataDir, fileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing UI state file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing UI state file: %w", err)
	}

	logger.Debug("UI state saved to %s", path)
	return nil
}
