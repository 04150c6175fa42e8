package historian

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/j-veylop/trending-dashboard-tui/internal/logger"
	"github.com/j-veylop/trending-dashboard-tui/internal/models"
)

// ErrMalformedHistory is returned when the flat history file cannot be decoded.
var ErrMalformedHistory = errors.New("malformed upload history file")

// LoadLegacyFile reads a JSON array of hours. A missing file is an empty
// history, not an error.
func LoadLegacyFile(path string) ([]int, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	var hours []int
	if err := json.Unmarshal(data, &hours); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedHistory, path, err)
	}

	for i, h := range hours {
		if h < 0 || h >= models.HoursPerDay {
			return nil, fmt.Errorf("%w: %s: entry %d is %d, want 0-23", ErrMalformedHistory, path, i, h)
		}
	}
	return hours, nil
}

// SaveLegacyFile writes hours as a JSON array, replacing path atomically.
func SaveLegacyFile(path string, hours []int) error {
	if hours == nil {
		hours = []int{}
	}

	data, err := json.Marshal(hours)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	// Write to temp file first, then rename
	tmpFile := path + ".tmp"
	f, err := os.OpenFile(tmpFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		if removeErr := os.Remove(tmpFile); removeErr != nil {
			logger.Error("failed to remove temp file", "error", removeErr)
		}
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
