// Package storage persists schedule snapshots between runs: the published
// output JSON (the exact legacy feed shape) and the baseline state the differ
// compares against. Writes are atomic via a temp-file rename so a crash never
// leaves a half-written feed behind.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gpv-watch/gpvwatch/internal/schedule"
)

// Store reads and writes the two persisted files.
type Store struct {
	outputPath   string
	baselinePath string
	filePerm     os.FileMode
	dirPerm      os.FileMode
}

// Baseline is the previous-state file the differ compares against. It keeps
// only the fact payload plus bookkeeping stamps.
type Baseline struct {
	Data      schedule.FactData `json:"data"`
	Update    string            `json:"update"`
	Timestamp string            `json:"timestamp"`
}

// New creates a store for the given file paths.
func New(outputPath, baselinePath string) *Store {
	return &Store{
		outputPath:   outputPath,
		baselinePath: baselinePath,
		filePerm:     0o644,
		dirPerm:      0o755,
	}
}

// LoadOutput reads the persisted output snapshot. Returns (nil, nil) when no
// file exists yet.
func (s *Store) LoadOutput() (*schedule.Snapshot, error) {
	var snap schedule.Snapshot
	ok, err := s.load(s.outputPath, &snap)
	if err != nil || !ok {
		return nil, err
	}
	return &snap, nil
}

// SaveOutput writes the output snapshot atomically.
func (s *Store) SaveOutput(snap *schedule.Snapshot) error {
	return s.save(s.outputPath, snap)
}

// DeleteOutput removes the output file, used when downstream publication of a
// fresh snapshot fails and the stale file must not masquerade as current.
// Reports whether a file was removed.
func (s *Store) DeleteOutput() (bool, error) {
	err := os.Remove(s.outputPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete output: %w", err)
	}
	return true, nil
}

// LoadBaseline reads the previous-state file. Returns (nil, nil) when there
// is no baseline yet; the first run then produces no change signals.
func (s *Store) LoadBaseline() (*Baseline, error) {
	var b Baseline
	ok, err := s.load(s.baselinePath, &b)
	if err != nil || !ok {
		return nil, err
	}
	return &b, nil
}

// SaveBaseline records the snapshot's fact payload as the next run's
// comparison baseline.
func (s *Store) SaveBaseline(snap *schedule.Snapshot, now time.Time) error {
	b := Baseline{
		Data:      snap.Fact.Data,
		Update:    snap.Fact.Update,
		Timestamp: now.Format(time.RFC3339),
	}
	return s.save(s.baselinePath, &b)
}

func (s *Store) load(path string, v any) (bool, error) {
	// Clean up any stale temp file from a previous crash.
	tempPath := path + ".tmp"
	if _, err := os.Stat(tempPath); err == nil {
		_ = os.Remove(tempPath)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}
	return true, nil
}

func (s *Store) save(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), s.dirPerm); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, s.filePerm); err != nil {
		return fmt.Errorf("failed to write %s: %w", tempPath, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename %s: %w", tempPath, err)
	}
	return nil
}
