package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gpv-watch/gpvwatch/internal/schedule"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	return New(filepath.Join(dir, "data", "output.json"), filepath.Join(dir, "data", "prev-state.json"))
}

func testSnapshot() *schedule.Snapshot {
	gs := schedule.AllYes()
	gs["5"] = schedule.StateNo
	data := schedule.FactData{
		"1733608800": {"GPV1.1": gs},
	}
	return schedule.NewSnapshot("Zhytomyr", data, "06:54 08.12.2025", 1733608800, time.Date(2025, 12, 8, 6, 55, 0, 0, time.UTC))
}

func TestLoadOutputAbsent(t *testing.T) {
	s := newTestStore(t)
	snap, err := s.LoadOutput()
	if err != nil {
		t.Fatalf("LoadOutput failed: %v", err)
	}
	if snap != nil {
		t.Error("expected nil snapshot for absent file")
	}
}

func TestSaveAndLoadOutput(t *testing.T) {
	s := newTestStore(t)
	want := testSnapshot()

	if err := s.SaveOutput(want); err != nil {
		t.Fatalf("SaveOutput failed: %v", err)
	}

	got, err := s.LoadOutput()
	if err != nil {
		t.Fatalf("LoadOutput failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected a snapshot")
	}
	if got.RegionID != want.RegionID {
		t.Errorf("RegionID = %q, want %q", got.RegionID, want.RegionID)
	}
	if got.Fact.Update != want.Fact.Update {
		t.Errorf("Update = %q, want %q", got.Fact.Update, want.Fact.Update)
	}
	if !got.Fact.Data.Equal(want.Fact.Data) {
		t.Error("fact data did not survive the round trip")
	}
}

func TestSaveOutputIsAtomic(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveOutput(testSnapshot()); err != nil {
		t.Fatalf("SaveOutput failed: %v", err)
	}
	if _, err := os.Stat(s.outputPath + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after save")
	}
}

func TestLoadCleansStaleTempFile(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveOutput(testSnapshot()); err != nil {
		t.Fatalf("SaveOutput failed: %v", err)
	}

	stale := s.outputPath + ".tmp"
	if err := os.WriteFile(stale, []byte("{truncated"), 0o644); err != nil {
		t.Fatalf("failed to seed temp file: %v", err)
	}

	if _, err := s.LoadOutput(); err != nil {
		t.Fatalf("LoadOutput failed: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale temp file was not cleaned up")
	}
}

func TestLoadOutputCorrupt(t *testing.T) {
	s := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(s.outputPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.outputPath, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := s.LoadOutput()
	if err == nil {
		t.Fatal("expected an error for corrupt output")
	}
	if !strings.Contains(err.Error(), "unmarshal") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDeleteOutput(t *testing.T) {
	s := newTestStore(t)

	removed, err := s.DeleteOutput()
	if err != nil {
		t.Fatalf("DeleteOutput failed: %v", err)
	}
	if removed {
		t.Error("reported a removal with no file present")
	}

	if err := s.SaveOutput(testSnapshot()); err != nil {
		t.Fatalf("SaveOutput failed: %v", err)
	}
	removed, err = s.DeleteOutput()
	if err != nil {
		t.Fatalf("DeleteOutput failed: %v", err)
	}
	if !removed {
		t.Error("expected a removal")
	}
	if _, err := os.Stat(s.outputPath); !os.IsNotExist(err) {
		t.Error("output file still present")
	}
}

func TestBaselineRoundTrip(t *testing.T) {
	s := newTestStore(t)

	b, err := s.LoadBaseline()
	if err != nil {
		t.Fatalf("LoadBaseline failed: %v", err)
	}
	if b != nil {
		t.Error("expected nil baseline for absent file")
	}

	snap := testSnapshot()
	now := time.Date(2025, 12, 8, 7, 0, 0, 0, time.UTC)
	if err := s.SaveBaseline(snap, now); err != nil {
		t.Fatalf("SaveBaseline failed: %v", err)
	}

	b, err = s.LoadBaseline()
	if err != nil {
		t.Fatalf("LoadBaseline failed: %v", err)
	}
	if b == nil {
		t.Fatal("expected a baseline")
	}
	if b.Update != snap.Fact.Update {
		t.Errorf("Update = %q, want %q", b.Update, snap.Fact.Update)
	}
	if b.Timestamp != now.Format(time.RFC3339) {
		t.Errorf("Timestamp = %q", b.Timestamp)
	}
	if !b.Data.Equal(snap.Fact.Data) {
		t.Error("baseline data did not survive the round trip")
	}
}
