package store

import (
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "notionclip-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	store, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSettings(t *testing.T) {
	store := newTestStore(t)

	// Unset keys read back as empty, not as errors.
	value, err := store.Setting(KeyBotID)
	if err != nil {
		t.Fatalf("Setting failed: %v", err)
	}
	if value != "" {
		t.Errorf("Expected empty value for unset key, got %q", value)
	}

	if err := store.SetSetting(KeyBotID, "123456789012345678901234567890123456"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	value, err = store.Setting(KeyBotID)
	if err != nil {
		t.Fatalf("Setting failed: %v", err)
	}
	if value != "123456789012345678901234567890123456" {
		t.Errorf("Unexpected value: %q", value)
	}

	// Overwrite
	if err := store.SetSetting(KeyBotID, "000000000000000000000000000000000000"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	value, _ = store.Setting(KeyBotID)
	if value != "000000000000000000000000000000000000" {
		t.Errorf("Expected overwritten value, got %q", value)
	}
}

func TestRecordClipDedupesByURL(t *testing.T) {
	store := newTestStore(t)

	c1 := &Clip{PageID: "page-1", URL: "https://ex.com", Title: "First", SavedAt: time.Now()}
	if err := store.RecordClip(c1); err != nil {
		t.Fatalf("RecordClip failed: %v", err)
	}

	// Same URL replaces the record instead of adding a second row.
	c2 := &Clip{PageID: "page-1", URL: "https://ex.com", Title: "Updated", SavedAt: time.Now()}
	if err := store.RecordClip(c2); err != nil {
		t.Fatalf("RecordClip failed: %v", err)
	}

	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 clip, got %d", count)
	}

	got, err := store.ClipByURL("https://ex.com")
	if err != nil {
		t.Fatalf("ClipByURL failed: %v", err)
	}
	if got.Title != "Updated" {
		t.Errorf("Expected updated title, got %q", got.Title)
	}
}

func TestClipByURLIsExact(t *testing.T) {
	store := newTestStore(t)

	c := &Clip{PageID: "page-1", URL: "https://a.com/", Title: "Slash", SavedAt: time.Now()}
	if err := store.RecordClip(c); err != nil {
		t.Fatalf("RecordClip failed: %v", err)
	}

	// No normalization: the variant without the trailing slash must miss.
	_, err := store.ClipByURL("https://a.com")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Expected sql.ErrNoRows, got %v", err)
	}
}

func TestClipsOrderedByRecency(t *testing.T) {
	store := newTestStore(t)

	older := &Clip{PageID: "p1", URL: "https://a.com", Title: "Old", SavedAt: time.Now().Add(-time.Hour)}
	newer := &Clip{PageID: "p2", URL: "https://b.com", Title: "New", SavedAt: time.Now()}
	store.RecordClip(older)
	store.RecordClip(newer)

	clips, err := store.Clips(10)
	if err != nil {
		t.Fatalf("Clips failed: %v", err)
	}
	if len(clips) != 2 {
		t.Fatalf("Expected 2 clips, got %d", len(clips))
	}
	if clips[0].Title != "New" {
		t.Errorf("Expected newest first, got %q", clips[0].Title)
	}
}

func TestDeleteClip(t *testing.T) {
	store := newTestStore(t)

	store.RecordClip(&Clip{PageID: "p1", URL: "https://a.com", Title: "A", SavedAt: time.Now()})
	if err := store.DeleteClip("https://a.com"); err != nil {
		t.Fatalf("DeleteClip failed: %v", err)
	}

	count, _ := store.Count()
	if count != 0 {
		t.Errorf("Expected 0 clips after delete, got %d", count)
	}
}
