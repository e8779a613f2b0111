package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMarkIfNew(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	ctx := context.Background()
	key := "alert:dedup:20260301:01:5"

	tests := []struct {
		name    string
		advance time.Duration
		want    bool
	}{
		{"first mark", 0, true},
		{"repeat within ttl", 10 * time.Minute, false},
		{"after expiry", 31 * time.Minute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now = now.Add(tt.advance)
			got, err := s.MarkIfNew(ctx, key, 30*time.Minute)
			if err != nil {
				t.Fatalf("MarkIfNew() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("MarkIfNew() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMarksSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	if ok, err := first.MarkIfNew(ctx, "alert:dedup:20260301:04:12", time.Hour); err != nil || !ok {
		t.Fatalf("MarkIfNew() = %v, %v", ok, err)
	}

	second, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	ok, err := second.MarkIfNew(ctx, "alert:dedup:20260301:04:12", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("mark written by an earlier instance was not seen")
	}
}

func TestUnmark(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	key := "alert:dedup:20260301:07:3"

	s, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.MarkIfNew(ctx, key, time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := s.Unmark(ctx, key); err != nil {
		t.Fatalf("Unmark() error = %v", err)
	}
	if err := s.Unmark(ctx, "alert:dedup:unknown"); err != nil {
		t.Fatalf("Unmark() of absent key error = %v", err)
	}

	reopened, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	ok, err := reopened.MarkIfNew(ctx, key, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("unmarked key still reported as sent after reopen")
	}
}

func TestSaveMarks_DropsExpired(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	marks := Marks{
		"old":  now.Add(-time.Minute),
		"live": now.Add(time.Minute),
	}
	if err := s.SaveMarks(marks); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.LoadMarks()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 {
		t.Fatalf("len(loaded) = %d, want 1", len(loaded))
	}
	if _, ok := loaded["live"]; !ok {
		t.Error("live mark missing")
	}
}

func TestLoadMarks(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}

	marks, err := s.LoadMarks()
	if err != nil {
		t.Fatalf("LoadMarks() on empty dir error = %v", err)
	}
	if len(marks) != 0 {
		t.Errorf("len(marks) = %d, want 0", len(marks))
	}

	if err := os.WriteFile(filepath.Join(dir, marksFile), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadMarks(); err == nil {
		t.Error("LoadMarks() on corrupt file should fail")
	}
}

func TestNew_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s, err := New("~/state")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, "state"); s.dataDir != want {
		t.Errorf("dataDir = %q, want %q", s.dataDir, want)
	}
}
