package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const marksFile = "sent_notices.json"

// Marks maps a dedup key to the expiry of its mark
type Marks map[string]time.Time

// Storage handles persistence of sent-notice marks
type Storage struct {
	dataDir string
	now     func() time.Time
	mu      sync.Mutex
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
		now:     time.Now,
	}, nil
}

func (s *Storage) marksPath() string {
	return filepath.Join(s.dataDir, marksFile)
}

// LoadMarks loads the marks from disk. A missing file yields no marks.
func (s *Storage) LoadMarks() (Marks, error) {
	data, err := os.ReadFile(s.marksPath())
	if err != nil {
		if os.IsNotExist(err) {
			return Marks{}, nil
		}
		return nil, fmt.Errorf("reading marks: %w", err)
	}

	var marks Marks
	if err := json.Unmarshal(data, &marks); err != nil {
		return nil, fmt.Errorf("parsing marks: %w", err)
	}
	if marks == nil {
		marks = Marks{}
	}
	return marks, nil
}

// SaveMarks writes the marks to disk, dropping expired ones.
func (s *Storage) SaveMarks(marks Marks) error {
	now := s.now()
	for key, expires := range marks {
		if !expires.After(now) {
			delete(marks, key)
		}
	}

	data, err := json.MarshalIndent(marks, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding marks: %w", err)
	}

	// Replace atomically
	tmp := s.marksPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing marks: %w", err)
	}
	if err := os.Rename(tmp, s.marksPath()); err != nil {
		return fmt.Errorf("replacing marks: %w", err)
	}
	return nil
}

// MarkIfNew records key for ttl and reports whether it was not already
// marked.
func (s *Storage) MarkIfNew(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	marks, err := s.LoadMarks()
	if err != nil {
		return false, err
	}
	now := s.now()
	if expires, ok := marks[key]; ok && expires.After(now) {
		return false, nil
	}

	marks[key] = now.Add(ttl)
	if err := s.SaveMarks(marks); err != nil {
		return false, err
	}
	return true, nil
}

// Unmark removes key so the next MarkIfNew for it reports true.
func (s *Storage) Unmark(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	marks, err := s.LoadMarks()
	if err != nil {
		return err
	}
	if _, ok := marks[key]; !ok {
		return nil
	}
	delete(marks, key)
	return s.SaveMarks(marks)
}
