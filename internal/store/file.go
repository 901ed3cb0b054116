package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/byhelaman/sched-planner/internal/schedule"
)

const (
	fileExt       = ".json"
	tempPrefix    = ".tmp-"
	filePerm      = 0o600
	directoryPerm = 0o750
)

// FileStore keeps one JSON file per collection in a directory. The file's
// modification time is the collection's last-write time.
type FileStore struct {
	dir string
	now func() time.Time
}

// NewFile returns a store rooted at dir, creating the directory if needed.
func NewFile(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, directoryPerm); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

// Dir returns the directory holding the collections.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+fileExt)
}

func (s *FileStore) Create(ctx context.Context, records []schedule.Record) (string, error) {
	id := NewID()
	if err := s.write(id, records); err != nil {
		return "", err
	}
	return id, nil
}

func (s *FileStore) Load(ctx context.Context, id string) ([]schedule.Record, error) {
	if !ValidID(id) {
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read collection %s: %w", id, err)
	}
	return decodeRecords(data)
}

// Replace checks for the file before writing. A Delete or sweep landing
// between the check and the rename can still lose to the write.
func (s *FileStore) Replace(ctx context.Context, id string, records []schedule.Record) error {
	if !ValidID(id) {
		return ErrNotFound
	}
	if _, err := os.Stat(s.path(id)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("stat collection %s: %w", id, err)
	}
	return s.write(id, records)
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if !ValidID(id) {
		return nil
	}
	if err := os.Remove(s.path(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete collection %s: %w", id, err)
	}
	return nil
}

func (s *FileStore) SweepExpired(ctx context.Context, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("list store dir: %w", err)
	}

	cutoff := s.now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// Removed by a concurrent sweep or delete.
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		err = os.Remove(filepath.Join(s.dir, name))
		switch {
		case err == nil:
			removed++
		case errors.Is(err, fs.ErrNotExist):
		default:
			slog.Warn("failed to remove expired collection", "file", name, "error", err)
		}
	}
	return removed, nil
}

func (s *FileStore) Close() error { return nil }

// write replaces the collection file atomically: readers see the old or the
// new content, never a partial file.
func (s *FileStore) write(id string, records []schedule.Record) error {
	data, err := encodeRecords(records)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, tempPrefix+id+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write collection %s: %w", id, err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod collection %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close collection %s: %w", id, err)
	}

	now := s.now()
	if err := os.Chtimes(tmpName, now, now); err != nil {
		return fmt.Errorf("touch collection %s: %w", id, err)
	}
	if err := os.Rename(tmpName, s.path(id)); err != nil {
		return fmt.Errorf("commit collection %s: %w", id, err)
	}
	return nil
}
