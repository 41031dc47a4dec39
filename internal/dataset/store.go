package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// SnapshotLayout is the UTC timestamp embedded in snapshot names.
const SnapshotLayout = "20060102150405"

// FileStore keeps the dataset as CSV files under one directory: an
// immutable timestamped snapshot per write plus an overwritten latest file.
type FileStore struct {
	dir  string
	name string
}

// NewFileStore constructs a store writing {name}_latest.csv and
// {name}_extracted_{timestamp}.csv under dir.
func NewFileStore(dir, name string) *FileStore {
	return &FileStore{dir: dir, name: name}
}

// Dir exposes the root directory.
func (s *FileStore) Dir() string { return s.dir }

// LatestPath is where the next run reads its starting state.
func (s *FileStore) LatestPath() string {
	return filepath.Join(s.dir, s.name+"_latest.csv")
}

// SnapshotPath is the immutable copy written at.
func (s *FileStore) SnapshotPath(at time.Time) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_extracted_%s.csv", s.name, at.UTC().Format(SnapshotLayout)))
}

// Load reads the latest file. A missing file returns ErrNotFound.
func (s *FileStore) Load() (*Dataset, error) {
	if s == nil {
		return nil, errors.New("dataset store not configured")
	}
	f, err := os.Open(s.LatestPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", s.LatestPath(), ErrNotFound)
		}
		return nil, err
	}
	defer f.Close()

	rows, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.LatestPath(), err)
	}
	ds, err := New(rows...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.LatestPath(), err)
	}
	return ds, nil
}

// Modified returns when the latest file was last written. A missing file
// returns ErrNotFound.
func (s *FileStore) Modified() (time.Time, error) {
	if s == nil {
		return time.Time{}, errors.New("dataset store not configured")
	}
	info, err := os.Stat(s.LatestPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, fmt.Errorf("%s: %w", s.LatestPath(), ErrNotFound)
		}
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// Save writes the dataset, sorted by date, as a snapshot stamped at and as
// the latest file. It returns the snapshot path.
func (s *FileStore) Save(ds *Dataset, at time.Time) (string, error) {
	if s == nil {
		return "", errors.New("dataset store not configured")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, ds.Rows()); err != nil {
		return "", err
	}
	data := buf.Bytes()

	snapshot := s.SnapshotPath(at)
	if err := writeAtomic(snapshot, data); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	if err := writeAtomic(s.LatestPath(), data); err != nil {
		return "", fmt.Errorf("write latest: %w", err)
	}
	return snapshot, nil
}

// Snapshots lists snapshot files, oldest first.
func (s *FileStore) Snapshots() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, s.name+"_extracted_*.csv"))
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
