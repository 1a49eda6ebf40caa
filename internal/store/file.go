package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// snapshotName is the blob name each user's state is stored under.
const snapshotName = "savearn-data.json"

// FileSnapshots keeps one JSON snapshot file per user under a data directory.
type FileSnapshots struct {
	dir string
}

// NewFileSnapshots returns a snapshot store rooted at dir.
func NewFileSnapshots(dir string) *FileSnapshots {
	return &FileSnapshots{dir: dir}
}

// Path returns the snapshot file for userID.
func (f *FileSnapshots) Path(userID string) string {
	return filepath.Join(f.dir, safeName(userID), snapshotName)
}

// LoadSnapshot reads the user's snapshot.
func (f *FileSnapshots) LoadSnapshot(_ context.Context, userID string) ([]byte, error) {
	//nolint:gosec // path is derived from the configured data dir
	data, err := os.ReadFile(f.Path(userID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return data, nil
}

// SaveSnapshot replaces the user's snapshot atomically.
func (f *FileSnapshots) SaveSnapshot(_ context.Context, userID string, data []byte) error {
	path := f.Path(userID)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".savearn-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}

// EraseSnapshot removes the user's snapshot. Erasing a missing snapshot is not an error.
func (f *FileSnapshots) EraseSnapshot(_ context.Context, userID string) error {
	err := os.Remove(f.Path(userID))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing snapshot: %w", err)
	}
	return nil
}

// safeName maps a user id onto a single path element, one to one. Lowercase
// letters, digits, '-', '@' and non-leading '.' pass through; every other byte,
// uppercase included, becomes "_xx" in lowercase hex.
func safeName(userID string) string {
	if userID == "" {
		return "_"
	}
	var b strings.Builder
	for i := 0; i < len(userID); i++ {
		c := userID[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-', c == '@', c == '.' && i > 0:
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "_%02x", c)
		}
	}
	return b.String()
}
