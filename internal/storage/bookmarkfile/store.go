// Package bookmarkfile persists the bookmark id set to a plain text file,
// one id per line.
package bookmarkfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const filePermissions = 0644

// Store is a file-backed bookmark repository. Save replaces the file
// wholesale through a temp file and rename, so readers never observe a
// partially written set.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted ids. A missing file is a first run, not an
// error: it loads as the empty set.
func (s *Store) Load(ctx context.Context) ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read bookmark file: %w", err)
	}

	var ids []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ids = append(ids, line)
	}
	return ids, nil
}

// Save rewrites the file with the given ids, one per line.
func (s *Store) Save(ctx context.Context, ids []string) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create bookmark dir: %w", err)
		}
	}

	var b strings.Builder
	for _, id := range ids {
		b.WriteString(id)
		b.WriteByte('\n')
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(b.String()), filePermissions); err != nil {
		return fmt.Errorf("write bookmark file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace bookmark file: %w", err)
	}
	return nil
}
