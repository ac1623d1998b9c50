package state

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileStore keeps one YAML document per draft under Dir, at
// `<Dir>/<form>/<owner>.yaml` (or `<Dir>/<form>.yaml` without an owner).
type FileStore struct {
	Dir string

	mu sync.Mutex
}

type fileRecord struct {
	Meta  Meta  `yaml:"meta"`
	Draft Draft `yaml:"draft"`
}

// NewFileStore returns a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) path(ref Ref) (string, error) {
	if s.Dir == "" {
		return "", fmt.Errorf("state: file store directory is required")
	}
	key, err := ref.Identifier()
	if err != nil {
		return "", err
	}
	return filepath.Join(s.Dir, filepath.FromSlash(key)+".yaml"), nil
}

func (s *FileStore) Load(_ context.Context, ref Ref) (Draft, Meta, bool, error) {
	path, err := s.path(ref)
	if err != nil {
		return Draft{}, Meta{}, false, err
	}

	s.mu.Lock()
	raw, err := os.ReadFile(path)
	s.mu.Unlock()
	if errors.Is(err, fs.ErrNotExist) {
		return Draft{}, Meta{}, false, nil
	}
	if err != nil {
		return Draft{}, Meta{}, false, fmt.Errorf("state: read %s: %w", path, err)
	}

	var record fileRecord
	if err := yaml.Unmarshal(raw, &record); err != nil {
		return Draft{}, Meta{}, false, fmt.Errorf("state: decode %s: %w", path, err)
	}
	return record.Draft, record.Meta, true, nil
}

// Save writes the draft atomically through a temporary file and rename.
func (s *FileStore) Save(_ context.Context, ref Ref, draft Draft, meta Meta) (Meta, error) {
	path, err := s.path(ref)
	if err != nil {
		return Meta{}, err
	}
	raw, err := yaml.Marshal(fileRecord{Meta: meta, Draft: draft})
	if err != nil {
		return Meta{}, fmt.Errorf("state: encode draft: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Meta{}, fmt.Errorf("state: create %s: %w", filepath.Dir(path), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".draft-*")
	if err != nil {
		return Meta{}, fmt.Errorf("state: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return Meta{}, fmt.Errorf("state: write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return Meta{}, fmt.Errorf("state: close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return Meta{}, fmt.Errorf("state: rename %s: %w", path, err)
	}
	return cloneMeta(meta), nil
}

func (s *FileStore) Delete(_ context.Context, ref Ref) error {
	path, err := s.path(ref)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("state: delete %s: %w", path, err)
	}
	return nil
}
