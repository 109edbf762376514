// Package yamlstore persists the label vocabulary as a YAML file.
package yamlstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

type vocabFile struct {
	Labels []string `yaml:"labels"`
}

// Store reads and writes one vocabulary file.
type Store struct {
	path string
}

// New creates a store backed by the file at path. The file does not have
// to exist yet.
func New(path string) *Store {
	return &Store{path: path}
}

// Load returns the persisted labels. A missing file is an empty
// vocabulary, not an error.
func (s *Store) Load(ctx context.Context) ([]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}

	var f vocabFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}
	return f.Labels, nil
}

// Save writes labels sorted lexicographically.
func (s *Store) Save(ctx context.Context, labels []string) error {
	sorted := append([]string(nil), labels...)
	sort.Strings(sorted)

	data, err := yaml.Marshal(vocabFile{Labels: sorted})
	if err != nil {
		return fmt.Errorf("serialize vocabulary: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("save vocabulary: %w", err)
	}
	return nil
}

// Close implements vocab.Store.
func (s *Store) Close() error { return nil }
