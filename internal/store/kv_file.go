package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// fileKV stores each entry as one file under dir, written through the
// atomic [SecureFileSystem]. Keys are restricted to a conservative charset
// so they map directly to file names.
type fileKV struct {
	dir   string
	files SecureFileSystem
}

// NewFileKV opens a file-backed [KVStore] rooted at dir, creating the
// directory if needed.
func NewFileKV(dir string, files SecureFileSystem) (KVStore, error) {
	if err := files.EnsureFolder(dir); err != nil {
		return nil, fmt.Errorf("init kv dir: %w", err)
	}
	return &fileKV{dir: dir, files: files}, nil
}

func (s *fileKV) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\:*?"<>|`) {
		return "", fmt.Errorf("invalid kv key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *fileKV) Get(_ context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := s.files.ReadSecure(p)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
		return nil, err
	}
	return data, nil
}

func (s *fileKV) Set(_ context.Context, key string, value []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	return s.files.WriteSecure(p, value)
}

func (s *fileKV) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete kv entry %s: %w", key, err)
	}
	return nil
}
