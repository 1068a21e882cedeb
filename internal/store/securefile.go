package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// OSSecureFiles implements [SecureFileSystem] on the local file system.
// Writes go to a temp file in the target directory followed by a rename, so
// a concurrent reader sees either the old content or the new content, never
// a partial file.
type OSSecureFiles struct{}

// NewOSSecureFiles returns the file-system backed [SecureFileSystem].
func NewOSSecureFiles() SecureFileSystem {
	return OSSecureFiles{}
}

// WriteSecure implements [SecureFileSystem].
func (OSSecureFiles) WriteSecure(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create folder %s: %w", dir, err)
	}

	// Temp file must live in the same directory as the target, otherwise
	// the rename is not guaranteed to be atomic across mount points.
	tmp, err := os.CreateTemp(dir, ".write-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err = os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file into place: %w", err)
	}

	return nil
}

// ReadSecure implements [SecureFileSystem].
func (OSSecureFiles) ReadSecure(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// EnsureFolder implements [SecureFileSystem].
func (OSSecureFiles) EnsureFolder(path string) error {
	if err := os.MkdirAll(path, 0o700); err != nil {
		return fmt.Errorf("ensure folder %s: %w", path, err)
	}
	return nil
}

// ListFolder implements [SecureFileSystem].
func (OSSecureFiles) ListFolder(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list folder %s: %w", path, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
