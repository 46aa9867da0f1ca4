package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// diskStore implements Store on a single local directory.
// It is safe for concurrent use; overwrites are atomic via rename, so a
// concurrent reader sees either the old content or the new, never a mix.
type diskStore struct {
	root string
}

// NewDisk creates a disk-backed store rooted at dir, creating the directory
// if it does not exist. Creation is idempotent.
func NewDisk(dir string) (Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("store directory is required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve store directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &diskStore{root: abs}, nil
}

// resolve maps a bare filename to a path inside the root, rejecting any
// name that would escape it.
func (d *diskStore) resolve(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("filename is required")
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid filename %q", name)
	}
	return filepath.Join(d.root, name), nil
}

// Write stores content under name. The payload goes to a temporary file in
// the same directory first and is renamed into place on success, so a
// crash or concurrent read never exposes partial content.
func (d *diskStore) Write(ctx context.Context, name string, content []byte) (FileInfo, error) {
	path, err := d.resolve(name)
	if err != nil {
		return FileInfo{}, err
	}

	tmp, err := os.CreateTemp(d.root, "."+name+".*")
	if err != nil {
		return FileInfo{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return FileInfo{}, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return FileInfo{}, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return FileInfo{}, fmt.Errorf("rename into place: %w", err)
	}

	st, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("stat stored file: %w", err)
	}
	return FileInfo{Name: name, Size: st.Size(), ModTime: st.ModTime()}, nil
}

// Open returns the stored file content as a reader along with its info.
func (d *diskStore) Open(ctx context.Context, name string) (io.ReadCloser, FileInfo, error) {
	path, err := d.resolve(name)
	if err != nil {
		// Treat malformed names as absent rather than leaking path details.
		return nil, FileInfo{}, fs.ErrNotExist
	}

	st, err := os.Stat(path)
	if err != nil {
		return nil, FileInfo{}, err
	}
	if st.IsDir() {
		return nil, FileInfo{}, fs.ErrNotExist
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, FileInfo{}, err
	}
	return f, FileInfo{Name: name, Size: st.Size(), ModTime: st.ModTime()}, nil
}
