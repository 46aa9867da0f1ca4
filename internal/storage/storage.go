package storage

import (
	"context"
	"io"
	"time"
)

// Package storage contains the file store abstraction for persisted exports.
// Implementations write whole files only; there is no partial update.

// FileInfo contains basic information about a stored file.
type FileInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Store is the export file store. Write has create-or-truncate semantics:
// writing an existing name fully replaces the previous content, and a file
// must be readable via Open immediately after Write returns.
//
// Implementations must guarantee readers never observe a partially written
// file, even when a Write to the same name is in flight.
type Store interface {
	// Write persists content under the given name and returns info about
	// the stored file. Content is written byte-for-byte; UTF-8 payloads
	// round-trip exactly.
	Write(ctx context.Context, name string, content []byte) (FileInfo, error)
	// Open returns the stored file's content as a streaming reader along
	// with its info. A missing file yields an error satisfying
	// errors.Is(err, fs.ErrNotExist).
	Open(ctx context.Context, name string) (io.ReadCloser, FileInfo, error)
}
