// Package storage provides a filesystem abstraction with two drivers:
// "local" (default) and "s3" for S3-compatible object stores (AWS S3,
// MinIO, R2, Spaces). Game cover images are written through it.
//
//	storage.Connect()
//	storage.Put("covers/elden-ring.jpg", data)
//	url := storage.URL("covers/elden-ring.jpg")
package storage

import "io"

// Disk is the filesystem driver interface.
type Disk interface {
	// Put writes content to path, creating parents as needed.
	Put(path string, content []byte) error

	// PutStream writes from r to path.
	PutStream(path string, r io.Reader) error

	// Get returns the full content of the file at path.
	Get(path string) ([]byte, error)

	// GetStream returns a ReadCloser for the file. Caller must close it.
	GetStream(path string) (io.ReadCloser, error)

	// Exists reports whether a file exists at path.
	Exists(path string) bool

	// Size returns the byte size of the file.
	Size(path string) (int64, error)

	// Delete removes a file. Returns nil if the file did not exist.
	Delete(path string) error

	// URL returns the public URL for path.
	URL(path string) string
}
