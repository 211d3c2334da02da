package artifact

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when an artifact has not been published yet.
var ErrNotFound = errors.New("artifact not found")

// Info describes a stored artifact.
type Info struct {
	Name        string
	Size        int64
	ContentType string
	ModTime     time.Time
}

// Store persists whole artifacts by name, overwriting previous versions.
type Store interface {
	// Put writes data under name, replacing any previous artifact.
	Put(ctx context.Context, name string, data []byte, contentType string) error
	// Open returns the artifact content. The caller closes the reader.
	Open(ctx context.Context, name string) (io.ReadCloser, Info, error)
}
