package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
)

// FileStore keeps artifacts in a local directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a store rooted at it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the file path of the named artifact.
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// Put writes to a temp file and renames it, so readers never see a partial file.
// The content type is kept beside the artifact and returned by Open.
func (s *FileStore) Put(ctx context.Context, name string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.writeAtomic(s.Path(name), data); err != nil {
		return fmt.Errorf("failed to publish artifact %s: %w", name, err)
	}
	if err := s.writeAtomic(s.typePath(name), []byte(contentType)); err != nil {
		return fmt.Errorf("failed to record content type of %s: %w", name, err)
	}
	return nil
}

// Open opens the named artifact file.
func (s *FileStore) Open(ctx context.Context, name string) (io.ReadCloser, Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, Info{}, err
	}

	f, err := os.Open(s.Path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, Info{}, ErrNotFound
		}
		return nil, Info{}, fmt.Errorf("failed to open artifact %s: %w", name, err)
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, Info{}, fmt.Errorf("failed to stat artifact %s: %w", name, err)
	}

	return f, Info{
		Name:        name,
		Size:        st.Size(),
		ContentType: s.contentType(name),
		ModTime:     st.ModTime(),
	}, nil
}

// typePath is hidden so it never collides with an artifact name.
func (s *FileStore) typePath(name string) string {
	return filepath.Join(s.dir, "."+filepath.Base(name)+".type")
}

// contentType falls back to the extension for artifacts written without one.
func (s *FileStore) contentType(name string) string {
	if b, err := os.ReadFile(s.typePath(name)); err == nil && len(b) > 0 {
		return string(b)
	}
	return mime.TypeByExtension(filepath.Ext(name))
}

func (s *FileStore) writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
