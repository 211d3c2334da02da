package artifact

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"country-cache/core/storage"

	"github.com/minio/minio-go/v7"
)

// ObjectStore keeps artifacts in an S3/MinIO bucket.
type ObjectStore struct {
	client storage.Client
	bucket string
	prefix string
}

// NewObjectStore returns a store writing under prefix in bucket.
func NewObjectStore(client storage.Client, bucket, prefix string) *ObjectStore {
	return &ObjectStore{client: client, bucket: bucket, prefix: prefix}
}

func (s *ObjectStore) objectName(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

// Put uploads data, replacing the previous object.
func (s *ObjectStore) Put(ctx context.Context, name string, data []byte, contentType string) error {
	_, err := s.client.PutObject(
		ctx,
		s.bucket,
		s.objectName(name),
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return fmt.Errorf("failed to upload artifact %s: %w", name, err)
	}
	return nil
}

// Open stats the object first so a missing artifact maps to ErrNotFound
// before any content is streamed.
func (s *ObjectStore) Open(ctx context.Context, name string) (io.ReadCloser, Info, error) {
	object := s.objectName(name)

	st, err := s.client.StatObject(ctx, s.bucket, object, minio.StatObjectOptions{})
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, Info{}, ErrNotFound
		}
		return nil, Info{}, fmt.Errorf("failed to stat artifact %s: %w", name, err)
	}

	reader, err := s.client.GetObject(ctx, s.bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, Info{}, fmt.Errorf("failed to get artifact %s: %w", name, err)
	}

	return reader, Info{
		Name:        name,
		Size:        st.Size,
		ContentType: st.ContentType,
		ModTime:     st.LastModified,
	}, nil
}
