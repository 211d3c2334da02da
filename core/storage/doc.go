// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so summary artifacts can be published to AWS S3
// or a self-hosted MinIO bucket instead of the local cache directory.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists / MakeBucket: bucket bootstrap (see EnsureBucket).
//   - PutObject: Uploads content (with size and options).
//   - StatObject / GetObject: metadata and content retrieval.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
