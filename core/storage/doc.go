// Package storage wraps the MinIO client used by the object archive backend.
//
// The Client interface covers the bucket and object calls the archive needs,
// so tests substitute the testify mock in core/storage/mocks. It works with
// AWS S3 and self-hosted MinIO alike.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
