package checks

import (
	"context"
	"fmt"

	"playlist-archiver/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// CheckBucket reports whether the archive bucket exists.
func CheckBucket(ctx context.Context, client storage.Client, bucket string) (bool, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return false, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	return exists, nil
}

// FixBucket creates the archive bucket.
func FixBucket(ctx context.Context, client storage.Client, bucket string, logger *zap.Logger) error {
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		logger.Error("Failed to create bucket", zap.String("bucket", bucket), zap.Error(err))
		return err
	}
	logger.Info("Created missing bucket", zap.String("bucket", bucket))
	return nil
}
