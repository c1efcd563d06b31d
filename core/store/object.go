package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"playlist-archiver/core/records"
	"playlist-archiver/core/storage"

	"github.com/minio/minio-go/v7"
)

// ObjectStore keeps every table as a CSV object under a prefix of a bucket.
type ObjectStore struct {
	client storage.Client
	bucket string
	prefix string
}

// NewObjectStore creates a store writing to bucket/prefix.
func NewObjectStore(client storage.Client, bucket, prefix string) *ObjectStore {
	return &ObjectStore{client: client, bucket: bucket, prefix: prefix}
}

func (s *ObjectStore) Backend() string { return BackendObject }

func (s *ObjectStore) key(table string) string {
	return path.Join(s.prefix, table+".csv")
}

func (s *ObjectStore) Exists(ctx context.Context, table string) (bool, error) {
	key := s.key(table)
	opts := minio.ListObjectsOptions{
		Prefix:    key,
		Recursive: false,
		MaxKeys:   1,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for obj := range s.client.ListObjects(ctx, s.bucket, opts) {
		if obj.Err != nil {
			return false, fmt.Errorf("list %s: %w", key, obj.Err)
		}
		if obj.Key == key {
			return true, nil
		}
	}
	return false, nil
}

func (s *ObjectStore) LoadIndex(ctx context.Context) ([]records.VideoRecord, error) {
	var rows []records.VideoRecord
	err := s.read(ctx, records.TableIndex, func(r io.Reader) (err error) {
		rows, err = records.ReadIndexCSV(r)
		return err
	})
	return rows, err
}

func (s *ObjectStore) SaveIndex(ctx context.Context, rows []records.VideoRecord) error {
	var buf bytes.Buffer
	if err := records.WriteIndexCSV(&buf, rows); err != nil {
		return fmt.Errorf("encode %s: %w", records.TableIndex, err)
	}
	return s.put(ctx, records.TableIndex, &buf)
}

func (s *ObjectStore) LoadLedger(ctx context.Context, ledger records.Ledger) ([]records.LedgerEntry, error) {
	var rows []records.LedgerEntry
	err := s.read(ctx, string(ledger), func(r io.Reader) (err error) {
		rows, err = records.ReadLedgerCSV(r)
		return err
	})
	return rows, err
}

func (s *ObjectStore) SaveLedger(ctx context.Context, ledger records.Ledger, entries []records.LedgerEntry) error {
	var buf bytes.Buffer
	if err := records.WriteLedgerCSV(&buf, entries); err != nil {
		return fmt.Errorf("encode %s: %w", ledger, err)
	}
	return s.put(ctx, string(ledger), &buf)
}

func (s *ObjectStore) read(ctx context.Context, table string, decode func(io.Reader) error) error {
	exists, err := s.Exists(ctx, table)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	reader, err := s.client.GetObject(ctx, s.bucket, s.key(table), minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("get %s: %w", table, err)
	}
	defer reader.Close()

	if err := decode(reader); err != nil {
		return fmt.Errorf("decode %s: %w", table, err)
	}
	return nil
}

func (s *ObjectStore) put(ctx context.Context, table string, buf *bytes.Buffer) error {
	_, err := s.client.PutObject(
		ctx,
		s.bucket,
		s.key(table),
		bytes.NewReader(buf.Bytes()),
		int64(buf.Len()),
		minio.PutObjectOptions{ContentType: "text/csv"},
	)
	if err != nil {
		return fmt.Errorf("put %s: %w", table, err)
	}
	return nil
}
