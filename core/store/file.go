package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"playlist-archiver/core/records"
)

// FileStore keeps every table as a CSV file in one directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Backend() string { return BackendFile }

func (s *FileStore) path(table string) string {
	return filepath.Join(s.dir, table+".csv")
}

func (s *FileStore) Exists(ctx context.Context, table string) (bool, error) {
	_, err := os.Stat(s.path(table))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", table, err)
}

func (s *FileStore) LoadIndex(ctx context.Context) ([]records.VideoRecord, error) {
	var rows []records.VideoRecord
	err := s.read(records.TableIndex, func(r io.Reader) (err error) {
		rows, err = records.ReadIndexCSV(r)
		return err
	})
	return rows, err
}

func (s *FileStore) SaveIndex(ctx context.Context, rows []records.VideoRecord) error {
	return s.write(records.TableIndex, func(w io.Writer) error {
		return records.WriteIndexCSV(w, rows)
	})
}

func (s *FileStore) LoadLedger(ctx context.Context, ledger records.Ledger) ([]records.LedgerEntry, error) {
	var rows []records.LedgerEntry
	err := s.read(string(ledger), func(r io.Reader) (err error) {
		rows, err = records.ReadLedgerCSV(r)
		return err
	})
	return rows, err
}

func (s *FileStore) SaveLedger(ctx context.Context, ledger records.Ledger, entries []records.LedgerEntry) error {
	return s.write(string(ledger), func(w io.Writer) error {
		return records.WriteLedgerCSV(w, entries)
	})
}

func (s *FileStore) read(table string, decode func(io.Reader) error) error {
	f, err := os.Open(s.path(table))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", table, err)
	}
	defer f.Close()

	if err := decode(f); err != nil {
		return fmt.Errorf("decode %s: %w", table, err)
	}
	return nil
}

func (s *FileStore) write(table string, encode func(io.Writer) error) error {
	w, err := newAtomicWriter(s.path(table))
	if err != nil {
		return fmt.Errorf("write %s: %w", table, err)
	}
	if err := encode(w); err != nil {
		w.abort()
		return fmt.Errorf("encode %s: %w", table, err)
	}
	if err := w.commit(); err != nil {
		return fmt.Errorf("write %s: %w", table, err)
	}
	return nil
}
