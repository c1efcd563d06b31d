package store

import (
	"context"
	"fmt"

	"playlist-archiver/core/records"
	"playlist-archiver/core/storage"

	"gorm.io/gorm"
)

// Store persists the previous index and the transition ledgers.
// Tables that were never written load as empty slices.
type Store interface {
	// Backend returns the backend name (file, object, sql).
	Backend() string
	// Exists reports whether a table has been written before.
	Exists(ctx context.Context, table string) (bool, error)
	// LoadIndex reads the previous index.
	LoadIndex(ctx context.Context) ([]records.VideoRecord, error)
	// SaveIndex replaces the previous index.
	SaveIndex(ctx context.Context, rows []records.VideoRecord) error
	// LoadLedger reads every entry of a ledger.
	LoadLedger(ctx context.Context, ledger records.Ledger) ([]records.LedgerEntry, error)
	// SaveLedger replaces the contents of a ledger.
	SaveLedger(ctx context.Context, ledger records.Ledger, entries []records.LedgerEntry) error
}

// Deps carries the optional connections a backend may need.
type Deps struct {
	Client storage.Client
	Bucket string
	DB     *gorm.DB
}

// New creates the store selected by cfg.Backend.
func New(cfg Config, deps Deps) (Store, error) {
	switch cfg.Backend {
	case BackendFile, "":
		return NewFileStore(cfg.Dir), nil
	case BackendObject:
		if deps.Client == nil {
			return nil, fmt.Errorf("object backend requires a storage client")
		}
		return NewObjectStore(deps.Client, deps.Bucket, cfg.Prefix), nil
	case BackendSQL:
		if deps.DB == nil {
			return nil, fmt.Errorf("sql backend requires a database connection")
		}
		return NewSQLStore(deps.DB), nil
	default:
		return nil, fmt.Errorf("unknown archive backend %q", cfg.Backend)
	}
}
