package integrity

import (
	"context"
	"errors"

	"playlist-archiver/core/storage"
	"playlist-archiver/core/store"
	"playlist-archiver/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotApplicable is returned by checks that do not apply to the configured backend.
var ErrNotApplicable = errors.New("check does not apply to this backend")

// Service handles integrity checks.
type Service struct {
	store  store.Store
	client storage.Client
	bucket string
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new integrity service. deps carries the connections of
// the configured backend; unused ones may be zero.
func NewService(st store.Store, deps store.Deps, logger *zap.Logger) *Service {
	return &Service{
		store:  st,
		client: deps.Client,
		bucket: deps.Bucket,
		db:     deps.DB,
		logger: logger,
	}
}

// CheckStructure returns the tables that have never been written.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	return checks.CheckStructure(ctx, s.store)
}

// FixStructure writes the missing tables empty.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	return checks.FixStructure(ctx, s.store, s.logger, missing)
}

// CheckDuplicates returns the duplicated keys of every ledger.
func (s *Service) CheckDuplicates(ctx context.Context) (map[string][]string, error) {
	return checks.CheckDuplicates(ctx, s.store)
}

// FixDuplicates keeps the first entry per key in the given ledgers.
func (s *Service) FixDuplicates(ctx context.Context, ledgers []string) error {
	return checks.FixDuplicates(ctx, s.store, s.logger, ledgers)
}

// CheckBucket reports whether the archive bucket exists.
func (s *Service) CheckBucket(ctx context.Context) (bool, error) {
	if s.store.Backend() != store.BackendObject || s.client == nil {
		return false, ErrNotApplicable
	}
	return checks.CheckBucket(ctx, s.client, s.bucket)
}

// FixBucket creates the archive bucket.
func (s *Service) FixBucket(ctx context.Context) error {
	if s.store.Backend() != store.BackendObject || s.client == nil {
		return ErrNotApplicable
	}
	return checks.FixBucket(ctx, s.client, s.bucket, s.logger)
}

// CheckSchema compares the SQL tables with the archive model.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	if s.store.Backend() != store.BackendSQL || s.db == nil {
		return nil, ErrNotApplicable
	}
	return checks.CheckSchema(s.db)
}
