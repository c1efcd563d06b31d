package store

import (
	"context"
	"fmt"

	"playlist-archiver/core/records"

	"gorm.io/gorm"
)

// videoRow is the SQL layout shared by the index and ledger tables.
// Column names match the CSV headers so exports line up across backends.
type videoRow struct {
	ID                 uint   `gorm:"primaryKey;autoIncrement"`
	Account            string `gorm:"column:user;size:255"`
	PlaylistTitle      string `gorm:"column:p_title;size:255"`
	PlaylistID         string `gorm:"column:p_id;size:255"`
	PlaylistVideoCount string `gorm:"column:p_video_count;size:32"`
	Position           string `gorm:"column:p_index;size:32"`
	DateAdded          string `gorm:"column:p_date_added;size:64"`
	Title              string `gorm:"column:v_title;type:text"`
	VideoID            string `gorm:"column:v_id;size:64"`
	Status             string `gorm:"column:v_status;size:128"`
	Uploader           string `gorm:"column:v_uploader;size:255"`
	UploaderID         string `gorm:"column:v_uploader_id;size:255"`
	DatePublished      string `gorm:"column:v_date_published;size:64"`
	Description        string `gorm:"column:v_description;type:text"`
	DateArchived       string `gorm:"column:date_archived;size:32"`
}

// Model returns the GORM model every SQL table is migrated from.
func Model() any {
	return videoRow{}
}

func toRow(r records.VideoRecord, archived string) videoRow {
	return videoRow{
		Account:            r.Account,
		PlaylistTitle:      r.PlaylistTitle,
		PlaylistID:         r.PlaylistID,
		PlaylistVideoCount: r.PlaylistVideoCount,
		Position:           r.Position,
		DateAdded:          r.DateAdded,
		Title:              r.Title,
		VideoID:            r.VideoID,
		Status:             r.Status,
		Uploader:           r.Uploader,
		UploaderID:         r.UploaderID,
		DatePublished:      r.DatePublished,
		Description:        r.Description,
		DateArchived:       archived,
	}
}

func (v videoRow) record() records.VideoRecord {
	return records.VideoRecord{
		Account:            v.Account,
		PlaylistTitle:      v.PlaylistTitle,
		PlaylistID:         v.PlaylistID,
		PlaylistVideoCount: v.PlaylistVideoCount,
		Position:           v.Position,
		DateAdded:          v.DateAdded,
		Title:              v.Title,
		VideoID:            v.VideoID,
		Status:             v.Status,
		Uploader:           v.Uploader,
		UploaderID:         v.UploaderID,
		DatePublished:      v.DatePublished,
		Description:        v.Description,
	}
}

// SQLStore keeps every table in a relational database through GORM.
// Tables are created on first write.
type SQLStore struct {
	db        *gorm.DB
	batchSize int
}

// NewSQLStore creates a store on an open connection.
func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db, batchSize: 500}
}

func (s *SQLStore) Backend() string { return BackendSQL }

func (s *SQLStore) Exists(ctx context.Context, table string) (bool, error) {
	return s.db.WithContext(ctx).Migrator().HasTable(table), nil
}

func (s *SQLStore) LoadIndex(ctx context.Context) ([]records.VideoRecord, error) {
	rows, err := s.load(ctx, records.TableIndex)
	if err != nil {
		return nil, err
	}
	out := make([]records.VideoRecord, len(rows))
	for i, r := range rows {
		out[i] = r.record()
	}
	return out, nil
}

func (s *SQLStore) SaveIndex(ctx context.Context, rows []records.VideoRecord) error {
	out := make([]videoRow, len(rows))
	for i, r := range rows {
		out[i] = toRow(r, "")
	}
	return s.replace(ctx, records.TableIndex, out)
}

func (s *SQLStore) LoadLedger(ctx context.Context, ledger records.Ledger) ([]records.LedgerEntry, error) {
	rows, err := s.load(ctx, string(ledger))
	if err != nil {
		return nil, err
	}
	out := make([]records.LedgerEntry, len(rows))
	for i, r := range rows {
		out[i] = records.LedgerEntry{VideoRecord: r.record(), DateArchived: r.DateArchived}
	}
	return out, nil
}

func (s *SQLStore) SaveLedger(ctx context.Context, ledger records.Ledger, entries []records.LedgerEntry) error {
	out := make([]videoRow, len(entries))
	for i, e := range entries {
		out[i] = toRow(e.VideoRecord, e.DateArchived)
	}
	return s.replace(ctx, string(ledger), out)
}

func (s *SQLStore) load(ctx context.Context, table string) ([]videoRow, error) {
	db := s.db.WithContext(ctx)
	if !db.Migrator().HasTable(table) {
		return nil, nil
	}

	var rows []videoRow
	if err := db.Table(table).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	return rows, nil
}

// replace rewrites a table inside one transaction.
func (s *SQLStore) replace(ctx context.Context, table string, rows []videoRow) error {
	db := s.db.WithContext(ctx)
	if err := db.Table(table).AutoMigrate(&videoRow{}); err != nil {
		return fmt.Errorf("migrate %s: %w", table, err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(table).Where("1 = 1").Delete(&videoRow{}).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Table(table).CreateInBatches(rows, s.batchSize).Error; err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
		return nil
	})
}
