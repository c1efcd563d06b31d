// Package records defines the rows the archiver persists and reconciles.
//
// A VideoRecord is one (playlist, video) observation. An index is an ordered
// slice of records that is unique on Key. A ledger holds LedgerEntry values,
// which are records stamped with the time they were archived.
//
// # Tables
//
// The archive is made of one index table (prev_index) and four ledgers
// (recovered_videos, deleted_videos, privated_videos, unlisted_videos). Every
// table is persisted as header + rows using the column names in IndexColumns
// and LedgerColumns, whatever the storage backend.
package records
