package checks

import (
	"context"
	"fmt"

	"playlist-archiver/core/records"
	"playlist-archiver/core/store"

	"go.uber.org/zap"
)

// CheckStructure returns the tables that have never been written.
func CheckStructure(ctx context.Context, st store.Store) ([]string, error) {
	var missing []string
	for _, table := range records.Tables() {
		exists, err := st.Exists(ctx, table)
		if err != nil {
			return nil, fmt.Errorf("failed to check table %s: %w", table, err)
		}
		if !exists {
			missing = append(missing, table)
		}
	}
	return missing, nil
}

// FixStructure writes an empty table for every missing one.
func FixStructure(ctx context.Context, st store.Store, logger *zap.Logger, missing []string) error {
	for _, table := range missing {
		var err error
		if table == records.TableIndex {
			err = st.SaveIndex(ctx, nil)
		} else {
			var ledger records.Ledger
			if ledger, err = records.ParseLedger(table); err == nil {
				err = st.SaveLedger(ctx, ledger, nil)
			}
		}
		if err != nil {
			logger.Error("Failed to create table", zap.String("table", table), zap.Error(err))
			return err
		}
		logger.Info("Created missing table", zap.String("table", table))
	}
	return nil
}
