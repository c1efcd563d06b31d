package checks

import (
	"context"
	"fmt"

	"playlist-archiver/core/records"
	"playlist-archiver/core/store"

	"go.uber.org/zap"
)

// CheckDuplicates returns, per ledger, the keys stored more than once.
// Ledgers without duplicates are left out.
func CheckDuplicates(ctx context.Context, st store.Store) (map[string][]string, error) {
	report := make(map[string][]string)
	for _, ledger := range records.Ledgers {
		entries, err := st.LoadLedger(ctx, ledger)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", ledger, err)
		}

		seen := make(map[records.Key]int)
		var dups []string
		for _, e := range entries {
			k := e.Key()
			seen[k]++
			if seen[k] == 2 {
				dups = append(dups, k.String())
			}
		}
		if len(dups) > 0 {
			report[string(ledger)] = dups
		}
	}
	return report, nil
}

// FixDuplicates rewrites each named ledger keeping the first entry per key.
func FixDuplicates(ctx context.Context, st store.Store, logger *zap.Logger, ledgers []string) error {
	for _, name := range ledgers {
		ledger, err := records.ParseLedger(name)
		if err != nil {
			return err
		}
		entries, err := st.LoadLedger(ctx, ledger)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", ledger, err)
		}

		seen := make(map[records.Key]struct{}, len(entries))
		kept := entries[:0]
		for _, e := range entries {
			if _, ok := seen[e.Key()]; ok {
				continue
			}
			seen[e.Key()] = struct{}{}
			kept = append(kept, e)
		}

		if err := st.SaveLedger(ctx, ledger, kept); err != nil {
			logger.Error("Failed to rewrite ledger", zap.String("ledger", name), zap.Error(err))
			return err
		}
		logger.Info("Removed duplicate entries",
			zap.String("ledger", name),
			zap.Int("removed", len(entries)-len(kept)))
	}
	return nil
}
