package reconcile

import (
	"context"
	"fmt"
	"time"

	"playlist-archiver/core/records"
	"playlist-archiver/core/store"
)

// ApplyPlan persists a plan: new transitions are merged into their ledgers,
// resolved entries leave the privated ledger, and the merged index replaces
// the previous one. With opts.DryRun the result is computed but nothing is
// written.
func ApplyPlan(ctx context.Context, st store.Store, plan *Plan, opts ApplyOptions) (*ApplyResult, error) {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	stamp := now()

	result := &ApplyResult{
		Appended:  make(map[records.Ledger]int, len(records.Ledgers)),
		Resolved:  plan.Summary.ResolvedPrivated,
		IndexRows: len(plan.Index),
		DryRun:    opts.DryRun,
	}

	for _, ledger := range records.Ledgers {
		var existing []records.LedgerEntry
		changed := false

		if ledger == records.LedgerPrivated {
			existing = plan.PrivatedLedger
			changed = plan.Summary.ResolvedPrivated > 0
		} else {
			var err error
			existing, err = st.LoadLedger(ctx, ledger)
			if err != nil {
				return nil, fmt.Errorf("load %s: %w", ledger, err)
			}
		}

		merged, appended := MergeLedger(existing, plan.LedgerRecords(ledger), stamp)
		result.Appended[ledger] = appended
		changed = changed || appended > 0

		if ledger == records.LedgerPrivated && opts.PruneUntracked && len(plan.RemovedUntracked) > 0 {
			var pruned int
			merged, pruned = RemoveKeys(merged, plan.RemovedUntracked)
			result.Pruned = pruned
			changed = changed || pruned > 0
		}

		if !changed || opts.DryRun {
			continue
		}
		if err := st.SaveLedger(ctx, ledger, merged); err != nil {
			return nil, fmt.Errorf("save %s: %w", ledger, err)
		}
	}

	if opts.DryRun {
		return result, nil
	}
	if err := st.SaveIndex(ctx, plan.Index); err != nil {
		return nil, fmt.Errorf("save index: %w", err)
	}
	return result, nil
}

// MergeLedger appends the records whose key is not yet in the ledger,
// stamped with at. Duplicates within rows are appended once.
func MergeLedger(ledger []records.LedgerEntry, rows []records.VideoRecord, at time.Time) ([]records.LedgerEntry, int) {
	seen := make(map[records.Key]struct{}, len(ledger)+len(rows))
	for _, e := range ledger {
		seen[e.Key()] = struct{}{}
	}

	merged := make([]records.LedgerEntry, len(ledger), len(ledger)+len(rows))
	copy(merged, ledger)

	appended := 0
	for _, r := range rows {
		if _, ok := seen[r.Key()]; ok {
			continue
		}
		seen[r.Key()] = struct{}{}
		merged = append(merged, records.NewLedgerEntry(r, at))
		appended++
	}
	return merged, appended
}

// RemoveKeys drops every ledger entry whose key matches one of rows.
func RemoveKeys(ledger []records.LedgerEntry, rows []records.VideoRecord) ([]records.LedgerEntry, int) {
	drop := make(map[records.Key]struct{}, len(rows))
	for _, r := range rows {
		drop[r.Key()] = struct{}{}
	}

	kept := make([]records.LedgerEntry, 0, len(ledger))
	for _, e := range ledger {
		if _, ok := drop[e.Key()]; ok {
			continue
		}
		kept = append(kept, e)
	}
	return kept, len(ledger) - len(kept)
}
