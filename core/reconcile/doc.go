// Package reconcile compares a freshly fetched index with the previous
// archive and maintains the transition ledgers.
//
// A run has two phases, mirroring plan and apply:
//
//  1. Classify sorts every change of the fetched accounts into one of the
//     transition lists (recovered, deleted, privated, unlisted, removed liked,
//     removed untracked), backfills metadata that private and deleted videos
//     no longer expose, and merges the new previous index. Nothing is written.
//
//  2. ApplyPlan merges the new transitions into the persisted ledgers without
//     duplicating keys, rewrites the privated ledger, and replaces the
//     previous index.
//
// # Usage Example
//
//	plan, err := reconcile.Run(ctx, st, current, connector)
//	if errors.Is(err, reconcile.ErrNoChanges) {
//	    return nil
//	}
//	result, err := reconcile.ApplyPlan(ctx, st, plan, reconcile.ApplyOptions{PruneUntracked: confirmed})
//
// The privated ledger is the only ledger read as input. Its entries leave the
// ledger once the video is public, unlisted or deleted again, and entries that
// vanished from every playlist are only removed when the caller confirms it.
package reconcile
