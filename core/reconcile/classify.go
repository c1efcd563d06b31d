package reconcile

import (
	"context"
	"fmt"

	"playlist-archiver/core/records"
)

// Classify compares the current index against the previous index and the
// privated ledger and sorts every observed change into one transition list.
// It returns ErrNoChanges when nothing changed for the fetched accounts.
// Inputs are not modified.
func Classify(ctx context.Context, in Input, lookup StatusLookup) (*Plan, error) {
	accounts := records.Accounts(in.Current)
	processed := records.AccountSet(accounts)

	// Step 0: skip the run when the fetched accounts look exactly as before
	restricted := records.FilterAccounts(in.Previous, processed, true)
	if sameTriples(restricted, in.Current) {
		return nil, ErrNoChanges
	}

	plan := &Plan{Accounts: accounts}

	current := make([]records.VideoRecord, len(in.Current))
	copy(current, in.Current)

	prevRows := in.Previous
	prevIdx := records.IndexByKey(prevRows)
	matchPrevious := func(r records.VideoRecord) (records.VideoRecord, bool) {
		i, ok := prevIdx[r.Key()]
		if !ok {
			return records.VideoRecord{}, false
		}
		return prevRows[i], true
	}

	// Step 1: private videos
	for i, row := range current {
		if row.Status != records.StatusPrivate {
			continue
		}
		prev, ok := matchPrevious(row)
		if !ok {
			plan.Privated = append(plan.Privated, row)
			continue
		}
		if prev.Status != records.StatusPrivate {
			plan.Recovered = append(plan.Recovered, prev.Annotated(prev.Status, records.StatusPrivate))
		}
		backfill(&current[i], prev)
	}

	// Step 2: deleted videos
	for i, row := range current {
		if !records.IsDeletedStatus(row.Status) {
			continue
		}
		prev, ok := matchPrevious(row)
		if !ok {
			plan.Deleted = append(plan.Deleted, row)
			continue
		}
		if prev.Status == records.StatusPublic || prev.Status == records.StatusUnlisted {
			plan.Recovered = append(plan.Recovered, prev.Annotated(prev.Status, records.StatusDeleted))
		}
		backfill(&current[i], prev)
	}

	// Step 3: unlisted videos
	for _, row := range current {
		if row.Status != records.StatusUnlisted {
			continue
		}
		prev, ok := matchPrevious(row)
		if !ok {
			plan.Unlisted = append(plan.Unlisted, row)
			continue
		}
		if prev.Status == records.StatusPublic {
			plan.Unlisted = append(plan.Unlisted, prev.Annotated(prev.Status, records.StatusUnlisted))
		}
	}

	// Step 4: resolve the privated ledger against the current index
	curIdx := records.IndexByKey(current)
	remaining := make([]records.LedgerEntry, 0, len(in.Privated))
	for _, entry := range in.Privated {
		i, ok := curIdx[entry.Key()]
		if !ok {
			if _, mine := processed[entry.Account]; mine {
				plan.RemovedUntracked = append(plan.RemovedUntracked, entry.VideoRecord)
			}
			remaining = append(remaining, entry)
			continue
		}

		row := current[i]
		switch {
		case row.Status == records.StatusPrivate:
			// private -> private keeps the entry and reports nothing
			remaining = append(remaining, entry)
		case records.IsDeletedStatus(row.Status):
			plan.Deleted = append(plan.Deleted, entry.VideoRecord)
		default:
			plan.Recovered = append(plan.Recovered, row.Annotated(records.StatusPrivate, row.Status))
		}
	}
	plan.PrivatedLedger = remaining
	plan.Summary.ResolvedPrivated = len(in.Privated) - len(remaining)

	// Step 5: liked videos that disappeared
	for _, account := range accounts {
		if err := classifyMissingLiked(ctx, plan, account, prevRows, current, lookup); err != nil {
			return nil, err
		}
	}

	// Step 6: untouched accounts keep their rows, processed accounts are replaced
	plan.Index = append(records.FilterAccounts(in.Previous, processed, false), current...)

	plan.Summary.IndexRows = len(plan.Index)
	plan.Summary.Recovered = len(plan.Recovered)
	plan.Summary.Deleted = len(plan.Deleted)
	plan.Summary.Privated = len(plan.Privated)
	plan.Summary.Unlisted = len(plan.Unlisted)
	plan.Summary.RemovedLiked = len(plan.RemovedLiked)
	plan.Summary.RemovedUntracked = len(plan.RemovedUntracked)

	return plan, nil
}

// classifyMissingLiked looks up every previously liked video of account that
// is absent from its current liked list.
func classifyMissingLiked(ctx context.Context, plan *Plan, account string, previous, current []records.VideoRecord, lookup StatusLookup) error {
	likedID := records.LikedPlaylistID(account)

	stillLiked := make(map[string]struct{})
	for _, r := range current {
		if r.PlaylistID == likedID {
			stillLiked[r.VideoID] = struct{}{}
		}
	}

	for _, prev := range previous {
		if prev.PlaylistID != likedID {
			continue
		}
		if _, ok := stillLiked[prev.VideoID]; ok {
			continue
		}
		if lookup == nil {
			return fmt.Errorf("liked video %s of %s disappeared but no status lookup is configured", prev.VideoID, account)
		}

		status, found, err := lookup.VideoStatus(ctx, account, prev.VideoID)
		if err != nil {
			return fmt.Errorf("look up liked video %s of %s: %w", prev.VideoID, account, err)
		}

		switch {
		case !found:
			plan.Recovered = append(plan.Recovered, prev.Annotated(prev.Status, records.StatusDeleted))
		case status != prev.Status:
			plan.Recovered = append(plan.Recovered, prev.Annotated(prev.Status, status))
		default:
			plan.RemovedLiked = append(plan.RemovedLiked, prev)
		}
	}
	return nil
}

// backfill restores the descriptive fields a private or deleted video no
// longer exposes.
func backfill(dst *records.VideoRecord, src records.VideoRecord) {
	dst.Title = src.Title
	dst.Uploader = src.Uploader
	dst.UploaderID = src.UploaderID
	dst.DatePublished = src.DatePublished
}

type triple struct {
	playlistID, videoID, status string
}

// sameTriples compares the (playlist, video, status) triples of two indexes
// as sets, after mapping missing values to the empty string.
func sameTriples(a, b []records.VideoRecord) bool {
	sa, sb := tripleSet(a), tripleSet(b)
	if len(sa) != len(sb) {
		return false
	}
	for t := range sa {
		if _, ok := sb[t]; !ok {
			return false
		}
	}
	return true
}

func tripleSet(rows []records.VideoRecord) map[triple]struct{} {
	set := make(map[triple]struct{}, len(rows))
	for _, r := range rows {
		set[triple{
			playlistID: records.Normalize(r.PlaylistID),
			videoID:    records.Normalize(r.VideoID),
			status:     records.Normalize(r.Status),
		}] = struct{}{}
	}
	return set
}
