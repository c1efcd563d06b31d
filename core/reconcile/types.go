package reconcile

import (
	"context"
	"errors"
	"time"

	"playlist-archiver/core/records"
)

// ErrNoChanges is returned by Classify when the current index holds the same
// (playlist, video, status) triples as the previous one. Nothing is written.
var ErrNoChanges = errors.New("playlists are identical to last check")

// StatusLookup resolves the current privacy status of a single video using
// the credentials of the account that liked it.
type StatusLookup interface {
	// VideoStatus returns found=false when the platform no longer knows the video.
	VideoStatus(ctx context.Context, account, videoID string) (status string, found bool, err error)
}

// StatusLookupFunc adapts a function to StatusLookup.
type StatusLookupFunc func(ctx context.Context, account, videoID string) (string, bool, error)

// VideoStatus calls f.
func (f StatusLookupFunc) VideoStatus(ctx context.Context, account, videoID string) (string, bool, error) {
	return f(ctx, account, videoID)
}

// State is the persisted input of a run.
type State struct {
	// Previous is the full previous index, every account included.
	Previous []records.VideoRecord

	// Privated is the persisted ledger of videos believed to be private.
	Privated []records.LedgerEntry

	// FirstRun is true when no previous index has ever been written.
	FirstRun bool
}

// Input bundles everything Classify compares.
type Input struct {
	// Current is the freshly built index of the accounts fetched this run.
	Current []records.VideoRecord

	// Previous is the full previous index.
	Previous []records.VideoRecord

	// Privated is the persisted privated ledger.
	Privated []records.LedgerEntry
}

// Plan is the outcome of one classification. It is applied by ApplyPlan.
type Plan struct {
	// Accounts lists the accounts processed this run in first-seen order.
	Accounts []string `json:"accounts"`

	// FirstRun is true when no previous index existed.
	FirstRun bool `json:"first_run"`

	// Recovered holds status changes annotated "{old} -> {new}".
	Recovered []records.VideoRecord `json:"recovered"`

	// Deleted holds videos that were lost, either untracked or after being private.
	Deleted []records.VideoRecord `json:"deleted"`

	// Privated holds private videos seen for the first time.
	Privated []records.VideoRecord `json:"privated"`

	// Unlisted holds videos that are unlisted for the first time or became unlisted.
	Unlisted []records.VideoRecord `json:"unlisted"`

	// RemovedLiked holds liked videos the user unliked. Never persisted to a ledger.
	RemovedLiked []records.VideoRecord `json:"removed_liked"`

	// RemovedUntracked holds privated ledger entries that vanished from every
	// playlist. They stay in the ledger until pruning is confirmed.
	RemovedUntracked []records.VideoRecord `json:"removed_untracked"`

	// PrivatedLedger is the persisted privated ledger minus the entries whose
	// fate was resolved this run.
	PrivatedLedger []records.LedgerEntry `json:"-"`

	// Index is the merged index to persist as the new previous index.
	Index []records.VideoRecord `json:"-"`

	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`
}

// Summary provides aggregate counts for a plan.
type Summary struct {
	// IndexRows is the number of rows of the merged index.
	IndexRows int `json:"index_rows"`

	Recovered        int `json:"recovered"`
	Deleted          int `json:"deleted"`
	Privated         int `json:"privated"`
	Unlisted         int `json:"unlisted"`
	RemovedLiked     int `json:"removed_liked"`
	RemovedUntracked int `json:"removed_untracked"`

	// ResolvedPrivated counts privated ledger entries resolved this run.
	ResolvedPrivated int `json:"resolved_privated"`
}

// HasTransitions reports whether any transition list is non-empty.
func (s Summary) HasTransitions() bool {
	return s.Recovered+s.Deleted+s.Privated+s.Unlisted+s.RemovedLiked+s.RemovedUntracked > 0
}

// LedgerRecords returns the new records destined for a persisted ledger.
func (p *Plan) LedgerRecords(l records.Ledger) []records.VideoRecord {
	switch l {
	case records.LedgerRecovered:
		return p.Recovered
	case records.LedgerDeleted:
		return p.Deleted
	case records.LedgerPrivated:
		return p.Privated
	case records.LedgerUnlisted:
		return p.Unlisted
	default:
		return nil
	}
}

// ApplyOptions controls how a plan is persisted.
type ApplyOptions struct {
	// Now stamps the date_archived of new ledger entries. Zero means time.Now.
	Now func() time.Time

	// PruneUntracked removes RemovedUntracked entries from the privated ledger.
	// Only set after the user confirmed it.
	PruneUntracked bool

	// DryRun computes the result without writing anything.
	DryRun bool
}

// ApplyResult reports what ApplyPlan wrote.
type ApplyResult struct {
	// Appended counts new entries per ledger after de-duplication.
	Appended map[records.Ledger]int `json:"appended"`

	// Resolved counts entries removed from the privated ledger by classification.
	Resolved int `json:"resolved"`

	// Pruned counts entries removed from the privated ledger on confirmation.
	Pruned int `json:"pruned"`

	// IndexRows is the number of rows written to the previous index.
	IndexRows int `json:"index_rows"`

	// DryRun is true when nothing was written.
	DryRun bool `json:"dry_run"`
}
