package archive

import (
	"context"
	"fmt"
	"io"

	"playlist-archiver/core/index"
	"playlist-archiver/core/records"
	"playlist-archiver/core/reconcile"
	"playlist-archiver/core/report"
	"playlist-archiver/core/store"
	"playlist-archiver/core/youtube"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Remote gives access to the platform on behalf of archived accounts.
type Remote interface {
	reconcile.StatusLookup
	// Source returns the listing API of an account.
	Source(ctx context.Context, account string) (index.Source, error)
}

// NewRemote adapts a youtube connector to Remote.
func NewRemote(c *youtube.Connector) Remote {
	return connectorRemote{Connector: c}
}

type connectorRemote struct {
	*youtube.Connector
}

func (r connectorRemote) Source(ctx context.Context, account string) (index.Source, error) {
	client, err := r.Client(ctx, account)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// AccountSummary describes one account of the previous index.
type AccountSummary struct {
	Account   string `json:"account"`
	Playlists int    `json:"playlists"`
	Videos    int    `json:"videos"`
	Liked     int    `json:"liked"`
}

// Service runs archive passes and serves the archived tables.
type Service struct {
	store   store.Store
	remote  Remote
	builder *index.Builder
	logger  *zap.Logger
}

// NewService creates a new archive service. remote may be nil for read-only use.
func NewService(st store.Store, remote Remote, logger *zap.Logger) *Service {
	return &Service{
		store:   st,
		remote:  remote,
		builder: index.NewBuilder(logger),
		logger:  logger,
	}
}

// Plan fetches every account, builds the current index and classifies it
// against the archive. Nothing is written. A fetch failure aborts the run.
func (s *Service) Plan(ctx context.Context, accounts []string) (*reconcile.Plan, error) {
	if s.remote == nil {
		return nil, fmt.Errorf("archive service has no remote configured")
	}
	if len(accounts) == 0 {
		return nil, youtube.ErrNoAccounts
	}

	l := s.logger.With(zap.String("run_id", uuid.NewString()))
	l.Info("Starting archive run", zap.Strings("accounts", accounts))

	snaps := make([]index.AccountSnapshot, 0, len(accounts))
	for _, account := range accounts {
		src, err := s.remote.Source(ctx, account)
		if err != nil {
			return nil, fmt.Errorf("connect %s: %w", account, err)
		}
		snap, err := index.Collect(ctx, src, account, l)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}

	current := s.builder.BuildAll(snaps)
	l.Info("Built current index", zap.Int("rows", len(current)))

	plan, err := reconcile.Run(ctx, s.store, current, s.remote)
	if err != nil {
		return nil, err
	}

	l.Info("Classified changes",
		zap.Bool("first_run", plan.FirstRun),
		zap.Int("recovered", plan.Summary.Recovered),
		zap.Int("deleted", plan.Summary.Deleted),
		zap.Int("privated", plan.Summary.Privated),
		zap.Int("unlisted", plan.Summary.Unlisted),
		zap.Int("removed_liked", plan.Summary.RemovedLiked),
		zap.Int("removed_untracked", plan.Summary.RemovedUntracked),
	)
	return plan, nil
}

// Apply persists a plan.
func (s *Service) Apply(ctx context.Context, plan *reconcile.Plan, opts reconcile.ApplyOptions) (*reconcile.ApplyResult, error) {
	result, err := reconcile.ApplyPlan(ctx, s.store, plan, opts)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Archive saved",
		zap.Bool("dry_run", result.DryRun),
		zap.Int("index_rows", result.IndexRows),
		zap.Int("resolved", result.Resolved),
		zap.Int("pruned", result.Pruned),
		zap.Any("appended", result.Appended),
	)
	return result, nil
}

// Accounts summarizes every account of the previous index.
func (s *Service) Accounts(ctx context.Context) ([]AccountSummary, error) {
	rows, err := s.store.LoadIndex(ctx)
	if err != nil {
		return nil, err
	}

	byAccount := make(map[string]*AccountSummary)
	playlists := make(map[string]map[string]struct{})
	var order []string
	for _, r := range rows {
		sum, ok := byAccount[r.Account]
		if !ok {
			sum = &AccountSummary{Account: r.Account}
			byAccount[r.Account] = sum
			playlists[r.Account] = make(map[string]struct{})
			order = append(order, r.Account)
		}
		if r.PlaylistID == records.LikedPlaylistID(r.Account) {
			sum.Liked++
			continue
		}
		sum.Videos++
		playlists[r.Account][r.PlaylistID] = struct{}{}
	}

	out := make([]AccountSummary, 0, len(order))
	for _, a := range order {
		sum := byAccount[a]
		sum.Playlists = len(playlists[a])
		out = append(out, *sum)
	}
	return out, nil
}

// Index returns the previous index, restricted to account when it is set.
func (s *Service) Index(ctx context.Context, account string) ([]records.VideoRecord, error) {
	rows, err := s.store.LoadIndex(ctx)
	if err != nil {
		return nil, err
	}
	if account == "" {
		return rows, nil
	}
	return records.FilterAccounts(rows, records.AccountSet([]string{account}), true), nil
}

// Ledger returns the entries of a ledger by table or short name.
func (s *Service) Ledger(ctx context.Context, name string) (records.Ledger, []records.LedgerEntry, error) {
	ledger, err := records.ParseLedger(name)
	if err != nil {
		return "", nil, err
	}
	entries, err := s.store.LoadLedger(ctx, ledger)
	if err != nil {
		return "", nil, err
	}
	return ledger, entries, nil
}

// Export writes every table to w as an xlsx workbook.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	return report.ExportWorkbook(ctx, s.store, w)
}
