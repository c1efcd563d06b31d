package reconcile

import (
	"context"
	"fmt"

	"playlist-archiver/core/records"
	"playlist-archiver/core/store"

	"golang.org/x/sync/errgroup"
)

// LoadState reads the previous index and the privated ledger concurrently.
func LoadState(ctx context.Context, st store.Store) (*State, error) {
	var (
		state  State
		exists bool
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		exists, err = st.Exists(gctx, records.TableIndex)
		return err
	})

	g.Go(func() error {
		rows, err := st.LoadIndex(gctx)
		if err != nil {
			return fmt.Errorf("load previous index: %w", err)
		}
		state.Previous = rows
		return nil
	})

	g.Go(func() error {
		entries, err := st.LoadLedger(gctx, records.LedgerPrivated)
		if err != nil {
			return fmt.Errorf("load %s: %w", records.LedgerPrivated, err)
		}
		state.Privated = entries
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	state.FirstRun = !exists
	return &state, nil
}

// Run loads the persisted state and classifies current against it.
func Run(ctx context.Context, st store.Store, current []records.VideoRecord, lookup StatusLookup) (*Plan, error) {
	state, err := LoadState(ctx, st)
	if err != nil {
		return nil, err
	}

	plan, err := Classify(ctx, Input{
		Current:  current,
		Previous: state.Previous,
		Privated: state.Privated,
	}, lookup)
	if err != nil {
		return nil, err
	}
	plan.FirstRun = state.FirstRun
	return plan, nil
}
