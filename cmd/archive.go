package cmd

import (
	"context"
	"errors"
	"fmt"

	"playlist-archiver/core/reconcile"
	"playlist-archiver/core/report"
	"playlist-archiver/core/youtube"
	"playlist-archiver/feature/archive"

	"github.com/spf13/cobra"
)

var (
	archiveAll      bool
	archiveAccounts []string
	archiveAdd      bool
	archiveYes      bool
	archiveNoPrune  bool
	archiveDryRun   bool
)

const firstRunNotice = "No previous archive detected. Creating first index..."

// archiveCmd fetches the selected accounts and records every status change.
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Archive playlists and record status changes",
	Long: `Fetches the playlists and liked videos of the selected accounts, compares them
with the previous index and appends every detected change to the ledgers.

Without flags an interactive menu asks which accounts to archive.

Examples:
  # Archive every known account
  archive --all

  # Archive two accounts, pruning without asking
  archive --account alice --account bob --yes

  # Authorize a new account and archive it
  archive --add

  # Show the changes without writing anything
  archive --all --dry-run`,
	RunE: runArchive,
}

func init() {
	archiveCmd.Flags().BoolVar(&archiveAll, "all", false, "Archive every known account")
	archiveCmd.Flags().StringArrayVar(&archiveAccounts, "account", nil, "Archive one account (repeatable)")
	archiveCmd.Flags().BoolVar(&archiveAdd, "add", false, "Authorize new accounts before archiving them")
	archiveCmd.Flags().BoolVar(&archiveYes, "yes", false, "Remove vanished privated entries without asking")
	archiveCmd.Flags().BoolVar(&archiveNoPrune, "no-prune", false, "Never prune the privated ledger")
	archiveCmd.Flags().BoolVar(&archiveDryRun, "dry-run", false, "Report changes without writing anything")
	archiveCmd.MarkFlagsMutuallyExclusive("all", "account", "add")
	archiveCmd.MarkFlagsMutuallyExclusive("yes", "no-prune")

	RootCmd.AddCommand(archiveCmd)
}

func runArchive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	a, err := setup()
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	auth, conn, err := a.connect()
	if err != nil {
		return err
	}

	p := newPrompter(cmd)
	accounts, err := selectAccounts(ctx, p, auth, conn)
	if err != nil {
		return err
	}

	svc := archive.NewService(a.store, archive.NewRemote(conn), a.logger)
	plan, err := svc.Plan(ctx, accounts)
	if errors.Is(err, reconcile.ErrNoChanges) {
		fmt.Fprintln(out, "\nPlaylists are identical to last check. Archiving will be skipped.")
		return nil
	}
	if err != nil {
		return err
	}

	if plan.FirstRun {
		fmt.Fprintln(out, firstRunNotice)
	}
	report.Render(out, plan)

	prune, err := confirmPrune(p, len(plan.RemovedUntracked), pruneFlags{
		yes:     archiveYes,
		noPrune: archiveNoPrune,
		dryRun:  archiveDryRun,
	})
	if err != nil {
		return err
	}

	result, err := svc.Apply(ctx, plan, reconcile.ApplyOptions{PruneUntracked: prune, DryRun: archiveDryRun})
	if err != nil {
		return fmt.Errorf("failed to save archive: %w", err)
	}

	if result.DryRun {
		fmt.Fprintln(out, "\nDry-run mode: No changes were made.")
		return nil
	}
	fmt.Fprintf(out, "\nArchive saved: %d index rows, %d resolved, %d pruned.\n",
		result.IndexRows, result.Resolved, result.Pruned)
	return nil
}

type pruneFlags struct {
	yes, noPrune, dryRun bool
}

// confirmPrune decides whether vanished privated entries are removed. The
// question is only asked when the answer would be written.
func confirmPrune(p *prompter, untracked int, f pruneFlags) (bool, error) {
	switch {
	case untracked == 0, f.noPrune:
		return false, nil
	case f.yes:
		return true, nil
	case f.dryRun:
		return false, nil
	}
	return p.confirm("Remove these videos from the privated ledger?")
}

// selectAccounts resolves the accounts of this run from the flags, or from the
// interactive menu when none is set.
func selectAccounts(ctx context.Context, p *prompter, auth *youtube.Authenticator, conn *youtube.Connector) ([]string, error) {
	switch {
	case archiveAdd:
		return addAccounts(ctx, p, auth, conn)
	case len(archiveAccounts) > 0:
		return archiveAccounts, nil
	}

	known, err := auth.Accounts()
	if err != nil {
		return nil, err
	}
	if len(known) == 0 {
		fmt.Fprintln(p.out, "No accounts found. Please authorize an account.")
		return addAccounts(ctx, p, auth, conn)
	}
	if archiveAll {
		return known, nil
	}

	choice, err := p.choose("What would you like to do?", []string{
		"Archive all accounts",
		"Archive one account",
		"Add a new account",
	})
	if err != nil {
		return nil, err
	}
	switch choice {
	case 0:
		return known, nil
	case 1:
		i, err := p.choose("Which account?", known)
		if err != nil {
			return nil, err
		}
		return known[i : i+1], nil
	default:
		return addAccounts(ctx, p, auth, conn)
	}
}

// addAccounts authorizes accounts until the user declines to add another one.
// A declined overwrite keeps the stored credentials and still archives the account.
func addAccounts(ctx context.Context, p *prompter, auth *youtube.Authenticator, conn *youtube.Connector) ([]string, error) {
	var added []string
	for {
		var promptErr error
		name, ts, err := auth.AddAccount(ctx, func(account string) bool {
			ok, err := p.confirm(fmt.Sprintf("Account %s already exists. Overwrite its credentials?", account))
			promptErr = err
			return ok
		})
		if promptErr != nil {
			return nil, promptErr
		}
		switch {
		case errors.Is(err, youtube.ErrOverwriteDeclined):
			fmt.Fprintf(p.out, "Keeping the existing credentials of %s.\n", name)
		case err != nil:
			return nil, err
		default:
			if _, err := conn.Register(ctx, name, ts); err != nil {
				return nil, err
			}
		}
		added = append(added, name)

		more, err := p.confirm("Add another account?")
		if err != nil {
			return nil, err
		}
		if !more {
			return added, nil
		}
	}
}
