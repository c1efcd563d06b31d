package cmd

import (
	"fmt"

	"playlist-archiver/feature/archive"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// accountsCmd is the parent command for account management.
var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage archived YouTube accounts",
}

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List authorized accounts and their archived rows",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		auth, _, err := a.connect()
		if err != nil {
			return err
		}

		known, err := auth.Accounts()
		if err != nil {
			return err
		}
		summaries, err := archive.NewService(a.store, nil, a.logger).Accounts(cmd.Context())
		if err != nil {
			return err
		}
		byName := make(map[string]archive.AccountSummary, len(summaries))
		for _, s := range summaries {
			byName[s.Account] = s
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Account", "Playlists", "Videos", "Liked"})
		for _, name := range known {
			s := byName[name]
			t.AppendRow(table.Row{name, s.Playlists, s.Videos, s.Liked})
		}
		t.Render()

		if len(known) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No accounts found. Run 'accounts add' to authorize one.")
		}
		return nil
	},
}

var accountsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Authorize a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		auth, conn, err := a.connect()
		if err != nil {
			return err
		}

		added, err := addAccounts(cmd.Context(), newPrompter(cmd), auth, conn)
		if err != nil {
			return err
		}
		for _, name := range added {
			fmt.Fprintf(cmd.OutOrStdout(), "Authorized %s.\n", name)
		}
		return nil
	},
}

func init() {
	accountsCmd.AddCommand(accountsListCmd, accountsAddCmd)
	RootCmd.AddCommand(accountsCmd)
}
