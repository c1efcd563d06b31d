package cmd

import (
	"fmt"
	"os"

	"playlist-archiver/core/report"
	"playlist-archiver/feature/archive"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var ledgerOut string

// ledgerCmd is the parent command for reading the ledgers.
var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect the transition ledgers",
}

var ledgerShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Print one ledger (recovered, deleted, privated or unlisted)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}

		ledger, entries, err := archive.NewService(a.store, nil, a.logger).Ledger(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		report.RenderLedger(cmd.OutOrStdout(), ledger, entries)
		return nil
	},
}

var ledgerExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the index and every ledger to an xlsx workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}

		f, err := os.Create(ledgerOut)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", ledgerOut, err)
		}
		defer f.Close()

		if err := archive.NewService(a.store, nil, a.logger).Export(cmd.Context(), f); err != nil {
			return err
		}
		a.logger.Info("Workbook exported", zap.String("file", ledgerOut))
		return f.Close()
	},
}

func init() {
	ledgerExportCmd.Flags().StringVar(&ledgerOut, "out", "archive.xlsx", "Output workbook path")
	ledgerCmd.AddCommand(ledgerShowCmd, ledgerExportCmd)
	RootCmd.AddCommand(ledgerCmd)
}
