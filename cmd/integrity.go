package cmd

import (
	"context"
	"errors"
	"sort"

	"playlist-archiver/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on the archive store",
	Long:  `Checks that every archive table exists, that no ledger holds duplicate entries and that the backend itself is usable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, true)
	},
}

// structureCmd represents the integrity structure command
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Check and fix missing tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, false)
	},
}

// duplicatesCmd represents the integrity duplicates command
var duplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "Check and fix duplicate ledger entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(structureCmd, duplicatesCmd)

	structureCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create missing tables")
	duplicatesCmd.Flags().BoolVar(&fixFlag, "fix", false, "Keep only the first entry per key")
}

func runIntegrityChecks(ctx context.Context, runStructure, runDuplicates bool) error {
	a, err := setup()
	if err != nil {
		return err
	}
	logg := a.logger
	svc := integrity.NewService(a.store, a.deps, logg)
	onlyOne := runStructure != runDuplicates

	if exists, err := svc.CheckBucket(ctx); err == nil {
		if exists {
			logg.Info("Archive bucket exists.", zap.String("bucket", a.deps.Bucket))
		} else {
			logg.Warn("Archive bucket is missing", zap.String("bucket", a.deps.Bucket))
			if fixFlag {
				if err := svc.FixBucket(ctx); err != nil {
					return err
				}
			}
		}
	} else if !errors.Is(err, integrity.ErrNotApplicable) {
		return err
	}

	if runStructure {
		logg.Info("Checking archive tables...")
		missing, err := svc.CheckStructure(ctx)
		if err != nil {
			return err
		}

		if len(missing) == 0 {
			logg.Info("All tables are present.")
		} else {
			logg.Warn("Missing tables detected", zap.Strings("missing", missing))

			if onlyOne && fixFlag {
				logg.Info("Creating missing tables...")
				if err := svc.FixStructure(ctx, missing); err != nil {
					return err
				}
				logg.Info("Structure fixed successfully.")
			} else if onlyOne {
				logg.Info("Run with --fix to create missing tables.")
			}
		}
	}

	if runDuplicates {
		logg.Info("Checking ledgers for duplicate entries...")
		dups, err := svc.CheckDuplicates(ctx)
		if err != nil {
			return err
		}

		if len(dups) == 0 {
			logg.Info("No duplicate ledger entries.")
		} else {
			ledgers := make([]string, 0, len(dups))
			for name, keys := range dups {
				logg.Warn("Duplicate entries detected", zap.String("ledger", name), zap.Strings("keys", keys))
				ledgers = append(ledgers, name)
			}
			sort.Strings(ledgers)

			if onlyOne && fixFlag {
				if err := svc.FixDuplicates(ctx, ledgers); err != nil {
					return err
				}
				logg.Info("Duplicates removed successfully.")
			} else if onlyOne {
				logg.Info("Run with --fix to remove duplicate entries.")
			}
		}
	}

	if report, err := svc.CheckSchema(); err == nil {
		if report.Matched {
			logg.Info("SQL schema matches the archive model.", zap.String("dialect", report.Dialect))
		} else {
			for table, tbl := range report.Tables {
				if tbl.Status == "ok" {
					continue
				}
				logg.Warn("Schema mismatch",
					zap.String("table", table),
					zap.String("status", tbl.Status),
					zap.Strings("missing_columns", tbl.MissingColumns),
					zap.Strings("type_mismatches", tbl.TypeMismatches))
			}
			for _, e := range report.Errors {
				logg.Error("Inspection Error", zap.String("error", e))
			}
		}
	} else if !errors.Is(err, integrity.ErrNotApplicable) {
		return err
	}

	return nil
}
