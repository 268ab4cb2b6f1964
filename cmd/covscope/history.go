package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/oxhq/covscope/db"
	"github.com/oxhq/covscope/history"
	"github.com/oxhq/covscope/render"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Record and inspect coverage over time",
	}
	cmd.PersistentFlags().String("db", "", "History database path or libsql URL (default: ~/.covscope/history.db)")

	cmd.AddCommand(newHistoryRecordCmd())
	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryCompareCmd())
	return cmd
}

func openHistoryDB(cmd *cobra.Command, debug bool) (*gorm.DB, error) {
	dsn, _ := cmd.Flags().GetString("db")
	if dsn == "" {
		dsn = db.DefaultPath()
	}
	return db.Connect(dsn, debug)
}

func newHistoryRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record [glob...]",
		Short: "Aggregate coverage and persist the result as a run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			acc, _, err := collect(cfg, args)
			if err != nil {
				return err
			}
			if acc.Empty() {
				return errNothingToReport
			}

			conn, err := openHistoryDB(cmd, cfg.Debug)
			if err != nil {
				return err
			}

			label, _ := cmd.Flags().GetString("label")
			summary := render.BuildSummary(acc, cfg)
			run, err := history.NewStore(conn).Record(summary, label, cfg.Merge, cfg.ProjectFilter)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recorded run %s: %.1f%% (%d/%d lines)\n",
				run.ID, run.Coverage, run.CoveredLines, run.TotalLines)
			return nil
		},
	}
	cmd.Flags().String("label", "", "Label for the run, e.g. a branch or build number")
	return cmd
}

func newHistoryListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show recorded runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			conn, err := openHistoryDB(cmd, cfg.Debug)
			if err != nil {
				return err
			}

			limit, _ := cmd.Flags().GetInt("limit")
			runs, err := history.NewStore(conn).List(limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet")
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-22s %-20s %-20s %10s %15s\n", "ID", "Recorded", "Label", "Coverage", "Lines")
			for _, run := range runs {
				fmt.Fprintf(out, "%-22s %-20s %-20s %9.1f%% %6d/%-6d\n",
					run.ID, run.RecordedAt.Format("2006-01-02 15:04:05"), run.Label,
					run.Coverage, run.CoveredLines, run.TotalLines)
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 20, "Max runs to list, 0 for all")
	return cmd
}

func newHistoryCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <old-run-id> <new-run-id>",
		Short: "Diff two recorded runs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			conn, err := openHistoryDB(cmd, cfg.Debug)
			if err != nil {
				return err
			}

			diff, err := history.NewStore(conn).Compare(args[0], args[1])
			if err != nil {
				return err
			}
			if diff == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No coverage changes between runs")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), diff)
			return nil
		},
	}
}
