package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxhq/covscope/coverage"
	"github.com/oxhq/covscope/render"
)

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report [glob...]",
		Short: "Aggregate all discovered coverage files into one summary",
		Long: `Aggregates every coverage XML file matched by the given globs (default:
tests/**/TestResults/coverage*.xml) and prints a per-assembly overview plus
file-level details for assemblies below the detail threshold.

Exits 1 when overall coverage is below the OK threshold, for CI gating.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runReport(cmd, cfg, args)
		},
	}
}

func runReport(cmd *cobra.Command, cfg *coverage.Config, args []string) error {
	acc, parsed, err := collect(cfg, args)
	if err != nil {
		return err
	}
	if acc.Empty() {
		fmt.Fprintln(os.Stderr, "Nothing to report: no coverage data found")
		return errNothingToReport
	}
	debugf(cfg, "aggregated %d files", len(parsed))

	out := cmd.OutOrStdout()
	summary := render.BuildSummary(acc, cfg)

	if jsonMode(cmd) {
		if err := render.WriteJSON(out, summary); err != nil {
			return err
		}
	} else {
		render.Banner(out, "CODE COVERAGE ANALYSIS")
		assemblies := acc.Assemblies()
		render.Overview(out, assemblies, cfg)
		render.Details(out, assemblies, cfg)
		render.Legend(out, cfg)
	}

	if summary.Percent < cfg.OKThreshold {
		return errBelowThreshold
	}
	return nil
}
