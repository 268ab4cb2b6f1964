package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oxhq/covscope/coverage"
	"github.com/oxhq/covscope/render"
)

func newUncoveredCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uncovered <assembly> [file...]",
		Short: "List uncovered lines per class for one assembly",
		Long: `Drills into one assembly and lists every class with missed lines,
including the exact line numbers. Files default to the configured discovery
globs. With --summary, prints a compact ranking of the classes most worth
testing next instead of the full listing.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			summary, _ := cmd.Flags().GetBool("summary")
			return runUncovered(cmd, cfg, args[0], args[1:], summary)
		},
	}
	cmd.Flags().Bool("summary", false, "Rank classes by need instead of listing line numbers")
	return cmd
}

func runUncovered(cmd *cobra.Command, cfg *coverage.Config, assembly string, files []string, summaryMode bool) error {
	patterns := cfg.Patterns
	if len(files) > 0 {
		patterns = files
	}
	paths, err := coverage.Discover(patterns...)
	if err != nil {
		return err
	}

	var details []coverage.ClassDetail
	parsedAny := false
	for _, path := range paths {
		report, err := coverage.ParseFile(path)
		if err != nil {
			warnf("skipping %v", err)
			continue
		}
		if report == nil {
			continue
		}
		parsedAny = true
		details = append(details, coverage.ClassDetails(report, assembly, cfg.TestMarker)...)
	}

	if !parsedAny {
		fmt.Fprintln(os.Stderr, "Nothing to report: no coverage data found")
		return errNothingToReport
	}

	out := cmd.OutOrStdout()
	if summaryMode {
		coverage.SortByNeed(details)
		if len(details) > 25 {
			details = details[:25]
		}
		fmt.Fprintln(out, "Classes needing coverage improvement:")
		for _, d := range details {
			fmt.Fprintf(out, "  %s: %.1f%% (%d uncovered)\n", d.File, d.Percent(), d.Uncovered())
		}
		return nil
	}

	render.ClassDetails(out, assembly, details)
	return nil
}
