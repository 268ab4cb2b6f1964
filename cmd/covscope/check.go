package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oxhq/covscope/coverage"
	"github.com/oxhq/covscope/render"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [glob...]",
		Short: "Quick per-project coverage bar chart",
		Long: `Prints one line per discovered coverage file using the document-level
line-rate, lowest coverage first. With --detailed, recomputes per-package
rates from the raw line hits instead of trusting the reported rate.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			detailed, _ := cmd.Flags().GetBool("detailed")
			return runCheck(cmd, cfg, args, detailed)
		},
	}
	cmd.Flags().Bool("detailed", false, "Recompute per-package rates from line hits")
	return cmd
}

func runCheck(cmd *cobra.Command, cfg *coverage.Config, args []string, detailed bool) error {
	patterns := cfg.Patterns
	if len(args) > 0 {
		patterns = args
	}
	paths, err := coverage.Discover(patterns...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var entries []render.BarEntry
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

		if detailed {
			checkDetailed(out, report, path, cfg)
			continue
		}
		entries = append(entries, render.BarEntry{
			Name:    projectFromPath(path),
			Percent: report.LineRate * 100,
		})
	}

	if !parsedAny {
		fmt.Fprintln(os.Stderr, "Nothing to report: no coverage data found")
		return errNothingToReport
	}
	if detailed {
		return nil
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Percent < entries[j].Percent
	})

	if jsonMode(cmd) {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	render.Bars(out, entries)
	return nil
}

// checkDetailed prints recomputed per-package rates for one report,
// ignoring the package's own line-rate attribute.
func checkDetailed(w io.Writer, report *coverage.Report, path string, cfg *coverage.Config) {
	fmt.Fprintf(w, "\n%s:\n", projectFromPath(path))
	fmt.Fprintln(w, strings.Repeat("-", 60))

	for _, pkg := range report.Packages {
		if cfg.TestMarker != "" && strings.Contains(pkg.Name, cfg.TestMarker) {
			continue
		}
		if cfg.ProjectFilter != "" && !strings.Contains(pkg.Name, cfg.ProjectFilter) {
			continue
		}

		valid, covered := 0, 0
		for _, cls := range pkg.Classes {
			for _, line := range cls.Lines {
				valid++
				if line.Covered() {
					covered++
				}
			}
		}
		if valid > 0 {
			fmt.Fprintf(w, "  %-45s %5.1f%% (%d/%d)\n",
				pkg.Name, coverage.Percent(covered, valid), covered, valid)
		}
	}
}

// projectFromPath derives a display name from the conventional layout
// tests/<project>/bin/.../coverage.xml, falling back to the path itself.
func projectFromPath(path string) string {
	parts := strings.Split(strings.ReplaceAll(path, `\`, "/"), "/")
	for i, part := range parts {
		if part == "tests" && i+1 < len(parts) {
			return strings.TrimSuffix(parts[i+1], ".Tests")
		}
	}
	if len(parts) > 1 {
		return strings.TrimSuffix(parts[1], ".Tests")
	}
	return path
}
