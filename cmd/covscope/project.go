package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/oxhq/covscope/coverage"
	"github.com/oxhq/covscope/render"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Per-project coverage using the test-project mapping",
		Long: `Reports coverage per source assembly, driven by the projects mapping in
the config file (test project directory -> source assembly). Each test
project's own coverage files are aggregated against its mapped assembly
only, so a suite's results never bleed into another project's numbers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			// The per-project view lists fewer files per assembly than the
			// global report.
			if !cmd.Flags().Changed("top-n") {
				cfg.TopN = 5
			}
			return runProject(cmd, cfg)
		},
	}
	return cmd
}

func runProject(cmd *cobra.Command, cfg *coverage.Config) error {
	if len(cfg.Projects) == 0 {
		return fmt.Errorf("no projects mapping configured; add a projects section to the config file")
	}

	testProjects := make([]string, 0, len(cfg.Projects))
	for testProject := range cfg.Projects {
		testProjects = append(testProjects, testProject)
	}
	sort.Strings(testProjects)

	var assemblies []*coverage.Assembly
	for _, testProject := range testProjects {
		assembly := cfg.Projects[testProject]
		pattern := fmt.Sprintf(cfg.ProjectPattern, testProject)
		paths, err := coverage.Discover(pattern)
		if err != nil {
			return err
		}

		opts := cfg.Options()
		opts.ProjectFilter = assembly
		acc := coverage.NewAccumulator(opts)
		for _, path := range paths {
			report, err := coverage.ParseFile(path)
			if err != nil {
				warnf("skipping %v", err)
				continue
			}
			debugf(cfg, "parsed %s for %s", path, assembly)
			acc.Add(report)
		}
		assemblies = append(assemblies, acc.Assemblies()...)
	}

	if len(assemblies) == 0 {
		fmt.Fprintln(os.Stderr, "Nothing to report: no coverage data found for any mapped project")
		return errNothingToReport
	}
	coverage.SortAssemblies(assemblies)

	out := cmd.OutOrStdout()
	summary := render.BuildSummaryFrom(assemblies, cfg)

	if jsonMode(cmd) {
		if err := render.WriteJSON(out, summary); err != nil {
			return err
		}
	} else {
		render.Banner(out, "PER-PROJECT CODE COVERAGE")
		render.ProjectOverview(out, assemblies, cfg)
		render.Details(out, assemblies, cfg)
		render.Legend(out, cfg)
	}

	if summary.Percent < cfg.OKThreshold {
		return errBelowThreshold
	}
	return nil
}
