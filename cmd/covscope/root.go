package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oxhq/covscope/coverage"
)

const version = "1.0.0"

// Sentinel errors used for exit-code mapping: both mean the command ran but
// the result should fail a CI gate.
var (
	errBelowThreshold  = errors.New("coverage below threshold")
	errNothingToReport = errors.New("nothing to report")
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "covscope",
		Short:         "Aggregate and report line coverage across multi-assembly projects",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "Path to a yaml/json config file")
	root.PersistentFlags().Bool("debug", false, "Enable debug logging")
	root.PersistentFlags().Bool("json", false, "Emit structured JSON instead of tables")
	root.PersistentFlags().Float64("ok-threshold", 95, "Coverage at/above this is classified OK")
	root.PersistentFlags().Float64("warn-threshold", 85, "Coverage at/above this is classified marginal")
	root.PersistentFlags().Float64("detail-threshold", 90, "List file details for assemblies strictly below this")
	root.PersistentFlags().Int("top-n", 10, "Max files listed per assembly in detail views")
	root.PersistentFlags().String("project-filter", "", "Only aggregate packages containing this substring")
	root.PersistentFlags().String("merge", "", "Duplicate-file merge strategy: sum or union")

	root.AddCommand(newReportCmd())
	root.AddCommand(newProjectCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newUncoveredCmd())
	root.AddCommand(newHistoryCmd())

	return root
}

// loadConfig builds the effective config: file/env defaults overridden by
// any flag the user actually set.
func loadConfig(cmd *cobra.Command) (*coverage.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := coverage.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("ok-threshold") {
		cfg.OKThreshold, _ = flags.GetFloat64("ok-threshold")
	}
	if flags.Changed("warn-threshold") {
		cfg.WarnThreshold, _ = flags.GetFloat64("warn-threshold")
	}
	if flags.Changed("detail-threshold") {
		cfg.DetailThreshold, _ = flags.GetFloat64("detail-threshold")
	}
	if flags.Changed("top-n") {
		cfg.TopN, _ = flags.GetInt("top-n")
	}
	if flags.Changed("project-filter") {
		cfg.ProjectFilter, _ = flags.GetString("project-filter")
	}
	if flags.Changed("merge") {
		merge, _ := flags.GetString("merge")
		if _, err := coverage.ParseMergeStrategy(merge); err != nil {
			return nil, err
		}
		cfg.Merge = merge
	}
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}
	return cfg, nil
}

func jsonMode(cmd *cobra.Command) bool {
	json, _ := cmd.Flags().GetBool("json")
	return json
}

func debugf(cfg *coverage.Config, format string, args ...any) {
	if cfg.Debug {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}

// collect discovers, parses and aggregates coverage files. Explicit args
// take precedence over configured patterns; unreadable inputs produce a
// warning and are skipped so partial input still yields a report.
func collect(cfg *coverage.Config, args []string) (*coverage.Accumulator, []string, error) {
	patterns := cfg.Patterns
	if len(args) > 0 {
		patterns = args
	}

	paths, err := coverage.Discover(patterns...)
	if err != nil {
		return nil, nil, err
	}

	// An explicit literal path that matched nothing deserves a warning; a
	// glob pattern matching nothing is normal.
	for _, arg := range args {
		if strings.ContainsAny(arg, "*?[{") {
			continue
		}
		if _, err := os.Stat(arg); os.IsNotExist(err) {
			warnf("coverage file not found: %s", arg)
		}
	}

	acc := coverage.NewAccumulator(cfg.Options())
	var parsed []string
	for _, path := range paths {
		report, err := coverage.ParseFile(path)
		if err != nil {
			warnf("skipping %v", err)
			continue
		}
		if report == nil {
			warnf("coverage file not found: %s", path)
			continue
		}
		debugf(cfg, "parsed %s: %d packages", path, len(report.Packages))
		acc.Add(report)
		parsed = append(parsed, path)
	}
	return acc, parsed, nil
}
