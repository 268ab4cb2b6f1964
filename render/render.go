// Package render turns coverage aggregates into terminal tables and a
// structured form suitable for CI tooling.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/oxhq/covscope/coverage"
)

const (
	heavyRule = "================================================================================"
	lightRule = "---------------------------------------------------------------------------"
)

// DisplayName strips the configured prefix from an assembly name.
func DisplayName(name, prefix string) string {
	if prefix != "" {
		return strings.TrimPrefix(name, prefix)
	}
	return name
}

// Banner writes the heavy section header used at the top of every view.
func Banner(w io.Writer, title string) {
	fmt.Fprintln(w, heavyRule)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, heavyRule)
	fmt.Fprintln(w)
}

// Overview writes the one-row-per-assembly table, riskiest first, followed
// by the overall total.
func Overview(w io.Writer, assemblies []*coverage.Assembly, cfg *coverage.Config) {
	fmt.Fprintf(w, "%-45s %10s %15s\n", "Assembly", "Coverage", "Lines")
	fmt.Fprintln(w, lightRule)

	totalAll, coveredAll := 0, 0
	for _, asm := range assemblies {
		if asm.Total() == 0 {
			continue
		}
		pct := asm.Percent()
		totalAll += asm.Total()
		coveredAll += asm.Covered()

		status := coverage.Classify(pct, cfg.OKThreshold, cfg.WarnThreshold)
		name := DisplayName(asm.Name, cfg.DisplayPrefix)
		fmt.Fprintf(w, "%s %-43s %8.1f%% %6d/%-6d\n",
			status.Marker(), name, pct, asm.Covered(), asm.Total())
	}

	fmt.Fprintln(w, lightRule)
	overall := coverage.Percent(coveredAll, totalAll)
	fmt.Fprintf(w, "%-45s %8.1f%% %6d/%-6d\n", "OVERALL", overall, coveredAll, totalAll)
	fmt.Fprintln(w)
}

// Details writes the file-level breakdown for every assembly strictly below
// the detail threshold: its top files by uncovered count, generated files
// annotated, with a generated-code subtotal when present.
func Details(w io.Writer, assemblies []*coverage.Assembly, cfg *coverage.Config) {
	Banner(w, fmt.Sprintf("ASSEMBLIES BELOW %.0f%% - TOP UNCOVERED FILES", cfg.DetailThreshold))

	for _, asm := range assemblies {
		pct := asm.Percent()
		if pct >= cfg.DetailThreshold || asm.Total() == 0 {
			continue
		}

		fmt.Fprintf(w, "\n%s: %.1f%%\n", DisplayName(asm.Name, cfg.DisplayPrefix), pct)
		fmt.Fprintln(w, strings.Repeat("-", 50))

		generatedUncovered := 0
		for _, f := range asm.TopUncovered(cfg.TopN) {
			marker := ""
			if f.Generated {
				marker = " [generated]"
				generatedUncovered += f.Uncovered()
			}
			fmt.Fprintf(w, "  %s: %d uncovered%s\n", f.Name, f.Uncovered(), marker)
		}
		if generatedUncovered > 0 {
			fmt.Fprintf(w, "  (Generated code: %d lines)\n", generatedUncovered)
		}
	}
	fmt.Fprintln(w)
}

// ProjectOverview writes the per-project table: narrower name column,
// status marker at the end, with a grand total row.
func ProjectOverview(w io.Writer, assemblies []*coverage.Assembly, cfg *coverage.Config) {
	fmt.Fprintf(w, "%-30s %10s %15s %8s\n", "Project", "Coverage", "Lines", "Status")
	fmt.Fprintln(w, strings.Repeat("-", 70))

	totalAll, coveredAll := 0, 0
	for _, asm := range assemblies {
		if asm.Total() == 0 {
			continue
		}
		pct := asm.Percent()
		totalAll += asm.Total()
		coveredAll += asm.Covered()

		status := coverage.Classify(pct, cfg.OKThreshold, cfg.WarnThreshold)
		name := DisplayName(asm.Name, cfg.DisplayPrefix)
		fmt.Fprintf(w, "%-30s %8.1f%% %6d/%-6d %8s\n",
			name, pct, asm.Covered(), asm.Total(), status.Marker())
	}

	fmt.Fprintln(w, strings.Repeat("-", 70))
	overall := coverage.Percent(coveredAll, totalAll)
	fmt.Fprintf(w, "%-30s %8.1f%% %6d/%-6d\n", "TOTAL", overall, coveredAll, totalAll)
	fmt.Fprintln(w)
}

// Legend writes the status-tier key using the configured thresholds.
func Legend(w io.Writer, cfg *coverage.Config) {
	fmt.Fprintln(w, heavyRule)
	fmt.Fprintf(w, "LEGEND: [OK] >= %.0f%%  |  [--] %.0f-%.0f%%  |  [!!] < %.0f%%\n",
		cfg.OKThreshold, cfg.WarnThreshold, cfg.OKThreshold, cfg.WarnThreshold)
	fmt.Fprintln(w, heavyRule)
}

// BarEntry is one row of the compact bar-chart view.
type BarEntry struct {
	Name    string
	Percent float64
}

// Bars writes the lowest-first bar chart, one '#' per five percent.
func Bars(w io.Writer, entries []BarEntry) {
	fmt.Fprintln(w, "\nCoverage by Project (lowest first):")
	fmt.Fprintln(w, strings.Repeat("=", 50))
	for _, e := range entries {
		bar := strings.Repeat("#", int(e.Percent/5))
		fmt.Fprintf(w, "%-40s %5.1f%% %s\n", e.Name, e.Percent, bar)
	}
	fmt.Fprintln(w, strings.Repeat("=", 50))
}

// ClassDetails writes the per-class uncovered-line listing for one
// assembly. Line numbers are capped at 20 per class to keep the output
// scannable.
func ClassDetails(w io.Writer, assembly string, details []coverage.ClassDetail) {
	fmt.Fprintf(w, "\n%s - Uncovered Classes:\n", assembly)
	fmt.Fprintln(w, strings.Repeat("=", 70))
	for _, d := range details {
		fmt.Fprintf(w, "\n  %s (%s)\n", d.Class, d.File)
		fmt.Fprintf(w, "    Coverage: %.1f%% (%d/%d) - %d lines uncovered\n",
			d.Percent(), d.Covered, d.Total, d.Uncovered())
		if n := len(d.UncoveredLines); n > 0 && n <= 20 {
			nums := make([]string, n)
			for i, ln := range d.UncoveredLines {
				nums[i] = fmt.Sprintf("%d", ln)
			}
			fmt.Fprintf(w, "    Uncovered lines: %s\n", strings.Join(nums, ", "))
		}
	}
}
