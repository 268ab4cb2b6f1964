package render

import (
	"encoding/json"
	"io"

	"github.com/oxhq/covscope/coverage"
)

// Summary is the machine-readable form of an aggregation pass, stable
// enough for CI pipelines to parse.
type Summary struct {
	Total      int               `json:"total_lines"`
	Covered    int               `json:"covered_lines"`
	Percent    float64           `json:"coverage"`
	Status     coverage.Status   `json:"status"`
	Assemblies []AssemblySummary `json:"assemblies"`
}

// AssemblySummary is one assembly's slice of the Summary.
type AssemblySummary struct {
	Name    string          `json:"name"`
	Total   int             `json:"total_lines"`
	Covered int             `json:"covered_lines"`
	Percent float64         `json:"coverage"`
	Status  coverage.Status `json:"status"`
	Files   []FileSummary   `json:"files,omitempty"`
}

// FileSummary is one file aggregate with remaining gaps.
type FileSummary struct {
	Name      string  `json:"name"`
	Total     int     `json:"total_lines"`
	Covered   int     `json:"covered_lines"`
	Uncovered int     `json:"uncovered_lines"`
	Percent   float64 `json:"coverage"`
	Generated bool    `json:"generated,omitempty"`
}

// BuildSummary flattens an accumulator into its structured form. File lists
// honor the configured top-N cap and only include files with gaps.
func BuildSummary(acc *coverage.Accumulator, cfg *coverage.Config) Summary {
	return BuildSummaryFrom(acc.Assemblies(), cfg)
}

// BuildSummaryFrom builds the structured form from an already-sorted
// assembly slice.
func BuildSummaryFrom(assemblies []*coverage.Assembly, cfg *coverage.Config) Summary {
	total, covered := 0, 0
	for _, asm := range assemblies {
		total += asm.Total()
		covered += asm.Covered()
	}
	summary := Summary{
		Total:   total,
		Covered: covered,
		Percent: coverage.Percent(covered, total),
	}
	summary.Status = coverage.Classify(summary.Percent, cfg.OKThreshold, cfg.WarnThreshold)

	for _, asm := range assemblies {
		asmSummary := AssemblySummary{
			Name:    DisplayName(asm.Name, cfg.DisplayPrefix),
			Total:   asm.Total(),
			Covered: asm.Covered(),
			Percent: asm.Percent(),
			Status:  coverage.Classify(asm.Percent(), cfg.OKThreshold, cfg.WarnThreshold),
		}
		for _, f := range asm.TopUncovered(cfg.TopN) {
			asmSummary.Files = append(asmSummary.Files, FileSummary{
				Name:      f.Name,
				Total:     f.Total,
				Covered:   f.Covered,
				Uncovered: f.Uncovered(),
				Percent:   f.Percent(),
				Generated: f.Generated,
			})
		}
		summary.Assemblies = append(summary.Assemblies, asmSummary)
	}
	return summary
}

// WriteJSON encodes the summary with indentation for human spot-checks.
func WriteJSON(w io.Writer, summary Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
