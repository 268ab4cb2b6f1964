package coverage

import (
	"sort"
	"strings"
)

// ClassDetail is the per-class drill-down used when hunting for the exact
// lines a suite missed.
type ClassDetail struct {
	Class          string
	File           string
	Total          int
	Covered        int
	UncoveredLines []int
}

// Uncovered returns the number of missed lines in the class.
func (d ClassDetail) Uncovered() int {
	return d.Total - d.Covered
}

// Percent returns the class coverage percentage.
func (d ClassDetail) Percent() float64 {
	return Percent(d.Covered, d.Total)
}

// ClassDetails extracts per-class line detail for one assembly from a single
// report. Matching is by substring, with test assemblies excluded; classes
// without lines or with full coverage are omitted.
func ClassDetails(report *Report, assembly, testMarker string) []ClassDetail {
	if report == nil {
		return nil
	}
	var details []ClassDetail
	for _, pkg := range report.Packages {
		if !strings.Contains(pkg.Name, assembly) {
			continue
		}
		if testMarker != "" && strings.Contains(pkg.Name, testMarker) {
			continue
		}
		for _, cls := range pkg.Classes {
			if len(cls.Lines) == 0 {
				continue
			}
			detail := ClassDetail{
				Class: cls.Name,
				File:  BaseName(cls.Filename),
				Total: len(cls.Lines),
			}
			for _, line := range cls.Lines {
				if line.Covered() {
					detail.Covered++
				} else {
					detail.UncoveredLines = append(detail.UncoveredLines, line.Number)
				}
			}
			if detail.Uncovered() > 0 {
				details = append(details, detail)
			}
		}
	}
	return details
}

// SortByNeed orders class details by coverage percentage ascending, then by
// uncovered count descending, surfacing the classes most worth testing next.
func SortByNeed(details []ClassDetail) {
	sort.SliceStable(details, func(i, j int) bool {
		if details[i].Percent() != details[j].Percent() {
			return details[i].Percent() < details[j].Percent()
		}
		return details[i].Uncovered() > details[j].Uncovered()
	})
}
