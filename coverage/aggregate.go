package coverage

import (
	"fmt"
	"sort"
	"strings"
)

// MergeStrategy controls how repeated measurements of the same source file
// are combined across input reports.
type MergeStrategy string

const (
	// MergeSum adds totals every time a file appears. This matches the
	// historical behavior: two suites measuring the same file both count.
	MergeSum MergeStrategy = "sum"

	// MergeUnion keys lines by number and counts each distinct line once,
	// covered if any run covered it.
	MergeUnion MergeStrategy = "union"
)

// ParseMergeStrategy validates a user-supplied merge strategy name.
func ParseMergeStrategy(s string) (MergeStrategy, error) {
	switch MergeStrategy(s) {
	case MergeSum, MergeUnion:
		return MergeStrategy(s), nil
	default:
		return "", fmt.Errorf("unknown merge strategy %q (want sum or union)", s)
	}
}

// Options configures an Accumulator.
type Options struct {
	// Merge selects the duplicate-file strategy. Defaults to MergeSum.
	Merge MergeStrategy

	// TestMarker excludes any package whose name contains it. These
	// packages measure coverage of tests, not by tests.
	TestMarker string

	// ProjectFilter, when non-empty, restricts aggregation to packages
	// whose name contains the substring.
	ProjectFilter string

	// GeneratedSuffix marks files produced by code generators, e.g. ".g.cs".
	GeneratedSuffix string
}

// File is the per-source-file aggregate, keyed by base filename. Repeated
// appearances of the same base name sum (or union) rather than overwrite.
type File struct {
	Name      string
	Total     int
	Covered   int
	Generated bool

	lines map[int]bool // union mode: line number -> covered in any run
	seq   int
}

// Uncovered returns the number of lines never executed.
func (f *File) Uncovered() int {
	return f.Total - f.Covered
}

// Percent returns the file's coverage percentage.
func (f *File) Percent() float64 {
	return Percent(f.Covered, f.Total)
}

// Assembly is the per-package aggregate: totals plus the file aggregates
// that produced them.
type Assembly struct {
	Name string

	files map[string]*File
	order []string
}

// Total returns the assembly's line count across all of its files.
func (a *Assembly) Total() int {
	total := 0
	for _, f := range a.files {
		total += f.Total
	}
	return total
}

// Covered returns the assembly's covered line count.
func (a *Assembly) Covered() int {
	covered := 0
	for _, f := range a.files {
		covered += f.Covered
	}
	return covered
}

// Uncovered returns the assembly's uncovered line count.
func (a *Assembly) Uncovered() int {
	return a.Total() - a.Covered()
}

// Percent returns the assembly's coverage percentage.
func (a *Assembly) Percent() float64 {
	return Percent(a.Covered(), a.Total())
}

// Files returns the assembly's file aggregates in first-seen order.
func (a *Assembly) Files() []*File {
	files := make([]*File, 0, len(a.order))
	for _, name := range a.order {
		files = append(files, a.files[name])
	}
	return files
}

// TopUncovered returns up to n files that still have uncovered lines,
// largest gap first. Ties are broken by coverage percentage ascending, and
// full ties keep first-seen order. n <= 0 means no limit.
func (a *Assembly) TopUncovered(n int) []*File {
	var files []*File
	for _, name := range a.order {
		if f := a.files[name]; f.Uncovered() > 0 {
			files = append(files, f)
		}
	}
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Uncovered() != files[j].Uncovered() {
			return files[i].Uncovered() > files[j].Uncovered()
		}
		return files[i].Percent() < files[j].Percent()
	})
	if n > 0 && len(files) > n {
		files = files[:n]
	}
	return files
}

// Accumulator merges any number of coverage reports into per-assembly and
// per-file aggregates. Merge order does not affect the result.
type Accumulator struct {
	opts       Options
	assemblies map[string]*Assembly
	order      []string
	seq        int
}

// NewAccumulator returns an empty accumulator. A zero Merge strategy
// defaults to MergeSum.
func NewAccumulator(opts Options) *Accumulator {
	if opts.Merge == "" {
		opts.Merge = MergeSum
	}
	return &Accumulator{
		opts:       opts,
		assemblies: make(map[string]*Assembly),
	}
}

// Include applies the package filter rules: test assemblies are always
// excluded, and when a project filter is set only matching packages pass.
func (acc *Accumulator) Include(pkgName string) bool {
	if acc.opts.TestMarker != "" && strings.Contains(pkgName, acc.opts.TestMarker) {
		return false
	}
	if acc.opts.ProjectFilter != "" && !strings.Contains(pkgName, acc.opts.ProjectFilter) {
		return false
	}
	return true
}

// Add folds one report into the accumulator. Classes without line entries
// are skipped.
func (acc *Accumulator) Add(report *Report) {
	if report == nil {
		return
	}
	for _, pkg := range report.Packages {
		if !acc.Include(pkg.Name) {
			continue
		}
		for _, cls := range pkg.Classes {
			if len(cls.Lines) == 0 {
				continue
			}
			acc.addClass(pkg.Name, cls)
		}
	}
}

func (acc *Accumulator) addClass(pkgName string, cls Class) {
	asm := acc.assemblies[pkgName]
	if asm == nil {
		asm = &Assembly{Name: pkgName, files: make(map[string]*File)}
		acc.assemblies[pkgName] = asm
		acc.order = append(acc.order, pkgName)
	}

	base := BaseName(cls.Filename)
	file := asm.files[base]
	if file == nil {
		file = &File{
			Name:      base,
			Generated: acc.opts.GeneratedSuffix != "" && strings.HasSuffix(base, acc.opts.GeneratedSuffix),
			seq:       acc.seq,
		}
		acc.seq++
		if acc.opts.Merge == MergeUnion {
			file.lines = make(map[int]bool)
		}
		asm.files[base] = file
		asm.order = append(asm.order, base)
	}

	switch acc.opts.Merge {
	case MergeUnion:
		for _, line := range cls.Lines {
			file.lines[line.Number] = file.lines[line.Number] || line.Covered()
		}
		file.Total = len(file.lines)
		file.Covered = 0
		for _, covered := range file.lines {
			if covered {
				file.Covered++
			}
		}
	default:
		file.Total += len(cls.Lines)
		for _, line := range cls.Lines {
			if line.Covered() {
				file.Covered++
			}
		}
	}
}

// Empty reports whether nothing was aggregated, either because no report
// was added or every package was filtered out.
func (acc *Accumulator) Empty() bool {
	return len(acc.assemblies) == 0
}

// Assemblies returns the aggregates ordered by coverage percentage
// ascending, so the riskiest assemblies come first. Equal percentages keep
// first-seen order.
func (acc *Accumulator) Assemblies() []*Assembly {
	assemblies := make([]*Assembly, 0, len(acc.order))
	for _, name := range acc.order {
		assemblies = append(assemblies, acc.assemblies[name])
	}
	sort.SliceStable(assemblies, func(i, j int) bool {
		return assemblies[i].Percent() < assemblies[j].Percent()
	})
	return assemblies
}

// SortAssemblies orders a combined slice of assemblies the same way
// Accumulator.Assemblies does: percentage ascending, stable.
func SortAssemblies(assemblies []*Assembly) {
	sort.SliceStable(assemblies, func(i, j int) bool {
		return assemblies[i].Percent() < assemblies[j].Percent()
	})
}

// Overall returns the grand totals across every aggregated assembly.
func (acc *Accumulator) Overall() (total, covered int) {
	for _, asm := range acc.assemblies {
		total += asm.Total()
		covered += asm.Covered()
	}
	return total, covered
}

// Percent is the shared percentage rule: zero lines means 0%, never NaN.
func Percent(covered, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(covered) / float64(total) * 100
}
