package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/covscope/coverage"
)

func testConfig() *coverage.Config {
	return &coverage.Config{
		OKThreshold:     95,
		WarnThreshold:   85,
		DetailThreshold: 90,
		TopN:            10,
		TestMarker:      "Tests",
		GeneratedSuffix: ".g.cs",
		Merge:           "sum",
	}
}

func buildAccumulator(t *testing.T) *coverage.Accumulator {
	t.Helper()
	acc := coverage.NewAccumulator(coverage.Options{
		TestMarker:      "Tests",
		GeneratedSuffix: ".g.cs",
	})

	report := &coverage.Report{Packages: []coverage.Package{
		{
			Name: "Acme.Core",
			Classes: []coverage.Class{
				{Name: "A", Filename: "Engine.cs", Lines: lines(1, 0, 0, 0)},
				{Name: "B", Filename: "Shim.g.cs", Lines: lines(0, 0)},
			},
		},
		{
			Name: "Acme.Util",
			Classes: []coverage.Class{
				{Name: "C", Filename: "Util.cs", Lines: lines(1, 1, 1, 1, 1, 1, 1, 1, 1, 1)},
			},
		},
	}}
	acc.Add(report)
	return acc
}

func lines(hits ...int) []coverage.Line {
	var out []coverage.Line
	for i, h := range hits {
		out = append(out, coverage.Line{Number: i + 1, Hits: h})
	}
	return out
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Core", DisplayName("Acme.Core", "Acme."))
	assert.Equal(t, "Acme.Core", DisplayName("Acme.Core", ""))
	assert.Equal(t, "Other.Core", DisplayName("Other.Core", "Acme."))
}

func TestOverview(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig()
	Overview(&buf, buildAccumulator(t).Assemblies(), cfg)
	out := buf.String()

	// Acme.Core: 1/6 lines, poor. Acme.Util: 10/10, OK. Overall 11/16.
	assert.Contains(t, out, "[!!] Acme.Core")
	assert.Contains(t, out, "[OK] Acme.Util")
	assert.Contains(t, out, "OVERALL")
	assert.Contains(t, out, "11/16")

	// Riskiest assembly listed first.
	assert.Less(t, strings.Index(out, "Acme.Core"), strings.Index(out, "Acme.Util"))
}

func TestDetailsBoundaryIsStrict(t *testing.T) {
	// An assembly at exactly the detail threshold is not listed.
	acc := coverage.NewAccumulator(coverage.Options{})
	acc.Add(&coverage.Report{Packages: []coverage.Package{
		{Name: "AtBoundary", Classes: []coverage.Class{
			{Name: "X", Filename: "Boundary.cs", Lines: lines(1, 1, 1, 1, 1, 1, 1, 1, 1, 0)},
		}},
	}})

	cfg := testConfig()
	require.Equal(t, 90.0, acc.Assemblies()[0].Percent())

	var buf bytes.Buffer
	Details(&buf, acc.Assemblies(), cfg)
	assert.NotContains(t, buf.String(), "AtBoundary")
	assert.NotContains(t, buf.String(), "Boundary.cs")
}

func TestDetailsListsFilesAndGeneratedSubtotal(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig()
	Details(&buf, buildAccumulator(t).Assemblies(), cfg)
	out := buf.String()

	assert.Contains(t, out, "ASSEMBLIES BELOW 90%")
	assert.Contains(t, out, "Acme.Core: 16.7%")
	assert.Contains(t, out, "Engine.cs: 3 uncovered")
	assert.Contains(t, out, "Shim.g.cs: 2 uncovered [generated]")
	assert.Contains(t, out, "(Generated code: 2 lines)")

	// Fully covered assemblies get no detail section.
	assert.NotContains(t, out, "Acme.Util")
}

func TestDetailsHonorsTopN(t *testing.T) {
	acc := coverage.NewAccumulator(coverage.Options{})
	acc.Add(&coverage.Report{Packages: []coverage.Package{
		{Name: "Big", Classes: []coverage.Class{
			{Name: "A", Filename: "a.cs", Lines: lines(0, 0, 0)},
			{Name: "B", Filename: "b.cs", Lines: lines(0, 0)},
			{Name: "C", Filename: "c.cs", Lines: lines(0)},
		}},
	}})

	cfg := testConfig()
	cfg.TopN = 2

	var buf bytes.Buffer
	Details(&buf, acc.Assemblies(), cfg)
	out := buf.String()

	assert.Contains(t, out, "a.cs")
	assert.Contains(t, out, "b.cs")
	assert.NotContains(t, out, "c.cs")
}

func TestProjectOverview(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig()
	cfg.DisplayPrefix = "Acme."
	ProjectOverview(&buf, buildAccumulator(t).Assemblies(), cfg)
	out := buf.String()

	assert.Contains(t, out, "Core")
	assert.Contains(t, out, "[!!]")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "11/16")
}

func TestBars(t *testing.T) {
	var buf bytes.Buffer
	Bars(&buf, []BarEntry{
		{Name: "Net", Percent: 42.0},
		{Name: "Core", Percent: 100.0},
	})
	out := buf.String()

	assert.Contains(t, out, "Coverage by Project (lowest first):")
	assert.Contains(t, out, "42.0% ########")
	assert.Contains(t, out, strings.Repeat("#", 20))
}

func TestClassDetailsRendering(t *testing.T) {
	var buf bytes.Buffer
	details := []coverage.ClassDetail{
		{Class: "Engine", File: "Engine.cs", Total: 4, Covered: 2, UncoveredLines: []int{7, 9}},
	}
	ClassDetails(&buf, "Acme.Core", details)
	out := buf.String()

	assert.Contains(t, out, "Acme.Core - Uncovered Classes:")
	assert.Contains(t, out, "Engine (Engine.cs)")
	assert.Contains(t, out, "Coverage: 50.0% (2/4) - 2 lines uncovered")
	assert.Contains(t, out, "Uncovered lines: 7, 9")
}

func TestBuildSummary(t *testing.T) {
	cfg := testConfig()
	summary := BuildSummary(buildAccumulator(t), cfg)

	assert.Equal(t, 16, summary.Total)
	assert.Equal(t, 11, summary.Covered)
	assert.InDelta(t, 68.75, summary.Percent, 0.01)
	assert.Equal(t, coverage.StatusPoor, summary.Status)

	require.Len(t, summary.Assemblies, 2)
	core := summary.Assemblies[0]
	assert.Equal(t, "Acme.Core", core.Name)
	assert.Equal(t, coverage.StatusPoor, core.Status)
	require.Len(t, core.Files, 2)
	assert.Equal(t, "Engine.cs", core.Files[0].Name)
	assert.Equal(t, 3, core.Files[0].Uncovered)
	assert.True(t, core.Files[1].Generated)

	util := summary.Assemblies[1]
	assert.Equal(t, coverage.StatusOK, util.Status)
	assert.Empty(t, util.Files)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig()
	require.NoError(t, WriteJSON(&buf, BuildSummary(buildAccumulator(t), cfg)))

	out := buf.String()
	assert.Contains(t, out, `"total_lines": 16`)
	assert.Contains(t, out, `"covered_lines": 11`)
	assert.Contains(t, out, `"status": "poor"`)
	assert.Contains(t, out, `"generated": true`)
}
