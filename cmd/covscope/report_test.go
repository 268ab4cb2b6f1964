package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureXML = `<?xml version="1.0"?>
<coverage line-rate="0.5">
  <packages>
    <package name="Acme.Core" line-rate="0.5">
      <classes>
        <class name="Engine" filename="src/Engine.cs">
          <lines>
            <line number="1" hits="1"/>
            <line number="2" hits="0"/>
            <line number="3" hits="0"/>
            <line number="4" hits="3"/>
          </lines>
        </class>
      </classes>
    </package>
    <package name="Acme.Core.Tests" line-rate="1.0">
      <classes>
        <class name="EngineTests" filename="tests/EngineTests.cs">
          <lines>
            <line number="1" hits="1"/>
          </lines>
        </class>
      </classes>
    </package>
  </packages>
</coverage>`

func writeCoverageFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "coverage.xml")
	require.NoError(t, os.WriteFile(path, []byte(fixtureXML), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestReportCommand(t *testing.T) {
	path := writeCoverageFixture(t)

	out, err := execute(t, "report", path)

	// 50% overall is below the default OK threshold: report renders, then
	// the gate trips.
	assert.ErrorIs(t, err, errBelowThreshold)
	assert.Contains(t, out, "CODE COVERAGE ANALYSIS")
	assert.Contains(t, out, "[!!] Acme.Core")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "2/4")
	assert.Contains(t, out, "Engine.cs: 2 uncovered")

	// The test assembly never shows up.
	assert.NotContains(t, out, "Acme.Core.Tests")
}

func TestReportCommandPassesGate(t *testing.T) {
	path := writeCoverageFixture(t)

	out, err := execute(t, "report", path, "--ok-threshold", "50")
	assert.NoError(t, err)
	assert.Contains(t, out, "OVERALL")
}

func TestReportCommandJSON(t *testing.T) {
	path := writeCoverageFixture(t)

	out, err := execute(t, "report", path, "--json", "--ok-threshold", "40")
	require.NoError(t, err)

	var summary struct {
		Total      int     `json:"total_lines"`
		Covered    int     `json:"covered_lines"`
		Percent    float64 `json:"coverage"`
		Status     string  `json:"status"`
		Assemblies []struct {
			Name string `json:"name"`
		} `json:"assemblies"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.Covered)
	assert.Equal(t, 50.0, summary.Percent)
	require.Len(t, summary.Assemblies, 1)
	assert.Equal(t, "Acme.Core", summary.Assemblies[0].Name)
}

func TestReportCommandNothingToReport(t *testing.T) {
	_, err := execute(t, "report", filepath.Join(t.TempDir(), "missing.xml"))
	assert.ErrorIs(t, err, errNothingToReport)
}

func TestReportCommandSkipsMalformedInput(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.xml")
	bad := filepath.Join(dir, "bad.xml")
	require.NoError(t, os.WriteFile(good, []byte(fixtureXML), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("not xml at all <"), 0o644))

	out, err := execute(t, "report", filepath.Join(dir, "*.xml"), "--ok-threshold", "10")
	assert.NoError(t, err)
	assert.Contains(t, out, "Acme.Core")
}

func TestReportCommandProjectFilter(t *testing.T) {
	path := writeCoverageFixture(t)

	_, err := execute(t, "report", path, "--project-filter", "Nonexistent")
	assert.ErrorIs(t, err, errNothingToReport)
}

func TestCheckCommand(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "tests", "Acme.Core.Tests", "TestResults")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "coverage.xml"), []byte(fixtureXML), 0o644))

	out, err := execute(t, "check", filepath.Join(root, "tests/**/TestResults/coverage*.xml"))
	require.NoError(t, err)
	assert.Contains(t, out, "Coverage by Project (lowest first):")
	assert.Contains(t, out, "Acme.Core")
	assert.Contains(t, out, "50.0%")
}

func TestCheckCommandDetailed(t *testing.T) {
	path := writeCoverageFixture(t)

	out, err := execute(t, "check", path, "--detailed")
	require.NoError(t, err)
	assert.Contains(t, out, "Acme.Core")
	assert.Contains(t, out, "50.0% (2/4)")
	assert.NotContains(t, out, "Acme.Core.Tests")
}

func TestUncoveredCommand(t *testing.T) {
	path := writeCoverageFixture(t)

	out, err := execute(t, "uncovered", "Acme.Core", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Acme.Core - Uncovered Classes:")
	assert.Contains(t, out, "Engine (Engine.cs)")
	assert.Contains(t, out, "Uncovered lines: 2, 3")
}

func TestUncoveredCommandSummary(t *testing.T) {
	path := writeCoverageFixture(t)

	out, err := execute(t, "uncovered", "Acme.Core", path, "--summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Classes needing coverage improvement:")
	assert.Contains(t, out, "Engine.cs: 50.0% (2 uncovered)")
}

func TestProjectCommand(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "tests", "Acme.Core.Tests", "TestResults")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "coverage.xml"), []byte(fixtureXML), 0o644))

	cfgPath := filepath.Join(root, "covscope.yml")
	cfgContent := "display_prefix: \"Acme.\"\n" +
		"project_pattern: \"" + filepath.ToSlash(root) + "/tests/%s/**/coverage*.xml\"\n" +
		"projects:\n" +
		"  Acme.Core.Tests: Acme.Core\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgContent), 0o644))

	out, err := execute(t, "project", "--config", cfgPath, "--ok-threshold", "40")
	require.NoError(t, err)
	assert.Contains(t, out, "PER-PROJECT CODE COVERAGE")
	assert.Contains(t, out, "Core")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "TOTAL")
}

func TestProjectCommandWithoutMapping(t *testing.T) {
	_, err := execute(t, "project")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errBelowThreshold)
	assert.NotErrorIs(t, err, errNothingToReport)
}

func TestHistoryRoundTrip(t *testing.T) {
	path := writeCoverageFixture(t)
	dbPath := filepath.Join(t.TempDir(), "history.db")

	out, err := execute(t, "history", "record", path, "--db", dbPath, "--label", "build-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded run run_")
	assert.Contains(t, out, "50.0%")

	out, err = execute(t, "history", "list", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "build-1")
	assert.Contains(t, out, "50.0%")
}
