package coverage

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

// Report is one parsed coverage document. It only lives for the duration
// of a single aggregation pass.
type Report struct {
	XMLName  xml.Name  `xml:"coverage"`
	LineRate float64   `xml:"line-rate,attr"`
	Packages []Package `xml:"packages>package"`
}

// Package is the coverage tool's term for a compiled assembly being measured.
type Package struct {
	Name     string  `xml:"name,attr"`
	LineRate float64 `xml:"line-rate,attr"`
	Classes  []Class `xml:"classes>class"`
}

// Class is one measured source file unit. Several classes may share a
// filename (partial classes, nested types).
type Class struct {
	Name     string `xml:"name,attr"`
	Filename string `xml:"filename,attr"`
	Lines    []Line `xml:"lines>line"`
}

// Line is a single executable line. Covered means Hits > 0.
type Line struct {
	Number int `xml:"number,attr"`
	Hits   int `xml:"hits,attr"`
}

// Covered reports whether the line was executed at least once.
func (l Line) Covered() bool {
	return l.Hits > 0
}

// ParseFile reads and decodes one coverage document. A missing file returns
// (nil, nil): inputs are discovered by glob and absence is expected, not an
// error. A file that exists but does not decode returns an error carrying
// the path so the caller can warn and continue.
func ParseFile(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes a coverage document from memory. The path is used only for
// error context.
func Parse(data []byte, path string) (*Report, error) {
	var report Report
	if err := xml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &report, nil
}

// BaseName strips any directory prefix from a report filename. Coverage
// documents produced on Windows carry backslash separators, so both kinds
// are handled regardless of the host OS.
func BaseName(filename string) string {
	normalized := strings.ReplaceAll(filename, `\`, "/")
	if idx := strings.LastIndex(normalized, "/"); idx >= 0 {
		return normalized[idx+1:]
	}
	return normalized
}
