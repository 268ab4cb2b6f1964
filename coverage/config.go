package coverage

import (
	"fmt"
	"os"

	"github.com/jinzhu/configor"
)

// Config carries every tunable of the reporting pipeline. Values come from
// defaults, then an optional yaml/json config file, then COVSCOPE_* env
// variables, then command-line flags (applied by the CLI layer).
type Config struct {
	// Classification thresholds, in percent.
	OKThreshold   float64 `yaml:"ok_threshold" json:"ok_threshold" default:"95"`
	WarnThreshold float64 `yaml:"warn_threshold" json:"warn_threshold" default:"85"`

	// DetailThreshold selects which assemblies get a file-level breakdown:
	// strictly below this value.
	DetailThreshold float64 `yaml:"detail_threshold" json:"detail_threshold" default:"90"`

	// TopN caps the number of files listed per assembly in detail views.
	TopN int `yaml:"top_n" json:"top_n" default:"10"`

	// TestMarker excludes packages measuring coverage of the tests
	// themselves.
	TestMarker string `yaml:"test_marker" json:"test_marker" default:"Tests"`

	// GeneratedSuffix identifies generator output by filename convention.
	GeneratedSuffix string `yaml:"generated_suffix" json:"generated_suffix" default:".g.cs"`

	// DisplayPrefix is stripped from assembly names for display only.
	DisplayPrefix string `yaml:"display_prefix" json:"display_prefix"`

	// ProjectFilter restricts aggregation to matching packages.
	ProjectFilter string `yaml:"project_filter" json:"project_filter"`

	// Merge is the duplicate-file strategy, "sum" or "union".
	Merge string `yaml:"merge" json:"merge" default:"sum"`

	// Patterns are the globs used to discover coverage files.
	Patterns []string `yaml:"patterns" json:"patterns"`

	// Projects maps test project directory names to the source assembly
	// they exercise, for the per-project view.
	Projects map[string]string `yaml:"projects" json:"projects"`

	// ProjectPattern locates one test project's coverage files; %s is the
	// test project directory name.
	ProjectPattern string `yaml:"project_pattern" json:"project_pattern" default:"tests/%s/**/TestResults/coverage*.xml"`

	Debug bool `yaml:"debug" json:"debug"`
}

// LoadConfig builds a Config from defaults, the optional config file at
// path, and COVSCOPE_* environment variables.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	loader := configor.New(&configor.Config{ENVPrefix: "COVSCOPE", Silent: true})

	var err error
	if path != "" {
		// configor quietly skips missing files; an explicitly named config
		// file that does not exist is a usage error.
		if _, statErr := os.Stat(path); statErr != nil {
			return nil, fmt.Errorf("loading config: %w", statErr)
		}
		err = loader.Load(cfg, path)
	} else {
		err = loader.Load(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if len(cfg.Patterns) == 0 {
		cfg.Patterns = []string{DefaultPattern}
	}
	if _, err := ParseMergeStrategy(cfg.Merge); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Options derives accumulator options from the config.
func (c *Config) Options() Options {
	return Options{
		Merge:           MergeStrategy(c.Merge),
		TestMarker:      c.TestMarker,
		ProjectFilter:   c.ProjectFilter,
		GeneratedSuffix: c.GeneratedSuffix,
	}
}
