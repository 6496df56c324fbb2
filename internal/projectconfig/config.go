// Package projectconfig provides the ProjectConfig struct and loader for
// .oopp.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/openoceanspp/oopp/internal/scores"
	"github.com/openoceanspp/oopp/internal/utils"
	"github.com/openoceanspp/oopp/internal/validation"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up by Load.
const FileName = ".oopp.yaml"

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultBuild          = "debug"
	DefaultPredictionsDir = "./predictions"
	DefaultResultsLog     = "search_results.txt"

	DefaultIDColumn    = scores.DefaultIDColumn
	DefaultScoreColumn = scores.DefaultScoreColumn
	DefaultModelColumn = scores.DefaultModelColumn

	DefaultTop    = 50
	DefaultFormat = "table"

	maxWalkLevels = 10
)

// DefaultReports are the scoring reports appended to the results log after
// every grid point.
var DefaultReports = []string{"./no_surface_micro_oopp.txt", "./micro_oopp.txt"}

// Builds are the accepted values for search.build.
var Builds = []string{"debug", "release"}

// DefaultsConfig holds settings shared by every command.
type DefaultsConfig struct {
	Verbose *bool `yaml:"verbose,omitempty"`
}

// SweepConfig is one classifier flag and the values to try for it.
type SweepConfig struct {
	Flag   string   `yaml:"flag"`
	Values []string `yaml:"values"`
}

// SearchConfig holds the hyperparameter search command generator settings.
type SearchConfig struct {
	Build          string        `yaml:"build,omitempty"`
	PredictionsDir string        `yaml:"predictions_dir,omitempty"`
	ResultsLog     string        `yaml:"results_log,omitempty"`
	Reports        []string      `yaml:"reports,omitempty"`
	Grid           []SweepConfig `yaml:"grid,omitempty"`
}

// ColumnsConfig names the columns read from score files.
type ColumnsConfig struct {
	ID    string `yaml:"id,omitempty"`
	Score string `yaml:"score,omitempty"`
	Model string `yaml:"model,omitempty"`
}

// CompareConfig holds compare command settings.
type CompareConfig struct {
	Columns   ColumnsConfig `yaml:"columns,omitempty"`
	Top       int           `yaml:"top,omitempty"`
	OutputDir string        `yaml:"output_dir,omitempty"`
	Open      *bool         `yaml:"open,omitempty"`
	Format    string        `yaml:"format,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .oopp.yaml.
type ProjectConfig struct {
	Defaults DefaultsConfig `yaml:"defaults,omitempty"`
	Search   SearchConfig   `yaml:"search,omitempty"`
	Compare  CompareConfig  `yaml:"compare,omitempty"`

	// Path is the file the config was read from, empty for pure defaults.
	Path string `yaml:"-"`
}

// DefaultGrid returns the parameter sweeps used when the config names none.
func DefaultGrid() []SweepConfig {
	stddevs := []string{"2.0", "2.5", "3.0", "3.5", "4.0"}
	photons := []string{"2", "3", "4", "5", "6", "7", "8"}
	return []SweepConfig{
		{Flag: "oo-surface-n-stddev", Values: stddevs},
		{Flag: "oo-bathy-n-stddev", Values: append([]string(nil), stddevs...)},
		{Flag: "oo-min-surface-photons-per-window", Values: photons},
		{Flag: "oo-min-bathy-photons-per-window", Values: append([]string(nil), photons...)},
	}
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Defaults: DefaultsConfig{
			Verbose: utils.Ptr(false),
		},
		Search: SearchConfig{
			Build:          DefaultBuild,
			PredictionsDir: DefaultPredictionsDir,
			ResultsLog:     DefaultResultsLog,
			Reports:        append([]string(nil), DefaultReports...),
			Grid:           DefaultGrid(),
		},
		Compare: CompareConfig{
			Columns: ColumnsConfig{
				ID:    DefaultIDColumn,
				Score: DefaultScoreColumn,
				Model: DefaultModelColumn,
			},
			Top:    DefaultTop,
			Open:   utils.Ptr(true),
			Format: DefaultFormat,
		},
	}
}

// Dir returns the directory relative paths in the config resolve against.
func (c *ProjectConfig) Dir() string {
	if c.Path == "" {
		return "."
	}
	return filepath.Dir(c.Path)
}

// OutputDir returns compare.output_dir resolved against the config file.
func (c *ProjectConfig) OutputDir() string {
	return utils.ResolvePath(c.Compare.OutputDir, c.Dir())
}

// Load finds .oopp.yaml by walking up from startDir (max 10 levels),
// validates and unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	path, data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	if errs := validation.ValidateConfigBytes(data); len(errs) > 0 {
		return nil, &InvalidConfigError{Path: path, Problems: errs}
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	mergeConfig(cfg, &fileCfg)
	cfg.Path = path
	return cfg, nil
}

// InvalidConfigError lists schema violations found in a config file.
type InvalidConfigError struct {
	Path     string
	Problems []string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid %s:\n  %s", e.Path, strings.Join(e.Problems, "\n  "))
}

// Marshal renders cfg as YAML.
func Marshal(cfg *ProjectConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", FileName, err)
	}
	return data, nil
}

// findConfigFile walks up from dir looking for .oopp.yaml.
// Returns os.ErrNotExist if no config file is found. Propagates real I/O
// errors (e.g. permission denied) instead of silently swallowing them.
func findConfigFile(dir string) (string, []byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < maxWalkLevels; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return "", nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Defaults
	if src.Defaults.Verbose != nil {
		dst.Defaults.Verbose = src.Defaults.Verbose
	}

	// Search
	if src.Search.Build != "" {
		dst.Search.Build = src.Search.Build
	}
	if src.Search.PredictionsDir != "" {
		dst.Search.PredictionsDir = src.Search.PredictionsDir
	}
	if src.Search.ResultsLog != "" {
		dst.Search.ResultsLog = src.Search.ResultsLog
	}
	if src.Search.Reports != nil {
		dst.Search.Reports = src.Search.Reports
	}
	if len(src.Search.Grid) > 0 {
		dst.Search.Grid = src.Search.Grid
	}

	// Compare
	if src.Compare.Columns.ID != "" {
		dst.Compare.Columns.ID = src.Compare.Columns.ID
	}
	if src.Compare.Columns.Score != "" {
		dst.Compare.Columns.Score = src.Compare.Columns.Score
	}
	if src.Compare.Columns.Model != "" {
		dst.Compare.Columns.Model = src.Compare.Columns.Model
	}
	if src.Compare.Top != 0 {
		dst.Compare.Top = src.Compare.Top
	}
	if src.Compare.OutputDir != "" {
		dst.Compare.OutputDir = src.Compare.OutputDir
	}
	if src.Compare.Open != nil {
		dst.Compare.Open = src.Compare.Open
	}
	if src.Compare.Format != "" {
		dst.Compare.Format = src.Compare.Format
	}
}
