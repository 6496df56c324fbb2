package projectconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNew_ReturnsAllDefaults(t *testing.T) {
	cfg := New()

	// Defaults
	assertBoolPtr(t, "Defaults.Verbose", false, cfg.Defaults.Verbose)

	// Search
	assertEqual(t, "Search.Build", "debug", cfg.Search.Build)
	assertEqual(t, "Search.PredictionsDir", "./predictions", cfg.Search.PredictionsDir)
	assertEqual(t, "Search.ResultsLog", "search_results.txt", cfg.Search.ResultsLog)
	assert.Equal(t, []string{"./no_surface_micro_oopp.txt", "./micro_oopp.txt"}, cfg.Search.Reports)
	require.Len(t, cfg.Search.Grid, 4)
	assert.Equal(t, "oo-surface-n-stddev", cfg.Search.Grid[0].Flag)
	assert.Equal(t, []string{"2.0", "2.5", "3.0", "3.5", "4.0"}, cfg.Search.Grid[1].Values)
	assert.Equal(t, "oo-min-bathy-photons-per-window", cfg.Search.Grid[3].Flag)
	assert.Len(t, cfg.Search.Grid[3].Values, 7)

	// Compare
	assertEqual(t, "Compare.Columns.ID", "filename", cfg.Compare.Columns.ID)
	assertEqual(t, "Compare.Columns.Score", "Avg", cfg.Compare.Columns.Score)
	assertEqual(t, "Compare.Columns.Model", "model", cfg.Compare.Columns.Model)
	assertEqualInt(t, "Compare.Top", 50, cfg.Compare.Top)
	assertEqual(t, "Compare.OutputDir", "", cfg.Compare.OutputDir)
	assertBoolPtr(t, "Compare.Open", true, cfg.Compare.Open)
	assertEqual(t, "Compare.Format", "table", cfg.Compare.Format)

	assert.Equal(t, "", cfg.Path)
	assert.Equal(t, ".", cfg.Dir())
}

func TestNew_GridIsNotShared(t *testing.T) {
	a := New()
	a.Search.Grid[0].Values[0] = "changed"
	a.Search.Reports[0] = "changed"

	b := New()
	assert.Equal(t, "2.0", b.Search.Grid[0].Values[0])
	assert.Equal(t, "2.0", b.Search.Grid[1].Values[0])
	assert.Equal(t, "./no_surface_micro_oopp.txt", b.Search.Reports[0])
}

func TestLoad_FullConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
defaults:
  verbose: true
search:
  build: release
  predictions_dir: ./out/predictions
  results_log: sweep.log
  reports:
    - ./report.txt
  grid:
    - flag: oo-surface-n-stddev
      values: [1.5, 2.0]
compare:
  columns:
    id: sample
    score: F1
    model: name
  top: 10
  output_dir: plots
  open: false
  format: json
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assertBoolPtr(t, "Defaults.Verbose", true, cfg.Defaults.Verbose)
	assertEqual(t, "Search.Build", "release", cfg.Search.Build)
	assertEqual(t, "Search.PredictionsDir", "./out/predictions", cfg.Search.PredictionsDir)
	assertEqual(t, "Search.ResultsLog", "sweep.log", cfg.Search.ResultsLog)
	assert.Equal(t, []string{"./report.txt"}, cfg.Search.Reports)
	assert.Equal(t, []SweepConfig{{Flag: "oo-surface-n-stddev", Values: []string{"1.5", "2.0"}}}, cfg.Search.Grid)

	assertEqual(t, "Compare.Columns.ID", "sample", cfg.Compare.Columns.ID)
	assertEqual(t, "Compare.Columns.Score", "F1", cfg.Compare.Columns.Score)
	assertEqual(t, "Compare.Columns.Model", "name", cfg.Compare.Columns.Model)
	assertEqualInt(t, "Compare.Top", 10, cfg.Compare.Top)
	assertBoolPtr(t, "Compare.Open", false, cfg.Compare.Open)
	assertEqual(t, "Compare.Format", "json", cfg.Compare.Format)

	assert.Equal(t, filepath.Join(dir, FileName), cfg.Path)
	assert.Equal(t, filepath.Join(dir, "plots"), cfg.OutputDir())
}

func TestLoad_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
compare:
  top: 5
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assertEqualInt(t, "Compare.Top", 5, cfg.Compare.Top)
	assertEqual(t, "Compare.Format", "table", cfg.Compare.Format)
	assertEqual(t, "Search.Build", "debug", cfg.Search.Build)
	assert.Len(t, cfg.Search.Grid, 4)
	assert.Equal(t, "", cfg.OutputDir())
}

func TestLoad_EmptyReportsList(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, "search:\n  reports: []\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Empty(t, cfg.Search.Reports)
}

func TestLoad_MissingFile_ReturnsDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	defaults := New()
	assert.Equal(t, defaults, cfg)
}

func TestLoad_InvalidYAML_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
search:
  build: [not valid yaml
    this is broken
`)

	_, err := Load(dir)
	require.Error(t, err)
}

func TestLoad_SchemaViolation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName, `
search:
  build: profile
compare:
  top: -1
`)

	_, err := Load(dir)
	var cfgErr *InvalidConfigError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
	assert.Equal(t, filepath.Join(dir, FileName), cfgErr.Path)
	assert.Len(t, cfgErr.Problems, 2)
	assert.Contains(t, err.Error(), "/search/build")
	assert.Contains(t, err.Error(), "/compare/top")
}

func TestLoad_WalksUpDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, FileName, `
search:
  build: release
`)

	child := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(child, 0o755))

	cfg, err := Load(child)
	require.NoError(t, err)

	assertEqual(t, "Search.Build", "release", cfg.Search.Build)
	// Other defaults still populated
	assertEqualInt(t, "Compare.Top", 50, cfg.Compare.Top)
	assert.Equal(t, root, cfg.Dir())
}

func TestBoolPointerFields(t *testing.T) {
	t.Run("defaults preserved when not set in YAML", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, FileName, "compare:\n  top: 3\n")
		cfg, err := Load(dir)
		require.NoError(t, err)
		assertBoolPtr(t, "Compare.Open", true, cfg.Compare.Open)
		assertBoolPtr(t, "Defaults.Verbose", false, cfg.Defaults.Verbose)
	})

	t.Run("explicitly false", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, FileName, "defaults:\n  verbose: false\ncompare:\n  open: false\n")
		cfg, err := Load(dir)
		require.NoError(t, err)
		assertBoolPtr(t, "Defaults.Verbose", false, cfg.Defaults.Verbose)
		assertBoolPtr(t, "Compare.Open", false, cfg.Compare.Open)
	})

	t.Run("explicitly true", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, FileName, "defaults:\n  verbose: true\ncompare:\n  open: true\n")
		cfg, err := Load(dir)
		require.NoError(t, err)
		assertBoolPtr(t, "Defaults.Verbose", true, cfg.Defaults.Verbose)
		assertBoolPtr(t, "Compare.Open", true, cfg.Compare.Open)
	})
}

func TestMarshal_RoundTrip(t *testing.T) {
	cfg := New()
	cfg.Search.Build = "release"
	cfg.Compare.Top = 20

	data, err := Marshal(cfg)
	require.NoError(t, err)

	var back ProjectConfig
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, "release", back.Search.Build)
	assert.Equal(t, 20, back.Compare.Top)
	assert.Equal(t, "", back.Path)
}

// --- test helpers ---

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func assertEqual(t *testing.T, field, want, got string) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %q, want %q", field, got, want)
	}
}

func assertEqualInt(t *testing.T, field string, want, got int) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %d, want %d", field, got, want)
	}
}

func assertBoolPtr(t *testing.T, field string, want bool, got *bool) {
	t.Helper()
	if got == nil {
		t.Errorf("%s is nil, want *%v", field, want)
		return
	}
	if *got != want {
		t.Errorf("%s = %v, want %v", field, *got, want)
	}
}
