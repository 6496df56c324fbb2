package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/openoceanspp/oopp/internal/metrics"
	"github.com/openoceanspp/oopp/internal/plot"
	"github.com/openoceanspp/oopp/internal/projectconfig"
	"github.com/openoceanspp/oopp/internal/scores"
	"github.com/openoceanspp/oopp/internal/spinner"
	"github.com/openoceanspp/oopp/internal/statistics"
	"github.com/openoceanspp/oopp/internal/viewer"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Chart file names written by compare.
const (
	correlationChart = "correlation.png"
	comparisonChart  = "comparison.png"
)

// newOpener returns the viewer used to display charts. Tests replace it.
var newOpener = func() viewer.Opener { return viewer.BrowserOpener{} }

type compareOptions struct {
	verbose bool
	top     int
	outDir  string
	noOpen  bool
	format  string
}

func newCompareCommand() *cobra.Command {
	var opts compareOptions

	cmd := &cobra.Command{
		Use:   "compare <scores.tsv> [scores.tsv ...]",
		Short: "Compare per-model score files",
		Long: `Compare the per-sample scores of one or more models.

Each input is a tab-separated file with filename, Avg and model columns
(.gz and .zst inputs are decompressed on the fly). Files are joined on the
sample id; missing scores are replaced with 0 and reported.

Two charts are written: a correlation heatmap between models and a scatter
of the top-N samples by average score. They are opened in the default
viewer unless --no-open is given.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return &UsageError{Message: "compare: " + scores.ErrNoInputs.Error(), Err: scores.ErrNoInputs}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return compareCommandE(cmd, args, &opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Show verbose output")
	cmd.Flags().IntVarP(&opts.top, "top", "n", projectconfig.DefaultTop, "Number of samples shown in the comparison scatter")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "Directory for the rendered charts (default: a new temp directory)")
	cmd.Flags().BoolVar(&opts.noOpen, "no-open", false, "Do not open the charts after rendering")
	cmd.Flags().StringVarP(&opts.format, "format", "f", projectconfig.DefaultFormat, "Output format: table or json")

	return cmd
}

// resolveCompareOptions layers explicitly set flags over the project config.
func resolveCompareOptions(cmd *cobra.Command, cfg *projectconfig.ProjectConfig, opts *compareOptions) (compareOptions, error) {
	flags := cmd.Flags()
	out := compareOptions{
		verbose: opts.verbose,
		top:     cfg.Compare.Top,
		outDir:  cfg.OutputDir(),
		noOpen:  cfg.Compare.Open != nil && !*cfg.Compare.Open,
		format:  cfg.Compare.Format,
	}
	if !flags.Changed("verbose") && cfg.Defaults.Verbose != nil {
		out.verbose = *cfg.Defaults.Verbose
	}
	if flags.Changed("top") {
		out.top = opts.top
	}
	if flags.Changed("out") {
		out.outDir = opts.outDir
	}
	if flags.Changed("no-open") {
		out.noOpen = opts.noOpen
	}
	if flags.Changed("format") {
		out.format = opts.format
	}

	if out.format != "table" && out.format != "json" {
		return out, &UsageError{Message: fmt.Sprintf("unsupported format %q: must be table or json", out.format)}
	}
	if out.top < 1 {
		return out, &UsageError{Message: fmt.Sprintf("--top must be at least 1, got %d", out.top)}
	}
	return out, nil
}

func compareCommandE(cmd *cobra.Command, args []string, flagOpts *compareOptions) error {
	cfg, err := projectconfig.Load(projectDir(cmd))
	if err != nil {
		return err
	}
	opts, err := resolveCompareOptions(cmd, cfg, flagOpts)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	// Keep stdout a single JSON document in json mode.
	progress := w
	if opts.format == "json" {
		progress = cmd.ErrOrStderr()
	}
	table, err := scores.Load(args, scores.Options{
		Verbose: opts.verbose,
		Out:     progress,
		Columns: scores.Columns{
			ID:    cfg.Compare.Columns.ID,
			Score: cfg.Compare.Columns.Score,
			Model: cfg.Compare.Columns.Model,
		},
		Logger: slog.Default(),
	})
	if err != nil {
		return err
	}

	corr, err := statistics.Correlate(table.Models, table.Scores)
	if err != nil {
		return fmt.Errorf("computing correlation: %w", err)
	}
	top := table.Top(opts.top)

	var opener viewer.Opener
	if !opts.noOpen {
		opener = newOpener()
	}
	gallery, err := viewer.NewGallery(opts.outDir, opener)
	if err != nil {
		return err
	}

	stop := spinner.Start(cmd.ErrOrStderr(), "Rendering charts...")
	charts, err := renderCharts(gallery, corr, top)
	stop()
	if err != nil {
		return err
	}
	slog.Debug("charts written", "dir", gallery.Dir, "count", len(charts))

	report := buildCompareReport(args, table, corr, top, charts)
	if opts.format == "json" {
		if err := printCompareJSON(w, report); err != nil {
			return err
		}
	} else {
		printCompareTable(w, report)
	}

	gallery.Show(charts...)
	return nil
}

// renderCharts writes the heatmap and the scatter concurrently. The returned
// paths are in display order.
func renderCharts(g *viewer.Gallery, corr *statistics.CorrelationMatrix, top *scores.Table) ([]string, error) {
	charts := []viewer.Chart{
		{Name: correlationChart, Render: func(w io.Writer) error {
			return plot.WriteHeatmap(w, corr, plot.HeatmapOptions{})
		}},
		{Name: comparisonChart, Render: func(w io.Writer) error {
			return plot.WriteScatter(w, top, plot.ScatterOptions{})
		}},
	}

	paths := make([]string, len(charts))
	var eg errgroup.Group
	for i, c := range charts {
		eg.Go(func() error {
			p, err := g.Write(c)
			if err != nil {
				return err
			}
			paths[i] = p
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// modelSummary is the per-model block of the comparison report.
type modelSummary struct {
	Model  string `json:"model"`
	Source string `json:"source"`
	metrics.Summary
}

// topRow is one row of the top-N table.
type topRow struct {
	ID      string    `json:"id"`
	Average float64   `json:"average"`
	Scores  []float64 `json:"scores"`
}

// compareReport is the full comparison output.
type compareReport struct {
	Files       []string                      `json:"files"`
	Models      []string                      `json:"models"`
	Rows        int                           `json:"rows"`
	Summaries   []modelSummary                `json:"summaries"`
	Correlation *statistics.CorrelationMatrix `json:"correlation"`
	Top         []topRow                      `json:"top"`
	Records     []scores.Record               `json:"records"`
	Warnings    []scores.QualityWarning       `json:"warnings"`
	Charts      []string                      `json:"charts"`
}

func buildCompareReport(files []string, table *scores.Table, corr *statistics.CorrelationMatrix, top *scores.Table, charts []string) *compareReport {
	r := &compareReport{
		Files:       files,
		Models:      table.Models,
		Rows:        table.Len(),
		Correlation: corr,
		Warnings:    table.Warnings,
		Charts:      charts,
		Records:     table.Records(),
	}
	if r.Warnings == nil {
		r.Warnings = []scores.QualityWarning{}
	}

	for m, model := range table.Models {
		r.Summaries = append(r.Summaries, modelSummary{
			Model:   model,
			Source:  table.Sources[m],
			Summary: metrics.Summarize(table.Scores[m]),
		})
	}

	avg := top.Averages()
	for i, id := range top.IDs {
		row := topRow{ID: id, Average: avg[i], Scores: make([]float64, len(top.Models))}
		for m, model := range top.Models {
			row.Scores[m], _ = top.Score(id, model)
		}
		r.Top = append(r.Top, row)
	}
	return r
}

func printCompareJSON(w io.Writer, r *compareReport) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal comparison report: %w", err)
	}
	fmt.Fprintln(w, string(data)) //nolint:errcheck
	return nil
}
