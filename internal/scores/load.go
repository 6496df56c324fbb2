// Package scores loads per-model score files and joins them into a single
// wide table keyed by sample id.
package scores

import (
	"fmt"
	"io"
	"log/slog"
)

// Options controls Load.
type Options struct {
	// Verbose prints a progress line per file to Out.
	Verbose bool
	// Out receives progress and missing-value warnings. Nil discards them.
	Out io.Writer
	// Columns overrides the id/score/model column names.
	Columns Columns
	// Logger receives structured records. Nil uses slog.Default().
	Logger *slog.Logger
}

// Load reads every path in order and joins the score columns into a Table.
// Missing scores are replaced with 0 and reported as a QualityWarning; any
// other problem aborts the whole load.
func Load(paths []string, opts Options) (*Table, error) {
	if len(paths) == 0 {
		return nil, ErrNoInputs
	}

	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	table := &Table{}
	for _, path := range paths {
		if opts.Verbose {
			fmt.Fprintf(out, "Reading %s...\n", path) //nolint:errcheck
		}

		col, err := LoadColumn(path, opts.Columns)
		if err != nil {
			return nil, err
		}

		if col.Missing > 0 {
			fmt.Fprintf(out, "Warning: found %d NaNs in %s, replacing with 0s\n", col.Missing, path) //nolint:errcheck
			logger.Debug("missing scores replaced with 0", "path", path, "model", col.Model, "count", col.Missing)
			table.Warnings = append(table.Warnings, QualityWarning{
				Path:    path,
				Model:   col.Model,
				Missing: col.Missing,
			})
		}

		if err := table.Add(col); err != nil {
			return nil, err
		}
		logger.Debug("score column loaded", "path", path, "model", table.Models[len(table.Models)-1], "rows", len(col.IDs))
	}

	return table, nil
}
