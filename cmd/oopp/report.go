package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/openoceanspp/oopp/internal/plot"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	reportWidth   = 70
	modelColWidth = 24
)

// reportPrinter formats counts with digit grouping.
var reportPrinter = message.NewPrinter(language.English)

func printCompareTable(w io.Writer, r *compareReport) {
	// Header
	fmt.Fprintln(w, strings.Repeat("=", reportWidth)) //nolint:errcheck
	fmt.Fprintln(w, " COMPARISON REPORT")              //nolint:errcheck
	fmt.Fprintln(w, strings.Repeat("=", reportWidth)) //nolint:errcheck
	fmt.Fprintln(w)                                    //nolint:errcheck

	// File listing
	for i, f := range r.Files {
		fmt.Fprintf(w, "  [%d] %s  (model: %s)\n", i+1, f, r.Models[i]) //nolint:errcheck
	}
	reportPrinter.Fprintf(w, "\n  %d samples, %d models\n\n", r.Rows, len(r.Models)) //nolint:errcheck

	if len(r.Warnings) > 0 {
		section(w, "WARNINGS")
		for _, q := range r.Warnings {
			reportPrinter.Fprintf(w, "  %s: %d missing scores replaced with 0\n", q.Path, q.Missing) //nolint:errcheck
		}
		fmt.Fprintln(w) //nolint:errcheck
	}

	// Per-model summary
	section(w, "MODEL SUMMARY")
	fmt.Fprintf(w, "  %s  %9s  %9s  %9s  %9s\n", padRight("Model", modelColWidth), "Mean", "StdDev", "Min", "Max") //nolint:errcheck
	for _, s := range r.Summaries {
		fmt.Fprintf(w, "  %s  %9.4f  %9.4f  %9.4f  %9.4f\n", //nolint:errcheck
			padRight(truncateName(s.Model, modelColWidth), modelColWidth), s.Mean, s.StdDev, s.Min, s.Max)
	}
	fmt.Fprintln(w) //nolint:errcheck

	// Correlation matrix, columns numbered like the file listing
	section(w, "CORRELATION")
	fmt.Fprintf(w, "  %s", padRight("", modelColWidth)) //nolint:errcheck
	for i := range r.Models {
		fmt.Fprintf(w, "  %6s", fmt.Sprintf("[%d]", i+1)) //nolint:errcheck
	}
	fmt.Fprintln(w) //nolint:errcheck
	if r.Correlation != nil {
		for i, row := range r.Correlation.Rows() {
			fmt.Fprintf(w, "  %s", padRight(truncateName(r.Correlation.Labels[i], modelColWidth), modelColWidth)) //nolint:errcheck
			for _, v := range row {
				fmt.Fprintf(w, "  %6s", plot.FormatCell(v)) //nolint:errcheck
			}
			fmt.Fprintln(w) //nolint:errcheck
		}
	}
	fmt.Fprintln(w) //nolint:errcheck

	// Top-N by average
	section(w, fmt.Sprintf("TOP %d BY AVERAGE", len(r.Top)))
	for i, row := range r.Top {
		fmt.Fprintf(w, "  %3d. %s  %.4f\n", i+1, padRight(truncateName(row.ID, 40), 40), row.Average) //nolint:errcheck
	}
	fmt.Fprintln(w) //nolint:errcheck

	if len(r.Charts) > 0 {
		section(w, "CHARTS")
		for _, c := range r.Charts {
			fmt.Fprintf(w, "  %s\n", c) //nolint:errcheck
		}
		fmt.Fprintln(w) //nolint:errcheck
	}
}

func section(w io.Writer, title string) {
	fmt.Fprintln(w, strings.Repeat("-", reportWidth)) //nolint:errcheck
	fmt.Fprintf(w, " %s\n", title)                     //nolint:errcheck
	fmt.Fprintln(w, strings.Repeat("-", reportWidth)) //nolint:errcheck
}

// truncateName shortens a name to maxLen runes, replacing the last rune with "…" if needed.
func truncateName(name string, maxLen int) string {
	runes := []rune(name)
	if len(runes) <= maxLen {
		return name
	}
	return string(runes[:maxLen-1]) + "…"
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
