package scores

import (
	"fmt"
	"sort"

	"github.com/openoceanspp/oopp/internal/metrics"
)

// QualityWarning records a file whose missing scores were replaced with 0.
type QualityWarning struct {
	Path    string `json:"path"`
	Model   string `json:"model"`
	Missing int    `json:"missing"`
}

// Table is the wide score table: one row per id, one column per model.
// Rows keep the order of the first file added; later files are joined on id.
type Table struct {
	IDs      []string
	Models   []string
	Sources  []string
	Scores   [][]float64 // Scores[model][row]
	Warnings []QualityWarning

	index map[string]int
	seed  string
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.IDs)
}

// Column returns the scores of model in row order, or nil if unknown.
func (t *Table) Column(model string) []float64 {
	for i, m := range t.Models {
		if m == model {
			return t.Scores[i]
		}
	}
	return nil
}

// Score looks up a single cell.
func (t *Table) Score(id, model string) (float64, bool) {
	col := t.Column(model)
	if col == nil {
		return 0, false
	}
	row, ok := t.rowIndex()[id]
	if !ok {
		return 0, false
	}
	return col[row], true
}

// Records flattens the table into rows, model-major.
func (t *Table) Records() []Record {
	out := make([]Record, 0, len(t.Models)*len(t.IDs))
	for m, model := range t.Models {
		for r, id := range t.IDs {
			out = append(out, Record{ID: id, Score: t.Scores[m][r], Model: model})
		}
	}
	return out
}

// Averages returns the mean score across all models for each row.
func (t *Table) Averages() []float64 {
	return metrics.RowMeans(t.Scores)
}

// Top returns a new table holding the n rows with the highest average score,
// in descending order of average. Ties keep their original row order. n <= 0
// or n larger than the table keeps every row.
func (t *Table) Top(n int) *Table {
	avg := t.Averages()
	order := make([]int, len(t.IDs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return avg[order[a]] > avg[order[b]]
	})
	if n > 0 && n < len(order) {
		order = order[:n]
	}

	out := &Table{
		IDs:      make([]string, len(order)),
		Models:   append([]string(nil), t.Models...),
		Sources:  append([]string(nil), t.Sources...),
		Scores:   make([][]float64, len(t.Scores)),
		Warnings: append([]QualityWarning(nil), t.Warnings...),
		seed:     t.seed,
	}
	for r, src := range order {
		out.IDs[r] = t.IDs[src]
	}
	for m := range t.Scores {
		out.Scores[m] = make([]float64, len(order))
		for r, src := range order {
			out.Scores[m][r] = t.Scores[m][src]
		}
	}
	return out
}

// Add joins c onto the table. The first column seeds the row order; every
// later column must carry exactly the same ids, in any order.
func (t *Table) Add(c *Column) error {
	if len(t.Models) == 0 {
		t.IDs = append([]string(nil), c.IDs...)
		t.index = nil
		t.seed = c.Path
		t.append(c, append([]float64(nil), c.Scores...))
		return nil
	}

	index := t.rowIndex()
	aligned := make([]float64, len(t.IDs))
	present := make([]bool, len(t.IDs))

	var extra []string
	for i, id := range c.IDs {
		row, ok := index[id]
		if !ok {
			extra = append(extra, id)
			continue
		}
		aligned[row] = c.Scores[i]
		present[row] = true
	}

	var missing []string
	for row, ok := range present {
		if !ok {
			missing = append(missing, t.IDs[row])
		}
	}

	if len(missing) > 0 || len(extra) > 0 {
		return &AlignmentError{Path: c.Path, Seed: t.seed, Missing: missing, Extra: extra}
	}

	t.append(c, aligned)
	return nil
}

func (t *Table) append(c *Column, scores []float64) {
	t.Models = append(t.Models, t.uniqueModel(c.Model))
	t.Sources = append(t.Sources, c.Path)
	t.Scores = append(t.Scores, scores)
}

// uniqueModel suffixes a model name that is already present.
func (t *Table) uniqueModel(name string) string {
	taken := make(map[string]bool, len(t.Models))
	for _, m := range t.Models {
		taken[m] = true
	}
	if !taken[name] {
		return name
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", name, n)
		if !taken[candidate] {
			return candidate
		}
	}
}

func (t *Table) rowIndex() map[string]int {
	if t.index == nil || len(t.index) != len(t.IDs) {
		t.index = make(map[string]int, len(t.IDs))
		for i, id := range t.IDs {
			t.index[id] = i
		}
	}
	return t.index
}
