// Package statistics computes pairwise correlation between model score
// columns.
package statistics

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrNoColumns is returned when there is nothing to correlate.
	ErrNoColumns = errors.New("statistics: no columns to correlate")
	// ErrLengthMismatch is returned when columns differ in length or do not
	// match their labels.
	ErrLengthMismatch = errors.New("statistics: column length mismatch")
)

// CorrelationMatrix holds pairwise Pearson coefficients between labelled
// columns. It is symmetric with a unit diagonal. An off-diagonal entry is NaN
// when either column has zero variance or fewer than two rows exist.
type CorrelationMatrix struct {
	Labels []string
	values *mat.SymDense
}

// Correlate computes the Pearson correlation matrix of columns. labels[i]
// names columns[i].
func Correlate(labels []string, columns [][]float64) (*CorrelationMatrix, error) {
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}
	if len(labels) != len(columns) {
		return nil, fmt.Errorf("%w: %d labels for %d columns", ErrLengthMismatch, len(labels), len(columns))
	}
	rows := len(columns[0])
	for i, c := range columns {
		if len(c) != rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, want %d", ErrLengthMismatch, labels[i], len(c), rows)
		}
	}

	n := len(columns)
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		sym.SetSym(i, i, 1)
		for j := i + 1; j < n; j++ {
			sym.SetSym(i, j, pearson(columns[i], columns[j]))
		}
	}

	return &CorrelationMatrix{
		Labels: append([]string(nil), labels...),
		values: sym,
	}, nil
}

func pearson(x, y []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return math.NaN()
	}
	// Rounding can push perfectly correlated columns just past ±1.
	return math.Max(-1, math.Min(1, r))
}

// Size returns the number of labelled columns.
func (m *CorrelationMatrix) Size() int {
	return len(m.Labels)
}

// At returns the coefficient between columns i and j.
func (m *CorrelationMatrix) At(i, j int) float64 {
	return m.values.At(i, j)
}

// Rows returns the matrix as a dense row-major slice.
func (m *CorrelationMatrix) Rows() [][]float64 {
	n := m.Size()
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
		for j := range out[i] {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}

// MarshalJSON encodes undefined coefficients as null.
func (m *CorrelationMatrix) MarshalJSON() ([]byte, error) {
	n := m.Size()
	values := make([][]*float64, n)
	for i := range values {
		values[i] = make([]*float64, n)
		for j := range values[i] {
			if v := m.At(i, j); !math.IsNaN(v) {
				values[i][j] = &v
			}
		}
	}
	return json.Marshal(struct {
		Labels []string     `json:"labels"`
		Values [][]*float64 `json:"values"`
	}{m.Labels, values})
}
