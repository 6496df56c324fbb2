// Package metrics computes descriptive statistics over model score columns.
package metrics

import "math"

// Mean computes the arithmetic mean of a float64 slice.
// Returns 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Variance computes the population variance of a float64 slice.
// Returns 0 for empty input.
func Variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return sumSq / float64(len(values))
}

// StdDev computes the population standard deviation.
func StdDev(values []float64) float64 {
	return math.Sqrt(Variance(values))
}

// ConfidenceInterval95 returns the 95% confidence interval (low, high) of the
// mean using the normal approximation (z=1.96). Returns (mean, mean) when
// fewer than 2 data points are available.
func ConfidenceInterval95(values []float64) (float64, float64) {
	n := len(values)
	m := Mean(values)
	if n < 2 {
		return m, m
	}
	// sample standard deviation (Bessel's correction)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	sampleSD := math.Sqrt(sumSq / float64(n-1))
	margin := 1.96 * sampleSD / math.Sqrt(float64(n))
	return m - margin, m + margin
}

// Summary describes one model's score column.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	CILow  float64 `json:"ci95_low"`
	CIHigh float64 `json:"ci95_high"`
}

// Summarize computes a Summary. An empty slice yields the zero Summary.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	lo, hi := ConfidenceInterval95(values)
	s := Summary{
		Count:  len(values),
		Mean:   Mean(values),
		StdDev: StdDev(values),
		Min:    values[0],
		Max:    values[0],
		CILow:  lo,
		CIHigh: hi,
	}
	for _, v := range values[1:] {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	return s
}

// RowMeans averages across columns for every row. columns[c][r] is the value
// of column c in row r; all columns must have the same length.
func RowMeans(columns [][]float64) []float64 {
	if len(columns) == 0 {
		return nil
	}
	rows := len(columns[0])
	out := make([]float64, rows)
	row := make([]float64, len(columns))
	for r := 0; r < rows; r++ {
		for c := range columns {
			row[c] = columns[c][r]
		}
		out[r] = Mean(row)
	}
	return out
}
