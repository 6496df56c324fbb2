package scores

import (
	"encoding/csv"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/openoceanspp/oopp/internal/dataset"
	"github.com/openoceanspp/oopp/internal/utils"
)

// Default column names written by the scoring pipeline.
const (
	DefaultIDColumn    = "filename"
	DefaultScoreColumn = "Avg"
	DefaultModelColumn = "model"
)

// Columns names the three columns every score file must carry.
type Columns struct {
	ID    string `json:"id" yaml:"id,omitempty"`
	Score string `json:"score" yaml:"score,omitempty"`
	Model string `json:"model" yaml:"model,omitempty"`
}

// DefaultColumns returns the pipeline's column names.
func DefaultColumns() Columns {
	return Columns{
		ID:    DefaultIDColumn,
		Score: DefaultScoreColumn,
		Model: DefaultModelColumn,
	}
}

func (c Columns) withDefaults() Columns {
	d := DefaultColumns()
	if c.ID != "" {
		d.ID = c.ID
	}
	if c.Score != "" {
		d.Score = c.Score
	}
	if c.Model != "" {
		d.Model = c.Model
	}
	return d
}

// Record is one row of one score file.
type Record struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
	Model string  `json:"model"`
}

// Column is a single loaded score file. Missing scores have already been
// replaced with 0; Missing records how many were replaced.
type Column struct {
	Path    string
	Model   string
	IDs     []string
	Scores  []float64
	Missing int
}

// missingTokens are the cell values treated as a missing score.
var missingTokens = map[string]bool{
	"":     true,
	"nan":  true,
	"na":   true,
	"n/a":  true,
	"null": true,
	"none": true,
}

// LoadColumn reads one score file and extracts its id, score and model
// columns. Ids are reduced to their basename.
func LoadColumn(path string, cols Columns) (*Column, error) {
	table, err := dataset.LoadTSV(path)
	if err != nil {
		return nil, shapeError(path, err)
	}
	return columnFromTable(table, cols)
}

// shapeError turns a malformed-table failure into a DataShapeError. Open and
// read failures are returned unchanged.
func shapeError(path string, err error) error {
	if errors.Is(err, dataset.ErrNoHeader) {
		return &DataShapeError{Path: path, Reason: dataset.ErrNoHeader.Error(), Err: err}
	}
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		shape := &DataShapeError{Path: path, Reason: parseErr.Err.Error(), Err: err}
		if parseErr.Line > 1 {
			shape.Row = parseErr.Line - 1
		}
		return shape
	}
	return err
}

func columnFromTable(table *dataset.Table, cols Columns) (*Column, error) {
	cols = cols.withDefaults()

	idIdx := table.Index(cols.ID)
	scoreIdx := table.Index(cols.Score)
	modelIdx := table.Index(cols.Model)

	var missing []string
	for _, c := range []struct {
		name string
		idx  int
	}{{cols.ID, idIdx}, {cols.Score, scoreIdx}, {cols.Model, modelIdx}} {
		if c.idx < 0 {
			missing = append(missing, c.name)
		}
	}
	if len(missing) > 0 {
		return nil, &DataShapeError{Path: table.Path, Missing: missing}
	}
	if table.Len() == 0 {
		return nil, &DataShapeError{Path: table.Path, Reason: "no data rows"}
	}

	col := &Column{
		Path:   table.Path,
		Model:  strings.TrimSpace(table.Rows[0][modelIdx]),
		IDs:    make([]string, 0, table.Len()),
		Scores: make([]float64, 0, table.Len()),
	}
	if col.Model == "" {
		return nil, &DataShapeError{Path: table.Path, Row: 1, Reason: "empty model name"}
	}

	seen := make(map[string]int, table.Len())
	for i, row := range table.Rows {
		id := utils.Basename(row[idIdx])
		if id == "" {
			return nil, &DataShapeError{Path: table.Path, Row: i + 1, Reason: "empty " + cols.ID}
		}
		if prev, dup := seen[id]; dup {
			return nil, &DataShapeError{
				Path:   table.Path,
				Row:    i + 1,
				Reason: "duplicate id " + strconv.Quote(id) + " (first seen in row " + strconv.Itoa(prev) + ")",
			}
		}
		seen[id] = i + 1

		score, ok, err := parseScore(row[scoreIdx])
		if err != nil {
			return nil, &DataShapeError{Path: table.Path, Row: i + 1, Reason: err.Error()}
		}
		if !ok {
			col.Missing++
			score = 0
		}

		col.IDs = append(col.IDs, id)
		col.Scores = append(col.Scores, score)
	}

	return col, nil
}

// parseScore returns ok=false for a missing value.
func parseScore(raw string) (float64, bool, error) {
	s := strings.TrimSpace(raw)
	if missingTokens[strings.ToLower(s)] {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, &scoreSyntaxError{value: raw}
	}
	if math.IsNaN(v) {
		return 0, false, nil
	}
	if math.IsInf(v, 0) {
		return 0, false, &scoreSyntaxError{value: raw, nonFinite: true}
	}
	return v, true, nil
}

type scoreSyntaxError struct {
	value     string
	nonFinite bool
}

func (e *scoreSyntaxError) Error() string {
	if e.nonFinite {
		return "non-finite score " + strconv.Quote(e.value)
	}
	return "invalid score " + strconv.Quote(e.value)
}
