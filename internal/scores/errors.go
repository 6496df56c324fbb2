package scores

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoInputs is returned when Load is called without any input files.
var ErrNoInputs = errors.New("scores: no input filenames were specified")

// DataShapeError reports a score file that cannot be turned into a column:
// required headers are absent, it has no rows, or a cell is malformed.
type DataShapeError struct {
	Path    string
	Missing []string
	Row     int
	Reason  string
	Err     error
}

func (e *DataShapeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "scores: %s", e.Path)
	if e.Row > 0 {
		fmt.Fprintf(&b, " row %d", e.Row)
	}
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ": missing required columns %s", strings.Join(e.Missing, ", "))
		if e.Reason != "" {
			b.WriteString("; ")
			b.WriteString(e.Reason)
		}
		return b.String()
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

func (e *DataShapeError) Unwrap() error {
	return e.Err
}

// maxReportedIDs bounds how many example ids an AlignmentError prints.
const maxReportedIDs = 5

// AlignmentError reports a score file whose ids do not match the ids of the
// first file.
type AlignmentError struct {
	Path    string
	Seed    string
	Missing []string
	Extra   []string
}

func (e *AlignmentError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("%d ids from %s are missing (%s)", len(e.Missing), e.Seed, sample(e.Missing)))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, fmt.Sprintf("%d ids are not in %s (%s)", len(e.Extra), e.Seed, sample(e.Extra)))
	}
	return fmt.Sprintf("scores: %s does not align: %s", e.Path, strings.Join(parts, "; "))
}

func sample(ids []string) string {
	if len(ids) <= maxReportedIDs {
		return strings.Join(ids, ", ")
	}
	return strings.Join(ids[:maxReportedIDs], ", ") + ", ..."
}
