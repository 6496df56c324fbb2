package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `defaults:
  verbose: true
search:
  build: release
  predictions_dir: ./predictions
  reports:
    - ./micro_oopp.txt
  grid:
    - flag: oo-surface-n-stddev
      values: [2.0, 2.5, 3.0]
    - flag: oo-min-bathy-photons-per-window
      values: [2, 3]
compare:
  columns:
    id: filename
    score: Avg
    model: model
  top: 25
  output_dir: plots
  open: false
  format: json
`

func TestValidateConfigBytes_Valid(t *testing.T) {
	assert.Empty(t, ValidateConfigBytes([]byte(validConfigYAML)))
}

func TestValidateConfigBytes_Empty(t *testing.T) {
	assert.Empty(t, ValidateConfigBytes(nil))
	assert.Empty(t, ValidateConfigBytes([]byte("# nothing here\n")))
}

func TestValidateConfigBytes_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantLoc string
	}{
		{"unknown build", "search:\n  build: profile\n", "/search/build"},
		{"top not positive", "compare:\n  top: 0\n", "/compare/top"},
		{"bad format", "compare:\n  format: csv\n", "/compare/format"},
		{"unknown key", "comapre:\n  top: 5\n", "/"},
		{"sweep without values", "search:\n  grid:\n    - flag: x\n", "/search/grid/0"},
		{"empty sweep", "search:\n  grid:\n    - flag: x\n      values: []\n", "/search/grid/0/values"},
		{"flag with spaces", "search:\n  grid:\n    - flag: \"a b\"\n      values: [1]\n", "/search/grid/0/flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateConfigBytes([]byte(tt.yaml))
			require.NotEmpty(t, errs)
			found := false
			for _, e := range errs {
				if len(e) >= len(tt.wantLoc) && e[:len(tt.wantLoc)] == tt.wantLoc {
					found = true
				}
			}
			assert.True(t, found, "expected an error at %s, got %v", tt.wantLoc, errs)
		})
	}
}

func TestValidateConfigBytes_BadYAML(t *testing.T) {
	errs := ValidateConfigBytes([]byte("search: [unterminated\n"))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "YAML parse error")
}
