package search

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/openoceanspp/oopp/internal/projectconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultGrid(t *testing.T) {
	g := DefaultGrid()
	require.Len(t, g, 4)
	assert.Equal(t, 24, g.Len())

	pts := g.Points()
	require.Len(t, pts, 24)
	assert.Equal(t, Point{Flag: "oo-surface-n-stddev", Value: "2.0"}, pts[0])
	assert.Equal(t, Point{Flag: "oo-bathy-n-stddev", Value: "2.0"}, pts[5])
	assert.Equal(t, Point{Flag: "oo-min-surface-photons-per-window", Value: "2"}, pts[10])
	assert.Equal(t, Point{Flag: "oo-min-bathy-photons-per-window", Value: "8"}, pts[23])
}

func TestCommand(t *testing.T) {
	got := Command("release", Point{Flag: "oo-bathy-n-stddev", Value: "3.5"})
	assert.Equal(t, `make BUILD=release OO_PARAMS="--verbose --oo-bathy-n-stddev=3.5" classify`, got)
}

func TestCommands(t *testing.T) {
	cmds, err := Commands("debug", DefaultGrid())
	require.NoError(t, err)
	require.Len(t, cmds, 24)
	assert.Equal(t, `make BUILD=debug OO_PARAMS="--verbose --oo-surface-n-stddev=2.0" classify`, cmds[0])
	assert.Equal(t, `make BUILD=debug OO_PARAMS="--verbose --oo-surface-n-stddev=4.0" classify`, cmds[4])
	assert.Equal(t, `make BUILD=debug OO_PARAMS="--verbose --oo-min-bathy-photons-per-window=8" classify`, cmds[23])
}

func TestValidateBuild(t *testing.T) {
	tests := []struct {
		build   string
		wantErr bool
	}{
		{"debug", false},
		{"release", false},
		{"", true},
		{"Release", true},
		{"profile", true},
	}
	for _, tt := range tests {
		t.Run(tt.build, func(t *testing.T) {
			err := ValidateBuild(tt.build)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var usage *UsageError
			require.True(t, errors.As(err, &usage))
			assert.Contains(t, usage.Error(), "debug, release")
		})
	}
}

func TestCommands_InvalidBuild(t *testing.T) {
	cmds, err := Commands("fast", DefaultGrid())
	assert.Nil(t, cmds)
	var usage *UsageError
	assert.ErrorAs(t, err, &usage)
}

func TestScriptWrite_Defaults(t *testing.T) {
	s := ScriptFromConfig(projectconfig.New().Search, "")

	var buf bytes.Buffer
	require.NoError(t, s.Write(&buf))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 24*6)

	cmd := `make BUILD=debug OO_PARAMS="--verbose --oo-surface-n-stddev=2.0" classify`
	assert.Equal(t, []string{
		"rm ./predictions/*",
		cmd,
		"make score",
		`echo "command = ` + cmd + `" >> search_results.txt`,
		"cat ./no_surface_micro_oopp.txt >> search_results.txt",
		"cat ./micro_oopp.txt >> search_results.txt",
	}, lines[:6])

	last := lines[len(lines)-6:]
	assert.Equal(t, `make BUILD=debug OO_PARAMS="--verbose --oo-min-bathy-photons-per-window=8" classify`, last[1])
	assert.True(t, strings.HasSuffix(buf.String(), "cat ./micro_oopp.txt >> search_results.txt\n"))
}

func TestScriptWrite_BuildOverride(t *testing.T) {
	s := ScriptFromConfig(projectconfig.New().Search, "release")

	var buf bytes.Buffer
	require.NoError(t, s.Write(&buf))
	assert.Contains(t, buf.String(), `make BUILD=release OO_PARAMS="--verbose --oo-bathy-n-stddev=2.5" classify`)
	assert.NotContains(t, buf.String(), "BUILD=debug")
}

func TestScriptWrite_Custom(t *testing.T) {
	s := Script{
		Build:          "release",
		PredictionsDir: "out/preds/",
		ResultsLog:     "sweep.log",
		Reports:        []string{"report.txt"},
		Grid:           Grid{{Flag: "oo-surface-n-stddev", Values: []string{"1.5"}}},
	}

	var buf bytes.Buffer
	require.NoError(t, s.Write(&buf))

	cmd := `make BUILD=release OO_PARAMS="--verbose --oo-surface-n-stddev=1.5" classify`
	want := "rm out/preds/*\n" +
		cmd + "\n" +
		"make score\n" +
		`echo "command = ` + cmd + `" >> sweep.log` + "\n" +
		"cat report.txt >> sweep.log\n"
	assert.Equal(t, want, buf.String())
}

func TestScriptWrite_NoReports(t *testing.T) {
	s := Script{
		Build:          "debug",
		PredictionsDir: "./predictions",
		ResultsLog:     "r.txt",
		Grid:           Grid{{Flag: "x", Values: []string{"1", "2"}}},
	}

	var buf bytes.Buffer
	require.NoError(t, s.Write(&buf))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 8)
	assert.Equal(t, "rm ./predictions/*", lines[4])
}

func TestScriptWrite_EmptyGrid(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Script{Build: "debug"}.Write(&buf))
	assert.Empty(t, buf.String())
}

func TestScriptWrite_InvalidBuild(t *testing.T) {
	var buf bytes.Buffer
	err := Script{Build: "profile", Grid: DefaultGrid()}.Write(&buf)
	var usage *UsageError
	require.ErrorAs(t, err, &usage)
	assert.Empty(t, buf.String())
}

func TestGridFromConfig_Copies(t *testing.T) {
	src := []projectconfig.SweepConfig{{Flag: "a", Values: []string{"1"}}}
	g := GridFromConfig(src)
	src[0].Values[0] = "changed"
	assert.Equal(t, "1", g[0].Values[0])
}
