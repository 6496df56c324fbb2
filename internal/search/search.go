// Package search generates the shell text for a classifier hyperparameter
// sweep. It never runs anything itself: the output is meant to be piped into
// a shell next to the project's Makefile.
package search

import (
	"fmt"
	"slices"
	"strings"

	"github.com/openoceanspp/oopp/internal/projectconfig"
)

// UsageError reports a bad argument to the generator.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

// Sweep is one classifier flag and the values tried for it. Values keep
// their textual form so "2.0" is emitted as written.
type Sweep struct {
	Flag   string
	Values []string
}

// Point is a single grid point: one flag set to one value.
type Point struct {
	Flag  string
	Value string
}

// Grid is an ordered list of sweeps. Sweeps run one after another; they are
// not combined into a cartesian product.
type Grid []Sweep

// GridFromConfig converts the configured sweeps into a Grid.
func GridFromConfig(sweeps []projectconfig.SweepConfig) Grid {
	g := make(Grid, 0, len(sweeps))
	for _, s := range sweeps {
		g = append(g, Sweep{Flag: s.Flag, Values: slices.Clone(s.Values)})
	}
	return g
}

// DefaultGrid returns the four stock sweeps.
func DefaultGrid() Grid {
	return GridFromConfig(projectconfig.DefaultGrid())
}

// Points flattens the grid in sweep order.
func (g Grid) Points() []Point {
	var pts []Point
	for _, s := range g {
		for _, v := range s.Values {
			pts = append(pts, Point{Flag: s.Flag, Value: v})
		}
	}
	return pts
}

// Len returns the number of grid points.
func (g Grid) Len() int {
	n := 0
	for _, s := range g {
		n += len(s.Values)
	}
	return n
}

// ValidateBuild checks that build names a known build type.
func ValidateBuild(build string) error {
	if slices.Contains(projectconfig.Builds, build) {
		return nil
	}
	return &UsageError{Msg: fmt.Sprintf("invalid build %q: must be one of %s", build, strings.Join(projectconfig.Builds, ", "))}
}

// Command returns the make invocation for one grid point.
func Command(build string, p Point) string {
	return fmt.Sprintf(`make BUILD=%s OO_PARAMS="--verbose --%s=%s" classify`, build, p.Flag, p.Value)
}

// Commands returns the make invocation for every grid point, in order.
func Commands(build string, g Grid) ([]string, error) {
	if err := ValidateBuild(build); err != nil {
		return nil, err
	}
	pts := g.Points()
	cmds := make([]string, 0, len(pts))
	for _, p := range pts {
		cmds = append(cmds, Command(build, p))
	}
	return cmds, nil
}
