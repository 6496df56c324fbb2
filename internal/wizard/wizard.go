// Package wizard runs the interactive form behind `oopp init`.
package wizard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/openoceanspp/oopp/internal/projectconfig"
	"golang.org/x/term"
)

// ErrConfigExists is returned by WriteConfig when the target file is already
// present and overwriting was not requested.
var ErrConfigExists = errors.New("config file already exists (use --force to overwrite)")

// Answers holds the fields collected by the wizard.
type Answers struct {
	Build     string
	Top       int
	OutputDir string
	Open      bool
}

// DefaultAnswers seeds the form from cfg.
func DefaultAnswers(cfg *projectconfig.ProjectConfig) Answers {
	open := true
	if cfg.Compare.Open != nil {
		open = *cfg.Compare.Open
	}
	return Answers{
		Build:     cfg.Search.Build,
		Top:       cfg.Compare.Top,
		OutputDir: cfg.Compare.OutputDir,
		Open:      open,
	}
}

// Run asks for the project settings, starting from defaults.
func Run(in io.Reader, out io.Writer, defaults Answers) (Answers, error) {
	var (
		build     = defaults.Build
		topRaw    = strconv.Itoa(defaults.Top)
		outputDir = defaults.OutputDir
		open      = defaults.Open
	)

	buildOpts := make([]huh.Option[string], 0, len(projectconfig.Builds))
	for _, b := range projectconfig.Builds {
		buildOpts = append(buildOpts, huh.NewOption(b, b))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Build type").
				Description("Passed to make as BUILD= by `oopp search`").
				Options(buildOpts...).
				Value(&build),
			huh.NewInput().
				Title("Top N").
				Description("Rows shown in the comparison scatter").
				Placeholder(strconv.Itoa(projectconfig.DefaultTop)).
				Value(&topRaw).
				Validate(validateTop),
			huh.NewInput().
				Title("Chart output directory").
				Description("Leave empty to use a fresh temporary directory").
				Value(&outputDir),
			huh.NewConfirm().
				Title("Open charts after rendering?").
				Value(&open),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return Answers{}, fmt.Errorf("wizard failed: %w", err)
	}

	top, err := parseTop(topRaw)
	if err != nil {
		return Answers{}, err
	}
	return Answers{
		Build:     build,
		Top:       top,
		OutputDir: strings.TrimSpace(outputDir),
		Open:      open,
	}, nil
}

// Apply copies the answers onto cfg.
func Apply(cfg *projectconfig.ProjectConfig, a Answers) {
	if a.Build != "" {
		cfg.Search.Build = a.Build
	}
	if a.Top > 0 {
		cfg.Compare.Top = a.Top
	}
	cfg.Compare.OutputDir = a.OutputDir
	open := a.Open
	cfg.Compare.Open = &open
}

// WriteConfig writes cfg as dir/.oopp.yaml and returns the path written.
func WriteConfig(dir string, cfg *projectconfig.ProjectConfig, force bool) (string, error) {
	path := filepath.Join(dir, projectconfig.FileName)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, ErrConfigExists
		} else if !errors.Is(err, os.ErrNotExist) {
			return path, fmt.Errorf("checking %s: %w", path, err)
		}
	}

	data, err := projectconfig.Marshal(cfg)
	if err != nil {
		return path, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return path, fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func validateTop(s string) error {
	_, err := parseTop(s)
	return err
}

func parseTop(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("top N must be a positive integer, got %q", s)
	}
	return n, nil
}
