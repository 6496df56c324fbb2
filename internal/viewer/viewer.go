// Package viewer writes rendered charts to disk and opens them in the
// user's default viewer.
package viewer

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/browser"
)

//go:generate go tool mockgen -source viewer.go -destination mock_opener.go -package viewer

// Opener displays a file to the user.
type Opener interface {
	Open(path string) error
}

// BrowserOpener opens files with the platform's default handler.
type BrowserOpener struct{}

// Open hands path to the default browser or image viewer.
func (BrowserOpener) Open(path string) error {
	return browser.OpenFile(path)
}

// Chart is a named image renderer.
type Chart struct {
	Name   string
	Render func(w io.Writer) error
}

// Gallery is a directory of rendered charts.
type Gallery struct {
	Dir    string
	Opener Opener
	Logger *slog.Logger
}

// NewGallery prepares dir for output, creating a temp directory when dir is
// empty.
func NewGallery(dir string, opener Opener) (*Gallery, error) {
	if dir == "" {
		tmp, err := os.MkdirTemp("", "oopp-compare-")
		if err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
		dir = tmp
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	return &Gallery{Dir: dir, Opener: opener, Logger: slog.Default()}, nil
}

// Write renders c into the gallery and returns the file path. The file is
// written to a temporary name first so a failed render never leaves a
// truncated image behind.
func (g *Gallery) Write(c Chart) (string, error) {
	dst := filepath.Join(g.Dir, c.Name)
	f, err := os.CreateTemp(g.Dir, "."+c.Name+".*")
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", dst, err)
	}
	tmp := f.Name()

	if err := c.Render(f); err != nil {
		f.Close()      //nolint:errcheck
		os.Remove(tmp) //nolint:errcheck
		return "", fmt.Errorf("rendering %s: %w", c.Name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp) //nolint:errcheck
		return "", fmt.Errorf("writing %s: %w", dst, err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp) //nolint:errcheck
		return "", fmt.Errorf("writing %s: %w", dst, err)
	}
	return dst, nil
}

// Show opens each path. A failure to open is logged rather than returned:
// the charts are already on disk and the run has succeeded.
func (g *Gallery) Show(paths ...string) {
	if g.Opener == nil {
		return
	}
	logger := g.Logger
	if logger == nil {
		logger = slog.Default()
	}
	for _, p := range paths {
		if err := g.Opener.Open(p); err != nil {
			logger.Warn("failed to open chart", "path", p, "error", err)
		}
	}
}
