// Package dataset reads the tab-separated score tables produced by the
// scoring pipeline.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// ErrNoHeader is returned for a file without even a header row.
var ErrNoHeader = errors.New("empty file (no header row)")

// Table is a parsed delimited file: a header row plus raw data cells.
type Table struct {
	Path    string
	Headers []string
	Rows    [][]string
}

// Index returns the position of the named column, or -1 if absent.
func (t *Table) Index(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// LoadTSV reads a tab-separated file. The first row is treated as headers.
// Files ending in .gz or .zst are decompressed on the fly.
func LoadTSV(path string) (*Table, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close() //nolint:errcheck

	return ReadTSV(path, rc)
}

// ReadTSV parses tab-separated content from r. path is only used in error
// messages and recorded on the returned table.
func ReadTSV(path string, r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("tsv: parse %s: %w", path, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("tsv: %s: %w", path, ErrNoHeader)
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		headers[i] = strings.TrimSpace(h)
	}

	return &Table{
		Path:    path,
		Headers: headers,
		Rows:    records[1:],
	}, nil
}

// Open opens path for reading, wrapping it in a gzip or zstd decoder based on
// the file extension.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tsv: open %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close() //nolint:errcheck
			return nil, fmt.Errorf("tsv: gzip %s: %w", path, err)
		}
		return &stackedReader{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case ".zst", ".zstd":
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close() //nolint:errcheck
			return nil, fmt.Errorf("tsv: zstd %s: %w", path, err)
		}
		dec := zr.IOReadCloser()
		return &stackedReader{Reader: dec, closers: []io.Closer{dec, f}}, nil
	default:
		return f, nil
	}
}

// stackedReader closes a decoder and its underlying file together.
type stackedReader struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedReader) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
