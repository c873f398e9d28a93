// Package dump opens and scans line-oriented extraction dump files.
package dump

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dsnet/compress/bzip2"
)

// maxLineSize bounds a single dump line. Infobox literal values can get very
// long, so the default 64 KiB scanner buffer is not enough.
const maxLineSize = 8 * 1024 * 1024

// Open opens a dump file, transparently decompressing .gz and .bz2 files
// based on the file extension.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dump: %w", err)
	}

	switch {
	case strings.HasSuffix(path, ".gz"):
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to open gzip dump %s: %w", path, err)
		}
		return &decompressed{r: zr, closers: []io.Closer{zr, f}}, nil
	case strings.HasSuffix(path, ".bz2"):
		zr, err := bzip2.NewReader(f, &bzip2.ReaderConfig{})
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to open bzip2 dump %s: %w", path, err)
		}
		return &decompressed{r: zr, closers: []io.Closer{zr, f}}, nil
	default:
		return f, nil
	}
}

type decompressed struct {
	r       io.Reader
	closers []io.Closer
}

func (d *decompressed) Read(p []byte) (int, error) { return d.r.Read(p) }

func (d *decompressed) Close() error {
	var first error
	for _, c := range d.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// EachLine calls fn for every line of r and returns the number of lines read.
// Scanning stops at the first error fn returns.
func EachLine(r io.Reader, fn func(line string) error) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	lines := 0
	for scanner.Scan() {
		lines++
		if err := fn(scanner.Text()); err != nil {
			return lines, err
		}
	}
	if err := scanner.Err(); err != nil {
		return lines, fmt.Errorf("failed to read dump: %w", err)
	}
	return lines, nil
}
