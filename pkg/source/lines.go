package source

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Lines is a text file read one item per line. Line boundaries are indexed
// when the file is opened; item text is read on demand.
//
// The file is expected not to change while open. Use [Watch] and reopen to
// pick up edits.
type Lines struct {
	f       *os.File
	offsets []int64 // offsets[i] is the start of line i; the last entry is EOF.
	mu      sync.Mutex
	err     error
}

// OpenLines opens and indexes the file at path.
func OpenLines(path string) (*Lines, error) {
	f, err := os.Open(path) //nolint:gosec // G304: user-supplied source file.
	if err != nil {
		return nil, fmt.Errorf("open lines source: %w", err)
	}

	offsets, err := indexLines(f)
	if err != nil {
		_ = f.Close()

		return nil, fmt.Errorf("index %s: %w", path, err)
	}

	return &Lines{f: f, offsets: offsets}, nil
}

func indexLines(r io.Reader) ([]int64, error) {
	offsets := []int64{0}
	br := bufio.NewReader(r)

	var pos int64

	for {
		chunk, err := br.ReadSlice('\n')
		pos += int64(len(chunk))

		switch {
		case err == nil:
			offsets = append(offsets, pos)

		case errors.Is(err, bufio.ErrBufferFull):
			continue

		case errors.Is(err, io.EOF):
			// A final line without a trailing newline still counts.
			if pos != offsets[len(offsets)-1] {
				offsets = append(offsets, pos)
			}

			return offsets, nil

		default:
			return nil, err
		}
	}
}

func (l *Lines) Len() int {
	return len(l.offsets) - 1
}

func (l *Lines) At(i int) string {
	items := l.Range(i, i+1)
	if len(items) == 0 {
		return ""
	}

	return items[0]
}

// Range reads lines [lo, hi) with a single ReadAt call.
func (l *Lines) Range(lo, hi int) []string {
	lo = max(lo, 0)
	hi = min(hi, l.Len())

	if lo >= hi {
		return []string{}
	}

	start, end := l.offsets[lo], l.offsets[hi]
	buf := make([]byte, end-start)

	_, err := l.f.ReadAt(buf, start)
	if err != nil && !errors.Is(err, io.EOF) {
		l.setErr(fmt.Errorf("read lines %d-%d: %w", lo, hi, err))

		return make([]string, hi-lo)
	}

	out := make([]string, 0, hi-lo)
	for i := lo; i < hi; i++ {
		line := buf[l.offsets[i]-start : l.offsets[i+1]-start]
		line = bytes.TrimSuffix(line, []byte("\n"))
		line = bytes.TrimSuffix(line, []byte("\r"))
		out = append(out, string(line))
	}

	return out
}

// Err returns the most recent read error, if any. Items that could not be
// read are returned as empty strings.
func (l *Lines) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.err
}

func (l *Lines) setErr(err error) {
	slog.Error("read lines source", slog.String("path", l.f.Name()), slog.Any("error", err))

	l.mu.Lock()
	l.err = err
	l.mu.Unlock()
}

func (l *Lines) Close() error {
	err := l.f.Close()
	if err != nil {
		return fmt.Errorf("close lines source: %w", err)
	}

	return nil
}
