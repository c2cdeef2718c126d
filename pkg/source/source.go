// Package source opens the item sequences that infscroll pages through.
//
// Every source implements [window.Sequence] and [window.RangeReader] over
// strings, and holds at most one page of items in memory at a time (the
// lines source also keeps a per-line offset index).
package source

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/luxo-ai/infinite-scroll/pkg/window"
)

// Kind names a source implementation.
type Kind string

const (
	KindRange  Kind = "range"
	KindLines  Kind = "lines"
	KindSQLite Kind = "sqlite"

	DefaultLength = 1_000_000
	DefaultTable  = "items"
	DefaultColumn = "value"
)

var (
	ErrUnknownKind = errors.New("unknown source kind")
	ErrInvalidSpec = errors.New("invalid source")

	AllKinds = []string{string(KindRange), string(KindLines), string(KindSQLite)}
)

// Sequence is an opened source. Close releases any file or database handle.
type Sequence interface {
	window.Sequence[string]
	window.RangeReader[string]
	Close() error
}

// Spec describes which source to open.
type Spec struct {
	// Kind selects the source implementation.
	Kind Kind `json:"kind,omitempty" jsonschema:"title=Kind,enum=range,enum=lines,enum=sqlite,default=range"`
	// Length is the number of items produced by the range source.
	Length *int `json:"length,omitempty" jsonschema:"title=Length,minimum=0"`
	// Path is the file read by the lines and sqlite sources.
	Path string `json:"path,omitempty" jsonschema:"title=Path"`
	// Table is the SQLite table to read.
	Table string `json:"table,omitempty" jsonschema:"title=Table,pattern=^[A-Za-z_][A-Za-z0-9_]*$"`
	// Column is the SQLite column holding the item text.
	Column string `json:"column,omitempty" jsonschema:"title=Column,pattern=^[A-Za-z_][A-Za-z0-9_]*$"`
}

// EnsureDefaults fills unset fields.
func (s *Spec) EnsureDefaults() {
	if s.Kind == "" {
		s.Kind = KindRange
	}
	if s.Length == nil {
		n := DefaultLength
		s.Length = &n
	}
	if s.Table == "" {
		s.Table = DefaultTable
	}
	if s.Column == "" {
		s.Column = DefaultColumn
	}
}

// Validate checks that the fields required by Kind are present.
func (s Spec) Validate() error {
	switch s.Kind {
	case KindRange, "":
		if s.Length != nil && *s.Length < 0 {
			return fmt.Errorf("%w: length must not be negative, got %d", ErrInvalidSpec, *s.Length)
		}

	case KindLines:
		if s.Path == "" {
			return fmt.Errorf("%w: %s source requires a path", ErrInvalidSpec, s.Kind)
		}

	case KindSQLite:
		if s.Path == "" {
			return fmt.Errorf("%w: %s source requires a path", ErrInvalidSpec, s.Kind)
		}

		return errors.Join(validIdentifier("table", s.Table), validIdentifier("column", s.Column))

	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, s.Kind)
	}

	return nil
}

// Watchable reports whether the source reads a file that can be watched.
func (s Spec) Watchable() bool {
	return s.Path != "" && (s.Kind == KindLines || s.Kind == KindSQLite)
}

func (s Spec) String() string {
	switch s.Kind {
	case KindLines, KindSQLite:
		return fmt.Sprintf("%s:%s", s.Kind, s.Path)
	}

	n := DefaultLength
	if s.Length != nil {
		n = *s.Length
	}

	return fmt.Sprintf("%s:%d", KindRange, n)
}

// Open opens the source described by spec. Missing fields take their
// defaults.
//
//nolint:ireturn // Callers only need the Sequence behaviour.
func Open(ctx context.Context, spec Spec) (Sequence, error) {
	spec.EnsureDefaults()

	err := spec.Validate()
	if err != nil {
		return nil, err
	}

	switch spec.Kind {
	case KindLines:
		return OpenLines(spec.Path)
	case KindSQLite:
		return OpenSQLite(ctx, spec.Path, spec.Table, spec.Column)
	default:
		return NewRange(*spec.Length), nil
	}
}

// Range is the sequence of decimal integers 0..n-1.
type Range int

// NewRange returns the range [0, n). Negative n is treated as zero.
func NewRange(n int) Range {
	return Range(max(n, 0))
}

func (r Range) Len() int { return int(r) }

func (r Range) At(i int) string { return strconv.Itoa(i) }

func (r Range) Range(lo, hi int) []string {
	out := make([]string, 0, hi-lo)
	for i := lo; i < hi; i++ {
		out = append(out, strconv.Itoa(i))
	}

	return out
}

func (r Range) Close() error { return nil }
