package window

import "fmt"

// Sequence is an immutable, indexable, ordered collection.
// Implementations must return the same item for the same index for as long
// as they are in use.
type Sequence[T any] interface {
	Len() int
	At(i int) T
}

// RangeReader is implemented by sequences that can read a contiguous block
// more cheaply than one [Sequence.At] call per item.
type RangeReader[T any] interface {
	Range(lo, hi int) []T
}

// Slice adapts a Go slice to a [Sequence].
type Slice[T any] []T

func (s Slice[T]) Len() int   { return len(s) }
func (s Slice[T]) At(i int) T { return s[i] }

// Range returns a copy of s[lo:hi].
func (s Slice[T]) Range(lo, hi int) []T {
	out := make([]T, hi-lo)
	copy(out, s[lo:hi])

	return out
}

// Store slices a [Sequence] into pages of a fixed size.
type Store[T any] struct {
	seq      Sequence[T]
	pageSize int
}

// NewStore returns a [Store] over seq with pages of pageSize items.
func NewStore[T any](seq Sequence[T], pageSize int) (*Store[T], error) {
	if seq == nil {
		return nil, fmt.Errorf("%w: nil sequence", ErrInvalidConfig)
	}
	if pageSize <= 0 {
		return nil, fmt.Errorf("%w: page size must be positive, got %d", ErrInvalidConfig, pageSize)
	}
	if n := seq.Len(); n < 0 {
		return nil, fmt.Errorf("%w: sequence length must not be negative, got %d", ErrInvalidConfig, n)
	}

	return &Store[T]{seq: seq, pageSize: pageSize}, nil
}

// Len returns the length of the underlying sequence.
func (s *Store[T]) Len() int {
	return s.seq.Len()
}

// PageSize returns the number of items in a full page.
func (s *Store[T]) PageSize() int {
	return s.pageSize
}

// MaxPage returns the index of the last page, or -1 for an empty sequence.
func (s *Store[T]) MaxPage() int {
	n := s.seq.Len()
	if n <= 0 {
		return -1
	}

	return (n+s.pageSize-1)/s.pageSize - 1
}

// Bounds returns the half-open index range [lo, hi) covered by page.
// Pages outside [0, MaxPage] yield an empty range.
func (s *Store[T]) Bounds(page int) (int, int) {
	n := s.seq.Len()
	if page < 0 || page > s.MaxPage() {
		return 0, 0
	}

	lo := page * s.pageSize

	return lo, min(lo+s.pageSize, n)
}

// Slice returns the items of page. It never returns more than PageSize
// items, and returns fewer only for the last page. Pages outside
// [0, MaxPage] return an empty slice.
func (s *Store[T]) Slice(page int) []T {
	lo, hi := s.Bounds(page)
	if lo == hi {
		return []T{}
	}

	if rr, ok := s.seq.(RangeReader[T]); ok {
		return rr.Range(lo, hi)
	}

	items := make([]T, 0, hi-lo)
	for i := lo; i < hi; i++ {
		items = append(items, s.seq.At(i))
	}

	return items
}
