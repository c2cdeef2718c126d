package window

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned when a [Config] cannot describe a window.
var ErrInvalidConfig = errors.New("invalid window config")

// Config holds the fixed extents of a paged sequence.
type Config struct {
	// PageSize is the number of items in a full window.
	PageSize int `json:"pageSize" jsonschema:"title=Page Size,minimum=1"`
	// ItemHeight is the extent of a single item.
	ItemHeight int `json:"itemHeight" jsonschema:"title=Item Height,minimum=0"`
	// Gap is the extent between consecutive items.
	Gap int `json:"gap" jsonschema:"title=Gap,minimum=0"`
}

// Validate reports every invalid field, joined.
func (c Config) Validate() error {
	var errs []error

	if c.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: page size must be positive, got %d", ErrInvalidConfig, c.PageSize))
	}
	if c.ItemHeight < 0 {
		errs = append(errs, fmt.Errorf("%w: item height must not be negative, got %d", ErrInvalidConfig, c.ItemHeight))
	}
	if c.Gap < 0 {
		errs = append(errs, fmt.Errorf("%w: gap must not be negative, got %d", ErrInvalidConfig, c.Gap))
	}

	return errors.Join(errs...)
}

// Geometry maps page indices to offsets. It holds no state beyond its
// [Config] and every method is a pure function of its arguments.
type Geometry struct {
	cfg Config
}

// NewGeometry validates cfg and returns a [Geometry] for it.
func NewGeometry(cfg Config) (Geometry, error) {
	err := cfg.Validate()
	if err != nil {
		return Geometry{}, err
	}

	return Geometry{cfg: cfg}, nil
}

// Config returns the extents this geometry was built from.
func (g Geometry) Config() Config {
	return g.cfg
}

// BufferOffset returns the total extent of every full window before page.
// It is the offset to restore right after swapping into page, so that the
// first item of the new window lines up with where the previous one ended.
func (g Geometry) BufferOffset(page int) int {
	return page*g.cfg.PageSize*g.cfg.ItemHeight + page*max(g.cfg.PageSize-1, 0)*g.cfg.Gap
}

// ViewportHeight returns the extent of a viewport showing visibleCount items.
// Callers size the viewport with PageSize-1 items, which leaves one item of
// margin to detect a boundary before the rendered content runs out.
func (g Geometry) ViewportHeight(visibleCount int) int {
	return g.cfg.ItemHeight*visibleCount + g.cfg.Gap*visibleCount - 1
}

// TriggerHeight is the viewport extent used by the advance rule.
func (g Geometry) TriggerHeight() int {
	return g.ViewportHeight(g.cfg.PageSize - 1)
}

// WindowHeight returns the extent of count items laid out in one window,
// excluding the leading margin.
func (g Geometry) WindowHeight(count int) int {
	if count <= 0 {
		return 0
	}

	return count*g.cfg.ItemHeight + (count-1)*g.cfg.Gap
}

// ScrollHeight returns the full scrollable extent of page when it holds
// count items: the leading margin plus the window itself.
func (g Geometry) ScrollHeight(page, count int) int {
	return g.BufferOffset(page) + g.WindowHeight(count)
}

// ItemOffset returns the top of the i-th item of page's window. The first
// item sits after the page's leading margin, the rest follow at a stride of
// ItemHeight+Gap.
func (g Geometry) ItemOffset(page, i int) int {
	return g.BufferOffset(page) + i*(g.cfg.ItemHeight+g.cfg.Gap)
}

// LeadingMargin returns the margin placed before the i-th item of page's
// window: the buffer offset for the first item, the gap for the rest.
func (g Geometry) LeadingMargin(page, i int) int {
	if i == 0 {
		return g.BufferOffset(page)
	}

	return g.cfg.Gap
}
