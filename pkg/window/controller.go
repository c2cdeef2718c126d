package window

import (
	"errors"
	"fmt"
)

// ErrStaleTransition is returned by [Controller.Apply] when the transition no
// longer targets the controller's current page.
var ErrStaleTransition = errors.New("stale transition")

// Cause describes what triggered a [Transition].
type Cause int

const (
	// CauseScrollForward means the viewport's bottom edge reached the end of
	// the rendered window.
	CauseScrollForward Cause = iota + 1
	// CauseScrollBackward means the viewport scrolled above the window's
	// leading margin.
	CauseScrollBackward
	// CauseAdvance means the next page was requested explicitly.
	CauseAdvance
	// CauseRetreat means the previous page was requested explicitly.
	CauseRetreat
)

func (c Cause) String() string {
	switch c {
	case CauseScrollForward:
		return "scroll-forward"
	case CauseScrollBackward:
		return "scroll-backward"
	case CauseAdvance:
		return "advance"
	case CauseRetreat:
		return "retreat"
	}

	return fmt.Sprintf("Cause(%d)", int(c))
}

// Sample is a scroll position taken from the host viewport.
type Sample struct {
	// ScrollTop is the offset of the viewport's top edge in the content.
	ScrollTop int
	// ScrollHeight is the full extent of the rendered content.
	ScrollHeight int
}

// Transition is a page change decided by a [Controller].
type Transition struct {
	From  int
	To    int
	Cause Cause
	// Offset is the scroll position to apply once the new window has been
	// committed.
	Offset int
}

// Forward reports whether the transition moves to a later page.
func (t Transition) Forward() bool {
	return t.To > t.From
}

// Presenter displays a window. [Controller.Apply] always calls CommitWindow
// before ApplyOffset, and skips ApplyOffset when the commit fails.
type Presenter[T any] interface {
	CommitWindow(page int, items []T) error
	ApplyOffset(offset int)
}

// ControllerOpt configures a [Controller].
type ControllerOpt func(*controllerOptions)

type controllerOptions struct {
	hooks []func(Transition)
}

// WithTransitionHook registers fn to be called after every page change, in
// the order the hooks were registered.
func WithTransitionHook(fn func(Transition)) ControllerOpt {
	return func(o *controllerOptions) {
		if fn != nil {
			o.hooks = append(o.hooks, fn)
		}
	}
}

// Controller owns the page index of a windowed sequence. Its only mutable
// state is the page index, which is always within [0, MaxPage] (or 0 for an
// empty sequence).
//
// A Controller is not safe for concurrent use.
type Controller[T any] struct {
	store *Store[T]
	hooks []func(Transition)
	geo   Geometry
	page  int
}

// NewController returns a [Controller] positioned on page 0.
func NewController[T any](seq Sequence[T], cfg Config, opts ...ControllerOpt) (*Controller[T], error) {
	geo, err := NewGeometry(cfg)
	if err != nil {
		return nil, err
	}

	store, err := NewStore(seq, cfg.PageSize)
	if err != nil {
		return nil, err
	}

	o := &controllerOptions{}
	for _, opt := range opts {
		opt(o)
	}

	return &Controller[T]{
		store: store,
		geo:   geo,
		hooks: o.hooks,
	}, nil
}

// Page returns the current page index.
func (c *Controller[T]) Page() int {
	return c.page
}

// MaxPage returns the last valid page index, or -1 for an empty sequence.
func (c *Controller[T]) MaxPage() int {
	return c.store.MaxPage()
}

// Empty reports whether the sequence has no items.
func (c *Controller[T]) Empty() bool {
	return c.store.MaxPage() < 0
}

// Len returns the length of the sequence.
func (c *Controller[T]) Len() int {
	return c.store.Len()
}

// Geometry returns the controller's geometry.
func (c *Controller[T]) Geometry() Geometry {
	return c.geo
}

// Store returns the page store backing the controller.
func (c *Controller[T]) Store() *Store[T] {
	return c.store
}

// Window returns the items of the current page.
func (c *Controller[T]) Window() []T {
	return c.store.Slice(c.page)
}

// WindowOffset returns the leading margin of the current window.
func (c *Controller[T]) WindowOffset() int {
	return c.geo.BufferOffset(c.page)
}

// ScrollHeight returns the full scrollable extent while the current window
// is committed.
func (c *Controller[T]) ScrollHeight() int {
	lo, hi := c.store.Bounds(c.page)

	return c.geo.ScrollHeight(c.page, hi-lo)
}

// CanAdvance reports whether [Controller.Advance] would change the page.
func (c *Controller[T]) CanAdvance() bool {
	return !c.Empty() && c.page < c.MaxPage()
}

// CanRetreat reports whether [Controller.Retreat] would change the page.
func (c *Controller[T]) CanRetreat() bool {
	return !c.Empty() && c.page > 0
}

// Observe evaluates a scroll sample and returns the resulting transition, if
// any. At most one transition happens per sample:
//
//  1. If the viewport's bottom edge has reached the end of the rendered
//     content, move to the next page.
//  2. Otherwise, if the viewport's top edge is above the window's leading
//     margin, move to the previous page.
func (c *Controller[T]) Observe(s Sample) (Transition, bool) {
	if c.Empty() {
		return Transition{}, false
	}

	if c.page < c.MaxPage() && s.ScrollTop+c.geo.TriggerHeight() >= s.ScrollHeight {
		return c.moveTo(c.page+1, CauseScrollForward)
	}

	if c.page > 0 && s.ScrollTop < c.geo.BufferOffset(c.page) {
		return c.moveTo(c.page-1, CauseScrollBackward)
	}

	return Transition{}, false
}

// Advance moves to the next page. It is a no-op on the last page.
func (c *Controller[T]) Advance() (Transition, bool) {
	return c.moveTo(c.page+1, CauseAdvance)
}

// Retreat moves to the previous page. It is a no-op on the first page.
func (c *Controller[T]) Retreat() (Transition, bool) {
	return c.moveTo(c.page-1, CauseRetreat)
}

// Apply hands the current window to p, then applies t's corrective offset.
// The offset is not applied if committing the window fails.
func (c *Controller[T]) Apply(t Transition, p Presenter[T]) error {
	if t.To != c.page {
		return fmt.Errorf("%w: targets page %d, current page is %d", ErrStaleTransition, t.To, c.page)
	}

	err := p.CommitWindow(c.page, c.Window())
	if err != nil {
		return fmt.Errorf("commit window %d: %w", c.page, err)
	}

	p.ApplyOffset(t.Offset)

	return nil
}

// Mount commits the current window to p and scrolls it to the window's
// first item. Presenters call it once before the first sample.
func (c *Controller[T]) Mount(p Presenter[T]) error {
	return c.Apply(Transition{
		From:   c.page,
		To:     c.page,
		Offset: c.WindowOffset(),
	}, p)
}

// moveTo clamps every page change: targets outside [0, MaxPage] and the
// current page are rejected.
func (c *Controller[T]) moveTo(page int, cause Cause) (Transition, bool) {
	if c.Empty() || page < 0 || page > c.MaxPage() || page == c.page {
		return Transition{}, false
	}

	t := Transition{
		From:   c.page,
		To:     page,
		Cause:  cause,
		Offset: c.geo.BufferOffset(page),
	}
	c.page = page

	for _, hook := range c.hooks {
		hook(t)
	}

	return t, true
}
