package window_test

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxo-ai/infinite-scroll/pkg/window"
)

// recorder is a [window.Presenter] that records the calls it receives.
type recorder struct {
	commitErr error
	calls     []string
	items     []int
	page      int
	offset    int
}

func (r *recorder) CommitWindow(page int, items []int) error {
	r.calls = append(r.calls, "commit")
	if r.commitErr != nil {
		return r.commitErr
	}

	r.page = page
	r.items = items

	return nil
}

func (r *recorder) ApplyOffset(offset int) {
	r.calls = append(r.calls, "offset")
	r.offset = offset
}

func newController(t *testing.T, n int, opts ...window.ControllerOpt) *window.Controller[int] {
	t.Helper()

	c, err := window.NewController[int](ints(n), cardConfig, opts...)
	require.NoError(t, err)

	return c
}

func TestController_StartsOnFirstPage(t *testing.T) {
	t.Parallel()

	c := newController(t, 1_000_000)

	assert.Equal(t, 0, c.Page())
	assert.Equal(t, 199_999, c.MaxPage())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, c.Window())
	assert.False(t, c.CanRetreat())
	assert.True(t, c.CanAdvance())
	assert.Equal(t, 0, c.WindowOffset())
	assert.Equal(t, 814, c.ScrollHeight())
}

func TestController_Observe(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		sample    window.Sample
		n         int
		startPage int
		wantPage  int
		wantCause window.Cause
		wantOK    bool
	}{
		"top of first page stays": {
			n:      1_000_000,
			sample: window.Sample{ScrollTop: 0, ScrollHeight: 1000},
		},
		"bottom edge reaches end of content": {
			n:         1_000_000,
			sample:    window.Sample{ScrollTop: 151, ScrollHeight: 814},
			wantPage:  1,
			wantCause: window.CauseScrollForward,
			wantOK:    true,
		},
		"bottom edge one short of the end": {
			n:      1_000_000,
			sample: window.Sample{ScrollTop: 150, ScrollHeight: 814},
		},
		"scrolled above the leading margin on the last page": {
			n:         10,
			startPage: 1,
			sample:    window.Sample{ScrollTop: 400, ScrollHeight: 1000},
			wantPage:  0,
			wantCause: window.CauseScrollBackward,
			wantOK:    true,
		},
		"scrolled above the leading margin mid-sequence": {
			n:         1_000_000,
			startPage: 1,
			sample:    window.Sample{ScrollTop: 400, ScrollHeight: 1628},
			wantPage:  0,
			wantCause: window.CauseScrollBackward,
			wantOK:    true,
		},
		"exactly at the leading margin stays": {
			n:         1_000_000,
			startPage: 1,
			sample:    window.Sample{ScrollTop: 814, ScrollHeight: 1628},
			wantPage:  1,
		},
		"forward wins over backward": {
			n:         1_000_000,
			startPage: 1,
			sample:    window.Sample{ScrollTop: 400, ScrollHeight: 1000},
			wantPage:  2,
			wantCause: window.CauseScrollForward,
			wantOK:    true,
		},
		"last page never advances": {
			n:         10,
			startPage: 1,
			sample:    window.Sample{ScrollTop: 965, ScrollHeight: 1628},
			wantPage:  1,
		},
		"first page never retreats": {
			n:      1_000_000,
			sample: window.Sample{ScrollTop: -50, ScrollHeight: 100_000},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			c := newController(t, tc.n)
			for range tc.startPage {
				_, ok := c.Advance()
				require.True(t, ok)
			}

			got, ok := c.Observe(tc.sample)
			require.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantPage, c.Page())

			if !tc.wantOK {
				assert.Equal(t, window.Transition{}, got)

				return
			}

			assert.Equal(t, tc.startPage, got.From)
			assert.Equal(t, tc.wantPage, got.To)
			assert.Equal(t, tc.wantCause, got.Cause)
			assert.Equal(t, c.Geometry().BufferOffset(tc.wantPage), got.Offset)
		})
	}
}

func TestController_OneTransitionPerSample(t *testing.T) {
	t.Parallel()

	c := newController(t, 1_000_000)

	// A sample deep past the end would satisfy rule 1 on many pages, but only
	// one page change may happen per sample.
	tr, ok := c.Observe(window.Sample{ScrollTop: 1_000_000, ScrollHeight: 814})
	require.True(t, ok)
	assert.Equal(t, 1, tr.To)
	assert.Equal(t, 1, c.Page())
}

func TestController_ScrollRoundTrip(t *testing.T) {
	t.Parallel()

	c := newController(t, 1_000_000)
	g := c.Geometry()
	vh := g.TriggerHeight()

	// Scroll to the bottom of the first window.
	tr, ok := c.Observe(window.Sample{ScrollTop: c.ScrollHeight() - vh, ScrollHeight: c.ScrollHeight()})
	require.True(t, ok)
	assert.True(t, tr.Forward())
	assert.Equal(t, 814, tr.Offset)

	// Sitting at the corrected offset is stable.
	_, ok = c.Observe(window.Sample{ScrollTop: tr.Offset, ScrollHeight: c.ScrollHeight()})
	require.False(t, ok)

	// One unit above the window's margin retreats.
	tr, ok = c.Observe(window.Sample{ScrollTop: tr.Offset - 1, ScrollHeight: c.ScrollHeight()})
	require.True(t, ok)
	assert.False(t, tr.Forward())
	assert.Equal(t, 0, c.Page())
	assert.Equal(t, 0, tr.Offset)
}

func TestController_AdvanceRetreatSaturate(t *testing.T) {
	t.Parallel()

	c := newController(t, 12) // Pages 0, 1, 2.

	_, ok := c.Retreat()
	assert.False(t, ok)
	assert.Equal(t, 0, c.Page())

	for want := 1; want <= 2; want++ {
		tr, ok := c.Advance()
		require.True(t, ok)
		assert.Equal(t, window.CauseAdvance, tr.Cause)
		assert.Equal(t, want, c.Page())
		assert.Equal(t, c.Geometry().BufferOffset(want), tr.Offset)
	}

	assert.False(t, c.CanAdvance())
	_, ok = c.Advance()
	assert.False(t, ok)
	assert.Equal(t, 2, c.Page())
	assert.Equal(t, []int{10, 11}, c.Window())

	tr, ok := c.Retreat()
	require.True(t, ok)
	assert.Equal(t, window.CauseRetreat, tr.Cause)
	assert.Equal(t, 1, c.Page())
}

func TestController_EmptySequence(t *testing.T) {
	t.Parallel()

	c := newController(t, 0)

	assert.True(t, c.Empty())
	assert.Equal(t, -1, c.MaxPage())
	assert.Equal(t, 0, c.Page())
	assert.Empty(t, c.Window())
	assert.False(t, c.CanAdvance())
	assert.False(t, c.CanRetreat())

	_, ok := c.Advance()
	assert.False(t, ok)
	_, ok = c.Retreat()
	assert.False(t, ok)
	_, ok = c.Observe(window.Sample{ScrollTop: 0, ScrollHeight: 0})
	assert.False(t, ok)

	r := &recorder{}
	require.NoError(t, c.Mount(r))
	assert.Empty(t, r.items)
	assert.Equal(t, []string{"commit", "offset"}, r.calls)
}

func TestController_SinglePage(t *testing.T) {
	t.Parallel()

	c := newController(t, 3)

	assert.Equal(t, 0, c.MaxPage())
	_, ok := c.Observe(window.Sample{ScrollTop: 0, ScrollHeight: 0})
	assert.False(t, ok)
	assert.Equal(t, []int{0, 1, 2}, c.Window())
}

func TestController_PageStaysInBounds(t *testing.T) {
	t.Parallel()

	const n = 53

	c := newController(t, n)
	rng := rand.New(rand.NewPCG(1, 2))

	for range 5_000 {
		switch rng.IntN(3) {
		case 0:
			c.Advance()
		case 1:
			c.Retreat()
		default:
			h := c.ScrollHeight()
			c.Observe(window.Sample{ScrollTop: rng.IntN(h + 1), ScrollHeight: h})
		}

		require.GreaterOrEqual(t, c.Page(), 0)
		require.LessOrEqual(t, c.Page(), c.MaxPage())
	}
}

func TestController_TransitionHooks(t *testing.T) {
	t.Parallel()

	var got []window.Transition

	c := newController(t, 100,
		window.WithTransitionHook(func(tr window.Transition) { got = append(got, tr) }),
		window.WithTransitionHook(nil),
	)

	c.Retreat() // No-op, no hook call.
	c.Advance()
	c.Observe(window.Sample{ScrollTop: 0, ScrollHeight: 10_000})

	require.Len(t, got, 2)
	assert.Equal(t, window.CauseAdvance, got[0].Cause)
	assert.Equal(t, window.CauseScrollBackward, got[1].Cause)
}

func TestController_ApplyCommitsBeforeOffset(t *testing.T) {
	t.Parallel()

	c := newController(t, 1_000_000)
	r := &recorder{}

	tr, ok := c.Advance()
	require.True(t, ok)
	require.NoError(t, c.Apply(tr, r))

	assert.Equal(t, []string{"commit", "offset"}, r.calls)
	assert.Equal(t, 1, r.page)
	assert.Equal(t, []int{5, 6, 7, 8, 9}, r.items)
	assert.Equal(t, 814, r.offset)
}

func TestController_ApplySkipsOffsetWhenCommitFails(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")

	c := newController(t, 100)
	r := &recorder{commitErr: errBoom}

	tr, ok := c.Advance()
	require.True(t, ok)

	err := c.Apply(tr, r)
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, []string{"commit"}, r.calls)
}

func TestController_ApplyRejectsStaleTransition(t *testing.T) {
	t.Parallel()

	c := newController(t, 100)
	r := &recorder{}

	first, ok := c.Advance()
	require.True(t, ok)
	_, ok = c.Advance()
	require.True(t, ok)

	err := c.Apply(first, r)
	require.ErrorIs(t, err, window.ErrStaleTransition)
	assert.Empty(t, r.calls)
}

func TestController_Mount(t *testing.T) {
	t.Parallel()

	c := newController(t, 100)
	r := &recorder{}

	require.NoError(t, c.Mount(r))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, r.items)
	assert.Equal(t, 0, r.offset)
}

func TestNewController_Invalid(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		seq window.Sequence[int]
		cfg window.Config
	}{
		"nil sequence":   {seq: nil, cfg: cardConfig},
		"zero page size": {seq: ints(10), cfg: window.Config{ItemHeight: 1}},
		"negative gap":   {seq: ints(10), cfg: window.Config{PageSize: 5, Gap: -1}},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := window.NewController(tc.seq, tc.cfg)
			require.ErrorIs(t, err, window.ErrInvalidConfig)
		})
	}
}

func TestCause_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "scroll-forward", window.CauseScrollForward.String())
	assert.Equal(t, "scroll-backward", window.CauseScrollBackward.String())
	assert.Equal(t, "advance", window.CauseAdvance.String())
	assert.Equal(t, "retreat", window.CauseRetreat.String())
	assert.Equal(t, "Cause(0)", window.Cause(0).String())
}
