package window_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxo-ai/infinite-scroll/pkg/window"
)

var cardConfig = window.Config{PageSize: 5, ItemHeight: 150, Gap: 16}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		cfg     window.Config
		wantErr bool
	}{
		"valid": {
			cfg: cardConfig,
		},
		"zero extents are allowed": {
			cfg: window.Config{PageSize: 1},
		},
		"zero page size": {
			cfg:     window.Config{PageSize: 0, ItemHeight: 1},
			wantErr: true,
		},
		"negative page size": {
			cfg:     window.Config{PageSize: -3, ItemHeight: 1},
			wantErr: true,
		},
		"negative item height": {
			cfg:     window.Config{PageSize: 5, ItemHeight: -1},
			wantErr: true,
		},
		"negative gap": {
			cfg:     window.Config{PageSize: 5, ItemHeight: 1, Gap: -16},
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := tc.cfg.Validate()
			if tc.wantErr {
				require.ErrorIs(t, err, window.ErrInvalidConfig)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestConfig_ValidateReportsEveryField(t *testing.T) {
	t.Parallel()

	err := window.Config{PageSize: 0, ItemHeight: -1, Gap: -1}.Validate()
	require.ErrorIs(t, err, window.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "page size")
	assert.Contains(t, err.Error(), "item height")
	assert.Contains(t, err.Error(), "gap")
}

func TestGeometry_CardExtents(t *testing.T) {
	t.Parallel()

	g, err := window.NewGeometry(cardConfig)
	require.NoError(t, err)

	assert.Equal(t, 0, g.BufferOffset(0))
	assert.Equal(t, 814, g.BufferOffset(1))
	assert.Equal(t, 1628, g.BufferOffset(2))
	assert.Equal(t, 663, g.ViewportHeight(4))
	assert.Equal(t, 663, g.TriggerHeight())
	assert.Equal(t, 814, g.WindowHeight(5))
	assert.Equal(t, 482, g.WindowHeight(3))
	assert.Equal(t, 0, g.WindowHeight(0))
	assert.Equal(t, 1628, g.ScrollHeight(1, 5))
}

func TestGeometry_BufferOffsetIsStrictlyIncreasing(t *testing.T) {
	t.Parallel()

	g, err := window.NewGeometry(cardConfig)
	require.NoError(t, err)

	prev := g.BufferOffset(0)
	for page := 1; page < 10_000; page++ {
		cur := g.BufferOffset(page)
		require.Greater(t, cur, prev, "page %d", page)
		prev = cur
	}
}

func TestGeometry_BufferOffsetMatchesFullWindows(t *testing.T) {
	t.Parallel()

	// Each earlier page contributes exactly one full window of content.
	g, err := window.NewGeometry(window.Config{PageSize: 7, ItemHeight: 3, Gap: 2})
	require.NoError(t, err)

	for page := range 50 {
		assert.Equal(t, page*g.WindowHeight(7), g.BufferOffset(page))
	}
}

func TestGeometry_SingleItemPagesHaveNoGap(t *testing.T) {
	t.Parallel()

	g, err := window.NewGeometry(window.Config{PageSize: 1, ItemHeight: 10, Gap: 4})
	require.NoError(t, err)

	assert.Equal(t, 30, g.BufferOffset(3))
	assert.Equal(t, -1, g.TriggerHeight())
}

func TestGeometry_ItemPlacement(t *testing.T) {
	t.Parallel()

	g, err := window.NewGeometry(cardConfig)
	require.NoError(t, err)

	tcs := map[string]struct {
		page, item int
		wantOffset int
		wantMargin int
	}{
		"first item of first page": {page: 0, item: 0, wantOffset: 0, wantMargin: 0},
		"second item of first page": {page: 0, item: 1, wantOffset: 166, wantMargin: 16},
		"first item of second page": {page: 1, item: 0, wantOffset: 814, wantMargin: 814},
		"last item of second page":  {page: 1, item: 4, wantOffset: 814 + 4*166, wantMargin: 16},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.wantOffset, g.ItemOffset(tc.page, tc.item))
			assert.Equal(t, tc.wantMargin, g.LeadingMargin(tc.page, tc.item))
		})
	}
}

func TestNewGeometry_Invalid(t *testing.T) {
	t.Parallel()

	_, err := window.NewGeometry(window.Config{PageSize: 5, ItemHeight: -150})
	require.ErrorIs(t, err, window.ErrInvalidConfig)
}
