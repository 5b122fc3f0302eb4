package dashclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow_TopOfList(t *testing.T) {
	v := NewVirtualizer(WindowConfig{RowHeight: 40, Overscan: 5})

	win := v.Window(1000, 0, 800, false, false)
	assert.Equal(t, 0, win.Start)
	assert.Equal(t, 26, win.End) // 800/40 visible + 1 + 5 overscan
	assert.Equal(t, 0, win.PaddingTop)
	assert.Equal(t, (1000-26)*40, win.PaddingBottom)
	assert.False(t, win.LoadingRow)
}

func TestWindow_MidScroll(t *testing.T) {
	v := NewVirtualizer(WindowConfig{RowHeight: 40, Overscan: 5})

	win := v.Window(1000, 4000, 800, false, false)
	assert.Equal(t, 95, win.Start) // row 100 visible, minus overscan
	assert.Equal(t, 126, win.End)
	assert.Equal(t, 95*40, win.PaddingTop)
	assert.Equal(t, (1000-126)*40, win.PaddingBottom)
}

func TestWindow_EndOfList(t *testing.T) {
	v := NewVirtualizer(WindowConfig{RowHeight: 40, Overscan: 5})

	win := v.Window(100, 3600, 800, false, false)
	assert.Equal(t, 85, win.Start)
	assert.Equal(t, 100, win.End, "end clamps to the row count")
	assert.Equal(t, 0, win.PaddingBottom)
}

func TestWindow_LoadingRow(t *testing.T) {
	v := NewVirtualizer(WindowConfig{RowHeight: 40})

	// Fetching with more data pending appends one synthetic row.
	win := v.Window(20, 0, 800, true, true)
	assert.Equal(t, 21, win.End)
	assert.True(t, win.LoadingRow)

	// Fetching the first page of an empty list shows only the loading row.
	win = v.Window(0, 0, 800, true, true)
	assert.Equal(t, 0, win.Start)
	assert.Equal(t, 1, win.End)
	assert.True(t, win.LoadingRow)

	// No loading row once the dataset is exhausted.
	win = v.Window(20, 0, 800, true, false)
	assert.Equal(t, 20, win.End)
	assert.False(t, win.LoadingRow)
}

func TestWindow_LoadingRowOnlyWhenVisible(t *testing.T) {
	v := NewVirtualizer(WindowConfig{RowHeight: 40, Overscan: 0})

	// Scrolled to the top of a long list, the synthetic tail row is outside
	// the window.
	win := v.Window(1000, 0, 800, true, true)
	assert.False(t, win.LoadingRow)
	assert.Less(t, win.End, 1001)
}

func TestWindow_EmptyList(t *testing.T) {
	v := NewVirtualizer(WindowConfig{RowHeight: 40})

	win := v.Window(0, 0, 800, false, false)
	assert.Equal(t, Window{}, win)
}

func TestWindow_NegativeScrollClamps(t *testing.T) {
	v := NewVirtualizer(WindowConfig{RowHeight: 40, Overscan: 2})

	win := v.Window(50, -200, 800, false, false)
	assert.Equal(t, 0, win.Start)
	assert.Equal(t, 0, win.PaddingTop)
}

func TestWindow_Memoized(t *testing.T) {
	v := NewVirtualizer(WindowConfig{RowHeight: 40, Overscan: 5})

	first := v.Window(1000, 4000, 800, false, false)
	second := v.Window(1000, 4000, 800, false, false)
	assert.Equal(t, first, second)

	// A changed input recomputes.
	third := v.Window(1000, 4400, 800, false, false)
	assert.NotEqual(t, first.Start, third.Start)
}

func TestWindow_DefaultGeometry(t *testing.T) {
	v := NewVirtualizer(WindowConfig{})

	win := v.Window(100, 0, 440, false, false)
	assert.Equal(t, 0, win.Start)
	assert.Equal(t, 11, win.End) // 440/44 + 1 with zero overscan
}
