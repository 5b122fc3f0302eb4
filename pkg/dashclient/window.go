package dashclient

// WindowConfig fixes the row geometry for virtualization.
type WindowConfig struct {
	// RowHeight is the fixed pixel height of one row.
	RowHeight int
	// Overscan is the number of rows materialized beyond each edge of the
	// visible range, to reduce flicker during fast scroll.
	Overscan int
}

// Window is the minimal range of rows to materialize.
type Window struct {
	// Start and End bound the materialized rows: [Start, End).
	Start int
	End   int
	// PaddingTop and PaddingBottom are the pixel heights of the
	// unmaterialized regions above and below the window.
	PaddingTop    int
	PaddingBottom int
	// LoadingRow reports that a synthetic loading row is included at the
	// end of the window (a next-page fetch is in flight and more data is
	// expected).
	LoadingRow bool
}

type windowKey struct {
	rows           int
	scrollTop      int
	viewportHeight int
	loading        bool
}

// Virtualizer computes visible windows over the accumulated sequence. The
// result is a pure function of its inputs; the last computation is cached
// so per-pixel scroll events that land on the same row range cost nothing.
type Virtualizer struct {
	cfg     WindowConfig
	lastKey windowKey
	lastWin Window
	valid   bool
}

// NewVirtualizer creates a Virtualizer with the given geometry.
func NewVirtualizer(cfg WindowConfig) *Virtualizer {
	if cfg.RowHeight <= 0 {
		cfg.RowHeight = 44
	}
	if cfg.Overscan < 0 {
		cfg.Overscan = 0
	}
	return &Virtualizer{cfg: cfg}
}

// Window computes the row range to materialize for the current scroll
// position. fetchingNext and hasMore control the synthetic loading row.
func (v *Virtualizer) Window(rows, scrollTop, viewportHeight int, fetchingNext, hasMore bool) Window {
	loading := fetchingNext && hasMore
	key := windowKey{rows: rows, scrollTop: scrollTop, viewportHeight: viewportHeight, loading: loading}
	if v.valid && key == v.lastKey {
		return v.lastWin
	}

	count := rows
	if loading {
		count++
	}

	win := Window{LoadingRow: false}
	if count > 0 {
		if scrollTop < 0 {
			scrollTop = 0
		}
		start := scrollTop/v.cfg.RowHeight - v.cfg.Overscan
		if start < 0 {
			start = 0
		}
		end := (scrollTop+viewportHeight)/v.cfg.RowHeight + 1 + v.cfg.Overscan
		if end > count {
			end = count
		}
		if start > end {
			start = end
		}

		win.Start = start
		win.End = end
		win.PaddingTop = start * v.cfg.RowHeight
		win.PaddingBottom = (count - end) * v.cfg.RowHeight
		win.LoadingRow = loading && end == count
	}

	v.lastKey = key
	v.lastWin = win
	v.valid = true
	return win
}
