package dashclient

import (
	"context"
	"sync"
	"time"

	"github.com/Karthik-beta/data-app/internal/model"
)

// State is the pager's lifecycle state.
type State int

const (
	// StateIdle means no fetch is in flight.
	StateIdle State = iota
	// StateFetchingFirst means the first page of the current filter
	// selection is loading.
	StateFetchingFirst
	// StateFetchingNext means a follow-up page is loading.
	StateFetchingNext
	// StateError means the last fetch failed; Retry re-issues it.
	StateError
)

const (
	defaultLimit    = 100
	defaultDebounce = 300 * time.Millisecond
	// scrollThreshold is the fraction of scrollable height past which the
	// next page is requested.
	scrollThreshold = 0.7
)

// FetchFunc fetches one page. Client.Records satisfies it.
type FetchFunc func(ctx context.Context, f model.FilterSelection, cursor int64, limit int) (*model.Page, error)

// Snapshot is a consistent view of the pager for rendering.
type Snapshot struct {
	State         State
	Records       []model.Company
	HasMore       bool
	Total         int
	FilteredTotal int
	Err           error
}

// Pager accumulates pages of records under a committed filter selection.
//
// Fetches run asynchronously; every response is tagged with the filter
// generation it was issued under, and responses from a superseded
// generation are discarded rather than merged out of order. A single-flight
// guard keeps rapid scroll events from issuing duplicate next-page fetches.
type Pager struct {
	fetch    FetchFunc
	limit    int
	debounce time.Duration
	onChange func()

	mu            sync.Mutex
	ctx           context.Context
	filters       model.FilterSelection
	pendingSearch string
	searchTimer   *time.Timer
	generation    uint64
	state         State
	inFlight      bool
	records       []model.Company
	nextCursor    *int64
	total         int
	filteredTotal int
	err           error
}

// PagerOption configures a Pager.
type PagerOption func(*Pager)

// WithLimit sets the page size.
func WithLimit(limit int) PagerOption {
	return func(p *Pager) {
		if limit > 0 {
			p.limit = limit
		}
	}
}

// WithDebounce sets the search debounce window.
func WithDebounce(d time.Duration) PagerOption {
	return func(p *Pager) {
		if d > 0 {
			p.debounce = d
		}
	}
}

// WithOnChange registers a hook invoked after every state transition, for
// re-rendering.
func WithOnChange(fn func()) PagerOption {
	return func(p *Pager) {
		p.onChange = fn
	}
}

// NewPager creates a pager over the given fetch function.
func NewPager(fetch FetchFunc, opts ...PagerOption) *Pager {
	p := &Pager{
		fetch:    fetch,
		limit:    defaultLimit,
		debounce: defaultDebounce,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start issues the initial fetch with cursor 0.
func (p *Pager) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ctx = ctx
	p.restartLocked()
}

// SetFilters commits a new filter selection immediately, invalidating the
// accumulated sequence and restarting pagination from cursor 0. The
// committed search value is preserved.
func (p *Pager) SetFilters(f model.FilterSelection) {
	p.mu.Lock()
	defer p.mu.Unlock()
	f.Search = p.filters.Search
	p.filters = f
	p.restartLocked()
}

// SetSearch records a search keystroke. The value is committed only after
// the debounce window passes without another keystroke, so a burst of
// keystrokes produces at most one fetch.
func (p *Pager) SetSearch(search string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pendingSearch = search
	if p.searchTimer != nil {
		p.searchTimer.Stop()
	}
	p.searchTimer = time.AfterFunc(p.debounce, p.commitSearch)
}

// SetSearchNow commits a search value immediately, bypassing the debounce
// window. Non-interactive drivers (flag values, scripted runs) use it; the
// debounce exists for keystroke streams only.
func (p *Pager) SetSearchNow(search string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.searchTimer != nil {
		p.searchTimer.Stop()
	}
	p.pendingSearch = search
	if search == p.filters.Search {
		return
	}
	p.filters.Search = search
	p.restartLocked()
}

func (p *Pager) commitSearch() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pendingSearch == p.filters.Search {
		return
	}
	p.filters.Search = p.pendingSearch
	p.restartLocked()
}

// OnScroll reports the rendering surface's scroll position. Past the
// threshold, with no fetch in flight and more data known to exist, the next
// page fetch is triggered.
func (p *Pager) OnScroll(scrollTop, viewportHeight, contentHeight float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inFlight || p.state == StateError || p.nextCursor == nil {
		return
	}
	if contentHeight <= 0 || scrollTop+viewportHeight < contentHeight*scrollThreshold {
		return
	}
	p.startFetchLocked(false)
}

// FetchNext explicitly requests the next page (for non-scroll drivers such
// as the CLI browser). It reports whether a fetch was started.
func (p *Pager) FetchNext() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inFlight || p.state == StateError || p.nextCursor == nil {
		return false
	}
	p.startFetchLocked(false)
	return true
}

// Retry re-issues the failed fetch. No automatic retry is ever performed.
func (p *Pager) Retry() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateError {
		return
	}
	p.err = nil
	p.startFetchLocked(len(p.records) == 0)
}

// Snapshot returns a copy of the pager's current state.
func (p *Pager) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	records := make([]model.Company, len(p.records))
	copy(records, p.records)
	return Snapshot{
		State:         p.state,
		Records:       records,
		HasMore:       p.nextCursor != nil,
		Total:         p.total,
		FilteredTotal: p.filteredTotal,
		Err:           p.err,
	}
}

// Filters returns the committed filter selection.
func (p *Pager) Filters() model.FilterSelection {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filters
}

// restartLocked invalidates the accumulated sequence and fetches the first
// page of the current filters. Caller holds mu.
func (p *Pager) restartLocked() {
	p.generation++
	p.records = nil
	p.nextCursor = nil
	p.err = nil
	p.startFetchLocked(true)
}

// startFetchLocked launches an asynchronous page fetch. Caller holds mu.
func (p *Pager) startFetchLocked(first bool) {
	if p.ctx == nil {
		return
	}

	gen := p.generation
	filters := p.filters
	var cursor int64
	if !first && p.nextCursor != nil {
		cursor = *p.nextCursor
	}

	p.inFlight = true
	if first {
		p.state = StateFetchingFirst
	} else {
		p.state = StateFetchingNext
	}
	p.notify()

	go func() {
		page, err := p.fetch(p.ctx, filters, cursor, p.limit)

		p.mu.Lock()
		defer p.mu.Unlock()

		// A filter change superseded this request; its response no longer
		// matches the committed filters and must be ignored.
		if gen != p.generation {
			return
		}
		p.inFlight = false

		if err != nil {
			p.state = StateError
			p.err = err
			p.notify()
			return
		}

		if first {
			p.records = page.Records
		} else {
			p.records = append(p.records, page.Records...)
		}
		p.nextCursor = page.NextCursor
		if page.Total != nil {
			p.total = *page.Total
		}
		if page.FilteredTotal != nil {
			p.filteredTotal = *page.FilteredTotal
		}
		p.state = StateIdle
		p.notify()
	}()
}

// notify invokes the change hook outside of state mutation concerns; it is
// called with mu held, so hooks must not call back into the pager.
func (p *Pager) notify() {
	if p.onChange != nil {
		p.onChange()
	}
}
