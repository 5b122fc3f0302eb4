package dashclient

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Karthik-beta/data-app/internal/model"
)

// datasetFetch pages through a synthetic dataset of total rows with ids
// 1..total, counting every call.
func datasetFetch(total int, calls *atomic.Int64) FetchFunc {
	return func(_ context.Context, f model.FilterSelection, cursor int64, limit int) (*model.Page, error) {
		calls.Add(1)

		var records []model.Company
		for id := cursor + 1; id <= int64(total) && len(records) < limit; id++ {
			records = append(records, model.Company{ID: id, Name: "Row", Status: "Active"})
		}

		page := &model.Page{Records: records}
		if len(records) == limit {
			last := records[len(records)-1].ID
			page.NextCursor = &last
		}
		if cursor == 0 {
			t := total
			page.Total = &t
			page.FilteredTotal = &t
		}
		return page, nil
	}
}

func waitIdle(t *testing.T, p *Pager) Snapshot {
	t.Helper()
	require.Eventually(t, func() bool {
		return p.Snapshot().State == StateIdle
	}, 2*time.Second, 5*time.Millisecond)
	return p.Snapshot()
}

func TestPager_StartFetchesFirstPage(t *testing.T) {
	var calls atomic.Int64
	p := NewPager(datasetFetch(250, &calls))
	p.Start(context.Background())

	snap := waitIdle(t, p)
	assert.Len(t, snap.Records, 100)
	assert.True(t, snap.HasMore)
	assert.Equal(t, 250, snap.Total)
	assert.Equal(t, 250, snap.FilteredTotal)
	assert.Equal(t, int64(1), calls.Load())
}

func TestPager_FetchNextAccumulatesUntilExhaustion(t *testing.T) {
	var calls atomic.Int64
	p := NewPager(datasetFetch(250, &calls))
	p.Start(context.Background())
	waitIdle(t, p)

	require.True(t, p.FetchNext())
	snap := waitIdle(t, p)
	assert.Len(t, snap.Records, 200)
	assert.True(t, snap.HasMore)

	require.True(t, p.FetchNext())
	snap = waitIdle(t, p)
	assert.Len(t, snap.Records, 250)
	assert.False(t, snap.HasMore, "a short page signals exhaustion")

	assert.False(t, p.FetchNext(), "no fetch once the data is exhausted")
	assert.Equal(t, int64(3), calls.Load())

	for i, c := range snap.Records {
		assert.Equal(t, int64(i+1), c.ID, "accumulated sequence has no gaps or duplicates")
	}
}

func TestPager_SearchDebounce(t *testing.T) {
	var calls atomic.Int64
	p := NewPager(datasetFetch(50, &calls), WithDebounce(30*time.Millisecond))
	p.Start(context.Background())
	waitIdle(t, p)
	require.Equal(t, int64(1), calls.Load())

	// A keystroke burst inside the debounce window commits once.
	p.SetSearch("a")
	p.SetSearch("ac")
	p.SetSearch("acm")
	p.SetSearch("acme")

	require.Eventually(t, func() bool {
		return p.Filters().Search == "acme"
	}, 2*time.Second, 5*time.Millisecond)
	waitIdle(t, p)
	assert.Equal(t, int64(2), calls.Load(), "burst of keystrokes issues a single fetch")
}

func TestPager_SearchUnchangedValueDoesNotRefetch(t *testing.T) {
	var calls atomic.Int64
	p := NewPager(datasetFetch(50, &calls), WithDebounce(10*time.Millisecond))
	p.Start(context.Background())
	waitIdle(t, p)

	p.SetSearch("")
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(1), calls.Load(), "committing the already-committed value is a no-op")
}

func TestPager_SetSearchNow(t *testing.T) {
	var calls atomic.Int64
	var searches []string
	fetch := func(ctx context.Context, f model.FilterSelection, cursor int64, limit int) (*model.Page, error) {
		searches = append(searches, f.Search)
		return datasetFetch(50, &calls)(ctx, f, cursor, limit)
	}

	// Committed before Start, the search rides on the very first fetch.
	p := NewPager(fetch)
	p.SetSearchNow("acme")
	p.Start(context.Background())
	snap := waitIdle(t, p)
	assert.Len(t, snap.Records, 50)
	assert.Equal(t, []string{"acme"}, searches, "no unfiltered fetch precedes the committed search")

	// Committed after Start, it refetches without waiting out a debounce.
	p.SetSearchNow("globex")
	waitIdle(t, p)
	assert.Equal(t, []string{"acme", "globex"}, searches)

	// Re-committing the same value is a no-op.
	p.SetSearchNow("globex")
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, searches, 2)
}

func TestPager_SetFiltersPreservesCommittedSearch(t *testing.T) {
	var calls atomic.Int64
	p := NewPager(datasetFetch(50, &calls), WithDebounce(10*time.Millisecond))
	p.Start(context.Background())
	waitIdle(t, p)

	p.SetSearch("acme")
	require.Eventually(t, func() bool {
		return p.Filters().Search == "acme"
	}, 2*time.Second, 5*time.Millisecond)

	p.SetFilters(model.FilterSelection{Statuses: []string{"Active"}})
	got := p.Filters()
	assert.Equal(t, []string{"Active"}, got.Statuses)
	assert.Equal(t, "acme", got.Search, "filter changes leave the committed search intact")
}

func TestPager_StaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	fetch := func(_ context.Context, f model.FilterSelection, cursor int64, limit int) (*model.Page, error) {
		if len(f.Statuses) == 0 {
			// The initial fetch hangs until after the filters change.
			<-release
			return &model.Page{Records: []model.Company{{ID: 1, Name: "stale"}}}, nil
		}
		return &model.Page{Records: []model.Company{{ID: 2, Name: "fresh"}}}, nil
	}

	p := NewPager(fetch)
	p.Start(context.Background())
	p.SetFilters(model.FilterSelection{Statuses: []string{"Active"}})

	snap := waitIdle(t, p)
	require.Len(t, snap.Records, 1)
	assert.Equal(t, "fresh", snap.Records[0].Name)

	close(release)
	time.Sleep(50 * time.Millisecond)

	snap = p.Snapshot()
	require.Len(t, snap.Records, 1)
	assert.Equal(t, "fresh", snap.Records[0].Name, "superseded response must be discarded, not merged")
}

func TestPager_SingleFlight(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int64
	fetch := func(_ context.Context, f model.FilterSelection, cursor int64, limit int) (*model.Page, error) {
		n := calls.Add(1)
		if n > 1 {
			<-release
		}
		records := make([]model.Company, limit)
		for i := range records {
			records[i] = model.Company{ID: cursor + int64(i) + 1}
		}
		last := records[len(records)-1].ID
		return &model.Page{Records: records, NextCursor: &last}, nil
	}

	p := NewPager(fetch)
	p.Start(context.Background())
	waitIdle(t, p)

	require.True(t, p.FetchNext())
	assert.False(t, p.FetchNext(), "a second request while one is in flight is dropped")
	assert.False(t, p.FetchNext())

	close(release)
	waitIdle(t, p)
	assert.Equal(t, int64(2), calls.Load())
}

func TestPager_OnScrollThreshold(t *testing.T) {
	var calls atomic.Int64
	p := NewPager(datasetFetch(500, &calls))
	p.Start(context.Background())
	waitIdle(t, p)
	require.Equal(t, int64(1), calls.Load())

	// At half depth nothing happens.
	p.OnScroll(2000, 800, 10000)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(1), calls.Load())

	// Past 70% of the content height the next page loads.
	p.OnScroll(6500, 800, 10000)
	waitIdle(t, p)
	assert.Equal(t, int64(2), calls.Load())
	assert.Len(t, p.Snapshot().Records, 200)
}

func TestPager_ErrorStateAndRetry(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	var calls atomic.Int64
	fetch := func(ctx context.Context, f model.FilterSelection, cursor int64, limit int) (*model.Page, error) {
		calls.Add(1)
		if fail.Load() {
			return nil, eris.New("server unavailable")
		}
		return datasetFetch(50, &atomic.Int64{})(ctx, f, cursor, limit)
	}

	p := NewPager(fetch)
	p.Start(context.Background())

	require.Eventually(t, func() bool {
		return p.Snapshot().State == StateError
	}, 2*time.Second, 5*time.Millisecond)
	snap := p.Snapshot()
	require.Error(t, snap.Err)
	assert.Empty(t, snap.Records)

	assert.False(t, p.FetchNext(), "no fetch while in the error state")
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(1), calls.Load(), "failed fetches are never retried automatically")

	fail.Store(false)
	p.Retry()
	snap = waitIdle(t, p)
	assert.NoError(t, snap.Err)
	assert.Len(t, snap.Records, 50)
	assert.Equal(t, int64(2), calls.Load())
}

func TestPager_WithLimit(t *testing.T) {
	var calls atomic.Int64
	p := NewPager(datasetFetch(30, &calls), WithLimit(10))
	p.Start(context.Background())

	snap := waitIdle(t, p)
	assert.Len(t, snap.Records, 10)
	assert.True(t, snap.HasMore)
}
