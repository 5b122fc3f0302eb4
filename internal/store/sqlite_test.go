package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Karthik-beta/data-app/internal/model"
)

// newSeededSQLite creates a migrated store with 250 rows: ids 1..250,
// alternating status, class by thirds, years cycling 2018..2022.
func newSeededSQLite(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	require.NoError(t, s.Migrate(ctx))

	companies := make([]model.Company, 250)
	for i := range companies {
		n := i + 1
		status := "Active"
		if n%2 == 0 {
			status = "Strike Off"
		}
		class := "Private"
		if n%3 == 0 {
			class = "Public"
		}
		year := 2018 + n%5
		reg := time.Date(year, time.April, 1, 0, 0, 0, 0, time.UTC)
		capital := float64(n * 1000)

		companies[i] = model.Company{
			CIN:               fmt.Sprintf("U%05dKA%dPTC", n, year),
			Name:              fmt.Sprintf("Company %03d Ltd", n),
			Class:             class,
			Status:            status,
			StateCode:         "KARNATAKA",
			Industry:          "Manufacturing",
			ListingStatus:     "Unlisted",
			AuthorizedCapital: &capital,
			RegistrationDate:  &reg,
		}
	}
	n, err := s.ImportCompanies(ctx, companies)
	require.NoError(t, err)
	require.Equal(t, int64(250), n)
	return s
}

func TestSQLite_KeysetPagination(t *testing.T) {
	s := newSeededSQLite(t)
	ctx := context.Background()

	var cursor int64
	var seen []int64
	for page := 0; ; page++ {
		records, err := s.Records(ctx, model.FilterSelection{}, cursor, 100)
		require.NoError(t, err)
		if page < 2 {
			require.Len(t, records, 100)
		} else {
			require.Len(t, records, 50)
		}
		for _, c := range records {
			if len(seen) > 0 {
				assert.Greater(t, c.ID, seen[len(seen)-1], "ids must be strictly increasing")
			}
			seen = append(seen, c.ID)
		}
		if len(records) < 100 {
			break
		}
		cursor = records[len(records)-1].ID
	}
	assert.Len(t, seen, 250, "every row appears exactly once across pages")
}

func TestSQLite_FilteredRecordsAgreeWithReferencePredicate(t *testing.T) {
	s := newSeededSQLite(t)
	ctx := context.Background()

	f := model.FilterSelection{
		Statuses: []string{"Active"},
		Classes:  []string{"Public"},
		Years:    []int{2019, 2021},
	}

	records, err := s.Records(ctx, f, 0, 1000)
	require.NoError(t, err)
	require.NotEmpty(t, records)
	for _, c := range records {
		assert.True(t, f.Matches(c), "row %d must satisfy every active dimension", c.ID)
	}

	count, err := s.FilteredCount(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, len(records), count, "filtered count is exact, not capped")
}

func TestSQLite_Search(t *testing.T) {
	s := newSeededSQLite(t)
	ctx := context.Background()

	records, err := s.Records(ctx, model.FilterSelection{Search: "company 04"}, 0, 100)
	require.NoError(t, err)
	require.Len(t, records, 10) // Company 040..049
	for _, c := range records {
		assert.Contains(t, c.Name, "Company 04")
	}

	byCIN, err := s.Records(ctx, model.FilterSelection{Search: "U00042KA"}, 0, 100)
	require.NoError(t, err)
	require.Len(t, byCIN, 1)
	assert.Equal(t, "Company 042 Ltd", byCIN[0].Name)
}

func TestSQLite_Counts(t *testing.T) {
	s := newSeededSQLite(t)
	ctx := context.Background()

	total, err := s.TotalCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 250, total)

	unfiltered, err := s.FilteredCount(ctx, model.FilterSelection{})
	require.NoError(t, err)
	assert.Equal(t, 250, unfiltered)

	active, err := s.FilteredCount(ctx, model.FilterSelection{Statuses: []string{"Active"}})
	require.NoError(t, err)
	assert.Equal(t, 125, active)
}

func TestSQLite_FilterOptions(t *testing.T) {
	s := newSeededSQLite(t)

	opts, err := s.FilterOptions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []model.Option{
		{Value: "Active", Label: "Active"},
		{Value: "Strike Off", Label: "Strike Off"},
	}, opts.Statuses)
	assert.Equal(t, []model.Option{
		{Value: "Private", Label: "Private"},
		{Value: "Public", Label: "Public"},
	}, opts.Classes)
	// Years sort newest first.
	assert.Equal(t, []model.Option{
		{Value: "2022", Label: "2022"},
		{Value: "2021", Label: "2021"},
		{Value: "2020", Label: "2020"},
		{Value: "2019", Label: "2019"},
		{Value: "2018", Label: "2018"},
	}, opts.Years)
	assert.Equal(t, []model.Option{{Value: "KARNATAKA", Label: "Karnataka"}}, opts.StateCodes)
}

func TestSQLite_Analytics(t *testing.T) {
	s := newSeededSQLite(t)
	ctx := context.Background()

	byStatus, err := s.CountByStatus(ctx, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []model.StatusCount{
		{Status: "Active", Count: 125},
		{Status: "Strike Off", Count: 125},
	}, byStatus)

	byClass, err := s.CountByClass(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.ClassCount{
		{Class: "Private", Count: 167},
		{Class: "Public", Count: 83},
	}, byClass)

	industries, err := s.TopIndustries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, industries, 1)
	assert.Equal(t, model.IndustryCount{Industry: "Manufacturing", Count: 250}, industries[0])

	stats, err := s.CapitalStats(ctx)
	require.NoError(t, err)
	require.NotNil(t, stats)
	// sum(1000..250000 step 1000) = 31_375_000, avg = 125_500
	assert.Equal(t, 125500.0, stats.AvgAuthorized)
	assert.Equal(t, 250000.0, stats.MaxAuthorized)
	assert.Equal(t, 31375000.0, stats.TotalAuthorized)
	assert.Zero(t, stats.AvgPaidup, "no paidup values seeded")

	byListing, err := s.CountByListing(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.StatusCount{{Status: "Unlisted", Count: 250}}, byListing)
}

func TestSQLite_CapitalStats_EmptyDataset(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))

	stats, err := s.CapitalStats(context.Background())
	require.NoError(t, err)
	assert.Nil(t, stats)
}

func TestSQLite_ImportUpsertsByCIN(t *testing.T) {
	s := newSeededSQLite(t)
	ctx := context.Background()

	updated := model.Company{
		CIN:    "U00001KA2019PTC",
		Name:   "Company 001 Renamed Ltd",
		Status: "Strike Off",
	}
	n, err := s.ImportCompanies(ctx, []model.Company{updated})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	total, err := s.TotalCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 250, total, "re-import must not duplicate rows")

	records, err := s.Records(ctx, model.FilterSelection{Search: "U00001KA"}, 0, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Company 001 Renamed Ltd", records[0].Name)
	assert.Equal(t, int64(1), records[0].ID, "cursor id is stable across re-imports")
}
