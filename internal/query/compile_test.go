package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Karthik-beta/data-app/internal/model"
)

func TestRecords_NoFilters_FirstPage(t *testing.T) {
	c := Records(model.FilterSelection{}, 0, 100, Postgres)

	assert.Equal(t, "SELECT "+Columns+" FROM companies ORDER BY id LIMIT $1", c.SQL)
	assert.Equal(t, []any{100}, c.Args)
}

func TestRecords_NoFilters_Cursor(t *testing.T) {
	c := Records(model.FilterSelection{}, 250, 100, Postgres)

	assert.Equal(t, "SELECT "+Columns+" FROM companies WHERE id > $1 ORDER BY id LIMIT $2", c.SQL)
	assert.Equal(t, []any{int64(250), 100}, c.Args)
}

func TestRecords_SingleStatus(t *testing.T) {
	f := model.FilterSelection{Statuses: []string{"Active"}}
	c := Records(f, 0, 50, Postgres)

	assert.Equal(t, "SELECT "+Columns+" FROM companies WHERE company_status IN ($1) ORDER BY id LIMIT $2", c.SQL)
	assert.Equal(t, []any{"Active", 50}, c.Args)
}

func TestRecords_MultiValueDimension(t *testing.T) {
	f := model.FilterSelection{Classes: []string{"Private", "Public"}}
	c := Records(f, 10, 25, Postgres)

	assert.Equal(t, "SELECT "+Columns+" FROM companies WHERE id > $1 AND company_class IN ($2, $3) ORDER BY id LIMIT $4", c.SQL)
	assert.Equal(t, []any{int64(10), "Private", "Public", 25}, c.Args)
}

func TestRecords_Search(t *testing.T) {
	f := model.FilterSelection{Search: "ABC"}
	c := Records(f, 0, 100, Postgres)

	assert.Equal(t, "SELECT "+Columns+" FROM companies WHERE (company_name ILIKE $1 OR cin ILIKE $2) ORDER BY id LIMIT $3", c.SQL)
	assert.Equal(t, []any{"%ABC%", "%ABC%", 100}, c.Args)
}

func TestRecords_AllDimensions_SinglePredicateTree(t *testing.T) {
	f := model.FilterSelection{
		Statuses:   []string{"Active", "Strike Off"},
		Classes:    []string{"Private"},
		Years:      []int{2020, 2021},
		Industries: []string{"Manufacturing"},
		StateCodes: []string{"KA"},
		Search:     "tech",
	}
	c := Records(f, 500, 100, Postgres)

	want := "SELECT " + Columns + " FROM companies WHERE id > $1" +
		" AND company_status IN ($2, $3)" +
		" AND company_class IN ($4)" +
		" AND EXTRACT(YEAR FROM company_registration_date) IN ($5, $6)" +
		" AND company_industrial_classification IN ($7)" +
		" AND company_state_code IN ($8)" +
		" AND (company_name ILIKE $9 OR cin ILIKE $10)" +
		" ORDER BY id LIMIT $11"
	assert.Equal(t, want, c.SQL)
	assert.Equal(t, []any{int64(500), "Active", "Strike Off", "Private", 2020, 2021,
		"Manufacturing", "KA", "%tech%", "%tech%", 100}, c.Args)
}

func TestRecords_SQLiteDialect(t *testing.T) {
	f := model.FilterSelection{Years: []int{2019}, Search: "abc"}
	c := Records(f, 7, 10, SQLite)

	want := "SELECT " + Columns + " FROM companies WHERE id > ?" +
		" AND CAST(strftime('%Y', company_registration_date) AS INTEGER) IN (?)" +
		" AND (company_name LIKE ? OR cin LIKE ?)" +
		" ORDER BY id LIMIT ?"
	assert.Equal(t, want, c.SQL)
	assert.Equal(t, []any{int64(7), 2019, "%abc%", "%abc%", 10}, c.Args)
}

func TestFilteredCount_NoFilters(t *testing.T) {
	c := FilteredCount(model.FilterSelection{}, Postgres)

	assert.Equal(t, "SELECT COUNT(*) FROM companies", c.SQL)
	assert.Empty(t, c.Args)
}

func TestFilteredCount_IgnoresCursorOnlySelection(t *testing.T) {
	f := model.FilterSelection{Statuses: []string{"Active"}}
	c := FilteredCount(f, Postgres)

	assert.Equal(t, "SELECT COUNT(*) FROM companies WHERE company_status IN ($1)", c.SQL)
	assert.Equal(t, []any{"Active"}, c.Args)
}
