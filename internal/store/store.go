// Package store persists and queries the company registry dataset.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/Karthik-beta/data-app/internal/config"
	"github.com/Karthik-beta/data-app/internal/model"
)

// Store defines the persistence interface for the registry dataset. The
// serving path is read-only; ImportCompanies is the only write entry point
// and is used by the bulk loader.
type Store interface {
	// Records returns companies matching the filter selection, ordered by
	// id ascending, starting strictly after cursor, at most limit rows.
	Records(ctx context.Context, f model.FilterSelection, cursor int64, limit int) ([]model.Company, error)

	// TotalCount returns the unfiltered row count.
	TotalCount(ctx context.Context) (int, error)

	// FilteredCount returns the row count under the filter selection,
	// ignoring any cursor.
	FilteredCount(ctx context.Context, f model.FilterSelection) (int, error)

	// FilterOptions returns all distinct values per filterable dimension,
	// pre-sorted (years descending, the rest ascending).
	FilterOptions(ctx context.Context) (*model.FilterOptions, error)

	// Aggregates for the analytics summary.
	CountByStatus(ctx context.Context, limit int) ([]model.StatusCount, error)
	CountByClass(ctx context.Context) ([]model.ClassCount, error)
	TopIndustries(ctx context.Context, limit int) ([]model.IndustryCount, error)
	CapitalStats(ctx context.Context) (*model.CapitalStats, error)
	RegistrationTrend(ctx context.Context, years int) ([]model.YearCount, error)
	CountByListing(ctx context.Context) ([]model.StatusCount, error)

	// ImportCompanies bulk-loads registry records, refreshing rows that
	// already exist (matched on cin).
	ImportCompanies(ctx context.Context, companies []model.Company) (int64, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open constructs the configured store backend.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL, &PoolConfig{MaxConns: cfg.MaxConns, MinConns: cfg.MinConns})
	case "sqlite":
		return NewSQLite(cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
