package store

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Karthik-beta/data-app/internal/db"
	"github.com/Karthik-beta/data-app/internal/model"
	"github.com/Karthik-beta/data-app/internal/query"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS companies (
	id                                BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
	cin                               TEXT NOT NULL UNIQUE,
	company_name                      TEXT NOT NULL,
	company_roc_code                  TEXT NOT NULL DEFAULT '',
	company_category                  TEXT NOT NULL DEFAULT '',
	company_sub_category              TEXT NOT NULL DEFAULT '',
	company_class                     TEXT NOT NULL DEFAULT '',
	authorized_capital                DOUBLE PRECISION,
	paidup_capital                    DOUBLE PRECISION,
	company_registration_date         DATE,
	registered_office_address         TEXT NOT NULL DEFAULT '',
	listing_status                    TEXT NOT NULL DEFAULT '',
	company_status                    TEXT NOT NULL DEFAULT '',
	company_state_code                TEXT NOT NULL DEFAULT '',
	company_indian_foreign            TEXT NOT NULL DEFAULT '',
	nic_code                          TEXT NOT NULL DEFAULT '',
	company_industrial_classification TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_companies_status ON companies(company_status);
CREATE INDEX IF NOT EXISTS idx_companies_class ON companies(company_class);
CREATE INDEX IF NOT EXISTS idx_companies_state ON companies(company_state_code);
CREATE INDEX IF NOT EXISTS idx_companies_industry ON companies(company_industrial_classification);
CREATE INDEX IF NOT EXISTS idx_companies_reg_date ON companies(company_registration_date);
CREATE INDEX IF NOT EXISTS idx_companies_name_lower ON companies(lower(company_name));
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) Records(ctx context.Context, f model.FilterSelection, cursor int64, limit int) ([]model.Company, error) {
	compiled := query.Records(f, cursor, limit, query.Postgres)

	rows, err := s.pool.Query(ctx, compiled.SQL, compiled.Args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query records")
	}
	defer rows.Close()

	var companies []model.Company
	for rows.Next() {
		var c model.Company
		if err := rows.Scan(
			&c.ID, &c.CIN, &c.Name, &c.ROCCode, &c.Category, &c.SubCategory,
			&c.Class, &c.AuthorizedCapital, &c.PaidupCapital, &c.RegistrationDate,
			&c.Address, &c.ListingStatus, &c.Status, &c.StateCode,
			&c.IndianForeign, &c.NICCode, &c.Industry,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan record")
		}
		companies = append(companies, c)
	}
	return companies, eris.Wrap(rows.Err(), "postgres: iterate records")
}

func (s *PostgresStore) TotalCount(ctx context.Context) (int, error) {
	var total int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM companies`).Scan(&total)
	return total, eris.Wrap(err, "postgres: total count")
}

func (s *PostgresStore) FilteredCount(ctx context.Context, f model.FilterSelection) (int, error) {
	compiled := query.FilteredCount(f, query.Postgres)
	var count int
	err := s.pool.QueryRow(ctx, compiled.SQL, compiled.Args...).Scan(&count)
	return count, eris.Wrap(err, "postgres: filtered count")
}

// distinctValues runs a DISTINCT projection and maps rows to options.
func (s *PostgresStore) distinctValues(ctx context.Context, sql string) ([]model.Option, error) {
	rows, err := s.pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var opts []model.Option
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		opts = append(opts, model.NewOption(v))
	}
	return opts, rows.Err()
}

func (s *PostgresStore) FilterOptions(ctx context.Context) (*model.FilterOptions, error) {
	var opts model.FilterOptions
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		opts.Statuses, err = s.distinctValues(gctx,
			`SELECT DISTINCT company_status FROM companies WHERE company_status IS NOT NULL ORDER BY company_status`)
		return eris.Wrap(err, "postgres: distinct statuses")
	})
	g.Go(func() error {
		var err error
		opts.Classes, err = s.distinctValues(gctx,
			`SELECT DISTINCT company_class FROM companies WHERE company_class IS NOT NULL ORDER BY company_class`)
		return eris.Wrap(err, "postgres: distinct classes")
	})
	g.Go(func() error {
		rows, err := s.pool.Query(gctx,
			`SELECT DISTINCT EXTRACT(YEAR FROM company_registration_date)::integer AS year FROM companies WHERE company_registration_date IS NOT NULL ORDER BY year DESC`)
		if err != nil {
			return eris.Wrap(err, "postgres: distinct years")
		}
		defer rows.Close()
		for rows.Next() {
			var year int
			if err := rows.Scan(&year); err != nil {
				return eris.Wrap(err, "postgres: scan year")
			}
			opts.Years = append(opts.Years, model.YearOption(year))
		}
		return eris.Wrap(rows.Err(), "postgres: iterate years")
	})
	g.Go(func() error {
		var err error
		opts.Industries, err = s.distinctValues(gctx,
			`SELECT DISTINCT company_industrial_classification FROM companies WHERE company_industrial_classification IS NOT NULL ORDER BY company_industrial_classification`)
		return eris.Wrap(err, "postgres: distinct industries")
	})
	g.Go(func() error {
		values, err := s.distinctValues(gctx,
			`SELECT DISTINCT company_state_code FROM companies WHERE company_state_code IS NOT NULL ORDER BY company_state_code`)
		if err != nil {
			return eris.Wrap(err, "postgres: distinct state codes")
		}
		opts.StateCodes = labelStateCodes(values)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &opts, nil
}

// labelStateCodes attaches a human-readable title-cased label to each state
// code option.
func labelStateCodes(values []model.Option) []model.Option {
	titler := cases.Title(language.English)
	for i := range values {
		values[i].Label = titler.String(strings.ToLower(values[i].Value))
	}
	return values
}

func (s *PostgresStore) CountByStatus(ctx context.Context, limit int) ([]model.StatusCount, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT company_status, COUNT(*) FROM companies GROUP BY company_status ORDER BY COUNT(*) DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: count by status")
	}
	defer rows.Close()

	var counts []model.StatusCount
	for rows.Next() {
		var sc model.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, eris.Wrap(err, "postgres: scan status count")
		}
		counts = append(counts, sc)
	}
	return counts, eris.Wrap(rows.Err(), "postgres: iterate status counts")
}

func (s *PostgresStore) CountByClass(ctx context.Context) ([]model.ClassCount, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT company_class, COUNT(*) FROM companies GROUP BY company_class ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: count by class")
	}
	defer rows.Close()

	var counts []model.ClassCount
	for rows.Next() {
		var cc model.ClassCount
		if err := rows.Scan(&cc.Class, &cc.Count); err != nil {
			return nil, eris.Wrap(err, "postgres: scan class count")
		}
		counts = append(counts, cc)
	}
	return counts, eris.Wrap(rows.Err(), "postgres: iterate class counts")
}

func (s *PostgresStore) TopIndustries(ctx context.Context, limit int) ([]model.IndustryCount, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT company_industrial_classification, COUNT(*) FROM companies GROUP BY company_industrial_classification ORDER BY COUNT(*) DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: top industries")
	}
	defer rows.Close()

	var counts []model.IndustryCount
	for rows.Next() {
		var ic model.IndustryCount
		if err := rows.Scan(&ic.Industry, &ic.Count); err != nil {
			return nil, eris.Wrap(err, "postgres: scan industry count")
		}
		counts = append(counts, ic)
	}
	return counts, eris.Wrap(rows.Err(), "postgres: iterate industry counts")
}

func (s *PostgresStore) CapitalStats(ctx context.Context) (*model.CapitalStats, error) {
	// Aggregate NULL semantics exclude null capitals per column; a NULL
	// average means no row carried that capital at all.
	var avgAuth, maxAuth, sumAuth, avgPaid, maxPaid, sumPaid *float64
	err := s.pool.QueryRow(ctx, `
		SELECT
			ROUND(AVG(authorized_capital)::numeric, 2),
			ROUND(MAX(authorized_capital)::numeric, 2),
			ROUND(SUM(authorized_capital)::numeric, 2),
			ROUND(AVG(paidup_capital)::numeric, 2),
			ROUND(MAX(paidup_capital)::numeric, 2),
			ROUND(SUM(paidup_capital)::numeric, 2)
		FROM companies`,
	).Scan(&avgAuth, &maxAuth, &sumAuth, &avgPaid, &maxPaid, &sumPaid)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: capital stats")
	}

	if avgAuth == nil && avgPaid == nil {
		return nil, nil
	}
	return &model.CapitalStats{
		AvgAuthorized:   deref(avgAuth),
		MaxAuthorized:   deref(maxAuth),
		TotalAuthorized: deref(sumAuth),
		AvgPaidup:       deref(avgPaid),
		MaxPaidup:       deref(maxPaid),
		TotalPaidup:     deref(sumPaid),
	}, nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func (s *PostgresStore) RegistrationTrend(ctx context.Context, years int) ([]model.YearCount, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT EXTRACT(YEAR FROM company_registration_date)::integer AS year, COUNT(*)
		FROM companies
		WHERE company_registration_date IS NOT NULL
		  AND company_registration_date >= CURRENT_DATE - make_interval(years => $1)
		GROUP BY year
		ORDER BY year`, years)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: registration trend")
	}
	defer rows.Close()

	var counts []model.YearCount
	for rows.Next() {
		var yc model.YearCount
		if err := rows.Scan(&yc.Year, &yc.Count); err != nil {
			return nil, eris.Wrap(err, "postgres: scan year count")
		}
		counts = append(counts, yc)
	}
	return counts, eris.Wrap(rows.Err(), "postgres: iterate year counts")
}

func (s *PostgresStore) CountByListing(ctx context.Context) ([]model.StatusCount, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT listing_status, COUNT(*) FROM companies GROUP BY listing_status`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: count by listing")
	}
	defer rows.Close()

	var counts []model.StatusCount
	for rows.Next() {
		var sc model.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, eris.Wrap(err, "postgres: scan listing count")
		}
		counts = append(counts, sc)
	}
	return counts, eris.Wrap(rows.Err(), "postgres: iterate listing counts")
}

// importColumns omits id so the identity default assigns cursor-stable ids
// in insert order for fresh rows.
var importColumns = []string{
	"cin", "company_name", "company_roc_code", "company_category",
	"company_sub_category", "company_class", "authorized_capital",
	"paidup_capital", "company_registration_date", "registered_office_address",
	"listing_status", "company_status", "company_state_code",
	"company_indian_foreign", "nic_code", "company_industrial_classification",
}

func (s *PostgresStore) ImportCompanies(ctx context.Context, companies []model.Company) (int64, error) {
	rows := make([][]any, len(companies))
	for i, c := range companies {
		rows[i] = []any{
			c.CIN, c.Name, c.ROCCode, c.Category, c.SubCategory, c.Class,
			c.AuthorizedCapital, c.PaidupCapital, c.RegistrationDate,
			c.Address, c.ListingStatus, c.Status, c.StateCode,
			c.IndianForeign, c.NICCode, c.Industry,
		}
	}

	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "companies",
		Columns:      importColumns,
		ConflictKeys: []string{"cin"},
	}, rows)
	return n, eris.Wrap(err, "postgres: import companies")
}
