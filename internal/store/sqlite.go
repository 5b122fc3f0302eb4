package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/Karthik-beta/data-app/internal/model"
	"github.com/Karthik-beta/data-app/internal/query"
)

// SQLiteStore implements Store using modernc.org/sqlite, for local runs
// without a Postgres instance. Dates are stored as 'YYYY-MM-DD' text.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS companies (
	id                                INTEGER PRIMARY KEY AUTOINCREMENT,
	cin                               TEXT NOT NULL UNIQUE,
	company_name                      TEXT NOT NULL,
	company_roc_code                  TEXT NOT NULL DEFAULT '',
	company_category                  TEXT NOT NULL DEFAULT '',
	company_sub_category              TEXT NOT NULL DEFAULT '',
	company_class                     TEXT NOT NULL DEFAULT '',
	authorized_capital                REAL,
	paidup_capital                    REAL,
	company_registration_date         TEXT,
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
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const sqliteDateLayout = "2006-01-02"

func (s *SQLiteStore) Records(ctx context.Context, f model.FilterSelection, cursor int64, limit int) ([]model.Company, error) {
	compiled := query.Records(f, cursor, limit, query.SQLite)

	rows, err := s.db.QueryContext(ctx, compiled.SQL, compiled.Args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query records")
	}
	defer rows.Close()

	var companies []model.Company
	for rows.Next() {
		var c model.Company
		var authorized, paidup sql.NullFloat64
		var regDate sql.NullString
		if err := rows.Scan(
			&c.ID, &c.CIN, &c.Name, &c.ROCCode, &c.Category, &c.SubCategory,
			&c.Class, &authorized, &paidup, &regDate,
			&c.Address, &c.ListingStatus, &c.Status, &c.StateCode,
			&c.IndianForeign, &c.NICCode, &c.Industry,
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan record")
		}
		if authorized.Valid {
			c.AuthorizedCapital = &authorized.Float64
		}
		if paidup.Valid {
			c.PaidupCapital = &paidup.Float64
		}
		if regDate.Valid && regDate.String != "" {
			parsed, err := time.Parse(sqliteDateLayout, regDate.String)
			if err != nil {
				return nil, eris.Wrapf(err, "sqlite: parse registration date %q", regDate.String)
			}
			c.RegistrationDate = &parsed
		}
		companies = append(companies, c)
	}
	return companies, eris.Wrap(rows.Err(), "sqlite: iterate records")
}

func (s *SQLiteStore) TotalCount(ctx context.Context) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM companies`).Scan(&total)
	return total, eris.Wrap(err, "sqlite: total count")
}

func (s *SQLiteStore) FilteredCount(ctx context.Context, f model.FilterSelection) (int, error) {
	compiled := query.FilteredCount(f, query.SQLite)
	var count int
	err := s.db.QueryRowContext(ctx, compiled.SQL, compiled.Args...).Scan(&count)
	return count, eris.Wrap(err, "sqlite: filtered count")
}

func (s *SQLiteStore) distinctValues(ctx context.Context, sqlText string) ([]model.Option, error) {
	rows, err := s.db.QueryContext(ctx, sqlText)
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

func (s *SQLiteStore) FilterOptions(ctx context.Context) (*model.FilterOptions, error) {
	var opts model.FilterOptions
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		opts.Statuses, err = s.distinctValues(gctx,
			`SELECT DISTINCT company_status FROM companies WHERE company_status IS NOT NULL ORDER BY company_status`)
		return eris.Wrap(err, "sqlite: distinct statuses")
	})
	g.Go(func() error {
		var err error
		opts.Classes, err = s.distinctValues(gctx,
			`SELECT DISTINCT company_class FROM companies WHERE company_class IS NOT NULL ORDER BY company_class`)
		return eris.Wrap(err, "sqlite: distinct classes")
	})
	g.Go(func() error {
		rows, err := s.db.QueryContext(gctx,
			`SELECT DISTINCT CAST(strftime('%Y', company_registration_date) AS INTEGER) AS year FROM companies WHERE company_registration_date IS NOT NULL ORDER BY year DESC`)
		if err != nil {
			return eris.Wrap(err, "sqlite: distinct years")
		}
		defer rows.Close()
		for rows.Next() {
			var year int
			if err := rows.Scan(&year); err != nil {
				return eris.Wrap(err, "sqlite: scan year")
			}
			opts.Years = append(opts.Years, model.YearOption(year))
		}
		return eris.Wrap(rows.Err(), "sqlite: iterate years")
	})
	g.Go(func() error {
		var err error
		opts.Industries, err = s.distinctValues(gctx,
			`SELECT DISTINCT company_industrial_classification FROM companies WHERE company_industrial_classification IS NOT NULL ORDER BY company_industrial_classification`)
		return eris.Wrap(err, "sqlite: distinct industries")
	})
	g.Go(func() error {
		values, err := s.distinctValues(gctx,
			`SELECT DISTINCT company_state_code FROM companies WHERE company_state_code IS NOT NULL ORDER BY company_state_code`)
		if err != nil {
			return eris.Wrap(err, "sqlite: distinct state codes")
		}
		opts.StateCodes = labelStateCodes(values)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &opts, nil
}

func (s *SQLiteStore) groupedCounts(ctx context.Context, sqlText string, args ...any) ([]model.StatusCount, error) {
	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []model.StatusCount
	for rows.Next() {
		var sc model.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, sc)
	}
	return counts, rows.Err()
}

func (s *SQLiteStore) CountByStatus(ctx context.Context, limit int) ([]model.StatusCount, error) {
	counts, err := s.groupedCounts(ctx,
		`SELECT company_status, COUNT(*) FROM companies GROUP BY company_status ORDER BY COUNT(*) DESC LIMIT ?`, limit)
	return counts, eris.Wrap(err, "sqlite: count by status")
}

func (s *SQLiteStore) CountByClass(ctx context.Context) ([]model.ClassCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT company_class, COUNT(*) FROM companies GROUP BY company_class ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: count by class")
	}
	defer rows.Close()

	var counts []model.ClassCount
	for rows.Next() {
		var cc model.ClassCount
		if err := rows.Scan(&cc.Class, &cc.Count); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan class count")
		}
		counts = append(counts, cc)
	}
	return counts, eris.Wrap(rows.Err(), "sqlite: iterate class counts")
}

func (s *SQLiteStore) TopIndustries(ctx context.Context, limit int) ([]model.IndustryCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT company_industrial_classification, COUNT(*) FROM companies GROUP BY company_industrial_classification ORDER BY COUNT(*) DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: top industries")
	}
	defer rows.Close()

	var counts []model.IndustryCount
	for rows.Next() {
		var ic model.IndustryCount
		if err := rows.Scan(&ic.Industry, &ic.Count); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan industry count")
		}
		counts = append(counts, ic)
	}
	return counts, eris.Wrap(rows.Err(), "sqlite: iterate industry counts")
}

func (s *SQLiteStore) CapitalStats(ctx context.Context) (*model.CapitalStats, error) {
	var avgAuth, maxAuth, sumAuth, avgPaid, maxPaid, sumPaid sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT
			ROUND(AVG(authorized_capital), 2),
			ROUND(MAX(authorized_capital), 2),
			ROUND(SUM(authorized_capital), 2),
			ROUND(AVG(paidup_capital), 2),
			ROUND(MAX(paidup_capital), 2),
			ROUND(SUM(paidup_capital), 2)
		FROM companies`,
	).Scan(&avgAuth, &maxAuth, &sumAuth, &avgPaid, &maxPaid, &sumPaid)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: capital stats")
	}

	if !avgAuth.Valid && !avgPaid.Valid {
		return nil, nil
	}
	return &model.CapitalStats{
		AvgAuthorized:   avgAuth.Float64,
		MaxAuthorized:   maxAuth.Float64,
		TotalAuthorized: sumAuth.Float64,
		AvgPaidup:       avgPaid.Float64,
		MaxPaidup:       maxPaid.Float64,
		TotalPaidup:     sumPaid.Float64,
	}, nil
}

func (s *SQLiteStore) RegistrationTrend(ctx context.Context, years int) ([]model.YearCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT CAST(strftime('%Y', company_registration_date) AS INTEGER) AS year, COUNT(*)
		FROM companies
		WHERE company_registration_date IS NOT NULL
		  AND company_registration_date >= date('now', ?)
		GROUP BY year
		ORDER BY year`, fmt.Sprintf("-%d years", years))
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: registration trend")
	}
	defer rows.Close()

	var counts []model.YearCount
	for rows.Next() {
		var yc model.YearCount
		if err := rows.Scan(&yc.Year, &yc.Count); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan year count")
		}
		counts = append(counts, yc)
	}
	return counts, eris.Wrap(rows.Err(), "sqlite: iterate year counts")
}

func (s *SQLiteStore) CountByListing(ctx context.Context) ([]model.StatusCount, error) {
	counts, err := s.groupedCounts(ctx,
		`SELECT listing_status, COUNT(*) FROM companies GROUP BY listing_status`)
	return counts, eris.Wrap(err, "sqlite: count by listing")
}

func (s *SQLiteStore) ImportCompanies(ctx context.Context, companies []model.Company) (int64, error) {
	if len(companies) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin import tx")
	}
	defer tx.Rollback()

	cols := strings.Join(importColumns, ", ")
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(importColumns)), ", ")
	updates := make([]string, 0, len(importColumns)-1)
	for _, c := range importColumns {
		if c == "cin" {
			continue
		}
		updates = append(updates, fmt.Sprintf("%s = excluded.%s", c, c))
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO companies (%s) VALUES (%s) ON CONFLICT (cin) DO UPDATE SET %s",
		cols, placeholders, strings.Join(updates, ", "),
	))
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare import")
	}
	defer stmt.Close()

	var n int64
	for _, c := range companies {
		var regDate any
		if c.RegistrationDate != nil {
			regDate = c.RegistrationDate.Format(sqliteDateLayout)
		}
		var authorized, paidup any
		if c.AuthorizedCapital != nil {
			authorized = *c.AuthorizedCapital
		}
		if c.PaidupCapital != nil {
			paidup = *c.PaidupCapital
		}
		if _, err := stmt.ExecContext(ctx,
			c.CIN, c.Name, c.ROCCode, c.Category, c.SubCategory, c.Class,
			authorized, paidup, regDate, c.Address, c.ListingStatus, c.Status,
			c.StateCode, c.IndianForeign, c.NICCode, c.Industry,
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: import row %s", c.CIN)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit import tx")
	}
	return n, nil
}
