// Package query compiles filter selections into parameterized SQL.
//
// Every combination of filter dimensions compiles to a single predicate
// tree: conditions AND across dimensions, values OR within one, plus the
// keyset cursor bound. There are no per-dimension fast paths and no bounded
// fallback window, so results and filtered counts are complete for any
// combination.
package query

import (
	"fmt"
	"strings"

	"github.com/Karthik-beta/data-app/internal/model"
)

// Dialect selects placeholder and expression syntax per database engine.
type Dialect int

const (
	// Postgres uses $n placeholders, ILIKE, EXTRACT(YEAR FROM ...).
	Postgres Dialect = iota
	// SQLite uses ? placeholders, LIKE (case-insensitive for ASCII), and
	// strftime for year extraction.
	SQLite
)

// Columns is the record column list in wire order.
const Columns = "id, cin, company_name, company_roc_code, company_category, " +
	"company_sub_category, company_class, authorized_capital, paidup_capital, " +
	"company_registration_date, registered_office_address, listing_status, " +
	"company_status, company_state_code, company_indian_foreign, nic_code, " +
	"company_industrial_classification"

// Compiled is a ready-to-execute statement with bound arguments.
type Compiled struct {
	SQL  string
	Args []any
}

type builder struct {
	dialect Dialect
	conds   []string
	args    []any
}

func (b *builder) placeholder() string {
	if b.dialect == SQLite {
		return "?"
	}
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *builder) bind(v any) string {
	b.args = append(b.args, v)
	return b.placeholder()
}

// anyOf appends "col IN (...)" over the given values.
func (b *builder) anyOf(col string, values []string) {
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = b.bind(v)
	}
	b.conds = append(b.conds, fmt.Sprintf("%s IN (%s)", col, strings.Join(placeholders, ", ")))
}

func (b *builder) yearExpr() string {
	if b.dialect == SQLite {
		return "CAST(strftime('%Y', company_registration_date) AS INTEGER)"
	}
	return "EXTRACT(YEAR FROM company_registration_date)"
}

func (b *builder) likeOp() string {
	if b.dialect == SQLite {
		return "LIKE"
	}
	return "ILIKE"
}

// where builds the predicate tree for the active dimensions and, when
// cursor > 0, the exclusive keyset lower bound.
func (b *builder) where(f model.FilterSelection, cursor int64) string {
	if cursor > 0 {
		b.conds = append(b.conds, fmt.Sprintf("id > %s", b.bind(cursor)))
	}
	if len(f.Statuses) > 0 {
		b.anyOf("company_status", f.Statuses)
	}
	if len(f.Classes) > 0 {
		b.anyOf("company_class", f.Classes)
	}
	if len(f.Years) > 0 {
		placeholders := make([]string, len(f.Years))
		for i, y := range f.Years {
			placeholders[i] = b.bind(y)
		}
		b.conds = append(b.conds, fmt.Sprintf("%s IN (%s)", b.yearExpr(), strings.Join(placeholders, ", ")))
	}
	if len(f.Industries) > 0 {
		b.anyOf("company_industrial_classification", f.Industries)
	}
	if len(f.StateCodes) > 0 {
		b.anyOf("company_state_code", f.StateCodes)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		like := b.likeOp()
		nameArg := b.bind(pattern)
		cinArg := b.bind(pattern)
		b.conds = append(b.conds, fmt.Sprintf("(company_name %s %s OR cin %s %s)", like, nameArg, like, cinArg))
	}
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// Records compiles the paginated record listing: active predicates plus the
// cursor bound, ordered by id ascending, limited to limit rows.
func Records(f model.FilterSelection, cursor int64, limit int, d Dialect) Compiled {
	b := &builder{dialect: d}
	where := b.where(f, cursor)
	sql := fmt.Sprintf("SELECT %s FROM companies%s ORDER BY id LIMIT %s",
		Columns, where, b.bind(limit))
	return Compiled{SQL: sql, Args: b.args}
}

// FilteredCount compiles a COUNT(*) over the same predicate tree, without
// the cursor bound. With no active filters it degenerates to the full-table
// count.
func FilteredCount(f model.FilterSelection, d Dialect) Compiled {
	b := &builder{dialect: d}
	where := b.where(f, 0)
	return Compiled{
		SQL:  "SELECT COUNT(*) FROM companies" + where,
		Args: b.args,
	}
}
