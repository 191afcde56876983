package expense

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/sqlite"
	"github.com/stephenafamo/bob/dialect/sqlite/dialect"
	"github.com/stephenafamo/bob/dialect/sqlite/sm"
	"github.com/stephenafamo/scan"
)

var _ IExpenseReader = (*Reader)(nil)

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

// FindByID returns ErrNotFound when no row has the given id.
func (r *Reader) FindByID(ctx context.Context, id int64) (*Expense, error) {
	q := sqlite.Select(
		sm.Columns(expenseColumns...),
		sm.From(tableName),
		sm.Where(sqlite.Quote("id").EQ(sqlite.Arg(id))),
	)
	row, err := bob.One(ctx, r.exec, q, scan.StructMapper[expenseRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rowToExpense(row)
}

// List returns every expense matching the filter ordered by expense date, then
// creation time, then id. NewestFirst reverses all three keys. Nil filter returns all.
func (r *Reader) List(ctx context.Context, filter *ExpenseFilter) ([]*Expense, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(expenseColumns...),
		sm.From(tableName),
	}
	queryMods = append(queryMods, filterMods(filter)...)

	if filter != nil && filter.NewestFirst {
		queryMods = append(queryMods,
			sm.OrderBy("expense_date").Desc(),
			sm.OrderBy("created_at").Desc(),
			sm.OrderBy("id").Desc(),
		)
	} else {
		queryMods = append(queryMods,
			sm.OrderBy("expense_date").Asc(),
			sm.OrderBy("created_at").Asc(),
			sm.OrderBy("id").Asc(),
		)
	}

	rows, err := bob.All(ctx, r.exec, sqlite.Select(queryMods...), scan.StructMapper[expenseRow]())
	if err != nil {
		return nil, err
	}

	result := make([]*Expense, len(rows))
	for i, row := range rows {
		e, err := rowToExpense(row)
		if err != nil {
			return nil, err
		}
		result[i] = e
	}
	return result, nil
}

// Total sums amount over the filter. An empty match sums to zero.
func (r *Reader) Total(ctx context.Context, filter *ExpenseFilter) (decimal.Decimal, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns("COALESCE(SUM(amount), 0)"),
		sm.From(tableName),
	}
	queryMods = append(queryMods, filterMods(filter)...)

	total, err := bob.One(ctx, r.exec, sqlite.Select(queryMods...), scan.SingleColumnMapper[decimal.Decimal])
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// CategoryTotals returns one entry per category that has rows, largest total first.
func (r *Reader) CategoryTotals(ctx context.Context) ([]*CategoryTotal, error) {
	q := sqlite.Select(
		sm.Columns("category", "SUM(amount) AS total", "COUNT(*) AS count"),
		sm.From(tableName),
		sm.GroupBy("category"),
		sm.OrderBy("total").Desc(),
		sm.OrderBy("category").Asc(),
	)
	rows, err := bob.All(ctx, r.exec, q, scan.StructMapper[categoryTotalRow]())
	if err != nil {
		return nil, err
	}

	result := make([]*CategoryTotal, len(rows))
	for i, row := range rows {
		result[i] = &CategoryTotal{
			Category: categoryFromRow(row.Category),
			Total:    row.Total,
			Count:    row.Count,
		}
	}
	return result, nil
}

// MonthlyTotals returns one entry per YYYY-MM of expense_date, oldest month first.
func (r *Reader) MonthlyTotals(ctx context.Context) ([]*MonthTotal, error) {
	q := sqlite.Select(
		sm.Columns("substr(expense_date, 1, 7) AS month", "SUM(amount) AS total", "COUNT(*) AS count"),
		sm.From(tableName),
		sm.GroupBy("month"),
		sm.OrderBy("month").Asc(),
	)
	rows, err := bob.All(ctx, r.exec, q, scan.StructMapper[monthTotalRow]())
	if err != nil {
		return nil, err
	}

	result := make([]*MonthTotal, len(rows))
	for i, row := range rows {
		result[i] = &MonthTotal{
			Month: row.Month,
			Total: row.Total,
			Count: row.Count,
		}
	}
	return result, nil
}

func filterMods(filter *ExpenseFilter) []bob.Mod[*dialect.SelectQuery] {
	if filter == nil || filter.Category == nil {
		return nil
	}
	return []bob.Mod[*dialect.SelectQuery]{
		sm.Where(sqlite.Quote("category").EQ(sqlite.Arg(filter.Category.String()))),
	}
}
