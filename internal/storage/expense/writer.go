package expense

import (
	"context"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/sqlite"
	"github.com/stephenafamo/bob/dialect/sqlite/dm"
	"github.com/stephenafamo/bob/dialect/sqlite/im"
	"github.com/stephenafamo/bob/dialect/sqlite/sm"
	"github.com/stephenafamo/scan"
)

type Writer struct {
	tx bob.Tx
	Reader
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx: tx,
		Reader: Reader{
			exec: tx,
		},
	}
}

// FindDuplicate returns the most recent expense created at or after match.CreatedSince
// whose amount, category, date and description equal the match, or nil when none does.
// An empty description only matches rows without one.
func (w *Writer) FindDuplicate(ctx context.Context, match *DuplicateMatch) (*Expense, error) {
	descriptionCond := sqlite.Quote("description").IsNull()
	if match.Description != "" {
		descriptionCond = sqlite.Quote("description").EQ(sqlite.Arg(match.Description))
	}

	q := sqlite.Select(
		sm.Columns(expenseColumns...),
		sm.From(tableName),
		sm.Where(sqlite.Quote("amount").EQ(sqlite.Arg(match.Amount.InexactFloat64()))),
		sm.Where(sqlite.Quote("category").EQ(sqlite.Arg(match.Category.String()))),
		sm.Where(sqlite.Quote("expense_date").EQ(sqlite.Arg(match.ExpenseDate.Format(DateLayout)))),
		sm.Where(descriptionCond),
		sm.Where(sqlite.Quote("created_at").GTE(sqlite.Arg(match.CreatedSince.UnixNano()))),
		sm.OrderBy("created_at").Desc(),
		sm.OrderBy("id").Desc(),
		sm.Limit(1),
	)
	rows, err := bob.All(ctx, w.tx, q, scan.StructMapper[expenseRow]())
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rowToExpense(rows[0])
}

// Insert stores a new expense and returns it with its assigned id.
func (w *Writer) Insert(ctx context.Context, create *ExpenseCreate) (*Expense, error) {
	q := sqlite.Insert(
		im.Into(tableName, "amount", "category", "description", "expense_date", "created_at"),
		im.Values(
			sqlite.Arg(create.Amount.InexactFloat64()),
			sqlite.Arg(create.Category.String()),
			sqlite.Arg(nullableDescription(create.Description)),
			sqlite.Arg(create.ExpenseDate.Format(DateLayout)),
			sqlite.Arg(create.CreatedAt.UnixNano()),
		),
		im.Returning(expenseColumns...),
	)
	row, err := bob.One(ctx, w.tx, q, scan.StructMapper[expenseRow]())
	if err != nil {
		return nil, err
	}
	return rowToExpense(row)
}

// Delete removes the expense with the given id and reports whether one existed.
func (w *Writer) Delete(ctx context.Context, id int64) (bool, error) {
	q := sqlite.Delete(
		dm.From(tableName),
		dm.Where(sqlite.Quote("id").EQ(sqlite.Arg(id))),
		dm.Returning("id"),
	)
	ids, err := bob.All(ctx, w.tx, q, scan.SingleColumnMapper[int64])
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}
