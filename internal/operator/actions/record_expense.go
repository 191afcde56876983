package actions

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/expense-server/internal/category"
	"github.com/carson-networks/expense-server/internal/storage"
	"github.com/carson-networks/expense-server/internal/storage/expense"
)

// Clock supplies the creation time of recorded expenses.
type Clock interface {
	Now() time.Time
}

// RecordExpense inserts an expense unless an identical one was created within
// Window before the clock's current time, in which case the existing row is
// reported instead. Clock is read inside Perform.
type RecordExpense struct {
	Amount      decimal.Decimal
	Category    category.Category
	Description string
	ExpenseDate time.Time
	Clock       Clock
	Window      time.Duration

	// Set by Perform.
	Expense   *expense.Expense
	Duplicate bool

	IAction
}

func (r *RecordExpense) Perform(ctx context.Context, writer *storage.Writer) error {
	now := r.Clock.Now()
	existing, err := writer.Expense.FindDuplicate(ctx, &expense.DuplicateMatch{
		Amount:       r.Amount,
		Category:     r.Category,
		Description:  r.Description,
		ExpenseDate:  r.ExpenseDate,
		CreatedSince: now.Add(-r.Window),
	})
	if err != nil {
		return err
	}
	if existing != nil {
		r.Expense = existing
		r.Duplicate = true
		return nil
	}

	created, err := writer.Expense.Insert(ctx, &expense.ExpenseCreate{
		Amount:      r.Amount,
		Category:    r.Category,
		Description: r.Description,
		ExpenseDate: r.ExpenseDate,
		CreatedAt:   now,
	})
	if err != nil {
		return err
	}

	r.Expense = created
	r.Duplicate = false
	return nil
}
