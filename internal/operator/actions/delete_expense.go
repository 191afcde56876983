package actions

import (
	"context"

	"github.com/carson-networks/expense-server/internal/storage"
)

type DeleteExpense struct {
	ID int64

	// Set by Perform.
	Deleted bool

	IAction
}

func (d *DeleteExpense) Perform(ctx context.Context, writer *storage.Writer) error {
	deleted, err := writer.Expense.Delete(ctx, d.ID)
	if err != nil {
		return err
	}
	d.Deleted = deleted
	return nil
}
