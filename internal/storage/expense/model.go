package expense

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/expense-server/internal/category"
)

// DateLayout is the on-disk format of expense_date.
const DateLayout = time.DateOnly

const tableName = "expenses"

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("expense not found")

var expenseColumns = []any{"id", "amount", "category", "description", "expense_date", "created_at"}

// Expense represents an expense record.
type Expense struct {
	ID          int64
	Amount      decimal.Decimal
	Category    category.Category
	Description string
	ExpenseDate time.Time
	CreatedAt   time.Time
}

// ExpenseCreate is the input for inserting a new expense. CreatedAt is supplied by
// the caller's clock, never by the client.
type ExpenseCreate struct {
	Amount      decimal.Decimal
	Category    category.Category
	Description string
	ExpenseDate time.Time
	CreatedAt   time.Time
}

// ExpenseFilter specifies filters for listing and totalling expenses.
type ExpenseFilter struct {
	Category    *category.Category
	NewestFirst bool
}

// DuplicateMatch describes the row a resubmission would duplicate.
type DuplicateMatch struct {
	Amount       decimal.Decimal
	Category     category.Category
	Description  string
	ExpenseDate  time.Time
	CreatedSince time.Time
}

// CategoryTotal is the aggregate of one category.
type CategoryTotal struct {
	Category category.Category
	Total    decimal.Decimal
	Count    int64
}

// MonthTotal is the aggregate of one calendar month, Month formatted as YYYY-MM.
type MonthTotal struct {
	Month string
	Total decimal.Decimal
	Count int64
}

// IExpenseReader defines the read side of expense storage.
type IExpenseReader interface {
	FindByID(ctx context.Context, id int64) (*Expense, error)
	List(ctx context.Context, filter *ExpenseFilter) ([]*Expense, error)
	Total(ctx context.Context, filter *ExpenseFilter) (decimal.Decimal, error)
	CategoryTotals(ctx context.Context) ([]*CategoryTotal, error)
	MonthlyTotals(ctx context.Context) ([]*MonthTotal, error)
}

type expenseRow struct {
	ID          int64           `db:"id"`
	Amount      decimal.Decimal `db:"amount"`
	Category    string          `db:"category"`
	Description sql.NullString  `db:"description"`
	ExpenseDate string          `db:"expense_date"`
	CreatedAt   int64           `db:"created_at"`
}

type categoryTotalRow struct {
	Category string          `db:"category"`
	Total    decimal.Decimal `db:"total"`
	Count    int64           `db:"count"`
}

type monthTotalRow struct {
	Month string          `db:"month"`
	Total decimal.Decimal `db:"total"`
	Count int64           `db:"count"`
}

func rowToExpense(row expenseRow) (*Expense, error) {
	date, err := time.Parse(DateLayout, row.ExpenseDate)
	if err != nil {
		return nil, fmt.Errorf("expense %d: bad expense_date %q: %w", row.ID, row.ExpenseDate, err)
	}
	return &Expense{
		ID:          row.ID,
		Amount:      row.Amount,
		Category:    category.Category(row.Category),
		Description: row.Description.String,
		ExpenseDate: date,
		CreatedAt:   time.Unix(0, row.CreatedAt).UTC(),
	}, nil
}

func nullableDescription(description string) sql.NullString {
	return sql.NullString{String: description, Valid: description != ""}
}

func categoryFromRow(s string) category.Category {
	return category.Category(s)
}
