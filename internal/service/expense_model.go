package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/expense-server/internal/category"
)

// Expense represents an expense in the service layer.
type Expense struct {
	ID          int64
	Amount      decimal.Decimal
	Category    category.Category
	Description string
	ExpenseDate time.Time
	CreatedAt   time.Time
}

// NewExpense is the client-supplied part of an expense.
type NewExpense struct {
	Amount      decimal.Decimal
	Category    category.Category
	Description string
	ExpenseDate time.Time
}

// Status tells whether Record stored a new row or matched an existing one.
type Status string

const (
	StatusCreated   Status = "created"
	StatusDuplicate Status = "duplicate"
)

// Outcome is the result of Record. On StatusDuplicate, Expense is the earlier row, unmodified.
type Outcome struct {
	Status  Status
	Expense Expense
}

// ListFilter narrows List, Total and Export. A nil Category matches every expense.
type ListFilter struct {
	Category    *category.Category
	NewestFirst bool
}

// Summary aggregates every stored expense.
type Summary struct {
	Total      decimal.Decimal
	Count      int64
	Average    decimal.Decimal
	Categories []CategorySummary
	Months     []MonthSummary
}

// CategorySummary is one category's share of the grand total. Percent has two decimal places.
type CategorySummary struct {
	Category category.Category
	Total    decimal.Decimal
	Count    int64
	Percent  decimal.Decimal
}

// MonthSummary is one calendar month's total. Change and ChangePercent compare it with the
// previous listed month; both are nil for the first month, and ChangePercent is also nil
// when the previous total is zero.
type MonthSummary struct {
	Month         string
	Total         decimal.Decimal
	Count         int64
	Change        *decimal.Decimal
	ChangePercent *decimal.Decimal
}
