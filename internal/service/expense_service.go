package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/expense-server/internal/metrics"
	"github.com/carson-networks/expense-server/internal/operator/actions"
	"github.com/carson-networks/expense-server/internal/storage/expense"
)

var (
	ErrInvalidAmount   = errors.New("amount must be greater than 0")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidDate     = errors.New("expense date is required")
	ErrNotFound        = errors.New("expense not found")
)

// ActionProcessor runs a write action in its own transaction.
type ActionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// ExpenseService is the expense store: it validates input, suppresses repeated
// submissions and reads back stored expenses.
type ExpenseService struct {
	reader    expense.IExpenseReader
	processor ActionProcessor
	clock     Clock
	window    time.Duration
	metrics   *metrics.Metrics
}

// NewExpenseService creates a new ExpenseService. window is how far back Record
// looks for an identical expense; m may be nil.
func NewExpenseService(reader expense.IExpenseReader, processor ActionProcessor, clock Clock, window time.Duration, m *metrics.Metrics) *ExpenseService {
	return &ExpenseService{
		reader:    reader,
		processor: processor,
		clock:     clock,
		window:    window,
		metrics:   m,
	}
}

// CheckAmount rejects amounts that are not positive, and amounts whose stored
// float64 form would be infinite or round to zero.
func CheckAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if f := amount.InexactFloat64(); math.IsInf(f, 0) || f <= 0 {
		return fmt.Errorf("%w: out of range", ErrInvalidAmount)
	}
	return nil
}

// Record stores a new expense, or returns the most recent identical expense created
// within the dedup window. Identical means equal amount, category and date, and equal
// description with empty and missing treated alike.
func (s *ExpenseService) Record(ctx context.Context, in NewExpense) (*Outcome, error) {
	if err := CheckAmount(in.Amount); err != nil {
		return nil, err
	}
	if !in.Category.IsValid() {
		return nil, fmt.Errorf("%w %q", ErrInvalidCategory, in.Category)
	}
	if in.ExpenseDate.IsZero() {
		return nil, ErrInvalidDate
	}

	y, m, d := in.ExpenseDate.Date()
	action := &actions.RecordExpense{
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		ExpenseDate: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Clock:       s.clock,
		Window:      s.window,
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, fmt.Errorf("record expense: %w", err)
	}
	if action.Expense == nil {
		return nil, errors.New("record expense: no expense returned")
	}

	status := StatusCreated
	if action.Duplicate {
		status = StatusDuplicate
	}
	s.metrics.ObserveRecord(string(status), in.Category.String())

	return &Outcome{
		Status:  status,
		Expense: fromStorage(action.Expense),
	}, nil
}

// List returns the matching expenses ordered by expense date, then creation time,
// then id; every key descends when filter.NewestFirst is set. A nil filter matches all.
func (s *ExpenseService) List(ctx context.Context, filter *ListFilter) ([]Expense, error) {
	rows, err := s.reader.List(ctx, toStorageFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	expenses := make([]Expense, len(rows))
	for i, row := range rows {
		expenses[i] = fromStorage(row)
	}
	return expenses, nil
}

// Total sums the amounts of the matching expenses, zero when none match.
func (s *ExpenseService) Total(ctx context.Context, filter *ListFilter) (decimal.Decimal, error) {
	total, err := s.reader.Total(ctx, toStorageFilter(filter))
	if err != nil {
		return decimal.Zero, fmt.Errorf("total expenses: %w", err)
	}
	return total, nil
}

// Delete removes the expense with the given id and reports whether it existed.
func (s *ExpenseService) Delete(ctx context.Context, id int64) (bool, error) {
	action := &actions.DeleteExpense{ID: id}
	if err := s.processor.Process(ctx, action); err != nil {
		return false, fmt.Errorf("delete expense %d: %w", id, err)
	}
	if action.Deleted {
		s.metrics.ObserveDelete()
	}
	return action.Deleted, nil
}

// Get returns a single expense, or ErrNotFound.
func (s *ExpenseService) Get(ctx context.Context, id int64) (*Expense, error) {
	row, err := s.reader.FindByID(ctx, id)
	if errors.Is(err, expense.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get expense %d: %w", id, err)
	}
	e := fromStorage(row)
	return &e, nil
}

func fromStorage(row *expense.Expense) Expense {
	return Expense{
		ID:          row.ID,
		Amount:      row.Amount,
		Category:    row.Category,
		Description: row.Description,
		ExpenseDate: row.ExpenseDate,
		CreatedAt:   row.CreatedAt,
	}
}

func toStorageFilter(filter *ListFilter) *expense.ExpenseFilter {
	if filter == nil {
		return nil
	}
	out := &expense.ExpenseFilter{NewestFirst: filter.NewestFirst}
	if filter.Category != nil {
		c := *filter.Category
		out.Category = &c
	}
	return out
}
