package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/carson-networks/expense-server/internal/category"
	"github.com/carson-networks/expense-server/internal/config"
	"github.com/carson-networks/expense-server/internal/metrics"
	"github.com/carson-networks/expense-server/internal/operator"
	"github.com/carson-networks/expense-server/internal/storage"
)

// steppingClock is a Clock the test moves forward by hand.
type steppingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *steppingClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// ExpenseStoreSuite exercises the service against a real sqlite file and operator.
type ExpenseStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *storage.Storage
	op    *operator.OperatorDelegator
	clock *steppingClock
	svc   *ExpenseService
}

func (s *ExpenseStoreSuite) SetupTest() {
	env := &config.Config{
		SQLiteDBPath: filepath.Join(s.T().TempDir(), "expenses.db"),
		DedupWindow:  5 * time.Minute,
	}
	store, err := storage.NewStorage(env)
	require.NoError(s.T(), err)

	s.ctx = context.Background()
	s.store = store
	s.op = operator.NewOperatorDelegator(store, 1)
	s.op.Start()
	s.clock = &steppingClock{now: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)}
	s.svc = NewExpenseService(store.Read().Expenses, s.op, s.clock, env.DedupWindow, metrics.New())
}

func (s *ExpenseStoreSuite) TearDownTest() {
	s.op.Stop()
	s.store.Close()
}

func date(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d
}

func (s *ExpenseStoreSuite) record(amount string, c category.Category, day string, description string) *Outcome {
	outcome, err := s.svc.Record(s.ctx, NewExpense{
		Amount:      decimal.RequireFromString(amount),
		Category:    c,
		Description: description,
		ExpenseDate: date(day),
	})
	require.NoError(s.T(), err)
	return outcome
}

func (s *ExpenseStoreSuite) listAll() []Expense {
	expenses, err := s.svc.List(s.ctx, nil)
	require.NoError(s.T(), err)
	return expenses
}

func (s *ExpenseStoreSuite) TestRejectsNonPositiveAmount() {
	for _, amount := range []string{"0", "-0.01", "-100"} {
		_, err := s.svc.Record(s.ctx, NewExpense{
			Amount:      decimal.RequireFromString(amount),
			Category:    category.Food,
			ExpenseDate: date("2024-01-15"),
		})
		assert.ErrorIs(s.T(), err, ErrInvalidAmount, amount)
	}
	assert.Empty(s.T(), s.listAll())
}

func (s *ExpenseStoreSuite) TestRejectsAmountOutsideFloatRange() {
	for _, amount := range []string{"1e400", "1e-400"} {
		_, err := s.svc.Record(s.ctx, NewExpense{
			Amount:      decimal.RequireFromString(amount),
			Category:    category.Food,
			ExpenseDate: date("2024-01-15"),
		})
		assert.ErrorIs(s.T(), err, ErrInvalidAmount, amount)
	}
	assert.Empty(s.T(), s.listAll())

	// The write path is still usable afterwards.
	out := s.record("12.50", category.Food, "2024-01-15", "")
	assert.Equal(s.T(), StatusCreated, out.Status)
	assert.Len(s.T(), s.listAll(), 1)
}

func (s *ExpenseStoreSuite) TestRejectsUnknownCategory() {
	_, err := s.svc.Record(s.ctx, NewExpense{
		Amount:      decimal.NewFromInt(10),
		Category:    "GIFTS",
		ExpenseDate: date("2024-01-15"),
	})
	assert.ErrorIs(s.T(), err, ErrInvalidCategory)

	for _, c := range category.All() {
		s.record("1", c, "2024-01-15", string(c))
	}
	for _, e := range s.listAll() {
		assert.True(s.T(), e.Category.IsValid())
		assert.True(s.T(), e.Amount.IsPositive())
	}
}

func (s *ExpenseStoreSuite) TestDuplicateWithinWindow() {
	first := s.record("100.00", category.Food, "2024-01-15", "lunch")
	s.clock.Advance(4 * time.Minute)
	second := s.record("100.00", category.Food, "2024-01-15", "lunch")

	assert.Equal(s.T(), StatusCreated, first.Status)
	assert.Equal(s.T(), StatusDuplicate, second.Status)
	assert.Equal(s.T(), first.Expense.ID, second.Expense.ID)
	assert.True(s.T(), first.Expense.Amount.Equal(second.Expense.Amount))
	assert.Equal(s.T(), first.Expense.Category, second.Expense.Category)
	assert.Equal(s.T(), first.Expense.Description, second.Expense.Description)
	assert.True(s.T(), first.Expense.ExpenseDate.Equal(second.Expense.ExpenseDate))
	assert.True(s.T(), first.Expense.CreatedAt.Equal(second.Expense.CreatedAt))
	assert.Len(s.T(), s.listAll(), 1)
}

func (s *ExpenseStoreSuite) TestWindowBoundaryIsInclusive() {
	first := s.record("100", category.Food, "2024-01-15", "lunch")
	s.clock.Advance(5 * time.Minute)
	second := s.record("100", category.Food, "2024-01-15", "lunch")

	assert.Equal(s.T(), StatusDuplicate, second.Status)
	assert.Equal(s.T(), first.Expense.ID, second.Expense.ID)
}

func (s *ExpenseStoreSuite) TestWindowExpiry() {
	first := s.record("100.00", category.Food, "2024-01-15", "lunch")
	s.clock.Advance(5*time.Minute + time.Second)
	second := s.record("100.00", category.Food, "2024-01-15", "lunch")

	assert.Equal(s.T(), StatusCreated, second.Status)
	assert.NotEqual(s.T(), first.Expense.ID, second.Expense.ID)
	assert.Len(s.T(), s.listAll(), 2)
}

func (s *ExpenseStoreSuite) TestDuplicateReturnsMostRecentMatch() {
	s.record("100", category.Food, "2024-01-15", "lunch")
	s.clock.Advance(6 * time.Minute)
	newer := s.record("100", category.Food, "2024-01-15", "lunch")
	s.clock.Advance(time.Minute)
	dup := s.record("100", category.Food, "2024-01-15", "lunch")

	assert.Equal(s.T(), StatusDuplicate, dup.Status)
	assert.Equal(s.T(), newer.Expense.ID, dup.Expense.ID)
}

func (s *ExpenseStoreSuite) TestEmptyAndAbsentDescriptionAreEquivalent() {
	first := s.record("50", category.Food, "2024-01-15", "")
	second, err := s.svc.Record(s.ctx, NewExpense{
		Amount:      decimal.NewFromInt(50),
		Category:    category.Food,
		ExpenseDate: date("2024-01-15"),
	})
	require.NoError(s.T(), err)

	assert.Equal(s.T(), StatusDuplicate, second.Status)
	assert.Equal(s.T(), first.Expense.ID, second.Expense.ID)
	assert.Len(s.T(), s.listAll(), 1)
}

func (s *ExpenseStoreSuite) TestDifferingFieldsAreNotDuplicates() {
	s.record("50", category.Food, "2024-01-15", "")
	s.record("50", category.Food, "2024-01-15", "snack")
	s.record("50", category.Groceries, "2024-01-15", "")
	s.record("50", category.Food, "2024-01-16", "")
	s.record("50.01", category.Food, "2024-01-15", "")

	assert.Len(s.T(), s.listAll(), 5)
}

func (s *ExpenseStoreSuite) TestSortDeterminism() {
	a := s.record("1", category.Food, "2024-01-01", "first")
	s.clock.Advance(time.Second)
	c := s.record("3", category.Food, "2024-01-03", "later date")
	s.clock.Advance(time.Second)
	b := s.record("2", category.Food, "2024-01-01", "second")

	asc := s.listAll()
	require.Len(s.T(), asc, 3)
	assert.Equal(s.T(), []int64{a.Expense.ID, b.Expense.ID, c.Expense.ID}, ids(asc))

	desc, err := s.svc.List(s.ctx, &ListFilter{NewestFirst: true})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), []int64{c.Expense.ID, b.Expense.ID, a.Expense.ID}, ids(desc))
}

func (s *ExpenseStoreSuite) TestDeletionFinality() {
	keep := s.record("10", category.Food, "2024-01-15", "")
	gone := s.record("20", category.Rent, "2024-01-15", "")

	deleted, err := s.svc.Delete(s.ctx, gone.Expense.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), deleted)

	deleted, err = s.svc.Delete(s.ctx, gone.Expense.ID)
	require.NoError(s.T(), err)
	assert.False(s.T(), deleted)

	assert.Equal(s.T(), []int64{keep.Expense.ID}, ids(s.listAll()))

	_, err = s.svc.Get(s.ctx, gone.Expense.ID)
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *ExpenseStoreSuite) TestAggregateCorrectness() {
	s.record("100", category.Food, "2024-01-15", "")
	s.record("50.25", category.Food, "2024-01-16", "")
	s.record("12.5", category.Transport, "2024-02-01", "")
	s.record("900", category.Rent, "2024-02-01", "")

	travel := category.Travel
	zero, err := s.svc.Total(s.ctx, &ListFilter{Category: &travel})
	require.NoError(s.T(), err)
	assert.True(s.T(), zero.Equal(decimal.Zero), zero.String())

	all, err := s.svc.Total(s.ctx, nil)
	require.NoError(s.T(), err)

	sum := decimal.Zero
	for _, c := range category.All() {
		c := c
		t, err := s.svc.Total(s.ctx, &ListFilter{Category: &c})
		require.NoError(s.T(), err)
		sum = sum.Add(t)
	}
	assert.True(s.T(), all.Equal(sum), "%s != %s", all, sum)
	assert.True(s.T(), all.Equal(decimal.RequireFromString("1062.75")), all.String())

	summary, err := s.svc.Summary(s.ctx)
	require.NoError(s.T(), err)
	assert.True(s.T(), summary.Total.Equal(all))
	assert.Equal(s.T(), int64(4), summary.Count)
	require.Len(s.T(), summary.Months, 2)
	assert.Equal(s.T(), "2024-01", summary.Months[0].Month)
	assert.Equal(s.T(), "2024-02", summary.Months[1].Month)
	assert.Equal(s.T(), category.Rent, summary.Categories[0].Category)
}

func (s *ExpenseStoreSuite) TestConcurrentIdenticalRecords() {
	const n = 10
	outcomes := make([]*Outcome, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			o, err := s.svc.Record(s.ctx, NewExpense{
				Amount:      decimal.NewFromInt(25),
				Category:    category.Entertainment,
				Description: "cinema",
				ExpenseDate: date("2024-01-15"),
			})
			assert.NoError(s.T(), err)
			outcomes[i] = o
		}(i)
	}
	wg.Wait()

	created := 0
	for _, o := range outcomes {
		require.NotNil(s.T(), o)
		if o.Status == StatusCreated {
			created++
		}
	}
	assert.Equal(s.T(), 1, created)
	assert.Len(s.T(), s.listAll(), 1)
}

func (s *ExpenseStoreSuite) TestExport() {
	a := s.record("100", category.Food, "2024-01-15", "lunch, with friends")
	s.clock.Advance(time.Second)
	s.record("12.5", category.Transport, "2024-01-16", "")

	food := category.Food
	var buf bytes.Buffer
	n, err := s.svc.Export(s.ctx, &ListFilter{Category: &food}, &buf)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, n)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(s.T(), err)
	require.Len(s.T(), records, 2)
	assert.Equal(s.T(), exportHeader, records[0])
	assert.Equal(s.T(), []string{
		"1", "2024-01-15", "FOOD", "100.00", "lunch, with friends",
		a.Expense.CreatedAt.Format(time.RFC3339),
	}, records[1])
}

func ids(expenses []Expense) []int64 {
	out := make([]int64, len(expenses))
	for i, e := range expenses {
		out[i] = e.ID
	}
	return out
}

func TestExpenseStoreSuite(t *testing.T) {
	suite.Run(t, new(ExpenseStoreSuite))
}
