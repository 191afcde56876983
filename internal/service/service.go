package service

import (
	"github.com/carson-networks/expense-server/internal/config"
	"github.com/carson-networks/expense-server/internal/metrics"
	"github.com/carson-networks/expense-server/internal/storage"
)

// Service holds all business logic services.
type Service struct {
	Expense *ExpenseService
}

// NewService creates a new Service over the given storage. Writes are sent to
// processor, which must run them one at a time.
func NewService(store *storage.Storage, processor ActionProcessor, env *config.Config, m *metrics.Metrics) *Service {
	return &Service{
		Expense: NewExpenseService(store.Read().Expenses, processor, SystemClock(), env.DedupWindow, m),
	}
}
