package expense

import (
	"time"

	"github.com/carson-networks/expense-server/internal/service"
)

// Expense is the API response model for an expense.
// It is used only for responses, not for request bodies.
type Expense struct {
	ID          int64  `json:"id" doc:"Expense id"`
	Amount      string `json:"amount" doc:"Decimal amount, two places"`
	Category    string `json:"category" doc:"Expense category"`
	Description string `json:"description" doc:"Free text, empty when none was given"`
	Date        string `json:"date" format:"date" doc:"Expense date, YYYY-MM-DD"`
	CreatedAt   string `json:"createdAt" format:"date-time" doc:"RFC3339 time the expense was stored"`
}

func toAPI(e service.Expense) Expense {
	return Expense{
		ID:          e.ID,
		Amount:      service.FormatAmount(e.Amount),
		Category:    e.Category.String(),
		Description: e.Description,
		Date:        e.ExpenseDate.Format(time.DateOnly),
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
}
