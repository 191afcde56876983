package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/carson-networks/expense-server/internal/storage/expense"
)

var exportHeader = []string{"id", "date", "category", "amount", "description", "created_at"}

// Export writes the expenses matching filter to w as CSV, in List order, and
// returns the number of data rows written.
func (s *ExpenseService) Export(ctx context.Context, filter *ListFilter, w io.Writer) (int, error) {
	expenses, err := s.List(ctx, filter)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range expenses {
		record := []string{
			strconv.FormatInt(e.ID, 10),
			e.ExpenseDate.Format(expense.DateLayout),
			e.Category.String(),
			FormatAmount(e.Amount),
			e.Description,
			e.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return 0, fmt.Errorf("write csv row %d: %w", e.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flush csv: %w", err)
	}
	return len(expenses), nil
}
