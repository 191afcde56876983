package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Summary aggregates all expenses by category (largest total first) and by month
// (oldest first), with each month compared against the one before it.
func (s *ExpenseService) Summary(ctx context.Context) (*Summary, error) {
	categoryRows, err := s.reader.CategoryTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	monthRows, err := s.reader.MonthlyTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("monthly totals: %w", err)
	}

	summary := &Summary{
		Total:      decimal.Zero,
		Average:    decimal.Zero,
		Categories: make([]CategorySummary, len(categoryRows)),
		Months:     make([]MonthSummary, len(monthRows)),
	}
	for _, row := range categoryRows {
		summary.Total = summary.Total.Add(row.Total)
		summary.Count += row.Count
	}
	if summary.Count > 0 {
		summary.Average = summary.Total.Div(decimal.NewFromInt(summary.Count)).Round(2)
	}

	for i, row := range categoryRows {
		percent := decimal.Zero
		if summary.Total.IsPositive() {
			percent = row.Total.Mul(hundred).Div(summary.Total).Round(2)
		}
		summary.Categories[i] = CategorySummary{
			Category: row.Category,
			Total:    row.Total,
			Count:    row.Count,
			Percent:  percent,
		}
	}

	for i, row := range monthRows {
		month := MonthSummary{
			Month: row.Month,
			Total: row.Total,
			Count: row.Count,
		}
		if i > 0 {
			prev := monthRows[i-1].Total
			change := row.Total.Sub(prev)
			month.Change = &change
			if !prev.IsZero() {
				pct := change.Mul(hundred).Div(prev).Round(1)
				month.ChangePercent = &pct
			}
		}
		summary.Months[i] = month
	}

	return summary, nil
}
