package expense

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/expense-server/internal/logging"
	"github.com/carson-networks/expense-server/internal/service"
)

type CategoryBreakdown struct {
	Category string `json:"category"`
	Total    string `json:"total"`
	Count    int64  `json:"count"`
	Percent  string `json:"percent" doc:"Share of the grand total"`
}

type MonthlyTotal struct {
	Month         string  `json:"month" doc:"YYYY-MM"`
	Total         string  `json:"total"`
	Count         int64   `json:"count"`
	Change        *string `json:"change,omitempty" doc:"Difference from the previous month"`
	ChangePercent *string `json:"changePercent,omitempty" doc:"Percent change from the previous month, absent when it was zero"`
}

// ExpenseSummaryResponse is the response body for the expense summary.
type ExpenseSummaryResponse struct {
	Total      string              `json:"total"`
	Count      int64               `json:"count"`
	Average    string              `json:"average"`
	Categories []CategoryBreakdown `json:"categories" doc:"Per category totals, largest first"`
	Months     []MonthlyTotal      `json:"months" doc:"Monthly totals, oldest first"`
}

// ExpenseSummaryOutput is the Huma output for the expense summary.
type ExpenseSummaryOutput struct {
	Body ExpenseSummaryResponse
}

type expenseSummarizer interface {
	Summary(ctx context.Context) (*service.Summary, error)
}

// ExpenseSummaryHandler handles GET /v1/expenses/summary.
type ExpenseSummaryHandler struct {
	ExpenseService expenseSummarizer
}

func NewExpenseSummaryHandler(svc expenseSummarizer) *ExpenseSummaryHandler {
	return &ExpenseSummaryHandler{ExpenseService: svc}
}

func (h *ExpenseSummaryHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "expense-summary",
		Method:      http.MethodGet,
		Path:        "/v1/expenses/summary",
		Summary:     "Expense summary",
		Description: "Returns spending broken down by category and by month.",
		Tags:        []string{"Expenses"},
	}, h.handle)
}

func (h *ExpenseSummaryHandler) handle(ctx context.Context, _ *struct{}) (*ExpenseSummaryOutput, error) {
	logData := logging.GetLogData(ctx)

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("summaryMs")
	}
	summary, err := h.ExpenseService.Summary(ctx)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		if logData != nil {
			logData.AddData("error", err.Error())
		}
		return nil, huma.NewError(http.StatusInternalServerError, "failed to summarise expenses", err)
	}

	resp := ExpenseSummaryResponse{
		Total:      service.FormatAmount(summary.Total),
		Count:      summary.Count,
		Average:    service.FormatAmount(summary.Average),
		Categories: make([]CategoryBreakdown, len(summary.Categories)),
		Months:     make([]MonthlyTotal, len(summary.Months)),
	}
	for i, c := range summary.Categories {
		resp.Categories[i] = CategoryBreakdown{
			Category: c.Category.String(),
			Total:    service.FormatAmount(c.Total),
			Count:    c.Count,
			Percent:  c.Percent.StringFixed(2),
		}
	}
	for i, m := range summary.Months {
		month := MonthlyTotal{
			Month: m.Month,
			Total: service.FormatAmount(m.Total),
			Count: m.Count,
		}
		if m.Change != nil {
			change := service.FormatAmount(*m.Change)
			month.Change = &change
		}
		if m.ChangePercent != nil {
			pct := m.ChangePercent.StringFixed(1)
			month.ChangePercent = &pct
		}
		resp.Months[i] = month
	}

	return &ExpenseSummaryOutput{Body: resp}, nil
}
