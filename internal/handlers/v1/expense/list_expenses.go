package expense

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/expense-server/internal/category"
	"github.com/carson-networks/expense-server/internal/logging"
	"github.com/carson-networks/expense-server/internal/service"
)

// SortDateDesc lists newest expenses first. Any other sort value lists oldest first.
const SortDateDesc = "date_desc"

// ListExpensesInput is the Huma input for listing expenses.
type ListExpensesInput struct {
	Category string `query:"category" doc:"Only return expenses in this category, case-insensitive"`
	Sort     string `query:"sort" doc:"date_desc for newest first, oldest first otherwise"`
}

// ListExpensesResponseBody is the response body for listing expenses.
type ListExpensesResponseBody struct {
	Expenses []Expense `json:"expenses" doc:"Matching expenses"`
	Total    string    `json:"total" doc:"Sum of the matching amounts"`
	Count    int       `json:"count" doc:"Number of matching expenses"`
}

// ListExpensesOutput is the Huma output for listing expenses.
type ListExpensesOutput struct {
	Body ListExpensesResponseBody
}

// expenseLister is the interface for listing and totalling expenses.
type expenseLister interface {
	List(ctx context.Context, filter *service.ListFilter) ([]service.Expense, error)
	Total(ctx context.Context, filter *service.ListFilter) (decimal.Decimal, error)
}

// ListExpensesHandler handles GET /v1/expenses.
type ListExpensesHandler struct {
	ExpenseService expenseLister
}

// NewListExpensesHandler creates a new ListExpensesHandler.
func NewListExpensesHandler(svc expenseLister) *ListExpensesHandler {
	return &ListExpensesHandler{ExpenseService: svc}
}

// Register registers the list expenses endpoint with the Huma API.
func (h *ListExpensesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-expenses",
		Method:      http.MethodGet,
		Path:        "/v1/expenses",
		Summary:     "List expenses",
		Description: "Returns expenses ordered by date with their total, optionally filtered by category.",
		Tags:        []string{"Expenses"},
	}, h.handle)
}

// parseListFilter builds the service filter from query parameters shared by list and export.
func parseListFilter(rawCategory, sort string) (*service.ListFilter, error) {
	filter := &service.ListFilter{NewestFirst: sort == SortDateDesc}
	if strings.TrimSpace(rawCategory) == "" {
		return filter, nil
	}

	cat, err := category.Parse(rawCategory)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest,
			fmt.Sprintf("Invalid category. Must be one of: %s", strings.Join(category.Names(), ", ")))
	}
	filter.Category = &cat
	return filter, nil
}

func (h *ListExpensesHandler) handle(ctx context.Context, input *ListExpensesInput) (*ListExpensesOutput, error) {
	logData := logging.GetLogData(ctx)
	filter, err := parseListFilter(input.Category, input.Sort)
	if err != nil {
		return nil, err
	}

	expenses, total, err := h.listWithTotal(ctx, logData, filter)
	if err != nil {
		if logData != nil {
			logData.AddData("error", err.Error())
		}
		return nil, huma.NewError(http.StatusInternalServerError, "failed to list expenses", err)
	}

	if logData != nil {
		logData.AddData("expenseCount", len(expenses))
	}

	resp := ListExpensesResponseBody{
		Expenses: make([]Expense, len(expenses)),
		Total:    service.FormatAmount(total),
		Count:    len(expenses),
	}
	for i, e := range expenses {
		resp.Expenses[i] = toAPI(e)
	}
	return &ListExpensesOutput{Body: resp}, nil
}

// listWithTotal reads the rows and their sum, adding both reads to listExpensesMs.
func (h *ListExpensesHandler) listWithTotal(ctx context.Context, logData *logging.LogData, filter *service.ListFilter) ([]service.Expense, decimal.Decimal, error) {
	stopTimer := func() {}
	if logData != nil {
		stopTimer = logData.AddToExistingTiming("listExpensesMs")
	}
	expenses, err := h.ExpenseService.List(ctx, filter)
	stopTimer()
	if err != nil {
		return nil, decimal.Zero, err
	}

	if logData != nil {
		stopTimer = logData.AddToExistingTiming("listExpensesMs")
	}
	total, err := h.ExpenseService.Total(ctx, filter)
	stopTimer()
	if err != nil {
		return nil, decimal.Zero, err
	}
	return expenses, total, nil
}
