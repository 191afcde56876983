package expense

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/expense-server/internal/category"
	"github.com/carson-networks/expense-server/internal/logging"
	"github.com/carson-networks/expense-server/internal/service"
)

// CreateExpenseBody is the request body for recording an expense. Presence is checked by
// the handler so missing fields are reported as 400 like every other validation failure.
type CreateExpenseBody struct {
	Amount      any     `json:"amount,omitempty" required:"false" doc:"Required. Positive amount, as a JSON number or numeric string"`
	Category    string  `json:"category,omitempty" required:"false" doc:"Required. Category label, case-insensitive"`
	Date        string  `json:"date,omitempty" required:"false" doc:"Required. Expense date, YYYY-MM-DD"`
	Description *string `json:"description,omitempty" required:"false" nullable:"true" doc:"Optional free text"`
}

// CreateExpenseInput is the Huma input for recording an expense.
type CreateExpenseInput struct {
	Body CreateExpenseBody
}

// CreateExpenseResponse is the response body for recording an expense.
type CreateExpenseResponse struct {
	Status  string  `json:"status" enum:"created,duplicate" doc:"created for a new row, duplicate when a recent identical expense was returned"`
	Message string  `json:"message" doc:"Human readable outcome"`
	Expense Expense `json:"expense" doc:"The stored expense"`
}

// CreateExpenseOutput is the Huma output for recording an expense.
type CreateExpenseOutput struct {
	Status int
	Body   CreateExpenseResponse
}

// expenseRecorder is the interface for recording expenses.
type expenseRecorder interface {
	Record(ctx context.Context, in service.NewExpense) (*service.Outcome, error)
}

// CreateExpenseHandler handles POST /v1/expenses.
type CreateExpenseHandler struct {
	ExpenseService expenseRecorder
}

// NewCreateExpenseHandler creates a new CreateExpenseHandler.
func NewCreateExpenseHandler(svc expenseRecorder) *CreateExpenseHandler {
	return &CreateExpenseHandler{ExpenseService: svc}
}

// Register registers the create expense endpoint with the Huma API.
func (h *CreateExpenseHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-expense",
		Method:        http.MethodPost,
		Path:          "/v1/expenses",
		Summary:       "Record expense",
		Description:   "Records an expense. Resubmitting an identical expense within the dedup window returns the earlier one with status 200.",
		Tags:          []string{"Expenses"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

// parseAmount accepts a JSON number or a numeric string.
func parseAmount(raw any) (decimal.Decimal, error) {
	var amount decimal.Decimal
	var err error
	switch v := raw.(type) {
	case float64:
		amount = decimal.NewFromFloat(v)
	case json.Number:
		amount, err = decimal.NewFromString(v.String())
	case string:
		amount, err = decimal.NewFromString(strings.TrimSpace(v))
	case nil:
		return decimal.Zero, errors.New("amount is required")
	default:
		return decimal.Zero, errors.New("amount must be a valid number")
	}
	if err != nil {
		return decimal.Zero, errors.New("amount must be a valid number")
	}
	if err := service.CheckAmount(amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// parseCreateExpenseInput parses and validates the API input.
func parseCreateExpenseInput(input *CreateExpenseInput) (service.NewExpense, error) {
	amount, err := parseAmount(input.Body.Amount)
	if err != nil {
		return service.NewExpense{}, huma.NewError(http.StatusBadRequest, err.Error())
	}

	if strings.TrimSpace(input.Body.Category) == "" {
		return service.NewExpense{}, huma.NewError(http.StatusBadRequest, "category is required")
	}
	cat, err := category.Parse(input.Body.Category)
	if err != nil {
		return service.NewExpense{}, huma.NewError(http.StatusBadRequest,
			fmt.Sprintf("category must be one of: %s", strings.Join(category.Names(), ", ")))
	}

	if strings.TrimSpace(input.Body.Date) == "" {
		return service.NewExpense{}, huma.NewError(http.StatusBadRequest, "date is required")
	}
	expenseDate, err := time.Parse(time.DateOnly, strings.TrimSpace(input.Body.Date))
	if err != nil {
		return service.NewExpense{}, huma.NewError(http.StatusBadRequest, "date must be formatted YYYY-MM-DD", err)
	}

	var description string
	if input.Body.Description != nil {
		description = *input.Body.Description
	}

	return service.NewExpense{
		Amount:      amount,
		Category:    cat,
		Description: description,
		ExpenseDate: expenseDate,
	}, nil
}

func (h *CreateExpenseHandler) handle(ctx context.Context, input *CreateExpenseInput) (*CreateExpenseOutput, error) {
	logData := logging.GetLogData(ctx)
	in, err := parseCreateExpenseInput(input)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("recordExpenseMs")
	}
	outcome, err := h.ExpenseService.Record(ctx, in)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) || errors.Is(err, service.ErrInvalidCategory) || errors.Is(err, service.ErrInvalidDate) {
			return nil, huma.NewError(http.StatusBadRequest, err.Error())
		}
		if logData != nil {
			logData.AddData("error", err.Error())
		}
		return nil, huma.NewError(http.StatusInternalServerError, "failed to record expense", err)
	}

	if logData != nil {
		logData.AddData("expenseID", outcome.Expense.ID)
		logData.AddData("outcome", string(outcome.Status))
	}

	out := &CreateExpenseOutput{
		Status: http.StatusCreated,
		Body: CreateExpenseResponse{
			Status:  string(outcome.Status),
			Message: "Expense created successfully",
			Expense: toAPI(outcome.Expense),
		},
	}
	if outcome.Status == service.StatusDuplicate {
		out.Status = http.StatusOK
		out.Body.Message = "Duplicate expense detected, returning existing record"
	}
	return out, nil
}
