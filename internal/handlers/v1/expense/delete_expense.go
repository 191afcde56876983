package expense

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/expense-server/internal/logging"
)

// DeleteExpenseInput is the Huma input for deleting an expense.
type DeleteExpenseInput struct {
	ID int64 `path:"id" doc:"Expense id"`
}

// DeleteExpenseResponse is the response body for deleting an expense.
type DeleteExpenseResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// DeleteExpenseOutput is the Huma output for deleting an expense.
type DeleteExpenseOutput struct {
	Body DeleteExpenseResponse
}

// expenseDeleter is the interface for deleting expenses.
type expenseDeleter interface {
	Delete(ctx context.Context, id int64) (bool, error)
}

// DeleteExpenseHandler handles DELETE /v1/expenses/{id}.
type DeleteExpenseHandler struct {
	ExpenseService expenseDeleter
}

// NewDeleteExpenseHandler creates a new DeleteExpenseHandler.
func NewDeleteExpenseHandler(svc expenseDeleter) *DeleteExpenseHandler {
	return &DeleteExpenseHandler{ExpenseService: svc}
}

// Register registers the delete expense endpoint with the Huma API.
func (h *DeleteExpenseHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "delete-expense",
		Method:      http.MethodDelete,
		Path:        "/v1/expenses/{id}",
		Summary:     "Delete expense",
		Description: "Permanently removes an expense.",
		Tags:        []string{"Expenses"},
	}, h.handle)
}

func (h *DeleteExpenseHandler) handle(ctx context.Context, input *DeleteExpenseInput) (*DeleteExpenseOutput, error) {
	logData := logging.GetLogData(ctx)
	if logData != nil {
		logData.AddData("expenseID", input.ID)
	}

	deleted, err := h.ExpenseService.Delete(ctx, input.ID)
	if err != nil {
		if logData != nil {
			logData.AddData("error", err.Error())
		}
		return nil, huma.NewError(http.StatusInternalServerError, "failed to delete expense", err)
	}
	if !deleted {
		return nil, huma.Error404NotFound("Expense not found")
	}

	return &DeleteExpenseOutput{Body: DeleteExpenseResponse{
		Message: "Expense deleted successfully",
		ID:      input.ID,
	}}, nil
}
