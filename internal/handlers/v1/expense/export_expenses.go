package expense

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/expense-server/internal/logging"
	"github.com/carson-networks/expense-server/internal/service"
)

const exportFilename = "expenses.csv"

// ExportExpensesInput is the Huma input for exporting expenses.
type ExportExpensesInput struct {
	Category string `query:"category" doc:"Only export expenses in this category, case-insensitive"`
	Sort     string `query:"sort" doc:"date_desc for newest first, oldest first otherwise"`
}

// ExportExpensesOutput is the Huma output for exporting expenses as CSV.
type ExportExpensesOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

type expenseExporter interface {
	Export(ctx context.Context, filter *service.ListFilter, w io.Writer) (int, error)
}

// ExportExpensesHandler handles GET /v1/expenses/export.
type ExportExpensesHandler struct {
	ExpenseService expenseExporter
}

func NewExportExpensesHandler(svc expenseExporter) *ExportExpensesHandler {
	return &ExportExpensesHandler{ExpenseService: svc}
}

func (h *ExportExpensesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "export-expenses",
		Method:      http.MethodGet,
		Path:        "/v1/expenses/export",
		Summary:     "Export expenses",
		Description: "Downloads the matching expenses as CSV.",
		Tags:        []string{"Expenses"},
	}, h.handle)
}

func (h *ExportExpensesHandler) handle(ctx context.Context, input *ExportExpensesInput) (*ExportExpensesOutput, error) {
	logData := logging.GetLogData(ctx)
	filter, err := parseListFilter(input.Category, input.Sort)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	n, err := h.ExpenseService.Export(ctx, filter, &buf)
	if err != nil {
		if logData != nil {
			logData.AddData("error", err.Error())
		}
		return nil, huma.NewError(http.StatusInternalServerError, "failed to export expenses", err)
	}
	if logData != nil {
		logData.AddData("expenseCount", n)
	}

	return &ExportExpensesOutput{
		ContentType:        "text/csv; charset=utf-8",
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", exportFilename),
		Body:               buf.Bytes(),
	}, nil
}
