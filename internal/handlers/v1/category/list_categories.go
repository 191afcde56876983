package category

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/expense-server/internal/category"
)

type ListCategoriesResponse struct {
	Categories []string `json:"categories" doc:"Every accepted category label"`
}

type ListCategoriesOutput struct {
	Body ListCategoriesResponse
}

// ListCategoriesHandler handles GET /v1/categories.
type ListCategoriesHandler struct{}

func NewListCategoriesHandler() *ListCategoriesHandler {
	return &ListCategoriesHandler{}
}

func (h *ListCategoriesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-categories",
		Method:      http.MethodGet,
		Path:        "/v1/categories",
		Summary:     "List categories",
		Description: "Returns the fixed set of expense categories.",
		Tags:        []string{"Categories"},
	}, h.handle)
}

func (h *ListCategoriesHandler) handle(_ context.Context, _ *struct{}) (*ListCategoriesOutput, error) {
	return &ListCategoriesOutput{Body: ListCategoriesResponse{Categories: category.Names()}}, nil
}
