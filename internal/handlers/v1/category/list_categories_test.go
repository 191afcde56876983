package category

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/expense-server/internal/category"
)

func TestHTTP_ListCategories(t *testing.T) {
	_, api := humatest.New(t)
	NewListCategoriesHandler().Register(api)

	resp := api.Get("/v1/categories")

	require.Equal(t, http.StatusOK, resp.Code)
	var body ListCategoriesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, category.Names(), body.Categories)
	assert.Len(t, body.Categories, 11)
}
