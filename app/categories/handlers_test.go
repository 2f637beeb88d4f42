package categories

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joefazee/catalog/app/api"
	"github.com/joefazee/catalog/models"
)

func newTestRouter(t *testing.T, rows ...models.Category) (*gin.Engine, *testStack) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	stack := newTestStack(t, rows...)
	r := gin.New()
	group := r.Group("/api/v1")
	stack.module.Init(group)
	stack.module.InitWithAuth(group)
	return r, stack
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    *api.ListMeta   `json:"meta"`
	Error   *api.ErrorInfo  `json:"error"`
}

func perform(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestHandlerGetCategoryTree(t *testing.T) {
	r, _ := newTestRouter(t, fashionRows()...)

	w, env := perform(t, r, http.MethodGet, "/api/v1/categories/tree", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 2, env.Meta.Count)

	var tree []CategoryResponse
	require.NoError(t, json.Unmarshal(env.Data, &tree))
	require.Len(t, tree, 2)
	assert.Equal(t, "Men", tree[0].Name)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "Tops", tree[0].Children[0].Name)
	require.NotNil(t, tree[1].Leaf)
	assert.True(t, *tree[1].Leaf)
}

func TestHandlerSearchTree(t *testing.T) {
	r, _ := newTestRouter(t, fashionRows()...)

	w, env := perform(t, r, http.MethodGet, "/api/v1/categories/tree/search?name=top", "")
	require.Equal(t, http.StatusOK, w.Code)

	var tree []CategoryResponse
	require.NoError(t, json.Unmarshal(env.Data, &tree))
	require.Len(t, tree, 1)
	assert.Equal(t, "Men", tree[0].Name)
	assert.Equal(t, "Tops", tree[0].Children[0].Name)
}

func TestHandlerGetCategoryByID(t *testing.T) {
	r, _ := newTestRouter(t, fashionRows()...)

	t.Run("found", func(t *testing.T) {
		w, env := perform(t, r, http.MethodGet, "/api/v1/categories/1", "")
		require.Equal(t, http.StatusOK, w.Code)
		var got CategoryResponse
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, int64(1), got.ID)
		assert.True(t, got.Root)
		assert.Len(t, got.Children, 1)
	})

	t.Run("not found", func(t *testing.T) {
		w, env := perform(t, r, http.MethodGet, "/api/v1/categories/999", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.False(t, env.Success)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
		assert.Equal(t, "Category 999 not found", env.Error.Message)
	})

	t.Run("bad id", func(t *testing.T) {
		for _, id := range []string{"abc", "0", "-3"} {
			w, env := perform(t, r, http.MethodGet, "/api/v1/categories/"+id, "")
			assert.Equal(t, http.StatusBadRequest, w.Code, id)
			assert.Equal(t, "BAD_REQUEST", env.Error.Code)
		}
	})
}

func TestHandlerChildrenAndSubtree(t *testing.T) {
	r, _ := newTestRouter(t, fashionRows()...)

	w, env := perform(t, r, http.MethodGet, "/api/v1/categories/1/children", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, env.Meta.Count)

	w, env = perform(t, r, http.MethodGet, "/api/v1/categories/1/subtree?name=nothing", "")
	require.Equal(t, http.StatusOK, w.Code)
	var sub CategoryResponse
	require.NoError(t, json.Unmarshal(env.Data, &sub))
	assert.Equal(t, "Men", sub.Name)
	assert.Empty(t, sub.Children)

	w, _ = perform(t, r, http.MethodGet, "/api/v1/categories/42/subtree", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlerSearchCategories(t *testing.T) {
	r, _ := newTestRouter(t, fashionRows()...)

	w, env := perform(t, r, http.MethodGet, "/api/v1/categories/search?name=MEN", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, env.Meta.Count, "Men and Women")

	w, env = perform(t, r, http.MethodGet, "/api/v1/categories/search", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestHandlerCreateCategory(t *testing.T) {
	r, stack := newTestRouter(t, fashionRows()...)

	t.Run("created", func(t *testing.T) {
		w, env := perform(t, r, http.MethodPost, "/api/v1/categories",
			`{"name":" <b>Shoes</b> ","parent_id":1,"display_order":2,"gender_filter":"m"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var got CategoryResponse
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "Shoes", got.Name)
		assert.Equal(t, "M", got.GenderFilter)
		require.NotNil(t, got.ParentID)
		assert.Equal(t, int64(1), *got.ParentID)

		_, env = perform(t, r, http.MethodGet, "/api/v1/categories/1/children", "")
		assert.Equal(t, 2, env.Meta.Count)
	})

	t.Run("malformed body", func(t *testing.T) {
		w, env := perform(t, r, http.MethodPost, "/api/v1/categories", `{"description":"no name"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "BAD_REQUEST", env.Error.Code)
	})

	t.Run("validation", func(t *testing.T) {
		body := `{"name":"` + strings.Repeat("x", models.MaxCategoryNameLength+1) + `"}`
		w, env := perform(t, r, http.MethodPost, "/api/v1/categories", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		details, ok := env.Error.Details.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "name", details["field"])
	})

	t.Run("missing parent", func(t *testing.T) {
		var before int64
		require.NoError(t, stack.db.Model(&models.Category{}).Count(&before).Error)

		w, env := perform(t, r, http.MethodPost, "/api/v1/categories", `{"name":"Orphan","parent_id":999}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)

		var after int64
		require.NoError(t, stack.db.Model(&models.Category{}).Count(&after).Error)
		assert.Equal(t, before, after)
	})
}

func TestHandlerUpdateCategory(t *testing.T) {
	r, _ := newTestRouter(t, fashionRows()...)

	w, env := perform(t, r, http.MethodPut, "/api/v1/categories/2", `{"name":"Shirts","description":"Cotton","parent_id":3}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got CategoryResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Shirts", got.Name)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, int64(1), *got.ParentID, "parent_id in an update body is ignored")

	_, env = perform(t, r, http.MethodGet, "/api/v1/categories/tree", "")
	var tree []CategoryResponse
	require.NoError(t, json.Unmarshal(env.Data, &tree))
	assert.Equal(t, "Shirts", tree[0].Children[0].Name)

	w, _ = perform(t, r, http.MethodPut, "/api/v1/categories/404", `{"name":"Ghost"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlerDeleteCategory(t *testing.T) {
	r, _ := newTestRouter(t, fashionRows()...)

	w, env := perform(t, r, http.MethodDelete, "/api/v1/categories/1", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	w, env = perform(t, r, http.MethodDelete, "/api/v1/categories/2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	w, _ = perform(t, r, http.MethodGet, "/api/v1/categories/2", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = perform(t, r, http.MethodDelete, "/api/v1/categories/2/permanent", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = perform(t, r, http.MethodDelete, "/api/v1/categories/1/permanent", "")
	assert.Equal(t, http.StatusOK, w.Code)

	_, env = perform(t, r, http.MethodGet, "/api/v1/categories/tree", "")
	assert.Equal(t, 1, env.Meta.Count)
}

func TestHandlerStatisticsMenuAndRefresh(t *testing.T) {
	r, _ := newTestRouter(t, fashionRows()...)

	w, env := perform(t, r, http.MethodGet, "/api/v1/categories/statistics", "")
	require.Equal(t, http.StatusOK, w.Code)
	var stats StatisticsResponse
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, StatisticsResponse{TotalCategories: 3, RootCategories: 2, SubCategories: 1, MaxDepth: 2}, stats)

	w, _ = perform(t, r, http.MethodGet, "/api/v1/categories/menu?tab=brand&gender=F", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = perform(t, r, http.MethodGet, "/api/v1/categories/menu?tab=nope", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	w, env = perform(t, r, http.MethodPost, "/api/v1/categories/cache/refresh", "")
	require.Equal(t, http.StatusOK, w.Code)
	var refresh RefreshResponse
	require.NoError(t, json.Unmarshal(env.Data, &refresh))
	assert.Equal(t, 3, refresh.CachedNodes)
	assert.Equal(t, 2, refresh.Roots)
}

func TestHandlerStoreFailureIsInternalError(t *testing.T) {
	r, stack := newTestRouter(t, fashionRows()...)
	sqlDB, err := stack.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w, env := perform(t, r, http.MethodGet, "/api/v1/categories/tree", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
	assert.Equal(t, "Failed to fetch category tree", env.Error.Message)
}
