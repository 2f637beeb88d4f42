package categories

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/joefazee/catalog/app/api"
	"github.com/joefazee/catalog/internal/logger"
	"github.com/joefazee/catalog/models"
)

// Handler handles HTTP requests for categories
type Handler struct {
	service Service
	log     logger.Logger
}

// NewHandler creates a new category handler
func NewHandler(service Service, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &Handler{
		service: service,
		log:     log,
	}
}

// GetCategoryTree handles GET /categories/tree
// @Summary      Category tree
// @Description  The whole forest of active categories, siblings ordered by display order then name
// @Tags         categories
// @Produce      json
// @Success      200 {object} api.Response{data=[]CategoryResponse}
// @Failure      500 {object} api.Response
// @Router       /api/v1/categories/tree [get]
func (h *Handler) GetCategoryTree(c *gin.Context) {
	tree, err := h.service.GetCategoryTree(c.Request.Context())
	if err != nil {
		h.handleError(c, err, "Failed to fetch category tree")
		return
	}
	api.ListResponse(c, "Category tree retrieved successfully", tree, len(tree))
}

// SearchTree handles GET /categories/tree/search
// @Summary      Filter the category tree
// @Description  Keeps categories whose name contains the needle, together with their ancestors
// @Tags         categories
// @Produce      json
// @Param        name query string false "Case-insensitive name fragment"
// @Success      200 {object} api.Response{data=[]CategoryResponse}
// @Failure      500 {object} api.Response
// @Router       /api/v1/categories/tree/search [get]
func (h *Handler) SearchTree(c *gin.Context) {
	tree, err := h.service.SearchTree(c.Request.Context(), c.Query("name"))
	if err != nil {
		h.handleError(c, err, "Failed to search category tree")
		return
	}
	api.ListResponse(c, "Category tree filtered successfully", tree, len(tree))
}

// SearchCategories handles GET /categories/search
// @Summary      Search categories by name
// @Description  Flat store-backed search over active categories
// @Tags         categories
// @Produce      json
// @Param        name query string true "Case-insensitive name fragment"
// @Success      200 {object} api.Response{data=[]CategoryResponse}
// @Failure      400 {object} api.Response
// @Failure      500 {object} api.Response
// @Router       /api/v1/categories/search [get]
func (h *Handler) SearchCategories(c *gin.Context) {
	found, err := h.service.SearchCategories(c.Request.Context(), c.Query("name"))
	if err != nil {
		h.handleError(c, err, "Failed to search categories")
		return
	}
	api.ListResponse(c, "Categories retrieved successfully", found, len(found))
}

// GetStatistics handles GET /categories/statistics
// @Summary      Catalog statistics
// @Tags         categories
// @Produce      json
// @Success      200 {object} api.Response{data=StatisticsResponse}
// @Failure      500 {object} api.Response
// @Router       /api/v1/categories/statistics [get]
func (h *Handler) GetStatistics(c *gin.Context) {
	stats, err := h.service.GetStatistics(c.Request.Context())
	if err != nil {
		h.handleError(c, err, "Failed to compute statistics")
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Statistics retrieved successfully", stats)
}

// GetMenu handles GET /categories/menu
// @Summary      Storefront navigation menu
// @Tags         categories
// @Produce      json
// @Param        tab    query string false "category, brand or service" default(category)
// @Param        gender query string false "A, M or F" default(A)
// @Success      200 {object} api.Response{data=MenuResponse}
// @Failure      400 {object} api.Response
// @Failure      500 {object} api.Response
// @Router       /api/v1/categories/menu [get]
func (h *Handler) GetMenu(c *gin.Context) {
	menu, err := h.service.GetMenu(c.Request.Context(), c.Query("tab"), c.Query("gender"))
	if err != nil {
		h.handleError(c, err, "Failed to build menu")
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Menu retrieved successfully", menu)
}

// GetCategoryByID handles GET /categories/:id
// @Summary      Get a category
// @Description  A category with its direct children
// @Tags         categories
// @Produce      json
// @Param        id path int true "Category ID"
// @Success      200 {object} api.Response{data=CategoryResponse}
// @Failure      400 {object} api.Response
// @Failure      404 {object} api.Response
// @Router       /api/v1/categories/{id} [get]
func (h *Handler) GetCategoryByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	category, err := h.service.GetCategoryByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err, "Failed to fetch category")
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Category retrieved successfully", category)
}

// GetChildren handles GET /categories/:id/children
// @Summary      Direct children of a category
// @Tags         categories
// @Produce      json
// @Param        id path int true "Category ID"
// @Success      200 {object} api.Response{data=[]CategoryResponse}
// @Failure      404 {object} api.Response
// @Router       /api/v1/categories/{id}/children [get]
func (h *Handler) GetChildren(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	children, err := h.service.GetChildren(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err, "Failed to fetch children")
		return
	}
	api.ListResponse(c, "Children retrieved successfully", children, len(children))
}

// SearchSubtree handles GET /categories/:id/subtree
// @Summary      Filter below a category
// @Tags         categories
// @Produce      json
// @Param        id   path  int    true  "Category ID"
// @Param        name query string false "Case-insensitive name fragment"
// @Success      200 {object} api.Response{data=CategoryResponse}
// @Failure      404 {object} api.Response
// @Router       /api/v1/categories/{id}/subtree [get]
func (h *Handler) SearchSubtree(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	subtree, err := h.service.SearchSubtree(c.Request.Context(), id, c.Query("name"))
	if err != nil {
		h.handleError(c, err, "Failed to search subtree")
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Subtree retrieved successfully", subtree)
}

// CreateCategory handles POST /categories
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateCategoryRequest true "Category"
// @Success      201 {object} api.Response{data=CategoryResponse}
// @Failure      400 {object} api.Response
// @Failure      404 {object} api.Response "Parent not found"
// @Router       /api/v1/categories [post]
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	category, err := h.service.CreateCategory(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err, "Failed to create category")
		return
	}
	api.CreatedResponse(c, "Category created successfully", category)
}

// UpdateCategory handles PUT /categories/:id
// @Summary      Update a category
// @Description  Replaces name and description. The parent cannot be changed.
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                   true "Category ID"
// @Param        request body UpdateCategoryRequest true "Changes"
// @Success      200 {object} api.Response{data=CategoryResponse}
// @Failure      400 {object} api.Response
// @Failure      404 {object} api.Response
// @Router       /api/v1/categories/{id} [put]
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, err.Error())
		return
	}

	category, err := h.service.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err, "Failed to update category")
		return
	}
	api.UpdatedResponse(c, "Category updated successfully", category)
}

// DeleteCategory handles DELETE /categories/:id
// @Summary      Soft-delete a category
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Category ID"
// @Success      200 {object} api.Response
// @Failure      404 {object} api.Response
// @Failure      409 {object} api.Response "Category has children"
// @Router       /api/v1/categories/{id} [delete]
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteCategory(c.Request.Context(), id); err != nil {
		h.handleError(c, err, "Failed to delete category")
		return
	}
	api.DeletedResponse(c, "Category deleted successfully")
}

// PermanentDeleteCategory handles DELETE /categories/:id/permanent
// @Summary      Permanently delete a category
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Category ID"
// @Success      200 {object} api.Response
// @Failure      404 {object} api.Response
// @Failure      409 {object} api.Response "Category has children"
// @Router       /api/v1/categories/{id}/permanent [delete]
func (h *Handler) PermanentDeleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.PermanentDeleteCategory(c.Request.Context(), id); err != nil {
		h.handleError(c, err, "Failed to delete category")
		return
	}
	api.DeletedResponse(c, "Category permanently deleted")
}

// RefreshCache handles POST /categories/cache/refresh
// @Summary      Rebuild the category caches
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} api.Response{data=RefreshResponse}
// @Failure      500 {object} api.Response
// @Router       /api/v1/categories/cache/refresh [post]
func (h *Handler) RefreshCache(c *gin.Context) {
	res, err := h.service.RefreshCache(c.Request.Context())
	if err != nil {
		h.handleError(c, err, "Failed to refresh cache")
		return
	}
	api.SuccessResponse(c, http.StatusOK, "Category cache refreshed", res)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		api.BadRequestResponse(c, "Invalid category ID format")
		return 0, false
	}
	return id, true
}

func (h *Handler) handleError(c *gin.Context, err error, message string) {
	var (
		notFound    *models.CategoryNotFoundError
		hasChildren *models.HasChildrenError
		invalid     *models.ValidationError
	)

	switch {
	case errors.As(err, &invalid):
		api.ValidationErrorResponse(c, gin.H{"field": invalid.Field, "reason": invalid.Reason})
	case errors.As(err, &notFound):
		api.NotFoundResponse(c, "Category "+strconv.FormatInt(notFound.ID, 10))
	case errors.Is(err, models.ErrRecordNotFound):
		api.NotFoundResponse(c, "Category")
	case errors.As(err, &hasChildren):
		api.ConflictResponse(c, hasChildren.Error())
	default:
		_ = c.Error(err)
		h.log.Error(err, logger.Fields{"route": c.FullPath()})
		api.InternalErrorResponse(c, message)
	}
}
