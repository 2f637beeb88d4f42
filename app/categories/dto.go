package categories

import (
	"time"

	"github.com/joefazee/catalog/models"
)

// CreateCategoryRequest represents the request to create a category
type CreateCategoryRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description,omitempty"`
	ParentID     *int64 `json:"parent_id,omitempty"`
	DisplayOrder int    `json:"display_order,omitempty"`
	Code         string `json:"code,omitempty" binding:"omitempty,max=50"`
	StoreCode    string `json:"store_code,omitempty" binding:"omitempty,max=50"`
	StoreTitle   string `json:"store_title,omitempty" binding:"omitempty,max=100"`
	GroupTitle   string `json:"group_title,omitempty" binding:"omitempty,max=100"`
	LinkURL      string `json:"link_url,omitempty" binding:"omitempty,max=255"`
	GenderFilter string `json:"gender_filter,omitempty"`
}

// UpdateCategoryRequest replaces name and description. The parent cannot be changed.
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CategoryResponse represents a category, optionally with its children.
// Leaf is set only when the children are known.
type CategoryResponse struct {
	ID           int64              `json:"id"`
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	ParentID     *int64             `json:"parent_id"`
	DisplayOrder int                `json:"display_order"`
	Code         string             `json:"code,omitempty"`
	StoreCode    string             `json:"store_code,omitempty"`
	StoreTitle   string             `json:"store_title,omitempty"`
	GroupTitle   string             `json:"group_title,omitempty"`
	GenderFilter string             `json:"gender_filter"`
	LinkURL      string             `json:"link_url,omitempty"`
	Root         bool               `json:"root"`
	Leaf         *bool              `json:"leaf,omitempty"`
	Children     []CategoryResponse `json:"children,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// StatisticsResponse summarizes the shape of the catalog.
type StatisticsResponse struct {
	TotalCategories int `json:"total_categories"`
	RootCategories  int `json:"root_categories"`
	SubCategories   int `json:"sub_categories"`
	MaxDepth        int `json:"max_depth"`
}

// RefreshResponse reports what a cache rebuild did.
type RefreshResponse struct {
	ClearedNodes int       `json:"cleared_nodes"`
	CachedNodes  int       `json:"cached_nodes"`
	Roots        int       `json:"roots"`
	Unreachable  []int64   `json:"unreachable,omitempty"`
	BuiltAt      time.Time `json:"built_at"`
}

// ToCategoryResponse converts a node without looking at its children.
func ToCategoryResponse(node CategoryNode) CategoryResponse {
	return CategoryResponse{
		ID:           node.ID,
		Name:         node.Name,
		Description:  node.Description,
		ParentID:     node.ParentID,
		DisplayOrder: node.DisplayOrder,
		Code:         node.Code,
		StoreCode:    node.StoreCode,
		StoreTitle:   node.StoreTitle,
		GroupTitle:   node.GroupTitle,
		GenderFilter: string(models.ParseGenderFilter(string(node.GenderFilter))),
		LinkURL:      node.LinkURL,
		Root:         node.IsRoot(),
		CreatedAt:    node.CreatedAt,
		UpdatedAt:    node.UpdatedAt,
	}
}

// ToTreeResponse converts a node and its whole subtree.
func ToTreeResponse(node CategoryNode) CategoryResponse {
	resp := ToCategoryResponse(node)
	leaf := node.IsLeaf()
	resp.Leaf = &leaf
	if !leaf {
		resp.Children = make([]CategoryResponse, len(node.Children))
		for i := range node.Children {
			resp.Children[i] = ToTreeResponse(node.Children[i])
		}
	}
	return resp
}

// ToTreeResponseList converts a forest. The result is never nil.
func ToTreeResponseList(roots []CategoryNode) []CategoryResponse {
	out := make([]CategoryResponse, len(roots))
	for i := range roots {
		out[i] = ToTreeResponse(roots[i])
	}
	return out
}

// ToCategoryResponseList converts a flat list of nodes.
func ToCategoryResponseList(nodes []CategoryNode) []CategoryResponse {
	out := make([]CategoryResponse, len(nodes))
	for i := range nodes {
		out[i] = ToCategoryResponse(nodes[i])
	}
	return out
}
