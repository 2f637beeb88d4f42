package categories

import (
	"context"

	"github.com/joefazee/catalog/models"
)

// Repository defines the interface for category data access.
// Reads see active (not soft-deleted) rows only. Missing rows yield *models.CategoryNotFoundError,
// every other failure a *models.StoreError.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	GetAll(ctx context.Context) ([]models.Category, error)
	GetByParentID(ctx context.Context, parentID int64) ([]models.Category, error)
	SearchByName(ctx context.Context, needle string) ([]models.Category, error)
	CountChildren(ctx context.Context, id int64) (int64, error)
	Save(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id int64) error
	HardDelete(ctx context.Context, id int64) error
}

// Service defines the interface for category business logic
type Service interface {
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error)
	UpdateCategory(ctx context.Context, id int64, req UpdateCategoryRequest) (*CategoryResponse, error)
	DeleteCategory(ctx context.Context, id int64) error
	PermanentDeleteCategory(ctx context.Context, id int64) error

	GetCategoryTree(ctx context.Context) ([]CategoryResponse, error)
	SearchTree(ctx context.Context, needle string) ([]CategoryResponse, error)
	SearchSubtree(ctx context.Context, id int64, needle string) (*CategoryResponse, error)
	GetCategoryByID(ctx context.Context, id int64) (*CategoryResponse, error)
	GetChildren(ctx context.Context, id int64) ([]CategoryResponse, error)
	SearchCategories(ctx context.Context, name string) ([]CategoryResponse, error)
	GetStatistics(ctx context.Context) (*StatisticsResponse, error)
	GetMenu(ctx context.Context, tab, gender string) (*MenuResponse, error)
	RefreshCache(ctx context.Context) (*RefreshResponse, error)
}
