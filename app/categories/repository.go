package categories

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/joefazee/catalog/models"
)

// repository implements the Repository interface using GORM
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new category repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{
		db: db,
	}
}

const siblingOrder = "display_order ASC, name ASC, id ASC"

// GetByID returns an active category by ID
func (r *repository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.CategoryNotFoundError{ID: id}
		}
		return nil, models.NewStoreError("get_by_id", err)
	}
	return &category, nil
}

// GetAll returns every active category
func (r *repository) GetAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Order(siblingOrder).
		Find(&categories).Error
	if err != nil {
		return nil, models.NewStoreError("get_all", err)
	}
	return categories, nil
}

// GetByParentID returns the active direct children of a category in sibling order
func (r *repository) GetByParentID(ctx context.Context, parentID int64) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order(siblingOrder).
		Find(&categories).Error
	if err != nil {
		return nil, models.NewStoreError("get_by_parent_id", err)
	}
	return categories, nil
}

// SearchByName returns active categories whose name contains needle, ignoring case
func (r *repository) SearchByName(ctx context.Context, needle string) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(needle))+"%").
		Order(siblingOrder).
		Find(&categories).Error
	if err != nil {
		return nil, models.NewStoreError("search_by_name", err)
	}
	return categories, nil
}

// CountChildren counts active direct children
func (r *repository) CountChildren(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("parent_id = ?", id).
		Count(&count).Error
	if err != nil {
		return 0, models.NewStoreError("count_children", err)
	}
	return count, nil
}

// Save inserts a new category and fills in its ID
func (r *repository) Save(ctx context.Context, category *models.Category) error {
	return models.NewStoreError("save", r.db.WithContext(ctx).Create(category).Error)
}

// Update writes the name and description of an active category. A row soft-deleted
// since it was read is reported as not found and stays deleted.
func (r *repository) Update(ctx context.Context, category *models.Category) error {
	now := r.db.NowFunc()
	res := r.db.WithContext(ctx).
		Session(&gorm.Session{SkipHooks: true}).
		Model(&models.Category{}).
		Where("id = ?", category.ID).
		Updates(map[string]interface{}{
			"name":        category.Name,
			"description": category.Description,
			"updated_at":  now,
		})
	if res.Error != nil {
		return models.NewStoreError("update", res.Error)
	}
	if res.RowsAffected == 0 {
		return &models.CategoryNotFoundError{ID: category.ID}
	}
	category.UpdatedAt = now
	return nil
}

// Delete soft-deletes a category by ID
func (r *repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return models.NewStoreError("delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return &models.CategoryNotFoundError{ID: id}
	}
	return nil
}

// HardDelete removes the row, including one already soft-deleted
func (r *repository) HardDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Unscoped().Delete(&models.Category{}, id)
	if res.Error != nil {
		return models.NewStoreError("hard_delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return &models.CategoryNotFoundError{ID: id}
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
