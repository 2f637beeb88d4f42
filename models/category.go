package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"
)

const (
	MaxCategoryNameLength        = 100
	MaxCategoryDescriptionLength = 500
)

// Category is a single row of the category tree. ParentID is nil for roots.
type Category struct {
	ID           int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ParentID     *int64         `gorm:"index:idx_categories_parent_id" json:"parent_id"`
	Name         string         `gorm:"type:varchar(100);not null" json:"name"`
	Description  string         `gorm:"type:varchar(500)" json:"description"`
	Code         string         `gorm:"type:varchar(50)" json:"code"`
	StoreCode    string         `gorm:"type:varchar(50)" json:"store_code"`
	StoreTitle   string         `gorm:"type:varchar(100)" json:"store_title"`
	GroupTitle   string         `gorm:"type:varchar(100)" json:"group_title"`
	LinkURL      string         `gorm:"column:link_url;type:varchar(255)" json:"link_url"`
	DisplayOrder int            `gorm:"not null;default:0" json:"display_order"`
	GenderFilter GenderFilter   `gorm:"type:varchar(1);not null;default:'A'" json:"gender_filter"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Category model
func (*Category) TableName() string {
	return "categories"
}

// BeforeSave normalizes the gender filter so unknown codes are never persisted.
func (c *Category) BeforeSave(_ *gorm.DB) error {
	c.GenderFilter = ParseGenderFilter(string(c.GenderFilter))
	return nil
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// Validate performs validation on the category model
func (c *Category) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return &ValidationError{Field: "name", Reason: "must not be blank"}
	}
	if utf8.RuneCountInString(name) > MaxCategoryNameLength {
		return &ValidationError{Field: "name", Reason: "must not exceed 100 characters"}
	}
	if utf8.RuneCountInString(c.Description) > MaxCategoryDescriptionLength {
		return &ValidationError{Field: "description", Reason: "must not exceed 500 characters"}
	}
	if c.ParentID != nil && *c.ParentID <= 0 {
		return &ValidationError{Field: "parent_id", Reason: "must be a positive integer"}
	}
	if c.ParentID != nil && c.ID != 0 && *c.ParentID == c.ID {
		return &ValidationError{Field: "parent_id", Reason: "category cannot be its own parent"}
	}
	return nil
}
