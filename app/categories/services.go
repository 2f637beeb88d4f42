package categories

import (
	"context"
	"strings"

	"github.com/joefazee/catalog/internal/logger"
	"github.com/joefazee/catalog/internal/sanitizer"
	"github.com/joefazee/catalog/internal/validator"
	"github.com/joefazee/catalog/models"
)

// service implements the Service interface
type service struct {
	repo      Repository
	coord     *Coordinator
	sanitizer sanitizer.Sanitizer
	log       logger.Logger
}

// NewService creates a new category service
func NewService(repo Repository, coord *Coordinator, s sanitizer.Sanitizer, log logger.Logger) Service {
	if s == nil {
		s = sanitizer.NewHTMLStripper()
	}
	if log == nil {
		log = logger.NewNullLogger()
	}
	return &service{
		repo:      repo,
		coord:     coord,
		sanitizer: s,
		log:       log,
	}
}

// CreateCategory validates, stores and caches a new category
func (s *service) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:         s.sanitizer.CleanText(req.Name),
		Description:  s.sanitizer.CleanText(req.Description),
		ParentID:     req.ParentID,
		DisplayOrder: req.DisplayOrder,
		Code:         strings.TrimSpace(req.Code),
		StoreCode:    strings.TrimSpace(req.StoreCode),
		StoreTitle:   s.sanitizer.CleanText(req.StoreTitle),
		GroupTitle:   s.sanitizer.CleanText(req.GroupTitle),
		LinkURL:      strings.TrimSpace(req.LinkURL),
		GenderFilter: models.ParseGenderFilter(req.GenderFilter),
	}
	if err := category.Validate(); err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		if _, err := s.repo.GetByID(ctx, *req.ParentID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, category); err != nil {
		return nil, err
	}

	node := NodeFromModel(category)
	s.coord.OnCreate(ctx, node)
	s.log.Info("category created", logger.Fields{"id": node.ID, "parent_id": node.ParentID})

	resp := ToTreeResponse(node)
	return &resp, nil
}

// UpdateCategory replaces the name and description of a category
func (s *service) UpdateCategory(ctx context.Context, id int64, req UpdateCategoryRequest) (*CategoryResponse, error) {
	if err := validateUpdate(req); err != nil {
		return nil, err
	}

	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldParentID := category.ParentID

	category.Name = s.sanitizer.CleanText(req.Name)
	category.Description = s.sanitizer.CleanText(req.Description)
	if err := category.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}

	node := NodeFromModel(category)
	s.coord.OnUpdate(ctx, node, oldParentID)
	s.log.Info("category updated", logger.Fields{"id": id})

	resp := ToCategoryResponse(node)
	return &resp, nil
}

// DeleteCategory soft-deletes a category without active children
func (s *service) DeleteCategory(ctx context.Context, id int64) error {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ensureNoChildren(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.coord.OnDelete(ctx, NodeFromModel(category))
	s.log.Info("category deleted", logger.Fields{"id": id})
	return nil
}

// PermanentDeleteCategory removes the row for good. It also accepts an already soft-deleted category.
func (s *service) PermanentDeleteCategory(ctx context.Context, id int64) error {
	if err := s.ensureNoChildren(ctx, id); err != nil {
		return err
	}

	if err := s.repo.HardDelete(ctx, id); err != nil {
		return err
	}

	s.coord.OnDelete(ctx, CategoryNode{ID: id})
	s.log.Info("category permanently deleted", logger.Fields{"id": id})
	return nil
}

func (s *service) ensureNoChildren(ctx context.Context, id int64) error {
	children, err := s.repo.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return &models.HasChildrenError{ID: id, Children: children}
	}
	return nil
}

// GetCategoryTree returns the whole forest
func (s *service) GetCategoryTree(ctx context.Context) ([]CategoryResponse, error) {
	roots, err := s.coord.GetTree(ctx)
	if err != nil {
		return nil, err
	}
	return ToTreeResponseList(roots), nil
}

// SearchTree returns the forest pruned to matches and their ancestors
func (s *service) SearchTree(ctx context.Context, needle string) ([]CategoryResponse, error) {
	roots, err := s.coord.GetTree(ctx)
	if err != nil {
		return nil, err
	}
	return ToTreeResponseList(FilterTree(roots, needle)), nil
}

// SearchSubtree filters below a single category
func (s *service) SearchSubtree(ctx context.Context, id int64, needle string) (*CategoryResponse, error) {
	roots, err := s.coord.GetTree(ctx)
	if err != nil {
		return nil, err
	}
	node, err := FilterSubtree(roots, id, needle)
	if err != nil {
		return nil, err
	}
	resp := ToTreeResponse(node)
	return &resp, nil
}

// GetCategoryByID returns a category with its direct children
func (s *service) GetCategoryByID(ctx context.Context, id int64) (*CategoryResponse, error) {
	node, err := s.coord.GetNode(ctx, id)
	if err != nil {
		return nil, err
	}
	children, err := s.coord.GetChildren(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToCategoryResponse(node)
	leaf := len(children) == 0
	resp.Leaf = &leaf
	if !leaf {
		resp.Children = ToCategoryResponseList(children)
	}
	return &resp, nil
}

// GetChildren returns the direct children of a category
func (s *service) GetChildren(ctx context.Context, id int64) ([]CategoryResponse, error) {
	children, err := s.coord.GetChildren(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToCategoryResponseList(children), nil
}

// SearchCategories is a flat, store-backed name search
func (s *service) SearchCategories(ctx context.Context, name string) ([]CategoryResponse, error) {
	name = strings.TrimSpace(name)
	if !validator.NotBlank(name) {
		return nil, &models.ValidationError{Field: "name", Reason: "must not be blank"}
	}
	if !validator.MaxRunes(name, models.MaxCategoryNameLength) {
		return nil, &models.ValidationError{Field: "name", Reason: "must not exceed 100 characters"}
	}

	rows, err := s.repo.SearchByName(ctx, name)
	if err != nil {
		return nil, err
	}
	nodes := make([]CategoryNode, len(rows))
	for i := range rows {
		nodes[i] = NodeFromModel(&rows[i])
	}
	return ToCategoryResponseList(nodes), nil
}

// GetStatistics summarizes the cached forest
func (s *service) GetStatistics(ctx context.Context) (*StatisticsResponse, error) {
	roots, err := s.coord.GetTree(ctx)
	if err != nil {
		return nil, err
	}
	total := CountNodes(roots)
	return &StatisticsResponse{
		TotalCategories: total,
		RootCategories:  len(roots),
		SubCategories:   total - len(roots),
		MaxDepth:        MaxDepth(roots),
	}, nil
}

// GetMenu builds the storefront navigation for a tab and gender
func (s *service) GetMenu(ctx context.Context, tab, gender string) (*MenuResponse, error) {
	tab = strings.ToLower(strings.TrimSpace(tab))
	if tab == "" {
		tab = TabCategory
	}
	if !IsMenuTab(tab) {
		return nil, &models.ValidationError{Field: "tab", Reason: "must be one of category, brand, service"}
	}
	if strings.TrimSpace(gender) != "" && !models.IsValidGenderCode(gender) {
		return nil, &models.ValidationError{Field: "gender", Reason: "must be one of A, M, F"}
	}

	roots, err := s.coord.GetTree(ctx)
	if err != nil {
		return nil, err
	}
	return BuildMenu(roots, tab, models.ParseGenderFilter(gender)), nil
}

// RefreshCache clears both cache tiers and rebuilds them
func (s *service) RefreshCache(ctx context.Context) (*RefreshResponse, error) {
	res, err := s.coord.RefreshAll(ctx)
	if err != nil {
		return nil, err
	}
	return &RefreshResponse{
		ClearedNodes: res.Cleared,
		CachedNodes:  res.Nodes,
		Roots:        len(res.Roots),
		Unreachable:  res.Unreachable,
		BuiltAt:      res.BuiltAt,
	}, nil
}

func validateCreate(req CreateCategoryRequest) error {
	v := validator.New()
	checkNameAndDescription(v, req.Name, req.Description)
	v.Check(validator.Positive(req.ParentID), "parent_id", "must be a positive integer")
	v.Check(req.GenderFilter == "" || models.IsValidGenderCode(req.GenderFilter), "gender_filter", "must be one of A, M, F")
	v.Check(validator.MaxRunes(req.Code, 50), "code", "must not exceed 50 characters")
	v.Check(validator.MaxRunes(req.StoreCode, 50), "store_code", "must not exceed 50 characters")
	v.Check(validator.MaxRunes(req.StoreTitle, 100), "store_title", "must not exceed 100 characters")
	v.Check(validator.MaxRunes(req.GroupTitle, 100), "group_title", "must not exceed 100 characters")
	v.Check(validator.MaxRunes(req.LinkURL, 255), "link_url", "must not exceed 255 characters")
	v.Check(validator.IsLink(strings.TrimSpace(req.LinkURL)), "link_url", "must be an absolute URL or a path starting with /")
	return firstError(v)
}

func validateUpdate(req UpdateCategoryRequest) error {
	v := validator.New()
	checkNameAndDescription(v, req.Name, req.Description)
	return firstError(v)
}

func checkNameAndDescription(v *validator.Validator, name, description string) {
	v.Check(validator.NotBlank(name), "name", "must not be blank")
	v.Check(validator.MaxRunes(strings.TrimSpace(name), models.MaxCategoryNameLength), "name", "must not exceed 100 characters")
	v.Check(validator.MaxRunes(description, models.MaxCategoryDescriptionLength), "description", "must not exceed 500 characters")
}

func firstError(v *validator.Validator) error {
	if field, reason, found := v.FirstError(); found {
		return &models.ValidationError{Field: field, Reason: reason}
	}
	return nil
}
