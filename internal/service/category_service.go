package service

import (
	"context"
	"errors"

	"github.com/realtyblog/internal/db"
	"gorm.io/gorm"
)

var ErrCategoryNotFound = errors.New("category not found")

var categoryColumns = map[string]struct{}{
	"name":          {},
	"slug":          {},
	"icon":          {},
	"description":   {},
	"display_order": {},
	"is_active":     {},
}

// CategoryService wraps category related operations.
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb}
}

// ListActive returns active categories ordered by display order then name.
func (s *CategoryService) ListActive(ctx context.Context) ([]db.Category, error) {
	categories := []db.Category{}
	if err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order asc").
		Order("name asc").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// List returns every category with the number of blogs filed under it.
func (s *CategoryService) List(ctx context.Context) ([]db.Category, error) {
	categories := []db.Category{}
	if err := s.db.WithContext(ctx).
		Model(&db.Category{}).
		Select("categories.*, COUNT(blogs.id) AS blog_count").
		Joins("LEFT JOIN blogs ON blogs.category_id = categories.id").
		Group("categories.id").
		Order("categories.display_order asc").
		Order("categories.name asc").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Get fetches a category by id.
func (s *CategoryService) Get(ctx context.Context, id uint) (*db.Category, error) {
	var category db.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// Create inserts a category. New categories are active unless told otherwise.
func (s *CategoryService) Create(ctx context.Context, fields map[string]any) (*db.Category, error) {
	category := db.Category{
		Name:         stringValue(fields, "name"),
		Slug:         stringValue(fields, "slug"),
		Icon:         stringValue(fields, "icon"),
		Description:  stringValue(fields, "description"),
		DisplayOrder: intValue(fields, "display_order"),
		IsActive:     true,
	}
	if active, ok := fields["is_active"].(bool); ok {
		category.IsActive = active
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureSlugAvailable(tx, &db.Category{}, category.Slug, 0); err != nil {
			return err
		}
		return translateDuplicate(tx.Create(&category).Error)
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Update applies a partial update; an empty field set is rejected.
func (s *CategoryService) Update(ctx context.Context, id uint, fields map[string]any) (*db.Category, error) {
	updates := make(map[string]any, len(fields))
	for key, value := range fields {
		if _, ok := categoryColumns[key]; ok {
			updates[key] = value
		}
	}
	if len(updates) == 0 {
		return nil, ErrNothingToUpdate
	}

	var category db.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}
		if slug, ok := updates["slug"].(string); ok && slug != category.Slug {
			if err := ensureSlugAvailable(tx, &db.Category{}, slug, category.ID); err != nil {
				return err
			}
		}
		if err := translateDuplicate(tx.Model(&category).Updates(updates).Error); err != nil {
			return err
		}
		return tx.First(&category, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Delete removes a category and detaches its blogs in one transaction.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category db.Category
		if err := tx.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}

		if err := tx.Model(&db.Blog{}).
			Where("category_id = ?", id).
			UpdateColumn("category_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&category).Error
	})
}

func intValue(fields map[string]any, key string) int {
	value, _ := fields[key].(int)
	return value
}
