package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/realtyblog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrBlogNotFound    = errors.New("blog not found")
	ErrSlugExists      = errors.New("slug already exists")
	ErrNothingToUpdate = errors.New("no fields to update")
)

// Blog listing statuses accepted by the admin filter.
const (
	BlogStatusPublished = "published"
	BlogStatusDraft     = "draft"
)

const (
	defaultBlogPerPage      = 10
	defaultAdminBlogPerPage = 20
)

// blogColumns 是允许通过部分更新写入的列。
var blogColumns = map[string]struct{}{
	"title":            {},
	"slug":             {},
	"content":          {},
	"excerpt":          {},
	"category_id":      {},
	"image_url":        {},
	"featured_image":   {},
	"is_featured":      {},
	"is_published":     {},
	"meta_title":       {},
	"meta_description": {},
	"meta_keywords":    {},
}

// BlogService wraps blog persistence.
type BlogService struct {
	db  *gorm.DB
	now func() time.Time
}

// BlogFilter describes the public listing query.
type BlogFilter struct {
	Page         int
	PerPage      int
	CategorySlug string
	Featured     *bool
}

// AdminBlogFilter describes the admin listing query.
type AdminBlogFilter struct {
	Page       int
	PerPage    int
	Status     string
	CategoryID uint
	Search     string
}

// BlogListResult aggregates a page of blogs.
type BlogListResult struct {
	Items      []db.Blog
	Pagination Pagination
}

// NewBlogService creates a BlogService instance.
func NewBlogService(gdb *gorm.DB) *BlogService {
	return &BlogService{db: gdb, now: time.Now}
}

func (s *BlogService) joined(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&db.Blog{}).
		Joins("LEFT JOIN categories ON categories.id = blogs.category_id")
}

func selectWithCategory(query *gorm.DB) *gorm.DB {
	return query.Select("blogs.*, categories.name AS category_name, categories.slug AS category_slug")
}

// ListPublished returns published blogs, newest publication first.
func (s *BlogService) ListPublished(ctx context.Context, filter BlogFilter) (BlogListResult, error) {
	query := s.joined(ctx).Where("blogs.is_published = ?", true)
	if slug := strings.TrimSpace(filter.CategorySlug); slug != "" {
		query = query.Where("categories.slug = ?", slug)
	}
	if filter.Featured != nil {
		query = query.Where("blogs.is_featured = ?", *filter.Featured)
	}

	return s.paginate(query, filter.Page, normalizePerPage(filter.PerPage, defaultBlogPerPage),
		"blogs.published_at desc", "blogs.created_at desc", "blogs.id desc")
}

// List returns blogs for the admin panel regardless of publication state.
func (s *BlogService) List(ctx context.Context, filter AdminBlogFilter) (BlogListResult, error) {
	query := s.joined(ctx)
	switch strings.ToLower(strings.TrimSpace(filter.Status)) {
	case BlogStatusPublished:
		query = query.Where("blogs.is_published = ?", true)
	case BlogStatusDraft:
		query = query.Where("blogs.is_published = ?", false)
	}
	if filter.CategoryID > 0 {
		query = query.Where("blogs.category_id = ?", filter.CategoryID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("blogs.title LIKE ? OR blogs.excerpt LIKE ? OR blogs.slug LIKE ?", like, like, like)
	}

	return s.paginate(query, filter.Page, normalizePerPage(filter.PerPage, defaultAdminBlogPerPage),
		"blogs.created_at desc", "blogs.id desc")
}

func (s *BlogService) paginate(query *gorm.DB, page, perPage int, orders ...string) (BlogListResult, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return BlogListResult{}, err
	}

	result := BlogListResult{
		Items:      []db.Blog{},
		Pagination: NewPagination(page, perPage, total),
	}

	query = selectWithCategory(query)
	for _, order := range orders {
		query = query.Order(order)
	}
	if err := query.
		Limit(result.Pagination.PerPage).
		Offset(result.Pagination.offset()).
		Find(&result.Items).Error; err != nil {
		return BlogListResult{}, err
	}

	return result, nil
}

// GetPublishedBySlug fetches a published blog and counts the view.
func (s *BlogService) GetPublishedBySlug(ctx context.Context, slug string) (*db.Blog, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrBlogNotFound
	}

	var blog db.Blog
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&db.Blog{}).
			Where("slug = ? AND is_published = ?", slug, true).
			UpdateColumn("views_count", gorm.Expr("views_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBlogNotFound
		}

		return selectWithCategory(tx.Model(&db.Blog{}).
			Joins("LEFT JOIN categories ON categories.id = blogs.category_id")).
			Where("blogs.slug = ?", slug).
			Take(&blog).Error
	})
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

// Get fetches a blog by id with its category name and slug.
func (s *BlogService) Get(ctx context.Context, id uint) (*db.Blog, error) {
	var blog db.Blog
	if err := selectWithCategory(s.joined(ctx)).Where("blogs.id = ?", id).Take(&blog).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return &blog, nil
}

// Create inserts a blog from validated fields.
func (s *BlogService) Create(ctx context.Context, fields map[string]any) (*db.Blog, error) {
	blog := db.Blog{
		Title:           stringValue(fields, "title"),
		Slug:            stringValue(fields, "slug"),
		Content:         stringValue(fields, "content"),
		Excerpt:         stringValue(fields, "excerpt"),
		ImageURL:        stringValue(fields, "image_url"),
		FeaturedImage:   stringValue(fields, "featured_image"),
		IsFeatured:      boolValue(fields, "is_featured"),
		IsPublished:     boolValue(fields, "is_published"),
		MetaTitle:       stringValue(fields, "meta_title"),
		MetaDescription: stringValue(fields, "meta_description"),
		MetaKeywords:    stringValue(fields, "meta_keywords"),
		CategoryID:      categoryValue(fields),
	}
	if strings.TrimSpace(blog.Excerpt) == "" {
		blog.Excerpt = summarizeContent(blog.Content)
	}
	if blog.IsPublished {
		now := s.now()
		blog.PublishedAt = &now
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureSlugAvailable(tx, &db.Blog{}, blog.Slug, 0); err != nil {
			return err
		}
		if err := ensureCategoryExists(tx, blog.CategoryID); err != nil {
			return err
		}
		return translateDuplicate(tx.Create(&blog).Error)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, blog.ID)
}

// Update applies a partial update. Only keys present in fields are written.
func (s *BlogService) Update(ctx context.Context, id uint, fields map[string]any) (*db.Blog, error) {
	updates := make(map[string]any, len(fields)+1)
	for key, value := range fields {
		if _, ok := blogColumns[key]; ok {
			updates[key] = value
		}
	}
	if len(updates) == 0 {
		return nil, ErrNothingToUpdate
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var blog db.Blog
		if err := tx.First(&blog, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBlogNotFound
			}
			return err
		}

		if slug, ok := updates["slug"].(string); ok && slug != blog.Slug {
			if err := ensureSlugAvailable(tx, &db.Blog{}, slug, blog.ID); err != nil {
				return err
			}
		}
		if _, ok := updates["category_id"]; ok {
			if err := ensureCategoryExists(tx, categoryValue(updates)); err != nil {
				return err
			}
		}
		if published, ok := updates["is_published"].(bool); ok && published != blog.IsPublished {
			if published {
				updates["published_at"] = s.now()
			} else {
				updates["published_at"] = nil
			}
		}

		return translateDuplicate(tx.Model(&blog).Updates(updates).Error)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// Delete removes a blog permanently.
func (s *BlogService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&db.Blog{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBlogNotFound
	}
	return nil
}

// ensureSlugAvailable checks slug uniqueness within model's table, ignoring excludeID.
func ensureSlugAvailable(tx *gorm.DB, model interface{}, slug string, excludeID uint) error {
	query := tx.Model(model).Where("slug = ?", slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugExists
	}
	return nil
}

func ensureCategoryExists(tx *gorm.DB, id *uint) error {
	if id == nil {
		return nil
	}
	var count int64
	if err := tx.Model(&db.Category{}).Where("id = ?", *id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func translateDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSlugExists
	}
	return err
}

func stringValue(fields map[string]any, key string) string {
	value, _ := fields[key].(string)
	return value
}

func boolValue(fields map[string]any, key string) bool {
	value, _ := fields[key].(bool)
	return value
}

func categoryValue(fields map[string]any) *uint {
	switch value := fields["category_id"].(type) {
	case uint:
		if value == 0 {
			return nil
		}
		return &value
	case int:
		if value <= 0 {
			return nil
		}
		id := uint(value)
		return &id
	default:
		return nil
	}
}
