package db

import "time"

// Blog 定义了博客文章模型。
type Blog struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"size:255;not null" json:"title"`
	Slug            string     `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Content         string     `gorm:"type:text;not null" json:"content"`
	Excerpt         string     `gorm:"type:text" json:"excerpt"`
	CategoryID      *uint      `gorm:"index" json:"category_id"`
	Category        *Category  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	ImageURL        string     `gorm:"size:500" json:"image_url"`
	FeaturedImage   string     `gorm:"size:500" json:"featured_image"`
	IsFeatured      bool       `gorm:"not null;index" json:"is_featured"`
	IsPublished     bool       `gorm:"not null;index" json:"is_published"`
	ViewsCount      uint       `gorm:"not null;default:0" json:"views_count"`
	MetaTitle       string     `gorm:"size:255" json:"meta_title"`
	MetaDescription string     `gorm:"type:text" json:"meta_description"`
	MetaKeywords    string     `gorm:"size:500" json:"meta_keywords"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	PublishedAt     *time.Time `gorm:"index" json:"published_at"`

	// 以下字段来自 categories 连接查询，只读且不参与迁移。
	CategoryName *string `gorm:"->;-:migration" json:"category_name"`
	CategorySlug *string `gorm:"->;-:migration" json:"category_slug"`
}
