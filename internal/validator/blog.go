package validator

import (
	"encoding/json"
	"strings"
)

// BlogRequest 是博客创建/更新请求体，每个字段保留原始 JSON 以区分缺省与显式赋值。
type BlogRequest struct {
	Title           json.RawMessage `json:"title"`
	Slug            json.RawMessage `json:"slug"`
	Content         json.RawMessage `json:"content"`
	Excerpt         json.RawMessage `json:"excerpt"`
	CategoryID      json.RawMessage `json:"category_id"`
	ImageURL        json.RawMessage `json:"image_url"`
	FeaturedImage   json.RawMessage `json:"featured_image"`
	IsFeatured      json.RawMessage `json:"is_featured"`
	IsPublished     json.RawMessage `json:"is_published"`
	MetaTitle       json.RawMessage `json:"meta_title"`
	MetaDescription json.RawMessage `json:"meta_description"`
	MetaKeywords    json.RawMessage `json:"meta_keywords"`
}

// ValidateBlog checks a blog payload. On create, title, slug and content are required.
func ValidateBlog(req BlogRequest, isUpdate bool) Result {
	r := newResult()
	required := !isUpdate

	r.textField("title", req.Title, required || present(req.Title))
	r.slugField(req.Slug, required || present(req.Slug))
	r.textField("content", req.Content, required || present(req.Content))

	r.textField("excerpt", req.Excerpt, false)
	r.textField("image_url", req.ImageURL, false)
	r.textField("featured_image", req.FeaturedImage, false)
	r.textField("meta_title", req.MetaTitle, false)
	r.textField("meta_description", req.MetaDescription, false)
	r.textField("meta_keywords", req.MetaKeywords, false)

	r.categoryField(req.CategoryID)
	r.boolField("is_featured", req.IsFeatured)
	r.boolField("is_published", req.IsPublished)

	return r.finish()
}

// categoryField treats null, "" and 0 as "no category".
func (r *Result) categoryField(raw json.RawMessage) {
	const field = "category_id"
	if len(raw) == 0 {
		return
	}
	if isNull(raw) {
		r.Sanitized[field] = nil
		return
	}
	if text, ok := rawString(raw); ok && strings.TrimSpace(text) == "" {
		r.Sanitized[field] = nil
		return
	}

	value, ok := parseInt(raw)
	if !ok || value < 0 {
		r.fail(field, "Category ID must be a valid integer")
		return
	}
	if value == 0 {
		r.Sanitized[field] = nil
		return
	}
	r.Sanitized[field] = uint(value)
}
