package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/realtyblog/internal/db"
	"github.com/realtyblog/internal/service"
	"github.com/realtyblog/internal/validator"
)

// blogDetail 在博客数据之外附带渲染后的 HTML。
type blogDetail struct {
	db.Blog
	ContentHTML string `json:"content_html"`
}

// ListPublishedBlogs 返回公开博客列表，支持分类与精选过滤。
func (a *API) ListPublishedBlogs(c *gin.Context) {
	result, err := a.blogs.ListPublished(c.Request.Context(), service.BlogFilter{
		Page:         queryInt(c, "page"),
		PerPage:      queryInt(c, "per_page"),
		CategorySlug: c.Query("category"),
		Featured:     queryBool(c, "featured"),
	})
	if err != nil {
		respondServerError(c, err, "Failed to retrieve blogs")
		return
	}
	respondPaginated(c, "Blogs retrieved successfully", result.Items, result.Pagination)
}

// GetPublishedBlog 按 slug 返回一篇已发布的博客，并计一次浏览。
func (a *API) GetPublishedBlog(c *gin.Context) {
	blog, err := a.blogs.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrBlogNotFound) {
			respondError(c, http.StatusNotFound, "Blog not found")
			return
		}
		respondServerError(c, err, "Failed to retrieve blog")
		return
	}

	html, err := service.RenderMarkdown(blog.Content)
	if err != nil {
		respondServerError(c, err, "Failed to retrieve blog")
		return
	}
	respondSuccess(c, http.StatusOK, "Blog retrieved successfully", blogDetail{Blog: *blog, ContentHTML: html})
}

// AdminListBlogs lists every blog, drafts included.
func (a *API) AdminListBlogs(c *gin.Context) {
	filter := service.AdminBlogFilter{
		Page:    queryInt(c, "page"),
		PerPage: queryInt(c, "per_page"),
		Status:  c.Query("status"),
		Search:  c.Query("search"),
	}
	if categoryID := queryInt(c, "category_id"); categoryID > 0 {
		filter.CategoryID = uint(categoryID)
	}

	result, err := a.blogs.List(c.Request.Context(), filter)
	if err != nil {
		respondServerError(c, err, "Failed to retrieve blogs")
		return
	}
	respondPaginated(c, "Blogs retrieved successfully", result.Items, result.Pagination)
}

func (a *API) AdminGetBlog(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	blog, err := a.blogs.Get(c.Request.Context(), id)
	if err != nil {
		a.blogError(c, err, "Failed to retrieve blog")
		return
	}
	respondSuccess(c, http.StatusOK, "Blog retrieved successfully", blog)
}

func (a *API) AdminCreateBlog(c *gin.Context) {
	var req validator.BlogRequest
	if !bindJSON(c, &req) {
		return
	}

	result := validator.ValidateBlog(req, false)
	if !result.Valid {
		respondValidation(c, result.Errors)
		return
	}

	blog, err := a.blogs.Create(c.Request.Context(), result.Sanitized)
	if err != nil {
		a.blogError(c, err, "Failed to create blog")
		return
	}
	a.logger.Info("blog created", "blog_id", blog.ID, "slug", blog.Slug, "admin", adminName(c))
	respondSuccess(c, http.StatusCreated, "Blog created successfully", blog)
}

func (a *API) AdminUpdateBlog(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req validator.BlogRequest
	if !bindJSON(c, &req) {
		return
	}

	result := validator.ValidateBlog(req, true)
	if !result.Valid {
		respondValidation(c, result.Errors)
		return
	}

	blog, err := a.blogs.Update(c.Request.Context(), id, result.Sanitized)
	if err != nil {
		a.blogError(c, err, "Failed to update blog")
		return
	}
	a.logger.Info("blog updated", "blog_id", blog.ID, "admin", adminName(c))
	respondSuccess(c, http.StatusOK, "Blog updated successfully", blog)
}

func (a *API) AdminDeleteBlog(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := a.blogs.Delete(c.Request.Context(), id); err != nil {
		a.blogError(c, err, "Failed to delete blog")
		return
	}
	a.logger.Info("blog deleted", "blog_id", id, "admin", adminName(c))
	respondSuccess(c, http.StatusOK, "Blog deleted successfully", nil)
}

// blogError 将服务层错误映射为 HTTP 响应。
func (a *API) blogError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrBlogNotFound):
		respondError(c, http.StatusNotFound, "Blog not found")
	case errors.Is(err, service.ErrSlugExists):
		respondFieldError(c, "slug", "Slug already exists")
	case errors.Is(err, service.ErrCategoryNotFound):
		respondFieldError(c, "category_id", "Category does not exist")
	case errors.Is(err, service.ErrNothingToUpdate):
		respondError(c, http.StatusBadRequest, "No fields to update")
	default:
		respondServerError(c, err, fallback)
	}
}

func adminName(c *gin.Context) string {
	principal, _ := PrincipalFrom(c)
	return principal.Username
}
