package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/realtyblog/internal/service"
	"github.com/realtyblog/internal/validator"
)

// ListActiveCategories 返回前台可见的分类。
func (a *API) ListActiveCategories(c *gin.Context) {
	categories, err := a.categories.ListActive(c.Request.Context())
	if err != nil {
		respondServerError(c, err, "Failed to retrieve categories")
		return
	}
	respondSuccess(c, http.StatusOK, "Categories retrieved successfully", categories)
}

// AdminListCategories 返回全部分类及其博客数量。
func (a *API) AdminListCategories(c *gin.Context) {
	categories, err := a.categories.List(c.Request.Context())
	if err != nil {
		respondServerError(c, err, "Failed to retrieve categories")
		return
	}
	respondSuccess(c, http.StatusOK, "Categories retrieved successfully", categories)
}

func (a *API) AdminGetCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	category, err := a.categories.Get(c.Request.Context(), id)
	if err != nil {
		categoryError(c, err, "Failed to retrieve category")
		return
	}
	respondSuccess(c, http.StatusOK, "Category retrieved successfully", category)
}

func (a *API) AdminCreateCategory(c *gin.Context) {
	var req validator.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	result := validator.ValidateCategory(req, false)
	if !result.Valid {
		respondValidation(c, result.Errors)
		return
	}

	category, err := a.categories.Create(c.Request.Context(), result.Sanitized)
	if err != nil {
		categoryError(c, err, "Failed to create category")
		return
	}
	a.logger.Info("category created", "category_id", category.ID, "slug", category.Slug, "admin", adminName(c))
	respondSuccess(c, http.StatusCreated, "Category created successfully", category)
}

func (a *API) AdminUpdateCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req validator.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	result := validator.ValidateCategory(req, true)
	if !result.Valid {
		respondValidation(c, result.Errors)
		return
	}

	category, err := a.categories.Update(c.Request.Context(), id, result.Sanitized)
	if err != nil {
		categoryError(c, err, "Failed to update category")
		return
	}
	a.logger.Info("category updated", "category_id", category.ID, "admin", adminName(c))
	respondSuccess(c, http.StatusOK, "Category updated successfully", category)
}

// AdminDeleteCategory 删除分类，原属该分类的博客变为未分类。
func (a *API) AdminDeleteCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := a.categories.Delete(c.Request.Context(), id); err != nil {
		categoryError(c, err, "Failed to delete category")
		return
	}
	a.logger.Info("category deleted", "category_id", id, "admin", adminName(c))
	respondSuccess(c, http.StatusOK, "Category deleted successfully", nil)
}

func categoryError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, http.StatusNotFound, "Category not found")
	case errors.Is(err, service.ErrSlugExists):
		respondFieldError(c, "slug", "Slug already exists")
	case errors.Is(err, service.ErrNothingToUpdate):
		respondError(c, http.StatusBadRequest, "No fields to update")
	default:
		respondServerError(c, err, fallback)
	}
}
