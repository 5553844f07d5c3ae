package service

import (
	"context"
	"errors"
	"testing"

	"github.com/realtyblog/internal/db"
)

func TestCategoryServiceListActiveOrdersByDisplayOrder(t *testing.T) {
	gdb := setupServiceTestDB(t, "category-active")
	seedCategory(t, gdb, "Tips", "tips", 2, true)
	seedCategory(t, gdb, "Buy", "buy", 1, true)
	seedCategory(t, gdb, "Archive", "archive", 0, false)
	seedCategory(t, gdb, "Alpha", "alpha", 2, true)

	svc := NewCategoryService(gdb)
	list, err := svc.ListActive(context.Background())
	if err != nil {
		t.Fatalf("list active: %v", err)
	}

	got := make([]string, 0, len(list))
	for _, category := range list {
		got = append(got, category.Slug)
	}
	want := []string{"buy", "alpha", "tips"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestCategoryServiceListIncludesBlogCounts(t *testing.T) {
	gdb := setupServiceTestDB(t, "category-counts")
	buy := seedCategory(t, gdb, "Buy", "buy", 1, true)
	seedCategory(t, gdb, "Rent", "rent", 2, false)

	blogs := NewBlogService(gdb)
	for _, slug := range []string{"a", "b"} {
		if _, err := blogs.Create(context.Background(), blogFields(slug, slug, false, &buy.ID)); err != nil {
			t.Fatalf("create blog: %v", err)
		}
	}

	list, err := NewCategoryService(gdb).List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected inactive categories in admin list, got %d", len(list))
	}
	if list[0].BlogCount == nil || *list[0].BlogCount != 2 {
		t.Fatalf("expected buy to count 2 blogs, got %v", list[0].BlogCount)
	}
	if list[1].BlogCount == nil || *list[1].BlogCount != 0 {
		t.Fatalf("expected rent to count 0 blogs, got %v", list[1].BlogCount)
	}
}

func TestCategoryServiceCreateDefaults(t *testing.T) {
	gdb := setupServiceTestDB(t, "category-create")
	svc := NewCategoryService(gdb)
	ctx := context.Background()

	active, err := svc.Create(ctx, map[string]any{"name": "Buy", "slug": "buy"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !active.IsActive || active.DisplayOrder != 0 {
		t.Fatalf("unexpected defaults: %+v", active)
	}

	inactive, err := svc.Create(ctx, map[string]any{"name": "Old", "slug": "old", "is_active": false})
	if err != nil {
		t.Fatalf("create inactive: %v", err)
	}
	reloaded, err := svc.Get(ctx, inactive.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if reloaded.IsActive {
		t.Fatal("expected explicit is_active=false to persist")
	}

	if _, err := svc.Create(ctx, map[string]any{"name": "Dup", "slug": "buy"}); !errors.Is(err, ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists, got %v", err)
	}
}

func TestCategoryServiceUpdate(t *testing.T) {
	gdb := setupServiceTestDB(t, "category-update")
	svc := NewCategoryService(gdb)
	ctx := context.Background()

	category := seedCategory(t, gdb, "Buy", "buy", 1, true)

	if _, err := svc.Update(ctx, category.ID, map[string]any{}); !errors.Is(err, ErrNothingToUpdate) {
		t.Fatalf("expected ErrNothingToUpdate, got %v", err)
	}

	updated, err := svc.Update(ctx, category.ID, map[string]any{"is_active": false, "display_order": 7})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.IsActive || updated.DisplayOrder != 7 || updated.Name != "Buy" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	if _, err := svc.Update(ctx, 999, map[string]any{"name": "x"}); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCategoryServiceDeleteDetachesBlogs(t *testing.T) {
	gdb := setupServiceTestDB(t, "category-delete")
	svc := NewCategoryService(gdb)
	blogs := NewBlogService(gdb)
	ctx := context.Background()

	category := seedCategory(t, gdb, "Legal", "legal", 1, true)
	blog, err := blogs.Create(ctx, blogFields("Deeds", "deeds", true, &category.ID))
	if err != nil {
		t.Fatalf("create blog: %v", err)
	}

	if err := svc.Delete(ctx, category.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, category.ID); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}

	var reloaded db.Blog
	if err := gdb.First(&reloaded, blog.ID).Error; err != nil {
		t.Fatalf("reload blog: %v", err)
	}
	if reloaded.CategoryID != nil {
		t.Fatalf("expected blog to be detached, got category %d", *reloaded.CategoryID)
	}
}
