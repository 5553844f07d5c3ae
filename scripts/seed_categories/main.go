package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/realtyblog/internal/config"
	"github.com/realtyblog/internal/db"
	"github.com/realtyblog/internal/service"
	"github.com/realtyblog/internal/validator"
)

const defaultCategories = "Buy,Rent,Sell,Investment,Legal,Tips"

func main() {
	var names string
	flag.StringVar(&names, "names", defaultCategories, "comma-separated category names, in display order")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fail("load config", err)
	}
	gdb, err := db.Open(cfg.Database, nil)
	if err != nil {
		fail("open database", err)
	}
	if err := db.Migrate(gdb); err != nil {
		fail("migrate database", err)
	}

	created, skipped, err := seed(context.Background(), service.NewCategoryService(gdb), splitCSV(names))
	if err != nil {
		fail("seed categories", err)
	}
	fmt.Printf("done: created %d categories, skipped %d existing\n", created, skipped)
}

// seed 按顺序创建分类，slug 已存在的跳过。
func seed(ctx context.Context, categories *service.CategoryService, names []string) (created, skipped int, err error) {
	for i, name := range names {
		slug := validator.Slugify(name)
		if slug == "" {
			skipped++
			continue
		}
		_, err := categories.Create(ctx, map[string]any{
			"name":          validator.SanitizeString(name),
			"slug":          slug,
			"display_order": i + 1,
		})
		switch {
		case err == nil:
			created++
		case errors.Is(err, service.ErrSlugExists):
			skipped++
		default:
			return created, skipped, fmt.Errorf("%s: %w", name, err)
		}
	}
	return created, skipped, nil
}

func splitCSV(value string) []string {
	raw := strings.Split(value, ",")
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

func fail(step string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", step, err)
	os.Exit(1)
}
