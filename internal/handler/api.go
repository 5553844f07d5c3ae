package handler

import (
	"log/slog"

	"github.com/realtyblog/internal/config"
	"github.com/realtyblog/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	dbCfg      config.DBConfig
	blogs      *service.BlogService
	categories *service.CategoryService
	contacts   *service.ContactService
	admins     *service.AdminService
	uploads    *service.UploadService
	logger     *slog.Logger
	secure     bool
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, cfg config.AppConfig, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}

	return &API{
		db:         gdb,
		dbCfg:      cfg.Database,
		blogs:      service.NewBlogService(gdb),
		categories: service.NewCategoryService(gdb),
		contacts:   service.NewContactService(gdb),
		admins:     service.NewAdminService(gdb),
		uploads:    service.NewUploadService(cfg.UploadDir, cfg.UploadURLPath, cfg.PublicBaseURL, cfg.UploadMaxBytes),
		logger:     logger,
		secure:     cfg.SessionSecure,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

// Admins exposes the admin account service for boot-time provisioning.
func (a *API) Admins() *service.AdminService {
	return a.admins
}

// UploadDir returns the directory uploads are stored in.
func (a *API) UploadDir() string {
	return a.uploads.Dir()
}
