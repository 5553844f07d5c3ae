package router

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/realtyblog/internal/config"
	"github.com/realtyblog/internal/handler"
	"github.com/realtyblog/internal/middleware"
)

const apiPrefix = "/api"

// route 是路由表中的一行。admin 路由挂在 AuthRequired 之后，throttled 路由经过登录限流。
type route struct {
	method    string
	path      string
	handler   gin.HandlerFunc
	admin     bool
	throttled bool
}

// routes 返回全部 API 路由，路径相对于 /api。
func routes(api *handler.API) []route {
	return []route{
		{method: http.MethodGet, path: "/health", handler: api.HealthCheck},

		{method: http.MethodGet, path: "/blogs", handler: api.ListPublishedBlogs},
		{method: http.MethodGet, path: "/blogs/:slug", handler: api.GetPublishedBlog},
		{method: http.MethodGet, path: "/categories", handler: api.ListActiveCategories},
		{method: http.MethodPost, path: "/contact", handler: api.CreateContactMessage},

		{method: http.MethodPost, path: "/auth", handler: api.Login, throttled: true},
		{method: http.MethodPost, path: "/auth/login", handler: api.Login, throttled: true},
		{method: http.MethodPost, path: "/auth/logout", handler: api.Logout},
		{method: http.MethodGet, path: "/auth/check", handler: api.CheckAuth},

		{method: http.MethodGet, path: "/admin/blogs", handler: api.AdminListBlogs, admin: true},
		{method: http.MethodPost, path: "/admin/blogs", handler: api.AdminCreateBlog, admin: true},
		{method: http.MethodGet, path: "/admin/blogs/:id", handler: api.AdminGetBlog, admin: true},
		{method: http.MethodPut, path: "/admin/blogs/:id", handler: api.AdminUpdateBlog, admin: true},
		{method: http.MethodDelete, path: "/admin/blogs/:id", handler: api.AdminDeleteBlog, admin: true},

		{method: http.MethodGet, path: "/admin/categories", handler: api.AdminListCategories, admin: true},
		{method: http.MethodPost, path: "/admin/categories", handler: api.AdminCreateCategory, admin: true},
		{method: http.MethodGet, path: "/admin/categories/:id", handler: api.AdminGetCategory, admin: true},
		{method: http.MethodPut, path: "/admin/categories/:id", handler: api.AdminUpdateCategory, admin: true},
		{method: http.MethodDelete, path: "/admin/categories/:id", handler: api.AdminDeleteCategory, admin: true},

		{method: http.MethodGet, path: "/admin/contact-messages", handler: api.AdminListContactMessages, admin: true},
		{method: http.MethodGet, path: "/admin/contact-messages/:id", handler: api.AdminGetContactMessage, admin: true},
		{method: http.MethodPut, path: "/admin/contact-messages/:id/status", handler: api.AdminUpdateContactStatus, admin: true},
		{method: http.MethodDelete, path: "/admin/contact-messages/:id", handler: api.AdminDeleteContactMessage, admin: true},

		{method: http.MethodPost, path: "/admin/upload", handler: api.UploadImage, admin: true},
		// 通配参数让编码过的 "/" 也能到达 handler，由其统一返回 403。
		{method: http.MethodDelete, path: "/admin/upload/*filename", handler: api.DeleteImage, admin: true},
	}
}

// SetupRouter 配置 Gin 引擎、会话和全部路由。
func SetupRouter(api *handler.API, cfg config.AppConfig, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.RedirectTrailingSlash = false
	r.UseRawPath = true
	r.UnescapePathValues = true

	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.SessionSecure,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(cfg.SessionName, store))

	if cfg.UploadURLPath != "" && cfg.UploadDir != "" {
		r.Static(cfg.UploadURLPath, cfg.UploadDir)
	}

	limiter := middleware.NewLoginRateLimiter(cfg.LoginRateLimit, cfg.LoginBurst, logger)

	public := r.Group(apiPrefix)
	admin := r.Group(apiPrefix)
	admin.Use(api.AuthRequired())

	for _, rt := range routes(api) {
		group := public
		if rt.admin {
			group = admin
		}
		handlers := []gin.HandlerFunc{rt.handler}
		if rt.throttled {
			handlers = append([]gin.HandlerFunc{limiter.Middleware()}, handlers...)
		}
		for _, path := range routePaths(rt.path) {
			group.Handle(rt.method, path, handlers...)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "API endpoint not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"success": false, "message": "Method not allowed"})
	})

	return r
}

// routePaths 返回路由的两种写法，使 "/api/blogs/" 与 "/api/blogs" 命中同一 handler。
// 通配路由本身已覆盖尾部斜杠。
func routePaths(path string) []string {
	if strings.Contains(path, "*") {
		return []string{path}
	}
	return []string{path, path + "/"}
}
