package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS 允许前端 SPA 携带会话 cookie 跨域访问 API。
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	allowed := make([]string, 0, len(origins))
	for _, origin := range origins {
		if origin == "*" {
			// 通配符与 credentials 不能同时使用，改为回显请求来源。
			cfg.AllowOriginFunc = func(string) bool { return true }
			allowed = nil
			break
		}
		if origin != "" {
			allowed = append(allowed, origin)
		}
	}
	if cfg.AllowOriginFunc == nil {
		if len(allowed) == 0 {
			allowed = []string{"http://localhost:3000"}
		}
		cfg.AllowOrigins = allowed
	}

	return cors.New(cfg)
}
