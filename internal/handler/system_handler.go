package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/realtyblog/internal/db"
)

const (
	apiVersion         = "1.0"
	healthCheckTimeout = 3 * time.Second
)

// HealthCheck 报告数据库、API 与上传目录的状态，数据库不可用时返回 503。
func (a *API) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	database := a.databaseHealth(ctx)
	if database["status"] != "connected" {
		status = "error"
		code = http.StatusServiceUnavailable
	}

	uploadStatus := "not_ready"
	_, writable := a.uploads.Writable()
	if writable {
		uploadStatus = "ready"
	}

	data := gin.H{
		"status":    status,
		"timestamp": time.Now().Format(time.DateTime),
		"services": gin.H{
			"database": database,
			"api": gin.H{
				"status":  "operational",
				"version": apiVersion,
			},
			"uploads": gin.H{
				"status":   uploadStatus,
				"writable": writable,
			},
		},
	}

	if code != http.StatusOK {
		c.JSON(code, envelope{Success: false, Message: "Service unavailable", Data: data})
		return
	}
	respondSuccess(c, code, "Service healthy", data)
}

func (a *API) databaseHealth(ctx context.Context) gin.H {
	disconnected := gin.H{"status": "disconnected"}

	sqlDB, err := a.db.DB()
	if err != nil {
		a.logger.Error("database handle unavailable", "error", err)
		return disconnected
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		a.logger.Error("database ping failed", "error", err)
		return disconnected
	}

	driver, name := db.Describe(a.dbCfg)
	version, err := db.ServerVersion(ctx, a.db, driver)
	if err != nil {
		a.logger.Warn("database version query failed", "error", err)
	}

	return gin.H{
		"status":   "connected",
		"driver":   driver,
		"database": name,
		"version":  version,
	}
}
