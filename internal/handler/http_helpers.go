package handler

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"github.com/realtyblog/internal/service"
)

const databaseHint = "Check database credentials (DB_HOST, DB_NAME, DB_USER, DB_PASS) and ensure tables exist."

// envelope 是所有 JSON 响应的统一外壳。
type envelope struct {
	Success       bool                `json:"success"`
	Message       string              `json:"message"`
	Data          any                 `json:"data,omitempty"`
	Errors        map[string]string   `json:"errors,omitempty"`
	Pagination    *service.Pagination `json:"pagination,omitempty"`
	Authenticated *bool               `json:"authenticated,omitempty"`
	Hint          string              `json:"hint,omitempty"`
}

func respondSuccess(c *gin.Context, status int, message string, data any) {
	c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

func respondPaginated(c *gin.Context, message string, data any, pagination service.Pagination) {
	c.JSON(http.StatusOK, envelope{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: &pagination,
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, envelope{Success: false, Message: message})
}

func respondValidation(c *gin.Context, errs map[string]string) {
	c.JSON(http.StatusBadRequest, envelope{Success: false, Message: "Validation failed", Errors: errs})
}

// respondFieldError answers 400 with message and the same text under field.
func respondFieldError(c *gin.Context, field, message string) {
	c.JSON(http.StatusBadRequest, envelope{Success: false, Message: message, Errors: map[string]string{field: message}})
}

func respondUnauthenticated(c *gin.Context) {
	authenticated := false
	c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{
		Success:       false,
		Message:       "Authentication required",
		Authenticated: &authenticated,
	})
}

// respondServerError logs err and answers 500 without leaking its text.
func respondServerError(c *gin.Context, err error, message string) {
	_ = c.Error(err)
	body := envelope{Success: false, Message: message}
	if isDatabaseConfigError(err) {
		body.Hint = databaseHint
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, body)
}

// isDatabaseConfigError reports errors that usually mean bad credentials,
// an unreachable server or a missing schema.
func isDatabaseConfigError(err error) bool {
	if err == nil {
		return false
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1044, 1045, 1049, 1146:
			return true
		}
		return false
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no such table") || strings.Contains(msg, "connection refused")
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON data")
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// idParam parses :id or answers 400.
func idParam(c *gin.Context) (uint, bool) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid ID")
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string) int {
	value, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return 0
	}
	return value
}

func queryBool(c *gin.Context, key string) *bool {
	raw := strings.ToLower(strings.TrimSpace(c.Query(key)))
	var value bool
	switch raw {
	case "1", "true", "yes", "on":
		value = true
	case "0", "false", "no", "off":
		value = false
	default:
		return nil
	}
	return &value
}
