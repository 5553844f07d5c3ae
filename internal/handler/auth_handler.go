package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/realtyblog/internal/service"
)

// 会话中保存的键。
const (
	sessionLoggedInKey = "admin_logged_in"
	sessionUserIDKey   = "admin_user_id"
	sessionUsernameKey = "admin_username"

	principalContextKey = "__admin_principal"
)

// Principal is the authenticated admin attached to a request by AuthRequired.
type Principal struct {
	UserID   uint   `json:"id"`
	Username string `json:"username"`
}

// PrincipalFrom returns the admin placed on c by AuthRequired.
func PrincipalFrom(c *gin.Context) (Principal, bool) {
	value, exists := c.Get(principalContextKey)
	if !exists {
		return Principal{}, false
	}
	principal, ok := value.(Principal)
	return principal, ok
}

func sessionPrincipal(session sessions.Session) (Principal, bool) {
	loggedIn, _ := session.Get(sessionLoggedInKey).(bool)
	if !loggedIn {
		return Principal{}, false
	}
	userID, ok := session.Get(sessionUserIDKey).(uint)
	if !ok || userID == 0 {
		return Principal{}, false
	}
	username, _ := session.Get(sessionUsernameKey).(string)
	return Principal{UserID: userID, Username: username}, true
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login 校验用户名和密码并建立会话。
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	// 密码按原样比较，只拒绝全空白的输入。
	username := strings.TrimSpace(req.Username)
	password := req.Password
	if username == "" || strings.TrimSpace(password) == "" {
		respondError(c, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := a.admins.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrCredentialsMissing):
			a.logger.Info("admin login rejected", "username", username, "ip", c.ClientIP())
			respondError(c, http.StatusUnauthorized, "Invalid username or password")
		default:
			respondServerError(c, err, "Login failed")
		}
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionLoggedInKey, true)
	session.Set(sessionUserIDKey, user.ID)
	session.Set(sessionUsernameKey, user.Username)
	if err := session.Save(); err != nil {
		respondServerError(c, err, "Login failed")
		return
	}

	a.logger.Info("admin logged in", "user_id", user.ID, "username", user.Username)
	respondSuccess(c, http.StatusOK, "Login successful", gin.H{"user": user})
}

// Logout 清空会话并让浏览器丢弃 cookie。
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
	if err := session.Save(); err != nil {
		respondServerError(c, err, "Logout failed")
		return
	}
	respondSuccess(c, http.StatusOK, "Logout successful", nil)
}

// CheckAuth reports whether the current session belongs to an existing admin.
func (a *API) CheckAuth(c *gin.Context) {
	principal, ok := sessionPrincipal(sessions.Default(c))
	if !ok {
		respondSuccess(c, http.StatusOK, "User is not authenticated", gin.H{"authenticated": false})
		return
	}

	user, err := a.admins.Get(c.Request.Context(), principal.UserID)
	if err != nil {
		if errors.Is(err, service.ErrAdminNotFound) {
			respondSuccess(c, http.StatusOK, "User is not authenticated", gin.H{"authenticated": false})
			return
		}
		respondServerError(c, err, "Authentication check failed")
		return
	}

	respondSuccess(c, http.StatusOK, "User is authenticated", gin.H{
		"authenticated": true,
		"user":          user,
	})
}

// AuthRequired 拦截未登录的后台请求，并把 Principal 放入上下文。
// 每次请求都会重新确认管理员仍然存在。
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := sessionPrincipal(sessions.Default(c))
		if !ok {
			respondUnauthenticated(c)
			return
		}

		user, err := a.admins.Get(c.Request.Context(), principal.UserID)
		if err != nil {
			if errors.Is(err, service.ErrAdminNotFound) {
				a.logger.Warn("session admin no longer exists", "user_id", principal.UserID, "ip", c.ClientIP())
				respondUnauthenticated(c)
				return
			}
			respondServerError(c, err, "Authentication check failed")
			return
		}

		principal.Username = user.Username
		c.Set(principalContextKey, principal)
		c.Next()
	}
}
