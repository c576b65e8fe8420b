package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"dntest-admin/internal/session"
	"dntest-admin/pkg/jwt"
	"dntest-admin/pkg/response"
)

// SessionToucher 校验在线会话并刷新最后访问时间
type SessionToucher interface {
	Touch(ctx context.Context, sessionID string) error
}

// PermissionChecker 权限判定
type PermissionChecker interface {
	HasPermission(ctx context.Context, userID int64, perm string) bool
}

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取 Access Token，
// 并要求 token 指向的在线会话仍然存在（被挤下线、强退或过期后立即失效）
func JWTAuth(jwtMgr *jwt.Manager, sessions SessionToucher) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, response.CodeUnauthorized, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, response.CodeUnauthorized, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, response.CodeUnauthorized, "Token 无效或已过期")
			c.Abort()
			return
		}

		if err := sessions.Touch(c.Request.Context(), claims.SessionID); err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				response.Unauthorized(c, response.CodeSessionExpired, "登录状态已失效，请重新登录")
			} else {
				_ = c.Error(err)
				response.StoreUnavailable(c)
			}
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("login_name", claims.LoginName)
		c.Set("session_id", claims.SessionID)

		c.Next()
	}
}

// RequirePermission 权限标识中间件，需在 JWTAuth 之后使用
func RequirePermission(checker PermissionChecker, perm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get("user_id")
		userID, ok := v.(int64)
		if !exists || !ok {
			response.Unauthorized(c, response.CodeUnauthorized, "未认证")
			c.Abort()
			return
		}

		if !checker.HasPermission(c.Request.Context(), userID, perm) {
			response.Forbidden(c, response.CodeForbidden, "无权限访问")
			c.Abort()
			return
		}

		c.Next()
	}
}
