package handler

import (
	"net"
	"strconv"

	"github.com/gin-gonic/gin"

	"dntest-admin/internal/service"
	"dntest-admin/internal/session"
	"dntest-admin/pkg/response"
	"dntest-admin/pkg/useragent"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, response.CodeUnauthorized, "未认证")
		return 0, false
	}
	id, ok := v.(int64)
	if !ok || id <= 0 {
		response.Unauthorized(c, response.CodeUnauthorized, "未认证")
		return 0, false
	}
	return id, true
}

// MustGetLoginName 从 Gin 上下文中安全提取 login_name。
func MustGetLoginName(c *gin.Context) (string, bool) {
	return mustGetString(c, "login_name")
}

// MustGetSessionID 从 Gin 上下文中安全提取 session_id。
func MustGetSessionID(c *gin.Context) (string, bool) {
	return mustGetString(c, "session_id")
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, response.CodeUnauthorized, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, response.CodeUnauthorized, "未认证")
		return "", false
	}
	return s, true
}

// mustGetOperator 当前登录用户，作为后台修改的操作人
func mustGetOperator(c *gin.Context) (service.Operator, bool) {
	id, ok := MustGetUserID(c)
	if !ok {
		return service.Operator{}, false
	}
	name, ok := MustGetLoginName(c)
	if !ok {
		return service.Operator{}, false
	}
	return service.Operator{UserID: id, LoginName: name}, true
}

// parseIDParam 解析路径中的正整数 ID，失败时写入 400
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, response.CodeBadParams, "无效的 "+name)
		return 0, false
	}
	return id, true
}

// clientInfo 提取客户端 IP 与浏览器/操作系统
func clientInfo(c *gin.Context) session.ClientInfo {
	ip := c.ClientIP()
	ua := useragent.Parse(c.GetHeader("User-Agent"))
	return session.ClientInfo{
		IPAddr:        ip,
		LoginLocation: ipLocation(ip),
		Browser:       ua.Browser,
		OS:            ua.OS,
	}
}

// ipLocation 只区分内网地址，公网归属地不解析
func ipLocation(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "未知"
	}
	if parsed.IsLoopback() || parsed.IsPrivate() {
		return "内网IP"
	}
	return "未知"
}
