package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dntest-admin/config"
	"dntest-admin/internal/dto"
	"dntest-admin/internal/service"
	"dntest-admin/pkg/captcha"
	"dntest-admin/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc    service.AuthService
	captchaCfg *config.CaptchaConfig
	captcha    *captcha.Generator
	loginCfg   *config.LoginConfig
	logger     *zap.Logger
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(
	authSvc service.AuthService,
	captchaCfg *config.CaptchaConfig,
	gen *captcha.Generator,
	loginCfg *config.LoginConfig,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, captchaCfg: captchaCfg, captcha: gen, loginCfg: loginCfg, logger: logger}
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeBadParams, "参数校验失败")
		return
	}

	lc := service.LoginContext{
		Client:          clientInfo(c),
		CaptchaExpected: h.takeCaptcha(c),
	}
	result, err := h.authSvc.Login(c.Request.Context(), &req, lc)
	if err != nil {
		h.loginError(c, err)
		return
	}

	response.OK(c, result)
}

// loginError 除验证码与锁定外，所有认证失败使用同一提示
func (h *AuthHandler) loginError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrAccountLocked) {
		response.Error(c, http.StatusUnauthorized, response.CodeAccountLocked,
			fmt.Sprintf("密码输入错误%d次，帐户锁定%d分钟", h.loginCfg.MaxRetry, h.loginCfg.LockMinutes))
		return
	}
	handleError(c, err)
}

// takeCaptcha 取出当前会话的验证码答案（一次性），重放同一会话 Cookie 得到空串
func (h *AuthHandler) takeCaptcha(c *gin.Context) string {
	if !h.captchaCfg.Enabled {
		return ""
	}
	expected, err := h.captcha.Take(c.Request.Context(), sessions.Default(c))
	if err != nil {
		h.logger.Warn("读取验证码会话失败", zap.Error(err))
	}
	return expected
}

// Logout 用户登出
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	loginName, ok := MustGetLoginName(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), loginName); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// Register 自助注册
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeBadParams, "参数校验失败")
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), &req, h.takeCaptcha(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, result)
}

// GetCurrentUser 当前用户信息、角色与权限
// GET /api/v1/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.authSvc.Me(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, result)
}
