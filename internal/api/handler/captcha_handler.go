package handler

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dntest-admin/config"
	"dntest-admin/internal/dto"
	"dntest-admin/pkg/captcha"
	"dntest-admin/pkg/response"
)

// CaptchaHandler 登录验证码
type CaptchaHandler struct {
	cfg    *config.CaptchaConfig
	gen    *captcha.Generator
	logger *zap.Logger
}

// NewCaptchaHandler 创建 CaptchaHandler
func NewCaptchaHandler(cfg *config.CaptchaConfig, gen *captcha.Generator, logger *zap.Logger) *CaptchaHandler {
	return &CaptchaHandler{cfg: cfg, gen: gen, logger: logger}
}

// Get 生成验证码，答案保存在服务端，会话中只记录挑战 ID
// GET /api/v1/captcha?type=math
func (h *CaptchaHandler) Get(c *gin.Context) {
	if !h.cfg.Enabled {
		response.OK(c, dto.CaptchaResponse{Enabled: false})
		return
	}

	if typ := c.Query("type"); typ != "" && typ != captcha.TypeMath {
		response.BadRequest(c, response.CodeBadParams, "不支持的验证码类型")
		return
	}

	text, err := h.gen.Issue(c.Request.Context(), sessions.Default(c))
	if err != nil {
		h.logger.Error("保存验证码失败", zap.Error(err))
		response.InternalError(c)
		return
	}

	response.OK(c, dto.CaptchaResponse{
		Enabled:   true,
		Type:      captcha.TypeMath,
		Text:      text,
		ExpiresIn: int(h.cfg.Expire.Seconds()),
	})
}
