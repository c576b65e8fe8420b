package handler

import (
	"go.uber.org/zap"

	"dntest-admin/config"
	"dntest-admin/internal/service"
	"dntest-admin/pkg/captcha"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Captcha *CaptchaHandler
	Auth    *AuthHandler
	Menu    *MenuHandler
	System  *SystemHandler
	Monitor *MonitorHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service, captchaStore captcha.Store, logger *zap.Logger) *Handler {
	gen := captcha.NewGenerator(&cfg.Captcha, captchaStore)
	return &Handler{
		Captcha: NewCaptchaHandler(&cfg.Captcha, gen, logger),
		Auth:    NewAuthHandler(svc.Auth, &cfg.Captcha, gen, &cfg.Login, logger),
		Menu:    NewMenuHandler(svc.Authz),
		System:  NewSystemHandler(svc.System),
		Monitor: NewMonitorHandler(&cfg.Session, svc.Online, svc.LoginLog, svc.Monitor),
	}
}
