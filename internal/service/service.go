package service

import (
	"go.uber.org/zap"

	"dntest-admin/config"
	"dntest-admin/internal/repository"
	"dntest-admin/internal/session"
	"dntest-admin/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth     AuthService
	Authz    AuthorizationService
	Online   OnlineService
	LoginLog LoginLogService
	Monitor  MonitorService
	System   SystemService
}

// NewService 创建 Service 聚合
// attempts 为 nil 时不启用登录失败锁定
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	registry *session.Registry,
	jwtMgr *jwt.Manager,
	attempts LoginAttemptCounter,
	logger *zap.Logger,
) (*Service, error) {
	authz, err := NewAuthorizationService(&cfg.Cache, repo, logger)
	if err != nil {
		return nil, err
	}

	return &Service{
		Auth:     NewAuthService(cfg, repo, registry, jwtMgr, authz, attempts, logger),
		Authz:    authz,
		Online:   NewOnlineService(registry, logger),
		LoginLog: NewLoginLogService(&cfg.Session, repo, logger),
		Monitor:  NewMonitorService(logger),
		System:   NewSystemService(repo, registry, authz, logger),
	}, nil
}
