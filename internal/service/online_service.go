package service

import (
	"context"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"

	"dntest-admin/internal/dto"
	"dntest-admin/internal/session"
)

// OnlineService 在线用户监控
type OnlineService interface {
	List(ctx context.Context, page, pageSize int) ([]dto.OnlineUserResponse, int64, error)
	// ForceLogout 强退指定会话；不能强退发起请求的会话
	ForceLogout(ctx context.Context, currentSessionID, targetSessionID string) error
}

type onlineService struct {
	registry *session.Registry
	logger   *zap.Logger
}

// NewOnlineService 创建 OnlineService 实例
func NewOnlineService(registry *session.Registry, logger *zap.Logger) OnlineService {
	return &onlineService{registry: registry, logger: logger}
}

func (s *onlineService) List(ctx context.Context, page, pageSize int) ([]dto.OnlineUserResponse, int64, error) {
	records, total, err := s.registry.ListOnline(ctx, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]dto.OnlineUserResponse, 0, len(records))
	if err := copier.Copy(&items, &records); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *onlineService) ForceLogout(ctx context.Context, currentSessionID, targetSessionID string) error {
	if targetSessionID == currentSessionID {
		return ErrKickSelf
	}
	if err := s.registry.Kick(ctx, targetSessionID); err != nil {
		return err
	}
	s.logger.Info("强退会话", zap.String("session_id", targetSessionID))
	return nil
}
