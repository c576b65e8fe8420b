package session

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper 定时清理过期会话
type Sweeper struct {
	registry *Registry
	cron     *cron.Cron
	timeout  time.Duration
	logger   *zap.Logger
	// onSweep 每轮清理后回调在线数（用于指标上报）
	onSweep func(online int64)
}

// NewSweeper 按 cron 表达式创建清理任务，支持 "@every 1m" 形式
func NewSweeper(registry *Registry, spec string, logger *zap.Logger, onSweep func(online int64)) (*Sweeper, error) {
	// 任务 panic 由 cron.Recover 捕获后以 Error 级别写入日志
	stdLog, err := zap.NewStdLogAt(logger.Named("cron"), zap.ErrorLevel)
	if err != nil {
		return nil, err
	}

	s := &Sweeper{
		registry: registry,
		cron:     cron.New(cron.WithChain(cron.Recover(cron.PrintfLogger(stdLog)))),
		timeout:  30 * time.Second,
		logger:   logger,
		onSweep:  onSweep,
	}
	if _, err := s.cron.AddFunc(spec, s.RunOnce); err != nil {
		return nil, fmt.Errorf("无效的会话清理周期 %q: %w", spec, err)
	}
	return s, nil
}

// Start 启动定时任务
func (s *Sweeper) Start() {
	s.cron.Start()
	s.logger.Info("会话清理任务已启动")
}

// Stop 停止调度并等待当前任务结束
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce 执行一轮清理
func (s *Sweeper) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.registry.Sweep(ctx)
	if err != nil {
		s.logger.Error("清理过期会话失败", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("已清理过期会话", zap.Int64("count", n))
	}

	if s.onSweep == nil {
		return
	}
	online, err := s.registry.CountOnline(ctx)
	if err != nil {
		s.logger.Warn("统计在线会话失败", zap.Error(err))
		return
	}
	s.onSweep(online)
}
