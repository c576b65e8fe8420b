package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "dntest-admin/pkg/errors"
)

const (
	defaultPageSize    = 10
	defaultMaxPageSize = 100
)

// Registry 在线会话登记簿
type Registry struct {
	store         Store
	locks         *keyedMutex
	locker        Locker
	expireMinutes int
	pageSize      int
	maxPageSize   int
	now           func() time.Time
	logger        *zap.Logger
}

// Option Registry 可选项
type Option func(*Registry)

// WithClock 注入时钟
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithLocker 多实例部署时的分布式锁
func WithLocker(l Locker) Option {
	return func(r *Registry) { r.locker = l }
}

// WithPaging 默认页大小与上限
func WithPaging(pageSize, maxPageSize int) Option {
	return func(r *Registry) {
		if pageSize > 0 {
			r.pageSize = pageSize
		}
		if maxPageSize > 0 {
			r.maxPageSize = maxPageSize
		}
	}
}

// NewRegistry 创建会话登记簿
func NewRegistry(store Store, expireMinutes int, logger *zap.Logger, opts ...Option) *Registry {
	r := &Registry{
		store:         store,
		locks:         newKeyedMutex(),
		expireMinutes: expireMinutes,
		pageSize:      defaultPageSize,
		maxPageSize:   defaultMaxPageSize,
		now:           time.Now,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Now 当前时间（使用注入的时钟）
func (r *Registry) Now() time.Time { return r.now() }

// Create 为登录名创建新会话，删除其旧会话
func (r *Registry) Create(ctx context.Context, loginName string, client ClientInfo) (string, error) {
	unlock, err := r.lockIdentity(ctx, loginName)
	if err != nil {
		return "", err
	}
	defer unlock()

	now := r.now()
	rec := &Record{
		SessionID:      uuid.NewString(),
		LoginName:      loginName,
		DeptName:       client.DeptName,
		IPAddr:         client.IPAddr,
		LoginLocation:  client.LoginLocation,
		Browser:        client.Browser,
		OS:             client.OS,
		Status:         StatusOnline,
		StartTime:      now,
		LastAccessTime: now,
		ExpireMinutes:  r.expireMinutes,
		ExpireAt:       now.Add(time.Duration(r.expireMinutes) * time.Minute),
	}
	if err := r.store.Replace(ctx, rec); err != nil {
		return "", apperrors.StoreUnavailable(fmt.Errorf("创建会话失败: %w", err))
	}
	return rec.SessionID, nil
}

// Touch 刷新最后访问时间；会话不存在或已过期返回 ErrSessionNotFound
func (r *Registry) Touch(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrSessionNotFound
	}
	ok, err := r.store.Touch(ctx, sessionID, r.now())
	if err != nil {
		return apperrors.StoreUnavailable(err)
	}
	if !ok {
		return ErrSessionNotFound
	}
	return nil
}

// Get 查询未过期的会话
func (r *Registry) Get(ctx context.Context, sessionID string) (*Record, error) {
	rec, err := r.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, apperrors.StoreUnavailable(err)
	}
	if !rec.Live(r.now()) {
		return nil, ErrSessionNotFound
	}
	return rec, nil
}

// End 删除登录名的会话，幂等
func (r *Registry) End(ctx context.Context, loginName string) error {
	unlock, err := r.lockIdentity(ctx, loginName)
	if err != nil {
		return err
	}
	defer unlock()

	if err := r.store.DeleteByLoginName(ctx, loginName); err != nil {
		return apperrors.StoreUnavailable(err)
	}
	return nil
}

// Kick 按会话 ID 强制下线，幂等
func (r *Registry) Kick(ctx context.Context, sessionID string) error {
	if err := r.store.DeleteBySessionID(ctx, sessionID); err != nil {
		return apperrors.StoreUnavailable(err)
	}
	return nil
}

// IsExpired 使用注入时钟判定
func (r *Registry) IsExpired(rec *Record) bool {
	return IsExpired(rec, r.now())
}

// ListOnline 分页查询在线会话，按最后访问时间倒序
// page 从 1 开始；pageSize <= 0 取默认值，超过上限按上限截断
func (r *Registry) ListOnline(ctx context.Context, page, pageSize int) ([]Record, int64, error) {
	page, pageSize = r.normalizePage(page, pageSize)
	now := r.now()

	total, err := r.store.CountLive(ctx, now)
	if err != nil {
		return nil, 0, apperrors.StoreUnavailable(err)
	}
	if total == 0 {
		return []Record{}, 0, nil
	}

	rows, err := r.store.ListLive(ctx, now, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, apperrors.StoreUnavailable(err)
	}
	return rows, total, nil
}

// CountOnline 在线会话数
func (r *Registry) CountOnline(ctx context.Context) (int64, error) {
	n, err := r.store.CountLive(ctx, r.now())
	if err != nil {
		return 0, apperrors.StoreUnavailable(err)
	}
	return n, nil
}

// Sweep 删除已过期记录
func (r *Registry) Sweep(ctx context.Context) (int64, error) {
	n, err := r.store.DeleteExpired(ctx, r.now())
	if err != nil {
		return 0, apperrors.StoreUnavailable(err)
	}
	return n, nil
}

func (r *Registry) normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = r.pageSize
	}
	if pageSize > r.maxPageSize {
		pageSize = r.maxPageSize
	}
	return page, pageSize
}

// lockIdentity 先取进程内锁，再取分布式锁
func (r *Registry) lockIdentity(ctx context.Context, loginName string) (func(), error) {
	release := r.locks.Lock(loginName)
	if r.locker == nil {
		return release, nil
	}

	unlock, err := r.locker.Lock(ctx, "session:identity:"+loginName)
	if err != nil {
		release()
		return nil, apperrors.StoreUnavailable(fmt.Errorf("获取会话锁失败: %w", err))
	}
	return func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			r.logger.Warn("释放会话锁失败", zap.String("login_name", loginName), zap.Error(err))
		}
		release()
	}, nil
}
