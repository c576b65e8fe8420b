package service

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"dntest-admin/config"
	"dntest-admin/internal/rbac"
	"dntest-admin/internal/repository"
)

const (
	subjectKeyPrefix = "subject:"
	catalogKey       = "catalog"
)

// AuthorizationService 权限判定
//
// IsAdmin / HasPermission / BuildMenuTree / Permissions 为全函数：
// 用户不存在或存储异常时记录日志并返回 false / 空结果。
// 主体与菜单目录按 TTL 缓存，后台修改用户或角色后调用 Invalidate* 失效。
type AuthorizationService interface {
	IsAdmin(ctx context.Context, userID int64) bool
	HasPermission(ctx context.Context, userID int64, perm string) bool
	BuildMenuTree(ctx context.Context, userID int64) []*rbac.TreeNode
	Permissions(ctx context.Context, userID int64) []string
	// MenuTree 菜单管理使用的全量树（含按钮与隐藏菜单）
	MenuTree(ctx context.Context) ([]*rbac.TreeNode, error)
	Invalidate(userID int64)
	InvalidateAll()
	Close()
}

type authorizationService struct {
	repo   *repository.Repository
	cache  *ristretto.Cache[string, any]
	ttl    time.Duration
	gen    atomic.Uint64 // 每次失效递增，加载期间发生失效则不回填缓存
	logger *zap.Logger
}

// NewAuthorizationService 创建 AuthorizationService 实例
// cfg.PermissionTTL <= 0 时不缓存，每次调用都从存储加载
func NewAuthorizationService(cfg *config.CacheConfig, repo *repository.Repository, logger *zap.Logger) (AuthorizationService, error) {
	s := &authorizationService{repo: repo, ttl: cfg.PermissionTTL, logger: logger}
	if s.ttl > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config[string, any]{
			NumCounters:        1e5,
			MaxCost:            1e4,
			BufferItems:        64,
			IgnoreInternalCost: true,
		})
		if err != nil {
			return nil, err
		}
		s.cache = cache
	}
	return s, nil
}

func (s *authorizationService) IsAdmin(ctx context.Context, userID int64) bool {
	subject, err := s.subject(ctx, userID)
	if err != nil {
		s.logger.Error("加载授权主体失败", zap.Int64("user_id", userID), zap.Error(err))
		return false
	}
	return rbac.IsAdmin(subject)
}

func (s *authorizationService) HasPermission(ctx context.Context, userID int64, perm string) bool {
	subject, err := s.subject(ctx, userID)
	if err != nil {
		s.logger.Error("加载授权主体失败", zap.Int64("user_id", userID), zap.Error(err))
		return false
	}
	if !subject.Usable() {
		return false
	}
	if rbac.IsAdmin(subject) {
		return true
	}

	catalog, err := s.catalog(ctx)
	if err != nil {
		s.logger.Error("加载菜单目录失败", zap.Error(err))
		return false
	}
	return rbac.HasPermission(subject, catalog, perm)
}

func (s *authorizationService) BuildMenuTree(ctx context.Context, userID int64) []*rbac.TreeNode {
	subject, catalog, ok := s.load(ctx, userID)
	if !ok {
		return []*rbac.TreeNode{}
	}
	return rbac.BuildMenuTree(rbac.SelectNavigable(subject, catalog))
}

func (s *authorizationService) Permissions(ctx context.Context, userID int64) []string {
	subject, catalog, ok := s.load(ctx, userID)
	if !ok {
		return []string{}
	}
	return rbac.EffectivePermissions(subject, catalog).List()
}

func (s *authorizationService) MenuTree(ctx context.Context) ([]*rbac.TreeNode, error) {
	menus, err := s.repo.Menu.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	flat := make([]rbac.Menu, 0, len(menus))
	for i := range menus {
		flat = append(flat, menus[i].ToRBAC())
	}
	return rbac.BuildMenuTree(flat), nil
}

func (s *authorizationService) Invalidate(userID int64) {
	s.gen.Add(1)
	if s.cache != nil {
		s.cache.Del(subjectKey(userID))
	}
}

func (s *authorizationService) InvalidateAll() {
	s.gen.Add(1)
	if s.cache != nil {
		s.cache.Clear()
	}
}

func (s *authorizationService) Close() {
	if s.cache != nil {
		s.cache.Close()
	}
}

// ── 加载 ──

func (s *authorizationService) load(ctx context.Context, userID int64) (*rbac.Subject, rbac.Catalog, bool) {
	subject, err := s.subject(ctx, userID)
	if err != nil {
		s.logger.Error("加载授权主体失败", zap.Int64("user_id", userID), zap.Error(err))
		return nil, nil, false
	}
	if !subject.Usable() {
		return nil, nil, false
	}
	catalog, err := s.catalog(ctx)
	if err != nil {
		s.logger.Error("加载菜单目录失败", zap.Error(err))
		return nil, nil, false
	}
	return subject, catalog, true
}

// subject 用户不存在时返回 (nil, nil)
func (s *authorizationService) subject(ctx context.Context, userID int64) (*rbac.Subject, error) {
	key := subjectKey(userID)
	if v, ok := s.get(key); ok {
		return v.(*rbac.Subject), nil
	}

	gen := s.gen.Load()
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	roleIDs := make([]int64, 0, len(user.Roles))
	for _, r := range user.Roles {
		roleIDs = append(roleIDs, r.RoleID)
	}
	roleMenus, err := s.repo.Role.MenuIDsByRoles(ctx, roleIDs)
	if err != nil {
		return nil, err
	}

	subject := user.Subject(roleMenus)
	s.set(key, subject, gen)
	return subject, nil
}

func (s *authorizationService) catalog(ctx context.Context) (rbac.Catalog, error) {
	if v, ok := s.get(catalogKey); ok {
		return v.(rbac.Catalog), nil
	}

	gen := s.gen.Load()
	menus, err := s.repo.Menu.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	flat := make([]rbac.Menu, 0, len(menus))
	for i := range menus {
		flat = append(flat, menus[i].ToRBAC())
	}

	catalog := rbac.NewCatalog(flat)
	s.set(catalogKey, catalog, gen)
	return catalog, nil
}

func (s *authorizationService) get(key string) (any, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(key)
}

func (s *authorizationService) set(key string, v any, gen uint64) {
	if s.cache == nil || s.gen.Load() != gen {
		return
	}
	s.cache.SetWithTTL(key, v, 1, s.ttl)
	s.cache.Wait()
	// Wait 期间发生失效时丢弃刚写入的值
	if s.gen.Load() != gen {
		s.cache.Del(key)
	}
}

func subjectKey(userID int64) string {
	return subjectKeyPrefix + strconv.FormatInt(userID, 10)
}
