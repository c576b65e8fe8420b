package service

import (
	"context"
	"errors"

	"github.com/duke-git/lancet/v2/slice"
	"github.com/jinzhu/copier"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"dntest-admin/internal/dto"
	"dntest-admin/internal/model"
	"dntest-admin/internal/rbac"
	"dntest-admin/internal/repository"
	"dntest-admin/internal/session"
	apperrors "dntest-admin/pkg/errors"
)

// Operator 发起后台修改的当前用户
type Operator struct {
	UserID    int64
	LoginName string
}

// SystemService 用户与角色的后台修改
// 所有修改都会使相关的权限缓存失效
type SystemService interface {
	UpdateUserStatus(ctx context.Context, op Operator, userID int64, status string) error
	DeleteUser(ctx context.Context, op Operator, userID int64) error
	UpdateRoleStatus(ctx context.Context, op Operator, roleID int64, status string) (*dto.RoleResponse, error)
	UpdateRoleMenus(ctx context.Context, op Operator, roleID int64, menuIDs []int64) error
	// EnsureAdmin 超级管理员账号不存在时按给定密码创建
	EnsureAdmin(ctx context.Context, loginName, password string) error
}

type systemService struct {
	repo     *repository.Repository
	registry *session.Registry
	authz    AuthorizationService
	logger   *zap.Logger
}

// NewSystemService 创建 SystemService 实例
func NewSystemService(
	repo *repository.Repository,
	registry *session.Registry,
	authz AuthorizationService,
	logger *zap.Logger,
) SystemService {
	return &systemService{repo: repo, registry: registry, authz: authz, logger: logger}
}

// ── 用户 ──

// UpdateUserStatus 启用/停用用户；停用时同时结束其会话
func (s *systemService) UpdateUserStatus(ctx context.Context, op Operator, userID int64, status string) error {
	if userID == op.UserID {
		return ErrCannotModifySelf
	}
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.repo.User.UpdateStatus(ctx, userID, status, op.LoginName); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserMissing
		}
		return apperrors.StoreUnavailable(err)
	}
	s.authz.Invalidate(userID)

	if status == model.StatusDisable {
		if err := s.registry.End(ctx, user.LoginName); err != nil {
			return err
		}
	}
	s.logger.Info("修改用户状态",
		zap.String("operator", op.LoginName),
		zap.String("login_name", user.LoginName),
		zap.String("status", status),
	)
	return nil
}

// DeleteUser 软删除用户并结束其会话
func (s *systemService) DeleteUser(ctx context.Context, op Operator, userID int64) error {
	if userID == op.UserID {
		return ErrCannotModifySelf
	}
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.repo.User.SoftDelete(ctx, userID, op.LoginName); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserMissing
		}
		return apperrors.StoreUnavailable(err)
	}
	s.authz.Invalidate(userID)

	if err := s.registry.End(ctx, user.LoginName); err != nil {
		return err
	}
	s.logger.Info("删除用户", zap.String("operator", op.LoginName), zap.String("login_name", user.LoginName))
	return nil
}

func (s *systemService) loadUser(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserMissing
		}
		return nil, apperrors.StoreUnavailable(err)
	}
	return user, nil
}

// ── 角色 ──

func (s *systemService) UpdateRoleStatus(ctx context.Context, op Operator, roleID int64, status string) (*dto.RoleResponse, error) {
	role, err := s.loadRole(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Role.UpdateStatus(ctx, roleID, status, op.LoginName); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, apperrors.StoreUnavailable(err)
	}
	s.authz.InvalidateAll()
	role.Status = status

	resp := &dto.RoleResponse{}
	if err := copier.Copy(resp, role); err != nil {
		return nil, err
	}
	s.logger.Info("修改角色状态",
		zap.String("operator", op.LoginName),
		zap.String("role_key", role.RoleKey),
		zap.String("status", status),
	)
	return resp, nil
}

// UpdateRoleMenus 整体替换角色菜单授权，菜单 ID 去重后必须全部存在
func (s *systemService) UpdateRoleMenus(ctx context.Context, op Operator, roleID int64, menuIDs []int64) error {
	role, err := s.loadRole(ctx, roleID)
	if err != nil {
		return err
	}

	menuIDs = slice.Unique(menuIDs)
	n, err := s.repo.Menu.CountByIDs(ctx, menuIDs)
	if err != nil {
		return apperrors.StoreUnavailable(err)
	}
	if n != int64(len(menuIDs)) {
		return ErrMenuNotFound
	}

	if err := s.repo.Role.ReplaceMenus(ctx, roleID, menuIDs); err != nil {
		return apperrors.StoreUnavailable(err)
	}
	s.authz.InvalidateAll()

	s.logger.Info("修改角色菜单授权",
		zap.String("operator", op.LoginName),
		zap.String("role_key", role.RoleKey),
		zap.Int("menus", len(menuIDs)),
	)
	return nil
}

// loadRole 超级管理员角色不允许修改
func (s *systemService) loadRole(ctx context.Context, roleID int64) (*model.Role, error) {
	role, err := s.repo.Role.GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, apperrors.StoreUnavailable(err)
	}
	if role.RoleKey == rbac.AdminRoleKey {
		return nil, ErrAdminRoleProtected
	}
	return role, nil
}

// ── 初始化 ──

func (s *systemService) EnsureAdmin(ctx context.Context, loginName, password string) error {
	exists, err := s.repo.User.ExistsLoginName(ctx, loginName)
	if err != nil {
		return apperrors.StoreUnavailable(err)
	}
	if exists {
		return nil
	}
	if password == "" {
		s.logger.Warn("未配置 bootstrap.admin_password，跳过创建管理员", zap.String("login_name", loginName))
		return nil
	}

	role, err := s.repo.Role.GetByKey(ctx, rbac.AdminRoleKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return apperrors.StoreUnavailable(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := s.registry.Now()
	user := &model.User{
		LoginName:     loginName,
		UserName:      "管理员",
		Password:      string(hash),
		Status:        model.StatusNormal,
		DelFlag:       model.DelFlagExist,
		PwdUpdateDate: &now,
	}
	user.CreateBy = "system"
	if err := s.repo.User.Create(ctx, user, []int64{role.RoleID}); err != nil {
		return apperrors.StoreUnavailable(err)
	}

	s.logger.Info("已创建超级管理员", zap.String("login_name", loginName))
	return nil
}
