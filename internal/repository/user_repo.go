package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"dntest-admin/internal/model"
)

// UserRepository 用户数据访问接口
// 查询均只返回未删除（del_flag='0'）的用户
type UserRepository interface {
	Create(ctx context.Context, user *model.User, roleIDs []int64) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByLoginName(ctx context.Context, loginName string) (*model.User, error)
	ExistsLoginName(ctx context.Context, loginName string) (bool, error)
	UpdateLoginInfo(ctx context.Context, id int64, ip string, at time.Time) error
	UpdateStatus(ctx context.Context, id int64, status, updateBy string) error
	SoftDelete(ctx context.Context, id int64, updateBy string) error
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

// Create 创建用户并写入角色关联
func (r *userRepo) Create(ctx context.Context, user *model.User, roleIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Dept", "Roles", "Posts").Create(user).Error; err != nil {
			return err
		}
		if len(roleIDs) == 0 {
			return nil
		}
		links := make([]model.UserRole, 0, len(roleIDs))
		for _, rid := range roleIDs {
			links = append(links, model.UserRole{UserID: user.UserID, RoleID: rid})
		}
		return tx.Create(&links).Error
	})
}

// GetByID 加载用户及部门、角色
func (r *userRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Dept").
		Preload("Roles", "del_flag = ?", model.DelFlagExist).
		Where("user_id = ? AND del_flag = ?", id, model.DelFlagExist).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByLoginName(ctx context.Context, loginName string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Dept").
		Where("login_name = ? AND del_flag = ?", loginName, model.DelFlagExist).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsLoginName 登录名唯一性校验（包含已删除用户）
func (r *userRepo) ExistsLoginName(ctx context.Context, loginName string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("login_name = ?", loginName).
		Count(&n).Error
	return n > 0, err
}

func (r *userRepo) UpdateLoginInfo(ctx context.Context, id int64, ip string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("user_id = ?", id).
		Updates(map[string]interface{}{"login_ip": ip, "login_date": at}).Error
}

func (r *userRepo) UpdateStatus(ctx context.Context, id int64, status, updateBy string) error {
	return r.updateExisting(ctx, id, map[string]interface{}{"status": status, "update_by": updateBy})
}

// SoftDelete 标记删除，不物理删除
func (r *userRepo) SoftDelete(ctx context.Context, id int64, updateBy string) error {
	return r.updateExisting(ctx, id, map[string]interface{}{"del_flag": model.DelFlagDeleted, "update_by": updateBy})
}

func (r *userRepo) updateExisting(ctx context.Context, id int64, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("user_id = ? AND del_flag = ?", id, model.DelFlagExist).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
