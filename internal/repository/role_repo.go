package repository

import (
	"context"

	"gorm.io/gorm"

	"dntest-admin/internal/model"
)

// RoleRepository 角色数据访问接口
type RoleRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Role, error)
	GetByKey(ctx context.Context, key string) (*model.Role, error)
	UpdateStatus(ctx context.Context, id int64, status, updateBy string) error
	ReplaceMenus(ctx context.Context, roleID int64, menuIDs []int64) error
	// MenuIDsByRoles 返回 role_id → menu_id 集合
	MenuIDsByRoles(ctx context.Context, roleIDs []int64) (map[int64][]int64, error)
}

type roleRepo struct {
	db *gorm.DB
}

// NewRoleRepo 创建 RoleRepository 实例
func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) GetByID(ctx context.Context, id int64) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).
		Where("role_id = ? AND del_flag = ?", id, model.DelFlagExist).
		First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) GetByKey(ctx context.Context, key string) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).
		Where("role_key = ? AND del_flag = ?", key, model.DelFlagExist).
		First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) UpdateStatus(ctx context.Context, id int64, status, updateBy string) error {
	res := r.db.WithContext(ctx).Model(&model.Role{}).
		Where("role_id = ? AND del_flag = ?", id, model.DelFlagExist).
		Updates(map[string]interface{}{"status": status, "update_by": updateBy})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplaceMenus 在事务内整体替换角色的菜单授权
func (r *roleRepo) ReplaceMenus(ctx context.Context, roleID int64, menuIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", roleID).Delete(&model.RoleMenu{}).Error; err != nil {
			return err
		}
		if len(menuIDs) == 0 {
			return nil
		}
		links := make([]model.RoleMenu, 0, len(menuIDs))
		for _, mid := range menuIDs {
			links = append(links, model.RoleMenu{RoleID: roleID, MenuID: mid})
		}
		return tx.Create(&links).Error
	})
}

func (r *roleRepo) MenuIDsByRoles(ctx context.Context, roleIDs []int64) (map[int64][]int64, error) {
	out := make(map[int64][]int64, len(roleIDs))
	if len(roleIDs) == 0 {
		return out, nil
	}

	var links []model.RoleMenu
	err := r.db.WithContext(ctx).
		Where("role_id IN ?", roleIDs).
		Order("role_id, menu_id").
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	for _, l := range links {
		out[l.RoleID] = append(out[l.RoleID], l.MenuID)
	}
	return out, nil
}
