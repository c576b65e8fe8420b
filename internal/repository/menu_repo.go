package repository

import (
	"context"

	"gorm.io/gorm"

	"dntest-admin/internal/model"
)

// MenuRepository 菜单数据访问接口
type MenuRepository interface {
	// ListAll 全部菜单，按 parent_id、order_num 排序
	ListAll(ctx context.Context) ([]model.Menu, error)
	CountByIDs(ctx context.Context, ids []int64) (int64, error)
}

type menuRepo struct {
	db *gorm.DB
}

// NewMenuRepo 创建 MenuRepository 实例
func NewMenuRepo(db *gorm.DB) MenuRepository {
	return &menuRepo{db: db}
}

func (r *menuRepo) ListAll(ctx context.Context) ([]model.Menu, error) {
	var menus []model.Menu
	err := r.db.WithContext(ctx).
		Order("parent_id, order_num, menu_id").
		Find(&menus).Error
	return menus, err
}

func (r *menuRepo) CountByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Menu{}).
		Where("menu_id IN ?", ids).
		Count(&n).Error
	return n, err
}
