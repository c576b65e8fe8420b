package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"dntest-admin/internal/model"
)

// LoginLogFilter 登录日志查询条件
type LoginLogFilter struct {
	LoginName string
	IPAddr    string
	Status    string
	BeginTime *time.Time
	EndTime   *time.Time
}

// LoginLogRepository 登录日志数据访问接口
type LoginLogRepository interface {
	Create(ctx context.Context, log *model.LoginLog) error
	List(ctx context.Context, f LoginLogFilter, offset, limit int) ([]model.LoginLog, int64, error)
}

type loginLogRepo struct {
	db *gorm.DB
}

// NewLoginLogRepo 创建 LoginLogRepository 实例
func NewLoginLogRepo(db *gorm.DB) LoginLogRepository {
	return &loginLogRepo{db: db}
}

func (r *loginLogRepo) Create(ctx context.Context, log *model.LoginLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// List 按登录时间倒序分页
func (r *loginLogRepo) List(ctx context.Context, f LoginLogFilter, offset, limit int) ([]model.LoginLog, int64, error) {
	var logs []model.LoginLog
	var total int64

	db := r.db.WithContext(ctx).Model(&model.LoginLog{})
	if f.LoginName != "" {
		db = db.Where("login_name LIKE ?", "%"+f.LoginName+"%")
	}
	if f.IPAddr != "" {
		db = db.Where("ipaddr LIKE ?", "%"+f.IPAddr+"%")
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if f.BeginTime != nil {
		db = db.Where("login_time >= ?", *f.BeginTime)
	}
	if f.EndTime != nil {
		db = db.Where("login_time <= ?", *f.EndTime)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Order("login_time DESC, info_id DESC").
		Offset(offset).Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
