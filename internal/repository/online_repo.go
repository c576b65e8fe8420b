package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dntest-admin/internal/model"
	"dntest-admin/internal/session"
)

// OnlineRepo 基于 sys_user_online 的会话存储，实现 session.Store
type OnlineRepo struct {
	db *gorm.DB
}

var _ session.Store = (*OnlineRepo)(nil)

// NewOnlineRepo 创建在线会话存储
func NewOnlineRepo(db *gorm.DB) *OnlineRepo {
	return &OnlineRepo{db: db}
}

// Replace 事务内删除该登录名的全部会话并插入新会话
func (r *OnlineRepo) Replace(ctx context.Context, rec *session.Record) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("login_name = ?", rec.LoginName).Delete(&model.OnlineSession{}).Error; err != nil {
			return err
		}
		return tx.Create(model.NewOnlineSession(rec)).Error
	})
}

// Touch 仅刷新未过期的在线会话
func (r *OnlineRepo) Touch(ctx context.Context, sessionID string, now time.Time) (bool, error) {
	touched := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row model.OnlineSession
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("session_id = ? AND status = ? AND expire_at >= ?", sessionID, string(session.StatusOnline), now).
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		res := tx.Model(&model.OnlineSession{}).
			Where("session_id = ?", sessionID).
			Updates(map[string]interface{}{
				"last_access_time": now,
				"expire_at":        now.Add(time.Duration(row.ExpireTime) * time.Minute),
			})
		touched = res.RowsAffected > 0
		return res.Error
	})
	return touched, err
}

func (r *OnlineRepo) Get(ctx context.Context, sessionID string) (*session.Record, error) {
	var row model.OnlineSession
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, session.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	rec := row.Record()
	return &rec, nil
}

func (r *OnlineRepo) DeleteByLoginName(ctx context.Context, loginName string) error {
	return r.db.WithContext(ctx).Where("login_name = ?", loginName).Delete(&model.OnlineSession{}).Error
}

func (r *OnlineRepo) DeleteBySessionID(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&model.OnlineSession{}).Error
}

// ListLive 在线且未过期的会话，按最后访问时间倒序
func (r *OnlineRepo) ListLive(ctx context.Context, now time.Time, offset, limit int) ([]session.Record, error) {
	var rows []model.OnlineSession
	err := r.live(ctx, now).
		Order("last_access_time DESC, session_id").
		Offset(offset).Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]session.Record, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].Record())
	}
	return out, nil
}

func (r *OnlineRepo) CountLive(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := r.live(ctx, now).Count(&n).Error
	return n, err
}

func (r *OnlineRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expire_at < ?", now).Delete(&model.OnlineSession{})
	return res.RowsAffected, res.Error
}

func (r *OnlineRepo) live(ctx context.Context, now time.Time) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.OnlineSession{}).
		Where("status = ? AND expire_at >= ?", string(session.StatusOnline), now)
}
