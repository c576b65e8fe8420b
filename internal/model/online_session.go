package model

import (
	"time"

	"dntest-admin/internal/session"
)

// OnlineSession 在线会话表 — 对应 sys_user_online
type OnlineSession struct {
	SessionID      string    `gorm:"primaryKey;type:varchar(64)"                json:"session_id"`
	LoginName      string    `gorm:"type:varchar(50);not null;uniqueIndex"      json:"login_name"`
	DeptName       string    `gorm:"type:varchar(50);not null;default:''"       json:"dept_name"`
	IPAddr         string    `gorm:"column:ipaddr;type:varchar(128);not null;default:''" json:"ipaddr"`
	LoginLocation  string    `gorm:"type:varchar(255);not null;default:''"      json:"login_location"`
	Browser        string    `gorm:"type:varchar(50);not null;default:''"       json:"browser"`
	OS             string    `gorm:"column:os;type:varchar(50);not null;default:''" json:"os"`
	Status         string    `gorm:"type:varchar(10);not null;default:'on_line'" json:"status"`
	StartTimestamp time.Time `gorm:"not null"                                   json:"start_timestamp"`
	LastAccessTime time.Time `gorm:"not null"                                   json:"last_access_time"`
	ExpireTime     int       `gorm:"not null"                                   json:"expire_time"`
	ExpireAt       time.Time `gorm:"not null;index"                             json:"expire_at"`
}

// TableName 指定表名
func (OnlineSession) TableName() string { return "sys_user_online" }

// NewOnlineSession 由会话记录构造
func NewOnlineSession(r *session.Record) *OnlineSession {
	return &OnlineSession{
		SessionID:      r.SessionID,
		LoginName:      r.LoginName,
		DeptName:       r.DeptName,
		IPAddr:         r.IPAddr,
		LoginLocation:  r.LoginLocation,
		Browser:        r.Browser,
		OS:             r.OS,
		Status:         string(r.Status),
		StartTimestamp: r.StartTime,
		LastAccessTime: r.LastAccessTime,
		ExpireTime:     r.ExpireMinutes,
		ExpireAt:       r.ExpireAt,
	}
}

// Record 转换为会话记录
func (o *OnlineSession) Record() session.Record {
	return session.Record{
		SessionID:      o.SessionID,
		LoginName:      o.LoginName,
		DeptName:       o.DeptName,
		IPAddr:         o.IPAddr,
		LoginLocation:  o.LoginLocation,
		Browser:        o.Browser,
		OS:             o.OS,
		Status:         session.Status(o.Status),
		StartTime:      o.StartTimestamp,
		LastAccessTime: o.LastAccessTime,
		ExpireMinutes:  o.ExpireTime,
		ExpireAt:       o.ExpireAt,
	}
}
