// Package session 在线会话登记
//
// 同一登录名至多一条未过期记录；新登录会删除旧记录。
// 过期判定在读取时按 expire_at 惰性过滤，定时清理只是回收空间。
package session

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound 会话不存在或已过期
var ErrSessionNotFound = errors.New("会话不存在或已过期")

// Status 在线状态
type Status string

const (
	StatusOnline  Status = "on_line"
	StatusOffline Status = "off_line"
)

// ClientInfo 登录客户端信息
type ClientInfo struct {
	IPAddr        string
	LoginLocation string
	Browser       string
	OS            string
	DeptName      string
}

// Record 在线会话记录
type Record struct {
	SessionID      string
	LoginName      string
	DeptName       string
	IPAddr         string
	LoginLocation  string
	Browser        string
	OS             string
	Status         Status
	StartTime      time.Time
	LastAccessTime time.Time
	ExpireMinutes  int
	// ExpireAt = LastAccessTime + ExpireMinutes，存储层据此做新鲜度过滤
	ExpireAt time.Time
}

// IsExpired now - last_access_time > expire_minutes
func IsExpired(r *Record, now time.Time) bool {
	if r == nil {
		return true
	}
	ttl := time.Duration(r.ExpireMinutes) * time.Minute
	return now.Sub(r.LastAccessTime) > ttl
}

// Live 在线且未过期
func (r *Record) Live(now time.Time) bool {
	return r != nil && r.Status == StatusOnline && !IsExpired(r, now)
}

// Store 会话存储
// Replace 必须在单个事务内删除该登录名的全部记录并插入新记录。
// 带 now 参数的查询只返回 status=online 且 expire_at >= now 的记录。
type Store interface {
	Replace(ctx context.Context, rec *Record) error
	Touch(ctx context.Context, sessionID string, now time.Time) (bool, error)
	Get(ctx context.Context, sessionID string) (*Record, error)
	DeleteByLoginName(ctx context.Context, loginName string) error
	DeleteBySessionID(ctx context.Context, sessionID string) error
	ListLive(ctx context.Context, now time.Time, offset, limit int) ([]Record, error)
	CountLive(ctx context.Context, now time.Time) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Locker 跨进程的登录名互斥锁
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(context.Context) error, err error)
}
