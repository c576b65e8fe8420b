package model

import "time"

// LoginLog 登录日志表 — 对应 sys_logininfor，只追加
type LoginLog struct {
	InfoID        int64     `gorm:"primaryKey;autoIncrement"              json:"info_id"`
	LoginName     string    `gorm:"type:varchar(50);not null;default:''"  json:"login_name"`
	IPAddr        string    `gorm:"column:ipaddr;type:varchar(128);not null;default:''" json:"ipaddr"`
	LoginLocation string    `gorm:"type:varchar(255);not null;default:''" json:"login_location"`
	Browser       string    `gorm:"type:varchar(50);not null;default:''"  json:"browser"`
	OS            string    `gorm:"column:os;type:varchar(50);not null;default:''" json:"os"`
	Status        string    `gorm:"type:char(1);not null;default:'0'"     json:"status"`
	Msg           string    `gorm:"type:varchar(255);not null;default:''" json:"msg"`
	LoginTime     time.Time `gorm:"not null;index"                        json:"login_time"`
}

// TableName 指定表名
func (LoginLog) TableName() string { return "sys_logininfor" }
