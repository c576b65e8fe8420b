package model

import "time"

// 状态码：0 正常 / 1 停用
const (
	StatusNormal  = "0"
	StatusDisable = "1"
)

// 删除标记：0 存在 / 2 删除
const (
	DelFlagExist   = "0"
	DelFlagDeleted = "2"
)

// 登录日志状态：0 成功 / 1 失败
const (
	LoginSuccess = "0"
	LoginFail    = "1"
)

// AuditModel 通用审计字段
type AuditModel struct {
	CreateBy  string    `gorm:"type:varchar(64);not null;default:''" json:"create_by"`
	CreatedAt time.Time `gorm:"not null"                             json:"created_at"`
	UpdateBy  string    `gorm:"type:varchar(64);not null;default:''" json:"update_by"`
	UpdatedAt time.Time `gorm:"not null"                             json:"updated_at"`
}
