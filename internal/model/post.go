package model

import "time"

// Post 岗位表 — 对应 sys_post，仅用于展示
type Post struct {
	PostID    int64     `gorm:"primaryKey;autoIncrement"          json:"post_id"`
	PostCode  string    `gorm:"type:varchar(64);not null"         json:"post_code"`
	PostName  string    `gorm:"type:varchar(50);not null"         json:"post_name"`
	PostSort  int       `gorm:"not null;default:0"                json:"post_sort"`
	Status    string    `gorm:"type:char(1);not null;default:'0'" json:"status"`
	CreatedAt time.Time `gorm:"not null"                          json:"created_at"`
	UpdatedAt time.Time `gorm:"not null"                          json:"updated_at"`
}

// TableName 指定表名
func (Post) TableName() string { return "sys_post" }
