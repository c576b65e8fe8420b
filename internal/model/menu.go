package model

import "dntest-admin/internal/rbac"

// Menu 菜单表 — 对应 sys_menu
// menu_type: M 目录 / C 菜单 / F 按钮；visible: 0 显示 / 1 隐藏
type Menu struct {
	MenuID    int64   `gorm:"primaryKey;autoIncrement"               json:"menu_id"`
	MenuName  string  `gorm:"type:varchar(50);not null"              json:"menu_name"`
	ParentID  int64   `gorm:"not null;default:0"                     json:"parent_id"`
	OrderNum  int     `gorm:"not null;default:0"                     json:"order_num"`
	URL       string  `gorm:"column:url;type:varchar(200);not null;default:'#'" json:"url"`
	Target    string  `gorm:"type:varchar(20);not null;default:''"   json:"target"`
	MenuType  string  `gorm:"type:char(1);not null;default:''"       json:"menu_type"`
	Visible   string  `gorm:"type:char(1);not null;default:'0'"      json:"visible"`
	IsRefresh string  `gorm:"type:char(1);not null;default:'1'"      json:"is_refresh"`
	Perms     *string `gorm:"type:varchar(100)"                      json:"perms,omitempty"`
	Icon      string  `gorm:"type:varchar(100);not null;default:'#'" json:"icon"`
	Remark    string  `gorm:"type:varchar(500);not null;default:''"  json:"remark"`
	AuditModel
}

// TableName 指定表名
func (Menu) TableName() string { return "sys_menu" }

// ToRBAC 转换为权限计算使用的菜单记录
func (m *Menu) ToRBAC() rbac.Menu {
	out := rbac.Menu{
		ID:        m.MenuID,
		ParentID:  m.ParentID,
		Name:      m.MenuName,
		OrderNum:  m.OrderNum,
		URL:       m.URL,
		Target:    m.Target,
		Type:      rbac.MenuType(m.MenuType),
		Visible:   rbac.Visibility(m.Visible),
		IsRefresh: m.IsRefresh,
		Icon:      m.Icon,
	}
	if m.Perms != nil {
		out.Perms = *m.Perms
	}
	return out
}
