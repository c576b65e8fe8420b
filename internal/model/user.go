package model

import (
	"time"

	"dntest-admin/internal/rbac"
)

// User 用户表 — 对应 sys_user
type User struct {
	UserID        int64      `gorm:"primaryKey;autoIncrement"                  json:"user_id"`
	DeptID        *int64     `gorm:"index"                                     json:"dept_id,omitempty"`
	LoginName     string     `gorm:"type:varchar(30);not null;uniqueIndex"     json:"login_name"`
	UserName      string     `gorm:"type:varchar(30);not null;default:''"      json:"user_name"`
	UserType      string     `gorm:"type:varchar(2);not null;default:'00'"     json:"user_type"`
	Email         string     `gorm:"type:varchar(64);not null;default:''"      json:"email"`
	Phonenumber   string     `gorm:"type:varchar(16);not null;default:''"      json:"phonenumber"`
	Sex           string     `gorm:"type:char(1);not null;default:'2'"         json:"sex"`
	Avatar        string     `gorm:"type:varchar(255);not null;default:''"     json:"avatar"`
	Password      string     `gorm:"type:varchar(100);not null"                json:"-"`
	Status        string     `gorm:"type:char(1);not null;default:'0'"         json:"status"`
	DelFlag       string     `gorm:"type:char(1);not null;default:'0'"         json:"del_flag"`
	LoginIP       string     `gorm:"column:login_ip;type:varchar(128);not null;default:''" json:"login_ip"`
	LoginDate     *time.Time `                                                 json:"login_date,omitempty"`
	PwdUpdateDate *time.Time `                                                 json:"pwd_update_date,omitempty"`
	Remark        string     `gorm:"type:varchar(500);not null;default:''"     json:"remark"`
	AuditModel

	// 关联
	Dept  *Dept  `gorm:"foreignKey:DeptID;references:DeptID"                                                json:"dept,omitempty"`
	Roles []Role `gorm:"many2many:sys_user_role;foreignKey:UserID;joinForeignKey:UserID;references:RoleID;joinReferences:RoleID" json:"roles,omitempty"`
	Posts []Post `gorm:"many2many:sys_user_post;foreignKey:UserID;joinForeignKey:UserID;references:PostID;joinReferences:PostID" json:"posts,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "sys_user" }

// DeptName 所属部门名称，未关联时为空
func (u *User) DeptName() string {
	if u.Dept == nil {
		return ""
	}
	return u.Dept.DeptName
}

// Subject 转换为授权主体；roleMenus 为 role_id → menu_id 集合
func (u *User) Subject(roleMenus map[int64][]int64) *rbac.Subject {
	s := &rbac.Subject{
		UserID:    u.UserID,
		LoginName: u.LoginName,
		Status:    rbac.Status(u.Status),
		DelFlag:   rbac.DelFlag(u.DelFlag),
		Roles:     make([]rbac.Role, 0, len(u.Roles)),
	}
	for _, r := range u.Roles {
		s.Roles = append(s.Roles, rbac.Role{
			ID:      r.RoleID,
			Key:     r.RoleKey,
			Status:  rbac.Status(r.Status),
			MenuIDs: roleMenus[r.RoleID],
		})
	}
	return s
}
