package model

// Role 角色表 — 对应 sys_role
// data_scope 仅保留字段，不参与权限判定
type Role struct {
	RoleID    int64  `gorm:"primaryKey;autoIncrement"              json:"role_id"`
	RoleName  string `gorm:"type:varchar(30);not null"             json:"role_name"`
	RoleKey   string `gorm:"type:varchar(100);not null;uniqueIndex" json:"role_key"`
	RoleSort  int    `gorm:"not null;default:0"                    json:"role_sort"`
	DataScope string `gorm:"type:char(1);not null;default:'1'"     json:"data_scope"`
	Status    string `gorm:"type:char(1);not null;default:'0'"     json:"status"`
	DelFlag   string `gorm:"type:char(1);not null;default:'0'"     json:"del_flag"`
	Remark    string `gorm:"type:varchar(500);not null;default:''" json:"remark"`
	AuditModel

	Depts []Dept `gorm:"many2many:sys_role_dept;foreignKey:RoleID;joinForeignKey:RoleID;references:DeptID;joinReferences:DeptID" json:"depts,omitempty"`
}

// TableName 指定表名
func (Role) TableName() string { return "sys_role" }

// ── 关联表 ──

// UserRole 用户-角色
type UserRole struct {
	UserID int64 `gorm:"primaryKey"`
	RoleID int64 `gorm:"primaryKey"`
}

// TableName 指定表名
func (UserRole) TableName() string { return "sys_user_role" }

// RoleMenu 角色-菜单
type RoleMenu struct {
	RoleID int64 `gorm:"primaryKey"`
	MenuID int64 `gorm:"primaryKey"`
}

// TableName 指定表名
func (RoleMenu) TableName() string { return "sys_role_menu" }

// RoleDept 角色-部门
type RoleDept struct {
	RoleID int64 `gorm:"primaryKey"`
	DeptID int64 `gorm:"primaryKey"`
}

// TableName 指定表名
func (RoleDept) TableName() string { return "sys_role_dept" }

// UserPost 用户-岗位
type UserPost struct {
	UserID int64 `gorm:"primaryKey"`
	PostID int64 `gorm:"primaryKey"`
}

// TableName 指定表名
func (UserPost) TableName() string { return "sys_user_post" }
