package model

// Dept 部门表 — 对应 sys_dept
type Dept struct {
	DeptID    int64  `gorm:"primaryKey;autoIncrement"              json:"dept_id"`
	ParentID  int64  `gorm:"not null;default:0"                    json:"parent_id"`
	Ancestors string `gorm:"type:varchar(255);not null;default:''" json:"ancestors"`
	DeptName  string `gorm:"type:varchar(64);not null"             json:"dept_name"`
	OrderNum  int    `gorm:"not null;default:0"                    json:"order_num"`
	Leader    string `gorm:"type:varchar(32)"                      json:"leader,omitempty"`
	Phone     string `gorm:"type:varchar(16)"                      json:"phone,omitempty"`
	Email     string `gorm:"type:varchar(64)"                      json:"email,omitempty"`
	Status    string `gorm:"type:char(1);not null;default:'0'"     json:"status"`
	DelFlag   string `gorm:"type:char(1);not null;default:'0'"     json:"del_flag"`
	AuditModel
}

// TableName 指定表名
func (Dept) TableName() string { return "sys_dept" }
