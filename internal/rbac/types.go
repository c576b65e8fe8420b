// Package rbac 权限解析与菜单树构建
//
// 所有函数都是对已加载数据的纯计算，不访问存储、不持有锁；
// 调用方负责一次性装载 Subject 与菜单目录后传入。
package rbac

// Status 用户/角色状态
type Status string

const (
	StatusActive   Status = "0"
	StatusDisabled Status = "1"
)

// DelFlag 软删除标记
type DelFlag string

const (
	DelFlagPresent DelFlag = "0"
	DelFlagDeleted DelFlag = "2"
)

// MenuType 菜单类型
type MenuType string

const (
	MenuDirectory MenuType = "M" // 目录
	MenuLeaf      MenuType = "C" // 菜单
	MenuButton    MenuType = "F" // 按钮，仅承载权限标识
)

// Visibility 菜单显示状态
type Visibility string

const (
	VisibleShown  Visibility = "0"
	VisibleHidden Visibility = "1"
)

// AdminRoleKey 超级管理员角色标识，拥有全部权限
const AdminRoleKey = "admin"

// Role 角色及其菜单关联（显式 join 集合）
type Role struct {
	ID      int64
	Key     string
	Status  Status
	MenuIDs []int64
}

// Subject 一次授权判定的主体：用户状态 + 角色关联
type Subject struct {
	UserID    int64
	LoginName string
	Status    Status
	DelFlag   DelFlag
	Roles     []Role
}

// Usable 用户未停用且未删除
func (s *Subject) Usable() bool {
	return s != nil && s.Status == StatusActive && s.DelFlag == DelFlagPresent
}

// Menu 菜单记录
type Menu struct {
	ID        int64      `json:"menu_id"`
	ParentID  int64      `json:"parent_id"`
	Name      string     `json:"menu_name"`
	OrderNum  int        `json:"order_num"`
	URL       string     `json:"url"`
	Target    string     `json:"target,omitempty"`
	Type      MenuType   `json:"menu_type"`
	Visible   Visibility `json:"visible"`
	IsRefresh string     `json:"is_refresh,omitempty"`
	Perms     string     `json:"perms,omitempty"`
	Icon      string     `json:"icon,omitempty"`
}

// Navigable 目录或菜单类型，且处于显示状态
func (m Menu) Navigable() bool {
	return m.Visible == VisibleShown && (m.Type == MenuDirectory || m.Type == MenuLeaf)
}

// Catalog 全量菜单目录，按 ID 索引
type Catalog map[int64]Menu

// NewCatalog 由菜单列表建立索引，重复 ID 以后出现者为准
func NewCatalog(menus []Menu) Catalog {
	c := make(Catalog, len(menus))
	for _, m := range menus {
		c[m.ID] = m
	}
	return c
}
