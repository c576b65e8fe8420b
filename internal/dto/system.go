package dto

// ── 系统管理 DTO ──

// UpdateStatusRequest 修改用户/角色状态
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=0 1"`
}

// UpdateRoleMenusRequest 整体替换角色的菜单授权
type UpdateRoleMenusRequest struct {
	MenuIDs []int64 `json:"menu_ids" binding:"omitempty,dive,min=1"`
}

// RoleResponse 角色简要信息
type RoleResponse struct {
	ID     int64  `json:"role_id" copier:"RoleID"`
	Name   string `json:"role_name" copier:"RoleName"`
	Key    string `json:"role_key"  copier:"RoleKey"`
	Status string `json:"status"`
}
