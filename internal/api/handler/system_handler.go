package handler

import (
	"github.com/gin-gonic/gin"

	"dntest-admin/internal/dto"
	"dntest-admin/internal/service"
	"dntest-admin/pkg/response"
)

// SystemHandler 用户与角色管理
type SystemHandler struct {
	systemSvc service.SystemService
}

// NewSystemHandler 创建 SystemHandler
func NewSystemHandler(systemSvc service.SystemService) *SystemHandler {
	return &SystemHandler{systemSvc: systemSvc}
}

// UpdateUserStatus 启用/停用用户
// PUT /api/v1/system/users/:id/status
func (h *SystemHandler) UpdateUserStatus(c *gin.Context) {
	op, ok := mustGetOperator(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeBadParams, "参数校验失败")
		return
	}

	if err := h.systemSvc.UpdateUserStatus(c.Request.Context(), op, id, req.Status); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// DeleteUser 删除用户（软删除）
// DELETE /api/v1/system/users/:id
func (h *SystemHandler) DeleteUser(c *gin.Context) {
	op, ok := mustGetOperator(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.systemSvc.DeleteUser(c.Request.Context(), op, id); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// UpdateRoleStatus 启用/停用角色
// PUT /api/v1/system/roles/:id/status
func (h *SystemHandler) UpdateRoleStatus(c *gin.Context) {
	op, ok := mustGetOperator(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeBadParams, "参数校验失败")
		return
	}

	result, err := h.systemSvc.UpdateRoleStatus(c.Request.Context(), op, id, req.Status)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, result)
}

// UpdateRoleMenus 替换角色菜单授权
// PUT /api/v1/system/roles/:id/menus
func (h *SystemHandler) UpdateRoleMenus(c *gin.Context) {
	op, ok := mustGetOperator(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateRoleMenusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeBadParams, "参数校验失败")
		return
	}

	if err := h.systemSvc.UpdateRoleMenus(c.Request.Context(), op, id, req.MenuIDs); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}
