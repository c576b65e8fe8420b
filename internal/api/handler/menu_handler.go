package handler

import (
	"github.com/gin-gonic/gin"

	"dntest-admin/internal/service"
	"dntest-admin/pkg/response"
)

// MenuHandler 菜单模块 HTTP 处理器
type MenuHandler struct {
	authz service.AuthorizationService
}

// NewMenuHandler 创建 MenuHandler
func NewMenuHandler(authz service.AuthorizationService) *MenuHandler {
	return &MenuHandler{authz: authz}
}

// Nav 当前用户的导航菜单树
// GET /api/v1/menus/nav
func (h *MenuHandler) Nav(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	response.OK(c, h.authz.BuildMenuTree(c.Request.Context(), userID))
}

// Tree 菜单管理使用的全量菜单树
// GET /api/v1/system/menus/tree
func (h *MenuHandler) Tree(c *gin.Context) {
	tree, err := h.authz.MenuTree(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, tree)
}
