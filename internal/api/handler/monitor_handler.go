package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"dntest-admin/config"
	"dntest-admin/internal/dto"
	"dntest-admin/internal/service"
	"dntest-admin/pkg/response"
)

// MonitorHandler 在线用户、登录日志与服务监控
type MonitorHandler struct {
	pageCfg     *config.SessionConfig
	onlineSvc   service.OnlineService
	loginLogSvc service.LoginLogService
	monitorSvc  service.MonitorService
}

// NewMonitorHandler 创建 MonitorHandler
func NewMonitorHandler(
	pageCfg *config.SessionConfig,
	onlineSvc service.OnlineService,
	loginLogSvc service.LoginLogService,
	monitorSvc service.MonitorService,
) *MonitorHandler {
	return &MonitorHandler{pageCfg: pageCfg, onlineSvc: onlineSvc, loginLogSvc: loginLogSvc, monitorSvc: monitorSvc}
}

// ListOnline 在线用户列表
// GET /api/v1/monitor/online
func (h *MonitorHandler) ListOnline(c *gin.Context) {
	var req dto.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, response.CodeBadParams, "参数校验失败")
		return
	}

	pageSize := req.Size(h.pageCfg.PageSize, h.pageCfg.MaxPageSize)
	items, total, err := h.onlineSvc.List(c.Request.Context(), req.GetPage(), pageSize)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OKPage(c, items, total, req.GetPage(), pageSize)
}

// ForceLogout 强退在线会话
// DELETE /api/v1/monitor/online/:session_id
func (h *MonitorHandler) ForceLogout(c *gin.Context) {
	current, ok := MustGetSessionID(c)
	if !ok {
		return
	}
	target := c.Param("session_id")
	if target == "" {
		response.BadRequest(c, response.CodeBadParams, "session_id 不能为空")
		return
	}

	if err := h.onlineSvc.ForceLogout(c.Request.Context(), current, target); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// ListLoginLogs 登录日志列表
// GET /api/v1/monitor/logininfor
func (h *MonitorHandler) ListLoginLogs(c *gin.Context) {
	var q dto.LoginLogQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, response.CodeBadParams, "参数校验失败")
		return
	}

	items, total, err := h.loginLogSvc.List(c.Request.Context(), &q)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OKPage(c, items, total, q.GetPage(), q.Size(h.pageCfg.PageSize, h.pageCfg.MaxPageSize))
}

// ExportLoginLogs 导出登录日志
// GET /api/v1/monitor/logininfor/export
func (h *MonitorHandler) ExportLoginLogs(c *gin.Context) {
	var q dto.LoginLogQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, response.CodeBadParams, "参数校验失败")
		return
	}

	buf, err := h.loginLogSvc.Export(c.Request.Context(), &q)
	if err != nil {
		handleError(c, err)
		return
	}

	filename := fmt.Sprintf("登录日志_%s.xlsx", time.Now().Format("20060102150405"))
	encodedFilename := url.PathEscape(filename)
	const xlsx = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsx, buf.Bytes())
}

// Server 服务器状态
// GET /api/v1/monitor/server
func (h *MonitorHandler) Server(c *gin.Context) {
	info, err := h.monitorSvc.ServerInfo(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, info)
}
