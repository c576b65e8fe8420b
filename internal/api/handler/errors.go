package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"dntest-admin/internal/service"
	apperrors "dntest-admin/pkg/errors"
	"dntest-admin/pkg/response"
)

// handleError 将 service 错误映射为统一响应
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		_ = c.Error(err)
		response.StoreUnavailable(c)
	case errors.Is(err, service.ErrRegisterDisabled):
		response.Forbidden(c, response.CodeRegisterClosed, "当前系统没有开启注册功能")
	case errors.Is(err, service.ErrLoginNameTaken):
		response.Error(c, http.StatusConflict, response.CodeLoginNameTaken, "登录账号已存在")
	case errors.Is(err, service.ErrCaptchaInvalid):
		response.BadRequest(c, response.CodeCaptchaInvalid, "验证码错误")
	case errors.Is(err, service.ErrCannotModifySelf),
		errors.Is(err, service.ErrKickSelf),
		errors.Is(err, service.ErrAdminRoleProtected):
		response.BadRequest(c, response.CodeBadParams, err.Error())
	case errors.Is(err, apperrors.ErrValidation):
		response.BadRequest(c, response.CodeBadParams, err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		response.NotFound(c, response.CodeNotFound, err.Error())
	case errors.Is(err, apperrors.ErrAuthentication):
		response.Unauthorized(c, response.CodeLoginFailed, apperrors.ErrAuthentication.Error())
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
