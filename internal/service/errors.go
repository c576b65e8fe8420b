package service

import (
	"errors"
	"fmt"

	apperrors "dntest-admin/pkg/errors"
)

// FailureReason 登录失败原因码，写入指标标签；对外统一为通用提示
type FailureReason string

const (
	ReasonCaptchaInvalid  FailureReason = "CAPTCHA_INVALID"
	ReasonUserNotFound    FailureReason = "USER_NOT_FOUND"
	ReasonAccountDisabled FailureReason = "ACCOUNT_DISABLED"
	ReasonBadCredentials  FailureReason = "BAD_CREDENTIALS"
	ReasonAccountLocked   FailureReason = "ACCOUNT_LOCKED"
)

// LoginError 带原因码的登录失败
// Msg 为写入登录日志的内部描述
type LoginError struct {
	Reason FailureReason
	Msg    string
	kind   error
}

func (e *LoginError) Error() string { return e.Msg }

func (e *LoginError) Unwrap() error { return e.kind }

// ── 登录模块业务错误 ──

var (
	ErrCaptchaInvalid  = &LoginError{Reason: ReasonCaptchaInvalid, Msg: "验证码错误", kind: apperrors.ErrValidation}
	ErrUserNotFound    = &LoginError{Reason: ReasonUserNotFound, Msg: "用户不存在", kind: apperrors.ErrAuthentication}
	ErrAccountDisabled = &LoginError{Reason: ReasonAccountDisabled, Msg: "账号已停用", kind: apperrors.ErrAuthentication}
	ErrBadCredentials  = &LoginError{Reason: ReasonBadCredentials, Msg: "密码错误", kind: apperrors.ErrAuthentication}
	ErrAccountLocked   = &LoginError{Reason: ReasonAccountLocked, Msg: "密码错误次数过多，账号已锁定", kind: apperrors.ErrAuthentication}
)

var (
	ErrRegisterDisabled = fmt.Errorf("%w: 当前系统没有开启注册功能", apperrors.ErrValidation)
	ErrLoginNameTaken   = fmt.Errorf("%w: 登录账号已存在", apperrors.ErrValidation)
	ErrInvalidDate      = fmt.Errorf("%w: 日期格式应为 YYYY-MM-DD", apperrors.ErrValidation)
	ErrMenuNotFound     = fmt.Errorf("%w: 包含不存在的菜单", apperrors.ErrValidation)
)

// ── 系统管理业务错误 ──

var (
	ErrUserMissing        = fmt.Errorf("%w: 用户不存在", apperrors.ErrNotFound)
	ErrRoleNotFound       = fmt.Errorf("%w: 角色不存在", apperrors.ErrNotFound)
	ErrCannotModifySelf   = errors.New("不能修改或删除当前登录用户")
	ErrKickSelf           = errors.New("当前在线会话不能强退")
	ErrAdminRoleProtected = errors.New("不允许操作超级管理员角色")
)
