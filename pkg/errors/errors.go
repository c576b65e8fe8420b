package errors

import (
	"errors"
	"fmt"
)

// 跨层共享的错误分类，handler 通过 errors.Is 映射为响应码
var (
	// ErrValidation 入参校验失败
	ErrValidation = errors.New("参数校验失败")
	// ErrAuthentication 认证失败（对外统一文案）
	ErrAuthentication = errors.New("用户名或密码错误")
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("记录不存在")
	// ErrStoreUnavailable 会话存储/数据库不可用
	ErrStoreUnavailable = errors.New("存储服务不可用")
)

// StoreUnavailable 包装底层存储错误，保留原始错误链
func StoreUnavailable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
