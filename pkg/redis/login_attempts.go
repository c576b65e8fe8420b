package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ── 登录失败计数 ──

const loginFailurePrefix = "login:failure:"

// LoginFailures 当前失败次数
func (c *Client) LoginFailures(ctx context.Context, loginName string) (int64, error) {
	n, err := c.rdb.Get(ctx, loginFailurePrefix+loginName).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return n, err
}

// IncrLoginFailure 失败次数 +1，首次失败时设置锁定窗口
func (c *Client) IncrLoginFailure(ctx context.Context, loginName string, window time.Duration) (int64, error) {
	key := loginFailurePrefix + loginName
	pipe := c.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// ResetLoginFailures 登录成功后清零
func (c *Client) ResetLoginFailures(ctx context.Context, loginName string) error {
	return c.rdb.Del(ctx, loginFailurePrefix+loginName).Err()
}
