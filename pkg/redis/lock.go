package redis

import (
	"context"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
)

// Locker 基于 redsync 的分布式互斥锁
type Locker struct {
	rs     *redsync.Redsync
	expiry time.Duration
}

// NewLocker 创建分布式锁，expiry 为锁自动释放时间
func (c *Client) NewLocker(expiry time.Duration) *Locker {
	if expiry <= 0 {
		expiry = 5 * time.Second
	}
	return &Locker{
		rs:     redsync.New(goredis.NewPool(c.rdb)),
		expiry: expiry,
	}
}

// Lock 获取 key 对应的锁，返回解锁函数
func (l *Locker) Lock(ctx context.Context, key string) (func(context.Context) error, error) {
	mutex := l.rs.NewMutex("lock:"+key,
		redsync.WithExpiry(l.expiry),
		redsync.WithTries(32),
		redsync.WithRetryDelay(50*time.Millisecond),
	)
	if err := mutex.LockContext(ctx); err != nil {
		return nil, err
	}
	return func(ctx context.Context) error {
		_, err := mutex.UnlockContext(ctx)
		return err
	}, nil
}
