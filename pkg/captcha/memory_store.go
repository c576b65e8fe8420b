package captcha

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

var errStoreRejected = errors.New("验证码写入被缓存拒绝")

// MemoryStore 进程内答案存储，未配置 Redis 时使用
// 多实例部署时需使用 Redis 存储
type MemoryStore struct {
	mu    sync.Mutex // 保证 Take 的读取与删除是一次操作
	cache *ristretto.Cache[string, string]
}

// NewMemoryStore 创建 MemoryStore
func NewMemoryStore() (*MemoryStore, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, string]{
		NumCounters:        1e5,
		MaxCost:            1e4,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &MemoryStore{cache: cache}, nil
}

func (m *MemoryStore) Set(_ context.Context, id, answer string, ttl time.Duration) error {
	if !m.cache.SetWithTTL(id, answer, 1, ttl) {
		return errStoreRejected
	}
	m.cache.Wait()
	return nil
}

func (m *MemoryStore) Take(_ context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	answer, ok := m.cache.Get(id)
	if !ok {
		return "", nil
	}
	m.cache.Del(id)
	return answer, nil
}

// Close 释放缓存后台协程
func (m *MemoryStore) Close() {
	m.cache.Close()
}
