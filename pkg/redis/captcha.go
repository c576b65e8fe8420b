package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ── 验证码答案 ──

const captchaPrefix = "captcha:"

// CaptchaStore 验证码答案存储，多实例共享
type CaptchaStore struct {
	rdb *goredis.Client
}

// CaptchaStore 基于当前连接创建验证码存储
func (c *Client) CaptchaStore() *CaptchaStore {
	return &CaptchaStore{rdb: c.rdb}
}

func (s *CaptchaStore) Set(ctx context.Context, id, answer string, ttl time.Duration) error {
	return s.rdb.Set(ctx, captchaPrefix+id, answer, ttl).Err()
}

// Take GETDEL 原子取出，并发请求中只有一个能拿到答案
func (s *CaptchaStore) Take(ctx context.Context, id string) (string, error) {
	answer, err := s.rdb.GetDel(ctx, captchaPrefix+id).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	return answer, err
}
