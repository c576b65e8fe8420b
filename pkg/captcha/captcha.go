package captcha

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/duke-git/lancet/v2/random"
	"github.com/gin-contrib/sessions"
	"github.com/google/uuid"

	"dntest-admin/config"
)

const (
	TypeMath = "math"

	// sessionKeyID 登录前会话只记录挑战 ID，答案保存在服务端 Store
	sessionKeyID = "captcha_id"
)

// Store 验证码答案存储
// Take 读取后立即删除，同一 ID 只能取出一次
type Store interface {
	Set(ctx context.Context, id, answer string, ttl time.Duration) error
	Take(ctx context.Context, id string) (string, error)
}

// Challenge 一次验证码挑战
// Text 展示给用户，Answer 只写入 Store
type Challenge struct {
	Text   string
	Answer string
}

// Generator 验证码生成器
type Generator struct {
	store  Store
	expire time.Duration
}

// NewGenerator 根据配置创建生成器
func NewGenerator(cfg *config.CaptchaConfig, store Store) *Generator {
	return &Generator{store: store, expire: cfg.Expire}
}

// Generate 形如 "7-3="，结果不为负
func Generate() Challenge {
	a := random.RandInt(1, 11)
	b := random.RandInt(1, 11)
	if random.RandInt(0, 2) == 0 {
		return Challenge{Text: fmt.Sprintf("%d+%d=", a, b), Answer: strconv.Itoa(a + b)}
	}
	if a < b {
		a, b = b, a
	}
	return Challenge{Text: fmt.Sprintf("%d-%d=", a, b), Answer: strconv.Itoa(a - b)}
}

// Issue 生成挑战并保存答案，覆盖会话中之前的挑战，返回题面
func (g *Generator) Issue(ctx context.Context, sess sessions.Session) (string, error) {
	ch := Generate()
	id := uuid.NewString()
	if err := g.store.Set(ctx, id, ch.Answer, g.expire); err != nil {
		return "", err
	}
	sess.Set(sessionKeyID, id)
	if err := sess.Save(); err != nil {
		return "", err
	}
	return ch.Text, nil
}

// Take 取出并作废当前会话的答案
// 会话中无挑战、答案已被取出或已过期时返回空串
func (g *Generator) Take(ctx context.Context, sess sessions.Session) (string, error) {
	id, _ := sess.Get(sessionKeyID).(string)
	if id == "" {
		return "", nil
	}

	answer, err := g.store.Take(ctx, id)
	sess.Delete(sessionKeyID)
	if saveErr := sess.Save(); err == nil {
		err = saveErr
	}
	return answer, err
}

// Verify 忽略大小写与首尾空白比较；任一方为空均不通过
func Verify(expected, submitted string) bool {
	expected = strings.TrimSpace(expected)
	submitted = strings.TrimSpace(submitted)
	if expected == "" || submitted == "" {
		return false
	}
	return strings.EqualFold(expected, submitted)
}
