package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dntest"

var (
	httpDuration = register(prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP 请求耗时",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "pattern", "status"}))

	loginAttempts = register(prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "login_attempts_total",
		Help:      "登录尝试次数，按结果分类",
	}, []string{"result"}))

	onlineSessions = register(prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "online",
		Help:      "当前在线会话数",
	}))
)

// register 重复注册时复用已有 collector
func register[C prometheus.Collector](c C) C {
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// Middleware 记录请求耗时，pattern 为命中的路由模板
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		pattern := c.FullPath()
		if pattern == "" {
			pattern = "unmatched"
		}
		httpDuration.
			WithLabelValues(c.Request.Method, pattern, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler /metrics 暴露端点
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveLogin 记录一次登录结果（success 或失败原因）
func ObserveLogin(result string) {
	loginAttempts.WithLabelValues(result).Inc()
}

// SetOnlineSessions 更新在线会话数
func SetOnlineSessions(n int64) {
	onlineSessions.Set(float64(n))
}
