package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"dntest-admin/config"
	"dntest-admin/internal/api/handler"
	"dntest-admin/internal/api/middleware"
	"dntest-admin/pkg/jwt"
	"dntest-admin/pkg/metrics"
	"dntest-admin/pkg/redis"
)

// maxBodyBytes 请求体上限
const maxBodyBytes = 1 << 20

// Deps 路由依赖
type Deps struct {
	JWT      *jwt.Manager
	Sessions middleware.SessionToucher
	Authz    middleware.PermissionChecker
	Redis    *redis.Client // 可为 nil，此时不限流
	DB       *gorm.DB
}

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, deps Deps, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(metrics.Middleware())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 / 指标 ──
	// Redis 可选，不可用时只降级不影响整体状态
	r.GET("/health", func(c *gin.Context) {
		ctx := c.Request.Context()
		sqlDB, err := deps.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "db": "down"})
			return
		}

		redisState := "disabled"
		if deps.Redis != nil {
			redisState = "up"
			if err := deps.Redis.Ping(ctx); err != nil {
				redisState = "down"
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "up", "redis": redisState})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 登录前会话只保存验证码挑战 ID，答案在服务端
		preAuth := sessions.Sessions(cfg.Session.CookieName, newCookieStore(cfg))
		loginLimit := middleware.RateLimit(deps.Redis, cfg.Login.RateLimit, time.Minute, logger)

		v1.GET("/captcha", preAuth, h.Captcha.Get)

		// 认证模块（无需认证）
		auth := v1.Group("/auth", preAuth)
		{
			auth.POST("/login", loginLimit, h.Auth.Login)
			auth.POST("/register", loginLimit, h.Auth.Register)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(deps.JWT, deps.Sessions))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.GET("/menus/nav", h.Menu.Nav)

			perm := func(p string) gin.HandlerFunc {
				return middleware.RequirePermission(deps.Authz, p)
			}

			// 系统管理
			system := authorized.Group("/system")
			{
				system.GET("/menus/tree", perm("system:menu:list"), h.Menu.Tree)
				system.PUT("/users/:id/status", perm("system:user:edit"), h.System.UpdateUserStatus)
				system.DELETE("/users/:id", perm("system:user:remove"), h.System.DeleteUser)
				system.PUT("/roles/:id/status", perm("system:role:edit"), h.System.UpdateRoleStatus)
				system.PUT("/roles/:id/menus", perm("system:role:edit"), h.System.UpdateRoleMenus)
			}

			// 系统监控
			monitor := authorized.Group("/monitor")
			{
				monitor.GET("/online", perm("monitor:online:list"), h.Monitor.ListOnline)
				monitor.DELETE("/online/:session_id", perm("monitor:online:forceLogout"), h.Monitor.ForceLogout)
				monitor.GET("/logininfor", perm("monitor:logininfor:list"), h.Monitor.ListLoginLogs)
				monitor.GET("/logininfor/export", perm("monitor:logininfor:export"), h.Monitor.ExportLoginLogs)
				monitor.GET("/server", perm("monitor:server:list"), h.Monitor.Server)
			}
		}
	}

	return r
}

func newCookieStore(cfg *config.Config) sessions.Store {
	store := cookie.NewStore([]byte(cfg.Session.CookieSecret))
	store.Options(sessions.Options{
		Path:     "/api/v1",
		MaxAge:   int(cfg.Captcha.Expire.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}
