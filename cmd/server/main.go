package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"dntest-admin/config"
	"dntest-admin/internal/api/handler"
	"dntest-admin/internal/api/router"
	"dntest-admin/internal/repository"
	"dntest-admin/internal/service"
	"dntest-admin/internal/session"
	"dntest-admin/pkg/captcha"
	"dntest-admin/pkg/database"
	"dntest-admin/pkg/jwt"
	applogger "dntest-admin/pkg/logger"
	"dntest-admin/pkg/metrics"
	"dntest-admin/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("DNTEST_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库并执行迁移
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, cfg.Database.Driver, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：不可用时关闭限流与失败锁定，会话锁退化为进程内锁）
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，登录限流与失败锁定将不可用", zap.Error(err))
		rdb = nil
	}

	// 5. 在线会话
	repo := repository.NewRepository(db)
	opts := []session.Option{session.WithPaging(cfg.Session.PageSize, cfg.Session.MaxPageSize)}
	if rdb != nil {
		opts = append(opts, session.WithLocker(rdb.NewLocker(cfg.Session.LockTTL)))
	}
	registry := session.NewRegistry(repo.Online, cfg.Session.ExpireMinutes, logger, opts...)

	var sweeper *session.Sweeper
	if cfg.Session.SweepSpec != "" {
		sweeper, err = session.NewSweeper(registry, cfg.Session.SweepSpec, logger, metrics.SetOnlineSessions)
		if err != nil {
			logger.Fatal("创建会话清理任务失败", zap.Error(err))
		}
		sweeper.Start()
	}

	// 6. 依赖注入: Repository → Service → Handler
	jwtMgr := jwt.NewManager(&cfg.Auth)

	var attempts service.LoginAttemptCounter
	if rdb != nil {
		attempts = rdb
	}
	svc, err := service.NewService(cfg, repo, registry, jwtMgr, attempts, logger)
	if err != nil {
		logger.Fatal("初始化服务失败", zap.Error(err))
	}

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = svc.System.EnsureAdmin(bootCtx, cfg.Bootstrap.AdminLoginName, cfg.Bootstrap.AdminPassword)
	bootCancel()
	if err != nil {
		logger.Fatal("初始化管理员失败", zap.Error(err))
	}

	// 验证码答案：有 Redis 时多实例共享，否则保存在进程内
	var captchaStore captcha.Store
	var memCaptcha *captcha.MemoryStore
	if rdb != nil {
		captchaStore = rdb.CaptchaStore()
	} else {
		memCaptcha, err = captcha.NewMemoryStore()
		if err != nil {
			logger.Fatal("初始化验证码存储失败", zap.Error(err))
		}
		captchaStore = memCaptcha
	}

	h := handler.NewHandler(cfg, svc, captchaStore, logger)

	// 7. 初始化路由
	engine := router.Setup(cfg, h, router.Deps{
		JWT:      jwtMgr,
		Sessions: registry,
		Authz:    svc.Authz,
		Redis:    rdb,
		DB:       db,
	}, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if sweeper != nil {
		sweeper.Stop()
	}
	svc.Authz.Close()
	if memCaptcha != nil {
		memCaptcha.Close()
	}

	if err := sqlDB.Close(); err != nil {
		logger.Warn("关闭数据库连接失败", zap.Error(err))
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
