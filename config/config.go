package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Session   SessionConfig   `mapstructure:"session"`
	Captcha   CaptchaConfig   `mapstructure:"captcha"`
	Login     LoginConfig     `mapstructure:"login"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Log       LogConfig       `mapstructure:"log"`
	Bootstrap BootstrapConfig `mapstructure:"bootstrap"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port int        `mapstructure:"port"`
	CORS CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig 数据库配置（postgres | mysql）
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 分钟
}

// DSN 按驱动生成连接字符串
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "mysql" {
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, c.Host, c.Port, c.Name,
		)
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT 认证配置
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

// SessionConfig 在线会话配置
type SessionConfig struct {
	ExpireMinutes int           `mapstructure:"expire_minutes"`
	PageSize      int           `mapstructure:"page_size"`
	MaxPageSize   int           `mapstructure:"max_page_size"`
	SweepSpec     string        `mapstructure:"sweep_spec"` // 为空时不启动清理任务
	LockTTL       time.Duration `mapstructure:"lock_ttl"`
	CookieName    string        `mapstructure:"cookie_name"`
	CookieSecret  string        `mapstructure:"cookie_secret"`
}

// CaptchaConfig 验证码配置
type CaptchaConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Type    string        `mapstructure:"type"` // 目前仅 math
	Expire  time.Duration `mapstructure:"expire"`
}

// LoginConfig 登录策略配置
type LoginConfig struct {
	MaxRetry        int  `mapstructure:"max_retry"`    // 0 表示不锁定
	LockMinutes     int  `mapstructure:"lock_minutes"`
	RegisterEnabled bool `mapstructure:"register_enabled"`
	RateLimit       int  `mapstructure:"rate_limit"` // 每分钟每 IP 登录请求上限
}

// CacheConfig 权限缓存配置
type CacheConfig struct {
	PermissionTTL time.Duration `mapstructure:"permission_ttl"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"` // stdout | file | both
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"` // MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // 天
}

// BootstrapConfig 首次启动初始化
type BootstrapConfig struct {
	AdminLoginName string `mapstructure:"admin_login_name"`
	AdminPassword  string `mapstructure:"admin_password"` // 为空时不创建
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	// .env 可选，不存在时忽略
	_ = godotenv.Load()

	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "dntest")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Asia/Shanghai")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "2h")

	v.SetDefault("session.expire_minutes", 120)
	v.SetDefault("session.page_size", 10)
	v.SetDefault("session.max_page_size", 100)
	v.SetDefault("session.sweep_spec", "@every 1m")
	v.SetDefault("session.lock_ttl", "5s")
	v.SetDefault("session.cookie_name", "dntest_session")

	v.SetDefault("captcha.enabled", true)
	v.SetDefault("captcha.type", "math")
	v.SetDefault("captcha.expire", "5m")

	v.SetDefault("login.max_retry", 5)
	v.SetDefault("login.lock_minutes", 10)
	v.SetDefault("login.register_enabled", false)
	v.SetDefault("login.rate_limit", 30)

	v.SetDefault("cache.permission_ttl", "5m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file_path", "logs/dntest.log")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 10)
	v.SetDefault("log.max_age", 30)

	v.SetDefault("bootstrap.admin_login_name", "admin")

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("DNTEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if c.Database.Driver != "postgres" && c.Database.Driver != "mysql" {
		return fmt.Errorf("配置校验失败: db.driver 仅支持 postgres 或 mysql")
	}
	if c.Session.ExpireMinutes <= 0 {
		return fmt.Errorf("配置校验失败: session.expire_minutes 必须大于 0")
	}
	if c.Session.PageSize <= 0 || c.Session.MaxPageSize < c.Session.PageSize {
		return fmt.Errorf("配置校验失败: session.page_size 必须大于 0 且不超过 session.max_page_size")
	}
	if c.Captcha.Enabled && c.Session.CookieSecret == "" {
		return fmt.Errorf("配置校验失败: 启用验证码时 session.cookie_secret 不能为空")
	}
	if c.Captcha.Enabled && (c.Captcha.Type != "math" || c.Captcha.Expire <= 0) {
		return fmt.Errorf("配置校验失败: captcha.type 仅支持 math，captcha.expire 必须大于 0")
	}
	return nil
}
