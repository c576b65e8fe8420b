package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	LoginName  string `json:"login_name" binding:"required,max=30"`
	Password   string `json:"password"   binding:"required,max=64"`
	Captcha    string `json:"captcha"`
	RememberMe bool   `json:"remember_me"`
}

// RegisterRequest 自助注册请求（需开启 login.register_enabled）
type RegisterRequest struct {
	LoginName string `json:"login_name" binding:"required,min=2,max=30"`
	UserName  string `json:"user_name"  binding:"omitempty,max=30"`
	Password  string `json:"password"   binding:"required,min=6,max=20"`
	Captcha   string `json:"captcha"`
}

// CaptchaResponse 验证码题面；答案只保存在服务端
type CaptchaResponse struct {
	Enabled   bool   `json:"enabled"`
	Type      string `json:"type,omitempty"`
	Text      string `json:"text,omitempty"`
	ExpiresIn int    `json:"expires_in,omitempty"`
}
