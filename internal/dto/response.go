package dto

// ── 认证模块响应 ──

// TokenResponse 登录成功响应
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"` // Access Token 有效期（秒）
	SessionID   string       `json:"session_id"`
	User        UserResponse `json:"user"`
}

// RegisterResponse 注册成功响应
type RegisterResponse struct {
	ID        int64  `json:"user_id"`
	LoginName string `json:"login_name"`
	UserName  string `json:"user_name"`
}

// ── 用户模块响应 ──

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID        int64  `json:"user_id"   copier:"UserID"`
	LoginName string `json:"login_name"`
	UserName  string `json:"user_name"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
	Status    string `json:"status"`
	DeptName  string `json:"dept_name"`
}

// UserDetailResponse 当前用户详情（GET /auth/me）
type UserDetailResponse struct {
	UserResponse
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	IsAdmin     bool     `json:"is_admin"`
	LoginIP     string   `json:"login_ip"`
	LoginDate   string   `json:"login_date,omitempty"`
}

// ── 分页请求 ──

// PaginationRequest 通用分页参数，上限由会话配置裁剪
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1"`
}

// GetPage 获取页码（含默认值）
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 获取每页数量，未传时返回 0 由服务层取默认值
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize < 0 {
		return 0
	}
	return p.PageSize
}

// Size 未传时取 def，超过 max 时裁剪为 max
func (p *PaginationRequest) Size(def, max int) int {
	size := p.GetPageSize()
	if size == 0 {
		size = def
	}
	if max > 0 && size > max {
		size = max
	}
	return size
}

// GetOffset 计算偏移量
func (p *PaginationRequest) GetOffset(pageSize int) int {
	return (p.GetPage() - 1) * pageSize
}
