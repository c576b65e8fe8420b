package dto

import "time"

// ── 在线用户 ──

// OnlineUserResponse 在线会话
type OnlineUserResponse struct {
	SessionID      string    `json:"session_id"`
	LoginName      string    `json:"login_name"`
	DeptName       string    `json:"dept_name"`
	IPAddr         string    `json:"ipaddr"`
	LoginLocation  string    `json:"login_location"`
	Browser        string    `json:"browser"`
	OS             string    `json:"os"`
	Status         string    `json:"status"`
	StartTime      time.Time `json:"start_timestamp"`
	LastAccessTime time.Time `json:"last_access_time"`
	ExpireMinutes  int       `json:"expire_time"`
}

// ── 登录日志 ──

// LoginLogQuery 登录日志查询参数
type LoginLogQuery struct {
	PaginationRequest
	LoginName string `form:"login_name"`
	IPAddr    string `form:"ipaddr"`
	Status    string `form:"status"     binding:"omitempty,oneof=0 1"`
	BeginTime string `form:"begin_time"` // 2006-01-02
	EndTime   string `form:"end_time"`
}

// LoginLogResponse 登录日志
type LoginLogResponse struct {
	InfoID        int64     `json:"info_id"`
	LoginName     string    `json:"login_name"`
	IPAddr        string    `json:"ipaddr"`
	LoginLocation string    `json:"login_location"`
	Browser       string    `json:"browser"`
	OS            string    `json:"os"`
	Status        string    `json:"status"`
	Msg           string    `json:"msg"`
	LoginTime     time.Time `json:"login_time"`
}

// ── 服务监控 ──

// ServerInfoResponse 服务器状态
type ServerInfoResponse struct {
	CPU   CPUInfo     `json:"cpu"`
	Mem   MemInfo     `json:"mem"`
	Host  HostInfo    `json:"sys"`
	Disks []DiskInfo  `json:"disks"`
	Go    RuntimeInfo `json:"go"`
}

// CPUInfo CPU 概况
type CPUInfo struct {
	ModelName string  `json:"model_name"`
	Cores     int     `json:"cpu_num"`
	Used      float64 `json:"used"` // 百分比
	Load1     float64 `json:"load1"`
	Load5     float64 `json:"load5"`
	Load15    float64 `json:"load15"`
}

// MemInfo 内存概况（单位 MB）
type MemInfo struct {
	Total uint64  `json:"total"`
	Used  uint64  `json:"used"`
	Free  uint64  `json:"free"`
	Usage float64 `json:"usage"`
}

// HostInfo 主机信息
type HostInfo struct {
	Hostname string `json:"computer_name"`
	OS       string `json:"os_name"`
	Platform string `json:"platform"`
	Arch     string `json:"os_arch"`
	Uptime   uint64 `json:"uptime"` // 秒
}

// DiskInfo 磁盘分区（单位 GB）
type DiskInfo struct {
	Path   string  `json:"dir_name"`
	FsType string  `json:"sys_type_name"`
	Total  float64 `json:"total"`
	Used   float64 `json:"used"`
	Free   float64 `json:"free"`
	Usage  float64 `json:"usage"`
}

// RuntimeInfo 进程运行时
type RuntimeInfo struct {
	Version    string `json:"version"`
	Goroutines int    `json:"goroutines"`
	HeapAllocM uint64 `json:"heap_alloc_mb"`
	StartTime  string `json:"start_time"`
}
