package service

import (
	"context"
	"errors"
	"time"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"dntest-admin/config"
	"dntest-admin/internal/dto"
	"dntest-admin/internal/model"
	"dntest-admin/internal/repository"
	"dntest-admin/internal/session"
	"dntest-admin/pkg/captcha"
	apperrors "dntest-admin/pkg/errors"
	"dntest-admin/pkg/jwt"
	"dntest-admin/pkg/metrics"
)

// defaultRoleKey 自助注册用户默认关联的角色
const defaultRoleKey = "common"

// LoginAttemptCounter 登录失败计数（按登录名，带过期窗口）
type LoginAttemptCounter interface {
	LoginFailures(ctx context.Context, loginName string) (int64, error)
	IncrLoginFailure(ctx context.Context, loginName string, window time.Duration) (int64, error)
	ResetLoginFailures(ctx context.Context, loginName string) error
}

// LoginContext 登录请求的附加信息，由 handler 从请求中提取
type LoginContext struct {
	Client session.ClientInfo
	// CaptchaExpected 从预认证会话中取出的答案，已取出即作废
	CaptchaExpected string
}

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest, lc LoginContext) (*dto.TokenResponse, error)
	Logout(ctx context.Context, loginName string) error
	Register(ctx context.Context, req *dto.RegisterRequest, captchaExpected string) (*dto.RegisterResponse, error)
	Me(ctx context.Context, userID int64) (*dto.UserDetailResponse, error)
}

type authService struct {
	cfg      *config.Config
	repo     *repository.Repository
	registry *session.Registry
	jwtMgr   *jwt.Manager
	authz    AuthorizationService
	attempts LoginAttemptCounter
	logger   *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	registry *session.Registry,
	jwtMgr *jwt.Manager,
	authz AuthorizationService,
	attempts LoginAttemptCounter,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:      cfg,
		repo:     repo,
		registry: registry,
		jwtMgr:   jwtMgr,
		authz:    authz,
		attempts: attempts,
		logger:   logger,
	}
}

// Login 校验并登录；每次尝试恰好写入一条登录日志
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, lc LoginContext) (*dto.TokenResponse, error) {
	resp, err := s.attempt(ctx, req, lc)

	status, msg, result := model.LoginSuccess, "登录成功", "success"
	if err != nil {
		status, msg, result = model.LoginFail, "系统异常", "error"
		var le *LoginError
		if errors.As(err, &le) {
			msg, result = le.Msg, string(le.Reason)
		}
	}

	if auditErr := s.audit(ctx, req.LoginName, lc.Client, status, msg); auditErr != nil {
		s.logger.Error("写入登录日志失败", zap.String("login_name", req.LoginName), zap.Error(auditErr))
		if err == nil {
			// 审计失败时不保留本次会话
			if endErr := s.registry.End(ctx, req.LoginName); endErr != nil {
				s.logger.Warn("回收会话失败", zap.Error(endErr))
			}
		}
		return nil, apperrors.StoreUnavailable(auditErr)
	}

	metrics.ObserveLogin(result)
	if err != nil {
		s.logger.Warn("登录失败",
			zap.String("login_name", req.LoginName),
			zap.String("ip", lc.Client.IPAddr),
			zap.String("reason", result),
		)
		return nil, err
	}
	s.logger.Info("登录成功", zap.String("login_name", req.LoginName), zap.String("ip", lc.Client.IPAddr))
	return resp, nil
}

func (s *authService) attempt(ctx context.Context, req *dto.LoginRequest, lc LoginContext) (*dto.TokenResponse, error) {
	// 1. 验证码
	if s.cfg.Captcha.Enabled && !captcha.Verify(lc.CaptchaExpected, req.Captcha) {
		return nil, ErrCaptchaInvalid
	}

	// 2. 失败次数锁定
	if s.lockoutEnabled() {
		n, err := s.attempts.LoginFailures(ctx, req.LoginName)
		if err != nil {
			s.logger.Warn("读取登录失败次数出错", zap.Error(err))
		} else if n >= int64(s.cfg.Login.MaxRetry) {
			return nil, ErrAccountLocked
		}
	}

	// 3. 查询用户（仅未删除）
	// 不存在、停用与密码错误同样计入失败次数，锁定结果与登录名是否存在无关
	user, err := s.repo.User.GetByLoginName(ctx, req.LoginName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.recordFailure(ctx, req.LoginName)
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, apperrors.StoreUnavailable(err)
	}

	// 4. 账号状态
	if user.Status != model.StatusNormal {
		s.recordFailure(ctx, req.LoginName)
		return nil, ErrAccountDisabled
	}

	// 5. 密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		s.recordFailure(ctx, req.LoginName)
		return nil, ErrBadCredentials
	}

	// 6. 登录成功
	now := s.registry.Now()
	if err := s.repo.User.UpdateLoginInfo(ctx, user.UserID, lc.Client.IPAddr, now); err != nil {
		s.logger.Error("更新登录信息失败", zap.Error(err))
		return nil, apperrors.StoreUnavailable(err)
	}
	if s.lockoutEnabled() {
		if err := s.attempts.ResetLoginFailures(ctx, req.LoginName); err != nil {
			s.logger.Warn("清除登录失败次数出错", zap.Error(err))
		}
	}

	client := lc.Client
	client.DeptName = user.DeptName()
	sessionID, err := s.registry.Create(ctx, user.LoginName, client)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.LoginName, sessionID)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
		SessionID:   sessionID,
	}
	s.fillUser(&resp.User, user)
	return resp, nil
}

func (s *authService) lockoutEnabled() bool {
	return s.attempts != nil && s.cfg.Login.MaxRetry > 0
}

func (s *authService) recordFailure(ctx context.Context, loginName string) {
	if !s.lockoutEnabled() {
		return
	}
	window := time.Duration(s.cfg.Login.LockMinutes) * time.Minute
	if _, err := s.attempts.IncrLoginFailure(ctx, loginName, window); err != nil {
		s.logger.Warn("记录登录失败次数出错", zap.Error(err))
	}
}

func (s *authService) audit(ctx context.Context, loginName string, client session.ClientInfo, status, msg string) error {
	return s.repo.LoginLog.Create(ctx, &model.LoginLog{
		LoginName:     loginName,
		IPAddr:        client.IPAddr,
		LoginLocation: client.LoginLocation,
		Browser:       client.Browser,
		OS:            client.OS,
		Status:        status,
		Msg:           msg,
		LoginTime:     s.registry.Now(),
	})
}

// Logout 结束当前登录名的会话，重复调用无副作用
func (s *authService) Logout(ctx context.Context, loginName string) error {
	return s.registry.End(ctx, loginName)
}

// Register 自助注册，新用户关联默认角色
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest, captchaExpected string) (*dto.RegisterResponse, error) {
	if !s.cfg.Login.RegisterEnabled {
		return nil, ErrRegisterDisabled
	}
	if s.cfg.Captcha.Enabled && !captcha.Verify(captchaExpected, req.Captcha) {
		return nil, ErrCaptchaInvalid
	}

	exists, err := s.repo.User.ExistsLoginName(ctx, req.LoginName)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	if exists {
		return nil, ErrLoginNameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var roleIDs []int64
	role, err := s.repo.Role.GetByKey(ctx, defaultRoleKey)
	switch {
	case err == nil:
		roleIDs = []int64{role.RoleID}
	case errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Warn("默认角色不存在，注册用户不关联角色", zap.String("role_key", defaultRoleKey))
	default:
		return nil, apperrors.StoreUnavailable(err)
	}

	userName := req.UserName
	if userName == "" {
		userName = req.LoginName
	}
	now := s.registry.Now()
	user := &model.User{
		LoginName:     req.LoginName,
		UserName:      userName,
		Password:      string(hash),
		Status:        model.StatusNormal,
		DelFlag:       model.DelFlagExist,
		PwdUpdateDate: &now,
	}
	user.CreateBy = req.LoginName
	if err := s.repo.User.Create(ctx, user, roleIDs); err != nil {
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, apperrors.StoreUnavailable(err)
	}

	s.logger.Info("用户注册成功", zap.String("login_name", user.LoginName))
	return &dto.RegisterResponse{ID: user.UserID, LoginName: user.LoginName, UserName: user.UserName}, nil
}

// Me 当前用户资料、角色与有效权限
func (s *authService) Me(ctx context.Context, userID int64) (*dto.UserDetailResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserMissing
		}
		return nil, apperrors.StoreUnavailable(err)
	}

	resp := &dto.UserDetailResponse{
		Roles:       make([]string, 0, len(user.Roles)),
		Permissions: s.authz.Permissions(ctx, userID),
		IsAdmin:     s.authz.IsAdmin(ctx, userID),
		LoginIP:     user.LoginIP,
	}
	s.fillUser(&resp.UserResponse, user)
	for _, r := range user.Roles {
		resp.Roles = append(resp.Roles, r.RoleKey)
	}
	if user.LoginDate != nil {
		resp.LoginDate = user.LoginDate.Format(time.DateTime)
	}
	return resp, nil
}

func (s *authService) fillUser(dst *dto.UserResponse, user *model.User) {
	if err := copier.Copy(dst, user); err != nil {
		s.logger.Warn("复制用户信息失败", zap.Error(err))
	}
	dst.DeptName = user.DeptName()
}
