package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"dntest-admin/config"
	"dntest-admin/internal/model"
	"dntest-admin/internal/repository"
	"dntest-admin/internal/session"
	"dntest-admin/pkg/jwt"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	mu        sync.Mutex
	users     map[int64]*model.User
	userRoles map[int64][]int64
	roles     *mockRoleRepo
	nextID    int64
	lookups   int   // GetByLoginName 调用次数
	getCalls  int   // GetByID 调用次数
	err       error // 非 nil 时所有方法返回该错误
}

func newMockUserRepo(roles *mockRoleRepo) *mockUserRepo {
	return &mockUserRepo{
		users:     make(map[int64]*model.User),
		userRoles: make(map[int64][]int64),
		roles:     roles,
		nextID:    100,
	}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User, roleIDs []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if user.UserID == 0 {
		m.nextID++
		user.UserID = m.nextID
	}
	if user.Status == "" {
		user.Status = model.StatusNormal
	}
	if user.DelFlag == "" {
		user.DelFlag = model.DelFlagExist
	}
	cp := *user
	m.users[user.UserID] = &cp
	m.userRoles[user.UserID] = append([]int64(nil), roleIDs...)
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok || u.DelFlag != model.DelFlagExist {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	cp.Roles = nil
	for _, rid := range m.userRoles[id] {
		if r, ok := m.roles.lookup(rid); ok && r.DelFlag == model.DelFlagExist {
			cp.Roles = append(cp.Roles, r)
		}
	}
	return &cp, nil
}

func (m *mockUserRepo) GetByLoginName(_ context.Context, loginName string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.LoginName == loginName && u.DelFlag == model.DelFlagExist {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ExistsLoginName(_ context.Context, loginName string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for _, u := range m.users {
		if u.LoginName == loginName {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) UpdateLoginInfo(_ context.Context, id int64, ip string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if u, ok := m.users[id]; ok {
		u.LoginIP = ip
		u.LoginDate = &at
	}
	return nil
}

func (m *mockUserRepo) UpdateStatus(_ context.Context, id int64, status, updateBy string) error {
	return m.update(id, func(u *model.User) { u.Status = status; u.UpdateBy = updateBy })
}

func (m *mockUserRepo) SoftDelete(_ context.Context, id int64, updateBy string) error {
	return m.update(id, func(u *model.User) { u.DelFlag = model.DelFlagDeleted; u.UpdateBy = updateBy })
}

func (m *mockUserRepo) update(id int64, fn func(u *model.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	u, ok := m.users[id]
	if !ok || u.DelFlag != model.DelFlagExist {
		return gorm.ErrRecordNotFound
	}
	fn(u)
	return nil
}

func (m *mockUserRepo) get(id int64) model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.users[id]
}

// ── Mock RoleRepository ──

type mockRoleRepo struct {
	mu        sync.Mutex
	roles     map[int64]*model.Role
	menus     map[int64][]int64
	menuCalls int
	err       error
}

func newMockRoleRepo() *mockRoleRepo {
	return &mockRoleRepo{roles: make(map[int64]*model.Role), menus: make(map[int64][]int64)}
}

func (m *mockRoleRepo) add(role model.Role, menuIDs ...int64) {
	if role.Status == "" {
		role.Status = model.StatusNormal
	}
	if role.DelFlag == "" {
		role.DelFlag = model.DelFlagExist
	}
	m.roles[role.RoleID] = &role
	m.menus[role.RoleID] = menuIDs
}

func (m *mockRoleRepo) lookup(id int64) (model.Role, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.roles[id]
	if !ok {
		return model.Role{}, false
	}
	return *r, true
}

func (m *mockRoleRepo) GetByID(_ context.Context, id int64) (*model.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.roles[id]
	if !ok || r.DelFlag != model.DelFlagExist {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockRoleRepo) GetByKey(_ context.Context, key string) (*model.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, r := range m.roles {
		if r.RoleKey == key && r.DelFlag == model.DelFlagExist {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoleRepo) UpdateStatus(_ context.Context, id int64, status, updateBy string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	r, ok := m.roles[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.Status = status
	r.UpdateBy = updateBy
	return nil
}

func (m *mockRoleRepo) ReplaceMenus(_ context.Context, roleID int64, menuIDs []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.menus[roleID] = append([]int64(nil), menuIDs...)
	return nil
}

func (m *mockRoleRepo) MenuIDsByRoles(_ context.Context, roleIDs []int64) (map[int64][]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.menuCalls++
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[int64][]int64, len(roleIDs))
	for _, rid := range roleIDs {
		if ids, ok := m.menus[rid]; ok {
			out[rid] = append([]int64(nil), ids...)
		}
	}
	return out, nil
}

// ── Mock MenuRepository ──

type mockMenuRepo struct {
	mu    sync.Mutex
	menus []model.Menu
	calls int
	err   error
}

func (m *mockMenuRepo) ListAll(_ context.Context) ([]model.Menu, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := append([]model.Menu(nil), m.menus...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ParentID != out[j].ParentID {
			return out[i].ParentID < out[j].ParentID
		}
		return out[i].OrderNum < out[j].OrderNum
	})
	return out, nil
}

func (m *mockMenuRepo) CountByIDs(_ context.Context, ids []int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	known := make(map[int64]bool, len(m.menus))
	for _, menu := range m.menus {
		known[menu.MenuID] = true
	}
	var n int64
	for _, id := range ids {
		if known[id] {
			n++
		}
	}
	return n, nil
}

// ── Mock LoginLogRepository ──

type mockLoginLogRepo struct {
	mu   sync.Mutex
	logs []model.LoginLog
	err  error
}

func (m *mockLoginLogRepo) Create(_ context.Context, log *model.LoginLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	log.InfoID = int64(len(m.logs) + 1)
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockLoginLogRepo) List(_ context.Context, f repository.LoginLogFilter, offset, limit int) ([]model.LoginLog, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, 0, m.err
	}
	var matched []model.LoginLog
	for _, l := range m.logs {
		if f.LoginName != "" && l.LoginName != f.LoginName {
			continue
		}
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		if f.BeginTime != nil && l.LoginTime.Before(*f.BeginTime) {
			continue
		}
		if f.EndTime != nil && l.LoginTime.After(*f.EndTime) {
			continue
		}
		matched = append(matched, l)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].LoginTime.After(matched[j].LoginTime) })

	total := int64(len(matched))
	if offset >= len(matched) {
		return []model.LoginLog{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *mockLoginLogRepo) all() []model.LoginLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.LoginLog(nil), m.logs...)
}

// ── Mock LoginAttemptCounter ──

type mockAttempts struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newMockAttempts() *mockAttempts {
	return &mockAttempts{counts: make(map[string]int64)}
}

func (m *mockAttempts) LoginFailures(_ context.Context, loginName string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[loginName], nil
}

func (m *mockAttempts) IncrLoginFailure(_ context.Context, loginName string, _ time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[loginName]++
	return m.counts[loginName], nil
}

func (m *mockAttempts) ResetLoginFailures(_ context.Context, loginName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.counts, loginName)
	return nil
}

// ── 测试夹具 ──

const (
	adminID int64 = 1
	aliceID int64 = 2
	bobID   int64 = 3
	carolID int64 = 4

	adminRoleID  int64 = 1
	commonRoleID int64 = 2
	editorRoleID int64 = 3
)

type fixture struct {
	cfg      *config.Config
	users    *mockUserRepo
	roles    *mockRoleRepo
	menus    *mockMenuRepo
	logs     *mockLoginLogRepo
	attempts *mockAttempts
	repo     *repository.Repository
	store    *session.MemoryStore
	registry *session.Registry
	jwtMgr   *jwt.Manager
	now      time.Time
	svc      *Service
}

func strPtr(s string) *string { return &s }

func testMenus() []model.Menu {
	return []model.Menu{
		{MenuID: 1, MenuName: "系统管理", ParentID: 0, OrderNum: 1, MenuType: "M", Visible: "0"},
		{MenuID: 2, MenuName: "系统监控", ParentID: 0, OrderNum: 2, MenuType: "M", Visible: "0"},
		{MenuID: 10, MenuName: "文档", ParentID: 0, OrderNum: 3, MenuType: "C", Visible: "0", Perms: strPtr("doc:edit")},
		{MenuID: 100, MenuName: "用户管理", ParentID: 1, OrderNum: 1, MenuType: "C", Visible: "0", Perms: strPtr("system:user:view")},
		{MenuID: 109, MenuName: "在线用户", ParentID: 2, OrderNum: 1, MenuType: "C", Visible: "0", Perms: strPtr("monitor:online:view")},
		{MenuID: 1030, MenuName: "在线查询", ParentID: 109, OrderNum: 1, MenuType: "F", Visible: "0", Perms: strPtr("monitor:online:list")},
		{MenuID: 1031, MenuName: "批量强退", ParentID: 109, OrderNum: 2, MenuType: "F", Visible: "0", Perms: strPtr("monitor:online:forceLogout")},
	}
}

// newFixture admin / alice(editor) / bob(停用) / carol(common)，密码均为 "<login_name>123"
func newFixture(t *testing.T, opts ...func(cfg *config.Config)) *fixture {
	t.Helper()

	cfg := &config.Config{
		Auth:    config.AuthConfig{JWTSecret: "test-secret-key-for-unit-tests", AccessTokenTTL: time.Hour},
		Session: config.SessionConfig{ExpireMinutes: 30, PageSize: 10, MaxPageSize: 100},
		Captcha: config.CaptchaConfig{Enabled: false, Type: "math", Expire: 5 * time.Minute},
		Login:   config.LoginConfig{MaxRetry: 3, LockMinutes: 10},
		Cache:   config.CacheConfig{PermissionTTL: time.Minute},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	f := &fixture{
		cfg:      cfg,
		roles:    newMockRoleRepo(),
		menus:    &mockMenuRepo{menus: testMenus()},
		logs:     &mockLoginLogRepo{},
		attempts: newMockAttempts(),
		store:    session.NewMemoryStore(),
		now:      time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
	f.users = newMockUserRepo(f.roles)

	f.roles.add(model.Role{RoleID: adminRoleID, RoleName: "超级管理员", RoleKey: "admin"})
	f.roles.add(model.Role{RoleID: commonRoleID, RoleName: "普通角色", RoleKey: "common"}, 2, 109, 1030)
	f.roles.add(model.Role{RoleID: editorRoleID, RoleName: "编辑", RoleKey: "editor"}, 10)

	f.addUser(t, adminID, "admin", model.StatusNormal, adminRoleID)
	f.addUser(t, aliceID, "alice", model.StatusNormal, editorRoleID)
	f.addUser(t, bobID, "bob", model.StatusDisable, editorRoleID)
	f.addUser(t, carolID, "carol", model.StatusNormal, commonRoleID)

	f.repo = &repository.Repository{User: f.users, Role: f.roles, Menu: f.menus, LoginLog: f.logs}
	f.registry = session.NewRegistry(f.store, cfg.Session.ExpireMinutes, zap.NewNop(),
		session.WithClock(func() time.Time { return f.now }))
	f.jwtMgr = jwt.NewManager(&cfg.Auth)

	svc, err := NewService(cfg, f.repo, f.registry, f.jwtMgr, f.attempts, zap.NewNop())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	t.Cleanup(svc.Authz.Close)
	f.svc = svc
	return f
}

func (f *fixture) addUser(t *testing.T, id int64, loginName, status string, roleIDs ...int64) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(loginName+"123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	user := &model.User{
		UserID:    id,
		LoginName: loginName,
		UserName:  loginName,
		Password:  string(hash),
		Status:    status,
		DelFlag:   model.DelFlagExist,
		Dept:      &model.Dept{DeptID: 100, DeptName: "研发部门"},
	}
	if err := f.users.Create(context.Background(), user, roleIDs); err != nil {
		t.Fatalf("create user: %v", err)
	}
}
