//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"dntest-admin/internal/model"
	"dntest-admin/internal/repository"
	"dntest-admin/internal/session"
	"dntest-admin/pkg/database"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=dntest password=dntest dbname=dntest_test sslmode=disable TimeZone=Asia/Shanghai"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 使用正式迁移建表并写入初始目录数据
	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, "postgres", zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "迁移失败: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// createUser 创建关联 common 角色的测试用户并返回清理函数
func createUser(t *testing.T, repo *repository.Repository) (*model.User, func()) {
	t.Helper()
	ctx := context.Background()

	deptID := int64(101)
	user := &model.User{
		DeptID:    &deptID,
		LoginName: fmt.Sprintf("it%d", time.Now().UnixNano()%1e9),
		UserName:  "集成测试",
		Password:  "$2a$10$placeholder",
		Status:    model.StatusNormal,
		DelFlag:   model.DelFlagExist,
	}
	common, err := repo.Role.GetByKey(ctx, "common")
	if err != nil {
		t.Fatalf("查询 common 角色失败: %v", err)
	}
	if err := repo.User.Create(ctx, user, []int64{common.RoleID}); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}

	return user, func() {
		testDB.Exec("DELETE FROM sys_user_role WHERE user_id = ?", user.UserID)
		testDB.Exec("DELETE FROM sys_user WHERE user_id = ?", user.UserID)
		testDB.Exec("DELETE FROM sys_user_online WHERE login_name = ?", user.LoginName)
		testDB.Exec("DELETE FROM sys_logininfor WHERE login_name = ?", user.LoginName)
	}
}

// ═══════════════════════════════════════════════════════════
// Directory Store
// ═══════════════════════════════════════════════════════════

func TestUserRepo_LookupAndSoftDelete(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	user, cleanup := createUser(t, repo)
	defer cleanup()

	got, err := repo.User.GetByLoginName(ctx, user.LoginName)
	if err != nil {
		t.Fatalf("GetByLoginName: %v", err)
	}
	if got.DeptName() != "研发部门" {
		t.Errorf("expected dept 研发部门, got %q", got.DeptName())
	}

	byID, err := repo.User.GetByID(ctx, user.UserID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(byID.Roles) != 1 || byID.Roles[0].RoleKey != "common" {
		t.Errorf("expected common role, got %+v", byID.Roles)
	}

	if err := repo.User.SoftDelete(ctx, user.UserID, "admin"); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if _, err := repo.User.GetByLoginName(ctx, user.LoginName); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("deleted user should be invisible, got %v", err)
	}
	exists, err := repo.User.ExistsLoginName(ctx, user.LoginName)
	if err != nil || !exists {
		t.Errorf("login name of a deleted user should stay reserved: exists=%v err=%v", exists, err)
	}
}

func TestRoleRepo_MenuIDsByRoles(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	common, err := repo.Role.GetByKey(ctx, "common")
	if err != nil {
		t.Fatal(err)
	}
	menus, err := repo.Role.MenuIDsByRoles(ctx, []int64{common.RoleID})
	if err != nil {
		t.Fatal(err)
	}
	ids := map[int64]bool{}
	for _, id := range menus[common.RoleID] {
		ids[id] = true
	}
	for _, want := range []int64{2, 109, 1030} {
		if !ids[want] {
			t.Errorf("common role should grant menu %d, got %v", want, menus[common.RoleID])
		}
	}

	n, err := repo.Menu.CountByIDs(ctx, []int64{1, 100, 999999})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected 2 existing menus, got %d", n)
	}
}

// ═══════════════════════════════════════════════════════════
// Online Session Store
// ═══════════════════════════════════════════════════════════

func TestOnlineRepo_SingleSessionPerIdentity(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	user, cleanup := createUser(t, repo)
	defer cleanup()

	registry := session.NewRegistry(repo.Online, 30, zap.NewNop())

	first, err := registry.Create(ctx, user.LoginName, session.ClientInfo{IPAddr: "10.0.0.1"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := registry.Create(ctx, user.LoginName, session.ClientInfo{IPAddr: "10.0.0.2"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := registry.Touch(ctx, first); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("superseded session should be gone, got %v", err)
	}
	if err := registry.Touch(ctx, second); err != nil {
		t.Errorf("current session should be live, got %v", err)
	}

	var count int64
	testDB.Model(&model.OnlineSession{}).Where("login_name = ?", user.LoginName).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly one row, got %d", count)
	}

	if err := registry.End(ctx, user.LoginName); err != nil {
		t.Fatal(err)
	}
	if _, err := registry.Get(ctx, second); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("ended session should be gone, got %v", err)
	}
}

func TestOnlineRepo_ExpiryAndSweep(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	user, cleanup := createUser(t, repo)
	defer cleanup()

	now := time.Now()
	clock := func() time.Time { return now }
	registry := session.NewRegistry(repo.Online, 1, zap.NewNop(), session.WithClock(clock))

	sid, err := registry.Create(ctx, user.LoginName, session.ClientInfo{})
	if err != nil {
		t.Fatal(err)
	}

	now = now.Add(2 * time.Minute)
	if err := registry.Touch(ctx, sid); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("expired session must not be refreshed, got %v", err)
	}
	if _, err := registry.Sweep(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Online.Get(ctx, sid); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("swept session should be gone, got %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Login Audit Store
// ═══════════════════════════════════════════════════════════

func TestLoginLogRepo_ListNewestFirst(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	user, cleanup := createUser(t, repo)
	defer cleanup()

	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	for i, status := range []string{model.LoginFail, model.LoginSuccess} {
		err := repo.LoginLog.Create(ctx, &model.LoginLog{
			LoginName: user.LoginName,
			IPAddr:    "127.0.0.1",
			Status:    status,
			Msg:       "test",
			LoginTime: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	logs, total, err := repo.LoginLog.List(ctx, repository.LoginLogFilter{LoginName: user.LoginName}, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(logs) != 2 {
		t.Fatalf("expected 2 logs, got total=%d len=%d", total, len(logs))
	}
	if logs[0].Status != model.LoginSuccess {
		t.Errorf("expected newest first, got %+v", logs[0])
	}

	logs, total, err = repo.LoginLog.List(ctx, repository.LoginLogFilter{LoginName: user.LoginName, Status: model.LoginFail}, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || logs[0].Status != model.LoginFail {
		t.Errorf("status filter failed: total=%d", total)
	}
}
