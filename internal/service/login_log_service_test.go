package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"dntest-admin/internal/dto"
	"dntest-admin/internal/model"
	apperrors "dntest-admin/pkg/errors"
)

func seedLoginLogs(f *fixture) {
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.Local)
	for i := 0; i < 15; i++ {
		status := model.LoginSuccess
		if i%3 == 0 {
			status = model.LoginFail
		}
		_ = f.logs.Create(context.Background(), &model.LoginLog{
			LoginName: "alice",
			IPAddr:    "10.0.0.1",
			Status:    status,
			Msg:       "test",
			LoginTime: base.Add(time.Duration(i) * time.Hour),
		})
	}
}

func TestLoginLogList(t *testing.T) {
	f := newFixture(t)
	seedLoginLogs(f)
	ctx := context.Background()

	items, total, err := f.svc.LoginLog.List(ctx, &dto.LoginLogQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if total != 15 || len(items) != 10 {
		t.Fatalf("默认每页 10 条，得到 total=%d len=%d", total, len(items))
	}
	if !items[0].LoginTime.After(items[1].LoginTime) {
		t.Error("应按登录时间倒序")
	}

	q := &dto.LoginLogQuery{Status: model.LoginFail}
	q.PageSize = 2
	q.Page = 3
	items, total, err = f.svc.LoginLog.List(ctx, q)
	if err != nil {
		t.Fatal(err)
	}
	if total != 5 || len(items) != 1 {
		t.Errorf("失败日志分页不符: total=%d len=%d", total, len(items))
	}

	q = &dto.LoginLogQuery{BeginTime: "2024-05-01", EndTime: "2024-05-01"}
	_, total, err = f.svc.LoginLog.List(ctx, q)
	if err != nil {
		t.Fatal(err)
	}
	if total != 15 {
		t.Errorf("结束日期应包含当天，得到 total=%d", total)
	}
}

func TestLoginLogList_PageSizeCapped(t *testing.T) {
	f := newFixture(t)
	f.cfg.Session.MaxPageSize = 5
	seedLoginLogs(f)

	q := &dto.LoginLogQuery{}
	q.PageSize = 50
	items, _, err := f.svc.LoginLog.List(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 5 {
		t.Errorf("每页条数应被裁剪为 5，得到 %d", len(items))
	}
}

func TestLoginLogList_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.LoginLog.List(ctx, &dto.LoginLogQuery{BeginTime: "05/01/2024"})
	if !errors.Is(err, ErrInvalidDate) || !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("期望 ErrInvalidDate，得到 %v", err)
	}

	f.logs.err = errors.New("connection refused")
	if _, _, err := f.svc.LoginLog.List(ctx, &dto.LoginLogQuery{}); !errors.Is(err, apperrors.ErrStoreUnavailable) {
		t.Errorf("期望 ErrStoreUnavailable，得到 %v", err)
	}
}

func TestLoginLogExport(t *testing.T) {
	f := newFixture(t)
	seedLoginLogs(f)

	buf, err := f.svc.LoginLog.Export(context.Background(), &dto.LoginLogQuery{})
	if err != nil {
		t.Fatal(err)
	}

	file, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("打开导出文件失败: %v", err)
	}
	defer file.Close()

	rows, err := file.GetRows("登录日志")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 16 {
		t.Fatalf("期望 1 行表头 + 15 行数据，得到 %d", len(rows))
	}
	if rows[0][1] != "登录账号" || rows[1][1] != "alice" {
		t.Errorf("内容不符: %v / %v", rows[0], rows[1])
	}
}
