package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"dntest-admin/config"
	"dntest-admin/internal/dto"
	"dntest-admin/internal/model"
	"dntest-admin/internal/repository"
	apperrors "dntest-admin/pkg/errors"
)

// exportLimit 单次导出的最大行数
const exportLimit = 10000

// LoginLogService 登录日志查询与导出
type LoginLogService interface {
	List(ctx context.Context, q *dto.LoginLogQuery) ([]dto.LoginLogResponse, int64, error)
	Export(ctx context.Context, q *dto.LoginLogQuery) (*bytes.Buffer, error)
}

type loginLogService struct {
	cfg    *config.SessionConfig
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLoginLogService 创建 LoginLogService 实例
func NewLoginLogService(cfg *config.SessionConfig, repo *repository.Repository, logger *zap.Logger) LoginLogService {
	return &loginLogService{cfg: cfg, repo: repo, logger: logger}
}

func (s *loginLogService) List(ctx context.Context, q *dto.LoginLogQuery) ([]dto.LoginLogResponse, int64, error) {
	filter, err := buildLoginLogFilter(q)
	if err != nil {
		return nil, 0, err
	}

	pageSize := q.Size(s.cfg.PageSize, s.cfg.MaxPageSize)

	logs, total, err := s.repo.LoginLog.List(ctx, filter, q.GetOffset(pageSize), pageSize)
	if err != nil {
		s.logger.Error("查询登录日志失败", zap.Error(err))
		return nil, 0, apperrors.StoreUnavailable(err)
	}

	items := make([]dto.LoginLogResponse, 0, len(logs))
	if err := copier.Copy(&items, &logs); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Export 按查询条件导出 xlsx（忽略分页，最多 exportLimit 行）
func (s *loginLogService) Export(ctx context.Context, q *dto.LoginLogQuery) (*bytes.Buffer, error) {
	filter, err := buildLoginLogFilter(q)
	if err != nil {
		return nil, err
	}
	logs, _, err := s.repo.LoginLog.List(ctx, filter, 0, exportLimit)
	if err != nil {
		s.logger.Error("查询登录日志失败", zap.Error(err))
		return nil, apperrors.StoreUnavailable(err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "登录日志"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	headers := []interface{}{"访问编号", "登录账号", "登录地址", "登录地点", "浏览器", "操作系统", "登录状态", "操作信息", "登录时间"}
	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return nil, err
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	f.SetCellStyle(sheetName, "A1", "I1", headerStyle)
	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "G", 16)
	f.SetColWidth(sheetName, "H", "I", 22)

	for i, l := range logs {
		row := []interface{}{
			l.InfoID, l.LoginName, l.IPAddr, l.LoginLocation, l.Browser, l.OS,
			loginStatusText(l.Status), l.Msg, l.LoginTime.Format(time.DateTime),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("生成登录日志文件失败: %w", err)
	}
	return buf, nil
}

func buildLoginLogFilter(q *dto.LoginLogQuery) (repository.LoginLogFilter, error) {
	f := repository.LoginLogFilter{LoginName: q.LoginName, IPAddr: q.IPAddr, Status: q.Status}
	if q.BeginTime != "" {
		t, err := time.ParseInLocation(time.DateOnly, q.BeginTime, time.Local)
		if err != nil {
			return f, ErrInvalidDate
		}
		f.BeginTime = &t
	}
	if q.EndTime != "" {
		t, err := time.ParseInLocation(time.DateOnly, q.EndTime, time.Local)
		if err != nil {
			return f, ErrInvalidDate
		}
		// 包含结束日当天
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.EndTime = &end
	}
	return f, nil
}

func loginStatusText(status string) string {
	if status == model.LoginSuccess {
		return "成功"
	}
	return "失败"
}
