package service

import (
	"context"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dntest-admin/internal/dto"
)

const (
	mb = 1 << 20
	gb = 1 << 30
)

// cpuSampleInterval CPU 使用率采样时长
const cpuSampleInterval = 200 * time.Millisecond

// MonitorService 服务器状态监控
type MonitorService interface {
	ServerInfo(ctx context.Context) (*dto.ServerInfoResponse, error)
}

type monitorService struct {
	startedAt time.Time
	logger    *zap.Logger
}

// NewMonitorService 创建 MonitorService 实例
func NewMonitorService(logger *zap.Logger) MonitorService {
	return &monitorService{startedAt: time.Now(), logger: logger}
}

// ServerInfo 并发采集 CPU、内存、主机与磁盘信息
// 负载与单个分区的读取失败不影响整体结果
func (s *monitorService) ServerInfo(ctx context.Context) (*dto.ServerInfoResponse, error) {
	info := &dto.ServerInfoResponse{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		infos, err := cpu.InfoWithContext(gctx)
		if err != nil {
			return err
		}
		if len(infos) > 0 {
			info.CPU.ModelName = infos[0].ModelName
		}
		cores, err := cpu.CountsWithContext(gctx, true)
		if err != nil {
			return err
		}
		info.CPU.Cores = cores

		percent, err := cpu.PercentWithContext(gctx, cpuSampleInterval, false)
		if err != nil {
			return err
		}
		if len(percent) > 0 {
			info.CPU.Used = round2(percent[0])
		}

		if avg, err := load.AvgWithContext(gctx); err == nil {
			info.CPU.Load1, info.CPU.Load5, info.CPU.Load15 = avg.Load1, avg.Load5, avg.Load15
		} else {
			s.logger.Debug("读取系统负载失败", zap.Error(err))
		}
		return nil
	})

	g.Go(func() error {
		vm, err := mem.VirtualMemoryWithContext(gctx)
		if err != nil {
			return err
		}
		info.Mem = dto.MemInfo{
			Total: vm.Total / mb,
			Used:  vm.Used / mb,
			Free:  vm.Available / mb,
			Usage: round2(vm.UsedPercent),
		}
		return nil
	})

	g.Go(func() error {
		h, err := host.InfoWithContext(gctx)
		if err != nil {
			return err
		}
		info.Host = dto.HostInfo{
			Hostname: h.Hostname,
			OS:       h.OS,
			Platform: h.Platform + " " + h.PlatformVersion,
			Arch:     h.KernelArch,
			Uptime:   h.Uptime,
		}
		return nil
	})

	g.Go(func() error {
		parts, err := disk.PartitionsWithContext(gctx, false)
		if err != nil {
			return err
		}
		disks := make([]dto.DiskInfo, 0, len(parts))
		for _, p := range parts {
			u, err := disk.UsageWithContext(gctx, p.Mountpoint)
			if err != nil || u.Total == 0 {
				continue
			}
			disks = append(disks, dto.DiskInfo{
				Path:   p.Mountpoint,
				FsType: p.Fstype,
				Total:  round2(float64(u.Total) / gb),
				Used:   round2(float64(u.Used) / gb),
				Free:   round2(float64(u.Free) / gb),
				Usage:  round2(u.UsedPercent),
			})
		}
		info.Disks = disks
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("采集服务器信息失败", zap.Error(err))
		return nil, err
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	info.Go = dto.RuntimeInfo{
		Version:    runtime.Version(),
		Goroutines: runtime.NumGoroutine(),
		HeapAllocM: ms.HeapAlloc / mb,
		StartTime:  s.startedAt.Format(time.DateTime),
	}
	return info, nil
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
