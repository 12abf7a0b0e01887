package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"

	"github.com/orchids/voice-monitor/internal/domain"
	"github.com/orchids/voice-monitor/internal/ringbuf"
)

// hostReading is one raw read of the host instrumentation. CPU ticks are
// cumulative since boot; the sampler turns consecutive readings into a usage
// percentage.
type hostReading struct {
	cpuTotal     float64
	cpuIdle      float64
	loadAverages []float64
	memUsed      uint64
	memFree      uint64
	memTotal     uint64
	memPercent   float64
	diskUsed     uint64
	diskFree     uint64
	diskTotal    uint64
	diskPercent  float64
	netIn        uint64
	netOut       uint64
	activeConns  int
}

type hostReader func(ctx context.Context) (hostReading, error)

// ResourceSampler takes point-in-time host resource samples and keeps a
// bounded history of them. Read failures propagate to the caller (the
// collection scheduler) instead of being swallowed here.
type ResourceSampler struct {
	mu        sync.Mutex
	now       func() time.Time
	read      hostReader
	prevTotal float64
	prevIdle  float64
	history   *ringbuf.Buffer[domain.ResourceSample]
}

func NewResourceSampler(diskPath string) *ResourceSampler {
	return &ResourceSampler{
		now:     time.Now,
		read:    newHostReader(diskPath),
		history: ringbuf.New[domain.ResourceSample](domain.ResourceHistoryCap),
	}
}

// Sample reads the host, appends the sample to history, and returns it.
// CPU usage is 100 − round(100 × idleDelta/totalDelta) over the cumulative
// tick delta since the previous read; the first read deltas from zero, so it
// reflects usage since boot. Two reads close together may see an empty delta
// and report zero; this is an accepted approximation.
func (s *ResourceSampler) Sample(ctx context.Context) (domain.ResourceSample, error) {
	r, err := s.read(ctx)
	if err != nil {
		return domain.ResourceSample{}, fmt.Errorf("read host stats: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	deltaTotal := r.cpuTotal - s.prevTotal
	deltaIdle := r.cpuIdle - s.prevIdle
	usage := 0.0
	if deltaTotal > 0 {
		usage = 100 - math.Round(100*deltaIdle/deltaTotal)
	}
	usage = math.Max(0, math.Min(100, usage))
	s.prevTotal = r.cpuTotal
	s.prevIdle = r.cpuIdle

	sample := domain.ResourceSample{
		Timestamp: s.now(),
		CPU: domain.CPUStats{
			UsagePercent: usage,
			LoadAverages: r.loadAverages,
		},
		Memory: domain.MemoryStats{
			UsedBytes:    r.memUsed,
			FreeBytes:    r.memFree,
			TotalBytes:   r.memTotal,
			UsagePercent: r.memPercent,
		},
		Disk: domain.DiskStats{
			UsedBytes:    r.diskUsed,
			FreeBytes:    r.diskFree,
			TotalBytes:   r.diskTotal,
			UsagePercent: r.diskPercent,
		},
		Network: domain.NetworkStats{
			BytesIn:           r.netIn,
			BytesOut:          r.netOut,
			ActiveConnections: r.activeConns,
		},
	}
	s.history.Push(sample)
	return sample, nil
}

// Latest returns the most recent sample, or false before the first Sample.
func (s *ResourceSampler) Latest() (domain.ResourceSample, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.history.Last()
}

func (s *ResourceSampler) History() []domain.ResourceSample {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.history.Items()
}

func newHostReader(diskPath string) hostReader {
	return func(ctx context.Context) (hostReading, error) {
		var r hostReading

		times, err := cpu.TimesWithContext(ctx, false)
		if err != nil {
			return r, fmt.Errorf("cpu times: %w", err)
		}
		if len(times) == 0 {
			return r, fmt.Errorf("cpu times: no aggregate entry")
		}
		t := times[0]
		r.cpuTotal = t.User + t.System + t.Idle + t.Nice + t.Iowait + t.Irq + t.Softirq + t.Steal
		r.cpuIdle = t.Idle + t.Iowait

		avg, err := load.AvgWithContext(ctx)
		if err != nil {
			return r, fmt.Errorf("load averages: %w", err)
		}
		r.loadAverages = []float64{avg.Load1, avg.Load5, avg.Load15}

		vm, err := mem.VirtualMemoryWithContext(ctx)
		if err != nil {
			return r, fmt.Errorf("virtual memory: %w", err)
		}
		r.memUsed = vm.Used
		r.memFree = vm.Available
		r.memTotal = vm.Total
		r.memPercent = vm.UsedPercent

		du, err := disk.UsageWithContext(ctx, diskPath)
		if err != nil {
			return r, fmt.Errorf("disk usage: %w", err)
		}
		r.diskUsed = du.Used
		r.diskFree = du.Free
		r.diskTotal = du.Total
		r.diskPercent = du.UsedPercent

		counters, err := net.IOCountersWithContext(ctx, false)
		if err != nil {
			return r, fmt.Errorf("net counters: %w", err)
		}
		if len(counters) > 0 {
			r.netIn = counters[0].BytesRecv
			r.netOut = counters[0].BytesSent
		}

		// Connection enumeration needs elevated permissions on some hosts;
		// report zero rather than failing the whole sample.
		if conns, err := net.ConnectionsWithContext(ctx, "tcp"); err == nil {
			r.activeConns = len(conns)
		}

		return r, nil
	}
}
