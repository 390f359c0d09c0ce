package capture

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	psnet "github.com/shirou/gopsutil/v3/net"
	"github.com/sirupsen/logrus"

	"github.com/helmcode/casediag/pkg/metrics"
	"github.com/helmcode/casediag/pkg/model"
)

// Test names written by the local capture, besides the metrics package ones
const (
	TestSwapUsage          = "swap_usage"
	TestSystemUptime       = "system_uptime"
	TestDiskUsage          = "disk_usage"
	TestNetworkConnections = "network_connections"
)

// Options controls the local capture
type Options struct {
	// Samples is the number of CPU samples; each takes one Interval
	Samples  int
	Interval time.Duration
}

func DefaultOptions() Options {
	return Options{Samples: 5, Interval: time.Second}
}

// Collector samples the local host through gopsutil
type Collector struct {
	opts   Options
	logger *logrus.Logger
	now    func() time.Time
}

func NewCollector(opts Options, logger *logrus.Logger) *Collector {
	if opts.Samples < 1 {
		opts.Samples = 1
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	return &Collector{opts: opts, logger: logger, now: time.Now}
}

// Collect builds a results payload in the shape the capture script uploads.
// A probe that fails is logged and left out; the capture fails only when
// every probe does.
func (c *Collector) Collect(ctx context.Context) (*model.AnalysisPayload, error) {
	payload := model.NewAnalysisPayload()
	var failures []error

	cpuLines, timestamps, err := c.sampleCPU(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		failures = append(failures, c.probeFailed(metrics.TestCPUUsage, err))
	} else {
		payload.Set(metrics.TestCPUUsage, cpuLines)
	}

	memStat, swapStat, err := c.memory(ctx)
	if err != nil {
		failures = append(failures, c.probeFailed(metrics.TestMemoryUsage, err))
	} else {
		payload.Set(metrics.TestMemoryUsage, FormatFree(*memStat, swapStat))
		if swapStat != nil {
			payload.Set(TestSwapUsage, []string{FormatSwapLine(*swapStat)})
		}
	}

	loadStat, err := c.load(ctx)
	if err != nil {
		failures = append(failures, c.probeFailed(metrics.TestLoadAverage, err))
	} else {
		payload.Set(metrics.TestLoadAverage, []string{FormatLoadAvg(*loadStat)})

		if uptime, err := host.UptimeWithContext(ctx); err != nil {
			failures = append(failures, c.probeFailed(TestSystemUptime, err))
		} else {
			line := FormatUptime(c.now(), time.Duration(uptime)*time.Second, *loadStat)
			payload.Set(TestSystemUptime, []string{line})
		}
	}

	if disks, err := c.disks(ctx); err != nil {
		failures = append(failures, c.probeFailed(TestDiskUsage, err))
	} else {
		payload.Set(TestDiskUsage, FormatDisks(disks))
	}

	if listeners, err := c.listeners(ctx); err != nil {
		failures = append(failures, c.probeFailed(TestNetworkConnections, err))
	} else {
		payload.Set(TestNetworkConnections, FormatListeners(listeners))
	}

	if payload.Len() == 0 {
		return nil, fmt.Errorf("local capture failed: %w", errors.Join(failures...))
	}

	if len(timestamps) > 0 {
		payload.Set(model.TimestampsKey, timestamps)
	}
	return payload, nil
}

func (c *Collector) probeFailed(test string, err error) error {
	if c.logger != nil {
		c.logger.WithField("test", test).WithError(err).Warn("Capture probe failed")
	}
	return fmt.Errorf("%s: %w", test, err)
}

// sampleCPU takes Samples readings, each the CPU time spent per state over
// one Interval, and returns one top line and one timestamp per reading.
func (c *Collector) sampleCPU(ctx context.Context) ([]string, []string, error) {
	prev, err := cpuTotals(ctx)
	if err != nil {
		return nil, nil, err
	}

	lines := make([]string, 0, c.opts.Samples)
	timestamps := make([]string, 0, c.opts.Samples)
	for i := 0; i < c.opts.Samples; i++ {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		case <-time.After(c.opts.Interval):
		}

		cur, err := cpuTotals(ctx)
		if err != nil {
			return nil, nil, err
		}
		lines = append(lines, FormatCPULine(CPUPercentBetween(prev, cur)))
		timestamps = append(timestamps, c.now().Format("15:04:05"))
		prev = cur
	}
	return lines, timestamps, nil
}

func cpuTotals(ctx context.Context) (cpu.TimesStat, error) {
	times, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return cpu.TimesStat{}, err
	}
	if len(times) == 0 {
		return cpu.TimesStat{}, fmt.Errorf("no cpu times reported")
	}
	return times[0], nil
}

// CPUPercentBetween converts two cumulative readings into percentages
func CPUPercentBetween(a, b cpu.TimesStat) CPUPercent {
	d := func(x, y float64) float64 {
		if y < x {
			return 0
		}
		return y - x
	}
	user := d(a.User, b.User)
	system := d(a.System, b.System)
	nice := d(a.Nice, b.Nice)
	idle := d(a.Idle, b.Idle)
	wait := d(a.Iowait, b.Iowait)
	irq := d(a.Irq, b.Irq)
	softirq := d(a.Softirq, b.Softirq)
	steal := d(a.Steal, b.Steal)

	total := user + system + nice + idle + wait + irq + softirq + steal
	if total == 0 {
		return CPUPercent{Idle: 100}
	}
	pct := func(v float64) float64 { return v / total * 100 }
	return CPUPercent{
		User:    pct(user),
		System:  pct(system),
		Nice:    pct(nice),
		Idle:    pct(idle),
		Wait:    pct(wait),
		IRQ:     pct(irq),
		SoftIRQ: pct(softirq),
		Steal:   pct(steal),
	}
}

func (c *Collector) memory(ctx context.Context) (*MemoryStat, *SwapStat, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	m := &MemoryStat{
		Total:     vm.Total,
		Used:      vm.Used,
		Free:      vm.Free,
		Shared:    vm.Shared,
		BuffCache: vm.Buffers + vm.Cached,
		Available: vm.Available,
	}

	sw, err := mem.SwapMemoryWithContext(ctx)
	if err != nil {
		if c.logger != nil {
			c.logger.WithError(err).Debug("Swap statistics unavailable")
		}
		return m, nil, nil
	}
	return m, &SwapStat{Total: sw.Total, Used: sw.Used, Free: sw.Free}, nil
}

func (c *Collector) load(ctx context.Context) (*LoadStat, error) {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return nil, err
	}
	l := &LoadStat{Load1: avg.Load1, Load5: avg.Load5, Load15: avg.Load15}
	if misc, err := load.MiscWithContext(ctx); err == nil {
		l.Running = misc.ProcsRunning
		l.Total = misc.ProcsTotal
	}
	return l, nil
}

func (c *Collector) disks(ctx context.Context) ([]DiskStat, error) {
	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, err
	}
	var out []DiskStat
	for _, p := range partitions {
		usage, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil || usage.Total == 0 {
			continue
		}
		out = append(out, DiskStat{
			Device:     p.Device,
			Total:      usage.Total,
			Used:       usage.Used,
			Free:       usage.Free,
			Percent:    usage.UsedPercent,
			Mountpoint: p.Mountpoint,
		})
	}
	return out, nil
}

func (c *Collector) listeners(ctx context.Context) ([]Listener, error) {
	conns, err := psnet.ConnectionsWithContext(ctx, "inet")
	if err != nil {
		return nil, err
	}
	var out []Listener
	for _, conn := range conns {
		l, ok := listenerFrom(conn)
		if ok {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Proto != out[j].Proto {
			return out[i].Proto < out[j].Proto
		}
		return out[i].Local < out[j].Local
	})
	return out, nil
}

// listenerFrom keeps listening TCP sockets and unconnected UDP sockets, the
// ones ss -tuln shows.
func listenerFrom(conn psnet.ConnectionStat) (Listener, bool) {
	var proto, state string
	switch conn.Type {
	case 1: // SOCK_STREAM
		if conn.Status != "LISTEN" {
			return Listener{}, false
		}
		proto, state = "tcp", "LISTEN"
	case 2: // SOCK_DGRAM
		if conn.Raddr.Port != 0 {
			return Listener{}, false
		}
		proto, state = "udp", "UNCONN"
	default:
		return Listener{}, false
	}
	return Listener{
		Proto:  proto,
		State:  state,
		Local:  hostPort(conn.Laddr.IP, conn.Laddr.Port),
		Remote: hostPort(wildcard(conn.Laddr.IP), 0),
	}, true
}

func wildcard(local string) string {
	if strings.Contains(local, ":") {
		return "[::]"
	}
	return "0.0.0.0"
}

func hostPort(ip string, port uint32) string {
	if ip == "" {
		ip = "0.0.0.0"
	}
	if strings.Contains(ip, ":") && !strings.HasPrefix(ip, "[") {
		ip = "[" + ip + "]"
	}
	if port == 0 {
		return ip + ":*"
	}
	return fmt.Sprintf("%s:%d", ip, port)
}
