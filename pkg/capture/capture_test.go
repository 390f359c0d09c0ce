package capture

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	psnet "github.com/shirou/gopsutil/v3/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/casediag/pkg/analyzer"
	"github.com/helmcode/casediag/pkg/logging"
	"github.com/helmcode/casediag/pkg/metrics"
	"github.com/helmcode/casediag/pkg/model"
	"github.com/helmcode/casediag/pkg/parser"
)

func TestFormatCPULineRoundTrip(t *testing.T) {
	line := FormatCPULine(CPUPercent{User: 10, System: 5, Idle: 80, Wait: 5})

	got, ok := parser.ExtractCPU([]string{line})
	require.True(t, ok)
	assert.Equal(t, &metrics.CPUMetrics{User: "10.0", System: "5.0", Nice: "0.0", Idle: "80.0", Wait: "5.0"}, got)

	series, ok := metrics.BuildCPUSeries([]string{line}, nil)
	require.True(t, ok)
	assert.Equal(t, []float64{20}, series.Dataset)
}

func TestFormatFreeRoundTrip(t *testing.T) {
	lines := FormatFree(
		MemoryStat{Total: 8000 * mebibyte, Used: 2000 * mebibyte, Free: 1000 * mebibyte, Shared: 100 * mebibyte, BuffCache: 4900 * mebibyte, Available: 5500 * mebibyte},
		&SwapStat{Total: 2048 * mebibyte, Used: 12 * mebibyte, Free: 2036 * mebibyte},
	)
	require.Len(t, lines, 3)

	got, ok := parser.ExtractMemory(lines)
	require.True(t, ok)
	assert.Equal(t, "8000", got.Total)
	assert.Equal(t, "4900", got.BuffCache)
	assert.Equal(t, "5500", got.Available)
	require.NotNil(t, got.Swap)
	assert.Equal(t, "12", got.Swap.Used)

	noSwap := FormatFree(MemoryStat{Total: mebibyte}, nil)
	assert.Len(t, noSwap, 2)
}

func TestFormatLoadAvgRoundTrip(t *testing.T) {
	line := FormatLoadAvg(LoadStat{Load1: 0.52, Load5: 0.58, Load15: 0.59, Running: 1, Total: 389})
	assert.Equal(t, "0.52 0.58 0.59 1/389", line)

	got, ok := parser.ExtractLoadAverage([]string{line})
	require.True(t, ok)
	assert.Equal(t, &metrics.LoadAverage{Load1: "0.52", Load5: "0.58", Load15: "0.59"}, got)
}

func TestFormatUptime(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 1, 0, time.UTC)
	l := LoadStat{Load1: 0.5, Load5: 0.25, Load15: 0.1}

	assert.Equal(t, " 10:00:01 up 2 days,  3:04,  load average: 0.50, 0.25, 0.10",
		FormatUptime(now, 51*time.Hour+4*time.Minute, l))
	assert.Equal(t, " 10:00:01 up 1 day,  0:00,  load average: 0.50, 0.25, 0.10",
		FormatUptime(now, 24*time.Hour, l))
	assert.Equal(t, " 10:00:01 up  5:30,  load average: 0.50, 0.25, 0.10",
		FormatUptime(now, 5*time.Hour+30*time.Minute, l))
	assert.Equal(t, " 10:00:01 up 7 min,  load average: 0.50, 0.25, 0.10",
		FormatUptime(now, 7*time.Minute, l))
}

func TestSwapLineFeedsSwapRule(t *testing.T) {
	payload := model.NewAnalysisPayload()
	payload.Set(TestSwapUsage, []string{FormatSwapLine(SwapStat{Total: 2048 * mebibyte, Used: 12 * mebibyte, Free: 2036 * mebibyte})})

	_, suggestions := analyzer.AnalyzeResults(payload)
	assert.Contains(t, suggestions, TestSwapUsage)
}

func TestListenersFeedNetworkRule(t *testing.T) {
	lines := FormatListeners([]Listener{
		{Proto: "tcp", State: "LISTEN", Local: "0.0.0.0:22", Remote: "0.0.0.0:*"},
		{Proto: "tcp", State: "LISTEN", Local: "127.0.0.1:6379", Remote: "0.0.0.0:*"},
	})
	require.Len(t, lines, 3)

	payload := model.NewAnalysisPayload()
	payload.Set(TestNetworkConnections, lines[:2])
	_, suggestions := analyzer.AnalyzeResults(payload)
	assert.NotContains(t, suggestions, TestNetworkConnections)

	payload.Set(TestNetworkConnections, lines)
	_, suggestions = analyzer.AnalyzeResults(payload)
	assert.Contains(t, suggestions, TestNetworkConnections)
}

func TestListenerFrom(t *testing.T) {
	l, ok := listenerFrom(psnet.ConnectionStat{Type: 1, Status: "LISTEN", Laddr: psnet.Addr{IP: "0.0.0.0", Port: 22}})
	require.True(t, ok)
	assert.Equal(t, Listener{Proto: "tcp", State: "LISTEN", Local: "0.0.0.0:22", Remote: "0.0.0.0:*"}, l)

	l, ok = listenerFrom(psnet.ConnectionStat{Type: 2, Laddr: psnet.Addr{IP: "::", Port: 53}})
	require.True(t, ok)
	assert.Equal(t, "[::]:53", l.Local)
	assert.Equal(t, "[::]:*", l.Remote)

	_, ok = listenerFrom(psnet.ConnectionStat{Type: 1, Status: "ESTABLISHED"})
	assert.False(t, ok)
}

func TestCPUPercentBetween(t *testing.T) {
	a := cpu.TimesStat{User: 100, System: 50, Idle: 800, Iowait: 50}
	b := cpu.TimesStat{User: 110, System: 55, Idle: 880, Iowait: 55}

	p := CPUPercentBetween(a, b)
	assert.InDelta(t, 10, p.User, 0.001)
	assert.InDelta(t, 5, p.System, 0.001)
	assert.InDelta(t, 80, p.Idle, 0.001)
	assert.InDelta(t, 5, p.Wait, 0.001)

	assert.Equal(t, CPUPercent{Idle: 100}, CPUPercentBetween(a, a))
}

func TestFormatDisks(t *testing.T) {
	lines := FormatDisks([]DiskStat{{Device: "/dev/sda1", Total: 50 << 30, Used: 20 << 30, Free: 30 << 30, Percent: 40, Mountpoint: "/"}})
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "/dev/sda1"))
	assert.Contains(t, lines[1], "50G")
	assert.Contains(t, lines[1], "40%")

	assert.Equal(t, "512B", humanSize(512))
	assert.Equal(t, "1.5K", humanSize(1536))
	assert.Equal(t, "2M", humanSize(2<<20))
}

func TestCollectLocalHost(t *testing.T) {
	c := NewCollector(Options{Samples: 2, Interval: 10 * time.Millisecond}, logging.Discard())
	payload, err := c.Collect(context.Background())
	if err != nil {
		t.Skipf("host statistics unavailable: %v", err)
	}

	if lines, ok := payload.Get(metrics.TestCPUUsage); ok {
		assert.Len(t, lines, 2)
		_, ok := parser.ExtractCPU(lines)
		assert.True(t, ok)
		ts, ok := payload.Get(model.TimestampsKey)
		require.True(t, ok)
		assert.Len(t, ts, 2)
	}
	if lines, ok := payload.Get(metrics.TestMemoryUsage); ok {
		_, ok := parser.ExtractMemory(lines)
		assert.True(t, ok)
	}
}

func TestCollectHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCollector(Options{Samples: 3, Interval: time.Hour}, nil)
	_, err := c.Collect(ctx)
	assert.Error(t, err)
}
