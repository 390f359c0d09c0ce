package capture

import (
	"fmt"
	"strings"
	"time"
)

// CPUPercent is the share of CPU time per state over a sampling interval
type CPUPercent struct {
	User, System, Nice, Idle, Wait, IRQ, SoftIRQ, Steal float64
}

// MemoryStat holds sizes in bytes
type MemoryStat struct {
	Total, Used, Free, Shared, BuffCache, Available uint64
}

// SwapStat holds sizes in bytes
type SwapStat struct {
	Total, Used, Free uint64
}

// LoadStat is the kernel load average plus the runnable/total task counts
type LoadStat struct {
	Load1, Load5, Load15 float64
	Running, Total       int
}

// Listener is one listening or bound socket
type Listener struct {
	Proto  string
	State  string
	Local  string
	Remote string
}

// DiskStat is the usage of one mounted filesystem
type DiskStat struct {
	Device     string
	Total      uint64
	Used       uint64
	Free       uint64
	Percent    float64
	Mountpoint string
}

const mebibyte = 1024 * 1024

// FormatCPULine renders a top batch mode CPU line
func FormatCPULine(p CPUPercent) string {
	return fmt.Sprintf("%%Cpu(s): %4.1f us, %4.1f sy, %4.1f ni, %4.1f id, %4.1f wa, %4.1f hi, %4.1f si, %4.1f st",
		p.User, p.System, p.Nice, p.Idle, p.Wait, p.IRQ, p.SoftIRQ, p.Steal)
}

// FormatFree renders free -m output. The swap row is omitted when swap is nil.
func FormatFree(m MemoryStat, swap *SwapStat) []string {
	lines := []string{
		fmt.Sprintf("%15s %11s %11s %11s %11s %11s", "total", "used", "free", "shared", "buff/cache", "available"),
		fmt.Sprintf("Mem:   %11d %11d %11d %11d %11d %11d",
			m.Total/mebibyte, m.Used/mebibyte, m.Free/mebibyte, m.Shared/mebibyte, m.BuffCache/mebibyte, m.Available/mebibyte),
	}
	if swap != nil {
		lines = append(lines, FormatSwapLine(*swap))
	}
	return lines
}

// FormatSwapLine renders the Swap row of free -m
func FormatSwapLine(s SwapStat) string {
	return fmt.Sprintf("Swap:  %11d %11d %11d", s.Total/mebibyte, s.Used/mebibyte, s.Free/mebibyte)
}

// FormatLoadAvg renders /proc/loadavg without the last pid field
func FormatLoadAvg(l LoadStat) string {
	return fmt.Sprintf("%.2f %.2f %.2f %d/%d", l.Load1, l.Load5, l.Load15, l.Running, l.Total)
}

// FormatUptime renders uptime output
func FormatUptime(now time.Time, uptime time.Duration, l LoadStat) string {
	days := int(uptime.Hours()) / 24
	hours := int(uptime.Hours()) % 24
	minutes := int(uptime.Minutes()) % 60

	var up string
	switch {
	case days > 0:
		unit := "days"
		if days == 1 {
			unit = "day"
		}
		up = fmt.Sprintf("%d %s, %2d:%02d", days, unit, hours, minutes)
	case hours > 0:
		up = fmt.Sprintf("%2d:%02d", hours, minutes)
	default:
		up = fmt.Sprintf("%d min", minutes)
	}

	return fmt.Sprintf(" %s up %s,  load average: %.2f, %.2f, %.2f",
		now.Format("15:04:05"), up, l.Load1, l.Load5, l.Load15)
}

// FormatListeners renders ss -tuln output
func FormatListeners(listeners []Listener) []string {
	lines := []string{fmt.Sprintf("%-6s %-7s %-6s %-6s %-24s %s", "Netid", "State", "Recv-Q", "Send-Q", "Local Address:Port", "Peer Address:Port")}
	for _, l := range listeners {
		lines = append(lines, fmt.Sprintf("%-6s %-7s %-6d %-6d %-24s %s", l.Proto, l.State, 0, 0, l.Local+" ", l.Remote))
	}
	return lines
}

// FormatDisks renders df -h output
func FormatDisks(disks []DiskStat) []string {
	lines := []string{fmt.Sprintf("%-20s %6s %6s %6s %5s %s", "Filesystem", "Size", "Used", "Avail", "Use%", "Mounted on")}
	for _, d := range disks {
		lines = append(lines, fmt.Sprintf("%-20s %6s %6s %6s %4.0f%% %s",
			d.Device, humanSize(d.Total), humanSize(d.Used), humanSize(d.Free), d.Percent, d.Mountpoint))
	}
	return lines
}

func humanSize(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%dB", b)
	}
	value := float64(b)
	suffixes := []string{"K", "M", "G", "T", "P"}
	i := -1
	for value >= unit && i < len(suffixes)-1 {
		value /= unit
		i++
	}
	if value < 10 {
		return strings.TrimSuffix(fmt.Sprintf("%.1f", value), ".0") + suffixes[i]
	}
	return fmt.Sprintf("%.0f%s", value, suffixes[i])
}
