package parser

import (
	"strings"

	"github.com/helmcode/casediag/pkg/metrics"
)

// Minimum token counts, label included.
const (
	memoryMinTokens = 7
	swapMinTokens   = 4
)

// ExtractMemory reads free -m output. Columns are positional: total, used,
// free, shared, buff/cache, available for "Mem:" and total, used, free for
// "Swap:". A missing or short swap row leaves Swap nil.
func ExtractMemory(lines []string) (*metrics.MemoryMetrics, bool) {
	memLine, ok := findPrefixed(lines, "mem:")
	if !ok {
		return nil, false
	}

	memParts := strings.Fields(memLine)
	if len(memParts) < memoryMinTokens {
		return nil, false
	}

	mem := &metrics.MemoryMetrics{
		Total:     memParts[1],
		Used:      memParts[2],
		Free:      memParts[3],
		Shared:    memParts[4],
		BuffCache: memParts[5],
		Available: memParts[6],
	}

	if swapLine, ok := findPrefixed(lines, "swap:"); ok {
		swapParts := strings.Fields(swapLine)
		if len(swapParts) >= swapMinTokens {
			mem.Swap = &metrics.SwapMetrics{
				Total: swapParts[1],
				Used:  swapParts[2],
				Free:  swapParts[3],
			}
		}
	}

	return mem, true
}

// findPrefixed returns the first line whose lower-cased form starts with prefix
func findPrefixed(lines []string, prefix string) (string, bool) {
	for _, line := range lines {
		if strings.HasPrefix(strings.ToLower(line), prefix) {
			return line, true
		}
	}
	return "", false
}
