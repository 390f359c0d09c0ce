package parser

import (
	"strings"

	"github.com/helmcode/casediag/pkg/metrics"
)

// ExtractLoadAverage takes the 1, 5 and 15 minute averages from the first
// line, as printed by /proc/loadavg. Later lines are ignored.
func ExtractLoadAverage(lines []string) (*metrics.LoadAverage, bool) {
	if len(lines) == 0 {
		return nil, false
	}

	parts := strings.Fields(lines[0])
	if len(parts) < 3 {
		return nil, false
	}

	return &metrics.LoadAverage{
		Load1:  parts[0],
		Load5:  parts[1],
		Load15: parts[2],
	}, true
}
