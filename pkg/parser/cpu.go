package parser

import (
	"regexp"
	"strings"

	"github.com/helmcode/casediag/pkg/metrics"
)

const cpuLineMarker = "Cpu(s):"

var cpuPattern = regexp.MustCompile(`(\d+\.\d+)\s+us,\s+(\d+\.\d+)\s+sy,\s+(\d+\.\d+)\s+ni,\s+(\d+\.\d+)\s+id,\s+(\d+\.\d+)\s+wa`)

// ExtractCPU reads the user/system/nice/idle/wait split from the first line
// containing "Cpu(s):". It reports false when there is no such line or the
// line lacks any of the five fields.
func ExtractCPU(lines []string) (*metrics.CPUMetrics, bool) {
	for _, line := range lines {
		if !strings.Contains(line, cpuLineMarker) {
			continue
		}
		match := cpuPattern.FindStringSubmatch(line)
		if match == nil {
			return nil, false
		}
		return &metrics.CPUMetrics{
			User:   match[1],
			System: match[2],
			Nice:   match[3],
			Idle:   match[4],
			Wait:   match[5],
		}, true
	}
	return nil, false
}
