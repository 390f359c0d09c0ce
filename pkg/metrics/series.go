package metrics

import (
	"fmt"
	"regexp"
	"strconv"
)

// CPUSeriesLabel is the dataset label used for CPU usage charts
const CPUSeriesLabel = "CPU Usage (%)"

// idlePattern matches the idle field of a top CPU line. Newer top prints
// "80.0 id", older versions "80.0%id" or "80.0% id".
var idlePattern = regexp.MustCompile(`(\d+\.\d+)%?\s*id\b`)

// BuildCPUSeries converts cpu_usage lines into a usage series (100 - idle).
// Lines without an idle value are dropped, not zero-filled. Timestamps label
// the points only when there is exactly one per point; otherwise the labels
// are "Point 1".."Point N".
func BuildCPUSeries(lines []string, timestamps []string) (*ChartSeries, bool) {
	var usages []float64
	for _, line := range lines {
		match := idlePattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		idle, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		usages = append(usages, 100-idle)
	}

	if len(usages) == 0 {
		return nil, false
	}

	var labels []string
	if len(timestamps) > 0 && len(timestamps) == len(usages) {
		labels = append(labels, timestamps...)
	} else {
		labels = make([]string, len(usages))
		for i := range usages {
			labels[i] = fmt.Sprintf("Point %d", i+1)
		}
	}

	return &ChartSeries{
		Label:   CPUSeriesLabel,
		Labels:  labels,
		Dataset: usages,
		Summary: Summarize(usages),
	}, true
}

// Summarize calculates basic statistics for a series
func Summarize(values []float64) SeriesSummary {
	avg, peak, min, current := calculateStats(values)
	return SeriesSummary{
		Average:     avg,
		Peak:        peak,
		Minimum:     min,
		Current:     current,
		Trend:       calculateTrend(values),
		Utilization: calculateUtilization(peak),
	}
}

func calculateStats(values []float64) (avg, peak, min, current float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	sum := 0.0
	peak = values[0]
	min = values[0]
	current = values[len(values)-1]

	for _, v := range values {
		sum += v
		if v > peak {
			peak = v
		}
		if v < min {
			min = v
		}
	}

	avg = sum / float64(len(values))
	return avg, peak, min, current
}

// calculateTrend compares the last value with the first; a move of more
// than 10% of the first value counts as a trend.
func calculateTrend(values []float64) string {
	if len(values) < 2 {
		return "stable"
	}

	first := values[0]
	last := values[len(values)-1]
	diff := last - first

	if diff > first*0.1 {
		return "increasing"
	} else if diff < -first*0.1 {
		return "decreasing"
	}
	return "stable"
}

func calculateUtilization(peak float64) string {
	if peak > 90 {
		return "critical"
	} else if peak > 70 {
		return "high"
	} else if peak > 30 {
		return "medium"
	}
	return "low"
}
