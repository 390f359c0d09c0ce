package metrics

// Test names with a dedicated extractor. Any other key in an analysis payload
// is still rendered, as raw text.
const (
	TestCPUUsage    = "cpu_usage"
	TestMemoryUsage = "memory_usage"
	TestLoadAverage = "load_average"
)

// CPUMetrics is the CPU breakdown taken from a top "Cpu(s):" line.
// Values are kept exactly as printed by the capture tool.
type CPUMetrics struct {
	User   string `json:"user" yaml:"user"`
	System string `json:"system" yaml:"system"`
	Nice   string `json:"nice" yaml:"nice"`
	Idle   string `json:"idle" yaml:"idle"`
	Wait   string `json:"wait" yaml:"wait"`
}

// MemoryMetrics represents the "Mem:" row of free -m, in MB
type MemoryMetrics struct {
	Total     string       `json:"total" yaml:"total"`
	Used      string       `json:"used" yaml:"used"`
	Free      string       `json:"free" yaml:"free"`
	Shared    string       `json:"shared" yaml:"shared"`
	BuffCache string       `json:"buff_cache" yaml:"buff_cache"`
	Available string       `json:"available" yaml:"available"`
	Swap      *SwapMetrics `json:"swap,omitempty" yaml:"swap,omitempty"`
}

// SwapMetrics represents the "Swap:" row of free -m, in MB
type SwapMetrics struct {
	Total string `json:"total" yaml:"total"`
	Used  string `json:"used" yaml:"used"`
	Free  string `json:"free" yaml:"free"`
}

// LoadAverage holds the 1, 5 and 15 minute load averages
type LoadAverage struct {
	Load1  string `json:"load1" yaml:"load1"`
	Load5  string `json:"load5" yaml:"load5"`
	Load15 string `json:"load15" yaml:"load15"`
}

// ChartSeries is a chartable CPU usage series. Labels and Dataset always
// have the same length.
type ChartSeries struct {
	Label   string        `json:"label" yaml:"label"`
	Labels  []string      `json:"labels" yaml:"labels"`
	Dataset []float64     `json:"dataset" yaml:"dataset"`
	Summary SeriesSummary `json:"summary" yaml:"summary"`
}

// SeriesSummary represents a summary of a series' values
type SeriesSummary struct {
	Average     float64 `json:"average" yaml:"average"`
	Peak        float64 `json:"peak" yaml:"peak"`
	Minimum     float64 `json:"minimum" yaml:"minimum"`
	Current     float64 `json:"current" yaml:"current"`
	Trend       string  `json:"trend" yaml:"trend"`             // "increasing", "decreasing", "stable"
	Utilization string  `json:"utilization" yaml:"utilization"` // "low", "medium", "high", "critical"
}
