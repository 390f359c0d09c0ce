package report

import (
	"github.com/helmcode/casediag/pkg/metrics"
	"github.com/helmcode/casediag/pkg/parser"
)

// Extractor turns the raw lines of one test into a table. It reports false
// when the lines do not have the expected shape.
type Extractor func(lines []string) (*Table, bool)

// Registry maps test names to extractors. Unknown names resolve to the
// fallback, which never produces a table.
type Registry struct {
	extractors map[string]Extractor
	fallback   Extractor
}

// NewRegistry returns a registry with no specialized extractors
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[string]Extractor),
		fallback:   rawOnly,
	}
}

// DefaultRegistry knows the CPU, memory and load average captures
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(metrics.TestCPUUsage, cpuTable)
	r.Register(metrics.TestMemoryUsage, memoryTable)
	r.Register(metrics.TestLoadAverage, loadTable)
	return r
}

// Register sets the extractor for a test, replacing any previous one
func (r *Registry) Register(test string, fn Extractor) {
	r.extractors[test] = fn
}

// Lookup returns the extractor for a test, or the fallback
func (r *Registry) Lookup(test string) Extractor {
	if fn, ok := r.extractors[test]; ok {
		return fn
	}
	return r.fallback
}

func rawOnly([]string) (*Table, bool) {
	return nil, false
}

func cpuTable(lines []string) (*Table, bool) {
	cpu, ok := parser.ExtractCPU(lines)
	if !ok {
		return nil, false
	}
	return &Table{
		Kind: KindCPU,
		Groups: []FieldGroup{{
			Fields: []Field{
				{Label: "User %", Value: cpu.User},
				{Label: "System %", Value: cpu.System},
				{Label: "Nice %", Value: cpu.Nice},
				{Label: "Idle %", Value: cpu.Idle},
				{Label: "Wait %", Value: cpu.Wait},
			},
		}},
	}, true
}

func memoryTable(lines []string) (*Table, bool) {
	mem, ok := parser.ExtractMemory(lines)
	if !ok {
		return nil, false
	}

	table := &Table{
		Kind: KindMemory,
		Groups: []FieldGroup{{
			Title: "Memory Usage (MB)",
			Fields: []Field{
				{Label: "Total", Value: mem.Total},
				{Label: "Used", Value: mem.Used},
				{Label: "Free", Value: mem.Free},
				{Label: "Shared", Value: mem.Shared},
				{Label: "Buff/Cache", Value: mem.BuffCache},
				{Label: "Available", Value: mem.Available},
			},
		}},
	}
	if mem.Swap != nil {
		table.Groups = append(table.Groups, FieldGroup{
			Title: "Swap (MB)",
			Fields: []Field{
				{Label: "Total", Value: mem.Swap.Total},
				{Label: "Used", Value: mem.Swap.Used},
				{Label: "Free", Value: mem.Swap.Free},
			},
		})
	}
	return table, true
}

func loadTable(lines []string) (*Table, bool) {
	load, ok := parser.ExtractLoadAverage(lines)
	if !ok {
		return nil, false
	}
	return &Table{
		Kind: KindLoadAverage,
		Groups: []FieldGroup{{
			Title: "Load Averages",
			Fields: []Field{
				{Label: "1 min", Value: load.Load1},
				{Label: "5 min", Value: load.Load5},
				{Label: "15 min", Value: load.Load15},
			},
		}},
	}, true
}
