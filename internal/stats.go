package internal

import (
	"fmt"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/process"
)

// ProcessStats returns live process metrics for the inspect page.
// Lookup failures degrade to partial stats rather than erroring.
func ProcessStats(extra map[string]any) map[string]any {
	stats := map[string]any{
		"goroutines": runtime.NumGoroutine(),
	}
	for k, v := range extra {
		stats[k] = v
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return stats
	}
	if mem, err := proc.MemoryInfo(); err == nil {
		stats["rss_mb"] = fmt.Sprintf("%.1f", float64(mem.RSS)/(1024*1024))
	}
	if cpu, err := proc.CPUPercent(); err == nil {
		stats["cpu_pct"] = fmt.Sprintf("%.1f", cpu)
	}
	return stats
}
