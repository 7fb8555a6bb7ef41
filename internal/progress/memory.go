package progress

import (
	"os"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// MemoryUsage is the memory readout appended to progress lines.
type MemoryUsage struct {
	ProcessRSSMB         int64
	SystemMemUsedPercent float64
}

// GetMemoryUsage reads the resident set size of this process and the system
// memory usage. ok is false when neither could be read.
func GetMemoryUsage() (usage MemoryUsage, ok bool) {
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if info, err := proc.MemoryInfo(); err == nil {
			usage.ProcessRSSMB = int64(info.RSS / 1024 / 1024)
			ok = true
		}
	}

	if vmStat, err := mem.VirtualMemory(); err == nil {
		usage.SystemMemUsedPercent = vmStat.UsedPercent
		ok = true
	}

	return usage, ok
}
