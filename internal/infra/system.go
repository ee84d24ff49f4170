// Package infra implements infrastructure concerns (filesystem, system probes, locking).
package infra

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
)

// SystemProbe reads host facts using gopsutil.
type SystemProbe struct{}

// NewSystemProbe creates a new system probe.
func NewSystemProbe() *SystemProbe {
	return &SystemProbe{}
}

// LogicalCPUs returns the number of logical CPUs, never less than 1.
func (s *SystemProbe) LogicalCPUs() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		n = runtime.NumCPU()
	}
	if n < 1 {
		return 1
	}
	return n
}

// WorkerCount resolves a configured worker count: 0 means one per logical CPU.
func (s *SystemProbe) WorkerCount(configured int) int {
	if configured > 0 {
		return configured
	}
	return s.LogicalCPUs()
}

// FreeSpace returns the bytes available on the filesystem holding path.
func (s *SystemProbe) FreeSpace(path string) (uint64, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return 0, err
	}
	return usage.Free, nil
}
