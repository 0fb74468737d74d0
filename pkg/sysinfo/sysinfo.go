// Package sysinfo snapshots the host resources the application is
// about to inherit, for the startup banner.
package sysinfo

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Snapshot describes the host at startup
type Snapshot struct {
	CPUModel     string `json:"cpu_model" yaml:"cpu_model"`
	CPUThreads   int    `json:"cpu_threads" yaml:"cpu_threads"`
	MemTotal     uint64 `json:"mem_total_bytes" yaml:"mem_total_bytes"`
	MemAvailable uint64 `json:"mem_available_bytes" yaml:"mem_available_bytes"`
	OS           string `json:"os" yaml:"os"`
	Arch         string `json:"arch" yaml:"arch"`
}

// Collect gathers the snapshot. Fields that cannot be read stay at
// their zero values; a banner must never block startup.
func Collect() Snapshot {
	snap := Snapshot{
		CPUThreads: runtime.NumCPU(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
	}

	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		snap.CPUModel = infos[0].ModelName
	}
	if vmem, err := mem.VirtualMemory(); err == nil {
		snap.MemTotal = vmem.Total
		snap.MemAvailable = vmem.Available
	}
	return snap
}

// FormatBytes renders a byte count as GB with one decimal
func FormatBytes(b uint64) string {
	const gb = 1 << 30
	return fmt.Sprintf("%.1f GB", float64(b)/float64(gb))
}
