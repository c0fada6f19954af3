// Package sysmon samples system-wide CPU and memory usage, so storage
// ceilings can be compared with what the machine actually has.
package sysmon

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/agbru/mpbits/internal/format"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent     float64 // 0.0 .. 100.0
	MemPercent     float64 // 0.0 .. 100.0
	TotalBytes     uint64
	AvailableBytes uint64
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Fields that cannot be read
// are left at zero.
func Sample() Stats {
	var s Stats
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
		s.TotalBytes = vmem.Total
		s.AvailableBytes = vmem.Available
	}
	return s
}

// String renders the snapshot on one line.
func (s Stats) String() string {
	return fmt.Sprintf("cpu %.1f%%, memory %.1f%% used (%s of %s available)",
		s.CPUPercent, s.MemPercent, format.FormatBytes(s.AvailableBytes), format.FormatBytes(s.TotalBytes))
}

// Fits reports whether a request of the given size fits in the available
// memory. It returns true when availability is unknown.
func (s Stats) Fits(bytes uint64) bool {
	return s.AvailableBytes == 0 || bytes <= s.AvailableBytes
}
