package metrics

import (
	"fmt"
	"math/bits"
	"runtime"
)

const wordBytes = bits.UintSize / 8

// MemorySnapshot is the subset of runtime.MemStats shown by the REPL's
// status command.
type MemorySnapshot struct {
	HeapAlloc    uint64
	HeapSys      uint64
	Sys          uint64
	HeapObjects  uint64
	NumGC        uint32
	PauseTotalNs uint64
}

// HeapWords is HeapAlloc in machine words, the unit register capacity is
// reported in.
func (s MemorySnapshot) HeapWords() uint64 { return s.HeapAlloc / wordBytes }

func (s MemorySnapshot) String() string {
	return fmt.Sprintf("heap %d B (%d objects), sys %d B, %d GC cycles", s.HeapAlloc, s.HeapObjects, s.Sys, s.NumGC)
}

// MemoryCollector reads runtime memory statistics on demand.
type MemoryCollector struct{}

func NewMemoryCollector() *MemoryCollector { return &MemoryCollector{} }

// Snapshot stops the world briefly to read runtime.MemStats.
func (*MemoryCollector) Snapshot() MemorySnapshot {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return MemorySnapshot{
		HeapAlloc:    ms.HeapAlloc,
		HeapSys:      ms.HeapSys,
		Sys:          ms.Sys,
		HeapObjects:  ms.HeapObjects,
		NumGC:        ms.NumGC,
		PauseTotalNs: ms.PauseTotalNs,
	}
}
