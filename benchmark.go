package main

import (
	"encoding/csv"
	"runtime"
	"strconv"
)

var csvHeader = []string{"Structure", "Config", "TestType", "LatencyNs", "MemMB", "HeapObjects"}

// BenchResult is one measurement. Objects tracks GC pressure. TotalAllocMB
// is cumulative and only goes to the metrics file, the CSV keeps the six
// columns of csvHeader.
type BenchResult struct {
	Name         string
	Config       string
	Operation    string
	LatencyNs    int64
	MemMB        uint64
	TotalAllocMB uint64
	Objects      uint64
}

// sampled fills the memory columns of res from a fresh GetDetailedMem.
func (res BenchResult) sampled() BenchResult {
	stats := GetDetailedMem()
	res.MemMB = stats.AllocMB
	res.TotalAllocMB = stats.TotalAllocMB
	res.Objects = stats.HeapObjects
	return res
}

type MemoryStats struct {
	AllocMB      uint64
	TotalAllocMB uint64
	HeapObjects  uint64
}

// GetDetailedMem forces a GC so the numbers reflect live data, not garbage.
func GetDetailedMem() MemoryStats {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	return MemoryStats{
		AllocMB:      m.Alloc / 1024 / 1024,
		TotalAllocMB: m.TotalAlloc / 1024 / 1024,
		HeapObjects:  m.HeapObjects,
	}
}

// Record writes res as a 6-column row.
func Record(w *csv.Writer, res BenchResult) error {
	return w.Write([]string{
		res.Name,
		res.Config,
		res.Operation,
		strconv.FormatInt(res.LatencyNs, 10),
		strconv.FormatUint(res.MemMB, 10),
		strconv.FormatUint(res.Objects, 10),
	})
}
