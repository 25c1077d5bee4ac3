package profiler

import (
	"log"
	"runtime"
	"time"
)

// Profiler times the phases of a forge run and reports memory statistics for each.
// Outputs one log line per phase mark.
type Profiler struct {
	logger         *log.Logger
	start          time.Time
	lastTime       time.Time
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// NewProfiler creates a new Profiler that starts timing immediately.
// A nil logger falls back to the standard logger.
//
// Parameters:
//   - logger: the destination for phase reports
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(logger *log.Logger) *Profiler {
	if logger == nil {
		logger = log.Default()
	}
	now := time.Now()
	p := &Profiler{
		logger:   logger,
		start:    now,
		lastTime: now,
	}
	runtime.ReadMemStats(&p.memStats)
	p.lastGCCount = p.memStats.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return p
}

// Mark ends the current phase and logs its duration along with heap usage, the bytes allocated
// during the phase, and GC count/pause times.
//
// Parameters:
//   - phase: the name of the phase that just finished
//
// Returns:
//   - time.Duration: the duration of the phase
func (p *Profiler) Mark(phase string) time.Duration {
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024
	phaseAllocMB := float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024

	gcCount := p.memStats.NumGC
	var maxPauseUs uint64
	// PauseNs is a circular buffer of last 256 GC pauses
	startIdx := p.lastGCCount
	if gcCount-startIdx > 256 {
		startIdx = gcCount - 256
	}
	for i := startIdx; i < gcCount; i++ {
		if pause := p.memStats.PauseNs[i%256] / 1000; pause > maxPauseUs {
			maxPauseUs = pause
		}
	}

	p.logger.Printf("[Profiler] %s: %s | Heap: %.2f MB | Allocated: %.2f MB | GC: %d (max: %d µs) | Sys: %.2f MB",
		phase, elapsed, allocMB, phaseAllocMB, gcCount-p.lastGCCount, maxPauseUs, sysMB)

	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return elapsed
}

// Total returns the time elapsed since the profiler was created.
func (p *Profiler) Total() time.Duration {
	return time.Since(p.start)
}
