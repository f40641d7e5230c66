package scheduler

import (
	"sync"
	"time"

	"IDXScreener/internal/model"
)

// RunState is the last completed scan plus an in-progress flag. Safe for concurrent use.
type RunState struct {
	mu       sync.Mutex
	running  bool
	lastScan time.Time
	outcome  *model.ScanOutcome
}

// Last returns when the last scan finished and its outcome; ok is false before the first scan.
func (r *RunState) Last() (at time.Time, out *model.ScanOutcome, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastScan, r.outcome, r.outcome != nil
}

// Running reports whether a scan is in progress.
func (r *RunState) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *RunState) begin() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return false
	}
	r.running = true
	return true
}

func (r *RunState) end(out *model.ScanOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
	if out != nil {
		r.outcome = out
		r.lastScan = out.FinishedAt
	}
}
