package scan

import (
	"errors"
	"sync"
	"time"
)

// ErrScanRunning indicates a scan is already in flight for the datasource.
// Check with errors.Is.
var ErrScanRunning = errors.New("scan already running")

// Status is the externally visible state of one scan job.
type Status struct {
	// Progress is 0-100 and never decreases within a scan.
	Progress  float64
	UpdatedAt time.Time
	Running   bool
}

// Tracker holds scan progress per datasource system identity. One scanner
// goroutine writes, any number of progress readers poll.
type Tracker struct {
	mu   sync.RWMutex
	jobs map[string]Status
}

func NewTracker() *Tracker {
	return &Tracker{jobs: make(map[string]Status)}
}

// Begin claims the scan slot for sysID. A datasource with a scan still in
// flight is rejected with ErrScanRunning; a finished job can be rescanned.
func (t *Tracker) Begin(sysID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if job, ok := t.jobs[sysID]; ok && job.Running {
		return ErrScanRunning
	}
	t.jobs[sysID] = Status{Progress: 0, UpdatedAt: time.Now(), Running: true}
	return nil
}

// Update advances progress. Values are clamped to [0,100] and never move
// backwards, so readers can treat progress as monotonic.
func (t *Tracker) Update(sysID string, progress float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.jobs[sysID]
	if !ok {
		return
	}
	if progress > 100 {
		progress = 100
	}
	if progress < job.Progress {
		progress = job.Progress
	}
	job.Progress = progress
	job.UpdatedAt = time.Now()
	t.jobs[sysID] = job
}

// Complete marks the scan finished at 100%.
func (t *Tracker) Complete(sysID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.jobs[sysID]; !ok {
		return
	}
	t.jobs[sysID] = Status{Progress: 100, UpdatedAt: time.Now(), Running: false}
}

// Fail releases the scan slot without claiming completion; the last reported
// progress stays visible to readers.
func (t *Tracker) Fail(sysID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.jobs[sysID]
	if !ok {
		return
	}
	job.Running = false
	job.UpdatedAt = time.Now()
	t.jobs[sysID] = job
}

// Progress reads the status of a job; ok is false for unknown datasources.
func (t *Tracker) Progress(sysID string) (Status, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	job, ok := t.jobs[sysID]
	return job, ok
}
