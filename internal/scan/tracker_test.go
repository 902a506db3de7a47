package scan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerRejectsConcurrentScan(t *testing.T) {
	tr := NewTracker()

	require.NoError(t, tr.Begin("_src"))
	err := tr.Begin("_src")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrScanRunning))

	// A finished job frees the slot.
	tr.Complete("_src")
	assert.NoError(t, tr.Begin("_src"))
}

func TestTrackerProgressIsMonotonic(t *testing.T) {
	tr := NewTracker()
	require.NoError(t, tr.Begin("_src"))

	tr.Update("_src", 40)
	tr.Update("_src", 25)
	job, ok := tr.Progress("_src")
	require.True(t, ok)
	assert.Equal(t, 40.0, job.Progress, "progress never moves backwards")

	tr.Update("_src", 250)
	job, _ = tr.Progress("_src")
	assert.Equal(t, 100.0, job.Progress, "progress clamps at 100")
}

func TestTrackerFailKeepsProgress(t *testing.T) {
	tr := NewTracker()
	require.NoError(t, tr.Begin("_src"))
	tr.Update("_src", 60)
	tr.Fail("_src")

	job, ok := tr.Progress("_src")
	require.True(t, ok)
	assert.False(t, job.Running)
	assert.Equal(t, 60.0, job.Progress)

	// A failed scan can be restarted.
	assert.NoError(t, tr.Begin("_src"))
}

func TestTrackerUnknownJob(t *testing.T) {
	tr := NewTracker()

	_, ok := tr.Progress("_nope")
	assert.False(t, ok)

	// Updates for unknown jobs are dropped, not materialized.
	tr.Update("_nope", 50)
	_, ok = tr.Progress("_nope")
	assert.False(t, ok)
}
