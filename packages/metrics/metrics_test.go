package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCollector_Record(t *testing.T) {
	c := NewCollector()

	c.Record(10*time.Millisecond, true, false)
	c.Record(20*time.Millisecond, false, false)
	c.Record(30*time.Millisecond, false, true)

	snap := c.Snapshot()
	assert.Equal(t, int64(3), snap.Evaluated)
	assert.Equal(t, int64(1), snap.Passed)
	assert.Equal(t, int64(2), snap.Failed)
	assert.Equal(t, int64(1), snap.TimedOut)
	assert.Greater(t, snap.Max, 25*time.Millisecond)
	assert.LessOrEqual(t, snap.P50, snap.P99)
}

func TestCollector_Reset(t *testing.T) {
	c := NewCollector()
	c.Record(time.Millisecond, true, false)
	c.Reset()

	snap := c.Snapshot()
	assert.Equal(t, int64(0), snap.Evaluated)
	assert.Equal(t, time.Duration(0), snap.Max)
}
