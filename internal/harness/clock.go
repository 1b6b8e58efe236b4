package harness

import "sync/atomic"

// Clock stamps trace events with strictly increasing sequence numbers.
// testutil.DeterministicClock satisfies it.
type Clock interface {
	Next() int64
}

// logicalClock is the default Clock. The first Next returns 1.
type logicalClock struct {
	seq atomic.Int64
}

func (c *logicalClock) Next() int64 {
	return c.seq.Add(1)
}
