package convert

import "sync/atomic"

// Tally counts terminal task outcomes. Both counters are incremented exactly
// once per task with no locking; they are only read for the final summary
// after the pool has joined, or opportunistically for progress.
type Tally struct {
	succeeded atomic.Int64
	failed    atomic.Int64
}

func (t *Tally) Record(outcome Outcome) {
	if outcome.Success {
		t.succeeded.Add(1)
	} else {
		t.failed.Add(1)
	}
}

func (t *Tally) Succeeded() int64 { return t.succeeded.Load() }

func (t *Tally) Failed() int64 { return t.failed.Load() }

func (t *Tally) Total() int64 { return t.succeeded.Load() + t.failed.Load() }
