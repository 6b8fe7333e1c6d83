package epiworld

// ActiveQueue tracks, per agent, a signed counter of infected-neighbor
// pressure. An agent is scanned on the next step iff its counter is
// positive; the counter is incremented and decremented as neighbors enter
// and leave the exposed state set, so an agent with no infected neighbors
// and no direct queue_delta is skipped entirely (spec.md §4.6).
type ActiveQueue struct {
	counts []int
	debug  bool
}

// NewActiveQueue allocates a queue for a population of size n.
func NewActiveQueue(n int) *ActiveQueue {
	return &ActiveQueue{counts: make([]int, n)}
}

// SetDebug enables the post-step invariant check that every counter is
// non-negative.
func (q *ActiveQueue) SetDebug(on bool) { q.debug = on }

// Resize grows or shrinks the backing store to n agents, preserving
// existing counters.
func (q *ActiveQueue) Resize(n int) {
	if n <= len(q.counts) {
		q.counts = q.counts[:n]
		return
	}
	grown := make([]int, n)
	copy(grown, q.counts)
	q.counts = grown
}

// Increment adjusts agent idx's counter by delta.
func (q *ActiveQueue) Increment(idx, delta int) {
	if idx < 0 || idx >= len(q.counts) || delta == 0 {
		return
	}
	q.counts[idx] += delta
}

// ShouldScan reports whether agent idx should be visited during the next
// scan phase.
func (q *ActiveQueue) ShouldScan(idx int) bool {
	return q.counts[idx] > 0
}

// CheckInvariant verifies every counter is non-negative, returning the
// first offending index, or -1 if debug mode is off or the queue is
// consistent. A negative counter indicates a queue_delta bookkeeping bug
// (spec.md §8's debug-mode invariant).
func (q *ActiveQueue) CheckInvariant() int {
	if !q.debug {
		return -1
	}
	for i, c := range q.counts {
		if c < 0 {
			return i
		}
	}
	return -1
}

// Count returns agent idx's current counter value.
func (q *ActiveQueue) Count(idx int) int { return q.counts[idx] }

// Reset zeroes every counter.
func (q *ActiveQueue) Reset() {
	for i := range q.counts {
		q.counts[i] = 0
	}
}
