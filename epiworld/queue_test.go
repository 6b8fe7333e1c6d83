package epiworld

import "testing"

func TestActiveQueueIncrementAndScan(t *testing.T) {
	q := NewActiveQueue(3)
	if q.ShouldScan(0) {
		t.Fatal("expected agent 0 not to be scanned before any increment")
	}
	q.Increment(0, 1)
	if !q.ShouldScan(0) {
		t.Fatal("expected agent 0 to be scanned after a positive increment")
	}
	q.Increment(0, -1)
	if q.ShouldScan(0) {
		t.Fatal("expected agent 0 not to be scanned after returning to zero")
	}
}

func TestActiveQueueInvariantCatchesNegative(t *testing.T) {
	q := NewActiveQueue(2)
	q.SetDebug(true)
	q.Increment(1, -1)
	if bad := q.CheckInvariant(); bad != 1 {
		t.Fatalf("expected invariant violation at index 1, got %d", bad)
	}
}

func TestActiveQueueInvariantOffByDefault(t *testing.T) {
	q := NewActiveQueue(2)
	q.Increment(0, -5)
	if bad := q.CheckInvariant(); bad != -1 {
		t.Fatalf("expected no invariant check without debug mode, got %d", bad)
	}
}

func TestActiveQueueResize(t *testing.T) {
	q := NewActiveQueue(2)
	q.Increment(1, 3)
	q.Resize(4)
	if q.Count(1) != 3 {
		t.Fatalf("expected count preserved after growth, got %d", q.Count(1))
	}
	if q.Count(3) != 0 {
		t.Fatalf("expected new slot zeroed, got %d", q.Count(3))
	}
}
