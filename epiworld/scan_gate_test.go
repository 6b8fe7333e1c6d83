package epiworld

import "testing"

func newScanGateModel(t *testing.T, n int, calls map[int]int) *Model {
	t.Helper()
	m := NewModel(9)
	if err := m.AddState(0, false, func(a *Agent, mm *Model) {
		calls[a.Index()]++
	}); err != nil {
		t.Fatal(err)
	}
	m.population = make([]Agent, n)
	for i := range m.population {
		m.population[i] = Agent{id: i, index: i, state: 0}
	}
	m.queue = NewActiveQueue(n)
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestScanGatesOnActiveCountRegardlessOfExposure(t *testing.T) {
	calls := map[int]int{}
	m := newScanGateModel(t, 3, calls)
	m.queue.Increment(1, 1)

	m.scan()

	if calls[0] != 0 || calls[2] != 0 {
		t.Fatalf("expected agents with active==0 to be skipped by the scan gate, got calls=%v", calls)
	}
	if calls[1] != 1 {
		t.Fatalf("expected the agent with active>0 to be scanned, got calls=%v", calls)
	}
}

func TestScanDisabledQueuingScansEveryAgent(t *testing.T) {
	calls := map[int]int{}
	m := newScanGateModel(t, 3, calls)
	m.SetQueuingEnabled(false)

	m.scan()

	for i := 0; i < 3; i++ {
		if calls[i] != 1 {
			t.Fatalf("expected every agent to be scanned with queuing disabled, got calls=%v", calls)
		}
	}
}
