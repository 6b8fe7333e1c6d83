package epiworld

import "testing"

func newTestModel(t *testing.T, n int) *Model {
	t.Helper()
	m := NewModel(42)
	if err := m.AddState(0, false, nil); err != nil {
		t.Fatal(err)
	}
	if err := m.AddState(1, true, nil); err != nil {
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

func TestAddNeighborSymmetric(t *testing.T) {
	m := newTestModel(t, 2)
	a, b := &m.population[0], &m.population[1]
	a.AddNeighbor(b, true, true)
	if !a.hasNeighbor(1) || !b.hasNeighbor(0) {
		t.Fatal("expected symmetric neighbor link")
	}
}

func TestAddNeighborOneWay(t *testing.T) {
	m := newTestModel(t, 2)
	a, b := &m.population[0], &m.population[1]
	a.AddNeighbor(b, false, false)
	if !a.hasNeighbor(1) {
		t.Fatal("expected a to have b as neighbor")
	}
	if b.hasNeighbor(0) {
		t.Fatal("expected b to not have a as neighbor without checkTarget")
	}
}

func TestAgentAddVirusRejectsUnregistered(t *testing.T) {
	m := newTestModel(t, 1)
	a := &m.population[0]
	v := NewVirus("flu", Seq{0x01})
	if err := a.AddVirus(m, v, NoState, NoState); err == nil {
		t.Fatal("expected error adding an unregistered virus")
	}
}

func TestAgentAddVirusAppliesDefaultStateAndQueue(t *testing.T) {
	m := newTestModel(t, 2)
	m.population[0].AddNeighbor(&m.population[1], true, true)
	v := NewVirus("flu", Seq{0x01})
	v.SetState(1, 0, 0)
	v.SetQueue(NoState, NoState, NoState)
	if err := m.RegisterVirus(v, 0, false); err != nil {
		t.Fatal(err)
	}

	a := &m.population[0]
	if err := a.AddVirus(m, v, NoState, NoState); err != nil {
		t.Fatal(err)
	}
	if err := m.applyEvents(); err != nil {
		t.Fatal(err)
	}
	if a.state != 1 {
		t.Fatalf("expected agent to move to state 1, got %d", a.state)
	}
	if len(a.viruses) != 1 {
		t.Fatalf("expected agent to carry one virus instance, got %d", len(a.viruses))
	}
	// crossing into the exposed state should bump the agent's own counter
	// and its neighbor's counter by one.
	if m.queue.Count(0) != 1 {
		t.Fatalf("expected target queue count 1, got %d", m.queue.Count(0))
	}
	if m.queue.Count(1) != 1 {
		t.Fatalf("expected neighbor queue count 1, got %d", m.queue.Count(1))
	}
}

func TestAgentRmVirusRejectsOutOfRange(t *testing.T) {
	m := newTestModel(t, 1)
	a := &m.population[0]
	if err := a.RmVirus(m, 0, NoState, NoState); err == nil {
		t.Fatal("expected error removing from an empty virus list")
	}
}
