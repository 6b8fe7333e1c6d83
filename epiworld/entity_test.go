package epiworld

import "testing"

func TestEntityMembership(t *testing.T) {
	e := NewEntity("school")
	e.addMember(3)
	e.addMember(7)
	e.addMember(3) // duplicate, should not double-add
	if e.Size() != 2 {
		t.Fatalf("expected size 2, got %d", e.Size())
	}
	e.removeMember(3)
	if e.Size() != 1 {
		t.Fatalf("expected size 1 after removal, got %d", e.Size())
	}
	members := e.Members()
	if len(members) != 1 || members[0] != 7 {
		t.Fatalf("expected remaining member 7, got %v", members)
	}
}

func TestEntityRemoveMissingIsNoop(t *testing.T) {
	e := NewEntity("ward")
	e.removeMember(99)
	if e.Size() != 0 {
		t.Fatalf("expected size 0, got %d", e.Size())
	}
}

func TestAgentAddEntityRequiresRegistration(t *testing.T) {
	m := newTestModel(t, 3)
	e := NewEntity("household")
	a := m.Agent(0)
	if err := a.AddEntity(m, e, NoState, NoState); err == nil {
		t.Fatal("expected error adding an unregistered entity")
	}
}

func TestAgentAddEntityAppliesMembership(t *testing.T) {
	m := newTestModel(t, 3)
	e := NewEntity("household")
	if err := m.RegisterEntity(e); err != nil {
		t.Fatalf("RegisterEntity: %v", err)
	}
	a := m.Agent(0)
	if err := a.AddEntity(m, e, NoState, NoState); err != nil {
		t.Fatalf("AddEntity: %v", err)
	}
	if err := m.applyEvents(); err != nil {
		t.Fatalf("applyEvents: %v", err)
	}
	if e.Size() != 1 || e.Members()[0] != 0 {
		t.Fatalf("expected agent 0 to be the entity's sole member, got %v", e.Members())
	}
	if got, want := a.entities, []int{e.ID()}; len(got) != 1 || got[0] != want[0] {
		t.Fatalf("expected agent.entities = %v, got %v", want, got)
	}
}
