package epiworld

import "testing"

func TestDefaultRmVirusRunsPostRecoveryAndTransitionsState(t *testing.T) {
	m := newTestModel(t, 1)
	v := NewVirus("flu", Seq{0x01})
	v.SetState(1, 0, 0)
	ran := false
	if err := v.SetPostRecovery(func(host *Agent, vv *Virus, mm *Model) { ran = true }); err != nil {
		t.Fatal(err)
	}
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
		t.Fatalf("expected state 1 after add, got %d", a.state)
	}

	if err := a.RmVirus(m, 0, NoState, NoState); err != nil {
		t.Fatal(err)
	}
	if err := m.applyEvents(); err != nil {
		t.Fatal(err)
	}
	if !ran {
		t.Fatal("expected post-recovery hook to run")
	}
	if a.state != 0 {
		t.Fatalf("expected state_post 0 after removal, got %d", a.state)
	}
	if len(a.viruses) != 0 {
		t.Fatalf("expected virus removed from agent, got %d", len(a.viruses))
	}
}

func TestPostImmunityGrantsToolOnRecovery(t *testing.T) {
	m := newTestModel(t, 1)
	v := NewVirus("flu", Seq{0x01})
	v.SetState(1, 0, 0)
	if err := v.SetPostImmunity(0.8); err != nil {
		t.Fatal(err)
	}
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
	if err := a.RmVirus(m, 0, NoState, NoState); err != nil {
		t.Fatal(err)
	}
	// applyEvents must drain the add-tool event the post-recovery hook
	// enqueues in the same pass.
	if err := m.applyEvents(); err != nil {
		t.Fatal(err)
	}
	if len(a.tools) != 1 {
		t.Fatalf("expected one granted immunity tool, got %d", len(a.tools))
	}
	if got := a.SusceptibilityReduction(m, v); got != 0.8 {
		t.Fatalf("expected susceptibility reduction 0.8, got %v", got)
	}
}

func TestChangeStateDirect(t *testing.T) {
	m := newTestModel(t, 1)
	a := &m.population[0]
	if err := a.ChangeState(m, 1, NoState); err != nil {
		t.Fatal(err)
	}
	if err := m.applyEvents(); err != nil {
		t.Fatal(err)
	}
	if a.state != 1 {
		t.Fatalf("expected state 1, got %d", a.state)
	}
}

func TestChangeStateRejectsUnknownCode(t *testing.T) {
	m := newTestModel(t, 1)
	a := &m.population[0]
	if err := a.ChangeState(m, 99, NoState); err == nil {
		t.Fatal("expected error for undeclared state code")
	}
}
