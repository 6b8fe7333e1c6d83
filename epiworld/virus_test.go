package epiworld

import "testing"

func TestVirusConstFallback(t *testing.T) {
	v := NewVirus("flu", Seq{0x01})
	if p := v.GetProbInfecting(nil, nil); p != 0 {
		t.Fatalf("expected 0 with no hook or constant, got %v", p)
	}
	v.SetConstProbInfecting(0.3)
	if p := v.GetProbInfecting(nil, nil); p != 0.3 {
		t.Fatalf("expected constant fallback 0.3, got %v", p)
	}
	v.SetProbInfecting(func(host *Agent, vv *Virus, m *Model) float64 { return 0.9 })
	if p := v.GetProbInfecting(nil, nil); p != 0.9 {
		t.Fatalf("expected hook to take priority over constant, got %v", p)
	}
}

func TestVirusPostRecoverySetOnce(t *testing.T) {
	v := NewVirus("flu", Seq{0x01})
	if err := v.SetPostRecovery(func(host *Agent, vv *Virus, m *Model) {}); err != nil {
		t.Fatalf("first SetPostRecovery should succeed: %v", err)
	}
	if err := v.SetPostRecovery(func(host *Agent, vv *Virus, m *Model) {}); err == nil {
		t.Fatal("expected second SetPostRecovery to fail")
	}
}

func TestVirusClonePreservesConfigNotHost(t *testing.T) {
	v := NewVirus("flu", Seq{0x01, 0x02})
	v.SetConstProbDeath(0.1)
	v.host = &Agent{id: 1}
	clone := v.clone()
	if clone.host != nil {
		t.Fatal("expected clone to be host-less")
	}
	if clone.GetProbDeath(nil, nil) != 0.1 {
		t.Fatal("expected clone to retain constant fallback")
	}
}

func TestMutateNoopWithoutHook(t *testing.T) {
	v := NewVirus("flu", Seq{0x01})
	if err := v.Mutate(nil, nil); err != nil {
		t.Fatalf("expected no error without a mutation hook, got %v", err)
	}
}
