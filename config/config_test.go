package config

import "testing"

func validConfig() *Config {
	return &Config{
		Simulation: &SimulationConfig{
			NumDays:      10,
			NumInstances: 1,
			PopSize:      20,
			States: []State{
				{Code: 1, Name: "susceptible"},
				{Code: 2, Name: "infected", Exposed: true},
				{Code: 3, Name: "recovered"},
			},
		},
		Network: &NetworkConfig{Kind: "ring", RingK: 2},
		Viruses: []*VirusConfig{
			{Name: "flu", ProbInfecting: 0.3, ProbRecovery: 0.1, Prevalence: 0.1},
		},
	}
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	if !c.validated {
		t.Fatal("expected Validate to set validated")
	}
}

func TestValidateRejectsMissingStates(t *testing.T) {
	c := validConfig()
	c.Simulation.States = nil
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for missing states")
	}
}

func TestValidateRejectsDuplicateStateCodes(t *testing.T) {
	c := validConfig()
	c.Simulation.States = append(c.Simulation.States, State{Code: 1, Name: "dup"})
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for duplicate state code")
	}
}

func TestValidateRejectsUnknownNetworkKind(t *testing.T) {
	c := validConfig()
	c.Network.Kind = "mesh"
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for unrecognized network kind")
	}
}

func TestValidateRejectsEdgelistWithoutPath(t *testing.T) {
	c := validConfig()
	c.Network = &NetworkConfig{Kind: "edgelist"}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for missing edgelist_path")
	}
}

func TestValidateRejectsVirusProbabilityOutOfRange(t *testing.T) {
	c := validConfig()
	c.Viruses[0].ProbInfecting = 1.5
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for out-of-range probability")
	}
}

func TestValidateRejectsLFMCMCBurninTooLarge(t *testing.T) {
	c := validConfig()
	c.LFMCMC = &LFMCMCConfig{Enabled: true, NumSamples: 10, Burnin: 10, Proposal: "normal", Kernel: "uniform"}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for burnin >= num_samples")
	}
}

func TestNewModelRequiresValidation(t *testing.T) {
	c := validConfig()
	if _, err := c.NewModel(); err == nil {
		t.Fatal("expected error when NewModel called before Validate")
	}
}

func TestNewModelBuildsPopulatedModel(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	m, err := c.NewModel()
	if err != nil {
		t.Fatalf("unexpected NewModel error: %v", err)
	}
	if len(m.Population()) != c.Simulation.PopSize {
		t.Fatalf("expected population size %d, got %d", c.Simulation.PopSize, len(m.Population()))
	}
	if _, ok := m.VirusByID(0); !ok {
		t.Fatal("expected virus 0 to be registered")
	}
}
