package config

import (
	"github.com/pkg/errors"

	"epiworldgo/epiworld"
	"epiworldgo/network"
)

// NewModel builds a ready-to-Init *epiworld.Model from a validated Config,
// mirroring _examples/kentwait-contagion/evoepi_config.go's
// EvoEpiConfig.NewSimulation: the config struct stays a pure data holder,
// and this is the one place that turns it into a running object graph.
func (c *Config) NewModel() (*epiworld.Model, error) {
	if !c.validated {
		return nil, errors.New("config: Validate must succeed before NewModel")
	}

	m := epiworld.NewModel(uint64(c.Simulation.Seed))

	for _, st := range c.Simulation.States {
		if err := m.AddState(st.Code, st.Exposed, nil); err != nil {
			return nil, errors.Wrapf(err, "adding state %d", st.Code)
		}
	}

	net, err := c.buildNetwork(m)
	if err != nil {
		return nil, err
	}
	m.SetPopulationFromAdjList(net)

	for i, vc := range c.Viruses {
		v := epiworld.NewVirus(vc.Name, epiworld.Seq{})
		v.SetConstProbInfecting(vc.ProbInfecting)
		v.SetConstProbRecovery(vc.ProbRecovery)
		v.SetConstProbDeath(vc.ProbDeath)
		v.SetState(stateOrDefault(vc.StateInit), stateOrDefault(vc.StatePost), stateOrDefault(vc.StateRemoved))
		if vc.PostImmunity > 0 {
			if err := v.SetPostImmunity(vc.PostImmunity); err != nil {
				return nil, errors.Wrapf(err, "virus[%d] post immunity", i)
			}
		}
		if err := m.RegisterVirus(v, vc.Prevalence, vc.PrevalenceCount); err != nil {
			return nil, errors.Wrapf(err, "registering virus %q", vc.Name)
		}
	}

	for i, tc := range c.Tools {
		t := epiworld.NewTool(tc.Name)
		t.SetConstSusceptibilityReduction(tc.SusceptibilityReduction)
		t.SetConstTransmissionReduction(tc.TransmissionReduction)
		t.SetConstRecoveryEnhancer(tc.RecoveryEnhancer)
		t.SetConstDeathReduction(tc.DeathReduction)
		if err := m.RegisterTool(t, tc.Prevalence, tc.PrevalenceCount); err != nil {
			return nil, errors.Wrapf(err, "registering tool[%d] %q", i, tc.Name)
		}
	}

	if c.Rewire != nil && c.Rewire.Enabled {
		m.EnableRewire(c.Rewire.Proportion, c.Rewire.EveryDays)
	}

	return m, nil
}

// stateOrDefault maps an unset (zero-value) TOML state field to
// epiworld.NoState, since TOML has no way to distinguish "0" from "absent"
// on an int field.
func stateOrDefault(code int) int {
	if code == 0 {
		return epiworld.NoState
	}
	return code
}

func (c *Config) buildNetwork(m *epiworld.Model) (*network.AdjList, error) {
	n := c.Network
	pop := c.Simulation.PopSize
	switch n.Kind {
	case "bernoulli":
		return network.Bernoulli(pop, n.BernoulliP, n.Directed, m.RNG()), nil
	case "ring":
		return network.Ring(pop, n.RingK, n.Directed), nil
	case "small_world":
		return network.SmallWorld(pop, n.RingK, n.SmallWorldP, n.Directed, m.RNG()), nil
	case "edgelist":
		minID, maxID := 0, pop-1
		a, err := network.ReadEdgelist(n.EdgelistPath, n.Directed, n.SkipLines, &minID, &maxID)
		if err != nil {
			return nil, errors.Wrapf(err, "reading edgelist %s", n.EdgelistPath)
		}
		return a, nil
	default:
		return nil, errors.Errorf("unrecognized network kind %q", n.Kind)
	}
}
