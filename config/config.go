// Package config loads a TOML description of a model run: population and
// network parameters, virus/tool prototypes, rewiring, and LFMCMC fitting
// options. It follows the teacher's TOML-struct-plus-Validate idiom
// (_examples/kentwait-contagion/evoepi_config.go, loader.go) almost
// directly, adapted from per-host intrahost/fitness/transmission model
// sections to epiworldgo's virus/tool prototype sections.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Config is the top-level TOML document a simulation run is built from.
type Config struct {
	Simulation *SimulationConfig `toml:"simulation"`
	Network    *NetworkConfig    `toml:"network"`
	Viruses    []*VirusConfig    `toml:"virus"`
	Tools      []*ToolConfig     `toml:"tool"`
	Rewire     *RewireConfig     `toml:"rewire"`
	LFMCMC     *LFMCMCConfig     `toml:"lfmcmc"`
	Logging    *LoggingConfig    `toml:"logging"`

	validated bool
}

// SimulationConfig controls the run's duration and reproducibility.
type SimulationConfig struct {
	NumDays      int    `toml:"num_days"`
	NumInstances int    `toml:"num_instances"`
	Seed         int64  `toml:"seed"`
	PopSize      int    `toml:"pop_size"`
	DebugQueue   bool   `toml:"debug_queue"`
	States       []State `toml:"state"`
}

// State declares one state code the model recognizes.
type State struct {
	Code     int    `toml:"code"`
	Name     string `toml:"name"`
	Exposed  bool   `toml:"exposed"`
}

// NetworkConfig selects the contact-network generator.
type NetworkConfig struct {
	Kind         string  `toml:"kind"` // bernoulli, ring, small_world, edgelist
	RingK        int     `toml:"ring_k"`
	BernoulliP   float64 `toml:"bernoulli_p"`
	SmallWorldP  float64 `toml:"small_world_rewire_prop"`
	EdgelistPath string  `toml:"edgelist_path"`
	Directed     bool    `toml:"directed"`
	SkipLines    int     `toml:"skip_lines"`
}

// VirusConfig describes one registered virus prototype.
type VirusConfig struct {
	Name             string  `toml:"name"`
	ProbInfecting    float64 `toml:"prob_infecting"`
	ProbRecovery     float64 `toml:"prob_recovery"`
	ProbDeath        float64 `toml:"prob_death"`
	StateInit        int     `toml:"state_init"`
	StatePost        int     `toml:"state_post"`
	StateRemoved     int     `toml:"state_removed"`
	Prevalence       float64 `toml:"prevalence"`
	PrevalenceCount  bool    `toml:"prevalence_as_count"`
	PostImmunity     float64 `toml:"post_immunity"`
}

// ToolConfig describes one registered tool prototype.
type ToolConfig struct {
	Name                   string  `toml:"name"`
	SusceptibilityReduction float64 `toml:"susceptibility_reduction"`
	TransmissionReduction   float64 `toml:"transmission_reduction"`
	RecoveryEnhancer        float64 `toml:"recovery_enhancer"`
	DeathReduction          float64 `toml:"death_reduction"`
	Prevalence              float64 `toml:"prevalence"`
	PrevalenceCount         bool    `toml:"prevalence_as_count"`
}

// RewireConfig schedules periodic degree-preserving rewiring.
type RewireConfig struct {
	Enabled    bool    `toml:"enabled"`
	Proportion float64 `toml:"proportion"`
	EveryDays  int     `toml:"every_days"`
}

// LFMCMCConfig configures an optional likelihood-free fitting pass against
// the run's output.
type LFMCMCConfig struct {
	Enabled    bool      `toml:"enabled"`
	NumSamples int       `toml:"num_samples"`
	Epsilon    float64   `toml:"epsilon"`
	Burnin     int       `toml:"burnin"`
	Proposal   string    `toml:"proposal"` // normal, uniform, norm_reflective
	Kernel     string    `toml:"kernel"`   // uniform, gaussian
	InitParams []float64 `toml:"init_params"`
}

// LoggingConfig selects the output sink for a run.
type LoggingConfig struct {
	Writer string `toml:"writer"` // csv, sqlite
	Path   string `toml:"path"`
}

// Load reads and validates the TOML file at path.
func Load(path string) (*Config, error) {
	c := new(Config)
	if _, err := toml.DecodeFile(path, c); err != nil {
		return nil, errors.Wrapf(err, "decoding config %s", path)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks cross-field and keyword constraints. It must be called
// (directly, or via Load) before the config is used to build a model.
func (c *Config) Validate() error {
	if c.Simulation == nil {
		return errors.New("missing [simulation] section")
	}
	if err := c.Simulation.validate(); err != nil {
		return err
	}
	if c.Network == nil {
		return errors.New("missing [network] section")
	}
	if err := c.Network.validate(); err != nil {
		return err
	}
	for i, v := range c.Viruses {
		if err := v.validate(); err != nil {
			return errors.Wrapf(err, "virus[%d]", i)
		}
	}
	for i, t := range c.Tools {
		if err := t.validate(); err != nil {
			return errors.Wrapf(err, "tool[%d]", i)
		}
	}
	if c.Rewire != nil && c.Rewire.Enabled && (c.Rewire.Proportion <= 0 || c.Rewire.Proportion > 1) {
		return errors.New("rewire.proportion must be in (0,1]")
	}
	if c.LFMCMC != nil && c.LFMCMC.Enabled {
		if err := c.LFMCMC.validate(); err != nil {
			return err
		}
	}
	c.validated = true
	return nil
}

func (s *SimulationConfig) validate() error {
	if s.NumDays < 1 {
		return fmt.Errorf("simulation.num_days (%d) must be >= 1", s.NumDays)
	}
	if s.NumInstances < 1 {
		return fmt.Errorf("simulation.num_instances (%d) must be >= 1", s.NumInstances)
	}
	if s.PopSize < 1 {
		return fmt.Errorf("simulation.pop_size (%d) must be >= 1", s.PopSize)
	}
	if len(s.States) < 1 {
		return errors.New("simulation must declare at least one [[simulation.state]]")
	}
	seen := make(map[int]bool)
	for _, st := range s.States {
		if seen[st.Code] {
			return fmt.Errorf("duplicate state code %d", st.Code)
		}
		seen[st.Code] = true
	}
	return nil
}

func (n *NetworkConfig) validate() error {
	kind := strings.ToLower(n.Kind)
	switch kind {
	case "bernoulli", "ring", "small_world", "edgelist":
	default:
		return fmt.Errorf("unrecognized network.kind %q", n.Kind)
	}
	if kind == "edgelist" && n.EdgelistPath == "" {
		return errors.New("network.edgelist_path required when kind is edgelist")
	}
	if (kind == "ring" || kind == "small_world") && n.RingK < 1 {
		return fmt.Errorf("network.ring_k (%d) must be >= 1", n.RingK)
	}
	return nil
}

func (v *VirusConfig) validate() error {
	if v.Name == "" {
		return errors.New("virus.name required")
	}
	for _, p := range []float64{v.ProbInfecting, v.ProbRecovery, v.ProbDeath, v.PostImmunity} {
		if p < 0 || p > 1 {
			return fmt.Errorf("virus %q has a probability outside [0,1]", v.Name)
		}
	}
	if v.Prevalence < 0 || (!v.PrevalenceCount && v.Prevalence > 1) {
		return fmt.Errorf("virus %q has a prevalence outside its valid range", v.Name)
	}
	return nil
}

func (t *ToolConfig) validate() error {
	if t.Name == "" {
		return errors.New("tool.name required")
	}
	for _, p := range []float64{t.SusceptibilityReduction, t.TransmissionReduction, t.RecoveryEnhancer, t.DeathReduction} {
		if p < 0 || p > 1 {
			return fmt.Errorf("tool %q has a multiplier outside [0,1]", t.Name)
		}
	}
	if t.Prevalence < 0 || (!t.PrevalenceCount && t.Prevalence > 1) {
		return fmt.Errorf("tool %q has a prevalence outside its valid range", t.Name)
	}
	return nil
}

func (l *LFMCMCConfig) validate() error {
	if l.NumSamples < 1 {
		return fmt.Errorf("lfmcmc.num_samples (%d) must be >= 1", l.NumSamples)
	}
	if l.Burnin >= l.NumSamples {
		return fmt.Errorf("lfmcmc.burnin (%d) must be less than num_samples (%d)", l.Burnin, l.NumSamples)
	}
	switch strings.ToLower(l.Proposal) {
	case "normal", "uniform", "norm_reflective":
	default:
		return fmt.Errorf("unrecognized lfmcmc.proposal %q", l.Proposal)
	}
	switch strings.ToLower(l.Kernel) {
	case "uniform", "gaussian":
	default:
		return fmt.Errorf("unrecognized lfmcmc.kernel %q", l.Kernel)
	}
	return nil
}
