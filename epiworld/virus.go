package epiworld

import "github.com/pkg/errors"

// NoState is the sentinel meaning "use the configured/default value" for a
// state-code or queue-delta field on an Event or a Virus/Tool triplet.
const NoState = -99

// ProbHook computes a per-(host,virus,model) probability in [0,1] for one of
// a Virus's infecting/recovery/death channels.
type ProbHook func(host *Agent, v *Virus, m *Model) float64

// MutationHook decides whether a Virus mutates this step; if it returns
// true, Virus.Mutate registers the (already-updated) sequence as a new or
// existing variant.
type MutationHook func(host *Agent, v *Virus, m *Model) bool

// PostRecoveryHook runs a side effect when a Virus is removed from its host,
// commonly granting the host an immunity Tool.
type PostRecoveryHook func(host *Agent, v *Virus, m *Model)

// Virus is a pathogen descriptor: either a prototype registered on a Model
// (Host() == nil) or a live instance cloned into an Agent's virus list
// (Host() returns that Agent). See spec.md §3.
type Virus struct {
	id       int
	name     string
	seq      Seq
	infected int // day the host was infected with this instance
	host     *Agent

	mutationFn      MutationHook
	postRecoveryFn  PostRecoveryHook
	probInfectingFn ProbHook
	probRecoveryFn  ProbHook
	probDeathFn     ProbHook

	constInfecting    float64
	constRecovery     float64
	constDeath        float64
	hasConstInfecting bool
	hasConstRecovery  bool
	hasConstDeath     bool

	stateInit, statePost, stateRemoved int
	queueInit, queuePost, queueRemoved int

	prevalence        float64
	prevalenceIsCount bool
	distributeFn      func(m *Model) []int
}

// NewVirus creates an unregistered Virus prototype. Registration (via
// Model.RegisterVirus) assigns its stable id.
func NewVirus(name string, seq Seq) *Virus {
	return &Virus{
		id:           -1,
		name:         name,
		seq:          seq,
		stateInit:    NoState,
		statePost:    NoState,
		stateRemoved: NoState,
		queueInit:    NoState,
		queuePost:    NoState,
		queueRemoved: NoState,
	}
}

// ID returns the stable registration id, or -1 if unregistered.
func (v *Virus) ID() int { return v.id }

// Name returns the virus's human-readable name.
func (v *Virus) Name() string { return v.name }

// Sequence returns the current genetic payload.
func (v *Virus) Sequence() Seq { return v.seq }

// SetSequence overwrites the payload, e.g. from within a MutationHook.
func (v *Virus) SetSequence(s Seq) { v.seq = s }

// Host returns the Agent currently carrying this instance, or nil for a
// prototype or a removed instance.
func (v *Virus) Host() *Agent { return v.host }

// DateInfected returns the day this instance entered its host.
func (v *Virus) DateInfected() int { return v.infected }

// SetProbInfecting installs the hook used by GetProbInfecting.
func (v *Virus) SetProbInfecting(fn ProbHook) { v.probInfectingFn = fn }

// SetConstProbInfecting installs a constant fallback used when no hook is
// set.
func (v *Virus) SetConstProbInfecting(p float64) {
	v.constInfecting, v.hasConstInfecting = p, true
}

// GetProbInfecting evaluates the infecting-probability hook, falling back to
// a configured constant, and finally to 0.
func (v *Virus) GetProbInfecting(host *Agent, m *Model) float64 {
	if v.probInfectingFn != nil {
		return v.probInfectingFn(host, v, m)
	}
	if v.hasConstInfecting {
		return v.constInfecting
	}
	return 0
}

// SetProbRecovery installs the hook used by GetProbRecovery.
func (v *Virus) SetProbRecovery(fn ProbHook) { v.probRecoveryFn = fn }

// SetConstProbRecovery installs a constant fallback.
func (v *Virus) SetConstProbRecovery(p float64) {
	v.constRecovery, v.hasConstRecovery = p, true
}

// GetProbRecovery evaluates the recovery-probability hook, falling back to
// a configured constant, and finally to 0.
func (v *Virus) GetProbRecovery(host *Agent, m *Model) float64 {
	if v.probRecoveryFn != nil {
		return v.probRecoveryFn(host, v, m)
	}
	if v.hasConstRecovery {
		return v.constRecovery
	}
	return 0
}

// SetProbDeath installs the hook used by GetProbDeath.
func (v *Virus) SetProbDeath(fn ProbHook) { v.probDeathFn = fn }

// SetConstProbDeath installs a constant fallback.
func (v *Virus) SetConstProbDeath(p float64) {
	v.constDeath, v.hasConstDeath = p, true
}

// GetProbDeath evaluates the death-probability hook, falling back to a
// configured constant, and finally to 0.
func (v *Virus) GetProbDeath(host *Agent, m *Model) float64 {
	if v.probDeathFn != nil {
		return v.probDeathFn(host, v, m)
	}
	if v.hasConstDeath {
		return v.constDeath
	}
	return 0
}

// SetMutation installs the hook used by Mutate.
func (v *Virus) SetMutation(fn MutationHook) { v.mutationFn = fn }

// Mutate runs the mutation hook (if any) and, on a positive result,
// registers the updated sequence with the model's database, moving this
// instance's live count from its old variant to the new or existing one.
func (v *Virus) Mutate(host *Agent, m *Model) error {
	if v.mutationFn == nil {
		return nil
	}
	if !v.mutationFn(host, v, m) {
		return nil
	}
	oldID := v.id
	newID, date, err := m.db.RecordVariant(v.seq, oldID)
	if err != nil {
		return err
	}
	if newID != oldID {
		if host != nil {
			m.db.MoveLiveCount(oldID, newID, m.stateIndex[host.state])
		}
		v.id = newID
		v.infected = date
	}
	return nil
}

// SetPostRecovery installs the post-recovery side effect. It fails if one
// is already set, matching spec.md §4.3's "fails if a post-recovery hook
// already exists."
func (v *Virus) SetPostRecovery(fn PostRecoveryHook) error {
	if v.postRecoveryFn != nil {
		return errors.Wrap(ErrInvalidArgument, "post-recovery hook already set")
	}
	v.postRecoveryFn = fn
	return nil
}

// PostRecovery runs the installed post-recovery hook, if any.
func (v *Virus) PostRecovery(host *Agent, m *Model) {
	if v.postRecoveryFn != nil {
		v.postRecoveryFn(host, v, m)
	}
}

// SetPostImmunity is a convenience wrapper installing a post-recovery hook
// that grants the host a Tool whose susceptibility reduction equals prob.
// The tool is registered once, lazily, on the first recovery (no Model is
// known until then), and every subsequent recovery reuses that same
// registration rather than growing the model's tool registry per host.
func (v *Virus) SetPostImmunity(prob float64) error {
	var tool *Tool
	return v.SetPostRecovery(func(host *Agent, vv *Virus, m *Model) {
		if tool == nil {
			tool = NewTool("immunity-" + vv.name)
			tool.SetConstSusceptibilityReduction(prob)
			if err := m.RegisterTool(tool, 0, false); err != nil {
				tool = nil
				return
			}
		}
		_ = host.AddTool(m, tool, NoState, NoState)
	})
}

// SetState configures the {state_init, state_post, state_removed} triplet
// used respectively when this virus is added to a host, when it is removed
// through recovery, and when it is removed through host death.
func (v *Virus) SetState(init, post, removed int) {
	v.stateInit, v.statePost, v.stateRemoved = init, post, removed
}

// SetQueue configures the matching queue-delta triplet.
func (v *Virus) SetQueue(init, post, removed int) {
	v.queueInit, v.queuePost, v.queueRemoved = init, post, removed
}

// SetPrevalence declares how many hosts should carry this virus at
// Model.Reset: value is a proportion of the population when asCount is
// false, or an absolute seed count when true.
func (v *Virus) SetPrevalence(value float64, asCount bool) {
	v.prevalence, v.prevalenceIsCount = value, asCount
}

// SetDistributeFunc overrides the default prevalence-based sampling with a
// caller-supplied selection of agent indices.
func (v *Virus) SetDistributeFunc(fn func(m *Model) []int) { v.distributeFn = fn }

// clone copies the prototype's configuration into a fresh, host-less
// instance suitable for insertion into an Agent's virus list.
func (v *Virus) clone() *Virus {
	nv := *v
	nv.host = nil
	return &nv
}
