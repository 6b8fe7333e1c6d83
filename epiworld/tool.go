package epiworld

// Tool is an intervention descriptor (immunity, mask, vaccine, ...). It has
// the same registration/cloning shape as Virus but its hooks each return one
// of four multipliers in [0,1]: susceptibility reduction, transmission
// reduction, recovery enhancement, death reduction. See spec.md §3/§4.3.
type Tool struct {
	id   int
	name string
	seq  Seq

	host *Agent

	susceptibilityFn ProbHook
	transmissionFn   ProbHook
	recoveryFn       ProbHook
	deathFn          ProbHook

	constSusceptibility    float64
	constTransmission      float64
	constRecovery          float64
	constDeath             float64
	hasConstSusceptibility bool
	hasConstTransmission   bool
	hasConstRecovery       bool
	hasConstDeath          bool

	stateInit, statePost, stateRemoved int
	queueInit, queuePost, queueRemoved int

	prevalence        float64
	prevalenceIsCount bool
	distributeFn      func(m *Model) []int
}

// NewTool creates an unregistered Tool prototype.
func NewTool(name string) *Tool {
	return &Tool{
		id:           -1,
		name:         name,
		stateInit:    NoState,
		statePost:    NoState,
		stateRemoved: NoState,
		queueInit:    NoState,
		queuePost:    NoState,
		queueRemoved: NoState,
	}
}

// ID returns the stable registration id, or -1 if unregistered.
func (t *Tool) ID() int { return t.id }

// Name returns the tool's human-readable name.
func (t *Tool) Name() string { return t.name }

// Host returns the Agent currently holding this instance, or nil.
func (t *Tool) Host() *Agent { return t.host }

// SetSusceptibilityReduction installs the hook for the susceptibility
// channel.
func (t *Tool) SetSusceptibilityReduction(fn ProbHook) { t.susceptibilityFn = fn }

// SetConstSusceptibilityReduction installs a constant fallback.
func (t *Tool) SetConstSusceptibilityReduction(p float64) {
	t.constSusceptibility, t.hasConstSusceptibility = p, true
}

// GetSusceptibilityReduction evaluates the susceptibility-reduction hook,
// falling back to a configured constant, and finally to 0.
func (t *Tool) GetSusceptibilityReduction(host *Agent, m *Model) float64 {
	if t.susceptibilityFn != nil {
		return t.susceptibilityFn(host, nil, m)
	}
	if t.hasConstSusceptibility {
		return t.constSusceptibility
	}
	return 0
}

// SetTransmissionReduction installs the hook for the transmission channel.
func (t *Tool) SetTransmissionReduction(fn ProbHook) { t.transmissionFn = fn }

// SetConstTransmissionReduction installs a constant fallback.
func (t *Tool) SetConstTransmissionReduction(p float64) {
	t.constTransmission, t.hasConstTransmission = p, true
}

// GetTransmissionReduction evaluates the transmission-reduction hook,
// falling back to a configured constant, and finally to 0.
func (t *Tool) GetTransmissionReduction(host *Agent, m *Model) float64 {
	if t.transmissionFn != nil {
		return t.transmissionFn(host, nil, m)
	}
	if t.hasConstTransmission {
		return t.constTransmission
	}
	return 0
}

// SetRecoveryEnhancer installs the hook for the recovery channel.
func (t *Tool) SetRecoveryEnhancer(fn ProbHook) { t.recoveryFn = fn }

// SetConstRecoveryEnhancer installs a constant fallback.
func (t *Tool) SetConstRecoveryEnhancer(p float64) {
	t.constRecovery, t.hasConstRecovery = p, true
}

// GetRecoveryEnhancer evaluates the recovery-enhancer hook, falling back to
// a configured constant, and finally to 0.
func (t *Tool) GetRecoveryEnhancer(host *Agent, m *Model) float64 {
	if t.recoveryFn != nil {
		return t.recoveryFn(host, nil, m)
	}
	if t.hasConstRecovery {
		return t.constRecovery
	}
	return 0
}

// SetDeathReduction installs the hook for the death channel.
func (t *Tool) SetDeathReduction(fn ProbHook) { t.deathFn = fn }

// SetConstDeathReduction installs a constant fallback.
func (t *Tool) SetConstDeathReduction(p float64) {
	t.constDeath, t.hasConstDeath = p, true
}

// GetDeathReduction evaluates the death-reduction hook, falling back to a
// configured constant, and finally to 0.
func (t *Tool) GetDeathReduction(host *Agent, m *Model) float64 {
	if t.deathFn != nil {
		return t.deathFn(host, nil, m)
	}
	if t.hasConstDeath {
		return t.constDeath
	}
	return 0
}

// SetState configures the {state_init, state_post, state_removed} triplet.
func (t *Tool) SetState(init, post, removed int) {
	t.stateInit, t.statePost, t.stateRemoved = init, post, removed
}

// SetQueue configures the matching queue-delta triplet.
func (t *Tool) SetQueue(init, post, removed int) {
	t.queueInit, t.queuePost, t.queueRemoved = init, post, removed
}

// SetPrevalence declares how many hosts should carry this tool at
// Model.Reset: value is a proportion of the population when asCount is
// false, or an absolute seed count when true.
func (t *Tool) SetPrevalence(value float64, asCount bool) {
	t.prevalence, t.prevalenceIsCount = value, asCount
}

// SetDistributeFunc overrides the default prevalence-based sampling.
func (t *Tool) SetDistributeFunc(fn func(m *Model) []int) { t.distributeFn = fn }

func (t *Tool) clone() *Tool {
	nt := *t
	nt.host = nil
	return &nt
}
