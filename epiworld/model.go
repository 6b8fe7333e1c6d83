package epiworld

import (
	"math/rand"

	"github.com/pkg/errors"

	"epiworldgo/network"
	"epiworldgo/roulette"
)

// GlobalAction runs once per step, after the apply-events phase, with
// access to the whole model. It is the escape hatch for behavior that does
// not fit the per-agent update model: periodic vaccination campaigns,
// policy switches, scheduled network rewiring (spec.md §4.10 / C13).
type GlobalAction struct {
	Name string
	Every int // run every N days; 1 means every day
	Fn    func(m *Model)
}

// Model is the simulation's composition root: population, registered virus
// and tool prototypes, declared states, the event queue, the database, and
// the knobs controlling mixers, rewiring, and global actions. It plays the
// role _examples/kentwait-contagion/evoepi_config.go's Config.NewSimulation
// plays for contagiongo's Simulation, but builds the object graph directly
// rather than through a TOML-driven constructor (that lives in the config
// package, see SPEC_FULL.md §4.0).
type Model struct {
	rng *rand.Rand

	population []Agent
	net        *network.AdjList

	viruses  []*Virus
	tools    []*Tool
	entities []*Entity

	states       []int
	stateIndex   map[int]int
	exposedSet   map[int]bool
	updateFuncs  map[int]UpdateFunc

	queue *ActiveQueue
	db    *Database

	pending []Event

	mixSusceptibility Mixer
	mixTransmission   Mixer
	mixRecovery       Mixer
	mixDeath          Mixer

	rewireEnabled bool
	rewireProp    float64
	rewireEvery   int

	globalActions []GlobalAction
	stopConditions []StopCondition

	params map[string]float64

	today          int
	initialized    bool
	queuingEnabled bool
}

// NewModel creates an empty Model seeded with the given RNG source.
func NewModel(seed uint64) *Model {
	return &Model{
		rng:               rand.New(rand.NewSource(int64(seed))),
		stateIndex:        make(map[int]int),
		exposedSet:        make(map[int]bool),
		updateFuncs:       make(map[int]UpdateFunc),
		mixSusceptibility: ComplementaryProductMixer,
		mixTransmission:   ComplementaryProductMixer,
		mixRecovery:       ComplementaryProductMixer,
		mixDeath:          ComplementaryProductMixer,
		params:            make(map[string]float64),
		rewireEvery:       1,
		queuingEnabled:    true,
	}
}

// SetQueuingEnabled toggles the active-set queue gate. Disabled (the
// non-default), every agent with a state-update function is scanned every
// day regardless of its active-set counter (spec.md §4.6).
func (m *Model) SetQueuingEnabled(on bool) { m.queuingEnabled = on }

// Seed reseeds the model's random source, for reproducible Reset/Run pairs.
func (m *Model) Seed(seed uint64) { m.rng = rand.New(rand.NewSource(int64(seed))) }

// AddState declares a state code, with exposed marking whether the state
// belongs to the "exposed" category that drives active-set queue
// propagation (spec.md §4.6).
func (m *Model) AddState(code int, exposed bool, update UpdateFunc) error {
	if _, exists := m.stateIndex[code]; exists {
		return errors.Wrapf(ErrInvalidArgument, "state code %d already declared", code)
	}
	m.stateIndex[code] = len(m.states)
	m.states = append(m.states, code)
	if exposed {
		m.exposedSet[code] = true
	}
	if update != nil {
		m.updateFuncs[code] = update
	}
	return nil
}

func (m *Model) isExposed(state int) bool { return m.exposedSet[state] }

// RegisterVirus assigns v a stable id and a seed prevalence. The
// registration order determines db row ids.
func (m *Model) RegisterVirus(v *Virus, prevalence float64, asCount bool) error {
	if v.id != -1 {
		return errors.Wrap(ErrInvalidArgument, "virus already registered")
	}
	v.id = len(m.viruses)
	v.SetPrevalence(prevalence, asCount)
	m.viruses = append(m.viruses, v)
	return nil
}

// RegisterTool assigns t a stable id and a seed prevalence.
func (m *Model) RegisterTool(t *Tool, prevalence float64, asCount bool) error {
	if t.id != -1 {
		return errors.Wrap(ErrInvalidArgument, "tool already registered")
	}
	t.id = len(m.tools)
	t.SetPrevalence(prevalence, asCount)
	m.tools = append(m.tools, t)
	return nil
}

// VirusByID returns the registered virus prototype with the given id.
func (m *Model) VirusByID(id int) (*Virus, bool) {
	if id < 0 || id >= len(m.viruses) {
		return nil, false
	}
	return m.viruses[id], true
}

// ToolByID returns the registered tool prototype with the given id.
func (m *Model) ToolByID(id int) (*Tool, bool) {
	if id < 0 || id >= len(m.tools) {
		return nil, false
	}
	return m.tools[id], true
}

// RegisterEntity assigns e a stable id, making it a valid target for
// Agent.AddEntity/RmEntity.
func (m *Model) RegisterEntity(e *Entity) error {
	if e.id != -1 {
		return errors.Wrap(ErrInvalidArgument, "entity already registered")
	}
	e.id = len(m.entities)
	m.entities = append(m.entities, e)
	return nil
}

// EntityByID returns the registered entity with the given id.
func (m *Model) EntityByID(id int) (*Entity, bool) {
	if id < 0 || id >= len(m.entities) {
		return nil, false
	}
	return m.entities[id], true
}

// SetMixers overrides the default complementary-product mixers for the four
// multiplier channels. A nil argument leaves that channel unchanged.
func (m *Model) SetMixers(susceptibility, transmission, recovery, death Mixer) {
	if susceptibility != nil {
		m.mixSusceptibility = susceptibility
	}
	if transmission != nil {
		m.mixTransmission = transmission
	}
	if recovery != nil {
		m.mixRecovery = recovery
	}
	if death != nil {
		m.mixDeath = death
	}
}

// EnableRewire schedules degree-preserving rewiring every `every` days at
// proportion prop (spec.md §4.9).
func (m *Model) EnableRewire(prop float64, every int) {
	m.rewireEnabled = true
	m.rewireProp = prop
	if every > 0 {
		m.rewireEvery = every
	}
}

// AddGlobalAction registers a, to run on every day divisible by a.Every.
func (m *Model) AddGlobalAction(a GlobalAction) {
	if a.Every <= 0 {
		a.Every = 1
	}
	m.globalActions = append(m.globalActions, a)
}

// SetParam stores a named scalar parameter, retrievable from update
// functions via GetParam.
func (m *Model) SetParam(name string, value float64) { m.params[name] = value }

// GetParam retrieves a named scalar parameter, returning 0 if unset.
func (m *Model) GetParam(name string) float64 { return m.params[name] }

// RNG exposes the model's random source to update functions and hooks.
func (m *Model) RNG() *rand.Rand { return m.rng }

// Today returns the current simulation day.
func (m *Model) Today() int { return m.today }

// Population returns the live population slice. Callers must not retain
// pointers across a call to SetPopulationFromAdjList, which reallocates it.
func (m *Model) Population() []*Agent {
	out := make([]*Agent, len(m.population))
	for i := range m.population {
		out[i] = &m.population[i]
	}
	return out
}

// Agent returns a pointer to the agent at population index idx.
func (m *Model) Agent(idx int) *Agent { return &m.population[idx] }

// Database exposes the model's recording sink.
func (m *Model) Database() *Database { return m.db }

// SetPopulationFromAdjList builds the population from an adjacency list,
// one Agent per declared node, with each Agent's neighbor slice populated
// from the list's edges.
func (m *Model) SetPopulationFromAdjList(a *network.AdjList) {
	m.net = a
	nodes := a.Nodes()
	m.population = make([]Agent, len(nodes))
	index := make(map[int]int, len(nodes))
	for i, id := range nodes {
		index[id] = i
		m.population[i] = Agent{id: id, index: i, state: m.states[0]}
	}
	for i, id := range nodes {
		for _, nb := range a.Neighbors(id) {
			m.population[i].neighbors = append(m.population[i].neighbors, index[nb])
		}
	}
	m.queue = NewActiveQueue(len(m.population))
}

func (m *Model) enqueue(e Event) { m.pending = append(m.pending, e) }

// Init finalizes the model: allocates the database and validates that at
// least one state and one population member are present. It must be called
// once, before the first Reset.
func (m *Model) Init() error {
	if len(m.states) == 0 {
		return errors.Wrap(ErrUninitialized, "no states declared")
	}
	if len(m.population) == 0 {
		return errors.Wrap(ErrUninitialized, "no population set")
	}
	m.db = NewDatabase(len(m.states))
	m.initialized = true
	return nil
}

// Reset reseeds every agent to its default state, distributes each
// registered virus and tool according to its configured prevalence, and
// zeroes the queue and day counter. It can be called repeatedly on an
// initialized model to run independent realizations.
func (m *Model) Reset() error {
	if !m.initialized {
		return errors.Wrap(ErrUninitialized, "call Init before Reset")
	}
	m.today = 0
	m.pending = nil
	m.queue.Reset()
	for i := range m.population {
		m.population[i].viruses = nil
		m.population[i].tools = nil
		m.population[i].entities = nil
		m.population[i].state = m.states[0]
	}
	for _, v := range m.viruses {
		idxs, err := m.distributeIndices(v.prevalence, v.prevalenceIsCount, v.distributeFn)
		if err != nil {
			return errors.Wrapf(err, "distributing virus %q", v.name)
		}
		for _, idx := range idxs {
			a := &m.population[idx]
			_ = a.AddVirus(m, v, v.stateInit, v.queueInit)
		}
	}
	for _, t := range m.tools {
		idxs, err := m.distributeIndices(t.prevalence, t.prevalenceIsCount, t.distributeFn)
		if err != nil {
			return errors.Wrapf(err, "distributing tool %q", t.name)
		}
		for _, idx := range idxs {
			a := &m.population[idx]
			_ = a.AddTool(m, t, t.stateInit, t.queueInit)
		}
	}
	return m.applyEvents()
}

// distributeIndices samples the agent indices a virus/tool should seed at
// Reset. An absolute (asCount) prevalence greater than the population size
// is an OutOfRange error (spec.md §8), not a silent clamp.
func (m *Model) distributeIndices(prevalence float64, asCount bool, fn func(m *Model) []int) ([]int, error) {
	if fn != nil {
		return fn(m), nil
	}
	n := len(m.population)
	count := int(prevalence)
	if !asCount {
		count = int(prevalence * float64(n))
	}
	if count <= 0 {
		return nil, nil
	}
	if count > n {
		return nil, errors.Wrapf(ErrOutOfRange, "prevalence count %d exceeds population size %d", count, n)
	}
	perm := m.rng.Perm(n)
	return perm[:count], nil
}

// Run advances the model ndays steps, committing one database snapshot per
// day.
func (m *Model) Run(ndays int) error {
	if !m.initialized {
		return errors.Wrap(ErrUninitialized, "call Init/Reset before Run")
	}
	for d := 0; d < ndays; d++ {
		if err := m.step(); err != nil {
			return err
		}
		if m.stopped() {
			break
		}
	}
	return nil
}

// step runs one scan/apply/record/global-actions/rewire cycle (spec.md
// §4.8's state machine).
func (m *Model) step() error {
	m.today++
	m.scan()
	if err := m.applyEvents(); err != nil {
		return err
	}
	for idx := range m.population {
		a := &m.population[idx]
		for _, v := range a.viruses {
			if err := v.Mutate(a, m); err != nil {
				return err
			}
		}
	}
	totals := make([]int, len(m.states))
	for idx := range m.population {
		totals[m.stateIndex[m.population[idx].state]]++
	}
	m.db.Commit(m.today, totals)
	for _, ga := range m.globalActions {
		if m.today%ga.Every == 0 {
			ga.Fn(m)
		}
	}
	if m.rewireEnabled && m.today%m.rewireEvery == 0 {
		network.Rewire(m.net, m.rewireProp, m.rng)
		m.rebuildNeighbors()
	}
	if bad := m.queue.CheckInvariant(); bad >= 0 {
		return errors.Wrapf(ErrLogicBug, "active queue counter negative at agent %d", bad)
	}
	return nil
}

func (m *Model) rebuildNeighbors() {
	nodes := m.net.Nodes()
	index := make(map[int]int, len(nodes))
	for i, id := range nodes {
		index[id] = i
	}
	for i, id := range nodes {
		m.population[i].neighbors = m.population[i].neighbors[:0]
		for _, nb := range m.net.Neighbors(id) {
			m.population[i].neighbors = append(m.population[i].neighbors, index[nb])
		}
	}
}

// scan visits every agent whose state has an update function and whose
// active-set counter is positive, and calls that update function exactly
// once; agents whose state has no update function are skipped. Update functions only enqueue events; they never
// mutate the population directly, keeping the scan phase read-consistent
// (spec.md §4.5). When queuing is disabled the gate is skipped and every
// agent with an update function runs every day, per spec.md §4.6.
func (m *Model) scan() {
	for idx := range m.population {
		a := &m.population[idx]
		fn, ok := m.updateFuncs[a.state]
		if !ok {
			continue
		}
		if m.queuingEnabled && !m.queue.ShouldScan(idx) {
			continue
		}
		fn(a, m)
	}
}

// applyEvents drains the pending event buffer, including events enqueued
// by handlers of earlier events in the same drain (e.g. a post-recovery
// hook granting an immunity tool), until the buffer is empty.
func (m *Model) applyEvents() error {
	for len(m.pending) > 0 {
		batch := m.pending
		m.pending = nil
		for i := range batch {
			e := &batch[i]
			if e.Handler == nil {
				continue
			}
			if err := e.Handler(e, m); err != nil {
				return err
			}
		}
	}
	return nil
}

// RouletteInfection runs a single weighted draw among candidate
// probabilities, returning roulette.None when no trial succeeds. It is the
// shared entry point every per-agent infection/recovery/death check should
// use, so that "at most one outcome" semantics stay centralized (spec.md
// §4.1/§4.6).
func (m *Model) RouletteInfection(probs []float64) int {
	return roulette.Draw(probs, m.rng)
}
