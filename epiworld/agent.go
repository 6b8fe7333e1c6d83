package epiworld

import "github.com/pkg/errors"

// EventHandler applies one Event during the apply-events phase. Handlers run
// exactly once per event, strictly after the scan phase has finished
// enqueuing, and never run concurrently with each other (spec.md §5).
type EventHandler func(e *Event, m *Model) error

// UpdateFunc is the per-state function invoked once per scanned agent during
// the scan phase. It must only enqueue events through Agent's producer
// methods; it must never mutate another agent directly (spec.md §4.5).
type UpdateFunc func(a *Agent, m *Model)

// Agent is a single simulated actor: a state holder owning its viruses,
// tools, and neighbor references. Agents live in the Model's population
// vector and refer to each other by dense index rather than by pointer, so
// that the population forms no reference cycles (spec.md §9).
type Agent struct {
	id      int
	index   int
	state   int
	inQueue bool

	viruses   []*Virus
	tools     []*Tool
	neighbors []int // population indices
	entities  []int // entity ids this agent belongs to

	addVirusHandler EventHandler
	rmVirusHandler  EventHandler
	addToolHandler  EventHandler
	rmToolHandler   EventHandler
}

// ID returns the agent's stable id (distinct from its dense Index, which can
// change if the population is rebuilt).
func (a *Agent) ID() int { return a.id }

// Index returns the agent's dense position in the population vector.
func (a *Agent) Index() int { return a.index }

// State returns the agent's current state code.
func (a *Agent) State() int { return a.state }

// InQueue reports whether the active-set queue currently selects this agent
// for scanning.
func (a *Agent) InQueue() bool { return a.inQueue }

// Viruses returns the agent's current virus instances.
func (a *Agent) Viruses() []*Virus {
	out := make([]*Virus, len(a.viruses))
	copy(out, a.viruses)
	return out
}

// Tools returns the agent's current tool instances.
func (a *Agent) Tools() []*Tool {
	out := make([]*Tool, len(a.tools))
	copy(out, a.tools)
	return out
}

// Neighbors returns the population indices of this agent's neighbors.
func (a *Agent) Neighbors() []int {
	out := make([]int, len(a.neighbors))
	copy(out, a.neighbors)
	return out
}

// HasVirus reports whether the agent carries a virus with the given id.
func (a *Agent) HasVirus(id int) bool {
	for _, v := range a.viruses {
		if v.id == id {
			return true
		}
	}
	return false
}

// HasTool reports whether the agent carries a tool with the given id.
func (a *Agent) HasTool(id int) bool {
	for _, t := range a.tools {
		if t.id == id {
			return true
		}
	}
	return false
}

// SetAddVirusHandler overrides the default add-virus event handler for this
// agent only.
func (a *Agent) SetAddVirusHandler(h EventHandler) { a.addVirusHandler = h }

// SetRmVirusHandler overrides the default remove-virus event handler.
func (a *Agent) SetRmVirusHandler(h EventHandler) { a.rmVirusHandler = h }

// SetAddToolHandler overrides the default add-tool event handler.
func (a *Agent) SetAddToolHandler(h EventHandler) { a.addToolHandler = h }

// SetRmToolHandler overrides the default remove-tool event handler.
func (a *Agent) SetRmToolHandler(h EventHandler) { a.rmToolHandler = h }

// AddVirus enqueues an add-virus event. newState and queueDelta may be
// NoState to request the virus's configured defaults. It pre-checks that v
// is registered with m; all other work happens in the apply-events phase.
func (a *Agent) AddVirus(m *Model, v *Virus, newState, queueDelta int) error {
	if v == nil || v.id < 0 {
		return errors.Wrap(ErrUnknownEntity, "virus not registered")
	}
	if _, ok := m.VirusByID(v.id); !ok {
		return errors.Wrapf(ErrUnknownEntity, "virus id %d not registered with this model", v.id)
	}
	handler := a.addVirusHandler
	if handler == nil {
		handler = DefaultAddVirus
	}
	m.enqueue(Event{
		Kind: EventAddVirus, Target: a.index, Virus: v,
		NewState: newState, QueueDelta: queueDelta, Handler: handler,
	})
	return nil
}

// RmVirus enqueues a remove-virus event for the virus at idx in this
// agent's virus list. It fails fast (without enqueuing) on an out-of-range
// index.
func (a *Agent) RmVirus(m *Model, idx, newState, queueDelta int) error {
	if idx < 0 || idx >= len(a.viruses) {
		return errors.Wrapf(ErrOutOfRange, "virus index %d out of range [0,%d)", idx, len(a.viruses))
	}
	handler := a.rmVirusHandler
	if handler == nil {
		handler = DefaultRmVirus
	}
	m.enqueue(Event{
		Kind: EventRmVirus, Target: a.index, VirusIdx: idx,
		NewState: newState, QueueDelta: queueDelta, Handler: handler,
	})
	return nil
}

// AddTool enqueues an add-tool event, mirroring AddVirus.
func (a *Agent) AddTool(m *Model, t *Tool, newState, queueDelta int) error {
	if t == nil || t.id < 0 {
		return errors.Wrap(ErrUnknownEntity, "tool not registered")
	}
	if _, ok := m.ToolByID(t.id); !ok {
		return errors.Wrapf(ErrUnknownEntity, "tool id %d not registered with this model", t.id)
	}
	handler := a.addToolHandler
	if handler == nil {
		handler = DefaultAddTool
	}
	m.enqueue(Event{
		Kind: EventAddTool, Target: a.index, Tool: t,
		NewState: newState, QueueDelta: queueDelta, Handler: handler,
	})
	return nil
}

// RmTool enqueues a remove-tool event, mirroring RmVirus.
func (a *Agent) RmTool(m *Model, idx, newState, queueDelta int) error {
	if idx < 0 || idx >= len(a.tools) {
		return errors.Wrapf(ErrOutOfRange, "tool index %d out of range [0,%d)", idx, len(a.tools))
	}
	handler := a.rmToolHandler
	if handler == nil {
		handler = DefaultRmTool
	}
	m.enqueue(Event{
		Kind: EventRmTool, Target: a.index, ToolIdx: idx,
		NewState: newState, QueueDelta: queueDelta, Handler: handler,
	})
	return nil
}

// ChangeState enqueues a direct state change, independent of any
// virus/tool transition.
func (a *Agent) ChangeState(m *Model, newState, queueDelta int) error {
	if newState != NoState {
		if _, ok := m.stateIndex[newState]; !ok {
			return errors.Wrapf(ErrInvalidArgument, "state code %d is not registered", newState)
		}
	}
	m.enqueue(Event{
		Kind: EventChangeState, Target: a.index,
		NewState: newState, QueueDelta: queueDelta, Handler: DefaultChangeState,
	})
	return nil
}

// AddEntity enqueues membership of this agent in e.
func (a *Agent) AddEntity(m *Model, e *Entity, newState, queueDelta int) error {
	if e == nil || e.id < 0 {
		return errors.Wrap(ErrUnknownEntity, "entity not registered")
	}
	m.enqueue(Event{
		Kind: EventAddEntity, Target: a.index, Entity: e,
		NewState: newState, QueueDelta: queueDelta, Handler: DefaultAddEntity,
	})
	return nil
}

// RmEntity enqueues removal of this agent from e.
func (a *Agent) RmEntity(m *Model, e *Entity, newState, queueDelta int) error {
	if e == nil || e.id < 0 {
		return errors.Wrap(ErrUnknownEntity, "entity not registered")
	}
	m.enqueue(Event{
		Kind: EventRmEntity, Target: a.index, Entity: e,
		NewState: newState, QueueDelta: queueDelta, Handler: DefaultRmEntity,
	})
	return nil
}

// AddNeighbor links this agent to other. When checkSource is true an
// existing forward link is not duplicated; when checkTarget is true the
// reverse link is added too (making the relation symmetric), unless it
// already exists.
func (a *Agent) AddNeighbor(other *Agent, checkSource, checkTarget bool) {
	if !checkSource || !a.hasNeighbor(other.index) {
		a.neighbors = append(a.neighbors, other.index)
	}
	if checkTarget && !other.hasNeighbor(a.index) {
		other.neighbors = append(other.neighbors, a.index)
	}
}

func (a *Agent) hasNeighbor(idx int) bool {
	for _, n := range a.neighbors {
		if n == idx {
			return true
		}
	}
	return false
}

// SusceptibilityReduction dispatches to the model's susceptibility mixer
// over this agent's tools for the given virus.
func (a *Agent) SusceptibilityReduction(m *Model, v *Virus) float64 {
	values := make([]float64, len(a.tools))
	for i, t := range a.tools {
		values[i] = t.GetSusceptibilityReduction(a, m)
	}
	return m.mixSusceptibility(values)
}

// TransmissionReduction dispatches to the model's transmission mixer.
func (a *Agent) TransmissionReduction(m *Model, v *Virus) float64 {
	values := make([]float64, len(a.tools))
	for i, t := range a.tools {
		values[i] = t.GetTransmissionReduction(a, m)
	}
	return m.mixTransmission(values)
}

// RecoveryEnhancer dispatches to the model's recovery mixer.
func (a *Agent) RecoveryEnhancer(m *Model, v *Virus) float64 {
	values := make([]float64, len(a.tools))
	for i, t := range a.tools {
		values[i] = t.GetRecoveryEnhancer(a, m)
	}
	return m.mixRecovery(values)
}

// DeathReduction dispatches to the model's death mixer.
func (a *Agent) DeathReduction(m *Model, v *Virus) float64 {
	values := make([]float64, len(a.tools))
	for i, t := range a.tools {
		values[i] = t.GetDeathReduction(a, m)
	}
	return m.mixDeath(values)
}
