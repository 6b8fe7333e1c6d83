package epiworld

// EventKind distinguishes the mutation an Event performs during the
// apply-events phase (spec.md §4.5).
type EventKind int

const (
	EventAddVirus EventKind = iota
	EventRmVirus
	EventAddTool
	EventRmTool
	EventChangeState
	EventAddEntity
	EventRmEntity
)

// Event is a deferred mutation produced during the scan phase and applied,
// strictly in FIFO order, during the apply-events phase. Agents never
// mutate each other directly; every state change flows through an Event so
// that a step's scan phase sees a consistent snapshot of the population
// (spec.md §4.5, §9).
type Event struct {
	Kind   EventKind
	Target int // population index of the agent this event applies to

	Virus    *Virus
	VirusIdx int // for EventRmVirus: index into the target's virus list
	Tool     *Tool
	ToolIdx  int // for EventRmTool: index into the target's tool list
	Entity   *Entity

	NewState   int // NoState requests the handler's own default
	QueueDelta int // NoState requests the handler's own default

	Handler EventHandler
}

// coalesceState resolves NewState against a triplet default, in priority
// order: an explicit (non-NoState) event value wins, otherwise fall back to
// deflt.
func coalesceState(requested, deflt int) int {
	if requested != NoState {
		return requested
	}
	return deflt
}

// applyQueueDelta resolves QueueDelta the same way coalesceState does and
// applies it to the target's queue counter, then adjusts the target's and
// its neighbors' counters whenever the target's state crosses into or out
// of the model's declared exposed set. The two mechanisms are independent
// and compose: the event's own delta always applies to the target only;
// exposed-set crossing additionally propagates +-1 to the target and each
// of its neighbors.
func applyQueueDelta(m *Model, a *Agent, requested, deflt int, wasExposed bool) {
	delta := coalesceState(requested, deflt)
	if delta != NoState && delta != 0 {
		m.queue.Increment(a.index, delta)
	}
	isExposed := m.isExposed(a.state)
	if isExposed == wasExposed {
		return
	}
	sign := 1
	if !isExposed {
		sign = -1
	}
	m.queue.Increment(a.index, sign)
	for _, n := range a.neighbors {
		m.queue.Increment(n, sign)
	}
}

// DefaultAddVirus clones e.Virus into the target agent's virus list,
// transitions state to the virus's state_init (or the event's override),
// and records the infection in the database. When e.Virus was already
// live on a different host, the clone is a transmission and is logged as
// one before the source link is severed.
func DefaultAddVirus(e *Event, m *Model) error {
	a := &m.population[e.Target]
	wasExposed := m.isExposed(a.state)

	if e.Virus.host != nil && e.Virus.host != a {
		m.db.RecordTransmission(e.Virus.id, e.Virus.host.index, a.index)
	}

	nv := e.Virus.clone()
	nv.host = a
	nv.infected = m.today
	a.viruses = append(a.viruses, nv)

	newState := coalesceState(e.NewState, e.Virus.stateInit)
	if newState != NoState && newState != a.state {
		m.db.RecordTransition(a.state, newState)
		a.state = newState
	}
	m.db.IncrementState(nv.id, m.stateIndex[a.state])

	applyQueueDelta(m, a, e.QueueDelta, e.Virus.queueInit, wasExposed)
	return nil
}

// DefaultRmVirus removes the virus at e.VirusIdx from the target agent
// (swap-with-last), runs its post-recovery hook, transitions state to
// state_post (or the event's override), and updates live counts.
func DefaultRmVirus(e *Event, m *Model) error {
	a := &m.population[e.Target]
	if e.VirusIdx < 0 || e.VirusIdx >= len(a.viruses) {
		return nil
	}
	wasExposed := m.isExposed(a.state)

	v := a.viruses[e.VirusIdx]
	last := len(a.viruses) - 1
	a.viruses[e.VirusIdx] = a.viruses[last]
	a.viruses = a.viruses[:last]

	m.db.DecrementState(v.id, m.stateIndex[a.state])

	newState := coalesceState(e.NewState, v.statePost)
	if newState != NoState && newState != a.state {
		m.db.RecordTransition(a.state, newState)
		a.state = newState
	}

	v.host = nil
	v.PostRecovery(a, m)

	applyQueueDelta(m, a, e.QueueDelta, v.queuePost, wasExposed)
	return nil
}

// DefaultAddTool clones e.Tool into the target agent's tool list and
// transitions state to the tool's state_init (or the event's override).
func DefaultAddTool(e *Event, m *Model) error {
	a := &m.population[e.Target]
	wasExposed := m.isExposed(a.state)

	nt := e.Tool.clone()
	nt.host = a
	a.tools = append(a.tools, nt)

	newState := coalesceState(e.NewState, e.Tool.stateInit)
	if newState != NoState && newState != a.state {
		m.db.RecordTransition(a.state, newState)
		a.state = newState
	}

	applyQueueDelta(m, a, e.QueueDelta, e.Tool.queueInit, wasExposed)
	return nil
}

// DefaultRmTool removes the tool at e.ToolIdx from the target agent
// (swap-with-last) and transitions state to state_post (or the event's
// override).
func DefaultRmTool(e *Event, m *Model) error {
	a := &m.population[e.Target]
	if e.ToolIdx < 0 || e.ToolIdx >= len(a.tools) {
		return nil
	}
	wasExposed := m.isExposed(a.state)

	t := a.tools[e.ToolIdx]
	last := len(a.tools) - 1
	a.tools[e.ToolIdx] = a.tools[last]
	a.tools = a.tools[:last]

	newState := coalesceState(e.NewState, t.statePost)
	if newState != NoState && newState != a.state {
		m.db.RecordTransition(a.state, newState)
		a.state = newState
	}

	t.host = nil
	applyQueueDelta(m, a, e.QueueDelta, t.queuePost, wasExposed)
	return nil
}

// DefaultChangeState transitions the target agent to e.NewState directly.
func DefaultChangeState(e *Event, m *Model) error {
	a := &m.population[e.Target]
	wasExposed := m.isExposed(a.state)

	if e.NewState != NoState && e.NewState != a.state {
		m.db.RecordTransition(a.state, e.NewState)
		a.state = e.NewState
	}
	applyQueueDelta(m, a, e.QueueDelta, NoState, wasExposed)
	return nil
}

// DefaultAddEntity adds the target agent to e.Entity's membership.
func DefaultAddEntity(e *Event, m *Model) error {
	a := &m.population[e.Target]
	wasExposed := m.isExposed(a.state)

	e.Entity.addMember(a.index)
	a.entities = append(a.entities, e.Entity.id)

	newState := coalesceState(e.NewState, NoState)
	if newState != NoState && newState != a.state {
		m.db.RecordTransition(a.state, newState)
		a.state = newState
	}
	applyQueueDelta(m, a, e.QueueDelta, NoState, wasExposed)
	return nil
}

// DefaultRmEntity removes the target agent from e.Entity's membership.
func DefaultRmEntity(e *Event, m *Model) error {
	a := &m.population[e.Target]
	wasExposed := m.isExposed(a.state)

	e.Entity.removeMember(a.index)
	for i, id := range a.entities {
		if id == e.Entity.id {
			last := len(a.entities) - 1
			a.entities[i] = a.entities[last]
			a.entities = a.entities[:last]
			break
		}
	}

	newState := coalesceState(e.NewState, NoState)
	if newState != NoState && newState != a.state {
		m.db.RecordTransition(a.state, newState)
		a.state = newState
	}
	applyQueueDelta(m, a, e.QueueDelta, NoState, wasExposed)
	return nil
}
