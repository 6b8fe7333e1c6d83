package epiworld

import (
	"fmt"
	"sync"

	"github.com/segmentio/ksuid"
)

// variantEntry is one row of the variant registry: a unique sequence, its
// stable integer id, its ksuid-tagged genealogy node, and per-state live
// counts accumulated over the current day.
type variantEntry struct {
	id       int
	uid      ksuid.KSUID
	seq      Seq
	parentID int // -1 for a founding variant
	dateAppeared int

	counts     []int // live count per state, committed
	countsNext []int // live count per state, being accumulated this day
}

type transitionKey struct{ from, to int }

type transitionDayRow struct {
	day, from, to, count int
}

type transmissionRecord struct {
	day      int
	variant  int
	fromAgent int
	toAgent   int
}

type snapshotRow struct {
	day    int
	state  int
	count  int
}

// Database is the model's bookkeeping sink: variant registry and
// genealogy, per-day state counters, the state-transition matrix, and the
// transmission log. It follows the commit-then-zero pattern from
// _examples/kentwait-contagion/genotype.go (hash-keyed variant set with
// ksuid node ids) combined with sqlite_logger.go's row-oriented history
// (spec.md §4.7 / C7).
type Database struct {
	mu sync.RWMutex

	bySeq    map[string]*variantEntry
	byID     []*variantEntry
	nStates  int

	transitions      map[transitionKey]int
	transitionsToday map[transitionKey]int
	transitionHistory []transitionDayRow
	transmissions []transmissionRecord
	history     []snapshotRow

	today int
}

// NewDatabase allocates an empty Database for a model declaring nStates
// distinct state codes (states are later looked up by dense index, not by
// raw code, via Model.stateIndex).
func NewDatabase(nStates int) *Database {
	return &Database{
		bySeq:            make(map[string]*variantEntry),
		transitions:      make(map[transitionKey]int),
		transitionsToday: make(map[transitionKey]int),
		nStates:          nStates,
	}
}

// RecordVariant registers seq as a variant if it has not been seen before,
// linking it to parentID's genealogy, and returns its stable id and the
// current simulation day. An existing sequence returns its existing id
// unchanged.
func (d *Database) RecordVariant(seq Seq, parentID int) (id int, date int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := seq.String()
	if e, ok := d.bySeq[key]; ok {
		return e.id, e.dateAppeared, nil
	}
	e := &variantEntry{
		id:           len(d.byID),
		uid:          ksuid.New(),
		seq:          seq.Clone(),
		parentID:     parentID,
		dateAppeared: d.today,
		counts:       make([]int, d.nStates),
		countsNext:   make([]int, d.nStates),
	}
	d.bySeq[key] = e
	d.byID = append(d.byID, e)
	return e.id, e.dateAppeared, nil
}

// MoveLiveCount transfers one live count of stateIdx from oldVariant to
// newVariant, used when Virus.Mutate swaps a host's live instance onto a
// newly or previously registered variant.
func (d *Database) MoveLiveCount(oldVariant, newVariant, stateIdx int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if oldVariant >= 0 && oldVariant < len(d.byID) {
		d.byID[oldVariant].countsNext[stateIdx]--
	}
	if newVariant >= 0 && newVariant < len(d.byID) {
		d.byID[newVariant].countsNext[stateIdx]++
	}
}

// IncrementState records one more live instance of variantID in stateIdx.
func (d *Database) IncrementState(variantID, stateIdx int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if variantID >= 0 && variantID < len(d.byID) {
		d.byID[variantID].countsNext[stateIdx]++
	}
}

// DecrementState records one fewer live instance of variantID in stateIdx.
func (d *Database) DecrementState(variantID, stateIdx int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if variantID >= 0 && variantID < len(d.byID) {
		d.byID[variantID].countsNext[stateIdx]--
	}
}

// RecordTransition tallies one agent moving from "from" to "to", both into
// the lifetime aggregate that feeds the state-transition diagram (C11) and
// into the current day's bucket, committed into a per-day row by Commit.
func (d *Database) RecordTransition(from, to int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := transitionKey{from, to}
	d.transitions[key]++
	d.transitionsToday[key]++
}

// RecordTransmission appends one transmission event: variantID passed from
// fromAgent to toAgent on the current day.
func (d *Database) RecordTransmission(variantID, fromAgent, toAgent int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.transmissions = append(d.transmissions, transmissionRecord{
		day: d.today, variant: variantID, fromAgent: fromAgent, toAgent: toAgent,
	})
}

// Commit closes out day `today`: each variant's running countsNext is
// copied into its committed counts (countsNext keeps its live tally into
// the next day), a snapshot row is appended per (state, count), and the
// day's transition tallies are moved into per-day rows and zeroed.
func (d *Database) Commit(today int, stateTotals []int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.today = today
	for _, e := range d.byID {
		copy(e.counts, e.countsNext)
	}
	for state, count := range stateTotals {
		d.history = append(d.history, snapshotRow{day: today, state: state, count: count})
	}
	for key, count := range d.transitionsToday {
		d.transitionHistory = append(d.transitionHistory, transitionDayRow{
			day: today, from: key.from, to: key.to, count: count,
		})
		delete(d.transitionsToday, key)
	}
}

// VariantInfoRows returns one row per registered variant: (id, sequence,
// parent id, date first appeared).
func (d *Database) VariantInfoRows() [][4]string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	rows := make([][4]string, len(d.byID))
	for i, e := range d.byID {
		rows[i] = [4]string{
			fmt.Sprintf("%d", e.id),
			e.seq.String(),
			fmt.Sprintf("%d", e.parentID),
			fmt.Sprintf("%d", e.dateAppeared),
		}
	}
	return rows
}

// VariantHistoryRows returns one row per (variant, state) with a non-zero
// committed live count: (variant id, state index, count).
func (d *Database) VariantHistoryRows() [][3]int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var rows [][3]int
	for _, e := range d.byID {
		for state, c := range e.counts {
			if c != 0 {
				rows = append(rows, [3]int{e.id, state, c})
			}
		}
	}
	return rows
}

// TotalHistoryRows returns the per-day, per-state snapshot log committed by
// Commit: (day, state, count).
func (d *Database) TotalHistoryRows() [][3]int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	rows := make([][3]int, len(d.history))
	for i, r := range d.history {
		rows[i] = [3]int{r.day, r.state, r.count}
	}
	return rows
}

// TransmissionRows returns the full transmission log: (day, variant,
// source agent index, target agent index).
func (d *Database) TransmissionRows() [][4]int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	rows := make([][4]int, len(d.transmissions))
	for i, r := range d.transmissions {
		rows[i] = [4]int{r.day, r.variant, r.fromAgent, r.toAgent}
	}
	return rows
}

// TransitionRows returns one row per (day, from, to) with a non-zero count
// committed that day: (day, from state, to state, count), matching the
// "date from to counts" transition output contract.
func (d *Database) TransitionRows() [][4]int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	rows := make([][4]int, len(d.transitionHistory))
	for i, r := range d.transitionHistory {
		rows[i] = [4]int{r.day, r.from, r.to, r.count}
	}
	return rows
}

// TransitionTotals returns the lifetime state-transition matrix as
// (from, to, count) rows, feeding the diagram builder (C11), which only
// cares about aggregate transition pressure, not its day-by-day shape.
func (d *Database) TransitionTotals() [][3]int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	rows := make([][3]int, 0, len(d.transitions))
	for k, c := range d.transitions {
		rows = append(rows, [3]int{k.from, k.to, c})
	}
	return rows
}

// NumVariants returns the number of distinct variants registered so far.
func (d *Database) NumVariants() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byID)
}
