package epiworld

// StopCondition reports whether a running Model should end before its
// scheduled number of days elapses. This supplements spec.md's day-driven
// Run loop with the original library's early-termination conditions
// (grounded on _examples/kentwait-contagion/stop_condition.go's
// AlleleExists/GenotypeExists checks, generalized from per-site alleles to
// any predicate over the model's current state).
type StopCondition func(m *Model) bool

// AddStopCondition registers cond; Run ends as soon as any registered
// condition reports true, even if days remain.
func (m *Model) AddStopCondition(cond StopCondition) {
	m.stopConditions = append(m.stopConditions, cond)
}

func (m *Model) stopped() bool {
	for _, cond := range m.stopConditions {
		if cond(m) {
			return true
		}
	}
	return false
}

// VariantExtinct returns a StopCondition that fires once variantID no
// longer has any live carriers, mirroring genotypeExists's "stop once lost"
// intent but phrased as a direct counter check instead of a channel-based
// population scan.
func VariantExtinct(variantID int) StopCondition {
	return func(m *Model) bool {
		for _, row := range m.db.VariantHistoryRows() {
			if row[0] == variantID && row[2] > 0 {
				return false
			}
		}
		return m.today > 0
	}
}

// NoInfectious returns a StopCondition that fires once no agent occupies
// any of the declared exposed states, the natural end of an epidemic with
// no reintroduction.
func NoInfectious() StopCondition {
	return func(m *Model) bool {
		for i := range m.population {
			if m.isExposed(m.population[i].state) {
				return false
			}
		}
		return m.today > 0
	}
}
