package epiworld

// UserData is an append-only, time-indexed table of named scalar columns
// a caller can write into from global actions or update functions, for
// bookkeeping the engine itself has no fixed schema for (spec.md §4.10 /
// C12 — e.g. a running cost counter or a policy flag history).
type UserData struct {
	columns map[string][]float64
	days    []int
}

// NewUserData allocates an empty table.
func NewUserData() *UserData {
	return &UserData{columns: make(map[string][]float64)}
}

// Record appends one value to column name for the given day. Every column
// advances in lockstep with Record calls; a column not recorded on a given
// day holds no entry for it (sparse by construction).
func (u *UserData) Record(day int, name string, value float64) {
	u.columns[name] = append(u.columns[name], value)
	if len(u.days) == 0 || u.days[len(u.days)-1] != day {
		u.days = append(u.days, day)
	}
}

// Column returns the recorded values for name in insertion order.
func (u *UserData) Column(name string) []float64 {
	out := make([]float64, len(u.columns[name]))
	copy(out, u.columns[name])
	return out
}

// ColumnNames returns every column name that has at least one recorded
// value.
func (u *UserData) ColumnNames() []string {
	out := make([]string, 0, len(u.columns))
	for name := range u.columns {
		out = append(out, name)
	}
	return out
}
