// Package network implements the immutable contact-network neighborhood
// structure (AdjList), the random graph generators built on top of it, and
// the degree-preserving rewire used to perturb a network between steps.
package network

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrOutOfRange is returned when an edge endpoint falls outside a declared
// [MinID, MaxID] range.
var ErrOutOfRange = errors.New("node id out of range")

// ErrIOFailure is returned when an edgelist file cannot be read or parsed.
var ErrIOFailure = errors.New("edgelist read failure")

// AdjList is the immutable (after construction) neighborhood structure. It
// stores, for every node, a map of neighbor id to edge multiplicity.
type AdjList struct {
	dat       map[int]map[int]int
	directed  bool
	minID     int
	maxID     int
	hasBounds bool
	inferred  bool // an id has been observed while inferring bounds
}

// New creates an empty AdjList. When minID/maxID are supplied (via
// WithBounds), every inserted edge endpoint is validated against them;
// otherwise the bounds are inferred from the first edges seen.
func New(directed bool) *AdjList {
	return &AdjList{
		dat:      make(map[int]map[int]int),
		directed: directed,
	}
}

// WithBounds declares the valid node id range [min,max] for this AdjList.
func (a *AdjList) WithBounds(min, max int) *AdjList {
	a.minID, a.maxID, a.hasBounds = min, max, true
	return a
}

// Directed reports whether the graph treats edges as one-directional.
func (a *AdjList) Directed() bool { return a.directed }

// MinID and MaxID return the declared or inferred node id bounds.
func (a *AdjList) MinID() int { return a.minID }
func (a *AdjList) MaxID() int { return a.maxID }

func (a *AdjList) observe(id int) error {
	if a.hasBounds && (id < a.minID || id > a.maxID) {
		return errors.Wrapf(ErrOutOfRange, "id %d outside [%d,%d]", id, a.minID, a.maxID)
	}
	if !a.hasBounds {
		if !a.inferred {
			a.minID, a.maxID = id, id
			a.inferred = true
		} else {
			if id < a.minID {
				a.minID = id
			}
			if id > a.maxID {
				a.maxID = id
			}
		}
	}
	return nil
}

// AddEdge inserts the edge i->j (and, for undirected graphs, j->i as well),
// incrementing the multiplicity if the edge already exists.
func (a *AdjList) AddEdge(i, j int) error {
	if err := a.observe(i); err != nil {
		return err
	}
	if err := a.observe(j); err != nil {
		return err
	}
	a.addDirected(i, j)
	if !a.directed {
		a.addDirected(j, i)
	}
	return nil
}

func (a *AdjList) addDirected(i, j int) {
	if _, ok := a.dat[i]; !ok {
		a.dat[i] = make(map[int]int)
	}
	a.dat[i][j]++
}

// Neighbors returns the distinct neighbor ids of node i, in ascending id
// order. Map iteration order is randomized per call in Go, so sorting here
// is what makes a Model's per-agent neighbor list — and therefore the
// sequence of RNG draws a deterministic-seed Reset/Run depends on —
// reproducible.
func (a *AdjList) Neighbors(i int) []int {
	nbrs := a.dat[i]
	out := make([]int, 0, len(nbrs))
	for j := range nbrs {
		out = append(out, j)
	}
	sort.Ints(out)
	return out
}

// Degree returns the number of distinct neighbors of node i (multiplicities
// collapse to a single neighbor entry, mirroring the spec's degree-sequence
// contract for rewiring).
func (a *AdjList) Degree(i int) int { return len(a.dat[i]) }

// Nodes returns every node id that appears as a source or target, in
// ascending order (see Neighbors for why iteration order is normalized).
func (a *AdjList) Nodes() []int {
	seen := make(map[int]bool)
	for i, nbrs := range a.dat {
		seen[i] = true
		for j := range nbrs {
			seen[j] = true
		}
	}
	out := make([]int, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// HasEdge reports whether i->j exists.
func (a *AdjList) HasEdge(i, j int) bool {
	if nbrs, ok := a.dat[i]; ok {
		_, exists := nbrs[j]
		return exists
	}
	return false
}

// removeOne drops one unit of multiplicity for the directed edge i->j,
// deleting the entry once multiplicity reaches zero.
func (a *AdjList) removeOne(i, j int) {
	nbrs, ok := a.dat[i]
	if !ok {
		return
	}
	if nbrs[j] <= 1 {
		delete(nbrs, j)
	} else {
		nbrs[j]--
	}
}

// relink removes the edge i->j and adds i->k in its place (and the mirrored
// edge for undirected graphs), used by the rewire-degseq procedure. It does
// not touch multiplicities of unrelated edges.
func (a *AdjList) relink(i, j, k int) {
	a.removeOne(i, j)
	a.addDirected(i, k)
	if !a.directed {
		a.removeOne(j, i)
		a.addDirected(k, i)
	}
}

// IsSymmetric reports whether, for every recorded edge i->j, the reverse
// edge j->i is also present with equal multiplicity. Only meaningful for
// graphs constructed as undirected, but is checkable on any AdjList.
func (a *AdjList) IsSymmetric() bool {
	for i, nbrs := range a.dat {
		for j, w := range nbrs {
			if a.dat[j][i] != w {
				return false
			}
		}
	}
	return true
}

// ReadEdgelist parses a whitespace-separated "src dst" edgelist, skipping
// the first skip lines of input before parsing any edges (see spec.md §9 on
// the original implementation's off-by-one skip-counting loop: the intended
// semantics are simply "discard the first `skip` lines").
func ReadEdgelist(path string, directed bool, skip int, minID, maxID *int) (*AdjList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrIOFailure, "open %s: %s", path, err)
	}
	defer f.Close()

	a := New(directed)
	if minID != nil && maxID != nil {
		a.WithBounds(*minID, *maxID)
	}

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if lineNum <= skip {
			continue
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, errors.Wrapf(ErrIOFailure, "line %d: expected 2 fields, got %d", lineNum, len(fields))
		}
		src, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, errors.Wrapf(ErrIOFailure, "line %d: %s", lineNum, err)
		}
		dst, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, errors.Wrapf(ErrIOFailure, "line %d: %s", lineNum, err)
		}
		if err := a.AddEdge(src, dst); err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNum)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(ErrIOFailure, "reading %s: %s", path, err)
	}
	return a, nil
}

// Dump serializes the adjacency list as "i,j: weight" lines, one per edge,
// mirroring the teacher's map-dump style for debugging/inspection.
func (a *AdjList) Dump() string {
	var b strings.Builder
	for i, nbrs := range a.dat {
		for j, w := range nbrs {
			fmt.Fprintf(&b, "%d,%d: %d\n", i, j, w)
		}
	}
	return b.String()
}
