package epiworld

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DiagramEdge is one observed state-to-state transition with its lifetime
// count, the unit the state-transition diagram is built from (spec.md
// §4.10 / C11).
type DiagramEdge struct {
	From, To int
	Count    int
}

// Diagram aggregates a Database's transition log into a dense edge list
// suitable for rendering (e.g. as a Graphviz dot file or a plain matrix).
type Diagram struct {
	edges []DiagramEdge
}

// BuildDiagram reads db's lifetime transition totals and returns a Diagram
// over them.
func BuildDiagram(db *Database) *Diagram {
	d := &Diagram{}
	for _, row := range db.TransitionTotals() {
		d.edges = append(d.edges, DiagramEdge{From: row[0], To: row[1], Count: row[2]})
	}
	return d
}

// ReadTransitionFile parses the quoted-label transition-reader format
// (spec.md §6): whitespace-separated `step "from" "to" count` lines, one
// per recorded transition, state labels being the quoted string form of
// the same integer state codes used elsewhere (original_source's
// modeldiagram-meat.hpp ModelDiagram::read_transitions).
func ReadTransitionFile(path string) ([]DiagramEdge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrIOFailure, "open %s: %s", path, err)
	}
	defer f.Close()

	var edges []DiagramEdge
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, errors.Wrapf(ErrIOFailure, "line %d: expected 4 fields, got %d", lineNum, len(fields))
		}
		from, err := strconv.Atoi(strings.Trim(fields[1], `"`))
		if err != nil {
			return nil, errors.Wrapf(ErrIOFailure, "line %d: bad \"from\" label: %s", lineNum, err)
		}
		to, err := strconv.Atoi(strings.Trim(fields[2], `"`))
		if err != nil {
			return nil, errors.Wrapf(ErrIOFailure, "line %d: bad \"to\" label: %s", lineNum, err)
		}
		count, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, errors.Wrapf(ErrIOFailure, "line %d: bad count: %s", lineNum, err)
		}
		edges = append(edges, DiagramEdge{From: from, To: to, Count: count})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(ErrIOFailure, "reading %s: %s", path, err)
	}
	return edges, nil
}

// MergeFile reads a transition file via ReadTransitionFile and appends its
// edges to the diagram, letting a diagram be assembled from saved runs in
// addition to a live Database.
func (d *Diagram) MergeFile(path string) error {
	edges, err := ReadTransitionFile(path)
	if err != nil {
		return err
	}
	d.edges = append(d.edges, edges...)
	return nil
}

// Edges returns the diagram's edges in no particular order.
func (d *Diagram) Edges() []DiagramEdge {
	out := make([]DiagramEdge, len(d.edges))
	copy(out, d.edges)
	return out
}

// Dot renders the diagram as a Graphviz dot digraph, one edge per observed
// transition, labeled with its lifetime count.
func (d *Diagram) Dot() string {
	out := "digraph states {\n"
	for _, e := range d.edges {
		out += formatEdge(e)
	}
	out += "}\n"
	return out
}

func formatEdge(e DiagramEdge) string {
	return fmt.Sprintf("  %d -> %d [label=%d];\n", e.From, e.To, e.Count)
}
