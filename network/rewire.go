package network

import "math/rand"

// Rewire perturbs the network in place while preserving every node's degree
// exactly (rewire-degseq, spec.md §4.9). prop is the proportion of the
// undirected edge count to rewire.
//
// Each rewire samples two distinct ego nodes a, b with probability
// proportional to degree, picks one random edge (a,a') from a's adjacency
// and one (b,b') from b's, then relinks to (a,b') and (b,a'), rejecting the
// swap if either new edge already exists. This is a true relink — the
// target of the edge changes — not a weight exchange between two existing
// map entries; spec.md §4.9 calls out that a weight-only "swap" preserves
// structure and is an incorrect implementation of this procedure.
func Rewire(a *AdjList, prop float64, rng *rand.Rand) {
	if prop <= 0 {
		return
	}
	nodes := a.Nodes()
	if len(nodes) < 4 {
		return
	}

	totalDegree := 0
	for _, id := range nodes {
		totalDegree += a.Degree(id)
	}
	if totalDegree == 0 {
		return
	}
	edgeCount := totalDegree / 2
	if a.directed {
		edgeCount = totalDegree
	}

	nrewires := int(prop * float64(edgeCount))

	pickByDegree := func(exclude int) int {
		for attempt := 0; attempt < 50; attempt++ {
			r := rng.Intn(totalDegree)
			cum := 0
			for _, id := range nodes {
				cum += a.Degree(id)
				if r < cum {
					if id != exclude && a.Degree(id) > 0 {
						return id
					}
					break
				}
			}
		}
		return -1
	}

	for r := 0; r < nrewires; r++ {
		egoA := pickByDegree(-1)
		if egoA < 0 {
			continue
		}
		egoB := pickByDegree(egoA)
		if egoB < 0 || egoB == egoA {
			continue
		}

		neighborsA := a.Neighbors(egoA)
		neighborsB := a.Neighbors(egoB)
		if len(neighborsA) == 0 || len(neighborsB) == 0 {
			continue
		}
		aPrime := neighborsA[rng.Intn(len(neighborsA))]
		bPrime := neighborsB[rng.Intn(len(neighborsB))]

		if aPrime == egoB || bPrime == egoA || aPrime == bPrime {
			continue
		}
		if a.HasEdge(egoA, bPrime) || a.HasEdge(egoB, aPrime) {
			continue
		}

		a.relink(egoA, aPrime, bPrime)
		a.relink(egoB, bPrime, aPrime)
	}
}
