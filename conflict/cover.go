// File: cover.go
// Role: Deterministic vertex cover approximators (coloring + LP rounding,
// triangle elimination).
// Determinism:
//   - Coloring visits nodes in id order; triangle search visits edges in id
//     order and candidate corners in rank order. Equal graphs give equal covers.

package conflict

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/katalvlaran/conflictcover/metrics"
)

// VertexCoverByColoringLP returns a vertex cover of the whole graph, sorted
// by node id: greedy coloring, optimal half-integral LP solution, then
// rounding by the configured strategy. Empty when the graph has no edges.
// Node annotations are cleared before returning.
//
// Complexity: O(χ·(V+E)) coloring plus the LP solver.
func (g *Graph) VertexCoverByColoringLP() ([]int, error) {
	metrics.CoverRuns.WithLabelValues(metrics.AlgorithmColoring).Inc()
	if g.alive == 0 {
		metrics.CoverSize.WithLabelValues(metrics.AlgorithmColoring).Set(0)
		return []int{}, nil
	}
	defer g.clearAnnotations()

	cover, err := g.colorSolveRound()
	if err != nil {
		return nil, err
	}
	metrics.CoverSize.WithLabelValues(metrics.AlgorithmColoring).Set(float64(len(cover)))
	g.log.Debug().Int("edges", g.alive).Int("cover", len(cover)).Msg("coloring LP cover")

	return cover, nil
}

// VertexCoverByTriangleEliminationLP returns a vertex cover of the whole graph,
// sorted by node id. While a triangle exists, its three corners join the cover
// and all their edges are deleted from the graph; the triangle-free remainder
// is covered as in VertexCoverByColoringLP.
//
// The graph keeps the deletions. Use Clone to preserve the original.
//
// Complexity: O(E·Δ) triangle search plus the coloring LP path.
func (g *Graph) VertexCoverByTriangleEliminationLP() ([]int, error) {
	metrics.CoverRuns.WithLabelValues(metrics.AlgorithmTriangle).Inc()
	defer g.clearAnnotations()

	in := make([]bool, len(g.nodes))
	triangles := g.eliminateTriangles(in)
	metrics.TrianglesEliminated.Add(float64(triangles))

	if g.alive > 0 {
		rest, err := g.colorSolveRound()
		if err != nil {
			return nil, err
		}
		for _, v := range rest {
			in[v] = true
		}
	}

	cover := make([]int, 0)
	for v, ok := range in {
		if ok {
			cover = append(cover, v)
		}
	}
	metrics.CoverSize.WithLabelValues(metrics.AlgorithmTriangle).Set(float64(len(cover)))
	g.log.Debug().
		Int("triangles", triangles).
		Int("remaining_edges", g.alive).
		Int("cover", len(cover)).
		Msg("triangle elimination LP cover")

	return cover, nil
}

// eliminateTriangles removes triangles in edge-id order and marks their
// corners in in. A single pass suffices: deleting edges never creates a
// triangle, so edges already scanned stay triangle-free.
func (g *Graph) eliminateTriangles(in []bool) int {
	mark := make([]int, len(g.nodes)) // mark[w] == stamp  <=>  w adjacent to current v
	var stamp, found int
	for eid := range g.edges {
		if !g.live[eid] {
			continue
		}
		e := g.edges[eid]
		stamp++
		for _, f := range g.nodes[e.V].incident {
			mark[g.edges[f].Other(e.V)] = stamp
		}
		w := -1
		for _, f := range g.nodes[e.U].incident {
			if x := g.edges[f].Other(e.U); x != e.V && mark[x] == stamp {
				w = x
				break
			}
		}
		if w < 0 {
			continue
		}
		for _, v := range [3]int{e.U, e.V, w} {
			in[v] = true
			g.removeIncident(v)
		}
		found++
	}

	return found
}

// colorSolveRound runs coloring, the LP solver and rounding on the live edges.
// Annotations stay set; callers clear them.
func (g *Graph) colorSolveRound() ([]int, error) {
	g.greedyColor()
	x, err := g.opts.solver.Solve(len(g.nodes), g.lpEdges())
	if err != nil {
		return nil, errors.Wrap(err, "conflict: solve LP relaxation")
	}
	for v := range g.nodes {
		g.nodes[v].lp = some(x[v])
	}

	return g.round(), nil
}

// greedyColor assigns colors in rounds. In round c every uncolored node, in id
// order, takes c unless a neighbor already took c in this round.
//
// Complexity: O(χ·(V+E)), χ = colors used (at most Δ+1).
func (g *Graph) greedyColor() {
	left := len(g.nodes)
	for c := 0; left > 0; c++ {
		for v := range g.nodes {
			if g.nodes[v].color.ok {
				continue
			}
			clash := false
			for _, eid := range g.nodes[v].incident {
				if col, ok := g.nodes[g.edges[eid].Other(v)].color.get(); ok && col == c {
					clash = true
					break
				}
			}
			if !clash {
				g.nodes[v].color = some(c)
				left--
			}
		}
	}
}

// round builds the cover from LP values and colors, sorted by id.
func (g *Graph) round() []int {
	skip := -1
	if g.opts.rounding == RoundExcludeMajorityColor {
		skip = g.majorityHalfColor()
	}
	var cover []int
	for v := range g.nodes {
		x, _ := g.nodes[v].lp.get()
		switch {
		case x == 1:
			cover = append(cover, v)
		case x == 0.5:
			if c, _ := g.nodes[v].color.get(); c != skip {
				cover = append(cover, v)
			}
		}
	}
	if cover == nil {
		cover = []int{}
	}

	return cover
}

// majorityHalfColor returns the color with the most x=½ nodes (smallest on
// ties), or -1 when no node is at ½. Nodes of one color are pairwise
// non-adjacent, so dropping one class leaves every ½–½ edge covered.
func (g *Graph) majorityHalfColor() int {
	count := make(map[int]int)
	for v := range g.nodes {
		if x, _ := g.nodes[v].lp.get(); x == 0.5 {
			c, _ := g.nodes[v].color.get()
			count[c]++
		}
	}
	colors := make([]int, 0, len(count))
	for c := range count {
		colors = append(colors, c)
	}
	sort.Ints(colors)
	best, bestN := -1, 0
	for _, c := range colors {
		if count[c] > bestN {
			best, bestN = c, count[c]
		}
	}

	return best
}

func (g *Graph) clearAnnotations() {
	for v := range g.nodes {
		g.nodes[v].color = optional[int]{}
		g.nodes[v].lp = optional[float64]{}
	}
}
