// File: graph.go
// Role: Conflict graph storage, construction from a row source, read accessors.
// Layout:
//   - nodes and edges are dense arenas addressed by row id and edge id.
//   - Node.incident holds edge ids sorted ascending by rank; only live edges.
//   - Edge ids are assigned in construction order and never reused.

package conflict

import (
	"fmt"
	"iter"
	"math/rand"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/katalvlaran/conflictcover/lp"
	"github.com/katalvlaran/conflictcover/metrics"
	"github.com/katalvlaran/conflictcover/oracle"
	"github.com/katalvlaran/conflictcover/rank"
	"github.com/katalvlaran/conflictcover/table"
)

// Source is the row store a Graph is built from and scoped by.
type Source interface {
	// TotalRowCount returns n; row indices are dense in [0, n).
	TotalRowCount() (int, error)
	// Rows yields every row once per call; each call starts a fresh pass.
	Rows() iter.Seq2[table.Row, error]
	// FindConflicts returns the ids of rows that violate a functional
	// dependency together with row.
	FindConflicts(row table.Row) ([]int, error)
	oracle.Searcher
}

// optional is a value that may be absent.
type optional[T any] struct {
	v  T
	ok bool
}

func some[T any](v T) optional[T] { return optional[T]{v: v, ok: true} }

func (o optional[T]) get() (T, bool) { return o.v, o.ok }

// Edge is a conflict between rows U and V (U < V).
type Edge struct {
	ID   int
	U, V int
	Rank uint32
}

// Other returns the endpoint of e that is not x.
func (e Edge) Other(x int) int {
	if e.U == x {
		return e.V
	}

	return e.U
}

// Node is a read-only snapshot of one row of the graph.
type Node struct {
	id       int
	incident []int
	color    optional[int]
	lp       optional[float64]
}

// ID returns the row index.
func (n Node) ID() int { return n.id }

// Degree returns the number of live incident edges.
func (n Node) Degree() int { return len(n.incident) }

// Color returns the greedy color, absent outside an approximator run.
func (n Node) Color() (int, bool) { return n.color.get() }

// LPValue returns the LP value, absent outside an approximator run.
func (n Node) LPValue() (float64, bool) { return n.lp.get() }

// Graph is a conflict graph with ranked edges.
type Graph struct {
	nodes []Node
	edges []Edge
	live  []bool
	alive int

	src  oracle.Searcher
	opts options
	rng  *rand.Rand // per-call seeds for the estimator
	log  zerolog.Logger
	last Stats
}

// New reads every row of src and builds its conflict graph. Any source
// failure aborts construction; no partial graph is returned.
//
// Steps:
//  1. n = TotalRowCount; allocate nodes 0..n-1.
//  2. For each row r: FindConflicts(r); every id c > r.Index() becomes an
//     edge with the next rank from a seeded rank.Sequence.
//  3. Sort every incidence list by rank.
//
// Complexity: O(n·C + E log E), C = cost of one FindConflicts call.
func New(src Source, opts ...Option) (*Graph, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	o := defaultOptions()
	if err := o.apply(opts); err != nil {
		return nil, err
	}
	start := time.Now()

	n, err := src.TotalRowCount()
	if err != nil {
		return nil, errors.Wrap(err, "conflict: count rows")
	}
	if n < 0 {
		return nil, errors.Wrapf(ErrRowIndexOutOfRange, "row count %d", n)
	}

	g := &Graph{
		nodes: make([]Node, n),
		src:   src,
		opts:  o,
		rng:   rank.RNGFromSeed(o.seed),
		log:   o.logger.With().Str("component", "conflict").Logger(),
	}
	for i := range g.nodes {
		g.nodes[i].id = i
	}

	seq := rank.FromSeed(uint32(o.seed) ^ uint32(uint64(o.seed)>>32))
	seen := make([]bool, n)
	for row, err := range src.Rows() {
		if err != nil {
			return nil, errors.Wrap(err, "conflict: iterate rows")
		}
		if err = g.addRow(src, row, seen, seq); err != nil {
			return nil, err
		}
	}
	for i, ok := range seen {
		if !ok {
			return nil, errors.Wrapf(ErrMissingRow, "row %d of %d", i, n)
		}
	}
	for i := range g.nodes {
		g.sortIncident(i)
	}

	elapsed := time.Since(start)
	metrics.GraphBuildDuration.Observe(elapsed.Seconds())
	metrics.GraphNodes.Set(float64(n))
	metrics.GraphEdges.Set(float64(g.alive))
	g.log.Debug().
		Int("nodes", n).
		Int("edges", g.alive).
		Int64("seed", o.seed).
		Dur("took", elapsed).
		Msg("conflict graph built")

	return g, nil
}

func (g *Graph) addRow(src Source, row table.Row, seen []bool, seq *rank.Sequence) error {
	idx := row.Index()
	if idx < 0 || idx >= len(g.nodes) {
		return errors.Wrapf(ErrRowIndexOutOfRange, "row %d of %d", idx, len(g.nodes))
	}
	if seen[idx] {
		return errors.Wrapf(ErrDuplicateRow, "row %d", idx)
	}
	seen[idx] = true

	ids, err := src.FindConflicts(row)
	if err != nil {
		return errors.Wrapf(err, "conflict: find conflicts of row %d", idx)
	}
	sorted := append([]int(nil), ids...)
	sort.Ints(sorted)
	for i, c := range sorted {
		if c <= idx || (i > 0 && c == sorted[i-1]) {
			continue
		}
		if c >= len(g.nodes) {
			return errors.Wrapf(ErrRowIndexOutOfRange, "conflict %d of row %d", c, idx)
		}
		r, err := seq.Next()
		if err != nil {
			return errors.Wrap(err, "conflict: rank edges")
		}
		g.addEdge(idx, c, r)
	}

	return nil
}

func (g *Graph) addEdge(u, v int, r uint32) {
	id := len(g.edges)
	g.edges = append(g.edges, Edge{ID: id, U: u, V: v, Rank: r})
	g.live = append(g.live, true)
	g.alive++
	g.nodes[u].incident = append(g.nodes[u].incident, id)
	g.nodes[v].incident = append(g.nodes[v].incident, id)
}

func (g *Graph) sortIncident(v int) {
	inc := g.nodes[v].incident
	sort.Slice(inc, func(i, j int) bool { return g.edges[inc[i]].Rank < g.edges[inc[j]].Rank })
}

// removeIncident drops every live edge of v from the graph.
func (g *Graph) removeIncident(v int) {
	for _, eid := range g.nodes[v].incident {
		if !g.live[eid] {
			continue
		}
		g.live[eid] = false
		g.alive--
		w := g.edges[eid].Other(v)
		g.nodes[w].incident = deleteID(g.nodes[w].incident, eid)
	}
	g.nodes[v].incident = nil
}

// deleteID removes id from ids in place, keeping order.
func deleteID(ids []int, id int) []int {
	for i, x := range ids {
		if x == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}

	return ids
}

// NodeCount returns the number of nodes (rows).
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of live edges.
func (g *Graph) EdgeCount() int { return g.alive }

// Seed returns the seed the graph was built with.
func (g *Graph) Seed() int64 { return g.opts.seed }

// Node returns a snapshot of node id.
func (g *Graph) Node(id int) (Node, bool) {
	if id < 0 || id >= len(g.nodes) {
		return Node{}, false
	}
	n := g.nodes[id]
	n.incident = append([]int(nil), n.incident...)

	return n, true
}

// Degree returns the number of live edges at id, or 0 for an unknown id.
func (g *Graph) Degree(id int) int {
	if id < 0 || id >= len(g.nodes) {
		return 0
	}

	return len(g.nodes[id].incident)
}

// Incident returns the live edges at id in ascending rank order.
func (g *Graph) Incident(id int) []Edge {
	if id < 0 || id >= len(g.nodes) {
		return nil
	}
	out := make([]Edge, len(g.nodes[id].incident))
	for i, eid := range g.nodes[id].incident {
		out[i] = g.edges[eid]
	}

	return out
}

// Edges returns the live edges in id order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.alive)
	for id, e := range g.edges {
		if g.live[id] {
			out = append(out, e)
		}
	}

	return out
}

// Clone returns a deep copy. The clone keeps edge ids, ranks and the seed;
// its estimator draws the same per-call seeds as a fresh graph with that seed.
//
// Complexity: O(V + E).
func (g *Graph) Clone() *Graph {
	c := &Graph{
		nodes: make([]Node, len(g.nodes)),
		edges: append([]Edge(nil), g.edges...),
		live:  append([]bool(nil), g.live...),
		alive: g.alive,
		src:   g.src,
		opts:  g.opts,
		rng:   rank.RNGFromSeed(g.opts.seed),
		log:   g.log,
	}
	for i, n := range g.nodes {
		n.incident = append([]int(nil), n.incident...)
		c.nodes[i] = n
	}

	return c
}

// String returns a one-line summary.
func (g *Graph) String() string {
	return fmt.Sprintf("conflict graph: %d nodes, %d edges", len(g.nodes), g.alive)
}

// lpEdges lists live edges as solver input.
func (g *Graph) lpEdges() []lp.Edge {
	out := make([]lp.Edge, 0, g.alive)
	for id, e := range g.edges {
		if g.live[id] {
			out = append(out, lp.Edge{e.U, e.V})
		}
	}

	return out
}
