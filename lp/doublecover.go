package lp

import "github.com/gammazero/deque"

// DoubleCover solves the LP exactly through a max-flow on the bipartite
// double cover of the graph. It is the default Solver.
type DoubleCover struct{}

// arc is a residual arc; rev indexes the paired arc in adj[to].
type arc struct {
	to  int
	cap int
	rev int
}

// network is an integer-capacity flow network over dense vertex ids.
type network struct {
	adj   [][]arc
	level []int
	iter  []int
}

func newNetwork(size int) *network {
	return &network{adj: make([][]arc, size), level: make([]int, size), iter: make([]int, size)}
}

func (g *network) addArc(u, v, c int) {
	g.adj[u] = append(g.adj[u], arc{to: v, cap: c, rev: len(g.adj[v])})
	g.adj[v] = append(g.adj[v], arc{to: u, cap: 0, rev: len(g.adj[u]) - 1})
}

// Solve implements Solver.
//
// Vertex layout: 0 = source, 1 = sink, 2+v = v_L, 2+n+v = v_R.
// Arcs: source→v_L and v_R→sink with capacity 1, u_L→v_R and v_L→u_R with
// capacity larger than any cut.
//
// Complexity: O(E·√V) (unit-capacity bipartite network).
func (DoubleCover) Solve(n int, edges []Edge) ([]float64, error) {
	if err := validate(n, edges); err != nil {
		return nil, err
	}
	x := make([]float64, n)
	if len(edges) == 0 {
		return x, nil
	}

	const source, sink = 0, 1
	left := func(v int) int { return 2 + v }
	right := func(v int) int { return 2 + n + v }
	inf := n + 1

	g := newNetwork(2*n + 2)
	for v := 0; v < n; v++ {
		g.addArc(source, left(v), 1)
		g.addArc(right(v), sink, 1)
	}
	for _, e := range edges {
		g.addArc(left(e[0]), right(e[1]), inf)
		g.addArc(left(e[1]), right(e[0]), inf)
	}

	g.maxFlow(source, sink)

	// After the final BFS, level >= 0 marks the source side of a minimum cut.
	// König: cover = unreachable left vertices plus reachable right vertices.
	for v := 0; v < n; v++ {
		var c float64
		if g.level[left(v)] < 0 {
			c += 0.5
		}
		if g.level[right(v)] >= 0 {
			c += 0.5
		}
		x[v] = c
	}

	return x, nil
}

// maxFlow runs Dinic's algorithm and leaves level[] describing the residual
// reachability from source.
func (g *network) maxFlow(source, sink int) int {
	var total int
	for {
		g.bfs(source)
		if g.level[sink] < 0 {
			return total
		}
		for i := range g.iter {
			g.iter[i] = 0
		}
		for {
			pushed := g.push(source, sink, int(^uint(0)>>1))
			if pushed == 0 {
				break
			}
			total += pushed
		}
	}
}

// bfs labels every vertex with its residual distance from source, or -1.
func (g *network) bfs(source int) {
	for i := range g.level {
		g.level[i] = -1
	}
	var q deque.Deque[int]
	g.level[source] = 0
	q.PushBack(source)
	for q.Len() > 0 {
		u := q.PopFront()
		for _, a := range g.adj[u] {
			if a.cap > 0 && g.level[a.to] < 0 {
				g.level[a.to] = g.level[u] + 1
				q.PushBack(a.to)
			}
		}
	}
}

// push sends flow along strictly increasing levels and returns the amount.
func (g *network) push(u, sink, available int) int {
	if u == sink {
		return available
	}
	for ; g.iter[u] < len(g.adj[u]); g.iter[u]++ {
		a := &g.adj[u][g.iter[u]]
		if a.cap <= 0 || g.level[a.to] != g.level[u]+1 {
			continue
		}
		send := available
		if a.cap < send {
			send = a.cap
		}
		if pushed := g.push(a.to, sink, send); pushed > 0 {
			a.cap -= pushed
			g.adj[a.to][a.rev].cap += pushed

			return pushed
		}
	}

	return 0
}
