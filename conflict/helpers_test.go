package conflict_test

import (
	"fmt"
	"iter"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/conflictcover/conflict"
	"github.com/katalvlaran/conflictcover/predicate"
	"github.com/katalvlaran/conflictcover/table"
)

// graphSource serves a fixed graph as a row source. Row i has fields
// id = "%03d" and parity = even|odd, so predicates can select subgraphs.
type graphSource struct {
	rows []table.Record
	adj  map[int][]int

	countErr  error
	rowsErr   error
	findErr   error
	searchErr error
	rowsOrder []int // optional override of the yielded indices
}

func newGraphSource(n int, edges [][2]int) *graphSource {
	s := &graphSource{adj: make(map[int][]int)}
	for i := 0; i < n; i++ {
		parity := "even"
		if i%2 == 1 {
			parity = "odd"
		}
		s.rows = append(s.rows, table.NewRecord(i, map[string]string{
			"id":     fmt.Sprintf("%03d", i),
			"parity": parity,
		}))
	}
	for _, e := range edges {
		s.adj[e[0]] = append(s.adj[e[0]], e[1])
		s.adj[e[1]] = append(s.adj[e[1]], e[0])
	}
	return s
}

func (s *graphSource) TotalRowCount() (int, error) { return len(s.rows), s.countErr }

func (s *graphSource) Rows() iter.Seq2[table.Row, error] {
	return func(yield func(table.Row, error) bool) {
		order := s.rowsOrder
		if order == nil {
			for i := range s.rows {
				order = append(order, i)
			}
		}
		for n, i := range order {
			if s.rowsErr != nil && n == 1 {
				yield(nil, s.rowsErr)
				return
			}
			if !yield(s.rows[i], nil) {
				return
			}
		}
	}
}

func (s *graphSource) FindConflicts(row table.Row) ([]int, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.adj[row.Index()], nil
}

func (s *graphSource) Search(p *predicate.Predicate) ([]int, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	var out []int
	for _, r := range s.rows {
		ok, err := p.Satisfy(r)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, r.Index())
		}
	}
	return out, nil
}

func build(t testing.TB, n int, edges [][2]int, opts ...conflict.Option) *conflict.Graph {
	t.Helper()
	opts = append([]conflict.Option{conflict.WithSeed(1)}, opts...)
	g, err := conflict.New(newGraphSource(n, edges), opts...)
	require.NoError(t, err)
	return g
}

func randomEdges(r *rand.Rand, n int, p float64) [][2]int {
	var es [][2]int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if r.Float64() < p {
				es = append(es, [2]int{i, j})
			}
		}
	}
	return es
}

func complete(n int) [][2]int {
	var es [][2]int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			es = append(es, [2]int{i, j})
		}
	}
	return es
}

// wheel returns hub 0 joined to the rim cycle 1..k.
func wheel(k int) [][2]int {
	var es [][2]int
	for i := 1; i <= k; i++ {
		es = append(es, [2]int{0, i}, [2]int{i, i%k + 1})
	}
	return es
}

// windmill returns t triangles sharing node 0.
func windmill(t int) [][2]int {
	var es [][2]int
	for i := 0; i < t; i++ {
		a, b := 2*i+1, 2*i+2
		es = append(es, [2]int{0, a}, [2]int{0, b}, [2]int{a, b})
	}
	return es
}

func disjointTriangles(t int) [][2]int {
	var es [][2]int
	for i := 0; i < t; i++ {
		es = append(es, [2]int{3 * i, 3*i + 1}, [2]int{3*i + 1, 3*i + 2}, [2]int{3 * i, 3*i + 2})
	}
	return es
}

func requireCover(t *testing.T, edges [][2]int, cover []int) {
	t.Helper()
	require.True(t, sort.IntsAreSorted(cover), "cover not sorted: %v", cover)
	in := make(map[int]bool, len(cover))
	for i, v := range cover {
		require.False(t, i > 0 && cover[i-1] == v, "duplicate %d", v)
		in[v] = true
	}
	for _, e := range edges {
		require.True(t, in[e[0]] || in[e[1]], "edge %v uncovered by %v", e, cover)
	}
}

// greedyMatchingCover is the reference for the local procedure: scan the
// subgraph's edges by ascending rank and match every edge with two free ends.
func greedyMatchingCover(g *conflict.Graph, in func(int) bool) []int {
	var es []conflict.Edge
	for _, e := range g.Edges() {
		if in(e.U) && in(e.V) {
			es = append(es, e)
		}
	}
	sort.Slice(es, func(i, j int) bool { return es[i].Rank < es[j].Rank })
	matched := make(map[int]bool)
	for _, e := range es {
		if !matched[e.U] && !matched[e.V] {
			matched[e.U], matched[e.V] = true, true
		}
	}
	out := make([]int, 0, len(matched))
	for v := range matched {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
