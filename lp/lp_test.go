package lp_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/conflictcover/lp"
)

var solvers = map[string]lp.Solver{
	"double_cover": lp.DoubleCover{},
	"simplex":      lp.Simplex{},
}

func cycle(n int) []lp.Edge {
	es := make([]lp.Edge, n)
	for i := 0; i < n; i++ {
		es[i] = lp.Edge{i, (i + 1) % n}
	}
	return es
}

func complete(n int) []lp.Edge {
	var es []lp.Edge
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			es = append(es, lp.Edge{i, j})
		}
	}
	return es
}

func randomGraph(r *rand.Rand, n int, p float64) []lp.Edge {
	var es []lp.Edge
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if r.Float64() < p {
				es = append(es, lp.Edge{i, j})
			}
		}
	}
	return es
}

func assertHalfIntegral(t *testing.T, x []float64) {
	t.Helper()
	for i, v := range x {
		assert.Contains(t, []float64{0, 0.5, 1}, v, "x[%d]", i)
	}
}

func TestSolve_KnownOptima(t *testing.T) {
	cases := []struct {
		name  string
		n     int
		edges []lp.Edge
		opt   float64
	}{
		{"empty", 4, nil, 0},
		{"single_edge", 2, []lp.Edge{{0, 1}}, 1},
		{"path3", 3, []lp.Edge{{0, 1}, {1, 2}}, 1},
		{"triangle", 3, cycle(3), 1.5},
		{"square", 4, cycle(4), 2},
		{"pentagon", 5, cycle(5), 2.5},
		{"k4", 4, complete(4), 2},
		{"star_plus_isolated", 6, []lp.Edge{{0, 1}, {0, 2}, {0, 3}, {0, 4}}, 1},
		{"k23", 5, []lp.Edge{{0, 2}, {0, 3}, {0, 4}, {1, 2}, {1, 3}, {1, 4}}, 2},
	}
	for sname, s := range solvers {
		for _, tc := range cases {
			t.Run(sname+"/"+tc.name, func(t *testing.T) {
				x, err := s.Solve(tc.n, tc.edges)
				require.NoError(t, err)
				require.Len(t, x, tc.n)
				assertHalfIntegral(t, x)
				assert.True(t, lp.Feasible(x, tc.edges))
				assert.InDelta(t, tc.opt, lp.Objective(x), 1e-9)
			})
		}
	}
}

func TestSolve_UniqueVertices(t *testing.T) {
	for sname, s := range solvers {
		x, err := s.Solve(3, cycle(3))
		require.NoError(t, err, sname)
		assert.Equal(t, []float64{0.5, 0.5, 0.5}, x, sname)

		x, err = s.Solve(3, []lp.Edge{{0, 1}, {1, 2}})
		require.NoError(t, err, sname)
		assert.Equal(t, []float64{0, 1, 0}, x, sname)

		x, err = s.Solve(6, []lp.Edge{{0, 1}, {0, 2}, {0, 3}, {0, 4}})
		require.NoError(t, err, sname)
		assert.Equal(t, []float64{1, 0, 0, 0, 0, 0}, x, sname)
	}
}

// TestSolve_SolversAgree compares optimum values on random graphs.
func TestSolve_SolversAgree(t *testing.T) {
	r := rand.New(rand.NewSource(2024))
	for round := 0; round < 40; round++ {
		n := 3 + r.Intn(12)
		edges := randomGraph(r, n, 0.15+0.5*r.Float64())

		xd, err := lp.DoubleCover{}.Solve(n, edges)
		require.NoError(t, err)
		xs, err := lp.Simplex{}.Solve(n, edges)
		require.NoError(t, err)

		assertHalfIntegral(t, xd)
		assertHalfIntegral(t, xs)
		assert.True(t, lp.Feasible(xd, edges))
		assert.True(t, lp.Feasible(xs, edges))
		assert.InDelta(t, lp.Objective(xs), lp.Objective(xd), 1e-9, "round %d n=%d m=%d", round, n, len(edges))
	}
}

func TestSolve_InvalidEdges(t *testing.T) {
	bad := [][]lp.Edge{
		{{0, 0}},
		{{0, 3}},
		{{-1, 1}},
	}
	for sname, s := range solvers {
		for _, edges := range bad {
			_, err := s.Solve(3, edges)
			assert.ErrorIs(t, err, lp.ErrInvalidEdge, sname)
		}
	}
}

func TestFeasible(t *testing.T) {
	edges := cycle(3)
	assert.True(t, lp.Feasible([]float64{1, 1, 0}, edges))
	assert.False(t, lp.Feasible([]float64{1, 0, 0}, edges))
	assert.False(t, lp.Feasible([]float64{1.5, 1, 1}, edges))
	assert.Equal(t, 2.0, lp.Objective([]float64{1, 1, 0}))
}

func BenchmarkDoubleCover(b *testing.B) {
	r := rand.New(rand.NewSource(1))
	edges := randomGraph(r, 2000, 0.005)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := (lp.DoubleCover{}).Solve(2000, edges); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSimplex(b *testing.B) {
	r := rand.New(rand.NewSource(1))
	edges := randomGraph(r, 40, 0.1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := (lp.Simplex{}).Solve(40, edges); err != nil {
			b.Fatal(err)
		}
	}
}
