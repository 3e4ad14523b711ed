package conflict_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/conflictcover/conflict"
	"github.com/katalvlaran/conflictcover/metrics"
	"github.com/katalvlaran/conflictcover/predicate"
	"github.com/katalvlaran/conflictcover/table"
)

func TestSampleCount(t *testing.T) {
	cases := map[float64]int{1: 8, 0.5: 32, 0.1: 800, 0.05: 3200}
	for eps, want := range cases {
		k, err := conflict.SampleCount(eps)
		require.NoError(t, err)
		assert.Equal(t, want, k, "eps %v", eps)
	}
	for _, eps := range []float64{0, -0.1, 1.5, math.NaN(), math.Inf(1), 1e-9, 1e-10, math.SmallestNonzeroFloat64} {
		_, err := conflict.SampleCount(eps)
		assert.ErrorIs(t, err, conflict.ErrInvalidEpsilon, "eps %v", eps)
	}

	// Around the smallest accepted ε.
	k, err := conflict.SampleCount(6.2e-5)
	require.NoError(t, err)
	assert.LessOrEqual(t, k, conflict.MaxSampleCount)
	_, err = conflict.SampleCount(6.0e-5)
	assert.ErrorIs(t, err, conflict.ErrInvalidEpsilon)
}

func TestInconsistencyDegree_TinyEpsilonRejected(t *testing.T) {
	g := build(t, 4, complete(4))
	before := testutil.ToFloat64(metrics.EstimatorSamples)

	_, err := g.InconsistencyDegree(1e-10, "")
	assert.ErrorIs(t, err, conflict.ErrInvalidEpsilon)
	assert.Equal(t, before, testutil.ToFloat64(metrics.EstimatorSamples))
}

func TestInconsistencyDegree_EmptySubgraph(t *testing.T) {
	g := build(t, 10, complete(10))
	before := testutil.ToFloat64(metrics.EstimatorSamples)

	d, err := g.InconsistencyDegree(0.01, "id > 999")
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)
	assert.Equal(t, 0, g.LastStats().Samples)
	assert.Equal(t, 0, g.LastStats().SubgraphSize)
	assert.Equal(t, before, testutil.ToFloat64(metrics.EstimatorSamples))

	// The empty subgraph short-circuits before ε is looked at.
	for _, eps := range []float64{0, 2, 1e-10} {
		d, err = g.InconsistencyDegree(eps, "id > 999")
		require.NoError(t, err, "eps %v", eps)
		assert.Equal(t, 0.0, d)
	}
}

func TestInconsistencyDegree_NoEdges(t *testing.T) {
	g := build(t, 10, nil)
	d, err := g.InconsistencyDegree(0.2, "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)
}

func TestInconsistencyDegree_PerfectMatching(t *testing.T) {
	// Disjoint edges: every node is matched, so the degree is exactly 1.
	g := build(t, 8, [][2]int{{0, 1}, {2, 3}, {4, 5}, {6, 7}})
	d, err := g.InconsistencyDegree(0.3, "")
	require.NoError(t, err)
	assert.Equal(t, 1.0, d)

	// Restricting to even ids cuts every edge.
	d, err = g.InconsistencyDegree(0.3, "parity = even")
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)
}

func TestInconsistencyDegree_Errors(t *testing.T) {
	g := build(t, 4, complete(4))

	_, err := g.InconsistencyDegree(0, "")
	assert.ErrorIs(t, err, conflict.ErrInvalidEpsilon)

	_, err = g.InconsistencyDegree(0.1, "(id = 1")
	assert.ErrorIs(t, err, predicate.ErrMalformedPredicate)

	_, err = g.InconsistencyDegree(0.1, "colour = red")
	assert.ErrorIs(t, err, table.ErrMissingField)

	_, err = g.LocalCover("(id = 1")
	assert.ErrorIs(t, err, predicate.ErrMalformedPredicate)
}

// TestLocalCover_MatchesGreedyMatching checks the stack-based resolution
// against a plain greedy matching in rank order.
func TestLocalCover_MatchesGreedyMatching(t *testing.T) {
	r := rand.New(rand.NewSource(17))
	exprs := map[string]func(int) bool{
		"":              func(int) bool { return true },
		"parity = odd":  func(v int) bool { return v%2 == 1 },
		"id < 020":      func(v int) bool { return v < 20 },
		"id >= 010 and (parity = even or id < 025)": func(v int) bool {
			return v >= 10 && (v%2 == 0 || v < 25)
		},
	}
	for round := 0; round < 20; round++ {
		n := 5 + r.Intn(36)
		g := build(t, n, randomEdges(r, n, 0.05+0.4*r.Float64()), conflict.WithSeed(int64(round)))
		for expr, in := range exprs {
			got, err := g.LocalCover(expr)
			require.NoError(t, err)
			want := greedyMatchingCover(g, func(v int) bool { return v < n && in(v) })
			assert.Equal(t, want, got, "round %d expr %q", round, expr)
		}
	}
}

// TestInconsistencyDegree_ConvergesToLocalCover compares the estimate with
// the exact ratio |LocalCover| / |subgraph|.
func TestInconsistencyDegree_ConvergesToLocalCover(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	const n = 60
	edges := randomEdges(r, n, 0.08)
	const eps = 0.05

	for _, workers := range []int{1, 4} {
		g := build(t, n, edges, conflict.WithWorkers(workers))
		for _, expr := range []string{"", "parity = even", "id < 030"} {
			cover, err := g.LocalCover(expr)
			require.NoError(t, err)
			size, err := newGraphSource(n, nil).Search(predicate.MustCompile(expr))
			require.NoError(t, err)
			exact := float64(len(cover)) / float64(len(size))

			d, err := g.InconsistencyDegree(eps, expr)
			require.NoError(t, err)
			assert.InDelta(t, exact, d, eps, "workers %d expr %q", workers, expr)

			st := g.LastStats()
			assert.Equal(t, 3200, st.Samples)
			assert.Equal(t, len(size), st.SubgraphSize)
			assert.Equal(t, workers, st.Workers)
			assert.InDelta(t, d, float64(st.Hits)/float64(st.Samples), 1e-12)
			assert.LessOrEqual(t, st.CoverDecided, st.SubgraphSize)
			assert.Positive(t, st.Duration)
		}
	}
}

// TestInconsistencyDegree_Reproducible: equal seeds and worker counts give
// equal estimates call for call.
func TestInconsistencyDegree_Reproducible(t *testing.T) {
	r := rand.New(rand.NewSource(8))
	edges := randomEdges(r, 40, 0.1)
	for _, workers := range []int{1, 3} {
		a := build(t, 40, edges, conflict.WithSeed(77), conflict.WithWorkers(workers))
		b := build(t, 40, edges, conflict.WithSeed(77), conflict.WithWorkers(workers))
		for i := 0; i < 3; i++ {
			da, err := a.InconsistencyDegree(0.2, "")
			require.NoError(t, err)
			db, err := b.InconsistencyDegree(0.2, "")
			require.NoError(t, err)
			assert.Equal(t, da, db, "workers %d call %d", workers, i)
		}
	}
}

// TestInconsistencyDegree_ResolutionCount: one worker resolves every decided
// edge exactly once; several workers may repeat a resolution.
func TestInconsistencyDegree_ResolutionCount(t *testing.T) {
	r := rand.New(rand.NewSource(12))
	edges := randomEdges(r, 60, 0.1)

	g := build(t, 60, edges, conflict.WithSeed(5))
	_, err := g.InconsistencyDegree(0.2, "")
	require.NoError(t, err)
	st := g.LastStats()
	assert.Positive(t, st.MatchingDecided)
	assert.Equal(t, int64(st.MatchingDecided), st.Resolutions)

	g = build(t, 60, edges, conflict.WithSeed(5), conflict.WithWorkers(4))
	_, err = g.InconsistencyDegree(0.2, "")
	require.NoError(t, err)
	st = g.LastStats()
	assert.GreaterOrEqual(t, st.Resolutions, int64(st.MatchingDecided))
}
