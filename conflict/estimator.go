// File: estimator.go
// Role: Sublinear inconsistency estimation by local matching resolution.
// Determinism:
//   - Matched edges form the greedy maximal matching of the subgraph taken in
//     ascending rank order; any visiting order resolves to the same matching.
//   - A fixed seed and worker count reproduce the samples.
// Concurrency:
//   - Memo maps are gsync.MapOf written through LoadOrStore. Two workers may
//     resolve the same key; both compute the same value and the first store wins.

package conflict

import (
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	gsync "github.com/SaveTheRbtz/generic-sync-map-go"
	"github.com/gammazero/deque"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/conflictcover/metrics"
	"github.com/katalvlaran/conflictcover/oracle"
	"github.com/katalvlaran/conflictcover/predicate"
	"github.com/katalvlaran/conflictcover/rank"
)

// Stats describes the most recent estimation on a Graph.
type Stats struct {
	Epsilon      float64
	Predicate    string
	SubgraphSize int
	Samples      int
	Hits         int
	Degree       float64

	// Memo entries at the end of the call and edges resolved on the stack.
	// With one worker Resolutions equals MatchingDecided. With several, two
	// workers may resolve the same edge concurrently and both are counted.
	MatchingDecided int
	CoverDecided    int
	Resolutions     int64

	Workers  int
	Duration time.Duration
}

// MaxSampleCount bounds ⌈8/ε²⌉. The smallest accepted ε is about 6.1e-5.
const MaxSampleCount = math.MaxInt32

// SampleCount returns ⌈8/ε²⌉, the number of samples drawn for tolerance ε.
// ε must lie in (0, 1] and yield at most MaxSampleCount samples.
func SampleCount(epsilon float64) (int, error) {
	if math.IsNaN(epsilon) || math.IsInf(epsilon, 0) || epsilon <= 0 || epsilon > 1 {
		return 0, errors.Wrapf(ErrInvalidEpsilon, "got %v", epsilon)
	}
	k := math.Ceil(8 / (epsilon * epsilon))
	if k > MaxSampleCount {
		return 0, errors.Wrapf(ErrInvalidEpsilon, "got %v: %.0f samples exceed %d", epsilon, k, MaxSampleCount)
	}

	return int(k), nil
}

// InconsistencyDegree compiles expr and estimates the fraction of the selected
// rows that lie in the matching-induced vertex cover of the selected subgraph.
// ε is the additive tolerance; the empty subgraph has degree 0 and draws no
// samples.
func (g *Graph) InconsistencyDegree(epsilon float64, expr string) (float64, error) {
	p, err := predicate.Compile(expr)
	if err != nil {
		return 0, errors.Wrap(err, "conflict: compile predicate")
	}

	return g.InconsistencyDegreeOf(epsilon, p)
}

// InconsistencyDegreeOf is InconsistencyDegree for a compiled predicate.
//
// Steps:
//  1. Build the Oracle over p.
//  2. Size 0 => 0, whatever ε is.
//  3. Validate ε; draw k = ⌈8/ε²⌉ nodes uniformly with replacement (split over workers).
//  4. Count the samples in the cover; return count/k.
//
// Complexity: O(k·T), T = cost of one local resolution (bounded by the
// subgraph's edges, amortized by the memo maps).
func (g *Graph) InconsistencyDegreeOf(epsilon float64, p *predicate.Predicate) (float64, error) {
	start := time.Now()
	callSeed := g.rng.Int63()
	est, err := g.newEstimation(p, rank.DeriveRNG(callSeed, 0))
	if err != nil {
		return 0, err
	}
	stats := Stats{
		Epsilon:      epsilon,
		Predicate:    est.oracle.Predicate().String(),
		SubgraphSize: est.oracle.Size(),
		Workers:      g.opts.workers,
	}
	if est.oracle.Size() == 0 {
		stats.Duration = time.Since(start)
		g.last = stats
		g.log.Debug().Str("predicate", stats.Predicate).Msg("empty subgraph, degree 0")
		return 0, nil
	}
	k, err := SampleCount(epsilon)
	if err != nil {
		return 0, err
	}

	hits, err := est.sample(k, g.opts.workers, callSeed)
	if err != nil {
		return 0, err
	}
	degree := float64(hits) / float64(k)

	stats.Samples, stats.Hits, stats.Degree = k, hits, degree
	stats.MatchingDecided, stats.CoverDecided = est.cacheSizes()
	stats.Resolutions = est.resolved.Load()
	stats.Duration = time.Since(start)
	g.last = stats

	metrics.EstimatorSamples.Add(float64(k))
	metrics.EstimatorHits.Add(float64(hits))
	metrics.MatchingResolutions.Add(float64(stats.Resolutions))
	metrics.EstimationDuration.Observe(stats.Duration.Seconds())
	g.log.Debug().
		Str("predicate", stats.Predicate).
		Int("subgraph", stats.SubgraphSize).
		Int("samples", k).
		Int("hits", hits).
		Float64("degree", degree).
		Dur("took", stats.Duration).
		Msg("inconsistency degree estimated")

	return degree, nil
}

// LocalCover returns, sorted, every node selected by expr that the local
// procedure places in the cover. It is the exact quantity the estimator
// samples: InconsistencyDegree converges to len(LocalCover)/subgraph size.
func (g *Graph) LocalCover(expr string) ([]int, error) {
	p, err := predicate.Compile(expr)
	if err != nil {
		return nil, errors.Wrap(err, "conflict: compile predicate")
	}
	est, err := g.newEstimation(p, nil)
	if err != nil {
		return nil, err
	}
	cover := make([]int, 0)
	for _, v := range est.oracle.Nodes() {
		if est.inVertexCover(v) {
			cover = append(cover, v)
		}
	}

	return cover, nil
}

// LastStats returns the statistics of the most recent estimation.
func (g *Graph) LastStats() Stats { return g.last }

// estimation is the per-call state: the subgraph and the memo maps.
type estimation struct {
	g        *Graph
	oracle   *oracle.Oracle
	matching gsync.MapOf[int, bool] // edge id -> in matching
	cover    gsync.MapOf[int, bool] // node id -> in cover
	resolved atomic.Int64
}

func (g *Graph) newEstimation(p *predicate.Predicate, rng *rand.Rand) (*estimation, error) {
	o, err := oracle.New(g.src, p, rng)
	if err != nil {
		return nil, errors.Wrap(err, "conflict: build oracle")
	}
	for _, v := range o.Nodes() {
		if v >= len(g.nodes) {
			return nil, errors.Wrapf(ErrRowIndexOutOfRange, "search returned row %d of %d", v, len(g.nodes))
		}
	}
	g.log.Debug().Str("predicate", o.Predicate().String()).Int("subgraph", o.Size()).Msg("oracle built")

	return &estimation{g: g, oracle: o}, nil
}

// sample draws k nodes over the given number of workers and counts cover hits.
// Worker w draws from rank.DeriveRNG(seed, w).
func (est *estimation) sample(k, workers int, seed int64) (int, error) {
	if workers > k {
		workers = k
	}
	if workers <= 1 {
		return est.sampleRun(k, est.oracle.SampleNode)
	}

	var (
		eg    errgroup.Group
		total atomic.Int64
	)
	for w := 0; w < workers; w++ {
		share := k / workers
		if w < k%workers {
			share++
		}
		r := rank.DeriveRNG(seed, uint64(w))
		eg.Go(func() error {
			hits, err := est.sampleRun(share, func() (int, error) { return est.oracle.Sample(r) })
			total.Add(int64(hits))
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return 0, err
	}

	return int(total.Load()), nil
}

func (est *estimation) sampleRun(n int, draw func() (int, error)) (int, error) {
	var hits int
	for i := 0; i < n; i++ {
		v, err := draw()
		if err != nil {
			return 0, errors.Wrap(err, "conflict: sample node")
		}
		if est.inVertexCover(v) {
			hits++
		}
	}

	return hits, nil
}

// inVertexCover reports whether v has a matched edge toward the subgraph.
func (est *estimation) inVertexCover(v int) bool {
	if in, ok := est.cover.Load(v); ok {
		return in
	}
	g := est.g
	in := false
	for _, eid := range g.nodes[v].incident {
		if !est.oracle.InSubgraph(g.edges[eid].Other(v)) {
			continue
		}
		if est.inMatching(eid) {
			in = true
			break
		}
	}
	actual, _ := est.cover.LoadOrStore(v, in)

	return actual
}

// frame is one pending edge on the resolution stack. ia and ib walk the
// incidence lists of a and b (both rank-sorted) in merged rank order.
type frame struct {
	edge   int
	rank   uint32
	a, b   int
	ia, ib int
}

// inMatching reports whether edge eid belongs to the rank-greedy matching of
// the subgraph: true iff no adjacent subgraph edge of lower rank is matched.
//
// Resolution uses an explicit stack. The top frame scans its lower-ranked
// neighbors; an undecided neighbor is pushed and the frame resumes at the same
// cursor once it is decided. Ranks strictly decrease up the stack, so no edge
// appears twice and depth is at most the number of subgraph edges.
func (est *estimation) inMatching(eid int) bool {
	if in, ok := est.matching.Load(eid); ok {
		return in
	}
	var stack deque.Deque[frame]
	stack.PushBack(est.newFrame(eid))
	for stack.Len() > 0 {
		f := stack.PopBack()
		next, decided, in := est.advance(&f)
		if !decided {
			stack.PushBack(f)
			stack.PushBack(est.newFrame(next))
			continue
		}
		est.matching.LoadOrStore(f.edge, in)
		est.resolved.Add(1)
	}
	in, _ := est.matching.Load(eid)

	return in
}

func (est *estimation) newFrame(eid int) frame {
	e := est.g.edges[eid]
	return frame{edge: eid, rank: e.Rank, a: e.U, b: e.V}
}

// advance moves f's cursors over lower-ranked subgraph edges. It returns
// decided=true with the edge's membership, or decided=false with an undecided
// neighbor edge that must be resolved first.
func (est *estimation) advance(f *frame) (next int, decided, in bool) {
	g := est.g
	la, lb := g.nodes[f.a].incident, g.nodes[f.b].incident
	for {
		// Pick the lower-ranked head of the two lists, if below f.rank.
		owner, cand := -1, -1
		if f.ia < len(la) && g.edges[la[f.ia]].Rank < f.rank {
			owner, cand = f.a, la[f.ia]
		}
		if f.ib < len(lb) && g.edges[lb[f.ib]].Rank < f.rank &&
			(cand < 0 || g.edges[lb[f.ib]].Rank < g.edges[cand].Rank) {
			owner, cand = f.b, lb[f.ib]
		}
		if cand < 0 {
			return 0, true, true
		}

		if est.oracle.InSubgraph(g.edges[cand].Other(owner)) {
			m, ok := est.matching.Load(cand)
			if !ok {
				return cand, false, false
			}
			if m {
				return 0, true, false
			}
		}
		if owner == f.a {
			f.ia++
		} else {
			f.ib++
		}
	}
}

func (est *estimation) cacheSizes() (matching, cover int) {
	est.matching.Range(func(int, bool) bool {
		matching++
		return true
	})
	est.cover.Range(func(int, bool) bool {
		cover++
		return true
	})

	return matching, cover
}
