// Package oracle indexes the rows selected by a predicate for membership
// tests and uniform sampling.
//
// The row source does the filtering (Searcher.Search); the Oracle only keeps
// the resulting ids in an ordered B-tree so that both "is id in the subgraph"
// and "give me the k-th smallest id" cost O(log n). Uniform sampling draws a
// rank k in [0, n) and selects it, which is independent of id magnitude.
package oracle

import (
	"math/rand"
	"sort"

	"github.com/pkg/errors"
	"github.com/tidwall/btree"

	"github.com/katalvlaran/conflictcover/predicate"
)

var (
	// ErrEmptySubgraph is returned by sampling on an Oracle with Size() == 0.
	ErrEmptySubgraph = errors.New("oracle: empty subgraph")

	// ErrNilSearcher indicates New was called without a row source.
	ErrNilSearcher = errors.New("oracle: nil searcher")

	// ErrNegativeID indicates the row source returned a negative row id.
	ErrNegativeID = errors.New("oracle: negative row id")
)

// Searcher returns the ids of the rows satisfying p. Order and duplicates do
// not matter.
type Searcher interface {
	Search(p *predicate.Predicate) ([]int, error)
}

// Oracle is the materialized node set of a predicate-scoped subgraph.
// Membership and selection are safe for concurrent use; SampleNode is not,
// because it shares one generator (use Sample with a per-goroutine one).
type Oracle struct {
	pred *predicate.Predicate
	set  *btree.BTreeG[int]
	rng  *rand.Rand
}

// New builds an Oracle over the rows of src that satisfy p. A nil p means the
// always-true predicate; a nil rng means a fixed-seed generator.
//
// Complexity: O(S + n log n), S = cost of src.Search.
func New(src Searcher, p *predicate.Predicate, rng *rand.Rand) (*Oracle, error) {
	if src == nil {
		return nil, ErrNilSearcher
	}
	if p == nil {
		p = predicate.True()
	}
	ids, err := src.Search(p)
	if err != nil {
		return nil, errors.Wrapf(err, "oracle: search %q", p.String())
	}

	sorted := append([]int(nil), ids...)
	sort.Ints(sorted)
	set := btree.NewBTreeG[int](func(a, b int) bool { return a < b })
	for _, id := range sorted {
		if id < 0 {
			return nil, errors.Wrapf(ErrNegativeID, "oracle: id %d", id)
		}
		set.Load(id) // sorted input: append fast path, duplicates replace
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	return &Oracle{pred: p, set: set, rng: rng}, nil
}

// Predicate returns the predicate the Oracle was built from.
func (o *Oracle) Predicate() *predicate.Predicate { return o.pred }

// Size returns the number of distinct ids in the subgraph.
func (o *Oracle) Size() int { return o.set.Len() }

// InSubgraph reports whether id belongs to the subgraph. O(log n).
func (o *Oracle) InSubgraph(id int) bool {
	_, ok := o.set.Get(id)

	return ok
}

// Select returns the k-th smallest id (0-based). O(log n).
func (o *Oracle) Select(k int) (int, bool) {
	if k < 0 || k >= o.set.Len() {
		return 0, false
	}

	return o.set.GetAt(k)
}

// SampleNode draws an id uniformly at random using the Oracle's generator.
func (o *Oracle) SampleNode() (int, error) { return o.Sample(o.rng) }

// Sample draws an id uniformly at random using r.
//
// Complexity: O(log n).
func (o *Oracle) Sample(r *rand.Rand) (int, error) {
	n := o.set.Len()
	if n == 0 {
		return 0, ErrEmptySubgraph
	}
	id, _ := o.set.GetAt(r.Intn(n))

	return id, nil
}

// Nodes returns all ids in ascending order.
func (o *Oracle) Nodes() []int {
	out := make([]int, 0, o.set.Len())
	o.set.Scan(func(id int) bool {
		out = append(out, id)
		return true
	})

	return out
}
