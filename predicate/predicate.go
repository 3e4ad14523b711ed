package predicate

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/conflictcover/table"
)

// trueExpr is the textual form of the always-true predicate.
const trueExpr = "1 = 1"

// Predicate is a compiled, immutable expression tree stored as an arena.
// It is safe for concurrent use.
type Predicate struct {
	nodes []node
	root  int
	expr  string
}

func truePredicate() *Predicate {
	return &Predicate{nodes: []node{{kind: kindTrue}}, root: 0, expr: trueExpr}
}

// True returns the always-true predicate.
func True() *Predicate { return truePredicate() }

// IsTrue reports whether p is the always-true predicate.
func (p *Predicate) IsTrue() bool {
	return p.nodes[p.root].kind == kindTrue
}

// String returns the trimmed source expression, or "1 = 1" for the empty one.
func (p *Predicate) String() string { return p.expr }

// Satisfy evaluates p against r. Both children of every connective are
// evaluated. A missing attribute aborts evaluation with the row's error
// (a *table.MissingFieldError for table.Record).
//
// Complexity: O(N), N = number of tree nodes.
func (p *Predicate) Satisfy(r table.Row) (bool, error) {
	return p.eval(p.root, r)
}

func (p *Predicate) eval(i int, r table.Row) (bool, error) {
	n := &p.nodes[i]
	switch n.kind {
	case kindTrue:
		return true, nil
	case kindCompare:
		v, err := r.Field(n.attr)
		if err != nil {
			return false, err
		}
		return n.op.Apply(v, n.value), nil
	}

	l, errL := p.eval(n.left, r)
	rr, errR := p.eval(n.right, r)
	if errL != nil {
		return false, errL
	}
	if errR != nil {
		return false, errR
	}
	if n.kind == kindAnd {
		return l && rr, nil
	}

	return l || rr, nil
}

// Attributes returns the distinct attribute names referenced by p, sorted.
func (p *Predicate) Attributes() []string {
	seen := make(map[string]struct{})
	for _, n := range p.nodes {
		if n.kind == kindCompare {
			seen[n.attr] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for a := range seen {
		out = append(out, a)
	}
	sort.Strings(out)

	return out
}

// Fold walks p bottom-up with v and returns the folded root value.
func Fold[T any](p *Predicate, v Visitor[T]) T {
	return fold(p, p.root, v)
}

func fold[T any](p *Predicate, i int, v Visitor[T]) T {
	n := &p.nodes[i]
	switch n.kind {
	case kindTrue:
		return v.True()
	case kindCompare:
		return v.Compare(n.attr, n.op, n.value)
	case kindAnd:
		return v.Combine(And, fold(p, n.left, v), fold(p, n.right, v))
	case kindOr:
		return v.Combine(Or, fold(p, n.left, v), fold(p, n.right, v))
	}
	panic(fmt.Sprintf("predicate: corrupt node kind %d", n.kind))
}

// Canonical renders p fully parenthesised, e.g. "((a = 1) or (b > 2))".
// Two predicates with the same tree render identically.
func (p *Predicate) Canonical() string {
	return Fold[string](p, canonicalVisitor{})
}

type canonicalVisitor struct{}

func (canonicalVisitor) True() string { return trueExpr }

func (canonicalVisitor) Compare(attr string, op Op, value string) string {
	return "(" + attr + " " + op.String() + " " + value + ")"
}

func (canonicalVisitor) Combine(c Conj, l, r string) string {
	return "(" + l + " " + c.String() + " " + r + ")"
}
