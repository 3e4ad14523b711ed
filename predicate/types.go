package predicate

import (
	"errors"
	"fmt"
)

// ErrMalformedPredicate is the sentinel every *MalformedError unwraps to.
var ErrMalformedPredicate = errors.New("predicate: malformed expression")

// MalformedError describes where and why Compile rejected an expression.
type MalformedError struct {
	Expr   string // full source expression
	Offset int    // byte offset of the offending token
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("predicate: malformed expression at offset %d: %s (in %q)", e.Offset, e.Reason, e.Expr)
}

// Unwrap exposes ErrMalformedPredicate to errors.Is.
func (e *MalformedError) Unwrap() error { return ErrMalformedPredicate }

// Op is a comparison operator of an atom.
type Op uint8

// Comparison operators.
const (
	GT Op = iota // >
	GE           // >=
	EQ           // =
	NE           // !=
	LE           // <=
	LT           // <
)

var opText = [...]string{GT: ">", GE: ">=", EQ: "=", NE: "!=", LE: "<=", LT: "<"}

// String returns the operator symbol.
func (o Op) String() string {
	if int(o) < len(opText) {
		return opText[o]
	}

	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Apply compares lhs against rhs lexicographically.
func (o Op) Apply(lhs, rhs string) bool {
	switch o {
	case GT:
		return lhs > rhs
	case GE:
		return lhs >= rhs
	case EQ:
		return lhs == rhs
	case NE:
		return lhs != rhs
	case LE:
		return lhs <= rhs
	case LT:
		return lhs < rhs
	}

	return false
}

// Conj is a boolean connective.
type Conj uint8

// Connectives.
const (
	And Conj = iota
	Or
)

// String returns "and" or "or".
func (c Conj) String() string {
	if c == And {
		return "and"
	}

	return "or"
}

type nodeKind uint8

const (
	kindTrue nodeKind = iota
	kindCompare
	kindAnd
	kindOr
)

// node is one arena slot. left/right index into Predicate.nodes and are only
// meaningful for kindAnd/kindOr.
type node struct {
	kind  nodeKind
	op    Op
	attr  string
	value string
	left  int
	right int
}

// Visitor folds a compiled tree bottom-up; see Fold.
type Visitor[T any] interface {
	// True is called for the always-true predicate.
	True() T
	// Compare is called for every atom.
	Compare(attr string, op Op, value string) T
	// Combine is called for every and/or node with the folded children.
	Combine(c Conj, left, right T) T
}
