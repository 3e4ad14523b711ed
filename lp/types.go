package lp

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidEdge indicates an edge with an endpoint outside [0, n) or a self-loop.
	ErrInvalidEdge = errors.New("lp: invalid edge")

	// ErrInfeasible indicates the solver found no feasible point.
	ErrInfeasible = errors.New("lp: infeasible problem")

	// ErrNotHalfIntegral indicates a solution coordinate outside {0, ½, 1}.
	ErrNotHalfIntegral = errors.New("lp: solution is not half-integral")
)

// halfTol is how far a coordinate may sit from {0, ½, 1} and still be snapped.
const halfTol = 1e-6

// Edge is an undirected edge between node indices.
type Edge [2]int

// Solver returns an optimal half-integral solution x of the vertex-cover LP
// over nodes 0..n-1. len(x) == n; nodes without edges get 0.
type Solver interface {
	Solve(n int, edges []Edge) ([]float64, error)
}

// Objective returns Σ x_v.
func Objective(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v
	}

	return sum
}

// Feasible reports whether x satisfies every constraint of the LP.
func Feasible(x []float64, edges []Edge) bool {
	for _, v := range x {
		if v < -halfTol || v > 1+halfTol {
			return false
		}
	}
	for _, e := range edges {
		if x[e[0]]+x[e[1]] < 1-halfTol {
			return false
		}
	}

	return true
}

func validate(n int, edges []Edge) error {
	for i, e := range edges {
		if e[0] < 0 || e[0] >= n || e[1] < 0 || e[1] >= n || e[0] == e[1] {
			return fmt.Errorf("%w: #%d (%d,%d) with n=%d", ErrInvalidEdge, i, e[0], e[1], n)
		}
	}

	return nil
}

// snapHalf maps v to the nearest of 0, 0.5, 1.
func snapHalf(v float64) (float64, error) {
	s := math.Round(v*2) / 2
	if s < 0 || s > 1 || math.Abs(v-s) > halfTol {
		return 0, fmt.Errorf("%w: %g", ErrNotHalfIntegral, v)
	}

	return s, nil
}
