package lp

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	golp "gonum.org/v1/gonum/optimize/convex/lp"
)

// DefaultSimplexTol is the pivot tolerance used when Simplex.Tol is zero.
const DefaultSimplexTol = 1e-10

// Simplex solves the LP with gonum's simplex method.
type Simplex struct {
	Tol float64
}

// Solve implements Solver.
//
// Only nodes with at least one edge enter the program. With n' such nodes and
// m edges the equality standard form has columns x (n'), t (n'), s (m):
//
//	x_u + x_v − s_e = 1   per edge e = (u, v)
//	x_v + t_v       = 1   per node
//
// The starting basis {x, s} is the feasible point x = 1, s = 1.
func (s Simplex) Solve(n int, edges []Edge) ([]float64, error) {
	if err := validate(n, edges); err != nil {
		return nil, err
	}
	x := make([]float64, n)
	if len(edges) == 0 {
		return x, nil
	}

	// 1) Compact non-isolated nodes.
	col := make([]int, n)
	for i := range col {
		col[i] = -1
	}
	var nodes []int
	for _, e := range edges {
		for _, v := range e {
			if col[v] < 0 {
				col[v] = len(nodes)
				nodes = append(nodes, v)
			}
		}
	}
	np, m := len(nodes), len(edges)
	rows, cols := m+np, 2*np+m

	// 2) Constraint matrix, right-hand side and costs.
	A := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)
	c := make([]float64, cols)
	for i, e := range edges {
		A.Set(i, col[e[0]], 1)
		A.Set(i, col[e[1]], 1)
		A.Set(i, 2*np+i, -1)
		b[i] = 1
	}
	for j := 0; j < np; j++ {
		A.Set(m+j, j, 1)
		A.Set(m+j, np+j, 1)
		b[m+j] = 1
		c[j] = 1
	}
	basis := make([]int, 0, rows)
	for j := 0; j < np; j++ {
		basis = append(basis, j)
	}
	for i := 0; i < m; i++ {
		basis = append(basis, 2*np+i)
	}

	// 3) Solve and snap.
	tol := s.Tol
	if tol <= 0 {
		tol = DefaultSimplexTol
	}
	_, opt, err := golp.Simplex(c, A, b, tol, basis)
	if err != nil {
		if err == golp.ErrInfeasible {
			return nil, fmt.Errorf("%w: %v", ErrInfeasible, err)
		}
		return nil, fmt.Errorf("lp: simplex: %w", err)
	}
	for j, v := range nodes {
		if x[v], err = snapHalf(opt[j]); err != nil {
			return nil, err
		}
	}

	return x, nil
}
