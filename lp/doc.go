// Package lp solves the linear relaxation of minimum vertex cover
//
//	minimize   Σ x_v
//	subject to x_u + x_v ≥ 1   for every edge (u, v)
//	           0 ≤ x_v ≤ 1
//
// and returns an optimal vertex whose coordinates are all in {0, ½, 1}.
//
// Two solvers implement Solver:
//
//   - DoubleCover: exact and combinatorial. Builds the bipartite double cover
//     of the graph (every node v split into v_L and v_R, every edge (u, v) into
//     u_L–v_R and v_L–u_R), finds a minimum vertex cover of it with Dinic's
//     max-flow and König's theorem, and sets x_v = ([v_L in cover] + [v_R in
//     cover]) / 2. Time O(E·√V), memory O(V + E).
//
//   - Simplex: the textbook formulation in equality standard form handed to
//     gonum's optimize/convex/lp. Memory O((V+E)²) for the dense constraint
//     matrix, so intended for small graphs and for cross-checking.
//
// Both agree on the optimum value; the optimal vertices may differ.
package lp
