// Package conflict builds the conflict graph of a table and measures how far
// the table is from satisfying its functional dependencies.
//
// Every row is a node; two rows that violate a functional dependency together
// are joined by an edge. Each edge carries a unique pseudo-random rank drawn
// once at construction. The size of a minimum vertex cover of this graph is
// the number of rows that must be removed to make the table consistent.
//
// Deterministic approximators (whole graph):
//
//   - VertexCoverByColoringLP: greedy round-based coloring, optimal
//     half-integral LP relaxation, rounding that keeps every x=1 node and
//     every x=½ node except the largest ½-color class. Within 2 of optimum.
//
//   - VertexCoverByTriangleEliminationLP: removes triangles one by one,
//     putting all three corners in the cover, then runs the LP path on the
//     triangle-free remainder. Destroys the removed edges; Clone first to keep
//     the graph.
//
// Sublinear estimator (predicate-scoped):
//
//   - InconsistencyDegree(ε, expr) samples ⌈8/ε²⌉ nodes of the subgraph
//     selected by expr and returns the fraction that belongs to the vertex
//     cover induced by the rank-greedy maximal matching. Membership of one node
//     is decided locally: an edge is matched iff no lower-ranked adjacent edge
//     in the subgraph is matched. The resolution runs on an explicit stack and
//     memoizes per edge and per node for the duration of one call.
//
// Concurrency:
//   - Approximators mutate node annotations (and edges, for triangle
//     elimination). Serialize all calls on one *Graph.
//   - WithWorkers(k) parallelizes sampling inside one estimation; workers share
//     lock-free memo maps and each owns a derived random stream.
//
// Errors:
//   - ErrNilSource, ErrRowIndexOutOfRange, ErrDuplicateRow, ErrMissingRow from New.
//   - ErrInvalidEpsilon from the estimator; predicate.ErrMalformedPredicate and
//     table.ErrMissingField pass through wrapped.
package conflict
