// Package conflictcover approximates the minimum set of rows to delete so
// that a table satisfies its functional dependencies, and estimates how
// inconsistent any predicate-selected slice of the table is.
//
// What:
//
//	Rows are nodes of a conflict graph; two rows are joined when together
//	they violate a functional dependency (equal LHS, different RHS). Any
//	vertex cover of that graph is a repair by deletion.
//
//   - Coloring LP: greedy coloring, half-integral LP relaxation of vertex
//     cover, rounding that drops the largest color class of ½-nodes.
//   - Triangle elimination LP: every vertex-disjoint triangle enters the
//     cover whole, the remainder goes through the coloring LP.
//   - Inconsistency degree: samples ⌈8/ε²⌉ selected rows uniformly and
//     asks, locally and with memoization, whether each one is matched in the
//     random-rank greedy maximal matching of the selected subgraph.
//
// Packages:
//
//	table/     — rows, functional dependencies; memtable/ and sqltable/ sources
//	predicate/ — compiler and evaluator of the row selection language
//	oracle/    — materialized, uniformly samplable node set of a predicate
//	lp/        — half-integral vertex-cover LP (double-cover max-flow, simplex)
//	rank/      — duplicate-free pseudo-random edge ranks, seeded generators
//	conflict/  — conflict graph, approximators and the sublinear estimator
//	metrics/   — Prometheus collectors
//	config/    — YAML run configuration
//	cmd/conflictcover — command-line front end
package conflictcover
