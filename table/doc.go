// Package table defines the row-level contract shared by the conflict graph,
// the predicate engine and the row sources.
//
// What:
//
//   - Row: a single tuple with a stable dense index and string-valued fields.
//   - Record: the map-backed Row used by the in-memory and SQL row sources.
//   - FunctionalDependency: LHS → RHS over attribute names; two rows conflict
//     when they agree on every LHS attribute but differ on some RHS attribute.
//
// Attribute values are opaque strings. Nothing in this package interprets them
// numerically.
//
// Errors:
//
//   - ErrMissingField     a row does not carry the requested attribute.
//   - ErrInvalidDependency a functional dependency has an empty side.
//
// Row sources live in subpackages:
//
//	memtable/ — in-memory rows indexed by FD left-hand side, CSV loading
//	sqltable/ — database/sql backed rows (SQLite, MySQL)
package table
