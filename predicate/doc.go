// Package predicate compiles restricted boolean filter expressions into an
// immutable expression tree and evaluates it against table rows.
//
// Grammar (keywords are case-sensitive):
//
//	Expr := Atom | Expr " and " Expr | Expr " or " Expr | "(" Expr ")"
//	Atom := Attribute Op Value
//	Op   := ">" | ">=" | "=" | "!=" | "<=" | "<"
//
// There is no operator precedence: "and" and "or" combine strictly left to
// right unless parentheses say otherwise, so
//
//	a = 1 or b = 2 and c = 3   ≡   (a = 1 or b = 2) and c = 3
//
// Comparisons are byte-wise lexicographic on strings. "10" < "9" holds.
//
// The empty expression compiles to the always-true predicate, rendered as "1 = 1".
//
// Errors:
//
//	ErrMalformedPredicate - the expression violates the grammar; the concrete
//	                        *MalformedError carries the offset and reason.
//	table.ErrMissingField - Satisfy met a row without a referenced attribute.
//
// Complexity:
//
//	Compile: O(L) stack work plus O(L·k) substring scanning, L = len(expr), k = #tokens.
//	Satisfy: O(N) for N tree nodes; both children of every and/or are evaluated.
package predicate
