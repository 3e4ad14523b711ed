package predicate

import "strings"

const (
	kwAnd = " and "
	kwOr  = " or "
)

type tokenKind uint8

const (
	tokEnd tokenKind = iota
	tokAnd
	tokOr
	tokOpen
	tokClose
)

// pending operator-stack entries: a connective or an open-group marker.
type pending uint8

const (
	pendAnd pending = iota
	pendOr
	pendGroup
)

// compiler holds the two stacks of the shift-reduce scan.
type compiler struct {
	expr  string
	nodes []node
	trees []int     // completed sub-trees (arena indices)
	ops   []pending // pending connectives and group markers
}

// Compile parses expr into a Predicate.
//
// The scan is a single left-to-right pass. From the current pivot it looks
// for the first of " and ", " or ", "(" and ")"; the text before that token,
// if not blank, is an atom. A connective first reduces a pending connective
// on top of the operator stack (left associativity, no precedence), ")"
// reduces back to its "(", and the end of input performs one last reduction.
//
// Complexity: O(L·k), L = len(expr), k = number of tokens.
func Compile(expr string) (*Predicate, error) {
	if strings.TrimSpace(expr) == "" {
		return truePredicate(), nil
	}
	c := &compiler{expr: expr}
	root, err := c.run()
	if err != nil {
		return nil, err
	}

	return &Predicate{nodes: c.nodes, root: root, expr: strings.TrimSpace(expr)}, nil
}

// MustCompile is Compile that panics on error. Intended for constants in tests
// and examples.
func MustCompile(expr string) *Predicate {
	p, err := Compile(expr)
	if err != nil {
		panic(err)
	}

	return p
}

func (c *compiler) run() (int, error) {
	var (
		pivot int
		pos   int
		tok   tokenKind
		err   error
	)
	for {
		pos, tok = nextToken(c.expr, pivot)

		// 1) Text between pivot and the token is an atom unless blank.
		if seg := c.expr[pivot:pos]; strings.TrimSpace(seg) != "" {
			if err = c.pushAtom(seg, pivot); err != nil {
				return 0, err
			}
		}

		// 2) Shift or reduce on the token itself.
		switch tok {
		case tokEnd:
			return c.finish(pos)
		case tokAnd, tokOr:
			if n := len(c.ops); n > 0 && c.ops[n-1] != pendGroup {
				if err = c.reduce(c.ops[n-1], pos); err != nil {
					return 0, err
				}
				c.ops = c.ops[:n-1]
			}
			if tok == tokAnd {
				c.ops = append(c.ops, pendAnd)
				pivot = pos + len(kwAnd)
			} else {
				c.ops = append(c.ops, pendOr)
				pivot = pos + len(kwOr)
			}
		case tokOpen:
			c.ops = append(c.ops, pendGroup)
			pivot = pos + 1
		case tokClose:
			if err = c.closeGroup(pos); err != nil {
				return 0, err
			}
			pivot = pos + 1
		}
	}
}

// closeGroup reduces until the matching group marker is popped.
func (c *compiler) closeGroup(pos int) error {
	for {
		n := len(c.ops)
		if n == 0 {
			return c.malformed(pos, "')' without matching '('")
		}
		top := c.ops[n-1]
		c.ops = c.ops[:n-1]
		if top == pendGroup {
			return nil
		}
		if err := c.reduce(top, pos); err != nil {
			return err
		}
	}
}

// finish performs the final reduction and checks that exactly one tree remains.
func (c *compiler) finish(pos int) (int, error) {
	if n := len(c.ops); n > 0 && c.ops[n-1] != pendGroup {
		if err := c.reduce(c.ops[n-1], pos); err != nil {
			return 0, err
		}
		c.ops = c.ops[:n-1]
	}
	if len(c.ops) > 0 {
		return 0, c.malformed(pos, "unbalanced '(' or dangling operator at end of input")
	}
	if len(c.trees) != 1 {
		if len(c.trees) == 0 {
			return 0, c.malformed(pos, "empty expression")
		}
		return 0, c.malformed(pos, "sub-expressions without a connecting operator")
	}

	return c.trees[0], nil
}

// reduce pops two trees and pushes their combination under op.
func (c *compiler) reduce(op pending, pos int) error {
	n := len(c.trees)
	if n < 2 {
		return c.malformed(pos, "operator needs two operands")
	}
	kind := kindAnd
	if op == pendOr {
		kind = kindOr
	}
	c.nodes = append(c.nodes, node{kind: kind, left: c.trees[n-2], right: c.trees[n-1]})
	c.trees = append(c.trees[:n-2], len(c.nodes)-1)

	return nil
}

func (c *compiler) pushAtom(seg string, offset int) error {
	attr, op, value, err := parseAtom(seg)
	if err != nil {
		return c.malformed(offset, err.Error())
	}
	c.nodes = append(c.nodes, node{kind: kindCompare, op: op, attr: attr, value: value})
	c.trees = append(c.trees, len(c.nodes)-1)

	return nil
}

func (c *compiler) malformed(pos int, reason string) error {
	return &MalformedError{Expr: c.expr, Offset: pos, Reason: reason}
}

// nextToken returns the position and kind of the first token at or after pivot,
// or (len(expr), tokEnd) when none remains.
func nextToken(expr string, pivot int) (int, tokenKind) {
	rest := expr[pivot:]
	best, kind := len(rest), tokEnd
	probe := func(needle string, k tokenKind) {
		if i := strings.Index(rest, needle); i >= 0 && i < best {
			best, kind = i, k
		}
	}
	probe(kwAnd, tokAnd)
	probe(kwOr, tokOr)
	probe("(", tokOpen)
	probe(")", tokClose)

	return pivot + best, kind
}

type atomError string

func (e atomError) Error() string { return string(e) }

// parseAtom splits "attr op value" at the first operator character.
// Two-character operators are recognised by peeking at the next byte; a lone
// '!' is part of the attribute name.
func parseAtom(s string) (attr string, op Op, value string, err error) {
	var (
		i    int
		cut  = -1
		next byte
	)
	for i = 0; i < len(s) && cut < 0; i++ {
		next = 0
		if i+1 < len(s) {
			next = s[i+1]
		}
		switch s[i] {
		case '>':
			if next == '=' {
				op, cut = GE, i+2
			} else {
				op, cut = GT, i+1
			}
		case '=':
			op, cut = EQ, i+1
		case '!':
			if next == '=' {
				op, cut = NE, i+2
			}
		case '<':
			if next == '=' {
				op, cut = LE, i+2
			} else {
				op, cut = LT, i+1
			}
		}
	}
	if cut < 0 {
		return "", 0, "", atomError("comparison operator expected in " + quote(s))
	}
	// i was advanced once past the operator's first byte.
	attr = strings.TrimSpace(s[:i-1])
	if attr == "" {
		return "", 0, "", atomError("attribute expected before " + op.String())
	}
	value = strings.TrimSpace(s[cut:])

	return attr, op, value, nil
}

func quote(s string) string { return "\"" + strings.TrimSpace(s) + "\"" }
