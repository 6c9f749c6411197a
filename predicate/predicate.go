// Copyright 2024 Nextdataplatform, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package predicate implements the predicate tree: an immutable tagged
// tree of boolean expressions built from column-vs-literal comparisons and
// AND/OR combinators. It supports structural negation (De Morgan),
// evaluates against a row directly (the way the teacher's sql.Expression
// evaluates against a sql.Row), and compiles to a predicate clause for
// collaborators that want literal SQL text instead.
package predicate

import (
	"fmt"
	"strings"

	"github.com/nextdataplatform/nextdataplatform/literal"
	"github.com/nextdataplatform/nextdataplatform/version"
	errors "gopkg.in/src-d/go-errors.v1"
)

// Op is a column-vs-literal comparison operator.
type Op int

const (
	EQ Op = iota
	NE
	LT
	LE
	GT
	GE
	BETWEEN
	NOT_BETWEEN
	IN
	NOT_IN
)

func (o Op) String() string {
	switch o {
	case EQ:
		return "="
	case NE:
		return "!="
	case LT:
		return "<"
	case LE:
		return "<="
	case GT:
		return ">"
	case GE:
		return ">="
	case BETWEEN:
		return "BETWEEN"
	case NOT_BETWEEN:
		return "NOT BETWEEN"
	case IN:
		return "IN"
	case NOT_IN:
		return "NOT IN"
	default:
		return "?"
	}
}

// negate returns the complemented operator (EQ<->NE, LT<->GE, LE<->GT,
// BETWEEN<->NOT_BETWEEN, IN<->NOT_IN), per SPEC_FULL §4.2.
func (o Op) negate() Op {
	switch o {
	case EQ:
		return NE
	case NE:
		return EQ
	case LT:
		return GE
	case GE:
		return LT
	case LE:
		return GT
	case GT:
		return LE
	case BETWEEN:
		return NOT_BETWEEN
	case NOT_BETWEEN:
		return BETWEEN
	case IN:
		return NOT_IN
	case NOT_IN:
		return IN
	default:
		return o
	}
}

// ErrUnknownOp is returned if an Op value outside the declared set reaches
// evaluation or rendering.
var ErrUnknownOp = errors.NewKind("unknown comparison operator %v")

// Predicate is an immutable node in the predicate tree. Both *Leaf and
// *Logical implement it.
type Predicate interface {
	// Not returns the structural negation of this predicate.
	Not() Predicate
	// Render compiles the predicate into a predicate clause, substituting
	// alias for the fragment alias placeholder.
	Render(alias string) (string, error)
	// Eval evaluates the predicate against one row of a relation whose
	// column order is cols.
	Eval(cols []string, row []any) (bool, error)
	// walk visits every Leaf reachable from this predicate.
	walk(visit func(*Leaf))
}

// Leaf is a single column-vs-literal comparison, e.g. `a.Eq(3)`.
type Leaf struct {
	table  version.ID
	Column string
	Op     Op
	Args   []literal.Value
}

// NewLeaf builds a comparison leaf. table is the VersionID of the handle
// the column was drawn from (SPEC_FULL §4.2's cross-version rule checks
// this at plan-compile time, not here).
func NewLeaf(table version.ID, column string, op Op, args ...literal.Value) *Leaf {
	return &Leaf{table: table, Column: column, Op: op, Args: args}
}

// Table returns the VersionID this leaf was built against.
func (l *Leaf) Table() version.ID { return l.table }

// Not implements Predicate.
func (l *Leaf) Not() Predicate {
	return &Leaf{table: l.table, Column: l.Column, Op: l.Op.negate(), Args: l.Args}
}

func (l *Leaf) walk(visit func(*Leaf)) { visit(l) }

// Render implements Predicate.
func (l *Leaf) Render(alias string) (string, error) {
	qualified := fmt.Sprintf("%s.%q", alias, l.Column)

	switch l.Op {
	case BETWEEN, NOT_BETWEEN:
		if len(l.Args) != 2 {
			return "", ErrUnknownOp.New(l.Op)
		}
		a, err := l.Args[0].Render()
		if err != nil {
			return "", err
		}
		b, err := l.Args[1].Render()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s %s AND %s)", qualified, l.Op, a, b), nil
	case IN, NOT_IN:
		rendered := make([]string, len(l.Args))
		for i, arg := range l.Args {
			r, err := arg.Render()
			if err != nil {
				return "", err
			}
			rendered[i] = r
		}
		return fmt.Sprintf("(%s %s (%s))", qualified, l.Op, strings.Join(rendered, ", ")), nil
	case EQ, NE, LT, LE, GT, GE:
		if len(l.Args) != 1 {
			return "", ErrUnknownOp.New(l.Op)
		}
		r, err := l.Args[0].Render()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s %s)", qualified, l.Op, r), nil
	default:
		return "", ErrUnknownOp.New(l.Op)
	}
}

// Eval implements Predicate.
func (l *Leaf) Eval(cols []string, row []any) (bool, error) {
	pos := -1
	for i, c := range cols {
		if c == l.Column {
			pos = i
			break
		}
	}
	if pos < 0 {
		return false, fmt.Errorf("column %q not present in row", l.Column)
	}
	value := row[pos]
	if value == nil {
		// SQL NULL semantics: any comparison against NULL is unknown/false.
		return false, nil
	}

	switch l.Op {
	case EQ:
		c, err := literal.Compare(value, l.Args[0])
		return err == nil && c == 0, err
	case NE:
		c, err := literal.Compare(value, l.Args[0])
		return err == nil && c != 0, err
	case LT:
		c, err := literal.Compare(value, l.Args[0])
		return err == nil && c < 0, err
	case LE:
		c, err := literal.Compare(value, l.Args[0])
		return err == nil && c <= 0, err
	case GT:
		c, err := literal.Compare(value, l.Args[0])
		return err == nil && c > 0, err
	case GE:
		c, err := literal.Compare(value, l.Args[0])
		return err == nil && c >= 0, err
	case BETWEEN, NOT_BETWEEN:
		lo, err := literal.Compare(value, l.Args[0])
		if err != nil {
			return false, err
		}
		hi, err := literal.Compare(value, l.Args[1])
		if err != nil {
			return false, err
		}
		between := lo >= 0 && hi <= 0
		if l.Op == NOT_BETWEEN {
			return !between, nil
		}
		return between, nil
	case IN, NOT_IN:
		found := false
		for _, arg := range l.Args {
			c, err := literal.Compare(value, arg)
			if err != nil {
				return false, err
			}
			if c == 0 {
				found = true
				break
			}
		}
		if l.Op == NOT_IN {
			return !found, nil
		}
		return found, nil
	default:
		return false, ErrUnknownOp.New(l.Op)
	}
}

// LogicalOp distinguishes AND from OR in a Logical node.
type LogicalOp int

const (
	AND LogicalOp = iota
	OR
)

func (o LogicalOp) String() string {
	if o == AND {
		return "AND"
	}
	return "OR"
}

// Logical is an internal AND/OR node.
type Logical struct {
	Op          LogicalOp
	left, right Predicate
}

// And combines two predicates with AND.
func And(p, q Predicate) Predicate { return &Logical{Op: AND, left: p, right: q} }

// Or combines two predicates with OR.
func Or(p, q Predicate) Predicate { return &Logical{Op: OR, left: p, right: q} }

// Left returns the left child.
func (n *Logical) Left() Predicate { return n.left }

// Right returns the right child.
func (n *Logical) Right() Predicate { return n.right }

// Not implements Predicate via De Morgan's laws: NOT(A AND B) = NOT(A) OR
// NOT(B), and NOT(A OR B) = NOT(A) AND NOT(B).
func (n *Logical) Not() Predicate {
	if n.Op == AND {
		return Or(n.left.Not(), n.right.Not())
	}
	return And(n.left.Not(), n.right.Not())
}

func (n *Logical) walk(visit func(*Leaf)) {
	n.left.walk(visit)
	n.right.walk(visit)
}

// Render implements Predicate.
func (n *Logical) Render(alias string) (string, error) {
	left, err := n.left.Render(alias)
	if err != nil {
		return "", err
	}
	right, err := n.right.Render(alias)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(%s %s %s)", left, n.Op, right), nil
}

// Eval implements Predicate.
func (n *Logical) Eval(cols []string, row []any) (bool, error) {
	left, err := n.left.Eval(cols, row)
	if err != nil {
		return false, err
	}
	if n.Op == AND && !left {
		return false, nil
	}
	if n.Op == OR && left {
		return true, nil
	}
	return n.right.Eval(cols, row)
}

// Columns returns every distinct column name referenced anywhere in p, in
// first-seen order.
func Columns(p Predicate) []string {
	seen := map[string]bool{}
	var out []string
	p.walk(func(l *Leaf) {
		if !seen[l.Column] {
			seen[l.Column] = true
			out = append(out, l.Column)
		}
	})
	return out
}

// CheckVersion reports whether every leaf reachable from p was built
// against want, failing the caller-supplied error otherwise. plan.Compile
// uses this to enforce SPEC_FULL §4.2's cross-version rule.
func CheckVersion(p Predicate, want version.ID, onMismatch func(got, want version.ID) error) error {
	var err error
	p.walk(func(l *Leaf) {
		if err == nil && l.table != want {
			err = onMismatch(l.table, want)
		}
	})
	return err
}
