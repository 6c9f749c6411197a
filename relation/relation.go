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

// Package relation is the columnar value type shared by the catalog, file
// reader, and execution-engine collaborator interfaces: an ordered column
// set plus row tuples. It stands in for whatever in-memory frame type a
// real execution engine would hand back from a fragment query.
package relation

import (
	"fmt"

	errors "gopkg.in/src-d/go-errors.v1"
)

// IndicatorColumn is the single reserved column name (SPEC_FULL §3/§9): the
// merge engine appends it, with constant value 1, to the Seen and Deletes
// accumulator relations so an equi-join followed by an "IS NULL" filter
// behaves as an anti-join. A source relation must not already contain it.
const IndicatorColumn = "__ndb_reserved_indicator__"

// ErrReservedColumn is returned when a relation being registered already
// contains IndicatorColumn.
var ErrReservedColumn = errors.NewKind("column %q is reserved and must not appear in source data")

// ErrUnknownColumn is returned when an operation references a column the
// relation does not have.
var ErrUnknownColumn = errors.NewKind("unknown column %q")

// ErrColumnSetMismatch is returned when two relations expected to share a
// column set do not.
var ErrColumnSetMismatch = errors.NewKind("%s")

// Relation is an ordered column-name list plus a slice of row tuples. Row
// values are untyped (any); the literal package's Compare function is used
// to interpret them against a typed comparison literal.
type Relation struct {
	Columns []string
	Rows    [][]any
}

// New builds a Relation, copying the column list so the caller's slice can
// be reused.
func New(columns []string, rows [][]any) Relation {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return Relation{Columns: cols, Rows: rows}
}

// Empty builds a Relation with the given columns and no rows.
func Empty(columns []string) Relation {
	return New(columns, nil)
}

// index returns the position of name in r.Columns, or -1.
func (r Relation) index(name string) int {
	for i, c := range r.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the relation carries the named column.
func (r Relation) HasColumn(name string) bool {
	return r.index(name) >= 0
}

// CheckNotReserved fails with ErrReservedColumn if the relation already
// carries IndicatorColumn. Called at fragment-registration time per
// SPEC_FULL §9.
func (r Relation) CheckNotReserved() error {
	if r.HasColumn(IndicatorColumn) {
		return ErrReservedColumn.New(IndicatorColumn)
	}
	return nil
}

// Project returns a new Relation containing only the named columns, in the
// requested order. Duplicate names are permitted in columns (matching
// table.Op's ProjectColumns semantics) and produce duplicate output
// columns.
func (r Relation) Project(columns []string) (Relation, error) {
	idx := make([]int, len(columns))
	for i, c := range columns {
		pos := r.index(c)
		if pos < 0 {
			return Relation{}, ErrUnknownColumn.New(c)
		}
		idx[i] = pos
	}

	out := Relation{Columns: append([]string(nil), columns...), Rows: make([][]any, len(r.Rows))}
	for i, row := range r.Rows {
		newRow := make([]any, len(idx))
		for j, pos := range idx {
			newRow[j] = row[pos]
		}
		out.Rows[i] = newRow
	}
	return out, nil
}

// WithIndicatorColumn returns a copy of r with IndicatorColumn appended,
// every row carrying the constant value 1.
func (r Relation) WithIndicatorColumn() Relation {
	out := Relation{
		Columns: append(append([]string(nil), r.Columns...), IndicatorColumn),
		Rows:    make([][]any, len(r.Rows)),
	}
	for i, row := range r.Rows {
		out.Rows[i] = append(append([]any(nil), row...), 1)
	}
	return out
}

// SameColumnSet reports whether a and b contain the same column names,
// ignoring order (an unordered multiset comparison, per SPEC_FULL §4.6's
// HeterogeneousDeletes check).
func SameColumnSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, c := range a {
		counts[c]++
	}
	for _, c := range b {
		counts[c]--
	}
	for _, n := range counts {
		if n != 0 {
			return false
		}
	}
	return true
}

// Reorder returns a copy of r whose columns are permuted to match the
// requested order, which must be the same set of columns r already has (in
// any order). Used to align heterogeneous-but-same-set delete fragments
// before concatenation.
func Reorder(r Relation, columns []string) (Relation, error) {
	if !SameColumnSet(r.Columns, columns) {
		return Relation{}, ErrColumnSetMismatch.New(fmt.Sprintf("cannot reorder %v to %v: different column sets", r.Columns, columns))
	}
	return r.Project(columns)
}

// Concat concatenates rows from a and b, which must share an identical
// (order-sensitive) column list, returning the rows in a, then b order.
func Concat(a, b Relation) (Relation, error) {
	if len(a.Columns) == 0 {
		return b, nil
	}
	if len(b.Columns) == 0 {
		return a, nil
	}
	if len(a.Columns) != len(b.Columns) {
		return Relation{}, ErrColumnSetMismatch.New(fmt.Sprintf("cannot concatenate relations with columns %v and %v", a.Columns, b.Columns))
	}
	for i := range a.Columns {
		if a.Columns[i] != b.Columns[i] {
			return Relation{}, ErrColumnSetMismatch.New(fmt.Sprintf("cannot concatenate relations with columns %v and %v", a.Columns, b.Columns))
		}
	}

	rows := make([][]any, 0, len(a.Rows)+len(b.Rows))
	rows = append(rows, a.Rows...)
	rows = append(rows, b.Rows...)
	return Relation{Columns: a.Columns, Rows: rows}, nil
}
