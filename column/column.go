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

// Package column implements the column handle returned by projecting a
// single column name out of a table handle. Its comparison methods build
// predicate leaves bound to the table's VersionID (SPEC_FULL §4.3).
//
// Handle depends on table only through the small versionedTable interface
// below rather than *table.Handle directly, so that table can depend on
// column (to build a Handle from Project("col")) without the two packages
// forming an import cycle.
package column

import (
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/nextdataplatform/nextdataplatform/literal"
	"github.com/nextdataplatform/nextdataplatform/predicate"
	"github.com/nextdataplatform/nextdataplatform/version"
)

// versionedTable is the one thing a column handle needs from its owning
// table.Handle: the VersionID every predicate leaf built from this column
// must carry.
type versionedTable interface {
	VersionID() version.ID
}

// Handle names a single column of a table handle.
type Handle struct {
	table versionedTable
	name  string
}

// New builds a column handle bound to t and name.
func New(t versionedTable, name string) Handle {
	return Handle{table: t, name: name}
}

// Table returns the column's owning table handle.
func (h Handle) Table() versionedTable { return h.table }

// Name returns the column name.
func (h Handle) Name() string { return h.name }

func (h Handle) leaf(op predicate.Op, args ...any) (predicate.Predicate, error) {
	values := make([]literal.Value, len(args))
	for i, a := range args {
		v, err := literal.From(a)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return predicate.NewLeaf(h.table.VersionID(), h.name, op, values...), nil
}

// Eq builds the predicate `column = v`.
func (h Handle) Eq(v any) (predicate.Predicate, error) { return h.leaf(predicate.EQ, v) }

// Ne builds the predicate `column != v`.
func (h Handle) Ne(v any) (predicate.Predicate, error) { return h.leaf(predicate.NE, v) }

// Lt builds the predicate `column < v`.
func (h Handle) Lt(v any) (predicate.Predicate, error) { return h.leaf(predicate.LT, v) }

// Le builds the predicate `column <= v`.
func (h Handle) Le(v any) (predicate.Predicate, error) { return h.leaf(predicate.LE, v) }

// Gt builds the predicate `column > v`.
func (h Handle) Gt(v any) (predicate.Predicate, error) { return h.leaf(predicate.GT, v) }

// Ge builds the predicate `column >= v`.
func (h Handle) Ge(v any) (predicate.Predicate, error) { return h.leaf(predicate.GE, v) }

// Between builds the predicate `column BETWEEN lo AND hi`.
func (h Handle) Between(lo, hi any) (predicate.Predicate, error) {
	return h.leaf(predicate.BETWEEN, lo, hi)
}

// NotBetween builds the predicate `column NOT BETWEEN lo AND hi`.
func (h Handle) NotBetween(lo, hi any) (predicate.Predicate, error) {
	return h.leaf(predicate.NOT_BETWEEN, lo, hi)
}

// In builds the predicate `column IN (values...)`.
func (h Handle) In(values ...any) (predicate.Predicate, error) {
	return h.leaf(predicate.IN, values...)
}

// NotIn builds the predicate `column NOT IN (values...)`.
func (h Handle) NotIn(values ...any) (predicate.Predicate, error) {
	return h.leaf(predicate.NOT_IN, values...)
}

// AsBool reinterprets the column as a boolean predicate equivalent to
// `column = TRUE`, represented as the integer literal 1 (the execution
// engine's boolean convention, matching relation.IndicatorColumn's use of
// 1 as its truthy sentinel). Used wherever a raw Handle is combined with
// And/Or instead of an already-built Predicate.
func (h Handle) AsBool() (predicate.Predicate, error) { return h.leaf(predicate.EQ, int64(1)) }

// ErrInvalidCombinator is returned by And/Or when the other operand is
// neither a predicate.Predicate nor a column.Handle.
var ErrInvalidCombinator = errors.NewKind("invalid And/Or operand of type %T; expected predicate.Predicate or column.Handle")

// toPredicate accepts either a predicate.Predicate or a column.Handle,
// reinterpreting a bare Handle as boolean per SPEC_FULL §4.3.
func toPredicate(v any) (predicate.Predicate, error) {
	switch x := v.(type) {
	case predicate.Predicate:
		return x, nil
	case Handle:
		return x.AsBool()
	default:
		return nil, ErrInvalidCombinator.New(v)
	}
}

// And combines this column (reinterpreted as boolean) with other, which may
// be a predicate.Predicate or another column.Handle.
func (h Handle) And(other any) (predicate.Predicate, error) {
	self, err := h.AsBool()
	if err != nil {
		return nil, err
	}
	rhs, err := toPredicate(other)
	if err != nil {
		return nil, err
	}
	return predicate.And(self, rhs), nil
}

// Or combines this column (reinterpreted as boolean) with other, which may
// be a predicate.Predicate or another column.Handle.
func (h Handle) Or(other any) (predicate.Predicate, error) {
	self, err := h.AsBool()
	if err != nil {
		return nil, err
	}
	rhs, err := toPredicate(other)
	if err != nil {
		return nil, err
	}
	return predicate.Or(self, rhs), nil
}
