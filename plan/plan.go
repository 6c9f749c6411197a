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

// Package plan compiles a table.Handle's accumulated ops into a Plan: a
// folded column projection plus a folded row predicate, either of which can
// render as SQL-ish clause text for a collaborator that only accepts raw
// queries, or as an engine.Query for one that accepts a structured query
// (SPEC_FULL §4.4). Compile is a free function rather than a table.Handle
// method so table need not import plan (table.Handle is plan.Compile's
// input, not the other way around).
package plan

import (
	"fmt"
	"strings"

	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/nextdataplatform/nextdataplatform/engine"
	"github.com/nextdataplatform/nextdataplatform/internal/similartext"
	"github.com/nextdataplatform/nextdataplatform/predicate"
	"github.com/nextdataplatform/nextdataplatform/table"
	"github.com/nextdataplatform/nextdataplatform/version"
)

// ErrProjectionWidensSelection is returned when a later ProjectColumns op
// names a column outside the current projection.
var ErrProjectionWidensSelection = errors.NewKind("projection cannot widen previous column selection: %s")

// ErrCrossTableReference is returned when a RestrictRows predicate carries
// a leaf built against a different table version than the handle being
// compiled.
var ErrCrossTableReference = errors.NewKind("predicate references table version %v, expected %v")

// Plan is the folded result of compiling a table.Handle's ops: a column
// projection (nil means "all columns") and a row predicate (nil means
// "true").
type Plan struct {
	columns []string
	pred    predicate.Predicate
}

// Compile folds h.Ops() into a Plan per SPEC_FULL §4.4: ProjectColumns ops
// fold left-to-right with each later projection required to be a subset of
// the current one (ErrProjectionWidensSelection otherwise); RestrictRows
// ops fold into a left-associative AND, each checked against h's VersionID
// (ErrCrossTableReference otherwise).
func Compile(h *table.Handle) (*Plan, error) {
	p := &Plan{}

	for _, op := range h.Ops() {
		switch op.Kind() {
		case table.OpProjectColumns:
			cols := op.Columns()
			seenCol := make(map[string]bool, len(cols))
			unique := cols[:0]
			for _, c := range cols {
				if !seenCol[c] {
					seenCol[c] = true
					unique = append(unique, c)
				}
			}
			cols = unique
			if p.columns == nil {
				p.columns = cols
				continue
			}
			if offending := widened(cols, p.columns); len(offending) > 0 {
				return nil, ErrProjectionWidensSelection.New(describeOffending(offending, p.columns))
			}
			p.columns = cols

		case table.OpRestrictRows:
			rowPred := op.Predicate()
			err := predicate.CheckVersion(rowPred, h.VersionID(), func(got, want version.ID) error {
				return ErrCrossTableReference.New(got, want)
			})
			if err != nil {
				return nil, err
			}
			if p.pred == nil {
				p.pred = rowPred
			} else {
				p.pred = predicate.And(p.pred, rowPred)
			}
		}
	}

	return p, nil
}

// widened returns the elements of cols that are not members of allowed.
func widened(cols, allowed []string) []string {
	set := make(map[string]bool, len(allowed))
	for _, c := range allowed {
		set[c] = true
	}
	var offending []string
	for _, c := range cols {
		if !set[c] {
			offending = append(offending, c)
		}
	}
	return offending
}

func describeOffending(offending, allowed []string) string {
	parts := make([]string, len(offending))
	for i, c := range offending {
		parts[i] = c + similartext.Find(allowed, c)
	}
	return strings.Join(parts, ", ")
}

// Columns returns the folded column projection and whether one is set at
// all (false means "all columns").
func (p *Plan) Columns() ([]string, bool) {
	if p.columns == nil {
		return nil, false
	}
	return append([]string(nil), p.columns...), true
}

// Predicate returns the folded row predicate, or nil if none was set.
func (p *Plan) Predicate() predicate.Predicate { return p.pred }

// ProjectionClause renders the folded projection as a SQL-ish SELECT
// clause, substituting alias for the fragment alias.
func (p *Plan) ProjectionClause(alias string) string {
	if p.columns == nil {
		return fmt.Sprintf("SELECT %s.*", alias)
	}
	parts := make([]string, len(p.columns))
	for i, c := range p.columns {
		parts[i] = fmt.Sprintf("%s.%q", alias, c)
	}
	return "SELECT " + strings.Join(parts, ", ")
}

// PredicateClause renders the folded predicate as a SQL-ish WHERE
// condition, or the literal "TRUE" if there is none.
func (p *Plan) PredicateClause(alias string) (string, error) {
	if p.pred == nil {
		return "TRUE", nil
	}
	return p.pred.Render(alias)
}

// Query returns the structured engine.Query equivalent to this plan, for a
// collaborator that accepts a query builder instead of raw SQL text.
// antiJoins is threaded through unchanged; merge is the only caller that
// knows what anti-joins a given fragment needs.
func (p *Plan) Query(antiJoins []engine.AntiJoin) engine.Query {
	cols, _ := p.Columns()
	return engine.Query{Columns: cols, Predicate: p.pred, AntiJoins: antiJoins}
}
