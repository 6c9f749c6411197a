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

// Package engine defines the relational execution-engine collaborator
// contract (SPEC_FULL §7). The original design (original spec §9) had the
// merge engine hand the collaborator a single textual SQL query built by
// substituting a fragment alias into a string template; this package
// follows the redesign that same section invites ("replace with a
// structured query-builder if the execution engine exposes one") and
// expresses a fragment's work as a Query value instead. plan.Plan can still
// render the equivalent SQL text (plan.Plan.ProjectionClause /
// PredicateClause) for a collaborator that only accepts raw SQL.
package engine

import (
	"context"

	"github.com/nextdataplatform/nextdataplatform/predicate"
	"github.com/nextdataplatform/nextdataplatform/relation"
	errors "gopkg.in/src-d/go-errors.v1"
)

// ErrEngine wraps an underlying execution-engine failure encountered while
// running a fragment query.
var ErrEngine = errors.NewKind("execution engine error: %s")

// AntiJoin describes one of the Deletes/Seen anti-joins a WRITE fragment
// query is left-joined against: keep only rows with no match in Against on
// OnColumns. Against is expected to already carry relation.IndicatorColumn.
type AntiJoin struct {
	Against   relation.Relation
	OnColumns []string
}

// Query is one fragment's compiled work: an optional column projection
// (nil means "all columns"), an optional predicate (nil means "true"), and
// zero or more anti-joins to apply before the predicate.
type Query struct {
	Columns   []string
	Predicate predicate.Predicate
	AntiJoins []AntiJoin
}

// Engine is the relational execution-engine collaborator: it registers
// fragment relations as named views and runs queries against them. A
// single Engine value is scoped to one Materialize call (SPEC_FULL §5); two
// concurrent calls must use independent Engine sessions.
type Engine interface {
	// Register makes rel available under alias for subsequent queries. It
	// fails with relation.ErrReservedColumn if rel already carries the
	// reserved indicator column.
	Register(ctx context.Context, alias string, rel relation.Relation) error

	// RunFragmentQuery runs q against the relation registered under alias,
	// applying AntiJoins, then Predicate, then the Columns projection (or
	// all columns if Columns is nil).
	RunFragmentQuery(ctx context.Context, alias string, q Query) (relation.Relation, error)

	// ProjectAntiJoined applies only antiJoins and the columns projection
	// to the relation registered under alias, ignoring any user predicate.
	// merge uses this to extend the Seen accumulator with exactly the rows
	// that are visible at this table version, independent of query filters
	// (SPEC_FULL §4.6 edge case).
	ProjectAntiJoined(ctx context.Context, alias string, antiJoins []AntiJoin, columns []string) (relation.Relation, error)

	// Close releases the session. Safe to call more than once.
	Close() error
}
