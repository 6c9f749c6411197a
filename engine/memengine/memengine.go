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

// Package memengine is an in-memory engine.Engine: a stand-in for the real
// relational execution engine used by production deployments (e.g. an
// embedded analytical SQL engine), exercised by this module's own tests and
// available to callers with no execution engine of their own. Anti-joins
// are implemented as a hash lookup keyed by github.com/mitchellh/hashstructure
// rather than a nested-loop compare.
package memengine

import (
	"context"
	"fmt"
	"sync"

	"github.com/mitchellh/hashstructure"
	"github.com/pkg/errors"

	"github.com/nextdataplatform/nextdataplatform/engine"
	"github.com/nextdataplatform/nextdataplatform/relation"
)

// Engine is an in-memory, single-call engine.Engine implementation.
type Engine struct {
	mu        sync.Mutex
	relations map[string]relation.Relation
	closed    bool
}

// New returns a fresh Engine session with nothing registered.
func New() *Engine {
	return &Engine{relations: make(map[string]relation.Relation)}
}

// Register implements engine.Engine.
func (e *Engine) Register(_ context.Context, alias string, rel relation.Relation) error {
	if err := rel.CheckNotReserved(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return engine.ErrEngine.New("session is closed")
	}
	e.relations[alias] = rel
	return nil
}

func (e *Engine) lookup(alias string) (relation.Relation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return relation.Relation{}, engine.ErrEngine.New("session is closed")
	}
	rel, ok := e.relations[alias]
	if !ok {
		return relation.Relation{}, engine.ErrEngine.New(fmt.Sprintf("no relation registered under alias %q", alias))
	}
	return rel, nil
}

// RunFragmentQuery implements engine.Engine.
func (e *Engine) RunFragmentQuery(ctx context.Context, alias string, q engine.Query) (relation.Relation, error) {
	rel, err := e.lookup(alias)
	if err != nil {
		return relation.Relation{}, err
	}

	joined, err := applyAntiJoins(rel, q.AntiJoins)
	if err != nil {
		return relation.Relation{}, err
	}

	filtered, err := applyPredicate(joined, q.Predicate)
	if err != nil {
		return relation.Relation{}, err
	}

	if q.Columns == nil {
		return filtered, nil
	}
	out, err := filtered.Project(q.Columns)
	if err != nil {
		return relation.Relation{}, engine.ErrEngine.Wrap(err, err.Error())
	}
	return out, nil
}

// ProjectAntiJoined implements engine.Engine.
func (e *Engine) ProjectAntiJoined(ctx context.Context, alias string, antiJoins []engine.AntiJoin, columns []string) (relation.Relation, error) {
	rel, err := e.lookup(alias)
	if err != nil {
		return relation.Relation{}, err
	}

	joined, err := applyAntiJoins(rel, antiJoins)
	if err != nil {
		return relation.Relation{}, err
	}

	if columns == nil {
		return joined, nil
	}
	out, err := joined.Project(columns)
	if err != nil {
		return relation.Relation{}, engine.ErrEngine.Wrap(err, err.Error())
	}
	return out, nil
}

// Close implements engine.Engine.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.relations = nil
	return nil
}

func indexOf(columns []string, name string) int {
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	return -1
}

func rowKey(row []any, idx []int) ([]any, bool) {
	key := make([]any, len(idx))
	for i, pos := range idx {
		if pos < 0 {
			return nil, false
		}
		key[i] = row[pos]
	}
	return key, true
}

// applyAntiJoins drops every row of rel that matches, on every anti-join's
// OnColumns, some row of that anti-join's Against relation. This is the
// left-join-then-keep-indicator-IS-NULL pattern from SPEC_FULL §4.6,
// implemented directly as a hash anti-join instead of a literal join.
func applyAntiJoins(rel relation.Relation, antiJoins []engine.AntiJoin) (relation.Relation, error) {
	if len(antiJoins) == 0 {
		return rel, nil
	}

	type compiled struct {
		keys    map[uint64]struct{}
		relIdx  []int
	}
	joins := make([]compiled, len(antiJoins))

	for i, aj := range antiJoins {
		againstIdx := make([]int, len(aj.OnColumns))
		for j, c := range aj.OnColumns {
			pos := indexOf(aj.Against.Columns, c)
			if pos < 0 {
				return relation.Relation{}, engine.ErrEngine.New(fmt.Sprintf("anti-join column %q missing from accumulator relation", c))
			}
			againstIdx[j] = pos
		}

		keys := make(map[uint64]struct{}, len(aj.Against.Rows))
		for _, row := range aj.Against.Rows {
			key, ok := rowKey(row, againstIdx)
			if !ok {
				continue
			}
			h, err := hashstructure.Hash(key, nil)
			if err != nil {
				return relation.Relation{}, errors.Wrap(err, "hashing anti-join key")
			}
			keys[h] = struct{}{}
		}

		relIdx := make([]int, len(aj.OnColumns))
		for j, c := range aj.OnColumns {
			pos := indexOf(rel.Columns, c)
			if pos < 0 {
				return relation.Relation{}, engine.ErrEngine.New(fmt.Sprintf("anti-join column %q missing from fragment relation", c))
			}
			relIdx[j] = pos
		}

		joins[i] = compiled{keys: keys, relIdx: relIdx}
	}

	kept := make([][]any, 0, len(rel.Rows))
rows:
	for _, row := range rel.Rows {
		for _, j := range joins {
			key, ok := rowKey(row, j.relIdx)
			if !ok {
				continue
			}
			h, err := hashstructure.Hash(key, nil)
			if err != nil {
				return relation.Relation{}, errors.Wrap(err, "hashing fragment row")
			}
			if _, matched := j.keys[h]; matched {
				continue rows
			}
		}
		kept = append(kept, row)
	}

	return relation.Relation{Columns: rel.Columns, Rows: kept}, nil
}

func applyPredicate(rel relation.Relation, pred interface {
	Eval(cols []string, row []any) (bool, error)
}) (relation.Relation, error) {
	if pred == nil {
		return rel, nil
	}

	kept := make([][]any, 0, len(rel.Rows))
	for _, row := range rel.Rows {
		ok, err := pred.Eval(rel.Columns, row)
		if err != nil {
			return relation.Relation{}, engine.ErrEngine.Wrap(err, err.Error())
		}
		if ok {
			kept = append(kept, row)
		}
	}
	return relation.Relation{Columns: rel.Columns, Rows: kept}, nil
}
