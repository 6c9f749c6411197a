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

// Package merge implements the materializer: Materialize drives a
// fragment-by-fragment, newest-to-oldest traversal of a table.Handle's
// manifest (SPEC_FULL §4.5/§4.6), maintaining the Seen and Deletes
// accumulator relations, and returns the oldest-to-newest concatenation of
// every WRITE fragment's surviving rows.
//
// Materialize is a free function over *table.Handle rather than a
// table.Handle method, mirroring plan.Compile: table is merge's input
// type, not its importer, so the two packages cannot cycle.
package merge

import (
	"context"
	"io"
	"strconv"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	goerrors "gopkg.in/src-d/go-errors.v1"

	"github.com/nextdataplatform/nextdataplatform/engine"
	"github.com/nextdataplatform/nextdataplatform/manifest"
	"github.com/nextdataplatform/nextdataplatform/plan"
	"github.com/nextdataplatform/nextdataplatform/relation"
	"github.com/nextdataplatform/nextdataplatform/table"
)

// ErrHeterogeneousDeletes is returned when two DELETE fragments in the same
// manifest carry different column sets.
var ErrHeterogeneousDeletes = goerrors.NewKind("delete fragment at manifest index %d has columns %v, expected %v (every delete fragment in a manifest must share the same column set)")

// ErrUnknownFragmentKind is returned for a manifest.Entry whose Kind is
// neither manifest.Write nor manifest.Delete.
var ErrUnknownFragmentKind = goerrors.NewKind("unknown fragment kind %q at manifest index %d")

// ErrCancelled is returned when ctx is cancelled mid-traversal.
var ErrCancelled = goerrors.NewKind("materialize cancelled")

var discardLogger = func() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}()

func loggerFor(h *table.Handle) *logrus.Entry {
	if l := h.Resources().Logger; l != nil {
		return l
	}
	return discardLogger
}

// Materialize returns the full result relation for h, per SPEC_FULL
// §4.5/§4.6.
func Materialize(ctx context.Context, h *table.Handle) (*relation.Relation, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "merge.Materialize")
	defer span.Finish()

	compiled, err := plan.Compile(h)
	if err != nil {
		return nil, err
	}

	log := loggerFor(h)
	entries := h.Manifest()
	sch := h.Schema()
	dedupKeys := sch.DeduplicationKeys()
	hasDedup := sch.HasDeduplication()

	eng, err := h.Resources().NewEngine(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "starting execution engine session")
	}
	defer eng.Close()

	var (
		seen          relation.Relation
		deletes       relation.Relation
		deleteColumns []string
		results       []relation.Relation
	)

	for i := len(entries) - 1; i >= 0; i-- {
		select {
		case <-ctx.Done():
			return nil, ErrCancelled.Wrap(ctx.Err())
		default:
		}

		entry := entries[i]
		fragSpan, fragCtx := opentracing.StartSpanFromContext(ctx, "merge.fragment")
		fragSpan.SetTag("fragment_index", i)
		fragSpan.SetTag("fragment_kind", string(entry.Kind))

		switch entry.Kind {
		case manifest.Write:
			out, extension, rowsIn, err := processWrite(fragCtx, h, eng, compiled, entry, i, deletes, seen, dedupKeys, hasDedup)
			if err != nil {
				fragSpan.Finish()
				return nil, err
			}
			results = append(results, out)
			if hasDedup {
				seen, err = relation.Concat(seen, extension)
				if err != nil {
					fragSpan.Finish()
					return nil, err
				}
			}
			log.WithFields(logrus.Fields{
				"version_id":     int64(h.VersionID()),
				"fragment_index": i,
				"fragment_kind":  "write",
				"rows_in":        rowsIn,
				"rows_out":       len(out.Rows),
			}).Debug("processed fragment")

		case manifest.Delete:
			rel, err := h.Resources().Reader.OpenColumnar(fragCtx, entry.Location)
			if err != nil {
				fragSpan.Finish()
				return nil, errors.Wrapf(err, "reading delete fragment %d (%s)", i, entry.Location)
			}

			if len(deleteColumns) == 0 {
				deleteColumns = rel.Columns
			} else if !relation.SameColumnSet(rel.Columns, deleteColumns) {
				fragSpan.Finish()
				return nil, ErrHeterogeneousDeletes.New(i, rel.Columns, deleteColumns)
			} else {
				rel, err = relation.Reorder(rel, deleteColumns)
				if err != nil {
					fragSpan.Finish()
					return nil, err
				}
			}

			deletes, err = relation.Concat(deletes, rel.WithIndicatorColumn())
			if err != nil {
				fragSpan.Finish()
				return nil, err
			}

			log.WithFields(logrus.Fields{
				"version_id":     int64(h.VersionID()),
				"fragment_index": i,
				"fragment_kind":  "delete",
				"rows_in":        len(rel.Rows),
			}).Debug("processed fragment")

		default:
			fragSpan.Finish()
			return nil, ErrUnknownFragmentKind.New(entry.Kind, i)
		}

		fragSpan.Finish()
	}

	final, err := concatReversed(results, compiled)
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"version_id": int64(h.VersionID()),
		"fragments":  len(entries),
		"rows_out":   len(final.Rows),
	}).Info("materialized table version")

	return final, nil
}

// processWrite registers a WRITE fragment, runs its compiled query
// anti-joined against the non-empty accumulators, and (if a deduplication
// key is set) computes the Seen extension ignoring the user predicate.
func processWrite(
	ctx context.Context,
	h *table.Handle,
	eng engine.Engine,
	compiled *plan.Plan,
	entry manifest.Entry,
	index int,
	deletes, seen relation.Relation,
	dedupKeys []string,
	hasDedup bool,
) (out relation.Relation, seenExtension relation.Relation, rowsIn int, err error) {
	alias := aliasFor(index)

	rel, err := h.Resources().Reader.OpenColumnar(ctx, entry.Location)
	if err != nil {
		return relation.Relation{}, relation.Relation{}, 0, errors.Wrapf(err, "reading write fragment %d (%s)", index, entry.Location)
	}
	rowsIn = len(rel.Rows)

	if err := eng.Register(ctx, alias, rel); err != nil {
		return relation.Relation{}, relation.Relation{}, 0, err
	}

	var antiJoins []engine.AntiJoin
	if len(deletes.Columns) > 0 {
		antiJoins = append(antiJoins, engine.AntiJoin{Against: deletes, OnColumns: nonIndicatorColumns(deletes.Columns)})
	}
	if hasDedup && len(seen.Columns) > 0 {
		antiJoins = append(antiJoins, engine.AntiJoin{Against: seen, OnColumns: dedupKeys})
	}

	out, err = eng.RunFragmentQuery(ctx, alias, compiled.Query(antiJoins))
	if err != nil {
		return relation.Relation{}, relation.Relation{}, 0, err
	}

	if hasDedup {
		ext, err := eng.ProjectAntiJoined(ctx, alias, antiJoins, dedupKeys)
		if err != nil {
			return relation.Relation{}, relation.Relation{}, 0, err
		}
		seenExtension = ext.WithIndicatorColumn()
	}

	return out, seenExtension, rowsIn, nil
}

// aliasFor names a fragment's registered relation; aliases need only be
// distinct within one Materialize call.
func aliasFor(index int) string {
	return "f" + strconv.Itoa(index)
}

func nonIndicatorColumns(columns []string) []string {
	out := make([]string, 0, len(columns)-1)
	for _, c := range columns {
		if c != relation.IndicatorColumn {
			out = append(out, c)
		}
	}
	return out
}

// concatReversed reverses results (collected newest-first) back into
// oldest-first order and concatenates them. An empty manifest (or one
// with no WRITE fragments) yields an empty relation: if the plan has an
// explicit column projection, that projection is the empty relation's
// column set; schema.Schema carries only deduplication keys, not a full
// column enumeration, so there is no broader fallback list available when
// the projection is "all columns".
func concatReversed(results []relation.Relation, compiled *plan.Plan) (*relation.Relation, error) {
	if len(results) == 0 {
		if cols, ok := compiled.Columns(); ok {
			return &relation.Relation{Columns: cols}, nil
		}
		return &relation.Relation{}, nil
	}

	final := relation.Relation{}
	for i := len(results) - 1; i >= 0; i-- {
		var err error
		final, err = relation.Concat(final, results[i])
		if err != nil {
			return nil, err
		}
	}
	return &final, nil
}
