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

// Package table implements TableHandle: an immutable, lazily-built
// description of a read against one table version. Every builder method
// (Project) returns a new Handle; nothing I/O-bound happens until a caller
// passes a Handle to plan.Compile and merge.Materialize. Those two live in
// sibling packages rather than as methods on Handle itself, mirroring how
// the teacher runs a query plan through a free-standing analyzer/executor
// instead of a method on the plan node — doing it as methods here would
// make table import both plan and merge while merge needs a *Handle
// parameter, an import cycle.
package table

import (
	"context"

	"github.com/sirupsen/logrus"
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/nextdataplatform/nextdataplatform/column"
	"github.com/nextdataplatform/nextdataplatform/engine"
	"github.com/nextdataplatform/nextdataplatform/manifest"
	"github.com/nextdataplatform/nextdataplatform/predicate"
	"github.com/nextdataplatform/nextdataplatform/reader"
	"github.com/nextdataplatform/nextdataplatform/schema"
	"github.com/nextdataplatform/nextdataplatform/version"
)

// ErrInvalidSelector is returned by Project when selector is not a string,
// []string, column.Handle, or predicate.Predicate.
var ErrInvalidSelector = errors.NewKind("invalid selector of type %T; expected string, []string, column.Handle, or predicate.Predicate")

// Resources bundles the collaborators merge.Materialize needs to run a
// Handle: the columnar file reader, an execution-engine session factory
// (one session per Materialize call, per engine.Engine's contract), and a
// logger. The zero value's Logger is nil; callers needing structured
// Materialize logs should set one.
type Resources struct {
	Reader    reader.FileReader
	NewEngine func(ctx context.Context) (engine.Engine, error)
	Logger    *logrus.Entry
}

// Handle is an immutable description of a read against one table version.
// Builder methods (Project) allocate a new Handle; none of them perform
// I/O or touch Resources.
type Handle struct {
	versionID version.ID
	schema    schema.Schema
	manifest  []manifest.Entry
	ops       []Op
	resources Resources
}

// New builds the base Handle for a table version: no ops accumulated yet.
func New(versionID version.ID, sch schema.Schema, entries []manifest.Entry, res Resources) *Handle {
	return &Handle{
		versionID: versionID,
		schema:    sch,
		manifest:  append([]manifest.Entry(nil), entries...),
		resources: res,
	}
}

// VersionID implements column.versionedTable and predicate.CheckVersion's
// expected accessor.
func (h *Handle) VersionID() version.ID { return h.versionID }

// Schema returns the handle's deduplication schema.
func (h *Handle) Schema() schema.Schema { return h.schema }

// Manifest returns a copy of the handle's ordered data-file entries,
// oldest first.
func (h *Handle) Manifest() []manifest.Entry {
	return append([]manifest.Entry(nil), h.manifest...)
}

// Ops returns a copy of the handle's accumulated builder operations, in
// the order they were applied.
func (h *Handle) Ops() []Op {
	return append([]Op(nil), h.ops...)
}

// Resources returns the handle's collaborators.
func (h *Handle) Resources() Resources { return h.resources }

func (h *Handle) withOp(op Op) *Handle {
	return &Handle{
		versionID: h.versionID,
		schema:    h.schema,
		manifest:  h.manifest,
		ops:       append(append([]Op(nil), h.ops...), op),
		resources: h.resources,
	}
}

// Project narrows the handle per SPEC_FULL §4.1:
//   - string: returns a column.Handle naming that column.
//   - []string: returns a new *Handle with an OpProjectColumns op appended.
//   - predicate.Predicate: returns a new *Handle with an OpRestrictRows op
//     appended.
//   - column.Handle: reinterpreted as boolean (column = TRUE), then the
//     same as the predicate.Predicate case.
//
// Any other selector type fails with ErrInvalidSelector.
func (h *Handle) Project(selector any) (any, error) {
	switch s := selector.(type) {
	case string:
		return column.New(h, s), nil
	case []string:
		return h.withOp(ProjectColumnsOp(s)), nil
	case predicate.Predicate:
		return h.withOp(RestrictRowsOp(s)), nil
	case column.Handle:
		p, err := s.AsBool()
		if err != nil {
			return nil, err
		}
		return h.withOp(RestrictRowsOp(p)), nil
	default:
		return nil, ErrInvalidSelector.New(selector)
	}
}
