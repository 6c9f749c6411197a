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

package table

import "github.com/nextdataplatform/nextdataplatform/predicate"

// OpKind distinguishes the two builder operations a Handle can accumulate.
type OpKind int

const (
	// OpProjectColumns narrows the handle's column selection.
	OpProjectColumns OpKind = iota
	// OpRestrictRows adds a row-filtering predicate.
	OpRestrictRows
)

func (k OpKind) String() string {
	if k == OpProjectColumns {
		return "ProjectColumns"
	}
	return "RestrictRows"
}

// Op is one accumulated builder operation. Exactly one of Columns/Predicate
// is meaningful, selected by Kind.
type Op struct {
	kind      OpKind
	columns   []string
	predicate predicate.Predicate
}

// ProjectColumnsOp builds an OpProjectColumns operation. Duplicate names are
// permitted; plan.Compile dedups them downstream.
func ProjectColumnsOp(columns []string) Op {
	return Op{kind: OpProjectColumns, columns: append([]string(nil), columns...)}
}

// RestrictRowsOp builds an OpRestrictRows operation.
func RestrictRowsOp(p predicate.Predicate) Op {
	return Op{kind: OpRestrictRows, predicate: p}
}

// Kind reports which operation this is.
func (o Op) Kind() OpKind { return o.kind }

// Columns returns the projected column list for an OpProjectColumns
// operation, or nil otherwise.
func (o Op) Columns() []string { return append([]string(nil), o.columns...) }

// Predicate returns the row filter for an OpRestrictRows operation, or nil
// otherwise.
func (o Op) Predicate() predicate.Predicate { return o.predicate }
