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

// Package manifest models a table version's manifest: the ordered sequence
// of data-file entries the merge engine walks. The data-list file's wire
// format is owned by the version-catalog collaborator (SPEC_FULL §1); this
// package only models the decoded value.
package manifest

// Kind distinguishes a WRITE fragment (new rows) from a DELETE fragment
// (key tuples to suppress).
type Kind string

const (
	// Write fragments contribute rows.
	Write Kind = "write"
	// Delete fragments suppress rows contributed by older WRITEs.
	Delete Kind = "delete"
)

// Entry is one manifest entry: a fragment kind and the location the file
// reader collaborator resolves into a relation.
type Entry struct {
	Kind     Kind
	Location string
}
