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

// Package schema holds the table-version schema: currently just the set of
// deduplication-key columns. The on-disk schema file format is owned by the
// version-catalog collaborator (SPEC_FULL §1); this package only models the
// decoded value.
package schema

// Schema describes a table version's shape as far as the read path cares:
// which columns (if any) form the deduplication key.
type Schema struct {
	deduplicationKeys []string
}

// New builds a Schema from an ordered list of deduplication-key column
// names. A nil or empty list is normalized to "no deduplication" per
// SPEC_FULL §3 ("present but empty is not meaningful and treated as
// absent").
func New(deduplicationKeys []string) Schema {
	if len(deduplicationKeys) == 0 {
		return Schema{}
	}
	keys := make([]string, len(deduplicationKeys))
	copy(keys, deduplicationKeys)
	return Schema{deduplicationKeys: keys}
}

// HasDeduplication reports whether this schema designates a deduplication
// key.
func (s Schema) HasDeduplication() bool {
	return len(s.deduplicationKeys) > 0
}

// DeduplicationKeys returns the deduplication-key column names in schema
// order, or nil if the schema has none.
func (s Schema) DeduplicationKeys() []string {
	if len(s.deduplicationKeys) == 0 {
		return nil
	}
	keys := make([]string, len(s.deduplicationKeys))
	copy(keys, s.deduplicationKeys)
	return keys
}
