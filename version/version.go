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

// Package version defines the opaque, totally-ordered identifier for a
// table version. It has no dependencies so that every other package in this
// module can tag values with a VersionID without risking an import cycle.
package version

// ID identifies a single version of a table. Versions are totally ordered;
// a larger ID is a newer version. The zero value is not a valid version.
type ID int64

// Less reports whether id identifies an older version than other.
func (id ID) Less(other ID) bool {
	return id < other
}
