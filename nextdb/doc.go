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

// Package nextdb wires the version catalog, file reader, and execution
// engine collaborators (SPEC_FULL §7) into a table.Handle. It is the
// module's single entry point: Connection.Read resolves a table's
// currently-visible version through a catalog.Catalog, resolves every
// manifest entry's location through that same catalog, and returns a
// table.Handle ready for Project/merge.Materialize.
package nextdb
