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

// Package reader defines the columnar file reader collaborator contract
// (SPEC_FULL §7). This module does not implement a real columnar file
// reader (the wire format of a data file is collaborator-owned); it only
// defines the interface merge depends on, plus an in-memory FileReader
// (reader/memreader) for tests and standalone use.
package reader

import (
	"context"

	"github.com/nextdataplatform/nextdataplatform/relation"
)

// FileReader turns a resolved data-file location into a relation with a
// stable column set.
type FileReader interface {
	// OpenColumnar reads the columnar file at location into a relation.
	OpenColumnar(ctx context.Context, location string) (relation.Relation, error)
}
