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

// Package memreader is an in-memory reader.FileReader backed by a fixed
// location-to-relation map, for tests and standalone use without a real
// columnar storage layer.
package memreader

import (
	"context"
	"sync"

	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/nextdataplatform/nextdataplatform/internal/similartext"
	"github.com/nextdataplatform/nextdataplatform/relation"
)

// ErrFileNotFound is returned by OpenColumnar when location was never
// registered with Put.
var ErrFileNotFound = errors.NewKind("data file not found: %s")

// FileReader is an in-memory reader.FileReader.
type FileReader struct {
	mu    sync.RWMutex
	files map[string]relation.Relation
}

// New returns an empty FileReader.
func New() *FileReader {
	return &FileReader{files: make(map[string]relation.Relation)}
}

// Put registers the relation available at location, overwriting any prior
// value. Callers normally do this once per fixture before exercising a
// Materialize call against it.
func (r *FileReader) Put(location string, rel relation.Relation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[location] = rel
}

// OpenColumnar implements reader.FileReader.
func (r *FileReader) OpenColumnar(_ context.Context, location string) (relation.Relation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rel, ok := r.files[location]
	if !ok {
		names := make([]string, 0, len(r.files))
		for name := range r.files {
			names = append(names, name)
		}
		return relation.Relation{}, ErrFileNotFound.New(location + similartext.Find(names, location))
	}
	return rel, nil
}
