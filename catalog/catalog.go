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

// Package catalog defines the version-catalog collaborator contract
// (SPEC_FULL §7): given a (namespace, table name), resolve the table
// version currently visible to readers. The wire format backing a real
// catalog service is collaborator-owned; this module only consumes the
// decoded schema.Schema and []manifest.Entry values.
package catalog

import (
	"context"

	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/nextdataplatform/nextdataplatform/manifest"
	"github.com/nextdataplatform/nextdataplatform/schema"
	"github.com/nextdataplatform/nextdataplatform/version"
)

// ErrTableNotFound is returned by CurrentVersion when no table is
// registered under the requested (namespace, name).
var ErrTableNotFound = errors.NewKind("table not found: %s")

// VersionInfo is everything nextdb.Read needs to build a table.Handle for
// one table's currently-visible version.
type VersionInfo struct {
	VersionID version.ID
	Schema    schema.Schema
	Manifest  []manifest.Entry
}

// Catalog resolves table versions and manifest-entry locations.
type Catalog interface {
	// CurrentVersion returns the version currently visible to readers of
	// (namespace, tableName), failing with ErrTableNotFound if absent.
	CurrentVersion(ctx context.Context, namespace, tableName string) (VersionInfo, error)

	// Resolve turns a manifest entry's raw Location into a location the
	// reader.FileReader collaborator can open directly (e.g. qualifying a
	// relative path against a storage root).
	Resolve(location string) (string, error)
}
