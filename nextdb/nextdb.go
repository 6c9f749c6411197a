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

package nextdb

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	goerrors "gopkg.in/src-d/go-errors.v1"

	"github.com/nextdataplatform/nextdataplatform/catalog"
	"github.com/nextdataplatform/nextdataplatform/engine"
	"github.com/nextdataplatform/nextdataplatform/manifest"
	"github.com/nextdataplatform/nextdataplatform/reader"
	"github.com/nextdataplatform/nextdataplatform/table"
)

// ErrMissingCollaborator is returned by New when a required Config field is
// left unset. Unlike the teacher's Config (a bag of optional tuning knobs),
// every field here names a collaborator this module cannot function
// without, so New validates eagerly rather than leaving a nil to panic deep
// inside a Read call.
var ErrMissingCollaborator = goerrors.NewKind("nextdb: missing required config field %s")

// Config bundles the collaborators a Connection wires into every
// table.Handle it builds.
type Config struct {
	// Catalog resolves a (namespace, table name) to its currently-visible
	// version and qualifies manifest-entry locations.
	Catalog catalog.Catalog
	// Reader opens a resolved manifest-entry location into a relation.
	Reader reader.FileReader
	// NewEngine opens one execution-engine session per merge.Materialize
	// call; see engine.Engine's single-call-scoped contract.
	NewEngine func(ctx context.Context) (engine.Engine, error)
	// Logger receives structured per-fragment logs from merge.Materialize.
	// A nil Logger discards them.
	Logger *logrus.Entry
}

func (cfg Config) validate() error {
	switch {
	case cfg.Catalog == nil:
		return ErrMissingCollaborator.New("Catalog")
	case cfg.Reader == nil:
		return ErrMissingCollaborator.New("Reader")
	case cfg.NewEngine == nil:
		return ErrMissingCollaborator.New("NewEngine")
	default:
		return nil
	}
}

var discardLogger = func() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}()

// Connection is a validated Config ready to build table.Handle values.
// Should call nothing to finalize; it holds no resources of its own, only
// references to collaborators its caller owns.
type Connection struct {
	cfg Config
}

// New validates cfg and returns a Connection. To build one with a
// discarding logger, leave Config.Logger unset.
func New(cfg Config) (*Connection, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = discardLogger
	}
	return &Connection{cfg: cfg}, nil
}

// Read resolves the version of (namespace, tableName) currently visible to
// readers and returns a table.Handle for it. Every manifest entry's
// Location is resolved through Config.Catalog before the handle is built,
// so merge.Materialize's reader.FileReader never sees a raw, catalog-owned
// location (SPEC_FULL §7).
func (c *Connection) Read(ctx context.Context, namespace, tableName string) (*table.Handle, error) {
	info, err := c.cfg.Catalog.CurrentVersion(ctx, namespace, tableName)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving current version of %s.%s", namespace, tableName)
	}

	entries := make([]manifest.Entry, len(info.Manifest))
	for i, e := range info.Manifest {
		loc, err := c.cfg.Catalog.Resolve(e.Location)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving manifest entry %d (%s) of %s.%s", i, e.Location, namespace, tableName)
		}
		entries[i] = manifest.Entry{Kind: e.Kind, Location: loc}
	}

	resources := table.Resources{
		Reader:    c.cfg.Reader,
		NewEngine: c.cfg.NewEngine,
		Logger:    c.cfg.Logger,
	}
	return table.New(info.VersionID, info.Schema, entries, resources), nil
}
