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

// Package memcatalog is an in-memory catalog.Catalog, either built up
// programmatically with Put or loaded in bulk from a YAML fixture with
// LoadFixture — the "serialized test fixture" pattern the teacher's own
// in-memory test harnesses use for larger tables.
package memcatalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/nextdataplatform/nextdataplatform/catalog"
	"github.com/nextdataplatform/nextdataplatform/internal/similartext"
	"github.com/nextdataplatform/nextdataplatform/manifest"
	"github.com/nextdataplatform/nextdataplatform/schema"
	"github.com/nextdataplatform/nextdataplatform/version"
)

// Catalog is an in-memory catalog.Catalog.
type Catalog struct {
	mu           sync.RWMutex
	tables       map[string]catalog.VersionInfo
	baseLocation string
}

// New returns an empty Catalog. baseLocation prefixes any Location that
// Resolve is asked to resolve and that does not already look absolute
// (contains "://").
func New(baseLocation string) *Catalog {
	return &Catalog{tables: make(map[string]catalog.VersionInfo), baseLocation: baseLocation}
}

func key(namespace, tableName string) string {
	return namespace + "." + tableName
}

// Put registers (or replaces) the version info visible for (namespace,
// tableName).
func (c *Catalog) Put(namespace, tableName string, info catalog.VersionInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables[key(namespace, tableName)] = info
}

// CurrentVersion implements catalog.Catalog.
func (c *Catalog) CurrentVersion(_ context.Context, namespace, tableName string) (catalog.VersionInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	k := key(namespace, tableName)
	info, ok := c.tables[k]
	if !ok {
		names := make([]string, 0, len(c.tables))
		for name := range c.tables {
			names = append(names, name)
		}
		return catalog.VersionInfo{}, catalog.ErrTableNotFound.New(k + similartext.Find(names, k))
	}
	return info, nil
}

// Resolve implements catalog.Catalog: a location already carrying a
// scheme ("s3://...", "file://...") is returned unchanged; otherwise it is
// joined onto baseLocation.
func (c *Catalog) Resolve(location string) (string, error) {
	if strings.Contains(location, "://") {
		return location, nil
	}
	if c.baseLocation == "" {
		return location, nil
	}
	return strings.TrimSuffix(c.baseLocation, "/") + "/" + strings.TrimPrefix(location, "/"), nil
}

type fixture struct {
	Tables []fixtureTable `yaml:"tables"`
}

type fixtureTable struct {
	Namespace         string         `yaml:"namespace"`
	Name              string         `yaml:"name"`
	VersionID         int64          `yaml:"version_id"`
	DeduplicationKeys []string       `yaml:"deduplication_keys"`
	Manifest          []fixtureEntry `yaml:"manifest"`
}

type fixtureEntry struct {
	Kind     string `yaml:"kind"`
	Location string `yaml:"location"`
}

// LoadFixture decodes a YAML document describing a set of tables and their
// manifests into a new Catalog. See SPEC_FULL §6 for the fixture's wiring
// rationale.
func LoadFixture(data []byte, baseLocation string) (*Catalog, error) {
	var f fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "decoding catalog fixture")
	}

	c := New(baseLocation)
	for _, t := range f.Tables {
		entries := make([]manifest.Entry, len(t.Manifest))
		for i, e := range t.Manifest {
			kind := manifest.Write
			if e.Kind == string(manifest.Delete) {
				kind = manifest.Delete
			} else if e.Kind != string(manifest.Write) {
				return nil, fmt.Errorf("catalog fixture: table %s.%s: unknown manifest entry kind %q", t.Namespace, t.Name, e.Kind)
			}
			entries[i] = manifest.Entry{Kind: kind, Location: e.Location}
		}
		c.Put(t.Namespace, t.Name, catalog.VersionInfo{
			VersionID: version.ID(t.VersionID),
			Schema:    schema.New(t.DeduplicationKeys),
			Manifest:  entries,
		})
	}
	return c, nil
}
